package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ride-analytics-backend/db/models"
	"ride-analytics-backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 2024-07-06 is a Saturday; the following days cover Sunday and Monday.
var (
	saturday = time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC)
	sunday   = saturday.AddDate(0, 0, 1)
	monday   = saturday.AddDate(0, 0, 2)
)

func newReportDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Station{}, &models.Ride{}, &models.ImportError{}))
	return db
}

var rideSeq int

func seedRide(t *testing.T, db *gorm.DB, memberType models.MemberType, startedAt time.Time, duration time.Duration, startStation, endStation string) {
	t.Helper()
	rideSeq++

	ride := models.Ride{
		RideID:     fmt.Sprintf("seed-%05d", rideSeq),
		StartedAt:  startedAt,
		EndedAt:    startedAt.Add(duration),
		MemberType: memberType,
	}
	if startStation != "" {
		ride.StartStationID = utils.StringPtr(startStation)
	}
	if endStation != "" {
		ride.EndStationID = utils.StringPtr(endStation)
	}
	require.NoError(t, db.Create(&ride).Error)
}

func seedStation(t *testing.T, db *gorm.DB, stationID, name string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Station{
		StationID:   stationID,
		Name:        utils.StringPtr(name),
		FirstSeenAt: saturday,
		LastSeenAt:  monday,
	}).Error)
}

func TestWeekendDurationStats(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	seedRide(t, db, models.MemberTypeMember, saturday.Add(9*time.Hour), 10*time.Minute, "", "")
	seedRide(t, db, models.MemberTypeMember, sunday.Add(9*time.Hour), 20*time.Minute, "", "")
	seedRide(t, db, models.MemberTypeCasual, saturday.Add(12*time.Hour), 30*time.Minute, "", "")
	// Monday rides stay out of the weekend sample.
	seedRide(t, db, models.MemberTypeMember, monday.Add(9*time.Hour), 90*time.Minute, "", "")

	stats, err := repo.WeekendDurationStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byType := make(map[models.MemberType]WeekendDurationStat)
	for _, s := range stats {
		byType[s.MemberType] = s
	}

	member := byType[models.MemberTypeMember]
	assert.Equal(t, 2, member.RideCount)
	assert.InDelta(t, 900.0, member.AverageSeconds, 0.01)
	assert.InDelta(t, 900.0, member.MedianSeconds, 0.01)

	casual := byType[models.MemberTypeCasual]
	assert.Equal(t, 1, casual.RideCount)
	assert.InDelta(t, 1800.0, casual.AverageSeconds, 0.01)
}

func TestTouristStations(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	seedStation(t, db, "S1", "Central Park S")
	seedStation(t, db, "S2", "Commuter Hub")

	// S1: three weekend mid-day rides, two casual.
	seedRide(t, db, models.MemberTypeCasual, saturday.Add(11*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeCasual, sunday.Add(14*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeMember, saturday.Add(16*time.Hour), 10*time.Minute, "S1", "")
	// Outside the 10:00-18:00 window; must not count.
	seedRide(t, db, models.MemberTypeCasual, saturday.Add(8*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeCasual, saturday.Add(18*time.Hour), 10*time.Minute, "S1", "")

	// S2: weekend window but all members.
	seedRide(t, db, models.MemberTypeMember, saturday.Add(12*time.Hour), 10*time.Minute, "S2", "")
	seedRide(t, db, models.MemberTypeMember, sunday.Add(12*time.Hour), 10*time.Minute, "S2", "")

	results, err := repo.TouristStations(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "S1", results[0].StationID)
	require.NotNil(t, results[0].StationName)
	assert.Equal(t, "Central Park S", *results[0].StationName)
	assert.Equal(t, 3, results[0].TotalRides)
	assert.Equal(t, 2, results[0].CasualRides)
	assert.InDelta(t, 2.0/3.0, results[0].CasualShare, 0.0001)

	assert.Equal(t, "S2", results[1].StationID)
	assert.InDelta(t, 0.0, results[1].CasualShare, 0.0001)
}

func TestTouristStationsMinRidesFilter(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	seedRide(t, db, models.MemberTypeCasual, saturday.Add(11*time.Hour), 10*time.Minute, "S1", "")

	results, err := repo.TouristStations(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTopStationsOverall(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	seedStation(t, db, "S1", "Busy")

	seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeMember, monday.Add(9*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeCasual, monday.Add(10*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeUnknown, monday.Add(11*time.Hour), 10*time.Minute, "S1", "")
	seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S2", "")

	results, err := repo.TopStationsOverall(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	top := results[0]
	assert.Equal(t, "S1", top.StationID)
	assert.Equal(t, 4, top.TotalRides)
	assert.Equal(t, 2, top.MemberRides)
	assert.Equal(t, 1, top.CasualRides)
	assert.Equal(t, 1, top.UnknownRides)
	assert.InDelta(t, 0.5, top.MemberShare, 0.0001)
}

func TestUnilateralStationPairs(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	// S1 -> S2 dominates 4:1.
	for i := 0; i < 4; i++ {
		seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S1", "S2")
	}
	seedRide(t, db, models.MemberTypeMember, monday.Add(9*time.Hour), 10*time.Minute, "S2", "S1")
	// Balanced pair; zero net flow sorts last.
	seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S3", "S4")
	seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S4", "S3")

	results, err := repo.UnilateralStationPairs(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	top := results[0]
	assert.Equal(t, "S1", top.FromStationID)
	assert.Equal(t, "S2", top.ToStationID)
	assert.Equal(t, 4, top.TripsFromTo)
	assert.Equal(t, 1, top.TripsToFrom)
	assert.Equal(t, 3, top.NetFlow)
	assert.InDelta(t, 0.8, top.SkewFromTo, 0.0001)

	assert.Equal(t, 0, results[1].NetFlow)
}

func TestBiggestMemberMondaySundayRoute(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	// Route S1->S2: 3 Monday, 1 Sunday member rides.
	for i := 0; i < 3; i++ {
		seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S1", "S2")
	}
	seedRide(t, db, models.MemberTypeMember, sunday.Add(8*time.Hour), 10*time.Minute, "S1", "S2")
	// Casual rides on the same route never count.
	seedRide(t, db, models.MemberTypeCasual, monday.Add(8*time.Hour), 10*time.Minute, "S1", "S2")

	route, err := repo.BiggestMemberMondaySundayRoute(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, "S1", route.StartStationID)
	assert.Equal(t, "S2", route.EndStationID)
	assert.Equal(t, 3, route.MemberMondayCount)
	assert.Equal(t, 1, route.MemberSundayCount)
	assert.Equal(t, 2, route.NetDifference)
	assert.Equal(t, 2, route.AbsDifference)
	assert.Equal(t, 4, route.TotalMemberCount)
}

func TestBiggestMemberMondaySundayRouteNoCandidate(t *testing.T) {
	db := newReportDB(t)
	repo := NewReportRepository(db)

	seedRide(t, db, models.MemberTypeMember, monday.Add(8*time.Hour), 10*time.Minute, "S1", "S2")

	route, err := repo.BiggestMemberMondaySundayRoute(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, route)
}
