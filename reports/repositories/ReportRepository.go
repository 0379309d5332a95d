package repositories

import (
	"context"

	"ride-analytics-backend/db/models"

	"gorm.io/gorm"
)

// ReportRepository answers the aggregate questions against the committed
// station and ride tables. Every query is read-only and takes only simple
// numeric parameters; batch atomicity upstream guarantees the tables are
// never observed half-written.
type ReportRepository interface {
	WeekendDurationStats(ctx context.Context) ([]WeekendDurationStat, error)
	TouristStations(ctx context.Context, minRides, topN int) ([]TouristStation, error)
	UnilateralStationPairs(ctx context.Context, topN, minTotalTrips int) ([]StationPairFlow, error)
	TopStationsPerHourOnMondays(ctx context.Context, topPerHour int) ([]HourlyStationRank, error)
	TopMemberStationsOnThursdays(ctx context.Context, topN, minRides int) ([]MemberStation, error)
	TopStationsOverall(ctx context.Context, topN, minRides int) ([]StationBreakdown, error)
	BiggestMemberMondaySundayRoute(ctx context.Context, minTotalMondaySundayMembers int) (*RouteDifference, error)
	MemberCasualHoursOfWeek(ctx context.Context, topN, minTotalRidesPerSlot int) (*HourOfWeekSplit, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// stationNames loads one station-id to display-name map per report.
func (r *reportRepository) stationNames(ctx context.Context) (map[string]*string, error) {
	var stations []struct {
		StationID string
		Name      *string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Station{}).
		Select("station_id", "name").
		Find(&stations).Error
	if err != nil {
		return nil, err
	}

	names := make(map[string]*string, len(stations))
	for _, s := range stations {
		names[s.StationID] = s.Name
	}
	return names, nil
}
