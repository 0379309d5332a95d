package repositories

import (
	"context"
	"sort"
	"time"

	"ride-analytics-backend/db/models"
)

// RouteDifference is the member route with the biggest absolute gap between
// Monday and Sunday volume.
type RouteDifference struct {
	StartStationID   string
	StartStationName *string
	EndStationID     string
	EndStationName   *string
	MemberMondayCount int
	MemberSundayCount int
	NetDifference     int
	AbsDifference     int
	TotalMemberCount  int
}

func (r *reportRepository) BiggestMemberMondaySundayRoute(ctx context.Context, minTotalMondaySundayMembers int) (*RouteDifference, error) {
	var rows []struct {
		StartStationID string
		EndStationID   string
		StartedAt      time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("start_station_id", "end_station_id", "started_at").
		Where("member_type = ? AND start_station_id IS NOT NULL AND end_station_id IS NOT NULL", models.MemberTypeMember).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type route struct{ start, end string }
	type tally struct{ monday, sunday int }
	perRoute := make(map[route]*tally)
	for _, row := range rows {
		weekday := row.StartedAt.Weekday()
		if weekday != time.Monday && weekday != time.Sunday {
			continue
		}
		key := route{row.StartStationID, row.EndStationID}
		t, ok := perRoute[key]
		if !ok {
			t = &tally{}
			perRoute[key] = t
		}
		if weekday == time.Monday {
			t.monday++
		} else {
			t.sunday++
		}
	}

	var candidates []RouteDifference
	for key, t := range perRoute {
		total := t.monday + t.sunday
		if total < minTotalMondaySundayMembers {
			continue
		}
		net := t.monday - t.sunday
		abs := net
		if abs < 0 {
			abs = -abs
		}
		candidates = append(candidates, RouteDifference{
			StartStationID:    key.start,
			EndStationID:      key.end,
			MemberMondayCount: t.monday,
			MemberSundayCount: t.sunday,
			NetDifference:     net,
			AbsDifference:     abs,
			TotalMemberCount:  total,
		})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].AbsDifference != candidates[j].AbsDifference {
			return candidates[i].AbsDifference > candidates[j].AbsDifference
		}
		if candidates[i].TotalMemberCount != candidates[j].TotalMemberCount {
			return candidates[i].TotalMemberCount > candidates[j].TotalMemberCount
		}
		if candidates[i].StartStationID != candidates[j].StartStationID {
			return candidates[i].StartStationID < candidates[j].StartStationID
		}
		return candidates[i].EndStationID < candidates[j].EndStationID
	})

	names, err := r.stationNames(ctx)
	if err != nil {
		return nil, err
	}

	top := candidates[0]
	top.StartStationName = names[top.StartStationID]
	top.EndStationName = names[top.EndStationID]
	return &top, nil
}
