package repositories

import (
	"context"
	"sort"
	"time"

	"ride-analytics-backend/db/models"
)

// WeekendDurationStat summarizes ride durations for one rider category
// across Saturday and Sunday rides.
type WeekendDurationStat struct {
	MemberType     models.MemberType
	RideCount      int
	AverageSeconds float64
	MedianSeconds  float64
}

func (r *reportRepository) WeekendDurationStats(ctx context.Context) ([]WeekendDurationStat, error) {
	var rows []struct {
		MemberType models.MemberType
		StartedAt  time.Time
		EndedAt    time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("member_type", "started_at", "ended_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	durations := make(map[models.MemberType][]float64)
	for _, row := range rows {
		weekday := row.StartedAt.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			continue
		}
		seconds := row.EndedAt.Sub(row.StartedAt).Seconds()
		if seconds < 0 {
			continue
		}
		durations[row.MemberType] = append(durations[row.MemberType], seconds)
	}

	stats := make([]WeekendDurationStat, 0, len(durations))
	for memberType, sample := range durations {
		var sum float64
		for _, s := range sample {
			sum += s
		}
		stats = append(stats, WeekendDurationStat{
			MemberType:     memberType,
			RideCount:      len(sample),
			AverageSeconds: sum / float64(len(sample)),
			MedianSeconds:  median(sample),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].MemberType < stats[j].MemberType
	})
	return stats, nil
}
