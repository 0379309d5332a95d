package repositories

import (
	"context"
	"sort"
	"time"

	"ride-analytics-backend/db/models"
)

// HourOfWeekSlot is one (weekday, hour) slot with its rider split.
type HourOfWeekSlot struct {
	DayOfWeek    time.Weekday
	Hour         int
	TotalRides   int
	MemberRides  int
	CasualRides  int
	UnknownRides int
	MemberShare  float64
	CasualShare  float64
}

// HourOfWeekSplit holds the most member-heavy and most casual-heavy slots.
type HourOfWeekSplit struct {
	MostMemberHeavy []HourOfWeekSlot
	MostCasualHeavy []HourOfWeekSlot
}

func (r *reportRepository) MemberCasualHoursOfWeek(ctx context.Context, topN, minTotalRidesPerSlot int) (*HourOfWeekSplit, error) {
	var rows []struct {
		MemberType models.MemberType
		StartedAt  time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ride{}).
		Select("member_type", "started_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type slotKey struct {
		weekday time.Weekday
		hour    int
	}
	type tally struct{ total, members, casual int }
	perSlot := make(map[slotKey]*tally)
	for _, row := range rows {
		key := slotKey{row.StartedAt.Weekday(), row.StartedAt.Hour()}
		t, ok := perSlot[key]
		if !ok {
			t = &tally{}
			perSlot[key] = t
		}
		t.total++
		switch row.MemberType {
		case models.MemberTypeMember:
			t.members++
		case models.MemberTypeCasual:
			t.casual++
		}
	}

	slots := make([]HourOfWeekSlot, 0, len(perSlot))
	for key, t := range perSlot {
		if t.total < minTotalRidesPerSlot {
			continue
		}
		slots = append(slots, HourOfWeekSlot{
			DayOfWeek:    key.weekday,
			Hour:         key.hour,
			TotalRides:   t.total,
			MemberRides:  t.members,
			CasualRides:  t.casual,
			UnknownRides: t.total - t.members - t.casual,
			MemberShare:  float64(t.members) / float64(t.total),
			CasualShare:  float64(t.casual) / float64(t.total),
		})
	}

	byMemberShare := func(desc bool) func(i, j int) bool {
		return func(i, j int) bool {
			if slots[i].MemberShare != slots[j].MemberShare {
				if desc {
					return slots[i].MemberShare > slots[j].MemberShare
				}
				return slots[i].MemberShare < slots[j].MemberShare
			}
			if slots[i].TotalRides != slots[j].TotalRides {
				return slots[i].TotalRides > slots[j].TotalRides
			}
			if slots[i].DayOfWeek != slots[j].DayOfWeek {
				return slots[i].DayOfWeek < slots[j].DayOfWeek
			}
			return slots[i].Hour < slots[j].Hour
		}
	}

	take := func(n int) []HourOfWeekSlot {
		if len(slots) < n {
			n = len(slots)
		}
		out := make([]HourOfWeekSlot, n)
		copy(out, slots[:n])
		return out
	}

	split := &HourOfWeekSplit{}
	sort.Slice(slots, byMemberShare(true))
	split.MostMemberHeavy = take(topN)
	sort.Slice(slots, byMemberShare(false))
	split.MostCasualHeavy = take(topN)

	return split, nil
}
