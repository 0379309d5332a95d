package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ride-analytics-backend/reports/repositories"

	"github.com/spf13/cobra"
)

var (
	statsList    bool
	statsAll     bool
	statsQueries string
	statsMin     int
	statsTop     int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Run reporting queries against the imported tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, err := resolveQueriesToRun()
		if err != nil {
			return err
		}

		if statsList || (len(selected) == 0 && !statsAll) {
			printAvailableQueries()
			return nil
		}
		if len(selected) == 0 {
			fmt.Println("No queries selected.")
			printAvailableQueries()
			return fmt.Errorf("no queries selected")
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		reports := repositories.NewReportRepository(db)

		for _, q := range selected {
			fmt.Println()
			if err := runOneQuery(cmd, reports, q); err != nil {
				return err
			}
		}

		fmt.Println()
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsList, "list", false, "list available queries")
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "run every query")
	statsCmd.Flags().StringVar(&statsQueries, "q", "", "query numbers, e.g. 1 or 1,2,8")
	statsCmd.Flags().IntVar(&statsMin, "minrides", 200, "minimum rides per station for share queries")
	statsCmd.Flags().IntVar(&statsTop, "top", 20, "result set size limit")
}

func resolveQueriesToRun() ([]int, error) {
	if statsAll {
		return []int{1, 2, 3, 4, 5, 6, 7, 8}, nil
	}
	if strings.TrimSpace(statsQueries) == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	var selected []int
	for _, part := range strings.Split(statsQueries, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		q, err := strconv.Atoi(part)
		if err != nil || q < 1 || q > 8 {
			return nil, fmt.Errorf("unknown query: %s", part)
		}
		if !seen[q] {
			seen[q] = true
			selected = append(selected, q)
		}
	}
	sort.Ints(selected)
	return selected, nil
}

func printAvailableQueries() {
	fmt.Print(`Available queries:
  1 - Weekend duration stats (avg + median) by member type
  2 - Most tourist stations (weekend 10-18) by casual share
  3 - Most unilateral station pairs (A->B >> B->A)
  4 - Top 3 start stations per hour on Mondays
  5 - Top member-heavy start stations on Thursdays (by member share)
  6 - Top stations overall (starts) with member/casual breakdown
  7 - Route with biggest member difference: Monday vs Sunday
  8 - Most member-heavy and most casual-heavy time slots (weekday + hour)

Use:
  stats --q 1
  stats --q 1,2,8
  stats --all
`)
}

func displayName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

func runOneQuery(cmd *cobra.Command, reports repositories.ReportRepository, q int) error {
	ctx := cmd.Context()

	switch q {
	case 1:
		res, err := reports.WeekendDurationStats(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Q01: Weekend duration stats (avg + median)")
		for _, r := range res {
			fmt.Printf("  %-8s  count=%8d  avg=%10.1fs  median=%10.1fs\n",
				r.MemberType, r.RideCount, r.AverageSeconds, r.MedianSeconds)
		}

	case 2:
		res, err := reports.TouristStations(ctx, statsMin, statsTop)
		if err != nil {
			return err
		}
		fmt.Printf("Q02: Most tourist stations (weekend 10-18), minRides=%d, top=%d\n", statsMin, statsTop)
		for _, s := range res {
			fmt.Printf("  %6.1f%%  total=%7d  casual=%7d  %s  %s\n",
				s.CasualShare*100, s.TotalRides, s.CasualRides, s.StationID, displayName(s.StationName))
		}

	case 3:
		res, err := reports.UnilateralStationPairs(ctx, statsTop, 50)
		if err != nil {
			return err
		}
		fmt.Println("Q03: Most unilateral station pairs (A->B >> B->A)")
		for _, r := range res {
			total := r.TripsFromTo + r.TripsToFrom
			fmt.Printf("  net=%6d  skew=%6.1f%%  total=%7d  %s -> %s  (%d vs %d)  %s -> %s\n",
				r.NetFlow, r.SkewFromTo*100, total,
				r.FromStationID, r.ToStationID, r.TripsFromTo, r.TripsToFrom,
				displayName(r.FromStationName), displayName(r.ToStationName))
		}

	case 4:
		res, err := reports.TopStationsPerHourOnMondays(ctx, 3)
		if err != nil {
			return err
		}
		fmt.Println("Q04: Top 3 start stations per hour on Mondays")
		for _, r := range res {
			fmt.Printf("  %02d:00  #%d  count=%7d  %s  %s\n",
				r.Hour, r.Rank, r.RideCount, r.StationID, displayName(r.StationName))
		}

	case 5:
		res, err := reports.TopMemberStationsOnThursdays(ctx, statsTop, statsMin)
		if err != nil {
			return err
		}
		fmt.Printf("Q05: Top member-heavy start stations on Thursdays, minRides=%d\n", statsMin)
		for _, s := range res {
			fmt.Printf("  %6.1f%%  total=%7d  members=%7d  %s  %s\n",
				s.MemberShare*100, s.TotalRides, s.MemberRides, s.StationID, displayName(s.StationName))
		}

	case 6:
		res, err := reports.TopStationsOverall(ctx, statsTop, statsMin)
		if err != nil {
			return err
		}
		fmt.Printf("Q06: Top stations overall (starts), minRides=%d\n", statsMin)
		for _, s := range res {
			fmt.Printf("  total=%8d  members=%8d (%6.1f%%)  casual=%8d (%6.1f%%)  unk=%6d  %s  %s\n",
				s.TotalRides, s.MemberRides, s.MemberShare*100,
				s.CasualRides, s.CasualShare*100, s.UnknownRides,
				s.StationID, displayName(s.StationName))
		}

	case 7:
		res, err := reports.BiggestMemberMondaySundayRoute(ctx, 50)
		if err != nil {
			return err
		}
		fmt.Println("Q07: Biggest member route difference (Monday vs Sunday)")
		if res == nil {
			fmt.Println("  No route matched the criteria (try lowering the threshold).")
			break
		}
		fmt.Printf("  %s -> %s  %s -> %s\n",
			res.StartStationID, res.EndStationID,
			displayName(res.StartStationName), displayName(res.EndStationName))
		fmt.Printf("  MondayMembers=%d  SundayMembers=%d\n", res.MemberMondayCount, res.MemberSundayCount)
		fmt.Printf("  NetDiff(Mon-Sun)=%d  AbsDiff=%d  Total(Mon+Sun)=%d\n",
			res.NetDifference, res.AbsDifference, res.TotalMemberCount)

	case 8:
		res, err := reports.MemberCasualHoursOfWeek(ctx, 5, 500)
		if err != nil {
			return err
		}
		fmt.Println("Q08: Most member-heavy time slots (weekday + hour)")
		for _, s := range res.MostMemberHeavy {
			fmt.Printf("  %-9s %02d:00  member=%6.1f%%  casual=%6.1f%%  total=%8d\n",
				s.DayOfWeek, s.Hour, s.MemberShare*100, s.CasualShare*100, s.TotalRides)
		}
		fmt.Println()
		fmt.Println("Q08: Most casual-heavy time slots (weekday + hour)")
		for _, s := range res.MostCasualHeavy {
			fmt.Printf("  %-9s %02d:00  member=%6.1f%%  casual=%6.1f%%  total=%8d\n",
				s.DayOfWeek, s.Hour, s.MemberShare*100, s.CasualShare*100, s.TotalRides)
		}

	default:
		fmt.Printf("Unknown query: %d\n", q)
	}

	return nil
}
