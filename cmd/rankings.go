package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/report"
)

var (
	rankingsMinGames int
	rankingsTop      int
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Player leaderboards by win rate and by games played",
	Args:  cobra.NoArgs,
	RunE:  runRankings,
}

func init() {
	rankingsCmd.Flags().IntVar(&rankingsMinGames, "min-games", -1, "games needed to qualify for the win-rate board (default from config)")
	rankingsCmd.Flags().IntVar(&rankingsTop, "top", -1, "rows per board, 0 for all (default from config)")
}

func runRankings(cmd *cobra.Command, args []string) error {
	minGames, top := cfg.Rankings.MinGames, cfg.Rankings.Top
	if rankingsMinGames >= 0 {
		minGames = rankingsMinGames
	}
	if rankingsTop >= 0 {
		top = rankingsTop
	}

	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	standings := aggregator.Rankings(recs)
	byWinRate := aggregator.Top(aggregator.QualifiedByWinRate(standings, minGames), top)
	byGames := aggregator.Top(aggregator.ByGamesPlayed(standings), top)

	w := cmd.OutOrStdout()
	if jsonOut {
		return report.PrintJSON(w, map[string]any{
			"min_games":   minGames,
			"by_win_rate": byWinRate,
			"by_games":    byGames,
		})
	}
	if len(recs) == 0 {
		cWarn.Fprintln(w, report.EmptyReason(s.store.Stats()))
		return nil
	}
	report.PrintRankings(w, byWinRate, byGames, minGames)
	return nil
}
