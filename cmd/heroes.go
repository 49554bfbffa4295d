package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/report"
)

var heroesCmd = &cobra.Command{
	Use:   "heroes",
	Short: "Overall win rate per hero",
	Long:  "Print each hero's games, wins, losses and win rate across all opponents, with a 95% confidence interval.",
	Args:  cobra.NoArgs,
	RunE:  runHeroes,
}

func runHeroes(cmd *cobra.Command, args []string) error {
	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	stats := aggregator.HeroWinRates(recs)
	if jsonOut {
		return report.PrintJSON(w, stats)
	}
	if len(recs) == 0 {
		cWarn.Fprintln(w, report.EmptyReason(s.store.Stats()))
		return nil
	}
	fmt.Fprintf(w, "\n--- Heroes (%d games) ---\n\n", len(recs))
	report.PrintHeroWinRates(w, stats)
	return nil
}
