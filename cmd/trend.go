package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/report"
	"github.com/pable/pvzh-stats/internal/store"
)

var trendCmd = &cobra.Command{
	Use:   "trend <name>",
	Short: "Per-patch win rate timeline for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	return renderTrend(cmd.OutOrStdout(), s.store, recs, args[0])
}

func renderTrend(w io.Writer, st *store.Store, recs []model.MatchRecord, name string) error {
	name = displayName(st, name)
	points := aggregator.PlayerTrend(recs, name)
	if jsonOut {
		return report.PrintJSON(w, points)
	}
	if len(points) == 0 {
		fmt.Fprintln(w, "no matches found")
		return nil
	}
	fmt.Fprintf(w, "\n--- %s by patch ---\n\n", name)
	report.PrintTrend(w, points)
	return nil
}
