package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/report"
)

// summaryCmd is the cobra command for a high-level overview of the loaded data.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the loaded data",
	Long: `Display aggregate statistics about the selected records: game count, date
range, players and heroes seen, source health, the most active players, and
the state of the SQLite snapshot.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	sum := aggregator.Summarize(recs)
	if jsonOut {
		return report.PrintJSON(w, map[string]any{
			"summary": sum,
			"store":   s.store.Stats(),
		})
	}

	report.PrintSummary(w, sum, s.store.Stats())
	if len(recs) == 0 {
		cWarn.Fprintln(w, report.EmptyReason(s.store.Stats()))
		return nil
	}

	fmt.Fprintf(w, "--- Most Active Players ---\n\n")
	report.PrintStandings(w, aggregator.Top(aggregator.ByGamesPlayed(aggregator.Rankings(recs)), 10))

	// Snapshot state, only if a database already exists.
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	ov, err := db.Overview()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n--- SQLite snapshot ---\n\n")
	if ov.Matches == 0 {
		fmt.Fprintln(w, "  empty; run 'pvzhstats sync' to populate")
		return nil
	}
	fmt.Fprintf(w, "  Matches       : %d\n", ov.Matches)
	fmt.Fprintf(w, "  Date range    : %s → %s\n", ov.Earliest, ov.Latest)
	fmt.Fprintf(w, "  Patches       : %d\n", ov.Patches)
	fmt.Fprintf(w, "  Tournaments   : %d\n", ov.Tournaments)
	return nil
}
