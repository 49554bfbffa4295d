package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Snapshot the filtered records into the SQLite database",
	Long: `Replace the matches table with the currently selected and filtered records so
they can be explored with 'pvzhstats sql'.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ClearMatches(); err != nil {
		return err
	}
	if err := db.InsertMatches(recs); err != nil {
		return fmt.Errorf("snapshot matches: %w", err)
	}
	n, err := db.MatchCount()
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	logger.Info().Int("records", n).Str("db", dbPath).Msg("snapshot written")

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Synced %d of %d loaded records to %s\n", n, s.store.Len(), dbPath)
	counts, err := db.SourceCounts(nil)
	if err != nil {
		return fmt.Errorf("source counts: %w", err)
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %-12s %-24s %6d\n", c.Patch, c.Tournament, c.Matches)
	}
	return nil
}
