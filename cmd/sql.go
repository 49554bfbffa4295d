package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the pvzhstats database",
	Long: `Run an arbitrary SQL query against the pvzhstats database and print results as a table.

Schema overview:
  matches(id, played_at, raw_time, winner, loser, winning_hero, losing_hero,
    winning_deck, losing_deck, patch, tournament)      -- filled by 'pvzhstats sync'
  decks(name, position)
  deck_aliases(deck_name, alias, ordinal)

Note: played_at is stored as RFC3339 UTC text; hero columns hold lower-case codes.
Example: pvzhstats sql "SELECT winning_hero, COUNT(*) FROM matches GROUP BY 1 ORDER BY 2 DESC"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if jsonOut {
		out := make([]map[string]string, len(rows))
		for i, row := range rows {
			m := make(map[string]string, len(cols))
			for j, c := range cols {
				m[c] = row[j]
			}
			out[i] = m
		}
		return report.PrintJSON(cmd.OutOrStdout(), out)
	}
	report.PrintRows(cmd.OutOrStdout(), cols, rows)
	return nil
}
