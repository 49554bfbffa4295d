package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/source"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued sources and whether their data files exist",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	src := newSource()
	patches := pick(flagPatches, cfg.Data.Patches, src.Patches())
	tournaments := pick(flagTournaments, cfg.Data.Tournaments, src.Tournaments())
	if len(patches) == 0 || len(tournaments) == 0 {
		fmt.Fprintf(os.Stdout, "No sources catalogued under %s.\n", cfg.Data.Dir)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-28s  %s\n", "PATCH", "TOURNAMENT", "STATUS")
	fmt.Fprintf(os.Stdout, "%-12s  %-28s  %s\n", "────────────", "────────────────────────────", "──────")
	for _, p := range patches {
		for _, t := range tournaments {
			status := "ok"
			if _, err := src.Fetch(cmd.Context(), p, t); err != nil {
				status = "missing"
				if !errors.Is(err, source.ErrUnavailable) {
					status = "error: " + err.Error()
				}
			}
			fmt.Fprintf(os.Stdout, "%-12s  %-28s  %s\n", p, t, status)
		}
	}
	if names := src.PlayerNames(); len(names) > 0 {
		fmt.Fprintf(os.Stdout, "\n%d known player names in %s\n", len(names), source.PlayerNamesFile)
	}
	return nil
}
