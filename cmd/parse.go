package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/parser"
	"github.com/pable/pvzh-stats/internal/report"
)

var (
	parsePatch      string
	parseTournament string
	parseShowErrors bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.txt>",
	Short: "Parse a single match file and report what it contains",
	Long: `Parse one pipe-delimited match file outside the data directory, report valid
and malformed lines, and print the file's hero win rates. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parsePatch, "as-patch", "", "patch label for the records (default: parent directory name)")
	parseCmd.Flags().StringVar(&parseTournament, "as-tournament", "", "tournament label (default: file name without extension)")
	parseCmd.Flags().BoolVar(&parseShowErrors, "errors", false, "list every malformed line")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read match file: %w", err)
	}
	patch := parsePatch
	if patch == "" {
		patch = filepath.Base(filepath.Dir(path))
	}
	tournament := parseTournament
	if tournament == "" {
		tournament = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	res := parser.Parse(string(data), patch, tournament)
	w := cmd.OutOrStdout()
	if jsonOut {
		return report.PrintJSON(w, map[string]any{
			"patch":          patch,
			"tournament":     tournament,
			"records":        len(res.Records),
			"skipped":        res.Skipped,
			"unknown_heroes": res.UnknownHeroes,
		})
	}

	fmt.Fprintf(w, "%s: %d records, %d malformed lines, %d records with unknown heroes (patch %q, tournament %q)\n",
		path, len(res.Records), res.Skipped, res.UnknownHeroes, patch, tournament)
	if parseShowErrors {
		for _, le := range res.Errors {
			cError.Fprintf(w, "  %v\n", le)
		}
	}
	if len(res.Records) > 0 {
		fmt.Fprintln(w)
		report.PrintHeroWinRates(w, aggregator.HeroWinRates(res.Records))
	}
	return nil
}
