package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/report"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the selected sources and report what was found",
	Long: `Load every selected (patch, tournament) source and print how many sources
and records were loaded, which sources were missing, and the distinct players,
heroes, decks, tournaments and patches found.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if jsonOut {
		return report.PrintJSON(w, struct {
			Report      any      `json:"report"`
			Players     []string `json:"players"`
			Heroes      []string `json:"heroes"`
			Decks       []string `json:"decks"`
			Tournaments []string `json:"tournaments"`
			Patches     []string `json:"patches"`
		}{s.report, s.store.Players(), s.store.Heroes(), s.store.Decks(), s.store.Tournaments(), s.store.Patches()})
	}

	report.PrintLoadReport(w, s.report)
	if s.report.NoData() {
		cWarn.Fprintln(w, report.EmptyReason(s.store.Stats()))
		return nil
	}
	report.PrintIdentitySets(w, s.store)
	return nil
}
