package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/decklib"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/report"
	"github.com/pable/pvzh-stats/internal/store"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Deck library and per-deck statistics",
	Long: `Manage the deck library (canonical deck names with the alternative spellings
players use) and print per-deck records for selected players.`,
}

var decksStatsCmd = &cobra.Command{
	Use:   "stats [player...]",
	Short: "Per-deck records for the given players (default: --player flags)",
	RunE:  runDecksStats,
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the deck library",
	Args:  cobra.NoArgs,
	RunE:  runDecksList,
}

var decksAddCmd = &cobra.Command{
	Use:   "add <name> [alias...]",
	Short: "Add a deck, or replace an existing deck's aliases",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecksAdd,
}

var decksRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a deck from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksRemove,
}

var decksImportCmd = &cobra.Command{
	Use:   "import <file.json|file.yaml>",
	Short: "Replace the deck library with the contents of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksImport,
}

var decksExportCmd = &cobra.Command{
	Use:   "export <file.json|file.yaml>",
	Short: "Write the deck library to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecksExport,
}

func init() {
	decksCmd.AddCommand(decksStatsCmd, decksListCmd, decksAddCmd, decksRemoveCmd, decksImportCmd, decksExportCmd)
}

func runDecksStats(cmd *cobra.Command, args []string) error {
	players := args
	if len(players) == 0 {
		players = flagPlayers
	}
	if len(players) == 0 {
		return fmt.Errorf("no players selected: pass names or --player")
	}
	library, err := deckLibrary()
	if err != nil {
		return err
	}
	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	return renderDeckStats(cmd.OutOrStdout(), s.store, recs, players, library)
}

func renderDeckStats(w io.Writer, st *store.Store, recs []model.MatchRecord, players []string, library []model.DeckLibraryEntry) error {
	stats := aggregator.DeckStats(recs, players, library)
	if jsonOut {
		if stats == nil {
			stats = []model.DeckStat{}
		}
		return report.PrintJSON(w, stats)
	}
	if len(library) == 0 {
		cWarn.Fprintln(w, "Deck library is empty. Add decks with 'pvzhstats decks add' or 'decks import'.")
		return nil
	}
	if len(recs) == 0 {
		cWarn.Fprintln(w, report.EmptyReason(st.Stats()))
		return nil
	}
	report.PrintDeckStats(w, stats)
	return nil
}

func runDecksList(cmd *cobra.Command, args []string) error {
	library, err := deckLibrary()
	if err != nil {
		return err
	}
	if jsonOut {
		return report.PrintJSON(cmd.OutOrStdout(), library)
	}
	report.PrintDeckLibrary(cmd.OutOrStdout(), library)
	return nil
}

func runDecksAdd(cmd *cobra.Command, args []string) error {
	entries := decklib.Normalize([]model.DeckLibraryEntry{{Name: args[0], Aliases: args[1:]}})
	if len(entries) == 0 {
		return fmt.Errorf("deck name must not be blank")
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveDeck(entries[0]); err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d aliases)\n", entries[0].Name, len(entries[0].Aliases))
	return nil
}

func runDecksRemove(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ok, err := db.DeleteDeck(args[0])
	if err != nil {
		return fmt.Errorf("remove deck: %w", err)
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "No deck named %q.\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

func runDecksImport(cmd *cobra.Command, args []string) error {
	entries, err := decklib.ReadFile(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReplaceDeckLibrary(entries); err != nil {
		return fmt.Errorf("import deck library: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d decks from %s\n", len(entries), args[0])
	return nil
}

func runDecksExport(cmd *cobra.Command, args []string) error {
	library, err := deckLibrary()
	if err != nil {
		return err
	}
	if err := decklib.WriteFile(args[0], library); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d decks to %s\n", len(library), args[0])
	return nil
}
