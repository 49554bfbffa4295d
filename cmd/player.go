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

// playerCmd is the cobra command for one player's breakdown.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Win/loss breakdown for one player",
	Long: `Print a player's overall record, plant/zombie split, and records per hero,
per deck, per opponent and per hero matchup. Names match case-insensitively.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayer,
}

// playerBreakdown groups every per-player aggregate.
type playerBreakdown struct {
	Standing  model.PlayerStanding                 `json:"standing"`
	Factions  model.FactionSplit                   `json:"factions"`
	Heroes    map[string]model.HeroStat            `json:"heroes"`
	Decks     map[string]model.HeroStat            `json:"decks"`
	Opponents map[string]model.HeroStat            `json:"opponents"`
	Matchups  map[string]map[string]model.HeroStat `json:"matchups"`
}

func runPlayer(cmd *cobra.Command, args []string) error {
	s, recs, err := loadFiltered(cmd.Context())
	if err != nil {
		return err
	}
	return renderPlayer(cmd.OutOrStdout(), s.store, recs, args[0])
}

// displayName returns the loaded spelling of name, or name itself.
func displayName(st *store.Store, name string) string {
	for _, p := range st.Players() {
		if model.SameName(p, name) {
			return p
		}
	}
	return name
}

func renderPlayer(w io.Writer, st *store.Store, recs []model.MatchRecord, name string) error {
	name = displayName(st, name)
	b := playerBreakdown{
		Standing:  aggregator.PlayerStanding(recs, name),
		Factions:  aggregator.PlayerFactionSplit(recs, name),
		Heroes:    aggregator.PlayerHeroStats(recs, name),
		Decks:     aggregator.PlayerDeckStats(recs, name),
		Opponents: aggregator.OpponentStats(recs, name),
		Matchups:  aggregator.PlayerHeroMatchups(recs, name),
	}
	if jsonOut {
		return report.PrintJSON(w, b)
	}
	if b.Standing.GamesPlayed == 0 {
		cWarn.Fprintf(w, "No games found for %q.\n", name)
		if len(recs) == 0 {
			cWarn.Fprintln(w, report.EmptyReason(st.Stats()))
		}
		return nil
	}

	report.PrintPlayerOverview(w, b.Standing, b.Factions)
	fmt.Fprintf(w, "\n--- Heroes ---\n\n")
	report.PrintStatTable(w, "hero", b.Heroes, true)
	fmt.Fprintf(w, "\n--- Decks ---\n\n")
	report.PrintStatTable(w, "deck", b.Decks, false)
	fmt.Fprintf(w, "\n--- Opponents ---\n\n")
	report.PrintStatTable(w, "opponent", b.Opponents, false)
	fmt.Fprintf(w, "\n--- Hero Matchups ---\n\n")
	report.PrintHeroMatchups(w, b.Matchups)
	return nil
}
