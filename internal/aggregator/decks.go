package aggregator

import (
	"strings"

	"github.com/pable/pvzh-stats/internal/model"
)

func foldDeck(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type resolverEntry struct {
	name    string
	aliases map[string]struct{}
}

func (e resolverEntry) matches(deck string) bool {
	_, ok := e.aliases[foldDeck(deck)]
	return ok
}

// Resolver maps raw deck names to canonical library names.
type Resolver struct {
	entries []resolverEntry
	lookup  map[string]string // folded alias -> canonical name, first entry wins
}

// NewResolver builds alias sets (canonical name plus every alias, folded)
// for each library entry.
func NewResolver(library []model.DeckLibraryEntry) *Resolver {
	r := &Resolver{lookup: make(map[string]string)}
	for _, e := range library {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		re := resolverEntry{name: e.Name, aliases: make(map[string]struct{}, len(e.Aliases)+1)}
		for _, a := range append([]string{e.Name}, e.Aliases...) {
			key := foldDeck(a)
			if key == "" {
				continue
			}
			re.aliases[key] = struct{}{}
			if _, taken := r.lookup[key]; !taken {
				r.lookup[key] = e.Name
			}
		}
		r.entries = append(r.entries, re)
	}
	return r
}

// Resolve returns the canonical name for a raw deck name.
func (r *Resolver) Resolve(deck string) (string, bool) {
	name, ok := r.lookup[foldDeck(deck)]
	return name, ok
}

// DeckStats aggregates each library deck over the games of the selected
// players. A record counts at most once per entry, attributed to the side
// that used the deck, and only when that side's player is selected. The
// winning side is considered first. Entries without games are left out.
func DeckStats(records []model.MatchRecord, players []string, library []model.DeckLibraryEntry) []model.DeckStat {
	if len(players) == 0 || len(library) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(players))
	for _, p := range players {
		selected[model.NormalizeName(p)] = struct{}{}
	}
	isSelected := func(name string) bool {
		_, ok := selected[model.NormalizeName(name)]
		return ok
	}

	resolver := NewResolver(library)
	var out []model.DeckStat
	for _, e := range resolver.entries {
		stat := model.DeckStat{CanonicalName: e.name, PerPlayer: make(map[string]*model.DeckPlayerStat)}
		spelling := make(map[string]string)

		for _, r := range records {
			var side model.Side
			switch {
			case e.matches(r.WinningDeck) && isSelected(r.Winner):
				side = r.WinnerSide()
			case e.matches(r.LosingDeck) && isSelected(r.Loser):
				side = r.LoserSide()
			default:
				continue
			}

			stat.Played++
			if side.Won {
				stat.Wins++
			} else {
				stat.Losses++
			}

			key := model.NormalizeName(side.Player)
			if _, ok := spelling[key]; !ok {
				spelling[key] = side.Player
				stat.PerPlayer[side.Player] = &model.DeckPlayerStat{}
			}
			stat.PerPlayer[spelling[key]].Add(side.Won)
		}

		if stat.Played == 0 {
			continue
		}
		stat.WinRatePct = model.Pct(stat.Wins, stat.Played)
		out = append(out, stat)
	}
	return out
}
