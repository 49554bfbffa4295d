// Package aggregator turns a flat list of match records into matchup, player
// and deck aggregates. Every function is pure: it reads the records it is
// given, keeps no state between calls and never modifies its input.
package aggregator

import (
	"sort"
	"time"

	"github.com/pable/pvzh-stats/internal/model"
)

// Summary is a whole-collection overview.
type Summary struct {
	Games    int       `json:"games"`
	Players  int       `json:"players"`
	Heroes   int       `json:"heroes"`
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// Summarize counts games, distinct players (case-insensitive) and heroes,
// and finds the earliest and latest game.
func Summarize(records []model.MatchRecord) Summary {
	var s Summary
	players := make(map[string]struct{})
	heroes := make(map[string]struct{})
	for i, r := range records {
		s.Games++
		players[model.NormalizeName(r.Winner)] = struct{}{}
		players[model.NormalizeName(r.Loser)] = struct{}{}
		heroes[r.WinningHero] = struct{}{}
		heroes[r.LosingHero] = struct{}{}
		if i == 0 || r.Time.Before(s.Earliest) {
			s.Earliest = r.Time
		}
		if i == 0 || r.Time.After(s.Latest) {
			s.Latest = r.Time
		}
	}
	s.Players = len(players)
	s.Heroes = len(heroes)
	return s
}

// Chronological returns a copy of records sorted by timestamp. Records with
// equal timestamps keep their load order.
func Chronological(records []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// SortedKeys returns the keys of a stat map ordered by games played
// descending, then key.
func SortedKeys(m map[string]model.HeroStat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m[keys[i]], m[keys[j]]
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return keys[i] < keys[j]
	})
	return keys
}
