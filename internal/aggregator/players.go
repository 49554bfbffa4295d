package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/pable/pvzh-stats/internal/hero"
	"github.com/pable/pvzh-stats/internal/model"
)

// PlayerGames returns the games name played, matched case-insensitively.
func PlayerGames(records []model.MatchRecord, name string) []model.MatchRecord {
	var out []model.MatchRecord
	for _, r := range records {
		if r.Involves(name) {
			out = append(out, r)
		}
	}
	return out
}

// PlayerWinRate returns name's win percentage, and exactly 0 when the player
// has no games.
func PlayerWinRate(records []model.MatchRecord, name string) float64 {
	return PlayerStanding(records, name).WinRatePct
}

// PlayerStanding returns name's overall record.
func PlayerStanding(records []model.MatchRecord, name string) model.PlayerStanding {
	s := model.PlayerStanding{Name: name}
	for _, r := range records {
		if !r.Involves(name) {
			continue
		}
		s.GamesPlayed++
		if r.Won(name) {
			s.Wins++
		} else {
			s.Losses++
		}
	}
	s.WinRatePct = model.Pct(s.Wins, s.GamesPlayed)
	return s
}

// PlayerHeroStats breaks name's games down by the hero they played.
func PlayerHeroStats(records []model.MatchRecord, name string) map[string]model.HeroStat {
	out := make(map[string]model.HeroStat)
	for _, r := range records {
		own, _, ok := r.SidesFor(name)
		if !ok {
			continue
		}
		s := out[own.Hero]
		s.Add(own.Won)
		out[own.Hero] = s
	}
	return out
}

// PlayerDeckStats breaks name's games down by the raw deck name they used.
func PlayerDeckStats(records []model.MatchRecord, name string) map[string]model.HeroStat {
	out := make(map[string]model.HeroStat)
	for _, r := range records {
		own, _, ok := r.SidesFor(name)
		if !ok {
			continue
		}
		s := out[own.Deck]
		s.Add(own.Won)
		out[own.Deck] = s
	}
	return out
}

// PlayerHeroMatchups breaks name's games down by own hero, then opponent hero.
func PlayerHeroMatchups(records []model.MatchRecord, name string) map[string]map[string]model.HeroStat {
	out := make(map[string]map[string]model.HeroStat)
	for _, r := range records {
		own, opp, ok := r.SidesFor(name)
		if !ok {
			continue
		}
		row := out[own.Hero]
		if row == nil {
			row = make(map[string]model.HeroStat)
			out[own.Hero] = row
		}
		s := row[opp.Hero]
		s.Add(own.Won)
		row[opp.Hero] = s
	}
	return out
}

// PlayerFactionSplit returns name's record playing plant heroes and zombie
// heroes. Games with heroes outside the reference table are not counted.
func PlayerFactionSplit(records []model.MatchRecord, name string) model.FactionSplit {
	var out model.FactionSplit
	for _, r := range records {
		own, _, ok := r.SidesFor(name)
		if !ok {
			continue
		}
		switch hero.FactionOf(own.Hero) {
		case model.FactionPlant:
			out.Plant.Add(own.Won)
		case model.FactionZombie:
			out.Zombie.Add(own.Won)
		}
	}
	return out
}

// OpponentStats returns name's record against each opponent, keyed by the
// opponent's first-seen spelling.
func OpponentStats(records []model.MatchRecord, name string) map[string]model.HeroStat {
	out := make(map[string]model.HeroStat)
	spelling := make(map[string]string)
	for _, r := range records {
		own, opp, ok := r.SidesFor(name)
		if !ok {
			continue
		}
		key := model.NormalizeName(opp.Player)
		if _, seen := spelling[key]; !seen {
			spelling[key] = opp.Player
		}
		s := out[spelling[key]]
		s.Add(own.Won)
		out[spelling[key]] = s
	}
	return out
}

// TrendPoint is a player's record within one patch.
type TrendPoint struct {
	Patch string    `json:"patch"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
	model.HeroStat
}

// PlayerTrend returns name's record per patch, ordered by the patch's
// earliest game so the list reads as a timeline.
func PlayerTrend(records []model.MatchRecord, name string) []TrendPoint {
	index := make(map[string]int)
	var out []TrendPoint
	for _, r := range records {
		own, _, ok := r.SidesFor(name)
		if !ok {
			continue
		}
		i, seen := index[r.Patch]
		if !seen {
			i = len(out)
			index[r.Patch] = i
			out = append(out, TrendPoint{Patch: r.Patch, First: r.Time, Last: r.Time})
		}
		p := &out[i]
		p.Add(own.Won)
		if r.Time.Before(p.First) {
			p.First = r.Time
		}
		if r.Time.After(p.Last) {
			p.Last = r.Time
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].First.Before(out[j].First)
	})
	return out
}

// Rankings returns one standing per player with at least one game, in
// first-appearance order. Names are grouped case-insensitively and shown
// with their first-seen spelling. Qualification thresholds and sort order
// are the caller's choice; see QualifiedByWinRate and ByGamesPlayed.
func Rankings(records []model.MatchRecord) []model.PlayerStanding {
	index := make(map[string]int)
	var out []model.PlayerStanding
	get := func(name string) *model.PlayerStanding {
		key := model.NormalizeName(name)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, model.PlayerStanding{Name: name})
		}
		return &out[i]
	}
	for _, r := range records {
		w := get(r.Winner)
		w.GamesPlayed++
		w.Wins++
		if model.SameName(r.Winner, r.Loser) {
			continue
		}
		l := get(r.Loser)
		l.GamesPlayed++
		l.Losses++
	}
	for i := range out {
		out[i].WinRatePct = model.Pct(out[i].Wins, out[i].GamesPlayed)
	}
	return out
}

// QualifiedByWinRate returns the standings with at least minGames games,
// sorted by win rate descending, then games played descending, then name.
func QualifiedByWinRate(standings []model.PlayerStanding, minGames int) []model.PlayerStanding {
	var out []model.PlayerStanding
	for _, s := range standings {
		if s.GamesPlayed >= minGames {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRatePct != b.WinRatePct {
			return a.WinRatePct > b.WinRatePct
		}
		if a.GamesPlayed != b.GamesPlayed {
			return a.GamesPlayed > b.GamesPlayed
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return out
}

// ByGamesPlayed returns all standings sorted by games played descending,
// then win rate descending.
func ByGamesPlayed(standings []model.PlayerStanding) []model.PlayerStanding {
	out := make([]model.PlayerStanding, len(standings))
	copy(out, standings)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GamesPlayed != b.GamesPlayed {
			return a.GamesPlayed > b.GamesPlayed
		}
		return a.WinRatePct > b.WinRatePct
	})
	return out
}

// Top truncates standings to at most n entries; n <= 0 keeps everything.
func Top(standings []model.PlayerStanding, n int) []model.PlayerStanding {
	if n <= 0 || len(standings) <= n {
		return standings
	}
	return standings[:n]
}
