package model

import (
	"strings"
	"time"
)

// UnknownDeck is substituted when a record carries no deck name.
const UnknownDeck = "Unknown"

// Faction splits the hero pool into the two sides of the game.
type Faction int

const (
	FactionUnknown Faction = 0
	FactionPlant   Faction = 1
	FactionZombie  Faction = 2
)

func (f Faction) String() string {
	switch f {
	case FactionPlant:
		return "plant"
	case FactionZombie:
		return "zombie"
	default:
		return "?"
	}
}

// ParseFaction accepts "plant"/"plants" and "zombie"/"zombies", case-insensitively.
func ParseFaction(s string) Faction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plant", "plants":
		return FactionPlant
	case "zombie", "zombies":
		return FactionZombie
	default:
		return FactionUnknown
	}
}

// Hero is one entry of the static hero reference table.
type Hero struct {
	Code    string
	Name    string
	Faction Faction
}

// ---- Raw match data emitted by the parser ----

// MatchRecord is one game result. Records are values and are never modified
// after the parser builds them.
type MatchRecord struct {
	Time        time.Time `json:"time"`
	RawTime     string    `json:"raw_time"`
	Winner      string    `json:"winner"`
	Loser       string    `json:"loser"`
	WinningHero string    `json:"winning_hero"`
	LosingHero  string    `json:"losing_hero"`
	WinningDeck string    `json:"winning_deck"`
	LosingDeck  string    `json:"losing_deck"`
	Patch       string    `json:"patch"`
	Tournament  string    `json:"tournament"`
}

// NormalizeName folds a player name for identity comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether two player names refer to the same player.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// Involves reports whether name played in the game, on either side.
func (r MatchRecord) Involves(name string) bool {
	return SameName(r.Winner, name) || SameName(r.Loser, name)
}

// Won reports whether name is the winner of the game.
func (r MatchRecord) Won(name string) bool {
	return SameName(r.Winner, name)
}

// Side is one player's half of a record.
type Side struct {
	Player string
	Hero   string
	Deck   string
	Won    bool
}

// WinnerSide returns the winning half of the record.
func (r MatchRecord) WinnerSide() Side {
	return Side{Player: r.Winner, Hero: r.WinningHero, Deck: r.WinningDeck, Won: true}
}

// LoserSide returns the losing half of the record.
func (r MatchRecord) LoserSide() Side {
	return Side{Player: r.Loser, Hero: r.LosingHero, Deck: r.LosingDeck}
}

// SidesFor returns name's side and the opponent's side. ok is false when
// name did not play in the game.
func (r MatchRecord) SidesFor(name string) (own, opp Side, ok bool) {
	switch {
	case SameName(r.Winner, name):
		return r.WinnerSide(), r.LoserSide(), true
	case SameName(r.Loser, name):
		return r.LoserSide(), r.WinnerSide(), true
	default:
		return Side{}, Side{}, false
	}
}

// ---- Configuration consumed by the deck resolver ----

// DeckLibraryEntry names a canonical deck and the alternative spellings
// players use for it. Name and aliases compare case-insensitively.
type DeckLibraryEntry struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// ---- Aggregated results ----

// Pct returns wins/total as a percentage, or 0 when total is zero.
func Pct(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// MatchupCell counts games from one hero's perspective against another.
type MatchupCell struct {
	Wins  int `json:"wins"`
	Total int `json:"total"`
}

// WinRate returns the win percentage. ok is false when there are no games;
// that case means "no data", not 0%.
func (c MatchupCell) WinRate() (pct float64, ok bool) {
	if c.Total == 0 {
		return 0, false
	}
	return Pct(c.Wins, c.Total), true
}

type PlayerStanding struct {
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRatePct  float64 `json:"win_rate_pct"`
}

type HeroStat struct {
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalGames int     `json:"total_games"`
	WinRatePct float64 `json:"win_rate_pct"`
}

// Add counts one game.
func (s *HeroStat) Add(won bool) {
	s.TotalGames++
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
	s.WinRatePct = Pct(s.Wins, s.TotalGames)
}

// FactionSplit is a player's record on each side of the hero pool.
type FactionSplit struct {
	Plant  HeroStat `json:"plant"`
	Zombie HeroStat `json:"zombie"`
}

// DeckPlayerStat is one player's record with a deck.
type DeckPlayerStat struct {
	Played     int     `json:"played"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRatePct float64 `json:"win_rate_pct"`
}

// Add counts one game.
func (s *DeckPlayerStat) Add(won bool) {
	s.Played++
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
	s.WinRatePct = Pct(s.Wins, s.Played)
}

// DeckStat is the aggregate for one canonical deck across the selected players.
type DeckStat struct {
	CanonicalName string                     `json:"canonical_name"`
	Played        int                        `json:"played"`
	Wins          int                        `json:"wins"`
	Losses        int                        `json:"losses"`
	WinRatePct    float64                    `json:"win_rate_pct"`
	PerPlayer     map[string]*DeckPlayerStat `json:"per_player"`
}
