// Package store holds the in-memory collection of match records together
// with the identity sets derived from them.
package store

import (
	"sort"
	"sync"

	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/parser"
)

// LoadResult reports what a single Load call contributed.
type LoadResult struct {
	Added         int
	Skipped       int
	UnknownHeroes int
	Errors        []*parser.LineError
}

// SourceKey identifies one (patch, tournament) data source.
type SourceKey struct {
	Patch      string `json:"patch"`
	Tournament string `json:"tournament"`
}

// Stats summarises the store since the last Reset. It lets callers tell
// "nothing matched" apart from "sources failed to load".
type Stats struct {
	Records            int         `json:"records"`
	SkippedLines       int         `json:"skipped_lines"`
	UnknownHeroes      int         `json:"unknown_heroes"`
	Sources            int         `json:"sources"`
	UnavailableSources []SourceKey `json:"unavailable_sources"`
}

// Store owns the loaded records. Records keep load order. All methods are
// safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	records []model.MatchRecord

	players     map[string]string // normalised name -> first-seen spelling
	heroes      map[string]struct{}
	decks       map[string]struct{}
	tournaments map[string]struct{}
	patches     map[string]struct{}

	skipped       int
	unknownHeroes int
	sources       int
	unavailable   []SourceKey
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

// Reset discards every record, identity set and counter.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.records = nil
	s.players = make(map[string]string)
	s.heroes = make(map[string]struct{})
	s.decks = make(map[string]struct{})
	s.tournaments = make(map[string]struct{})
	s.patches = make(map[string]struct{})
	s.skipped = 0
	s.unknownHeroes = 0
	s.sources = 0
	s.unavailable = nil
}

// Load parses raw and appends the records, tagged with patch and tournament.
// Loads are additive: loading the same text twice yields duplicate records.
func (s *Store) Load(raw, patch, tournament string) LoadResult {
	res := parser.Parse(raw, patch, tournament)
	s.Add(res.Records...)

	s.mu.Lock()
	s.sources++
	s.skipped += res.Skipped
	s.unknownHeroes += res.UnknownHeroes
	s.mu.Unlock()

	return LoadResult{
		Added:         len(res.Records),
		Skipped:       res.Skipped,
		UnknownHeroes: res.UnknownHeroes,
		Errors:        res.Errors,
	}
}

// Add appends already-parsed records.
func (s *Store) Add(records ...model.MatchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records = append(s.records, r)
		for _, name := range [2]string{r.Winner, r.Loser} {
			key := model.NormalizeName(name)
			if _, ok := s.players[key]; !ok {
				s.players[key] = name
			}
		}
		s.heroes[r.WinningHero] = struct{}{}
		s.heroes[r.LosingHero] = struct{}{}
		s.decks[r.WinningDeck] = struct{}{}
		s.decks[r.LosingDeck] = struct{}{}
		s.tournaments[r.Tournament] = struct{}{}
		s.patches[r.Patch] = struct{}{}
	}
}

// MarkUnavailable records that a source had no backing data.
func (s *Store) MarkUnavailable(patch, tournament string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources++
	s.unavailable = append(s.unavailable, SourceKey{Patch: patch, Tournament: tournament})
}

// Records returns a copy of the loaded records in load order.
func (s *Store) Records() []model.MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MatchRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Players returns every player name seen, first-seen spelling, sorted
// case-insensitively.
func (s *Store) Players() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.players))
	for k := range s.players {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.players[k]
	}
	return out
}

// Heroes returns every hero code seen, sorted.
func (s *Store) Heroes() []string { return s.sorted(func() map[string]struct{} { return s.heroes }) }

// Decks returns every raw deck name seen, sorted.
func (s *Store) Decks() []string { return s.sorted(func() map[string]struct{} { return s.decks }) }

// Tournaments returns every tournament seen, sorted.
func (s *Store) Tournaments() []string {
	return s.sorted(func() map[string]struct{} { return s.tournaments })
}

// Patches returns every patch seen, sorted.
func (s *Store) Patches() []string { return s.sorted(func() map[string]struct{} { return s.patches }) }

func (s *Store) sorted(set func() map[string]struct{}) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := set()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats returns the counters accumulated since the last Reset.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unavailable := make([]SourceKey, len(s.unavailable))
	copy(unavailable, s.unavailable)
	return Stats{
		Records:            len(s.records),
		SkippedLines:       s.skipped,
		UnknownHeroes:      s.unknownHeroes,
		Sources:            s.sources,
		UnavailableSources: unavailable,
	}
}
