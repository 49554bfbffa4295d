// Package filter narrows a record collection before it reaches the aggregators.
// Every view (rankings, player drill-down, head-to-head) is a combination of
// the same primitive predicates.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/parser"
)

// ErrInvalidCriteria is returned for structurally invalid criteria.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// DateRange bounds record timestamps inclusively. A nil bound is open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func (d DateRange) contains(t time.Time) bool {
	if d.Start != nil && t.Before(*d.Start) {
		return false
	}
	if d.End != nil && t.After(*d.End) {
		return false
	}
	return true
}

// Criteria is the set of narrowing predicates. Empty fields do not filter;
// non-empty fields are ANDed together.
type Criteria struct {
	Patches     []string  `json:"patches,omitempty"`
	Tournaments []string  `json:"tournaments,omitempty"`
	Players     []string  `json:"players,omitempty"`
	DateRange   DateRange `json:"date_range"`
	// ExactPlayerPair keeps only games between exactly these two players.
	ExactPlayerPair []string `json:"exact_player_pair,omitempty"`
}

// ForPlayers returns criteria keeping games that involve any of names.
func ForPlayers(names ...string) Criteria {
	return Criteria{Players: names}
}

// HeadToHead returns criteria keeping only games between a and b.
func HeadToHead(a, b string) Criteria {
	return Criteria{ExactPlayerPair: []string{a, b}}
}

// IsZero reports whether c filters nothing.
func (c Criteria) IsZero() bool {
	return len(c.Patches) == 0 && len(c.Tournaments) == 0 && len(c.Players) == 0 &&
		len(c.ExactPlayerPair) == 0 && c.DateRange.Start == nil && c.DateRange.End == nil
}

// Validate rejects criteria the pipeline cannot interpret.
func (c Criteria) Validate() error {
	if n := len(c.ExactPlayerPair); n > 0 {
		if n != 2 {
			return fmt.Errorf("%w: exact player pair needs 2 names, got %d", ErrInvalidCriteria, n)
		}
		a, b := model.NormalizeName(c.ExactPlayerPair[0]), model.NormalizeName(c.ExactPlayerPair[1])
		if a == "" || b == "" {
			return fmt.Errorf("%w: exact player pair contains a blank name", ErrInvalidCriteria)
		}
		if a == b {
			return fmt.Errorf("%w: exact player pair names the same player twice", ErrInvalidCriteria)
		}
	}
	if s, e := c.DateRange.Start, c.DateRange.End; s != nil && e != nil && s.After(*e) {
		return fmt.Errorf("%w: date range start %s is after end %s", ErrInvalidCriteria,
			s.Format(time.RFC3339), e.Format(time.RFC3339))
	}
	return nil
}

type stringSet map[string]struct{}

func newSet(values []string, fold bool) stringSet {
	if len(values) == 0 {
		return nil
	}
	s := make(stringSet, len(values))
	for _, v := range values {
		if fold {
			v = model.NormalizeName(v)
		}
		s[v] = struct{}{}
	}
	return s
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

// Apply returns the records matching every non-default predicate of c, in
// their original order. The input slice is not modified.
func Apply(records []model.MatchRecord, c Criteria) ([]model.MatchRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	patches := newSet(c.Patches, false)
	tournaments := newSet(c.Tournaments, false)
	players := newSet(c.Players, true)
	pair := newSet(c.ExactPlayerPair, true)

	out := make([]model.MatchRecord, 0, len(records))
	for _, r := range records {
		if patches != nil && !patches.has(r.Patch) {
			continue
		}
		if tournaments != nil && !tournaments.has(r.Tournament) {
			continue
		}
		w, l := model.NormalizeName(r.Winner), model.NormalizeName(r.Loser)
		if players != nil && !players.has(w) && !players.has(l) {
			continue
		}
		if pair != nil && (w == l || !pair.has(w) || !pair.has(l)) {
			continue
		}
		if !c.DateRange.contains(r.Time) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ParseDateBound reads a date-range bound given as RFC3339 or any layout the
// record parser accepts. A date-only end bound is widened to the last
// instant of that day so that the whole day is included.
func ParseDateBound(s string, end bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := parser.ParseTime(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if end && len(s) == len("2006-01-02") {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
