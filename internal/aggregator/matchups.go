package aggregator

import (
	"github.com/pable/pvzh-stats/internal/hero"
	"github.com/pable/pvzh-stats/internal/model"
)

// Matrix is the hero-vs-hero matchup table. Both (x, y) and (y, x) are stored
// so each hero's own win count against an opponent is a single lookup.
type Matrix struct {
	heroes []string
	cells  map[string]map[string]*model.MatchupCell
}

type matchupOptions struct {
	vocabulary []string
}

// MatchupOption configures ComputeMatchups.
type MatchupOption func(*matchupOptions)

// WithVocabulary seeds the matrix with codes so heroes absent from the
// records still appear, with zero counts.
func WithVocabulary(codes []string) MatchupOption {
	return func(o *matchupOptions) {
		o.vocabulary = append(o.vocabulary, codes...)
	}
}

// ComputeMatchups builds the matchup matrix. For each record the winner's
// cell against the loser gains a win and a game; the loser's cell against
// the winner gains a game only.
func ComputeMatchups(records []model.MatchRecord, opts ...MatchupOption) *Matrix {
	var o matchupOptions
	for _, opt := range opts {
		opt(&o)
	}

	seen := make(map[string]struct{})
	var heroes []string
	addHero := func(code string) {
		if _, ok := seen[code]; !ok {
			seen[code] = struct{}{}
			heroes = append(heroes, code)
		}
	}
	for _, c := range o.vocabulary {
		addHero(c)
	}
	for _, r := range records {
		addHero(r.WinningHero)
		addHero(r.LosingHero)
	}
	hero.Sort(heroes)

	m := &Matrix{
		heroes: heroes,
		cells:  make(map[string]map[string]*model.MatchupCell, len(heroes)),
	}
	for _, x := range heroes {
		row := make(map[string]*model.MatchupCell, len(heroes))
		for _, y := range heroes {
			row[y] = &model.MatchupCell{}
		}
		m.cells[x] = row
	}

	for _, r := range records {
		won := m.cells[r.WinningHero][r.LosingHero]
		won.Wins++
		won.Total++
		m.cells[r.LosingHero][r.WinningHero].Total++
	}
	return m
}

// Heroes returns the matrix axis, plants first.
func (m *Matrix) Heroes() []string {
	out := make([]string, len(m.heroes))
	copy(out, m.heroes)
	return out
}

// Cell returns x's record against y. Unknown heroes yield an empty cell.
func (m *Matrix) Cell(x, y string) model.MatchupCell {
	if c, ok := m.cells[x][y]; ok {
		return *c
	}
	return model.MatchupCell{}
}

// WinRate is x's win percentage against y; ok is false when they never met.
func (m *Matrix) WinRate(x, y string) (float64, bool) {
	return m.Cell(x, y).WinRate()
}

// CombinedWinRate presents a single percentage for x against y, using
// games = m[x][y].total + m[y][x].wins. Mirror matches do not exist across
// factions, so adding the two totals would count each game twice.
func (m *Matrix) CombinedWinRate(x, y string) (pct float64, games int, ok bool) {
	xy, yx := m.Cell(x, y), m.Cell(y, x)
	games = xy.Total + yx.Wins
	if games == 0 {
		return 0, 0, false
	}
	return model.Pct(xy.Wins, games), games, true
}

// Totals sums x's cells across every opponent other than itself.
func (m *Matrix) Totals(x string) model.MatchupCell {
	var t model.MatchupCell
	for y, c := range m.cells[x] {
		if y == x {
			continue
		}
		t.Wins += c.Wins
		t.Total += c.Total
	}
	return t
}

// FactionGrid returns the axes of a faction-only grid: rows are the heroes of
// rowFaction present in the matrix, columns the heroes of the other faction.
func (m *Matrix) FactionGrid(rowFaction model.Faction) (rows, cols []string) {
	for _, h := range m.heroes {
		switch f := hero.FactionOf(h); {
		case f == rowFaction:
			rows = append(rows, h)
		case f != model.FactionUnknown:
			cols = append(cols, h)
		}
	}
	return rows, cols
}

// MatrixCell is one populated entry of Matrix.Cells.
type MatrixCell struct {
	Hero     string `json:"hero"`
	Opponent string `json:"opponent"`
	model.MatchupCell
}

// Cells lists every cell with at least one game, in axis order.
func (m *Matrix) Cells() []MatrixCell {
	var out []MatrixCell
	for _, x := range m.heroes {
		for _, y := range m.heroes {
			if c := m.cells[x][y]; c.Total > 0 {
				out = append(out, MatrixCell{Hero: x, Opponent: y, MatchupCell: *c})
			}
		}
	}
	return out
}

// HeroWinRates returns each hero's overall record across all opponents.
func HeroWinRates(records []model.MatchRecord) map[string]model.HeroStat {
	out := make(map[string]model.HeroStat)
	for _, r := range records {
		w := out[r.WinningHero]
		w.Add(true)
		out[r.WinningHero] = w

		l := out[r.LosingHero]
		l.Add(false)
		out[r.LosingHero] = l
	}
	return out
}
