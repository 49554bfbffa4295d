// Package report renders aggregates as terminal tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/hero"
	"github.com/pable/pvzh-stats/internal/ingest"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/store"
)

// NoData is printed wherever a rate has no games behind it.
const NoData = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// ---- Load / store ----

// PrintLoadReport prints the outcome of a load run.
func PrintLoadReport(w io.Writer, rep ingest.Report) {
	fmt.Fprintf(w, "\nSources : %d requested, %d loaded, %d unavailable\n",
		rep.Sources, rep.Loaded, len(rep.Unavailable))
	fmt.Fprintf(w, "Records : %d loaded, %d malformed lines skipped\n", rep.Records, rep.Skipped)
	if len(rep.Unavailable) > 0 {
		names := make([]string, len(rep.Unavailable))
		for i, k := range rep.Unavailable {
			names[i] = k.Patch + "/" + k.Tournament
		}
		fmt.Fprintf(w, "Missing : %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintln(w)
}

// EmptyReason explains why an aggregate has no rows: either nothing was
// loaded (and how many sources failed) or the filters excluded everything.
func EmptyReason(stats store.Stats) string {
	switch {
	case stats.Records == 0 && stats.Sources == 0:
		return "No sources were selected."
	case stats.Records == 0 && len(stats.UnavailableSources) == stats.Sources:
		return fmt.Sprintf("No data loaded: all %d sources failed to load.", stats.Sources)
	case stats.Records == 0 && len(stats.UnavailableSources) > 0:
		return fmt.Sprintf("No data loaded: %d of %d sources failed to load and the rest were empty.",
			len(stats.UnavailableSources), stats.Sources)
	case stats.Records == 0:
		return "No data loaded: the selected sources contain no valid records."
	default:
		return fmt.Sprintf("No records match the current filters (%d loaded).", stats.Records)
	}
}

// PrintIdentitySets lists the distinct players, heroes, decks, tournaments
// and patches held by st.
func PrintIdentitySets(w io.Writer, st *store.Store) {
	heroes := st.Heroes()
	hero.Sort(heroes)
	names := make([]string, len(heroes))
	for i, h := range heroes {
		names[i] = hero.FullName(h)
	}

	table := newTable(w)
	table.Header("SET", "COUNT", "VALUES")
	add := func(label string, values []string) {
		table.Append(label, strconv.Itoa(len(values)), preview(values, 8))
	}
	add("Players", st.Players())
	add("Heroes", names)
	add("Decks", st.Decks())
	add("Tournaments", st.Tournaments())
	add("Patches", st.Patches())
	table.Render()
}

func preview(values []string, n int) string {
	if len(values) <= n {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:n], ", ") + fmt.Sprintf(", … (+%d)", len(values)-n)
}

// PrintSummary prints the collection overview.
func PrintSummary(w io.Writer, s aggregator.Summary, stats store.Stats) {
	fmt.Fprintf(w, "\n=== Summary ===\n\n")
	fmt.Fprintf(w, "  Games         : %d\n", s.Games)
	if s.Games > 0 {
		fmt.Fprintf(w, "  Date range    : %s → %s\n",
			s.Earliest.Format("2006-01-02"), s.Latest.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "  Players       : %d\n", s.Players)
	fmt.Fprintf(w, "  Heroes seen   : %d\n", s.Heroes)
	fmt.Fprintf(w, "  Sources       : %d (%d unavailable)\n", stats.Sources, len(stats.UnavailableSources))
	fmt.Fprintf(w, "  Skipped lines : %d\n", stats.SkippedLines)
	if stats.UnknownHeroes > 0 {
		fmt.Fprintf(w, "  Unknown heroes: %d records\n", stats.UnknownHeroes)
	}
	fmt.Fprintln(w)
}

// ---- Matchups ----

// MatchupCellText renders the row hero's record against the column hero,
// e.g. "60.0% (3/5)". Cells without games render as NoData.
func MatchupCellText(c model.MatchupCell) string {
	rate, ok := c.WinRate()
	if !ok {
		return NoData
	}
	return fmt.Sprintf("%s (%d/%d)", pct(rate), c.Wins, c.Total)
}

// CombinedCellText renders a one-sided combined win rate, e.g. "33.3% n=3".
func CombinedCellText(rate float64, games int, ok bool) string {
	if !ok {
		return NoData
	}
	return fmt.Sprintf("%s n=%d", pct(rate), games)
}

// PrintMatchupMatrix prints the full hero-by-hero matrix.
func PrintMatchupMatrix(w io.Writer, m *aggregator.Matrix, combined bool) {
	heroes := m.Heroes()
	printGrid(w, m, heroes, heroes, combined)
}

// PrintFactionGrid prints rowFaction heroes against the opposing faction.
func PrintFactionGrid(w io.Writer, m *aggregator.Matrix, rowFaction model.Faction, combined bool) {
	rows, cols := m.FactionGrid(rowFaction)
	printGrid(w, m, rows, cols, combined)
}

func printGrid(w io.Writer, m *aggregator.Matrix, rows, cols []string, combined bool) {
	if len(rows) == 0 || len(cols) == 0 {
		fmt.Fprintln(w, "(no heroes)")
		return
	}
	header := make([]any, 0, len(cols)+2)
	header = append(header, "HERO")
	for _, c := range cols {
		header = append(header, strings.ToUpper(c))
	}
	header = append(header, "TOTAL")

	table := newTable(w)
	table.Header(header...)
	for _, x := range rows {
		line := make([]any, 0, len(cols)+2)
		line = append(line, hero.FullName(x))
		var total model.MatchupCell
		for _, y := range cols {
			c := m.Cell(x, y)
			if x != y {
				total.Wins += c.Wins
				total.Total += c.Total
			}
			if combined {
				line = append(line, CombinedCellText(m.CombinedWinRate(x, y)))
			} else {
				line = append(line, MatchupCellText(c))
			}
		}
		line = append(line, MatchupCellText(total))
		table.Append(line...)
	}
	table.Render()
}

// ---- Heroes ----

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

func sampleFlag(n int) string {
	switch {
	case n >= 30:
		return "OK"
	case n >= 10:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// PrintHeroWinRates prints each hero's overall record, plants first.
func PrintHeroWinRates(w io.Writer, stats map[string]model.HeroStat) {
	codes := make([]string, 0, len(stats))
	for c := range stats {
		codes = append(codes, c)
	}
	hero.Sort(codes)

	table := newTable(w)
	table.Header("HERO", "FACTION", "GAMES", "W", "L", "WIN%", "95% CI", "SAMPLE")
	for _, c := range codes {
		s := stats[c]
		lo, hi := wilsonCI(s.Wins, s.TotalGames)
		table.Append(
			hero.FullName(c),
			hero.FactionOf(c).String(),
			strconv.Itoa(s.TotalGames),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			pct(s.WinRatePct),
			fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100),
			sampleFlag(s.TotalGames),
		)
	}
	table.Render()
}

// ---- Players ----

// PrintRankings prints the win-rate leaderboard (players with at least
// minGames) followed by the games-played leaderboard.
func PrintRankings(w io.Writer, byWinRate, byGames []model.PlayerStanding, minGames int) {
	fmt.Fprintf(w, "\n--- Top Win Rate (min %d games) ---\n\n", minGames)
	if len(byWinRate) == 0 {
		fmt.Fprintln(w, "(no qualifying players)")
	} else {
		PrintStandings(w, byWinRate)
	}

	fmt.Fprintf(w, "\n--- Most Games Played ---\n\n")
	if len(byGames) == 0 {
		fmt.Fprintln(w, "(no players)")
	} else {
		PrintStandings(w, byGames)
	}
}

// PrintStandings prints a numbered leaderboard.
func PrintStandings(w io.Writer, standings []model.PlayerStanding) {
	table := newTable(w)
	table.Header("#", "PLAYER", "GAMES", "W", "L", "WIN%")
	for i, s := range standings {
		table.Append(
			strconv.Itoa(i+1),
			s.Name,
			strconv.Itoa(s.GamesPlayed),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			pct(s.WinRatePct),
		)
	}
	table.Render()
}

// PrintPlayerOverview prints a player's totals and faction split.
func PrintPlayerOverview(w io.Writer, s model.PlayerStanding, split model.FactionSplit) {
	fmt.Fprintf(w, "\n=== %s ===\n\n", s.Name)
	table := newTable(w)
	table.Header("SIDE", "GAMES", "W", "L", "WIN%")
	row := func(label string, games, wins, losses int, rate float64) {
		r := NoData
		if games > 0 {
			r = pct(rate)
		}
		table.Append(label, strconv.Itoa(games), strconv.Itoa(wins), strconv.Itoa(losses), r)
	}
	row("All", s.GamesPlayed, s.Wins, s.Losses, s.WinRatePct)
	row("Plant", split.Plant.TotalGames, split.Plant.Wins, split.Plant.Losses, split.Plant.WinRatePct)
	row("Zombie", split.Zombie.TotalGames, split.Zombie.Wins, split.Zombie.Losses, split.Zombie.WinRatePct)
	table.Render()
}

// PrintStatTable prints a keyed win/loss table ordered by games played. When
// heroKeys is set, keys are hero codes and are shown by full name.
func PrintStatTable(w io.Writer, label string, stats map[string]model.HeroStat, heroKeys bool) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "(no games)")
		return
	}
	table := newTable(w)
	table.Header(strings.ToUpper(label), "GAMES", "W", "L", "WIN%")
	for _, k := range aggregator.SortedKeys(stats) {
		s := stats[k]
		name := k
		if heroKeys {
			name = hero.FullName(k)
		}
		table.Append(name, strconv.Itoa(s.TotalGames), strconv.Itoa(s.Wins), strconv.Itoa(s.Losses), pct(s.WinRatePct))
	}
	table.Render()
}

// PrintHeroMatchups prints a player's record per (own hero, opponent hero).
func PrintHeroMatchups(w io.Writer, m map[string]map[string]model.HeroStat) {
	if len(m) == 0 {
		fmt.Fprintln(w, "(no games)")
		return
	}
	own := make([]string, 0, len(m))
	for h := range m {
		own = append(own, h)
	}
	hero.Sort(own)

	table := newTable(w)
	table.Header("HERO", "VS", "GAMES", "W", "L", "WIN%")
	for _, h := range own {
		opps := make([]string, 0, len(m[h]))
		for o := range m[h] {
			opps = append(opps, o)
		}
		hero.Sort(opps)
		for _, o := range opps {
			s := m[h][o]
			table.Append(hero.FullName(h), hero.FullName(o),
				strconv.Itoa(s.TotalGames), strconv.Itoa(s.Wins), strconv.Itoa(s.Losses), pct(s.WinRatePct))
		}
	}
	table.Render()
}

// PrintTrend prints one row per patch in timeline order.
func PrintTrend(w io.Writer, points []aggregator.TrendPoint) {
	table := newTable(w)
	table.Header("PATCH", "FROM", "TO", "GAMES", "W", "L", "WIN%", "SAMPLE")
	for _, p := range points {
		table.Append(
			p.Patch,
			p.First.Format("2006-01-02"),
			p.Last.Format("2006-01-02"),
			strconv.Itoa(p.TotalGames),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Losses),
			pct(p.WinRatePct),
			sampleFlag(p.TotalGames),
		)
	}
	table.Render()
}

// PrintHeadToHead prints the series score between a and b followed by each
// game in chronological order.
func PrintHeadToHead(w io.Writer, a, b string, records []model.MatchRecord) {
	var aWins, bWins int
	for _, r := range records {
		if r.Won(a) {
			aWins++
		} else {
			bWins++
		}
	}
	fmt.Fprintf(w, "\n%s %d – %d %s  (%d games)\n\n", a, aWins, bWins, b, len(records))
	if len(records) == 0 {
		return
	}

	table := newTable(w)
	table.Header("DATE", "WINNER", "HERO", "DECK", "LOSER", "HERO", "DECK", "PATCH", "TOURNAMENT")
	for _, r := range aggregator.Chronological(records) {
		table.Append(
			r.Time.Format("2006-01-02 15:04"),
			r.Winner, hero.FullName(r.WinningHero), r.WinningDeck,
			r.Loser, hero.FullName(r.LosingHero), r.LosingDeck,
			r.Patch, r.Tournament,
		)
	}
	table.Render()
}

// ---- Decks ----

// PrintDeckStats prints one row per canonical deck and an indented row per
// selected player who used it.
func PrintDeckStats(w io.Writer, stats []model.DeckStat) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "(no library decks were played by the selected players)")
		return
	}
	table := newTable(w)
	table.Header("DECK", "PLAYER", "PLAYED", "W", "L", "WIN%")
	for _, d := range stats {
		table.Append(d.CanonicalName, "", strconv.Itoa(d.Played), strconv.Itoa(d.Wins), strconv.Itoa(d.Losses), pct(d.WinRatePct))

		players := make([]string, 0, len(d.PerPlayer))
		for p := range d.PerPlayer {
			players = append(players, p)
		}
		sort.Slice(players, func(i, j int) bool {
			pi, pj := d.PerPlayer[players[i]], d.PerPlayer[players[j]]
			if pi.Played != pj.Played {
				return pi.Played > pj.Played
			}
			return players[i] < players[j]
		})
		for _, p := range players {
			s := d.PerPlayer[p]
			table.Append("", p, strconv.Itoa(s.Played), strconv.Itoa(s.Wins), strconv.Itoa(s.Losses), pct(s.WinRatePct))
		}
	}
	table.Render()
}

// PrintDeckLibrary prints the stored library in order.
func PrintDeckLibrary(w io.Writer, entries []model.DeckLibraryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Deck library is empty. Add one with 'pvzhstats decks add <name> [alias...]'.")
		return
	}
	table := newTable(w)
	table.Header("#", "DECK", "ALIASES")
	for i, e := range entries {
		table.Append(strconv.Itoa(i+1), e.Name, strings.Join(e.Aliases, ", "))
	}
	table.Render()
}

// ---- Raw SQL ----

// PrintRows prints an arbitrary result set with a row count.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
