package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/ingest"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/store"
)

func scenarioA() []model.MatchRecord {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []model.MatchRecord{
		{Time: t1, Winner: "Alice", Loser: "Bob", WinningHero: "gs", LosingHero: "sb", WinningDeck: "DeckA", LosingDeck: "DeckB", Patch: "p1", Tournament: "Live"},
		{Time: t2, Winner: "Bob", Loser: "Alice", WinningHero: "sb", LosingHero: "gs", WinningDeck: "DeckC", LosingDeck: "DeckD", Patch: "p1", Tournament: "Live"},
	}
}

func TestMatchupCellText(t *testing.T) {
	if got := MatchupCellText(model.MatchupCell{}); got != NoData {
		t.Errorf("empty cell: got %q, want %q", got, NoData)
	}
	if got := MatchupCellText(model.MatchupCell{Wins: 0, Total: 3}); got != "0.0% (0/3)" {
		t.Errorf("zero-win cell: got %q", got)
	}
	if got := MatchupCellText(model.MatchupCell{Wins: 1, Total: 2}); got != "50.0% (1/2)" {
		t.Errorf("got %q", got)
	}
}

func TestCombinedCellText(t *testing.T) {
	m := aggregator.ComputeMatchups(scenarioA())
	if got := CombinedCellText(m.CombinedWinRate("gs", "sb")); got != "33.3% n=3" {
		t.Errorf("combined gs vs sb: got %q, want %q", got, "33.3% n=3")
	}
	if got := CombinedCellText(0, 0, false); got != NoData {
		t.Errorf("no data: got %q", got)
	}
}

func TestPrintMatchupMatrix(t *testing.T) {
	var buf bytes.Buffer
	m := aggregator.ComputeMatchups(scenarioA(), aggregator.WithVocabulary([]string{"sf"}))
	PrintMatchupMatrix(&buf, m, false)
	out := buf.String()

	for _, want := range []string{"Green Shadow", "Solar Flare", "Super Brainz", "GS", "SB", "TOTAL", "50.0% (1/2)", NoData} {
		if !strings.Contains(out, want) {
			t.Errorf("matrix output missing %q:\n%s", want, out)
		}
	}
	// Plants are listed before zombies.
	if strings.Index(out, "Green Shadow") > strings.Index(out, "Super Brainz") {
		t.Errorf("expected plant rows before zombie rows:\n%s", out)
	}
}

func TestPrintFactionGrid(t *testing.T) {
	var buf bytes.Buffer
	m := aggregator.ComputeMatchups(scenarioA())
	PrintFactionGrid(&buf, m, model.FactionZombie, true)
	out := buf.String()
	if !strings.Contains(out, "Super Brainz") || !strings.Contains(out, "GS") {
		t.Errorf("unexpected faction grid:\n%s", out)
	}
	if strings.Contains(out, "Green Shadow") {
		t.Errorf("plant hero should not be a row in a zombie grid:\n%s", out)
	}
}

func TestEmptyReason(t *testing.T) {
	cases := []struct {
		name  string
		stats store.Stats
		want  string
	}{
		{"nothing selected", store.Stats{}, "No sources were selected."},
		{"all failed", store.Stats{Sources: 2, UnavailableSources: make([]store.SourceKey, 2)}, "all 2 sources failed"},
		{"some failed", store.Stats{Sources: 3, UnavailableSources: make([]store.SourceKey, 1)}, "1 of 3 sources failed"},
		{"empty sources", store.Stats{Sources: 2}, "contain no valid records"},
		{"filtered out", store.Stats{Sources: 2, Records: 7}, "No records match the current filters (7 loaded)."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := EmptyReason(c.stats); !strings.Contains(got, c.want) {
				t.Errorf("EmptyReason = %q, want it to contain %q", got, c.want)
			}
		})
	}
}

func TestPrintLoadReport(t *testing.T) {
	var buf bytes.Buffer
	PrintLoadReport(&buf, ingest.Report{
		Sources:     2,
		Loaded:      1,
		Records:     10,
		Skipped:     1,
		Unavailable: []store.SourceKey{{Patch: "p2", Tournament: "Live"}},
	})
	out := buf.String()
	for _, want := range []string{"2 requested, 1 loaded, 1 unavailable", "10 loaded, 1 malformed", "p2/Live"} {
		if !strings.Contains(out, want) {
			t.Errorf("load report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRankings(t *testing.T) {
	var buf bytes.Buffer
	standings := aggregator.Rankings(scenarioA())
	PrintRankings(&buf, nil, aggregator.ByGamesPlayed(standings), 5)
	out := buf.String()
	if !strings.Contains(out, "(no qualifying players)") {
		t.Errorf("expected empty win-rate board:\n%s", out)
	}
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "Bob") {
		t.Errorf("expected both players on games board:\n%s", out)
	}
}

func TestPrintHeadToHead(t *testing.T) {
	var buf bytes.Buffer
	PrintHeadToHead(&buf, "Alice", "Bob", scenarioA())
	if !strings.Contains(buf.String(), "Alice 1 – 1 Bob  (2 games)") {
		t.Errorf("unexpected head-to-head header:\n%s", buf.String())
	}
}

func TestPrintDeckStats(t *testing.T) {
	var buf bytes.Buffer
	stats := []model.DeckStat{{
		CanonicalName: "Pirate", Played: 2, Wins: 1, Losses: 1, WinRatePct: 50,
		PerPlayer: map[string]*model.DeckPlayerStat{
			"Alice": {Played: 2, Wins: 1, Losses: 1, WinRatePct: 50},
		},
	}}
	PrintDeckStats(&buf, stats)
	if !strings.Contains(buf.String(), "Pirate") || !strings.Contains(buf.String(), "Alice") {
		t.Errorf("unexpected deck stats:\n%s", buf.String())
	}

	buf.Reset()
	PrintDeckStats(&buf, nil)
	if !strings.Contains(buf.String(), "no library decks") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestPrintRowsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintRows(&buf, []string{"a"}, nil)
	if strings.TrimSpace(buf.String()) != "(no rows)" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, aggregator.Rankings(scenarioA())); err != nil {
		t.Fatalf("PrintJSON: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 standings, got %d", len(got))
	}
}

func TestWilsonCI(t *testing.T) {
	lo, hi := wilsonCI(0, 0)
	if lo != 0 || hi != 1 {
		t.Errorf("no games: got [%f, %f]", lo, hi)
	}
	lo, hi = wilsonCI(50, 100)
	if math.Abs((lo+hi)/2-0.5) > 1e-9 {
		t.Errorf("expected interval centred on 0.5, got [%f, %f]", lo, hi)
	}
	if lo <= 0.39 || hi >= 0.61 {
		t.Errorf("unexpected width for n=100: [%f, %f]", lo, hi)
	}
}
