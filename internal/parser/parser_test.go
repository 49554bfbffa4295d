package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/pvzh-stats/internal/model"
)

func TestParseLine_AllFields(t *testing.T) {
	rec, err := ParseLine("2024-01-01T00:00:00Z|Alice|Bob|gs|sb|DeckA|DeckB", "p1", "Quicksand Live")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.Time)
	assert.Equal(t, "Alice", rec.Winner)
	assert.Equal(t, "Bob", rec.Loser)
	assert.Equal(t, "gs", rec.WinningHero)
	assert.Equal(t, "sb", rec.LosingHero)
	assert.Equal(t, "DeckA", rec.WinningDeck)
	assert.Equal(t, "DeckB", rec.LosingDeck)
	assert.Equal(t, "p1", rec.Patch)
	assert.Equal(t, "Quicksand Live", rec.Tournament)
}

func TestParseLine_OptionalDecks(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantWin   string
		wantLoser string
	}{
		{name: "both absent", line: "2024-01-01|Alice|Bob|gs|sb", wantWin: model.UnknownDeck, wantLoser: model.UnknownDeck},
		{name: "both blank", line: "2024-01-01|Alice|Bob|gs|sb||", wantWin: model.UnknownDeck, wantLoser: model.UnknownDeck},
		{name: "losing absent", line: "2024-01-01|Alice|Bob|gs|sb|Solar", wantWin: "Solar", wantLoser: model.UnknownDeck},
		{name: "winning blank", line: "2024-01-01|Alice|Bob|gs|sb| |Brainz", wantWin: model.UnknownDeck, wantLoser: "Brainz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line, "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantWin, rec.WinningDeck)
			assert.Equal(t, tt.wantLoser, rec.LosingDeck)
		})
	}
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "empty", line: ""},
		{name: "missing losing hero", line: "2024-01-01|Alice|Bob|gs"},
		{name: "blank winner", line: "2024-01-01||Bob|gs|sb"},
		{name: "blank timestamp", line: "|Alice|Bob|gs|sb|a|b"},
		{name: "bad timestamp", line: "yesterday|Alice|Bob|gs|sb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line, "", "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))
		})
	}
}

func TestParseLine_NormalisesHeroCase(t *testing.T) {
	rec, err := ParseLine("2024-01-01|Alice|Bob|GS|Sb", "", "")
	require.NoError(t, err)
	assert.Equal(t, "gs", rec.WinningHero)
	assert.Equal(t, "sb", rec.LosingHero)
}

func TestParse_SkipsAndCounts(t *testing.T) {
	text := "2024-01-01T00:00:00Z|Alice|Bob|gs|sb|DeckA|DeckB\r\n" +
		"\n" +
		"garbage line\n" +
		"2024-01-02T00:00:00Z|Bob|Alice|sb|gs\n" +
		"2024-01-03|Carol|Dan|xx|sb\n"

	res := Parse(text, "p2", "Ranked")

	require.Len(t, res.Records, 3)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Equal(t, 1, res.UnknownHeroes)
	assert.Equal(t, "DeckB", res.Records[0].LosingDeck, "CR must not leak into the last field")
	for _, r := range res.Records {
		assert.Equal(t, "p2", r.Patch)
		assert.Equal(t, "Ranked", r.Tournament)
	}
}

func TestParseTime_Layouts(t *testing.T) {
	for _, s := range []string{
		"2024-03-05T10:11:12Z",
		"2024-03-05T10:11:12.345+02:00",
		"2024-03-05T10:11:12",
		"2024-03-05 10:11:12",
		"2024-03-05",
	} {
		ts, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, ts.Year(), s)
	}
}
