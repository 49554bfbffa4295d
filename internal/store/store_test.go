package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `2024-01-01T00:00:00Z|Alice|Bob|gs|sb|DeckA|DeckB
2024-01-02T00:00:00Z|Bob|alice|sb|gs|DeckC
not a record
`

func TestLoad_DerivedSets(t *testing.T) {
	s := New()
	res := s.Load(sampleText, "p1", "Quicksand Live")

	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, []string{"Alice", "Bob"}, s.Players(), "names fold case but keep first spelling")
	assert.Equal(t, []string{"gs", "sb"}, s.Heroes())
	assert.Equal(t, []string{"DeckA", "DeckB", "DeckC", "Unknown"}, s.Decks())
	assert.Equal(t, []string{"Quicksand Live"}, s.Tournaments())
	assert.Equal(t, []string{"p1"}, s.Patches())

	st := s.Stats()
	assert.Equal(t, 2, st.Records)
	assert.Equal(t, 1, st.SkippedLines)
	assert.Equal(t, 1, st.Sources)
	assert.Empty(t, st.UnavailableSources)
}

func TestLoad_IsAdditiveWithoutDedup(t *testing.T) {
	s := New()
	s.Load(sampleText, "p1", "Live")
	s.Load(sampleText, "p1", "Live")

	assert.Equal(t, 4, s.Len())
	recs := s.Records()
	assert.Equal(t, recs[0], recs[2])
}

func TestRecords_KeepLoadOrderAndAreCopies(t *testing.T) {
	s := New()
	s.Load("2024-02-01|Late|X|gs|sb", "p2", "T")
	s.Load("2024-01-01|Early|X|gs|sb", "p1", "T")

	recs := s.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "Late", recs[0].Winner)

	recs[0].Winner = "mutated"
	assert.Equal(t, "Late", s.Records()[0].Winner)
}

func TestReset_ClearsEverything(t *testing.T) {
	s := New()
	s.Load(sampleText, "p1", "Live")
	s.MarkUnavailable("p9", "Gone")
	s.Reset()

	assert.Zero(t, s.Len())
	assert.Empty(t, s.Players())
	assert.Empty(t, s.Heroes())
	assert.Equal(t, Stats{UnavailableSources: []SourceKey{}}, s.Stats())
}

func TestMarkUnavailable(t *testing.T) {
	s := New()
	s.MarkUnavailable("p3", "Missing Cup")

	st := s.Stats()
	assert.Equal(t, 1, st.Sources)
	assert.Equal(t, []SourceKey{{Patch: "p3", Tournament: "Missing Cup"}}, st.UnavailableSources)
	assert.Zero(t, st.Records)
}

func TestLoad_ConcurrentCallsAreSafe(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load(sampleText, "p1", "Live")
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, s.Len())
	assert.Equal(t, 8, s.Stats().SkippedLines)
}
