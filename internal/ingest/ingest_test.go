package ingest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/pvzh-stats/internal/source"
	"github.com/pable/pvzh-stats/internal/store"
)

// fakeSource serves fixed text per "patch/tournament" key with a per-key
// delay so fetches finish out of order.
type fakeSource struct {
	data   map[string]string
	fail   map[string]error
	delay  map[string]time.Duration
	active int32
	peak   int32
	mu     sync.Mutex
}

func (f *fakeSource) Fetch(ctx context.Context, patch, tournament string) ([]byte, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	f.mu.Lock()
	if n > f.peak {
		f.peak = n
	}
	f.mu.Unlock()

	key := patch + "/" + tournament
	if d := f.delay[key]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	text, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrUnavailable, key)
	}
	return []byte(text), nil
}

func newLoader(src source.Source, concurrency int) *Loader {
	return &Loader{Source: src, Concurrency: concurrency, Logger: zerolog.Nop()}
}

func TestLoadAll_DeterministicOrder(t *testing.T) {
	src := &fakeSource{
		data: map[string]string{
			"p1/Live":   "2024-01-01|A|B|gs|sb\n",
			"p1/Ranked": "2024-01-02|C|D|sf|sm\n",
			"p2/Live":   "2024-01-03|E|F|wk|if\nbad line\n",
		},
		delay: map[string]time.Duration{
			"p1/Live": 30 * time.Millisecond,
		},
	}
	st := store.New()

	rep, err := newLoader(src, 4).LoadAll(context.Background(), st, []string{"p1", "p2"}, []string{"Live", "Ranked"})
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Sources)
	assert.Equal(t, 3, rep.Loaded)
	assert.Equal(t, 3, rep.Records)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, []store.SourceKey{{Patch: "p2", Tournament: "Ranked"}}, rep.Unavailable)

	recs := st.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "A", recs[0].Winner)
	assert.Equal(t, "C", recs[1].Winner)
	assert.Equal(t, "E", recs[2].Winner)

	stats := st.Stats()
	assert.Equal(t, 4, stats.Sources)
	assert.Equal(t, rep.Unavailable, stats.UnavailableSources)
}

func TestLoadAll_FailingSourceIsNotFatal(t *testing.T) {
	src := &fakeSource{
		data: map[string]string{"p1/Live": "2024-01-01|A|B|gs|sb\n"},
		fail: map[string]error{"p1/Ranked": fmt.Errorf("disk on fire")},
	}
	rep, err := newLoader(src, 2).LoadAll(context.Background(), store.New(), []string{"p1"}, []string{"Live", "Ranked"})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Records)
	assert.Len(t, rep.Unavailable, 1)
}

func TestLoadAll_ResetsStore(t *testing.T) {
	src := &fakeSource{data: map[string]string{"p1/Live": "2024-01-01|A|B|gs|sb\n"}}
	st := store.New()
	st.Load("2023-01-01|X|Y|gs|sb\n", "old", "Old")

	_, err := newLoader(src, 1).LoadAll(context.Background(), st, []string{"p1"}, []string{"Live"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, []string{"p1"}, st.Patches())
}

func TestLoadAll_NothingAvailable(t *testing.T) {
	rep, err := newLoader(&fakeSource{}, 1).LoadAll(context.Background(), store.New(), []string{"p1"}, []string{"Live"})
	require.NoError(t, err)
	assert.True(t, rep.NoData())
	assert.Equal(t, 0, rep.Loaded)
	assert.Len(t, rep.Unavailable, 1)
}

func TestLoadAll_RespectsConcurrency(t *testing.T) {
	src := &fakeSource{data: map[string]string{}, delay: map[string]time.Duration{}}
	var tournaments []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("T%d", i)
		tournaments = append(tournaments, name)
		src.data["p1/"+name] = "2024-01-01|A|B|gs|sb\n"
		src.delay["p1/"+name] = 10 * time.Millisecond
	}

	rep, err := newLoader(src, 2).LoadAll(context.Background(), store.New(), []string{"p1"}, tournaments)
	require.NoError(t, err)
	assert.Equal(t, 8, rep.Records)
	assert.LessOrEqual(t, src.peak, int32(2))
}

func TestLoadAll_Cancelled(t *testing.T) {
	src := &fakeSource{
		data:  map[string]string{"p1/Live": "2024-01-01|A|B|gs|sb\n"},
		delay: map[string]time.Duration{"p1/Live": time.Second},
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newLoader(src, 1).LoadAll(ctx, store.New(), []string{"p1"}, []string{"Live"})
	assert.ErrorIs(t, err, context.Canceled)
}
