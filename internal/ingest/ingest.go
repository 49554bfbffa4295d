// Package ingest loads every selected (patch, tournament) source into a
// record store.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/pvzh-stats/internal/source"
	"github.com/pable/pvzh-stats/internal/store"
)

// DefaultConcurrency bounds parallel fetches when Loader.Concurrency is unset.
const DefaultConcurrency = 4

// Report describes one LoadAll run.
type Report struct {
	Sources     int               `json:"sources"`
	Loaded      int               `json:"loaded"`
	Unavailable []store.SourceKey `json:"unavailable"`
	Records     int               `json:"records"`
	Skipped     int               `json:"skipped"`
}

// NoData reports whether the run produced no records at all.
func (r Report) NoData() bool { return r.Records == 0 }

// Loader fetches sources and applies them to a store.
type Loader struct {
	Source      source.Source
	Concurrency int
	Logger      zerolog.Logger
}

type fetched struct {
	key  store.SourceKey
	data []byte
	err  error
}

// LoadAll resets st and loads the cross product of patches and tournaments.
// Fetches run concurrently; records are applied in patch-major order so the
// resulting store is the same regardless of fetch timing. A source that
// cannot be fetched is logged and recorded as unavailable. Only context
// cancellation aborts the run.
func (l *Loader) LoadAll(ctx context.Context, st *store.Store, patches, tournaments []string) (Report, error) {
	st.Reset()

	var keys []store.SourceKey
	for _, p := range patches {
		for _, t := range tournaments {
			keys = append(keys, store.SourceKey{Patch: p, Tournament: t})
		}
	}
	results := make([]fetched, len(keys))

	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, k := range keys {
		g.Go(func() error {
			data, err := l.Source.Fetch(gctx, k.Patch, k.Tournament)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			results[i] = fetched{key: k, data: data, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("load sources: %w", err)
	}

	rep := Report{Sources: len(keys)}
	for _, f := range results {
		if f.err != nil {
			ev := l.Logger.Warn()
			if errors.Is(f.err, source.ErrUnavailable) {
				ev = l.Logger.Debug()
			}
			ev.Err(f.err).
				Str("patch", f.key.Patch).
				Str("tournament", f.key.Tournament).
				Msg("source unavailable")
			st.MarkUnavailable(f.key.Patch, f.key.Tournament)
			rep.Unavailable = append(rep.Unavailable, f.key)
			continue
		}

		res := st.Load(string(f.data), f.key.Patch, f.key.Tournament)
		for _, le := range res.Errors {
			l.Logger.Debug().
				Str("patch", f.key.Patch).
				Str("tournament", f.key.Tournament).
				Int("line", le.Line).
				Str("reason", le.Reason).
				Msg("skipped malformed line")
		}
		if res.UnknownHeroes > 0 {
			l.Logger.Warn().
				Str("patch", f.key.Patch).
				Str("tournament", f.key.Tournament).
				Int("records", res.UnknownHeroes).
				Msg("records reference unknown hero codes")
		}
		rep.Loaded++
		rep.Records += res.Added
		rep.Skipped += res.Skipped
	}

	l.Logger.Info().
		Int("sources", rep.Sources).
		Int("loaded", rep.Loaded).
		Int("records", rep.Records).
		Int("skipped", rep.Skipped).
		Msg("load complete")
	return rep, nil
}
