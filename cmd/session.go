package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/pvzh-stats/internal/filter"
	"github.com/pable/pvzh-stats/internal/ingest"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/source"
	"github.com/pable/pvzh-stats/internal/storage"
	"github.com/pable/pvzh-stats/internal/store"
)

// session is one loaded store plus the sources it was loaded from. Commands
// build one per run; the shell keeps one for its whole lifetime.
type session struct {
	src         *source.Dir
	store       *store.Store
	patches     []string
	tournaments []string
	report      ingest.Report
}

func newSource() *source.Dir {
	src := source.NewDir(cfg.Data.Dir)
	src.FallbackPatches = cfg.Data.FallbackPatches
	src.FallbackTournaments = cfg.Data.FallbackTournaments
	src.Logger = logger.With().Str("component", "source").Logger()
	return src
}

// pick returns the first non-empty selection.
func pick(choices ...[]string) []string {
	for _, c := range choices {
		if len(c) > 0 {
			return c
		}
	}
	return nil
}

// openSession selects sources (flags, then config, then the catalog) and
// loads them into a fresh store.
func openSession(ctx context.Context) (*session, error) {
	src := newSource()
	s := &session{
		src:         src,
		store:       store.New(),
		patches:     pick(flagPatches, cfg.Data.Patches, src.Patches()),
		tournaments: pick(flagTournaments, cfg.Data.Tournaments, src.Tournaments()),
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// reload re-reads every selected source.
func (s *session) reload(ctx context.Context) error {
	l := &ingest.Loader{
		Source:      s.src,
		Concurrency: cfg.App.Concurrency,
		Logger:      logger.With().Str("component", "ingest").Logger(),
	}
	rep, err := l.LoadAll(ctx, s.store, s.patches, s.tournaments)
	if err != nil {
		return err
	}
	s.report = rep
	return nil
}

// criteriaFromFlags builds the filter selected by the persistent flags.
// Patch and tournament selection already happened at load time.
func criteriaFromFlags() (filter.Criteria, error) {
	from, err := filter.ParseDateBound(flagFrom, false)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("--from: %w", err)
	}
	to, err := filter.ParseDateBound(flagTo, true)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("--to: %w", err)
	}
	return filter.Criteria{
		Players:   flagPlayers,
		DateRange: filter.DateRange{Start: from, End: to},
	}, nil
}

// records applies c to the loaded store.
func (s *session) records(c filter.Criteria) ([]model.MatchRecord, error) {
	out, err := filter.Apply(s.store.Records(), c)
	if err != nil {
		return nil, fmt.Errorf("apply filter: %w", err)
	}
	return out, nil
}

// loadFiltered opens a session and applies the flag criteria.
func loadFiltered(ctx context.Context) (*session, []model.MatchRecord, error) {
	c, err := criteriaFromFlags()
	if err != nil {
		return nil, nil, err
	}
	s, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	recs, err := s.records(c)
	if err != nil {
		return nil, nil, err
	}
	return s, recs, nil
}

// openDB opens the SQLite store, creating its directory first.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// deckLibrary reads the stored deck library.
func deckLibrary() ([]model.DeckLibraryEntry, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	entries, err := db.ListDecks()
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return entries, nil
}
