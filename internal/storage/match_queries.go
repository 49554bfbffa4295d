package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/pable/pvzh-stats/internal/model"
)

// SnapshotOverview summarises the matches table.
type SnapshotOverview struct {
	Matches     int
	Earliest    string
	Latest      string
	Tournaments int
	Patches     int
}

// SourceCount holds the number of snapshot rows for one (patch, tournament).
type SourceCount struct {
	Patch      string
	Tournament string
	Matches    int
}

// InsertMatches bulk-inserts records into the snapshot table in a transaction.
func (db *DB) InsertMatches(records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO matches(
			played_at, raw_time, winner, loser,
			winning_hero, losing_hero, winning_deck, losing_deck,
			patch, tournament
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.Exec(
			r.Time.UTC().Format(time.RFC3339), r.RawTime, r.Winner, r.Loser,
			r.WinningHero, r.LosingHero, r.WinningDeck, r.LosingDeck,
			r.Patch, r.Tournament,
		)
		if err != nil {
			return fmt.Errorf("insert match %s %s vs %s: %w", r.RawTime, r.Winner, r.Loser, err)
		}
	}
	return tx.Commit()
}

// ClearMatches empties the snapshot table.
func (db *DB) ClearMatches() error {
	if _, err := db.conn.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	return nil
}

// MatchCount returns the number of snapshot rows.
func (db *DB) MatchCount() (int, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM matches").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Overview returns snapshot-wide counts and the date range.
func (db *DB) Overview() (SnapshotOverview, error) {
	var ov SnapshotOverview
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(MIN(played_at), ''),
		       COALESCE(MAX(played_at), ''),
		       COUNT(DISTINCT tournament),
		       COUNT(DISTINCT patch)
		FROM matches`).
		Scan(&ov.Matches, &ov.Earliest, &ov.Latest, &ov.Tournaments, &ov.Patches)
	if err != nil {
		return SnapshotOverview{}, fmt.Errorf("snapshot overview: %w", err)
	}
	return ov, nil
}

// SourceCounts returns per-source row counts, optionally restricted to the
// given patches, ordered by patch then tournament.
func (db *DB) SourceCounts(patches []string) ([]SourceCount, error) {
	query := "SELECT patch, tournament, COUNT(1) FROM matches"
	args := make([]any, 0, len(patches))
	if len(patches) > 0 {
		query += fmt.Sprintf(" WHERE patch IN (%s)", placeholders(len(patches)))
		for _, p := range patches {
			args = append(args, p)
		}
	}
	query += " GROUP BY patch, tournament ORDER BY patch, tournament"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var c SourceCount
		if err := rows.Scan(&c.Patch, &c.Tournament, &c.Matches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
