package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/pvzh-stats/internal/model"
)

// SaveDeck inserts a library entry or replaces the aliases of an existing
// one. Names match case-insensitively; a new entry goes to the end of the
// library.
func (db *DB) SaveDeck(entry model.DeckLibraryEntry) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return fmt.Errorf("save deck: empty name")
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pos int
	err = tx.QueryRow("SELECT position FROM decks WHERE name = ?", name).Scan(&pos)
	switch {
	case err == sql.ErrNoRows:
		if err := tx.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM decks").Scan(&pos); err != nil {
			return fmt.Errorf("next deck position: %w", err)
		}
		if _, err := tx.Exec("INSERT INTO decks(name, position) VALUES (?, ?)", name, pos); err != nil {
			return fmt.Errorf("insert deck %q: %w", name, err)
		}
	case err != nil:
		return fmt.Errorf("lookup deck %q: %w", name, err)
	default:
		if _, err := tx.Exec("DELETE FROM deck_aliases WHERE deck_name = ?", name); err != nil {
			return fmt.Errorf("clear aliases for %q: %w", name, err)
		}
	}

	if err := insertAliases(tx, name, entry.Aliases); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAliases(tx *sql.Tx, name string, aliases []string) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO deck_aliases(deck_name, alias, ordinal) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range aliases {
		if _, err := stmt.Exec(name, a, i); err != nil {
			return fmt.Errorf("insert alias %q for %q: %w", a, name, err)
		}
	}
	return nil
}

// DeleteDeck removes an entry and its aliases. It reports whether the entry
// existed.
func (db *DB) DeleteDeck(name string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM deck_aliases WHERE deck_name = ?", name); err != nil {
		return false, fmt.Errorf("delete aliases for %q: %w", name, err)
	}
	res, err := tx.Exec("DELETE FROM decks WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("delete deck %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// ListDecks returns the deck library in library order.
func (db *DB) ListDecks() ([]model.DeckLibraryEntry, error) {
	rows, err := db.conn.Query(`
		SELECT d.name, a.alias
		FROM decks d
		LEFT JOIN deck_aliases a ON a.deck_name = d.name
		ORDER BY d.position, a.ordinal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DeckLibraryEntry
	for rows.Next() {
		var name string
		var alias sql.NullString
		if err := rows.Scan(&name, &alias); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, model.DeckLibraryEntry{Name: name, Aliases: []string{}})
		}
		if alias.Valid {
			last := &out[len(out)-1]
			last.Aliases = append(last.Aliases, alias.String)
		}
	}
	return out, rows.Err()
}

// ReplaceDeckLibrary swaps the whole library for entries, keeping their order.
func (db *DB) ReplaceDeckLibrary(entries []model.DeckLibraryEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM deck_aliases"); err != nil {
		return fmt.Errorf("clear aliases: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM decks"); err != nil {
		return fmt.Errorf("clear decks: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO decks(name, position) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(e.Name, i); err != nil {
			return fmt.Errorf("insert deck %q: %w", e.Name, err)
		}
		if err := insertAliases(tx, e.Name, e.Aliases); err != nil {
			return err
		}
	}
	return tx.Commit()
}
