// Package source reads raw match data for (patch, tournament) pairs from a
// data directory laid out as <root>/<patch>/<tournament>.txt.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when a (patch, tournament) pair has no data.
var ErrUnavailable = errors.New("source unavailable")

// Catalog file names at the data root.
const (
	PatchesFile     = "patches.json"
	TournamentsFile = "tournaments.json"
	PlayerNamesFile = "playernames.txt"
)

// Source fetches the raw text for one (patch, tournament) pair.
type Source interface {
	Fetch(ctx context.Context, patch, tournament string) ([]byte, error)
}

// Dir is a Source backed by a local data directory. A tournament file may be
// stored plain (<tournament>.txt) or zstd-compressed (<tournament>.txt.zst).
type Dir struct {
	Root string

	// Fallbacks used when a catalog file is missing or unreadable.
	FallbackPatches     []string
	FallbackTournaments []string

	Logger zerolog.Logger
}

// NewDir returns a Dir rooted at root with a no-op logger.
func NewDir(root string) *Dir {
	return &Dir{Root: root, Logger: zerolog.Nop()}
}

// TournamentPath returns the plain-text path for a pair.
func (d *Dir) TournamentPath(patch, tournament string) string {
	return filepath.Join(d.Root, patch, tournament+".txt")
}

// Fetch reads the pair's file, falling back to the .zst variant.
func (d *Dir) Fetch(ctx context.Context, patch, tournament string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validName(patch) || !validName(tournament) {
		return nil, fmt.Errorf("%w: invalid name %s/%s", ErrUnavailable, patch, tournament)
	}

	path := d.TournamentPath(patch, tournament)
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data, err = readZstd(path + ".zst")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnavailable, patch, tournament)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// validName rejects names that would escape the data root.
func validName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func readZstd(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open zstd %s: %w", path, err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

// Patches returns the patch catalog from patches.json, sorted.
func (d *Dir) Patches() []string {
	patches, err := d.readList(PatchesFile)
	if err != nil {
		d.Logger.Warn().Err(err).Strs("fallback", d.FallbackPatches).Msg("patch catalog unavailable")
		patches = append([]string(nil), d.FallbackPatches...)
	}
	sort.Strings(patches)
	return dedupe(patches)
}

// Tournaments returns the tournament catalog from tournaments.json, sorted.
func (d *Dir) Tournaments() []string {
	tournaments, err := d.readList(TournamentsFile)
	if err != nil {
		d.Logger.Warn().Err(err).Strs("fallback", d.FallbackTournaments).Msg("tournament catalog unavailable")
		tournaments = append([]string(nil), d.FallbackTournaments...)
	}
	sort.Strings(tournaments)
	return dedupe(tournaments)
}

// PlayerNames returns the names listed in playernames.txt, one per line.
// A missing file yields no names.
func (d *Dir) PlayerNames() []string {
	f, err := os.Open(filepath.Join(d.Root, PlayerNamesFile))
	if err != nil {
		d.Logger.Debug().Err(err).Msg("player name list unavailable")
		return nil
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := sc.Err(); err != nil {
		d.Logger.Warn().Err(err).Msg("read player name list")
	}
	return names
}

func (d *Dir) readList(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(d.Root, name))
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return out, nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if s == "" || (i > 0 && s == sorted[i-1]) {
			continue
		}
		out = append(out, s)
	}
	return out
}
