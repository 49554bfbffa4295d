// Package decklib reads and writes deck library files. The format follows
// the file extension: .json, or .yaml/.yml.
package decklib

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pable/pvzh-stats/internal/model"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported deck library format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// ReadFile loads and normalises a deck library.
func ReadFile(path string) ([]model.DeckLibraryEntry, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck library: %w", err)
	}

	var entries []model.DeckLibraryEntry
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("parse deck library %s: %w", filepath.Base(path), err)
	}
	return Normalize(entries), nil
}

// WriteFile writes entries to path in the format its extension names.
func WriteFile(path string, entries []model.DeckLibraryEntry) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.DeckLibraryEntry{}
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(entries)
	default:
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshal deck library: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write deck library: %w", err)
	}
	return nil
}

// Normalize trims names and aliases, drops entries with a blank name, merges
// entries whose names match case-insensitively (the first spelling and
// position win) and removes blank or repeated aliases. Order is preserved.
func Normalize(entries []model.DeckLibraryEntry) []model.DeckLibraryEntry {
	out := make([]model.DeckLibraryEntry, 0, len(entries))
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			seen[key] = make(map[string]struct{})
			out = append(out, model.DeckLibraryEntry{Name: name, Aliases: []string{}})
		}
		for _, a := range e.Aliases {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			ak := strings.ToLower(a)
			if _, dup := seen[key][ak]; dup {
				continue
			}
			seen[key][ak] = struct{}{}
			out[i].Aliases = append(out[i].Aliases, a)
		}
	}
	return out
}
