// Package hero holds the static PvZ Heroes reference table: the 22 hero codes
// that appear in match records, their display names and their factions.
package hero

import (
	"sort"
	"strings"

	"github.com/pable/pvzh-stats/internal/model"
)

var table = []model.Hero{
	{Code: "gs", Name: "Green Shadow", Faction: model.FactionPlant},
	{Code: "sf", Name: "Solar Flare", Faction: model.FactionPlant},
	{Code: "wk", Name: "Wall-Knight", Faction: model.FactionPlant},
	{Code: "cz", Name: "Chompzilla", Faction: model.FactionPlant},
	{Code: "sp", Name: "Spudow", Faction: model.FactionPlant},
	{Code: "ct", Name: "Citron", Faction: model.FactionPlant},
	{Code: "gk", Name: "Grass Knuckles", Faction: model.FactionPlant},
	{Code: "nc", Name: "Nightcap", Faction: model.FactionPlant},
	{Code: "ro", Name: "Rose", Faction: model.FactionPlant},
	{Code: "cc", Name: "Captain Combustible", Faction: model.FactionPlant},
	{Code: "bc", Name: "Beta-Carrotina", Faction: model.FactionPlant},

	{Code: "sb", Name: "Super Brainz", Faction: model.FactionZombie},
	{Code: "sm", Name: "The Smash", Faction: model.FactionZombie},
	{Code: "if", Name: "Impfinity", Faction: model.FactionZombie},
	{Code: "rb", Name: "Rustbolt", Faction: model.FactionZombie},
	{Code: "eb", Name: "Electric Boogaloo", Faction: model.FactionZombie},
	{Code: "bf", Name: "Brain Freeze", Faction: model.FactionZombie},
	{Code: "pb", Name: "Professor Brainstorm", Faction: model.FactionZombie},
	{Code: "im", Name: "Immorticia", Faction: model.FactionZombie},
	{Code: "zm", Name: "Z-Mech", Faction: model.FactionZombie},
	{Code: "nt", Name: "Neptuna", Faction: model.FactionZombie},
	{Code: "hg", Name: "Huge-Gigantacus", Faction: model.FactionZombie},
}

var byCode = func() map[string]model.Hero {
	m := make(map[string]model.Hero, len(table))
	for _, h := range table {
		m[h.Code] = h
	}
	return m
}()

// Lookup returns the hero for a code. Codes are matched case-insensitively.
func Lookup(code string) (model.Hero, bool) {
	h, ok := byCode[strings.ToLower(code)]
	return h, ok
}

// Known reports whether code is one of the 22 hero codes.
func Known(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// FullName returns the display name for code, or the upper-cased code when
// it is not in the table.
func FullName(code string) string {
	if h, ok := Lookup(code); ok {
		return h.Name
	}
	return strings.ToUpper(code)
}

// FactionOf returns the hero's faction, FactionUnknown for unknown codes.
func FactionOf(code string) model.Faction {
	if h, ok := Lookup(code); ok {
		return h.Faction
	}
	return model.FactionUnknown
}

func IsPlant(code string) bool  { return FactionOf(code) == model.FactionPlant }
func IsZombie(code string) bool { return FactionOf(code) == model.FactionZombie }

// All returns a copy of the reference table in table order.
func All() []model.Hero {
	out := make([]model.Hero, len(table))
	copy(out, table)
	return out
}

// Codes returns every hero code, sorted with Sort.
func Codes() []string {
	out := make([]string, 0, len(table))
	for _, h := range table {
		out = append(out, h.Code)
	}
	Sort(out)
	return out
}

// ByFaction returns the sorted codes of one faction.
func ByFaction(f model.Faction) []string {
	var out []string
	for _, h := range table {
		if h.Faction == f {
			out = append(out, h.Code)
		}
	}
	Sort(out)
	return out
}

// Sort orders codes in place: plants first, then zombies, then unknown codes,
// each group by display name.
func Sort(codes []string) {
	rank := func(c string) int {
		switch FactionOf(c) {
		case model.FactionPlant:
			return 0
		case model.FactionZombie:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(codes, func(i, j int) bool {
		ri, rj := rank(codes[i]), rank(codes[j])
		if ri != rj {
			return ri < rj
		}
		return FullName(codes[i]) < FullName(codes[j])
	})
}
