// Package main is the entry point for the pvzhstats CLI tool, which loads
// PvZ Heroes match results and computes hero matchup, player and deck
// statistics.
package main

import "github.com/pable/pvzh-stats/cmd"

func main() {
	cmd.Execute()
}
