package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/filter"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/report"
)

var h2hCmd = &cobra.Command{
	Use:   "h2h <player-a> <player-b>",
	Short: "Head-to-head record between two players",
	Long: `Print the series score between two players, their hero matchups against each
other, and every game they played in chronological order.`,
	Args: cobra.ExactArgs(2),
	RunE: runH2H,
}

func runH2H(cmd *cobra.Command, args []string) error {
	c, err := criteriaFromFlags()
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	return renderH2H(cmd.OutOrStdout(), s, c, args[0], args[1])
}

// renderH2H narrows base to games between a and b only.
func renderH2H(w io.Writer, s *session, base filter.Criteria, a, b string) error {
	c := base
	c.Players = nil
	c.ExactPlayerPair = []string{a, b}
	recs, err := s.records(c)
	if errors.Is(err, filter.ErrInvalidCriteria) {
		return fmt.Errorf("head-to-head needs two different players: %w", err)
	}
	if err != nil {
		return err
	}

	a, b = displayName(s.store, a), displayName(s.store, b)
	if jsonOut {
		return report.PrintJSON(w, struct {
			A        model.PlayerStanding                 `json:"a"`
			B        model.PlayerStanding                 `json:"b"`
			Matchups map[string]map[string]model.HeroStat `json:"matchups"`
			Games    []model.MatchRecord                  `json:"games"`
		}{
			aggregator.PlayerStanding(recs, a),
			aggregator.PlayerStanding(recs, b),
			aggregator.PlayerHeroMatchups(recs, a),
			aggregator.Chronological(recs),
		})
	}

	report.PrintHeadToHead(w, a, b, recs)
	if len(recs) > 0 {
		fmt.Fprintf(w, "\n--- %s's heroes vs %s ---\n\n", a, b)
		report.PrintHeroMatchups(w, aggregator.PlayerHeroMatchups(recs, a))
	}
	return nil
}
