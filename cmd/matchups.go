package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/hero"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/report"
)

var (
	matchupsFaction  string
	matchupsCombined bool
	matchupsAll      bool
	matchupsWatch    bool
)

var matchupsCmd = &cobra.Command{
	Use:   "matchups",
	Short: "Hero-vs-hero matchup matrix",
	Long: `Print each hero's record against every other hero. A cell reads as the row
hero's win rate against the column hero with wins/games; "—" means the two
heroes never met.

--combined shows one number per pairing instead, counting games as
(row vs col games) + (col wins over row).`,
	Args: cobra.NoArgs,
	RunE: runMatchups,
}

func init() {
	matchupsCmd.Flags().StringVar(&matchupsFaction, "faction", "", "rows from one faction only: plant or zombie")
	matchupsCmd.Flags().BoolVar(&matchupsCombined, "combined", false, "one combined win rate per pairing")
	matchupsCmd.Flags().BoolVar(&matchupsAll, "all-heroes", false, "include heroes with no games")
	matchupsCmd.Flags().BoolVar(&matchupsWatch, "watch", false, "reload and redraw when data files change")
}

func runMatchups(cmd *cobra.Command, args []string) error {
	faction := model.FactionUnknown
	if matchupsFaction != "" {
		faction = model.ParseFaction(matchupsFaction)
		if faction == model.FactionUnknown {
			return fmt.Errorf("invalid --faction %q: want plant or zombie", matchupsFaction)
		}
	}
	c, err := criteriaFromFlags()
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	draw := func() error {
		recs, err := s.records(c)
		if err != nil {
			return err
		}
		return renderMatchups(w, s, recs, faction, matchupsCombined)
	}
	if err := draw(); err != nil {
		return err
	}
	if !matchupsWatch {
		return nil
	}

	ctx := cmd.Context()
	cMuted.Fprintf(w, "watching %s (Ctrl-C to stop)\n", cfg.Data.Dir)
	return s.src.Watch(ctx, 500*time.Millisecond, func() {
		if err := s.reload(ctx); err != nil {
			logger.Warn().Err(err).Msg("reload after change")
			return
		}
		fmt.Fprintf(w, "\n%s reloaded: %d records\n", time.Now().Format(time.TimeOnly), s.report.Records)
		if err := draw(); err != nil {
			logger.Warn().Err(err).Msg("redraw after change")
		}
	})
}

func renderMatchups(w io.Writer, s *session, recs []model.MatchRecord, faction model.Faction, combined bool) error {
	var opts []aggregator.MatchupOption
	if matchupsAll {
		opts = append(opts, aggregator.WithVocabulary(hero.Codes()))
	}
	m := aggregator.ComputeMatchups(recs, opts...)

	if jsonOut {
		return report.PrintJSON(w, m.Cells())
	}
	if len(recs) == 0 {
		cWarn.Fprintln(w, report.EmptyReason(s.store.Stats()))
		return nil
	}
	fmt.Fprintf(w, "\n--- Matchups (%d games) ---\n\n", len(recs))
	if faction == model.FactionUnknown {
		report.PrintMatchupMatrix(w, m, combined)
	} else {
		report.PrintFactionGrid(w, m, faction, combined)
	}
	return nil
}
