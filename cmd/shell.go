package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/aggregator"
	"github.com/pable/pvzh-stats/internal/filter"
	"github.com/pable/pvzh-stats/internal/model"
	"github.com/pable/pvzh-stats/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Load the selected sources once and explore them interactively. Filters set in
the session apply to every following command. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// shellState is the session plus the criteria the user has set.
type shellState struct {
	sess     *session
	criteria filter.Criteria
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	base, err := criteriaFromFlags()
	if err != nil {
		return err
	}
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	st := &shellState{sess: s, criteria: base}
	out := os.Stdout

	cGreeting.Println("pvzhstats shell")
	cMuted.Printf("%d records from %d sources; type 'help' or 'exit'\n", s.report.Records, s.report.Loaded)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("pvzh")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		var err error
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "reload":
			if err = s.reload(ctx); err == nil {
				report.PrintLoadReport(out, s.report)
			}
		case "sources":
			report.PrintLoadReport(out, s.report)
			report.PrintIdentitySets(out, s.store)
		case "filter":
			err = st.filter(out, args)
		case "summary":
			err = st.run(func(recs []model.MatchRecord) error {
				report.PrintSummary(out, aggregator.Summarize(recs), s.store.Stats())
				return nil
			})
		case "matchups":
			faction, combined := model.FactionUnknown, false
			for _, a := range args {
				if a == "combined" {
					combined = true
				} else if f := model.ParseFaction(a); f != model.FactionUnknown {
					faction = f
				}
			}
			err = st.run(func(recs []model.MatchRecord) error {
				return renderMatchups(out, s, recs, faction, combined)
			})
		case "heroes":
			err = st.run(func(recs []model.MatchRecord) error {
				report.PrintHeroWinRates(out, aggregator.HeroWinRates(recs))
				return nil
			})
		case "rankings":
			err = st.run(func(recs []model.MatchRecord) error {
				standings := aggregator.Rankings(recs)
				report.PrintRankings(out,
					aggregator.Top(aggregator.QualifiedByWinRate(standings, cfg.Rankings.MinGames), cfg.Rankings.Top),
					aggregator.Top(aggregator.ByGamesPlayed(standings), cfg.Rankings.Top),
					cfg.Rankings.MinGames)
				return nil
			})
		case "player", "trend":
			if len(args) == 0 {
				cError.Fprintf(os.Stderr, "usage: %s <name>\n", name)
				continue
			}
			who := strings.Join(args, " ")
			err = st.run(func(recs []model.MatchRecord) error {
				if name == "trend" {
					return renderTrend(out, s.store, recs, who)
				}
				return renderPlayer(out, s.store, recs, who)
			})
		case "h2h":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: h2h <player-a> <player-b>")
				continue
			}
			err = renderH2H(out, s, st.criteria, args[0], args[1])
		case "decks":
			players := args
			if len(players) == 0 {
				players = st.criteria.Players
			}
			if len(players) == 0 {
				cError.Fprintln(os.Stderr, "usage: decks <player> [<player>...] (or set 'filter player')")
				continue
			}
			library, lerr := deckLibrary()
			if lerr != nil {
				err = lerr
				break
			}
			err = st.run(func(recs []model.MatchRecord) error {
				return renderDeckStats(out, s.store, recs, players, library)
			})
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

// run applies the session criteria and hands the result to fn.
func (st *shellState) run(fn func([]model.MatchRecord) error) error {
	recs, err := st.sess.records(st.criteria)
	if err != nil {
		return err
	}
	return fn(recs)
}

// filter updates or prints the session criteria.
func (st *shellState) filter(w io.Writer, args []string) error {
	if len(args) == 0 {
		st.printFilter(w)
		return nil
	}
	switch args[0] {
	case "clear":
		st.criteria = filter.Criteria{}
	case "player", "players":
		st.criteria.Players = args[1:]
	case "from", "to":
		var v string
		if len(args) > 1 {
			v = args[1]
		}
		t, err := filter.ParseDateBound(v, args[0] == "to")
		if err != nil {
			return err
		}
		if args[0] == "from" {
			st.criteria.DateRange.Start = t
		} else {
			st.criteria.DateRange.End = t
		}
	default:
		return fmt.Errorf("usage: filter [clear | player <name>... | from <date> | to <date>]")
	}
	if err := st.criteria.Validate(); err != nil {
		return err
	}
	st.printFilter(w)
	return nil
}

func (st *shellState) printFilter(w io.Writer) {
	c := st.criteria
	if c.IsZero() {
		cMuted.Fprintln(w, "no filters")
		return
	}
	if len(c.Players) > 0 {
		cHeader.Fprint(w, "players ")
		fmt.Fprintln(w, strings.Join(c.Players, ", "))
	}
	if c.DateRange.Start != nil {
		cHeader.Fprint(w, "from    ")
		fmt.Fprintln(w, c.DateRange.Start.Format("2006-01-02 15:04"))
	}
	if c.DateRange.End != nil {
		cHeader.Fprint(w, "to      ")
		fmt.Fprintln(w, c.DateRange.End.Format("2006-01-02 15:04"))
	}
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"matchups [plant|zombie] [combined]", "hero-vs-hero matrix"},
		{"heroes", "overall win rate per hero"},
		{"rankings", "win-rate and games-played leaderboards"},
		{"player <name>", "one player's breakdown"},
		{"trend <name>", "one player's record per patch"},
		{"h2h <a> <b>", "games between two players"},
		{"decks [<player>...]", "per-deck records from the deck library"},
		{"summary", "overview of the filtered records"},
		{"filter", "show the active filters"},
		{"filter player <name>...", "only games involving these players"},
		{"filter from|to <date>", "date bounds (YYYY-MM-DD or RFC3339; empty clears)"},
		{"filter clear", "remove every filter"},
		{"sources", "load report and identity sets"},
		{"reload", "re-read the data files"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}
