package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/pvzh-stats/internal/config"
	"github.com/pable/pvzh-stats/internal/logging"
)

var (
	cfgPath  string
	dbPath   string
	dataDir  string
	logLevel string
	jsonOut  bool

	flagPatches     []string
	flagTournaments []string
	flagPlayers     []string
	flagFrom        string
	flagTo          string

	cfg    *config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "pvzhstats",
	Short: "PvZ Heroes match statistics tool",
	Long: `Load pipe-delimited PvZ Heroes match results and compute hero matchups,
player rankings and deck statistics.

Match files live under the data directory as <patch>/<tournament>.txt
(optionally zstd-compressed as <tournament>.txt.zst), with one game per line:

  timestamp|winner|loser|winningHero|losingHero[|winningDeck|losingDeck]`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", config.DefaultPath(), "path to TOML config file")
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default from config)")
	pf.StringVar(&dataDir, "data", "", "match data directory (default from config)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&jsonOut, "json", false, "print aggregates as JSON instead of tables")

	pf.StringSliceVar(&flagPatches, "patch", nil, "patch to load (repeatable; default all catalogued)")
	pf.StringSliceVar(&flagTournaments, "tournament", nil, "tournament to load (repeatable; default all catalogued)")
	pf.StringSliceVar(&flagPlayers, "player", nil, "only games involving these players (repeatable)")
	pf.StringVar(&flagFrom, "from", "", "only games on or after this date (YYYY-MM-DD or RFC3339)")
	pf.StringVar(&flagTo, "to", "", "only games on or before this date (YYYY-MM-DD or RFC3339)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(matchupsCmd)
	rootCmd.AddCommand(heroesCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the config file and applies command-line overrides.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		c.Data.Dir = dataDir
	}
	if dbPath != "" {
		c.Storage.DBPath = dbPath
	}
	if logLevel != "" {
		c.App.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	dbPath = c.Storage.DBPath
	logger = logging.New(c.App.LogLevel, cmd.ErrOrStderr())
	return nil
}
