// ABOUTME: Root Cobra command for circuit CLI.
// ABOUTME: Loads config and owns the storage and prefs lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/harperreed/circuit/internal/config"
	"github.com/harperreed/circuit/internal/prefs"
	"github.com/harperreed/circuit/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	repo      storage.Repository
	prefStore prefs.Store
	logger    = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	flagDataDir string
	flagDBPath  string
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "circuit",
	Short: "Timed circuit workouts in your terminal",
	Long: `Circuit builds and plays timed interval workouts.

EXERCISES AND WORKOUTS:

  Exercises are the library: a name and an optional description.
  Workouts are ordered lists of exercises, each with its own duration,
  and one rest interval played between consecutive exercises.

QUICK START:

  $ circuit exercise add "Jumping Jacks"
  $ circuit exercise add Squats -d "Slow on the way down"
  $ circuit workout add Morning --emoji 🌅 --rest 10 --exercise 1:45 --exercise 2:30
  $ circuit play 1

PLAYING A WORKOUT:

  A 5 second countdown runs first, then each exercise, with rest between.
  Keys while playing: p pause/resume, n next, b previous, q quit.

STREAKS:

  $ circuit streak enable    # count consecutive days with a finished workout
  $ circuit streak           # show the current streak
  $ circuit reminder 07:30   # save the daily reminder time

MCP INTEGRATION:

  Run 'circuit mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

  {
    "mcpServers": {
      "circuit": { "command": "circuit", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Workouts are stored in SQLite at ~/.local/share/circuit/circuit.db.
  Streak and reminder settings live in a local badger store next to it,
  or in Charm Cloud when prefs_backend is "charm" in
  ~/.config/circuit/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "install-skill" {
			return nil
		}

		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		var err error
		if flagConfig != "" {
			cfg, err = config.LoadFrom(flagConfig)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		repo, err = cfg.OpenStorage(flagDBPath, logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStores()
	},
}

// Execute runs the root command.
func Execute() error {
	defer closeStores()
	return rootCmd.Execute()
}

// openPrefs opens the preference store on first use.
func openPrefs() (prefs.Store, error) {
	if prefStore != nil {
		return prefStore, nil
	}
	store, err := cfg.OpenPrefs()
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	prefStore = store
	return prefStore, nil
}

func closeStores() error {
	var firstErr error
	if prefStore != nil {
		firstErr = prefStore.Close()
		prefStore = nil
	}
	if repo != nil {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		repo = nil
	}
	return firstErr
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/circuit)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default <data-dir>/circuit.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/circuit/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")
}
