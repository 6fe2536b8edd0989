// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/circuit/internal/mcp"
	"github.com/harperreed/circuit/internal/streak"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to build and inspect your workouts
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "circuit": {
        "command": "circuit",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  list_exercises    List the exercise library
  add_exercise      Add an exercise
  update_exercise   Rename or describe an exercise
  delete_exercise   Delete an exercise from the library and all workouts
  list_workouts     List workouts
  get_workout       Get a workout with ordered exercises and total time
  create_workout    Create a workout from an ordered exercise list
  update_workout    Replace a workout and its exercise list
  delete_workout    Delete a workout
  get_streak        Current daily streak

AVAILABLE RESOURCES:

  circuit://workouts   Every workout with its plan
  circuit://streak     Streak status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var tracker *streak.Tracker
		if store, err := openPrefs(); err != nil {
			logger.Warn("streak unavailable", "error", err)
		} else {
			tracker = streak.NewTracker(store)
		}

		server, err := mcp.NewServer(repo, tracker, mcp.WithDefaults(mcp.Defaults{
			Rest:     cfg.GetDefaultRest(),
			Duration: cfg.GetDefaultDuration(),
			Emoji:    cfg.GetDefaultEmoji(),
		}))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
