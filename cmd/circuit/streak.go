// ABOUTME: CLI commands for the daily workout streak and reminder time.
// ABOUTME: Reads and writes the useStreak, streak, and notificationTime preferences.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/circuit/internal/prefs"
	"github.com/harperreed/circuit/internal/streak"
	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak [enable|disable|show]",
	Short: "Show or toggle the workout streak",
	Long: `Show or toggle the daily workout streak.

With streak tracking enabled, finishing a workout on consecutive days
grows the streak. Missing a day resets it. Several workouts on the same
day count once.

EXAMPLES:

  circuit streak            # show the current streak
  circuit streak enable     # start tracking
  circuit streak disable    # stop tracking (the streak is kept)`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"enable", "disable", "show"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		tracker := streak.NewTracker(store)
		out := cmd.OutOrStdout()

		action := "show"
		if len(args) == 1 {
			action = args[0]
		}

		switch action {
		case "enable", "disable":
			enabled := action == "enable"
			if err := tracker.SetEnabled(enabled); err != nil {
				return fmt.Errorf("failed to %s streak: %w", action, err)
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Streak tracking %sd\n", action)
			return nil
		case "show":
			status, err := tracker.Current()
			if err != nil {
				return fmt.Errorf("failed to read streak: %w", err)
			}
			if !status.Enabled {
				fmt.Fprintln(out, "Streak tracking is off. Turn it on with 'circuit streak enable'.")
				return nil
			}
			fmt.Fprintf(out, "🔥 %s\n", days(status.Streak))
			if status.LastDay != "" {
				color.New(color.Faint).Fprintf(out, "  last workout: %s\n", status.LastDay)
			}
			return nil
		default:
			return fmt.Errorf("unknown streak action: %s (use enable, disable, or show)", action)
		}
	},
}

var reminderCmd = &cobra.Command{
	Use:   "reminder [HH:MM]",
	Short: "Show or set the daily reminder time",
	Long: `Show or set the time of day for a workout reminder.

The hour is capped at 23 and the minute at 59. The default is 16:00.
Circuit only stores the time; schedule the notification with your OS.

EXAMPLES:

  circuit reminder          # show the saved time
  circuit reminder 7:30     # save 07:30`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			r, err := prefs.GetReminder(store)
			if err != nil {
				return fmt.Errorf("failed to read reminder: %w", err)
			}
			fmt.Fprintf(out, "⏰ %s\n", r)
			return nil
		}

		r, err := prefs.ParseReminder(args[0])
		if err != nil {
			return err
		}
		if err := prefs.SetReminder(store, r); err != nil {
			return fmt.Errorf("failed to save reminder: %w", err)
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Reminder set for %s\n", r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(reminderCmd)
}
