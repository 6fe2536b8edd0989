// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Supports add, edit, list, show, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/circuit/internal/models"
	"github.com/spf13/cobra"
)

var (
	workoutEmoji string
	workoutName  string
	workoutRest  int
	workoutSlots []string
	workoutYes   bool
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Build workouts from exercises in the library.

A workout is an ordered list of exercises, each with a duration in
seconds, plus one rest interval played between consecutive exercises.

WORKFLOW:

  1. Add exercises:      circuit exercise add Burpees
  2. Create a workout:   circuit workout add HIIT --exercise 1:40 --exercise 2:40
  3. Play it:            circuit play 1

COMMANDS:

  add      Create a workout
  edit     Replace a workout's fields or exercise list
  list     List workouts
  show     View a workout with its exercises and total time
  delete   Delete a workout`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a workout",
	Long: `Create a workout. Each --exercise is <exercise-id>[:<seconds>] and the
order of the flags is the play order. Seconds default to 30.

Examples:
  circuit workout add Morning --exercise 1:45 --exercise 2
  circuit workout add Tabata --emoji 🔥 --rest 10 -x 3:20 -x 4:20
  circuit workout add Flow --rest 0 -x 5:60 -x 6:60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := parseSlots(workoutSlots, cfg.GetDefaultDuration())
		if err != nil {
			return err
		}

		emoji := cfg.GetDefaultEmoji()
		if cmd.Flags().Changed("emoji") {
			emoji = workoutEmoji
		}
		rest := cfg.GetDefaultRest()
		if cmd.Flags().Changed("rest") {
			rest = workoutRest
		}

		id, err := repo.CreateWorkout(cmd.Context(), emoji, args[0], rest, exercises)
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added workout %s %s\n", emoji, args[0])
		fmt.Fprintf(out, "  ID: %d\n", id)
		return nil
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a workout",
	Long: `Edit a workout. Flags that are not given keep their current value.
Giving any --exercise replaces the whole exercise list.

Examples:
  circuit workout edit 2 --rest 15
  circuit workout edit 2 --name "Evening" -x 3:30 -x 1:30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		w, err := repo.GetWorkout(ctx, id)
		if err != nil {
			return notFound("workout", id, err)
		}
		current, err := repo.GetWorkoutExercises(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load workout exercises: %w", err)
		}

		emoji, name, rest := w.Emoji, w.Name, w.Rest
		if cmd.Flags().Changed("emoji") {
			emoji = workoutEmoji
		}
		if cmd.Flags().Changed("name") {
			name = workoutName
		}
		if cmd.Flags().Changed("rest") {
			rest = workoutRest
		}

		exercises := make([]models.SubmitExercise, 0, len(current))
		for _, we := range current {
			exercises = append(exercises, models.SubmitExercise{ExerciseID: we.Exercise.ID, Duration: we.Duration})
		}
		if cmd.Flags().Changed("exercise") {
			exercises, err = parseSlots(workoutSlots, cfg.GetDefaultDuration())
			if err != nil {
				return err
			}
		}

		if err := repo.UpdateWorkout(ctx, id, emoji, name, rest, exercises); err != nil {
			return fmt.Errorf("failed to update workout: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated workout %s %s\n", emoji, name)
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		workouts, err := repo.ListWorkouts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			exercises, err := repo.GetWorkoutExercises(ctx, w.ID)
			if err != nil {
				return fmt.Errorf("failed to load workout %d: %w", w.ID, err)
			}
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				faint.Sprintf("%4d", w.ID),
				w.Emoji,
				padRight(truncate(w.Name, 24), 24),
				padRight(fmt.Sprintf("%d exercises", len(exercises)), 13),
				models.FormatClock(models.TotalSeconds(w.Rest, exercises)))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		w, err := repo.GetWorkout(ctx, id)
		if err != nil {
			return notFound("workout", id, err)
		}
		exercises, err := repo.GetWorkoutExercises(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load workout exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		fmt.Fprintf(out, "%s %s\n", w.Emoji, color.New(color.Bold).Sprint(w.Name))
		fmt.Fprintf(out, "ID: %d\n", w.ID)
		fmt.Fprintf(out, "Rest: %ds\n", w.Rest)

		if len(exercises) == 0 {
			fmt.Fprintln(out, "\nNo exercises.")
		} else {
			fmt.Fprintln(out, "\nExercises:")
			for _, we := range exercises {
				fmt.Fprintf(out, "  %s %s %s %s\n",
					faint.Sprintf("%2d.", we.Order+1),
					padRight(we.Exercise.Name, 24),
					models.FormatClock(we.Duration),
					faint.Sprint(truncate(we.Exercise.Description, 40)))
			}
		}

		fmt.Fprintf(out, "\nTotal: %s\n", models.FormatClock(models.TotalSeconds(w.Rest, exercises)))
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout. Its exercises stay in the library.

CAUTION:

  This permanently deletes the workout. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		w, err := repo.GetWorkout(cmd.Context(), id)
		if err != nil {
			return notFound("workout", id, err)
		}

		out := cmd.OutOrStdout()
		if !workoutYes {
			ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete workout %q?", w.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		if err := repo.DeleteWorkout(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.New(color.FgYellow).Fprintf(out, "✗ Deleted workout %s %s\n", w.Emoji, w.Name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{workoutAddCmd, workoutEditCmd} {
		c.Flags().StringVar(&workoutEmoji, "emoji", "", "emoji shown next to the name (default 💪)")
		c.Flags().IntVarP(&workoutRest, "rest", "r", 0, "seconds of rest between exercises (default 5)")
		c.Flags().StringArrayVarP(&workoutSlots, "exercise", "x", nil, "exercise as <id>[:<seconds>], repeat in play order")
	}
	workoutEditCmd.Flags().StringVar(&workoutName, "name", "", "new workout name")

	workoutDeleteCmd.Flags().BoolVarP(&workoutYes, "yes", "y", false, "skip confirmation prompt")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutEditCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
