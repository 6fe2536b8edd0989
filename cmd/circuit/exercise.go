// ABOUTME: CLI commands for managing the exercise library.
// ABOUTME: Supports add, list, edit, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exerciseDescription string
	exerciseName        string
	exerciseYes         bool
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage exercises",
	Long: `Manage the exercise library.

Exercises are reusable: the same exercise can appear in many workouts,
each time with its own duration. Deleting an exercise removes it from
every workout that uses it.

COMMANDS:

  add      Add an exercise
  list     List exercises
  edit     Rename an exercise or change its description
  delete   Delete an exercise`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise to the library.

Examples:
  circuit exercise add Burpees
  circuit exercise add "Wall Sit" -d "Back flat, knees at 90°"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := repo.CreateExercise(cmd.Context(), args[0], exerciseDescription)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added exercise %s\n", args[0])
		fmt.Fprintf(out, "  ID: %d\n", id)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprintf("%4d", e.ID),
				padRight(e.Name, 24),
				faint.Sprint(truncate(e.Description, 48)))
		}
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an exercise",
	Long: `Rename an exercise or change its description. Flags that are not
given keep their current value.

Examples:
  circuit exercise edit 3 --name "Air Squats"
  circuit exercise edit 3 -d ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		current, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return notFound("exercise", id, err)
		}

		name, description := current.Name, current.Description
		if cmd.Flags().Changed("name") {
			name = exerciseName
		}
		if cmd.Flags().Changed("description") {
			description = exerciseDescription
		}

		if err := repo.UpdateExercise(cmd.Context(), id, name, description); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated exercise %d\n", id)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an exercise",
	Long: `Delete an exercise. It is also removed from every workout that uses it;
the remaining exercises in those workouts keep their order.

CAUTION:

  This permanently deletes the exercise. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		e, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return notFound("exercise", id, err)
		}

		out := cmd.OutOrStdout()
		if !exerciseYes {
			ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete exercise %q and remove it from all workouts?", e.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		if err := repo.DeleteExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.New(color.FgYellow).Fprintf(out, "✗ Deleted exercise %s\n", e.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseDescription, "description", "d", "", "exercise description")

	exerciseEditCmd.Flags().StringVar(&exerciseName, "name", "", "new name")
	exerciseEditCmd.Flags().StringVarP(&exerciseDescription, "description", "d", "", "new description")

	exerciseDeleteCmd.Flags().BoolVarP(&exerciseYes, "yes", "y", false, "skip confirmation prompt")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseEditCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
