// ABOUTME: CLI command that plays a workout session in the terminal.
// ABOUTME: Renders the timer, rings the bell on cues, records the streak, and offers restart.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/harperreed/circuit/internal/models"
	"github.com/harperreed/circuit/internal/session"
	"github.com/harperreed/circuit/internal/streak"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// playClock replaces the wall clock when set.
var playClock session.Clock

var playCmd = &cobra.Command{
	Use:   "play <workout-id>",
	Short: "Play a workout",
	Long: `Play a workout: a 5 second countdown, then each exercise with rest
between them.

KEYS:

  p or space   pause / resume
  n            skip to the next exercise (leaves the timer paused)
  b            back to the previous exercise (leaves the timer paused)
  q            quit without finishing

When the last exercise ends the workout counts toward your streak (if
enabled) and you can play it again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		w, err := repo.GetWorkout(ctx, id)
		if err != nil {
			return notFound("workout", id, err)
		}
		exercises, err := repo.GetWorkoutExercises(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load workout exercises: %w", err)
		}

		plan := session.NewPlan(w, exercises)
		if err := plan.Validate(); err != nil {
			return fmt.Errorf("workout %d cannot be played: %w", id, err)
		}

		p := &player{
			out:     &lockedWriter{w: cmd.OutOrStdout()},
			workout: w,
			plan:    plan,
		}
		if store, err := openPrefs(); err != nil {
			logger.Warn("streak unavailable", "error", err)
		} else {
			p.tracker = streak.NewTracker(store)
		}

		restore := rawTerminal(cmd.InOrStdin())
		defer restore()

		return p.loop(ctx, readKeys(cmd.InOrStdin()))
	},
}

// player drives one or more sessions of the same plan.
type player struct {
	out     io.Writer
	workout *models.Workout
	plan    session.Plan
	tracker *streak.Tracker
}

func (p *player) loop(ctx context.Context, keys <-chan byte) error {
	for {
		outcome, completion, err := p.run(ctx, keys)
		if err != nil {
			return err
		}
		if outcome != session.Completed {
			fmt.Fprint(p.out, "\r\n")
			color.New(color.Faint).Fprint(p.out, "Workout stopped.\r\n")
			return nil
		}

		p.summarize(completion)

		fmt.Fprint(p.out, "Play again? [y/N] ")
		if k, ok := <-keys; !ok || (k != 'y' && k != 'Y') {
			fmt.Fprint(p.out, "\r\n")
			return nil
		}
		fmt.Fprint(p.out, "\r\n")
	}
}

// run plays one session until it completes or the user quits.
func (p *player) run(ctx context.Context, keys <-chan byte) (session.Outcome, *session.Completion, error) {
	var completion *session.Completion

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithHooks(session.Hooks{
			OnTick:          func(session.Snapshot) { fmt.Fprint(p.out, "\a") },
			OnPhaseComplete: func(session.Snapshot) { fmt.Fprint(p.out, "\a") },
			OnSessionComplete: func(c session.Completion) {
				completion = &c
			},
		}),
	}
	if playClock != nil {
		opts = append(opts, session.WithClock(playClock))
	}

	s, err := session.Start(ctx, p.plan, opts...)
	if err != nil {
		return 0, nil, err
	}
	defer s.Cancel()

	fmt.Fprintf(p.out, "%s %s\r\n", p.workout.Emoji, color.New(color.Bold).Sprint(p.workout.Name))
	color.New(color.Faint).Fprint(p.out, "p pause/resume  n next  b previous  q quit\r\n")

	last := session.Snapshot{Kind: -1}
	unsubscribe := s.Subscribe(func(snap session.Snapshot) {
		if snap.Kind != last.Kind || snap.Index != last.Index {
			if last.Kind >= 0 {
				fmt.Fprint(p.out, "\r\n")
			}
		}
		last = snap
		fmt.Fprintf(p.out, "\r%s\033[K", p.statusLine(snap))
	})
	defer unsubscribe()

	for {
		select {
		case <-s.Done():
			return s.Outcome(), completion, nil
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			p.handleKey(s, k)
		}
	}
}

func (p *player) handleKey(s *session.Session, k byte) {
	var err error
	switch k {
	case 'p', 'P', ' ':
		err = s.Toggle()
	case 'n', 'N':
		err = s.SkipNext()
	case 'b', 'B':
		err = s.SkipPrevious()
	case 'q', 'Q', 3: // 3 is Ctrl-C in raw mode
		s.Cancel()
	default:
		return
	}

	switch {
	case err == nil, errors.Is(err, session.ErrSessionEnded):
	case errors.Is(err, session.ErrCountdown):
		p.notice("wait for the countdown to finish")
	case errors.Is(err, session.ErrNoNext):
		p.notice("this is the last exercise")
	case errors.Is(err, session.ErrNoPrevious):
		p.notice("this is the first exercise")
	default:
		p.notice(err.Error())
	}
}

func (p *player) notice(msg string) {
	color.New(color.FgYellow).Fprintf(p.out, "  (%s)", msg)
}

func (p *player) summarize(c *session.Completion) {
	fmt.Fprint(p.out, "\r\n\r\n")
	color.New(color.FgGreen).Fprintf(p.out, "✓ Workout complete: %s %s\r\n", p.workout.Emoji, p.workout.Name)
	if c != nil {
		fmt.Fprintf(p.out, "  %d exercises in %s\r\n", c.ExerciseCount, models.FormatClock(c.TotalSeconds))
	}

	if p.tracker == nil {
		return
	}
	res, err := p.tracker.RecordWorkout()
	if err != nil {
		color.New(color.FgYellow).Fprintf(p.out, "⚠ Could not record streak: %v\r\n", err)
		return
	}
	if res.Recorded {
		fmt.Fprintf(p.out, "  🔥 Streak: %s\r\n", days(res.Streak))
	}
}

func (p *player) statusLine(snap session.Snapshot) string {
	var label string
	switch snap.Kind {
	case session.KindCountdown:
		label = color.New(color.FgCyan).Sprint("Get ready")
	case session.KindExercise:
		label = fmt.Sprintf("%s %s",
			color.New(color.Faint).Sprintf("%d/%d", snap.Index+1, len(p.plan.Steps)),
			color.New(color.Bold).Sprint(p.plan.Steps[snap.Index].Name))
	case session.KindRest:
		label = color.New(color.FgBlue).Sprint("Rest")
		if next := snap.Index + 1; next < len(p.plan.Steps) {
			label += color.New(color.Faint).Sprintf("  next: %s", p.plan.Steps[next].Name)
		}
	case session.KindCompleted:
		return color.New(color.FgGreen).Sprint("Done")
	}

	state := "▶"
	if !snap.Playing {
		state = "⏸"
	}
	return fmt.Sprintf("%s %s %s %s", state, progressBar(snap.Fraction, 20), models.FormatClock(snap.TimeLeft), label)
}

// progressBar renders the remaining share of a phase.
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// readKeys streams single bytes from in, dropping line endings.
func readKeys(in io.Reader) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		r := bufio.NewReader(in)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			if b == '\n' || b == '\r' {
				continue
			}
			keys <- b
		}
	}()
	return keys
}

// rawTerminal puts a terminal stdin into raw mode so single keys arrive
// without Enter. It is a no-op for pipes and files.
func rawTerminal(in io.Reader) (restore func()) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return func() {}
	}
	return func() { _ = term.Restore(int(f.Fd()), state) }
}

// lockedWriter serializes writes from the timer and the key loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}

func init() {
	rootCmd.AddCommand(playCmd)
}
