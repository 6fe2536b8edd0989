// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs exercise, workout, export, streak, and play commands against temp storage.
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harperreed/circuit/internal/models"
	"github.com/harperreed/circuit/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseID(%q) expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseID(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   int64
		wantSecs int
		wantErr  bool
	}{
		{name: "id only uses default", input: "3", wantID: 3, wantSecs: 30},
		{name: "id and seconds", input: "3:45", wantID: 3, wantSecs: 45},
		{name: "zero seconds passes through", input: "2:0", wantID: 2, wantSecs: 0},
		{name: "bad id", input: "x:45", wantErr: true},
		{name: "bad seconds", input: "3:abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSlot(tt.input, 30)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseSlot(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSlot(%q) unexpected error: %v", tt.input, err)
			}
			if got.ExerciseID != tt.wantID || got.Duration != tt.wantSecs {
				t.Errorf("parseSlot(%q) = %+v, want id %d duration %d", tt.input, got, tt.wantID, tt.wantSecs)
			}
		})
	}
}

func TestParseSlotsStopsAtFirstError(t *testing.T) {
	if _, err := parseSlots([]string{"1:20", "bad"}, 30); err == nil {
		t.Error("Expected error for invalid slot")
	}

	got, err := parseSlots([]string{"2:20", "1"}, 40)
	if err != nil {
		t.Fatalf("parseSlots unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ExerciseID != 2 || got[1].Duration != 40 {
		t.Errorf("parseSlots = %+v", got)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Continue?")
		if err != nil {
			t.Errorf("confirm(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "Continue? [y/N] " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long name", 10, "this is..."},
		{"", 5, ""},
		{"Übungsübersicht", 8, "Übung..."},
		{"Liegestütze", 11, "Liegestütze"},
		{"🔥🔥🔥🔥🔥🔥", 5, "🔥🔥..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
		{"Übung", 7, "Übung  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{1, "[████]"},
		{0, "[····]"},
		{0.5, "[██··]"},
		{-1, "[····]"},
		{2, "[████]"},
	}

	for _, tt := range tests {
		if got := progressBar(tt.fraction, 4); got != tt.want {
			t.Errorf("progressBar(%v, 4) = %q, want %q", tt.fraction, got, tt.want)
		}
	}
}

func TestDays(t *testing.T) {
	if got := days(1); got != "1 day" {
		t.Errorf("days(1) = %q", got)
	}
	if got := days(3); got != "3 days" {
		t.Errorf("days(3) = %q", got)
	}
}

func TestReadKeysDropsLineEndings(t *testing.T) {
	var got []byte
	for k := range readKeys(strings.NewReader("p\r\nn\nq")) {
		got = append(got, k)
	}
	if string(got) != "pnq" {
		t.Errorf("readKeys = %q, want %q", got, "pnq")
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "circuit" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "circuit")
	}
	for _, name := range []string{"data-dir", "db", "config", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"exercise": false, "workout": false, "play": false, "streak": false,
		"reminder": false, "export": false, "import": false, "mcp": false,
		"install-skill": false, "sync": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected %q command to be registered", name)
		}
	}
}

func TestWorkoutCmdSubcommands(t *testing.T) {
	want := []string{"add", "edit", "list", "show", "delete"}
	for _, name := range want {
		found := false
		for _, c := range workoutCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected workout subcommand %q", name)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	if len(exportCmd.ValidArgs) != 2 || exportCmd.ValidArgs[0] != "json" || exportCmd.ValidArgs[1] != "yaml" {
		t.Errorf("exportCmd.ValidArgs = %v", exportCmd.ValidArgs)
	}
	if exportCmd.Flags().ShorthandLookup("o") == nil {
		t.Error("Expected -o flag on export")
	}
}

// resetFlags puts every flag back to its default between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cliEnv struct {
	t       *testing.T
	dataDir string
}

func setupTestCLI(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return &cliEnv{t: t, dataDir: t.TempDir()}
}

// run executes the CLI with stdin and returns what it printed.
func (e *cliEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--data-dir", e.dataDir}, args...))

	err := rootCmd.Execute()
	_ = closeStores()
	return out.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	if err != nil {
		e.t.Fatalf("circuit %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestExerciseCommands(t *testing.T) {
	env := setupTestCLI(t)

	out := env.mustRun("exercise", "add", "Squats", "-d", "Slow down")
	if !strings.Contains(out, "Added exercise Squats") || !strings.Contains(out, "ID: 1") {
		t.Errorf("add output = %q", out)
	}
	env.mustRun("exercise", "add", "Burpees")

	out = env.mustRun("exercise", "list")
	if !strings.Contains(out, "Squats") || !strings.Contains(out, "Burpees") || !strings.Contains(out, "Slow down") {
		t.Errorf("list output = %q", out)
	}

	env.mustRun("exercise", "edit", "1", "--name", "Air Squats")
	out = env.mustRun("exercise", "list")
	if !strings.Contains(out, "Air Squats") || !strings.Contains(out, "Slow down") {
		t.Errorf("edit should keep description, list = %q", out)
	}

	out, err := env.run("n\n", "exercise", "delete", "2")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "Canceled.") {
		t.Errorf("declined delete output = %q", out)
	}

	env.mustRun("exercise", "delete", "2", "-y")
	out = env.mustRun("exercise", "list")
	if strings.Contains(out, "Burpees") {
		t.Errorf("Burpees should be deleted, list = %q", out)
	}

	if _, err := env.run("", "exercise", "edit", "99", "--name", "x"); err == nil || !strings.Contains(err.Error(), "exercise not found: 99") {
		t.Errorf("edit missing exercise err = %v", err)
	}
}

func TestExerciseAddEmptyName(t *testing.T) {
	env := setupTestCLI(t)
	if _, err := env.run("", "exercise", "add", "  "); err == nil {
		t.Error("Expected error for blank exercise name")
	}
}

func TestWorkoutCommands(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Jumping Jacks")
	env.mustRun("exercise", "add", "Squats")
	env.mustRun("exercise", "add", "Plank")

	out := env.mustRun("workout", "add", "Morning", "--emoji", "🌅", "-r", "10", "-x", "1:45", "-x", "2")
	if !strings.Contains(out, "Added workout 🌅 Morning") {
		t.Errorf("add output = %q", out)
	}

	out = env.mustRun("workout", "show", "1")
	for _, want := range []string{"🌅", "Morning", "Rest: 10s", "Jumping Jacks", "0:45", "Squats", "0:30", "Total: 1:25"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Jumping Jacks") > strings.Index(out, "Squats") {
		t.Errorf("exercises out of order:\n%s", out)
	}

	out = env.mustRun("workout", "list")
	if !strings.Contains(out, "Morning") || !strings.Contains(out, "2 exercises") || !strings.Contains(out, "1:25") {
		t.Errorf("list output = %q", out)
	}

	// Rest only: exercise list is kept.
	env.mustRun("workout", "edit", "1", "--rest", "0")
	out = env.mustRun("workout", "show", "1")
	if !strings.Contains(out, "Rest: 0s") || !strings.Contains(out, "Total: 1:15") {
		t.Errorf("after rest edit:\n%s", out)
	}

	// Exercises given: list is replaced.
	env.mustRun("workout", "edit", "1", "-x", "3:60", "-x", "1:20")
	out = env.mustRun("workout", "show", "1")
	if strings.Contains(out, "Squats") || !strings.Contains(out, "Plank") {
		t.Errorf("after exercise edit:\n%s", out)
	}
	if strings.Index(out, "Plank") > strings.Index(out, "Jumping Jacks") {
		t.Errorf("replaced list out of order:\n%s", out)
	}

	env.mustRun("workout", "delete", "1", "-y")
	out = env.mustRun("workout", "list")
	if !strings.Contains(out, "No workouts found.") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestWorkoutAddUsesDefaults(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")

	out := env.mustRun("workout", "add", "Quick", "-x", "1")
	if !strings.Contains(out, "💪 Quick") {
		t.Errorf("expected default emoji, got %q", out)
	}
	out = env.mustRun("workout", "show", "1")
	if !strings.Contains(out, "Rest: 5s") || !strings.Contains(out, "0:30") {
		t.Errorf("expected default rest and duration:\n%s", out)
	}
}

func TestWorkoutAddRejectsBadInput(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")

	tests := []struct {
		name string
		args []string
	}{
		{"bad slot", []string{"workout", "add", "W", "-x", "one"}},
		{"unknown exercise", []string{"workout", "add", "W", "-x", "9"}},
		{"duplicate exercise", []string{"workout", "add", "W", "-x", "1", "-x", "1"}},
		{"zero duration", []string{"workout", "add", "W", "-x", "1:0"}},
		{"negative rest", []string{"workout", "add", "W", "--rest=-1", "-x", "1"}},
		{"blank name", []string{"workout", "add", " ", "-x", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run("", tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}

	out := env.mustRun("workout", "list")
	if !strings.Contains(out, "No workouts found.") {
		t.Errorf("rejected workouts must not be stored, list = %q", out)
	}
}

func TestExerciseDeleteRemovesFromWorkouts(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "A")
	env.mustRun("exercise", "add", "B")
	env.mustRun("exercise", "add", "C")
	env.mustRun("workout", "add", "W", "-x", "1", "-x", "2", "-x", "3")

	env.mustRun("exercise", "delete", "2", "-y")

	out := env.mustRun("workout", "show", "1")
	if !strings.Contains(out, " 2. C") || strings.Contains(out, " 3.") || strings.Contains(out, "B ") {
		t.Errorf("positions should be renumbered:\n%s", out)
	}
	if !strings.Contains(out, "Total: 1:05") {
		t.Errorf("total should drop the deleted exercise:\n%s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")
	env.mustRun("exercise", "add", "Plank")
	env.mustRun("workout", "add", "Core", "-r", "15", "-x", "2:60", "-x", "1:40")

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			src := &cliEnv{t: t, dataDir: env.dataDir}
			file := filepath.Join(t.TempDir(), "backup."+format)
			out := src.mustRun("export", format, "-o", file)
			if !strings.Contains(out, "Exported to") {
				t.Errorf("export output = %q", out)
			}

			fresh := &cliEnv{t: t, dataDir: t.TempDir()}
			out = fresh.mustRun("import", file)
			if !strings.Contains(out, "2 exercises, 1 workouts, 2 workout entries") {
				t.Errorf("import output = %q", out)
			}

			out = fresh.mustRun("workout", "show", "1")
			if !strings.Contains(out, "Rest: 15s") || strings.Index(out, "Plank") > strings.Index(out, "Squats") {
				t.Errorf("imported workout:\n%s", out)
			}
		})
	}
}

func TestExportToStdout(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")

	out := env.mustRun("export", "json")
	if !strings.Contains(out, `"Squats"`) || !strings.Contains(out, `"tool": "circuit"`) {
		t.Errorf("export json = %q", out)
	}

	if _, err := env.run("", "export", "xml"); err == nil {
		t.Error("Expected error for unknown export format")
	}
}

func TestImportFormatFlag(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")

	file := filepath.Join(t.TempDir(), "dump.txt")
	env.mustRun("export", "yaml", "-o", file)

	fresh := &cliEnv{t: t, dataDir: t.TempDir()}
	if _, err := fresh.run("", "import", file); err == nil {
		t.Error("Expected error for unknown extension without --format")
	}
	out := fresh.mustRun("import", file, "--format", "yaml")
	if !strings.Contains(out, "1 exercises") {
		t.Errorf("import output = %q", out)
	}
}

func TestStreakCommands(t *testing.T) {
	env := setupTestCLI(t)

	out := env.mustRun("streak")
	if !strings.Contains(out, "Streak tracking is off") {
		t.Errorf("streak output = %q", out)
	}

	out = env.mustRun("streak", "enable")
	if !strings.Contains(out, "Streak tracking enabled") {
		t.Errorf("enable output = %q", out)
	}

	out = env.mustRun("streak", "show")
	if !strings.Contains(out, "0 days") {
		t.Errorf("show output = %q", out)
	}

	out = env.mustRun("streak", "disable")
	if !strings.Contains(out, "Streak tracking disabled") {
		t.Errorf("disable output = %q", out)
	}

	if _, err := env.run("", "streak", "bogus"); err == nil {
		t.Error("Expected error for unknown streak action")
	}
}

func TestReminderCommand(t *testing.T) {
	env := setupTestCLI(t)

	out := env.mustRun("reminder")
	if !strings.Contains(out, "16:00") {
		t.Errorf("default reminder = %q", out)
	}

	out = env.mustRun("reminder", "7:5")
	if !strings.Contains(out, "Reminder set for 07:05") {
		t.Errorf("set reminder = %q", out)
	}

	out = env.mustRun("reminder", "99:99")
	if !strings.Contains(out, "23:59") {
		t.Errorf("clamped reminder = %q", out)
	}

	out = env.mustRun("reminder")
	if !strings.Contains(out, "23:59") {
		t.Errorf("stored reminder = %q", out)
	}

	if _, err := env.run("", "reminder", "noon"); err == nil {
		t.Error("Expected error for malformed reminder")
	}
}

// instantClock runs every timer right away on its own goroutine,
// advancing its time by the timer's delay.
type instantClock struct {
	mu  sync.Mutex
	now time.Time
}

type instantTimer struct{ stopped atomic.Bool }

func (t *instantTimer) Stop() bool { return !t.stopped.Swap(true) }

func (c *instantClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *instantClock) AfterFunc(d time.Duration, f func()) session.Timer {
	t := &instantTimer{}
	go func() {
		c.mu.Lock()
		c.now = c.now.Add(d)
		c.mu.Unlock()
		if !t.stopped.Load() {
			f()
		}
	}()
	return t
}

func useInstantClock(t *testing.T) {
	t.Helper()
	old := playClock
	playClock = &instantClock{now: time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)}
	t.Cleanup(func() { playClock = old })
}

func TestPlayQuit(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")
	env.mustRun("workout", "add", "W", "-x", "1:60")

	out, err := env.run("q", "play", "1")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, "Workout stopped.") {
		t.Errorf("play output = %q", out)
	}
	if strings.Contains(out, "Workout complete") {
		t.Errorf("quit must not complete:\n%q", out)
	}
}

func TestPlayCompletesAndRecordsStreak(t *testing.T) {
	env := setupTestCLI(t)
	useInstantClock(t)
	env.mustRun("exercise", "add", "Squats")
	env.mustRun("exercise", "add", "Plank")
	env.mustRun("workout", "add", "Core", "-r", "2", "-x", "1:3", "-x", "2:3")
	env.mustRun("streak", "enable")

	out, err := env.run("", "play", "1")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	for _, want := range []string{"Workout complete: 💪 Core", "2 exercises in 0:08", "Streak: 1 day", "Play again?"} {
		if !strings.Contains(out, want) {
			t.Errorf("play output missing %q:\n%q", want, out)
		}
	}
	if strings.Count(out, "\a") < 4 {
		t.Errorf("expected audio cues in output, got %d", strings.Count(out, "\a"))
	}

	out = env.mustRun("streak")
	if !strings.Contains(out, "1 day") {
		t.Errorf("streak after play = %q", out)
	}
}

func TestPlayRejectsEmptyWorkout(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "add", "Squats")
	env.mustRun("workout", "add", "W", "-x", "1")
	env.mustRun("exercise", "delete", "1", "-y")

	if _, err := env.run("", "play", "1"); err == nil || !strings.Contains(err.Error(), "cannot be played") {
		t.Errorf("play empty workout err = %v", err)
	}
	if _, err := env.run("", "play", "7"); err == nil || !strings.Contains(err.Error(), "workout not found: 7") {
		t.Errorf("play missing workout err = %v", err)
	}
}

// promptWriter signals each time the restart prompt is written.
type promptWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	prompts chan struct{}
}

func (w *promptWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if bytes.Contains(b, []byte("Play again?")) {
		w.prompts <- struct{}{}
	}
	return w.buf.Write(b)
}

func (w *promptWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestPlayerRestart(t *testing.T) {
	useInstantClock(t)

	w := &promptWriter{prompts: make(chan struct{}, 2)}
	p := &player{
		out:     w,
		workout: &models.Workout{ID: 1, Name: "W", Emoji: "💪", Rest: 0},
		plan: session.Plan{
			WorkoutID: 1,
			Steps:     []session.Step{{Name: "Squats", Duration: 2}},
		},
	}

	keys := make(chan byte)
	errc := make(chan error, 1)
	go func() { errc <- p.loop(context.Background(), keys) }()

	select {
	case <-w.prompts:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first completion")
	}
	keys <- 'y'

	select {
	case <-w.prompts:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for second completion")
	}
	close(keys)

	if err := <-errc; err != nil {
		t.Fatalf("loop: %v", err)
	}
	if n := strings.Count(w.String(), "Workout complete"); n != 2 {
		t.Errorf("expected 2 completions, got %d:\n%q", n, w.String())
	}
}

func TestStatusLine(t *testing.T) {
	p := &player{plan: session.Plan{
		Steps: []session.Step{{Name: "Squats", Duration: 30}, {Name: "Plank", Duration: 30}},
		Rest:  5,
	}}

	tests := []struct {
		snap session.Snapshot
		want []string
	}{
		{session.Snapshot{Kind: session.KindCountdown, TimeLeft: 5, Fraction: 1, Playing: true}, []string{"▶", "0:05", "Get ready"}},
		{session.Snapshot{Kind: session.KindExercise, Index: 0, TimeLeft: 12, Fraction: 0.4}, []string{"⏸", "0:12", "1/2", "Squats"}},
		{session.Snapshot{Kind: session.KindRest, Index: 0, TimeLeft: 3, Playing: true}, []string{"Rest", "next: Plank"}},
		{session.Snapshot{Kind: session.KindCompleted}, []string{"Done"}},
	}

	for _, tt := range tests {
		got := p.statusLine(tt.snap)
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("statusLine(%v) = %q, missing %q", tt.snap.Kind, got, want)
			}
		}
	}
}

func TestDataDirCreated(t *testing.T) {
	env := setupTestCLI(t)
	env.mustRun("exercise", "list")

	if _, err := os.Stat(filepath.Join(env.dataDir, "circuit.db")); err != nil {
		t.Errorf("expected database in data dir: %v", err)
	}
}

func TestConfirmTyped(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"wipe\n", true},
		{"  wipe  \n", true},
		{"WIPE\n", false},
		{"y\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirmTyped(strings.NewReader(tt.input), &out, "Sure?", "wipe")
		if err != nil {
			t.Fatalf("confirmTyped(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("confirmTyped(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Type 'wipe' to confirm") {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestSyncSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"link": false, "unlink": false, "status": false, "now": false,
		"repair": false, "reset": false, "wipe": false,
	}
	for _, c := range syncCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected sync %q subcommand to be registered", name)
		}
	}
}

func TestSyncDestructiveCommandsCancel(t *testing.T) {
	env := setupTestCLI(t)

	tests := []struct {
		args  []string
		stdin string
	}{
		{[]string{"sync", "wipe"}, "no\n"},
		{[]string{"sync", "wipe"}, "y\n"},
		{[]string{"sync", "reset"}, "n\n"},
		{[]string{"sync", "reset"}, ""},
	}
	for _, tt := range tests {
		out, err := env.run(tt.stdin, tt.args...)
		if err != nil {
			t.Fatalf("circuit %s with %q: %v", strings.Join(tt.args, " "), tt.stdin, err)
		}
		if !strings.Contains(out, "Canceled.") {
			t.Errorf("circuit %s with %q = %q, want Canceled.", strings.Join(tt.args, " "), tt.stdin, out)
		}
	}
}
