// ABOUTME: Shared parsing and prompting helpers for CLI commands.
// ABOUTME: IDs, exercise slots, confirmations, and column padding.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/harperreed/circuit/internal/models"
	"github.com/harperreed/circuit/internal/storage"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// parseSlot parses "<exercise-id>[:<seconds>]". A missing duration uses
// defaultDuration.
func parseSlot(s string, defaultDuration int) (models.SubmitExercise, error) {
	idPart, durPart, hasDur := strings.Cut(s, ":")
	id, err := parseID(idPart)
	if err != nil {
		return models.SubmitExercise{}, fmt.Errorf("exercise %q: %w", s, err)
	}
	duration := defaultDuration
	if hasDur {
		duration, err = strconv.Atoi(strings.TrimSpace(durPart))
		if err != nil {
			return models.SubmitExercise{}, fmt.Errorf("exercise %q: invalid seconds", s)
		}
	}
	return models.SubmitExercise{ExerciseID: id, Duration: duration}, nil
}

func parseSlots(slots []string, defaultDuration int) ([]models.SubmitExercise, error) {
	out := make([]models.SubmitExercise, 0, len(slots))
	for _, s := range slots {
		slot, err := parseSlot(s, defaultDuration)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}

// confirm asks a yes/no question; only "y" or "yes" confirms.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// confirmTyped asks the user to type word exactly before a destructive step.
func confirmTyped(in io.Reader, out io.Writer, prompt, word string) (bool, error) {
	fmt.Fprintf(out, "%s\nType '%s' to confirm: ", prompt, word)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return strings.TrimSpace(response) == word, nil
}

// notFound turns a missing record into a short user-facing error.
func notFound(kind string, id int64, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s not found: %d", kind, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", kind, id, err)
}

// truncate and padRight count runes so multi-byte names are never split.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
