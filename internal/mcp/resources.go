// ABOUTME: MCP resource implementations for the workout library.
// ABOUTME: Provides circuit://workouts and circuit://streak resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	workoutsURI = "circuit://workouts"
	streakURI   = "circuit://streak"
)

func (s *Server) registerResources() {
	// circuit://workouts - every workout with its ordered plan
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         workoutsURI,
		Name:        "Workout Library",
		Description: "All workouts with ordered exercises, durations and total time",
		MIMEType:    "application/json",
	}, s.handleWorkoutsResource)

	// circuit://streak - streak status
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         streakURI,
		Name:        "Workout Streak",
		Description: "Whether streak tracking is on, the current streak and the last workout day",
		MIMEType:    "application/json",
	}, s.handleStreakResource)
}

// Resource handlers

func (s *Server) handleWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	plans := make([]workoutOutput, 0, len(workouts))
	for _, w := range workouts {
		exercises, err := s.repo.GetWorkoutExercises(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read exercises for workout %d: %w", w.ID, err)
		}
		plans = append(plans, toWorkoutOutput(w, exercises))
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"workouts":     plans,
		"count":        len(plans),
	}
	return jsonResource(workoutsURI, result)
}

func (s *Server) handleStreakResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("streak tracking is not available")
	}
	status, err := s.tracker.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to read streak: %w", err)
	}
	return jsonResource(streakURI, status)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
