// ABOUTME: MCP server setup for the circuit workout library.
// ABOUTME: Wraps MCP server with storage Repository and streak tracker access.
package mcp

import (
	"context"

	"github.com/harperreed/circuit/internal/models"
	"github.com/harperreed/circuit/internal/storage"
	"github.com/harperreed/circuit/internal/streak"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Defaults fill in values a tool call leaves out.
type Defaults struct {
	Rest     int
	Duration int
	Emoji    string
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults overrides the workout defaults used by create_workout.
func WithDefaults(d Defaults) Option {
	return func(s *Server) { s.defaults = d }
}

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	tracker   *streak.Tracker
	defaults  Defaults
}

// NewServer creates a new MCP server with the given storage. tracker may be
// nil, in which case streak tools and resources report it as unavailable.
func NewServer(repo storage.Repository, tracker *streak.Tracker, opts ...Option) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "circuit",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		tracker:   tracker,
		defaults: Defaults{
			Rest:     models.DefaultRest,
			Duration: models.DefaultDuration,
			Emoji:    models.DefaultEmoji,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
