// Package mcp exposes a playground session to agents over the Model Context
// Protocol: one tool per user action plus a markdown state resource.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/vecsim/internal/audit"
	"github.com/nvandessel/vecsim/internal/ratelimit"
	"github.com/nvandessel/vecsim/internal/session"
)

// Server wraps the MCP SDK server around one playground session.
type Server struct {
	server       *sdk.Server
	session      *session.Session
	audit        *audit.Store
	toolLimiters ratelimit.ToolLimiters
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "vecsim")
	Version string // Server version

	// Session is the playground driven by the tools. Required.
	Session *session.Session

	// Audit records every tool call. Optional; the server does not close it.
	Audit *audit.Store

	Logger *slog.Logger
}

// NewServer creates a new MCP server with the playground tools registered.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil || cfg.Session == nil {
		return nil, errors.New("mcp server requires a session")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:       mcpServer,
		session:      cfg.Session,
		audit:        cfg.Audit,
		toolLimiters: ratelimit.NewToolLimiters(),
		logger:       logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	if err := s.registerResources(); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}
	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
