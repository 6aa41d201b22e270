package main

import (
	"github.com/spf13/cobra"

	"github.com/nvandessel/vecsim/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout so agents can drive
the playground through tools (vector_push, vector_pop, string_set, state, ...)
and read the vecsim://state resource.

Logs go to stderr; stdout carries the protocol only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "vecsim",
				Version: version,
				Session: rt.session,
				Audit:   rt.audit,
				Logger:  rt.logger,
			})
			if err != nil {
				return err
			}

			rt.logger.Info("mcp server starting", "version", version)
			return server.Run(commandContext(cmd))
		},
	}
}
