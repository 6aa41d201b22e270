package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vecsim",
		Short: "Dynamic array and string growth simulator",
		Long: `vecsim simulates how std::vector and std::string manage memory.

Push, pop and clear elements and watch size, capacity, simulated addresses
and reallocations, either interactively in the terminal, in the browser,
from scripted lessons, or through MCP tools for agents.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.vecsim/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPlayCmd(),
		newRunCmd(),
		newServeCmd(),
		newMCPServerCmd(),
		newCompareCmd(),
		newConfigCmd(),
	)
	return rootCmd
}
