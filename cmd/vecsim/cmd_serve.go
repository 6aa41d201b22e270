package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vecsim/internal/ratelimit"
	"github.com/nvandessel/vecsim/internal/visualization"
)

// actionLimit bounds POST /api/action per client. The page sends one action
// per keystroke in the string view.
var actionLimit = ratelimit.Limit{Rate: 20, Burst: 40}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the playground in the browser",
		Long: `Start a local HTTP server with the interactive playground page and
its JSON API (GET /api/state, POST /api/action). Runs until Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			noOpen, _ := cmd.Flags().GetBool("no-open")

			rt, err := newRuntime(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			srv := visualization.NewServer(rt.session, rt.audit, rt.logger).LimitActions(actionLimit)
			return runServer(cmd, srv, noOpen || !rt.cfg.Server.OpenBrowser)
		},
	}

	cmd.Flags().Bool("no-open", false, "Don't open the browser")
	return cmd
}

// runServer starts srv and blocks until the command context is cancelled.
func runServer(cmd *cobra.Command, srv *visualization.Server, noOpen bool) error {
	srvCtx, srvCancel := context.WithCancel(commandContext(cmd))
	defer srvCancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(srvCtx) }()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && srv.Addr() == "" {
		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-time.After(10 * time.Millisecond):
		}
	}

	addr := srv.Addr()
	if addr == "" {
		return fmt.Errorf("server failed to start")
	}

	url := "http://" + addr
	fmt.Fprintf(cmd.OutOrStdout(), "Playground running at %s\n", url)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

	if !noOpen {
		if err := visualization.OpenBrowser(url); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
		}
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
