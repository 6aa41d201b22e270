package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nvandessel/vecsim/internal/audit"
	"github.com/nvandessel/vecsim/internal/config"
	"github.com/nvandessel/vecsim/internal/logging"
	"github.com/nvandessel/vecsim/internal/session"
)

// runtime bundles what every simulating command needs.
type runtime struct {
	cfg     *config.VecsimConfig
	logger  *slog.Logger
	events  *logging.EventLogger
	audit   *audit.Store
	session *session.Session
}

// loadConfig loads and validates configuration, honoring --config and --log-level.
func loadConfig(cmd *cobra.Command) (*config.VecsimConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.VecsimConfig
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newRuntime builds the logger, event log, optional audit store and a fresh session.
// withAudit is false for surfaces that serve a single local user.
func newRuntime(cmd *cobra.Command, withAudit bool) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
	}

	if dir, err := config.Dir(); err == nil {
		rt.events = logging.NewEventLogger(dir, cfg.Logging.Level)
	}

	if withAudit && cfg.Audit.Enabled {
		path := cfg.Audit.Path
		if path == "" {
			dir, err := config.Dir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "audit.db")
		}
		store, err := audit.Open(path)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.audit = store
		rt.logger.Debug("audit trail enabled", "path", path)
	}

	rt.session, err = session.New(session.ConfigFrom(cfg, rt.logger, rt.events))
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// Close releases the event log and audit store.
func (rt *runtime) Close() {
	rt.events.Close()
	if err := rt.audit.Close(); err != nil {
		rt.logger.Warn("closing audit store", "error", err)
	}
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
