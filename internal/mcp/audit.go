package mcp

import (
	"context"
	"time"

	"github.com/nvandessel/vecsim/internal/audit"
	"github.com/nvandessel/vecsim/internal/session"
)

// auditTool records a tool invocation. Failures to record are logged, not returned.
func (s *Server) auditTool(ctx context.Context, tool, value string, start time.Time, res session.Result, err error) {
	entry := audit.Entry{
		Timestamp:  start,
		Surface:    "mcp",
		Action:     tool,
		Value:      value,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     "success",
		Size:       res.Snapshot.Vector.Size,
		Capacity:   res.Snapshot.Vector.Capacity,
	}
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	}

	// Record with a fresh context so a cancelled call is still audited.
	if recErr := s.audit.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		s.logger.Warn("audit record failed", "tool", tool, "error", recErr)
	}
}
