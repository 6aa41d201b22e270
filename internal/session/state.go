// Package session holds the state of one interactive playground: the
// selected view, a growth simulator and a string buffer.
//
// Every presentation surface (terminal, scenario runner, HTTP, MCP) drives the
// simulators through Apply, which runs one action to completion before the next.
// All public methods are safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nvandessel/vecsim/internal/config"
	"github.com/nvandessel/vecsim/internal/elemtype"
	"github.com/nvandessel/vecsim/internal/logging"
	"github.com/nvandessel/vecsim/internal/strbuf"
	"github.com/nvandessel/vecsim/internal/vector"
)

var (
	// ErrUnknownAction is returned for an unrecognized action name.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownView is returned when switching to an unrecognized view.
	ErrUnknownView = errors.New("unknown view")
)

// View selects which playground is displayed.
type View string

const (
	ViewVector     View = "vector"
	ViewString     View = "string"
	ViewComparison View = "comparison"
)

// Valid returns true if the view is a recognized value.
func (v View) Valid() bool {
	switch v {
	case ViewVector, ViewString, ViewComparison:
		return true
	}
	return false
}

// Op names an action.
type Op string

const (
	OpPush      Op = "push"       // push_back(value)
	OpPop       Op = "pop"        // pop_back()
	OpClear     Op = "clear"      // clear()
	OpReset     Op = "reset"      // reset everything on the vector
	OpType      Op = "type"       // change declared type to value
	OpInput     Op = "input"      // set the pending input to value
	OpSubmit    Op = "submit"     // push the pending input
	OpText      Op = "text"       // replace string buffer content with value
	OpTextClear Op = "text-clear" // empty the string buffer
	OpView      Op = "view"       // switch view to value
	OpShow      Op = "show"       // no mutation, snapshot only
)

// Ops lists every action name.
func Ops() []Op {
	return []Op{OpPush, OpPop, OpClear, OpReset, OpType, OpInput, OpSubmit, OpText, OpTextClear, OpView, OpShow}
}

// Action is one discrete user action.
type Action struct {
	Op    Op     `json:"op" yaml:"action"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (a Action) String() string {
	if a.Value == "" {
		return string(a.Op)
	}
	return fmt.Sprintf("%s %q", a.Op, a.Value)
}

// Snapshot is the full read-only state of a session.
type Snapshot struct {
	View   View            `json:"view"`
	Vector vector.Snapshot `json:"vector"`
	String strbuf.Snapshot `json:"string"`
}

// Result reports the outcome of one action together with the resulting state.
type Result struct {
	Action   Action   `json:"action"`
	OK       bool     `json:"ok"`
	Error    string   `json:"error,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

// Config holds session construction settings.
type Config struct {
	Vector vector.Options
	String strbuf.Options
	Logger *slog.Logger
}

// DefaultConfig returns the playground defaults.
func DefaultConfig() Config {
	return Config{
		Vector: vector.DefaultOptions(),
		String: strbuf.DefaultOptions(),
	}
}

// ConfigFrom builds a session Config from loaded settings.
func ConfigFrom(cfg *config.VecsimConfig, logger *slog.Logger, events *logging.EventLogger) Config {
	return Config{
		Vector: vector.Options{
			InitialCapacity: cfg.Vector.InitialCapacity,
			Kind:            elemtype.Kind(cfg.Vector.DefaultType),
			BaseAddress:     cfg.Vector.BaseAddress,
			FreshDelay:      cfg.Vector.FreshDelay,
			LogMax:          cfg.Log.MaxEntries,
			Logger:          logger,
			Events:          events,
		},
		String: strbuf.Options{
			InitialText: cfg.String.InitialText,
			MinCapacity: cfg.String.MinCapacity,
			LogMax:      cfg.Log.MaxEntries,
			Logger:      logger,
			Events:      events,
		},
		Logger: logger,
	}
}

// Session is one interactive playground.
type Session struct {
	mu     sync.Mutex
	view   View
	vec    *vector.Simulator
	str    *strbuf.Buffer
	logger *slog.Logger
}

// New creates a session showing the vector view.
func New(cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	vec, err := vector.New(cfg.Vector)
	if err != nil {
		return nil, fmt.Errorf("creating vector simulator: %w", err)
	}

	str, err := strbuf.New(cfg.String)
	if err != nil {
		return nil, fmt.Errorf("creating string buffer: %w", err)
	}

	return &Session{
		view:   ViewVector,
		vec:    vec,
		str:    str,
		logger: cfg.Logger,
	}, nil
}

// Apply runs one action. Failed actions leave state untouched (pop on an empty
// vector additionally records the failure in the operation log); the returned
// Result always carries the current snapshot.
func (s *Session) Apply(ctx context.Context, a Action) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Action: a, Error: err.Error(), Snapshot: s.Snapshot()}, err
	}

	s.mu.Lock()
	err := s.apply(a)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	res := Result{Action: a, OK: err == nil, Snapshot: snap}
	if err != nil {
		res.Error = err.Error()
		s.logger.Debug("action failed", "action", a.String(), "error", err)
	} else {
		s.logger.Debug("action applied", "action", a.String(),
			"size", snap.Vector.Size, "capacity", snap.Vector.Capacity)
	}
	s.logger.Log(ctx, logging.LevelTrace, "snapshot", "view", snap.View, "data", snap.Vector.Data(), "text", snap.String.Text)

	return res, err
}

func (s *Session) apply(a Action) error {
	switch a.Op {
	case OpPush:
		return s.vec.PushBack(a.Value)
	case OpPop:
		return s.vec.PopBack()
	case OpClear:
		s.vec.Clear()
	case OpReset:
		s.vec.Reset()
	case OpType:
		return s.vec.ChangeType(elemtype.Kind(a.Value))
	case OpInput:
		s.vec.SetInput(a.Value)
	case OpSubmit:
		return s.vec.Submit()
	case OpText:
		s.str.SetText(a.Value)
	case OpTextClear:
		s.str.Clear()
	case OpView:
		v := View(a.Value)
		if !v.Valid() {
			return fmt.Errorf("%w: %q (valid: vector, string, comparison)", ErrUnknownView, a.Value)
		}
		s.view = v
	case OpShow:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Op)
	}
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		View:   s.view,
		Vector: s.vec.Snapshot(),
		String: s.str.Snapshot(),
	}
}

// View returns the selected view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}
