// Package vector simulates the growth behavior of a dynamic array.
//
// A Simulator tracks an ordered list of elements and a simulated capacity.
// Pushing onto a full simulator reallocates: the capacity doubles (or becomes 1
// when it was 0) and existing elements are conceptually copied. Capacity never
// shrinks on pop or clear; only Reset and ChangeType restore the initial value.
//
// All public methods are safe for concurrent use. The fresh-flag timer fires on
// its own goroutine, so the simulator guards its state with a mutex.
package vector

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nvandessel/vecsim/internal/elemtype"
	"github.com/nvandessel/vecsim/internal/logging"
	"github.com/nvandessel/vecsim/internal/oplog"
)

var (
	// ErrInvalidInput is returned when a raw value does not match the declared type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmpty is returned by PopBack on an empty simulator.
	ErrEmpty = errors.New("vector is empty")

	// ErrUnknownType is returned by ChangeType for an unrecognized kind.
	ErrUnknownType = errors.New("unknown element type")
)

const (
	msgInit  = "System initialized. Vector created (empty)."
	msgReset = "System reset."
)

// Scheduler runs f once after d. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Options configures a Simulator.
type Options struct {
	// InitialCapacity is the capacity on creation, Reset and ChangeType. Default: 4.
	InitialCapacity int

	// Kind is the declared element type on creation. Default: int.
	Kind elemtype.Kind

	// BaseAddress is the simulated address of slot 0. Default: 7000.
	BaseAddress int

	// FreshDelay is how long a pushed element keeps its fresh flag. Default: 500ms.
	FreshDelay time.Duration

	// LogMax is the operation log limit. Default: oplog.DefaultMax.
	LogMax int

	Scheduler Scheduler
	Logger    *slog.Logger
	Events    *logging.EventLogger

	// NewID generates element identifiers. Default: uuid.NewString.
	NewID func() string
}

// DefaultOptions returns the playground defaults: int elements, capacity 4.
func DefaultOptions() Options {
	return Options{
		InitialCapacity: 4,
		Kind:            elemtype.Int,
		BaseAddress:     DefaultBaseAddress,
		FreshDelay:      500 * time.Millisecond,
		LogMax:          oplog.DefaultMax,
	}
}

// Element is one logical entry of the simulated array.
type Element struct {
	ID    string
	Value string // validated raw input
	Fresh bool
}

// Simulator is a simulated dynamic array.
type Simulator struct {
	mu       sync.Mutex
	opts     Options
	spec     elemtype.Spec
	elements []Element
	capacity int
	input    string
	log      *oplog.Log
}

// New creates a Simulator. Zero-valued option fields take their defaults.
func New(opts Options) (*Simulator, error) {
	def := DefaultOptions()
	if opts.Kind == "" {
		opts.Kind = def.Kind
	}
	if opts.InitialCapacity < 0 {
		return nil, fmt.Errorf("initial capacity must be non-negative, got %d", opts.InitialCapacity)
	}
	if opts.BaseAddress == 0 {
		opts.BaseAddress = def.BaseAddress
	}
	if opts.FreshDelay <= 0 {
		opts.FreshDelay = def.FreshDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timeScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	spec, err := elemtype.Lookup(opts.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, opts.Kind)
	}

	return &Simulator{
		opts:     opts,
		spec:     spec,
		capacity: opts.InitialCapacity,
		log:      oplog.New(opts.LogMax, msgInit),
	}, nil
}

// SetInput replaces the pending input field.
func (s *Simulator) SetInput(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = raw
}

// Input returns the pending input field.
func (s *Simulator) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Submit pushes the pending input. Validation always runs, even when the
// input is empty.
func (s *Simulator) Submit() error {
	return s.PushBack(s.Input())
}

// PushBack validates raw against the declared type and appends it.
// A full simulator reallocates before the append.
func (s *Simulator) PushBack(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.spec.Validate(raw) {
		return fmt.Errorf("%w: enter a valid %s value, got %q", ErrInvalidInput, s.spec.Kind, raw)
	}

	size := len(s.elements)
	if size >= s.capacity {
		old := s.capacity
		s.capacity = grow(old)
		s.log.Append(fmt.Sprintf("Capacity full (%d). Reallocated storage to %d and copied %d elements to the new memory.",
			old, s.capacity, size))
		s.opts.Logger.Debug("vector reallocated", "old_capacity", old, "new_capacity", s.capacity, "copied", size)
		s.opts.Events.Log(map[string]any{
			"event": "reallocate", "old_capacity": old, "new_capacity": s.capacity, "copied": size,
		})
	} else {
		s.log.Append(fmt.Sprintf("push_back(%s): added element at index %d.", s.spec.Format(raw), size))
	}

	id := s.opts.NewID()
	s.elements = append(s.elements, Element{ID: id, Value: raw, Fresh: true})
	s.input = ""
	s.opts.Events.Log(map[string]any{"event": "push_back", "value": raw, "size": len(s.elements), "capacity": s.capacity})

	s.opts.Scheduler.AfterFunc(s.opts.FreshDelay, func() { s.clearFresh(id) })
	return nil
}

// grow returns the capacity after a reallocation.
func grow(capacity int) int {
	if capacity == 0 {
		return 1
	}
	return capacity * 2
}

// clearFresh drops the fresh flag of element id. Absent ids are ignored.
func (s *Simulator) clearFresh(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.elements {
		if s.elements[i].ID == id {
			s.elements[i].Fresh = false
			return
		}
	}
}

// PopBack removes the last element. Capacity is unchanged.
func (s *Simulator) PopBack() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.elements) == 0 {
		s.log.Append("Error: cannot pop_back() on an empty vector.")
		s.opts.Logger.Debug("pop_back on empty vector")
		return ErrEmpty
	}

	s.elements = s.elements[:len(s.elements)-1]
	s.log.Append(fmt.Sprintf("pop_back(): removed last element. Size is now %d.", len(s.elements)))
	s.opts.Events.Log(map[string]any{"event": "pop_back", "size": len(s.elements), "capacity": s.capacity})
	return nil
}

// Clear removes all elements. Capacity is unchanged.
func (s *Simulator) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elements = nil
	s.log.Append(fmt.Sprintf("clear(): all elements removed. Capacity stays at %d.", s.capacity))
	s.opts.Events.Log(map[string]any{"event": "clear", "capacity": s.capacity})
}

// Reset restores the initial capacity, empties the simulator and replaces the log.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elements = nil
	s.capacity = s.opts.InitialCapacity
	s.input = ""
	s.log.ReplaceAll(msgReset)
	s.opts.Events.Log(map[string]any{"event": "reset", "capacity": s.capacity})
}

// ChangeType switches the declared element type. Existing elements are
// discarded and the initial capacity restored. Selecting the current type is a no-op.
func (s *Simulator) ChangeType(kind elemtype.Kind) error {
	spec, err := elemtype.Lookup(kind)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownType, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == s.spec.Kind {
		return nil
	}

	s.spec = spec
	s.elements = nil
	s.capacity = s.opts.InitialCapacity
	s.input = ""
	s.log.Append(fmt.Sprintf("Type changed to %s. Vector reset.", kind))
	s.opts.Logger.Debug("vector type changed", "type", kind)
	s.opts.Events.Log(map[string]any{"event": "change_type", "type": string(kind)})
	return nil
}

// Kind returns the declared element type.
func (s *Simulator) Kind() elemtype.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec.Kind
}

// Size returns the number of elements.
func (s *Simulator) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.elements)
}

// Capacity returns the simulated capacity.
func (s *Simulator) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// Log returns the operation log, newest first.
func (s *Simulator) Log() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

// Address returns the simulated address of slot index for the current type.
func (s *Simulator) Address(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Address(s.opts.BaseAddress, index, s.spec.Kind)
}
