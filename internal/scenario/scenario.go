// Package scenario runs scripted playground sessions from YAML files.
//
// A scenario is an ordered list of actions, each optionally followed by
// expectations on the resulting state. Scenarios double as lesson scripts
// (`vecsim run`) and as regression fixtures.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nvandessel/vecsim/internal/elemtype"
	"github.com/nvandessel/vecsim/internal/session"
	"gopkg.in/yaml.v3"
)

// Scenario defines a complete scripted session.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Config      *Settings `yaml:"config,omitempty"`
	Steps       []Step    `yaml:"steps"`
}

// Settings overrides session defaults for one scenario.
type Settings struct {
	InitialCapacity *int    `yaml:"initial_capacity,omitempty"`
	DefaultType     string  `yaml:"default_type,omitempty"`
	LogMax          int     `yaml:"log_max,omitempty"`
	InitialText     *string `yaml:"initial_text,omitempty"`
	MinCapacity     *int    `yaml:"min_capacity,omitempty"`
}

// Step is one action with optional expectations.
type Step struct {
	session.Action `yaml:",inline"`

	// ExpectError asserts the action fails.
	ExpectError bool `yaml:"expect_error,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists assertions on the snapshot after a step. Nil fields are not checked.
type Expect struct {
	Size         *int    `yaml:"size,omitempty"`
	Capacity     *int    `yaml:"capacity,omitempty"`
	Type         string  `yaml:"type,omitempty"`
	Data         *string `yaml:"data,omitempty"`
	Length       *int    `yaml:"length,omitempty"`
	TextCapacity *int    `yaml:"text_capacity,omitempty"`
	LogLen       *int    `yaml:"log_len,omitempty"`
	LogContains  string  `yaml:"log_contains,omitempty"`
	View         string  `yaml:"view,omitempty"`
}

// StepResult captures the outcome of one step.
type StepResult struct {
	Index    int            `json:"index"`
	Result   session.Result `json:"result"`
	Failures []string       `json:"failures,omitempty"`
}

// Report captures all steps of a run.
type Report struct {
	Name  string           `json:"name"`
	Steps []StepResult     `json:"steps"`
	Final session.Snapshot `json:"final"`
}

// Failures returns every failed expectation, prefixed with its step.
func (r Report) Failures() []string {
	var out []string
	for _, sr := range r.Steps {
		for _, f := range sr.Failures {
			out = append(out, fmt.Sprintf("step %d (%s): %s", sr.Index+1, sr.Result.Action, f))
		}
	}
	return out
}

// Passed reports whether every expectation held.
func (r Report) Passed() bool {
	return len(r.Failures()) == 0
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario and checks that every action is known.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("scenario has no steps")
	}

	known := make(map[session.Op]bool)
	for _, op := range session.Ops() {
		known[op] = true
	}
	for i, st := range sc.Steps {
		if !known[st.Op] {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, session.ErrUnknownAction, st.Op)
		}
	}
	return &sc, nil
}

// Apply merges the scenario settings into a session config.
func (s *Settings) Apply(cfg *session.Config) {
	if s == nil {
		return
	}
	if s.InitialCapacity != nil {
		cfg.Vector.InitialCapacity = *s.InitialCapacity
	}
	if s.DefaultType != "" {
		cfg.Vector.Kind = elemtype.Kind(s.DefaultType)
	}
	if s.LogMax > 0 {
		cfg.Vector.LogMax = s.LogMax
		cfg.String.LogMax = s.LogMax
	}
	if s.InitialText != nil {
		cfg.String.InitialText = *s.InitialText
	}
	if s.MinCapacity != nil {
		cfg.String.MinCapacity = *s.MinCapacity
	}
}

// Run executes the scenario on a fresh session built from base.
// Action failures are not errors; they are checked against ExpectError.
// The returned error covers setup problems and context cancellation only.
func Run(ctx context.Context, sc *Scenario, base session.Config) (Report, error) {
	cfg := base
	sc.Config.Apply(&cfg)

	sess, err := session.New(cfg)
	if err != nil {
		return Report{}, fmt.Errorf("creating session: %w", err)
	}

	report := Report{Name: sc.Name}
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, actErr := sess.Apply(ctx, st.Action)
		sr := StepResult{Index: i, Result: res}

		switch {
		case st.ExpectError && actErr == nil:
			sr.Failures = append(sr.Failures, "expected the action to fail")
		case !st.ExpectError && actErr != nil:
			sr.Failures = append(sr.Failures, "unexpected failure: "+actErr.Error())
		}
		sr.Failures = append(sr.Failures, st.Expect.check(res.Snapshot)...)

		report.Steps = append(report.Steps, sr)
	}
	report.Final = sess.Snapshot()
	return report, nil
}

func (e *Expect) check(snap session.Snapshot) []string {
	if e == nil {
		return nil
	}

	var fails []string
	intEq := func(name string, want *int, got int) {
		if want != nil && *want != got {
			fails = append(fails, fmt.Sprintf("%s = %d, want %d", name, got, *want))
		}
	}

	intEq("size", e.Size, snap.Vector.Size)
	intEq("capacity", e.Capacity, snap.Vector.Capacity)
	intEq("length", e.Length, snap.String.Length)
	intEq("text_capacity", e.TextCapacity, snap.String.Capacity)
	intEq("log_len", e.LogLen, len(snap.Vector.Log))

	if e.Type != "" && string(snap.Vector.Type) != e.Type {
		fails = append(fails, fmt.Sprintf("type = %s, want %s", snap.Vector.Type, e.Type))
	}
	if e.Data != nil && snap.Vector.Data() != *e.Data {
		fails = append(fails, fmt.Sprintf("data = %q, want %q", snap.Vector.Data(), *e.Data))
	}
	if e.View != "" && string(snap.View) != e.View {
		fails = append(fails, fmt.Sprintf("view = %s, want %s", snap.View, e.View))
	}
	if e.LogContains != "" && !logContains(snap, e.LogContains) {
		fails = append(fails, fmt.Sprintf("no log entry contains %q", e.LogContains))
	}
	return fails
}

func logContains(snap session.Snapshot, sub string) bool {
	for _, entry := range snap.Vector.Log {
		if strings.Contains(entry, sub) {
			return true
		}
	}
	for _, entry := range snap.String.Log {
		if strings.Contains(entry, sub) {
			return true
		}
	}
	return false
}
