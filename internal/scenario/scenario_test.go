package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/vecsim/internal/session"
)

func TestLessons_AllPass(t *testing.T) {
	names := Lessons()
	if len(names) == 0 {
		t.Fatal("no built-in lessons found")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			sc, err := Lesson(name)
			if err != nil {
				t.Fatalf("Lesson(%s): %v", name, err)
			}
			report, err := Run(context.Background(), sc, session.DefaultConfig())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			for _, f := range report.Failures() {
				t.Error(f)
			}
		})
	}
}

func TestLesson_Unknown(t *testing.T) {
	_, err := Lesson("nope")
	if err == nil || !strings.Contains(err.Error(), "growth") {
		t.Errorf("err = %v, want listing of available lessons", err)
	}
}

func TestRun_ReportsFailures(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "failing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	report, err := Run(context.Background(), sc, session.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Passed() {
		t.Fatal("expected failures")
	}

	fails := report.Failures()
	if len(fails) != 2 {
		t.Fatalf("failures = %v, want 2", fails)
	}
	if !strings.Contains(fails[0], "capacity = 4, want 2") {
		t.Errorf("fails[0] = %q", fails[0])
	}
	if !strings.Contains(fails[1], "step 3") || !strings.Contains(fails[1], "unexpected failure") {
		t.Errorf("fails[1] = %q", fails[1])
	}
	if report.Final.Vector.Size != 0 {
		t.Errorf("final size = %d, want 0", report.Final.Vector.Size)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "bad_action.yaml")); !errors.Is(err, session.ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
	if _, err := Parse([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := Parse([]byte("steps: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Load(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSettings_Apply(t *testing.T) {
	sc, err := Parse([]byte(`
name: custom
config:
  initial_capacity: 1
  default_type: double
  log_max: 2
  initial_text: ""
  min_capacity: 3
steps:
  - action: push
    value: "1.5"
  - action: push
    value: "2.5"
    expect:
      capacity: 2
      type: double
      log_len: 2
      length: 0
      text_capacity: 3
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	report, err := Run(context.Background(), sc, session.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range report.Failures() {
		t.Error(f)
	}
}

func TestRun_Cancelled(t *testing.T) {
	sc, _ := Lesson("growth")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, sc, session.DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
