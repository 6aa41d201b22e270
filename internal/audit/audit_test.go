package audit

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "audit.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Surface: "http", Action: "push", Value: "1", Status: "success", Size: 1, Capacity: 4},
		{Surface: "mcp", Action: "pop", Status: "error", Error: "vector is empty", Capacity: 4},
		{Surface: "http", Action: "push", Value: "abc", Status: "error", Error: "invalid input", Capacity: 4},
	}
	for _, e := range entries {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Value != "abc" || got[0].Status != "error" {
		t.Errorf("newest entry = %+v", got[0])
	}
	if got[1].Surface != "mcp" || got[1].Error != "vector is empty" {
		t.Errorf("second entry = %+v", got[1])
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp should be set automatically")
	}
}

func TestRecord_TruncatesValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	long := strings.Repeat("x", 200)
	if err := s.Record(ctx, Entry{Surface: "http", Action: "text", Value: long, Status: "success"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Repeat("x", maxValueLen) + "..."; got[0].Value != want {
		t.Errorf("value = %q, want %q", got[0].Value, want)
	}
}

func TestRecord_EscapesControlChars(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, Entry{Surface: "mcp", Action: "push", Value: "a\x1b[2Jb", Status: "success"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Value != `a\x1b[2Jb` {
		t.Errorf("value = %q", got[0].Value)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, Entry{Surface: "mcp", Action: "clear", Status: "success"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Action != "clear" {
		t.Errorf("entries after reopen = %+v", got)
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if err := s.Record(ctx, Entry{Action: "push"}); err != nil {
		t.Errorf("Record on nil = %v", err)
	}
	if got, err := s.Recent(ctx, 5); got != nil || err != nil {
		t.Errorf("Recent on nil = %v, %v", got, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil = %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("first Close = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := s.Record(context.Background(), Entry{Action: "push"}); err != nil {
		t.Errorf("Record after Close = %v", err)
	}
}
