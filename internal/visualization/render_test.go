package visualization

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nvandessel/vecsim/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(session.DefaultConfig())
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return sess
}

func apply(t *testing.T, sess *session.Session, op session.Op, value string) session.Result {
	t.Helper()
	res, err := sess.Apply(context.Background(), session.Action{Op: op, Value: value})
	if err != nil {
		t.Fatalf("Apply(%s %q): %v", op, value, err)
	}
	return res
}

func TestRenderVector(t *testing.T) {
	sess := newTestSession(t)
	for _, v := range []string{"1", "2", "3", "4"} {
		apply(t, sess, session.OpPush, v)
	}
	out := RenderText(sess.Snapshot())

	for _, want := range []string{
		"vector<int> v;",
		"v.size() == 4;",
		"v.capacity() == 4;",
		"v.data() == [1, 2, 3, 4];",
		"100%",
		"4 bytes",
		"0x1B58", // 7000
		"0x1B64", // 7012
		"[3]",
		"Next push_back() reallocates: 4 -> 8",
		"push_back(4): added element at index 3.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderVector_ReservedSlots(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpType, "double")
	apply(t, sess, session.OpPush, "1.5")

	out := RenderText(sess.Snapshot())
	// Slots 1..3 are reserved at 7008, 7016, 7024.
	for _, want := range []string{"0x1B58", "0x1B60", "0x1B68", "0x1B70", "25%", "8 bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "reallocates") {
		t.Error("no reallocation warning expected below capacity")
	}
}

func TestRenderVector_NoStorage(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Vector.InitialCapacity = 0
	sess, err := session.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	out := RenderText(sess.Snapshot())
	if !strings.Contains(out, "no storage allocated") {
		t.Errorf("expected empty storage notice:\n%s", out)
	}
}

func TestRenderString(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpView, "string")

	out := RenderText(sess.Snapshot())
	for _, want := range []string{
		`string s = "Hello";`,
		"s.length(); // returns 5",
		"'H'",
		"'o'",
		"72", // 'H'
		`\0`,
		"15",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderString_Empty(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpView, "string")
	apply(t, sess, session.OpTextClear, "")

	out := RenderText(sess.Snapshot())
	if !strings.Contains(out, "undefined") {
		t.Errorf("empty string should show undefined front/back:\n%s", out)
	}
	if strings.Contains(out, "'undefined'") {
		t.Error("undefined must not be quoted")
	}
}

func TestComparison(t *testing.T) {
	out := Comparison()
	for _, want := range []string{"int arr[10];", "std::vector<int>", "v.push_back(val)", "sizeof(a)/sizeof(a[0])", "Fixed size"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison missing %q", want)
		}
	}

	data := Compare()
	if len(data.Rows) != 4 || len(data.Headers) != 3 {
		t.Errorf("table shape = %d rows x %d headers", len(data.Rows), len(data.Headers))
	}
}

func TestRenderText_ComparisonView(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpView, "comparison")

	if got := RenderText(sess.Snapshot()); got != Comparison() {
		t.Error("comparison view should render the comparison table")
	}
}

func TestRender_Formats(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpPush, "7")
	snap := sess.Snapshot()

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			out, err := Render(snap, f)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if len(out) == 0 {
				t.Error("empty output")
			}
		})
	}

	if _, err := Render(snap, "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderJSON(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpPush, "7")

	data, err := RenderJSON(sess.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	var got session.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Vector.Size != 1 || got.Vector.Capacity != 4 || got.String.Text != "Hello" {
		t.Errorf("decoded snapshot = %+v", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpType, "char")
	apply(t, sess, session.OpPush, "|")

	out := RenderMarkdown(sess.Snapshot())
	for _, want := range []string{
		"## vector<char>",
		"- size: 1",
		"| 0 | 0x1B58 | '\\|' |",
		"| 1 | 0x1B59 | (reserved) |",
		`- text: "Hello"`,
		"Log (newest first):",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"a", 3, " a "},
		{"ab", 5, " ab  "},
		{"世", 4, " 世 "},
		{"long", 2, "long"},
	}
	for _, tt := range tests {
		if got := center(tt.in, tt.width); got != tt.want {
			t.Errorf("center(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRender_EscapesControlChars(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpType, "string")
	apply(t, sess, session.OpPush, "a\x1b[2Jb")
	snap := sess.Snapshot()

	for _, format := range []Format{FormatText, FormatMarkdown, FormatDOT} {
		out, err := Render(snap, format)
		if err != nil {
			t.Fatalf("Render(%s): %v", format, err)
		}
		if strings.Contains(string(out), "\x1b[2J") {
			t.Errorf("%s output contains a raw escape sequence", format)
		}
		if !strings.Contains(string(out), `\x1b[2J`) {
			t.Errorf("%s output missing escaped value:\n%s", format, out)
		}
	}
}

func TestRender_EscapesStringFrontBack(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpView, "string")
	apply(t, sess, session.OpText, "\x1b]0;title\x07")
	snap := sess.Snapshot()

	for _, format := range []Format{FormatText, FormatMarkdown} {
		out, err := Render(snap, format)
		if err != nil {
			t.Fatalf("Render(%s): %v", format, err)
		}
		if strings.Contains(string(out), "\x1b]0") || strings.Contains(string(out), "\x07") {
			t.Errorf("%s output contains raw control characters:\n%q", format, out)
		}
		if !strings.Contains(string(out), `\x1b`) || !strings.Contains(string(out), `\x07`) {
			t.Errorf("%s output missing escaped front/back:\n%s", format, out)
		}
	}
}
