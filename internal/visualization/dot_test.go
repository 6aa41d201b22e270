package visualization

import (
	"strings"
	"testing"

	"github.com/nvandessel/vecsim/internal/session"
	"github.com/nvandessel/vecsim/internal/vector"
)

func TestRenderDOT(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpPush, "1")
	apply(t, sess, session.OpPush, "2")

	dot := RenderDOT(sess.Snapshot().Vector)
	for _, want := range []string{
		"digraph vector {",
		`vector\<int\>|size 2|capacity 4`,
		`<s0> [0] 0x1B58\n1`,
		`<s2> [2] 0x1B60\n(reserved)`,
		`<s3> [3] 0x1B64\n(reserved)`,
		"v -> slots:s0",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT output should end with closing brace")
	}
}

func TestRenderDOT_NoStorage(t *testing.T) {
	dot := RenderDOT(vector.Snapshot{Type: "int"})
	if strings.Contains(dot, "slots") {
		t.Errorf("no slots node expected for capacity 0:\n%s", dot)
	}
}

func TestRenderDOT_EscapesValues(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpType, "string")
	apply(t, sess, session.OpPush, "a|{b}")

	dot := RenderDOT(sess.Snapshot().Vector)
	if !strings.Contains(dot, `\"a\|\{b\}\"`) {
		t.Errorf("value not escaped:\n%s", dot)
	}
}

func TestEscapeRecord(t *testing.T) {
	tests := map[string]string{
		"plain": "plain",
		"<a>":   `\<a\>`,
		`"q"`:   `\"q\"`,
		`x\y`:   `x\\y`,
	}
	for in, want := range tests {
		if got := escapeRecord(in); got != want {
			t.Errorf("escapeRecord(%q) = %q, want %q", in, got, want)
		}
	}
}
