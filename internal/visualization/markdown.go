package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/vecsim/internal/sanitize"
	"github.com/nvandessel/vecsim/internal/session"
)

// RenderMarkdown produces a plain markdown summary of both simulators,
// suitable for agents and chat transcripts.
func RenderMarkdown(snap session.Snapshot) string {
	var b strings.Builder
	v := snap.Vector
	s := snap.String

	fmt.Fprintf(&b, "# vecsim state (view: %s)\n\n", snap.View)

	fmt.Fprintf(&b, "## vector<%s>\n\n", v.Type)
	fmt.Fprintf(&b, "- size: %d\n- capacity: %d\n- utilization: %d%%\n- element size: %d bytes\n",
		v.Size, v.Capacity, v.Utilization, v.ElementSize)
	fmt.Fprintf(&b, "- data: [%s]\n", sanitize.Display(v.Data()))
	if v.ReallocPending {
		fmt.Fprintf(&b, "- next push_back reallocates to %d\n", v.NextCapacity)
	}
	if v.Capacity > 0 {
		b.WriteString("\n| index | address | value |\n|---|---|---|\n")
		for _, el := range v.Elements {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", el.Index, el.Address, escapeCell(sanitize.Display(el.Display)))
		}
		for i, addr := range v.Reserved {
			fmt.Fprintf(&b, "| %d | %s | (reserved) |\n", v.Size+i, addr)
		}
	}
	writeLog(&b, v.Log)

	b.WriteString("\n## string\n\n")
	fmt.Fprintf(&b, "- text: %q\n- length: %d\n- capacity: %d\n- empty: %t\n- front: %s\n- back: %s\n",
		s.Text, s.Length, s.Capacity, s.Empty, sanitize.Display(s.Front), sanitize.Display(s.Back))
	writeLog(&b, s.Log)

	return b.String()
}

func writeLog(b *strings.Builder, entries []string) {
	if len(entries) == 0 {
		return
	}
	b.WriteString("\nLog (newest first):\n\n")
	for _, e := range entries {
		fmt.Fprintf(b, "1. %s\n", sanitize.Display(e))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
