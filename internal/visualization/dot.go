package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/vecsim/internal/sanitize"
	"github.com/nvandessel/vecsim/internal/vector"
)

// slotColors maps slot states to DOT fill colors.
var slotColors = map[string]string{
	"occupied": "lightsteelblue",
	"reserved": "white",
}

// RenderDOT produces a Graphviz DOT representation of the vector's storage:
// a header node with size and capacity pointing at a record of every slot.
func RenderDOT(v vector.Snapshot) string {
	var b strings.Builder
	b.WriteString("digraph vector {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=record, style=filled, fontname=\"Helvetica\"];\n\n")

	header := fmt.Sprintf("vector\\<%s\\>|size %d|capacity %d", v.Type, v.Size, v.Capacity)
	b.WriteString(fmt.Sprintf("  v [label=\"{%s}\", fillcolor=%q];\n", header, "lightgray"))

	if v.Capacity == 0 {
		b.WriteString("}\n")
		return b.String()
	}

	fields := make([]string, 0, v.Capacity)
	for _, el := range v.Elements {
		label := escapeRecord(sanitize.Display(el.Display))
		if el.Fresh {
			label += " (new)"
		}
		fields = append(fields, fmt.Sprintf("<s%d> [%d] %s\\n%s", el.Index, el.Index, el.Address, label))
	}
	for i, addr := range v.Reserved {
		idx := v.Size + i
		fields = append(fields, fmt.Sprintf("<s%d> [%d] %s\\n(reserved)", idx, idx, addr))
	}

	color := slotColors["occupied"]
	if v.Size == 0 {
		color = slotColors["reserved"]
	}
	// A record node has a single fill color; fresh slots are marked in their label.
	b.WriteString(fmt.Sprintf("  slots [label=\"%s\", fillcolor=%q];\n", strings.Join(fields, "|"), color))
	b.WriteString("  v -> slots:s0 [label=\"data()\"];\n")

	b.WriteString("}\n")
	return b.String()
}

// escapeRecord escapes characters with special meaning inside a record label.
func escapeRecord(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`{`, `\{`,
		`}`, `\}`,
		`|`, `\|`,
		`<`, `\<`,
		`>`, `\>`,
	)
	return r.Replace(s)
}
