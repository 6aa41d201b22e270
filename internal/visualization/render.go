// Package visualization renders playground snapshots in various output formats
// and serves them over HTTP.
package visualization

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nvandessel/vecsim/internal/sanitize"
	"github.com/nvandessel/vecsim/internal/session"
	"github.com/nvandessel/vecsim/internal/strbuf"
	"github.com/nvandessel/vecsim/internal/vector"
)

// Format specifies the output format for snapshot rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatDOT      Format = "dot"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatDOT, FormatMarkdown}
}

// maxCellWidth bounds the width of a rendered slot value.
const maxCellWidth = 12

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	codeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	statStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	slotStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("12"))
	freshStyle    = slotStyle.BorderForeground(lipgloss.Color("10")).Bold(true)
	reservedStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8")).Foreground(lipgloss.Color("8"))
	termStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9"))
)

// Render produces snap in the given format.
func Render(snap session.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(RenderText(snap)), nil
	case FormatJSON:
		return RenderJSON(snap)
	case FormatDOT:
		return []byte(RenderDOT(snap.Vector)), nil
	case FormatMarkdown:
		return []byte(RenderMarkdown(snap)), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: text, json, dot, markdown)", format)
	}
}

// RenderJSON produces indented JSON for the whole session snapshot.
func RenderJSON(snap session.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderText renders the selected view for a terminal.
func RenderText(snap session.Snapshot) string {
	switch snap.View {
	case session.ViewString:
		return RenderString(snap.String)
	case session.ViewComparison:
		return Comparison()
	default:
		return RenderVector(snap.Vector)
	}
}

// RenderVector renders the growth simulator: code preview, stat cards,
// memory slots, reallocation warning and operation log.
func RenderVector(v vector.Snapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("std::vector<"+string(v.Type)+">") + "\n")
	b.WriteString(codeStyle.Render(vectorCode(v)) + "\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Size", fmt.Sprint(v.Size)),
		stat("Capacity", fmt.Sprint(v.Capacity)),
		stat("Utilization", fmt.Sprintf("%d%%", v.Utilization)),
		stat("Element Size", fmt.Sprintf("%d bytes", v.ElementSize)),
	) + "\n")

	if v.Capacity == 0 {
		b.WriteString(dimStyle.Render("(no storage allocated)") + "\n")
	} else {
		b.WriteString(vectorSlots(v) + "\n")
	}

	if v.ReallocPending {
		b.WriteString(warnStyle.Render(fmt.Sprintf("! Capacity full. Next push_back() reallocates: %d -> %d", v.Capacity, v.NextCapacity)) + "\n")
	}

	b.WriteString(renderLog(v.Log))
	return b.String()
}

func vectorCode(v vector.Snapshot) string {
	lines := []string{
		dimStyle.Render("// current state"),
		fmt.Sprintf("vector<%s> v;", v.Type),
		fmt.Sprintf("v.size() == %d;", v.Size),
		fmt.Sprintf("v.capacity() == %d;", v.Capacity),
		fmt.Sprintf("v.data() == [%s];", sanitize.Display(v.Data())),
	}
	return strings.Join(lines, "\n")
}

func vectorSlots(v vector.Snapshot) string {
	width := 3
	for _, el := range v.Elements {
		width = max(width, runewidth.StringWidth(clip(el.Display)))
	}

	slots := make([]string, 0, v.Capacity)
	for _, el := range v.Elements {
		style := slotStyle
		if el.Fresh {
			style = freshStyle
		}
		slots = append(slots, slot(el.Address, style.Render(center(clip(el.Display), width)), fmt.Sprintf("[%d]", el.Index)))
	}
	for i, addr := range v.Reserved {
		slots = append(slots, slot(addr, reservedStyle.Render(center("", width)), fmt.Sprintf("[%d]", v.Size+i)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, slots...)
}

// RenderString renders the string buffer: code preview, stats and the
// internal character buffer up to capacity.
func RenderString(s strbuf.Snapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("std::string") + "\n")
	b.WriteString(codeStyle.Render(strings.Join([]string{
		dimStyle.Render("// equivalent C++"),
		fmt.Sprintf("string s = %q;", s.Text),
		fmt.Sprintf("s.length(); // returns %d", s.Length),
		`s += "!"; // append a character`,
	}, "\n")) + "\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		stat("length()", fmt.Sprint(s.Length)),
		stat("size()", fmt.Sprint(s.Size)),
		stat("capacity()", fmt.Sprint(s.Capacity)),
		stat("empty()", fmt.Sprint(s.Empty)),
		stat("s[0]", quoteChar(s.Front)),
		stat("s.back()", quoteChar(s.Back)),
	) + "\n")

	cells := make([]string, 0, len(s.Cells))
	for _, c := range s.Cells {
		switch c.Kind {
		case strbuf.CellChar:
			cells = append(cells, slot(fmt.Sprint(c.Index), slotStyle.Render(center(sanitize.Display(c.Char), 2)), fmt.Sprint(c.Code)))
		case strbuf.CellTerminator:
			cells = append(cells, slot(fmt.Sprint(c.Index), termStyle.Render(center(`\0`, 2)), "0"))
		default:
			cells = append(cells, slot(fmt.Sprint(c.Index), reservedStyle.Render(center("", 2)), ""))
		}
	}
	if len(cells) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}
	b.WriteString(dimStyle.Render(`std::string manages the '\0' terminator for C compatibility.`) + "\n")

	b.WriteString(renderLog(s.Log))
	return b.String()
}

func quoteChar(c string) string {
	if c == strbuf.Undefined {
		return c
	}
	return "'" + sanitize.Display(c) + "'"
}

func renderLog(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Log") + "\n")
	for i, e := range entries {
		line := "  " + sanitize.Display(e)
		if i > 0 {
			line = dimStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func stat(label, value string) string {
	return statStyle.Render(dimStyle.Render(label) + "\n" + value)
}

func slot(top, box, bottom string) string {
	return lipgloss.JoinVertical(lipgloss.Center, dimStyle.Render(top), box, dimStyle.Render(bottom)) + " "
}

// center pads s with spaces to width display columns.
func center(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func clip(s string) string {
	return runewidth.Truncate(sanitize.Display(s), maxCellWidth, "…")
}
