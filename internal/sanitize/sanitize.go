// Package sanitize cleans user-supplied element and string values before they
// reach a terminal, a markdown transcript or the audit trail. Values are stored
// verbatim by the simulators; only rendered copies pass through here.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

// Display returns s with control characters replaced by visible escapes, so a
// pushed value cannot move the cursor or inject ANSI sequences. Printable
// runes, including wide and combining ones, are kept as they are.
func Display(s string) string {
	if !needsEscape(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == utf8.RuneError:
			b.WriteRune('�')
		case isControl(r):
			b.WriteString(`\x`)
			b.WriteByte(hex[(r>>4)&0xF])
			b.WriteByte(hex[r&0xF])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate cuts s to at most n runes, appending "..." when anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

const hex = "0123456789abcdef"

// isControl reports C0 controls, DEL and C1 controls.
func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f)
}

func needsEscape(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if isControl(r) {
			return true
		}
	}
	return false
}
