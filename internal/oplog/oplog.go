// Package oplog keeps a bounded, most-recent-first record of operation messages.
package oplog

// DefaultMax is the number of entries retained when no limit is configured.
const DefaultMax = 5

// Log holds human-readable operation descriptions, newest first.
// It is not safe for concurrent use; callers serialize access.
type Log struct {
	max     int
	entries []string
}

// New creates a log retaining at most max entries. A non-positive max uses DefaultMax.
func New(max int, initial ...string) *Log {
	if max <= 0 {
		max = DefaultMax
	}
	l := &Log{max: max, entries: make([]string, 0, max+1)}
	for _, msg := range initial {
		l.Append(msg)
	}
	return l
}

// Append prepends msg and evicts the oldest entries beyond the limit.
func (l *Log) Append(msg string) {
	l.entries = append(l.entries, "")
	copy(l.entries[1:], l.entries)
	l.entries[0] = msg
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
}

// ReplaceAll resets the log to exactly one entry.
func (l *Log) ReplaceAll(msg string) {
	l.entries = append(l.entries[:0], msg)
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Latest returns the newest entry, or "" if the log is empty.
func (l *Log) Latest() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[0]
}

// Len returns the number of retained entries.
func (l *Log) Len() int { return len(l.entries) }

// Max returns the retention limit.
func (l *Log) Max() int { return l.max }
