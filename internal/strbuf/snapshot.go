package strbuf

// CellKind classifies one slot of the internal buffer.
type CellKind string

const (
	CellChar       CellKind = "char"
	CellTerminator CellKind = "terminator" // the implicit '\0' after the last character
	CellUnused     CellKind = "unused"
)

// Cell is one slot of the internal buffer view.
type Cell struct {
	Index int      `json:"index"`
	Kind  CellKind `json:"kind"`
	Char  string   `json:"char,omitempty"`
	Code  rune     `json:"code,omitempty"`
}

// Snapshot is a read-only copy of the buffer state and its derived views.
type Snapshot struct {
	Text     string   `json:"text"`
	Length   int      `json:"length"`
	Size     int      `json:"size"`
	Capacity int      `json:"capacity"`
	Empty    bool     `json:"empty"`
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	Cells    []Cell   `json:"cells"`
	Log      []string `json:"log"`
}

// Snapshot returns the current state. Cells covers every slot up to capacity;
// the terminator occupies slot Length when it fits.
func (b *Buffer) Snapshot() Snapshot {
	n := b.Len()
	snap := Snapshot{
		Text:     b.text,
		Length:   n,
		Size:     n,
		Capacity: b.capacity,
		Empty:    b.Empty(),
		Front:    b.Front(),
		Back:     b.Back(),
		Cells:    make([]Cell, 0, b.capacity),
		Log:      b.log.Entries(),
	}

	runes := []rune(b.text)
	for i := 0; i < b.capacity; i++ {
		switch {
		case i < n:
			snap.Cells = append(snap.Cells, Cell{Index: i, Kind: CellChar, Char: string(runes[i]), Code: runes[i]})
		case i == n:
			snap.Cells = append(snap.Cells, Cell{Index: i, Kind: CellTerminator})
		default:
			snap.Cells = append(snap.Cells, Cell{Index: i, Kind: CellUnused})
		}
	}
	return snap
}
