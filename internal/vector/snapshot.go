package vector

import (
	"fmt"
	"strings"

	"github.com/nvandessel/vecsim/internal/elemtype"
)

// DefaultBaseAddress is the simulated address of slot 0.
const DefaultBaseAddress = 7000

// Address computes the simulated address of slot index for kind:
// base + index*sizeof(kind), formatted as upper-case hex. Unknown kinds use a width of 1.
func Address(base, index int, kind elemtype.Kind) string {
	width := 1
	if spec, err := elemtype.Lookup(kind); err == nil {
		width = spec.Size
	}
	return fmt.Sprintf("0x%X", base+index*width)
}

// ElementView is the read-only presentation of one element.
type ElementView struct {
	Index   int    `json:"index"`
	ID      string `json:"id"`
	Value   string `json:"value"`
	Display string `json:"display"`
	Address string `json:"address"`
	Fresh   bool   `json:"fresh"`
}

// Snapshot is a read-only copy of the simulator state.
type Snapshot struct {
	Type        elemtype.Kind `json:"type"`
	ElementSize int           `json:"element_size"`
	Size        int           `json:"size"`
	Capacity    int           `json:"capacity"`
	Utilization int           `json:"utilization"` // percent, rounded
	Elements    []ElementView `json:"elements"`

	// Reserved lists the addresses of the unused slots between size and capacity.
	Reserved []string `json:"reserved"`

	// ReallocPending mirrors the "capacity full" warning: size == capacity > 0.
	// A push at capacity 0 also reallocates but is not flagged.
	ReallocPending bool `json:"realloc_pending"`
	NextCapacity   int  `json:"next_capacity"`

	Input       string   `json:"input"`
	Placeholder string   `json:"placeholder"`
	Log         []string `json:"log"`
}

// Snapshot returns a copy of the current state, with derived display values.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := len(s.elements)
	snap := Snapshot{
		Type:           s.spec.Kind,
		ElementSize:    s.spec.Size,
		Size:           size,
		Capacity:       s.capacity,
		Elements:       make([]ElementView, 0, size),
		Reserved:       make([]string, 0, max(s.capacity-size, 0)),
		ReallocPending: size == s.capacity && s.capacity > 0,
		NextCapacity:   grow(s.capacity),
		Input:          s.input,
		Placeholder:    s.spec.Placeholder,
		Log:            s.log.Entries(),
	}
	if s.capacity > 0 {
		snap.Utilization = (size*200 + s.capacity) / (2 * s.capacity)
	}

	for i, el := range s.elements {
		snap.Elements = append(snap.Elements, ElementView{
			Index:   i,
			ID:      el.ID,
			Value:   el.Value,
			Display: s.spec.Format(el.Value),
			Address: Address(s.opts.BaseAddress, i, s.spec.Kind),
			Fresh:   el.Fresh,
		})
	}
	for i := size; i < s.capacity; i++ {
		snap.Reserved = append(snap.Reserved, Address(s.opts.BaseAddress, i, s.spec.Kind))
	}

	return snap
}

// Data returns the display values joined as in a data() dump, e.g. "1, 2, 3".
func (snap Snapshot) Data() string {
	vals := make([]string, len(snap.Elements))
	for i, el := range snap.Elements {
		vals[i] = el.Display
	}
	return strings.Join(vals, ", ")
}
