// Package strbuf simulates the character buffer behind a dynamic string.
//
// Every edit replaces the whole text. When the new length reaches the current
// capacity, the capacity grows to max(2*length, MinCapacity) in the same call,
// so a Buffer never reports a capacity smaller than its length.
// Lengths count Unicode code points.
package strbuf

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/nvandessel/vecsim/internal/logging"
	"github.com/nvandessel/vecsim/internal/oplog"
)

// Undefined is returned by Front and Back on an empty buffer.
const Undefined = "undefined"

// Options configures a Buffer.
type Options struct {
	// InitialText is the content on creation. Default: "Hello".
	InitialText string

	// MinCapacity is the starting capacity and the floor for growth. Default: 15.
	MinCapacity int

	// LogMax is the operation log limit. Default: oplog.DefaultMax.
	LogMax int

	Logger *slog.Logger
	Events *logging.EventLogger
}

// DefaultOptions returns the settings of the original playground.
func DefaultOptions() Options {
	return Options{
		InitialText: "Hello",
		MinCapacity: 15,
		LogMax:      oplog.DefaultMax,
	}
}

// Buffer is a simulated string buffer. Not safe for concurrent use.
type Buffer struct {
	opts     Options
	text     string
	capacity int
	log      *oplog.Log
}

// New creates a Buffer holding opts.InitialText.
func New(opts Options) (*Buffer, error) {
	if opts.MinCapacity < 0 {
		return nil, fmt.Errorf("min capacity must be non-negative, got %d", opts.MinCapacity)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	b := &Buffer{
		opts:     opts,
		capacity: opts.MinCapacity,
		log:      oplog.New(opts.LogMax, "String created."),
	}
	b.replace(opts.InitialText)
	return b, nil
}

// SetText replaces the whole content, growing capacity if needed.
func (b *Buffer) SetText(text string) {
	old := b.capacity
	b.replace(text)
	if b.capacity != old {
		b.log.Append(fmt.Sprintf("Length %d reached capacity %d. Buffer grown to %d.", b.Len(), old, b.capacity))
		b.opts.Logger.Debug("string buffer grown", "length", b.Len(), "old_capacity", old, "new_capacity", b.capacity)
		b.opts.Events.Log(map[string]any{
			"event": "string_grow", "length": b.Len(), "old_capacity": old, "new_capacity": b.capacity,
		})
	}
}

func (b *Buffer) replace(text string) {
	b.text = text
	n := utf8.RuneCountInString(text)
	if n >= b.capacity {
		b.capacity = max(n*2, b.opts.MinCapacity)
	}
}

// Clear empties the text. Capacity is unchanged.
func (b *Buffer) Clear() {
	b.text = ""
	b.log.Append(fmt.Sprintf("clear(): string emptied. Capacity stays at %d.", b.capacity))
}

// Text returns the content.
func (b *Buffer) Text() string { return b.text }

// Len returns the number of characters.
func (b *Buffer) Len() int { return utf8.RuneCountInString(b.text) }

// Size is an alias of Len.
func (b *Buffer) Size() int { return b.Len() }

// Capacity returns the simulated capacity.
func (b *Buffer) Capacity() int { return b.capacity }

// Empty reports whether the text has no characters.
func (b *Buffer) Empty() bool { return b.text == "" }

// Front returns the first character, or Undefined when empty.
func (b *Buffer) Front() string {
	if b.text == "" {
		return Undefined
	}
	r, _ := utf8.DecodeRuneInString(b.text)
	return string(r)
}

// Back returns the last character, or Undefined when empty.
func (b *Buffer) Back() string {
	if b.text == "" {
		return Undefined
	}
	r, _ := utf8.DecodeLastRuneInString(b.text)
	return string(r)
}

// Log returns the operation log, newest first.
func (b *Buffer) Log() []string { return b.log.Entries() }
