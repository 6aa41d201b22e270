// Package elemtype defines the declared element types a simulated vector can hold.
// Each kind carries a simulated byte width, an input syntax rule and a display formatter.
package elemtype

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Kind identifies a declared element type.
type Kind string

const (
	// Int is a 4-byte signed integer.
	Int Kind = "int"

	// Double is an 8-byte floating point number.
	Double Kind = "double"

	// Char is a single 1-byte character.
	Char Kind = "char"

	// String is a 24-byte string header (typical std::string on 64-bit).
	String Kind = "string"
)

var (
	intPattern    = regexp.MustCompile(`^-?\d+$`)
	doublePattern = regexp.MustCompile(`^-?\d*\.?\d+$`)
)

// Spec is the configuration record for one Kind.
type Spec struct {
	Kind        Kind
	Size        int    // simulated sizeof in bytes
	Placeholder string // example input shown to the user
	validate    func(raw string) bool
	format      func(raw string) string
}

// Validate reports whether raw is syntactically valid for the kind.
// Empty input is never valid.
func (s Spec) Validate(raw string) bool {
	if raw == "" {
		return false
	}
	return s.validate(raw)
}

// Format returns the display form of a validated raw value.
func (s Spec) Format(raw string) string {
	return s.format(raw)
}

func verbatim(v string) string { return v }

var specs = map[Kind]Spec{
	Int: {
		Kind: Int, Size: 4, Placeholder: "10",
		validate: intPattern.MatchString,
		format:   verbatim,
	},
	Double: {
		Kind: Double, Size: 8, Placeholder: "3.14",
		validate: doublePattern.MatchString,
		format:   verbatim,
	},
	Char: {
		Kind: Char, Size: 1, Placeholder: "a",
		validate: func(v string) bool { return utf8.RuneCountInString(v) == 1 },
		format:   func(v string) string { return "'" + v + "'" },
	},
	String: {
		Kind: String, Size: 24, Placeholder: "hello",
		validate: func(string) bool { return true },
		format:   func(v string) string { return `"` + v + `"` },
	},
}

// All returns every kind in display order.
func All() []Kind {
	return []Kind{Int, Double, Char, String}
}

// Valid returns true if k is a recognized kind.
func (k Kind) Valid() bool {
	_, ok := specs[k]
	return ok
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Lookup returns the Spec for k.
func Lookup(k Kind) (Spec, error) {
	s, ok := specs[k]
	if !ok {
		return Spec{}, fmt.Errorf("unknown element type %q (valid: int, double, char, string)", string(k))
	}
	return s, nil
}

// MustLookup returns the Spec for k and panics if k is unknown.
// Only use with the exported constants.
func MustLookup(k Kind) Spec {
	s, err := Lookup(k)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse converts a user-supplied name into a Kind.
func Parse(name string) (Kind, error) {
	k := Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("unknown element type %q (valid: int, double, char, string)", name)
	}
	return k, nil
}
