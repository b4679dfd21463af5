// Package bracket tracks the kinds of the brackets enclosing the current
// position of the token reformatter.
//
// A bracket can be several things at once: a class bracket is also a
// definition bracket, a bracket that opens and closes on one line carries
// SingleLine on top of its main kind. Type is therefore a set.
package bracket

import "strings"

// Type is a set of bracket kinds.
type Type uint16

const (
	// Null is the kind of the base frame that encloses the whole file.
	Null Type = 0

	Namespace Type = 1 << iota
	Class
	Struct
	Interface
	Definition
	Command
	// ArrayNIS marks an array whose elements are not aligned as a
	// continued statement. It is always combined with Array.
	ArrayNIS
	// Array covers initializer lists and enums.
	Array
	// Extern is the body of an extern "C" block.
	Extern
	SingleLine
)

var typeNames = []struct {
	kind Type
	name string
}{
	{Namespace, "namespace"},
	{Class, "class"},
	{Struct, "struct"},
	{Interface, "interface"},
	{Definition, "definition"},
	{Command, "command"},
	{ArrayNIS, "array-nis"},
	{Array, "array"},
	{Extern, "extern"},
	{SingleLine, "single-line"},
}

// String lists the kinds in t separated by '|'.
func (t Type) String() string {
	if t == Null {
		return "null"
	}
	var parts []string
	for _, tn := range typeNames {
		if t.Has(tn.kind) {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether every kind in k is present in t.
func (t Type) Has(k Type) bool {
	return t&k == k && k != Null
}

func (t Type) IsArray() bool      { return t.Has(Array) }
func (t Type) IsCommand() bool    { return t.Has(Command) }
func (t Type) IsDefinition() bool { return t.Has(Definition) }
func (t Type) IsSingleLine() bool { return t.Has(SingleLine) }
func (t Type) IsExtern() bool     { return t.Has(Extern) }

// Without returns t with the kinds of k removed.
func (t Type) Without(k Type) Type {
	return t &^ k
}

// Frame describes one open bracket.
type Frame struct {
	Type Type

	// Header is the header keyword in effect when the bracket opened, or "".
	Header string

	// IndentableStruct records whether the enclosing struct had access
	// modifiers when the bracket opened.
	IndentableStruct bool
}
