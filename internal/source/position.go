package source

import "strconv"

// Position identifies a line of an input file in diagnostics.
type Position struct {
	// Filename is empty for standard input.
	Filename string

	// Line is 1-based; it is 0 before the first line is read.
	Line int
}

// String returns "filename:line", the format editors and CI tools turn into
// links.
func (p Position) String() string {
	name := p.Filename
	if name == "" {
		name = "<stdin>"
	}
	return name + ":" + strconv.Itoa(p.Line)
}
