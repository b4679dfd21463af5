// Package source feeds input text to the formatter one line at a time.
//
// The Iterator interface is all the formatter and the indentation engine
// see. StreamIterator implements it over an in-memory file and records
// which line terminators the input used, so the output can keep them.
package source

import (
	"bytes"
	"errors"

	"github.com/hassan/stylefmt/internal/config"
)

// ErrBinaryInput is returned by CheckText for data that is not text.
var ErrBinaryInput = errors.New("input looks like a binary file")

// binaryProbeLength bounds how much of a file CheckText inspects.
const binaryProbeLength = 8000

// Iterator yields the lines of one input.
type Iterator interface {
	HasMoreLines() bool
	// NextLine returns the next line without its terminator.
	// emptyLineWasDeleted tells the iterator the previous line was dropped
	// from the output.
	NextLine(emptyLineWasDeleted bool) string
	// PeekNextLine returns the line after the last peeked one without
	// consuming it. ok is false once peeking has passed the last line.
	PeekNextLine() (line string, ok bool)
	// PeekReset rewinds peeking to the current read position.
	PeekReset()
}

// Option configures a StreamIterator.
type Option func(*StreamIterator)

// WithFilename sets the file name reported by Position.
func WithFilename(name string) Option {
	return func(it *StreamIterator) {
		it.filename = name
	}
}

// StreamIterator splits a buffer on CRLF, LF or CR.
type StreamIterator struct {
	filename string
	data     []byte

	pos     int
	peekPos int
	line    int

	eolWindows int
	eolLinux   int
	eolMacOld  int

	deletedLines int
	endsWithEOL  bool
}

// NewStreamIterator returns an iterator positioned at the first line of data.
func NewStreamIterator(data []byte, opts ...Option) *StreamIterator {
	it := &StreamIterator{data: data, peekPos: -1}
	for _, opt := range opts {
		opt(it)
	}
	if n := len(data); n > 0 {
		it.endsWithEOL = data[n-1] == '\n' || data[n-1] == '\r'
	}
	return it
}

// CheckText returns ErrBinaryInput when data contains a NUL byte near its
// start.
func CheckText(data []byte) error {
	probe := data
	if len(probe) > binaryProbeLength {
		probe = probe[:binaryProbeLength]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return ErrBinaryInput
	}
	return nil
}

// HasMoreLines reports whether NextLine has a line to return.
func (it *StreamIterator) HasMoreLines() bool {
	return it.pos < len(it.data)
}

// NextLine consumes and returns the next line.
func (it *StreamIterator) NextLine(emptyLineWasDeleted bool) string {
	if emptyLineWasDeleted {
		it.deletedLines++
	}
	it.peekPos = -1

	line, next, eol := scanLine(it.data, it.pos)
	it.pos = next
	it.line++

	switch eol {
	case "\r\n":
		it.eolWindows++
	case "\n":
		it.eolLinux++
	case "\r":
		it.eolMacOld++
	}
	return line
}

// PeekNextLine returns the line following the previous peek, or the next
// unread line on the first call after NextLine or PeekReset. ok is false
// past the end of input.
func (it *StreamIterator) PeekNextLine() (string, bool) {
	if it.peekPos < 0 {
		it.peekPos = it.pos
	}
	if it.peekPos >= len(it.data) {
		return "", false
	}
	line, next, _ := scanLine(it.data, it.peekPos)
	it.peekPos = next
	return line, true
}

// PeekReset discards the peek position.
func (it *StreamIterator) PeekReset() {
	it.peekPos = -1
}

// Position returns the position of the line most recently returned by
// NextLine.
func (it *StreamIterator) Position() Position {
	return Position{Filename: it.filename, Line: it.line}
}

// EndsWithEOL reports whether the input's last line had a terminator.
func (it *StreamIterator) EndsWithEOL() bool {
	return it.endsWithEOL
}

// DeletedLines returns how many lines the consumer reported as dropped.
func (it *StreamIterator) DeletedLines() int {
	return it.deletedLines
}

// LineEnd returns the terminator style used by most lines read so far.
// Ties prefer windows, then linux. Input without terminators reports linux.
func (it *StreamIterator) LineEnd() config.LineEnd {
	switch {
	case it.eolWindows == 0 && it.eolLinux == 0 && it.eolMacOld == 0:
		return config.LineEndLinux
	case it.eolWindows >= it.eolLinux && it.eolWindows >= it.eolMacOld:
		return config.LineEndWindows
	case it.eolLinux >= it.eolMacOld:
		return config.LineEndLinux
	default:
		return config.LineEndMacOld
	}
}

// LineEndChanged reports whether writing with format would change any
// terminator of the input.
func (it *StreamIterator) LineEndChanged(format config.LineEnd) bool {
	if format == config.LineEndDefault {
		format = it.LineEnd()
	}
	mixed := 0
	for _, n := range []int{it.eolWindows, it.eolLinux, it.eolMacOld} {
		if n > 0 {
			mixed++
		}
	}
	if mixed > 1 {
		return true
	}
	return mixed == 1 && it.LineEnd() != format
}

// OutputEOL returns the terminator to write for format.
func (it *StreamIterator) OutputEOL(format config.LineEnd) string {
	if format == config.LineEndDefault {
		format = it.LineEnd()
	}
	switch format {
	case config.LineEndWindows:
		return "\r\n"
	case config.LineEndMacOld:
		return "\r"
	default:
		return "\n"
	}
}

// scanLine returns the line starting at pos, the offset after its
// terminator and the terminator itself.
func scanLine(data []byte, pos int) (line string, next int, eol string) {
	i := pos
	for i < len(data) && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	line = string(data[pos:i])
	switch {
	case i >= len(data):
		return line, i, ""
	case data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n':
		return line, i + 2, "\r\n"
	case data[i] == '\r':
		return line, i + 1, "\r"
	default:
		return line, i + 1, "\n"
	}
}
