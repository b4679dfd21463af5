package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/stylefmt/internal/config"
)

func readAll(it Iterator) []string {
	var lines []string
	for it.HasMoreLines() {
		lines = append(lines, it.NextLine(false))
	}
	return lines
}

func TestStreamIteratorSplitsEveryLineEnd(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		lineEnd  config.LineEnd
	}{
		{"linux", "a\nb\n", []string{"a", "b"}, config.LineEndLinux},
		{"windows", "a\r\nb\r\n", []string{"a", "b"}, config.LineEndWindows},
		{"mac", "a\rb\r", []string{"a", "b"}, config.LineEndMacOld},
		{"no trailing terminator", "a\nb", []string{"a", "b"}, config.LineEndLinux},
		{"empty lines kept", "a\n\n\nb\n", []string{"a", "", "", "b"}, config.LineEndLinux},
		{"mixed majority windows", "a\r\nb\r\nc\n", []string{"a", "b", "c"}, config.LineEndWindows},
		{"empty input", "", nil, config.LineEndLinux},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewStreamIterator([]byte(tt.input))
			assert.Equal(t, tt.expected, readAll(it))
			assert.Equal(t, tt.lineEnd, it.LineEnd())
		})
	}
}

func TestOutputEOL(t *testing.T) {
	it := NewStreamIterator([]byte("a\r\nb\r\n"))
	readAll(it)

	assert.Equal(t, "\r\n", it.OutputEOL(config.LineEndDefault))
	assert.Equal(t, "\n", it.OutputEOL(config.LineEndLinux))
	assert.Equal(t, "\r", it.OutputEOL(config.LineEndMacOld))
	assert.False(t, it.LineEndChanged(config.LineEndDefault))
	assert.True(t, it.LineEndChanged(config.LineEndLinux))
}

func TestMixedLineEndsAlwaysChange(t *testing.T) {
	it := NewStreamIterator([]byte("a\r\nb\n"))
	readAll(it)
	assert.True(t, it.LineEndChanged(config.LineEndDefault))
}

func TestPeekDoesNotConsume(t *testing.T) {
	it := NewStreamIterator([]byte("one\ntwo\nthree\n"))

	peek := func() string {
		line, ok := it.PeekNextLine()
		require.True(t, ok)
		return line
	}

	require.Equal(t, "one", it.NextLine(false))
	assert.Equal(t, "two", peek())
	assert.Equal(t, "three", peek())
	_, ok := it.PeekNextLine()
	assert.False(t, ok)

	it.PeekReset()
	assert.Equal(t, "two", peek())
	assert.Equal(t, "two", it.NextLine(false))
	assert.Equal(t, "three", peek())
	assert.Equal(t, "three", it.NextLine(false))
	assert.False(t, it.HasMoreLines())
}

func TestPositionTracksLines(t *testing.T) {
	it := NewStreamIterator([]byte("a\nb\n"), WithFilename("x.c"))
	assert.Equal(t, "x.c:0", it.Position().String())

	it.NextLine(false)
	it.NextLine(true)
	assert.Equal(t, "x.c:2", it.Position().String())
	assert.Equal(t, 1, it.DeletedLines())
	assert.True(t, it.EndsWithEOL())
}

func TestPositionString(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected string
	}{
		{"named file", Position{Filename: "main.cpp", Line: 42}, "main.cpp:42"},
		{"standard input", Position{Line: 3}, "<stdin>:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.expected {
				t.Errorf("Position.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, CheckText([]byte("int x;\n")))
	assert.ErrorIs(t, CheckText([]byte("ELF\x00\x01")), ErrBinaryInput)
}
