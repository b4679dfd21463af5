package formatter

import (
	"bytes"
	"fmt"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
	"github.com/hassan/stylefmt/internal/source"
)

// Result is the outcome of formatting one buffer.
type Result struct {
	Output  []byte
	Changed bool
	// End is the position of the last input line.
	End             source.Position
	LinesIn         int
	LinesOut        int
	DeletedLines    int
	LineEndsChanged bool
	ChecksumDiff    int64
}

// Format runs data through a new Formatter and joins the lines with the
// configured line end. A final line end is written only when the input had
// one. The returned error wraps ErrChecksumMismatch and is prefixed with
// the input position; Output is still set so the caller can inspect it.
func Format(opts config.Options, d lexer.Dialect, data []byte, srcOpts ...source.Option) (Result, error) {
	if len(data) == 0 {
		return Result{Output: []byte{}}, nil
	}

	src := source.NewStreamIterator(data, srcOpts...)
	f := New(opts, d)
	f.Init(src)

	var out []string
	for f.HasMoreLines() {
		out = append(out, f.NextLine())
	}
	// a blank line queued by break-blocks leaves the last line waiting
	for f.IsLineReady() {
		out = append(out, f.NextLine())
	}

	// the majority line end is known once the whole input was read
	eol := src.OutputEOL(f.LineEndFormat())
	var buf bytes.Buffer
	buf.Grow(len(data) + len(data)/8)
	for i, line := range out {
		if i > 0 {
			buf.WriteString(eol)
		}
		buf.WriteString(line)
	}
	if src.EndsWithEOL() {
		buf.WriteString(eol)
	}

	end := src.Position()
	res := Result{
		Output:          buf.Bytes(),
		End:             end,
		LinesIn:         end.Line,
		LinesOut:        len(out),
		DeletedLines:    src.DeletedLines(),
		LineEndsChanged: src.LineEndChanged(f.LineEndFormat()),
		ChecksumDiff:    f.ChecksumDiff(),
	}
	res.Changed = !bytes.Equal(res.Output, data)

	if err := f.VerifyChecksum(); err != nil {
		return res, fmt.Errorf("%s: %w (diff %d)", end, err, res.ChecksumDiff)
	}
	return res, nil
}
