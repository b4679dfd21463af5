package formatter

import (
	"strings"

	"github.com/hassan/stylefmt/internal/lexer"
)

// appendChar adds ch to formattedLine, first completing the line when a
// break is pending and canBreak is set.
func (f *Formatter) appendChar(ch byte, canBreak bool) {
	if canBreak && f.isInLineBreak {
		f.breakLine()
	}
	f.formattedLine += charString(ch)
	f.isImmediatelyPostCommentOnly = false
}

// charString returns ch as a one-byte string. Bytes above 0x7f are kept
// as they are instead of being encoded as UTF-8.
func charString(ch byte) string {
	return string([]byte{ch})
}

func (f *Formatter) appendCurrentChar(canBreak bool) {
	f.appendChar(f.currentChar, canBreak)
}

func (f *Formatter) appendSequence(seq string, canBreak bool) {
	if canBreak && f.isInLineBreak {
		f.breakLine()
	}
	f.formattedLine += seq
}

// appendSpacePad adds a space unless formattedLine already ends in
// whitespace. Added spaces are counted so a trailing comment can be moved
// back.
func (f *Formatter) appendSpacePad() {
	if n := len(f.formattedLine); n > 0 && !lexer.IsWhiteSpace(f.formattedLine[n-1]) {
		f.formattedLine += " "
		f.spacePadNum++
	}
}

// appendSpaceAfter adds a space unless the next input character is
// whitespace.
func (f *Formatter) appendSpaceAfter() {
	if f.charNum+1 < len(f.currentLine) && !lexer.IsWhiteSpace(f.currentLine[f.charNum+1]) {
		f.formattedLine += " "
		f.spacePadNum++
	}
}

// breakLine completes formattedLine. The finished line waits in
// readyFormattedLine until NextLine returns it.
func (f *Formatter) breakLine() {
	f.isLineReady = true
	f.isInLineBreak = false
	f.spacePadNum = f.nextLineSpacePadNum
	f.nextLineSpacePadNum = 0
	f.formattedLineCommentNum = npos

	// a requested empty line goes in front of the next line
	f.prependEmptyLine = f.prependPostBlockEmptyLine
	if f.appendPostBlockEmptyLine {
		f.appendPostBlockEmptyLine = false
		f.prependPostBlockEmptyLine = true
	} else {
		f.prependPostBlockEmptyLine = false
	}

	f.readyFormattedLine = f.formattedLine
	f.formattedLine = ""
}

// adjustComments keeps a trailing comment in its column after spacePadNum
// spaces were added to or removed from the code before it. A block comment
// is moved only when it ends the line.
func (f *Formatter) adjustComments() {
	if lexer.HasPrefixAt(f.currentLine, f.charNum, lexer.OpenComment) {
		end := strings.Index(f.currentLine[f.charNum+2:], lexer.CloseComment)
		if end < 0 {
			return
		}
		if indexNotBlank(f.currentLine, f.charNum+2+end+2) >= 0 {
			return
		}
	}

	n := len(f.formattedLine)
	if n == 0 || f.formattedLine[n-1] == '\t' {
		return
	}

	switch {
	case f.spacePadNum < 0:
		f.formattedLine += strings.Repeat(" ", -f.spacePadNum)
	case f.spacePadNum > 0:
		// remove the added spaces, or leave the comment one space after
		// the code when there are not enough
		lastText := strings.LastIndexFunc(f.formattedLine, func(r rune) bool { return r != ' ' })
		switch {
		case lastText >= 0 && lastText < n-f.spacePadNum-1:
			f.formattedLine = f.formattedLine[:n-f.spacePadNum]
		case n > lastText+2:
			f.formattedLine = f.formattedLine[:lastText+2]
		case n < lastText+2:
			f.formattedLine += strings.Repeat(" ", n-lastText)
		}
	}
}

// appendCharInsideComments places currentChar, a bracket, in the gap in
// front of the trailing comment on formattedLine. Without such a comment
// the bracket is appended.
func (f *Formatter) appendCharInsideComments() {
	if f.formattedLineCommentNum == npos {
		f.appendCurrentChar(true)
		return
	}

	end := f.formattedLineCommentNum
	beg := lastIndexNotBlank(f.formattedLine, end-1)
	if beg < 0 {
		f.appendCurrentChar(true)
		return
	}
	beg++

	if end-beg < 3 {
		f.formattedLine = f.formattedLine[:beg] + strings.Repeat(" ", 3-end+beg) + f.formattedLine[beg:]
	}
	if f.formattedLine[beg] == '\t' {
		f.formattedLine = f.formattedLine[:beg] + " " + f.formattedLine[beg:]
	}
	f.formattedLine = f.formattedLine[:beg+1] + charString(f.currentChar) + f.formattedLine[beg+2:]

	if f.isBeforeComment() {
		f.breakLine()
	} else if f.isCharImmediatelyPostLineComment {
		f.shouldBreakLineAtNextChar = true
	}
}
