package formatter

import (
	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
)

// formatCommentBody copies block comment text up to the next tab or the
// comment end. Tabs are copied one at a time so they can be converted.
func (f *Formatter) formatCommentBody() {
	if !f.isSequenceReached(lexer.CloseComment) {
		f.appendCurrentChar(true)
		for f.charNum+1 < len(f.currentLine) &&
			f.currentLine[f.charNum+1] != '\t' &&
			!lexer.HasPrefixAt(f.currentLine, f.charNum+1, lexer.CloseComment) {
			f.charNum++
			f.currentChar = f.currentLine[f.charNum]
			f.appendCurrentChar(true)
		}
		return
	}

	f.isInComment = false
	f.noTrimCommentContinuation = false
	f.isImmediatelyPostComment = true
	f.appendSequence(lexer.CloseComment, true)
	f.goForward(1)

	if f.doesLineStartComment && indexNotBlank(f.currentLine, f.charNum+1) < 0 {
		f.lineEndsInCommentOnly = true
	}

	top := f.brackets.TopType()
	if f.peekNextChar() == '}' &&
		f.previousCommandChar != ';' &&
		!top.IsArray() &&
		!f.isInPreprocessor &&
		f.isOkToBreakBlock(top) {
		f.isInLineBreak = true
		f.shouldBreakLineAtNextChar = true
	}
}

func (f *Formatter) formatCommentOpener() {
	f.isInComment = true
	f.isImmediatelyPostLineComment = false

	if f.spacePadNum != 0 && !f.isInLineBreak {
		f.adjustComments()
	}
	f.formattedLineCommentNum = len(f.formattedLine)

	// before appendSequence, which may complete the previous line
	if f.previousCommandChar == '{' && !f.isImmediatelyPostComment && !f.isImmediatelyPostLineComment {
		switch f.bracketMode {
		case config.BracketsNone:
			if f.currentLineBeginsBracket {
				f.formatRunIn()
			}
		case config.BracketsAttach:
			if f.formattedLine != "" && f.formattedLine[0] == '{' && !f.brackets.TopType().IsSingleLine() {
				f.isInLineBreak = true
			}
		case config.BracketsRunIn:
			if f.formattedLine != "" && f.formattedLine[0] == '{' {
				f.formatRunIn()
			}
		}
	} else if !f.doesLineStartComment {
		f.noTrimCommentContinuation = true
	}

	f.appendSequence(lexer.OpenComment, true)
	f.goForward(1)

	// a blank line goes before a comment that introduces a header
	if f.breakBlocks &&
		f.doesLineStartComment &&
		!f.isImmediatelyPostEmptyLine &&
		!f.isImmediatelyPostCommentOnly &&
		f.previousCommandChar != '{' {
		f.checkForHeaderFollowingComment(f.currentLine[f.charNum-1:])
	}

	if f.previousCommandChar == '}' {
		f.currentHeader = ""
	}
}

// formatLineCommentBody copies line comment text up to the next tab and
// ends the line at the end of the comment.
func (f *Formatter) formatLineCommentBody() {
	f.appendCurrentChar(true)
	for f.charNum+1 < len(f.currentLine) && f.currentLine[f.charNum+1] != '\t' {
		f.charNum++
		f.currentChar = f.currentLine[f.charNum]
		f.appendCurrentChar(true)
	}
	f.endLineComment()
}

func (f *Formatter) formatLineCommentOpener() {
	f.isInLineComment = true
	f.isCharImmediatelyPostComment = false

	// comments in column 1 or 2 stay there
	if !f.opts.IndentCol1Comments && !f.lineCommentNoIndent {
		if f.charNum == 0 || (f.charNum == 1 && f.currentLine[0] == ' ') {
			f.lineCommentNoIndent = true
		}
	}

	if !f.lineCommentNoIndent && f.spacePadNum != 0 && !f.isInLineBreak {
		f.adjustComments()
	}
	f.formattedLineCommentNum = len(f.formattedLine)

	// before appendSequence, which may complete the previous line
	if f.previousCommandChar == '{' && !f.isImmediatelyPostComment && !f.isImmediatelyPostLineComment {
		switch f.bracketMode {
		case config.BracketsNone:
			if f.currentLineBeginsBracket {
				f.formatRunIn()
			}
		case config.BracketsRunIn:
			if !f.lineCommentNoIndent {
				f.formatRunIn()
			} else {
				f.isInLineBreak = true
			}
		case config.BracketsBreak:
			if f.formattedLine != "" && f.formattedLine[0] == '{' {
				f.isInLineBreak = true
			}
		default:
			if f.currentLineBeginsBracket {
				f.isInLineBreak = true
			}
		}
	}

	f.appendSequence(lexer.OpenLineComment, true)
	f.goForward(1)

	if lexer.HasPrefixAt(f.formattedLine, 0, lexer.OpenLineComment) {
		f.lineIsLineCommentOnly = true
	}

	if f.breakBlocks &&
		f.lineIsLineCommentOnly &&
		f.previousCommandChar != '{' &&
		!f.isImmediatelyPostEmptyLine &&
		!f.isImmediatelyPostCommentOnly {
		f.checkForHeaderFollowingComment(f.currentLine[f.charNum-1:])
	}

	if f.previousCommandChar == '}' {
		f.currentHeader = ""
	}

	// tabs after an unindented comment are kept in tabbed output
	if f.beaut.IndentString() == "\t" && f.lineCommentNoIndent {
		for f.charNum+1 < len(f.currentLine) && f.currentLine[f.charNum+1] == '\t' {
			f.charNum++
			f.currentChar = f.currentLine[f.charNum]
			f.appendCurrentChar(true)
		}
	}

	f.endLineComment()
}

// endLineComment breaks the line once a line comment reaches the end of
// the input line.
func (f *Formatter) endLineComment() {
	if f.charNum+1 != len(f.currentLine) {
		return
	}
	f.isInLineBreak = true
	f.isInLineComment = false
	f.isImmediatelyPostLineComment = true
	// a neutral character
	f.currentChar = 0
}

// formatQuoteBody copies quoted text up to the closing quote or the next
// escape. Tabs in quotes are never converted.
func (f *Formatter) formatQuoteBody() {
	switch {
	case f.isSpecialChar:
		f.isSpecialChar = false
	case f.currentChar == '\\' && !f.isInVerbatimQuote:
		if f.peekNextChar() == ' ' {
			// a backslash at the end of the line continues the quote
			f.haveLineContinuationChar = true
		} else {
			f.isSpecialChar = true
		}
	case f.isInVerbatimQuote && f.currentChar == '"':
		if f.peekNextChar() == '"' {
			f.appendSequence(`""`, true)
			f.goForward(1)
			return
		}
		f.isInQuote = false
		f.isInVerbatimQuote = false
	case f.quoteChar == f.currentChar:
		f.isInQuote = false
	}

	f.appendCurrentChar(true)

	if f.isInQuote && f.currentChar != '\\' {
		for f.charNum+1 < len(f.currentLine) &&
			f.currentLine[f.charNum+1] != f.quoteChar &&
			f.currentLine[f.charNum+1] != '\\' {
			f.charNum++
			f.currentChar = f.currentLine[f.charNum]
			f.appendCurrentChar(true)
		}
	}
}

func (f *Formatter) formatQuoteOpener() {
	f.isInQuote = true
	f.quoteChar = f.currentChar
	if f.dialect.IsCSharp() && f.previousChar == '@' {
		f.isInVerbatimQuote = true
	}

	// a quote after the bracket of a block-indented array starts the first
	// element
	if f.previousCommandChar == '{' &&
		!f.isImmediatelyPostComment &&
		!f.isImmediatelyPostLineComment &&
		f.hints.NonInStatementArray &&
		!f.brackets.TopType().IsSingleLine() &&
		!lexer.IsWhiteSpace(f.peekNextChar()) {
		switch f.bracketMode {
		case config.BracketsNone:
			if f.currentLineBeginsBracket {
				f.formatRunIn()
			}
		case config.BracketsRunIn:
			f.formatRunIn()
		case config.BracketsBreak:
			if f.formattedLine != "" && f.formattedLine[0] == '{' {
				f.isInLineBreak = true
			}
		default:
			if f.currentLineBeginsBracket {
				f.isInLineBreak = true
			}
		}
	}

	f.previousCommandChar = ' '
	f.appendCurrentChar(true)
}
