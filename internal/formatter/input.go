package formatter

import (
	"strings"

	"github.com/hassan/stylefmt/internal/lexer"
)

// getNextChar advances to the next character to format, reading a new line
// when the current one is used up. Trailing whitespace is skipped outside
// comments. It returns false at the end of input.
func (f *Formatter) getNextChar() bool {
	f.isInLineBreak = false
	f.previousChar = f.currentChar

	if !lexer.IsWhiteSpace(f.currentChar) {
		f.previousNonWSChar = f.currentChar
		if !f.isInComment && !f.isInLineComment && !f.isInQuote &&
			!f.isImmediatelyPostComment &&
			!f.isImmediatelyPostLineComment &&
			!f.isInPreprocessor &&
			!f.isSequenceReached(lexer.OpenComment) &&
			!f.isSequenceReached(lexer.OpenLineComment) {
			f.previousCommandChar = f.currentChar
		}
	}

	if f.charNum+1 < len(f.currentLine) &&
		(!lexer.IsWhiteSpace(f.peekNextChar()) || f.isInComment || f.isInLineComment) {
		f.charNum++
		f.currentChar = f.currentLine[f.charNum]
		if f.opts.ConvertTabs && f.currentChar == '\t' {
			f.convertTabToSpaces()
		}
		return true
	}

	return f.getNextLine(false)
}

// getNextLine reads the next input line, or the bracket that was split off
// the previous line, and positions charNum at its first character.
func (f *Formatter) getNextLine(emptyLineWasDeleted bool) bool {
	if !f.appendOpeningBracket && !f.src.HasMoreLines() {
		f.endOfCodeReached = true
		return false
	}

	if f.appendOpeningBracket {
		f.currentLine = "{"
	} else {
		f.currentLine = f.src.NextLine(emptyLineWasDeleted)
		f.checksumIn += checksum(f.currentLine)
	}

	f.hints.LineNumber++
	f.isInCase = false
	f.isInAsmOneLine = false
	f.isInQuoteContinuation = f.isInVerbatimQuote || f.haveLineContinuationChar
	f.haveLineContinuationChar = false
	f.isImmediatelyPostEmptyLine = f.lineIsEmpty
	f.previousChar = ' '

	if f.currentLine == "" {
		f.currentLine = " "
	}

	// every line but the first ends the previous formatted line
	if !f.isVirgin {
		f.isInLineBreak = true
	} else {
		f.isVirgin = false
	}

	if f.isImmediatelyPostNonInStmt {
		f.isCharImmediatelyPostNonInStmt = true
		f.isImmediatelyPostNonInStmt = false
	}

	// a directive continues only past a trailing backslash
	f.isImmediatelyPostPreprocessor = f.isInPreprocessor
	if f.previousNonWSChar != '\\' || isEmptyLine(f.currentLine) {
		f.isInPreprocessor = false
	}

	if f.passedSemicolon {
		f.isInExecSQL = false
	}

	f.initNewLine()

	f.currentChar = f.currentLine[f.charNum]
	if f.isInRunIn && f.previousNonWSChar == '{' && !f.isInComment {
		f.isInLineBreak = false
	}
	f.isInRunIn = false

	if f.opts.ConvertTabs && f.currentChar == '\t' {
		f.convertTabToSpaces()
	}

	// empty lines inside a command block; must run after initNewLine
	if f.opts.DeleteEmptyLines && f.lineIsEmpty && f.brackets.TopType().IsCommand() {
		if !f.breakBlocks || f.previousNonWSChar == '{' || !f.commentAndHeaderFollows() {
			f.isInPreprocessor = f.isImmediatelyPostPreprocessor
			f.lineIsEmpty = false
			return f.getNextLine(true)
		}
	}
	return true
}

// initNewLine skips the leading whitespace of a fresh line and classifies
// what starts it. Preprocessor lines and quote continuations keep their
// whitespace.
func (f *Formatter) initNewLine() {
	indent := f.beaut.IndentLength()
	f.charNum = 0

	if f.isInPreprocessor || f.isInQuoteContinuation {
		return
	}

	// SQL continuation lines keep their offset from the EXEC SQL, in spaces
	if f.isInExecSQL {
		var b strings.Builder
		tabCount := 0
		i := 0
		for ; i < len(f.currentLine) && lexer.IsWhiteSpace(f.currentLine[i]); i++ {
			if f.currentLine[i] == '\t' {
				b.WriteString(strings.Repeat(" ", indent-((tabCount+b.Len())%indent)))
				tabCount++
				continue
			}
			b.WriteByte(' ')
		}
		f.currentLine = b.String() + f.currentLine[i:]
		f.trimContinuationLine()
		return
	}

	// comment continuation lines keep their offset from the comment opener
	if f.isInComment {
		if f.noTrimCommentContinuation {
			f.leadingSpaces = 0
			f.tabIncrementIn = 0
		}
		f.trimContinuationLine()
		return
	}

	f.isImmediatelyPostCommentOnly = f.lineIsLineCommentOnly || f.lineEndsInCommentOnly
	f.lineIsLineCommentOnly = false
	f.lineEndsInCommentOnly = false
	f.doesLineStartComment = false
	f.currentLineBeginsBracket = false
	f.lineIsEmpty = false
	f.firstBracketNum = npos
	f.tabIncrementIn = 0

	line := f.currentLine
	for f.charNum = 0; lexer.IsWhiteSpace(line[f.charNum]) && f.charNum+1 < len(line); f.charNum++ {
		if line[f.charNum] == '\t' {
			f.tabIncrementIn += indent - 1 - ((f.tabIncrementIn + f.charNum) % indent)
		}
	}
	f.leadingSpaces = f.charNum + f.tabIncrementIn

	switch {
	case f.isSequenceReached(lexer.OpenComment):
		f.doesLineStartComment = true
	case f.isSequenceReached(lexer.OpenLineComment):
		f.lineIsLineCommentOnly = true
	case f.isSequenceReached(lexer.OpenBracket):
		f.currentLineBeginsBracket = true
		f.firstBracketNum = f.charNum
		firstText := indexNotBlank(line, f.charNum+1)
		if firstText < 0 {
			break
		}
		if lexer.HasPrefixAt(line, firstText, lexer.OpenLineComment) {
			f.lineIsLineCommentOnly = true
			break
		}
		if lexer.HasPrefixAt(line, firstText, lexer.OpenComment) || f.isExecSQL(line, firstText) {
			// the text after the bracket sets the continuation offset
			j := f.charNum + 1
			for ; j < firstText && lexer.IsWhiteSpace(line[j]); j++ {
				if line[j] == '\t' {
					f.tabIncrementIn += indent - 1 - ((f.tabIncrementIn + j) % indent)
				}
			}
			f.leadingSpaces = j + f.tabIncrementIn
			if lexer.HasPrefixAt(line, firstText, lexer.OpenComment) {
				f.doesLineStartComment = true
			}
		}
	case lexer.IsWhiteSpace(line[f.charNum]) && f.charNum+1 >= len(line):
		f.lineIsEmpty = true
	}
}

// trimContinuationLine removes up to leadingSpaces columns of whitespace
// from a continuation line, rebuilding the indent in spaces when tabs make
// the columns uneven.
func (f *Formatter) trimContinuationLine() {
	line := f.currentLine
	indent := f.beaut.IndentLength()
	f.charNum = 0

	if f.leadingSpaces <= 0 || len(line) == 0 {
		return
	}

	i := 0
	continuationIncrementIn := 0
	for ; i < len(line) && i+continuationIncrementIn < f.leadingSpaces; i++ {
		// text is never deleted
		if !lexer.IsWhiteSpace(line[i]) {
			if i < continuationIncrementIn {
				f.leadingSpaces = i + f.tabIncrementIn
			}
			continuationIncrementIn = f.tabIncrementIn
			break
		}
		if line[i] == '\t' {
			continuationIncrementIn += indent - 1 - ((continuationIncrementIn + i) % indent)
		}
	}

	if continuationIncrementIn == f.tabIncrementIn {
		f.charNum = i
	} else {
		leadingChars := max(f.leadingSpaces-f.tabIncrementIn, 0)
		f.currentLine = strings.Repeat(" ", leadingChars) + line[min(i, len(line)):]
		f.charNum = leadingChars
		if f.currentLine == "" {
			f.currentLine = " "
		}
	}

	if i >= len(line) {
		f.charNum = 0
	}
}

// convertTabToSpaces replaces the tab at charNum with the spaces that
// reach the next tab stop. Quoted tabs are kept.
func (f *Formatter) convertTabToSpaces() {
	if f.isInQuote || f.isInQuoteContinuation {
		return
	}
	indent := f.beaut.IndentLength()
	numSpaces := indent - ((f.tabIncrementIn + f.charNum) % indent)
	f.currentLine = f.currentLine[:f.charNum] + strings.Repeat(" ", numSpaces) + f.currentLine[f.charNum+1:]
	f.currentChar = f.currentLine[f.charNum]
}

func (f *Formatter) goForward(n int) {
	for ; n > 0; n-- {
		f.getNextChar()
	}
}

// peekNextChar returns the next non-blank character on the current line,
// or a space.
func (f *Formatter) peekNextChar() byte {
	return lexer.PeekNextChar(f.currentLine, f.charNum)
}

func (f *Formatter) isSequenceReached(seq string) bool {
	return lexer.HasPrefixAt(f.currentLine, f.charNum, seq)
}

// isBeforeComment reports whether a block comment is the next text.
func (f *Formatter) isBeforeComment() bool {
	next := indexNotBlank(f.currentLine, f.charNum+1)
	return next >= 0 && lexer.HasPrefixAt(f.currentLine, next, lexer.OpenComment)
}

// isBeforeAnyComment reports whether any comment is the next text.
func (f *Formatter) isBeforeAnyComment() bool {
	next := indexNotBlank(f.currentLine, f.charNum+1)
	return next >= 0 &&
		(lexer.HasPrefixAt(f.currentLine, next, lexer.OpenComment) ||
			lexer.HasPrefixAt(f.currentLine, next, lexer.OpenLineComment))
}

// isBeforeAnyLineEndComment reports whether the text after startPos is a
// line comment, or a block comment that ends the line.
func (f *Formatter) isBeforeAnyLineEndComment(startPos int) bool {
	line := f.currentLine
	next := indexNotBlank(line, startPos+1)
	if next < 0 {
		return false
	}
	if lexer.HasPrefixAt(line, next, lexer.OpenLineComment) {
		return true
	}
	if !lexer.HasPrefixAt(line, next, lexer.OpenComment) {
		return false
	}
	end := strings.Index(line[next+2:], lexer.CloseComment)
	return end >= 0 && indexNotBlank(line, next+2+end+2) < 0
}

// isBeforeMultipleLineEndComments reports whether the text after startPos
// is a block comment followed by a line comment.
func (f *Formatter) isBeforeMultipleLineEndComments(startPos int) bool {
	line := f.currentLine
	next := indexNotBlank(line, startPos+1)
	if next < 0 || !lexer.HasPrefixAt(line, next, lexer.OpenComment) {
		return false
	}
	end := strings.Index(line[next+2:], lexer.CloseComment)
	if end < 0 {
		return false
	}
	after := indexNotBlank(line, next+2+end+2)
	return after >= 0 && lexer.HasPrefixAt(line, after, lexer.OpenLineComment)
}

// peekNextText returns the next text from firstLine on, reading ahead in
// the input and skipping comments. With endOnEmptyLine an empty line stops
// the search. The input's peek position is reset afterwards whenever a
// line was peeked, or always when shouldReset is set.
func (f *Formatter) peekNextText(firstLine string, endOnEmptyLine, shouldReset bool) string {
	needReset := shouldReset
	line := firstLine
	firstChar := npos
	inComment := false

	for isFirstLine := true; ; isFirstLine = false {
		if !isFirstLine {
			next, ok := f.src.PeekNextLine()
			needReset = true
			if !ok {
				firstChar = npos
				break
			}
			line = next
		}

		firstChar = indexNotBlank(line, 0)
		if firstChar < 0 {
			if endOnEmptyLine && !inComment {
				break
			}
			continue
		}

		if lexer.HasPrefixAt(line, firstChar, lexer.OpenComment) {
			firstChar += 2
			inComment = true
		}
		if inComment {
			end := strings.Index(line[firstChar:], lexer.CloseComment)
			if end < 0 {
				firstChar = npos
				continue
			}
			inComment = false
			firstChar = indexNotBlank(line, firstChar+end+2)
			if firstChar < 0 {
				continue
			}
		}

		if lexer.HasPrefixAt(line, firstChar, lexer.OpenLineComment) {
			firstChar = npos
			continue
		}
		break
	}

	if needReset {
		f.src.PeekReset()
	}
	if firstChar < 0 {
		return ""
	}
	return line[firstChar:]
}

// isNextWordSharpNonParenHeader reports whether a C# attribute or an
// accessor keyword follows startChar.
func (f *Formatter) isNextWordSharpNonParenHeader(startChar int) bool {
	nextText := f.peekNextText(f.currentLine[min(startChar, len(f.currentLine)):], false, false)
	if nextText == "" {
		return false
	}
	if nextText[0] == '[' {
		return true
	}
	if !f.dialect.IsCharPotentialHeader(nextText, 0) {
		return false
	}
	for _, kw := range []string{lexer.Get, lexer.Set, lexer.Add, lexer.Remove} {
		if f.dialect.FindKeyword(nextText, 0, kw) {
			return true
		}
	}
	return false
}

// isNextCharOpeningBracket reports whether the next text after startChar,
// possibly on a later line, is a '{'.
func (f *Formatter) isNextCharOpeningBracket(startChar int) bool {
	nextText := f.peekNextText(f.currentLine[min(startChar, len(f.currentLine)):], false, false)
	return strings.HasPrefix(nextText, lexer.OpenBracket)
}

// commentAndHeaderFollows reports whether the next line starts a comment
// that is followed by a header. An empty line before such a comment is
// kept when blocks are broken.
func (f *Formatter) commentAndHeaderFollows() bool {
	if !f.src.HasMoreLines() {
		return false
	}

	nextLine, _ := f.src.PeekNextLine()
	firstChar := indexNotBlank(nextLine, 0)
	if firstChar < 0 ||
		!(lexer.HasPrefixAt(nextLine, firstChar, lexer.OpenLineComment) ||
			lexer.HasPrefixAt(nextLine, firstChar, lexer.OpenComment)) {
		f.src.PeekReset()
		return false
	}

	nextText := f.peekNextText(nextLine, false, true)
	if nextText == "" || !f.dialect.IsCharPotentialHeader(nextText, 0) {
		return false
	}
	newHeader := f.dialect.FindHeader(nextText, 0, f.catalog.Headers)
	if newHeader == "" {
		return false
	}

	if f.isClosingHeader(newHeader) && !f.breakClosingBlocks {
		f.appendPostBlockEmptyLine = false
		return false
	}
	return true
}

// checkForHeaderFollowingComment moves a requested empty line in front of
// a comment when an opening header follows it.
func (f *Formatter) checkForHeaderFollowingComment(firstLine string) {
	nextText := f.peekNextText(firstLine, true, false)
	if nextText == "" || !f.dialect.IsCharPotentialHeader(nextText, 0) {
		return
	}
	newHeader := f.dialect.FindHeader(nextText, 0, f.catalog.Headers)
	if newHeader == "" {
		return
	}

	if f.isClosingHeader(newHeader) {
		if !f.breakClosingBlocks {
			f.prependPostBlockEmptyLine = false
		}
		return
	}
	f.prependPostBlockEmptyLine = true
}

// isStructAccessModified reports whether the struct body opened at
// firstLine[index] contains an access modifier, reading ahead if needed.
func (f *Formatter) isStructAccessModified(firstLine string, index int) bool {
	needReset := false
	bracketCount := 1
	line := firstLine[index+1:]
	inComment := false
	inQuote := false
	quote := byte(' ')

	defer func() {
		if needReset {
			f.src.PeekReset()
		}
	}()

	for isFirstLine := true; ; isFirstLine = false {
		if !isFirstLine {
			next, ok := f.src.PeekNextLine()
			needReset = true
			if !ok {
				return false
			}
			line = next
		}

		for i := 0; i < len(line); i++ {
			ch := line[i]
			if lexer.IsWhiteSpace(ch) {
				continue
			}
			if lexer.HasPrefixAt(line, i, lexer.OpenComment) {
				inComment = true
			}
			if inComment {
				if lexer.HasPrefixAt(line, i, lexer.CloseComment) {
					inComment = false
					i++
				}
				continue
			}
			if ch == '\\' {
				i++
				continue
			}
			if inQuote {
				if ch == quote {
					inQuote = false
				}
				continue
			}
			if ch == '"' || ch == '\'' {
				inQuote = true
				quote = ch
				continue
			}
			if lexer.HasPrefixAt(line, i, lexer.OpenLineComment) {
				break
			}

			switch ch {
			case '{':
				bracketCount++
			case '}':
				bracketCount--
			}
			if bracketCount == 0 {
				return false
			}

			if f.dialect.IsCharPotentialHeader(line, i) {
				if f.dialect.FindKeyword(line, i, lexer.Public) ||
					f.dialect.FindKeyword(line, i, lexer.Private) ||
					f.dialect.FindKeyword(line, i, lexer.Protected) {
					return true
				}
				i += len(f.dialect.CurrentWord(line, i)) - 1
			}
		}
	}
}

func trim(s string) string {
	return strings.Trim(s, " \t")
}

func isEmptyLine(s string) bool {
	return indexNotBlank(s, 0) < 0
}

// indexNotBlank returns the index of the first byte at or after from that
// is not a space or tab, or -1.
func indexNotBlank(s string, from int) int {
	for i := max(from, 0); i < len(s); i++ {
		if !lexer.IsWhiteSpace(s[i]) {
			return i
		}
	}
	return -1
}

// lastIndexNotBlank returns the index of the last byte at or before from
// that is not a space or tab, or -1.
func lastIndexNotBlank(s string, from int) int {
	for i := min(from, len(s)-1); i >= 0; i-- {
		if !lexer.IsWhiteSpace(s[i]) {
			return i
		}
	}
	return -1
}
