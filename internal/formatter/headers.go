package formatter

import (
	"strings"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
)

// closingHeaders pairs each closing header with the headers it may follow.
var closingHeaders = map[string][]string{
	lexer.Else:      {lexer.If},
	lexer.While:     {lexer.Do},
	lexer.Catch:     {lexer.Try, lexer.Catch},
	lexer.Finally:   {lexer.Try, lexer.Catch},
	lexer.MSFinally: {lexer.MSTry},
	lexer.MSExcept:  {lexer.MSTry},
	lexer.Set:       {lexer.Get},
	lexer.Remove:    {lexer.Add},
}

// formatHeader handles a word that may be a header, a definition keyword,
// a pre-command keyword or a cast. It returns true when the word has been
// consumed.
func (f *Formatter) formatHeader() bool {
	f.isNonParenHeader = false
	f.foundClosingHeader = false

	if newHeader := f.findHeader(f.catalog.Headers); newHeader != "" {
		f.formatStatementHeader(newHeader)
		return true
	}

	if newHeader := f.findHeader(f.catalog.PreDefinitionHeaders); newHeader != "" && f.parenStack[len(f.parenStack)-1] == 0 {
		switch newHeader {
		case lexer.Namespace:
			f.foundNamespaceHeader = true
		case lexer.Class:
			f.foundClassHeader = true
		case lexer.Struct:
			f.foundStructHeader = true
		case lexer.Interface:
			f.foundInterfaceHeader = true
		}
		f.foundPreDefinitionHeader = true
		f.appendSequence(newHeader, true)
		f.goForward(len(newHeader) - 1)
		return true
	}

	if f.findHeader(f.catalog.PreCommandHeaders) != "" {
		// the word is still appended as an ordinary name
		f.foundPreCommandHeader = true
		return false
	}

	if newHeader := f.findHeader(f.catalog.CastOperators); newHeader != "" {
		f.foundCastOperator = true
		f.appendSequence(newHeader, true)
		f.goForward(len(newHeader) - 1)
		return true
	}
	return false
}

func (f *Formatter) formatStatementHeader(newHeader string) {
	top := f.brackets.TopType()

	if slicesContains(closingHeaders[newHeader], f.currentHeader) {
		f.foundClosingHeader = true
	}

	previousHeader := f.currentHeader
	f.currentHeader = newHeader
	f.needHeaderOpeningBracket = true

	if f.foundClosingHeader && f.previousNonWSChar == '}' {
		if f.isOkToBreakBlock(top) {
			f.isLineBreakBeforeClosingHeader()
		}
		// a comment after the closing header moves with it
		if f.isInLineBreak {
			f.nextLineSpacePadNum = f.nextLineCommentAdjustment()
		} else {
			f.spacePadNum = f.currentLineCommentAdjustment()
		}
	}

	f.isNonParenHeader = f.findHeader(f.catalog.NonParenHeaders) != ""

	// join "else if" unless the else ends a #else line
	if f.currentHeader == lexer.If && previousHeader == lexer.Else && f.isInLineBreak &&
		!f.opts.BreakElseIfs && !f.isCharImmediatelyPostLineComment {
		start := max(len(f.formattedLine)-6, 0)
		tail := f.formattedLine[start:]
		if strings.Contains(tail, lexer.Else) && !strings.Contains(tail, "#else") {
			f.appendSpacePad()
			f.isInLineBreak = false
		}
	}

	f.appendSequence(f.currentHeader, true)
	f.goForward(len(f.currentHeader) - 1)

	// a paren header gets a space before its paren; in C# catch may take
	// a paren or not
	if f.opts.PadHeader &&
		(!f.isNonParenHeader ||
			(f.currentHeader == lexer.Case && f.peekNextChar() == '(') ||
			(f.currentHeader == lexer.Catch && f.peekNextChar() == '(')) &&
		f.charNum < len(f.currentLine)-1 && !lexer.IsWhiteSpace(f.currentLine[f.charNum+1]) {
		f.appendSpacePad()
	}

	// the while closing a do-while never has a block after it
	if !(f.foundClosingHeader && f.currentHeader == lexer.While) {
		f.isInHeader = true
		if f.isNonParenHeader && !f.isSharpStyleWithParen(f.currentHeader) {
			f.isImmediatelyPostHeader = true
			f.isInHeader = false
		}
	}

	if f.breakBlocks && f.isOkToBreakBlock(f.brackets.TopType()) {
		if previousHeader == "" &&
			!f.foundClosingHeader &&
			!f.isCharImmediatelyPostOpenBlock &&
			!f.isImmediatelyPostCommentOnly {
			f.prependPostBlockEmptyLine = true
		}

		if f.isClosingHeader(f.currentHeader) || f.foundClosingHeader {
			f.prependPostBlockEmptyLine = false
		}

		if f.breakClosingBlocks &&
			f.isCharImmediatelyPostCloseBlock &&
			!f.isImmediatelyPostCommentOnly &&
			f.currentHeader != lexer.While {
			f.prependPostBlockEmptyLine = true
		}
	}

	if f.currentHeader == lexer.Case || f.currentHeader == lexer.Default {
		f.isInCase = true
	}
}

// isLineBreakBeforeClosingHeader decides whether "} else" is split or
// joined, depending on the bracket mode.
func (f *Formatter) isLineBreakBeforeClosingHeader() {
	switch f.bracketMode {
	case config.BracketsBreak, config.BracketsRunIn:
		f.isInLineBreak = true
		return
	}
	if f.attachClosingBracket {
		f.isInLineBreak = true
		return
	}

	if f.breakClosingBrackets || f.opts.IndentBrackets || f.opts.IndentBlocks {
		f.isInLineBreak = true
		return
	}

	if f.bracketMode == config.BracketsNone {
		f.appendSpacePad()
		// the closing bracket was broken in the input
		if i := indexNotBlank(f.currentLine, 0); i >= 0 && f.currentLine[i] == '}' {
			f.isInLineBreak = false
		}
		if f.breakBlocks {
			f.appendPostBlockEmptyLine = false
		}
		return
	}

	// attach, linux and stroustrup: attach unless a blank line or a one-line
	// block precedes the header
	previousLineIsEmpty := isEmptyLine(f.formattedLine)
	previousLineIsOneLineBlock := 0
	if firstBracket := f.findNextChar(f.formattedLine, '{', 0); firstBracket >= 0 {
		previousLineIsOneLineBlock = f.isOneLineBlockReached(f.formattedLine, firstBracket)
	}
	if !previousLineIsEmpty && previousLineIsOneLineBlock == 0 {
		f.isInLineBreak = false
		f.appendSpacePad()
		// the pad is not a comment adjustment
		f.spacePadNum = 0
	}
	if f.breakBlocks {
		f.appendPostBlockEmptyLine = false
	}
}

// nextLineCommentAdjustment returns the shift of a comment after a closing
// header that is broken from its bracket, as in "} else" becoming two lines.
// The result is zero or negative.
func (f *Formatter) nextLineCommentAdjustment() int {
	if f.charNum < 1 {
		return 0
	}
	if lastBracket := strings.LastIndexByte(f.currentLine[:f.charNum], '}'); lastBracket >= 0 {
		return lastBracket - f.charNum
	}
	return 0
}

// currentLineCommentAdjustment returns the shift of a comment after a
// closing header that is attached to the bracket on the previous line: one
// column for the bracket and one for the space.
func (f *Formatter) currentLineCommentAdjustment() int {
	if f.charNum < 1 {
		return 2
	}
	if strings.LastIndexByte(f.currentLine[:f.charNum], '}') < 0 {
		return 2
	}
	return 0
}

// addBracketsToStatement wraps the statement following a header in
// brackets, inside currentLine. It returns false when the statement does
// not qualify.
func (f *Formatter) addBracketsToStatement() bool {
	switch f.currentHeader {
	case lexer.If, lexer.Else, lexer.For, lexer.While, lexer.Do, lexer.Foreach:
	default:
		return false
	}

	// the while of a do-while
	if f.currentHeader == lexer.While && f.foundClosingHeader {
		return false
	}
	// an empty statement
	if f.currentChar == ';' {
		return false
	}
	// another header follows, as in "else if"
	if f.dialect.IsCharPotentialHeader(f.currentLine, f.charNum) && f.findHeader(f.catalog.Headers) != "" {
		return false
	}

	nextSemiColon := f.findNextChar(f.currentLine, ';', f.charNum+1)
	if nextSemiColon < 0 {
		return false
	}

	// the closing bracket goes in first so the semicolon index stays valid
	f.currentLine = f.currentLine[:nextSemiColon+1] + " }" + f.currentLine[nextSemiColon+1:]
	f.currentLine = f.currentLine[:f.charNum] + "{ " + f.currentLine[f.charNum:]
	f.checksumIn += checksum("{}")
	f.currentChar = '{'

	if !f.opts.AddOneLineBrackets {
		lastText := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)
		if len(f.formattedLine)-1-lastText > 1 {
			f.formattedLine = f.formattedLine[:lastText+1]
		}
	}
	return true
}

// findNextChar returns the index of the next searchChar in line from start
// that is outside quotes and comments, or -1. The search stops at a '{'.
func (f *Formatter) findNextChar(line string, searchChar byte, start int) int {
	i := start
	for ; i < len(line); i++ {
		if lexer.HasPrefixAt(line, i, lexer.OpenLineComment) {
			return npos
		}
		if lexer.HasPrefixAt(line, i, lexer.OpenComment) {
			endComment := strings.Index(line[i+2:], lexer.CloseComment)
			if endComment < 0 {
				return npos
			}
			i += 2 + endComment + 2
			if i >= len(line) {
				return npos
			}
		}

		if line[i] == '\'' || line[i] == '"' {
			quote := line[i]
			for i < len(line) {
				endQuote := strings.IndexByte(line[i+1:], quote)
				if endQuote < 0 {
					return npos
				}
				endQuote += i + 1
				i = endQuote
				// an escaped quote, unless the backslash is itself escaped
				if line[endQuote-1] != '\\' {
					break
				}
				if lexer.CharAt(line, endQuote-2) == '\\' {
					break
				}
			}
		}

		if line[i] == searchChar {
			break
		}
		// C# delegate brackets are not searched
		if line[i] == '{' {
			return npos
		}
	}

	if i >= len(line) {
		return npos
	}
	return i
}

// previousWord returns the word that ends before currPos, or "".
func (f *Formatter) previousWord(line string, currPos int) string {
	if currPos == 0 {
		return ""
	}
	end := lastIndexNotBlank(line, currPos-1)
	if end < 0 || !f.dialect.IsLegalNameChar(line[end]) {
		return ""
	}

	start := end
	for ; start > -1; start-- {
		if !f.dialect.IsLegalNameChar(line[start]) || line[start] == '.' {
			break
		}
	}
	start++
	return line[start : end+1]
}

func (f *Formatter) isClosingHeader(header string) bool {
	return header == lexer.Else || header == lexer.Catch || header == lexer.Finally
}

// isSharpStyleWithParen reports whether a C# catch or delegate is followed
// by a paren, which makes it a paren header.
func (f *Formatter) isSharpStyleWithParen(header string) bool {
	return f.dialect.IsCSharp() && f.peekNextChar() == '(' &&
		(header == lexer.Catch || header == lexer.Delegate)
}

// processPreprocessor drops the bracket frames opened in an #if branch
// when its #else starts, so both branches do not count twice.
func (f *Formatter) processPreprocessor() {
	directive := f.charNum + 1
	switch {
	case lexer.HasPrefixAt(f.currentLine, directive, "if"):
		f.preprocBracketStackSize = f.brackets.Len()
	case lexer.HasPrefixAt(f.currentLine, directive, "else"):
		if f.preprocBracketStackSize > 0 {
			f.brackets.Truncate(f.preprocBracketStackSize)
		}
	}
}

// isExecSQL reports whether an "EXEC SQL" statement starts at line[index].
func (f *Formatter) isExecSQL(line string, index int) bool {
	if ch := lexer.CharAt(line, index); ch != 'e' && ch != 'E' {
		return false
	}

	word := ""
	if f.dialect.IsCharPotentialHeader(line, index) {
		word = f.dialect.CurrentWord(line, index)
	}
	if strings.ToUpper(word) != "EXEC" {
		return false
	}

	next := indexNotBlank(line, index+len(word))
	if next < 0 {
		return false
	}
	word = ""
	if f.dialect.IsCharPotentialHeader(line, next) {
		word = f.dialect.CurrentWord(line, next)
	}
	return strings.ToUpper(word) == "SQL"
}

// checkIfTemplateOpener looks ahead from a '<' to decide whether it opens
// a template argument list.
func (f *Formatter) checkIfTemplateOpener() {
	parenDepth := 0
	maxTemplateDepth := 0
	f.templateDepth = 0

	for i := f.charNum; i < len(f.currentLine); i++ {
		ch := f.currentLine[i]
		if lexer.IsWhiteSpace(ch) {
			continue
		}

		switch {
		case ch == '<':
			f.templateDepth++
			maxTemplateDepth++
		case ch == '>':
			f.templateDepth--
			if f.templateDepth == 0 {
				if parenDepth == 0 {
					f.isInTemplate = true
					f.templateDepth = maxTemplateDepth
				}
				return
			}
		case ch == '(':
			parenDepth++
		case ch == ')':
			parenDepth--
		case lexer.HasPrefixAt(f.currentLine, i, lexer.OpAnd) || lexer.HasPrefixAt(f.currentLine, i, lexer.OpOr):
			f.isInTemplate = false
			return
		case strings.IndexByte(",&*:=[]", ch) >= 0:
			// allowed inside template arguments
		case !f.dialect.IsLegalNameChar(ch):
			f.isInTemplate = false
			return
		}
	}
}

func (f *Formatter) findHeader(list []string) string {
	return f.dialect.FindHeader(f.currentLine, f.charNum, list)
}

func slicesContains(list []string, s string) bool {
	return s != "" && lexer.Contains(list, s)
}
