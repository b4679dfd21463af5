// Package enhancer applies the line adjustments that need more context than
// the indentation engine keeps: unindenting bracketed case blocks when case
// labels are not indented, and indenting the bodies of event-table macros
// and embedded SQL declare sections.
//
// The enhancer sees each line after it has been indented and only ever adds
// or removes whole indent units at its start.
package enhancer

import (
	"strings"

	"github.com/hassan/stylefmt/internal/lexer"
)

// Settings are the formatting options the enhancer depends on.
type Settings struct {
	IndentLength       int
	UseTabs            bool
	CaseIndent         bool
	PreprocessorIndent bool
	EmptyLineFill      bool
}

// switchState is saved on entry to a nested switch and restored when its
// closing bracket is found.
type switchState struct {
	bracketCount  int
	unindentDepth int
	unindentCase  bool
}

var (
	eventTableBegin = []string{
		"BEGIN_EVENT_TABLE", "BEGIN_DISPATCH_MAP", "BEGIN_EVENT_MAP",
		"BEGIN_MESSAGE_MAP", "BEGIN_PROPPAGEIDS",
	}
	eventTableEnd = []string{
		"END_EVENT_TABLE", "END_DISPATCH_MAP", "END_EVENT_MAP",
		"END_MESSAGE_MAP", "END_PROPPAGEIDS",
	}
)

// Enhancer holds the state carried between lines of one input.
type Enhancer struct {
	dialect  lexer.Dialect
	settings Settings

	lineNumber   int
	bracketCount int
	isInComment  bool
	isInQuote    bool
	quoteChar    byte

	switchDepth           int
	lookingForCaseBracket bool
	unindentNextLine      bool
	shouldIndentLine      bool
	sw                    switchState
	switchStack           []switchState

	nextLineIsEventIndent   bool
	isInEventTable          bool
	nextLineIsDeclareIndent bool
	isInDeclareSection      bool
}

// New returns an enhancer for one input.
func New(d lexer.Dialect, s Settings) *Enhancer {
	if s.IndentLength <= 0 {
		s.IndentLength = 4
	}
	return &Enhancer{dialect: d, settings: s, quoteChar: '\''}
}

// LineNumber returns the number of lines enhanced so far.
func (e *Enhancer) LineNumber() int {
	return e.lineNumber
}

// Enhance returns line with case blocks unindented and macro tables
// indented. inPreprocessor and inSQL describe the line as the formatter saw
// it.
func (e *Enhancer) Enhance(line string, inPreprocessor, inSQL bool) string {
	isSpecialChar := false
	e.shouldIndentLine = true
	e.lineNumber++

	if e.nextLineIsEventIndent {
		e.isInEventTable = true
		e.nextLineIsEventIndent = false
	}
	if e.nextLineIsDeclareIndent {
		e.isInDeclareSection = true
		e.nextLineIsDeclareIndent = false
	}

	if line == "" && !e.isInEventTable && !e.isInDeclareSection && !e.settings.EmptyLineFill {
		return line
	}

	// a bracket attached to the previous case label
	if e.unindentNextLine {
		e.sw.unindentDepth++
		e.sw.unindentCase = true
		e.unindentNextLine = false
	}

	d := e.dialect
	for i := 0; i < len(line); i++ {
		ch := line[i]

		if lexer.IsWhiteSpace(ch) {
			continue
		}
		if isSpecialChar {
			isSpecialChar = false
			continue
		}
		if !e.isInComment && lexer.HasPrefixAt(line, i, `\\`) {
			i++
			continue
		}
		if !e.isInComment && ch == '\\' {
			isSpecialChar = true
			continue
		}

		if !e.isInComment && (ch == '"' || ch == '\'') {
			if !e.isInQuote {
				e.quoteChar = ch
				e.isInQuote = true
			} else if e.quoteChar == ch {
				e.isInQuote = false
				continue
			}
		}
		if e.isInQuote {
			continue
		}

		if !e.isInComment && lexer.HasPrefixAt(line, i, lexer.OpenLineComment) {
			break
		}
		if !e.isInComment && lexer.HasPrefixAt(line, i, lexer.OpenComment) {
			e.isInComment = true
			i++
			continue
		}
		if e.isInComment && lexer.HasPrefixAt(line, i, lexer.CloseComment) {
			e.isInComment = false
			i++
			continue
		}
		if e.isInComment {
			continue
		}

		switch ch {
		case '{':
			e.bracketCount++
		case '}':
			e.bracketCount--
		}

		isPotentialKeyword := d.IsCharPotentialHeader(line, i)

		if isPotentialKeyword {
			if e.findAnyKeyword(line, i, eventTableBegin) {
				e.nextLineIsEventIndent = true
				break
			}
			if e.findAnyKeyword(line, i, eventTableEnd) {
				e.isInEventTable = false
				break
			}
		}

		if inSQL {
			if e.isDeclareSection(line, i, "BEGIN") {
				e.nextLineIsDeclareIndent = true
			}
			if e.isDeclareSection(line, i, "END") {
				e.isInDeclareSection = false
			}
			break
		}

		if isPotentialKeyword && d.FindKeyword(line, i, lexer.Switch) {
			e.switchDepth++
			e.switchStack = append(e.switchStack, e.sw)
			e.sw.bracketCount = 0
			// unindentCase carries over until the end of the switch
			e.sw.unindentCase = false
			i += len(lexer.Switch) - 1
			continue
		}

		// only unindented switch statements from here on
		if e.settings.CaseIndent || e.switchDepth == 0 || (inPreprocessor && !e.settings.PreprocessorIndent) {
			if isPotentialKeyword {
				i += len(d.CurrentWord(line, i)) - 1
			}
			continue
		}

		line, i = e.processSwitchBlock(line, i)
	}

	if e.isInEventTable || e.isInDeclareSection {
		if line == "" || line[0] != '#' {
			line = e.indentLine(line, 1)
		}
	}

	if e.shouldIndentLine && e.sw.unindentDepth > 0 {
		line, _ = e.unindentLine(line, e.sw.unindentDepth)
	}
	return line
}

func (e *Enhancer) findAnyKeyword(line string, i int, keywords []string) bool {
	for _, kw := range keywords {
		if e.dialect.FindKeyword(line, i, kw) {
			return true
		}
	}
	return false
}

// processSwitchBlock handles the character at line[i] inside a switch and
// returns the possibly unindented line with the index to continue from.
func (e *Enhancer) processSwitchBlock(line string, i int) (string, int) {
	d := e.dialect
	isPotentialKeyword := d.IsCharPotentialHeader(line, i)

	if line[i] == '{' {
		e.sw.bracketCount++
		// the first bracket after a case label
		if e.lookingForCaseBracket {
			e.sw.unindentCase = true
			e.sw.unindentDepth++
			e.lookingForCaseBracket = false
		}
		return line, i
	}

	e.lookingForCaseBracket = false

	if line[i] == '}' {
		e.sw.bracketCount--
		if e.sw.bracketCount == 0 {
			// end of the switch
			lineUnindent := e.sw.unindentDepth
			if first := strings.IndexFunc(line, notBlank); first == i && len(e.switchStack) > 0 {
				lineUnindent = e.switchStack[len(e.switchStack)-1].unindentDepth
			}
			if e.shouldIndentLine {
				if lineUnindent > 0 {
					var erased int
					line, erased = e.unindentLine(line, lineUnindent)
					i -= erased
				}
				e.shouldIndentLine = false
			}

			e.switchDepth--
			if n := len(e.switchStack); n > 0 {
				e.sw = e.switchStack[n-1]
				e.switchStack = e.switchStack[:n-1]
			} else {
				e.sw = switchState{}
			}
		}
		return line, i
	}

	if isPotentialKeyword && (d.FindKeyword(line, i, lexer.Case) || d.FindKeyword(line, i, lexer.Default)) {
		if e.sw.unindentCase {
			e.sw.unindentCase = false
			e.sw.unindentDepth--
		}

		i = findCaseColon(line, i) + 1
		for i < len(line) && lexer.IsWhiteSpace(line[i]) {
			i++
		}

		if i < len(line) && line[i] == '{' {
			e.bracketCount++
			e.sw.bracketCount++
			if !isOneLineBlockReached(line, i) {
				e.unindentNextLine = true
			}
			return line, i
		}

		e.lookingForCaseBracket = true
		// the character after the colon still needs processing
		return line, i - 1
	}

	if isPotentialKeyword {
		i += len(d.CurrentWord(line, i)) - 1
	}
	return line, i
}

// findCaseColon returns the index of the colon that ends the case label
// starting at caseIndex, skipping quoted text and "::".
func findCaseColon(line string, caseIndex int) int {
	inQuote := false
	quote := byte(' ')
	i := caseIndex
	for ; i < len(line); i++ {
		if inQuote {
			switch line[i] {
			case '\\':
				i++
			case quote:
				inQuote = false
				quote = ' '
			}
			continue
		}
		if line[i] == '\'' || line[i] == '"' {
			inQuote = true
			quote = line[i]
			continue
		}
		if line[i] == ':' {
			if lexer.CharAt(line, i+1) == ':' {
				i++
				continue
			}
			break
		}
	}
	return i
}

// isOneLineBlockReached reports whether the bracket at line[start] is
// closed on the same line.
func isOneLineBlockReached(line string, start int) bool {
	inComment := false
	inQuote := false
	quote := byte(' ')
	depth := 1

	for i := start + 1; i < len(line); i++ {
		ch := line[i]
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
		if lexer.HasPrefixAt(line, i, lexer.OpenComment) {
			inComment = true
			i++
			continue
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return true
		}
	}
	return false
}

// isDeclareSection reports whether the line from index on reads
// "EXEC SQL <edge> DECLARE SECTION", ignoring case and spacing.
func (e *Enhancer) isDeclareSection(line string, index int, edge string) bool {
	hits := 0
	for i := index; i < len(line); i++ {
		first := strings.IndexFunc(line[i:], notBlank)
		if first < 0 {
			return false
		}
		i += first
		if line[i] == ';' {
			break
		}
		if !e.dialect.IsCharPotentialHeader(line, i) {
			continue
		}

		word := e.dialect.CurrentWord(line, i)
		switch strings.ToUpper(word) {
		case "EXEC", "SQL":
		case "DECLARE", "SECTION", edge:
			hits++
		default:
			return false
		}
		i += len(word) - 1
	}
	return hits == 3
}

func (e *Enhancer) indentLine(line string, indent int) string {
	if line == "" && !e.settings.EmptyLineFill {
		return line
	}
	if e.settings.UseTabs {
		return strings.Repeat("\t", indent) + line
	}
	return strings.Repeat(" ", indent*e.settings.IndentLength) + line
}

// unindentLine removes indent units from the start of line and returns the
// result with the number of bytes removed. A line without enough leading
// whitespace is left alone.
func (e *Enhancer) unindentLine(line string, unindent int) (string, int) {
	whitespace := strings.IndexFunc(line, notBlank)
	if whitespace < 0 {
		whitespace = len(line)
	}
	if whitespace == 0 {
		return line, 0
	}

	erase := unindent * e.settings.IndentLength
	if e.settings.UseTabs {
		erase = unindent
	}
	if erase > whitespace {
		return line, 0
	}
	return line[erase:], erase
}

func notBlank(r rune) bool {
	return r != ' ' && r != '\t'
}
