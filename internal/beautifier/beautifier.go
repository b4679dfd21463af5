// Package beautifier computes the leading indentation of each source line.
//
// The Beautifier is a line-at-a-time state machine. It never looks ahead:
// everything it knows about enclosing blocks, open parens, continued
// statements and pending headers is carried in stacks from one call of
// Beautify to the next. The token reformatter drives it one formatted line
// at a time and passes what it alone knows through Hints.
package beautifier

import (
	"strings"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
	"github.com/hassan/stylefmt/internal/source"
)

// Hints carries per-line facts known to the token reformatter.
type Hints struct {
	// LineNumber is the number of the input line being formatted.
	LineNumber int

	// RunInIndent is the width of a run-in bracket that starts the line.
	RunInIndent int

	// NonInStatementBracket is the column of the bracket that opened a
	// non-in-statement array.
	NonInStatementBracket int

	// LineCommentNoBeautify leaves a column-1 line comment where it is.
	LineCommentNoBeautify bool

	// NonInStatementArray is set while inside an array whose elements are
	// indented as a block. The beautifier clears it when it meets an enum.
	NonInStatementArray bool

	SharpAccessor      bool
	SharpDelegate      bool
	InExtern           bool
	InSQL              bool
	InIndentableStruct bool
}

// Beautifier holds the indentation state of one input.
type Beautifier struct {
	dialect lexer.Dialect
	catalog *lexer.Catalog
	src     source.Iterator

	indentString         string
	indentLength         int
	forceTabs            bool
	maxInStatementIndent int
	minConditionalIndent int
	classInitializerTabs int

	classIndent        bool
	switchIndent       bool
	caseIndent         bool
	bracketIndent      bool
	blockIndent        bool
	namespaceIndent    bool
	labelIndent        bool
	preprocessorIndent bool
	emptyLineFill      bool

	hints Hints

	// Beautifiers that take over while inside #if/#else branches and
	// multi-line #defines.
	waiting        []*Beautifier
	active         []*Beautifier
	waitingLengths []int
	activeLengths  []int

	headerStack                     []string
	tempStacks                      [][]string
	blockParenDepthStack            []int
	blockStatementStack             []bool
	parenStatementStack             []bool
	bracketBlockStateStack          []bool
	inStatementIndentStack          []int
	inStatementIndentStackSizeStack []int
	parenIndentStack                []int

	currentHeader          string
	previousLastLineHeader string
	probationHeader        string
	lastLineHeader         string

	isInQuote                  bool
	isInVerbatimQuote          bool
	haveLineContinuationChar   bool
	isInAsm                    bool
	isInAsmOneLine             bool
	isInAsmBlock               bool
	isInComment                bool
	isInHorstmannComment       bool
	isInCase                   bool
	isInQuestion               bool
	isInStatement              bool
	isInHeader                 bool
	isInTemplate               bool
	isInDefine                 bool
	isInDefineDefinition       bool
	isInClassInitializer       bool
	isInClassHeaderTab         bool
	isInEnum                   bool
	isInConditional            bool
	lineOpensComment           bool
	backslashEndsPrevLine      bool
	blockCommentNoIndent       bool
	blockCommentNoBeautify     bool
	previousLineProbationTab   bool
	lineBeginsWithBracket      bool
	shouldIndentBrackettedLine bool
	isInClass                  bool
	isInSwitch                 bool
	foundPreCommandHeader      bool

	tabCount                   int
	spaceTabCount              int
	lineOpeningBlocksNum       int
	lineClosingBlocksNum       int
	parenDepth                 int
	blockTabCount              int
	templateDepth              int
	prevFinalLineSpaceTabCount int
	prevFinalLineTabCount      int
	defineTabCount             int

	quoteChar         byte
	prevNonSpaceCh    byte
	currentNonSpaceCh byte
	currentNonLegalCh byte
	prevNonLegalCh    byte
}

// New returns a Beautifier for the dialect configured from resolved options.
func New(opts config.Options, d lexer.Dialect) *Beautifier {
	b := &Beautifier{
		dialect:              d,
		catalog:              lexer.BeautifierCatalog(d),
		indentString:         opts.IndentString(),
		indentLength:         opts.IndentLength,
		forceTabs:            opts.ForceTabs(),
		maxInStatementIndent: opts.MaxInStatementIndent,
		minConditionalIndent: opts.MinConditionalIndentLength(),
		classInitializerTabs: 1,
		classIndent:          opts.IndentClasses,
		switchIndent:         opts.IndentSwitches,
		caseIndent:           opts.IndentCases,
		bracketIndent:        opts.IndentBrackets,
		blockIndent:          opts.IndentBlocks,
		namespaceIndent:      opts.IndentNamespaces,
		labelIndent:          opts.IndentLabels,
		preprocessorIndent:   opts.IndentPreprocessor,
		emptyLineFill:        opts.FillEmptyLines,
	}
	if b.indentLength <= 0 {
		b.indentLength = 4
		b.indentString = "    "
	}
	b.reset()
	return b
}

// Init attaches src and clears all state left from a previous input.
func (b *Beautifier) Init(src source.Iterator) {
	b.src = src
	b.reset()
}

// HasMoreLines reports whether the attached iterator has input left.
func (b *Beautifier) HasMoreLines() bool {
	return b.src != nil && b.src.HasMoreLines()
}

// NextLine indents the next input line as is, without reformatting it.
func (b *Beautifier) NextLine() string {
	b.hints.LineNumber++
	return b.Beautify(b.src.NextLine(false))
}

// SetHints replaces the per-line hints used by the next Beautify call.
func (b *Beautifier) SetHints(h Hints) {
	b.hints = h
}

// Hints returns the current hints, including any the beautifier cleared.
func (b *Beautifier) Hints() Hints {
	return b.hints
}

// IndentLength returns the width of one indent unit in columns.
func (b *Beautifier) IndentLength() int { return b.indentLength }

// IndentString returns the text of one indent unit.
func (b *Beautifier) IndentString() string { return b.indentString }

// InEnum reports whether the last line left an enum body open.
func (b *Beautifier) InEnum() bool { return b.isInEnum }

func (b *Beautifier) reset() {
	b.waiting = nil
	b.active = nil
	b.waitingLengths = nil
	b.activeLengths = nil

	b.headerStack = nil
	b.tempStacks = [][]string{nil}
	b.blockParenDepthStack = nil
	b.blockStatementStack = nil
	b.parenStatementStack = nil
	b.bracketBlockStateStack = []bool{true}
	b.inStatementIndentStack = nil
	b.inStatementIndentStackSizeStack = []int{0}
	b.parenIndentStack = nil

	b.previousLastLineHeader = ""
	b.currentHeader = ""
	b.probationHeader = ""
	b.lastLineHeader = ""

	b.isInQuote = false
	b.isInVerbatimQuote = false
	b.haveLineContinuationChar = false
	b.isInAsm = false
	b.isInAsmOneLine = false
	b.isInAsmBlock = false
	b.isInComment = false
	b.isInHorstmannComment = false
	b.isInStatement = false
	b.isInCase = false
	b.isInQuestion = false
	b.isInClassInitializer = false
	b.isInClassHeaderTab = false
	b.isInEnum = false
	b.isInHeader = false
	b.isInTemplate = false
	b.isInConditional = false
	b.backslashEndsPrevLine = false
	b.lineOpensComment = false
	b.isInDefine = false
	b.isInDefineDefinition = false
	b.blockCommentNoIndent = false
	b.blockCommentNoBeautify = false
	b.previousLineProbationTab = false
	b.lineBeginsWithBracket = false
	b.shouldIndentBrackettedLine = true
	b.isInClass = false
	b.isInSwitch = false
	b.foundPreCommandHeader = false

	b.tabCount = 0
	b.spaceTabCount = 0
	b.lineOpeningBlocksNum = 0
	b.lineClosingBlocksNum = 0
	b.templateDepth = 0
	b.parenDepth = 0
	b.blockTabCount = 0
	b.prevFinalLineSpaceTabCount = 0
	b.prevFinalLineTabCount = 0
	b.defineTabCount = 0

	b.prevNonSpaceCh = '{'
	b.currentNonSpaceCh = '{'
	b.prevNonLegalCh = '{'
	b.currentNonLegalCh = '{'
	b.quoteChar = ' '

	b.hints = Hints{}
}

// clone returns an independent copy of the indentation state. The copy
// shares the immutable catalog but none of the stacks, and it has no
// preprocessor beautifiers of its own.
func (b *Beautifier) clone() *Beautifier {
	c := *b
	c.waiting = nil
	c.active = nil
	c.waitingLengths = nil
	c.activeLengths = nil

	c.headerStack = cloneSlice(b.headerStack)
	c.tempStacks = make([][]string, len(b.tempStacks))
	for i, s := range b.tempStacks {
		c.tempStacks[i] = cloneSlice(s)
	}
	c.blockParenDepthStack = cloneSlice(b.blockParenDepthStack)
	c.blockStatementStack = cloneSlice(b.blockStatementStack)
	c.parenStatementStack = cloneSlice(b.parenStatementStack)
	c.bracketBlockStateStack = cloneSlice(b.bracketBlockStateStack)
	c.inStatementIndentStack = cloneSlice(b.inStatementIndentStack)
	c.inStatementIndentStackSizeStack = cloneSlice(b.inStatementIndentStackSizeStack)
	c.parenIndentStack = cloneSlice(b.parenIndentStack)
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Beautify returns originalLine with its leading whitespace replaced by the
// indentation the current state calls for.
func (b *Beautifier) Beautify(originalLine string) string {
	var line string
	isInQuoteContinuation := b.isInVerbatimQuote || b.haveLineContinuationChar

	b.currentHeader = ""
	b.lastLineHeader = ""
	lineStartsInComment := b.isInComment
	b.blockCommentNoBeautify = b.blockCommentNoIndent
	b.isInClass = false
	b.isInSwitch = false
	b.lineBeginsWithBracket = false
	b.shouldIndentBrackettedLine = true
	b.isInAsmOneLine = false
	b.lineOpensComment = false
	b.previousLineProbationTab = false
	b.haveLineContinuationChar = false
	b.tabCount = 0
	b.spaceTabCount = 0
	b.lineOpeningBlocksNum = 0
	b.lineClosingBlocksNum = 0

	switch {
	case isInQuoteContinuation:
		// a lone space is a placeholder added by the formatter
		if originalLine != " " {
			line = originalLine
		}
	case b.isInComment || b.hints.InSQL:
		line = strings.TrimRight(originalLine, " \t")
	default:
		line = trim(originalLine)
		if len(line) > 0 && line[0] == '{' {
			b.lineBeginsWithBracket = true
		}
		b.isInHorstmannComment = false
		if j := indexNotAny(line, " \t{", 0); j >= 0 && lexer.HasPrefixAt(line, j, lexer.OpenComment) {
			b.lineOpensComment = true
			if k := indexNotAny(line, " \t", 0); k >= 0 && line[k] == '{' {
				b.isInHorstmannComment = true
			}
		}
	}

	if line == "" {
		switch {
		case b.backslashEndsPrevLine:
			line = " "
		case b.emptyLineFill && !isInQuoteContinuation && (len(b.headerStack) > 0 || b.isInEnum):
			return b.preLineWS(b.prevFinalLineSpaceTabCount, b.prevFinalLineTabCount)
		default:
			return line
		}
	}

	// preprocessor directives, except the ones indented like comments
	if !b.isInComment && ((line[0] == '#' && !b.isIndentedPreprocessor(line, 0)) || b.backslashEndsPrevLine) {
		if line[0] == '#' {
			b.processPreprocessor(line)
		}
		b.backslashEndsPrevLine = line[len(line)-1] == '\\'

		// the last line of a multi-line #define is indented by its own beautifier
		if !b.backslashEndsPrevLine && b.isInDefineDefinition && !b.isInDefine {
			b.isInDefineDefinition = false
			if n := len(b.active); n > 0 {
				define := b.active[n-1]
				b.active = b.active[:n-1]
				return define.Beautify(line)
			}
		}

		if !b.isInDefine && !b.isInDefineDefinition {
			return originalLine
		}
	}

	// a beautifier of an active preprocessor branch takes over
	if !b.isInDefine && len(b.active) > 0 {
		top := b.active[len(b.active)-1]
		top.hints = b.hints
		return top.Beautify(originalLine)
	}

	if n := len(b.inStatementIndentStack); n > 0 {
		b.spaceTabCount = b.inStatementIndentStack[n-1]
	}

	b.computePreliminaryIndentation()

	iPrelim := len(b.headerStack)

	switch {
	case !lineStartsInComment &&
		b.dialect.IsC() &&
		b.isInClass &&
		b.classIndent &&
		b.headerFromTop(2) == lexer.Class &&
		b.headerFromTop(1) == lexer.OpenBracket &&
		line[0] == '}' &&
		lastBool(b.bracketBlockStateStack):
		b.tabCount--
	case !lineStartsInComment &&
		b.isInSwitch &&
		b.switchIndent &&
		b.headerFromTop(2) == lexer.Switch &&
		b.headerFromTop(1) == lexer.OpenBracket &&
		line[0] == '}':
		b.tabCount--
	}

	if b.isInClassInitializer {
		switch {
		case lineStartsInComment || b.lineOpensComment:
			if !b.lineBeginsWithBracket {
				b.tabCount--
			}
		case b.dialect.IsC() && !isClassAccessModifier(line):
			b.isInClassHeaderTab = true
			b.tabCount += b.classInitializerTabs
		case b.blockIndent:
			if !b.lineBeginsWithBracket {
				b.tabCount++
			}
		}
	} else if lineStartsInComment && b.isInHorstmannComment && b.bracketIndent {
		b.tabCount++
	}

	// a run-in comment inside an indented class
	if b.isInClass &&
		b.classIndent &&
		b.isInHorstmannComment &&
		!b.lineOpensComment &&
		len(b.headerStack) > 1 &&
		b.headerFromTop(2) == lexer.Class {
		b.tabCount--
	}

	// a header on the stack may be removed again by a one-line block
	isInExtraHeaderIndent := len(b.headerStack) > 0 &&
		line[0] == '{' &&
		(b.headerFromTop(1) != lexer.OpenBracket || b.probationHeader != "")

	if b.isInConditional {
		b.tabCount--
	}

	b.parseCurrentLine(line)

	oneLineBlock := b.lineOpeningBlocksNum > 0 && b.lineOpeningBlocksNum <= b.lineClosingBlocksNum

	switch {
	case !lineStartsInComment &&
		!b.blockIndent &&
		line[0] == '{' &&
		len(b.headerStack) < iPrelim &&
		isInExtraHeaderIndent &&
		oneLineBlock &&
		b.shouldIndentBrackettedLine:
		b.tabCount--

	// a '{' that follows a header rather than another '{'
	case !lineStartsInComment &&
		!b.blockIndent &&
		line[0] == '{' &&
		!oneLineBlock &&
		(len(b.headerStack) > 1 && b.headerFromTop(2) != lexer.OpenBracket) &&
		b.shouldIndentBrackettedLine:
		b.tabCount--

	// more than one header on the line
	case !lineStartsInComment &&
		len(b.headerStack) > iPrelim+1 &&
		!b.blockIndent &&
		line[0] == '{' &&
		!oneLineBlock &&
		(len(b.headerStack) > 2 && b.headerFromTop(3) != lexer.OpenBracket) &&
		b.shouldIndentBrackettedLine:
		b.tabCount--

	case !lineStartsInComment &&
		line[0] == '}' &&
		b.shouldIndentBrackettedLine:
		b.tabCount--

	case !lineStartsInComment &&
		b.lineOpeningBlocksNum > 0 &&
		b.lineOpeningBlocksNum == b.lineClosingBlocksNum &&
		b.previousLineProbationTab:
		b.tabCount--

	// class continuation lines
	case !lineStartsInComment &&
		!b.lineOpensComment &&
		b.isInClassHeaderTab &&
		!b.blockIndent &&
		b.lineOpeningBlocksNum == 0 &&
		b.lineOpeningBlocksNum == b.lineClosingBlocksNum &&
		b.headerFromTop(1) == lexer.Class:
		b.tabCount--
	}

	if b.tabCount < 0 {
		b.tabCount = 0
	}

	if !lineStartsInComment &&
		b.bracketIndent &&
		b.shouldIndentBrackettedLine &&
		(line[0] == '{' || line[0] == '}') {
		b.tabCount++
	}

	if b.isInDefine {
		if line[0] == '#' {
			// '#' and 'define' may be separated by blanks
			preproc := trim(line[1:])
			if strings.HasPrefix(preproc, "define") {
				if n := len(b.inStatementIndentStack); n > 0 && b.inStatementIndentStack[n-1] > 0 {
					b.defineTabCount = b.tabCount
				} else {
					b.defineTabCount = b.tabCount - 1
					b.tabCount--
				}
			}
		}
		b.tabCount -= b.defineTabCount
	}

	if b.tabCount < 0 {
		b.tabCount = 0
	}

	if b.hints.LineCommentNoBeautify || b.blockCommentNoBeautify || isInQuoteContinuation {
		b.tabCount = 0
		b.spaceTabCount = 0
	}

	if b.forceTabs {
		b.tabCount += b.spaceTabCount / b.indentLength
		b.spaceTabCount = b.spaceTabCount % b.indentLength
	}

	out := b.preLineWS(b.spaceTabCount, b.tabCount) + line

	b.prevFinalLineSpaceTabCount = b.spaceTabCount
	b.prevFinalLineTabCount = b.tabCount

	if b.lastLineHeader != "" {
		b.previousLastLineHeader = b.lastLineHeader
	}
	return out
}

func (b *Beautifier) preLineWS(spaces, tabs int) string {
	var sb strings.Builder
	for i := 0; i < tabs; i++ {
		sb.WriteString(b.indentString)
	}
	if spaces > 0 {
		sb.WriteString(strings.Repeat(" ", spaces))
	}
	return sb.String()
}

func (b *Beautifier) computePreliminaryIndentation() {
	for i, h := range b.headerStack {
		b.isInClass = false
		prev := ""
		if i > 0 {
			prev = b.headerStack[i-1]
		}

		if b.blockIndent {
			// blocks of definitions are not indented
			switch h {
			case lexer.Namespace, lexer.Class, lexer.Struct, lexer.Union,
				lexer.Interface, lexer.Throws, lexer.Static:
			default:
				b.tabCount++
			}
		} else if !(i > 0 && prev != lexer.OpenBracket && h == lexer.OpenBracket) {
			b.tabCount++
		}

		if !b.dialect.IsJava() && !b.namespaceIndent && i >= 1 &&
			prev == lexer.Namespace && h == lexer.OpenBracket {
			b.tabCount--
		}

		if b.dialect.IsC() && i >= 1 && prev == lexer.Class && h == lexer.OpenBracket {
			if b.classIndent {
				b.tabCount++
			}
			b.isInClass = true
		} else if b.switchIndent && i > 1 && prev == lexer.Switch && h == lexer.OpenBracket {
			b.tabCount++
			b.isInSwitch = true
		}
	}
}

// processPreprocessor updates the branch beautifiers for a directive line.
//
// On #if the current state is saved in the waiting stack. #else moves the
// saved state to the active stack so the else branch starts from the same
// indentation as the if branch; #elif activates a copy. #endif discards
// everything pushed since the matching #if.
func (b *Beautifier) processPreprocessor(line string) {
	preproc := trim(line[1:])

	switch {
	case b.preprocessorIndent && strings.HasPrefix(preproc, "define") && line[len(line)-1] == '\\':
		if !b.isInDefineDefinition {
			b.isInDefineDefinition = true
			b.active = append(b.active, b.clone())
		} else {
			// the clone that indents the #define
			b.isInDefine = true
		}

	case strings.HasPrefix(preproc, "if"):
		b.waitingLengths = append(b.waitingLengths, len(b.waiting))
		b.activeLengths = append(b.activeLengths, len(b.active))
		if len(b.active) == 0 {
			b.waiting = append(b.waiting, b.clone())
		} else {
			b.waiting = append(b.waiting, b.active[len(b.active)-1].clone())
		}

	case strings.HasPrefix(preproc, "else"):
		if n := len(b.waiting); n > 0 {
			b.active = append(b.active, b.waiting[n-1])
			b.waiting = b.waiting[:n-1]
		}

	case strings.HasPrefix(preproc, "elif"):
		if n := len(b.waiting); n > 0 {
			b.active = append(b.active, b.waiting[n-1].clone())
		}

	case strings.HasPrefix(preproc, "endif"):
		if n := len(b.waitingLengths); n > 0 {
			keep := b.waitingLengths[n-1]
			b.waitingLengths = b.waitingLengths[:n-1]
			if keep < len(b.waiting) {
				b.waiting = b.waiting[:keep]
			}
		}
		if n := len(b.activeLengths); n > 0 {
			keep := b.activeLengths[n-1]
			b.activeLengths = b.activeLengths[:n-1]
			if keep < len(b.active) {
				b.active = b.active[:keep]
			}
		}
	}
}

// headerFromTop returns the k-th header from the top of the header stack,
// 1 being the top, or "" when the stack is shorter.
func (b *Beautifier) headerFromTop(k int) string {
	n := len(b.headerStack)
	if k < 1 || k > n {
		return ""
	}
	return b.headerStack[n-k]
}

func (b *Beautifier) popHeader() {
	if n := len(b.headerStack); n > 0 {
		b.headerStack = b.headerStack[:n-1]
	}
}

func lastBool(s []bool) bool {
	if len(s) == 0 {
		return false
	}
	return s[len(s)-1]
}
