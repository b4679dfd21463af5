// Package formatter rewrites source code one character at a time: it places
// brackets, breaks and joins lines, pads operators and parens, aligns
// pointers and adds brackets to bare statements. Each rewritten line is
// handed to the indentation engine and then to the enhancer before it is
// returned.
//
// The Formatter keeps exactly one finished line ready. NextLine drives the
// character loop until a line break is registered, then indents and returns
// the line that break completed. A blank line requested by break-blocks is
// returned first, ahead of the pending line.
package formatter

import (
	"errors"

	"github.com/hassan/stylefmt/internal/beautifier"
	"github.com/hassan/stylefmt/internal/bracket"
	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/enhancer"
	"github.com/hassan/stylefmt/internal/lexer"
	"github.com/hassan/stylefmt/internal/source"
)

// ErrChecksumMismatch reports that the non-blank characters written differ
// from the non-blank characters read plus the brackets that were added.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// npos marks an unset column.
const npos = -1

// Formatter holds the reformatting state of one input.
type Formatter struct {
	opts     config.Options
	dialect  lexer.Dialect
	catalog  *lexer.Catalog
	src      source.Iterator
	beaut    *beautifier.Beautifier
	enhancer *enhancer.Enhancer

	// hints is shared with the beautifier around every Beautify call.
	hints beautifier.Hints

	bracketMode          config.BracketMode
	pointerAlign         config.PointerAlign
	referenceAlign       config.PointerAlign
	breakOneLineBlocks   bool
	breakOneLineStmts    bool
	breakBlocks          bool
	breakClosingBlocks   bool
	breakClosingBrackets bool
	attachClosingBracket bool

	brackets   *bracket.Stack
	parenStack []int

	readyFormattedLine string
	currentLine        string
	formattedLine      string
	currentHeader      string
	previousOperator   string

	currentChar         byte
	previousChar        byte
	previousNonWSChar   byte
	previousCommandChar byte
	quoteChar           byte

	charNum                 int
	runInIndentChars        int
	nextLineSpacePadNum     int
	preprocBracketStackSize int
	spacePadNum             int
	tabIncrementIn          int
	templateDepth           int
	leadingSpaces           int
	formattedLineCommentNum int
	firstBracketNum         int
	previousReadyLength     int
	previousBracketType     bracket.Type

	checksumIn  int64
	checksumOut int64

	isVirgin                  bool
	isInLineComment           bool
	isInComment               bool
	noTrimCommentContinuation bool
	isInPreprocessor          bool
	isInPreprocessorBeautify  bool
	isInTemplate              bool
	doesLineStartComment      bool
	lineEndsInCommentOnly     bool
	lineIsLineCommentOnly     bool
	lineIsEmpty               bool
	isInQuote                 bool
	isInVerbatimQuote         bool
	haveLineContinuationChar  bool
	isInQuoteContinuation     bool
	isSpecialChar             bool
	isNonParenHeader          bool
	foundQuestionMark         bool
	foundPreDefinitionHeader  bool
	foundNamespaceHeader      bool
	foundClassHeader          bool
	foundStructHeader         bool
	foundInterfaceHeader      bool
	foundPreCommandHeader     bool
	foundCastOperator         bool
	foundClosingHeader        bool
	isInLineBreak             bool
	endOfCodeReached          bool
	lineCommentNoIndent       bool
	isInExecSQL               bool
	isInAsm                   bool
	isInAsmOneLine            bool
	isInAsmBlock              bool
	isLineReady               bool
	isPrevBracketBlockRelated bool
	isInPotentialCalculation  bool
	isInRunIn                 bool
	currentLineBeginsBracket  bool
	shouldReparseCurrentChar  bool
	needHeaderOpeningBracket  bool
	shouldBreakLineAtNextChar bool
	passedSemicolon           bool
	passedColon               bool
	breakCurrentOneLineBlock  bool
	prependEmptyLine          bool
	appendOpeningBracket      bool
	isInHeader                bool
	isInCase                  bool
	isJavaStaticConstructor   bool

	prependPostBlockEmptyLine bool
	appendPostBlockEmptyLine  bool

	// "immediately post" flags are raised while a construct is consumed and
	// turn into their "char immediately post" twins at the next character.
	isImmediatelyPostCommentOnly     bool
	isImmediatelyPostEmptyLine       bool
	isImmediatelyPostNonInStmt       bool
	isImmediatelyPostComment         bool
	isImmediatelyPostLineComment     bool
	isImmediatelyPostEmptyBlock      bool
	isImmediatelyPostPreprocessor    bool
	isImmediatelyPostReturn          bool
	isImmediatelyPostOperator        bool
	isImmediatelyPostPtrOrRef        bool
	isImmediatelyPostHeader          bool
	isCharImmediatelyPostNonInStmt   bool
	isCharImmediatelyPostComment     bool
	isPreviousCharPostComment        bool
	isCharImmediatelyPostLineComment bool
	isCharImmediatelyPostOpenBlock   bool
	isCharImmediatelyPostCloseBlock  bool
	isCharImmediatelyPostTemplate    bool
	isCharImmediatelyPostReturn      bool
	isCharImmediatelyPostOperator    bool
	isCharImmediatelyPostPtrOrRef    bool
}

// New returns a Formatter for the dialect. opts should already be resolved.
func New(opts config.Options, d lexer.Dialect) *Formatter {
	f := &Formatter{
		opts:                 opts,
		dialect:              d,
		catalog:              lexer.FormatterCatalog(d),
		beaut:                beautifier.New(opts, d),
		bracketMode:          opts.Brackets,
		pointerAlign:         opts.AlignPointer,
		referenceAlign:       opts.ReferenceAlignment(),
		breakOneLineBlocks:   opts.BreakOneLineBlocks(),
		breakOneLineStmts:    opts.BreakOneLineStatements(),
		breakBlocks:          opts.BreakBlocks || opts.BreakAllBlocks,
		breakClosingBlocks:   opts.BreakAllBlocks,
		breakClosingBrackets: opts.BreakClosingBrackets,
		attachClosingBracket: opts.AttachClosingBracket,
	}
	if f.bracketMode == "" {
		f.bracketMode = config.BracketsNone
	}
	if f.pointerAlign == "" {
		f.pointerAlign = config.AlignNone
	}
	if f.referenceAlign == "" {
		f.referenceAlign = config.AlignNone
	}
	f.reset()
	return f
}

// Init attaches src and clears all state left from a previous input.
func (f *Formatter) Init(src source.Iterator) {
	f.src = src
	f.beaut.Init(src)
	f.enhancer = enhancer.New(f.dialect, enhancer.Settings{
		IndentLength:       f.beaut.IndentLength(),
		UseTabs:            f.beaut.IndentString() == "\t",
		CaseIndent:         f.opts.IndentCases,
		PreprocessorIndent: f.opts.IndentPreprocessor,
		EmptyLineFill:      f.opts.FillEmptyLines,
	})
	f.reset()
}

func (f *Formatter) reset() {
	o := Formatter{
		opts:                 f.opts,
		dialect:              f.dialect,
		catalog:              f.catalog,
		src:                  f.src,
		beaut:                f.beaut,
		enhancer:             f.enhancer,
		bracketMode:          f.bracketMode,
		pointerAlign:         f.pointerAlign,
		referenceAlign:       f.referenceAlign,
		breakOneLineBlocks:   f.breakOneLineBlocks,
		breakOneLineStmts:    f.breakOneLineStmts,
		breakBlocks:          f.breakBlocks,
		breakClosingBlocks:   f.breakClosingBlocks,
		breakClosingBrackets: f.breakClosingBrackets,
		attachClosingBracket: f.attachClosingBracket,
	}
	*f = o

	f.brackets = bracket.NewStack()
	f.parenStack = []int{0}
	f.currentChar = ' '
	f.previousChar = ' '
	f.previousCommandChar = ' '
	f.previousNonWSChar = ' '
	f.quoteChar = '"'
	f.firstBracketNum = npos
	f.previousReadyLength = npos
	f.isVirgin = true
}

// HasMoreLines reports whether NextLine has output left.
func (f *Formatter) HasMoreLines() bool {
	return !f.endOfCodeReached
}

// IsLineReady reports whether a formatted line is still waiting after the
// input ran out. The caller drains it with one more NextLine.
func (f *Formatter) IsLineReady() bool {
	return f.isLineReady
}

// ChecksumIn returns the sum of the non-blank input bytes, including
// brackets added to bare statements.
func (f *Formatter) ChecksumIn() int64 { return f.checksumIn }

// ChecksumOut returns the sum of the non-blank output bytes.
func (f *Formatter) ChecksumOut() int64 { return f.checksumOut }

// ChecksumDiff returns ChecksumOut minus ChecksumIn. Zero means no
// character was lost or invented.
func (f *Formatter) ChecksumDiff() int64 { return f.checksumOut - f.checksumIn }

// LineEndFormat returns the configured output line end.
func (f *Formatter) LineEndFormat() config.LineEnd { return f.opts.LineEnd }

// VerifyChecksum returns ErrChecksumMismatch when ChecksumDiff is not zero.
func (f *Formatter) VerifyChecksum() error {
	if f.ChecksumDiff() != 0 {
		return ErrChecksumMismatch
	}
	return nil
}

// NextLine returns the next formatted and indented line.
func (f *Formatter) NextLine() string {
	isInVirginLine := f.isVirgin
	f.isCharImmediatelyPostComment = false
	f.isPreviousCharPostComment = false
	f.isCharImmediatelyPostLineComment = false
	f.isCharImmediatelyPostOpenBlock = false
	f.isCharImmediatelyPostCloseBlock = false
	f.isCharImmediatelyPostTemplate = false

	for !f.isLineReady {
		if f.shouldReparseCurrentChar {
			f.shouldReparseCurrentChar = false
		} else if !f.getNextChar() {
			f.breakLine()
			continue
		} else {
			f.startChar(isInVirginLine)
		}
		f.formatChar(isInVirginLine)
	}

	return f.emitLine()
}

// startChar updates the per-character flags after a new character is read.
func (f *Formatter) startChar(isInVirginLine bool) {
	// a '{' opening the file is treated as a block
	if isInVirginLine && f.currentChar == '{' && f.currentLineBeginsBracket && f.previousCommandChar == ' ' {
		f.previousCommandChar = '{'
	}
	if f.isInRunIn {
		f.isInLineBreak = false
	}
	if !lexer.IsWhiteSpace(f.currentChar) {
		f.isInRunIn = false
	}

	f.isPreviousCharPostComment = f.isCharImmediatelyPostComment
	f.isCharImmediatelyPostComment = false
	f.isCharImmediatelyPostTemplate = false
	f.isCharImmediatelyPostReturn = false
	f.isCharImmediatelyPostOperator = false
	f.isCharImmediatelyPostPtrOrRef = false
	f.isCharImmediatelyPostOpenBlock = false
	f.isCharImmediatelyPostCloseBlock = false
}

// emitLine indents the ready line, or a queued blank line ahead of it.
func (f *Formatter) emitLine() string {
	var out string
	readyLength := len(trim(f.readyFormattedLine))

	if f.prependEmptyLine && readyLength > 0 && f.previousReadyLength != 0 {
		// the ready line stays queued for the next call
		f.isLineReady = true
		out = f.beautify("")
		f.previousReadyLength = 0
		out = f.enhancer.Enhance(out, f.isInPreprocessorBeautify, f.hints.InSQL)
	} else {
		f.isLineReady = false
		f.hints.RunInIndent = f.runInIndentChars
		out = f.beautify(f.readyFormattedLine)
		f.previousReadyLength = readyLength

		// column 1 line comments are left as they are
		if !f.hints.LineCommentNoBeautify {
			out = f.enhancer.Enhance(out, f.isInPreprocessorBeautify, f.hints.InSQL)
		}

		f.runInIndentChars = 0
		f.hints.LineCommentNoBeautify = f.lineCommentNoIndent
		f.lineCommentNoIndent = false

		if f.isCharImmediatelyPostNonInStmt {
			f.hints.NonInStatementArray = false
			f.isCharImmediatelyPostNonInStmt = false
		}

		f.isInPreprocessorBeautify = f.isInPreprocessor
		f.hints.InSQL = f.isInExecSQL
	}

	f.prependEmptyLine = false
	f.checksumOut += checksum(out)
	return out
}

// beautify indents line with the shared hints and takes back whatever the
// beautifier changed in them.
func (f *Formatter) beautify(line string) string {
	f.beaut.SetHints(f.hints)
	out := f.beaut.Beautify(line)
	f.hints = f.beaut.Hints()
	return out
}

func checksum(s string) int64 {
	var sum int64
	for i := 0; i < len(s); i++ {
		if !lexer.IsWhiteSpace(s[i]) {
			sum += int64(s[i])
		}
	}
	return sum
}
