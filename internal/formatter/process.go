package formatter

import (
	"strings"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
)

// formatChar consumes currentChar, and whatever sequence starts with it,
// into formattedLine.
func (f *Formatter) formatChar(isInVirginLine bool) {
	if f.shouldBreakLineAtNextChar && !lexer.IsWhiteSpace(f.currentChar) {
		f.isInLineBreak = true
		f.shouldBreakLineAtNextChar = false
	}

	if f.isInExecSQL && !f.passedSemicolon {
		if f.currentChar == ';' {
			f.passedSemicolon = true
		}
		f.appendCurrentChar(true)
		return
	}

	switch {
	case f.isInLineComment:
		f.formatLineCommentBody()
		return
	case f.isInComment:
		f.formatCommentBody()
		return
	case f.isInQuote:
		f.formatQuoteBody()
		return
	}

	switch {
	case f.isSequenceReached(lexer.OpenLineComment):
		f.formatLineCommentOpener()
		return
	case f.isSequenceReached(lexer.OpenComment):
		f.formatCommentOpener()
		return
	case f.currentChar == '"' || f.currentChar == '\'':
		f.formatQuoteOpener()
		return
	case f.currentChar == '#' && f.isCommentLikeDirective():
		if f.formattedLine != "" && f.formattedLine[0] == '{' {
			f.isInLineBreak = true
			f.isInRunIn = false
		}
		f.isInLineComment = true
		f.appendCurrentChar(true)
		return
	}

	if f.isInPreprocessor || lexer.IsWhiteSpace(f.currentChar) {
		f.appendCurrentChar(true)
		return
	}

	// isInPreprocessor is cleared again when the next line is read
	if f.currentChar == '#' {
		f.isInPreprocessor = true
		if f.formattedLine != "" && f.formattedLine[0] == '{' {
			f.isInLineBreak = true
			f.isInRunIn = false
		}
		f.processPreprocessor()
	}

	f.promotePostFlags()

	if f.isImmediatelyPostHeader {
		f.finishHeader()
	}

	if f.passedSemicolon {
		f.passedSemicolon = false
		if f.parenStack[len(f.parenStack)-1] == 0 && f.currentChar != ';' {
			f.breakAfterSemicolon()
			return
		}
	}

	if f.passedColon {
		f.passedColon = false
		if f.parenStack[len(f.parenStack)-1] == 0 && !f.isBeforeAnyComment() {
			f.shouldReparseCurrentChar = true
			f.isInLineBreak = true
			return
		}
	}

	if !f.isInTemplate && f.currentChar == '<' {
		f.checkIfTemplateOpener()
	}

	f.trackParens()

	if f.currentChar == '{' || f.currentChar == '}' {
		f.handleBracket()
		return
	}

	f.breakAfterBlockOpenOrClose()
	f.isImmediatelyPostEmptyBlock = false

	isPotentialHeader := f.dialect.IsCharPotentialHeader(f.currentLine, f.charNum)
	if isPotentialHeader && !f.isInTemplate {
		if f.formatHeader() {
			return
		}
	}

	if f.isInLineBreak {
		f.breakLine()
		if isInVirginLine {
			f.hints.LineCommentNoBeautify = f.lineCommentNoIndent
			f.lineCommentNoIndent = false
		}
	}

	if f.previousNonWSChar == '}' || f.currentChar == ';' {
		f.endStatement()
	}

	if f.currentChar == ':' && f.breakOneLineStmts {
		f.checkColonBreak()
	}

	if f.currentChar == '?' {
		f.foundQuestionMark = true
	}

	if isPotentialHeader && !f.isInTemplate {
		f.formatWord()
		return
	}

	f.formatOperatorOrChar()
}

// isCommentLikeDirective reports whether the directive at charNum is one
// whose text is kept verbatim like a line comment.
func (f *Formatter) isCommentLikeDirective() bool {
	directive := trim(f.currentLine[f.charNum+1:])
	for _, d := range []string{"region", "endregion", "error", "warning"} {
		if strings.HasPrefix(directive, d) {
			return true
		}
	}
	return false
}

func (f *Formatter) promotePostFlags() {
	if f.isImmediatelyPostComment {
		f.isImmediatelyPostComment = false
		f.isCharImmediatelyPostComment = true
	}
	if f.isImmediatelyPostLineComment {
		f.isImmediatelyPostLineComment = false
		f.isCharImmediatelyPostLineComment = true
	}
	if f.isImmediatelyPostReturn {
		f.isImmediatelyPostReturn = false
		f.isCharImmediatelyPostReturn = true
	}
	if f.isImmediatelyPostOperator {
		f.isImmediatelyPostOperator = false
		f.isCharImmediatelyPostOperator = true
	}
	if f.isImmediatelyPostPtrOrRef {
		f.isImmediatelyPostPtrOrRef = false
		f.isCharImmediatelyPostPtrOrRef = true
	}
}

// finishHeader runs at the first character after a header and its
// condition, where brackets may be added and the statement broken off.
func (f *Formatter) finishHeader() {
	if f.currentChar != '{' && f.opts.AddBrackets {
		if f.addBracketsToStatement() && !f.opts.AddOneLineBrackets {
			if firstText := indexNotBlank(f.currentLine, 0); firstText == f.charNum {
				f.breakCurrentOneLineBlock = true
			}
		}
	}

	// "if (a) b();" is broken after the header, but "else if" is kept
	// together unless break-elseifs asks otherwise.
	if f.breakOneLineStmts && f.isOkToBreakBlock(f.brackets.TopType()) && f.opts.BreakElseIfs {
		f.isInLineBreak = true
	}

	f.isImmediatelyPostHeader = false
}

// breakAfterSemicolon ends the line after a statement. A line-end comment
// behind a one-line block moves up with the statement.
func (f *Formatter) breakAfterSemicolon() {
	if f.brackets.TopType().IsSingleLine() {
		blockEnd := strings.LastIndexByte(f.currentLine, '}')
		if blockEnd >= 0 && f.isBeforeAnyLineEndComment(blockEnd) {
			commentStart := indexNotBlank(f.currentLine, blockEnd+1)
			f.formattedLine += strings.Repeat(" ", f.beaut.IndentLength()-1)
			f.formattedLine += f.currentLine[commentStart:]
			f.currentLine = f.currentLine[:commentStart]
		}
	}

	f.isInExecSQL = false
	f.shouldReparseCurrentChar = true
	f.isInLineBreak = true

	if f.needHeaderOpeningBracket {
		f.isCharImmediatelyPostCloseBlock = true
		f.needHeaderOpeningBracket = false
	}
}

// trackParens keeps the paren depth of the current bracket level. Template
// angle brackets count as parens.
func (f *Formatter) trackParens() {
	top := len(f.parenStack) - 1
	ch := f.currentChar

	if ch == '(' || ch == '[' || (f.isInTemplate && ch == '<') {
		f.parenStack[top]++
		return
	}
	if ch != ')' && ch != ']' && !(f.isInTemplate && ch == '>') {
		return
	}

	f.foundPreCommandHeader = false
	f.parenStack[top]--

	if f.isInTemplate && ch == '>' {
		f.templateDepth--
		if f.templateDepth == 0 {
			f.isInTemplate = false
			f.isCharImmediatelyPostTemplate = true
		}
	}

	// the paren closes a header condition such as "if (...)"
	if f.isInHeader && f.parenStack[top] == 0 {
		f.isInHeader = false
		f.isImmediatelyPostHeader = true
		f.foundQuestionMark = false
	}

	if ch == ')' {
		f.foundCastOperator = false
		if f.parenStack[top] == 0 {
			f.isInAsm = false
		}
	}
}

// breakAfterBlockOpenOrClose breaks the line at the first character after
// a '{' or '}' that ended a block, or starts a run-in.
func (f *Formatter) breakAfterBlockOpenOrClose() {
	top := f.brackets.TopType()

	afterBlock := (f.previousCommandChar == '{' && f.isPrevBracketBlockRelated) ||
		(f.previousCommandChar == '}' &&
			!f.isImmediatelyPostEmptyBlock &&
			f.isPrevBracketBlockRelated &&
			!f.isPreviousCharPostComment &&
			f.peekNextChar() != ' ' &&
			!f.previousBracketType.IsDefinition() &&
			!top.IsDefinition())
	afterArrayOpen := f.previousCommandChar == '{' &&
		top.IsArray() && !top.IsSingleLine() &&
		f.hints.NonInStatementArray

	if !(afterBlock && f.isOkToBreakBlock(top)) && !afterArrayOpen {
		return
	}

	f.isCharImmediatelyPostOpenBlock = f.previousCommandChar == '{'
	f.isCharImmediatelyPostCloseBlock = f.previousCommandChar == '}'

	if f.isCharImmediatelyPostOpenBlock && !f.isCharImmediatelyPostComment && !f.isCharImmediatelyPostLineComment {
		f.previousCommandChar = ' '
		switch {
		case f.bracketMode == config.BracketsNone:
			if f.breakOneLineBlocks && top.IsSingleLine() {
				f.isInLineBreak = true
			} else if f.currentLineBeginsBracket {
				f.formatRunIn()
			} else {
				f.breakLine()
			}
		case f.bracketMode == config.BracketsRunIn && f.currentChar != '#':
			f.formatRunIn()
		default:
			f.isInLineBreak = true
		}
		return
	}

	if f.isCharImmediatelyPostCloseBlock &&
		f.breakOneLineStmts &&
		f.dialect.IsLegalNameChar(f.currentChar) && f.currentChar != '.' &&
		!f.isCharImmediatelyPostComment {
		f.previousCommandChar = ' '
		f.isInLineBreak = true
	}
}

// endStatement resets the statement state at a ';' or after a '}'.
func (f *Formatter) endStatement() {
	top := f.brackets.TopType()
	parenDepth := f.parenStack[len(f.parenStack)-1]

	if f.currentChar == ';' {
		if (f.breakOneLineStmts || top.IsSingleLine()) &&
			f.isOkToBreakBlock(top) &&
			!(f.attachClosingBracket && f.peekNextChar() == '}') {
			f.passedSemicolon = true
		}

		// an empty line follows the body of a header without brackets
		if f.breakBlocks &&
			f.currentHeader != "" &&
			f.currentHeader != lexer.Case &&
			f.currentHeader != lexer.Default &&
			parenDepth == 0 {
			f.appendPostBlockEmptyLine = true
		}
	}

	// a '}' ends the header block, so does a ';' when no bracket followed
	// the header
	if f.currentChar != ';' || (f.needHeaderOpeningBracket && parenDepth == 0) {
		f.currentHeader = ""
	}

	f.foundQuestionMark = false
	f.foundNamespaceHeader = false
	f.foundClassHeader = false
	f.foundStructHeader = false
	f.foundInterfaceHeader = false
	f.foundPreDefinitionHeader = false
	f.foundPreCommandHeader = false
	f.foundCastOperator = false
	f.isInPotentialCalculation = false
	f.hints.SharpAccessor = false
	f.hints.SharpDelegate = false
	f.hints.InExtern = false
	f.hints.NonInStatementBracket = 0
}

// checkColonBreak decides whether the line breaks after a ':' that ends a
// case label or a C++ access modifier or label.
func (f *Formatter) checkColonBreak() {
	next := f.peekNextChar()
	if f.isInCase && f.previousChar != ':' && next != ':' {
		f.isInCase = false
		f.passedColon = true
		return
	}

	if f.dialect.IsC() &&
		!f.foundQuestionMark &&
		!f.foundPreDefinitionHeader &&
		f.previousCommandChar != ')' &&
		f.previousChar != ':' &&
		next != ':' &&
		!lexer.IsDigit(next) &&
		!f.isInAsm && !f.isInAsmOneLine && !f.isInAsmBlock {
		f.passedColon = true
	}
}

// formatWord appends a whole name, noting the keywords that change how the
// following characters are treated.
func (f *Formatter) formatWord() {
	line, i, d := f.currentLine, f.charNum, f.dialect

	if d.FindKeyword(line, i, lexer.New) {
		f.isInPotentialCalculation = false
	}
	if d.FindKeyword(line, i, lexer.Return) {
		// a return value reads like the right side of an assignment
		f.isInPotentialCalculation = true
		f.isImmediatelyPostReturn = true
	}
	if d.FindKeyword(line, i, lexer.Operator) {
		f.isImmediatelyPostOperator = true
	}

	if d.IsC() {
		if d.FindKeyword(line, i, lexer.Extern) {
			f.hints.InExtern = true
		}
		if f.isExecSQL(line, i) {
			f.isInExecSQL = true
		}
		switch {
		case d.FindKeyword(line, i, lexer.Asm) || d.FindKeyword(line, i, lexer.GnuAsm):
			f.isInAsm = true
		case d.FindKeyword(line, i, lexer.MSAsm) || d.FindKeyword(line, i, lexer.MSDoubleAsm):
			index := 4
			if f.peekNextChar() == '_' {
				index = 5
			}
			if peeked := lexer.PeekNextChar(line, i+index); peeked == '{' || peeked == ' ' {
				f.isInAsmBlock = true
			} else {
				f.isInAsmOneLine = true
			}
		}
	}

	if d.IsJava() && d.FindKeyword(line, i, lexer.Static) && f.isNextCharOpeningBracket(i+len(lexer.Static)) {
		f.isJavaStaticConstructor = true
	}

	if d.IsCSharp() && (d.FindKeyword(line, i, lexer.Delegate) || d.FindKeyword(line, i, lexer.Unchecked)) {
		f.hints.SharpDelegate = true
	}

	name := d.CurrentWord(line, i)
	f.appendSequence(name, true)
	f.goForward(len(name) - 1)
}

// formatOperatorOrChar handles everything that is not a word: operators,
// pointers, separators and parens.
func (f *Formatter) formatOperatorOrChar() {
	newOperator := ""

	if lexer.IsCharPotentialOperator(f.currentChar) {
		newOperator = lexer.FindOperator(f.currentLine, f.charNum, f.catalog.Operators)

		// ">>" closing two templates is two operators
		if f.isInTemplate && (newOperator == lexer.OpShr || newOperator == lexer.OpUShr) {
			newOperator = lexer.OpGreater
		}

		if newOperator != "" && !f.isInPotentialCalculation && lexer.Contains(f.catalog.AssignmentOperators, newOperator) {
			f.foundPreCommandHeader = false
			f.isInPotentialCalculation = true
		}
	}

	if f.dialect.IsC() &&
		(newOperator == lexer.OpMult || newOperator == lexer.OpBitAnd) &&
		f.isPointerOrReference() &&
		!f.isDereferenceOrAddressOf() {
		f.formatPointerOrReference()
		f.isImmediatelyPostPtrOrRef = true
		return
	}

	if f.opts.PadOperators && newOperator != "" {
		f.padOperators(newOperator)
		return
	}

	if f.currentChar == ';' || (f.currentChar == ',' && f.opts.PadOperators) {
		next := byte(' ')
		if f.charNum+1 < len(f.currentLine) {
			next = f.currentLine[f.charNum+1]
		}
		if !lexer.IsWhiteSpace(next) &&
			next != '}' && next != ')' && next != ']' && next != '>' && next != ';' &&
			!f.isBeforeAnyComment() {
			f.appendCurrentChar(true)
			f.appendSpaceAfter()
			return
		}
	}

	if (f.currentChar == '(' || f.currentChar == ')') &&
		(f.opts.PadParensOutside || f.opts.PadParensInside || f.opts.UnpadParens) {
		f.padParens()
		return
	}

	if len(newOperator) > 1 {
		f.appendSequence(newOperator, true)
		f.goForward(len(newOperator) - 1)
		return
	}

	f.appendCurrentChar(true)
}
