package beautifier

import (
	"strings"

	"github.com/hassan/stylefmt/internal/lexer"
)

// parseCurrentLine walks line once and updates every stack for the
// brackets, parens, headers and operators found outside quotes and
// comments. tabCount and spaceTabCount may be adjusted on the way for
// constructs that only affect the line itself (labels, case, access
// modifiers).
func (b *Beautifier) parseCurrentLine(line string) {
	d := b.dialect
	cat := b.catalog

	isInLineComment := false
	isInOperator := false
	isSpecialChar := false
	haveCaseIndent := false
	haveAssignmentThisLine := false
	closingBracketReached := false
	previousLineProbation := b.probationHeader != ""
	ch := byte(' ')
	tabIncrementIn := 0

	for i := 0; i < len(line); i++ {
		prevCh := ch
		ch = line[i]

		if b.hints.InSQL {
			continue
		}

		if lexer.IsWhiteSpace(ch) {
			if ch == '\t' {
				tabIncrementIn += b.convertTabToSpaces(i, tabIncrementIn)
			}
			continue
		}

		// escape sequences inside quotes
		if b.isInQuote && !b.isInVerbatimQuote {
			if isSpecialChar {
				isSpecialChar = false
				continue
			}
			if lexer.HasPrefixAt(line, i, `\\`) {
				i++
				continue
			}
			if ch == '\\' {
				if lexer.PeekNextChar(line, i) == ' ' {
					b.haveLineContinuationChar = true
				} else {
					isSpecialChar = true
				}
				continue
			}
		} else if b.isInDefine && ch == '\\' {
			continue
		}

		if !(b.isInComment || isInLineComment) && (ch == '"' || ch == '\'') {
			switch {
			case !b.isInQuote:
				b.quoteChar = ch
				b.isInQuote = true
				if d.IsCSharp() && prevCh == '@' {
					b.isInVerbatimQuote = true
				}
			case b.isInVerbatimQuote && ch == '"':
				if lexer.PeekNextChar(line, i) == '"' {
					i++
				} else {
					b.isInQuote = false
					b.isInVerbatimQuote = false
				}
			case b.quoteChar == ch:
				b.isInQuote = false
				b.isInStatement = true
				continue
			}
		}

		if b.isInQuote {
			continue
		}

		switch {
		case !(b.isInComment || isInLineComment) && lexer.HasPrefixAt(line, i, lexer.OpenLineComment):
			isInLineComment = true
			i++
			continue
		case !(b.isInComment || isInLineComment) && lexer.HasPrefixAt(line, i, lexer.OpenComment):
			b.isInComment = true
			i++
			// continuation lines of a comment that does not start the line stay put
			if !b.lineOpensComment {
				b.blockCommentNoIndent = true
			}
			continue
		case (b.isInComment || isInLineComment) && lexer.HasPrefixAt(line, i, lexer.CloseComment):
			b.isInComment = false
			i++
			b.blockCommentNoIndent = false
			continue
		case line[0] == '#' && b.isIndentedPreprocessor(line, i):
			isInLineComment = true
		}

		if b.isInComment || isInLineComment {
			for i+1 < len(line) && !lexer.HasPrefixAt(line, i+1, lexer.CloseComment) {
				i++
			}
			continue
		}

		if b.probationHeader != "" {
			if (b.probationHeader == lexer.Static && ch == '{') ||
				(b.probationHeader == lexer.Synchronized && ch == '(') {
				b.isInHeader = true
				b.headerStack = append(b.headerStack, b.probationHeader)
				b.isInConditional = b.probationHeader == lexer.Synchronized
				b.isInStatement = false

				// a probation header from the previous line indents its bracket
				if previousLineProbation && ch == '{' && !(b.blockIndent && b.probationHeader == lexer.Static) {
					b.tabCount++
					b.previousLineProbationTab = true
				}
				previousLineProbation = false
			}
			b.probationHeader = ""
		}

		b.prevNonSpaceCh = b.currentNonSpaceCh
		b.currentNonSpaceCh = ch
		if !d.IsLegalNameChar(ch) && ch != ',' && ch != ';' {
			b.prevNonLegalCh = b.currentNonLegalCh
			b.currentNonLegalCh = ch
		}

		if b.isInHeader {
			b.isInHeader = false
			b.currentHeader = b.headerFromTop(1)
		} else {
			b.currentHeader = ""
		}

		if d.IsC() && b.isInTemplate && (ch == '<' || ch == '>') &&
			lexer.FindOperator(line, i, cat.NonAssignmentOperators) == "" {
			if ch == '<' {
				b.templateDepth++
			} else {
				b.templateDepth--
				if b.templateDepth <= 0 {
					ch = ';'
					b.isInTemplate = false
					b.templateDepth = 0
				}
			}
		}

		if ch == '(' || ch == '[' || ch == ')' || ch == ']' {
			if ch == '(' || ch == '[' {
				isInOperator = false
				b.openParen(line, i, ch, tabIncrementIn)
			} else {
				b.foundPreCommandHeader = false
				b.parenDepth--
				if b.parenDepth == 0 {
					if n := len(b.parenStatementStack); n > 0 {
						b.isInStatement = b.parenStatementStack[n-1]
						b.parenStatementStack = b.parenStatementStack[:n-1]
					}
					ch = ' '
					b.isInAsm = false
					b.isInConditional = false
				}
				b.closeInStatementLevel(i)
			}
			continue
		}

		if ch == '{' {
			b.openBracket(line, i, tabIncrementIn)
			continue
		}

		isPotentialHeader := d.IsCharPotentialHeader(line, i)

		if isPotentialHeader {
			if newHeader := d.FindHeader(line, i, cat.Headers); newHeader != "" {
				b.handleHeader(newHeader, &haveCaseIndent, closingBracketReached)
				i += len(newHeader) - 1
				continue
			}

			if d.FindHeader(line, i, cat.PreCommandHeaders) != "" {
				b.foundPreCommandHeader = true
			}

			// C enums need in-statement indents
			if d.IsC() && d.FindKeyword(line, i, lexer.Enum) {
				b.isInEnum = true
				b.hints.NonInStatementArray = false
			}
		}

		if ch == '?' {
			b.isInQuestion = true
		}

		if ch == ':' {
			if lexer.CharAt(line, i+1) == ':' {
				i++
				ch = ' '
				continue
			}
			ch = b.handleColon(line, i)
		}

		if (ch == ';' || (b.parenDepth > 0 && ch == ',')) && len(b.inStatementIndentStackSizeStack) > 0 {
			keep := b.inStatementIndentStackSizeStack[len(b.inStatementIndentStackSizeStack)-1]
			if b.parenDepth > 0 {
				keep++
			}
			if keep < len(b.inStatementIndentStack) {
				b.inStatementIndentStack = b.inStatementIndentStack[:keep]
			}
		}

		// a comma ending a line continues a declaration or initializer
		if ch == ',' && b.parenDepth == 0 && !b.isInStatement && !b.hints.NonInStatementArray {
			nextChar := indexNotAny(line, " \t", i+1)
			if nextChar >= 0 && (lexer.HasPrefixAt(line, nextChar, lexer.OpenLineComment) ||
				lexer.HasPrefixAt(line, nextChar, lexer.OpenComment)) {
				nextChar = -1
			}
			if nextChar < 0 {
				if b.isInClassInitializer {
					// align on the first word after the initializer colon
					firstChar := indexNotAny(line, " \t", 0)
					if firstChar >= 0 && line[firstChar] == ':' {
						if firstWord := indexNotAny(line, " \t", firstChar+1); firstWord >= 0 {
							b.inStatementIndentStack = append(b.inStatementIndentStack, firstWord+b.spaceTabCount+tabIncrementIn)
							b.isInStatement = true
						}
					}
				} else {
					prevWord := b.inStatementIndentComma(line, i)
					b.inStatementIndentStack = append(b.inStatementIndentStack, prevWord+b.spaceTabCount+tabIncrementIn)
					b.isInStatement = true
				}
			}
		}

		if (ch == ';' && b.parenDepth == 0) || ch == '}' {
			if ch == '}' {
				if n := len(b.bracketBlockStateStack); n > 0 {
					blockState := b.bracketBlockStateStack[n-1]
					b.bracketBlockStateStack = b.bracketBlockStateStack[:n-1]
					if !blockState {
						// closes a static array
						if len(b.inStatementIndentStackSizeStack) > 0 {
							b.parenDepth--
							if i == 0 {
								b.shouldIndentBrackettedLine = false
							}
							b.closeInStatementLevel(i)
						}
						continue
					}
				}
				b.closeBlock(i)
				closingBracketReached = true
				// so that a header following '}' on the same line is found
				ch = ' '
			}

			b.snapshotHeaders()

			if b.parenDepth == 0 && ch == ';' {
				b.isInStatement = false
			}
			b.previousLastLineHeader = ""
			b.isInClassInitializer = false
			b.isInEnum = false
			b.isInQuestion = false
			b.foundPreCommandHeader = false
			continue
		}

		if isPotentialHeader {
			// pre-block statements count only outside parens in C, where
			// 'struct x' may appear in a parameter list
			if !b.isInTemplate && !(d.IsC() && b.parenDepth > 0) {
				newHeader := d.FindHeader(line, i, cat.PreBlockStatements)
				if newHeader != "" && !(d.IsC() && newHeader == lexer.Class && b.isInEnum) {
					b.isInClassInitializer = true
					switch {
					case !d.IsCSharp():
						b.headerStack = append(b.headerStack, newHeader)
					case newHeader == lexer.Where:
					case newHeader == lexer.Class && b.headerFromTop(1) == lexer.Class:
					default:
						b.headerStack = append(b.headerStack, newHeader)
					}
					i += len(newHeader) - 1
					continue
				}
			}

			if header := d.FindHeader(line, i, cat.IndentableHeaders); header != "" {
				i += len(header) - 1
				if !isInOperator && !b.isInTemplate && !b.hints.NonInStatementArray {
					b.registerInStatementIndent(line, i, b.spaceTabCount, tabIncrementIn, 0, false)
					b.isInStatement = true
				}
				continue
			}

			if d.IsC() && d.FindKeyword(line, i, lexer.Operator) {
				isInOperator = true
			}

			// "new" after an assignment is not a continuation
			if d.FindKeyword(line, i, lexer.New) && b.isInStatement && b.prevNonSpaceCh == '=' {
				if n := len(b.inStatementIndentStack); n > 0 {
					b.inStatementIndentStack[n-1] = 0
				}
			}

			if d.IsC() {
				switch {
				case d.FindKeyword(line, i, lexer.Asm) || d.FindKeyword(line, i, lexer.GnuAsm):
					b.isInAsm = true
				case d.FindKeyword(line, i, lexer.MSAsm) || d.FindKeyword(line, i, lexer.MSDoubleAsm):
					index := 4
					if lexer.PeekNextChar(line, i) == '_' {
						index = 5
					}
					if peeked := lexer.PeekNextChar(line, i+index); peeked == '{' || peeked == ' ' {
						b.isInAsmBlock = true
					} else {
						b.isInAsmOneLine = true
					}
				}
			}

			name := d.CurrentWord(line, i)
			if len(name) > 0 {
				i += len(name) - 1
			}
			continue
		}

		if lexer.IsCharPotentialOperator(ch) {
			assignOp := lexer.FindOperator(line, i, cat.AssignmentOperators)
			nonAssignOp := lexer.FindOperator(line, i, cat.NonAssignmentOperators)

			// '>>' and '>>=' both match; the longer one wins
			if assignOp != "" && nonAssignOp != "" {
				if len(assignOp) < len(nonAssignOp) {
					assignOp = ""
				} else {
					nonAssignOp = ""
				}
			}

			switch {
			case nonAssignOp != "":
				i += len(nonAssignOp) - 1
				// stream operators of C++ are aligned on the first one
				if !isInOperator && len(b.inStatementIndentStack) == 0 && d.IsC() &&
					(nonAssignOp == lexer.OpShr || nonAssignOp == lexer.OpShl) {
					if i < 2 && b.spaceTabCount == 0 {
						b.spaceTabCount += 2 * b.indentLength
					}
					b.registerInStatementIndent(line, i-len(nonAssignOp), b.spaceTabCount, tabIncrementIn, 0, false)
				}

			case assignOp != "":
				b.foundPreCommandHeader = false
				i += len(assignOp) - 1
				if !isInOperator && !b.isInTemplate && !b.hints.NonInStatementArray {
					if assignOp == lexer.OpAssign && b.prevNonSpaceCh != ']' && b.statementEndsWithComma(line, i) {
						// several declarators: align on the first name, once per line
						if !haveAssignmentThisLine {
							haveAssignmentThisLine = true
							prevWord := b.inStatementIndentAssign(line, i)
							b.inStatementIndentStack = append(b.inStatementIndentStack, prevWord+b.spaceTabCount+tabIncrementIn)
						}
					} else {
						if i == 0 && b.spaceTabCount == 0 {
							b.spaceTabCount += b.indentLength
						}
						b.registerInStatementIndent(line, i, b.spaceTabCount, tabIncrementIn, 0, false)
					}
					b.isInStatement = true
				}
			}
		}
	}
}

func (b *Beautifier) openParen(line string, i int, ch byte, tabIncrementIn int) {
	// a struct followed by '(' is a declaration, not a definition
	if ch == '(' && (b.isInClassInitializer || b.isInClassHeaderTab) && b.headerFromTop(1) == lexer.Struct {
		b.popHeader()
		b.isInClassInitializer = false
		if b.isInClassHeaderTab {
			b.tabCount -= 1 + b.classInitializerTabs
			b.isInClassHeaderTab = false
		}
		if b.tabCount < 0 {
			b.tabCount = 0
		}
	}

	if b.parenDepth == 0 {
		b.parenStatementStack = append(b.parenStatementStack, b.isInStatement)
		b.isInStatement = true
	}
	b.parenDepth++

	b.inStatementIndentStackSizeStack = append(b.inStatementIndentStackSizeStack, len(b.inStatementIndentStack))
	minIndent := 0
	if b.currentHeader != "" {
		minIndent = b.minConditionalIndent
	}
	b.registerInStatementIndent(line, i, b.spaceTabCount, tabIncrementIn, minIndent, true)
}

// closeInStatementLevel drops the in-statement indents registered since the
// matching open paren or array bracket. A closer at the start of the line
// takes the column its opener had.
func (b *Beautifier) closeInStatementLevel(i int) {
	n := len(b.inStatementIndentStackSizeStack)
	if n == 0 {
		return
	}
	keep := b.inStatementIndentStackSizeStack[n-1]
	b.inStatementIndentStackSizeStack = b.inStatementIndentStackSizeStack[:n-1]
	if keep < len(b.inStatementIndentStack) {
		b.inStatementIndentStack = b.inStatementIndentStack[:keep]
	}

	if m := len(b.parenIndentStack); m > 0 {
		popped := b.parenIndentStack[m-1]
		b.parenIndentStack = b.parenIndentStack[:m-1]
		if i == 0 {
			b.spaceTabCount = popped
		}
	}
}

func (b *Beautifier) openBracket(line string, i int, tabIncrementIn int) {
	d := b.dialect

	isBlockOpener := (b.prevNonSpaceCh == '{' && lastBool(b.bracketBlockStateStack)) ||
		b.prevNonSpaceCh == '}' ||
		b.prevNonSpaceCh == ')' ||
		b.prevNonSpaceCh == ';' ||
		lexer.PeekNextChar(line, i) == '{' ||
		b.foundPreCommandHeader ||
		b.isInClassInitializer ||
		b.hints.NonInStatementArray ||
		b.hints.SharpAccessor ||
		b.hints.SharpDelegate ||
		b.hints.InExtern ||
		b.nextWord(line, i) == lexer.New ||
		(b.isInDefine && (b.prevNonSpaceCh == '(' || d.IsLegalNameChar(b.prevNonSpaceCh)))

	if b.isInClassInitializer {
		if n := len(b.inStatementIndentStack); n > 0 {
			b.inStatementIndentStack = b.inStatementIndentStack[:n-1]
		}
		b.isInStatement = false
		if b.lineBeginsWithBracket {
			b.spaceTabCount = 0
		}
		b.isInClassInitializer = false
	}

	if !isBlockOpener && b.currentHeader != "" && lexer.Contains(b.catalog.NonParenHeaders, b.currentHeader) {
		isBlockOpener = true
	}

	b.bracketBlockStateStack = append(b.bracketBlockStateStack, isBlockOpener)

	if !isBlockOpener {
		b.inStatementIndentStackSizeStack = append(b.inStatementIndentStackSizeStack, len(b.inStatementIndentStack))
		b.registerInStatementIndent(line, i, b.spaceTabCount, tabIncrementIn, 0, true)
		b.parenDepth++
		if i == 0 {
			b.shouldIndentBrackettedLine = false
		}
		return
	}

	b.lineOpeningBlocksNum++

	if b.isInClassHeaderTab {
		b.isInClassHeaderTab = false
		// a broken bracket takes back the class header indent
		if firstChar := indexNotAny(line, " \t", 0); firstChar == i {
			b.tabCount -= b.classInitializerTabs
			// and one more for an empty class
			if b.headerFromTop(1) == lexer.Class {
				nextChar := b.nextProgramCharDistance(line, i)
				if lexer.CharAt(line, nextChar) == '}' {
					b.tabCount--
				}
			}
		}
	}

	if b.bracketIndent && !b.namespaceIndent && b.headerFromTop(1) == lexer.Namespace {
		b.shouldIndentBrackettedLine = false
		b.tabCount--
	}

	// an indentable struct is indented like a class
	if b.headerFromTop(1) == lexer.Struct && b.hints.InIndentableStruct {
		b.headerStack[len(b.headerStack)-1] = lexer.Class
	}

	b.blockParenDepthStack = append(b.blockParenDepthStack, b.parenDepth)
	b.blockStatementStack = append(b.blockStatementStack, b.isInStatement)
	b.inStatementIndentStackSizeStack = append(b.inStatementIndentStackSizeStack, len(b.inStatementIndentStack))

	if n := len(b.inStatementIndentStack); n > 0 {
		b.spaceTabCount = 0
		b.inStatementIndentStack[n-1] = 0
	}

	if b.isInStatement {
		b.blockTabCount++
	}
	b.parenDepth = 0
	b.isInStatement = false
	b.foundPreCommandHeader = false

	b.tempStacks = append(b.tempStacks, nil)
	b.headerStack = append(b.headerStack, lexer.OpenBracket)
	b.lastLineHeader = lexer.OpenBracket
}

func (b *Beautifier) closeBlock(i int) {
	b.lineClosingBlocksNum++

	if n := len(b.inStatementIndentStackSizeStack); n > 0 {
		b.inStatementIndentStackSizeStack = b.inStatementIndentStackSizeStack[:n-1]
	}

	if n := len(b.blockParenDepthStack); n > 0 {
		b.parenDepth = b.blockParenDepthStack[n-1]
		b.blockParenDepthStack = b.blockParenDepthStack[:n-1]
		if m := len(b.blockStatementStack); m > 0 {
			b.isInStatement = b.blockStatementStack[m-1]
			b.blockStatementStack = b.blockStatementStack[:m-1]
		}
		if b.isInStatement {
			b.blockTabCount--
		}
	}

	b.isInAsmOneLine = false
	if i == 0 {
		b.spaceTabCount = 0
	}
	b.isInAsm = false
	b.isInQuote = false

	if lexer.IndexOf(b.headerStack, lexer.OpenBracket) == -1 {
		return
	}
	for b.headerFromTop(1) != lexer.OpenBracket {
		b.popHeader()
	}
	b.popHeader()

	// the closing bracket of an unindented namespace
	if !b.namespaceIndent && b.headerFromTop(1) == lexer.Namespace && i == 0 {
		b.shouldIndentBrackettedLine = false
	}

	if n := len(b.tempStacks); n > 0 {
		b.tempStacks = b.tempStacks[:n-1]
	}
}

// snapshotHeaders moves the headers of the finished statement from the
// header stack to the innermost temp stack, so that a following else,
// while or catch can restore the headers it continues.
func (b *Beautifier) snapshotHeaders() {
	if len(b.tempStacks) == 0 {
		b.tempStacks = append(b.tempStacks, nil)
	}
	top := len(b.tempStacks) - 1
	temp := b.tempStacks[top][:0]
	for len(b.headerStack) > 0 && b.headerFromTop(1) != lexer.OpenBracket {
		temp = append(temp, b.headerFromTop(1))
		b.popHeader()
	}
	b.tempStacks[top] = temp
}

// restack pushes back the headers saved after the last occurrence of
// companion in the innermost temp stack.
func (b *Beautifier) restack(companions []string, closingBracketReached bool) {
	if len(b.tempStacks) == 0 {
		return
	}
	top := len(b.tempStacks) - 1
	temp := b.tempStacks[top]
	index := -1
	for _, c := range companions {
		if index = lexer.IndexOf(temp, c); index != -1 {
			break
		}
	}
	if index == -1 {
		return
	}

	restackSize := len(temp) - index - 1
	for r := 0; r < restackSize; r++ {
		b.headerStack = append(b.headerStack, temp[len(temp)-1])
		temp = temp[:len(temp)-1]
	}
	b.tempStacks[top] = temp
	if !closingBracketReached {
		b.tabCount += restackSize
	}
}

func (b *Beautifier) handleHeader(newHeader string, haveCaseIndent *bool, closingBracketReached bool) {
	isIndentableHeader := true
	b.isInHeader = true

	switch newHeader {
	case lexer.If:
		if b.lastLineHeader == lexer.Else {
			b.popHeader()
		}
	case lexer.Else:
		b.restack([]string{lexer.If}, closingBracketReached)
	case lexer.While:
		b.restack([]string{lexer.Do}, closingBracketReached)
	case lexer.Catch, lexer.Finally:
		b.restack([]string{lexer.Try, lexer.Catch}, closingBracketReached)
	case lexer.Case:
		b.isInCase = true
		if !*haveCaseIndent {
			*haveCaseIndent = true
			if !b.lineBeginsWithBracket {
				b.tabCount--
			}
		}
	case lexer.Default:
		b.isInCase = true
		b.tabCount--
	case lexer.Static, lexer.Synchronized:
		isIndentableHeader = false
		if top := b.headerFromTop(1); top != lexer.Static && top != lexer.Synchronized {
			b.probationHeader = newHeader
		}
	case lexer.Template:
		b.isInTemplate = true
		isIndentableHeader = false
	}

	if !isIndentableHeader {
		b.isInHeader = false
		return
	}

	b.headerStack = append(b.headerStack, newHeader)
	b.isInStatement = false
	if !lexer.Contains(b.catalog.NonParenHeaders, newHeader) {
		b.isInConditional = true
	}
	b.lastLineHeader = newHeader
}

// handleColon classifies a single ':' and returns the character the rest
// of the line should see in its place.
func (b *Beautifier) handleColon(line string, i int) byte {
	d := b.dialect
	switch {
	case b.isInQuestion:
		b.isInQuestion = false
	case d.IsC() && b.isInClassInitializer:
		// 'class A : public B'
	case d.IsC() && (b.isInAsm || b.isInAsmOneLine || b.isInAsmBlock):
	case d.IsC() && lexer.IsDigit(lexer.PeekNextChar(line, i)):
		// bit field
	case d.IsC() && b.isInClass && b.prevNonSpaceCh != ')':
		// access modifier inside a class
		b.tabCount--
	case d.IsC() && !b.isInClass && b.headerFromTop(2) == lexer.Class && b.headerFromTop(1) == lexer.OpenBracket:
		// access modifier on the line of the class bracket
	case d.IsC() && b.prevNonSpaceCh == ')' && !b.isInCase:
		// constructor initializer list
		b.isInClassInitializer = true
		b.isInStatement = false
		if i == 0 {
			b.tabCount += b.classInitializerTabs
		}
	case d.IsJava() && b.lastLineHeader == lexer.For:
		// for-each
	default:
		// brackets after the ':' open blocks
		b.currentNonSpaceCh = ';'
		if b.isInCase {
			b.isInCase = false
			return ';'
		}
		if d.IsC() || (d.IsCSharp() && lexer.PeekNextChar(line, i) == ';') {
			// label
			if b.labelIndent {
				b.tabCount--
			} else if !b.lineBeginsWithBracket {
				b.tabCount = 0
			}
		}
	}
	return ':'
}

// registerInStatementIndent pushes the column that continuation lines of
// the construct opened at line[i] align to.
func (b *Beautifier) registerInStatementIndent(line string, i, spaceTabCount, tabIncrementIn, minIndent int, updateParenStack bool) {
	remainingCharNum := len(line) - i
	nextNonWSChar := b.nextProgramCharDistance(line, i)

	// nothing follows the opener: indent once from the previous indent
	if nextNonWSChar == remainingCharNum {
		previousIndent := spaceTabCount
		if n := len(b.inStatementIndentStack); n > 0 {
			previousIndent = b.inStatementIndentStack[n-1]
		}
		currIndent := b.indentLength + previousIndent
		if currIndent > b.maxInStatementIndent && lexer.CharAt(line, i) != '{' {
			currIndent = b.indentLength*2 + spaceTabCount
		}
		b.inStatementIndentStack = append(b.inStatementIndentStack, currIndent)
		if updateParenStack {
			b.parenIndentStack = append(b.parenIndentStack, previousIndent)
		}
		return
	}

	if updateParenStack {
		b.parenIndentStack = append(b.parenIndentStack, i+spaceTabCount-b.hints.RunInIndent)
	}

	tabIncrement := tabIncrementIn
	for j := i + 1; j < i+nextNonWSChar; j++ {
		if lexer.CharAt(line, j) == '\t' {
			tabIncrement += b.convertTabToSpaces(j, tabIncrement)
		}
	}

	indent := i + nextNonWSChar + spaceTabCount + tabIncrement

	// run-in statement
	if i > 0 && line[0] == '{' {
		indent -= b.indentLength
	}
	if indent < minIndent {
		indent = minIndent + spaceTabCount
	}
	if indent > b.maxInStatementIndent {
		indent = b.indentLength*2 + spaceTabCount
	}
	if n := len(b.inStatementIndentStack); n > 0 && indent < b.inStatementIndentStack[n-1] {
		indent = b.inStatementIndentStack[n-1]
	}

	// the opener of a block-indented array is not a continuation
	if b.hints.NonInStatementArray && lastBool(b.bracketBlockStateStack) {
		indent = 0
	}

	b.inStatementIndentStack = append(b.inStatementIndentStack, indent)
}

// nextProgramCharDistance returns the distance from i to the next
// character that is neither blank nor inside a comment, or the remaining
// length of the line when there is none.
func (b *Beautifier) nextProgramCharDistance(line string, i int) int {
	inComment := false
	remaining := len(line) - i
	distance := 1
	for ; distance < remaining; distance++ {
		pos := i + distance
		ch := lexer.CharAt(line, pos)
		switch {
		case inComment:
			if lexer.HasPrefixAt(line, pos, lexer.CloseComment) {
				distance++
				inComment = false
			}
		case lexer.IsWhiteSpace(ch):
		case ch == '/':
			if lexer.HasPrefixAt(line, pos, lexer.OpenLineComment) {
				return remaining
			}
			if lexer.HasPrefixAt(line, pos, lexer.OpenComment) {
				distance++
				inComment = true
			}
		default:
			return distance
		}
	}
	return distance
}

func (b *Beautifier) convertTabToSpaces(i, tabIncrementIn int) int {
	return b.indentLength - 1 - ((tabIncrementIn + i) % b.indentLength)
}

// statementEndsWithComma reports whether the statement containing the
// assignment at line[index] goes on past a top-level comma at the end of
// the line.
func (b *Beautifier) statementEndsWithComma(line string, index int) bool {
	inComment := false
	inQuote := false
	parenCount := 0
	quote := byte(' ')

	i := index + 1
	for ; i < len(line); i++ {
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
			if isLineEndComment(line, i) {
				break
			}
			inComment = true
			i++
			continue
		}
		switch ch {
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	if inComment || inQuote || parenCount > 0 {
		return false
	}
	if i > len(line) {
		i = len(line)
	}
	lastChar := strings.LastIndexFunc(line[:i], func(r rune) bool { return r != ' ' && r != '\t' })
	return lastChar >= 0 && line[lastChar] == ','
}

// isLineEndComment reports whether the block comment at startPos closes on
// this line with nothing after it.
func isLineEndComment(line string, startPos int) bool {
	end := strings.Index(line[startPos+2:], lexer.CloseComment)
	if end < 0 {
		return false
	}
	return indexNotAny(line, " \t", startPos+2+end+2) < 0
}

// inStatementIndentAssign returns the column of the word before the
// assignment at line[pos].
func (b *Beautifier) inStatementIndentAssign(line string, pos int) int {
	if pos == 0 {
		return 0
	}
	end := lastIndexNotAny(line, " \t", pos-1)
	if end < 0 || !b.dialect.IsLegalNameChar(line[end]) {
		return 0
	}
	start := end
	for ; start > -1; start-- {
		if !b.dialect.IsLegalNameChar(line[start]) || line[start] == '.' {
			break
		}
	}
	return start + 1
}

// inStatementIndentComma returns the column of the second word of the
// line that ends with the comma at line[pos].
func (b *Beautifier) inStatementIndentComma(line string, pos int) int {
	indent := indexNotAny(line, " \t", 0)
	if indent < 0 || !b.dialect.IsLegalNameChar(line[indent]) {
		return 0
	}
	for ; indent < pos; indent++ {
		if !b.dialect.IsLegalNameChar(line[indent]) {
			break
		}
	}
	indent++
	if indent >= pos {
		return 0
	}
	indent = indexNotAny(line, " \t", indent)
	if indent < 0 || indent >= pos {
		return 0
	}
	return indent
}

// nextWord returns the word after pos, stopping at a '.'.
func (b *Beautifier) nextWord(line string, pos int) string {
	if pos >= len(line)-1 {
		return ""
	}
	start := indexNotAny(line, " \t", pos+1)
	if start < 0 || !b.dialect.IsLegalNameChar(line[start]) {
		return ""
	}
	end := start + 1
	for end < len(line) && b.dialect.IsLegalNameChar(line[end]) && line[end] != '.' {
		end++
	}
	return line[start:end]
}

// isIndentedPreprocessor reports whether the directive is indented like
// code: #region, #endregion and #pragma omp.
func (b *Beautifier) isIndentedPreprocessor(line string, pos int) bool {
	switch b.nextWord(line, pos) {
	case "region", "endregion":
		return true
	case "pragma":
	default:
		return false
	}

	start := strings.Index(line, "pragma")
	if start < 0 {
		return false
	}
	for start < len(line) && b.dialect.IsLegalNameChar(line[start]) {
		start++
	}
	start++
	if start >= len(line) {
		return false
	}
	start = indexNotAny(line, " \t", start)
	if start < 0 {
		return false
	}
	end := start
	for end < len(line) && b.dialect.IsLegalNameChar(line[end]) {
		end++
	}
	switch line[start:end] {
	case "omp", "region", "endregion":
		return true
	}
	return false
}

func isClassAccessModifier(line string) bool {
	first := indexNotAny(line, " \t", 0)
	if first < 0 {
		return false
	}
	return lexer.HasPrefixAt(line, first, "public ") ||
		lexer.HasPrefixAt(line, first, "private ") ||
		lexer.HasPrefixAt(line, first, "protected ")
}

func trim(s string) string {
	return strings.Trim(s, " \t")
}

// indexNotAny returns the index of the first byte at or after from that is
// not in chars, or -1.
func indexNotAny(s, chars string, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(s); i++ {
		if strings.IndexByte(chars, s[i]) < 0 {
			return i
		}
	}
	return -1
}

// lastIndexNotAny returns the index of the last byte at or before from that
// is not in chars, or -1.
func lastIndexNotAny(s, chars string, from int) int {
	if from >= len(s) {
		from = len(s) - 1
	}
	for i := from; i >= 0; i-- {
		if strings.IndexByte(chars, s[i]) < 0 {
			return i
		}
	}
	return -1
}
