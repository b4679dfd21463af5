package formatter

import (
	"strings"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
)

// unpaddedTypeWords are words before a paren that are taken for a type in a
// declaration, so the space after them is kept when parens are unpadded.
var unpaddedTypeWords = []string{
	"bool", "int", "void", "void*",
	"BOOL", "DWORD", "HWND", "INT", "LPSTR", "VOID", "LPVOID",
}

// padOperators appends newOperator, starting at currentChar, with a space
// on each side unless the operator is unary or its context forbids it.
func (f *Formatter) padOperators(newOperator string) {
	prev := f.previousNonWSChar
	plusOrMinus := newOperator == lexer.OpPlus || newOperator == lexer.OpMinus

	shouldPad := newOperator != lexer.OpScope &&
		newOperator != lexer.OpIncrement &&
		newOperator != lexer.OpDecrement &&
		newOperator != lexer.OpNot &&
		newOperator != lexer.OpBitNot &&
		newOperator != lexer.OpArrow &&
		!(plusOrMinus && f.isInExponent()) &&
		// unary plus or minus
		!(plusOrMinus && (prev == '(' || prev == '[' || prev == '=' || prev == ',')) &&
		!f.isCharImmediatelyPostOperator &&
		!((newOperator == lexer.OpMult || newOperator == lexer.OpBitAnd) && f.isPointerOrReference()) &&
		// "->*" and ".*"
		!(newOperator == lexer.OpMult && (prev == '.' || prev == '>')) &&
		!((f.isInTemplate || f.isCharImmediatelyPostTemplate) &&
			(newOperator == lexer.OpLess || newOperator == lexer.OpGreater)) &&
		!(newOperator == lexer.OpGccMinAssign && lexer.PeekNextChar(f.currentLine, f.charNum+1) == '>') &&
		!(newOperator == lexer.OpGreater && prev == '?') &&
		!f.isInCase &&
		!f.isInAsm &&
		!f.isInAsmOneLine &&
		!f.isInAsmBlock

	// a C# nullable type such as "int?" has no ':' after it
	isNullable := newOperator == lexer.OpQuestion && f.dialect.IsCSharp()

	if shouldPad &&
		!(newOperator == lexer.OpColon && !f.foundQuestionMark) &&
		!(isNullable && strings.IndexByte(f.currentLine[f.charNum+1:], ':') < 0) {
		f.appendSpacePad()
	}

	f.appendSequence(newOperator, true)
	f.goForward(len(newOperator) - 1)
	f.currentChar = newOperator[len(newOperator)-1]

	if shouldPad &&
		!f.isBeforeAnyComment() &&
		!(plusOrMinus && f.isUnaryOperator()) &&
		!lexer.HasPrefixAt(f.currentLine, f.charNum+1, ";") &&
		!lexer.HasPrefixAt(f.currentLine, f.charNum+1, lexer.OpScope) &&
		!(isNullable && f.peekNextChar() == '[') {
		f.appendSpaceAfter()
	}

	f.previousOperator = newOperator
}

// itemAlignment returns the alignment for the '*' or '&' at currentChar.
func (f *Formatter) itemAlignment() config.PointerAlign {
	if f.currentChar == '*' {
		return f.pointerAlign
	}
	return f.referenceAlign
}

// formatPointerOrReference appends the '*' or '&' of a declaration placed
// next to the type, centered, or next to the name.
func (f *Formatter) formatPointerOrReference() {
	align := f.itemAlignment()

	// a cast or an unnamed parameter
	peekedChar := f.peekNextChar()
	if f.currentChar == '*' && lexer.CharAt(f.currentLine, f.charNum+1) == '*' {
		peekedChar = lexer.PeekNextChar(f.currentLine, f.charNum+1)
	}
	if peekedChar == ')' || peekedChar == '>' || peekedChar == ',' {
		f.formatPointerOrReferenceCast()
		return
	}

	// drop a space that padding added in front of the symbol
	if f.charNum > 0 &&
		!lexer.IsWhiteSpace(f.currentLine[f.charNum-1]) &&
		f.formattedLine != "" &&
		lexer.IsWhiteSpace(f.formattedLine[len(f.formattedLine)-1]) {
		f.formattedLine = f.formattedLine[:len(f.formattedLine)-1]
	}

	// measured before charNum moves
	isOldCentered := f.isPointerOrReferenceCentered()

	switch align {
	case config.AlignType:
		f.alignPointerToType(isOldCentered)
	case config.AlignMiddle:
		f.alignPointerToMiddle()
	case config.AlignName:
		f.alignPointerToName(peekedChar, isOldCentered)
	default:
		f.appendCurrentChar(true)
	}
}

func (f *Formatter) alignPointerToType(isOldCentered bool) {
	prevCh := max(lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1), 0)

	if f.formattedLine == "" || prevCh == len(f.formattedLine)-1 {
		f.appendCurrentChar(true)
	} else {
		// swap the symbol with the whitespace that follows the type
		charSave := f.formattedLine[prevCh+1 : prevCh+2]
		f.formattedLine = f.formattedLine[:prevCh+1] + charString(f.currentChar) + f.formattedLine[prevCh+2:] + charSave
	}

	if f.isSequenceReached("**") {
		at := min(prevCh+2, len(f.formattedLine))
		f.formattedLine = f.formattedLine[:at] + "*" + f.formattedLine[at:]
		f.goForward(1)
	}

	// the name is separated from the symbol
	if f.charNum < len(f.currentLine)-1 &&
		!lexer.IsWhiteSpace(f.currentLine[f.charNum+1]) &&
		f.currentLine[f.charNum+1] != ')' {
		f.appendSpacePad()
	}

	if isOldCentered && f.formattedLine != "" && lexer.IsWhiteSpace(f.formattedLine[len(f.formattedLine)-1]) {
		f.formattedLine = f.formattedLine[:len(f.formattedLine)-1]
		f.spacePadNum--
	}
}

func (f *Formatter) alignPointerToMiddle() {
	wsBefore := 0
	if before := lastIndexNotBlank(f.currentLine, f.charNum-1); before >= 0 {
		wsBefore = f.charNum - before - 1
	}

	seq := charString(f.currentChar)
	if f.isSequenceReached("**") {
		seq = "**"
		f.goForward(1)
	}

	isAfterScopeResolution := f.previousNonWSChar == ':'
	charNumSave := f.charNum

	// a following comment is not aligned
	if f.isBeforeAnyComment() {
		f.appendSpacePad()
		f.formattedLine += seq
		f.appendSpaceAfter()
		return
	}

	f.moveFollowingWhitespace(false)

	wsAfter := 0
	if after := indexNotBlank(f.currentLine, charNumSave+1); after >= 0 && !f.isBeforeAnyComment() {
		wsAfter = after - charNumSave - 1
	}

	if isAfterScopeResolution {
		// no space before "::*", one after
		lastText := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)
		f.formattedLine = f.formattedLine[:lastText+1] + seq + f.formattedLine[lastText+1:]
		f.appendSpacePad()
		return
	}

	// centering needs at least one space on each side
	if wsBefore+wsAfter < 2 {
		charsToAppend := 2 - (wsBefore + wsAfter)
		f.formattedLine += strings.Repeat(" ", charsToAppend)
		f.spacePadNum += charsToAppend
		if wsBefore == 0 {
			wsBefore++
		}
		if wsAfter == 0 {
			wsAfter++
		}
	}

	padAfter := min((wsBefore+wsAfter)/2, len(f.formattedLine))
	at := len(f.formattedLine) - padAfter
	f.formattedLine = f.formattedLine[:at] + seq + f.formattedLine[at:]
}

func (f *Formatter) alignPointerToName(peekedChar byte, isOldCentered bool) {
	startNum := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)

	seq := charString(f.currentChar)
	if f.isSequenceReached("**") {
		seq = "**"
		f.goForward(1)
	}

	isAfterScopeResolution := f.previousNonWSChar == ':'

	if !f.isBeforeAnyComment() {
		// a padded paren after the symbol stays where it is
		stopAtParen := f.opts.PadParensOutside && peekedChar == '(' && !isOldCentered
		f.moveFollowingWhitespace(stopAtParen)
	}

	switch {
	case startNum >= 0 && isAfterScopeResolution:
		if lastText := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1); lastText+1 < len(f.formattedLine) {
			f.formattedLine = f.formattedLine[:lastText+1]
		}
	case len(f.formattedLine) <= startNum+1 || !lexer.IsWhiteSpace(f.formattedLine[startNum+1]):
		f.formattedLine = f.formattedLine[:startNum+1] + " " + f.formattedLine[startNum+1:]
		f.spacePadNum++
	}

	f.appendSequence(seq, false)

	if isOldCentered &&
		len(f.formattedLine) > startNum+1 &&
		lexer.IsWhiteSpace(f.formattedLine[startNum+1]) &&
		!f.isBeforeAnyComment() {
		f.formattedLine = f.formattedLine[:startNum+1] + f.formattedLine[startNum+2:]
		f.spacePadNum--
	}
}

// moveFollowingWhitespace consumes the whitespace after the symbol and
// appends it, so the symbol can then be placed against the name.
func (f *Formatter) moveFollowingWhitespace(stopAtParen bool) {
	if indexNotBlank(f.currentLine, f.charNum+1) < 0 {
		return
	}
	for i := f.charNum + 1; i < len(f.currentLine) && lexer.IsWhiteSpace(f.currentLine[i]); i++ {
		if stopAtParen {
			break
		}
		f.goForward(1)
		f.formattedLine += f.currentLine[i : i+1]
	}
}

// formatPointerOrReferenceCast appends the symbol of a cast or an unnamed
// parameter, as in "(char*)" or "void f(int&)".
func (f *Formatter) formatPointerOrReferenceCast() {
	align := f.itemAlignment()

	seq := charString(f.currentChar)
	if f.isSequenceReached("**") {
		seq = "**"
		f.goForward(1)
	}

	if align == config.AlignNone {
		f.appendSequence(seq, false)
		return
	}

	// remove trailing whitespace
	prevCh := max(lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1), 0)
	if prevCh+1 < len(f.formattedLine) && lexer.IsWhiteSpace(f.formattedLine[prevCh+1]) {
		f.spacePadNum -= len(f.formattedLine) - 1 - prevCh
		f.formattedLine = f.formattedLine[:prevCh+1]
	}

	if align == config.AlignMiddle || align == config.AlignName {
		f.appendSpacePad()
	}
	f.appendSequence(seq, false)
}

// padParens appends the paren at currentChar, adding or removing the
// spaces around it as the paren options ask.
func (f *Formatter) padParens() {
	if f.currentChar == '(' {
		f.padOpenParen()
		return
	}
	f.padCloseParen()
}

func (f *Formatter) padOpenParen() {
	if f.opts.UnpadParens {
		f.unpadBeforeOpenParen()
	}

	if f.opts.PadParensOutside && f.peekNextChar() != ')' {
		f.appendSpacePad()
	}
	f.appendCurrentChar(true)

	if f.opts.UnpadParens {
		spacesInsideToDelete := 0
		if j := indexNotBlank(f.currentLine, f.charNum+1); j >= 0 {
			spacesInsideToDelete = j - f.charNum - 1
		}
		if f.opts.PadParensInside {
			spacesInsideToDelete--
		}
		if spacesInsideToDelete > 0 {
			f.currentLine = f.currentLine[:f.charNum+1] + f.currentLine[f.charNum+1+spacesInsideToDelete:]
			f.spacePadNum -= spacesInsideToDelete
		}
		if f.opts.ConvertTabs && lexer.CharAt(f.currentLine, f.charNum+1) == '\t' {
			f.currentLine = f.currentLine[:f.charNum+1] + " " + f.currentLine[f.charNum+2:]
		}
	}

	if f.opts.PadParensInside && f.peekNextChar() != ')' {
		f.appendSpaceAfter()
	}
}

// unpadBeforeOpenParen removes the spaces between the previous text and an
// opening paren, except after headers, type names and operators.
func (f *Formatter) unpadBeforeOpenParen() {
	spacesOutsideToDelete := len(f.formattedLine) - 1
	lastChar := byte(' ')
	prevIsParenHeader := false

	i := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)
	if i >= 0 {
		switch {
		case f.formattedLine[i] == '{':
			// the whitespace is an indent
			spacesOutsideToDelete = 0
		case f.isCharImmediatelyPostPtrOrRef:
			spacesOutsideToDelete = 0
		default:
			spacesOutsideToDelete -= i
			lastChar = f.formattedLine[i]
			prevWord := f.previousWord(f.formattedLine, len(f.formattedLine))
			switch {
			case f.opts.PadHeader && prevWord != "" &&
				f.dialect.IsCharPotentialHeader(prevWord, 0) &&
				f.dialect.FindHeader(prevWord, 0, f.catalog.Headers) != "":
				prevIsParenHeader = true
			case prevWord == lexer.Return:
				prevIsParenHeader = true
			case lexer.Contains(unpaddedTypeWords, prevWord),
				len(prevWord) >= 6 && strings.HasSuffix(prevWord, "_t"):
				prevIsParenHeader = true
			}
		}
	}

	// operators keep an existing space
	switch {
	case f.opts.PadParensOutside || prevIsParenHeader:
		spacesOutsideToDelete--
	case lastChar == '(' && f.opts.PadParensInside,
		lastChar == '>' && !f.foundCastOperator,
		strings.IndexByte("|&,<?:;=+-*/%^", lastChar) >= 0:
		spacesOutsideToDelete--
	}

	if spacesOutsideToDelete > 0 {
		f.formattedLine = f.formattedLine[:i+1] + f.formattedLine[i+1+spacesOutsideToDelete:]
		f.spacePadNum -= spacesOutsideToDelete
	}
}

func (f *Formatter) padCloseParen() {
	if f.opts.UnpadParens {
		i := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)
		spacesInsideToDelete := len(f.formattedLine)
		if i >= 0 {
			spacesInsideToDelete = len(f.formattedLine) - 1 - i
		}
		if f.opts.PadParensInside {
			spacesInsideToDelete--
		}
		if spacesInsideToDelete > 0 {
			f.formattedLine = f.formattedLine[:i+1] + f.formattedLine[i+1+spacesInsideToDelete:]
			f.spacePadNum -= spacesInsideToDelete
		}
	}

	if f.opts.PadParensInside && f.previousChar != '(' {
		f.appendSpacePad()
	}
	f.appendCurrentChar(true)

	// spaces after a closing paren are left as they are unless padding
	if f.opts.PadParensOutside {
		switch f.peekNextChar() {
		case ';', ',', '.', '-', ']':
		default:
			f.appendSpaceAfter()
		}
	}
}

// isPointerOrReference reports whether the '*' or '&' at currentChar
// belongs to a declaration, a dereference or an address-of rather than
// being an arithmetic or bitwise operator.
func (f *Formatter) isPointerOrReference() bool {
	if !f.dialect.IsC() {
		return false
	}
	if (f.currentChar == '&' && f.previousChar == '&') || f.isCharImmediatelyPostOperator {
		return false
	}

	prev := f.previousNonWSChar
	if prev == '=' || prev == '(' || prev == '[' ||
		f.currentHeader == lexer.Catch ||
		f.isCharImmediatelyPostReturn {
		return true
	}

	// the last word may be a number
	lastWord := f.previousWord(f.currentLine, f.charNum)
	if lastWord == "" {
		lastWord = " "
	}
	nextChar := f.peekNextChar()

	if lexer.IsDigit(lastWord[0]) || lexer.IsDigit(nextChar) || nextChar == '!' {
		return false
	}

	top := f.brackets.TopType()
	parenDepth := f.parenStack[len(f.parenStack)-1]

	if parenDepth > 0 && f.dialect.IsLegalNameChar(lastWord[0]) && f.dialect.IsLegalNameChar(nextChar) {
		// followed by an assignment it is a declaration
		if nextNum := strings.IndexAny(f.currentLine[f.charNum+1:], "=;)]"); nextNum >= 0 &&
			f.currentLine[f.charNum+1+nextNum] == '=' {
			return true
		}
		// a parameter of a function definition
		return !top.IsCommand()
	}

	if parenDepth > 0 && nextChar == '(' && strings.IndexByte(",(!&*|", prev) < 0 {
		return false
	}

	if nextChar == '-' || nextChar == '+' {
		if next := indexNotBlank(f.currentLine, f.charNum+1); next >= 0 &&
			!lexer.HasPrefixAt(f.currentLine, next, lexer.OpIncrement) &&
			!lexer.HasPrefixAt(f.currentLine, next, lexer.OpDecrement) {
			return false
		}
	}

	isPR := !f.isInPotentialCalculation ||
		top.IsDefinition() ||
		(!f.dialect.IsLegalNameChar(prev) &&
			!(prev == ')' && nextChar == '(') &&
			!(prev == ')' && f.currentChar == '*' && !f.isImmediatelyPostCast()) &&
			prev != ']')

	if !isPR {
		isPR = !lexer.IsWhiteSpace(nextChar) &&
			nextChar != '-' &&
			nextChar != '(' &&
			nextChar != '[' &&
			!f.dialect.IsLegalNameChar(nextChar)
	}
	return isPR
}

// isDereferenceOrAddressOf reports whether a '*' or '&' that
// isPointerOrReference accepted is a unary dereference or address-of.
func (f *Formatter) isDereferenceOrAddressOf() bool {
	prev := f.previousNonWSChar
	if strings.IndexByte("=,.{><", prev) >= 0 || f.isCharImmediatelyPostReturn {
		return true
	}

	if f.currentChar == '*' && lexer.CharAt(f.currentLine, f.charNum+1) == '*' {
		return prev == '('
	}

	// first text on the line
	if f.charNum == indexNotBlank(f.currentLine, 0) {
		return true
	}

	if next := indexNotBlank(f.currentLine, f.charNum+1); next >= 0 {
		switch f.currentLine[next] {
		case ')', '>', ',':
			return false
		}
	}

	if !f.brackets.TopType().IsCommand() && f.parenStack[len(f.parenStack)-1] == 0 {
		return false
	}

	lastWord := f.previousWord(f.currentLine, f.charNum)
	if lastWord == lexer.Else || lastWord == "delete" {
		return true
	}

	peeked := f.peekNextChar()
	return !(f.dialect.IsLegalNameChar(prev) || prev == '>') ||
		(!f.dialect.IsLegalNameChar(peeked) && peeked != '/') ||
		(lexer.IsPunct(prev) && prev != '.') ||
		f.isCharImmediatelyPostReturn
}

// isPointerOrReferenceCentered reports whether the symbol at charNum has
// exactly one space on each side. Tabs do not count.
func (f *Formatter) isPointerOrReferenceCentered() bool {
	line := f.currentLine
	prNum := f.charNum

	if f.peekNextChar() == ' ' {
		return false
	}
	if prNum < 1 || line[prNum-1] != ' ' {
		return false
	}
	if prNum < 2 || line[prNum-2] == ' ' {
		return false
	}
	if prNum+1 < len(line) && line[prNum+1] == '*' {
		prNum++
	}
	if prNum+1 <= len(line) && lexer.CharAt(line, prNum+1) != ' ' {
		return false
	}
	if prNum+2 < len(line) && line[prNum+2] == ' ' {
		return false
	}
	return true
}

// isUnaryOperator reports whether the '+' or '-' at currentChar is unary.
func (f *Formatter) isUnaryOperator() bool {
	prev := f.previousCommandChar
	return (f.isCharImmediatelyPostReturn || !f.dialect.IsLegalNameChar(prev)) &&
		prev != '.' && prev != '"' && prev != '\'' && prev != ')' && prev != ']'
}

// isInExponent reports whether the '+' or '-' at currentChar is the sign
// of an exponent, as in 0.2E-5.
func (f *Formatter) isInExponent() bool {
	n := len(f.formattedLine)
	if n < 2 {
		return false
	}
	prevPrev, prev := f.formattedLine[n-2], f.formattedLine[n-1]
	return (prev == 'e' || prev == 'E') && (prevPrev == '.' || lexer.IsDigit(prevPrev))
}

// isImmediatelyPostCast reports whether the ')' before a '*' closes a
// pointer cast such as "(char*)".
func (f *Formatter) isImmediatelyPostCast() bool {
	paren := strings.LastIndexByte(f.currentLine[:min(f.charNum+1, len(f.currentLine))], ')')
	if paren <= 0 {
		return false
	}
	lastChar := lastIndexNotBlank(f.currentLine, paren-1)
	return lastChar >= 0 && f.currentLine[lastChar] == '*'
}
