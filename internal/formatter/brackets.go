package formatter

import (
	"strings"

	"github.com/hassan/stylefmt/internal/bracket"
	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
)

// handleBracket opens or closes a bracket frame at '{' or '}' and formats
// the bracket.
func (f *Formatter) handleBracket() {
	// an appended bracket was pushed when it was split off
	if f.currentChar == '{' && !f.appendOpeningBracket {
		f.openBracket()
	}

	// taken before a closing bracket pops its frame
	bracketType := f.brackets.TopType()
	isOpeningArrayBracket := bracketType.IsArray() &&
		f.brackets.Len() >= 2 &&
		!f.brackets.Parent().Type.IsArray()

	if f.currentChar == '}' {
		f.closeBracket(bracketType)
	}

	f.appendOpeningBracket = false

	switch {
	case bracketType.IsArray():
		f.formatArrayBrackets(bracketType, isOpeningArrayBracket)
	case f.currentChar == '{':
		f.formatOpeningBracket(bracketType)
	default:
		f.formatClosingBracket(bracketType)
	}
}

func (f *Formatter) openBracket() {
	newType := f.bracketType()

	f.foundNamespaceHeader = false
	f.foundClassHeader = false
	f.foundStructHeader = false
	f.foundInterfaceHeader = false
	f.foundPreDefinitionHeader = false
	f.foundPreCommandHeader = false
	f.isInPotentialCalculation = false
	f.isJavaStaticConstructor = false
	f.isCharImmediatelyPostNonInStmt = false
	f.needHeaderOpeningBracket = false

	f.isPrevBracketBlockRelated = !newType.IsArray()
	f.brackets.Push(bracket.Frame{
		Type:             newType,
		Header:           f.currentHeader,
		IndentableStruct: f.hints.InIndentableStruct,
	})
	f.currentHeader = ""

	f.hints.InIndentableStruct = newType.Has(bracket.Struct) &&
		f.dialect.IsC() &&
		f.isStructAccessModified(f.currentLine, f.charNum)
}

func (f *Formatter) closeBracket(bracketType bracket.Type) {
	// no empty line is needed between a block and the '}' that ends its
	// enclosing block
	f.appendPostBlockEmptyLine = false
	f.breakCurrentOneLineBlock = false
	f.isInAsmBlock = false
	f.isInAsm = false
	f.isInAsmOneLine = false
	f.isInQuote = false

	frame, ok := f.brackets.Pop()
	if ok {
		f.previousBracketType = frame.Type
		f.isPrevBracketBlockRelated = !bracketType.IsArray()
	} else {
		f.previousBracketType = bracket.Null
		f.isPrevBracketBlockRelated = false
	}
	f.currentHeader = frame.Header
	f.hints.InIndentableStruct = frame.IndentableStruct

	if f.hints.NonInStatementArray &&
		(!f.brackets.TopType().IsArray() || f.peekNextChar() == ';') {
		f.isImmediatelyPostNonInStmt = true
	}
}

// bracketType classifies the '{' at charNum from what preceded it.
func (f *Formatter) bracketType() bracket.Type {
	var t bracket.Type

	switch {
	case (f.previousNonWSChar == '=' || f.brackets.TopType().IsArray()) && f.previousCommandChar != ')':
		t = bracket.Array
	case f.foundPreDefinitionHeader:
		t = bracket.Definition
		switch {
		case f.foundNamespaceHeader:
			t |= bracket.Namespace
		case f.foundClassHeader:
			t |= bracket.Class
		case f.foundStructHeader:
			t |= bracket.Struct
		case f.foundInterfaceHeader:
			t |= bracket.Interface
		}
	default:
		isCommand := f.foundPreCommandHeader ||
			(f.currentHeader != "" && f.isNonParenHeader) ||
			f.previousCommandChar == ')' ||
			(f.previousCommandChar == ':' && !f.foundQuestionMark) ||
			f.previousCommandChar == ';' ||
			((f.previousCommandChar == '{' || f.previousCommandChar == '}') && f.isPrevBracketBlockRelated) ||
			f.isJavaStaticConstructor ||
			f.hints.SharpDelegate

		// C# accessors have no parens before their body
		if !isCommand && f.dialect.IsCSharp() && f.isNextWordSharpNonParenHeader(f.charNum+1) {
			isCommand = true
			f.hints.SharpAccessor = true
		}

		switch {
		case !isCommand && f.hints.InExtern:
			t = bracket.Extern
		case isCommand:
			t = bracket.Command
		default:
			t = bracket.Array
		}
	}

	// a one-line block followed by a comma is taken for an array element
	oneLine := f.isOneLineBlockReached(f.currentLine, f.charNum)
	if oneLine == 2 && t == bracket.Command {
		t = bracket.Array
	}
	if oneLine > 0 {
		t |= bracket.SingleLine
	}

	if t.IsArray() && f.isNonInStatementArrayBracket() {
		t |= bracket.ArrayNIS
		f.hints.NonInStatementArray = true
		f.hints.NonInStatementBracket = len(f.formattedLine) - 1
	}
	return t
}

// isNonInStatementArrayBracket reports whether the array bracket at
// charNum has its elements indented as a block rather than aligned after
// the bracket.
func (f *Formatter) isNonInStatementArrayBracket() bool {
	nextChar := f.peekNextChar()
	nonInStatement := false

	if f.currentLineBeginsBracket && f.charNum == f.firstBracketNum && nextChar != '}' {
		nonInStatement = true
	}
	if lexer.IsWhiteSpace(nextChar) || f.isBeforeAnyLineEndComment(f.charNum) || nextChar == '{' {
		nonInStatement = true
	}
	// Java "new Type[] {...}" is aligned
	if f.dialect.IsJava() && f.previousNonWSChar == ']' {
		nonInStatement = false
	}
	return nonInStatement
}

// isOneLineBlockReached reports whether the bracket at line[start] closes
// on the same line. It returns 0 when it does not, 1 when it does, and 2
// when it does and a comma follows.
func (f *Formatter) isOneLineBlockReached(line string, start int) int {
	inComment := false
	inQuote := false
	quote := byte(' ')
	prevCh := byte(' ')
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
			if f.parenStack[len(f.parenStack)-1] == 0 && prevCh != '}' {
				if next := indexNotBlank(line, i+1); next >= 0 && line[next] == ',' {
					return 2
				}
			}
			return 1
		}

		if !lexer.IsWhiteSpace(ch) {
			prevCh = ch
		}
	}
	return 0
}

// isOkToBreakBlock reports whether a block of type t may be split over
// several lines. One-line arrays are never split.
func (f *Formatter) isOkToBreakBlock(t bracket.Type) bool {
	if t.IsArray() && t.IsSingleLine() {
		return false
	}
	return !t.IsSingleLine() || f.breakOneLineBlocks || f.breakCurrentOneLineBlock
}

// isCurrentBracketBroken decides, from the bracket mode and the enclosing
// frames, whether the '{' just pushed goes on a line of its own.
func (f *Formatter) isCurrentBracketBroken() bool {
	end := f.brackets.Len() - 1
	top := f.brackets.At(end).Type

	if top.IsExtern() {
		return f.currentLineBeginsBracket || f.bracketMode == config.BracketsRunIn
	}

	switch f.bracketMode {
	case config.BracketsNone:
		return f.currentLineBeginsBracket && f.firstBracketNum == f.charNum
	case config.BracketsBreak, config.BracketsRunIn:
		return true
	case config.BracketsLinux, config.BracketsStroustrup:
	default:
		return false
	}

	linux := f.bracketMode == config.BracketsLinux
	switch {
	case top.Has(bracket.Class):
		return linux
	case top.Has(bracket.Namespace) || top.Has(bracket.Interface):
		return linux
	case end == 1 && top.IsCommand():
		// a top-level function
		return true
	case end > 1:
		parent := f.brackets.At(end - 1).Type
		if parent.Has(bracket.Namespace) || parent.IsExtern() {
			return top.IsCommand()
		}
		// methods are broken inside classes outside C
		if !f.dialect.IsC() {
			return (parent.Has(bracket.Class) || parent.IsArray() || parent.Has(bracket.Struct)) && top.IsCommand()
		}
	}
	return false
}

func (f *Formatter) formatOpeningBracket(t bracket.Type) {
	f.parenStack = append(f.parenStack, 0)

	if f.isCurrentBracketBroken() {
		f.formatBrokenOpeningBracket(t)
		return
	}
	f.formatAttachedOpeningBracket(t)
}

func (f *Formatter) formatBrokenOpeningBracket(t bracket.Type) {
	switch {
	case f.isBeforeAnyComment() && f.isOkToBreakBlock(t):
		if f.isBeforeAnyLineEndComment(f.charNum) && !f.currentLineBeginsBracket {
			// the comment stays on this line and the bracket moves to the next
			f.currentChar = ' '
			if len(f.parenStack) > 1 {
				f.parenStack = f.parenStack[:len(f.parenStack)-1]
			}
			f.currentLine = f.currentLine[:f.charNum] + " " + f.currentLine[f.charNum+1:]
			f.appendOpeningBracket = true
		} else if !f.isBeforeMultipleLineEndComments(f.charNum) {
			f.breakLine()
		}
	case !t.IsSingleLine():
		f.breakLine()
	case f.breakOneLineBlocks && f.peekNextChar() != '}':
		f.breakLine()
	case !f.isInLineBreak:
		f.appendSpacePad()
	}

	f.appendCurrentChar(true)

	// a comment after a broken bracket starts its own line
	if f.isBeforeComment() &&
		f.formattedLine != "" && f.formattedLine[0] == '{' &&
		f.isOkToBreakBlock(t) &&
		(f.bracketMode == config.BracketsBreak ||
			f.bracketMode == config.BracketsLinux ||
			f.bracketMode == config.BracketsStroustrup) {
		f.shouldBreakLineAtNextChar = true
	}
}

func (f *Formatter) formatAttachedOpeningBracket(t bracket.Type) {
	switch {
	case f.isCharImmediatelyPostComment || f.isCharImmediatelyPostLineComment:
		if f.isOkToBreakBlock(t) &&
			!(f.isCharImmediatelyPostComment && f.isCharImmediatelyPostLineComment) &&
			!f.isImmediatelyPostPreprocessor &&
			f.peekNextChar() != '}' &&
			f.previousCommandChar != '{' &&
			f.previousCommandChar != '}' &&
			f.previousCommandChar != ';' {
			f.appendCharInsideComments()
		} else {
			f.appendCurrentChar(true)
		}

	case f.previousCommandChar == '{' || f.previousCommandChar == '}' || f.previousCommandChar == ';':
		f.appendCurrentChar(true)

	case isEmptyLine(f.formattedLine):
		// a blank line comes before the bracket
		f.appendCurrentChar(true)

	case f.isOkToBreakBlock(t) && !(f.isImmediatelyPostPreprocessor && f.currentLineBeginsBracket):
		f.appendSpacePad()
		if f.peekNextChar() == '}' {
			f.appendCurrentChar(true)
			return
		}
		f.appendCurrentChar(false)

		// a block comment after the attached bracket keeps its column on
		// the next line
		if f.isBeforeComment() &&
			!f.isBeforeMultipleLineEndComments(f.charNum) &&
			(!f.isBeforeAnyLineEndComment(f.charNum) || f.currentLineBeginsBracket) {
			f.breakLine()
			f.currentLine = f.currentLine[:f.charNum+1] +
				strings.Repeat(" ", f.charNum+1) +
				f.currentLine[f.charNum+1:]
		}

	default:
		if !f.isInLineBreak {
			f.appendSpacePad()
		}
		f.appendCurrentChar(true)
	}
}

func (f *Formatter) formatClosingBracket(t bracket.Type) {
	if len(f.parenStack) > 1 {
		f.parenStack = f.parenStack[:len(f.parenStack)-1]
	}

	// '{}' marks an empty block for the character that follows
	if f.previousCommandChar == '{' {
		f.isImmediatelyPostEmptyBlock = true
	}

	switch {
	case f.attachClosingBracket:
		mayBreak := !t.IsSingleLine() || f.isOkToBreakBlock(t)
		if (isEmptyLine(f.formattedLine) ||
			f.isCharImmediatelyPostLineComment ||
			f.isCharImmediatelyPostComment ||
			(f.isImmediatelyPostPreprocessor && indexNotBlank(f.currentLine, 0) == f.charNum)) &&
			mayBreak {
			f.breakLine()
			f.appendCurrentChar(true)
		} else {
			if f.previousNonWSChar != '{' && mayBreak {
				f.appendSpacePad()
			}
			f.appendCurrentChar(false)
		}

	case !(f.previousCommandChar == '{' && f.isPrevBracketBlockRelated) && f.isOkToBreakBlock(t):
		f.breakLine()
		f.appendCurrentChar(true)

	default:
		f.appendCurrentChar(true)
	}

	// a declaration follows the definition
	if f.dialect.IsLegalNameChar(f.peekNextChar()) {
		f.appendSpaceAfter()
	}

	if f.breakBlocks && f.currentHeader != "" && f.parenStack[len(f.parenStack)-1] == 0 {
		if f.currentHeader == lexer.Case || f.currentHeader == lexer.Default {
			// a break after the case block keeps it company
			nextText := f.peekNextText(f.currentLine[f.charNum+1:], false, false)
			if !strings.HasPrefix(nextText, "break") {
				f.appendPostBlockEmptyLine = true
			}
		} else {
			f.appendPostBlockEmptyLine = true
		}
	}
}

// formatArrayBrackets attaches or breaks the brackets of an initializer
// list or enum. Only the outermost opening bracket follows the bracket mode.
func (f *Formatter) formatArrayBrackets(t bracket.Type, isOpeningArrayBracket bool) {
	if f.currentChar == '}' {
		f.formatArrayClosingBracket(t)
		return
	}

	if !isOpeningArrayBracket {
		nestedRunIn := f.previousNonWSChar == '{' &&
			f.brackets.Len() > 2 &&
			!f.brackets.Parent().Type.IsSingleLine()
		if f.bracketMode == config.BracketsRunIn {
			if nestedRunIn {
				f.formatArrayRunIn()
			}
		} else if !f.isInLineBreak && !lexer.IsWhiteSpace(f.peekNextChar()) && nestedRunIn {
			f.formatArrayRunIn()
		}
		f.appendCurrentChar(true)
		return
	}

	switch f.bracketMode {
	case config.BracketsAttach, config.BracketsLinux, config.BracketsStroustrup:
		switch {
		case f.isImmediatelyPostPreprocessor && f.currentLineBeginsBracket:
			// never attached to a directive
			f.isInLineBreak = true
			f.appendCurrentChar(true)
		case f.isCharImmediatelyPostComment:
			f.appendCurrentChar(true)
		case f.isCharImmediatelyPostLineComment && !t.IsSingleLine():
			f.appendCharInsideComments()
		case isEmptyLine(f.formattedLine):
			f.appendCurrentChar(true)
		case f.currentLineBeginsBracket && !t.IsSingleLine():
			f.appendSpacePad()
			f.appendCurrentChar(false)
			if f.firstBracketNum == f.charNum {
				f.shouldBreakLineAtNextChar = true
			}
		default:
			f.appendSpacePad()
			f.appendCurrentChar(true)
		}

	case config.BracketsBreak, config.BracketsRunIn:
		if lexer.IsWhiteSpace(f.peekNextChar()) {
			f.breakLine()
		} else if f.isBeforeAnyComment() {
			// only a comment that ends the line keeps the bracket from it
			if f.isBeforeAnyLineEndComment(f.charNum) && !f.currentLineBeginsBracket {
				f.currentChar = ' '
				f.appendOpeningBracket = true
			}
		}
		if !f.isInLineBreak {
			f.appendSpacePad()
		}
		f.appendCurrentChar(true)

		if f.bracketMode == config.BracketsBreak &&
			f.currentLineBeginsBracket &&
			f.firstBracketNum == f.charNum &&
			!t.IsSingleLine() {
			f.shouldBreakLineAtNextChar = true
		}

	default:
		if f.currentLineBeginsBracket {
			f.appendCurrentChar(true)
		} else {
			f.appendSpacePad()
			f.appendCurrentChar(false)
		}
	}
}

func (f *Formatter) formatArrayClosingBracket(t bracket.Type) {
	if f.attachClosingBracket {
		if isEmptyLine(f.formattedLine) ||
			f.isImmediatelyPostPreprocessor ||
			f.isCharImmediatelyPostLineComment ||
			f.isCharImmediatelyPostComment {
			f.appendCurrentChar(true)
		} else {
			f.appendSpacePad()
			f.appendCurrentChar(false)
		}
	} else {
		// an anonymous block may have made a one-line array multi-line
		if !t.IsSingleLine() || !strings.Contains(f.formattedLine, "{") {
			f.breakLine()
		}
		f.appendCurrentChar(true)
	}

	// a declaration follows an enum definition
	if peeked := f.peekNextChar(); f.dialect.IsLegalNameChar(peeked) || peeked == '[' {
		f.appendSpaceAfter()
	}
}

// formatRunIn puts the first statement of a block on the line of its
// broken opening bracket, padding the bracket to a full indent.
func (f *Formatter) formatRunIn() {
	top := f.brackets.Top()

	// one-line blocks are kept without a run-in
	if !f.isOkToBreakBlock(top.Type) {
		return
	}

	lastText := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)
	if lastText < 0 || f.formattedLine[lastText] != '{' {
		return
	}
	// the bracket must be alone on its line
	if strings.Trim(f.formattedLine, " \t{") != "" {
		return
	}
	if top.Type.Has(bracket.Namespace) {
		return
	}

	extraIndent := false
	f.isInLineBreak = true

	// access modifiers run in only when they are indented
	if f.dialect.IsC() &&
		f.dialect.IsCharPotentialHeader(f.currentLine, f.charNum) &&
		(top.Type.Has(bracket.Class) || (top.Type.Has(bracket.Struct) && f.hints.InIndentableStruct)) {
		if f.isAccessModifierReached() {
			if !f.opts.IndentClasses {
				return
			}
		} else if f.opts.IndentClasses {
			extraIndent = true
		}
	}

	isCaseLabel := f.dialect.IsCharPotentialHeader(f.currentLine, f.charNum) &&
		(f.dialect.FindKeyword(f.currentLine, f.charNum, lexer.Case) ||
			f.dialect.FindKeyword(f.currentLine, f.charNum, lexer.Default))
	if !f.opts.IndentSwitches && isCaseLabel {
		return
	}

	if f.opts.IndentSwitches &&
		top.Header == lexer.Switch &&
		((f.dialect.IsLegalNameChar(f.currentChar) && !f.dialect.FindKeyword(f.currentLine, f.charNum, lexer.Case)) ||
			f.isSequenceReached(lexer.OpenLineComment) ||
			f.isSequenceReached(lexer.OpenComment)) {
		extraIndent = true
	}

	f.isInLineBreak = false
	f.padRunIn(lastText, extraIndent)
}

// formatArrayRunIn puts the first element of a nested array on the line of
// its broken opening bracket.
func (f *Formatter) formatArrayRunIn() {
	if strings.Trim(f.formattedLine, " \t{") != "" {
		return
	}
	lastText := lastIndexNotBlank(f.formattedLine, len(f.formattedLine)-1)
	if lastText < 0 || f.formattedLine[lastText] != '{' {
		return
	}
	f.padRunIn(lastText, false)
	f.isInLineBreak = false
}

// padRunIn trims whitespace after the bracket at lastText and pads it to an
// indent, recording the width for the beautifier.
func (f *Formatter) padRunIn(lastText int, extraIndent bool) {
	f.formattedLine = f.formattedLine[:lastText+1]

	if f.beaut.IndentString() == "\t" {
		f.appendChar('\t', false)
		// one for the bracket and one for the tab
		f.runInIndentChars = 2
		if extraIndent {
			f.appendChar('\t', false)
			f.runInIndentChars++
		}
	} else {
		indent := f.beaut.IndentLength()
		f.formattedLine += strings.Repeat(" ", indent-1)
		f.runInIndentChars = indent
		if extraIndent {
			f.formattedLine += strings.Repeat(" ", indent)
			f.runInIndentChars += indent
		}
	}
	f.isInRunIn = true
}

func (f *Formatter) isAccessModifierReached() bool {
	for _, kw := range []string{lexer.Public, lexer.Private, lexer.Protected} {
		if f.dialect.FindKeyword(f.currentLine, f.charNum, kw) {
			return true
		}
	}
	return false
}
