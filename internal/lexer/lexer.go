// Package lexer provides the character and word level primitives shared by
// the indentation engine and the token reformatter, together with the
// per-dialect keyword and operator catalogs.
//
// Nothing here builds tokens or a tree. Every function inspects a single
// line at a byte offset and answers a yes/no question or returns the
// matching catalog entry. Offsets past the end of the line are tolerated:
// CharAt returns 0 there and the match helpers report no match.
package lexer

// CharAt returns line[i], or 0 when i is outside the line.
func CharAt(line string, i int) byte {
	if i < 0 || i >= len(line) {
		return 0
	}
	return line[i]
}

// HasPrefixAt reports whether seq occurs in line starting at offset i.
func HasPrefixAt(line string, i int, seq string) bool {
	if i < 0 || i+len(seq) > len(line) {
		return false
	}
	return line[i:i+len(seq)] == seq
}

// IsWhiteSpace reports whether ch is a space or a tab.
func IsWhiteSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// IsDigit reports whether ch is an ASCII digit.
func IsDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch byte) bool {
	return IsDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// IsPunct reports whether ch is printable ASCII that is neither a letter,
// a digit nor a space.
func IsPunct(ch byte) bool {
	return ch > ' ' && ch < 127 && !isAlnum(ch)
}

// IsLegalNameChar reports whether ch can appear in an identifier of the
// dialect. Dots are accepted so qualified names read as one word.
func (d Dialect) IsLegalNameChar(ch byte) bool {
	if IsWhiteSpace(ch) || ch > 127 {
		return false
	}
	return isAlnum(ch) || ch == '.' || ch == '_' ||
		(d == Java && ch == '$') ||
		(d == CSharp && ch == '@')
}

// IsCharPotentialHeader reports whether a word starts at line[i].
func (d Dialect) IsCharPotentialHeader(line string, i int) bool {
	prev := byte(' ')
	if i > 0 {
		prev = CharAt(line, i-1)
	}
	return !d.IsLegalNameChar(prev) && d.IsLegalNameChar(CharAt(line, i))
}

// IsCharPotentialOperator reports whether ch may begin an operator.
// Brackets, parens, separators, quotes and the preprocessor mark are not
// operators.
func IsCharPotentialOperator(ch byte) bool {
	if !IsPunct(ch) {
		return false
	}
	switch ch {
	case '{', '}', '(', ')', '[', ']', ';', ',', '#', '\\', '\'', '"':
		return false
	}
	return true
}

// PeekNextChar returns the first non-blank byte after offset i, or a space
// when the rest of the line is blank.
func PeekNextChar(line string, i int) byte {
	for j := i + 1; j < len(line); j++ {
		if !IsWhiteSpace(line[j]) {
			return line[j]
		}
	}
	return ' '
}

// CurrentWord returns the run of name characters starting at index.
func (d Dialect) CurrentWord(line string, index int) string {
	if index < 0 || index >= len(line) {
		return ""
	}
	i := index
	for i < len(line) && d.IsLegalNameChar(line[i]) {
		i++
	}
	return line[index:i]
}

// FindKeyword reports whether keyword occurs as a whole word at line[i]
// that is not part of a parameter list (followed by ',' or ')').
func (d Dialect) FindKeyword(line string, i int, keyword string) bool {
	if !HasPrefixAt(line, i, keyword) {
		return false
	}
	end := i + len(keyword)
	if end == len(line) {
		return true
	}
	if d.IsLegalNameChar(line[end]) {
		return false
	}
	peek := PeekNextChar(line, end-1)
	return peek != ',' && peek != ')'
}

// FindHeader returns the entry of the name-sorted list that occurs as a
// whole word at line[i], or "" when none does.
//
// A word followed by ',' or ')' is never a header. get, set and default
// followed by ';' or '(' are not headers either: they are accessor
// declarations, "goto default;" or the C# default(T) expression.
func (d Dialect) FindHeader(line string, i int, list []string) string {
	for _, header := range list {
		end := i + len(header)
		if end > len(line) {
			continue
		}
		word := line[i:end]
		if word > header {
			continue
		}
		if word < header {
			break
		}
		if end == len(line) {
			return header
		}
		if d.IsLegalNameChar(line[end]) {
			continue
		}

		peek := PeekNextChar(line, end-1)
		if peek == ',' || peek == ')' {
			break
		}
		if (header == Get || header == Set || header == Default) && (peek == ';' || peek == '(') {
			break
		}
		return header
	}
	return ""
}

// FindOperator returns the first entry of the length-sorted list that
// occurs at line[i], which is the longest operator there, or "".
func FindOperator(line string, i int, list []string) string {
	for _, op := range list {
		if HasPrefixAt(line, i, op) {
			return op
		}
	}
	return ""
}

// IndexOf returns the position of s in list, or -1.
func IndexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Contains reports whether s is an entry of list.
func Contains(list []string, s string) bool {
	return IndexOf(list, s) >= 0
}
