package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestIsLegalNameChar(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		ch       byte
		expected bool
	}{
		{"letter", C, 'a', true},
		{"digit", C, '7', true},
		{"underscore", C, '_', true},
		{"dot joins qualified names", C, '.', true},
		{"dollar in C", C, '$', false},
		{"dollar in Java", Java, '$', true},
		{"at in C", C, '@', false},
		{"at in C#", CSharp, '@', true},
		{"space", C, ' ', false},
		{"tab", Java, '\t', false},
		{"high byte", C, 0xC3, false},
		{"paren", C, '(', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.IsLegalNameChar(tt.ch))
		})
	}
}

func TestIsCharPotentialOperator(t *testing.T) {
	// '_' and '@' are punctuation in the C locale, so they qualify
	for _, ch := range []byte("+-*/%=<>!&|^~?:._@") {
		assert.True(t, IsCharPotentialOperator(ch), "expected %q to start an operator", ch)
	}
	for _, ch := range []byte("{}()[];,#\\'\"a1 \t\x80\xe9") {
		assert.False(t, IsCharPotentialOperator(ch), "expected %q not to start an operator", ch)
	}
}

func TestIsCharPotentialHeader(t *testing.T) {
	line := "x=if(y)"
	assert.True(t, C.IsCharPotentialHeader(line, 0))
	assert.False(t, C.IsCharPotentialHeader(line, 1))
	assert.True(t, C.IsCharPotentialHeader(line, 2))
	assert.False(t, C.IsCharPotentialHeader(line, 3), "inside a word")
}

func TestPeekNextChar(t *testing.T) {
	assert.Equal(t, byte('('), PeekNextChar("if  \t(x)", 1))
	assert.Equal(t, byte(' '), PeekNextChar("end   ", 2))
	assert.Equal(t, byte(' '), PeekNextChar("end", 10))
}

func TestCurrentWord(t *testing.T) {
	assert.Equal(t, "foo.bar", C.CurrentWord("x foo.bar(1)", 2))
	assert.Equal(t, "$name", Java.CurrentWord("$name = 1", 0))
	assert.Equal(t, "", C.CurrentWord("abc", 5))
}

func TestFindKeyword(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		i        int
		keyword  string
		expected bool
	}{
		{"whole word", "new Foo()", 0, New, true},
		{"end of line", "return", 0, Return, true},
		{"longer word", "newer()", 0, New, false},
		{"parameter list comma", "f(enum, x)", 2, Enum, false},
		{"parameter list paren", "f(x, enum)", 5, Enum, false},
		{"past end", "ne", 0, New, false},
		{"return with paren", "return(x);", 0, Return, true},
		{"return with spaced paren", "return (x);", 0, Return, true},
		{"return as an argument", "f(return)", 2, Return, false},
		{"case as an argument", "f(case)", 2, Case, false},
		{"case before a label", "case 1:", 0, Case, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, C.FindKeyword(tt.line, tt.i, tt.keyword))
		})
	}
}

func TestFindHeader(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		line     string
		i        int
		expected string
	}{
		{"if with paren", C, "if (x > 0)", 0, If},
		{"else before bracket", C, "else{", 0, Else},
		{"else at end of line", C, "} else", 2, Else},
		{"prefix of a longer word", C, "elsewhere = 1;", 0, ""},
		{"do is not double", C, "double d;", 0, ""},
		{"case inside call", C, "f(case)", 2, ""},
		{"header before comma", C, "g(do, 1)", 2, ""},
		{"default label", C, "default:", 0, Default},
		{"goto default", C, "goto default;", 5, ""},
		{"C# default expression", CSharp, "x = default(int);", 4, ""},
		{"C# get accessor", CSharp, "get { return x; }", 0, Get},
		{"C# auto property", CSharp, "get; set;", 0, ""},
		{"Java synchronized", Java, "synchronized (lock) {", 0, Synchronized},
		{"C has no foreach", C, "foreach (x in y)", 0, ""},
		{"C# foreach", CSharp, "foreach (x in y)", 0, Foreach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := FormatterCatalog(tt.dialect).Headers
			assert.Equal(t, tt.expected, tt.dialect.FindHeader(tt.line, tt.i, headers))
		})
	}
}

func TestFindOperator(t *testing.T) {
	ops := FormatterCatalog(C).Operators
	tests := []struct {
		line     string
		expected string
	}{
		{"a >>= 2", ">>="},
		{"a >> 2", ">>"},
		{"a > 2", ">"},
		{"a->b", "->"},
		{"a::b", "::"},
		{"a ?? b", "??"},
		{"a <<<= b", "<<<="},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			i := strings.IndexAny(tt.line, "=<>-:?")
			assert.Equal(t, tt.expected, FindOperator(tt.line, i, ops))
		})
	}
}

func TestFindOperatorReturnsLongestMatch(t *testing.T) {
	ops := FormatterCatalog(C).Operators
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.StringOfN(rapid.SampledFrom([]rune("+-*/%=<>!&|^~?:")), 1, 6, -1).Draw(rt, "line")

		found := FindOperator(line, 0, ops)
		for _, op := range ops {
			if strings.HasPrefix(line, op) && len(op) > len(found) {
				rt.Fatalf("FindOperator(%q) = %q, but %q is longer", line, found, op)
			}
		}
		if found != "" && !strings.HasPrefix(line, found) {
			rt.Fatalf("FindOperator(%q) = %q is not a prefix", line, found)
		}
	})
}

func TestCharAtAndHasPrefixAt(t *testing.T) {
	assert.Equal(t, byte('b'), CharAt("abc", 1))
	assert.Equal(t, byte(0), CharAt("abc", 3))
	assert.Equal(t, byte(0), CharAt("abc", -1))
	assert.True(t, HasPrefixAt("a /* b", 2, OpenComment))
	assert.False(t, HasPrefixAt("a /", 2, OpenComment))
}
