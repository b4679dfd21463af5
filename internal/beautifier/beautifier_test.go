package beautifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
	"github.com/hassan/stylefmt/internal/source"
)

func indent(t *testing.T, opts config.Options, d lexer.Dialect, input string) string {
	t.Helper()
	b := New(opts, d)
	b.Init(source.NewStreamIterator([]byte(input)))
	var out []string
	for b.HasMoreLines() {
		out = append(out, b.NextLine())
	}
	return strings.Join(out, "\n")
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestBeautify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "broken brackets",
			input: lines("void f()", "{", "if (x)", "{", "y();", "}", "}"),
			expected: lines(
				"void f()",
				"{",
				"    if (x)",
				"    {",
				"        y();",
				"    }",
				"}",
			),
		},
		{
			name:  "attached brackets with else",
			input: lines("int main() {", "if (a) {", "b = 1;", "} else {", "c;", "}", "return 0;", "}"),
			expected: lines(
				"int main() {",
				"    if (a) {",
				"        b = 1;",
				"    } else {",
				"        c;",
				"    }",
				"    return 0;",
				"}",
			),
		},
		{
			name:  "switch without case indent",
			input: lines("switch (x)", "{", "case 1:", "a();", "break;", "default:", "b();", "}"),
			expected: lines(
				"switch (x)",
				"{",
				"case 1:",
				"    a();",
				"    break;",
				"default:",
				"    b();",
				"}",
			),
		},
		{
			name:     "continuation aligns after paren",
			input:    lines("foo(a,", "b);"),
			expected: lines("foo(a,", "    b);"),
		},
		{
			name:     "existing indentation is replaced",
			input:    lines("{", "        x;", "  }"),
			expected: lines("{", "    x;", "}"),
		},
		{
			name:     "block comment body keeps its offset",
			input:    lines("{", "/*", " * x", " */", "}"),
			expected: lines("{", "    /*", "     * x", "     */", "}"),
		},
		{
			name:  "access modifier in class",
			input: lines("class A", "{", "public:", "int x;", "};"),
			expected: lines(
				"class A",
				"{",
				"public:",
				"    int x;",
				"};",
			),
		},
		{
			name: "else branch of #ifdef starts from the if branch state",
			input: lines(
				"{", "#ifdef A", "if (a)", "#else", "if (b)", "#endif",
				"{", "c();", "}", "}",
			),
			expected: lines(
				"{",
				"#ifdef A",
				"    if (a)",
				"#else",
				"    if (b)",
				"#endif",
				"    {",
				"        c();",
				"    }",
				"}",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indent(t, config.Defaults(), lexer.C, tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIndentClasses(t *testing.T) {
	opts := config.Defaults()
	opts.IndentClasses = true

	got := indent(t, opts, lexer.C, lines("class A", "{", "public:", "int x;", "};"))
	assert.Equal(t, lines(
		"class A",
		"{",
		"    public:",
		"        int x;",
		"};",
	), got)
}

func TestTabIndentation(t *testing.T) {
	opts := config.Defaults()
	opts.Indent = config.IndentTab

	got := indent(t, opts, lexer.C, lines("{", "{", "x;", "}", "}"))
	assert.Equal(t, lines("{", "\t{", "\t\tx;", "\t}", "}"), got)
}

func TestFillEmptyLines(t *testing.T) {
	opts := config.Defaults()
	opts.FillEmptyLines = true

	got := indent(t, opts, lexer.C, lines("{", "a;", "", "b;", "}"))
	assert.Equal(t, lines("{", "    a;", "    ", "    b;", "}"), got)

	got = indent(t, config.Defaults(), lexer.C, lines("{", "a;", "", "b;", "}"))
	assert.Equal(t, lines("{", "    a;", "", "    b;", "}"), got)
}

func TestPreprocessorLinesAreUntouched(t *testing.T) {
	got := indent(t, config.Defaults(), lexer.C, lines("{", "  #define X 1", "x;", "}"))
	assert.Equal(t, lines("{", "  #define X 1", "    x;", "}"), got)
}

func TestEnumClearsNonInStatementArrayHint(t *testing.T) {
	b := New(config.Defaults(), lexer.C)
	b.SetHints(Hints{NonInStatementArray: true})
	b.Beautify("enum E {")
	assert.False(t, b.Hints().NonInStatementArray)

	b = New(config.Defaults(), lexer.Java)
	b.SetHints(Hints{NonInStatementArray: true})
	b.Beautify("enum E {")
	assert.True(t, b.Hints().NonInStatementArray)
}

func TestLineCommentNoBeautify(t *testing.T) {
	b := New(config.Defaults(), lexer.C)
	require.Equal(t, "{", b.Beautify("{"))

	b.SetHints(Hints{LineCommentNoBeautify: true})
	assert.Equal(t, "// note", b.Beautify("// note"))

	b.SetHints(Hints{})
	assert.Equal(t, "    // note", b.Beautify("// note"))
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(config.Defaults(), lexer.C)
	b.Beautify("{")
	b.Beautify("if (a)")

	c := b.clone()
	c.Beautify("{")
	c.Beautify("{")

	assert.Equal(t, []string{lexer.OpenBracket, lexer.If}, b.headerStack)
	assert.Len(t, c.headerStack, 4)
	assert.Len(t, b.tempStacks, 2)
}

func TestInitResetsState(t *testing.T) {
	b := New(config.Defaults(), lexer.C)
	b.Beautify("{")
	b.Beautify("if (a) {")

	b.Init(source.NewStreamIterator([]byte("x;\n")))
	require.True(t, b.HasMoreLines())
	assert.Equal(t, "x;", b.NextLine())
	assert.Empty(t, b.headerStack)
}

func TestIsIndentedPreprocessor(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"region", "#region Fields", true},
		{"endregion", "#endregion", true},
		{"pragma omp", "#pragma omp parallel", true},
		{"pragma once", "#pragma once", false},
		{"define", "#define X", false},
	}

	b := New(config.Defaults(), lexer.CSharp)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, b.isIndentedPreprocessor(tt.line, 0))
		})
	}
}

func TestStatementEndsWithComma(t *testing.T) {
	b := New(config.Defaults(), lexer.C)
	assert.True(t, b.statementEndsWithComma("int a = 1,", 6))
	assert.True(t, b.statementEndsWithComma("int a = f(x, y), // c", 6))
	assert.False(t, b.statementEndsWithComma("int a = f(x,", 6))
	assert.False(t, b.statementEndsWithComma("int a = 1;", 6))
}

// Balanced nesting of well-formed blocks always returns to column zero.
func TestBalancedBlocksReturnToZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		depth := rapid.IntRange(1, 6).Draw(rt, "depth")
		b := New(config.Defaults(), lexer.C)

		for i := 0; i < depth; i++ {
			got := b.Beautify("{")
			if want := strings.Repeat("    ", i) + "{"; got != want {
				rt.Fatalf("open %d: got %q, want %q", i, got, want)
			}
		}
		for i := depth - 1; i >= 0; i-- {
			got := b.Beautify("}")
			if want := strings.Repeat("    ", i) + "}"; got != want {
				rt.Fatalf("close %d: got %q, want %q", i, got, want)
			}
		}
		if len(b.headerStack) != 0 {
			rt.Fatalf("header stack not empty: %v", b.headerStack)
		}
	})
}
