package formatter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hassan/stylefmt/internal/beautifier"
	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
	"github.com/hassan/stylefmt/internal/source"
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func format(t *testing.T, opts config.Options, input string) string {
	t.Helper()
	return formatAs(t, opts, lexer.C, input)
}

func formatAs(t *testing.T, opts config.Options, d lexer.Dialect, input string) string {
	t.Helper()
	res, err := Format(opts, d, []byte(input))
	require.NoError(t, err)
	return string(res.Output)
}

func withOptions(edit func(*config.Options)) config.Options {
	opts := config.Defaults()
	edit(&opts)
	return opts.Resolve()
}

var spaceRemover = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

// stripSpace works on bytes so invalid UTF-8 is compared as it is.
func stripSpace(s string) string {
	return spaceRemover.Replace(s)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		opts     config.Options
		input    string
		expected string
	}{
		{
			name:     "formatted input is unchanged",
			opts:     config.Defaults(),
			input:    lines("int f()", "{", "    return 0;", "}"),
			expected: lines("int f()", "{", "    return 0;", "}"),
		},
		{
			name:     "indentation is rebuilt",
			opts:     config.Defaults(),
			input:    lines("int f()", "{", "return 0;", "}"),
			expected: lines("int f()", "{", "    return 0;", "}"),
		},
		{
			name:     "break brackets",
			opts:     withOptions(func(o *config.Options) { o.Brackets = config.BracketsBreak }),
			input:    lines("int f() {", "    return 0;", "}"),
			expected: lines("int f()", "{", "    return 0;", "}"),
		},
		{
			name:     "attach brackets",
			opts:     withOptions(func(o *config.Options) { o.Brackets = config.BracketsAttach }),
			input:    lines("int f()", "{", "    return 0;", "}"),
			expected: lines("int f() {", "    return 0;", "}"),
		},
		{
			name:  "break brackets splits else",
			opts:  withOptions(func(o *config.Options) { o.Brackets = config.BracketsBreak }),
			input: lines("if (a) {", "    b();", "} else {", "    c();", "}"),
			expected: lines(
				"if (a)",
				"{",
				"    b();",
				"}",
				"else",
				"{",
				"    c();",
				"}",
			),
		},
		{
			name:  "attach brackets joins else",
			opts:  withOptions(func(o *config.Options) { o.Brackets = config.BracketsAttach }),
			input: lines("if (a)", "{", "    b();", "}", "else", "{", "    c();", "}"),
			expected: lines(
				"if (a) {",
				"    b();",
				"} else {",
				"    c();",
				"}",
			),
		},
		{
			name:     "pad operators",
			opts:     withOptions(func(o *config.Options) { o.PadOperators = true }),
			input:    lines("void f()", "{", "    a=b+c;", "    x=-1;", "}"),
			expected: lines("void f()", "{", "    a = b + c;", "    x = -1;", "}"),
		},
		{
			name:     "pad header",
			opts:     withOptions(func(o *config.Options) { o.PadHeader = true }),
			input:    lines("void f()", "{", "    if(a)", "        b=1;", "}"),
			expected: lines("void f()", "{", "    if (a)", "        b=1;", "}"),
		},
		{
			name:     "unpad parens",
			opts:     withOptions(func(o *config.Options) { o.UnpadParens = true }),
			input:    lines("void f()", "{", "    f ( a );", "}"),
			expected: lines("void f()", "{", "    f(a);", "}"),
		},
		{
			name:     "align pointer to type",
			opts:     withOptions(func(o *config.Options) { o.AlignPointer = config.AlignType }),
			input:    lines("void f()", "{", "    char *p;", "}"),
			expected: lines("void f()", "{", "    char* p;", "}"),
		},
		{
			name:     "align pointer to name",
			opts:     withOptions(func(o *config.Options) { o.AlignPointer = config.AlignName }),
			input:    lines("void f()", "{", "    char* p;", "}"),
			expected: lines("void f()", "{", "    char *p;", "}"),
		},
		{
			name:     "add brackets",
			opts:     withOptions(func(o *config.Options) { o.AddBrackets = true }),
			input:    lines("void f()", "{", "    if (a) b();", "}"),
			expected: lines("void f()", "{", "    if (a) {", "        b();", "    }", "}"),
		},
		{
			name: "one-line block is broken and padded",
			opts: withOptions(func(o *config.Options) {
				o.Brackets = config.BracketsAttach
				o.PadOperators = true
				o.PadHeader = true
			}),
			input:    lines("if(x>0){y=1;}"),
			expected: lines("if (x > 0) {", "    y = 1;", "}"),
		},
		{
			name:     "boxed comment keeps its interior",
			opts:     config.Defaults(),
			input:    lines("void f()", "{", "    /*", "     *  boxed   text", "     */", "    x;", "}"),
			expected: lines("void f()", "{", "    /*", "     *  boxed   text", "     */", "    x;", "}"),
		},
		{
			name:     "comment interior moves with its opener",
			opts:     config.Defaults(),
			input:    lines("void f()", "{", "/*", " *  boxed   text", " */", "x;", "}"),
			expected: lines("void f()", "{", "    /*", "     *  boxed   text", "     */", "    x;", "}"),
		},
		{
			name: "switch without case indent",
			opts: config.Defaults(),
			input: lines(
				"void f()", "{", "switch (x)", "{", "case 1:", "{", "a();", "break;", "}",
				"default:", "b();", "}", "}",
			),
			expected: lines(
				"void f()",
				"{",
				"    switch (x)",
				"    {",
				"    case 1:",
				"    {",
				"        a();",
				"        break;",
				"    }",
				"    default:",
				"        b();",
				"    }",
				"}",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format(t, tt.opts, tt.input))
		})
	}
}

func TestFormatDialects(t *testing.T) {
	tests := []struct {
		name     string
		dialect  lexer.Dialect
		opts     config.Options
		input    string
		expected string
	}{
		{
			name:     "java dollar names",
			dialect:  lexer.Java,
			opts:     withOptions(func(o *config.Options) { o.PadOperators = true }),
			input:    lines("class A", "{", "void f()", "{", "$x=1;", "}", "}"),
			expected: lines("class A", "{", "    void f()", "    {", "        $x = 1;", "    }", "}"),
		},
		{
			name:     "java attach brackets",
			dialect:  lexer.Java,
			opts:     withOptions(func(o *config.Options) { o.Brackets = config.BracketsAttach }),
			input:    lines("class A", "{", "    void f()", "    {", "        g();", "    }", "}"),
			expected: lines("class A {", "    void f() {", "        g();", "    }", "}"),
		},
		{
			name:     "java static initializer",
			dialect:  lexer.Java,
			opts:     config.Defaults(),
			input:    lines("class A", "{", "static", "{", "x = 1;", "}", "}"),
			expected: lines("class A", "{", "    static", "    {", "        x = 1;", "    }", "}"),
		},
		{
			name:     "c# verbatim string ends at its quote",
			dialect:  lexer.CSharp,
			opts:     withOptions(func(o *config.Options) { o.PadOperators = true }),
			input:    lines("class A", "{", "    void F()", "    {", `        s=@"C:\"+t;`, "    }", "}"),
			expected: lines("class A", "{", "    void F()", "    {", `        s = @"C:\" + t;`, "    }", "}"),
		},
		{
			name:    "c# property accessors",
			dialect: lexer.CSharp,
			opts:    config.Defaults(),
			input: lines(
				"class A", "{", "int X", "{", "get", "{", "return x;", "}",
				"set", "{", "x = value;", "}", "}", "}",
			),
			expected: lines(
				"class A",
				"{",
				"    int X",
				"    {",
				"        get",
				"        {",
				"            return x;",
				"        }",
				"        set",
				"        {",
				"            x = value;",
				"        }",
				"    }",
				"}",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatAs(t, tt.opts, tt.dialect, tt.input))
		})
	}
}

func TestFormatKeepsNonASCIIBytes(t *testing.T) {
	tests := []struct {
		name     string
		opts     config.Options
		input    string
		expected string
	}{
		{
			name:     "line comment",
			opts:     config.Defaults(),
			input:    lines("// café", "int x; // über"),
			expected: lines("// café", "int x; // über"),
		},
		{
			name:     "block comment",
			opts:     config.Defaults(),
			input:    lines("void f()", "{", "/* 日本", " * naïve */", "}"),
			expected: lines("void f()", "{", "    /* 日本", "     * naïve */", "}"),
		},
		{
			name:     "string",
			opts:     withOptions(func(o *config.Options) { o.PadOperators = true }),
			input:    lines("void f()", "{", `    s="日本"+t;`, "}"),
			expected: lines("void f()", "{", `    s = "日本" + t;`, "}"),
		},
		{
			name:     "identifier",
			opts:     config.Defaults(),
			input:    lines("void f()", "{", "int café;", "}"),
			expected: lines("void f()", "{", "    int café;", "}"),
		},
		{
			name:     "latin-1 byte",
			opts:     config.Defaults(),
			input:    lines("void f()", "{", "    // r\xe9sum\xe9", "}"),
			expected: lines("void f()", "{", "    // r\xe9sum\xe9", "}"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Format(tt.opts, lexer.C, []byte(tt.input))
			require.NoError(t, err)
			assert.Zero(t, res.ChecksumDiff)
			assert.Equal(t, tt.expected, string(res.Output))

			again, err := Format(tt.opts, lexer.C, res.Output)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(again.Output))
		})
	}
}

func TestUnterminatedStringAtEOF(t *testing.T) {
	input := "void f()\n{\nx = 1;\n}\nchar *s = \"abc"

	var res Result
	var err error
	require.NotPanics(t, func() {
		res, err = Format(config.Defaults(), lexer.C, []byte(input))
	})
	require.NoError(t, err)

	out := string(res.Output)
	assert.True(t, strings.HasPrefix(out, lines("void f()", "{", "    x = 1;", "}")), out)
	assert.True(t, strings.HasSuffix(out, `"abc`), out)
	assert.Equal(t, stripSpace(input), stripSpace(out))
}

// The enhancer takes back the extra unit the indentation engine gives a
// bracketed case block.
func TestCaseBlockUnindentedAfterIndentation(t *testing.T) {
	input := lines(
		"switch (x)", "{", "case 1:", "{", "a();", "}", "}",
	)

	b := beautifier.New(config.Defaults(), lexer.C)
	b.Init(source.NewStreamIterator([]byte(input)))
	var engine []string
	for b.HasMoreLines() {
		engine = append(engine, b.NextLine())
	}
	require.Len(t, engine, 7)
	assert.Equal(t, "        a();", engine[4])

	out := strings.Split(format(t, config.Defaults(), input), "\n")
	assert.Equal(t, "    a();", out[4])
	assert.Equal(t, len(engine[4])-4, len(out[4]))
}

func TestFormatIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		mode  config.BracketMode
		input string
	}{
		{"break", config.BracketsBreak, lines("int f()", "{", "    return 0;", "}")},
		{"attach", config.BracketsAttach, lines("int f() {", "    return 0;", "}")},
		{"break else", config.BracketsBreak, lines("if (a)", "{", "    b();", "}", "else", "{", "    c();", "}")},
		{"attach else", config.BracketsAttach, lines("if (a) {", "    b();", "} else {", "    c();", "}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := withOptions(func(o *config.Options) { o.Brackets = tt.mode })
			assert.Equal(t, tt.input, format(t, opts, tt.input))
		})
	}
}

func TestFormatLineEnds(t *testing.T) {
	tests := []struct {
		name     string
		lineEnd  config.LineEnd
		input    string
		expected string
	}{
		{"windows kept", config.LineEndDefault, "a;\r\nb;\r\n", "a;\r\nb;\r\n"},
		{"converted to linux", config.LineEndLinux, "a;\r\nb;\r\n", "a;\nb;\n"},
		{"converted to windows", config.LineEndWindows, "a;\nb;\n", "a;\r\nb;\r\n"},
		{"no final line end", config.LineEndDefault, "a;\nb;", "a;\nb;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := withOptions(func(o *config.Options) { o.LineEnd = tt.lineEnd })
			assert.Equal(t, tt.expected, format(t, opts, tt.input))
		})
	}
}

func TestFormatEmptyInput(t *testing.T) {
	res, err := Format(config.Defaults(), lexer.C, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Output)
	assert.False(t, res.Changed)
}

func TestFormatReportsChanges(t *testing.T) {
	res, err := Format(config.Defaults(), lexer.C, []byte(lines("int f()", "{", "return 0;", "}")))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 4, res.LinesIn)
	assert.Equal(t, 4, res.LinesOut)
	assert.Zero(t, res.ChecksumDiff)
}

func TestFormatReportsInputPosition(t *testing.T) {
	res, err := Format(config.Defaults(), lexer.C, []byte(lines("int f()", "{", "return 0;", "}")), source.WithFilename("f.c"))
	require.NoError(t, err)
	assert.Equal(t, "f.c:4", res.End.String())
	assert.Equal(t, res.End.Line, res.LinesIn)
}

func TestFormatReportsLineEndChanges(t *testing.T) {
	tests := []struct {
		name     string
		lineEnd  config.LineEnd
		input    string
		expected bool
	}{
		{"kept", config.LineEndDefault, "a;\r\nb;\r\n", false},
		{"converted", config.LineEndLinux, "a;\r\nb;\r\n", true},
		{"mixed input", config.LineEndDefault, "a;\r\nb;\n", true},
		{"already linux", config.LineEndLinux, "a;\nb;\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := withOptions(func(o *config.Options) { o.LineEnd = tt.lineEnd })
			res, err := Format(opts, lexer.C, []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.LineEndsChanged)
		})
	}
}

func TestDeleteEmptyLines(t *testing.T) {
	opts := withOptions(func(o *config.Options) { o.DeleteEmptyLines = true })
	res, err := Format(opts, lexer.C, []byte(lines("void f()", "{", "    a();", "", "    b();", "}")))
	require.NoError(t, err)
	assert.Equal(t, lines("void f()", "{", "    a();", "    b();", "}"), string(res.Output))
	assert.Equal(t, 1, res.DeletedLines)
}

func TestNextLineDrivesTheIterator(t *testing.T) {
	f := New(config.Defaults(), lexer.C)
	f.Init(source.NewStreamIterator([]byte(lines("void f()", "{", "x;", "}"))))

	var out []string
	for f.HasMoreLines() {
		out = append(out, f.NextLine())
	}
	assert.Equal(t, []string{"void f()", "{", "    x;", "}"}, out)
	assert.Equal(t, f.ChecksumIn(), f.ChecksumOut())
	assert.NoError(t, f.VerifyChecksum())
	assert.Equal(t, config.LineEndDefault, f.LineEndFormat())
}

func TestVerifyChecksumDetectsMismatch(t *testing.T) {
	f := New(config.Defaults(), lexer.C)
	f.checksumIn = 10
	f.checksumOut = 12

	assert.Equal(t, int64(2), f.ChecksumDiff())
	assert.True(t, errors.Is(f.VerifyChecksum(), ErrChecksumMismatch))
}

func TestIsOneLineBlockReached(t *testing.T) {
	f := New(config.Defaults(), lexer.C)
	tests := []struct {
		line     string
		expected int
	}{
		{"{ a; }", 1},
		{"{ a; }, {", 2},
		{"{ a;", 0},
		{"{ \"}\" }", 1},
		{"{ // }", 0},
		{"{ /* } */ }", 1},
		{"{ { a; } }", 1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.isOneLineBlockReached(tt.line, 0))
		})
	}
}

func TestFindNextChar(t *testing.T) {
	f := New(config.Defaults(), lexer.C)
	assert.Equal(t, 4, f.findNextChar("b(x);", ';', 0))
	assert.Equal(t, 6, f.findNextChar(`f(";"); `, ';', 0))
	assert.Equal(t, npos, f.findNextChar("a // ;", ';', 0))
	assert.Equal(t, npos, f.findNextChar("a { b; }", ';', 0))
	assert.Equal(t, 11, f.findNextChar("a /* ; */ b;", ';', 0))
}

// genStatement draws a simple statement, possibly a nested block.
func genStatement(rt *rapid.T, depth int) string {
	kind := rapid.IntRange(0, 5).Draw(rt, "kind")
	if depth > 2 {
		kind = rapid.IntRange(0, 2).Draw(rt, "leaf")
	}
	name := rapid.SampledFrom([]string{"a", "b", "count", "x1", "café", "日本"}).Draw(rt, "name")

	switch kind {
	case 0:
		return name + " = " + name + " + 1;"
	case 1:
		return "call(" + name + ");"
	case 2:
		text := rapid.SampledFrom([]string{"über", "naïve", "\xe9t\xe9", "\x80\xff"}).Draw(rt, "text")
		return "call(\"" + text + "\"); // " + text
	case 3:
		return "if (" + name + ")" + genBlock(rt, depth+1)
	case 4:
		return "while (" + name + " < 10)" + genBlock(rt, depth+1)
	default:
		return "if (" + name + ")" + genBlock(rt, depth+1) + "\nelse" + genBlock(rt, depth+1)
	}
}

// genBlock draws a bracketed block with the opening bracket either
// attached or on its own line.
func genBlock(rt *rapid.T, depth int) string {
	var b strings.Builder
	if rapid.Bool().Draw(rt, "broken") {
		b.WriteString("\n{\n")
	} else {
		b.WriteString(" {\n")
	}
	n := rapid.IntRange(1, 3).Draw(rt, "statements")
	for i := 0; i < n; i++ {
		b.WriteString(strings.Repeat(" ", rapid.IntRange(0, 6).Draw(rt, "indent")))
		b.WriteString(genStatement(rt, depth))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func genProgram(rt *rapid.T) string {
	var b strings.Builder
	n := rapid.IntRange(1, 3).Draw(rt, "functions")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "void f%d()%s\n", i, genBlock(rt, 0))
	}
	return b.String()
}

// Reformatting only moves whitespace: every other byte survives in order.
func TestFormatConservesText(t *testing.T) {
	modes := []config.BracketMode{
		config.BracketsNone,
		config.BracketsAttach,
		config.BracketsBreak,
		config.BracketsLinux,
		config.BracketsStroustrup,
	}

	rapid.Check(t, func(rt *rapid.T) {
		input := genProgram(rt)
		mode := rapid.SampledFrom(modes).Draw(rt, "mode")
		opts := withOptions(func(o *config.Options) { o.Brackets = mode })

		res, err := Format(opts, lexer.C, []byte(input))
		if err != nil {
			rt.Fatalf("format: %v\n%s", err, input)
		}
		if res.ChecksumDiff != 0 {
			rt.Fatalf("checksum diff %d", res.ChecksumDiff)
		}
		if got, want := stripSpace(string(res.Output)), stripSpace(input); got != want {
			rt.Fatalf("text changed\ninput:\n%s\noutput:\n%s", input, res.Output)
		}
		if open, closed := strings.Count(string(res.Output), "{"), strings.Count(string(res.Output), "}"); open != closed {
			rt.Fatalf("%d opening and %d closing brackets", open, closed)
		}
	})
}
