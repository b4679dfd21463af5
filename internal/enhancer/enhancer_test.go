package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hassan/stylefmt/internal/lexer"
)

func enhanceAll(e *Enhancer, lines []string, inSQL map[int]bool) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = e.Enhance(l, false, inSQL[i])
	}
	return out
}

func TestEnhanceCaseBlocks(t *testing.T) {
	tests := []struct {
		name       string
		caseIndent bool
		input      []string
		expected   []string
	}{
		{
			name: "broken case bracket is unindented",
			input: []string{
				"switch (x)",
				"{",
				"case 1:",
				"    {",
				"        a();",
				"    }",
				"}",
			},
			expected: []string{
				"switch (x)",
				"{",
				"case 1:",
				"{",
				"    a();",
				"}",
				"}",
			},
		},
		{
			name: "attached case bracket unindents its body",
			input: []string{
				"switch (x) {",
				"case 1: {",
				"        a();",
				"    }",
				"}",
			},
			expected: []string{
				"switch (x) {",
				"case 1: {",
				"    a();",
				"}",
				"}",
			},
		},
		{
			name: "one-line case block is left alone",
			input: []string{
				"switch (x) {",
				"case 1: { a(); }",
				"    b();",
				"}",
			},
			expected: []string{
				"switch (x) {",
				"case 1: { a(); }",
				"    b();",
				"}",
			},
		},
		{
			name:       "indented cases are not touched",
			caseIndent: true,
			input: []string{
				"switch (x)",
				"{",
				"    case 1:",
				"        {",
				"            a();",
				"        }",
				"}",
			},
			expected: []string{
				"switch (x)",
				"{",
				"    case 1:",
				"        {",
				"            a();",
				"        }",
				"}",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(lexer.C, Settings{IndentLength: 4, CaseIndent: tt.caseIndent})
			assert.Equal(t, tt.expected, enhanceAll(e, tt.input, nil))
		})
	}
}

func TestEnhanceEventTable(t *testing.T) {
	e := New(lexer.C, Settings{IndentLength: 4})
	got := enhanceAll(e, []string{
		"BEGIN_EVENT_TABLE(MyFrame, wxFrame)",
		"EVT_MENU(ID_Quit, MyFrame::OnQuit)",
		"#ifdef X",
		"END_EVENT_TABLE()",
		"int y;",
	}, nil)

	assert.Equal(t, []string{
		"BEGIN_EVENT_TABLE(MyFrame, wxFrame)",
		"    EVT_MENU(ID_Quit, MyFrame::OnQuit)",
		"#ifdef X",
		"END_EVENT_TABLE()",
		"int y;",
	}, got)
}

func TestEnhanceDeclareSection(t *testing.T) {
	e := New(lexer.C, Settings{IndentLength: 2})
	got := enhanceAll(e, []string{
		"EXEC SQL BEGIN DECLARE SECTION;",
		"int x;",
		"exec sql end declare section;",
		"int y;",
	}, map[int]bool{0: true, 2: true})

	assert.Equal(t, []string{
		"EXEC SQL BEGIN DECLARE SECTION;",
		"  int x;",
		"exec sql end declare section;",
		"int y;",
	}, got)
}

func TestUnindentLine(t *testing.T) {
	tests := []struct {
		name     string
		useTabs  bool
		line     string
		unindent int
		expected string
		erased   int
	}{
		{"spaces", false, "        x", 1, "    x", 4},
		{"tabs", true, "\t\tx", 1, "\tx", 1},
		{"not enough whitespace", false, "  x", 1, "  x", 0},
		{"no whitespace", false, "x", 2, "x", 0},
		{"blank padding", false, "    ", 1, "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(lexer.C, Settings{IndentLength: 4, UseTabs: tt.useTabs})
			got, erased := e.unindentLine(tt.line, tt.unindent)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.erased, erased)
		})
	}
}

func TestFindCaseColon(t *testing.T) {
	assert.Equal(t, 6, findCaseColon("case 1: x", 0))
	assert.Equal(t, 12, findCaseColon("case A::B(1): x", 0))
	assert.Equal(t, 8, findCaseColon("case ':': x", 0))
}

func TestEmptyLinesPassThrough(t *testing.T) {
	e := New(lexer.C, Settings{IndentLength: 4})
	assert.Equal(t, "", e.Enhance("", false, false))
	assert.Equal(t, 1, e.LineNumber())
}
