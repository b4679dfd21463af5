package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
	assert.Equal(t, "    ", Defaults().IndentString())
	assert.Equal(t, 8, Defaults().MinConditionalIndentLength())
	assert.True(t, Defaults().BreakOneLineBlocks())
	assert.True(t, Defaults().BreakOneLineStatements())
}

func TestResolvePresets(t *testing.T) {
	tests := []struct {
		style Style
		check func(t *testing.T, o Options)
	}{
		{StyleAllman, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsBreak, o.Brackets)
		}},
		{StyleJava, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsAttach, o.Brackets)
		}},
		{StyleKR, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsLinux, o.Brackets)
		}},
		{StyleWhitesmith, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsBreak, o.Brackets)
			assert.True(t, o.IndentBrackets)
			assert.True(t, o.IndentClasses)
			assert.True(t, o.IndentSwitches)
		}},
		{StyleGNU, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsBreak, o.Brackets)
			assert.True(t, o.IndentBlocks)
		}},
		{StyleLinux, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsLinux, o.Brackets)
			assert.Equal(t, 2, o.MinConditionalIndentLength())
		}},
		{StyleHorstmann, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsRunIn, o.Brackets)
			assert.True(t, o.IndentSwitches)
		}},
		{Style1TBS, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsLinux, o.Brackets)
			assert.True(t, o.AddBrackets)
		}},
		{StylePico, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsRunIn, o.Brackets)
			assert.True(t, o.AttachClosingBracket)
			assert.False(t, o.BreakOneLineBlocks())
			assert.False(t, o.BreakOneLineStatements())
		}},
		{StyleLisp, func(t *testing.T, o Options) {
			assert.Equal(t, BracketsAttach, o.Brackets)
			assert.True(t, o.AttachClosingBracket)
			assert.True(t, o.BreakOneLineBlocks())
			assert.False(t, o.BreakOneLineStatements())
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			o := Defaults()
			o.Style = tt.style
			o.Brackets = BracketsStroustrup
			tt.check(t, o.Resolve())
		})
	}
}

func TestResolveOneLineBrackets(t *testing.T) {
	o := Defaults()
	o.AddOneLineBrackets = true
	r := o.Resolve()
	assert.True(t, r.AddBrackets)
	assert.True(t, r.KeepOneLineBlocks)

	o.Style = StyleLisp
	r = o.Resolve()
	assert.True(t, r.AddBrackets)
	assert.False(t, r.AddOneLineBrackets)

	o = Defaults()
	o.Style = StylePico
	o.AddBrackets = true
	r = o.Resolve()
	assert.True(t, r.AddOneLineBrackets)
}

func TestResolveDoesNotModifyReceiver(t *testing.T) {
	o := Defaults()
	o.Style = StyleGNU
	_ = o.Resolve()
	assert.Equal(t, BracketsNone, o.Brackets)
	assert.False(t, o.IndentBlocks)
}

func TestReferenceAlignment(t *testing.T) {
	o := Defaults()
	o.AlignPointer = AlignName
	assert.Equal(t, AlignName, o.ReferenceAlignment())
	o.AlignReference = AlignType
	assert.Equal(t, AlignType, o.ReferenceAlignment())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	o := Defaults()
	o.Style = "fancy"
	o.IndentLength = 1
	o.Brackets = "sideways"
	o.Mode = "cobol"

	err := o.Validate()
	require.Error(t, err)

	var optErr *OptionError
	require.True(t, errors.As(err, &optErr))

	for _, name := range []string{"style", "indent-length", "brackets", "mode"} {
		assert.Contains(t, err.Error(), "option "+name)
	}
	assert.NotContains(t, err.Error(), "lineend")
}

func TestParseOverridesOnlyPresentKeys(t *testing.T) {
	data := []byte("style: kr\nindent-length: 2\npad-oper: true\n")
	o, err := Parse(data, Defaults())
	require.NoError(t, err)

	assert.Equal(t, StyleKR, o.Style)
	assert.Equal(t, 2, o.IndentLength)
	assert.True(t, o.PadOperators)
	assert.Equal(t, 40, o.MaxInStatementIndent)
	assert.Equal(t, IndentSpaces, o.Indent)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("indent-width: 3\n"), Defaults())
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	o, err := Parse(nil, Defaults())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), o)
}

func TestLoadFileRoundTrip(t *testing.T) {
	want := Defaults()
	want.Style = StyleAllman
	want.BreakBlocks = true
	want.AlignPointer = AlignMiddle

	data, err := Marshal(want)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadFile(path, Defaults())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), Defaults())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultFilePathFromEnvironment(t *testing.T) {
	t.Setenv(EnvOptionsFile, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", DefaultFilePath())
}
