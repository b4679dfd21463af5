package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/lexer"
)

const attached = "int f() {\n    return 0;\n}\n"
const broken = "int f()\n{\n    return 0;\n}\n"

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvOptionsFile, "")
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--no-color"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFormatsFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c")
	writeFile(t, path, attached)

	out, err := execute(t, "", "--brackets=break", path)
	require.NoError(t, err)

	assert.Equal(t, broken, readFile(t, path))
	assert.Equal(t, attached, readFile(t, path+".orig"))
	assert.Contains(t, out, "formatted")
	assert.Contains(t, out, "main.c")
	assert.Contains(t, out, "1 formatted, 0 unchanged, 0 errors")
}

func TestSuffixNoneSkipsBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c")
	writeFile(t, path, attached)

	_, err := execute(t, "", "--brackets=break", "--suffix=none", path)
	require.NoError(t, err)

	assert.Equal(t, broken, readFile(t, path))
	assert.NoFileExists(t, path+".orig")
	assert.NoFileExists(t, path+"none")
}

func TestDryRunLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	changed := filepath.Join(dir, "a.c")
	same := filepath.Join(dir, "b.c")
	writeFile(t, changed, attached)
	writeFile(t, same, broken)

	out, err := execute(t, "", "--brackets=break", "--dry-run", "--report=json", changed, same)
	require.NoError(t, err)

	assert.Equal(t, attached, readFile(t, changed))
	assert.NoFileExists(t, changed+".orig")

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.True(t, s.DryRun)
	assert.Equal(t, 1, s.Formatted)
	assert.Equal(t, 1, s.Unchanged)
	require.Len(t, s.Files, 2)
	assert.Equal(t, changed, s.Files[0].Path)
	assert.Equal(t, StatusFormatted, s.Files[0].Status)
	assert.Equal(t, StatusUnchanged, s.Files[1].Status)
	assert.Equal(t, "c", s.Files[0].Dialect)
}

func TestLineEndConversionIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.c")
	writeFile(t, path, "int x;\r\nint y;\r\n")

	out, err := execute(t, "", "--lineend=linux", "--suffix=none", "--report=json", path)
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	require.Len(t, s.Files, 1)
	assert.True(t, s.Files[0].LineEndsChanged)
	assert.Equal(t, StatusFormatted, s.Files[0].Status)
	assert.Equal(t, "int x;\nint y;\n", readFile(t, path))
}

func TestDirectoriesNeedRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.c"), broken)

	_, err := execute(t, "", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--recursive")
}

func TestRecursiveWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.c"), attached)
	writeFile(t, filepath.Join(dir, "sub", "B.java"), "class B {\n}\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), attached)
	writeFile(t, filepath.Join(dir, ".git", "x.c"), attached)
	writeFile(t, filepath.Join(dir, "vendor", "v.c"), attached)

	out, err := execute(t, "", "-r", "--dry-run", "--report=json", "--exclude=vendor", dir)
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	var paths []string
	for _, f := range s.Files {
		rel, err := filepath.Rel(dir, f.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.c", "sub/B.java"}, paths)
	assert.Equal(t, "java", s.Files[1].Dialect)
}

func TestStandardInput(t *testing.T) {
	out, err := execute(t, attached, "--brackets=break")
	require.NoError(t, err)
	assert.Equal(t, broken, out)
}

func TestOptionsFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	optionsPath := filepath.Join(dir, "style.yaml")
	writeFile(t, optionsPath, "brackets: break\n")

	out, err := execute(t, attached, "--options", optionsPath)
	require.NoError(t, err)
	assert.Equal(t, broken, out)

	out, err = execute(t, broken, "--options", optionsPath, "--brackets=attach")
	require.NoError(t, err)
	assert.Equal(t, attached, out)
}

func TestInvalidOptionValue(t *testing.T) {
	_, err := execute(t, attached, "--brackets=sideways")
	require.Error(t, err)

	var optErr *config.OptionError
	require.ErrorAs(t, err, &optErr)
	assert.Equal(t, "brackets", optErr.Option)
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "missing.c"))
	require.Error(t, err)
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "", "presets")
	require.NoError(t, err)
	for _, p := range config.Presets() {
		assert.Contains(t, out, string(p.Name))
	}
	assert.Contains(t, out, "stroustrup")
	assert.Contains(t, out, "run-in")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, Tool+" version: "+Version)
}

func TestApplyOptionFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addOptionFlags(fs)
	require.NoError(t, fs.Parse([]string{"--pad-oper", "--indent=tab=8", "--pad-paren", "--align-pointer=name"}))

	opts := config.Defaults()
	opts.Brackets = config.BracketsAttach
	require.NoError(t, applyOptionFlags(fs, &opts))

	assert.True(t, opts.PadOperators)
	assert.True(t, opts.PadParensInside)
	assert.True(t, opts.PadParensOutside)
	assert.Equal(t, config.IndentTab, opts.Indent)
	assert.Equal(t, 8, opts.IndentLength)
	assert.Equal(t, config.AlignName, opts.AlignPointer)
	// not set on the command line
	assert.Equal(t, config.BracketsAttach, opts.Brackets)
}

func TestParseIndent(t *testing.T) {
	tests := []struct {
		value  string
		indent config.IndentStyle
		length int
		ok     bool
	}{
		{"spaces=2", config.IndentSpaces, 2, true},
		{"tab", config.IndentTab, 4, true},
		{"force-tab=8", config.IndentForceTab, 8, true},
		{"spaces=wide", config.IndentSpaces, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var o config.Options
			err := parseIndent(&o, tt.value)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.indent, o.Indent)
			assert.Equal(t, tt.length, o.IndentLength)
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		mode     string
		path     string
		expected lexer.Dialect
	}{
		{"", "a.cpp", lexer.C},
		{"", "A.java", lexer.Java},
		{"", "A.CS", lexer.CSharp},
		{"", "Makefile", lexer.C},
		{"java", "a.c", lexer.Java},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			opts := config.Defaults()
			opts.Mode = tt.mode
			assert.Equal(t, tt.expected, dialectFor(opts, tt.path))
		})
	}
}

func TestTextReport(t *testing.T) {
	disableColor()
	s := summarize([]FileResult{
		{Path: "a.c", Status: StatusFormatted},
		{Path: "b.c", Status: StatusUnchanged},
		{Path: "c.c", Status: StatusError, Error: "checksum mismatch"},
	}, false)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, s, ReportText, false, false))
	out := buf.String()
	assert.Contains(t, out, "a.c")
	assert.NotContains(t, out, "b.c")
	assert.Contains(t, out, "checksum mismatch")
	assert.Contains(t, out, "1 formatted, 1 unchanged, 1 errors")

	buf.Reset()
	require.NoError(t, writeReport(&buf, s, ReportText, false, true))
	assert.Equal(t, "1 formatted, 1 unchanged, 1 errors\n", buf.String())

	assert.Error(t, writeReport(&buf, s, "xml", false, false))
}
