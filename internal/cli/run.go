package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/formatter"
	"github.com/hassan/stylefmt/internal/lexer"
	"github.com/hassan/stylefmt/internal/source"
)

// Status is the outcome of formatting one file.
type Status string

const (
	StatusFormatted Status = "formatted"
	StatusUnchanged Status = "unchanged"
	StatusError     Status = "error"
)

// FileResult describes one processed file.
type FileResult struct {
	Path            string `json:"path"`
	Status          Status `json:"status"`
	Dialect         string `json:"dialect"`
	LinesIn         int    `json:"linesIn"`
	LinesOut        int    `json:"linesOut"`
	LineEndsChanged bool   `json:"lineEndsChanged"`
	ChecksumDiff    int64  `json:"checksumDiff"`
	Error           string `json:"error,omitempty"`
}

// runConfig holds the driver settings that are not formatting options.
type runConfig struct {
	opts      config.Options
	recursive bool
	suffix    string
	dryRun    bool
	jobs      int
	exclude   []string
}

// sourceExtensions are the file extensions picked up when walking a
// directory, with the dialect each one implies.
var sourceExtensions = map[string]lexer.Dialect{
	".c":    lexer.C,
	".cc":   lexer.C,
	".cpp":  lexer.C,
	".cxx":  lexer.C,
	".c++":  lexer.C,
	".h":    lexer.C,
	".hh":   lexer.C,
	".hpp":  lexer.C,
	".hxx":  lexer.C,
	".m":    lexer.C,
	".mm":   lexer.C,
	".java": lexer.Java,
	".cs":   lexer.CSharp,
}

// dialectFor picks the dialect from the mode option or, without one, from
// the file extension.
func dialectFor(opts config.Options, path string) lexer.Dialect {
	if d, ok := lexer.ParseDialect(opts.Mode); ok && opts.Mode != "" {
		return d
	}
	if d, ok := sourceExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return d
	}
	return lexer.C
}

// collectFiles expands the arguments into the list of files to format,
// in argument order. Directories are walked only when recursive is set.
func collectFiles(args []string, rc runConfig) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		if !rc.recursive {
			return nil, fmt.Errorf("%s is a directory (use --recursive)", arg)
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isExcluded(path, rc.exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := sourceExtensions[strings.ToLower(filepath.Ext(path))]; ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return files, nil
}

// isExcluded matches path, or any of its trailing components, against the
// exclude patterns.
func isExcluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
		if slashed == pattern || strings.HasSuffix(slashed, "/"+strings.Trim(pattern, "/")) {
			return true
		}
	}
	return false
}

// formatFiles formats every file with at most rc.jobs files in flight.
// Results keep the order of files.
func formatFiles(files []string, rc runConfig) []FileResult {
	results := make([]FileResult, len(files))

	p := pool.New().WithMaxGoroutines(max(rc.jobs, 1))
	for i, path := range files {
		p.Go(func() {
			results[i] = formatFile(path, rc)
		})
	}
	p.Wait()
	return results
}

func formatFile(path string, rc runConfig) FileResult {
	d := dialectFor(rc.opts, path)
	result := FileResult{Path: path, Dialect: d.String()}
	fail := func(err error) FileResult {
		slog.Error("formatting failed", "path", path, "error", err)
		result.Status = StatusError
		result.Error = err.Error()
		return result
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("reading: %w", err))
	}
	if err := source.CheckText(data); err != nil {
		return fail(err)
	}

	res, err := formatter.Format(rc.opts, d, data, source.WithFilename(path))
	result.LinesIn = res.LinesIn
	result.LinesOut = res.LinesOut
	result.LineEndsChanged = res.LineEndsChanged
	result.ChecksumDiff = res.ChecksumDiff
	if err != nil {
		// the file is left as it was
		return fail(err)
	}

	if !res.Changed {
		slog.Debug("unchanged", "path", path)
		result.Status = StatusUnchanged
		return result
	}
	result.Status = StatusFormatted

	if rc.dryRun {
		slog.Debug("would format", "path", path)
		return result
	}
	if err := writeResult(path, info.Mode().Perm(), data, res.Output, rc.suffix); err != nil {
		return fail(err)
	}
	slog.Debug("formatted", "path", path, "lines", res.LinesOut, "lineEndsChanged", res.LineEndsChanged)
	return result
}

// writeResult saves the original under path+suffix, unless suffix is
// "none", and replaces path with the formatted text.
func writeResult(path string, perm fs.FileMode, original, formatted []byte, suffix string) error {
	if suffix != "" && suffix != "none" {
		if err := os.WriteFile(path+suffix, original, perm); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(formatted); err != nil {
		tmp.Close()
		return fmt.Errorf("writing: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// formatStream formats standard input onto w.
func formatStream(r io.Reader, w io.Writer, opts config.Options) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading standard input: %w", err)
	}
	if err := source.CheckText(data); err != nil {
		return err
	}
	d := lexer.C
	if opts.Mode != "" {
		d, _ = lexer.ParseDialect(opts.Mode)
	}

	res, err := formatter.Format(opts, d, data)
	if err != nil {
		if errors.Is(err, formatter.ErrChecksumMismatch) {
			// the input is written back untouched
			_, _ = w.Write(data)
		}
		return err
	}
	_, err = w.Write(res.Output)
	return err
}
