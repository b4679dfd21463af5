package cli

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Summary totals the results of one run.
type Summary struct {
	Files     []FileResult `json:"files"`
	Formatted int          `json:"formatted"`
	Unchanged int          `json:"unchanged"`
	Errors    int          `json:"errors"`
	DryRun    bool         `json:"dryRun"`
}

func summarize(results []FileResult, dryRun bool) Summary {
	s := Summary{Files: results, DryRun: dryRun}
	for _, r := range results {
		switch r.Status {
		case StatusFormatted:
			s.Formatted++
		case StatusUnchanged:
			s.Unchanged++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// ReportFormat selects how the summary is written.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

func writeReport(w io.Writer, s Summary, format ReportFormat, verbose, quiet bool) error {
	switch format {
	case ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case ReportText, "":
		writeTextReport(w, s, verbose, quiet)
		return nil
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeTextReport(w io.Writer, s Summary, verbose, quiet bool) {
	if !quiet {
		for _, r := range s.Files {
			if r.Status == StatusUnchanged && !verbose {
				continue
			}
			line := fmt.Sprintf("%s  %s", statusMarker(r.Status), r.Path)
			if r.Error != "" {
				line += "  " + grey(r.Error)
			}
			fmt.Fprintln(w, line)
		}
	}

	formatted := fmt.Sprintf("%d formatted", s.Formatted)
	if s.DryRun {
		formatted = fmt.Sprintf("%d would be formatted", s.Formatted)
	}
	if s.Formatted > 0 {
		formatted = green(formatted)
	}
	errs := fmt.Sprintf("%d errors", s.Errors)
	if s.Errors > 0 {
		errs = red(errs)
	}
	fmt.Fprintf(w, "%s, %s, %s\n", formatted, grey(fmt.Sprintf("%d unchanged", s.Unchanged)), errs)
}
