// Package cli implements the stylefmt command line: option flags, file
// discovery, parallel formatting and the run report.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hassan/stylefmt/internal/config"
	"github.com/hassan/stylefmt/internal/logging"
)

// ErrFilesFailed is returned when at least one file could not be formatted.
var ErrFilesFailed = errors.New("some files could not be formatted")

type rootFlags struct {
	optionsFile string
	noOptions   bool
	recursive   bool
	suffix      string
	dryRun      bool
	jobs        int
	exclude     []string
	report      string
	logFile     string
	logLevel    string
	verbose     bool
	quiet       bool
	noColor     bool
}

// NewRootCmd builds the stylefmt command tree.
func NewRootCmd() *cobra.Command {
	var rf rootFlags
	var closeLog func() error

	root := &cobra.Command{
		Use:   Tool + " [flags] [files or directories...]",
		Short: "Reformat C, C++, Java and C# source code",
		Long: Tool + ": " + green("reformat C, C++, Java and C# source code") + `

Files are rewritten in place; the original is kept with the --suffix
extension. Without arguments, standard input is formatted to standard
output. Options come from the defaults, then the options file, then flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rf.noColor {
				disableColor()
			}
			level, ok := logging.ParseLevel(rf.logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", rf.logLevel)
			}
			switch {
			case rf.quiet:
				level = slog.LevelError
			case rf.verbose:
				level = slog.LevelDebug
			}
			var err error
			closeLog, err = logging.Setup(logging.Config{
				ConsoleLevel: level,
				Console:      cmd.ErrOrStderr(),
				NoColor:      rf.noColor,
				FilePath:     rf.logFile,
				FileLevel:    slog.LevelDebug,
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, rf)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s version: %s\ngo version: %s\n", Tool, Version, runtime.Version()))

	fs := root.Flags()
	addOptionFlags(fs)
	fs.StringVar(&rf.optionsFile, "options", "", "options file (default: $"+config.EnvOptionsFile+" or ~/"+config.DefaultFileName+")")
	fs.BoolVar(&rf.noOptions, "no-options", false, "ignore the options file")
	fs.BoolVarP(&rf.recursive, "recursive", "r", false, "format source files in directories")
	fs.StringVar(&rf.suffix, "suffix", ".orig", "extension of the backup of a formatted file, or none")
	fs.BoolVarP(&rf.dryRun, "dry-run", "n", false, "report the files that would change without writing them")
	fs.IntVarP(&rf.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of files formatted in parallel")
	fs.StringSliceVar(&rf.exclude, "exclude", nil, "skip files and directories matching these patterns")
	fs.StringVar(&rf.report, "report", string(ReportText), "summary format: text or json")

	pfs := root.PersistentFlags()
	pfs.StringVar(&rf.logFile, "log-file", "", "also write debug logs to this file")
	pfs.StringVar(&rf.logLevel, "log-level", "info", "console log level: debug, info, warn, error or off")
	pfs.BoolVarP(&rf.verbose, "verbose", "v", false, "list unchanged files and log debug messages")
	pfs.BoolVarP(&rf.quiet, "quiet", "q", false, "only print the summary and errors")
	pfs.BoolVar(&rf.noColor, "no-color", false, "disable colored output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(presetsCmd())
	root.AddCommand(versionCmd())
	return root
}

// loadOptions layers the options file and the flags set on the command
// line over the defaults, then resolves presets and validates the result.
func loadOptions(cmd *cobra.Command, rf rootFlags) (config.Options, error) {
	opts := config.Defaults()

	path := rf.optionsFile
	if path == "" && !rf.noOptions {
		path = config.DefaultFilePath()
	}
	if path != "" && !rf.noOptions {
		var err error
		if opts, err = config.LoadFile(path, opts); err != nil {
			return opts, err
		}
		slog.Debug("loaded options file", "path", path)
	}

	if err := applyOptionFlags(cmd.Flags(), &opts); err != nil {
		return opts, err
	}

	opts = opts.Resolve()
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func run(cmd *cobra.Command, args []string, rf rootFlags) error {
	opts, err := loadOptions(cmd, rf)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return formatStream(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	}

	rc := runConfig{
		opts:      opts,
		recursive: rf.recursive,
		suffix:    rf.suffix,
		dryRun:    rf.dryRun,
		jobs:      rf.jobs,
		exclude:   rf.exclude,
	}
	files, err := collectFiles(args, rc)
	if err != nil {
		return err
	}
	slog.Debug("formatting", "files", len(files), "jobs", rc.jobs)

	summary := summarize(formatFiles(files, rc), rc.dryRun)
	if err := writeReport(cmd.OutOrStdout(), summary, ReportFormat(rf.report), rf.verbose, rf.quiet); err != nil {
		return err
	}
	if summary.Errors > 0 {
		return ErrFilesFailed
	}
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, ErrFilesFailed) {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}
