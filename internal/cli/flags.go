package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hassan/stylefmt/internal/config"
)

// optionFlag binds one command line flag to the config.Options field it
// overrides.
type optionFlag struct {
	name   string
	usage  string
	def    string
	isBool bool
	apply  func(o *config.Options, value string) error
}

func boolFlag(name, usage string, set func(o *config.Options, v bool)) optionFlag {
	return optionFlag{
		name:   name,
		usage:  usage,
		isBool: true,
		apply: func(o *config.Options, value string) error {
			v, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			set(o, v)
			return nil
		},
	}
}

func stringFlag(name, def, usage string, set func(o *config.Options, v string) error) optionFlag {
	return optionFlag{name: name, def: def, usage: usage, apply: set}
}

var optionFlags = []optionFlag{
	stringFlag("style", "", "style preset (see 'stylefmt presets')", func(o *config.Options, v string) error {
		o.Style = config.Style(v)
		return nil
	}),
	stringFlag("mode", "", "source dialect: c, java or cs (default: from the file extension)", func(o *config.Options, v string) error {
		o.Mode = v
		return nil
	}),
	stringFlag("indent", "spaces=4", "indent with spaces=N, tab=N or force-tab=N", parseIndent),
	stringFlag("max-instatement-indent", "40", "maximum continuation indent in columns", func(o *config.Options, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		o.MaxInStatementIndent = n
		return nil
	}),
	stringFlag("min-conditional-indent", "two", "minimum indent of a continued condition: zero, one, one-half or two", func(o *config.Options, v string) error {
		o.MinConditionalIndent = config.MinConditional(v)
		return nil
	}),
	boolFlag("indent-classes", "indent class bodies", func(o *config.Options, v bool) { o.IndentClasses = v }),
	boolFlag("indent-switches", "indent switch bodies", func(o *config.Options, v bool) { o.IndentSwitches = v }),
	boolFlag("indent-cases", "indent case bodies", func(o *config.Options, v bool) { o.IndentCases = v }),
	boolFlag("indent-brackets", "indent brackets with their block", func(o *config.Options, v bool) { o.IndentBrackets = v }),
	boolFlag("indent-blocks", "indent blocks and their brackets", func(o *config.Options, v bool) { o.IndentBlocks = v }),
	boolFlag("indent-namespaces", "indent namespace bodies", func(o *config.Options, v bool) { o.IndentNamespaces = v }),
	boolFlag("indent-labels", "indent labels one unit less than code", func(o *config.Options, v bool) { o.IndentLabels = v }),
	boolFlag("indent-preprocessor", "indent multi-line #define bodies", func(o *config.Options, v bool) { o.IndentPreprocessor = v }),
	boolFlag("indent-col1-comments", "indent comments that start in column 1", func(o *config.Options, v bool) { o.IndentCol1Comments = v }),
	boolFlag("fill-empty-lines", "indent empty lines", func(o *config.Options, v bool) { o.FillEmptyLines = v }),
	stringFlag("brackets", "none", "bracket placement: none, attach, break, linux, stroustrup or run-in", func(o *config.Options, v string) error {
		o.Brackets = config.BracketMode(v)
		return nil
	}),
	boolFlag("break-closing-brackets", "break '}' from a following else, catch or while", func(o *config.Options, v bool) { o.BreakClosingBrackets = v }),
	boolFlag("attach-closing-bracket", "attach '}' to the last statement", func(o *config.Options, v bool) { o.AttachClosingBracket = v }),
	boolFlag("break-blocks", "add empty lines around header blocks", func(o *config.Options, v bool) { o.BreakBlocks = v }),
	boolFlag("break-all-blocks", "add empty lines around header blocks, closing headers included", func(o *config.Options, v bool) { o.BreakAllBlocks = v }),
	boolFlag("break-elseifs", "put the if of an else if on its own line", func(o *config.Options, v bool) { o.BreakElseIfs = v }),
	boolFlag("keep-one-line-blocks", "do not break one-line blocks", func(o *config.Options, v bool) { o.KeepOneLineBlocks = v }),
	boolFlag("keep-one-line-statements", "do not break lines holding several statements", func(o *config.Options, v bool) { o.KeepOneLineStatements = v }),
	boolFlag("add-brackets", "add brackets to unbracketed if, for, while and do bodies", func(o *config.Options, v bool) { o.AddBrackets = v }),
	boolFlag("add-one-line-brackets", "add brackets on the same line to unbracketed bodies", func(o *config.Options, v bool) { o.AddOneLineBrackets = v }),
	boolFlag("delete-empty-lines", "delete empty lines inside functions", func(o *config.Options, v bool) { o.DeleteEmptyLines = v }),
	boolFlag("convert-tabs", "convert tabs outside quotes to spaces", func(o *config.Options, v bool) { o.ConvertTabs = v }),
	boolFlag("pad-oper", "pad operators with spaces", func(o *config.Options, v bool) { o.PadOperators = v }),
	boolFlag("pad-paren", "pad parens inside and outside", func(o *config.Options, v bool) {
		o.PadParensInside = v
		o.PadParensOutside = v
	}),
	boolFlag("pad-paren-in", "pad parens inside", func(o *config.Options, v bool) { o.PadParensInside = v }),
	boolFlag("pad-paren-out", "pad parens outside", func(o *config.Options, v bool) { o.PadParensOutside = v }),
	boolFlag("pad-header", "put a space between a header and its paren", func(o *config.Options, v bool) { o.PadHeader = v }),
	boolFlag("unpad-paren", "remove padding around parens that is not asked for", func(o *config.Options, v bool) { o.UnpadParens = v }),
	stringFlag("align-pointer", "none", "place '*' at the type, middle or name", func(o *config.Options, v string) error {
		o.AlignPointer = config.PointerAlign(v)
		return nil
	}),
	stringFlag("align-reference", "same-as-pointer", "place '&' at the type, middle or name", func(o *config.Options, v string) error {
		o.AlignReference = config.PointerAlign(v)
		return nil
	}),
	stringFlag("lineend", "default", "output line end: default, windows, linux or macold", func(o *config.Options, v string) error {
		o.LineEnd = config.LineEnd(v)
		return nil
	}),
}

// addOptionFlags registers every option flag on fs.
func addOptionFlags(fs *pflag.FlagSet) {
	for _, f := range optionFlags {
		if f.isBool {
			fs.Bool(f.name, false, f.usage)
			continue
		}
		fs.String(f.name, f.def, f.usage)
	}
}

// applyOptionFlags copies the flags set on the command line onto opts.
// Flags left at their default do not override an options file.
func applyOptionFlags(fs *pflag.FlagSet, opts *config.Options) error {
	byName := make(map[string]optionFlag, len(optionFlags))
	for _, f := range optionFlags {
		byName[f.name] = f
	}

	var errs []string
	fs.Visit(func(pf *pflag.Flag) {
		f, ok := byName[pf.Name]
		if !ok {
			return
		}
		if err := f.apply(opts, pf.Value.String()); err != nil {
			errs = append(errs, fmt.Sprintf("--%s: %v", pf.Name, err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid flags: %s", strings.Join(errs, "; "))
	}
	return nil
}

// parseIndent reads "spaces=4", "tab=8" or "force-tab". The width is
// optional and defaults to 4.
func parseIndent(o *config.Options, v string) error {
	kind, width, hasWidth := strings.Cut(v, "=")
	o.Indent = config.IndentStyle(kind)
	o.IndentLength = 4
	if hasWidth {
		n, err := strconv.Atoi(width)
		if err != nil {
			return fmt.Errorf("indent width %q is not a number", width)
		}
		o.IndentLength = n
	}
	return nil
}
