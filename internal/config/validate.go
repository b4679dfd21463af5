package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hassan/stylefmt/internal/lexer"
)

// OptionError reports one option with an unusable value.
type OptionError struct {
	Option string
	Value  any
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %s: invalid value %q: %s", e.Option, fmt.Sprint(e.Value), e.Reason)
}

// Validate checks every option value and returns all problems joined into
// one error, or nil.
func (o Options) Validate() error {
	var errs []error
	add := func(option string, value any, reason string) {
		errs = append(errs, &OptionError{Option: option, Value: value, Reason: reason})
	}

	if o.Style != StyleNone {
		if _, ok := LookupPreset(o.Style); !ok {
			add("style", o.Style, "unknown style")
		}
	}
	if o.Mode != "" {
		if _, ok := lexer.ParseDialect(o.Mode); !ok {
			add("mode", o.Mode, "expected c, java or cs")
		}
	}
	if !slices.Contains([]IndentStyle{IndentSpaces, IndentTab, IndentForceTab}, o.Indent) {
		add("indent", o.Indent, "expected spaces, tab or force-tab")
	}
	if o.IndentLength < 2 || o.IndentLength > 20 {
		add("indent-length", o.IndentLength, "must be between 2 and 20")
	}
	if o.MaxInStatementIndent < 40 || o.MaxInStatementIndent > 120 {
		add("max-instatement-indent", o.MaxInStatementIndent, "must be between 40 and 120")
	}
	if !slices.Contains([]MinConditional{MinCondZero, MinCondOne, MinCondOneHalf, MinCondTwo}, o.MinConditionalIndent) {
		add("min-conditional-indent", o.MinConditionalIndent, "expected zero, one, one-half or two")
	}
	if !slices.Contains([]BracketMode{BracketsNone, BracketsAttach, BracketsBreak, BracketsLinux, BracketsStroustrup, BracketsRunIn}, o.Brackets) {
		add("brackets", o.Brackets, "unknown bracket mode")
	}
	alignments := []PointerAlign{AlignNone, AlignType, AlignMiddle, AlignName}
	if !slices.Contains(alignments, o.AlignPointer) {
		add("align-pointer", o.AlignPointer, "expected none, type, middle or name")
	}
	if o.AlignReference != AlignSameAsPointer && !slices.Contains(alignments, o.AlignReference) {
		add("align-reference", o.AlignReference, "expected none, type, middle, name or same-as-pointer")
	}
	if !slices.Contains([]LineEnd{LineEndDefault, LineEndWindows, LineEndLinux, LineEndMacOld}, o.LineEnd) {
		add("lineend", o.LineEnd, "expected default, windows, linux or macold")
	}

	return errors.Join(errs...)
}
