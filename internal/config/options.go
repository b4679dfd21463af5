// Package config holds the formatting options shared by the indentation
// engine, the token reformatter and the command line driver.
//
// Options is a plain value. It is assembled from Defaults, an optional YAML
// file and command line flags, then passed through Resolve once so style
// presets and conflicting settings are settled before any formatting
// starts. Nothing downstream mutates it.
package config

import "strings"

// Style names a predefined combination of bracket and indent settings.
type Style string

const (
	StyleNone       Style = ""
	StyleAllman     Style = "allman"
	StyleJava       Style = "java"
	StyleKR         Style = "kr"
	StyleStroustrup Style = "stroustrup"
	StyleWhitesmith Style = "whitesmith"
	StyleBanner     Style = "banner"
	StyleGNU        Style = "gnu"
	StyleLinux      Style = "linux"
	StyleHorstmann  Style = "horstmann"
	Style1TBS       Style = "1tbs"
	StylePico       Style = "pico"
	StyleLisp       Style = "lisp"
)

// IndentStyle selects the characters used for one indent unit.
type IndentStyle string

const (
	IndentSpaces   IndentStyle = "spaces"
	IndentTab      IndentStyle = "tab"
	IndentForceTab IndentStyle = "force-tab"
)

// BracketMode controls where opening brackets are placed.
type BracketMode string

const (
	BracketsNone       BracketMode = "none"
	BracketsAttach     BracketMode = "attach"
	BracketsBreak      BracketMode = "break"
	BracketsLinux      BracketMode = "linux"
	BracketsStroustrup BracketMode = "stroustrup"
	BracketsRunIn      BracketMode = "run-in"
)

// PointerAlign places the '*' or '&' of a declaration.
type PointerAlign string

const (
	AlignNone   PointerAlign = "none"
	AlignType   PointerAlign = "type"
	AlignMiddle PointerAlign = "middle"
	AlignName   PointerAlign = "name"

	// AlignSameAsPointer is only valid for references.
	AlignSameAsPointer PointerAlign = "same-as-pointer"
)

// MinConditional is the minimum extra indent of a continued header
// condition, expressed in indent units.
type MinConditional string

const (
	MinCondZero    MinConditional = "zero"
	MinCondOne     MinConditional = "one"
	MinCondOneHalf MinConditional = "one-half"
	MinCondTwo     MinConditional = "two"
)

// LineEnd selects the output line terminator.
type LineEnd string

const (
	// LineEndDefault keeps the terminator used by most lines of the input.
	LineEndDefault LineEnd = "default"
	LineEndWindows LineEnd = "windows"
	LineEndLinux   LineEnd = "linux"
	LineEndMacOld  LineEnd = "macold"
)

// Options is the complete set of formatting settings.
type Options struct {
	Style Style  `yaml:"style"`
	Mode  string `yaml:"mode"`

	Indent               IndentStyle    `yaml:"indent"`
	IndentLength         int            `yaml:"indent-length"`
	MaxInStatementIndent int            `yaml:"max-instatement-indent"`
	MinConditionalIndent MinConditional `yaml:"min-conditional-indent"`

	IndentClasses      bool `yaml:"indent-classes"`
	IndentSwitches     bool `yaml:"indent-switches"`
	IndentCases        bool `yaml:"indent-cases"`
	IndentBrackets     bool `yaml:"indent-brackets"`
	IndentBlocks       bool `yaml:"indent-blocks"`
	IndentNamespaces   bool `yaml:"indent-namespaces"`
	IndentLabels       bool `yaml:"indent-labels"`
	IndentPreprocessor bool `yaml:"indent-preprocessor"`
	IndentCol1Comments bool `yaml:"indent-col1-comments"`
	FillEmptyLines     bool `yaml:"fill-empty-lines"`

	Brackets              BracketMode `yaml:"brackets"`
	BreakClosingBrackets  bool        `yaml:"break-closing-brackets"`
	AttachClosingBracket  bool        `yaml:"attach-closing-bracket"`
	BreakBlocks           bool        `yaml:"break-blocks"`
	BreakAllBlocks        bool        `yaml:"break-all-blocks"`
	BreakElseIfs          bool        `yaml:"break-elseifs"`
	KeepOneLineBlocks     bool        `yaml:"keep-one-line-blocks"`
	KeepOneLineStatements bool        `yaml:"keep-one-line-statements"`
	AddBrackets           bool        `yaml:"add-brackets"`
	AddOneLineBrackets    bool        `yaml:"add-one-line-brackets"`
	DeleteEmptyLines      bool        `yaml:"delete-empty-lines"`
	ConvertTabs           bool        `yaml:"convert-tabs"`

	PadOperators     bool `yaml:"pad-oper"`
	PadParensOutside bool `yaml:"pad-paren-out"`
	PadParensInside  bool `yaml:"pad-paren-in"`
	PadHeader        bool `yaml:"pad-header"`
	UnpadParens      bool `yaml:"unpad-paren"`

	AlignPointer   PointerAlign `yaml:"align-pointer"`
	AlignReference PointerAlign `yaml:"align-reference"`

	LineEnd LineEnd `yaml:"lineend"`
}

// Defaults returns the options used when nothing else is configured.
func Defaults() Options {
	return Options{
		Indent:               IndentSpaces,
		IndentLength:         4,
		MaxInStatementIndent: 40,
		MinConditionalIndent: MinCondTwo,
		Brackets:             BracketsNone,
		AlignPointer:         AlignNone,
		AlignReference:       AlignSameAsPointer,
		LineEnd:              LineEndDefault,
	}
}

// UseTabs reports whether indentation is written with tab characters.
func (o Options) UseTabs() bool {
	return o.Indent == IndentTab || o.Indent == IndentForceTab
}

// ForceTabs reports whether continuation indents are also written with tabs.
func (o Options) ForceTabs() bool {
	return o.Indent == IndentForceTab
}

// IndentString returns the text of one indent unit.
func (o Options) IndentString() string {
	if o.UseTabs() {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentLength)
}

// MinConditionalIndentLength converts the minimum conditional indent into
// columns.
func (o Options) MinConditionalIndentLength() int {
	switch o.MinConditionalIndent {
	case MinCondZero:
		return 0
	case MinCondOne:
		return o.IndentLength
	case MinCondOneHalf:
		return o.IndentLength / 2
	default:
		return o.IndentLength * 2
	}
}

// BreakOneLineBlocks reports whether "{ a; }" blocks are expanded.
func (o Options) BreakOneLineBlocks() bool { return !o.KeepOneLineBlocks }

// BreakOneLineStatements reports whether "a; b;" lines are split.
func (o Options) BreakOneLineStatements() bool { return !o.KeepOneLineStatements }

// ReferenceAlignment returns the effective alignment for '&', following the
// pointer alignment when references are not set on their own.
func (o Options) ReferenceAlignment() PointerAlign {
	if o.AlignReference == AlignSameAsPointer || o.AlignReference == "" {
		return o.AlignPointer
	}
	return o.AlignReference
}
