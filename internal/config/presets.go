package config

// Preset describes one named style.
type Preset struct {
	Name    Style
	Summary string
	apply   func(*Options)
}

var presets = []Preset{
	{StyleAllman, "break brackets", func(o *Options) {
		o.Brackets = BracketsBreak
	}},
	{StyleJava, "attach brackets", func(o *Options) {
		o.Brackets = BracketsAttach
	}},
	{StyleKR, "linux brackets", func(o *Options) {
		o.Brackets = BracketsLinux
	}},
	{StyleStroustrup, "stroustrup brackets", func(o *Options) {
		o.Brackets = BracketsStroustrup
	}},
	{StyleWhitesmith, "break brackets, indent brackets, classes and switches", func(o *Options) {
		o.Brackets = BracketsBreak
		o.IndentBrackets = true
		o.IndentClasses = true
		o.IndentSwitches = true
	}},
	{StyleBanner, "attach brackets, indent brackets, classes and switches", func(o *Options) {
		o.Brackets = BracketsAttach
		o.IndentBrackets = true
		o.IndentClasses = true
		o.IndentSwitches = true
	}},
	{StyleGNU, "break brackets, indent blocks", func(o *Options) {
		o.Brackets = BracketsBreak
		o.IndentBlocks = true
	}},
	{StyleLinux, "linux brackets, half unit conditional indent", func(o *Options) {
		o.Brackets = BracketsLinux
		o.MinConditionalIndent = MinCondOneHalf
	}},
	{StyleHorstmann, "run-in brackets, indent switches", func(o *Options) {
		o.Brackets = BracketsRunIn
		o.IndentSwitches = true
	}},
	{Style1TBS, "linux brackets, add brackets", func(o *Options) {
		o.Brackets = BracketsLinux
		o.AddBrackets = true
	}},
	{StylePico, "run-in brackets, attach closing, indent switches, keep one-line blocks and statements", func(o *Options) {
		o.Brackets = BracketsRunIn
		o.AttachClosingBracket = true
		o.IndentSwitches = true
		o.KeepOneLineBlocks = true
		o.KeepOneLineStatements = true
		if o.AddBrackets {
			o.AddOneLineBrackets = true
		}
	}},
	{StyleLisp, "attach brackets, attach closing, keep one-line statements", func(o *Options) {
		o.Brackets = BracketsAttach
		o.AttachClosingBracket = true
		o.KeepOneLineStatements = true
		if o.AddOneLineBrackets {
			o.AddBrackets = true
			o.AddOneLineBrackets = false
		}
	}},
}

// Presets lists the named styles in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name.
func LookupPreset(name Style) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Resolve applies the style preset and settles conflicting settings. The
// preset wins over individually set bracket modes. Adding one-line
// brackets implies adding brackets and keeping one-line blocks.
func (o Options) Resolve() Options {
	if o.AddOneLineBrackets {
		o.AddBrackets = true
	}
	if p, ok := LookupPreset(o.Style); ok {
		p.apply(&o)
	}
	if o.AddOneLineBrackets {
		o.KeepOneLineBlocks = true
	}
	if o.AlignReference == "" {
		o.AlignReference = AlignSameAsPointer
	}
	return o
}
