package lexer

// Dialect selects the keyword and operator sets of a source language family.
//
// A dialect is fixed for a whole run. It decides which headers are
// recognized and a handful of language-specific behaviors: the Java static
// initializer, C# accessors and verbatim strings, C preprocessor and
// structured exception keywords.
type Dialect int

const (
	// C covers C, C++ and Objective-C style sources.
	C Dialect = iota

	// Java enables '$' in identifiers and the static/synchronized headers.
	Java

	// CSharp enables '@' in identifiers and verbatim strings, plus the
	// get/set/add/remove accessor headers.
	CSharp
)

// String returns a human-readable name for the dialect.
func (d Dialect) String() string {
	switch d {
	case C:
		return "c"
	case Java:
		return "java"
	case CSharp:
		return "cs"
	default:
		return "unknown"
	}
}

// ParseDialect maps a dialect name ("c", "java", "cs") to its value.
func ParseDialect(name string) (Dialect, bool) {
	switch name {
	case "c", "cpp", "c++":
		return C, true
	case "java":
		return Java, true
	case "cs", "csharp", "c#":
		return CSharp, true
	default:
		return C, false
	}
}

// IsC reports whether d is the C family.
func (d Dialect) IsC() bool { return d == C }

// IsJava reports whether d is Java.
func (d Dialect) IsJava() bool { return d == Java }

// IsCSharp reports whether d is C#.
func (d Dialect) IsCSharp() bool { return d == CSharp }

// Keywords recognized as headers or statement markers.
//
// Headers are compared by value; an empty string means "no header".
const (
	If           = "if"
	Else         = "else"
	For          = "for"
	Do           = "do"
	While        = "while"
	Switch       = "switch"
	Case         = "case"
	Default      = "default"
	Class        = "class"
	Volatile     = "volatile"
	Struct       = "struct"
	Union        = "union"
	Interface    = "interface"
	Namespace    = "namespace"
	Extern       = "extern"
	Enum         = "enum"
	Public       = "public"
	Protected    = "protected"
	Private      = "private"
	Static       = "static"
	Synchronized = "synchronized"
	Operator     = "operator"
	Template     = "template"
	Try          = "try"
	Catch        = "catch"
	Finally      = "finally"
	MSTry        = "__try"
	MSFinally    = "__finally"
	MSExcept     = "__except"
	Throws       = "throws"
	Const        = "const"
	Sealed       = "sealed"
	Override     = "override"
	Where        = "where"
	New          = "new"
	Return       = "return"
	Foreach      = "foreach"
	Lock         = "lock"
	Unsafe       = "unsafe"
	Fixed        = "fixed"
	Get          = "get"
	Set          = "set"
	Add          = "add"
	Remove       = "remove"
	Delegate     = "delegate"
	Unchecked    = "unchecked"

	Asm         = "asm"
	GnuAsm      = "__asm__"
	MSAsm       = "_asm"
	MSDoubleAsm = "__asm"

	ConstCast       = "const_cast"
	DynamicCast     = "dynamic_cast"
	ReinterpretCast = "reinterpret_cast"
	StaticCast      = "static_cast"
)

// Punctuation sequences with a fixed meaning.
const (
	OpenBracket     = "{"
	CloseBracket    = "}"
	OpenLineComment = "//"
	OpenComment     = "/*"
	CloseComment    = "*/"
)

// Operators. Assignment and comparison forms are listed first, then the
// single character operators.
const (
	OpAssign       = "="
	OpPlusAssign   = "+="
	OpMinusAssign  = "-="
	OpMultAssign   = "*="
	OpDivAssign    = "/="
	OpModAssign    = "%="
	OpOrAssign     = "|="
	OpAndAssign    = "&="
	OpXorAssign    = "^="
	OpShrAssign    = ">>="
	OpShlAssign    = "<<="
	OpUShrAssign   = ">>>="
	OpUShlAssign   = "<<<="
	OpGccMinAssign = "<?"
	OpGccMaxAssign = ">?"
	OpEqual        = "=="
	OpIncrement    = "++"
	OpDecrement    = "--"
	OpNotEqual     = "!="
	OpGreaterEqual = ">="
	OpShr          = ">>"
	OpUShr         = ">>>"
	OpLessEqual    = "<="
	OpShl          = "<<"
	OpUShl         = "<<<"
	OpNullCoalesce = "??"
	OpLambda       = "=>"
	OpArrow        = "->"
	OpAnd          = "&&"
	OpOr           = "||"
	OpScope        = "::"
	OpPlus         = "+"
	OpMinus        = "-"
	OpMult         = "*"
	OpDiv          = "/"
	OpMod          = "%"
	OpGreater      = ">"
	OpLess         = "<"
	OpNot          = "!"
	OpBitOr        = "|"
	OpBitAnd       = "&"
	OpBitNot       = "~"
	OpBitXor       = "^"
	OpQuestion     = "?"
	OpColon        = ":"
)
