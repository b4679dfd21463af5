package lexer

import (
	"cmp"
	"slices"
	"sync"
)

// Catalog holds the keyword and operator lists one consumer needs for one
// dialect. Keyword lists are sorted by name so FindHeader can stop early;
// operator lists are sorted longest first so FindOperator returns the
// longest match.
//
// A Catalog is shared between goroutines and must not be modified.
type Catalog struct {
	Dialect Dialect

	Headers              []string
	NonParenHeaders      []string
	PreBlockStatements   []string
	PreCommandHeaders    []string
	PreDefinitionHeaders []string
	IndentableHeaders    []string

	AssignmentOperators    []string
	NonAssignmentOperators []string
	CastOperators          []string
	Operators              []string
}

// catalogSlot caches one catalog. The second index selects the header
// variants that only the indentation engine recognizes (template in C,
// static in Java).
type catalogSlot struct {
	once    sync.Once
	catalog *Catalog
}

var catalogSlots [3][2]catalogSlot

// BeautifierCatalog returns the shared catalog used by the indentation engine.
func BeautifierCatalog(d Dialect) *Catalog {
	return lookupCatalog(d, true)
}

// FormatterCatalog returns the shared catalog used by the token reformatter.
func FormatterCatalog(d Dialect) *Catalog {
	return lookupCatalog(d, false)
}

func lookupCatalog(d Dialect, forBeautifier bool) *Catalog {
	if d < C || d > CSharp {
		d = C
	}
	role := 0
	if forBeautifier {
		role = 1
	}
	slot := &catalogSlots[d][role]
	slot.once.Do(func() {
		slot.catalog = buildCatalog(d, forBeautifier)
	})
	return slot.catalog
}

func buildCatalog(d Dialect, forBeautifier bool) *Catalog {
	return &Catalog{
		Dialect:                d,
		Headers:                buildHeaders(d, forBeautifier),
		NonParenHeaders:        buildNonParenHeaders(d, forBeautifier),
		PreBlockStatements:     buildPreBlockStatements(d),
		PreCommandHeaders:      buildPreCommandHeaders(d),
		PreDefinitionHeaders:   buildPreDefinitionHeaders(d),
		IndentableHeaders:      sortByName([]string{Return}),
		AssignmentOperators:    buildAssignmentOperators(),
		NonAssignmentOperators: buildNonAssignmentOperators(),
		CastOperators:          []string{ConstCast, DynamicCast, ReinterpretCast, StaticCast},
		Operators:              buildOperators(),
	}
}

func buildHeaders(d Dialect, forBeautifier bool) []string {
	h := []string{If, Else, For, While, Do, Switch, Case, Default, Try, Catch}

	switch d {
	case C:
		h = append(h, MSTry, MSFinally, MSExcept)
	case Java:
		h = append(h, Finally, Synchronized)
	case CSharp:
		h = append(h, Finally, Foreach, Lock, Fixed, Get, Set, Add, Remove)
	}

	if forBeautifier {
		switch d {
		case C:
			h = append(h, Template)
		case Java:
			h = append(h, Static)
		}
	}
	return sortByName(h)
}

func buildNonParenHeaders(d Dialect, forBeautifier bool) []string {
	h := []string{Else, Do, Try, Catch, Case, Default}

	switch d {
	case C:
		h = append(h, MSTry, MSFinally)
	case Java:
		h = append(h, Finally)
	case CSharp:
		h = append(h, Finally, Get, Set, Add, Remove)
	}

	if forBeautifier {
		switch d {
		case C:
			h = append(h, Template)
		case Java:
			h = append(h, Static)
		}
	}
	return sortByName(h)
}

func buildPreBlockStatements(d Dialect) []string {
	h := []string{Class}
	switch d {
	case C:
		h = append(h, Struct, Union, Namespace)
	case Java:
		h = append(h, Interface, Throws)
	case CSharp:
		h = append(h, Interface, Namespace, Where, Struct)
	}
	return sortByName(h)
}

// A pre-command header sits between the closing paren of a function
// definition and its opening bracket, as in "void f() const {".
func buildPreCommandHeaders(d Dialect) []string {
	var h []string
	switch d {
	case C:
		h = []string{Const, Volatile, Sealed, Override}
	case Java:
		h = []string{Throws}
	case CSharp:
		h = []string{Where}
	}
	return sortByName(h)
}

func buildPreDefinitionHeaders(d Dialect) []string {
	h := []string{Class}
	switch d {
	case C:
		h = append(h, Struct, Union, Namespace)
	case Java:
		h = append(h, Interface)
	case CSharp:
		h = append(h, Struct, Interface, Namespace)
	}
	return sortByName(h)
}

func buildAssignmentOperators() []string {
	return sortByLength([]string{
		OpAssign, OpPlusAssign, OpMinusAssign, OpMultAssign, OpDivAssign,
		OpModAssign, OpOrAssign, OpAndAssign, OpXorAssign,
		OpUShrAssign, OpShrAssign, OpShlAssign, OpUShlAssign,
	})
}

func buildNonAssignmentOperators() []string {
	return sortByLength([]string{
		OpEqual, OpIncrement, OpDecrement, OpNotEqual, OpGreaterEqual,
		OpUShr, OpShr, OpLessEqual, OpUShl, OpShl,
		OpArrow, OpAnd, OpOr, OpLambda,
	})
}

func buildOperators() []string {
	return sortByLength([]string{
		OpPlusAssign, OpMinusAssign, OpMultAssign, OpDivAssign, OpModAssign,
		OpOrAssign, OpAndAssign, OpXorAssign,
		OpEqual, OpIncrement, OpDecrement, OpNotEqual, OpGreaterEqual,
		OpUShrAssign, OpShrAssign, OpUShr, OpShr,
		OpLessEqual, OpUShlAssign, OpShlAssign, OpUShl, OpShl,
		OpNullCoalesce, OpLambda, OpGccMinAssign, OpGccMaxAssign,
		OpArrow, OpAnd, OpOr, OpScope,
		OpPlus, OpMinus, OpMult, OpDiv, OpMod, OpQuestion, OpColon,
		OpAssign, OpLess, OpGreater, OpNot, OpBitOr, OpBitAnd, OpBitNot, OpBitXor,
	})
}

func sortByName(list []string) []string {
	slices.Sort(list)
	return list
}

// sortByLength orders longest first. Equal lengths keep insertion order.
func sortByLength(list []string) []string {
	slices.SortStableFunc(list, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return list
}
