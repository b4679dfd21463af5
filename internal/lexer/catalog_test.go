package lexer

import (
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCatalogs() map[string]*Catalog {
	out := map[string]*Catalog{}
	for _, d := range []Dialect{C, Java, CSharp} {
		out["beautifier/"+d.String()] = BeautifierCatalog(d)
		out["formatter/"+d.String()] = FormatterCatalog(d)
	}
	return out
}

func TestCatalogOrdering(t *testing.T) {
	for name, c := range allCatalogs() {
		t.Run(name, func(t *testing.T) {
			for _, list := range [][]string{
				c.Headers, c.NonParenHeaders, c.PreBlockStatements,
				c.PreCommandHeaders, c.PreDefinitionHeaders, c.IndentableHeaders,
			} {
				assert.True(t, sort.StringsAreSorted(list), "%v is not sorted by name", list)
			}
			for _, list := range [][]string{c.AssignmentOperators, c.NonAssignmentOperators, c.Operators} {
				for i := 1; i < len(list); i++ {
					assert.GreaterOrEqual(t, len(list[i-1]), len(list[i]), "%v is not sorted by length", list)
				}
			}
		})
	}
}

func TestCatalogEntriesAreNonEmpty(t *testing.T) {
	for name, c := range allCatalogs() {
		lists := [][]string{
			c.Headers, c.NonParenHeaders, c.PreBlockStatements, c.PreCommandHeaders,
			c.PreDefinitionHeaders, c.IndentableHeaders, c.AssignmentOperators,
			c.NonAssignmentOperators, c.CastOperators, c.Operators,
		}
		for _, list := range lists {
			for _, entry := range list {
				assert.NotEmpty(t, entry, name)
			}
		}
	}
}

func TestBeautifierOnlyHeaders(t *testing.T) {
	assert.Contains(t, BeautifierCatalog(C).Headers, Template)
	assert.NotContains(t, FormatterCatalog(C).Headers, Template)
	assert.Contains(t, BeautifierCatalog(Java).NonParenHeaders, Static)
	assert.NotContains(t, FormatterCatalog(Java).NonParenHeaders, Static)
	assert.NotContains(t, BeautifierCatalog(CSharp).Headers, Template)
}

func TestDialectExtensions(t *testing.T) {
	tests := []struct {
		name    string
		list    []string
		want    []string
		notWant []string
	}{
		{"C headers", FormatterCatalog(C).Headers, []string{MSTry, MSExcept}, []string{Finally, Foreach}},
		{"Java headers", FormatterCatalog(Java).Headers, []string{Finally, Synchronized}, []string{MSTry, Lock}},
		{"C# headers", FormatterCatalog(CSharp).Headers, []string{Foreach, Lock, Fixed, Get, Set, Add, Remove}, []string{Synchronized}},
		{"C pre-command", FormatterCatalog(C).PreCommandHeaders, []string{Const, Volatile, Sealed, Override}, []string{Throws}},
		{"Java pre-block", FormatterCatalog(Java).PreBlockStatements, []string{Class, Interface, Throws}, []string{Struct}},
		{"C# pre-definition", FormatterCatalog(CSharp).PreDefinitionHeaders, []string{Class, Struct, Interface, Namespace}, []string{Union}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				assert.Contains(t, tt.list, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, tt.list, w)
			}
		})
	}
}

func TestOperatorsEqualLengthKeepInsertionOrder(t *testing.T) {
	ops := FormatterCatalog(C).Operators
	i := slices.Index(ops, OpPlusAssign)
	j := slices.Index(ops, OpMinusAssign)
	require.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, j)
	assert.Equal(t, OpUShrAssign, ops[0])
}

func TestCatalogIsSharedAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Catalog, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = FormatterCatalog(Java)
		}(i)
	}
	wg.Wait()

	for _, c := range got {
		assert.Same(t, got[0], c)
	}
	assert.NotSame(t, FormatterCatalog(Java), BeautifierCatalog(Java))
}

func TestParseDialect(t *testing.T) {
	for _, name := range []string{"c", "cpp", "c++"} {
		d, ok := ParseDialect(name)
		assert.True(t, ok)
		assert.Equal(t, C, d)
	}
	d, ok := ParseDialect("csharp")
	assert.True(t, ok)
	assert.Equal(t, CSharp, d)
	_, ok = ParseDialect("cobol")
	assert.False(t, ok)
}
