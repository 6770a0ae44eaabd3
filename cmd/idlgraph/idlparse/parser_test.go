package idlparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idlgraph/cmd/idlgraph/typegraph"
)

func TestParse_Empty(t *testing.T) {
	decls, err := Parse("  // nothing here\n/* or here */")
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestParse_Declarations(t *testing.T) {
	decls, err := Parse(`
      [Exposed=Window]
      interface A {
      };

      interface B : A {
        [Ext] readonly attribute double b;
      };

      D implements C;

      typedef (B or C)? Alias;

      enum En { "1", "two", };
    `)
	require.NoError(t, err)
	require.Len(t, decls, 5)

	assert.Equal(t, typegraph.DeclInterface, decls[0].Kind)
	assert.Equal(t, "A", decls[0].Name)
	assert.Empty(t, decls[0].Members)
	assert.Equal(t, typegraph.Pos{Line: 3, Column: 7}, decls[0].Pos)

	assert.Equal(t, "B", decls[1].Name)
	assert.Equal(t, "A", decls[1].Inherits)
	require.Len(t, decls[1].Members, 1)
	assert.Equal(t, "b", decls[1].Members[0].Name)
	assert.Equal(t, typegraph.RawType{Name: "double"}, decls[1].Members[0].Type)

	assert.Equal(t, typegraph.Decl{
		Kind: typegraph.DeclImplements, Target: "D", Implements: "C",
		Pos: typegraph.Pos{Line: 10, Column: 7},
	}, decls[2])

	require.NotNil(t, decls[3].Type)
	assert.Equal(t, "Alias", decls[3].Name)
	assert.Equal(t, "(B or C)?", decls[3].Type.String())
	assert.True(t, decls[3].Type.Nullable)

	assert.Equal(t, []string{"1", "two"}, decls[4].Values)
}

func TestParse_TypeSuffixes(t *testing.T) {
	cases := map[string]typegraph.RawType{
		"double":              {Name: "double"},
		"double?":             {Name: "double", Nullable: true},
		"double[]":            {Name: "double", Array: 1, NullableArray: []bool{false}},
		"B?[]":                {Name: "B", Array: 1, NullableArray: []bool{true}},
		"B[]?":                {Name: "B", Array: 1, NullableArray: []bool{false}, Nullable: true},
		"B[][]":               {Name: "B", Array: 2, NullableArray: []bool{false, false}},
		"unsigned long long":  {Name: "unsigned long long"},
		"sequence<DOMString>": {Generic: "sequence", Params: []typegraph.RawType{{Name: "DOMString"}}},
		"(B or C)?[]": {
			Union:         []typegraph.RawType{{Name: "B"}, {Name: "C"}},
			Array:         1,
			NullableArray: []bool{true},
		},
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			decls, err := Parse("interface A { attribute " + src + " x; };")
			require.NoError(t, err)
			require.Len(t, decls[0].Members, 1)
			assert.Equal(t, want, decls[0].Members[0].Type)
			assert.Equal(t, "x", decls[0].Members[0].Name)
		})
	}
}

func TestParse_SkippedKinds(t *testing.T) {
	decls, err := Parse(`
      dictionary Opts { required DOMString a; long b = 3; };
      callback Fn = void (DOMString s);
      partial interface A { attribute double z; };
    `)
	require.NoError(t, err)
	require.Len(t, decls, 3)
	assert.Equal(t, typegraph.DeclKind("dictionary"), decls[0].Kind)
	assert.Equal(t, "Opts", decls[0].Name)
	assert.Equal(t, typegraph.DeclKind("callback"), decls[1].Kind)
	assert.Equal(t, "Fn", decls[1].Name)
	assert.Equal(t, typegraph.DeclKind("partial interface"), decls[2].Kind)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"missing semicolon":    "interface A {}",
		"operation member":     "interface A { void f(); };",
		"const member":         "interface A { const long X = 1; };",
		"single member union":  "interface A { attribute (B) x; };",
		"double question":      "interface A { attribute B?? x; };",
		"unterminated string":  `enum E { "a };`,
		"unterminated comment": "/* never closed",
		"stray token":          "; interface A {};",
		"unbalanced ext attr":  "[Exposed=(Window interface A {};",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Positive(t, se.Line)
			assert.Contains(t, err.Error(), "phase=parse")
		})
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType("(A or B)?[]")
	require.NoError(t, err)
	assert.Equal(t, "(A or B)?[]", got.String())

	_, err = ParseType("A B")
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = ParseType("")
	assert.ErrorIs(t, err, ErrSyntax)
}
