package typegraph

import (
	"errors"
	"reflect"
	"testing"
)

func testNormalizer(t *testing.T, cache int) *Normalizer {
	t.Helper()
	reg := NewRegistry(DefaultPrimitives)
	alias := RawType{Name: "double"}
	for _, d := range []Decl{
		iface("B", ""),
		iface("C", ""),
		{Kind: DeclTypedef, Name: "Num", Type: &alias},
		{Kind: DeclEnum, Name: "Dir", Values: []string{"up", "down"}},
	} {
		if err := reg.Register(d); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Link(); err != nil {
		t.Fatal(err)
	}
	n, err := NewNormalizer(reg, cache)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNormalize_Shapes(t *testing.T) {
	b, c := NodeRef{Name: "B"}, NodeRef{Name: "C"}
	bc := []RawType{plain("B"), plain("C")}
	cases := []struct {
		name string
		raw  RawType
		want Type
	}{
		{"node", plain("B"), b},
		{"primitive", plain("DOMString"), Value{Primitive: "string"}},
		{"alias", plain("Num"), NamedRef{Name: "Num"}},
		{"enum", plain("Dir"), EnumRef{Name: "Dir"}},
		{"nullable", RawType{Name: "double", Nullable: true}, Nullable{Elem: Value{Primitive: "double"}}},
		{"nullable union", RawType{Union: bc, Nullable: true}, Nullable{Elem: Union{Members: []Type{b, c}}}},
		{"list", RawType{Name: "double", Array: 1}, List{Elem: Value{Primitive: "double"}}},
		{"list of nullable", RawType{Name: "B", Array: 1, NullableArray: []bool{true}}, List{Elem: Nullable{Elem: b}}},
		{"list of union", RawType{Union: bc, Array: 1}, List{Elem: Union{Members: []Type{b, c}}}},
		{"list of nullable union", RawType{Union: bc, Array: 1, NullableArray: []bool{true}},
			List{Elem: Nullable{Elem: Union{Members: []Type{b, c}}}}},
		{"union", RawType{Union: bc}, Union{Members: []Type{b, c}}},
	}
	for _, cache := range []int{0, 8} {
		n := testNormalizer(t, cache)
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				for i := 0; i < 2; i++ {
					got, err := n.Normalize(tc.raw)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if !reflect.DeepEqual(got, tc.want) {
						t.Fatalf("got %v, want %v", got, tc.want)
					}
				}
			})
		}
	}
}

func TestNormalize_UnsupportedShapes(t *testing.T) {
	n := testNormalizer(t, 0)
	bc := []RawType{plain("B"), plain("C")}
	cases := map[string]RawType{
		"nullable list":      {Name: "B", Array: 1, Nullable: true},
		"nested array":       {Name: "B", Array: 2},
		"sequence":           {Generic: "sequence", Params: []RawType{plain("B")}},
		"nullable generic":   {Generic: "Promise", Params: []RawType{plain("B")}, Nullable: true},
		"array of generic":   {Generic: "sequence", Params: []RawType{plain("B")}, Array: 1},
		"nested union":       {Union: []RawType{plain("B"), {Union: bc}}},
		"nullable member":    {Union: []RawType{plain("B"), {Name: "C", Nullable: true}}},
		"single member":      {Union: []RawType{plain("B")}},
		"nullable union arr": {Union: bc, Nullable: true, Array: 1},
		"empty":              {},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := n.Normalize(raw)
			var shape *UnsupportedTypeShapeError
			if !errors.As(err, &shape) {
				t.Fatalf("expected *UnsupportedTypeShapeError, got %v", err)
			}
			if !errors.Is(err, ErrUnsupportedTypeShape) {
				t.Fatalf("expected errors.Is ErrUnsupportedTypeShape")
			}
			if !reflect.DeepEqual(shape.Raw, raw) {
				t.Fatalf("error should carry the raw expression, got %+v", shape.Raw)
			}
		})
	}
}

func TestNormalize_UnidentifiedUnionMember(t *testing.T) {
	n := testNormalizer(t, 0)
	_, err := n.Normalize(RawType{Union: []RawType{plain("B"), plain("Nope")}})
	if !errors.Is(err, ErrUnidentifiedType) {
		t.Fatalf("expected ErrUnidentifiedType, got %v", err)
	}
	mustContain(t, err.Error(), "Nope")
}

func TestNormalize_NodeShadowsPrimitive(t *testing.T) {
	reg := NewRegistry(DefaultPrimitives)
	if err := reg.Register(iface("double", "")); err != nil {
		t.Fatal(err)
	}
	n, _ := NewNormalizer(reg, 0)
	got, err := n.Normalize(plain("double"))
	if err != nil {
		t.Fatal(err)
	}
	if got != (NodeRef{Name: "double"}) {
		t.Fatalf("node lookup comes first, got %v", got)
	}
}

func TestRawType_String(t *testing.T) {
	cases := map[string]RawType{
		"double":           plain("double"),
		"double?":          {Name: "double", Nullable: true},
		"(B or C)?[]":      {Union: []RawType{plain("B"), plain("C")}, Array: 1, NullableArray: []bool{true}},
		"sequence<B>":      {Generic: "sequence", Params: []RawType{plain("B")}},
		"B[][]":            {Name: "B", Array: 2},
		"(B or C)?":        {Union: []RawType{plain("B"), plain("C")}, Nullable: true},
		"record<K, V>[]":   {Generic: "record", Params: []RawType{plain("K"), plain("V")}, Array: 1},
	}
	for want, raw := range cases {
		if got := raw.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
