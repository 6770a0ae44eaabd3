package typegraph

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCodec_CompoundTypeRoundTrip(t *testing.T) {
	typ := List{Elem: Nullable{Elem: Union{Members: []Type{NodeRef{Name: "B"}, NodeRef{Name: "C"}}}}}

	data, err := MarshalType(typ)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"list","argument":{"kind":"nullable","argument":{"kind":"union","argument":[{"kind":"node","argument":"B"},{"kind":"node","argument":"C"}]}}}`
	if string(data) != want {
		t.Fatalf("got %s", data)
	}

	back, err := UnmarshalType(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, typ) {
		t.Fatalf("round trip: got %v", back)
	}
}

func TestCodec_GraphRoundTrip(t *testing.T) {
	g := mustBuild(t,
		[]Decl{
			iface("A", "", attr("x", plain("N"))),
			iface("B", "A", attr("e", plain("En"))),
			{Kind: DeclTypedef, Name: "N", Type: &RawType{Name: "double", Nullable: true}},
			{Kind: DeclEnum, Name: "En", Values: []string{"a", "b"}},
		},
		ordering("A", []string{"x"}, "B", []string{"x", "e"}),
	)

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var back Graph
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&back, g) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, g)
	}
	if n, ok := back.Node("B"); !ok || !reflect.DeepEqual(n.Parents, []string{"A"}) {
		t.Fatalf("index not rebuilt: %+v", n)
	}
}

func TestCodec_FromWireErrors(t *testing.T) {
	for _, in := range []string{
		`"node"`,
		`{"kind":"bogus","argument":"x"}`,
		`{"kind":"node","argument":""}`,
		`{"kind":"union","argument":[]}`,
		`{"kind":"list","argument":{"kind":"node"}}`,
	} {
		if _, err := UnmarshalType([]byte(in)); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}
