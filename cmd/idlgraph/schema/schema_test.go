package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"idlgraph/cmd/idlgraph/typegraph"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func mustBuild(t *testing.T, schema, manifest string) *typegraph.Graph {
	t.Helper()
	g, err := BuildTypeGraph(schema, manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func attrSummary(n *typegraph.Node) []string {
	out := make([]string, len(n.Attributes))
	for i, a := range n.Attributes {
		s := a.Name + ":" + a.Type.String()
		if a.Inherited {
			s += " (inherited)"
		}
		out[i] = s
	}
	return out
}

func TestBuildTypeGraph_Empty(t *testing.T) {
	g := mustBuild(t, "", "")
	if len(g.Nodes) != 0 || len(g.Enums) != 0 || len(g.NamedTypes) != 0 {
		t.Fatalf("expected empty graph, got %+v", g)
	}
}

func TestBuildTypeGraph_Simple(t *testing.T) {
	g := mustBuild(t, `
		interface A {
			attribute DOMString name;
			attribute boolean? flag;
			attribute double[] values;
		};
	`, "[A]\nname\nflag\nvalues\n")

	a, _ := g.Node("A")
	want := []string{"name:value(string)", "flag:nullable(value(boolean))", "values:list(value(double))"}
	if got := attrSummary(a); !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
	if !a.IsLeaf || len(a.Parents) != 0 || len(a.Children) != 0 {
		t.Fatalf("unexpected edges on A: %+v", a)
	}
}

func TestBuildTypeGraph_StringTypedefKeepsPrimitive(t *testing.T) {
	g := mustBuild(t, `
		typedef DOMString string;
		interface A { attribute string s; };
	`, "[A]\ns\n")

	a, _ := g.Node("A")
	if got := a.Attributes[0].Type; got != (typegraph.Value{Primitive: "string"}) {
		t.Fatalf("type = %v, want value(string)", got)
	}
	if len(g.NamedTypes) != 0 {
		t.Fatalf("expected no named types, got %v", g.NamedTypes)
	}
}

func TestBuildTypeGraph_ManifestOrderWins(t *testing.T) {
	manifest := "[A]\ny\nx\n"
	g1 := mustBuild(t, "interface A { attribute double x; attribute double y; };", manifest)
	g2 := mustBuild(t, "interface A { attribute double y; attribute double x; };", manifest)

	a1, _ := g1.Node("A")
	a2, _ := g2.Node("A")
	if !reflect.DeepEqual(attrSummary(a1), attrSummary(a2)) {
		t.Fatalf("declaration order leaked: %v vs %v", attrSummary(a1), attrSummary(a2))
	}
	if a1.Attributes[0].Name != "y" {
		t.Fatalf("expected manifest order, got %v", attrSummary(a1))
	}
}

const diamondSchema = `
interface A {};
interface B : A { attribute double b; };
interface C : A { attribute double c; };
interface D : B { attribute double d; };
D implements C;
`

const diamondManifest = `
[A]

[B]
b

[C]
c

[D]
b
c
d
`

func TestBuildTypeGraph_Diamond(t *testing.T) {
	g := mustBuild(t, diamondSchema, diamondManifest)

	d, _ := g.Node("D")
	want := []string{"b:value(double) (inherited)", "c:value(double) (inherited)", "d:value(double)"}
	if got := attrSummary(d); !reflect.DeepEqual(got, want) {
		t.Fatalf("D attributes = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(d.Parents, []string{"B", "C"}) {
		t.Fatalf("D parents = %v", d.Parents)
	}
	a, _ := g.Node("A")
	if !reflect.DeepEqual(a.Children, []string{"B", "C"}) {
		t.Fatalf("A children = %v", a.Children)
	}
	for _, name := range []string{"B", "C"} {
		n, _ := g.Node(name)
		if !reflect.DeepEqual(n.Children, []string{"D"}) {
			t.Fatalf("%s children = %v", name, n.Children)
		}
	}
	if !reflect.DeepEqual(g.Leaves(), []string{"D"}) {
		t.Fatalf("leaves = %v", g.Leaves())
	}
}

func TestBuildTypeGraph_TypedefsAndEnums(t *testing.T) {
	g := mustBuild(t, `
		enum Kind { "a", "b", "a" };
		typedef (Node or DOMString) Child;
		typedef Child? MaybeChild;
		interface Node {
			attribute Kind kind;
			attribute MaybeChild[] children;
		};
	`, "[Node]\nkind\nchildren\n")

	values, ok := g.Enum("Kind")
	if !ok || !reflect.DeepEqual(values, []string{"a", "b", "a"}) {
		t.Fatalf("enum Kind = %v", values)
	}
	child, _ := g.NamedType("Child")
	if child.String() != "union(node(Node), value(string))" {
		t.Fatalf("Child = %v", child)
	}
	maybe, _ := g.NamedType("MaybeChild")
	if maybe.String() != "nullable(namedType(Child))" {
		t.Fatalf("MaybeChild = %v", maybe)
	}
	n, _ := g.Node("Node")
	want := []string{"kind:enum(Kind)", "children:list(namedType(MaybeChild))"}
	if got := attrSummary(n); !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
}

func TestBuildTypeGraph_CompoundTypeRoundTrip(t *testing.T) {
	g := mustBuild(t, `
		interface A { attribute (B or C)?[] items; };
		interface B {};
		interface C {};
	`, "[A]\nitems\n[B]\n[C]\n")

	a, _ := g.Node("A")
	want := typegraph.List{Elem: typegraph.Nullable{Elem: typegraph.Union{Members: []typegraph.Type{
		typegraph.NodeRef{Name: "B"}, typegraph.NodeRef{Name: "C"},
	}}}}
	if !reflect.DeepEqual(a.Attributes[0].Type, want) {
		t.Fatalf("items = %v, want %v", a.Attributes[0].Type, want)
	}

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var back typegraph.Graph
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	got, ok := back.Node("A")
	if !ok || !reflect.DeepEqual(got.Attributes[0].Type, want) {
		t.Fatalf("round trip lost shape: %+v", got)
	}
}

func TestBuildTypeGraph_Errors(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		manifest string
		want     error
		contains string
	}{
		{
			name:     "missing node in manifest",
			schema:   "interface A {}; interface B {};",
			manifest: "[A]\n",
			want:     typegraph.ErrMissingOrderingManifest,
			contains: "B",
		},
		{
			name:     "extra attribute in manifest",
			schema:   "interface A { attribute double x; };",
			manifest: "[A]\nx\ny\n",
			want:     typegraph.ErrAttributeSetMismatch,
			contains: "y",
		},
		{
			name:     "schema attribute missing from manifest",
			schema:   "interface A { attribute double x; attribute double y; };",
			manifest: "[A]\nx\n",
			want:     typegraph.ErrAttributeSetMismatch,
			contains: "y",
		},
		{
			name:     "undeclared type",
			schema:   "interface A { attribute Nope x; };",
			manifest: "[A]\nx\n",
			want:     typegraph.ErrUnidentifiedType,
			contains: "Nope",
		},
		{
			name:     "extra manifest section",
			schema:   "interface A {};",
			manifest: "[A]\n[B]\n",
			want:     typegraph.ErrUnknownOrderingSection,
			contains: "B",
		},
		{
			name:     "dictionary",
			schema:   "dictionary D { double x; };",
			want:     typegraph.ErrUnsupportedDeclaration,
			contains: "dictionary",
		},
		{
			name:     "duplicate name",
			schema:   "interface A {}; enum A { \"x\" };",
			manifest: "[A]\n",
			want:     typegraph.ErrDuplicateName,
			contains: "A",
		},
		{
			name:     "nested array",
			schema:   "interface A { attribute double[][] x; };",
			manifest: "[A]\nx\n",
			want:     typegraph.ErrUnsupportedTypeShape,
			contains: "double[][]",
		},
		{
			name:     "alias cycle",
			schema:   "typedef B A; typedef (A or DOMString) B;",
			want:     typegraph.ErrCyclicAlias,
			contains: "A -> B -> A",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTypeGraph(tt.schema, tt.manifest)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			mustContain(t, err.Error(), tt.contains)
		})
	}
}

func TestBuildTypeGraph_ParseErrors(t *testing.T) {
	if _, err := BuildTypeGraph("interface A {", ""); err == nil {
		t.Fatal("expected schema syntax error")
	}
	_, err := BuildTypeGraph("", "orphan\n")
	if err == nil {
		t.Fatal("expected manifest error")
	}
	mustContain(t, err.Error(), "line=1")
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.webidl":  FormatIDL,
		"a.idl":     FormatIDL,
		"a.yaml":    FormatYAML,
		"dir/a.YML": FormatYAML,
		"no-suffix": FormatIDL,
	}
	for path, want := range cases {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	idl := writeFile(t, dir, "schema.webidl", diamondSchema)
	order := writeFile(t, dir, "order.txt", diamondManifest)

	g, err := Load(Source{Schema: idl, Manifest: order})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(g.NodeNames(), []string{"A", "B", "C", "D"}) {
		t.Fatalf("nodes = %v", g.NodeNames())
	}

	yml := writeFile(t, dir, "schema.yml", `
interfaces:
  - name: A
    attributes:
      - name: x
        type: double
ordering:
  A: [x]
`)
	if _, err := Load(Source{Schema: yml}); err != nil {
		t.Fatal(err)
	}

	// An explicit manifest replaces the inline ordering.
	if _, err := Load(Source{Schema: yml, Manifest: order}); !errors.Is(err, typegraph.ErrAttributeSetMismatch) &&
		!errors.Is(err, typegraph.ErrUnknownOrderingSection) {
		t.Fatalf("expected ordering error, got %v", err)
	}

	_, err = Load(Source{Schema: filepath.Join(dir, "missing.webidl")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := Load(Source{}); err == nil {
		t.Fatal("expected error for empty source")
	}
}
