// Package typegraphyaml reads schema declarations from YAML and encodes
// built type graphs back to YAML.
package typegraphyaml

import (
	"fmt"

	"idlgraph/cmd/idlgraph/idlparse"
	"idlgraph/cmd/idlgraph/typegraph"

	"gopkg.in/yaml.v3"
)

// Document is a parsed YAML schema file.
//
// Two YAML forms are supported:
//   - Mapping form: "interfaces", "implements", "typedefs", "enums" and an
//     optional inline "ordering" mapping.
//   - Shorthand form: a bare sequence of declarations, each carrying a
//     "kind" key. Declaration order is kept exactly as written.
type Document struct {
	Decls []typegraph.Decl
	// Ordering is nil when the document has no inline ordering block.
	Ordering *typegraph.Ordering
}

type yamlDocument struct {
	Interfaces []yaml.Node `yaml:"interfaces,omitempty"`
	Implements []yaml.Node `yaml:"implements,omitempty"`
	Typedefs   []yaml.Node `yaml:"typedefs,omitempty"`
	Enums      []yaml.Node `yaml:"enums,omitempty"`
	Ordering   yaml.Node   `yaml:"ordering,omitempty"`
}

// yamlDecl covers every declaration kind; which fields apply depends on
// Kind, as for typegraph.Decl.
type yamlDecl struct {
	Kind       string          `yaml:"kind,omitempty"`
	Name       string          `yaml:"name"`
	Inherits   string          `yaml:"inherits,omitempty"`
	Implements yaml.Node       `yaml:"implements,omitempty"`
	Attributes []yamlAttribute `yaml:"attributes,omitempty"`
	Target     string          `yaml:"target,omitempty"`
	// Type is either a type expression string or a structured mapping.
	Type   yaml.Node `yaml:"type,omitempty"`
	Values []string  `yaml:"values,omitempty"`
}

type yamlAttribute struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
}

// yamlStructuredType is the mapping form of a type:
//
//	type: { name: B, nullable: true, array: 1 }   # B?[]
//	type: { union: [B, C], listNullable: true }   # (B or C)?
//
// nullable marks the base type; listNullable marks the outermost list (or
// the whole expression when array is 0).
type yamlStructuredType struct {
	Name         string      `yaml:"name,omitempty"`
	Union        []yaml.Node `yaml:"union,omitempty"`
	Nullable     bool        `yaml:"nullable,omitempty"`
	Array        int         `yaml:"array,omitempty"`
	ListNullable bool        `yaml:"listNullable,omitempty"`
}

// Parse parses a YAML schema document in either mapping or shorthand form.
func Parse(in []byte) (Document, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return Document{}, fmt.Errorf("phase=parse path=<doc>: %w", err)
	}
	if len(docNode.Content) == 0 {
		return Document{}, nil
	}
	root := docNode.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var doc Document
		for _, item := range root.Content {
			decls, err := convertEntry(item, "")
			if err != nil {
				return Document{}, err
			}
			doc.Decls = append(doc.Decls, decls...)
		}
		return doc, nil

	case yaml.MappingNode:
		var yd yamlDocument
		if err := root.Decode(&yd); err != nil {
			return Document{}, fmt.Errorf("phase=parse path=<doc>: %w", err)
		}
		return convertDocument(yd)

	default:
		return Document{}, fmt.Errorf("phase=parse path=<doc>: unexpected YAML root kind: %d", root.Kind)
	}
}

func convertDocument(yd yamlDocument) (Document, error) {
	var doc Document
	sections := []struct {
		kind  typegraph.DeclKind
		items []yaml.Node
	}{
		{typegraph.DeclInterface, yd.Interfaces},
		{typegraph.DeclImplements, yd.Implements},
		{typegraph.DeclTypedef, yd.Typedefs},
		{typegraph.DeclEnum, yd.Enums},
	}
	for _, s := range sections {
		for i := range s.items {
			decls, err := convertEntry(&s.items[i], s.kind)
			if err != nil {
				return Document{}, err
			}
			doc.Decls = append(doc.Decls, decls...)
		}
	}
	if yd.Ordering.Kind != 0 {
		ord, err := convertOrdering(&yd.Ordering)
		if err != nil {
			return Document{}, err
		}
		doc.Ordering = ord
	}
	return doc, nil
}

// convertEntry converts one declaration entry. An interface with an inline
// implements list expands to the interface followed by its implements
// statements.
func convertEntry(node *yaml.Node, kind typegraph.DeclKind) ([]typegraph.Decl, error) {
	var yd yamlDecl
	if err := node.Decode(&yd); err != nil {
		return nil, fmt.Errorf("phase=parse line=%d: %w", node.Line, err)
	}
	if kind == "" {
		kind = typegraph.DeclKind(yd.Kind)
	}
	pos := typegraph.Pos{Line: node.Line, Column: node.Column}
	path := fmt.Sprintf("phase=parse line=%d", node.Line)

	switch kind {
	case typegraph.DeclInterface:
		d := typegraph.Decl{Kind: kind, Name: yd.Name, Inherits: yd.Inherits, Pos: pos}
		for _, ya := range yd.Attributes {
			t, err := convertType(&ya.Type)
			if err != nil {
				return nil, fmt.Errorf("%s path=%s.%s: %w", path, yd.Name, ya.Name, err)
			}
			d.Members = append(d.Members, typegraph.Member{
				Name: ya.Name,
				Type: t,
				Pos:  typegraph.Pos{Line: ya.Type.Line, Column: ya.Type.Column},
			})
		}
		out := []typegraph.Decl{d}
		targets, err := stringList(&yd.Implements)
		if err != nil {
			return nil, fmt.Errorf("%s path=%s.implements: %w", path, yd.Name, err)
		}
		for _, m := range targets {
			out = append(out, typegraph.Decl{Kind: typegraph.DeclImplements, Target: yd.Name, Implements: m, Pos: pos})
		}
		return out, nil

	case typegraph.DeclImplements:
		targets, err := stringList(&yd.Implements)
		if err != nil {
			return nil, fmt.Errorf("%s path=%s.implements: %w", path, yd.Target, err)
		}
		if len(targets) != 1 {
			return nil, fmt.Errorf("%s path=%s: implements statement needs exactly one mixin", path, yd.Target)
		}
		return []typegraph.Decl{{Kind: kind, Target: yd.Target, Implements: targets[0], Pos: pos}}, nil

	case typegraph.DeclTypedef:
		if yd.Type.Kind == 0 {
			return nil, fmt.Errorf("%s path=%s: typedef without type", path, yd.Name)
		}
		t, err := convertType(&yd.Type)
		if err != nil {
			return nil, fmt.Errorf("%s path=%s: %w", path, yd.Name, err)
		}
		return []typegraph.Decl{{Kind: kind, Name: yd.Name, Type: &t, Pos: pos}}, nil

	case typegraph.DeclEnum:
		return []typegraph.Decl{{Kind: kind, Name: yd.Name, Values: yd.Values, Pos: pos}}, nil

	case "":
		return nil, fmt.Errorf("%s: declaration without kind", path)

	default:
		// Left for the registry to reject with its own error.
		return []typegraph.Decl{{Kind: kind, Name: yd.Name, Pos: pos}}, nil
	}
}

// convertType accepts a type expression string or a structured mapping.
func convertType(node *yaml.Node) (typegraph.RawType, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return idlparse.ParseType(node.Value)

	case yaml.MappingNode:
		var st yamlStructuredType
		if err := node.Decode(&st); err != nil {
			return typegraph.RawType{}, err
		}
		if (st.Name == "") == (len(st.Union) == 0) {
			return typegraph.RawType{}, fmt.Errorf("type: exactly one of name or union is required")
		}
		if st.Array < 0 {
			return typegraph.RawType{}, fmt.Errorf("type: negative array depth %d", st.Array)
		}
		t := typegraph.RawType{Name: st.Name, Array: st.Array}
		for i := range st.Union {
			m, err := convertType(&st.Union[i])
			if err != nil {
				return typegraph.RawType{}, fmt.Errorf("union[%d]: %w", i, err)
			}
			t.Union = append(t.Union, m)
		}
		if st.Array == 0 {
			t.Nullable = st.Nullable || st.ListNullable
			return t, nil
		}
		t.NullableArray = make([]bool, st.Array)
		t.NullableArray[0] = st.Nullable
		t.Nullable = st.ListNullable
		return t, nil

	case 0:
		return typegraph.RawType{}, fmt.Errorf("type: missing")

	default:
		return typegraph.RawType{}, fmt.Errorf("type: expected string or mapping, got YAML kind %d", node.Kind)
	}
}

// stringList accepts either a single scalar or a sequence of scalars.
func stringList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or sequence, got YAML kind %d", node.Kind)
	}
}

// convertOrdering reads an inline ordering mapping, keeping section order.
func convertOrdering(node *yaml.Node) (*typegraph.Ordering, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("phase=parse path=ordering: expected mapping, got YAML kind %d", node.Kind)
	}
	// MappingNode.Content alternates key and value nodes.
	ord := typegraph.NewOrdering()
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		attrs, err := stringList(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("phase=parse path=ordering.%s: %w", name, err)
		}
		if attrs == nil {
			attrs = []string{}
		}
		ord.Set(name, attrs)
	}
	return ord, nil
}

// Build parses a YAML schema and builds its type graph. An explicit ordering
// takes precedence over the document's inline ordering block.
func Build(in []byte, ordering *typegraph.Ordering, opts ...typegraph.Option) (*typegraph.Graph, error) {
	doc, err := Parse(in)
	if err != nil {
		return nil, err
	}
	if ordering == nil {
		ordering = doc.Ordering
	}
	return typegraph.Build(doc.Decls, ordering, opts...)
}
