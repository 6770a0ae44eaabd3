package typegraphyaml

import (
	"fmt"
	"io"

	"idlgraph/cmd/idlgraph/typegraph"

	"gopkg.in/yaml.v3"
)

type yamlGraph struct {
	Nodes      []yamlNode       `yaml:"nodes"`
	Enums      []typegraph.Enum `yaml:"enums"`
	NamedTypes []yamlNamedType  `yaml:"namedTypes"`
}

type yamlNode struct {
	Name       string               `yaml:"name"`
	Parents    []string             `yaml:"parents"`
	Children   []string             `yaml:"children"`
	Leaf       bool                 `yaml:"leaf"`
	Attributes []yamlGraphAttribute `yaml:"attributes"`
}

// Type is typegraph.WireType when encoding and generic decoded data when
// decoding; typegraph.FromWire accepts the latter.
type yamlGraphAttribute struct {
	Name      string `yaml:"name"`
	Inherited bool   `yaml:"inherited"`
	Type      any    `yaml:"type"`
}

type yamlNamedType struct {
	Name string `yaml:"name"`
	Type any    `yaml:"type"`
}

// EncodeGraph writes g as YAML using the same field names as the JSON form.
func EncodeGraph(w io.Writer, g *typegraph.Graph) error {
	yg := yamlGraph{
		Nodes:      make([]yamlNode, 0, len(g.Nodes)),
		Enums:      g.Enums,
		NamedTypes: make([]yamlNamedType, 0, len(g.NamedTypes)),
	}
	for _, n := range g.Nodes {
		yn := yamlNode{
			Name:       n.Name,
			Parents:    n.Parents,
			Children:   n.Children,
			Leaf:       n.IsLeaf,
			Attributes: make([]yamlGraphAttribute, 0, len(n.Attributes)),
		}
		for _, a := range n.Attributes {
			yn.Attributes = append(yn.Attributes, yamlGraphAttribute{
				Name:      a.Name,
				Inherited: a.Inherited,
				Type:      typegraph.ToWire(a.Type),
			})
		}
		yg.Nodes = append(yg.Nodes, yn)
	}
	for _, nt := range g.NamedTypes {
		yg.NamedTypes = append(yg.NamedTypes, yamlNamedType{Name: nt.Name, Type: typegraph.ToWire(nt.Type)})
	}
	if yg.Enums == nil {
		yg.Enums = []typegraph.Enum{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yg); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeGraph reads a graph written by EncodeGraph. Children and leaf flags
// are recomputed from the parent edges.
func DecodeGraph(r io.Reader) (*typegraph.Graph, error) {
	var yg yamlGraph
	if err := yaml.NewDecoder(r).Decode(&yg); err != nil {
		return nil, err
	}
	nodes := make([]*typegraph.Node, 0, len(yg.Nodes))
	for _, yn := range yg.Nodes {
		n := &typegraph.Node{Name: yn.Name, Parents: yn.Parents}
		for _, ya := range yn.Attributes {
			t, err := typegraph.FromWire(ya.Type)
			if err != nil {
				return nil, fmt.Errorf("node %s attribute %s: %w", yn.Name, ya.Name, err)
			}
			n.Attributes = append(n.Attributes, typegraph.Attribute{Name: ya.Name, Type: t, Inherited: ya.Inherited})
		}
		nodes = append(nodes, n)
	}
	named := make([]typegraph.NamedType, 0, len(yg.NamedTypes))
	for _, yt := range yg.NamedTypes {
		t, err := typegraph.FromWire(yt.Type)
		if err != nil {
			return nil, fmt.Errorf("named type %s: %w", yt.Name, err)
		}
		named = append(named, typegraph.NamedType{Name: yt.Name, Type: t})
	}
	return typegraph.NewGraph(nodes, yg.Enums, named), nil
}
