package neo4jexport

import "idlgraph/cmd/idlgraph/typegraph"

// Row is one element of an UNWIND batch.
type Row = map[string]any

// Labels used for the exported graph.
const (
	LabelNode      = "IdlNode"
	LabelAttribute = "IdlAttribute"
	LabelEnum      = "IdlEnum"
	LabelAlias     = "IdlAlias"
)

// targetLabel maps a reference kind to the label of the referenced vertex.
var targetLabel = map[typegraph.Kind]string{
	typegraph.KindNode:      LabelNode,
	typegraph.KindEnum:      LabelEnum,
	typegraph.KindNamedType: LabelAlias,
}

func attributeKey(node, attr string) string { return node + "." + attr }

func nodeRows(g *typegraph.Graph) []Row {
	rows := make([]Row, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		rows = append(rows, Row{
			"name":       n.Name,
			"leaf":       n.IsLeaf,
			"attributes": len(n.Attributes),
		})
	}
	return rows
}

func enumRows(g *typegraph.Graph) []Row {
	rows := make([]Row, 0, len(g.Enums))
	for _, e := range g.Enums {
		rows = append(rows, Row{"name": e.Name, "values": e.Values})
	}
	return rows
}

func aliasRows(g *typegraph.Graph) []Row {
	rows := make([]Row, 0, len(g.NamedTypes))
	for _, nt := range g.NamedTypes {
		rows = append(rows, Row{"name": nt.Name, "type": nt.Type.String()})
	}
	return rows
}

// attributeRows lists every resolved attribute with its position in the
// node's final order.
func attributeRows(g *typegraph.Graph) []Row {
	var rows []Row
	for _, n := range g.Nodes {
		for i, a := range n.Attributes {
			rows = append(rows, Row{
				"key":       attributeKey(n.Name, a.Name),
				"node":      n.Name,
				"name":      a.Name,
				"type":      a.Type.String(),
				"kind":      string(a.Type.Kind()),
				"inherited": a.Inherited,
				"position":  i,
			})
		}
	}
	return rows
}

// inheritsRows lists child -> parent edges with the parent's position.
func inheritsRows(g *typegraph.Graph) []Row {
	var rows []Row
	for _, n := range g.Nodes {
		for i, p := range n.Parents {
			rows = append(rows, Row{"child": n.Name, "parent": p, "position": i})
		}
	}
	return rows
}

// referenceRows groups REFERENCES edges by the label of their target.
// Sources are attribute keys (from == "attribute") or alias names
// (from == "alias").
func referenceRows(g *typegraph.Graph) map[string][]Row {
	out := map[string][]Row{}
	add := func(from, source string, t typegraph.Type) {
		for _, kind := range []typegraph.Kind{typegraph.KindNode, typegraph.KindEnum, typegraph.KindNamedType} {
			for _, name := range typegraph.References(t, kind) {
				label := targetLabel[kind]
				out[label] = append(out[label], Row{"from": from, "source": source, "target": name})
			}
		}
	}
	for _, n := range g.Nodes {
		for _, a := range n.Attributes {
			add("attribute", attributeKey(n.Name, a.Name), a.Type)
		}
	}
	for _, nt := range g.NamedTypes {
		add("alias", nt.Name, nt.Type)
	}
	return out
}
