package typegraph

// Attribute is one resolved member of a node type.
type Attribute struct {
	Name      string
	Type      Type
	Inherited bool
}

// Node is a resolved node type.
type Node struct {
	Name       string      `json:"name"`
	Parents    []string    `json:"parents"`
	Children   []string    `json:"children"`
	IsLeaf     bool        `json:"leaf"`
	Attributes []Attribute `json:"attributes"`
}

// Enum is an enumeration with its values in declaration order.
type Enum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// NamedType is a typedef alias with its resolved body.
type NamedType struct {
	Name string
	Type Type
}

// Graph is the final, read-only result of a build. Each table keeps
// declaration order; lookups by name go through the index maps.
type Graph struct {
	Nodes      []*Node     `json:"nodes"`
	Enums      []Enum      `json:"enums"`
	NamedTypes []NamedType `json:"namedTypes"`

	nodeIndex  map[string]int
	enumIndex  map[string]int
	aliasIndex map[string]int
}

// Node returns the node type with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	i, ok := g.nodeIndex[name]
	if !ok {
		return nil, false
	}
	return g.Nodes[i], true
}

// Enum returns the values of the named enumeration.
func (g *Graph) Enum(name string) ([]string, bool) {
	i, ok := g.enumIndex[name]
	if !ok {
		return nil, false
	}
	return g.Enums[i].Values, true
}

// NamedType returns the resolved body of the named alias.
func (g *Graph) NamedType(name string) (Type, bool) {
	i, ok := g.aliasIndex[name]
	if !ok {
		return nil, false
	}
	return g.NamedTypes[i].Type, true
}

// NodeNames returns all node type names in declaration order.
func (g *Graph) NodeNames() []string {
	names := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		names[i] = n.Name
	}
	return names
}

// Leaves returns the names of node types never used as a parent.
func (g *Graph) Leaves() []string {
	var out []string
	for _, n := range g.Nodes {
		if n.IsLeaf {
			out = append(out, n.Name)
		}
	}
	return out
}

// Ancestors returns every node reachable through parent edges, nearest
// first, each listed once.
func (g *Graph) Ancestors(name string) []string {
	var out []string
	seen := map[string]struct{}{name: {}}
	queue := []string{name}
	for len(queue) > 0 {
		n, ok := g.Node(queue[0])
		queue = queue[1:]
		if !ok {
			continue
		}
		for _, p := range n.Parents {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}

func (g *Graph) reindex() {
	g.nodeIndex = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.nodeIndex[n.Name] = i
	}
	g.enumIndex = make(map[string]int, len(g.Enums))
	for i, e := range g.Enums {
		g.enumIndex[e.Name] = i
	}
	g.aliasIndex = make(map[string]int, len(g.NamedTypes))
	for i, a := range g.NamedTypes {
		g.aliasIndex[a.Name] = i
	}
}

// NewGraph assembles a Graph from already-resolved tables. Children edges
// and leaf flags are derived from the parent edges; any values already set
// on the nodes are replaced.
func NewGraph(nodes []*Node, enums []Enum, namedTypes []NamedType) *Graph {
	g := &Graph{Nodes: nodes, Enums: enums, NamedTypes: namedTypes}
	if g.Nodes == nil {
		g.Nodes = []*Node{}
	}
	if g.Enums == nil {
		g.Enums = []Enum{}
	}
	if g.NamedTypes == nil {
		g.NamedTypes = []NamedType{}
	}
	g.reindex()

	for _, n := range g.Nodes {
		n.Children = []string{}
		if n.Parents == nil {
			n.Parents = []string{}
		}
		if n.Attributes == nil {
			n.Attributes = []Attribute{}
		}
	}
	for _, n := range g.Nodes {
		for _, p := range n.Parents {
			if parent, ok := g.Node(p); ok && !containsString(parent.Children, n.Name) {
				parent.Children = append(parent.Children, n.Name)
			}
		}
	}
	for _, n := range g.Nodes {
		n.IsLeaf = len(n.Children) == 0
	}
	return g
}

// assemble produces the Graph from a fully resolved registry.
func (b *builder) assemble(namedTypes []NamedType) *Graph {
	r := b.reg
	nodes := make([]*Node, 0, len(r.nodeOrder))
	for _, name := range r.nodeOrder {
		n := r.nodes[name]
		nodes = append(nodes, &Node{
			Name:       name,
			Parents:    append([]string{}, n.parents...),
			Attributes: n.attrs,
		})
	}
	enums := make([]Enum, 0, len(r.enumOrder))
	for _, name := range r.enumOrder {
		enums = append(enums, Enum{Name: name, Values: r.enums[name]})
	}
	return NewGraph(nodes, enums, namedTypes)
}
