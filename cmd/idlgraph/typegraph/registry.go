package typegraph

import "fmt"

// nodeEntry is the registry's shell for one interface. Attributes are filled
// in by the resolver and never change afterwards.
type nodeEntry struct {
	name     string
	parents  []string
	members  []Member
	pos      Pos
	isLeaf   bool
	resolved bool
	attrs    []Attribute
}

type implementsEdge struct {
	target, parent string
	pos            Pos
}

// Registry partitions top-level declarations into node types, typedef
// aliases and enumerations. It is the build context threaded through every
// later phase; nothing in this package keeps state outside of it.
type Registry struct {
	nodes     map[string]*nodeEntry
	nodeOrder []string

	aliases    map[string]RawType
	aliasOrder []string

	enums     map[string][]string
	enumOrder []string

	// primitives maps a grammar spelling (DOMString) to its value name (string).
	primitives map[string]string

	pending []implementsEdge
}

// NewRegistry returns an empty Registry using the given primitive table.
// The table is copied; the registry may extend its copy.
func NewRegistry(primitives map[string]string) *Registry {
	p := make(map[string]string, len(primitives))
	for k, v := range primitives {
		p[k] = v
	}
	return &Registry{
		nodes:      make(map[string]*nodeEntry),
		aliases:    make(map[string]RawType),
		enums:      make(map[string][]string),
		primitives: p,
	}
}

// Register adds one declaration. Implements edges are recorded and applied
// by Link, so they may appear before either interface they mention.
func (r *Registry) Register(d Decl) error {
	switch d.Kind {
	case DeclInterface:
		if err := r.claim(d.Name); err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(d.Members))
		for _, m := range d.Members {
			if _, dup := seen[m.Name]; dup {
				return phaseError("register", d.Name+"."+m.Name, ErrDuplicateAttribute)
			}
			seen[m.Name] = struct{}{}
		}
		n := &nodeEntry{name: d.Name, members: d.Members, pos: d.Pos, isLeaf: true}
		if d.Inherits != "" {
			n.parents = append(n.parents, d.Inherits)
		}
		r.nodes[d.Name] = n
		r.nodeOrder = append(r.nodeOrder, d.Name)

	case DeclImplements:
		r.pending = append(r.pending, implementsEdge{target: d.Target, parent: d.Implements, pos: d.Pos})

	case DeclTypedef:
		if d.Type == nil {
			return phaseError("register", d.Name, fmt.Errorf("%w: typedef without a type", ErrUnsupportedDeclaration))
		}
		// typedef DOMString string; names the primitive by its value name.
		// It stays a primitive rather than becoming an alias.
		if d.Type.IsPlain() {
			if v, ok := r.primitives[d.Type.Name]; ok && v == d.Name {
				if _, taken := r.primitives[d.Name]; !taken {
					if err := r.claim(d.Name); err != nil {
						return err
					}
					r.primitives[d.Name] = v
				}
				return nil
			}
		}
		if err := r.claim(d.Name); err != nil {
			return err
		}
		if _, ok := r.primitives[d.Name]; ok {
			return phaseError("register", d.Name, fmt.Errorf("%w: typedef shadows primitive", ErrDuplicateName))
		}
		r.aliases[d.Name] = *d.Type
		r.aliasOrder = append(r.aliasOrder, d.Name)

	case DeclEnum:
		if err := r.claim(d.Name); err != nil {
			return err
		}
		r.enums[d.Name] = append([]string(nil), d.Values...)
		r.enumOrder = append(r.enumOrder, d.Name)

	default:
		name := d.Name
		if name == "" {
			name = "<anonymous>"
		}
		return phaseError("register", name, fmt.Errorf("%w: %s", ErrUnsupportedDeclaration, d.Kind))
	}
	return nil
}

// claim fails if name is already a node, alias or enum.
func (r *Registry) claim(name string) error {
	_, isNode := r.nodes[name]
	_, isAlias := r.aliases[name]
	_, isEnum := r.enums[name]
	if isNode || isAlias || isEnum {
		return phaseError("register", name, ErrDuplicateName)
	}
	return nil
}

// Link applies the recorded implements edges after the superclass edge of
// each target, checks that every parent names a node type and clears the
// leaf flag of every node used as a parent.
func (r *Registry) Link() error {
	for _, e := range r.pending {
		target, ok := r.nodes[e.target]
		if !ok {
			return phaseError("register", e.target, fmt.Errorf("%w: %s implements %s", ErrUnidentifiedType, e.target, e.parent))
		}
		if !containsString(target.parents, e.parent) {
			target.parents = append(target.parents, e.parent)
		}
	}
	r.pending = nil

	for _, name := range r.nodeOrder {
		for _, p := range r.nodes[name].parents {
			parent, ok := r.nodes[p]
			if !ok {
				return phaseError("register", name, fmt.Errorf("%w: parent %s", ErrUnidentifiedType, p))
			}
			parent.isLeaf = false
		}
	}
	return nil
}

// IsNode reports whether name is a registered node type.
func (r *Registry) IsNode(name string) bool {
	_, ok := r.nodes[name]
	return ok
}

// Primitive returns the value name for a primitive spelling.
func (r *Registry) Primitive(name string) (string, bool) {
	v, ok := r.primitives[name]
	return v, ok
}

// IsAlias reports whether name is a registered typedef alias.
func (r *Registry) IsAlias(name string) bool {
	_, ok := r.aliases[name]
	return ok
}

// IsEnum reports whether name is a registered enumeration.
func (r *Registry) IsEnum(name string) bool {
	_, ok := r.enums[name]
	return ok
}

// Parents returns the direct parents of a node: superclass first, then
// implemented types in declaration order.
func (r *Registry) Parents(name string) []string {
	if n, ok := r.nodes[name]; ok {
		return n.parents
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
