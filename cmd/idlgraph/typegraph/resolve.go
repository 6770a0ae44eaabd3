package typegraph

import "fmt"

// resolveAttributes returns the final attribute list of a node, resolving
// its parents first. Each node is resolved once; later calls return the
// stored list. Inheritance cycles must have been ruled out beforehand.
//
// Accumulation order is: every parent's final list in parent order, each
// attribute marked inherited, then the node's own members. Repeated names
// are kept here; validateOrder keeps the last one.
func (b *builder) resolveAttributes(name string) ([]Attribute, error) {
	n := b.reg.nodes[name]
	if n.resolved {
		return n.attrs, nil
	}

	var attrs []Attribute
	for _, p := range n.parents {
		inherited, err := b.resolveAttributes(p)
		if err != nil {
			return nil, err
		}
		for _, a := range inherited {
			attrs = append(attrs, Attribute{Name: a.Name, Type: a.Type, Inherited: true})
		}
	}

	for _, m := range n.members {
		if b.opts.discriminator != "" && m.Name == b.opts.discriminator {
			continue
		}
		t, err := b.norm.Normalize(m.Type)
		if err != nil {
			return nil, phaseError("normalize", fmt.Sprintf("%s.%s", name, m.Name), err)
		}
		attrs = append(attrs, Attribute{Name: m.Name, Type: t, Inherited: false})
	}

	order, ok := b.ordering.Get(name)
	if !ok {
		return nil, phaseError("order", name, ErrMissingOrderingManifest)
	}
	sorted, err := validateOrder(name, attrs, order)
	if err != nil {
		return nil, phaseError("order", name, err)
	}

	n.attrs = sorted
	n.resolved = true
	b.log.Debug("resolved node", "node", name, "parents", len(n.parents), "attributes", len(sorted))
	return sorted, nil
}
