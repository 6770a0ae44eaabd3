package typegraph

import "fmt"

// Ordering is the canonical attribute order per node type, as read from
// the ordering manifest. Sections keep the order they were first set in.
type Ordering struct {
	sections map[string][]string
	names    []string
}

// NewOrdering returns an empty Ordering.
func NewOrdering() *Ordering {
	return &Ordering{sections: make(map[string][]string)}
}

// Set records the attribute order for a type, replacing any earlier section
// with the same name.
func (o *Ordering) Set(typeName string, attrs []string) {
	if _, exists := o.sections[typeName]; !exists {
		o.names = append(o.names, typeName)
	}
	o.sections[typeName] = append([]string{}, attrs...)
}

// Get returns the attribute order for a type.
func (o *Ordering) Get(typeName string) ([]string, bool) {
	if o == nil {
		return nil, false
	}
	attrs, ok := o.sections[typeName]
	return attrs, ok
}

// Names returns the section names in the order they first appeared.
func (o *Ordering) Names() []string {
	if o == nil {
		return nil
	}
	return o.names
}

// Len returns the number of sections.
func (o *Ordering) Len() int {
	if o == nil {
		return 0
	}
	return len(o.names)
}

// validateOrder checks that attrs and order name the same set of attributes
// and returns attrs rearranged into order. When a name occurs more than
// once in attrs, the last occurrence is the one kept.
func validateOrder(node string, attrs []Attribute, order []string) ([]Attribute, error) {
	index := make(map[string]int, len(order))
	for i, name := range order {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %s listed twice in ordering", ErrDuplicateAttribute, name)
		}
		index[name] = i
	}

	derived := make([]string, len(attrs))
	latest := make(map[string]Attribute, len(attrs))
	var extra []string
	for i, a := range attrs {
		derived[i] = a.Name
		if _, known := index[a.Name]; !known {
			if _, seen := latest[a.Name]; !seen {
				extra = append(extra, a.Name)
			}
		}
		latest[a.Name] = a
	}
	var missing []string
	for _, name := range order {
		if _, ok := latest[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return nil, &AttributeSetMismatchError{
			Node:     node,
			Derived:  derived,
			Manifest: append([]string(nil), order...),
			Missing:  missing,
			Extra:    extra,
		}
	}

	sorted := make([]Attribute, len(order))
	for i, name := range order {
		sorted[i] = latest[name]
	}
	return sorted, nil
}
