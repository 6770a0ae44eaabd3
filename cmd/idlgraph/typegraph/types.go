package typegraph

import "strings"

// Kind identifies one of the seven semantic type forms.
type Kind string

const (
	KindValue     Kind = "value"
	KindNode      Kind = "node"
	KindNamedType Kind = "namedType"
	KindEnum      Kind = "enum"
	KindNullable  Kind = "nullable"
	KindList      Kind = "list"
	KindUnion     Kind = "union"
)

// Type is the sealed interface for semantic types.
// Only the seven types in this file implement it.
type Type interface {
	isType()
	Kind() Kind
	String() string
}

// Value is a primitive such as string, boolean or double.
type Value struct{ Primitive string }

// NodeRef refers to a node type by name. It is never resolved eagerly.
type NodeRef struct{ Name string }

// NamedRef refers to a typedef alias; its body lives in the named-type table.
type NamedRef struct{ Name string }

// EnumRef refers to an enumeration by name.
type EnumRef struct{ Name string }

// Nullable wraps exactly one type.
type Nullable struct{ Elem Type }

// List is an ordered sequence of Elem.
type List struct{ Elem Type }

// Union is a choice between Members, in declaration order.
type Union struct{ Members []Type }

func (Value) isType()    {}
func (NodeRef) isType()  {}
func (NamedRef) isType() {}
func (EnumRef) isType()  {}
func (Nullable) isType() {}
func (List) isType()     {}
func (Union) isType()    {}

func (Value) Kind() Kind    { return KindValue }
func (NodeRef) Kind() Kind  { return KindNode }
func (NamedRef) Kind() Kind { return KindNamedType }
func (EnumRef) Kind() Kind  { return KindEnum }
func (Nullable) Kind() Kind { return KindNullable }
func (List) Kind() Kind     { return KindList }
func (Union) Kind() Kind    { return KindUnion }

func (t Value) String() string    { return "value(" + t.Primitive + ")" }
func (t NodeRef) String() string  { return "node(" + t.Name + ")" }
func (t NamedRef) String() string { return "namedType(" + t.Name + ")" }
func (t EnumRef) String() string  { return "enum(" + t.Name + ")" }
func (t Nullable) String() string { return "nullable(" + t.Elem.String() + ")" }
func (t List) String() string     { return "list(" + t.Elem.String() + ")" }

func (t Union) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return "union(" + strings.Join(parts, ", ") + ")"
}

// Walk calls fn for t and every type nested inside it, outermost first.
func Walk(t Type, fn func(Type)) {
	fn(t)
	switch x := t.(type) {
	case Nullable:
		Walk(x.Elem, fn)
	case List:
		Walk(x.Elem, fn)
	case Union:
		for _, m := range x.Members {
			Walk(m, fn)
		}
	}
}

// References returns the names referenced by t with the given kind
// (KindNode, KindNamedType or KindEnum), in first-seen order.
func References(t Type, kind Kind) []string {
	var out []string
	seen := map[string]struct{}{}
	Walk(t, func(x Type) {
		var name string
		switch r := x.(type) {
		case NodeRef:
			if kind == KindNode {
				name = r.Name
			}
		case NamedRef:
			if kind == KindNamedType {
				name = r.Name
			}
		case EnumRef:
			if kind == KindEnum {
				name = r.Name
			}
		}
		if name == "" {
			return
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	})
	return out
}
