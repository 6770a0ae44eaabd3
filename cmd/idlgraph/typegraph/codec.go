package typegraph

import (
	"encoding/json"
	"fmt"
)

// WireType is the serialized form of a semantic type: a kind plus an
// argument that is a name (terminal forms), a nested WireType (nullable,
// list) or a list of WireTypes (union).
//
//	{"kind": "list", "argument": {"kind": "node", "argument": "B"}}
type WireType struct {
	Kind     Kind `json:"kind" yaml:"kind"`
	Argument any  `json:"argument" yaml:"argument"`
}

// ToWire converts t to its serialized form.
func ToWire(t Type) WireType {
	switch x := t.(type) {
	case Value:
		return WireType{Kind: KindValue, Argument: x.Primitive}
	case NodeRef:
		return WireType{Kind: KindNode, Argument: x.Name}
	case NamedRef:
		return WireType{Kind: KindNamedType, Argument: x.Name}
	case EnumRef:
		return WireType{Kind: KindEnum, Argument: x.Name}
	case Nullable:
		return WireType{Kind: KindNullable, Argument: ToWire(x.Elem)}
	case List:
		return WireType{Kind: KindList, Argument: ToWire(x.Elem)}
	case Union:
		members := make([]WireType, len(x.Members))
		for i, m := range x.Members {
			members[i] = ToWire(m)
		}
		return WireType{Kind: KindUnion, Argument: members}
	}
	panic(fmt.Sprintf("typegraph: unknown type %T", t))
}

// FromWire builds a semantic type from generic decoded data, as produced by
// json.Unmarshal or yaml.Unmarshal into an any.
func FromWire(v any) (Type, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("type: expected an object with kind and argument, got %T", v)
	}
	kind, _ := m["kind"].(string)
	arg := m["argument"]
	switch Kind(kind) {
	case KindValue, KindNode, KindNamedType, KindEnum:
		name, ok := arg.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("type %s: argument must be a non-empty string", kind)
		}
		switch Kind(kind) {
		case KindValue:
			return Value{Primitive: name}, nil
		case KindNode:
			return NodeRef{Name: name}, nil
		case KindNamedType:
			return NamedRef{Name: name}, nil
		default:
			return EnumRef{Name: name}, nil
		}
	case KindNullable, KindList:
		elem, err := FromWire(arg)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", kind, err)
		}
		if Kind(kind) == KindNullable {
			return Nullable{Elem: elem}, nil
		}
		return List{Elem: elem}, nil
	case KindUnion:
		items, ok := arg.([]any)
		if !ok || len(items) == 0 {
			return nil, fmt.Errorf("type union: argument must be a non-empty list")
		}
		members := make([]Type, len(items))
		for i, item := range items {
			t, err := FromWire(item)
			if err != nil {
				return nil, fmt.Errorf("type union[%d]: %w", i, err)
			}
			members[i] = t
		}
		return Union{Members: members}, nil
	default:
		return nil, fmt.Errorf("type: unknown kind %q", kind)
	}
}

// MarshalType encodes t as JSON.
func MarshalType(t Type) ([]byte, error) {
	return json.Marshal(ToWire(t))
}

// UnmarshalType decodes a JSON-encoded semantic type.
func UnmarshalType(data []byte) (Type, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return FromWire(v)
}

type attributeJSON struct {
	Name      string          `json:"name"`
	Inherited bool            `json:"inherited"`
	Type      json.RawMessage `json:"type"`
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	t, err := MarshalType(a.Type)
	if err != nil {
		return nil, err
	}
	return json.Marshal(attributeJSON{Name: a.Name, Inherited: a.Inherited, Type: t})
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var raw attributeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := UnmarshalType(raw.Type)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", raw.Name, err)
	}
	*a = Attribute{Name: raw.Name, Inherited: raw.Inherited, Type: t}
	return nil
}

type namedTypeJSON struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

func (n NamedType) MarshalJSON() ([]byte, error) {
	t, err := MarshalType(n.Type)
	if err != nil {
		return nil, err
	}
	return json.Marshal(namedTypeJSON{Name: n.Name, Type: t})
}

func (n *NamedType) UnmarshalJSON(data []byte) error {
	var raw namedTypeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := UnmarshalType(raw.Type)
	if err != nil {
		return fmt.Errorf("named type %s: %w", raw.Name, err)
	}
	*n = NamedType{Name: raw.Name, Type: t}
	return nil
}

// UnmarshalJSON rebuilds the lookup index after decoding.
func (g *Graph) UnmarshalJSON(data []byte) error {
	type plain Graph
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Graph(p)
	g.reindex()
	return nil
}
