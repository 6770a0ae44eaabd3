package typegraph

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Normalizer converts raw type expressions into semantic types using the
// lookup tables of a Registry. It is a pure function of its input once the
// registry is complete, so results may be cached by expression text.
type Normalizer struct {
	reg   *Registry
	cache *lru.Cache[string, Type]
}

// NewNormalizer returns a Normalizer over reg. A cacheSize of zero disables
// caching.
func NewNormalizer(reg *Registry, cacheSize int) (*Normalizer, error) {
	n := &Normalizer{reg: reg}
	if cacheSize > 0 {
		c, err := lru.New[string, Type](cacheSize)
		if err != nil {
			return nil, err
		}
		n.cache = c
	}
	return n, nil
}

// Normalize converts raw into a semantic type. Only these shapes are
// accepted, tried in order:
//
//	T          plain reference
//	(A or B)?  nullable union
//	T?         nullable plain
//	(A or B)[], (A or B)?[]
//	T[], T?[]
//	(A or B)   bare union
//
// Anything else fails with an *UnsupportedTypeShapeError.
func (n *Normalizer) Normalize(raw RawType) (Type, error) {
	if n.cache == nil {
		return n.normalize(raw)
	}
	key := raw.String()
	if t, ok := n.cache.Get(key); ok {
		return t, nil
	}
	t, err := n.normalize(raw)
	if err != nil {
		return nil, err
	}
	n.cache.Add(key, t)
	return t, nil
}

func (n *Normalizer) normalize(raw RawType) (Type, error) {
	isUnion := len(raw.Union) > 0
	isGeneric := raw.Generic != ""

	if raw.IsPlain() {
		return n.lookup(raw.Name)
	}

	if raw.Nullable {
		if isUnion {
			if isGeneric || raw.Array > 0 {
				return nil, shapeError("nullable-union", raw, "")
			}
			u, err := n.union(raw)
			if err != nil {
				return nil, err
			}
			return Nullable{Elem: u}, nil
		}
		if isGeneric || raw.Array > 0 || raw.Name == "" {
			return nil, shapeError("nullable", raw, "")
		}
		t, err := n.lookup(raw.Name)
		if err != nil {
			return nil, err
		}
		return Nullable{Elem: t}, nil
	}

	if raw.Array == 1 {
		if isGeneric {
			return nil, shapeError("array", raw, "generic element")
		}
		var elem Type
		var err error
		if isUnion {
			elem, err = n.union(raw)
		} else if raw.Name != "" {
			elem, err = n.lookup(raw.Name)
		} else {
			return nil, shapeError("array", raw, "")
		}
		if err != nil {
			return nil, err
		}
		if len(raw.NullableArray) > 0 && raw.NullableArray[0] {
			elem = Nullable{Elem: elem}
		}
		return List{Elem: elem}, nil
	}

	if isUnion && !isGeneric && raw.Array == 0 {
		return n.union(raw)
	}

	switch {
	case raw.Array > 1:
		return nil, shapeError("array", raw, "nested arrays")
	case isGeneric:
		return nil, shapeError("generic", raw, "")
	}
	return nil, shapeError("type", raw, "")
}

// union builds a Union from raw's members, each of which must be plain.
func (n *Normalizer) union(raw RawType) (Type, error) {
	if len(raw.Union) < 2 {
		return nil, shapeError("union", raw, "fewer than two members")
	}
	members := make([]Type, len(raw.Union))
	for i, m := range raw.Union {
		if !m.IsPlain() {
			return nil, shapeError("union", raw, "member "+m.String()+" is not a plain name")
		}
		t, err := n.lookup(m.Name)
		if err != nil {
			return nil, err
		}
		members[i] = t
	}
	return Union{Members: members}, nil
}

// lookup resolves a plain name: node, then primitive, then alias, then enum.
func (n *Normalizer) lookup(name string) (Type, error) {
	if n.reg.IsNode(name) {
		return NodeRef{Name: name}, nil
	}
	if v, ok := n.reg.Primitive(name); ok {
		return Value{Primitive: v}, nil
	}
	if n.reg.IsAlias(name) {
		return NamedRef{Name: name}, nil
	}
	if n.reg.IsEnum(name) {
		return EnumRef{Name: name}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnidentifiedType, name)
}

func shapeError(shape string, raw RawType, reason string) error {
	return &UnsupportedTypeShapeError{Shape: shape, Raw: raw, Reason: reason}
}
