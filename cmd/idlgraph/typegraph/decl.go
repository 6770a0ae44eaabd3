package typegraph

import (
	"fmt"
	"strings"
)

// DeclKind names the kind of a top-level declaration produced by the grammar
// parser. Only the four kinds below are understood by the registry; any
// other value is rejected.
type DeclKind string

const (
	DeclInterface  DeclKind = "interface"
	DeclImplements DeclKind = "implements"
	DeclTypedef    DeclKind = "typedef"
	DeclEnum       DeclKind = "enum"
)

// Pos is a source position, 1-based. The zero value means unknown.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Decl represents a declaration as parsed from an external source (grammar
// text or YAML). It is intentionally format-agnostic: no serialization tags.
//
// Which fields are meaningful depends on Kind:
//
//   - interface:  Name, Inherits (optional), Members
//   - implements: Target implements Implements
//   - typedef:    Name, Type
//   - enum:       Name, Values
type Decl struct {
	Kind DeclKind
	Name string

	Inherits string
	Members  []Member

	Target     string
	Implements string

	Type   *RawType
	Values []string

	Pos Pos
}

// Member is one attribute declared directly on an interface.
type Member struct {
	Name string
	Type RawType
	Pos  Pos
}

// RawType is a type expression exactly as the grammar spells it. The
// modifiers are independent flags so that every combination the grammar can
// express is representable; the normalizer decides which are legal.
type RawType struct {
	// Name is set for a plain reference and for the element of a
	// nullable/array modifier. It is empty when Union is set.
	Name string

	// Union holds the member expressions of (A or B or ...).
	Union []RawType

	// Nullable marks a trailing ? on the whole expression.
	Nullable bool

	// Array is the number of [] suffixes. NullableArray[i] records a ?
	// written directly before the i-th [] (T?[] has NullableArray[0] set).
	Array         int
	NullableArray []bool

	// Generic is the generic type constructor (sequence, Promise, ...) and
	// Params its arguments.
	Generic string
	Params  []RawType
}

// IsPlain reports whether t is a bare name with no modifiers.
func (t RawType) IsPlain() bool {
	return t.Name != "" && len(t.Union) == 0 && !t.Nullable && t.Array == 0 && t.Generic == ""
}

func (t RawType) String() string {
	var b strings.Builder
	switch {
	case t.Generic != "":
		b.WriteString(t.Generic)
		b.WriteByte('<')
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteByte('>')
	case len(t.Union) > 0:
		b.WriteByte('(')
		for i, m := range t.Union {
			if i > 0 {
				b.WriteString(" or ")
			}
			b.WriteString(m.String())
		}
		b.WriteByte(')')
	default:
		b.WriteString(t.Name)
	}
	for i := 0; i < t.Array; i++ {
		if i < len(t.NullableArray) && t.NullableArray[i] {
			b.WriteByte('?')
		}
		b.WriteString("[]")
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}
