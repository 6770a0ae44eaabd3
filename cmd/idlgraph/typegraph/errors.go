package typegraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateName           = errors.New("duplicate type name")
	ErrUnsupportedDeclaration  = errors.New("unsupported declaration")
	ErrUnidentifiedType        = errors.New("unidentified type")
	ErrUnsupportedTypeShape    = errors.New("unsupported type shape")
	ErrCyclicAlias             = errors.New("cyclic type alias")
	ErrCyclicInheritance       = errors.New("cyclic inheritance")
	ErrMissingOrderingManifest = errors.New("no attribute ordering specified")
	ErrAttributeSetMismatch    = errors.New("attribute set mismatch")
	ErrUnknownOrderingSection  = errors.New("attribute ordering for unknown type")
	ErrDuplicateAttribute      = errors.New("duplicate attribute name")
)

// UnsupportedTypeShapeError reports a raw type expression that combines
// modifiers outside the supported set.
type UnsupportedTypeShapeError struct {
	Shape  string // short label of the shape that was attempted
	Raw    RawType
	Reason string
}

func (e *UnsupportedTypeShapeError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", ErrUnsupportedTypeShape, e.Shape, e.Raw.String())
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *UnsupportedTypeShapeError) Unwrap() error { return ErrUnsupportedTypeShape }

// AttributeSetMismatchError reports a node whose derived attribute names do
// not equal the names listed for it in the ordering manifest.
type AttributeSetMismatchError struct {
	Node     string
	Derived  []string // in resolution order, duplicates kept
	Manifest []string // in manifest order

	Missing []string // in the manifest but not derived
	Extra   []string // derived but not in the manifest
}

func (e *AttributeSetMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s's ordered attribute list [%s] does not agree with the attributes derived from the schema [%s]",
		ErrAttributeSetMismatch, e.Node, strings.Join(e.Manifest, ", "), strings.Join(e.Derived, ", "))
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; not derived: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&b, "; not in ordering: %s", strings.Join(e.Extra, ", "))
	}
	return b.String()
}

func (e *AttributeSetMismatchError) Unwrap() error { return ErrAttributeSetMismatch }

// CycleError reports a cycle through type aliases or inheritance edges.
// Path starts and ends with the same name.
type CycleError struct {
	Kind error // ErrCyclicAlias or ErrCyclicInheritance
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return e.Kind }

// phaseError prefixes err with the phase and offending name, the same shape
// every error of this package has.
func phaseError(phase, name string, err error) error {
	return fmt.Errorf("phase=%s name=%s: %w", phase, name, err)
}
