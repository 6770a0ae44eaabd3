// Package manifest reads attribute-ordering manifests:
//
//	[TypeName]
//	firstAttribute
//	secondAttribute
//
//	[OtherType]
//	...
//
// Each bracketed header starts a section; every following non-blank line,
// trimmed, names one attribute. Blank lines only separate.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"idlgraph/cmd/idlgraph/typegraph"
)

var ErrSyntax = errors.New("malformed ordering manifest")

var headerRe = regexp.MustCompile(`^\[([^\]]*)\]$`)

// Parse reads a manifest from text. A header that repeats an earlier one
// replaces that section.
func Parse(text string) (*typegraph.Ordering, error) {
	return Read(strings.NewReader(text))
}

// Read reads a manifest from r.
func Read(r io.Reader) (*typegraph.Ordering, error) {
	ordering := typegraph.NewOrdering()
	sc := bufio.NewScanner(r)

	current := ""
	var attrs []string
	inSection := false
	flush := func() {
		if inSection {
			ordering.Set(current, attrs)
		}
	}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '[' {
			m := headerRe.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("phase=manifest line=%d: %w: couldn't parse %q", lineNo, ErrSyntax, line)
			}
			flush()
			current, attrs, inSection = m[1], []string{}, true
			continue
		}
		if !inSection {
			return nil, fmt.Errorf("phase=manifest line=%d: %w: attribute %q before any [Type] header", lineNo, ErrSyntax, line)
		}
		attrs = append(attrs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("phase=manifest: %w", err)
	}
	flush()
	return ordering, nil
}

// Format writes ordering back in manifest form, sections in their original
// order, separated by blank lines.
func Format(w io.Writer, ordering *typegraph.Ordering) error {
	for i, name := range ordering.Names() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%s]\n", name); err != nil {
			return err
		}
		attrs, _ := ordering.Get(name)
		for _, a := range attrs {
			if _, err := fmt.Fprintln(w, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// FromGraph derives the manifest that a built graph satisfies: one section
// per node listing its attributes in their final order.
func FromGraph(g *typegraph.Graph) *typegraph.Ordering {
	o := typegraph.NewOrdering()
	for _, n := range g.Nodes {
		names := make([]string, len(n.Attributes))
		for i, a := range n.Attributes {
			names[i] = a.Name
		}
		o.Set(n.Name, names)
	}
	return o
}
