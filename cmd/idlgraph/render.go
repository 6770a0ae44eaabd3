package main

import (
	"fmt"
	"sort"
	"strings"

	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/charmbracelet/lipgloss"
)

// theme holds the styles used by the text renderers. plainTheme is used
// where escape codes would end up in the wrong place (fuzzy finder preview).
type theme struct {
	title lipgloss.Style
	label lipgloss.Style
	dim   lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
}

var colorTheme = theme{
	title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
	label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
	dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

var plainTheme = theme{
	title: lipgloss.NewStyle(),
	label: lipgloss.NewStyle(),
	dim:   lipgloss.NewStyle(),
	ok:    lipgloss.NewStyle(),
	err:   lipgloss.NewStyle(),
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

// renderNode describes a node: edges first, then attributes in final order.
func (th theme) renderNode(n *typegraph.Node) string {
	var b strings.Builder
	header := n.Name
	if n.IsLeaf {
		header += "  [leaf]"
	}
	b.WriteString(th.title.Render(header) + "\n")
	b.WriteString(th.label.Render("parents:  ") + joinOrNone(n.Parents) + "\n")
	b.WriteString(th.label.Render("children: ") + joinOrNone(n.Children) + "\n")
	if len(n.Attributes) == 0 {
		b.WriteString(th.label.Render("attributes: ") + "(none)\n")
		return b.String()
	}
	b.WriteString(th.label.Render("attributes:") + "\n")

	width := 0
	for _, a := range n.Attributes {
		width = max(width, len(a.Name))
	}
	for _, a := range n.Attributes {
		line := fmt.Sprintf("  %-*s  %s", width, a.Name, a.Type)
		if a.Inherited {
			line += "  " + th.dim.Render("(inherited)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (th theme) renderEnum(name string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return th.title.Render(name+"  [enum]") + "\n" + th.label.Render("values: ") + joinOrNone(quoted) + "\n"
}

func (th theme) renderAlias(name string, t typegraph.Type) string {
	return th.title.Render(name+"  [alias]") + "\n" + th.label.Render("type: ") + t.String() + "\n"
}

// describe renders whatever name refers to: a node, an enum or an alias.
func (th theme) describe(g *typegraph.Graph, name string) (string, error) {
	if n, ok := g.Node(name); ok {
		return th.renderNode(n), nil
	}
	if values, ok := g.Enum(name); ok {
		return th.renderEnum(name, values), nil
	}
	if t, ok := g.NamedType(name); ok {
		return th.renderAlias(name, t), nil
	}
	return "", notFoundError(g, name)
}

// allNames lists node, enum and alias names, sorted.
func allNames(g *typegraph.Graph) []string {
	names := g.NodeNames()
	for _, e := range g.Enums {
		names = append(names, e.Name)
	}
	for _, nt := range g.NamedTypes {
		names = append(names, nt.Name)
	}
	sort.Strings(names)
	return names
}

// notFoundError reports an unknown name and lists near matches, or every
// name when nothing is close.
func notFoundError(g *typegraph.Graph, name string) error {
	names := allNames(g)
	var near []string
	lower := strings.ToLower(name)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			near = append(near, n)
		}
	}
	if len(near) > 0 {
		return fmt.Errorf("%q not found\ndid you mean: %s", name, strings.Join(near, ", "))
	}
	return fmt.Errorf("%q not found\navailable: %s", name, joinOrNone(names))
}

// summary is the one-line result of a successful build.
func summary(g *typegraph.Graph) string {
	return fmt.Sprintf("%d nodes (%d leaves), %d enums, %d aliases",
		len(g.Nodes), len(g.Leaves()), len(g.Enums), len(g.NamedTypes))
}
