package main

import (
	"fmt"
	"strings"

	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse node types and their attributes interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			if len(g.Nodes) == 0 {
				return fmt.Errorf("schema %s declares no node types", cfg.Schema)
			}
			_, err = tea.NewProgram(newBrowseModel(g), tea.WithAltScreen()).Run()
			return err
		},
	}
}

type pane int

const (
	paneNodes pane = iota
	paneAttributes
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleFocused = styleBase.
			BorderForeground(lipgloss.Color("99"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)

// nodeItem adapts a node to the bubbles list.
type nodeItem struct{ node *typegraph.Node }

func (i nodeItem) FilterValue() string { return i.node.Name }
func (i nodeItem) Title() string       { return i.node.Name }
func (i nodeItem) Description() string {
	kind := "node"
	if i.node.IsLeaf {
		kind = "leaf"
	}
	return fmt.Sprintf("%s, %d attributes", kind, len(i.node.Attributes))
}

type browseModel struct {
	graph  *typegraph.Graph
	nodes  list.Model
	attrs  table.Model
	focus  pane
	shown  string // node whose attributes the table holds
	status string
}

func newBrowseModel(g *typegraph.Graph) browseModel {
	items := make([]list.Item, len(g.Nodes))
	for i, n := range g.Nodes {
		items[i] = nodeItem{node: n}
	}
	l := list.New(items, list.NewDefaultDelegate(), 32, 20)
	l.Title = "Node types"
	l.SetShowHelp(false)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ATTRIBUTE", Width: 20},
			{Title: "TYPE", Width: 40},
			{Title: "FROM", Width: 10},
		}),
		table.WithHeight(18),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := browseModel{graph: g, nodes: l, attrs: t, focus: paneNodes}
	m.syncTable()
	return m
}

func (m *browseModel) selected() *typegraph.Node {
	if it, ok := m.nodes.SelectedItem().(nodeItem); ok {
		return it.node
	}
	return nil
}

// syncTable reloads the attribute table when the selected node changed.
func (m *browseModel) syncTable() {
	n := m.selected()
	if n == nil || n.Name == m.shown {
		return
	}
	m.attrs.SetRows(attributeTableRows(n))
	m.attrs.SetCursor(0)
	m.shown = n.Name
}

func attributeTableRows(n *typegraph.Node) []table.Row {
	rows := make([]table.Row, len(n.Attributes))
	for i, a := range n.Attributes {
		from := "own"
		if a.Inherited {
			from = "inherited"
		}
		rows[i] = table.Row{a.Name, a.Type.String(), from}
	}
	return rows
}

// jumpTo selects the named node in the list.
func (m *browseModel) jumpTo(name string) bool {
	for i, it := range m.nodes.Items() {
		if it.(nodeItem).node.Name == name {
			m.nodes.ResetFilter()
			m.nodes.Select(i)
			m.syncTable()
			return true
		}
	}
	return false
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.nodes.SetSize(32, max(msg.Height-4, 5))
		m.attrs.SetHeight(max(msg.Height-6, 5))
		return m, nil

	case tea.KeyMsg:
		if m.nodes.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.toggleFocus()
			return m, nil
		case "p":
			if n := m.selected(); n != nil && len(n.Parents) > 0 {
				m.jumpTo(n.Parents[0])
				m.status = "parent of " + n.Name
			}
			return m, nil
		case "enter":
			if m.focus == paneNodes {
				m.toggleFocus()
				return m, nil
			}
			m.follow()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == paneNodes {
		m.nodes, cmd = m.nodes.Update(msg)
		m.syncTable()
	} else {
		m.attrs, cmd = m.attrs.Update(msg)
	}
	return m, cmd
}

func (m *browseModel) toggleFocus() {
	if m.focus == paneNodes {
		m.focus = paneAttributes
		m.attrs.Focus()
	} else {
		m.focus = paneNodes
		m.attrs.Blur()
	}
}

// follow jumps to the first node referenced by the highlighted attribute.
func (m *browseModel) follow() {
	n := m.selected()
	idx := m.attrs.Cursor()
	if n == nil || idx < 0 || idx >= len(n.Attributes) {
		return
	}
	a := n.Attributes[idx]
	refs := typegraph.References(a.Type, typegraph.KindNode)
	if len(refs) == 0 {
		m.status = a.Name + " references no node type"
		return
	}
	m.jumpTo(refs[0])
	m.focus = paneNodes
	m.attrs.Blur()
	m.status = "followed " + n.Name + "." + a.Name
}

func (m browseModel) View() string {
	left, right := styleBase, styleFocused
	if m.focus == paneNodes {
		left, right = styleFocused, styleBase
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.nodes.View()),
		right.Render(m.attrs.View()),
	)
	help := "↑/↓ navigate    / filter    tab switch pane    enter follow type    p parent    q quit"
	if m.status != "" {
		help = m.status + "    " + help
	}
	return colorTheme.title.Render(strings.ToUpper(appName)+"  "+summary(m.graph)) + "\n" +
		body + "\n" + styleHelp.Render(help)
}
