package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlgraph/cmd/idlgraph/schema"
	"idlgraph/cmd/idlgraph/typegraph"
	"idlgraph/cmd/idlgraph/typegraphyaml"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testSchema = `
enum Mode { "fast", "slow" };
typedef (Leaf or DOMString) Child;
interface Base { attribute Mode mode; };
interface Branch : Base { attribute Child[] children; };
interface Leaf : Base { attribute double weight; };
`

const testManifest = `
[Base]
mode

[Branch]
children
mode

[Leaf]
mode
weight
`

func testGraph(t *testing.T) *typegraph.Graph {
	t.Helper()
	g, err := schema.BuildTypeGraph(testSchema, testManifest)
	require.NoError(t, err)
	return g
}

func TestCollectEntries(t *testing.T) {
	g := testGraph(t)

	all := collectEntries(g, listFilter{enums: true, aliases: true})
	assert.Equal(t, []listEntry{
		{name: "Base", kind: "node"},
		{name: "Branch", kind: "leaf"},
		{name: "Leaf", kind: "leaf"},
		{name: "Mode", kind: "enum"},
		{name: "Child", kind: "alias"},
	}, all)

	leaves := collectEntries(g, listFilter{leavesOnly: true})
	assert.Len(t, leaves, 2)

	var buf bytes.Buffer
	printEntries(&buf, leaves)
	assert.Equal(t, "Branch  [leaf]\nLeaf    [leaf]\n", buf.String())

	buf.Reset()
	printEntries(&buf, nil)
	assert.Equal(t, "no types found\n", buf.String())
}

func TestDescribe(t *testing.T) {
	g := testGraph(t)

	out, err := plainTheme.describe(g, "Branch")
	require.NoError(t, err)
	assert.Contains(t, out, "Branch  [leaf]")
	assert.Contains(t, out, "parents:  Base")
	assert.Contains(t, out, "children: (none)")
	assert.Contains(t, out, "  children  list(namedType(Child))\n")
	assert.Contains(t, out, "  mode      enum(Mode)  (inherited)\n")

	out, err = plainTheme.describe(g, "Mode")
	require.NoError(t, err)
	assert.Contains(t, out, `values: "fast", "slow"`)

	out, err = plainTheme.describe(g, "Child")
	require.NoError(t, err)
	assert.Contains(t, out, "type: union(node(Leaf), value(string))")

	_, err = plainTheme.describe(g, "branch")
	assert.ErrorContains(t, err, "did you mean: Branch")

	_, err = plainTheme.describe(g, "Zzz")
	assert.ErrorContains(t, err, "available: Base, Branch, Child, Leaf, Mode")
}

func TestEvalLine(t *testing.T) {
	g := testGraph(t)
	cases := []struct {
		line string
		want string
		quit bool
		err  string
	}{
		{line: "", want: ""},
		{line: "nodes", want: "Base\nBranch\nLeaf"},
		{line: "leaves", want: "Branch\nLeaf"},
		{line: "parents Leaf", want: "Base"},
		{line: "children Base", want: "Branch, Leaf"},
		{line: "ancestors Base", want: "(none)"},
		{line: "exit", quit: true},
		{line: "quit", quit: true},
		{line: "parents", err: "exactly one name"},
		{line: "children Nope", err: `"Nope" not found`},
		{line: "frobnicate", err: "unknown command"},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, quit, err := evalLine(g, tc.line)
			if tc.err != "" {
				assert.ErrorContains(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.quit, quit)
		})
	}

	help, _, err := evalLine(g, "help")
	require.NoError(t, err)
	assert.Contains(t, help, "ancestors NODE")

	show, _, err := evalLine(g, "show Leaf")
	require.NoError(t, err)
	assert.Contains(t, show, "weight")
}

func TestExitCode(t *testing.T) {
	_, err := schema.BuildTypeGraph("interface A { attribute Nope x; };", "[A]\nx\n")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	_, err = schema.BuildTypeGraph("interface A {", "")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	assert.Equal(t, 2, exitCode(fmt.Errorf("read schema: %w", os.ErrNotExist)))
}

func TestWriteGraph(t *testing.T) {
	g := testGraph(t)

	var buf bytes.Buffer
	require.NoError(t, writeGraph(&buf, g, "json", false))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	var back typegraph.Graph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, g.NodeNames(), back.NodeNames())

	buf.Reset()
	require.NoError(t, writeGraph(&buf, g, "yaml", true))
	fromYAML, err := typegraphyaml.DecodeGraph(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Leaves(), fromYAML.Leaves())

	buf.Reset()
	require.NoError(t, writeGraph(&buf, g, "manifest", true))
	assert.Equal(t, "[Base]\nmode\n\n[Branch]\nchildren\nmode\n\n[Leaf]\nmode\nweight\n", buf.String())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m browseModel, keys ...string) browseModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(browseModel)
	}
	return m
}

func TestBrowseModel(t *testing.T) {
	g := testGraph(t)
	m := newBrowseModel(g)
	assert.Equal(t, "Base", m.shown)
	assert.Len(t, m.attrs.Rows(), 1)

	m = press(m, "down")
	assert.Equal(t, "Branch", m.shown)
	assert.Equal(t, []string{"children", "list(namedType(Child))", "own"}, []string(m.attrs.Rows()[0]))

	m = press(m, "tab")
	assert.Equal(t, paneAttributes, m.focus)

	// children is typed through an alias, so following it finds no node.
	m = press(m, "enter")
	assert.Contains(t, m.status, "references no node type")

	m = press(m, "p")
	assert.Equal(t, "Base", m.shown)

	m = press(m, "tab")
	assert.Equal(t, paneNodes, m.focus)
	assert.Contains(t, m.View(), "3 nodes (2 leaves)")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWriteConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, projectConfigFile)

	from := defaultConfig()
	from.Schema = "api.yml"
	from.Neo4j.Password = "secret"
	c := initialConfig(from)
	assert.Empty(t, c.Manifest, "YAML schemas may carry their own ordering")
	assert.Empty(t, c.Neo4j.Password)

	require.NoError(t, writeConfigFile(path, c, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# "+appName))
	assert.NotContains(t, string(data), "secret")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "api.yml", back.Schema)
	assert.Equal(t, "json", back.Output)

	assert.ErrorContains(t, writeConfigFile(path, c, false), "already exists")
	assert.NoError(t, writeConfigFile(path, c, true))

	idl := initialConfig(Config{})
	assert.Equal(t, "schema.webidl", idl.Schema)
	assert.Equal(t, "ordering.txt", idl.Manifest)
}
