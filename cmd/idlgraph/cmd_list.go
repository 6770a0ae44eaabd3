package main

import (
	"fmt"
	"io"

	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var leavesOnly, withEnums, withAliases bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List node types (and optionally enums and aliases)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), collectEntries(g, listFilter{
				leavesOnly: leavesOnly,
				enums:      withEnums,
				aliases:    withAliases,
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&leavesOnly, "leaves", false, "only list leaf node types")
	cmd.Flags().BoolVar(&withEnums, "enums", false, "include enums")
	cmd.Flags().BoolVar(&withAliases, "aliases", false, "include typedef aliases")
	return cmd
}

type listFilter struct {
	leavesOnly bool
	enums      bool
	aliases    bool
}

// listEntry is one printed line: a name and its kind.
type listEntry struct {
	name string
	kind string // "leaf", "node", "enum" or "alias"
}

func collectEntries(g *typegraph.Graph, f listFilter) []listEntry {
	var out []listEntry
	for _, n := range g.Nodes {
		switch {
		case n.IsLeaf:
			out = append(out, listEntry{name: n.Name, kind: "leaf"})
		case !f.leavesOnly:
			out = append(out, listEntry{name: n.Name, kind: "node"})
		}
	}
	if f.enums {
		for _, e := range g.Enums {
			out = append(out, listEntry{name: e.Name, kind: "enum"})
		}
	}
	if f.aliases {
		for _, nt := range g.NamedTypes {
			out = append(out, listEntry{name: nt.Name, kind: "alias"})
		}
	}
	return out
}

// printEntries prints entries aligned on the widest name.
func printEntries(w io.Writer, entries []listEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no types found")
		return
	}
	width := 0
	for _, e := range entries {
		width = max(width, len(e.name))
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-*s  [%s]\n", width, e.name, e.kind)
	}
}
