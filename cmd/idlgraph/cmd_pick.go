package main

import (
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

func newPickCommand() *cobra.Command {
	var nameOnly bool
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-select a node type and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			if len(g.Nodes) == 0 {
				return fmt.Errorf("schema %s declares no node types", cfg.Schema)
			}
			idx, err := fuzzyfinder.Find(
				g.Nodes,
				func(i int) string { return g.Nodes[i].Name },
				fuzzyfinder.WithPromptString("Select node: "),
				fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
					if i < 0 {
						return ""
					}
					return plainTheme.renderNode(g.Nodes[i])
				}),
			)
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			if err != nil {
				return err
			}
			n := g.Nodes[idx]
			if nameOnly {
				fmt.Fprintln(cmd.OutOrStdout(), n.Name)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), colorTheme.renderNode(n))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&nameOnly, "name-only", "n", false, "print only the selected name")
	return cmd
}
