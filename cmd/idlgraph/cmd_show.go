package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME...",
		Short: "Show a node type, enum or alias",
		Long: "Show a node type with its parents, children and final attribute order.\n" +
			"Enums and aliases are shown too. Names are auto-completable (Tab).",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			for i, name := range args {
				out, err := colorTheme.describe(g, name)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

// completeNames completes node, enum and alias names. Completion runs
// without the persistent pre-run hook, so the config is loaded here.
func completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := loadConfig(cmd.Flags(), flagConfig)
	if err != nil || c.Schema == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg = c
	g, err := loadGraph()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var suggestions []string
	for _, name := range allNames(g) {
		if strings.HasPrefix(name, toComplete) {
			suggestions = append(suggestions, name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
