package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the schema against the ordering manifest",
		Long: "Build the type graph and report whether the schema and manifest agree.\n" +
			"Exits 1 when the pair is invalid and 2 on any other failure.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				if !quiet {
					fmt.Fprintln(cmd.ErrOrStderr(), colorTheme.err.Render("FAIL")+" "+cfg.Schema)
				}
				return err
			}
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), colorTheme.ok.Render("OK")+"   "+cfg.Schema+": "+summary(g))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing on success")
	return cmd
}
