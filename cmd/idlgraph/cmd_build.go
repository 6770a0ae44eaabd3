package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"idlgraph/cmd/idlgraph/manifest"
	"idlgraph/cmd/idlgraph/typegraph"
	"idlgraph/cmd/idlgraph/typegraphyaml"

	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	var (
		outFile string
		compact bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the type graph and write it as JSON, YAML or an ordering manifest",
		Long: "Build the type graph and write it to stdout or --out.\n\n" +
			"Output formats (--output):\n" +
			"  json      nodes, enums and namedTypes with tagged type values (default)\n" +
			"  yaml      the same structure as YAML\n" +
			"  manifest  the canonical attribute ordering of every node type",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := writeGraph(w, g, cfg.Output, !compact); err != nil {
				return err
			}
			if outFile != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", outFile, summary(g))
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "json", "output format: json, yaml or manifest")
	cmd.Flags().StringVar(&outFile, "out", "", "output file path (default: stdout)")
	cmd.Flags().BoolVar(&compact, "compact", false, "single-line JSON")
	return cmd
}

func writeGraph(w io.Writer, g *typegraph.Graph, format string, pretty bool) error {
	switch format {
	case "yaml":
		return typegraphyaml.EncodeGraph(w, g)
	case "manifest":
		return manifest.Format(w, manifest.FromGraph(g))
	default:
		var (
			data []byte
			err  error
		)
		if pretty {
			data, err = json.MarshalIndent(g, "", "  ")
		} else {
			data, err = json.Marshal(g)
		}
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
