package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"idlgraph/cmd/idlgraph/neo4jexport"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the type graph to an external store",
	}
	cmd.AddCommand(newExportNeo4jCommand())
	return cmd
}

func newExportNeo4jCommand() *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "neo4j",
		Short: "Load the type graph into Neo4j",
		Long: "Load node types, attributes, enums and aliases into Neo4j as IdlNode,\n" +
			"IdlAttribute, IdlEnum and IdlAlias vertices with INHERITS, HAS_ATTRIBUTE\n" +
			"and REFERENCES relationships.\n\n" +
			"The password is read from --password or $" + envNeo4jPassword + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyNeo4jFlags(cmd, &cfg.Neo4j)
			if cfg.Neo4j.Password == "" {
				return fmt.Errorf("neo4j password required: use --password or set $%s", envNeo4jPassword)
			}
			g, err := loadGraph()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			loader, err := neo4jexport.NewLoader(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, logger)
			if err != nil {
				return err
			}
			defer loader.Close(ctx)

			if err := loader.Export(ctx, g, clean); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %s to %s\n", summary(g), cfg.Neo4j.URI)
			return nil
		},
	}
	cmd.Flags().String("uri", "", "Neo4j bolt URI (default from config: bolt://localhost:7687)")
	cmd.Flags().String("user", "", "Neo4j user (default from config: neo4j)")
	cmd.Flags().String("password", "", "Neo4j password")
	cmd.Flags().BoolVar(&clean, "clean", false, "remove previously exported data first")
	return cmd
}

func applyNeo4jFlags(cmd *cobra.Command, c *Neo4jConfig) {
	for name, dst := range map[string]*string{"uri": &c.URI, "user": &c.User, "password": &c.Password} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
}
