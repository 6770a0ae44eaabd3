package main

import (
	"errors"
	"fmt"
	"os"

	"idlgraph/cmd/idlgraph/schema"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configHeader = "# " + appName + " project settings\n" +
	"# Flags and $" + envPrefix + "* variables override these values.\n\n"

func newInitCommand() *cobra.Command {
	var (
		yes   bool
		force bool
		path  string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a " + projectConfigFile + " for the current project",
		Long: "Write a project config file. Values default to the current settings\n" +
			"(flags, environment, existing config). Without --yes an interactive\n" +
			"form asks for each value first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := initialConfig(cfg)
			if !yes {
				if err := configForm(&c).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}
			if err := writeConfigFile(path, c, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n\nRun `%s check` to validate the schema.\n", path, appName)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the form and write the current settings")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVar(&path, "path", projectConfigFile, "file to write")
	return cmd
}

// initialConfig keeps only the settings worth persisting per project.
// The Neo4j password is never written.
func initialConfig(from Config) Config {
	c := Config{
		Schema:        from.Schema,
		Manifest:      from.Manifest,
		Format:        from.Format,
		Output:        from.Output,
		Discriminator: from.Discriminator,
		Primitives:    from.Primitives,
		Neo4j:         Neo4jConfig{URI: from.Neo4j.URI, User: from.Neo4j.User},
	}
	if c.Schema == "" {
		c.Schema = "schema.webidl"
	}
	if c.Manifest == "" && schema.DetectFormat(c.Schema) == schema.FormatIDL {
		c.Manifest = "ordering.txt"
	}
	return c
}

func configForm(c *Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema file").
				Description(".webidl/.idl, or .yml/.yaml for a YAML schema").
				Value(&c.Schema).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("a schema file is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Ordering manifest").
				Description("may stay empty for YAML schemas with an inline ordering block").
				Value(&c.Manifest),
			huh.NewSelect[string]().
				Title("Build output format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
					huh.NewOption("Ordering manifest", "manifest"),
				).
				Value(&c.Output),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Neo4j URI").
				Description("used by `"+appName+" export neo4j`").
				Value(&c.Neo4j.URI),
			huh.NewInput().
				Title("Neo4j user").
				Value(&c.Neo4j.User),
		),
	)
}

func writeConfigFile(path string, c Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
