package main

import (
	"log/slog"
	"os"
	"time"

	"idlgraph/cmd/idlgraph/schema"
	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
	flagStats   bool

	// cfg and logger are set by the root pre-run hook.
	cfg    = defaultConfig()
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Build a validated type graph from an interface schema and an attribute ordering manifest",
	Long: appName + " reads an interface-definition schema (WebIDL subset or YAML) and an\n" +
		"attribute ordering manifest, and builds the resolved type graph: node types with\n" +
		"flattened, manifest-ordered attributes, plus enum and alias tables.\n\n" +
		"Settings come from flags, $" + envPrefix + "* variables, " + projectConfigFile + " and defaults,\n" +
		"in that order of precedence.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Flags(), flagConfig)
		if err != nil {
			return err
		}
		cfg = c
		logger = newLogger(flagVerbose)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if flagStats {
			return printStats(cmd.ErrOrStderr())
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default: $"+envConfig+", ./"+projectConfigFile+" or the user config dir)")
	pf.StringP("schema", "s", "", "schema file (.webidl/.idl or .yml/.yaml)")
	pf.StringP("manifest", "m", "", "attribute ordering manifest")
	pf.String("schema-format", "", "force the schema format: idl or yaml")
	pf.String("discriminator", typegraph.DefaultDiscriminator, "member name excluded as a type tag (empty disables)")
	pf.Int("cache-size", 256, "normalizer cache size (0 disables)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log build phases to stderr")
	pf.BoolVar(&flagStats, "stats", false, "print process memory and CPU usage after the command")

	_ = rootCmd.MarkPersistentFlagFilename("schema", "webidl", "idl", "yml", "yaml")
	_ = rootCmd.MarkPersistentFlagFilename("manifest")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yml", "yaml")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadGraph builds the graph named by the current configuration.
func loadGraph() (*typegraph.Graph, error) {
	opts := append(cfg.buildOptions(), typegraph.WithLogger(logger))
	start := time.Now()
	g, err := schema.Load(cfg.source(), opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("built type graph", "schema", cfg.Schema, "nodes", len(g.Nodes), "elapsed", time.Since(start))
	return g, nil
}
