package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"idlgraph/cmd/idlgraph/schema"
	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// Env var names and config paths are derived from it.
const appName = "idlgraph"

// projectConfigFile is looked up in the working directory.
const projectConfigFile = "." + appName + ".yml"

var envPrefix = strings.ToUpper(appName) + "_"

var (
	envConfig        = envPrefix + "CONFIG"
	envConfigDir     = envPrefix + "CONFIG_DIR"
	envSchema        = envPrefix + "SCHEMA"
	envManifest      = envPrefix + "MANIFEST"
	envFormat        = envPrefix + "FORMAT"
	envOutput        = envPrefix + "OUTPUT"
	envDiscriminator = envPrefix + "DISCRIMINATOR"
	envCacheSize     = envPrefix + "CACHE_SIZE"
	envNeo4jURI      = envPrefix + "NEO4J_URI"
	envNeo4jUser     = envPrefix + "NEO4J_USER"
	envNeo4jPassword = envPrefix + "NEO4J_PASSWORD"
)

// Config is the merged configuration of one invocation.
type Config struct {
	Schema   string `yaml:"schema,omitempty"`
	Manifest string `yaml:"manifest,omitempty"`
	// Format forces the schema format (idl or yaml); empty means detect.
	Format string `yaml:"format,omitempty"`
	// Output is the build output format: json, yaml or manifest.
	Output string `yaml:"output,omitempty"`
	// Discriminator is nil when unset; an empty string disables filtering.
	Discriminator *string           `yaml:"discriminator,omitempty"`
	Primitives    map[string]string `yaml:"primitives,omitempty"`
	CacheSize     int               `yaml:"cacheSize,omitempty"`
	Neo4j         Neo4jConfig       `yaml:"neo4j,omitempty"`
}

// Neo4jConfig holds the connection settings for export neo4j.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Output:    "json",
		CacheSize: 256,
		Neo4j:     Neo4jConfig{URI: "bolt://localhost:7687", User: "neo4j"},
	}
}

// resolveConfigDir returns the user-level config directory.
// Priority: $IDLGRAPH_CONFIG_DIR > $XDG_CONFIG_HOME/idlgraph > ~/.config/idlgraph
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// resolveConfigFile returns the config file to read, or "" when none exists.
// Priority: --config > $IDLGRAPH_CONFIG > ./.idlgraph.yml > <config dir>/config.yml
// Explicitly named files must exist; the implicit ones are skipped when absent.
func resolveConfigFile(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if v := os.Getenv(envConfig); v != "" {
		return v, nil
	}
	candidates := []string{projectConfigFile}
	if dir, err := resolveConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.yml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// readConfigFile merges the YAML file at path into cfg.
func readConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with any IDLGRAPH_* variables that are set.
func applyEnv(cfg *Config) error {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	setString(envSchema, &cfg.Schema)
	setString(envManifest, &cfg.Manifest)
	setString(envFormat, &cfg.Format)
	setString(envOutput, &cfg.Output)
	setString(envNeo4jURI, &cfg.Neo4j.URI)
	setString(envNeo4jUser, &cfg.Neo4j.User)
	setString(envNeo4jPassword, &cfg.Neo4j.Password)
	if v, ok := os.LookupEnv(envDiscriminator); ok {
		cfg.Discriminator = &v
	}
	if v, ok := os.LookupEnv(envCacheSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("$%s: %w", envCacheSize, err)
		}
		cfg.CacheSize = n
	}
	return nil
}

// applyFlags overrides cfg with flags the user set explicitly.
func applyFlags(flags *pflag.FlagSet, cfg *Config) {
	setString := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	setString("schema", &cfg.Schema)
	setString("manifest", &cfg.Manifest)
	setString("schema-format", &cfg.Format)
	setString("output", &cfg.Output)
	if f := flags.Lookup("discriminator"); f != nil && f.Changed {
		v := f.Value.String()
		cfg.Discriminator = &v
	}
	if f := flags.Lookup("cache-size"); f != nil && f.Changed {
		if n, err := flags.GetInt("cache-size"); err == nil {
			cfg.CacheSize = n
		}
	}
}

// loadConfig merges defaults, config file, environment and flags, in
// increasing order of precedence. A .env file in the working directory is
// loaded into the environment first.
func loadConfig(flags *pflag.FlagSet, configFlag string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}

	cfg := defaultConfig()
	path, err := resolveConfigFile(configFlag)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyFlags(flags, &cfg)

	switch cfg.Output {
	case "json", "yaml", "manifest":
	default:
		return Config{}, fmt.Errorf("unknown output format %q (want json, yaml or manifest)", cfg.Output)
	}
	switch schema.Format(cfg.Format) {
	case "", schema.FormatIDL, schema.FormatYAML:
	default:
		return Config{}, fmt.Errorf("unknown schema format %q (want idl or yaml)", cfg.Format)
	}
	return cfg, nil
}

// source returns the files named by cfg.
func (c Config) source() schema.Source {
	return schema.Source{Schema: c.Schema, Manifest: c.Manifest, Format: schema.Format(c.Format)}
}

// buildOptions converts cfg into engine options.
func (c Config) buildOptions() []typegraph.Option {
	opts := []typegraph.Option{typegraph.WithNormalizeCache(c.CacheSize)}
	if len(c.Primitives) > 0 {
		opts = append(opts, typegraph.WithPrimitives(c.Primitives))
	}
	if c.Discriminator != nil {
		opts = append(opts, typegraph.WithDiscriminator(*c.Discriminator))
	}
	return opts
}
