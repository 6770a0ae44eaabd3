// Package schema is the entry point that turns source files into a type
// graph: it picks a declaration reader by file type, reads the ordering
// manifest and runs the build.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"idlgraph/cmd/idlgraph/idlparse"
	"idlgraph/cmd/idlgraph/manifest"
	"idlgraph/cmd/idlgraph/typegraph"
	"idlgraph/cmd/idlgraph/typegraphyaml"
)

// Format identifies a schema source format.
type Format string

const (
	FormatIDL  Format = "idl"
	FormatYAML Format = "yaml"
)

// BuildTypeGraph parses schemaSource as interface-definition text and
// orderingManifest as an ordering manifest, then builds the type graph.
func BuildTypeGraph(schemaSource, orderingManifest string, opts ...typegraph.Option) (*typegraph.Graph, error) {
	decls, err := idlparse.Parse(schemaSource)
	if err != nil {
		return nil, err
	}
	ordering, err := manifest.Parse(orderingManifest)
	if err != nil {
		return nil, err
	}
	return typegraph.Build(decls, ordering, opts...)
}

// DetectFormat guesses the format from the file extension. Anything that is
// not YAML is read as interface-definition text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatIDL
	}
}

// Source names the files a build reads. Manifest may be empty for YAML
// schemas that carry an inline ordering block.
type Source struct {
	Schema   string
	Manifest string
	// Format overrides extension-based detection when set.
	Format Format
}

// Load reads the files named by src and builds the graph.
func Load(src Source, opts ...typegraph.Option) (*typegraph.Graph, error) {
	if src.Schema == "" {
		return nil, fmt.Errorf("no schema file given")
	}
	body, err := os.ReadFile(src.Schema)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var ordering *typegraph.Ordering
	if src.Manifest != "" {
		f, err := os.Open(src.Manifest)
		if err != nil {
			return nil, fmt.Errorf("read ordering manifest: %w", err)
		}
		defer f.Close()
		if ordering, err = manifest.Read(f); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Manifest, err)
		}
	}

	format := src.Format
	if format == "" {
		format = DetectFormat(src.Schema)
	}
	switch format {
	case FormatYAML:
		g, err := typegraphyaml.Build(body, ordering, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Schema, err)
		}
		return g, nil
	case FormatIDL:
		decls, err := idlparse.Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Schema, err)
		}
		g, err := typegraph.Build(decls, ordering, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Schema, err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
}
