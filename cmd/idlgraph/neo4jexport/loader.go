// Package neo4jexport loads a built type graph into Neo4j using batched
// UNWIND queries.
package neo4jexport

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"idlgraph/cmd/idlgraph/typegraph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// runFunc executes one Cypher statement.
type runFunc func(ctx context.Context, cypher string, params map[string]any) error

// Loader writes type graphs into a Neo4j database.
type Loader struct {
	driver neo4j.DriverWithContext
	run    runFunc
	log    *slog.Logger
}

// NewLoader creates a driver for uri and verifies connectivity.
func NewLoader(ctx context.Context, uri, user, password string, log *slog.Logger) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j %s: %w", uri, err)
	}
	l := &Loader{driver: driver, log: log}
	l.run = func(ctx context.Context, cypher string, params map[string]any) error {
		_, err := neo4j.ExecuteQuery(ctx, driver, cypher, params, neo4j.EagerResultTransformer)
		return err
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	return l, nil
}

// Close releases the driver.
func (l *Loader) Close(ctx context.Context) error {
	if l.driver == nil {
		return nil
	}
	return l.driver.Close(ctx)
}

func (l *Loader) batch(ctx context.Context, what, cypher string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	l.log.Info("loading", "what", what, "count", len(rows))
	if err := l.run(ctx, cypher, map[string]any{"batch": rows}); err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}

// Export writes g. With clean set, previously exported data is removed
// first.
func (l *Loader) Export(ctx context.Context, g *typegraph.Graph, clean bool) error {
	if clean {
		if err := l.CleanGraph(ctx); err != nil {
			return err
		}
	}
	steps := []func(context.Context, *typegraph.Graph) error{
		func(ctx context.Context, _ *typegraph.Graph) error { return l.CreateIndexes(ctx) },
		l.LoadNodes,
		l.LoadEnums,
		l.LoadAliases,
		l.LoadAttributes,
		l.LoadInherits,
		l.LoadReferences,
	}
	for _, step := range steps {
		if err := step(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// CleanGraph removes every exported vertex and its relationships.
func (l *Loader) CleanGraph(ctx context.Context) error {
	l.log.Info("cleaning existing type graph")
	for _, label := range []string{LabelAttribute, LabelNode, LabelEnum, LabelAlias} {
		if err := l.run(ctx, fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label), nil); err != nil {
			return fmt.Errorf("clean %s: %w", label, err)
		}
	}
	return nil
}

// CreateIndexes ensures the lookup indexes exist.
func (l *Loader) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		"CREATE INDEX idl_node_name IF NOT EXISTS FOR (n:IdlNode) ON (n.name)",
		"CREATE INDEX idl_attribute_key IF NOT EXISTS FOR (n:IdlAttribute) ON (n.key)",
		"CREATE INDEX idl_enum_name IF NOT EXISTS FOR (n:IdlEnum) ON (n.name)",
		"CREATE INDEX idl_alias_name IF NOT EXISTS FOR (n:IdlAlias) ON (n.name)",
	}
	for _, q := range indexes {
		if err := l.run(ctx, q, nil); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// LoadNodes upserts IdlNode vertices.
func (l *Loader) LoadNodes(ctx context.Context, g *typegraph.Graph) error {
	return l.batch(ctx, "nodes",
		`UNWIND $batch AS row
		 MERGE (n:IdlNode {name: row.name})
		 SET n.leaf = row.leaf, n.attribute_count = row.attributes`,
		nodeRows(g))
}

// LoadEnums upserts IdlEnum vertices.
func (l *Loader) LoadEnums(ctx context.Context, g *typegraph.Graph) error {
	return l.batch(ctx, "enums",
		`UNWIND $batch AS row
		 MERGE (e:IdlEnum {name: row.name})
		 SET e.values = row.values`,
		enumRows(g))
}

// LoadAliases upserts IdlAlias vertices.
func (l *Loader) LoadAliases(ctx context.Context, g *typegraph.Graph) error {
	return l.batch(ctx, "aliases",
		`UNWIND $batch AS row
		 MERGE (a:IdlAlias {name: row.name})
		 SET a.type = row.type`,
		aliasRows(g))
}

// LoadAttributes upserts IdlAttribute vertices and HAS_ATTRIBUTE edges.
func (l *Loader) LoadAttributes(ctx context.Context, g *typegraph.Graph) error {
	return l.batch(ctx, "attributes",
		`UNWIND $batch AS row
		 MERGE (a:IdlAttribute {key: row.key})
		 SET a.name = row.name, a.type = row.type, a.kind = row.kind,
		     a.inherited = row.inherited, a.position = row.position
		 WITH a, row
		 MATCH (n:IdlNode {name: row.node})
		 MERGE (n)-[:HAS_ATTRIBUTE]->(a)`,
		attributeRows(g))
}

// LoadInherits upserts INHERITS edges from child to parent.
func (l *Loader) LoadInherits(ctx context.Context, g *typegraph.Graph) error {
	return l.batch(ctx, "inherits edges",
		`UNWIND $batch AS row
		 MATCH (c:IdlNode {name: row.child}), (p:IdlNode {name: row.parent})
		 MERGE (c)-[r:INHERITS]->(p)
		 SET r.position = row.position`,
		inheritsRows(g))
}

// LoadReferences upserts REFERENCES edges from attributes and aliases to
// the nodes, enums and aliases their types name.
func (l *Loader) LoadReferences(ctx context.Context, g *typegraph.Graph) error {
	groups := referenceRows(g)
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		cypher := fmt.Sprintf(
			`UNWIND $batch AS row
			 OPTIONAL MATCH (attr:IdlAttribute {key: row.source}) WHERE row.from = 'attribute'
			 OPTIONAL MATCH (alias:IdlAlias {name: row.source}) WHERE row.from = 'alias'
			 WITH coalesce(attr, alias) AS src, row
			 WHERE src IS NOT NULL
			 MATCH (t:%s {name: row.target})
			 MERGE (src)-[:REFERENCES]->(t)`, label)
		if err := l.batch(ctx, "references to "+label, cypher, groups[label]); err != nil {
			return err
		}
	}
	return nil
}
