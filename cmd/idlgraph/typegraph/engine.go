package typegraph

import "log/slog"

type Engine struct {
	opts options
}

func NewEngine(opts ...Option) *Engine {
	return &Engine{opts: buildOptions(opts)}
}

// builder carries one build's state. It is created per call, so an Engine
// may be reused for any number of schemas.
type builder struct {
	opts     options
	reg      *Registry
	norm     *Normalizer
	ordering *Ordering
	log      *slog.Logger
}

// Build runs the whole pipeline: register, link, resolve aliases, resolve
// and order every node, then assemble. It stops at the first error.
func (e *Engine) Build(decls []Decl, ordering *Ordering) (*Graph, error) {
	reg := NewRegistry(e.opts.primitives)
	for _, d := range decls {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	if err := reg.Link(); err != nil {
		return nil, err
	}
	e.opts.logger.Debug("registered declarations",
		"nodes", len(reg.nodeOrder), "aliases", len(reg.aliasOrder), "enums", len(reg.enumOrder))

	norm, err := NewNormalizer(reg, e.opts.cacheSize)
	if err != nil {
		return nil, err
	}
	if ordering == nil {
		ordering = NewOrdering()
	}
	b := &builder{opts: e.opts, reg: reg, norm: norm, ordering: ordering, log: e.opts.logger}

	namedTypes, err := b.resolveAliases()
	if err != nil {
		return nil, err
	}

	if cycle := findCycle(reg.nodeOrder, reg.Parents); cycle != nil {
		return nil, phaseError("resolve", cycle[0], &CycleError{Kind: ErrCyclicInheritance, Path: cycle})
	}
	for _, name := range reg.nodeOrder {
		if _, err := b.resolveAttributes(name); err != nil {
			return nil, err
		}
	}

	for _, section := range ordering.Names() {
		if !reg.IsNode(section) {
			return nil, phaseError("order", section, ErrUnknownOrderingSection)
		}
	}

	g := b.assemble(namedTypes)
	b.log.Debug("assembled graph", "nodes", len(g.Nodes), "leaves", len(g.Leaves()))
	return g, nil
}

// resolveAliases normalizes every typedef body, then rejects aliases that
// reach themselves through named-type references.
func (b *builder) resolveAliases() ([]NamedType, error) {
	r := b.reg
	out := make([]NamedType, 0, len(r.aliasOrder))
	bodies := make(map[string]Type, len(r.aliasOrder))
	for _, name := range r.aliasOrder {
		t, err := b.norm.Normalize(r.aliases[name])
		if err != nil {
			return nil, phaseError("normalize", name, err)
		}
		bodies[name] = t
		out = append(out, NamedType{Name: name, Type: t})
	}

	cycle := findCycle(r.aliasOrder, func(name string) []string {
		return References(bodies[name], KindNamedType)
	})
	if cycle != nil {
		return nil, phaseError("normalize", cycle[0], &CycleError{Kind: ErrCyclicAlias, Path: cycle})
	}
	b.log.Debug("resolved aliases", "count", len(out))
	return out, nil
}

// Build is shorthand for NewEngine(opts...).Build(decls, ordering).
func Build(decls []Decl, ordering *Ordering, opts ...Option) (*Graph, error) {
	return NewEngine(opts...).Build(decls, ordering)
}
