package typegraph

import "log/slog"

// DefaultPrimitives maps the grammar's primitive spellings to value names.
var DefaultPrimitives = map[string]string{
	"DOMString": "string",
	"boolean":   "boolean",
	"double":    "double",
}

// DefaultDiscriminator is the member name reserved for a node's type tag.
const DefaultDiscriminator = "type"

type options struct {
	primitives    map[string]string
	discriminator string
	cacheSize     int
	logger        *slog.Logger
}

// Option configures a build.
type Option func(*options)

// WithPrimitives replaces the primitive table.
func WithPrimitives(p map[string]string) Option {
	return func(o *options) { o.primitives = p }
}

// WithDiscriminator sets the member name that is skipped during resolution.
// An empty name keeps every member.
func WithDiscriminator(name string) Option {
	return func(o *options) { o.discriminator = name }
}

// WithNormalizeCache caches normalized type expressions, keyed by their
// text, in an LRU of the given size. Zero disables the cache.
func WithNormalizeCache(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// WithLogger sets the logger used for per-phase debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{
		primitives:    DefaultPrimitives,
		discriminator: DefaultDiscriminator,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
