// Package config holds pipeline-wide configuration, built with the same
// functional-options idiom the teacher uses for its Analyzer (see
// analyzer/option.go in the teacher source tree): a slice of Option values
// applied over a zero-value Config.
package config

import "runtime"

// Option configures a Config in place.
type Option func(*Config)

// Config holds everything the pipeline's phases need beyond the file list
// itself.
type Config struct {
	// Languages restricts processing to this set of language tags ("rust",
	// "typescript", "cpp", "python"); empty means "infer per file".
	Languages []string

	// IncludeGlobs/ExcludeGlobs filter discovered files (applied by
	// internal/discover, not by the core pipeline itself).
	IncludeGlobs []string
	ExcludeGlobs []string

	// Parallelism bounds the number of compilation units processed
	// concurrently in any one phase. Zero or a negative value means one
	// unit at a time.
	Parallelism int

	// ContainerDirs lists, per language tag, directory names skipped while
	// detecting module/package roots (spec.md §9 open question 3).
	ContainerDirs map[string][]string

	// Interprocedural is recorded on the Config only: no pipeline phase
	// reads it, and no call/return flow summaries are computed.
	Interprocedural bool

	// PrimitiveOverrides stores extra primitive names per language. Primitive
	// seeding does not read it: engine.SeedPrimitives seeds only each
	// language's Primitives().
	PrimitiveOverrides map[string][]string

	// DepthLimit bounds type-inference recursion (spec.md §4.I).
	DepthLimit int
}

// Default returns a Config with sane defaults: all four languages enabled,
// GOMAXPROCS parallelism, a depth limit of 16, and the default container
// directory lists.
func Default() *Config {
	c := &Config{
		Languages:   []string{"rust", "typescript", "cpp", "python"},
		Parallelism: runtime.GOMAXPROCS(0),
		DepthLimit:  16,
		ContainerDirs: map[string][]string{
			"rust":       {"src"},
			"typescript": {"src"},
			"cpp":        {"src", "include", "lib"},
			"python":     {},
		},
	}
	return c
}

// New builds a Config from Default() with opts applied in order.
func New(opts ...Option) *Config {
	c := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// WithLanguages restricts the enabled language set.
func WithLanguages(langs ...string) Option {
	return func(c *Config) { c.Languages = langs }
}

// WithGlobs sets include/exclude glob filters for file discovery.
func WithGlobs(include, exclude []string) Option {
	return func(c *Config) {
		c.IncludeGlobs = include
		c.ExcludeGlobs = exclude
	}
}

// WithParallelism overrides the per-phase concurrency bound.
func WithParallelism(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Parallelism = n
		}
	}
}

// WithContainerDirs overrides the container-directory list for a language.
func WithContainerDirs(lang string, dirs ...string) Option {
	return func(c *Config) {
		if c.ContainerDirs == nil {
			c.ContainerDirs = map[string][]string{}
		}
		c.ContainerDirs[lang] = dirs
	}
}

// WithInterprocedural sets Config.Interprocedural.
func WithInterprocedural() Option {
	return func(c *Config) { c.Interprocedural = true }
}

// WithDepthLimit overrides the type-inference recursion guard.
func WithDepthLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DepthLimit = n
		}
	}
}

// WithPrimitiveOverrides records extra primitive names for a language in
// Config.PrimitiveOverrides.
func WithPrimitiveOverrides(lang string, names ...string) Option {
	return func(c *Config) {
		if c.PrimitiveOverrides == nil {
			c.PrimitiveOverrides = map[string][]string{}
		}
		c.PrimitiveOverrides[lang] = append(c.PrimitiveOverrides[lang], names...)
	}
}
