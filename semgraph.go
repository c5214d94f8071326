// Package semgraph is the project's embedding API: Run wires together file
// discovery, the compile context, the per-language pipeline and the DOT/
// text renderers into the single library entry point the CLI (and any
// other Go caller) drives, mirroring the teacher's top-level
// analyzer.Analyzer.AnalyzeAll entry point (build the per-file models, merge
// them, hand the merged result to whatever output the caller asked for).
package semgraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/config"
	"github.com/semgraph/semgraph/internal/discover"
	"github.com/semgraph/semgraph/internal/errorx"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/lang/cpp"
	"github.com/semgraph/semgraph/internal/lang/python"
	"github.com/semgraph/semgraph/internal/lang/rust"
	"github.com/semgraph/semgraph/internal/lang/typescript"
	"github.com/semgraph/semgraph/internal/logging"
	"github.com/semgraph/semgraph/internal/modpath"
	"github.com/semgraph/semgraph/internal/project"
	"github.com/semgraph/semgraph/internal/render/dot"
	"github.com/semgraph/semgraph/internal/render/text"
)

// Options is the embedding API's input, the Go-native shape of spec.md §6's
// CLI contract: which files to read, how to configure the pipeline, and
// which of the analyze subcommand's outputs to produce.
type Options struct {
	// Input selection, mirroring `-f`/`-d`/`--lang`.
	Files []string
	Dirs  []string
	Lang  string

	// Pipeline configuration, mirroring internal/config.Config.
	Languages          []string
	IncludeGlobs       []string
	ExcludeGlobs       []string
	Parallelism        int
	ContainerDirs      map[string][]string
	Interprocedural    bool
	PrimitiveOverrides map[string][]string
	DepthLimit         int

	// Output selection, mirroring `--print-ir`/`--print-block`/`--graph`.
	PrintIR    bool
	PrintBlock bool
	Graph      bool

	// DOT rendering options, mirroring `--depth`/`--pagerank-top-k`/
	// `--cluster-by-crate`/`--short-labels`.
	Depth          int
	PagerankTopK   int
	ClusterByCrate bool
	ShortLabels    bool
	NoReduce       bool

	// Logger overrides the default nop logger; the CLI supplies one built
	// from internal/logging per `--log-level`/`LLMCC_LOG`.
	Logger *zap.Logger
}

// Build runs discovery and the full per-unit pipeline (spec.md §4.F-L) over
// Options' inputs and returns the resulting project graph, the shared step
// both Run and a `query` subcommand need before they diverge into
// rendering a report or answering a single read-only query.
func Build(opts Options) (*project.Graph, error) {
	ctx := context.Background()
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	var copts []config.Option
	if len(opts.Languages) > 0 {
		copts = append(copts, config.WithLanguages(opts.Languages...))
	}
	if len(opts.IncludeGlobs) > 0 || len(opts.ExcludeGlobs) > 0 {
		copts = append(copts, config.WithGlobs(opts.IncludeGlobs, opts.ExcludeGlobs))
	}
	if opts.Parallelism > 0 {
		copts = append(copts, config.WithParallelism(opts.Parallelism))
	}
	if opts.Interprocedural {
		copts = append(copts, config.WithInterprocedural())
	}
	if opts.DepthLimit > 0 {
		copts = append(copts, config.WithDepthLimit(opts.DepthLimit))
	}
	for langName, names := range opts.PrimitiveOverrides {
		copts = append(copts, config.WithPrimitiveOverrides(langName, names...))
	}
	cfg := config.New(copts...)
	if len(opts.ContainerDirs) > 0 {
		cfg.ContainerDirs = opts.ContainerDirs
	}

	sources, err := discover.Discover(ctx, afs.New(), discover.Options{
		Files:   opts.Files,
		Dirs:    opts.Dirs,
		Lang:    opts.Lang,
		Include: cfg.IncludeGlobs,
		Exclude: cfg.ExcludeGlobs,
	})
	if err != nil {
		return nil, err
	}

	cctx := compilectx.New(cfg, logger)
	for _, src := range sources {
		cctx.AddUnit(src.Path, src.Lang, src.Data)
	}

	registry := buildRegistry(cfg.Languages)
	graph := project.New(cctx, registry)
	detector := modpath.NewDetector(cfg.ContainerDirs)
	if err := graph.Build(ctx, detector, cctx.Units()); err != nil {
		return nil, errorx.Wrap(errorx.Unexpected, "semgraph.Build", err)
	}
	return graph, nil
}

// Run builds the project graph (via Build) and renders whatever combination
// of --print-ir/--print-block/--graph was requested into one string,
// spec.md §6's "library entry run(options)" contract. Graph, PrintBlock and
// PrintIR sections are concatenated in that order when more than one is
// requested, separated by a blank line, so a single -o file can carry a
// full report.
func Run(opts Options) (string, error) {
	graph, err := Build(opts)
	if err != nil {
		return "", err
	}

	var sections []string
	if opts.Graph {
		sections = append(sections, dot.Render(graph, dot.Options{
			Depth:          dot.DepthFromNumber(opts.Depth),
			PagerankTopK:   opts.PagerankTopK,
			ClusterByCrate: opts.ClusterByCrate,
			ShortLabels:    opts.ShortLabels,
			NoReduce:       opts.NoReduce,
		}))
	}
	if opts.PrintBlock {
		out, err := text.PrintBlocks(graph.Blocks, graph.Relations)
		if err != nil {
			return "", errorx.Wrap(errorx.Unexpected, "semgraph.Run.PrintBlock", err)
		}
		sections = append(sections, out)
	}
	if opts.PrintIR {
		out, err := printIRForUnits(graph.Ctx)
		if err != nil {
			return "", errorx.Wrap(errorx.Unexpected, "semgraph.Run.PrintIR", err)
		}
		sections = append(sections, out)
	}
	if len(sections) == 0 {
		sections = append(sections, dot.Render(graph, dot.Options{Depth: dot.DepthFromNumber(opts.Depth)}))
	}
	return strings.Join(sections, "\n"), nil
}

// printIRForUnits dumps every successfully parsed unit's HIR tree, skipping
// units whose ParseErr is set (spec.md §7 "local recovery": a parse
// failure is reported per-unit, not fatal to the whole run).
func printIRForUnits(cctx *compilectx.Context) (string, error) {
	var b strings.Builder
	for _, u := range cctx.Units() {
		if u.Tree == nil {
			fmt.Fprintf(&b, "--- unit %s: %v ---\n", u.Path, u.ParseErr)
			continue
		}
		fmt.Fprintf(&b, "--- unit %s ---\n", u.Path)
		out, err := text.PrintIR(u.Tree, cctx.Interner)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// buildRegistry wires the four front ends, restricted to names when
// non-empty, mirroring internal/lang/langset.Default but honoring
// Config.Languages (spec.md's per-run language restriction) the way
// langset's fixed four-way registry cannot.
func buildRegistry(names []string) *lang.Registry {
	all := map[string]lang.Language{
		"rust":       rust.New(),
		"typescript": typescript.New(),
		"cpp":        cpp.New(),
		"python":     python.New(),
	}
	if len(names) == 0 {
		return lang.NewRegistry(all["rust"], all["typescript"], all["cpp"], all["python"])
	}
	var langs []lang.Language
	for _, n := range names {
		if l, ok := all[n]; ok {
			langs = append(langs, l)
		}
	}
	return lang.NewRegistry(langs...)
}

