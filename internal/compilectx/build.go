package compilectx

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/errorx"
	"github.com/semgraph/semgraph/internal/modpath"
)

// BuildTrees runs the IR-build phase (spec.md §4.F) over every registered
// unit, data-parallel by compilation unit per spec.md §5. Grounded on the
// teacher's packagemanager.Manager.ResolveAndFetch concurrency shape
// (errgroup plus a concurrency-limited group), but deliberately not
// errgroup.WithContext's cancel-on-first-error form: spec.md §7 places a
// unit's parse failure under "Local recovery", not "Fatal" -- a unit with a
// parse error is recorded on that unit's ParseErr and left with a nil Tree
// (skipped by every later phase), while every other unit keeps building.
// Per-goroutine errors are always swallowed into ParseErr rather than
// returned, so g.Wait() never cancels a sibling unit's parse.
//
// detector resolves each unit's (project, package, module, file) tuple;
// grammars supplies the per-language parser+classifier (internal/lang/*)
// keyed by the unit's Lang tag.
func (c *Context) BuildTrees(ctx context.Context, detector *modpath.Detector, grammars map[string]build.Grammar) error {
	units := c.Units()

	paths := make([]string, len(units))
	for i, u := range units {
		paths[i] = u.Path
	}
	mods := detector.Detect(paths)

	g := new(errgroup.Group)
	limit := c.Config.Parallelism
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, u := range units {
		u := u
		g.Go(func() error {
			u.Mod = mods[u.Path]
			grammar, ok := grammars[u.Lang]
			if !ok {
				u.ParseErr = errorx.New(errorx.UnsupportedLang, "compilectx.BuildTrees").
					With("lang", u.Lang).With("file", u.Path)
				return nil
			}
			tree, err := build.Tree(ctx, c.Interner, grammar, u.Index, u.Path, u.Source)
			if err != nil {
				u.ParseErr = err
				return nil
			}
			u.Tree = tree
			return nil
		})
	}
	return g.Wait()
}
