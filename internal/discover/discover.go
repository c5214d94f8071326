// Package discover turns the CLI's `-f`/`-d` input arguments into the list
// of (path, language, source bytes) units the pipeline builds over. It is
// deliberately thin and out-of-core (spec.md §1 scopes file discovery out of
// the language-agnostic engine), grounded on the teacher's
// analyzer.AnalyzeDir/analyzePackages (project-root walk over an
// afs.Service, gathering files per package before handing them to the
// parser) and inspector/repository/asset.go's ReadAssetsRecursively
// (recursive directory read with include/exclude filtering). Unlike the
// teacher, which owns one afs.Service field on Analyzer, the Service is
// passed in here so the pipeline's embedding API can supply its own (or a
// test's in-memory one).
package discover

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/semgraph/semgraph/internal/errorx"
)

// extByLang maps a recognized source file extension to its language tag,
// per spec.md §1's "Rust/TypeScript/C/C++/Python" scope. TypeScript's JSX
// variant and C/C++'s header extensions all resolve to the same front end
// as their base language, matching internal/lang/langset.Default's
// four-way registry.
var extByLang = map[string]string{
	".rs":  "rust",
	".ts":  "typescript",
	".tsx": "typescript",
	".c":   "cpp",
	".h":   "cpp",
	".cc":  "cpp",
	".cpp": "cpp",
	".cxx": "cpp",
	".hpp": "cpp",
	".hh":  "cpp",
	".py":  "python",
	".pyi": "python",
}

// LanguageForPath reports the language tag inferred from path's extension.
func LanguageForPath(path string) (string, bool) {
	lang, ok := extByLang[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Source is one discovered compilation unit: a path, its resolved language
// tag, and its raw bytes, the shape internal/compilectx.Context.AddUnit
// expects.
type Source struct {
	Path string
	Lang string
	Data []byte
}

// Options shapes discovery, mirroring spec.md §6's `-f`/`-d`/`--lang` CLI
// flags plus internal/config.Config's IncludeGlobs/ExcludeGlobs.
type Options struct {
	Files   []string // explicit file paths (`-f`)
	Dirs    []string // directories to walk recursively (`-d`)
	Lang    string   // forces every discovered file to this language tag; empty infers per extension
	Include []string // doublestar glob patterns; a walked file must match at least one (ignored if empty)
	Exclude []string // doublestar glob patterns; a walked file matching any of these is skipped
}

// Discover resolves opts into the sorted, deduplicated list of sources the
// pipeline builds over. An empty Files+Dirs set is spec.md §8's boundary
// case, "Empty input set → InvalidArgument".
func Discover(ctx context.Context, fs afs.Service, opts Options) ([]Source, error) {
	if len(opts.Files) == 0 && len(opts.Dirs) == 0 {
		return nil, errorx.New(errorx.InvalidArgument, "discover").With("reason", "empty input set")
	}

	var out []Source
	seen := make(map[string]bool)

	for _, path := range opts.Files {
		lang := opts.Lang
		if lang == "" {
			var ok bool
			lang, ok = LanguageForPath(path)
			if !ok {
				return nil, errorx.New(errorx.UnsupportedLang, "discover").With("path", path)
			}
		}
		data, err := fs.DownloadWithURL(ctx, path)
		if err != nil {
			return nil, errorx.Wrap(errorx.IoFailed, "discover", err).With("path", path)
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, Source{Path: path, Lang: lang, Data: data})
	}

	for _, root := range opts.Dirs {
		found, err := walkDir(ctx, fs, root, opts)
		if err != nil {
			return nil, errorx.Wrap(errorx.IoFailed, "discover", err).With("dir", root)
		}
		for _, src := range found {
			if seen[src.Path] {
				continue
			}
			seen[src.Path] = true
			out = append(out, src)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// walkDir gathers every recognized source file under root, matching
// spec.md §8 scenario 2's "build order [b, a] must not affect the final
// graph" by handing back a sorted, not walk-order-dependent, list.
func walkDir(ctx context.Context, fs afs.Service, root string, opts Options) ([]Source, error) {
	var found []Source
	visitor := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		path := url.Join(url.Join(baseURL, parent), info.Name())
		inferred, ok := LanguageForPath(path)
		if !ok {
			return true, nil
		}
		if opts.Lang != "" && opts.Lang != inferred {
			return true, nil
		}
		lang := inferred
		if !matchesGlobs(path, opts.Include, opts.Exclude) {
			return true, nil
		}
		data, err := fs.DownloadWithURL(ctx, path)
		if err != nil {
			return false, err
		}
		found = append(found, Source{Path: path, Lang: lang, Data: data})
		return true, nil
	}
	var onVisit storage.OnVisit = visitor
	if err := fs.Walk(ctx, root, onVisit); err != nil {
		return nil, err
	}
	return found, nil
}

// matchesGlobs reports whether path should be kept: it must match at least
// one Include pattern (when any are given) and none of the Exclude
// patterns, per internal/config.Config's IncludeGlobs/ExcludeGlobs.
func matchesGlobs(path string, include, exclude []string) bool {
	base := filepath.Base(path)
	for _, pat := range exclude {
		if ok, _ := doublestar.Match(pat, path); ok {
			return false
		}
		if ok, _ := doublestar.Match(pat, base); ok {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pat := range include {
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
	}
	return false
}
