// Package modpath detects, for a set of source file paths, the project
// root, package, and module each file belongs to, by walking up from each
// file looking for a language manifest and then reading its declared
// project name. Grounded on the teacher's inspector/repository/detector.go
// (marker-file walk-up, regex-based name extraction from manifests), scoped
// down from git/Go/Java/Node detection to the spec's Rust/TypeScript/C/C++/
// Python manifests.
package modpath

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Unit is the (project, package, module, file) tuple spec.md's module-path
// detector contract returns for a file.
type Unit struct {
	Project string
	Package string
	Module  string
	File    string
}

// manifest is one recognized project-marker file, in walk-up priority
// order: more specific manifests are checked before the generic VCS marker.
type manifest struct {
	name string
	kind string
}

var manifests = []manifest{
	{"Cargo.toml", "rust"},
	{"pyproject.toml", "python"},
	{"setup.py", "python"},
	{"package.json", "typescript"},
	{"CMakeLists.txt", "cpp"},
	{"go.mod", "go"},
	{".git", "git"},
}

// Detector resolves module paths for a batch of files, caching project-root
// lookups by directory since many files in a run share a root.
type Detector struct {
	containerDirs map[string][]string
	rootCache     map[string]rootInfo
}

type rootInfo struct {
	root string
	kind string
	name string
}

// NewDetector builds a Detector. containerDirs maps a language tag ("rust",
// "typescript", "cpp", "python") to directory names stripped from the front
// of a file's relative path when computing its package/module (spec.md §9
// open question 3), e.g. {"rust": {"src"}, "cpp": {"src", "include", "lib"}}.
func NewDetector(containerDirs map[string][]string) *Detector {
	return &Detector{
		containerDirs: containerDirs,
		rootCache:     make(map[string]rootInfo),
	}
}

// Detect resolves a Unit for every path, in the order given.
func (d *Detector) Detect(paths []string) map[string]Unit {
	out := make(map[string]Unit, len(paths))
	for _, p := range paths {
		out[p] = d.detectOne(p)
	}
	return out
}

func (d *Detector) detectOne(path string) Unit {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	dir := filepath.Dir(abs)
	info := d.rootFor(dir)

	relDir := "."
	if info.root != "" {
		if r, err := filepath.Rel(info.root, dir); err == nil {
			relDir = r
		}
	}
	segs := splitClean(relDir)
	segs = stripContainerPrefix(segs, d.containerDirs[languageTag(info.kind)])

	pkg := info.name
	if len(segs) > 0 {
		pkg = segs[len(segs)-1]
	}
	module := strings.Join(segs, ".")

	file := filepath.ToSlash(abs)
	if info.root != "" {
		if rel, err := filepath.Rel(info.root, abs); err == nil {
			file = filepath.ToSlash(rel)
		}
	}

	return Unit{
		Project: info.name,
		Package: pkg,
		Module:  module,
		File:    file,
	}
}

func (d *Detector) rootFor(dir string) rootInfo {
	if info, ok := d.rootCache[dir]; ok {
		return info
	}
	root, kind := findProjectRoot(dir)
	name := ""
	if root != "" {
		name = extractProjectName(root, kind)
	} else {
		root = dir
		name = filepath.Base(dir)
	}
	info := rootInfo{root: root, kind: kind, name: name}
	d.rootCache[dir] = info
	return info
}

func findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, m := range manifests {
			if _, err := os.Stat(filepath.Join(dir, m.name)); err == nil {
				return dir, m.kind
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

func languageTag(kind string) string {
	if kind == "typescript" || kind == "rust" || kind == "cpp" || kind == "python" {
		return kind
	}
	return ""
}

func splitClean(relDir string) []string {
	relDir = filepath.ToSlash(relDir)
	if relDir == "" || relDir == "." {
		return nil
	}
	parts := strings.Split(relDir, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}

func stripContainerPrefix(segs []string, containers []string) []string {
	if len(segs) == 0 || len(containers) == 0 {
		return segs
	}
	for _, c := range containers {
		if segs[0] == c {
			return segs[1:]
		}
	}
	return segs
}

func extractProjectName(root, kind string) string {
	switch kind {
	case "rust":
		return extractRegex(filepath.Join(root, "Cargo.toml"), `(?s)\[package\].*?name\s*=\s*["']([^"']+)["']`, root)
	case "python":
		if name := extractRegex(filepath.Join(root, "pyproject.toml"), `(?s)\[(?:tool\.poetry|project)\].*?name\s*=\s*["']([^"']+)["']`, ""); name != "" {
			return name
		}
		if name := extractRegex(filepath.Join(root, "setup.py"), `name\s*=\s*["']([^"']+)["']`, ""); name != "" {
			return name
		}
		return filepath.Base(root)
	case "typescript":
		return extractRegex(filepath.Join(root, "package.json"), `"name"\s*:\s*"([^"]+)"`, root)
	case "cpp":
		return extractRegex(filepath.Join(root, "CMakeLists.txt"), `project\s*\(\s*([A-Za-z0-9_\-]+)`, root)
	case "go":
		return extractRegex(filepath.Join(root, "go.mod"), `module\s+(\S+)`, root)
	case "git":
		if name := extractGitOrigin(root); name != "" {
			return name
		}
		return filepath.Base(root)
	default:
		return filepath.Base(root)
	}
}

func extractRegex(path, pattern, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if fallback != "" {
			return filepath.Base(fallback)
		}
		return ""
	}
	re := regexp.MustCompile(pattern)
	m := re.FindSubmatch(data)
	if len(m) < 2 {
		if fallback != "" {
			return filepath.Base(fallback)
		}
		return ""
	}
	name := string(m[1])
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func extractGitOrigin(root string) string {
	f, err := os.Open(filepath.Join(root, ".git", "config"))
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	inOrigin := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.Contains(line, `[remote "origin"]`) {
			inOrigin = true
			continue
		}
		if inOrigin && strings.HasPrefix(line, "url") {
			url := strings.TrimSpace(strings.TrimPrefix(line, "url"))
			url = strings.TrimPrefix(strings.TrimSpace(url), "=")
			url = strings.TrimSpace(url)
			url = strings.TrimSuffix(url, ".git")
			parts := strings.Split(url, "/")
			if len(parts) > 0 {
				return parts[len(parts)-1]
			}
		}
	}
	return ""
}
