package modpath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/modpath"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestDetectRustProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), "[package]\nname = \"widgets\"\nversion = \"0.1.0\"\n")
	file := filepath.Join(root, "src", "shapes", "circle.rs")
	writeFile(t, file, "struct Circle;")

	d := modpath.NewDetector(map[string][]string{"rust": {"src"}})
	units := d.Detect([]string{file})

	u := units[file]
	assert.Equal(t, "widgets", u.Project)
	assert.Equal(t, "shapes", u.Package)
	assert.Equal(t, "shapes", u.Module)
}

func TestDetectPythonProjectNoContainerDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[project]\nname = \"analyzer\"\n")
	file := filepath.Join(root, "pkg", "mod.py")
	writeFile(t, file, "x = 1")

	d := modpath.NewDetector(map[string][]string{"python": {}})
	units := d.Detect([]string{file})

	u := units[file]
	assert.Equal(t, "analyzer", u.Project)
	assert.Equal(t, "pkg", u.Package)
}

func TestDetectCppProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "CMakeLists.txt"), "cmake_minimum_required(VERSION 3.10)\nproject(engine)\n")
	file := filepath.Join(root, "include", "engine", "core.h")
	writeFile(t, file, "#pragma once")

	d := modpath.NewDetector(map[string][]string{"cpp": {"src", "include", "lib"}})
	units := d.Detect([]string{file})

	u := units[file]
	assert.Equal(t, "engine", u.Project)
	assert.Equal(t, "engine", u.Package)
}

func TestDetectTypeScriptProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "web-app", "version": "1.0.0"}`)
	file := filepath.Join(root, "src", "components", "button.ts")
	writeFile(t, file, "export const x = 1")

	d := modpath.NewDetector(map[string][]string{"typescript": {"src"}})
	units := d.Detect([]string{file})

	u := units[file]
	assert.Equal(t, "web-app", u.Project)
	assert.Equal(t, "components", u.Package)
}

func TestDetectFallsBackToDirectoryName(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "lonefile")
	file := filepath.Join(sub, "main.rs")
	writeFile(t, file, "fn main() {}")

	d := modpath.NewDetector(nil)
	units := d.Detect([]string{file})

	u := units[file]
	assert.Equal(t, filepath.Base(sub), u.Project)
}

func TestDetectCachesRootLookupAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), "[package]\nname = \"multi\"\n")
	a := filepath.Join(root, "src", "a.rs")
	b := filepath.Join(root, "src", "b.rs")
	writeFile(t, a, "struct A;")
	writeFile(t, b, "struct B;")

	d := modpath.NewDetector(map[string][]string{"rust": {"src"}})
	units := d.Detect([]string{a, b})

	assert.Equal(t, "multi", units[a].Project)
	assert.Equal(t, "multi", units[b].Project)
}
