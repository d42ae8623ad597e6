// Package module resolves `require` paths to source text and caches
// module exports so a module is only ever executed once, however many
// times it's required.
//
// The add_file/get_file in-memory registration style (as opposed to
// always hitting the filesystem) is grounded on CWBudde-go-dws's
// internal/units, which keeps a Unit's source and resolved path
// together so embedders (tests, a playground) can supply sources
// without touching disk.
package module

import (
	"os"
	"path/filepath"
	"strings"

	"clou/internal/cerrors"
)

// Loader resolves require() paths and caches each module's export value
// so a cyclic or repeated require returns the same object instead of
// re-executing the module body.
type Loader struct {
	files  map[string]string // resolved path -> source text
	cache  map[string]any    // resolved path -> exports value
	order  []string          // resolution order, for diagnostics
}

// NewLoader creates an empty Loader; files are resolved from disk unless
// pre-registered with AddFile.
func NewLoader() *Loader {
	return &Loader{files: make(map[string]string), cache: make(map[string]any)}
}

// AddFile registers source text under path without touching disk, letting
// embedders (tests, the CLI's entry script) supply modules synthetically.
func (l *Loader) AddFile(path, source string) {
	l.files[filepath.Clean(path)] = source
}

// Resolve turns a require() argument into a canonical module path,
// relative to currentDir (the requiring file's directory). It tries, in
// order: the path as given, the path with ".clou" appended, the path
// joined under currentDir, and the ".clou"-suffixed path joined under
// currentDir.
func (l *Loader) Resolve(path, currentDir string) (string, error) {
	candidates := []string{path}
	if !strings.HasSuffix(path, ".clou") {
		candidates = append(candidates, path+".clou")
	}
	if currentDir != "" {
		candidates = append(candidates, filepath.Join(currentDir, path))
		if !strings.HasSuffix(path, ".clou") {
			candidates = append(candidates, filepath.Join(currentDir, path+".clou"))
		}
	}

	for _, c := range candidates {
		c = filepath.Clean(c)
		if _, ok := l.files[c]; ok {
			return c, nil
		}
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", cerrors.NewRuntimeError("cannot resolve module '%s'", path)
}

// Source returns the text of the module at resolvedPath, reading it from
// disk if it wasn't pre-registered with AddFile.
func (l *Loader) Source(resolvedPath string) (string, error) {
	if src, ok := l.files[resolvedPath]; ok {
		return src, nil
	}
	data, err := os.ReadFile(resolvedPath)
	if err != nil {
		return "", cerrors.NewRuntimeError("cannot read module '%s': %s", resolvedPath, err)
	}
	src := string(data)
	l.files[resolvedPath] = src
	return src, nil
}

// Cached returns the cached exports value for resolvedPath, if any.
func (l *Loader) Cached(resolvedPath string) (any, bool) {
	v, ok := l.cache[resolvedPath]
	return v, ok
}

// Cache stores exports as the cached value for resolvedPath. Called
// before a module body executes (not after), so a module that requires
// itself transitively observes its own partially-populated exports
// instead of recursing forever.
func (l *Loader) Cache(resolvedPath string, exports any) {
	if _, ok := l.cache[resolvedPath]; !ok {
		l.order = append(l.order, resolvedPath)
	}
	l.cache[resolvedPath] = exports
}

// ClearCache drops all cached exports and the recorded cache order, so the
// next require() of any module runs its body again. Registered source
// text is kept. The REPL does not call it: one Loader and its cache are
// shared across a whole session.
func (l *Loader) ClearCache() {
	l.cache = make(map[string]any)
	l.order = nil
}

// Dir returns the directory resolvedPath lives in, used as the
// current_dir a nested require() resolves against.
func Dir(resolvedPath string) string {
	return filepath.Dir(resolvedPath)
}
