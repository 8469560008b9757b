// Package lang is the registry of supported languages: tree-sitter grammar,
// file extensions, and the locals query whose captures drive scope graph
// construction.
package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language describes one supported source language.
type Language struct {
	// Name is the canonical language name ("python", "java").
	Name string

	// Extensions are the file extensions handled by this language,
	// dot included.
	Extensions []string

	// Grammar is the tree-sitter grammar.
	Grammar *sitter.Language

	// LocalsQuery is the tree-sitter query source producing the tagged
	// captures consumed by the scope package: local.scope,
	// <scoping>.definition[.<symbol>], local.reference and
	// local.import.* patterns.
	LocalsQuery string

	// InitFile is the file a bare package directory resolves to when a
	// namespace is matched on the filesystem ("__init__.py" for python,
	// empty when the language has no package marker file).
	InitFile string
}

// Registry holds every supported language keyed by name. Entries register
// from init funcs in per-language files.
var Registry = map[string]*Language{}

// ForFile returns the language handling path's extension.
func ForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range Registry {
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return nil, false
}

// Get returns the language registered under name.
func Get(name string) (*Language, bool) {
	l, ok := Registry[name]
	return l, ok
}

// Names returns the registered language names.
func Names() []string {
	out := make([]string, 0, len(Registry))
	for name := range Registry {
		out = append(out, name)
	}
	return out
}
