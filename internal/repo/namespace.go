// Package repo links per-file scope graphs across a repository: it derives
// namespaces from import statements, classifies them against module name
// sets and the filesystem, and connects import references to the exported
// definitions they name in other files.
package repo

import (
	"path/filepath"
	"strings"

	"scopegraph/internal/scope"
)

// NameSpace is the dotted path derived from one imported name: Root alone
// for a bare "import root", Root plus Child for "from root import child".
type NameSpace struct {
	Root  string `json:"root"`
	Child string `json:"child,omitempty"`
}

func (ns NameSpace) String() string {
	if ns.Child == "" {
		return ns.Root
	}
	return ns.Root + "." + ns.Child
}

// RootToken is the first dotted segment of Root, the token checked against
// the module name sets.
func (ns NameSpace) RootToken() string {
	root, _, _ := strings.Cut(ns.Root, ".")
	return root
}

// Path converts the namespace to a filesystem-style relative path for
// local-module matching: dots become path separators.
func (ns NameSpace) Path() string {
	parts := strings.Split(ns.Root, ".")
	if ns.Child != "" {
		parts = append(parts, ns.Child)
	}
	return filepath.Join(parts...)
}

// NamespacesFromImport expands one import statement into namespaces: a
// "from X import a, b" statement yields one namespace per imported name
// with Root X; a bare "import a, b" yields one rootonly namespace per name.
func NamespacesFromImport(stmt scope.ImportStmt) []NameSpace {
	out := make([]NameSpace, 0, len(stmt.Names))
	if stmt.FromName != "" {
		for _, name := range stmt.Names {
			out = append(out, NameSpace{Root: stmt.FromName, Child: name})
		}
		return out
	}
	for _, name := range stmt.Names {
		out = append(out, NameSpace{Root: name})
	}
	return out
}
