package scope

import (
	"strings"

	"scopegraph/internal/text"
)

// NodeID identifies a node within one file's Graph. IDs are arena indices
// allocated in insertion order and are not meaningful across files.
type NodeID int

// NodeKind discriminates the tagged union of graph nodes.
type NodeKind int

const (
	KindScope NodeKind = iota
	KindDefinition
	KindImport
	KindReference
)

func (k NodeKind) String() string {
	switch k {
	case KindScope:
		return "scope"
	case KindDefinition:
		return "definition"
	case KindImport:
		return "import"
	case KindReference:
		return "reference"
	}
	return "unknown"
}

// EdgeKind types the directed edges between nodes.
type EdgeKind int

const (
	// ScopeToScope connects a child scope to its enclosing parent scope.
	ScopeToScope EdgeKind = iota
	// DefToScope connects a definition to the scope it is visible in.
	DefToScope
	// ImportToScope connects an import statement to its enclosing scope.
	ImportToScope
	// RefToDef connects a resolved reference to a candidate definition.
	RefToDef
	// RefToImport connects a resolved reference to a candidate import.
	RefToImport
	// RefToOrigin connects a resolved reference to the scope it occurs in.
	RefToOrigin
)

func (k EdgeKind) String() string {
	switch k {
	case ScopeToScope:
		return "ScopeToScope"
	case DefToScope:
		return "DefToScope"
	case ImportToScope:
		return "ImportToScope"
	case RefToDef:
		return "RefToDef"
	case RefToImport:
		return "RefToImport"
	case RefToOrigin:
		return "RefToOrigin"
	}
	return "unknown"
}

// Node is one entry in a Graph. Kind selects which fields are meaningful:
// every node carries a Range; definitions and references carry a Name;
// definitions carry a Symbol classification; imports carry FromName, Names
// and Aliases.
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Range text.Range

	Name   string
	Symbol string

	FromName string
	Names    []string
	Aliases  []string
}

// Edge is a typed directed edge between two nodes.
type Edge struct {
	From NodeID
	To   NodeID
	Kind EdgeKind
}

// Scoping classifies where a definition's name becomes visible.
type Scoping int

const (
	// ScopingLocal attaches the definition to its tightest enclosing scope.
	ScopingLocal Scoping = iota
	// ScopingHoisted attaches it one scope higher than its lexical position.
	ScopingHoisted
	// ScopingGlobal attaches it to the file's root scope.
	ScopingGlobal
)

func (s Scoping) String() string {
	switch s {
	case ScopingGlobal:
		return "global"
	case ScopingHoisted:
		return "hoist"
	case ScopingLocal:
		return "local"
	}
	return "unknown"
}

// Def is a definition to be inserted: the span of its name, the name decoded
// from source, and its symbol classification (class, function, variable, ...).
type Def struct {
	Range  text.Range
	Name   string
	Symbol string
}

// Reference is a use of a name to be inserted and resolved.
type Reference struct {
	Range text.Range
	Name  string
}

// ImportStmt is a statement-level import reassembled from its parts.
type ImportStmt struct {
	Range    text.Range
	FromName string
	Names    []string
	Aliases  []string
}

// String renders the statement close to its source form, for diagnostics.
func (s ImportStmt) String() string {
	var b strings.Builder
	if s.FromName != "" {
		b.WriteString("from ")
		b.WriteString(s.FromName)
		b.WriteString(" ")
	}
	b.WriteString("import ")
	b.WriteString(strings.Join(s.Names, ", "))
	if len(s.Aliases) > 0 {
		b.WriteString(" as ")
		b.WriteString(strings.Join(s.Aliases, ", "))
	}
	return b.String()
}
