package repo

import (
	"scopegraph/internal/scope"
)

// ModuleType classifies where an imported namespace lives.
type ModuleType int

const (
	ModuleUnknown ModuleType = iota
	ModuleLocal
	ModuleSys
	ModuleThirdParty
)

func (t ModuleType) String() string {
	switch t {
	case ModuleLocal:
		return "local"
	case ModuleSys:
		return "sys"
	case ModuleThirdParty:
		return "third_party"
	case ModuleUnknown:
		return "unknown"
	}
	return "unknown"
}

// LocalImport is one classified imported namespace in one source file.
// RefScopes are the scopes in the source file containing a resolved
// reference whose name equals the namespace's leaf identifier.
type LocalImport struct {
	NameSpace  NameSpace
	ModuleType ModuleType
	SourceFile string

	// TargetFile is the matched file for ModuleLocal imports, empty
	// otherwise.
	TargetFile string

	RefScopes []scope.NodeID
}

// ImportsFromGraph expands and classifies every import statement in one
// file's scope graph. Classification order: system set, third-party set,
// filesystem match, otherwise unknown.
func ImportsFromGraph(g *scope.Graph, file string, m Matcher, sys, third *Modules) []LocalImport {
	var out []LocalImport
	for _, stmtNode := range g.AllImports() {
		stmt := scope.ImportStmt{
			Range:    stmtNode.Range,
			FromName: stmtNode.FromName,
			Names:    stmtNode.Names,
			Aliases:  stmtNode.Aliases,
		}
		for _, ns := range NamespacesFromImport(stmt) {
			imp := LocalImport{
				NameSpace:  ns,
				ModuleType: ModuleUnknown,
				SourceFile: file,
			}
			switch {
			case sys.Check(ns.RootToken()):
				imp.ModuleType = ModuleSys
			case third.Check(ns.RootToken()):
				imp.ModuleType = ModuleThirdParty
			default:
				if target, ok := matchLocal(m, ns); ok {
					imp.ModuleType = ModuleLocal
					imp.TargetFile = target
				}
			}
			imp.RefScopes = refScopes(g, ns)
			out = append(out, imp)
		}
	}
	return out
}

// matchLocal resolves ns against the filesystem. The full dotted path is
// tried first (the leaf may itself be a submodule), then the root alone —
// "from mod import symbol" names a file by its root, not its leaf.
func matchLocal(m Matcher, ns NameSpace) (string, bool) {
	if target, ok := m.MatchFile(ns.Path()); ok {
		return target, true
	}
	if ns.Child != "" {
		return m.MatchFile(NameSpace{Root: ns.Root}.Path())
	}
	return "", false
}

// refScopes collects the scopes containing a resolved reference to the
// namespace's leaf identifier. Bare imports have no leaf to match.
func refScopes(g *scope.Graph, ns NameSpace) []scope.NodeID {
	if ns.Child == "" {
		return nil
	}
	var out []scope.NodeID
	for _, sc := range g.Scopes() {
		for _, ref := range g.ReferencesByOrigin(sc) {
			if g.Node(ref).Name == ns.Child {
				out = append(out, sc)
			}
		}
	}
	return out
}
