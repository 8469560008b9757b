// Package scope builds and queries per-file scope graphs: a directed graph
// of scopes, definitions, imports and references in which each reference is
// resolved, at insertion time, to the definitions or imports it could bind
// to under lexical nesting.
package scope

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"scopegraph/internal/text"
)

// Graph is the scope graph for a single file. It is built once by Build (or
// by direct insert calls in the fixed order: scopes, imports, definitions,
// references) and is read-only afterward.
type Graph struct {
	nodes    []Node
	edges    []Edge
	incoming map[NodeID][]Edge
	outgoing map[NodeID][]Edge

	// Root is the file-spanning scope created at construction.
	Root NodeID

	src []byte

	// Unresolved records references for which no definition or import
	// matched. They are not graph nodes.
	Unresolved []Reference
}

// NewGraph creates a graph whose root scope spans fileRange. src is retained
// for span re-slicing.
func NewGraph(fileRange text.Range, src []byte) *Graph {
	g := &Graph{
		incoming: make(map[NodeID][]Edge),
		outgoing: make(map[NodeID][]Edge),
		src:      src,
	}
	g.Root = g.addNode(Node{Kind: KindScope, Range: fileRange})
	return g
}

func (g *Graph) addNode(n Node) NodeID {
	n.ID = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return n.ID
}

func (g *Graph) addEdge(from, to NodeID, kind EdgeKind) {
	e := Edge{From: from, To: to, Kind: kind}
	g.edges = append(g.edges, e)
	g.incoming[to] = append(g.incoming[to], e)
	g.outgoing[from] = append(g.outgoing[from], e)
}

// Node returns the node for id. It panics on out-of-range ids, which can
// only come from a caller mixing ids across graphs.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// InsertLocalScope adds a scope under the tightest existing scope containing
// r. A scope with no containing scope is dropped.
func (g *Graph) InsertLocalScope(r text.Range) {
	parent, ok := g.ScopeByRange(r, g.Root)
	if !ok {
		slog.Debug("scope: dropping scope with no containing scope", "range", r.String())
		return
	}
	id := g.addNode(Node{Kind: KindScope, Range: r})
	g.addEdge(id, parent, ScopeToScope)
}

// InsertLocalImport adds an import statement under its tightest containing
// scope. Dropped if no scope contains it.
func (g *Graph) InsertLocalImport(stmt ImportStmt) {
	parent, ok := g.ScopeByRange(stmt.Range, g.Root)
	if !ok {
		slog.Debug("scope: dropping import with no containing scope", "stmt", stmt.String())
		return
	}
	id := g.addNode(Node{
		Kind:     KindImport,
		Range:    stmt.Range,
		FromName: stmt.FromName,
		Names:    stmt.Names,
		Aliases:  stmt.Aliases,
	})
	g.addEdge(id, parent, ImportToScope)
}

// InsertLocalDef attaches d to its tightest containing scope.
func (g *Graph) InsertLocalDef(d Def) {
	parent, ok := g.ScopeByRange(d.Range, g.Root)
	if !ok {
		slog.Debug("scope: dropping definition with no containing scope", "name", d.Name)
		return
	}
	id := g.addNode(Node{Kind: KindDefinition, Range: d.Range, Name: d.Name, Symbol: d.Symbol})
	g.addEdge(id, parent, DefToScope)
}

// InsertHoistedDef attaches d one scope above its lexical position: the
// tightest containing scope is located first, then the edge targets that
// scope's parent. With no parent the containing scope itself is used.
func (g *Graph) InsertHoistedDef(d Def) {
	defining, ok := g.ScopeByRange(d.Range, g.Root)
	if !ok {
		slog.Debug("scope: dropping hoisted definition with no containing scope", "name", d.Name)
		return
	}
	target := defining
	if parent, ok := g.ParentScope(defining); ok {
		target = parent
	}
	id := g.addNode(Node{Kind: KindDefinition, Range: d.Range, Name: d.Name, Symbol: d.Symbol})
	g.addEdge(id, target, DefToScope)
}

// InsertGlobalDef attaches d directly to the root scope regardless of its
// lexical position.
func (g *Graph) InsertGlobalDef(d Def) {
	id := g.addNode(Node{Kind: KindDefinition, Range: d.Range, Name: d.Name, Symbol: d.Symbol})
	g.addEdge(id, g.Root, DefToScope)
}

// InsertRef resolves ref against the graph and, when at least one definition
// or import candidate exists, adds a reference node with one RefToDef or
// RefToImport edge per candidate and a RefToOrigin edge to the scope the
// reference occurs in. References with no candidates go to Unresolved.
//
// Definitions and imports must all be inserted before the first InsertRef
// call; resolution happens here, not in a later pass.
func (g *Graph) InsertRef(ref Reference) {
	var defs, imports []NodeID

	origin, ok := g.ScopeByRange(ref.Range, g.Root)
	if ok {
		chain := g.scopeChain(origin)
		defs = defPolicy(g, ref.Name, chain)
		for _, sc := range chain {
			for _, e := range g.incoming[sc] {
				if e.Kind != ImportToScope {
					continue
				}
				if slices.Contains(g.nodes[e.From].Names, ref.Name) {
					imports = append(imports, e.From)
				}
			}
		}
	}

	if len(defs) == 0 && len(imports) == 0 {
		g.Unresolved = append(g.Unresolved, ref)
		return
	}

	id := g.addNode(Node{Kind: KindReference, Range: ref.Range, Name: ref.Name})
	for _, d := range defs {
		g.addEdge(id, d, RefToDef)
	}
	for _, imp := range imports {
		g.addEdge(id, imp, RefToImport)
	}
	g.addEdge(id, origin, RefToOrigin)
}

// resolvePolicy selects candidate definitions for a name along an ancestor
// scope chain (innermost first). It exists so the multi-match behavior can
// be swapped for nearest-wins without touching InsertRef.
type resolvePolicy func(g *Graph, name string, chain []NodeID) []NodeID

// defPolicy is the active policy. resolveAll matches the original behavior:
// one candidate per enclosing scope, collected across the whole chain.
var defPolicy resolvePolicy = resolveAll

func resolveAll(g *Graph, name string, chain []NodeID) []NodeID {
	var out []NodeID
	for _, sc := range chain {
		if d, ok := g.defInScope(sc, name); ok {
			out = append(out, d)
		}
	}
	return out
}

// resolveNearest stops at the first scope in the chain containing a match.
func resolveNearest(g *Graph, name string, chain []NodeID) []NodeID {
	for _, sc := range chain {
		if d, ok := g.defInScope(sc, name); ok {
			return []NodeID{d}
		}
	}
	return nil
}

// defInScope returns the first definition named name attached to sc.
// Duplicate same-named definitions within one scope yield only the first.
func (g *Graph) defInScope(sc NodeID, name string) (NodeID, bool) {
	for _, e := range g.incoming[sc] {
		if e.Kind != DefToScope {
			continue
		}
		if g.nodes[e.From].Name == name {
			return e.From, true
		}
	}
	return 0, false
}

// ScopeByRange descends from start to the innermost scope whose range
// contains r. Returns false when start's own range does not contain r.
func (g *Graph) ScopeByRange(r text.Range, start NodeID) (NodeID, bool) {
	if !g.nodes[start].Range.Contains(r) {
		return 0, false
	}
	for _, e := range g.incoming[start] {
		if e.Kind != ScopeToScope {
			continue
		}
		if child, ok := g.ScopeByRange(r, e.From); ok {
			return child, true
		}
	}
	return start, true
}

// ParentScope returns the enclosing scope of sc, if any.
func (g *Graph) ParentScope(sc NodeID) (NodeID, bool) {
	if g.nodes[sc].Kind != KindScope {
		return 0, false
	}
	for _, e := range g.outgoing[sc] {
		if e.Kind == ScopeToScope {
			return e.To, true
		}
	}
	return 0, false
}

// ChildScopes returns the direct child scopes of sc.
func (g *Graph) ChildScopes(sc NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.incoming[sc] {
		if e.Kind == ScopeToScope {
			out = append(out, e.From)
		}
	}
	return out
}

// scopeChain returns start followed by each enclosing scope out to root.
func (g *Graph) scopeChain(start NodeID) []NodeID {
	chain := []NodeID{start}
	cur := start
	for {
		parent, ok := g.ParentScope(cur)
		if !ok {
			return chain
		}
		chain = append(chain, parent)
		cur = parent
	}
}

// Scopes returns every scope node id, root included.
func (g *Graph) Scopes() []NodeID {
	var out []NodeID
	for _, n := range g.nodes {
		if n.Kind == KindScope {
			out = append(out, n.ID)
		}
	}
	return out
}

// Definitions returns the definitions attached to sc.
func (g *Graph) Definitions(sc NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.incoming[sc] {
		if e.Kind == DefToScope {
			out = append(out, e.From)
		}
	}
	return out
}

// AllDefinitions returns every definition in the graph.
func (g *Graph) AllDefinitions() []Node {
	var out []Node
	for _, sc := range g.Scopes() {
		for _, d := range g.Definitions(sc) {
			out = append(out, g.nodes[d])
		}
	}
	return out
}

// Imports returns the import statements attached to sc.
func (g *Graph) Imports(sc NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.incoming[sc] {
		if e.Kind == ImportToScope {
			out = append(out, e.From)
		}
	}
	return out
}

// AllImports returns every import statement in the graph.
func (g *Graph) AllImports() []Node {
	var out []Node
	for _, sc := range g.Scopes() {
		for _, imp := range g.Imports(sc) {
			out = append(out, g.nodes[imp])
		}
	}
	return out
}

// ReferencesByOrigin returns the references whose origin scope is sc.
func (g *Graph) ReferencesByOrigin(sc NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.incoming[sc] {
		if e.Kind == RefToOrigin {
			out = append(out, e.From)
		}
	}
	return out
}

// Binding is one resolved reference edge flattened for external consumers:
// the referenced name, the kind of target it bound to, and the target span.
type Binding struct {
	Name        string     `json:"name"`
	TargetKind  string     `json:"target_kind"` // "definition" or "import"
	TargetRange text.Range `json:"target_range"`
}

// ResolvedBindings flattens every RefToDef and RefToImport edge.
func (g *Graph) ResolvedBindings() []Binding {
	var out []Binding
	for _, e := range g.edges {
		switch e.Kind {
		case RefToDef:
			out = append(out, Binding{
				Name:        g.nodes[e.From].Name,
				TargetKind:  "definition",
				TargetRange: g.nodes[e.To].Range,
			})
		case RefToImport:
			out = append(out, Binding{
				Name:        g.nodes[e.From].Name,
				TargetKind:  "import",
				TargetRange: g.nodes[e.To].Range,
			})
		}
	}
	return out
}

// UnresolvedNames returns the names of all unresolved references, in
// insertion order.
func (g *Graph) UnresolvedNames() []string {
	out := make([]string, len(g.Unresolved))
	for i, ref := range g.Unresolved {
		out[i] = ref.Name
	}
	return out
}

// SpanText decodes the source bytes covered by r.
func (g *Graph) SpanText(r text.Range) string {
	if g.src == nil || r.StartByte < 0 || r.EndByte > len(g.src) || r.StartByte > r.EndByte {
		return ""
	}
	return string(g.src[r.StartByte:r.EndByte])
}

// String renders every edge for debugging.
func (g *Graph) String() string {
	var b strings.Builder
	for _, e := range g.edges {
		from, to := g.nodes[e.From], g.nodes[e.To]
		fmt.Fprintf(&b, "%d:%s(%s) --%s--> %d:%s(%s)\n",
			e.From, from.Kind, from.Name, e.Kind, e.To, to.Kind, to.Name)
	}
	return b.String()
}
