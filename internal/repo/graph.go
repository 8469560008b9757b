package repo

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"scopegraph/internal/scope"
)

// NodeKey is the composite identity of a repo-graph node: a scope in a file.
type NodeKey struct {
	File  string       `json:"file"`
	Scope scope.NodeID `json:"scope"`
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s::%d", k.File, k.Scope)
}

// Node is one lazily-created repo-graph node.
type Node struct {
	Key  NodeKey
	Name string // base name of the file, for display
}

// Edge is an ImportToExport edge between two node arena indices: a
// reference-origin scope in the importing file and an exported definition's
// scope in the target file.
type Edge struct {
	From int
	To   int
}

// Graph is the repository-wide graph over all per-file scope graphs. Nodes
// are created on demand while linking local imports to exports; the graph
// is append-only during Build and read-only afterward.
type Graph struct {
	// Scopes holds the per-file scope graphs the repo graph was built over.
	Scopes map[string]*scope.Graph

	nodes []Node
	index map[NodeKey]int
	edges []Edge

	imports  map[string][]LocalImport
	missing  map[string][]string
	resolved map[string][]string
}

// BuildGraph links the per-file scope graphs into a repo graph. All scope
// graphs must be complete before the call: export discovery reads target
// files' graphs. Files are processed in sorted path order so the result is
// deterministic.
func BuildGraph(scopes map[string]*scope.Graph, m Matcher, sys, third *Modules) *Graph {
	g := &Graph{
		Scopes:   scopes,
		index:    make(map[NodeKey]int),
		imports:  make(map[string][]LocalImport),
		missing:  make(map[string][]string),
		resolved: make(map[string][]string),
	}

	paths := make([]string, 0, len(scopes))
	for p := range scopes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		imps := ImportsFromGraph(scopes[path], path, m, sys, third)
		g.imports[path] = imps
		for _, imp := range imps {
			g.missing[path] = append(g.missing[path], imp.NameSpace.String())
		}
	}

	for _, path := range paths {
		for _, imp := range g.imports[path] {
			if imp.ModuleType != ModuleLocal {
				continue
			}
			g.linkImport(path, imp)
		}
	}
	return g
}

// linkImport connects one local import to the matching exports of its
// target file, creating repo nodes and edges and moving the namespace from
// missing to resolved on the first successful link.
func (g *Graph) linkImport(path string, imp LocalImport) {
	target := imp.TargetFile

	// A package marker file stands for the package itself, not an
	// importable definition set.
	if filepath.Base(target) == "__init__.py" {
		return
	}
	targetGraph, ok := g.Scopes[target]
	if !ok {
		return
	}

	for _, exp := range exports(targetGraph) {
		if imp.NameSpace.Child != exp.name {
			continue
		}
		for _, refScope := range imp.RefScopes {
			from := g.ensureNode(NodeKey{File: path, Scope: refScope})
			g.markResolved(path, imp.NameSpace.String())
			to := g.ensureNode(NodeKey{File: target, Scope: exp.scope})
			g.edges = append(g.edges, Edge{From: from, To: to})
		}
	}
}

type export struct {
	name  string
	scope scope.NodeID
}

// exports returns the definitions other files may import from sg: class- or
// function-like definitions attached to the root scope's direct children.
// Definitions attached to the root pseudo-scope itself are excluded — root
// wraps the file, and the module scope below it carries the real top level.
func exports(sg *scope.Graph) []export {
	outer := append([]scope.NodeID{sg.Root}, sg.ChildScopes(sg.Root)...)

	var out []export
	for _, sc := range outer {
		if sc == sg.Root {
			continue
		}
		for _, defID := range sg.Definitions(sc) {
			def := sg.Node(defID)
			switch def.Symbol {
			case "class", "function", "method":
				out = append(out, export{name: def.Name, scope: sc})
			}
		}
	}
	return out
}

// ensureNode returns the arena index for key, creating the node on first
// use.
func (g *Graph) ensureNode(key NodeKey) int {
	if i, ok := g.index[key]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, Node{Key: key, Name: filepath.Base(key.File)})
	g.index[key] = i
	return i
}

// markResolved moves ns out of path's missing list and appends it to the
// resolved list. Repeat calls for further ref scopes keep appending:
// duplicates are tolerated, and a resolved namespace never reverts.
func (g *Graph) markResolved(path, ns string) {
	kept := g.missing[path][:0]
	for _, m := range g.missing[path] {
		if m != ns {
			kept = append(kept, m)
		}
	}
	g.missing[path] = kept
	g.resolved[path] = append(g.resolved[path], ns)
}

// Imports returns the classified imports of one file.
func (g *Graph) Imports(path string) []LocalImport {
	return g.imports[path]
}

// Missing returns the namespace strings of path's imports that never linked
// to an export.
func (g *Graph) Missing(path string) []string {
	return g.missing[path]
}

// Resolved returns the namespace strings of path's imports that linked to
// at least one export (with one entry per linked ref scope).
func (g *Graph) Resolved(path string) []string {
	return g.resolved[path]
}

// Node returns the node at arena index i.
func (g *Graph) Node(i int) Node {
	return g.nodes[i]
}

// Len returns the number of repo nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Edges returns every ImportToExport edge.
func (g *Graph) Edges() []Edge { return g.edges }

// ExportTargets returns the nodes reachable from key over ImportToExport
// edges.
func (g *Graph) ExportTargets(key NodeKey) []Node {
	i, ok := g.index[key]
	if !ok {
		return nil
	}
	var out []Node
	for _, e := range g.edges {
		if e.From == i {
			out = append(out, g.nodes[e.To])
		}
	}
	return out
}

// Tally is the per-file import resolution bookkeeping summary.
type Tally struct {
	File     string `json:"file"`
	Missing  int    `json:"missing"`
	Resolved int    `json:"resolved"`
}

// Tallies reports, per file in sorted order, how many imported namespaces
// linked to an export and how many never did.
func (g *Graph) Tallies() []Tally {
	paths := make([]string, 0, len(g.imports))
	for p := range g.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]Tally, 0, len(paths))
	for _, p := range paths {
		out = append(out, Tally{
			File:     p,
			Missing:  len(g.missing[p]),
			Resolved: len(g.resolved[p]),
		})
	}
	return out
}

// String renders every edge for debugging.
func (g *Graph) String() string {
	var b strings.Builder
	for _, e := range g.edges {
		fmt.Fprintf(&b, "%s -> %s\n", g.nodes[e.From].Key, g.nodes[e.To].Key)
	}
	return b.String()
}
