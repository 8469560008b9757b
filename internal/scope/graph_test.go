package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopegraph/internal/text"
)

// br builds a byte-only range; rows are irrelevant for containment search.
func br(start, end int) text.Range {
	return text.Range{StartByte: start, EndByte: end}
}

// nestedGraph builds root(0,1000) ⊃ s1(100,900) ⊃ s2(200,800).
func nestedGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph(br(0, 1000), nil)
	g.InsertLocalScope(br(100, 900))
	g.InsertLocalScope(br(200, 800))
	require.Len(t, g.Scopes(), 3)
	return g
}

// scopeAt returns the scope node whose range matches exactly.
func scopeAt(t *testing.T, g *Graph, r text.Range) NodeID {
	t.Helper()
	for _, sc := range g.Scopes() {
		if g.Node(sc).Range == r {
			return sc
		}
	}
	t.Fatalf("no scope with range %v", r)
	return 0
}

func edgesOfKind(g *Graph, kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestInsertLocalScope_NestsUnderTightestScope(t *testing.T) {
	g := nestedGraph(t)

	s1 := scopeAt(t, g, br(100, 900))
	s2 := scopeAt(t, g, br(200, 800))

	parent, ok := g.ParentScope(s2)
	require.True(t, ok)
	assert.Equal(t, s1, parent)

	parent, ok = g.ParentScope(s1)
	require.True(t, ok)
	assert.Equal(t, g.Root, parent)

	_, ok = g.ParentScope(g.Root)
	assert.False(t, ok)
}

func TestInsertLocalScope_OutsideRootIsDropped(t *testing.T) {
	g := NewGraph(br(0, 100), nil)
	g.InsertLocalScope(br(50, 200))
	assert.Len(t, g.Scopes(), 1)
}

func TestScopeByRange_ReturnsInnermost(t *testing.T) {
	g := nestedGraph(t)
	s2 := scopeAt(t, g, br(200, 800))

	got, ok := g.ScopeByRange(br(300, 310), g.Root)
	require.True(t, ok)
	assert.Equal(t, s2, got)

	// Inside s1 but outside s2.
	s1 := scopeAt(t, g, br(100, 900))
	got, ok = g.ScopeByRange(br(110, 120), g.Root)
	require.True(t, ok)
	assert.Equal(t, s1, got)

	// Outside the root entirely.
	_, ok = g.ScopeByRange(br(2000, 2010), g.Root)
	assert.False(t, ok)
}

func TestInsertRef_ShadowingCollectsCandidatePerScope(t *testing.T) {
	// x defined in root and in s1; a reference inside s2 binds to both,
	// one candidate per enclosing scope.
	g := nestedGraph(t)
	g.InsertLocalDef(Def{Range: br(10, 11), Name: "x", Symbol: "variable"})
	g.InsertLocalDef(Def{Range: br(110, 111), Name: "x", Symbol: "variable"})

	g.InsertRef(Reference{Range: br(300, 301), Name: "x"})

	refToDef := edgesOfKind(g, RefToDef)
	assert.Len(t, refToDef, 2)

	refToOrigin := edgesOfKind(g, RefToOrigin)
	require.Len(t, refToOrigin, 1)
	assert.Equal(t, scopeAt(t, g, br(200, 800)), refToOrigin[0].To)
	assert.Empty(t, g.Unresolved)
}

func TestInsertRef_DuplicateDefsInOneScopeYieldOneCandidate(t *testing.T) {
	g := nestedGraph(t)
	g.InsertLocalDef(Def{Range: br(10, 11), Name: "x", Symbol: "variable"})
	g.InsertLocalDef(Def{Range: br(20, 21), Name: "x", Symbol: "variable"})

	g.InsertRef(Reference{Range: br(300, 301), Name: "x"})

	refToDef := edgesOfKind(g, RefToDef)
	require.Len(t, refToDef, 1)
	// The first-inserted definition wins.
	assert.Equal(t, br(10, 11), g.Node(refToDef[0].To).Range)
}

func TestInsertRef_UnresolvedIsRecordedNotInserted(t *testing.T) {
	g := nestedGraph(t)
	before := g.Len()

	g.InsertRef(Reference{Range: br(300, 301), Name: "missing"})

	assert.Equal(t, before, g.Len())
	require.Len(t, g.Unresolved, 1)
	assert.Equal(t, []string{"missing"}, g.UnresolvedNames())
}

func TestInsertRef_ResolvesThroughImports(t *testing.T) {
	g := nestedGraph(t)
	g.InsertLocalImport(ImportStmt{Range: br(5, 30), FromName: "pkg", Names: []string{"helper"}})

	g.InsertRef(Reference{Range: br(300, 306), Name: "helper"})

	assert.Len(t, edgesOfKind(g, RefToImport), 1)
	assert.Empty(t, edgesOfKind(g, RefToDef))
	assert.Empty(t, g.Unresolved)
}

func TestInsertRef_CollectsAllMatchingImportsAcrossChain(t *testing.T) {
	g := nestedGraph(t)
	g.InsertLocalImport(ImportStmt{Range: br(5, 30), Names: []string{"helper"}})
	g.InsertLocalImport(ImportStmt{Range: br(105, 130), Names: []string{"helper"}})

	g.InsertRef(Reference{Range: br(300, 306), Name: "helper"})

	// Unlike definitions there is no per-scope cap: both imports match.
	assert.Len(t, edgesOfKind(g, RefToImport), 2)
}

func TestInsertHoistedDef_AttachesToParentScope(t *testing.T) {
	g := nestedGraph(t)
	g.InsertHoistedDef(Def{Range: br(300, 301), Name: "f", Symbol: "function"})

	defs := edgesOfKind(g, DefToScope)
	require.Len(t, defs, 1)
	assert.Equal(t, scopeAt(t, g, br(100, 900)), defs[0].To)
}

func TestInsertHoistedDef_RootFallsBackToItself(t *testing.T) {
	g := NewGraph(br(0, 1000), nil)
	g.InsertHoistedDef(Def{Range: br(10, 11), Name: "f", Symbol: "function"})

	defs := edgesOfKind(g, DefToScope)
	require.Len(t, defs, 1)
	assert.Equal(t, g.Root, defs[0].To)
}

func TestInsertGlobalDef_AlwaysAttachesToRoot(t *testing.T) {
	g := nestedGraph(t)
	g.InsertGlobalDef(Def{Range: br(300, 301), Name: "g", Symbol: "variable"})

	defs := edgesOfKind(g, DefToScope)
	require.Len(t, defs, 1)
	assert.Equal(t, g.Root, defs[0].To)
}

func TestContainmentInvariant(t *testing.T) {
	// Every non-global node's attaching scope contains the node's range.
	g := nestedGraph(t)
	g.InsertLocalImport(ImportStmt{Range: br(5, 30), Names: []string{"os"}})
	g.InsertLocalDef(Def{Range: br(110, 111), Name: "x", Symbol: "variable"})
	g.InsertLocalDef(Def{Range: br(210, 211), Name: "y", Symbol: "variable"})
	g.InsertRef(Reference{Range: br(300, 301), Name: "x"})

	for _, e := range g.Edges() {
		switch e.Kind {
		case DefToScope, ImportToScope, RefToOrigin:
			scopeRange := g.Node(e.To).Range
			nodeRange := g.Node(e.From).Range
			assert.True(t, scopeRange.Contains(nodeRange),
				"scope %v should contain %s %v", scopeRange, g.Node(e.From).Kind, nodeRange)
		}
	}
}

func TestResolutionCompleteness(t *testing.T) {
	// Each reference is either unresolved or a node with >=1 binding edge
	// and exactly one origin edge.
	g := nestedGraph(t)
	g.InsertLocalDef(Def{Range: br(10, 11), Name: "x", Symbol: "variable"})
	g.InsertRef(Reference{Range: br(300, 301), Name: "x"})
	g.InsertRef(Reference{Range: br(310, 311), Name: "nope"})

	var refNodes []NodeID
	for id := NodeID(0); int(id) < g.Len(); id++ {
		if g.Node(id).Kind == KindReference {
			refNodes = append(refNodes, id)
		}
	}
	require.Len(t, refNodes, 1)
	require.Len(t, g.Unresolved, 1)

	var bindings, origins int
	for _, e := range g.Edges() {
		if e.From != refNodes[0] {
			continue
		}
		switch e.Kind {
		case RefToDef, RefToImport:
			bindings++
		case RefToOrigin:
			origins++
		}
	}
	assert.GreaterOrEqual(t, bindings, 1)
	assert.Equal(t, 1, origins)
}

func TestResolveNearest_StopsAtFirstMatchingScope(t *testing.T) {
	orig := defPolicy
	defPolicy = resolveNearest
	defer func() { defPolicy = orig }()

	g := nestedGraph(t)
	g.InsertLocalDef(Def{Range: br(10, 11), Name: "x", Symbol: "variable"})
	g.InsertLocalDef(Def{Range: br(110, 111), Name: "x", Symbol: "variable"})

	g.InsertRef(Reference{Range: br(300, 301), Name: "x"})

	refToDef := edgesOfKind(g, RefToDef)
	require.Len(t, refToDef, 1)
	// Innermost definition wins under nearest-first.
	assert.Equal(t, br(110, 111), g.Node(refToDef[0].To).Range)
}

func TestResolvedBindings(t *testing.T) {
	g := nestedGraph(t)
	g.InsertLocalDef(Def{Range: br(10, 11), Name: "x", Symbol: "variable"})
	g.InsertLocalImport(ImportStmt{Range: br(5, 30), Names: []string{"y"}})
	g.InsertRef(Reference{Range: br(300, 301), Name: "x"})
	g.InsertRef(Reference{Range: br(310, 311), Name: "y"})

	bindings := g.ResolvedBindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "x", bindings[0].Name)
	assert.Equal(t, "definition", bindings[0].TargetKind)
	assert.Equal(t, "y", bindings[1].Name)
	assert.Equal(t, "import", bindings[1].TargetKind)
}

func TestSpanText(t *testing.T) {
	src := []byte("def foo(): pass")
	g := NewGraph(br(0, len(src)), src)

	assert.Equal(t, "foo", g.SpanText(br(4, 7)))
	assert.Equal(t, "", g.SpanText(br(4, 999)))
}
