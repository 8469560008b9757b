package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopegraph/internal/repo"
	"scopegraph/internal/scope"
	"scopegraph/internal/text"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func br(start, end int) text.Range {
	return text.Range{StartByte: start, EndByte: end}
}

// fixtureGraph has a module scope, a function scope, an import of foo from
// a, a hoisted def bar, a resolved reference to foo and an unresolved one.
func fixtureGraph() *scope.Graph {
	g := scope.NewGraph(br(0, 100), nil)
	g.InsertLocalScope(br(0, 100))
	g.InsertLocalScope(br(30, 90))
	g.InsertLocalImport(scope.ImportStmt{
		Range: br(0, 20), FromName: "a",
		Names: []string{"foo"}, Aliases: []string{"f"},
	})
	g.InsertHoistedDef(scope.Def{Range: br(34, 37), Name: "bar", Symbol: "function"})
	g.InsertRef(scope.Reference{Range: br(50, 53), Name: "foo"})
	g.InsertRef(scope.Reference{Range: br(60, 64), Name: "ghost"})
	return g
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestSaveFileGraph(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveFileGraph("b.py", "python", fixtureGraph())
	require.NoError(t, err)

	files, err := s.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b.py", files[0].Path)
	assert.Equal(t, "python", files[0].Language)

	defs, err := s.Definitions("bar")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Symbol)
	assert.Equal(t, 34, defs[0].StartByte)

	refs, err := s.References("foo")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 1, refs[0].Bindings)

	unresolved, err := s.Unresolved()
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "ghost", unresolved[0].Name)
}

func TestSaveFileGraph_ReplacesExistingRows(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveFileGraph("b.py", "python", fixtureGraph())
	require.NoError(t, err)
	_, err = s.SaveFileGraph("b.py", "python", fixtureGraph())
	require.NoError(t, err)

	files, err := s.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)

	refs, err := s.References("")
	require.NoError(t, err)
	assert.Len(t, refs, 1)

	defs, err := s.Definitions("")
	require.NoError(t, err)
	assert.Len(t, defs, 1)
}

type fakeMatcher map[string]string

func (f fakeMatcher) MatchFile(relPath string) (string, bool) {
	p, ok := f[relPath]
	return p, ok
}

func TestSaveRepoGraph(t *testing.T) {
	s := newTestStore(t)

	a := scope.NewGraph(br(0, 100), nil)
	a.InsertLocalScope(br(0, 100))
	a.InsertLocalScope(br(10, 60))
	a.InsertHoistedDef(scope.Def{Range: br(14, 17), Name: "foo", Symbol: "function"})
	b := fixtureGraph()

	_, err := s.SaveFileGraph("a.py", "python", a)
	require.NoError(t, err)
	_, err = s.SaveFileGraph("b.py", "python", b)
	require.NoError(t, err)

	rg := repo.BuildGraph(map[string]*scope.Graph{"a.py": a, "b.py": b},
		fakeMatcher{"a": "a.py"},
		repo.SysModules("python"), repo.ThirdPartyModules("python"))
	require.NoError(t, s.SaveRepoGraph(rg))

	namespaces, err := s.Namespaces()
	require.NoError(t, err)
	require.Len(t, namespaces, 1)
	assert.Equal(t, "a.foo", namespaces[0].Namespace)
	assert.Equal(t, "local", namespaces[0].ModuleType)
	assert.Equal(t, "a.py", namespaces[0].TargetFile)
	assert.Equal(t, "resolved", namespaces[0].Status)

	edges, err := s.ImportEdges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "b.py", edges[0].SourceFile)
	assert.Equal(t, "a.py", edges[0].TargetFile)

	tallies, err := s.Tallies()
	require.NoError(t, err)
	require.Len(t, tallies, 1)
	assert.Equal(t, TallyRow{File: "b.py", Missing: 0, Resolved: 1}, tallies[0])
}

func TestSaveRepoGraph_UnsavedFileFails(t *testing.T) {
	s := newTestStore(t)

	b := fixtureGraph()
	rg := repo.BuildGraph(map[string]*scope.Graph{"b.py": b}, fakeMatcher{},
		repo.SysModules("python"), repo.ThirdPartyModules("python"))

	err := s.SaveRepoGraph(rg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not saved")
}

func TestDeleteFileData(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveFileGraph("b.py", "python", fixtureGraph())
	require.NoError(t, err)
	require.NoError(t, s.DeleteFileData(id))

	files, err := s.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, files)

	refs, err := s.References("")
	require.NoError(t, err)
	assert.Empty(t, refs)

	// Deleting an unknown id is a no-op.
	require.NoError(t, s.DeleteFileData(9999))
}
