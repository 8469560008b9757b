package lang

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"pkg/mod.py", "python", true},
		{"SRC/Main.PY", "python", true},
		{"com/example/App.java", "java", true},
		{"main.go", "", false},
		{"README", "", false},
	}
	for _, tt := range tests {
		l, ok := ForFile(tt.path)
		require.Equal(t, tt.ok, ok, tt.path)
		if ok {
			assert.Equal(t, tt.want, l.Name)
		}
	}
}

func TestGet(t *testing.T) {
	l, ok := Get("python")
	require.True(t, ok)
	assert.Equal(t, "__init__.py", l.InitFile)

	_, ok = Get("cobol")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "python")
	assert.Contains(t, names, "java")
}

// The locals queries must compile against their grammars; a typo in a node
// or field name only surfaces here.
func TestLocalsQueriesCompile(t *testing.T) {
	for name, l := range Registry {
		t.Run(name, func(t *testing.T) {
			q, err := sitter.NewQuery([]byte(l.LocalsQuery), l.Grammar)
			require.NoError(t, err)
			q.Close()
		})
	}
}
