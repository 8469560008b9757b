package repo

import (
	"os"
	"path/filepath"
)

// Matcher resolves a namespace's path-like form to a source file, if one
// exists under the repository root.
type Matcher interface {
	// MatchFile returns the matched file's path (in the same key space as
	// the scope-graph map) and whether a match was found.
	MatchFile(relPath string) (string, bool)
}

// DirMatcher matches namespace paths against files on disk under Root. A
// path matches either "<path><Ext>" or, when InitFile is set, the package
// marker "<path>/<InitFile>".
type DirMatcher struct {
	Root     string
	Ext      string
	InitFile string
}

// MatchFile returns matched paths relative to Root, the key space the
// per-file scope graphs are stored under.
func (m DirMatcher) MatchFile(relPath string) (string, bool) {
	cand := relPath + m.Ext
	if isFile(filepath.Join(m.Root, cand)) {
		return cand, true
	}
	if m.InitFile != "" {
		cand = filepath.Join(relPath, m.InitFile)
		if isFile(filepath.Join(m.Root, cand)) {
			return cand, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
