// Package discover finds parseable source files under a repository root.
package discover

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"scopegraph/internal/lang"
)

// File is one discovered source file.
type File struct {
	// Path is relative to the repository root.
	Path string

	Lang *lang.Language
}

var skipDirs = map[string]bool{
	"node_modules":  true,
	"vendor":        true,
	"__pycache__":   true,
	"venv":          true,
	".venv":         true,
	"build":         true,
	"dist":          true,
	"target":        true,
	".mypy_cache":   true,
	".pytest_cache": true,
}

// Files discovers source files with a registered language under root. Inside
// a git repository, git ls-files supplies the candidate set so ignore rules
// are respected exactly; otherwise the filesystem walk consults root's
// .gitignore directly. If languages is non-empty, only files of the named
// languages are returned. Results are sorted by path.
func Files(root string, languages []string) ([]File, error) {
	langSet := make(map[string]bool, len(languages))
	for _, l := range languages {
		langSet[l] = true
	}

	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []File
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gitFiles != nil {
			if !gitFiles[rel] {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		l, ok := lang.ForFile(name)
		if !ok {
			return nil
		}
		if len(langSet) > 0 && !langSet[l.Name] {
			return nil
		}

		results = append(results, File{Path: rel, Lang: l})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// gitLsFiles returns the tracked-plus-untracked (not ignored) file set, or
// nil when root is not a git work tree or git is unavailable.
func gitLsFiles(root string) map[string]bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	if err != nil || !info.IsDir() {
		return nil
	}

	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil
	}

	files := make(map[string]bool)
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files[filepath.FromSlash(line)] = true
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
