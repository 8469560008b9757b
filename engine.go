package scopegraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"scopegraph/internal/discover"
	"scopegraph/internal/lang"
	"scopegraph/internal/query"
	"scopegraph/internal/repo"
	"scopegraph/internal/scope"
	"scopegraph/internal/store"
)

// Engine orchestrates the pipeline: file discovery, per-file scope graph
// construction, cross-file linking, and optional persistence.
type Engine struct {
	languages map[string]bool // nil means all registered languages
	workers   int             // 0 means NumCPU
	store     *store.Store
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, l := range languages {
			e.languages[l] = true
		}
	}
}

// WithWorkers sets the number of parallel parse workers. Zero or negative
// uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithStore attaches a SQLite store; Analyze then persists every per-file
// graph and the cross-file results. The caller owns the store's lifetime.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileGraph is one analyzed file.
type FileGraph struct {
	// Path is relative to the analyzed root.
	Path     string
	Language string
	Graph    *scope.Graph
}

// Result holds everything Analyze produced: one scope graph per file and
// one repo graph per language.
type Result struct {
	Files map[string]*FileGraph
	Repos map[string]*repo.Graph
}

// Analyze discovers source files under root, builds a scope graph for each,
// then links imports to exports per language. All scope graphs are complete
// before cross-file linking begins.
func (e *Engine) Analyze(ctx context.Context, root string) (*Result, error) {
	var langNames []string
	for name := range e.languages {
		langNames = append(langNames, name)
	}
	files, err := discover.Files(root, langNames)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	slog.Debug("analyze: discovered files", "root", root, "count", len(files))

	result := &Result{
		Files: make(map[string]*FileGraph, len(files)),
		Repos: make(map[string]*repo.Graph),
	}

	graphs, err := e.buildFileGraphs(ctx, root, files)
	if err != nil {
		return nil, err
	}
	for _, fg := range graphs {
		result.Files[fg.Path] = fg
	}

	byLang := make(map[string]map[string]*scope.Graph)
	for _, fg := range graphs {
		m := byLang[fg.Language]
		if m == nil {
			m = make(map[string]*scope.Graph)
			byLang[fg.Language] = m
		}
		m[fg.Path] = fg.Graph
	}
	for name, scopes := range byLang {
		l, _ := lang.Get(name)
		matcher := repo.DirMatcher{Root: root, Ext: l.Extensions[0], InitFile: l.InitFile}
		result.Repos[name] = repo.BuildGraph(scopes,
			matcher, repo.SysModules(name), repo.ThirdPartyModules(name))
	}

	if e.store != nil {
		if err := e.persist(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// AnalyzeFile builds the scope graph for a single file without cross-file
// linking.
func (e *Engine) AnalyzeFile(ctx context.Context, path string) (*FileGraph, error) {
	l, ok := lang.ForFile(path)
	if !ok {
		return nil, fmt.Errorf("no language registered for %s", filepath.Ext(path))
	}
	if e.languages != nil && !e.languages[l.Name] {
		return nil, fmt.Errorf("language %s excluded", l.Name)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	g, err := buildGraph(ctx, l, src)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	return &FileGraph{Path: path, Language: l.Name, Graph: g}, nil
}

// buildGraph parses src and feeds the tagged captures to the scope builder.
func buildGraph(ctx context.Context, l *lang.Language, src []byte) (*scope.Graph, error) {
	res, err := query.Run(ctx, l, src)
	if err != nil {
		return nil, err
	}
	return scope.Build(src, res.Root, res.Captures), nil
}

func (e *Engine) persist(result *Result) error {
	for _, fg := range result.Files {
		if _, err := e.store.SaveFileGraph(fg.Path, fg.Language, fg.Graph); err != nil {
			return fmt.Errorf("persist %s: %w", fg.Path, err)
		}
	}
	for name, rg := range result.Repos {
		if err := e.store.SaveRepoGraph(rg); err != nil {
			return fmt.Errorf("persist %s repo graph: %w", name, err)
		}
	}
	return nil
}
