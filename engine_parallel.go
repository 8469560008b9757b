package scopegraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"scopegraph/internal/discover"
	"scopegraph/internal/lang"
	"scopegraph/internal/scope"
)

// workItem holds everything a parse worker needs.
type workItem struct {
	path string // relative to root
	lang *lang.Language
	src  []byte
}

// buildFileGraphs builds scope graphs for files using a three-phase
// pipeline:
//
//	Phase A (serial):   read file contents.
//	Phase B (parallel): parse and build scope graphs via worker pool.
//	Phase C (serial):   collect results.
//
// Each worker creates its own tree-sitter parser, so parsing is
// goroutine-safe; scope graphs are independent per file.
func (e *Engine) buildFileGraphs(ctx context.Context, root string, files []discover.File) ([]*FileGraph, error) {
	var items []workItem
	for _, f := range files {
		src, err := os.ReadFile(filepath.Join(root, f.Path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Path, err)
		}
		items = append(items, workItem{path: f.Path, lang: f.Lang, src: src})
	}
	if len(items) == 0 {
		return nil, nil
	}

	numWorkers := e.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		path     string
		language string
		graph    *scope.Graph
		err      error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				g, err := buildGraph(ctx, item.lang, item.src)
				resultCh <- result{path: item.path, language: item.lang.Name, graph: g, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var out []*FileGraph
	var errs []error
	for res := range resultCh {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("build %s: %w", res.path, res.err))
			continue
		}
		out = append(out, &FileGraph{Path: res.path, Language: res.language, Graph: res.graph})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("building scope graphs had %d error(s): %w", len(errs), errs[0])
	}
	return out, nil
}
