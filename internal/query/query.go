// Package query executes a language's locals query over source bytes,
// producing the ordered tagged captures the scope graph builder consumes.
package query

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"scopegraph/internal/lang"
	"scopegraph/internal/scope"
	"scopegraph/internal/text"
)

// Result holds the parse-tree root span and the captures produced by the
// locals query, in match order.
type Result struct {
	Root     text.Range
	Captures []scope.Capture
}

// Run parses src with l's grammar and executes its locals query. Grammar
// and parse failures are returned, not swallowed: a graph built on no
// captures would silently report every reference unresolved.
func Run(ctx context.Context, l *lang.Language, src []byte) (*Result, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(l.Grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", l.Name, err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(l.LocalsQuery), l.Grammar)
	if err != nil {
		return nil, fmt.Errorf("compile %s locals query: %w", l.Name, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	root := tree.RootNode()
	qc.Exec(q, root)

	res := &Result{Root: nodeRange(root)}
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, src)
		for _, c := range m.Captures {
			res.Captures = append(res.Captures, scope.Capture{
				Range: nodeRange(c.Node),
				Tag:   q.CaptureNameForId(c.Index),
			})
		}
	}
	return res, nil
}

func nodeRange(n *sitter.Node) text.Range {
	return text.Range{
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartPoint: text.Point{
			Row:    int(n.StartPoint().Row),
			Column: int(n.StartPoint().Column),
		},
		EndPoint: text.Point{
			Row:    int(n.EndPoint().Row),
			Column: int(n.EndPoint().Column),
		},
	}
}
