package scope

import (
	"strings"

	"scopegraph/internal/text"
)

// Capture is one (span, tag) pair emitted by the syntax-tree query engine.
// Tags are dot-separated:
//
//	<scoping>.definition.<symbol>   definition, symbol optional
//	<scoping>.definition
//	local.reference                 reference
//	local.scope                     scope
//	local.import.statement          import statement
//	local.import.<part>             import part: module, alias or name
//
// Anything else is ignored by the classifier.
type Capture struct {
	Range text.Range
	Tag   string
}

// ImportPart labels a fragment of an import statement.
type ImportPart string

const (
	PartModule ImportPart = "module"
	PartAlias  ImportPart = "alias"
	PartName   ImportPart = "name"
)

type defCapture struct {
	index   int
	symbol  string
	scoping Scoping
}

type importPartCapture struct {
	index int
	part  ImportPart
}

// classified is the output of the classification pass, indexing each typed
// record back to its original capture span.
type classified struct {
	ranges      []text.Range
	defs        []defCapture
	refs        []int
	scopes      []int
	importStmts []int
	importParts []importPartCapture
}

// classify pattern-matches every capture tag into a typed record. Tags not
// matching the known grammar are dropped without error.
func classify(captures []Capture) classified {
	c := classified{ranges: make([]text.Range, len(captures))}

	for i, cap := range captures {
		c.ranges[i] = cap.Range
		parts := strings.Split(cap.Tag, ".")

		switch {
		case len(parts) == 3 && parts[1] == "definition":
			if scoping, ok := parseScoping(parts[0]); ok {
				c.defs = append(c.defs, defCapture{index: i, symbol: parts[2], scoping: scoping})
			}
		case len(parts) == 2 && parts[1] == "definition":
			if scoping, ok := parseScoping(parts[0]); ok {
				c.defs = append(c.defs, defCapture{index: i, scoping: scoping})
			}
		case len(parts) == 2 && parts[0] == "local" && parts[1] == "reference":
			c.refs = append(c.refs, i)
		case len(parts) == 2 && parts[0] == "local" && parts[1] == "scope":
			c.scopes = append(c.scopes, i)
		case len(parts) == 3 && parts[0] == "local" && parts[1] == "import":
			if parts[2] == "statement" {
				c.importStmts = append(c.importStmts, i)
			} else if part, ok := parseImportPart(parts[2]); ok {
				c.importParts = append(c.importParts, importPartCapture{index: i, part: part})
			}
		}
	}
	return c
}

func parseScoping(s string) (Scoping, bool) {
	switch s {
	case "global":
		return ScopingGlobal, true
	case "hoist":
		return ScopingHoisted, true
	case "local":
		return ScopingLocal, true
	}
	return 0, false
}

func parseImportPart(s string) (ImportPart, bool) {
	switch ImportPart(s) {
	case PartModule, PartAlias, PartName:
		return ImportPart(s), true
	}
	return "", false
}
