package scope

import "scopegraph/internal/text"

// Build constructs the scope graph for one file from its query captures.
// fileRange is the span of the whole file (the parse tree's root node) and
// becomes the root scope.
//
// Insertion follows a strict order: scopes first, then import statements,
// then definitions, then references. References resolve at insertion time,
// so the phases are an ordering contract, not an optimization — a reference
// inserted before a later definition would spuriously land in Unresolved.
func Build(src []byte, fileRange text.Range, captures []Capture) *Graph {
	c := classify(captures)
	g := NewGraph(fileRange, src)

	for _, i := range c.scopes {
		g.InsertLocalScope(c.ranges[i])
	}

	for _, i := range c.importStmts {
		g.InsertLocalImport(assembleImport(src, c, i))
	}

	for _, dc := range c.defs {
		r := c.ranges[dc.index]
		d := Def{Range: r, Name: decode(src, r), Symbol: dc.symbol}
		switch dc.scoping {
		case ScopingGlobal:
			g.InsertGlobalDef(d)
		case ScopingHoisted:
			g.InsertHoistedDef(d)
		case ScopingLocal:
			g.InsertLocalDef(d)
		}
	}

	for _, i := range c.refs {
		r := c.ranges[i]
		g.InsertRef(Reference{Range: r, Name: decode(src, r)})
	}

	return g
}

// assembleImport rebuilds a statement-level import from the part captures
// falling inside its range: the module part becomes FromName, name and alias
// parts accumulate in order.
func assembleImport(src []byte, c classified, stmtIdx int) ImportStmt {
	stmt := ImportStmt{Range: c.ranges[stmtIdx]}
	for _, part := range c.importParts {
		pr := c.ranges[part.index]
		if !stmt.Range.Contains(pr) {
			continue
		}
		switch part.part {
		case PartModule:
			stmt.FromName = decode(src, pr)
		case PartAlias:
			stmt.Aliases = append(stmt.Aliases, decode(src, pr))
		case PartName:
			stmt.Names = append(stmt.Names, decode(src, pr))
		}
	}
	return stmt
}

func decode(src []byte, r text.Range) string {
	if r.StartByte < 0 || r.EndByte > len(src) || r.StartByte > r.EndByte {
		return ""
	}
	return string(src[r.StartByte:r.EndByte])
}
