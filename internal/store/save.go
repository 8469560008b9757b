package store

import (
	"database/sql"
	"fmt"
	"time"

	"scopegraph/internal/repo"
	"scopegraph/internal/scope"
)

// SaveFileGraph replaces the stored rows for path with the contents of g and
// returns the file's row id. One transaction per file.
func (s *Store) SaveFileGraph(path, language string, g *scope.Graph) (int64, error) {
	if id, ok, err := s.fileID(path); err != nil {
		return 0, err
	} else if ok {
		if err := s.DeleteFileData(id); err != nil {
			return 0, fmt.Errorf("replace %s: %w", path, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO files (path, language, last_indexed) VALUES (?, ?, ?)",
		path, language, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert file %s: %w", path, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("file id: %w", err)
	}

	for _, sc := range g.Scopes() {
		n := g.Node(sc)
		var parent sql.NullInt64
		if p, ok := g.ParentScope(sc); ok {
			parent = sql.NullInt64{Int64: int64(p), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO scopes (file_id, node_id, parent_node_id, start_byte, end_byte, start_line, end_line)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fileID, int64(sc), parent,
			n.Range.StartByte, n.Range.EndByte,
			n.Range.StartPoint.Row, n.Range.EndPoint.Row); err != nil {
			return 0, fmt.Errorf("insert scope: %w", err)
		}

		for _, d := range g.Definitions(sc) {
			dn := g.Node(d)
			if _, err := tx.Exec(
				`INSERT INTO definitions (file_id, scope_node_id, name, symbol, start_byte, end_byte)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				fileID, int64(sc), dn.Name, dn.Symbol,
				dn.Range.StartByte, dn.Range.EndByte); err != nil {
				return 0, fmt.Errorf("insert definition %s: %w", dn.Name, err)
			}
		}

		for _, imp := range g.Imports(sc) {
			in := g.Node(imp)
			for i, name := range in.Names {
				var alias sql.NullString
				if i < len(in.Aliases) && in.Aliases[i] != "" {
					alias = sql.NullString{String: in.Aliases[i], Valid: true}
				}
				if _, err := tx.Exec(
					`INSERT INTO imports (file_id, scope_node_id, source, imported_name, local_alias, start_byte, end_byte)
					 VALUES (?, ?, ?, ?, ?, ?, ?)`,
					fileID, int64(sc), in.FromName, name, alias,
					in.Range.StartByte, in.Range.EndByte); err != nil {
					return 0, fmt.Errorf("insert import %s: %w", name, err)
				}
			}
		}

		for _, ref := range g.ReferencesByOrigin(sc) {
			rn := g.Node(ref)
			res, err := tx.Exec(
				`INSERT INTO references_ (file_id, scope_node_id, name, start_byte, end_byte)
				 VALUES (?, ?, ?, ?, ?)`,
				fileID, int64(sc), rn.Name,
				rn.Range.StartByte, rn.Range.EndByte)
			if err != nil {
				return 0, fmt.Errorf("insert reference %s: %w", rn.Name, err)
			}
			refID, err := res.LastInsertId()
			if err != nil {
				return 0, fmt.Errorf("reference id: %w", err)
			}
			for _, e := range g.Edges() {
				if e.From != ref {
					continue
				}
				var kind string
				switch e.Kind {
				case scope.RefToDef:
					kind = "definition"
				case scope.RefToImport:
					kind = "import"
				default:
					continue
				}
				target := g.Node(e.To)
				if _, err := tx.Exec(
					`INSERT INTO bindings (reference_id, target_kind, target_start, target_end)
					 VALUES (?, ?, ?, ?)`,
					refID, kind, target.Range.StartByte, target.Range.EndByte); err != nil {
					return 0, fmt.Errorf("insert binding: %w", err)
				}
			}
		}
	}

	for _, ref := range g.Unresolved {
		if _, err := tx.Exec(
			`INSERT INTO unresolved_references (file_id, name, start_byte, end_byte)
			 VALUES (?, ?, ?, ?)`,
			fileID, ref.Name, ref.Range.StartByte, ref.Range.EndByte); err != nil {
			return 0, fmt.Errorf("insert unresolved reference %s: %w", ref.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", path, err)
	}
	return fileID, nil
}

// SaveRepoGraph stores the cross-file results: classified namespaces with
// their missing/resolved status and every import-to-export edge. Per-file
// scope graphs must already be saved so file rows exist.
func (s *Store) SaveRepoGraph(g *repo.Graph) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for path := range g.Scopes {
		fileID, ok, err := s.fileIDTx(tx, path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("file %s not saved before repo graph", path)
		}
		if _, err := tx.Exec("DELETE FROM namespaces WHERE file_id = ?", fileID); err != nil {
			return fmt.Errorf("clear namespaces for %s: %w", path, err)
		}
		if _, err := tx.Exec(
			"DELETE FROM import_edges WHERE source_file = ?", path); err != nil {
			return fmt.Errorf("clear import edges for %s: %w", path, err)
		}

		resolved := make(map[string]bool)
		for _, ns := range g.Resolved(path) {
			resolved[ns] = true
		}
		for _, imp := range g.Imports(path) {
			status := "missing"
			if resolved[imp.NameSpace.String()] {
				status = "resolved"
			}
			if _, err := tx.Exec(
				`INSERT INTO namespaces (file_id, namespace, module_type, target_file, status)
				 VALUES (?, ?, ?, ?, ?)`,
				fileID, imp.NameSpace.String(), imp.ModuleType.String(),
				imp.TargetFile, status); err != nil {
				return fmt.Errorf("insert namespace %s: %w", imp.NameSpace, err)
			}
		}
	}

	for _, e := range g.Edges() {
		from, to := g.Node(e.From), g.Node(e.To)
		if _, err := tx.Exec(
			`INSERT INTO import_edges (source_file, source_scope, target_file, target_scope)
			 VALUES (?, ?, ?, ?)`,
			from.Key.File, int64(from.Key.Scope),
			to.Key.File, int64(to.Key.Scope)); err != nil {
			return fmt.Errorf("insert import edge: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) fileID(path string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM files WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query file %s: %w", path, err)
	}
	return id, true, nil
}

func (s *Store) fileIDTx(tx *sql.Tx, path string) (int64, bool, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM files WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query file %s: %w", path, err)
	}
	return id, true, nil
}
