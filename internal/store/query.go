package store

import (
	"database/sql"
	"fmt"
)

// FileRow is one indexed file.
type FileRow struct {
	ID       int64  `json:"id"`
	Path     string `json:"path"`
	Language string `json:"language"`
}

// DefRow is one stored definition.
type DefRow struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
}

// RefRow is one stored reference with its binding count.
type RefRow struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	Bindings  int    `json:"bindings"`
}

// UnresolvedRow is one reference that bound to nothing.
type UnresolvedRow struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
}

// NamespaceRow is one classified imported namespace.
type NamespaceRow struct {
	File       string `json:"file"`
	Namespace  string `json:"namespace"`
	ModuleType string `json:"module_type"`
	TargetFile string `json:"target_file,omitempty"`
	Status     string `json:"status"`
}

// EdgeRow is one stored import-to-export edge.
type EdgeRow struct {
	SourceFile  string `json:"source_file"`
	SourceScope int64  `json:"source_scope"`
	TargetFile  string `json:"target_file"`
	TargetScope int64  `json:"target_scope"`
}

// TallyRow is the per-file missing/resolved namespace summary.
type TallyRow struct {
	File     string `json:"file"`
	Missing  int    `json:"missing"`
	Resolved int    `json:"resolved"`
}

// ListFiles returns all indexed files ordered by path.
func (s *Store) ListFiles() ([]FileRow, error) {
	rows, err := s.db.Query("SELECT id, path, language FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.ID, &f.Path, &f.Language); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Definitions returns stored definitions, optionally filtered by name.
func (s *Store) Definitions(name string) ([]DefRow, error) {
	q := `SELECT f.path, d.name, d.symbol, d.start_byte, d.end_byte
	      FROM definitions d JOIN files f ON f.id = d.file_id`
	var args []any
	if name != "" {
		q += " WHERE d.name = ?"
		args = append(args, name)
	}
	q += " ORDER BY f.path, d.start_byte"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query definitions: %w", err)
	}
	defer rows.Close()

	var out []DefRow
	for rows.Next() {
		var d DefRow
		var symbol sql.NullString
		if err := rows.Scan(&d.File, &d.Name, &symbol, &d.StartByte, &d.EndByte); err != nil {
			return nil, fmt.Errorf("scan definition row: %w", err)
		}
		d.Symbol = symbol.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// References returns stored references, optionally filtered by name, with
// the number of definitions or imports each one bound to.
func (s *Store) References(name string) ([]RefRow, error) {
	q := `SELECT f.path, r.name, r.start_byte, r.end_byte,
	             (SELECT COUNT(*) FROM bindings b WHERE b.reference_id = r.id)
	      FROM references_ r JOIN files f ON f.id = r.file_id`
	var args []any
	if name != "" {
		q += " WHERE r.name = ?"
		args = append(args, name)
	}
	q += " ORDER BY f.path, r.start_byte"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var out []RefRow
	for rows.Next() {
		var r RefRow
		if err := rows.Scan(&r.File, &r.Name, &r.StartByte, &r.EndByte, &r.Bindings); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Unresolved returns all references that bound to nothing.
func (s *Store) Unresolved() ([]UnresolvedRow, error) {
	rows, err := s.db.Query(
		`SELECT f.path, u.name, u.start_byte, u.end_byte
		 FROM unresolved_references u JOIN files f ON f.id = u.file_id
		 ORDER BY f.path, u.start_byte`)
	if err != nil {
		return nil, fmt.Errorf("query unresolved: %w", err)
	}
	defer rows.Close()

	var out []UnresolvedRow
	for rows.Next() {
		var u UnresolvedRow
		if err := rows.Scan(&u.File, &u.Name, &u.StartByte, &u.EndByte); err != nil {
			return nil, fmt.Errorf("scan unresolved row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Namespaces returns every classified imported namespace.
func (s *Store) Namespaces() ([]NamespaceRow, error) {
	rows, err := s.db.Query(
		`SELECT f.path, n.namespace, n.module_type, n.target_file, n.status
		 FROM namespaces n JOIN files f ON f.id = n.file_id
		 ORDER BY f.path, n.namespace`)
	if err != nil {
		return nil, fmt.Errorf("query namespaces: %w", err)
	}
	defer rows.Close()

	var out []NamespaceRow
	for rows.Next() {
		var n NamespaceRow
		var target sql.NullString
		if err := rows.Scan(&n.File, &n.Namespace, &n.ModuleType, &target, &n.Status); err != nil {
			return nil, fmt.Errorf("scan namespace row: %w", err)
		}
		n.TargetFile = target.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// ImportEdges returns all stored import-to-export edges.
func (s *Store) ImportEdges() ([]EdgeRow, error) {
	rows, err := s.db.Query(
		`SELECT source_file, source_scope, target_file, target_scope
		 FROM import_edges ORDER BY source_file, target_file`)
	if err != nil {
		return nil, fmt.Errorf("query import edges: %w", err)
	}
	defer rows.Close()

	var out []EdgeRow
	for rows.Next() {
		var e EdgeRow
		if err := rows.Scan(&e.SourceFile, &e.SourceScope, &e.TargetFile, &e.TargetScope); err != nil {
			return nil, fmt.Errorf("scan edge row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Tallies returns the per-file missing/resolved namespace counts.
func (s *Store) Tallies() ([]TallyRow, error) {
	rows, err := s.db.Query(
		`SELECT f.path,
		        SUM(CASE WHEN n.status = 'missing' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN n.status = 'resolved' THEN 1 ELSE 0 END)
		 FROM namespaces n JOIN files f ON f.id = n.file_id
		 GROUP BY f.path ORDER BY f.path`)
	if err != nil {
		return nil, fmt.Errorf("query tallies: %w", err)
	}
	defer rows.Close()

	var out []TallyRow
	for rows.Next() {
		var t TallyRow
		if err := rows.Scan(&t.File, &t.Missing, &t.Resolved); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
