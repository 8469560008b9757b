// Package store persists per-file scope graphs and the repo graph to SQLite
// so index results can be queried without re-parsing.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Scope, definition, import and reference rows carry the in-graph node id of
// their file's scope graph (scope_node_id columns), so rows can be joined
// back to graph structure without a separate mapping table.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  last_indexed    TIMESTAMP
);

CREATE TABLE IF NOT EXISTS scopes (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  node_id         INTEGER NOT NULL,
  parent_node_id  INTEGER,
  start_byte      INTEGER,
  end_byte        INTEGER,
  start_line      INTEGER,
  end_line        INTEGER
);

CREATE TABLE IF NOT EXISTS definitions (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  scope_node_id   INTEGER NOT NULL,
  name            TEXT NOT NULL,
  symbol          TEXT,
  start_byte      INTEGER,
  end_byte        INTEGER
);

CREATE TABLE IF NOT EXISTS imports (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  scope_node_id   INTEGER NOT NULL,
  source          TEXT,
  imported_name   TEXT NOT NULL,
  local_alias     TEXT,
  start_byte      INTEGER,
  end_byte        INTEGER
);

CREATE TABLE IF NOT EXISTS references_ (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  scope_node_id   INTEGER NOT NULL,
  name            TEXT NOT NULL,
  start_byte      INTEGER,
  end_byte        INTEGER
);

CREATE TABLE IF NOT EXISTS bindings (
  id              INTEGER PRIMARY KEY,
  reference_id    INTEGER NOT NULL REFERENCES references_(id),
  target_kind     TEXT NOT NULL,
  target_start    INTEGER,
  target_end      INTEGER
);

CREATE TABLE IF NOT EXISTS unresolved_references (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  name            TEXT NOT NULL,
  start_byte      INTEGER,
  end_byte        INTEGER
);

CREATE TABLE IF NOT EXISTS namespaces (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  namespace       TEXT NOT NULL,
  module_type     TEXT NOT NULL,
  target_file     TEXT,
  status          TEXT NOT NULL CHECK (status IN ('missing', 'resolved'))
);

CREATE TABLE IF NOT EXISTS import_edges (
  id              INTEGER PRIMARY KEY,
  source_file     TEXT NOT NULL,
  source_scope    INTEGER NOT NULL,
  target_file     TEXT NOT NULL,
  target_scope    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_scopes_file ON scopes(file_id);
CREATE INDEX IF NOT EXISTS idx_definitions_file ON definitions(file_id);
CREATE INDEX IF NOT EXISTS idx_definitions_name ON definitions(name);
CREATE INDEX IF NOT EXISTS idx_imports_file ON imports(file_id);
CREATE INDEX IF NOT EXISTS idx_references_file ON references_(file_id);
CREATE INDEX IF NOT EXISTS idx_references_name ON references_(name);
CREATE INDEX IF NOT EXISTS idx_bindings_reference ON bindings(reference_id);
CREATE INDEX IF NOT EXISTS idx_unresolved_file ON unresolved_references(file_id);
CREATE INDEX IF NOT EXISTS idx_namespaces_file ON namespaces(file_id);
CREATE INDEX IF NOT EXISTS idx_import_edges_source ON import_edges(source_file);
`

// DeleteFileData transactionally removes all data for a file. Deletes in
// reverse-dependency order to respect FK constraints.
func (s *Store) DeleteFileData(fileID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var path string
	if err := tx.QueryRow("SELECT path FROM files WHERE id = ?", fileID).Scan(&path); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("query file path: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM bindings WHERE reference_id IN (SELECT id FROM references_ WHERE file_id = ?)",
		fileID); err != nil {
		return fmt.Errorf("delete bindings: %w", err)
	}
	for _, q := range []string{
		"DELETE FROM references_ WHERE file_id = ?",
		"DELETE FROM unresolved_references WHERE file_id = ?",
		"DELETE FROM imports WHERE file_id = ?",
		"DELETE FROM definitions WHERE file_id = ?",
		"DELETE FROM scopes WHERE file_id = ?",
		"DELETE FROM namespaces WHERE file_id = ?",
	} {
		if _, err := tx.Exec(q, fileID); err != nil {
			return fmt.Errorf("delete file data: %w", err)
		}
	}
	if _, err := tx.Exec(
		"DELETE FROM import_edges WHERE source_file = ? OR target_file = ?",
		path, path); err != nil {
		return fmt.Errorf("delete import edges: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE id = ?", fileID); err != nil {
		return fmt.Errorf("delete file row: %w", err)
	}

	return tx.Commit()
}
