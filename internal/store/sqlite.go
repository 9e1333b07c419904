package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS project_snapshots (
    id         TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    version    INTEGER NOT NULL,
    document   TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (project_id, version)
)`

// SQLite stores snapshots in a single-file database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Latest(ctx context.Context, projectID string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, project_id, version, document, created_at
        FROM project_snapshots
        WHERE project_id = ?
        ORDER BY version DESC
        LIMIT 1
    `, projectID)

	var (
		snap    Snapshot
		doc     string
		created string
	)
	if err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &doc, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	snap.Document = []byte(doc)
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return snap, nil
}

func (s *SQLite) Save(ctx context.Context, projectID string, doc []byte) (Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var current int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM project_snapshots WHERE project_id = ?`,
		projectID).Scan(&current); err != nil {
		return Snapshot{}, fmt.Errorf("get version: %w", err)
	}

	snap := Snapshot{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   current + 1,
		Document:  doc,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO project_snapshots (id, project_id, version, document, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, snap.ID, snap.ProjectID, snap.Version, string(doc), snap.CreatedAt.Format(time.RFC3339Nano)); err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
