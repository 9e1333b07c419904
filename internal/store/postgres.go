package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS project_snapshots (
    id         TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    version    INTEGER NOT NULL,
    document   JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (project_id, version)
)`

// Postgres stores snapshots in a JSONB column.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Latest(ctx context.Context, projectID string) (Snapshot, error) {
	var snap Snapshot
	err := p.pool.QueryRow(ctx, `
        SELECT id, project_id, version, document, created_at
        FROM project_snapshots
        WHERE project_id = $1
        ORDER BY version DESC
        LIMIT 1
    `, projectID).Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Document, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

func (p *Postgres) Save(ctx context.Context, projectID string, doc []byte) (Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM project_snapshots WHERE project_id = $1`,
		projectID).Scan(&current); err != nil {
		return Snapshot{}, fmt.Errorf("get version: %w", err)
	}

	snap := Snapshot{ID: typeid.NewSnapshotID(), ProjectID: projectID, Version: current + 1, Document: doc}
	if err := tx.QueryRow(ctx, `
        INSERT INTO project_snapshots (id, project_id, version, document)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `, snap.ID, snap.ProjectID, snap.Version, doc).Scan(&snap.CreatedAt); err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
