// Package store persists project snapshots. Snapshots are opaque: the
// store never looks inside the document bytes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved version of a project.
type Snapshot struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Version   int       `json:"version"`
	Document  []byte    `json:"document"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps versioned snapshots per project.
type Store interface {
	// Latest returns the newest snapshot of a project, or ErrNotFound.
	Latest(ctx context.Context, projectID string) (Snapshot, error)
	// Save appends a snapshot and returns it with its assigned version.
	Save(ctx context.Context, projectID string, doc []byte) (Snapshot, error)
	Close() error
}

// LoadProject decodes the latest snapshot of a project.
func LoadProject(ctx context.Context, s Store, projectID string) (*document.Project, error) {
	snap, err := s.Latest(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p, err := document.Deserialize(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return p, nil
}

// SaveProject encodes and saves a project.
func SaveProject(ctx context.Context, s Store, p *document.Project) (Snapshot, error) {
	data, err := document.Serialize(p)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Save(ctx, p.ID, data)
}

// Open picks an implementation by driver name.
func Open(ctx context.Context, driver, databaseURL, sqlitePath string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	case "sqlite":
		return NewSQLite(ctx, sqlitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
