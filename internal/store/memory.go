package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

// Memory keeps snapshots in process. Used by tests and local playgrounds.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string][]Snapshot // projectID -> versions, oldest first
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string][]Snapshot)}
}

func (m *Memory) Latest(_ context.Context, projectID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.snapshots[projectID]
	if len(versions) == 0 {
		return Snapshot{}, ErrNotFound
	}
	snap := versions[len(versions)-1]
	snap.Document = slices.Clone(snap.Document)
	return snap, nil
}

func (m *Memory) Save(_ context.Context, projectID string, doc []byte) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   len(m.snapshots[projectID]) + 1,
		Document:  slices.Clone(doc),
		CreatedAt: time.Now().UTC(),
	}
	m.snapshots[projectID] = append(m.snapshots[projectID], snap)
	return snap, nil
}

func (m *Memory) Close() error { return nil }
