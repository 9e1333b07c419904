package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kimahnho/worksheet/editor-go/internal/collab"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/store"
	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrLive     = errors.New("project is open for editing")
	ErrInvalid  = errors.New("invalid project")
)

// Rooms exposes the documents currently held open by the collaboration hub.
type Rooms interface {
	State(projectID string) (*collab.DocumentState, bool)
}

type Service struct {
	store    store.Store
	rooms    Rooms
	defaults document.PageDefaults
}

// NewService reads live documents from rooms when a project is open and
// falls back to the latest stored snapshot otherwise. rooms may be nil.
func NewService(s store.Store, rooms Rooms, defaults document.PageDefaults) *Service {
	return &Service{store: s, rooms: rooms, defaults: defaults}
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Pages     int    `json:"pages"`
	Elements  int    `json:"elements"`
	Version   int    `json:"version"`
	Live      bool   `json:"live"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (s *Service) Create(ctx context.Context, name string, sample bool) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	projectID := typeid.NewProjectID()
	var p *document.Project
	if sample {
		p = document.NewSampleProject(projectID)
		p.Name = name
	} else {
		p = document.NewProject(projectID, name, s.defaults)
	}

	snap, err := store.SaveProject(ctx, s.store, p)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return summarize(p, snap.Version, false), nil
}

func (s *Service) Get(ctx context.Context, projectID string) (*Project, error) {
	version := 0
	snap, err := s.store.Latest(ctx, projectID)
	switch {
	case err == nil:
		version = snap.Version
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get project: %w", err)
	}

	doc, live, err := s.document(projectID, snap)
	if err != nil {
		return nil, err
	}
	p, err := document.Deserialize(doc)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return summarize(p, version, live), nil
}

// GetLatestSnapshot returns the live document of an open project, or its
// newest stored snapshot.
func (s *Service) GetLatestSnapshot(ctx context.Context, projectID string) (json.RawMessage, error) {
	snap, err := s.store.Latest(ctx, projectID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	doc, _, err := s.document(projectID, snap)
	return doc, err
}

func (s *Service) document(projectID string, snap store.Snapshot) (json.RawMessage, bool, error) {
	if s.rooms != nil {
		if state, ok := s.rooms.State(projectID); ok {
			data, _, err := state.Snapshot()
			if err != nil {
				return nil, true, fmt.Errorf("serialize live project: %w", err)
			}
			return data, true, nil
		}
	}
	if snap.Document == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, projectID)
	}
	return snap.Document, false, nil
}

// SaveSnapshot stores an uploaded document as the next version. Open
// projects are owned by their room and refuse uploads.
func (s *Service) SaveSnapshot(ctx context.Context, projectID string, doc []byte) (*Project, error) {
	if s.rooms != nil {
		if _, ok := s.rooms.State(projectID); ok {
			return nil, ErrLive
		}
	}

	p, err := document.Deserialize(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	p.ID = projectID
	p.Touch()

	snap, err := store.SaveProject(ctx, s.store, p)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return summarize(p, snap.Version, false), nil
}

func summarize(p *document.Project, version int, live bool) *Project {
	elements := 0
	for _, pg := range p.Pages {
		elements += len(pg.Elements)
	}
	return &Project{
		ID:        p.ID,
		Name:      p.Name,
		Pages:     len(p.Pages),
		Elements:  elements,
		Version:   version,
		Live:      live,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
