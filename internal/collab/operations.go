package collab

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

var (
	ErrUnknownOperation = errors.New("unknown operation type")
	ErrUnknownPage      = errors.New("page not found")
	ErrUnknownElement   = errors.New("element not found")
	ErrInvalidOperation = errors.New("invalid operation")
)

// DefaultDuplicateOffset is used when an element.duplicate op carries no offset.
const DefaultDuplicateOffset = 20.0

// DocumentState holds the authoritative project for a room
type DocumentState struct {
	mu        sync.RWMutex
	project   *document.Project
	serverSeq int64
	dirty     bool
	opLog     []Operation
}

// NewDocumentState creates a new document state from an initial project
func NewDocumentState(p *document.Project) *DocumentState {
	return &DocumentState{
		project: p,
		opLog:   make([]Operation, 0),
	}
}

// Snapshot serializes the current project along with the sequence it
// reflects.
func (ds *DocumentState) Snapshot() ([]byte, int64, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	data, err := document.Serialize(ds.project)
	return data, ds.serverSeq, err
}

// TakeDirty serializes the project if it changed since the last call.
func (ds *DocumentState) TakeDirty() ([]byte, bool, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if !ds.dirty {
		return nil, false, nil
	}
	data, err := document.Serialize(ds.project)
	if err != nil {
		return nil, false, err
	}
	ds.dirty = false
	return data, true, nil
}

// MarkDirty flags the project for saving again, after a failed save.
func (ds *DocumentState) MarkDirty() {
	ds.mu.Lock()
	ds.dirty = true
	ds.mu.Unlock()
}

// ServerSeq returns the sequence number of the last applied operation.
func (ds *DocumentState) ServerSeq() int64 {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.serverSeq
}

// OpLog returns the operations applied since the room opened.
func (ds *DocumentState) OpLog() []Operation {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return append([]Operation(nil), ds.opLog...)
}

// ApplyOperation applies op to the project and returns the server
// sequence. Ids the server assigns are written back into op so the
// broadcast carries them.
func (ds *DocumentState) ApplyOperation(op *Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyOperationLocked(op); err != nil {
		return 0, err
	}
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}

	ds.serverSeq++
	ds.dirty = true
	ds.project.Touch()
	ds.opLog = append(ds.opLog, *op)

	return ds.serverSeq, nil
}

// applyOperationLocked applies the operation without locking (caller must hold lock)
func (ds *DocumentState) applyOperationLocked(op *Operation) error {
	switch op.Type {
	case OpElementAdd:
		return ds.applyElementAdd(op)
	case OpElementUpdate:
		return ds.applyElementUpdate(op)
	case OpElementDelete:
		return ds.applyElementDelete(op)
	case OpElementReorder:
		return ds.applyElementReorder(op)
	case OpElementDuplicate:
		return ds.applyElementDuplicate(op)
	case OpPageAdd:
		return ds.applyPageAdd(op)
	case OpPageDelete:
		return ds.applyPageDelete(op)
	case OpPageUpdate:
		return ds.applyPageUpdate(op)
	case OpProjectRename:
		return ds.applyProjectRename(op)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
}

func (ds *DocumentState) page(id string) (*document.Page, error) {
	pg, ok := ds.project.Page(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	return pg, nil
}

func (ds *DocumentState) pageElement(op *Operation) (*document.Page, error) {
	pg, err := ds.page(op.PageID)
	if err != nil {
		return nil, err
	}
	if _, ok := pg.Element(op.ElementID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, op.ElementID)
	}
	return pg, nil
}

func (ds *DocumentState) applyElementAdd(op *Operation) error {
	if op.Element == nil {
		return fmt.Errorf("%w: element.add without element", ErrInvalidOperation)
	}
	pg, err := ds.page(op.PageID)
	if err != nil {
		return err
	}
	if op.Element.ID != "" {
		if _, exists := pg.Element(op.Element.ID); exists {
			return fmt.Errorf("%w: element %s already exists", ErrInvalidOperation, op.Element.ID)
		}
	}
	stored := pg.AddElement(*op.Element)
	op.Element = &stored
	op.ElementID = stored.ID
	return nil
}

func (ds *DocumentState) applyElementUpdate(op *Operation) error {
	if op.Patch == nil {
		return fmt.Errorf("%w: element.update without patch", ErrInvalidOperation)
	}
	pg, err := ds.pageElement(op)
	if err != nil {
		return err
	}
	pg.UpdateElement(op.ElementID, *op.Patch)
	return nil
}

func (ds *DocumentState) applyElementDelete(op *Operation) error {
	pg, err := ds.pageElement(op)
	if err != nil {
		return err
	}
	pg.DeleteElement(op.ElementID)
	return nil
}

func (ds *DocumentState) applyElementReorder(op *Operation) error {
	pg, err := ds.pageElement(op)
	if err != nil {
		return err
	}
	if !pg.ReorderZIndex(op.ElementID, op.Direction) {
		return fmt.Errorf("%w: direction %q", ErrInvalidOperation, op.Direction)
	}
	return nil
}

func (ds *DocumentState) applyElementDuplicate(op *Operation) error {
	pg, err := ds.pageElement(op)
	if err != nil {
		return err
	}
	if op.NewElementID != "" {
		if _, exists := pg.Element(op.NewElementID); exists {
			return fmt.Errorf("%w: element %s already exists", ErrInvalidOperation, op.NewElementID)
		}
	}
	offset := DefaultDuplicateOffset
	if op.Offset != nil {
		offset = *op.Offset
	}

	src, _ := pg.Element(op.ElementID)
	dup := src.Clone()
	dup.ID = op.NewElementID
	dup.X += offset
	dup.Y += offset
	stored := pg.AddElement(dup)
	op.NewElementID = stored.ID
	return nil
}

func (ds *DocumentState) applyPageAdd(op *Operation) error {
	if op.PageID != "" {
		if _, exists := ds.project.Page(op.PageID); exists {
			return fmt.Errorf("%w: page %s already exists", ErrInvalidOperation, op.PageID)
		}
	}
	if err := validatePagePatch(op.Page); err != nil {
		return err
	}
	pg := ds.project.AddPage(document.PageDefaults{})
	if op.PageID != "" {
		pg.ID = op.PageID
	}
	op.PageID = pg.ID
	applyPagePatch(pg, op.Page)
	return nil
}

func (ds *DocumentState) applyPageDelete(op *Operation) error {
	if _, err := ds.page(op.PageID); err != nil {
		return err
	}
	if !ds.project.DeletePage(op.PageID) {
		return fmt.Errorf("%w: cannot delete the last page", ErrInvalidOperation)
	}
	return nil
}

func (ds *DocumentState) applyPageUpdate(op *Operation) error {
	pg, err := ds.page(op.PageID)
	if err != nil {
		return err
	}
	if op.Page == nil {
		return fmt.Errorf("%w: page.update without changes", ErrInvalidOperation)
	}
	if err := validatePagePatch(op.Page); err != nil {
		return err
	}
	applyPagePatch(pg, op.Page)
	return nil
}

func validatePagePatch(p *PagePatch) error {
	if p == nil {
		return nil
	}
	if (p.Width != nil && *p.Width <= 0) || (p.Height != nil && *p.Height <= 0) {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidOperation)
	}
	return nil
}

func applyPagePatch(pg *document.Page, p *PagePatch) {
	if p == nil {
		return
	}
	if p.Background != nil {
		pg.Background = *p.Background
	}
	if p.Width != nil {
		pg.Width = *p.Width
	}
	if p.Height != nil {
		pg.Height = *p.Height
	}
}

func (ds *DocumentState) applyProjectRename(op *Operation) error {
	if op.Name == "" {
		return fmt.Errorf("%w: empty project name", ErrInvalidOperation)
	}
	op.PreviousName = ds.project.Name
	ds.project.Name = op.Name
	return nil
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
