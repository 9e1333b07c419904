package interaction

import (
	"log/slog"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

type ActionType string

const (
	ActionGesture   ActionType = "gesture"
	ActionAdd       ActionType = "add"
	ActionDelete    ActionType = "delete"
	ActionUpdate    ActionType = "update"
	ActionReorder   ActionType = "reorder"
	ActionDuplicate ActionType = "duplicate"
)

// Change is one element's state before and after an action. Before is
// nil for an added element and After is nil for a deleted one; Index is
// the list position a deleted element is restored to.
type Change struct {
	Before *document.Element `json:"before,omitempty"`
	After  *document.Element `json:"after,omitempty"`
	Index  int               `json:"index"`
}

// Action is one undoable step.
type Action struct {
	Type    ActionType `json:"type"`
	PageID  string     `json:"pageId"`
	Changes []Change   `json:"changes"`
}

// Pages resolves the page an action applies to.
type Pages interface {
	Page(id string) (*document.Page, bool)
}

// History is a bounded undo/redo stack of element snapshots.
type History struct {
	limit     int
	undoStack []Action
	redoStack []Action
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record pushes an action and clears the redo stack.
func (h *History) Record(a Action) {
	if len(a.Changes) == 0 {
		return
	}
	h.undoStack = append(h.undoStack, a)
	if over := len(h.undoStack) - h.limit; over > 0 {
		h.undoStack = h.undoStack[over:]
	}
	h.redoStack = nil
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear drops both stacks, e.g. after loading another project.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// Undo reverts the latest action.
func (h *History) Undo(pages Pages) (Action, bool) {
	if len(h.undoStack) == 0 {
		return Action{}, false
	}
	last := len(h.undoStack) - 1
	action := h.undoStack[last]
	h.undoStack = h.undoStack[:last]

	if pg, ok := pages.Page(action.PageID); ok {
		// Reverse order so multi-element actions unwind cleanly.
		for i := len(action.Changes) - 1; i >= 0; i-- {
			apply(pg, action.Changes[i].After, action.Changes[i].Before, action.Changes[i].Index)
		}
	} else {
		slog.Warn("undo: page no longer exists", "page", action.PageID, "action", action.Type)
	}

	h.redoStack = append(h.redoStack, action)
	return action, true
}

// Redo re-applies the latest undone action.
func (h *History) Redo(pages Pages) (Action, bool) {
	if len(h.redoStack) == 0 {
		return Action{}, false
	}
	last := len(h.redoStack) - 1
	action := h.redoStack[last]
	h.redoStack = h.redoStack[:last]

	if pg, ok := pages.Page(action.PageID); ok {
		for _, c := range action.Changes {
			apply(pg, c.Before, c.After, c.Index)
		}
	} else {
		slog.Warn("redo: page no longer exists", "page", action.PageID, "action", action.Type)
	}

	h.undoStack = append(h.undoStack, action)
	return action, true
}

// apply moves an element from state from to state to.
func apply(pg *document.Page, from, to *document.Element, index int) {
	switch {
	case from == nil && to != nil:
		pg.InsertElement(to.Clone(), index)
	case from != nil && to == nil:
		pg.DeleteElement(from.ID)
	case to != nil:
		pg.ReplaceElement(to.Clone())
	}
}
