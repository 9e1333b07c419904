package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/interaction"
)

// AddElement puts el on top of the current page and selects it.
func (e *Engine) AddElement(el document.Element) (document.Element, error) {
	pg, err := e.requirePage()
	if err != nil {
		return document.Element{}, err
	}
	e.endGesture()

	stored := pg.AddElement(el)
	e.record(interaction.ActionAdd, pg, interaction.Change{After: ptr(stored), Index: len(pg.Elements) - 1})
	e.SetSelection([]string{stored.ID})
	slog.Debug("element added", "element", stored.ID, "kind", stored.Kind)
	return stored, nil
}

// AddElementOfKind adds a default element of kind centered on the page.
func (e *Engine) AddElementOfKind(kind document.ElementKind) (document.Element, error) {
	pg, err := e.requirePage()
	if err != nil {
		return document.Element{}, err
	}
	el := document.NewElement(kind)
	el.X = (pg.Width - el.Width) / 2
	el.Y = (pg.Height - el.Height) / 2
	return e.AddElement(el)
}

// UpdateElement merges patch into an element of the current page.
func (e *Engine) UpdateElement(id string, patch document.Patch) (document.Element, error) {
	pg, err := e.requirePage()
	if err != nil {
		return document.Element{}, err
	}
	before, ok := pg.Element(id)
	if !ok {
		return document.Element{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	e.endGesture()

	pg.UpdateElement(id, patch)
	after, _ := pg.Element(id)
	e.record(interaction.ActionUpdate, pg, interaction.Change{Before: ptr(before.Clone()), After: ptr(after.Clone())})
	e.sync()
	return after, nil
}

// DeleteElement removes an element. Other elements that refer to it are
// left alone.
func (e *Engine) DeleteElement(id string) error {
	return e.deleteElements([]string{id})
}

// DeleteSelection removes every selected element as one undo step.
func (e *Engine) DeleteSelection() error {
	if len(e.selection) == 0 {
		return nil
	}
	return e.deleteElements(e.selection)
}

func (e *Engine) deleteElements(ids []string) error {
	pg, err := e.requirePage()
	if err != nil {
		return err
	}
	ids = slices.Clone(ids)
	for _, id := range ids {
		if _, ok := pg.Element(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
	}
	e.endGesture()

	var changes []interaction.Change
	for _, id := range ids {
		idx := slices.IndexFunc(pg.Elements, func(el document.Element) bool { return el.ID == id })
		if idx < 0 {
			continue
		}
		before := pg.Elements[idx].Clone()
		pg.DeleteElement(id)
		changes = append(changes, interaction.Change{Before: &before, Index: idx})
	}
	e.record(interaction.ActionDelete, pg, changes...)
	e.sync()
	return nil
}

// DuplicateElement copies an element, offset by the configured distance,
// and selects the copy.
func (e *Engine) DuplicateElement(id string) (document.Element, error) {
	pg, err := e.requirePage()
	if err != nil {
		return document.Element{}, err
	}
	e.endGesture()

	dup, ok := pg.DuplicateElement(id, e.cfg.DuplicateOffset)
	if !ok {
		return document.Element{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	e.record(interaction.ActionDuplicate, pg, interaction.Change{After: ptr(dup.Clone()), Index: len(pg.Elements) - 1})
	e.SetSelection([]string{dup.ID})
	return dup, nil
}

// ReorderElement changes stacking order. Every element whose z-index
// moved is part of the undo step.
func (e *Engine) ReorderElement(id string, dir document.ZDirection) error {
	pg, err := e.requirePage()
	if err != nil {
		return err
	}
	if _, ok := pg.Element(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	e.endGesture()

	before := make(map[string]document.Element, len(pg.Elements))
	for _, el := range pg.Elements {
		before[el.ID] = el.Clone()
	}
	if !pg.ReorderZIndex(id, dir) {
		return fmt.Errorf("reorder %s: unknown direction %q", id, dir)
	}

	var changes []interaction.Change
	for _, el := range pg.Elements {
		if b := before[el.ID]; b.ZIndex != el.ZIndex {
			changes = append(changes, interaction.Change{Before: ptr(b), After: ptr(el.Clone())})
		}
	}
	e.record(interaction.ActionReorder, pg, changes...)
	e.scene.invalidate()
	return nil
}

// --- Pages ---

// AddPage appends an empty page and switches to it.
func (e *Engine) AddPage() (string, error) {
	if e.project == nil {
		return "", ErrNoProject
	}
	pg := e.project.AddPage(e.pageDefaults())
	e.project.Touch()
	if err := e.SetPage(pg.ID); err != nil {
		return "", err
	}
	return pg.ID, nil
}

// DeletePage removes a page and its elements. The last page stays.
func (e *Engine) DeletePage(id string) error {
	if e.project == nil {
		return ErrNoProject
	}
	if _, ok := e.project.Page(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	if !e.project.DeletePage(id) {
		return ErrLastPage
	}
	e.project.Touch()
	if id == e.pageID {
		e.switchPage(e.project.FirstPage())
	}
	return nil
}

// SetPage switches the page being edited. Selection, edit mode and any
// running gesture belong to the old page and are dropped.
func (e *Engine) SetPage(id string) error {
	if e.project == nil {
		return ErrNoProject
	}
	pg, ok := e.project.Page(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	if id != e.pageID {
		e.switchPage(pg)
	}
	return nil
}

func (e *Engine) switchPage(pg *document.Page) {
	e.exitEditing()
	e.selection = nil
	e.attach(pg)
}

// --- History ---

// Undo reverts the latest recorded action. A running gesture is ended
// first so it becomes the action undone.
func (e *Engine) Undo() bool {
	if e.project == nil {
		return false
	}
	e.endGesture()
	action, ok := e.history.Undo(e.project)
	if ok {
		e.afterHistory(action)
	}
	return ok
}

// Redo re-applies the latest undone action.
func (e *Engine) Redo() bool {
	if e.project == nil {
		return false
	}
	e.endGesture()
	action, ok := e.history.Redo(e.project)
	if ok {
		e.afterHistory(action)
	}
	return ok
}

func (e *Engine) afterHistory(action interaction.Action) {
	slog.Debug("history applied", "action", action.Type, "page", action.PageID)
	e.project.Touch()
	e.sync()
	e.scene.invalidate()
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

func (e *Engine) record(t interaction.ActionType, pg *document.Page, changes ...interaction.Change) {
	e.history.Record(interaction.Action{Type: t, PageID: pg.ID, Changes: changes})
	e.project.Touch()
	e.scene.invalidate()
}

func ptr(el document.Element) *document.Element {
	return &el
}
