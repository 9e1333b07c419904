package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
	"github.com/kimahnho/worksheet/editor-go/internal/interaction"
	"github.com/kimahnho/worksheet/editor-go/internal/richtext"
)

// BeginEditing enters edit mode on an element: the rich-text editor for
// text, the crop editor for images. The element becomes the selection.
func (e *Engine) BeginEditing(id string) error {
	el, ok := e.element(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	e.endGesture()
	e.exitEditing()
	e.selection = []string{id}
	e.editingID = id

	if el.Variant() == document.VariantText {
		markup := el.RichTextHTML
		if markup == "" {
			markup = richtext.PlainTextToHTML(el.Content)
		}
		ed, err := richtext.NewEditor(markup, e.textHost)
		if err != nil {
			e.editingID = ""
			return fmt.Errorf("open text editor: %w", err)
		}
		e.text = ed
	}
	e.trackImage(el)
	e.scene.invalidate()
	slog.Debug("edit mode entered", "element", id, "behavior", el.Variant())
	return nil
}

// EndEditing leaves edit mode. The element stays selected.
func (e *Engine) EndEditing() {
	e.exitEditing()
}

func (e *Engine) exitEditing() {
	if e.editingID == "" {
		return
	}
	if e.ctrl.State() == interaction.StatePanningCrop || e.ctrl.State() == interaction.StateScalingCrop {
		e.endGesture()
	}
	slog.Debug("edit mode left", "element", e.editingID)
	e.editingID = ""
	e.text = nil
	e.guard.Clear()
	e.scene.invalidate()
}

func (e *Engine) textEditor() (*richtext.Editor, error) {
	if e.text == nil {
		return nil, ErrNotEditing
	}
	return e.text, nil
}

// SetTextContent replaces the edited region after the user typed.
func (e *Engine) SetTextContent(markup string) error {
	ed, err := e.textEditor()
	if err != nil {
		return err
	}
	if err := ed.SetContent(markup); err != nil {
		return fmt.Errorf("set text content: %w", err)
	}
	return e.commitText()
}

// SelectText saves a selection as rune offsets into the plain text. Empty
// ranges are ignored so toolbar clicks keep the previous selection.
func (e *Engine) SelectText(start, end int) (bool, error) {
	ed, err := e.textEditor()
	if err != nil {
		return false, err
	}
	return ed.CaptureSelection(richtext.Range{Start: start, End: end}), nil
}

// ApplyFontFamily sets the font family on the saved text selection.
func (e *Engine) ApplyFontFamily(family string) error {
	return e.textCommand(func(ed *richtext.Editor) error { return ed.ApplyFontFamily(family) })
}

// ApplyFontSize sets the font size in px on the saved text selection.
func (e *Engine) ApplyFontSize(px float64) error {
	return e.textCommand(func(ed *richtext.Editor) error { return ed.ApplyFontSize(px) })
}

// ApplyTextColor sets the color on the saved text selection.
func (e *Engine) ApplyTextColor(hex string) error {
	return e.textCommand(func(ed *richtext.Editor) error { return ed.ApplyColor(hex) })
}

// ToggleBold flips bold on the saved text selection.
func (e *Engine) ToggleBold() error {
	return e.textCommand((*richtext.Editor).ToggleBold)
}

func (e *Engine) textCommand(fn func(*richtext.Editor) error) error {
	ed, err := e.textEditor()
	if err != nil {
		return err
	}
	if err := fn(ed); err != nil {
		return err
	}
	return e.commitText()
}

// commitText writes the editor's result back to the element.
func (e *Engine) commitText() error {
	html, plain := e.text.Result()
	_, err := e.UpdateElement(e.editingID, document.Patch{
		RichTextHTML: &html,
		Content:      &plain,
	})
	return err
}

// GetToolbarPosition places a toolbar of size (w, h) for a text selection
// rectangle and returns the top-left point as JSON.
func (e *Engine) GetToolbarPosition(sel geometry.Rect, w, h float64, viewport geometry.Rect) string {
	data, _ := json.Marshal(richtext.ToolbarPosition(sel, w, h, viewport))
	return string(data)
}
