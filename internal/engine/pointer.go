package engine

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
	"github.com/kimahnho/worksheet/editor-go/internal/interaction"
	"github.com/kimahnho/worksheet/editor-go/internal/render"
)

// PointerResult reports what a pointer-down landed on.
type PointerResult struct {
	Target    render.Target       `json:"target"`
	ElementID string              `json:"elementId,omitempty"`
	Handle    geometry.Handle     `json:"handle,omitempty"`
	Gesture   interaction.Gesture `json:"gesture,omitempty"`
	Session   string              `json:"session,omitempty"`
}

// PointerDown routes a press at (x, y) in page coordinates. Grips of the
// element in edit mode are tested first, then the selection overlays,
// then element bodies from the top. A press on empty canvas clears the
// selection.
func (e *Engine) PointerDown(x, y float64) (PointerResult, error) {
	if _, err := e.requirePage(); err != nil {
		return PointerResult{}, err
	}
	e.nodes()

	if e.editingID != "" {
		if n, ok := e.scene.node(e.editingID); ok {
			grip := render.HitGrip(n, x, y, e.cfg.GripRadius)
			switch grip.Target {
			case render.TargetCropScale:
				return e.begin(interaction.GestureScaleCrop, n, grip, x, y)
			case render.TargetCropBody:
				return e.begin(interaction.GesturePanCrop, n, grip, x, y)
			case render.TargetBody:
				// Caret placement belongs to the host.
				return PointerResult{Target: render.TargetBody, ElementID: n.ElementID}, nil
			}
		}
		e.exitEditing()
		e.nodes()
	}

	for i := len(e.scene.nodes) - 1; i >= 0; i-- {
		n := e.scene.nodes[i]
		if n.Overlay == nil {
			continue
		}
		grip := render.HitGrip(render.Node{Overlay: n.Overlay, Box: n.Box}, x, y, e.cfg.GripRadius)
		switch grip.Target {
		case render.TargetRotate:
			return e.begin(interaction.GestureRotate, n, grip, x, y)
		case render.TargetResize:
			return e.begin(interaction.GestureResize, n, grip, x, y)
		}
	}

	id := render.HitTest(e.page(), x, y)
	if id == "" {
		e.ClearSelection()
		return PointerResult{}, nil
	}
	if !slices.Contains(e.selection, id) {
		e.SetSelection([]string{id})
	}
	e.nodes()
	n, _ := e.scene.node(id)
	return e.begin(interaction.GestureMove, n, render.Grip{Target: render.TargetBody}, x, y)
}

func (e *Engine) begin(g interaction.Gesture, n render.Node, grip render.Grip, x, y float64) (PointerResult, error) {
	req := interaction.Request{
		Gesture:   g,
		ElementID: n.ElementID,
		Handle:    grip.Handle,
		X:         x,
		Y:         y,
		Selected:  slices.Contains(e.selection, n.ElementID),
		Editing:   e.editingID == n.ElementID,
	}
	if n.CropEditor != nil {
		req.Aspect = e.aspect(n.CropEditor.URL)
	}
	s, err := e.ctrl.Begin(req)
	if err != nil {
		return PointerResult{}, err
	}
	return PointerResult{
		Target:    grip.Target,
		ElementID: n.ElementID,
		Handle:    grip.Handle,
		Gesture:   g,
		Session:   s.ID,
	}, nil
}

// PointerMove advances the active gesture and returns the updated element.
func (e *Engine) PointerMove(x, y float64) (document.Element, error) {
	el, err := e.ctrl.Update(x, y)
	if err != nil {
		if errors.Is(err, interaction.ErrUnknownElement) {
			e.sync()
		}
		return document.Element{}, err
	}
	e.project.Touch()
	e.scene.invalidate()
	return el, nil
}

// PointerUp ends the active gesture. A release without a gesture is not
// an error.
func (e *Engine) PointerUp() {
	e.endGesture()
}

// endGesture closes a running session so commands never interleave with
// a half-finished gesture.
func (e *Engine) endGesture() {
	if e.ctrl.State() == interaction.StateIdle {
		return
	}
	if _, err := e.ctrl.End(); err != nil {
		slog.Warn("end gesture failed", "error", err)
	}
	e.scene.invalidate()
}

// InteractionState returns the controller state.
func (e *Engine) InteractionState() interaction.State {
	return e.ctrl.State()
}
