package interaction

import (
	"time"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

// Gesture is the kind of pointer gesture a session performs.
type Gesture string

const (
	GestureMove      Gesture = "move"
	GestureResize    Gesture = "resize"
	GestureRotate    Gesture = "rotate"
	GesturePanCrop   Gesture = "pan-crop"
	GestureScaleCrop Gesture = "scale-crop"
)

// State is the controller's position in the gesture state machine.
type State string

const (
	StateIdle        State = "idle"
	StateMoving      State = "moving"
	StateResizing    State = "resizing"
	StateRotating    State = "rotating"
	StatePanningCrop State = "panning-crop"
	StateScalingCrop State = "scaling-crop"
)

func (g Gesture) state() State {
	switch g {
	case GestureMove:
		return StateMoving
	case GestureResize:
		return StateResizing
	case GestureRotate:
		return StateRotating
	case GesturePanCrop:
		return StatePanningCrop
	case GestureScaleCrop:
		return StateScalingCrop
	}
	return StateIdle
}

// Request describes a pointer-down that may start a session. X and Y are
// in document space. Aspect is the natural image aspect for crop
// gestures, 0 while unknown.
type Request struct {
	Gesture   Gesture         `json:"gesture"`
	ElementID string          `json:"elementId"`
	Handle    geometry.Handle `json:"handle,omitempty"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Selected  bool            `json:"selected"`
	Editing   bool            `json:"editing"`
	Aspect    float64         `json:"aspect,omitempty"`
}

// Session is one in-progress gesture. Every update is computed from
// Snapshot and the pointer travel since Start.
type Session struct {
	ID        string           `json:"id"`
	Gesture   Gesture          `json:"gesture"`
	ElementID string           `json:"elementId"`
	PageID    string           `json:"pageId"`
	Handle    geometry.Handle  `json:"handle,omitempty"`
	Start     geometry.Point   `json:"start"`
	Last      geometry.Point   `json:"last"`
	Snapshot  document.Element `json:"snapshot"`
	Aspect    float64          `json:"aspect,omitempty"`
	StartedAt time.Time        `json:"startedAt"`
	Updates   int              `json:"updates"`
}

func (s Session) State() State {
	return s.Gesture.state()
}
