package interaction

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

var (
	ErrInvalidGesture = errors.New("gesture not allowed")
	ErrUnknownElement = errors.New("unknown element")
	ErrNoSession      = errors.New("no active session")
	ErrNoTarget       = errors.New("no page attached")
)

// Target is the page a controller mutates.
type Target interface {
	Element(id string) (document.Element, bool)
	UpdateElement(id string, patch document.Patch) bool
}

// Hooks attach and detach the host's pointer listeners. OnBegin runs when
// a session starts and OnEnd exactly once when it ends, however it ends.
type Hooks struct {
	OnBegin func(s Session)
	OnEnd   func(s Session, final document.Element)
}

type Options struct {
	// MinSize is the smallest frame a resize produces.
	MinSize float64
	// SnapAngle rounds rotation to multiples of this many degrees; 0 disables.
	SnapAngle float64
}

// Controller owns the single active gesture session. Every pointer move
// recomputes the element from the session snapshot and commits it to the
// page immediately.
type Controller struct {
	opts    Options
	hooks   Hooks
	history *History

	pageID  string
	target  Target
	session *Session
}

// NewController creates an idle controller. history may be nil.
func NewController(opts Options, hooks Hooks, history *History) *Controller {
	if opts.MinSize <= 0 {
		opts.MinSize = geometry.DefaultMinSize
	}
	return &Controller{opts: opts, hooks: hooks, history: history}
}

// Attach points the controller at a page, ending any active session.
func (c *Controller) Attach(pageID string, t Target) {
	if c.session != nil {
		slog.Warn("page changed during a gesture, ending session", "session", c.session.ID)
		c.end()
	}
	c.pageID = pageID
	c.target = t
}

func (c *Controller) State() State {
	if c.session == nil {
		return StateIdle
	}
	return c.session.State()
}

// Session returns a copy of the active session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Begin starts a session for a pointer-down. A session that is still
// active, for example because its pointer-up was lost, is ended first.
func (c *Controller) Begin(req Request) (Session, error) {
	if c.target == nil {
		return Session{}, ErrNoTarget
	}
	el, ok := c.target.Element(req.ElementID)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrUnknownElement, req.ElementID)
	}
	if err := check(req, el); err != nil {
		return Session{}, err
	}

	if c.session != nil {
		slog.Warn("gesture started while another is active, ending previous session",
			"previous", c.session.ID, "gesture", c.session.Gesture)
		c.end()
	}

	start := geometry.Point{X: req.X, Y: req.Y}
	s := &Session{
		ID:        uuid.NewString(),
		Gesture:   req.Gesture,
		ElementID: el.ID,
		PageID:    c.pageID,
		Handle:    req.Handle,
		Start:     start,
		Last:      start,
		Snapshot:  el.Clone(),
		Aspect:    req.Aspect,
		StartedAt: time.Now(),
	}
	c.session = s
	slog.Debug("session begin", "session", s.ID, "gesture", s.Gesture, "element", s.ElementID)

	if c.hooks.OnBegin != nil {
		c.hooks.OnBegin(*s)
	}
	return *s, nil
}

// check enforces the state machine's entry conditions.
func check(req Request, el document.Element) error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %s %s", ErrInvalidGesture, req.Gesture, reason)
	}
	switch req.Gesture {
	case GestureMove, GestureRotate:
		if !req.Selected || req.Editing {
			return invalid("needs a selected element outside edit mode")
		}
	case GestureResize:
		if !req.Selected || req.Editing {
			return invalid("needs a selected element outside edit mode")
		}
		if _, ok := geometry.ParseHandle(string(req.Handle)); !ok {
			return invalid("needs a resize handle")
		}
	case GesturePanCrop:
		if !req.Editing || !el.IsImageLike() {
			return invalid("needs an image in edit mode")
		}
	case GestureScaleCrop:
		if !req.Editing || !el.IsImageLike() {
			return invalid("needs an image in edit mode")
		}
		if !req.Handle.IsCorner() {
			return invalid("needs a corner handle")
		}
	default:
		return invalid("is unknown")
	}
	return nil
}

// Update moves the pointer to (x, y) and commits the recomputed element.
func (c *Controller) Update(x, y float64) (document.Element, error) {
	s := c.session
	if s == nil {
		return document.Element{}, ErrNoSession
	}
	s.Last = geometry.Point{X: x, Y: y}
	s.Updates++

	patch := c.compute(s)
	if !c.target.UpdateElement(s.ElementID, patch) {
		// The element went away mid-gesture.
		c.end()
		return document.Element{}, fmt.Errorf("%w: %s", ErrUnknownElement, s.ElementID)
	}
	el, _ := c.target.Element(s.ElementID)
	return el, nil
}

func (c *Controller) compute(s *Session) document.Patch {
	snap := s.Snapshot
	dx, dy := s.Last.Sub(s.Start)

	switch s.Gesture {
	case GestureMove:
		return document.BoxPatch(geometry.Move(snap.Box(), dx, dy))
	case GestureResize:
		return document.BoxPatch(geometry.Resize(snap.Box(), s.Handle, dx, dy, c.opts.MinSize))
	case GestureRotate:
		b := geometry.RotateBy(snap.Box(), s.Start, s.Last)
		if c.opts.SnapAngle > 0 {
			b.Rotation = geometry.SnapAngle(b.Rotation, c.opts.SnapAngle)
		}
		return document.BoxPatch(b)
	case GesturePanCrop:
		lx, ly := geometry.RotateDegrees(-snap.Rotation).ApplyVector(dx, dy)
		return document.CropPatch(geometry.CropPan(snap.Crop(), snap.Width, snap.Height, lx, ly, s.Aspect))
	case GestureScaleCrop:
		lx, ly := geometry.RotateDegrees(-snap.Rotation).ApplyVector(dx, dy)
		return document.CropPatch(geometry.CropScale(snap.Crop(), s.Handle, lx, ly))
	}
	return document.Patch{}
}

// End finishes the active session on pointer-up. Changes already
// committed stay; one history entry covers the whole gesture.
func (c *Controller) End() (Session, error) {
	if c.session == nil {
		return Session{}, ErrNoSession
	}
	return c.end(), nil
}

func (c *Controller) end() Session {
	s := *c.session
	c.session = nil

	final, ok := c.target.Element(s.ElementID)
	if ok && c.history != nil && changed(s.Snapshot, final) {
		before, after := s.Snapshot.Clone(), final.Clone()
		c.history.Record(Action{
			Type:    ActionGesture,
			PageID:  s.PageID,
			Changes: []Change{{Before: &before, After: &after}},
		})
	}
	slog.Debug("session end", "session", s.ID, "gesture", s.Gesture, "updates", s.Updates)

	if c.hooks.OnEnd != nil {
		c.hooks.OnEnd(s, final)
	}
	return s
}

func changed(a, b document.Element) bool {
	if a.Box() != b.Box() {
		return true
	}
	return a.Crop() != b.Crop()
}
