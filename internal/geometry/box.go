package geometry

import "math"

// Box is an element frame: top-left corner, size, and rotation in degrees
// about the frame center.
type Box struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// Center returns the rotation pivot in world space.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Matrix maps local frame coordinates (origin at the unrotated top-left)
// to world space: T(center) * R(rotation) * T(-w/2, -h/2).
func (b Box) Matrix() Matrix2D {
	c := b.Center()
	return Translate(c.X, c.Y).
		Multiply(RotateDegrees(b.Rotation)).
		Multiply(Translate(-b.Width/2, -b.Height/2))
}

// LocalToWorld maps a point in the element's local frame to world space.
func (b Box) LocalToWorld(p Point) Point {
	return b.Matrix().Apply(p)
}

// WorldToLocal maps a world point into the element's local frame.
func (b Box) WorldToLocal(p Point) Point {
	return b.Matrix().Invert().Apply(p)
}

// HandlePoint returns the world position of a resize handle.
func (b Box) HandlePoint(h Handle) Point {
	return b.LocalToWorld(h.localPoint(b.Width, b.Height))
}

// Corners returns the world corners in nw, ne, se, sw order.
func (b Box) Corners() [4]Point {
	return [4]Point{
		b.HandlePoint(HandleNW),
		b.HandlePoint(HandleNE),
		b.HandlePoint(HandleSE),
		b.HandlePoint(HandleSW),
	}
}

// Contains reports whether a world point lies inside the rotated frame.
func (b Box) Contains(p Point) bool {
	l := b.WorldToLocal(p)
	const eps = 1e-9
	return l.X >= -eps && l.X <= b.Width+eps && l.Y >= -eps && l.Y <= b.Height+eps
}

// Bounds returns the world-space axis-aligned bounding box.
func (b Box) Bounds() Rect {
	return b.Matrix().TransformRect(Rect{Width: b.Width, Height: b.Height})
}

// Handle names one of the eight resize grips in the element's local frame.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists every resize handle, corners first.
var Handles = []Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// CornerHandles are the handles used by the crop editor.
var CornerHandles = []Handle{HandleNW, HandleNE, HandleSE, HandleSW}

// octants maps compass handles by 45-degree step, starting east and
// turning clockwise (y down).
var octants = [8]Handle{HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW, HandleN, HandleNE}

// ParseHandle validates a handle name.
func ParseHandle(s string) (Handle, bool) {
	h := Handle(s)
	if _, _, ok := h.axes(); ok {
		return h, true
	}
	return "", false
}

// IsCorner reports whether the handle scales both axes.
func (h Handle) IsCorner() bool {
	sx, sy, ok := h.axes()
	return ok && sx != 0 && sy != 0
}

// Opposite returns the handle across the frame, which stays fixed while h is dragged.
func (h Handle) Opposite() Handle {
	sx, sy, ok := h.axes()
	if !ok {
		return h
	}
	return handleFromAxes(-sx, -sy)
}

// ScreenDirection returns the compass direction the handle faces on screen
// once the frame is rotated.
func (h Handle) ScreenDirection(rotation float64) Handle {
	sx, sy, ok := h.axes()
	if !ok {
		return h
	}
	angle := math.Atan2(float64(sy), float64(sx)) * 180 / math.Pi
	return octantHandle(angle + rotation)
}

// Cursor returns the CSS resize cursor for the handle on a rotated frame.
func (h Handle) Cursor(rotation float64) string {
	switch h.ScreenDirection(rotation) {
	case HandleE, HandleW:
		return "ew-resize"
	case HandleN, HandleS:
		return "ns-resize"
	case HandleNW, HandleSE:
		return "nwse-resize"
	default:
		return "nesw-resize"
	}
}

func octantHandle(angle float64) Handle {
	a := NormalizeAngle(angle)
	idx := int(math.Round(a/45)) % 8
	return octants[idx]
}

func (h Handle) axes() (sx, sy int, ok bool) {
	switch h {
	case HandleN:
		return 0, -1, true
	case HandleS:
		return 0, 1, true
	case HandleE:
		return 1, 0, true
	case HandleW:
		return -1, 0, true
	case HandleNE:
		return 1, -1, true
	case HandleNW:
		return -1, -1, true
	case HandleSE:
		return 1, 1, true
	case HandleSW:
		return -1, 1, true
	}
	return 0, 0, false
}

// localPoint is the handle position in a w x h local frame.
func (h Handle) localPoint(w, hgt float64) Point {
	sx, sy, _ := h.axes()
	return Point{X: float64(1+sx) / 2 * w, Y: float64(1+sy) / 2 * hgt}
}

func handleFromAxes(sx, sy int) Handle {
	for _, h := range Handles {
		hx, hy, _ := h.axes()
		if hx == sx && hy == sy {
			return h
		}
	}
	return ""
}
