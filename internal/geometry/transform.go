package geometry

import "math"

// DefaultMinSize is the smallest width or height a resize can produce.
const DefaultMinSize = 10.0

// Move translates the frame by a world-space delta.
func Move(b Box, dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Resize drags handle h by the world-space delta (dx, dy).
//
// The delta is first un-rotated into the frame's local axes, the size grows
// along the handle's axes only, and the frame is then re-positioned so the
// opposite handle keeps its world position. Width and height never drop
// below minSize (DefaultMinSize when minSize <= 0).
func Resize(b Box, h Handle, dx, dy, minSize float64) Box {
	sx, sy, ok := h.axes()
	if !ok {
		return b
	}
	if minSize <= 0 {
		minSize = DefaultMinSize
	}

	lx, ly := RotateDegrees(-b.Rotation).ApplyVector(dx, dy)

	w, hgt := b.Width, b.Height
	if sx != 0 {
		w = math.Max(b.Width+float64(sx)*lx, minSize)
	}
	if sy != 0 {
		hgt = math.Max(b.Height+float64(sy)*ly, minSize)
	}

	anchor := h.Opposite()
	fixed := b.HandlePoint(anchor)

	// Anchor offset from the new center, rotated into world space.
	ap := anchor.localPoint(w, hgt)
	ox, oy := RotateDegrees(b.Rotation).ApplyVector(ap.X-w/2, ap.Y-hgt/2)
	cx, cy := fixed.X-ox, fixed.Y-oy

	return Box{
		X:        cx - w/2,
		Y:        cy - hgt/2,
		Width:    w,
		Height:   hgt,
		Rotation: b.Rotation,
	}
}

// NormalizeAngle folds degrees into [0, 360). Non-finite input yields 0.
func NormalizeAngle(deg float64) float64 {
	if !finite(deg) {
		return 0
	}
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

// RotationAngle is the direction from center to pointer in degrees, [0, 360).
func RotationAngle(center, pointer Point) float64 {
	dx, dy := pointer.Sub(center)
	if dx == 0 && dy == 0 {
		return 0
	}
	return NormalizeAngle(math.Atan2(dy, dx) * 180 / math.Pi)
}

// Rotate sets the rotation to the angle from the frame center to pointer.
func Rotate(b Box, pointer Point) Box {
	b.Rotation = RotationAngle(b.Center(), pointer)
	return b
}

// RotateBy turns the frame by the angle the pointer swept around the
// center since startPointer. The frame does not jump when the grab point
// is not on the element's current heading.
func RotateBy(start Box, startPointer, pointer Point) Box {
	c := start.Center()
	delta := RotationAngle(c, pointer) - RotationAngle(c, startPointer)
	start.Rotation = NormalizeAngle(start.Rotation + delta)
	return start
}

// SnapAngle rounds deg to the nearest multiple of step.
func SnapAngle(deg, step float64) float64 {
	if step <= 0 {
		return NormalizeAngle(deg)
	}
	return NormalizeAngle(math.Round(deg/step) * step)
}
