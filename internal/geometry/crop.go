package geometry

import "math"

// Crop scale bounds in percent of the frame width.
const (
	MinCropScale     = 100.0
	MaxCropScale     = 300.0
	DefaultCropScale = 100.0
)

// cropScaleDamping divides the diagonal drag distance when a crop corner
// handle changes the zoom.
const cropScaleDamping = 3.0

// Crop is the background-image state of an image-like element.
//
// Scale is the legacy uniform zoom in percent (100 = image width equals
// frame width). ScaleX/ScaleY are independent factors (1.0 = 100%) that
// take over when either is set. PosX/PosY align the scaled image inside
// the frame: 0 aligns the left/top edges, 1 the right/bottom edges.
type Crop struct {
	Scale  float64 `json:"scale"`
	ScaleX float64 `json:"scaleX,omitempty"`
	ScaleY float64 `json:"scaleY,omitempty"`
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
}

// DefaultCrop is a fit-to-width image centered in its frame.
func DefaultCrop() Crop {
	return Crop{Scale: DefaultCropScale, PosX: 0.5, PosY: 0.5}
}

// NormalizeCrop replaces malformed values with safe defaults so no NaN
// reaches stored state.
func NormalizeCrop(c Crop) Crop {
	if !finite(c.Scale) || c.Scale <= 0 {
		c.Scale = DefaultCropScale
	}
	if !finite(c.ScaleX) || c.ScaleX < 0 {
		c.ScaleX = 0
	}
	if !finite(c.ScaleY) || c.ScaleY < 0 {
		c.ScaleY = 0
	}
	if !finite(c.PosX) {
		c.PosX = 0.5
	}
	if !finite(c.PosY) {
		c.PosY = 0.5
	}
	c.PosX = clamp(c.PosX, 0, 1)
	c.PosY = clamp(c.PosY, 0, 1)
	return c
}

// PerAxis reports whether the independent per-axis scale is in effect.
func (c Crop) PerAxis() bool {
	return c.ScaleX > 0 || c.ScaleY > 0
}

// SafeAspect returns aspect, or 1 while the natural size is unknown.
func SafeAspect(aspect float64) float64 {
	if !finite(aspect) || aspect <= 0 {
		return 1
	}
	return aspect
}

func axisOrOne(v float64) float64 {
	if v > 0 {
		return v
	}
	return 1
}

// ImageSize returns the rendered image size for a frame.
//
// Legacy uniform scale: width = frameW * scale/100, height = width / aspect.
// Per-axis scale: width = frameW * scaleX, height = frameH * scaleY.
func ImageSize(frameW, frameH float64, c Crop, aspect float64) (float64, float64) {
	c = NormalizeCrop(c)
	if c.PerAxis() {
		return frameW * axisOrOne(c.ScaleX), frameH * axisOrOne(c.ScaleY)
	}
	w := frameW * c.Scale / 100
	return w, w / SafeAspect(aspect)
}

// Layout is the pixel placement of a cropped image inside its frame.
type Layout struct {
	FrameWidth  float64 `json:"frameWidth"`
	FrameHeight float64 `json:"frameHeight"`
	ImageWidth  float64 `json:"imageWidth"`
	ImageHeight float64 `json:"imageHeight"`
	DisplayX    float64 `json:"displayX"`
	DisplayY    float64 `json:"displayY"`
}

// Display computes the pixel translate of the image inside the frame:
// displayX = -(imageW - frameW) * posX, displayY = -(imageH - frameH) * posY.
func Display(frameW, frameH float64, c Crop, aspect float64) Layout {
	c = NormalizeCrop(c)
	imgW, imgH := ImageSize(frameW, frameH, c, aspect)
	return Layout{
		FrameWidth:  frameW,
		FrameHeight: frameH,
		ImageWidth:  imgW,
		ImageHeight: imgH,
		DisplayX:    -(imgW - frameW) * c.PosX,
		DisplayY:    -(imgH - frameH) * c.PosY,
	}
}

// CSSBackground is the same placement as Display expressed as CSS
// background-size and background-position percentages.
type CSSBackground struct {
	SizeX     float64 `json:"sizeX"`
	SizeY     float64 `json:"sizeY"`
	PositionX float64 `json:"positionX"`
	PositionY float64 `json:"positionY"`
	Size      string  `json:"size"`
	Position  string  `json:"position"`
}

// BackgroundCSS converts crop state into CSS percentages. A percentage p
// in background-position places the image at (frame - image) * p/100,
// which is Display's offset with p = pos*100.
func BackgroundCSS(frameW, frameH float64, c Crop, aspect float64) CSSBackground {
	c = NormalizeCrop(c)
	imgW, imgH := ImageSize(frameW, frameH, c, aspect)

	out := CSSBackground{
		SizeX:     100,
		SizeY:     100,
		PositionX: c.PosX * 100,
		PositionY: c.PosY * 100,
	}
	if frameW > 0 {
		out.SizeX = imgW / frameW * 100
	}
	if frameH > 0 {
		out.SizeY = imgH / frameH * 100
	}
	out.Size = formatFloat(out.SizeX) + "% " + formatFloat(out.SizeY) + "%"
	out.Position = formatFloat(out.PositionX) + "% " + formatFloat(out.PositionY) + "%"
	return out
}

// CSSOffset is the pixel offset CSS applies for a background-position percentage.
func CSSOffset(frame, image, percent float64) float64 {
	return (frame - image) * percent / 100
}

// PositionFromDisplay recovers the normalized position from a pixel
// offset. It reports false when the image has no excess on that axis,
// where every position renders identically.
func PositionFromDisplay(display, image, frame float64) (float64, bool) {
	excess := image - frame
	if math.Abs(excess) < 1e-9 {
		return 0, false
	}
	return -display / excess, true
}

// CropPan moves the image by a screen-space drag measured from the start
// of the gesture. Each axis converts the delta into a normalized offset
// over its scrollable excess and clamps to [0, 1]; an axis without excess
// keeps its position.
func CropPan(start Crop, frameW, frameH, dx, dy, aspect float64) Crop {
	c := NormalizeCrop(start)
	imgW, imgH := ImageSize(frameW, frameH, c, aspect)

	if excess := imgW - frameW; excess > 0 {
		c.PosX = clamp(c.PosX-dx/excess, 0, 1)
	}
	if excess := imgH - frameH; excess > 0 {
		c.PosY = clamp(c.PosY-dy/excess, 0, 1)
	}
	return c
}

// CropScaleDelta is the zoom change in percent for a corner-handle drag.
// Dragging a corner away from the frame center zooms in.
func CropScaleDelta(h Handle, dx, dy float64) float64 {
	switch h {
	case HandleSE:
		return (dx + dy) / cropScaleDamping
	case HandleNW:
		return (-dx - dy) / cropScaleDamping
	case HandleNE:
		return (dx - dy) / cropScaleDamping
	case HandleSW:
		return (-dx + dy) / cropScaleDamping
	}
	return 0
}

// CropScale applies a corner-handle drag, measured from the start of the
// gesture, to the zoom. The result is clamped to [MinCropScale,
// MaxCropScale]. Position is kept as is, so zooming out after a pan can
// leave part of the frame uncovered.
func CropScale(start Crop, h Handle, dx, dy float64) Crop {
	c := NormalizeCrop(start)
	delta := CropScaleDelta(h, dx, dy)
	if delta == 0 {
		return c
	}

	if c.PerAxis() {
		lo, hi := MinCropScale/100, MaxCropScale/100
		c.ScaleX = clamp(axisOrOne(c.ScaleX)+delta/100, lo, hi)
		c.ScaleY = clamp(axisOrOne(c.ScaleY)+delta/100, lo, hi)
		return c
	}
	c.Scale = clamp(c.Scale+delta, MinCropScale, MaxCropScale)
	return c
}
