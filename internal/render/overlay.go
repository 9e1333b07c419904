package render

import (
	"fmt"
	"math"

	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

// RotationGripOffset is how far above the top edge the rotation grip sits.
const RotationGripOffset = 24.0

// NewOverlay builds the selection decoration for a frame.
func NewOverlay(b geometry.Box) *Overlay {
	handles := make([]HandleView, 0, len(geometry.Handles))
	for _, h := range geometry.Handles {
		handles = append(handles, HandleView{
			Handle: h,
			Point:  b.HandlePoint(h),
			Cursor: h.Cursor(b.Rotation),
		})
	}
	return &Overlay{
		Corners:  b.Corners(),
		Bounds:   b.Bounds(),
		Handles:  handles,
		Rotation: b.LocalToWorld(geometry.Point{X: b.Width / 2, Y: -RotationGripOffset}),
		Label:    fmt.Sprintf("%d x %d", int(math.Round(b.Width)), int(math.Round(b.Height))),
	}
}
