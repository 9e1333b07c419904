package richtext

import (
	"math"

	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

// ToolbarGap is the space between the selection and the floating toolbar.
const ToolbarGap = 8.0

// ToolbarPosition places a w x h toolbar centered above the selection,
// flipping below it when there is no room above, and clamped into the
// viewport horizontally.
func ToolbarPosition(sel geometry.Rect, w, h float64, viewport geometry.Rect) geometry.Point {
	x := sel.X + sel.Width/2 - w/2
	y := sel.Y - ToolbarGap - h
	if y < viewport.Y {
		y = sel.Y + sel.Height + ToolbarGap
	}

	maxX := viewport.X + viewport.Width - w
	x = math.Max(viewport.X, math.Min(x, maxX))
	return geometry.Point{X: x, Y: y}
}
