package render

import (
	"encoding/json"
	"math"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

// GripRadius is the pointer tolerance around handles, in document px.
const GripRadius = 6.0

// CompilePage renders every element on a page in paint order (back to front).
func CompilePage(page *document.Page, selection []string, editingID string, env Env) []Node {
	if page == nil {
		return nil
	}
	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	order := page.PaintOrder()
	nodes := make([]Node, 0, len(order))
	for _, el := range order {
		st := State{Selected: selected[el.ID], Editing: el.ID == editingID}
		nodes = append(nodes, Dispatch(el, st, env))
	}
	return nodes
}

// NodesToJSON serializes render nodes to JSON.
func NodesToJSON(nodes []Node) (string, error) {
	if nodes == nil {
		nodes = []Node{}
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the id of the topmost element containing the point, or
// "". Rotation is honored and pass-through elements are skipped.
func HitTest(page *document.Page, x, y float64) string {
	if page == nil {
		return ""
	}
	p := geometry.Point{X: x, Y: y}
	for _, el := range page.HitOrder() {
		if el.IsPassThrough {
			continue
		}
		if el.Box().Contains(p) {
			return el.ID
		}
	}
	return ""
}

// Target is what a pointer-down landed on within one node.
type Target string

const (
	TargetNone      Target = ""
	TargetBody      Target = "body"
	TargetResize    Target = "resize"
	TargetRotate    Target = "rotate"
	TargetCropBody  Target = "cropBody"
	TargetCropScale Target = "cropScale"
)

// Grip is the result of hit testing a node's interactive parts.
type Grip struct {
	Target Target          `json:"target"`
	Handle geometry.Handle `json:"handle,omitempty"`
}

// HitGrip tests a point against a node's grips before its body. Overlay
// handles are in world space; crop editor handles are in the element's
// local frame.
func HitGrip(n Node, x, y, radius float64) Grip {
	if radius <= 0 {
		radius = GripRadius
	}
	p := geometry.Point{X: x, Y: y}

	if o := n.Overlay; o != nil {
		if near(o.Rotation, p, radius) {
			return Grip{Target: TargetRotate}
		}
		for _, h := range o.Handles {
			if near(h.Point, p, radius) {
				return Grip{Target: TargetResize, Handle: h.Handle}
			}
		}
	}

	if ce := n.CropEditor; ce != nil {
		local := n.Box.WorldToLocal(p)
		for _, h := range ce.Handles {
			if near(h.Point, local, radius) {
				return Grip{Target: TargetCropScale, Handle: h.Handle}
			}
		}
		img := geometry.Rect{
			X:      ce.Layout.DisplayX,
			Y:      ce.Layout.DisplayY,
			Width:  ce.Layout.ImageWidth,
			Height: ce.Layout.ImageHeight,
		}
		if img.Contains(local.X, local.Y) {
			return Grip{Target: TargetCropBody}
		}
		return Grip{}
	}

	if n.Box.Contains(p) {
		return Grip{Target: TargetBody}
	}
	return Grip{}
}

func near(a, b geometry.Point, radius float64) bool {
	dx, dy := a.Sub(b)
	return math.Hypot(dx, dy) <= radius
}

// SelectionBounds returns the combined world bounding box of the given
// element ids. Unknown ids are ignored.
func SelectionBounds(page *document.Page, ids []string) geometry.Rect {
	if page == nil || len(ids) == 0 {
		return geometry.Rect{}
	}

	var result geometry.Rect
	first := true
	for _, id := range ids {
		el, ok := page.Element(id)
		if !ok {
			continue
		}
		b := el.Box().Bounds()
		if first {
			result = b
			first = false
		} else {
			result = result.Union(b)
		}
	}
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geometry.Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}
