package document

import (
	"log/slog"
	"sort"

	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

// ZDirection is a stacking-order command.
type ZDirection string

const (
	ZFront    ZDirection = "front"
	ZBack     ZDirection = "back"
	ZForward  ZDirection = "forward"
	ZBackward ZDirection = "backward"
)

// Page owns an ordered list of elements. Element ids are unique within a page.
type Page struct {
	ID         string    `json:"id"`
	Elements   []Element `json:"elements"`
	Background string    `json:"background"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
}

// NewPage creates an empty page with a fresh id.
func NewPage(d PageDefaults) *Page {
	return &Page{
		ID:         typeid.NewPageID(),
		Elements:   []Element{},
		Background: d.Background,
		Width:      d.Width,
		Height:     d.Height,
	}
}

func (p *Page) index(id string) int {
	for i := range p.Elements {
		if p.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Element returns a copy of the element with the given id.
func (p *Page) Element(id string) (Element, bool) {
	i := p.index(id)
	if i < 0 {
		return Element{}, false
	}
	return p.Elements[i], true
}

// AddElement appends el on top of the stack. A missing or colliding id is
// replaced with a fresh one. Returns the stored element.
func (p *Page) AddElement(el Element) Element {
	if el.ID == "" || p.index(el.ID) >= 0 {
		if el.ID != "" {
			slog.Warn("element id already on page, assigning a new one", "element", el.ID, "page", p.ID)
		}
		el.ID = typeid.NewElementID()
	}
	el.ZIndex = p.topZ() + 1
	if len(p.Elements) == 0 {
		el.ZIndex = 0
	}
	el.Normalize()
	p.Elements = append(p.Elements, el)
	return el
}

// InsertElement puts el back at a list position without touching its
// z-index. Used to restore deleted elements.
func (p *Page) InsertElement(el Element, index int) bool {
	if p.index(el.ID) >= 0 {
		slog.Warn("insert element: id already on page", "element", el.ID, "page", p.ID)
		return false
	}
	if index < 0 || index > len(p.Elements) {
		index = len(p.Elements)
	}
	el.Normalize()
	p.Elements = append(p.Elements, Element{})
	copy(p.Elements[index+1:], p.Elements[index:])
	p.Elements[index] = el
	return true
}

// UpdateElement merges a patch into one element. Unknown ids are a
// logged no-op because commands can race with deletion.
func (p *Page) UpdateElement(id string, patch Patch) bool {
	i := p.index(id)
	if i < 0 {
		slog.Warn("update element: not found", "element", id, "page", p.ID)
		return false
	}
	p.Elements[i] = patch.Apply(p.Elements[i])
	return true
}

// ReplaceElement overwrites the stored element with the same id.
func (p *Page) ReplaceElement(el Element) bool {
	i := p.index(el.ID)
	if i < 0 {
		slog.Warn("replace element: not found", "element", el.ID, "page", p.ID)
		return false
	}
	el.Normalize()
	p.Elements[i] = el
	return true
}

// DeleteElement removes an element. Other elements that refer to it are
// left as they are.
func (p *Page) DeleteElement(id string) bool {
	i := p.index(id)
	if i < 0 {
		slog.Warn("delete element: not found", "element", id, "page", p.ID)
		return false
	}
	p.Elements = append(p.Elements[:i], p.Elements[i+1:]...)
	return true
}

// DuplicateElement copies an element under a new id, offset by (offset, offset),
// and stacks it on top.
func (p *Page) DuplicateElement(id string, offset float64) (Element, bool) {
	src, ok := p.Element(id)
	if !ok {
		slog.Warn("duplicate element: not found", "element", id, "page", p.ID)
		return Element{}, false
	}
	dup := src.Clone()
	dup.ID = ""
	dup.X += offset
	dup.Y += offset
	return p.AddElement(dup), true
}

// ReorderZIndex changes stacking order. Front and back move past every
// other element; forward and backward swap with the neighbor in paint order.
func (p *Page) ReorderZIndex(id string, dir ZDirection) bool {
	i := p.index(id)
	if i < 0 {
		slog.Warn("reorder element: not found", "element", id, "page", p.ID)
		return false
	}
	if len(p.Elements) < 2 {
		return true
	}

	switch dir {
	case ZFront:
		p.Elements[i].ZIndex = p.extremeZ(id, true) + 1
	case ZBack:
		p.Elements[i].ZIndex = p.extremeZ(id, false) - 1
	case ZForward, ZBackward:
		p.swapWithNeighbor(id, dir == ZForward)
	default:
		slog.Warn("reorder element: unknown direction", "direction", dir)
		return false
	}
	return true
}

func (p *Page) swapWithNeighbor(id string, forward bool) {
	order := p.paintIndices()
	pos := -1
	for k, idx := range order {
		if p.Elements[idx].ID == id {
			pos = k
			break
		}
	}
	next := pos - 1
	if forward {
		next = pos + 1
	}
	if next < 0 || next >= len(order) {
		return
	}

	a, b := order[pos], order[next]
	if p.Elements[a].ZIndex == p.Elements[b].ZIndex {
		// Ties are resolved by list position; make the order explicit first.
		for k, idx := range order {
			p.Elements[idx].ZIndex = k
		}
	}
	p.Elements[a].ZIndex, p.Elements[b].ZIndex = p.Elements[b].ZIndex, p.Elements[a].ZIndex
}

// PaintOrder returns elements back to front. Equal z-indexes keep list order.
func (p *Page) PaintOrder() []Element {
	order := p.paintIndices()
	out := make([]Element, len(order))
	for k, idx := range order {
		out[k] = p.Elements[idx]
	}
	return out
}

// HitOrder returns elements front to back.
func (p *Page) HitOrder() []Element {
	out := p.PaintOrder()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (p *Page) paintIndices() []int {
	order := make([]int, len(p.Elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p.Elements[order[a]].ZIndex < p.Elements[order[b]].ZIndex
	})
	return order
}

func (p *Page) topZ() int {
	z, first := 0, true
	for _, el := range p.Elements {
		if first || el.ZIndex > z {
			z, first = el.ZIndex, false
		}
	}
	return z
}

// extremeZ returns the max (or min) z among elements other than id.
func (p *Page) extremeZ(id string, highest bool) int {
	z, first := 0, true
	for _, el := range p.Elements {
		if el.ID == id {
			continue
		}
		if first || (highest && el.ZIndex > z) || (!highest && el.ZIndex < z) {
			z, first = el.ZIndex, false
		}
	}
	return z
}
