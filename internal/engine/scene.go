package engine

import "github.com/kimahnho/worksheet/editor-go/internal/render"

// scene is the retained render state of the current page. It persists
// between renders and is rebuilt only after something changed.
type scene struct {
	nodes     []render.Node
	nodesByID map[string]int
	dirty     bool // needs recompiling
}

func newScene() *scene {
	return &scene{nodesByID: make(map[string]int), dirty: true}
}

func (s *scene) invalidate() {
	s.dirty = true
}

func (s *scene) rebuild(nodes []render.Node) {
	s.nodes = nodes
	clear(s.nodesByID)
	for i, n := range nodes {
		s.nodesByID[n.ElementID] = i
	}
	s.dirty = false
}

// node looks up the compiled node of an element.
func (s *scene) node(id string) (render.Node, bool) {
	i, ok := s.nodesByID[id]
	if !ok {
		return render.Node{}, false
	}
	return s.nodes[i], true
}
