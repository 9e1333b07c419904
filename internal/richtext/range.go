package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Range is a selection in rune offsets of the plain projection, End
// exclusive.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

func (r Range) normalize() Range {
	if r.End < r.Start {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// splitText cuts a text node at rune index at and returns the right half,
// inserted after n.
func splitText(n *html.Node, at int) *html.Node {
	runes := []rune(n.Data)
	right := &html.Node{Type: html.TextNode, Data: string(runes[at:])}
	n.Data = string(runes[:at])
	n.Parent.InsertBefore(right, n.NextSibling)
	return right
}

// isolate splits text nodes at the range boundaries and returns the text
// nodes that lie fully inside the range, in document order.
func (d *Doc) isolate(r Range) []*html.Node {
	_, segs := d.index()
	var pieces []*html.Node
	for _, s := range segs {
		lo := max(r.Start, s.start) - s.start
		hi := min(r.End, s.end) - s.start
		if hi <= lo {
			continue
		}
		n := s.node
		if hi < s.end-s.start {
			splitText(n, hi)
		}
		if lo > 0 {
			n = splitText(n, lo)
		}
		pieces = append(pieces, n)
	}
	return pieces
}

// surround moves the run of siblings from the first to the last piece
// into wrapper. It fails when the pieces do not share one parent or the
// run contains anything but the pieces and line breaks.
func surround(pieces []*html.Node, wrapper *html.Node) bool {
	if len(pieces) == 0 {
		return false
	}
	first, last := pieces[0], pieces[len(pieces)-1]
	parent := first.Parent
	inRange := make(map[*html.Node]bool, len(pieces))
	for _, p := range pieces {
		if p.Parent != parent {
			return false
		}
		inRange[p] = true
	}

	var run []*html.Node
	for n := first; ; n = n.NextSibling {
		if n == nil {
			return false
		}
		if !inRange[n] && n.DataAtom != atom.Br {
			return false
		}
		run = append(run, n)
		if n == last {
			break
		}
	}

	parent.InsertBefore(wrapper, first)
	for _, n := range run {
		parent.RemoveChild(n)
		wrapper.AppendChild(n)
	}
	return true
}

// wrapEach wraps every piece in its own copy of the wrapper. A piece that
// already is the only child of a span gets the style set on that span.
func wrapEach(pieces []*html.Node, wrapper func() *html.Node, prop, value string) {
	for _, p := range pieces {
		if prop != "" && soleSpanChild(p) {
			setStyle(p.Parent, prop, value)
			continue
		}
		w := wrapper()
		p.Parent.InsertBefore(w, p)
		p.Parent.RemoveChild(p)
		w.AppendChild(p)
	}
}

func soleSpanChild(n *html.Node) bool {
	p := n.Parent
	return p != nil && p.DataAtom == atom.Span && p.FirstChild == n && p.LastChild == n
}

// wrapRange applies wrapper to the range: one wrapper around the whole
// run when possible, else one per text node.
func (d *Doc) wrapRange(r Range, wrapper func() *html.Node, prop, value string) bool {
	pieces := d.isolate(r)
	if len(pieces) == 0 {
		return false
	}
	if len(pieces) == 1 && prop != "" && soleSpanChild(pieces[0]) {
		setStyle(pieces[0].Parent, prop, value)
		return true
	}
	if !surround(pieces, wrapper()) {
		wrapEach(pieces, wrapper, prop, value)
	}
	return true
}

func styledSpan(prop, value string) func() *html.Node {
	return func() *html.Node {
		return &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr:     []html.Attribute{{Key: "style", Val: prop + ": " + value}},
		}
	}
}

func element(a atom.Atom) func() *html.Node {
	return func() *html.Node {
		return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	}
}

// setStyle sets one declaration in an element's inline style, keeping
// the others in order.
func setStyle(n *html.Node, prop, value string) {
	idx := -1
	for i, a := range n.Attr {
		if a.Key == "style" {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: prop + ": " + value})
		return
	}

	var decls []string
	found := false
	for _, decl := range strings.Split(n.Attr[idx].Val, ";") {
		name, _, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			decl, found = prop+": "+value, true
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if !found {
		decls = append(decls, prop+": "+value)
	}
	n.Attr[idx].Val = strings.Join(decls, "; ")
}

func styleValue(n *html.Node, prop string) string {
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		for _, decl := range strings.Split(a.Val, ";") {
			name, val, ok := strings.Cut(decl, ":")
			if ok && strings.EqualFold(strings.TrimSpace(name), prop) {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}

// bold reports whether the nearest ancestor that sets a weight makes n bold.
func bold(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if w := styleValue(p, "font-weight"); w != "" {
			if weight, err := strconv.Atoi(w); err == nil {
				return weight >= 600
			}
			return w == "bold" || w == "bolder"
		}
		if p.DataAtom == atom.B || p.DataAtom == atom.Strong {
			return true
		}
	}
	return false
}
