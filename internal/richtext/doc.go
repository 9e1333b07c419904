package richtext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Doc is the editable region of one text element: an HTML fragment held
// under a detached container node.
type Doc struct {
	root *html.Node
}

func container() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

// Parse reads an HTML fragment as it appears inside the editable region.
func Parse(s string) (*Doc, error) {
	root := container()
	nodes, err := html.ParseFragment(strings.NewReader(s), root)
	if err != nil {
		return nil, fmt.Errorf("parse rich text: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Doc{root: root}, nil
}

// Replace swaps the region for markup produced outside the document,
// such as a browser's own formatting command.
func (d *Doc) Replace(markup string) error {
	next, err := Parse(markup)
	if err != nil {
		return err
	}
	d.root = next.root
	return nil
}

// HTML serializes the region to its canonical markup.
func (d *Doc) HTML() string {
	var b strings.Builder
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		// Rendering into a strings.Builder cannot fail on a parsed tree.
		_ = html.Render(&b, c)
	}
	return b.String()
}

// PlainText is the text projection of the region: text nodes in order,
// a newline for each <br> and one between block elements.
func (d *Doc) PlainText() string {
	text, _ := d.index()
	return text
}

// segment locates a text node in the plain projection, in runes.
type segment struct {
	node       *html.Node
	start, end int
}

func (d *Doc) index() (string, []segment) {
	var (
		b      strings.Builder
		segs   []segment
		offset int
	)
	newline := func() {
		b.WriteByte('\n')
		offset++
	}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			size := utf8.RuneCountInString(n.Data)
			segs = append(segs, segment{node: n, start: offset, end: offset + size})
			b.WriteString(n.Data)
			offset += size
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				newline()
				return
			}
			if isBlock(n) && offset > 0 && !strings.HasSuffix(b.String(), "\n") {
				newline()
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				visit(c)
			}
		}
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return b.String(), segs
}

func isBlock(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Div, atom.P, atom.Li, atom.Ul, atom.Ol, atom.H1, atom.H2, atom.H3, atom.Blockquote:
		return true
	}
	return false
}

// PlainTextToHTML builds canonical markup for plain text. Line breaks
// become <br> elements.
func PlainTextToHTML(s string) string {
	d := &Doc{root: container()}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			d.root.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
		}
		if line != "" {
			d.root.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
	return d.HTML()
}

// HTMLToPlainText returns the plain projection of markup. Markup that
// cannot be parsed is returned unchanged.
func HTMLToPlainText(s string) string {
	d, err := Parse(s)
	if err != nil {
		return s
	}
	return d.PlainText()
}
