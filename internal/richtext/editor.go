package richtext

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

const (
	CommandForeColor = "foreColor"
	CommandBold      = "bold"
)

var (
	ErrNoSelection        = errors.New("no saved selection")
	ErrRangeOutOfBounds   = errors.New("selection outside text")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// Host runs the environment's native inline-style commands on a region.
type Host interface {
	ExecCommand(d *Doc, r Range, command, value string) error
}

// InlineHost is the built-in Host. It styles with inline spans and <b>.
type InlineHost struct{}

func (InlineHost) ExecCommand(d *Doc, r Range, command, value string) error {
	switch command {
	case CommandForeColor:
		d.wrapRange(r, styledSpan("color", value), "color", value)
	case CommandBold:
		if d.allBold(r) {
			d.wrapRange(r, styledSpan("font-weight", "normal"), "font-weight", "normal")
		} else {
			d.wrapRange(r, element(atom.B), "", "")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, command)
	}
	return nil
}

func (d *Doc) allBold(r Range) bool {
	_, segs := d.index()
	found := false
	for _, s := range segs {
		if s.end <= r.Start || s.start >= r.End || s.start == s.end {
			continue
		}
		found = true
		if !bold(s.node) {
			return false
		}
	}
	return found
}

// Editor is the rich-text sub-editor for one text element. It keeps the
// last non-empty selection so toolbar commands apply to it even after the
// editable region lost focus.
type Editor struct {
	doc    *Doc
	host   Host
	sel    Range
	hasSel bool
}

// NewEditor opens markup for editing. A nil host uses InlineHost.
func NewEditor(markup string, host Host) (*Editor, error) {
	d, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	if host == nil {
		host = InlineHost{}
	}
	return &Editor{doc: d, host: host}, nil
}

// SetContent replaces the region after typing in the host.
func (e *Editor) SetContent(markup string) error {
	d, err := Parse(markup)
	if err != nil {
		return err
	}
	e.doc = d
	if e.hasSel && e.sel.End > utf8.RuneCountInString(d.PlainText()) {
		e.hasSel = false
	}
	return nil
}

// CaptureSelection saves r if it is non-empty and inside the text.
func (e *Editor) CaptureSelection(r Range) bool {
	r = r.normalize()
	if r.Empty() || r.Start < 0 || r.End > utf8.RuneCountInString(e.doc.PlainText()) {
		return false
	}
	e.sel, e.hasSel = r, true
	return true
}

// Selection returns the saved selection.
func (e *Editor) Selection() (Range, bool) {
	return e.sel, e.hasSel
}

func (e *Editor) restore() (Range, error) {
	if !e.hasSel {
		return Range{}, ErrNoSelection
	}
	if e.sel.End > utf8.RuneCountInString(e.doc.PlainText()) {
		return Range{}, ErrRangeOutOfBounds
	}
	return e.sel, nil
}

// ApplyFontFamily wraps the selection in a span setting font-family.
func (e *Editor) ApplyFontFamily(family string) error {
	return e.applyStyle("font-family", family)
}

// ApplyFontSize wraps the selection in a span setting font-size in px.
func (e *Editor) ApplyFontSize(px float64) error {
	return e.applyStyle("font-size", strconv.FormatFloat(px, 'f', -1, 64)+"px")
}

func (e *Editor) applyStyle(prop, value string) error {
	r, err := e.restore()
	if err != nil {
		return err
	}
	e.doc.wrapRange(r, styledSpan(prop, value), prop, value)
	slog.Debug("rich text style applied", "prop", prop, "value", value, "start", r.Start, "end", r.End)
	return nil
}

// ApplyColor sets the text color through the host.
func (e *Editor) ApplyColor(hex string) error {
	return e.exec(CommandForeColor, hex)
}

// ToggleBold flips bold on the selection through the host.
func (e *Editor) ToggleBold() error {
	return e.exec(CommandBold, "")
}

func (e *Editor) exec(command, value string) error {
	r, err := e.restore()
	if err != nil {
		return err
	}
	if err := e.host.ExecCommand(e.doc, r, command, value); err != nil {
		return fmt.Errorf("exec %s: %w", command, err)
	}
	return nil
}

// Result returns the element's richTextHtml and content after the last
// mutation.
func (e *Editor) Result() (string, string) {
	return e.doc.HTML(), e.doc.PlainText()
}
