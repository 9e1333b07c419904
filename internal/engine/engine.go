package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/config"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/interaction"
	"github.com/kimahnho/worksheet/editor-go/internal/render"
	"github.com/kimahnho/worksheet/editor-go/internal/richtext"
)

var (
	ErrNoProject      = errors.New("no project loaded")
	ErrUnknownPage    = errors.New("unknown page")
	ErrUnknownElement = errors.New("unknown element")
	ErrLastPage       = errors.New("cannot delete the last page")
	ErrNotEditing     = errors.New("no text element in edit mode")
)

// Engine is the editor core that owns the project and all editing state.
// It processes commands from the frontend and returns query results.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg config.Editor

	// Document state
	project *document.Project
	pageID  string

	// Selection and edit mode (backend owns these)
	selection []string
	editingID string

	ctrl     *interaction.Controller
	history  *interaction.History
	text     *richtext.Editor
	textHost richtext.Host

	// Natural image sizes by URL, and URLs that failed to load.
	images map[string]asset.Size
	failed map[string]bool
	guard  asset.Guard

	// Retained render nodes for the current page
	scene *scene
}

// NewEngine creates an engine without a project. hooks are forwarded to
// the interaction controller.
func NewEngine(cfg config.Editor, hooks interaction.Hooks) *Engine {
	history := interaction.NewHistory(cfg.HistoryLimit)
	return &Engine{
		cfg:     cfg,
		history: history,
		ctrl: interaction.NewController(interaction.Options{
			MinSize:   cfg.MinElementSize,
			SnapAngle: cfg.SnapAngle,
		}, hooks, history),
		images: make(map[string]asset.Size),
		failed: make(map[string]bool),
		scene:  newScene(),
	}
}

// SetTextHost routes color and bold commands of later edit sessions
// through h. A nil host restores the built-in inline styling.
func (e *Engine) SetTextHost(h richtext.Host) {
	e.textHost = h
}

func (e *Engine) pageDefaults() document.PageDefaults {
	return document.PageDefaults{
		Width:      e.cfg.PageWidth,
		Height:     e.cfg.PageHeight,
		Background: e.cfg.PageBackground,
	}
}

// --- Commands (frontend → backend) ---

// LoadProject loads a project from JSON, resetting all editing state.
func (e *Engine) LoadProject(jsonData string) error {
	p, err := document.Deserialize([]byte(jsonData))
	if err != nil {
		return err
	}
	e.setProject(p)
	return nil
}

// LoadSampleProject loads the built-in sample worksheet.
func (e *Engine) LoadSampleProject(projectID string) {
	e.setProject(document.NewSampleProject(projectID))
}

// NewProject starts an empty project with one page.
func (e *Engine) NewProject(name string) {
	e.setProject(document.NewProject("", name, e.pageDefaults()))
}

func (e *Engine) setProject(p *document.Project) {
	e.endGesture()
	e.project = p
	e.selection = nil
	e.exitEditing()
	e.history.Clear()
	e.attach(p.FirstPage())
	slog.Info("project loaded", "project", p.ID, "pages", len(p.Pages))
}

// UpdateProject replaces the project from JSON while keeping the current
// page, selection and history. Used when a collaborator changed the
// document remotely.
func (e *Engine) UpdateProject(jsonData string) error {
	p, err := document.Deserialize([]byte(jsonData))
	if err != nil {
		return err
	}
	e.endGesture()
	e.project = p

	pg, ok := p.Page(e.pageID)
	if !ok {
		pg = p.FirstPage()
	}
	e.attach(pg)
	e.sync()
	return nil
}

func (e *Engine) attach(pg *document.Page) {
	if pg == nil {
		e.pageID = ""
		e.ctrl.Attach("", nil)
	} else {
		e.pageID = pg.ID
		e.ctrl.Attach(pg.ID, pg)
	}
	e.scene.invalidate()
}

// SetSelection sets the selected element ids. Ids not on the current page
// are dropped. Leaving the edited element deselected exits edit mode.
func (e *Engine) SetSelection(ids []string) {
	pg := e.page()
	var sel []string
	for _, id := range ids {
		if pg == nil {
			break
		}
		if _, ok := pg.Element(id); ok && !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	e.selection = sel
	if e.editingID != "" && !slices.Contains(sel, e.editingID) {
		e.exitEditing()
	}
	e.scene.invalidate()
}

// ClearSelection deselects everything and exits edit mode.
func (e *Engine) ClearSelection() {
	e.SetSelection(nil)
}

// sync repairs selection and edit mode after the page changed under them.
func (e *Engine) sync() {
	e.SetSelection(e.selection)
	if e.editingID == "" {
		return
	}
	el, ok := e.element(e.editingID)
	if !ok {
		e.exitEditing()
		return
	}
	e.trackImage(el)
	if e.text != nil {
		markup := el.RichTextHTML
		if markup == "" {
			markup = richtext.PlainTextToHTML(el.Content)
		}
		if html, _ := e.text.Result(); html != markup {
			if err := e.text.SetContent(markup); err != nil {
				slog.Warn("text editor resync failed", "element", el.ID, "error", err)
			}
		}
	}
}

// --- Queries (frontend ← backend) ---

// Render compiles the current page and returns render nodes as JSON.
func (e *Engine) Render() string {
	result, err := render.NodesToJSON(e.nodes())
	if err != nil {
		slog.Error("render failed", "error", err)
		return "[]"
	}
	return result
}

func (e *Engine) nodes() []render.Node {
	pg := e.page()
	if pg == nil {
		return nil
	}
	if e.scene.dirty {
		e.scene.rebuild(render.CompilePage(pg, e.selection, e.editingID, e.env()))
	}
	return e.scene.nodes
}

// HitTest returns the id of the topmost element at (x, y), or "".
func (e *Engine) HitTest(x, y float64) string {
	return render.HitTest(e.page(), x, y)
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	return render.RectToJSON(render.SelectionBounds(e.page(), e.selection))
}

// GetSelection returns the current selection as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(e.selectionOrEmpty())
	return string(data)
}

func (e *Engine) selectionOrEmpty() []string {
	if e.selection == nil {
		return []string{}
	}
	return e.selection
}

// Selection returns a copy of the selected ids.
func (e *Engine) Selection() []string {
	return slices.Clone(e.selection)
}

// EditingID returns the element in edit mode, or "".
func (e *Engine) EditingID() string {
	return e.editingID
}

// Project returns the loaded project.
func (e *Engine) Project() *document.Project {
	return e.project
}

// CurrentPage returns the page being edited.
func (e *Engine) CurrentPage() *document.Page {
	return e.page()
}

// GetDocument returns the full project as JSON (for sync and saving).
func (e *Engine) GetDocument() string {
	if e.project == nil {
		return "{}"
	}
	data, err := document.Serialize(e.project)
	if err != nil {
		slog.Error("serialize project failed", "error", err)
		return "{}"
	}
	return string(data)
}

// GetElement returns one element of the current page as JSON.
func (e *Engine) GetElement(id string) string {
	el, ok := e.element(id)
	if !ok {
		return "null"
	}
	data, _ := json.Marshal(el)
	return string(data)
}

type pageInfo struct {
	ID         string  `json:"id"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background"`
	Elements   int     `json:"elements"`
}

// GetPages returns page summaries and the current page id as JSON.
func (e *Engine) GetPages() string {
	out := struct {
		Current string     `json:"current"`
		Pages   []pageInfo `json:"pages"`
	}{Current: e.pageID, Pages: []pageInfo{}}
	if e.project != nil {
		for _, pg := range e.project.Pages {
			out.Pages = append(out.Pages, pageInfo{
				ID:         pg.ID,
				Width:      pg.Width,
				Height:     pg.Height,
				Background: pg.Background,
				Elements:   len(pg.Elements),
			})
		}
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// EditorState is the interaction and history state reported to the host.
type EditorState struct {
	Page        string            `json:"page"`
	Selection   []string          `json:"selection"`
	Editing     string            `json:"editing"`
	Interaction interaction.State `json:"interaction"`
	CanUndo     bool              `json:"canUndo"`
	CanRedo     bool              `json:"canRedo"`
}

// EditorState returns the current interaction and history state.
func (e *Engine) EditorState() EditorState {
	return EditorState{
		Page:        e.pageID,
		Selection:   e.selectionOrEmpty(),
		Editing:     e.editingID,
		Interaction: e.ctrl.State(),
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
	}
}

// GetEditorState returns EditorState as JSON.
func (e *Engine) GetEditorState() string {
	data, _ := json.Marshal(e.EditorState())
	return string(data)
}

// --- helpers ---

func (e *Engine) page() *document.Page {
	if e.project == nil {
		return nil
	}
	pg, _ := e.project.Page(e.pageID)
	return pg
}

func (e *Engine) requirePage() (*document.Page, error) {
	if e.project == nil {
		return nil, ErrNoProject
	}
	pg, ok := e.project.Page(e.pageID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, e.pageID)
	}
	return pg, nil
}

func (e *Engine) element(id string) (document.Element, bool) {
	pg := e.page()
	if pg == nil {
		return document.Element{}, false
	}
	return pg.Element(id)
}
