package document

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kimahnho/worksheet/editor-go/internal/typeid"
)

// PageDefaults sizes new pages. The zero value is an A4 sheet at 96 dpi.
type PageDefaults struct {
	Width      float64
	Height     float64
	Background string
}

func (d PageDefaults) orDefault() PageDefaults {
	if d.Width <= 0 {
		d.Width = 794
	}
	if d.Height <= 0 {
		d.Height = 1123
	}
	if d.Background == "" {
		d.Background = "#ffffff"
	}
	return d
}

// Project is the unit of persistence. Elements is the legacy flat list
// that predates pages; it is folded into the first page on load.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
	Elements  []Element `json:"elements,omitempty"`
	Pages     []*Page   `json:"pages"`
}

// NewProject creates a project with one empty page.
func NewProject(id, name string, d PageDefaults) *Project {
	if id == "" {
		id = typeid.NewProjectID()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return &Project{
		ID:        id,
		Name:      name,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		Pages:     []*Page{NewPage(d.orDefault())},
	}
}

// Page looks up a page by id.
func (p *Project) Page(id string) (*Page, bool) {
	for _, pg := range p.Pages {
		if pg.ID == id {
			return pg, true
		}
	}
	return nil, false
}

// FirstPage returns the first page, or nil for a project without pages.
func (p *Project) FirstPage() *Page {
	if len(p.Pages) == 0 {
		return nil
	}
	return p.Pages[0]
}

// AddPage appends an empty page.
func (p *Project) AddPage(d PageDefaults) *Page {
	pg := NewPage(d.orDefault())
	p.Pages = append(p.Pages, pg)
	return pg
}

// DeletePage removes a page and the elements it owns. The last page
// cannot be removed.
func (p *Project) DeletePage(id string) bool {
	if len(p.Pages) <= 1 {
		slog.Warn("delete page: refusing to remove the last page", "page", id)
		return false
	}
	for i, pg := range p.Pages {
		if pg.ID == id {
			p.Pages = append(p.Pages[:i], p.Pages[i+1:]...)
			return true
		}
	}
	slog.Warn("delete page: not found", "page", id)
	return false
}

// MigrateLegacy moves the flat element list onto the first page, keeping
// each element's z-index.
func (p *Project) MigrateLegacy() bool {
	if len(p.Elements) == 0 {
		return false
	}
	if len(p.Pages) == 0 {
		p.Pages = []*Page{NewPage(PageDefaults{}.orDefault())}
	}
	first := p.Pages[0]
	for _, el := range p.Elements {
		if el.ID == "" || first.index(el.ID) >= 0 {
			el.ID = typeid.NewElementID()
		}
		first.InsertElement(el, len(first.Elements))
	}
	slog.Info("migrated legacy elements", "project", p.ID, "count", len(p.Elements))
	p.Elements = nil
	return true
}

// Touch bumps the update timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Serialize encodes the project as an opaque snapshot.
func Serialize(p *Project) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return data, nil
}

// Deserialize decodes a snapshot. Only structural shape is checked:
// missing optional fields get defaults, missing ids are generated and
// duplicate element ids on a page are re-keyed.
func Deserialize(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	p.normalize()
	return &p, nil
}

func (p *Project) normalize() {
	if p.ID == "" {
		p.ID = typeid.NewProjectID()
	}
	if p.Version <= 0 {
		p.Version = 1
	}

	pages := p.Pages[:0]
	for _, pg := range p.Pages {
		if pg != nil {
			pages = append(pages, pg)
		}
	}
	p.Pages = pages

	p.MigrateLegacy()
	if len(p.Pages) == 0 {
		p.Pages = []*Page{NewPage(PageDefaults{}.orDefault())}
	}

	defaults := PageDefaults{}.orDefault()
	for _, pg := range p.Pages {
		if pg.ID == "" {
			pg.ID = typeid.NewPageID()
		}
		if pg.Width <= 0 {
			pg.Width = defaults.Width
		}
		if pg.Height <= 0 {
			pg.Height = defaults.Height
		}
		if pg.Background == "" {
			pg.Background = defaults.Background
		}
		if pg.Elements == nil {
			pg.Elements = []Element{}
		}

		seen := make(map[string]bool, len(pg.Elements))
		for i := range pg.Elements {
			el := &pg.Elements[i]
			if el.ID == "" || seen[el.ID] {
				if el.ID != "" {
					slog.Warn("duplicate element id in snapshot, re-keying", "element", el.ID, "page", pg.ID)
				}
				el.ID = typeid.NewElementID()
			}
			seen[el.ID] = true
			el.Normalize()
		}
	}
}
