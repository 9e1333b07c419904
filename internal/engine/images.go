package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/render"
)

func (e *Engine) env() render.Env {
	return render.Env{Image: e.imageStatus}
}

func (e *Engine) imageStatus(url string) (asset.Size, render.ImageStatus) {
	if e.failed[url] {
		return asset.Size{}, render.ImageFailed
	}
	if size, ok := e.images[url]; ok {
		return size, render.ImageLoaded
	}
	return asset.Size{}, render.ImagePending
}

// aspect is the natural aspect of url, 0 while unknown.
func (e *Engine) aspect(url string) float64 {
	size, status := e.imageStatus(url)
	if status != render.ImageLoaded {
		return 0
	}
	return size.Aspect()
}

// trackImage points the stale-result guard at the image of the element
// in edit mode.
func (e *Engine) trackImage(el document.Element) {
	if !el.IsImageLike() {
		e.guard.Clear()
		return
	}
	e.guard.Track(el.ID, render.ImageURL(el))
}

// PendingImage is the crop editor image whose natural size is still
// unknown.
type PendingImage struct {
	ElementID string `json:"elementId"`
	URL       string `json:"url"`
}

// GetPendingImage returns the image the host should measure as JSON, or
// "null" when nothing is waiting.
func (e *Engine) GetPendingImage() string {
	p, ok := e.pendingImage()
	if !ok {
		return "null"
	}
	data, _ := json.Marshal(p)
	return string(data)
}

func (e *Engine) pendingImage() (PendingImage, bool) {
	if e.editingID == "" {
		return PendingImage{}, false
	}
	el, ok := e.element(e.editingID)
	if !ok || !el.IsImageLike() {
		return PendingImage{}, false
	}
	url := render.ImageURL(el)
	if url == "" {
		return PendingImage{}, false
	}
	if _, status := e.imageStatus(url); status != render.ImagePending {
		return PendingImage{}, false
	}
	return PendingImage{ElementID: el.ID, URL: url}, true
}

// ResolveImage stores the natural size the host measured for url. Results
// for an element that is no longer in edit mode, or whose image changed
// since the measurement started, are dropped and false is returned.
func (e *Engine) ResolveImage(elementID, url string, size asset.Size) bool {
	if !e.guard.Current(elementID, url) {
		slog.Debug("stale image size dropped", "element", elementID, "url", url)
		return false
	}
	e.images[url] = size
	delete(e.failed, url)
	e.scene.invalidate()
	return true
}

// ImageFailed marks url as unloadable. The element renders a broken state
// instead of a stretched placeholder.
func (e *Engine) ImageFailed(url string) {
	e.failed[url] = true
	e.scene.invalidate()
}

// ProbeImage measures the pending crop editor image with p and resolves
// it. The guard is checked after the probe returns, so a result that
// arrives after the user moved on is discarded.
func (e *Engine) ProbeImage(ctx context.Context, p *asset.Prober) error {
	pending, ok := e.pendingImage()
	if !ok {
		return nil
	}
	size, err := p.Probe(ctx, pending.URL)
	if err != nil {
		if e.guard.Current(pending.ElementID, pending.URL) {
			e.ImageFailed(pending.URL)
		}
		return fmt.Errorf("probe %s: %w", pending.ElementID, err)
	}
	e.ResolveImage(pending.ElementID, pending.URL, size)
	return nil
}
