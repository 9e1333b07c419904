package asset

import "sync"

// Guard drops probe results that arrive after the element they were
// started for has changed image or left edit mode.
type Guard struct {
	mu        sync.Mutex
	elementID string
	url       string
}

// Track records the image currently shown in the crop editor.
func (g *Guard) Track(elementID, url string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.elementID = elementID
	g.url = url
}

// Clear forgets the tracked image.
func (g *Guard) Clear() {
	g.Track("", "")
}

// Current reports whether a result for (elementID, url) is still wanted.
func (g *Guard) Current(elementID, url string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return elementID != "" && g.elementID == elementID && g.url == url
}
