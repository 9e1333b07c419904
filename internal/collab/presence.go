package collab

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[userID] = p
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, userID)
}

// DropElement removes a deleted element from every user's selection and
// edit target. It returns the users whose presence changed.
func (pm *PresenceManager) DropElement(elementID string) []string {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var changed []string
	for userID, p := range pm.presences {
		touched := false
		if slices.Contains(p.Selection, elementID) {
			next := *p
			next.Selection = slices.DeleteFunc(slices.Clone(p.Selection), func(id string) bool { return id == elementID })
			p = &next
			touched = true
		}
		if p.EditingID == elementID {
			next := *p
			next.EditingID = ""
			p = &next
			touched = true
		}
		if touched {
			pm.presences[userID] = p
			changed = append(changed, userID)
		}
	}
	slices.Sort(changed)
	return changed
}

// DropPage clears the page, selection and edit target of users who were
// on a deleted page.
func (pm *PresenceManager) DropPage(pageID string) []string {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var changed []string
	for userID, p := range pm.presences {
		if p.PageID != pageID {
			continue
		}
		pm.presences[userID] = &PresencePayload{Cursor: p.Cursor, DisplayName: p.DisplayName}
		changed = append(changed, userID)
	}
	slices.Sort(changed)
	return changed
}

func (pm *PresenceManager) Get(userID string) (*PresencePayload, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.presences[userID]
	return p, ok
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	all := pm.GetAll()
	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
