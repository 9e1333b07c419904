package collab

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxDisplayName = 64

// Handler upgrades /ws/project/{projectId} requests into room clients.
// Connections are anonymous; the display name comes from the "name"
// query parameter.
type Handler struct {
	hub            *Hub
	originPatterns []string
}

func NewHandler(hub *Hub, originPatterns []string) *Handler {
	return &Handler{hub: hub, originPatterns: originPatterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]
	if projectID == "" {
		http.Error(w, "missing project id", http.StatusBadRequest)
		return
	}

	userID := "anon-" + uuid.New().String()[:8]
	displayName := strings.TrimSpace(r.URL.Query().Get("name"))
	if displayName == "" {
		displayName = "Anonymous"
	}
	if runes := []rune(displayName); len(runes) > maxDisplayName {
		displayName = string(runes[:maxDisplayName])
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(h.hub, conn, userID, displayName, projectID, clientID)

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
