package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/store"
)

const (
	// DefaultAutosave is how often dirty rooms are written to the store.
	DefaultAutosave = 30 * time.Second
	storeTimeout    = 10 * time.Second
)

type Room struct {
	projectID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	state     *DocumentState
}

func NewRoom(projectID string, state *DocumentState) *Room {
	return &Room{
		projectID: projectID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     state,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // projectID -> room
	store      store.Store
	autosave   time.Duration
	defaults   document.PageDefaults
	register   chan *Client
	unregister chan *Client
	loaded     chan loadResult
	stop       chan struct{}
	done       chan struct{}

	// Clients waiting for their project to load, by project. Owned by Run.
	joining map[string][]*Client
}

type loadResult struct {
	projectID string
	state     *DocumentState
	err       error
}

// NewHub creates a hub that loads and saves projects through s. Projects
// missing from the store start with one page sized by defaults.
func NewHub(s store.Store, autosave time.Duration, defaults document.PageDefaults) *Hub {
	if autosave <= 0 {
		autosave = DefaultAutosave
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		store:      s,
		autosave:   autosave,
		defaults:   defaults,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		loaded:     make(chan loadResult),
		stop:       make(chan struct{}),
		joining:    make(map[string][]*Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	ticker := time.NewTicker(h.autosave)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case res := <-h.loaded:
			h.finishLoad(res)
		case <-ticker.C:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop ends Run after saving every dirty room.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// State returns the live document state of a project's room.
func (h *Hub) State(projectID string) (*DocumentState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[projectID]
	if !ok {
		return nil, false
	}
	return room.state, true
}

func (h *Hub) loadState(projectID string) (*DocumentState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	p, err := store.LoadProject(ctx, h.store, projectID)
	if errors.Is(err, store.ErrNotFound) {
		slog.Info("starting new project", "project", projectID)
		state := NewDocumentState(document.NewProject(projectID, "Untitled", h.defaults))
		state.MarkDirty()
		return state, nil
	}
	if err != nil {
		return nil, err
	}
	return NewDocumentState(p), nil
}

// addClient joins a live room at once. Otherwise the client waits while
// the project loads off the Run loop; finishLoad completes the join.
func (h *Hub) addClient(client *Client) {
	if room, ok := h.room(client.ProjectID); ok {
		h.join(room, client)
		return
	}

	waiting, loading := h.joining[client.ProjectID]
	h.joining[client.ProjectID] = append(waiting, client)
	if loading {
		return
	}

	go func(projectID string) {
		state, err := h.loadState(projectID)
		select {
		case h.loaded <- loadResult{projectID: projectID, state: state, err: err}:
		case <-h.stop:
		}
	}(client.ProjectID)
}

func (h *Hub) finishLoad(res loadResult) {
	waiting := h.joining[res.projectID]
	delete(h.joining, res.projectID)

	if res.err != nil {
		slog.Error("load project", "project", res.projectID, "error", res.err)
		for _, c := range waiting {
			c.Send(newMessage(TypeError, "", ErrorPayload{Message: "could not load project"}))
			c.Close()
		}
		return
	}
	if len(waiting) == 0 {
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[res.projectID]
	if !ok {
		room = NewRoom(res.projectID, res.state)
		h.rooms[res.projectID] = room
	}
	h.mu.Unlock()

	for _, c := range waiting {
		h.join(room, c)
	}
}

func (h *Hub) join(room *Room, client *Client) {
	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, client.UserID, WelcomePayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	}))

	if data, seq, err := room.state.Snapshot(); err != nil {
		slog.Error("serialize project", "project", client.ProjectID, "error", err)
	} else {
		syncMsg := newMessage(TypeDocSync, "", DocSyncPayload{Project: data, ServerSeq: seq})
		syncMsg.Seq = seq
		client.Send(syncMsg)
	}

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinMsg := newMessage(TypePresenceJoin, client.UserID, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.ProjectID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) removeClient(client *Client) {
	if waiting, ok := h.joining[client.ProjectID]; ok {
		if i := slices.Index(waiting, client); i >= 0 {
			h.joining[client.ProjectID] = slices.Delete(waiting, i, i+1)
			client.Close()
			return
		}
	}

	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room.clients[client.ClientID]; !member {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.Close()
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.ProjectID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	}

	// Broadcast leave to remaining clients
	leaveMsg := newMessage(TypePresenceLeave, client.UserID, PresenceLeavePayload{
		UserID: client.UserID,
	})
	h.broadcastToRoom(client.ProjectID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}

func (h *Hub) saveRoom(room *Room) {
	data, dirty, err := room.state.TakeDirty()
	if err != nil {
		slog.Error("serialize project", "project", room.projectID, "error", err)
		return
	}
	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	snap, err := h.store.Save(ctx, room.projectID, data)
	if err != nil {
		room.state.MarkDirty()
		slog.Error("save project", "project", room.projectID, "error", err)
		return
	}
	slog.Info("project saved", "project", room.projectID, "version", snap.Version)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) room(projectID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[projectID]
	return room, ok
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	room, ok := h.room(sender.ProjectID)
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	h.broadcastToRoom(sender.ProjectID, newMessage(TypePresenceUpdate, sender.UserID, presence), sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		sender.Send(newMessage(TypeOpNack, "", OperationNackPayload{Reason: "invalid payload"}))
		return
	}
	op := submit.Operation

	room, ok := h.room(sender.ProjectID)
	if !ok {
		return
	}

	seq, err := room.state.ApplyOperation(&op)
	if err != nil {
		slog.Debug("op rejected", "op", op.ID, "type", op.Type, "error", err)
		sender.Send(newMessage(TypeOpNack, "", OperationNackPayload{OperationID: op.ID, Reason: err.Error()}))
		return
	}

	ack := newMessage(TypeOpAck, "", OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
		Operation:       &op,
	})
	ack.Seq = seq
	sender.Send(ack)

	broadcast := newMessage(TypeOpBroadcast, sender.UserID, OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
	})
	broadcast.Seq = seq
	h.broadcastToRoom(sender.ProjectID, broadcast, sender.ClientID)

	var stale []string
	switch op.Type {
	case OpElementDelete:
		stale = room.presence.DropElement(op.ElementID)
	case OpPageDelete:
		stale = room.presence.DropPage(op.PageID)
	}
	for _, userID := range stale {
		if p, ok := room.presence.Get(userID); ok {
			h.broadcastToRoom(sender.ProjectID, newMessage(TypePresenceUpdate, userID, p), "")
		}
	}
}

func (h *Hub) broadcastToRoom(projectID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[projectID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func newMessage(msgType, userID string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", msgType, "error", err)
		data = []byte("null")
	}
	return &Message{Type: msgType, UserID: userID, Payload: data}
}
