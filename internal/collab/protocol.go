package collab

import (
	"encoding/json"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	PageID      string     `json:"pageId,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	EditingID   string     `json:"editingId,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type DocSyncPayload struct {
	Project   json.RawMessage `json:"project"`
	ServerSeq int64           `json:"serverSeq"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types
const (
	OpElementAdd       = "element.add"
	OpElementUpdate    = "element.update"
	OpElementDelete    = "element.delete"
	OpElementReorder   = "element.reorder"
	OpElementDuplicate = "element.duplicate"
	OpPageAdd          = "page.add"
	OpPageDelete       = "page.delete"
	OpPageUpdate       = "page.update"
	OpProjectRename    = "project.rename"
)

// --- Operation Types ---

// Operation represents a document mutation
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	PageID    string `json:"pageId,omitempty"`
	ElementID string `json:"elementId,omitempty"`

	// For element.add
	Element *document.Element `json:"element,omitempty"`

	// For element.update
	Patch *document.Patch `json:"patch,omitempty"`

	// For element.reorder
	Direction document.ZDirection `json:"direction,omitempty"`

	// For element.duplicate; assigned by the server when empty
	NewElementID string   `json:"newElementId,omitempty"`
	Offset       *float64 `json:"offset,omitempty"`

	// For page.update
	Page *PagePatch `json:"page,omitempty"`

	// For project.rename
	Name         string `json:"name,omitempty"`
	PreviousName string `json:"previousName,omitempty"`
}

// PagePatch is a partial page update. Nil fields are left alone.
type PagePatch struct {
	Background *string  `json:"background,omitempty"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string     `json:"operationId"`
	ServerSeq       int64      `json:"serverSeq"`
	ServerTimestamp int64      `json:"serverTimestamp"`
	Operation       *Operation `json:"operation,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}
