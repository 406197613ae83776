package websocket

import "github.com/stemsi/admission-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionMarkRead Action = "mark_read"
)

// Request is any client frame. NotificationID is set for mark_read.
type Request struct {
	Action         Action `json:"action"`
	NotificationID int64  `json:"notification_id,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady        Event = "ready"
	EventNotification Event = "notification"
	EventSuccess      Event = "success"
	EventError        Event = "error"
	EventPong         Event = "pong"
)

// ReadyResponse is sent once after the subscription is established.
type ReadyResponse struct {
	Event  Event `json:"event"`
	UserID int   `json:"user_id"`
}

// NotificationResponse carries one notification pushed by the server.
type NotificationResponse struct {
	Event        Event               `json:"event"`
	Notification *model.Notification `json:"notification"`
}

type SuccessResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
