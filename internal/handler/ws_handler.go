package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	ws "github.com/stemsi/admission-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// Subscriber is the pub/sub half of *redis.Client.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// WSHandler streams notifications to connected users.
type WSHandler struct {
	pubsub        Subscriber
	notifications NotificationManager
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(pubsub Subscriber, notifications NotificationManager, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		pubsub:        pubsub,
		notifications: notifications,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// NotificationStream godoc
// WS /ws/v1/notifications?token=
// Pushes every notification published for the user and accepts ping and
// mark_read frames.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := claims.UserID
	wsLog := h.log.With().Int("user_id", userID).Logger()

	// The request context ends with the upgrade handler on some servers, so
	// the stream owns its own.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.pubsub.Subscribe(ctx, config.CacheKey.UserNotificationChannel(userID))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Notification subscribe failed")
		_ = ws.WriteError(conn, "subscription failed")
		return
	}

	var mu sync.Mutex
	write := func(v interface{}) error {
		mu.Lock()
		defer mu.Unlock()
		return ws.WriteTyped(conn, v)
	}

	if err := write(ws.ReadyResponse{Event: ws.EventReady, UserID: userID}); err != nil {
		return
	}
	ws.KeepAlive(conn)
	wsLog.Info().Msg("Notification stream connected")

	go h.forward(ctx, cancel, conn, sub.Channel(), write, wsLog)

	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			_ = write(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionMarkRead:
			h.handleMarkRead(ctx, userID, msg.NotificationID, write, wsLog)
		default:
			_ = write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}
}

// forward relays published notifications and keeps the connection alive
// until ctx ends or a write fails.
func (h *WSHandler) forward(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, msgs <-chan *redis.Message, write func(interface{}) error, wsLog zerolog.Logger) {
	defer cancel()
	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				_ = conn.Close()
				return
			}
		case m, ok := <-msgs:
			if !ok {
				_ = conn.Close()
				return
			}
			var n model.Notification
			if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed notification payload")
				continue
			}
			if err := write(ws.NotificationResponse{Event: ws.EventNotification, Notification: &n}); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *WSHandler) handleMarkRead(ctx context.Context, userID int, id int64, write func(interface{}) error, wsLog zerolog.Logger) {
	if id <= 0 {
		_ = write(ws.ErrorResponse{Event: ws.EventError, Error: "notification_id is required"})
		return
	}
	if err := h.notifications.MarkRead(ctx, userID, id); err != nil {
		wsLog.Debug().Err(err).Int64("notification_id", id).Msg("Mark read failed")
		_ = write(ws.ErrorResponse{Event: ws.EventError, Error: "notification not found"})
		return
	}
	_ = write(ws.SuccessResponse{Event: ws.EventSuccess, Status: "read"})
}
