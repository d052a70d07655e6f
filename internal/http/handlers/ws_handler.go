package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/events"
	"go.uber.org/zap"
)

type wsClient struct {
	uid   string
	admin bool
}

// WSHub pushes campaign, capacity and traffic events to connected screens.
type WSHub struct {
	cfg         *config.Config
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.Mutex
	connections map[*websocket.Conn]wsClient
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:         cfg,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[*websocket.Conn]wsClient),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, h.broadcast, events.AllChannels...)
}

// visibleTo decides whether a client receives an event. Admins see everything;
// sellers see their own events plus ones not tied to any seller. Review
// events are admin-only.
func visibleTo(event events.Event, client wsClient) bool {
	if client.admin {
		return true
	}
	if event.Channel == events.ChannelReview {
		return false
	}
	owner := event.SellerID()
	return owner == "" || owner == client.uid
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, client := range h.connections {
		if !visibleTo(event, client) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("ws write failed", zap.String("uid", client.uid), zap.Error(err))
		}
	}
}

// WSUpgradeMiddleware rejects plain HTTP requests to /ws.
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		conn.Close()
		return
	}

	claims, err := auth.ParseJWT(h.cfg.JWTSecret, tokenStr)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	client := wsClient{uid: claims.UID, admin: auth.IsAdmin(claims, h.cfg.AdminEmails)}

	hello, _ := json.Marshal(events.Event{
		Type:    "connected",
		Payload: map[string]any{"uid": client.uid, "admin": client.admin},
	})
	h.mu.Lock()
	h.connections[conn] = client
	_ = conn.WriteMessage(websocket.TextMessage, hello)
	h.mu.Unlock()
	h.log.Debug("ws connected", zap.String("uid", client.uid), zap.Bool("admin", client.admin))

	defer func() {
		h.mu.Lock()
		delete(h.connections, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Клиент ничего не шлёт, читаем до закрытия
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
