package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/metrics"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/presence"
)

// Gateway accepts realtime connections, registers them in the presence
// registry and dispatches inbound events to the router. The claimed userId
// from the handshake query is trusted as-is; clients sending no id (or the
// literal "undefined" an uninitialized frontend produces) are cut off before
// registration.
type Gateway struct {
	reg    *presence.Registry
	router *Router
	log    *zap.SugaredLogger

	pingInterval  time.Duration
	writeDeadline time.Duration
	maxMsgSize    int64
}

func NewGateway(reg *presence.Registry, router *Router, pingInterval, writeDeadline time.Duration, maxMsgSize int64, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		reg:           reg,
		router:        router,
		log:           log,
		pingInterval:  pingInterval,
		writeDeadline: writeDeadline,
		maxMsgSize:    maxMsgSize,
	}
}

// Handler is mounted behind the fiber websocket upgrade middleware.
func (g *Gateway) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		userID := conn.Query("userId")
		if userID == "" || userID == "undefined" {
			g.log.Warnw("rejecting connection without user id")
			_ = conn.Close()
			return
		}

		client := NewClient(conn, userID)
		g.reg.Register(userID, client)
		metrics.Connections.Inc()
		g.log.Infow("client connected", "user", userID)

		go client.writePump(g.pingInterval, g.writeDeadline)
		client.readPump(g.maxMsgSize, func(data []byte) {
			g.dispatch(client, data)
		})

		g.reg.Unregister(client)
		metrics.Connections.Dec()
		client.Close()
		g.log.Infow("client disconnected", "user", userID)
	}
}

func (g *Gateway) dispatch(client *Client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		g.log.Debugw("dropping malformed frame", "user", client.UserID)
		return
	}
	ctx := context.Background()

	switch env.Type {
	case domain.EvNewMessage:
		var p struct {
			Message *domain.Message `json:"message"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.Message == nil {
			return
		}
		if g.router.RelayDirectMessage(client, p.Message) == Delivered && p.Message.ID != "" {
			if err := g.router.msgs.MarkDelivered(ctx, p.Message.ID); err != nil {
				g.log.Debugw("mark delivered failed", "message", p.Message.ID, "err", err)
			}
		}

	case domain.EvSendGroupMessage:
		var p struct {
			Message *domain.Message `json:"message"`
			GroupID string          `json:"groupId"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.Message == nil {
			return
		}
		if p.Message.GroupID == "" {
			p.Message.GroupID = p.GroupID
		}
		if err := g.router.DeliverGroupMessage(ctx, client, p.Message); err != nil {
			g.log.Warnw("group fanout failed", "group", p.GroupID, "err", err)
		}

	case domain.EvAddReaction:
		var p struct {
			MessageID string `json:"messageId"`
			Emoji     string `json:"emoji"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		m, _, err := g.router.msgs.ToggleReaction(ctx, p.MessageID, client.UserID, p.Emoji)
		if err != nil {
			g.log.Warnw("reaction failed", "message", p.MessageID, "err", err)
			return
		}
		// The submitted emoji is echoed even when the toggle removed it; the
		// reactions list on the message is what conveys the removal.
		g.router.DeliverReaction(m, client.UserID, p.Emoji)

	case domain.EvDeleteMessage:
		var p struct {
			MessageID string `json:"messageId"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		m, err := g.router.msgs.Delete(ctx, p.MessageID, client.UserID)
		if err != nil {
			g.log.Warnw("delete failed", "message", p.MessageID, "err", err)
			return
		}
		g.router.DeliverDeleted(m, client.UserID)

	case domain.EvMarkMessagesSeen:
		var p struct {
			MessageIDs []string `json:"messageIds"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		updated, err := g.router.msgs.MarkSeen(ctx, p.MessageIDs, client.UserID)
		if err != nil {
			g.log.Warnw("mark seen failed", "err", err)
			return
		}
		g.router.DeliverStatusUpdates(updated)

	case domain.EvGroupMessagesRead:
		var p struct {
			GroupID string `json:"groupId"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.GroupID == "" {
			return
		}
		if err := g.router.msgs.MarkGroupSeen(ctx, p.GroupID, client.UserID); err != nil {
			g.log.Warnw("group mark seen failed", "group", p.GroupID, "err", err)
			return
		}
		if err := g.router.DeliverGroupRead(ctx, p.GroupID, client.UserID); err != nil {
			g.log.Warnw("group read broadcast failed", "group", p.GroupID, "err", err)
		}

	case "ping":
		g.log.Debugw("ping", "user", client.UserID)

	default:
		// unknown event types are ignored
	}
}
