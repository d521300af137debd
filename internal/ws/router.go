package ws

import (
	"context"

	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/metrics"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/presence"
)

// DeliveryResult is the typed outcome of a best-effort push. An offline
// target is a normal outcome, never an error, and nothing is queued or
// retried for it.
type DeliveryResult int

const (
	Delivered DeliveryResult = iota
	SkippedOffline
	DroppedSlow
)

// MessageOps is the slice of the message lifecycle the realtime inbound path
// mutates through.
type MessageOps interface {
	MarkSeen(ctx context.Context, messageIDs []string, userID string) ([]*domain.Message, error)
	MarkDelivered(ctx context.Context, messageID string) error
	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (*domain.Message, bool, error)
	Delete(ctx context.Context, messageID, userID string) (*domain.Message, error)
	MarkGroupSeen(ctx context.Context, groupID, userID string) error
}

type GroupFinder interface {
	Find(ctx context.Context, id string) (*domain.Group, error)
}

// Router resolves domain events to the connections that should observe them
// and delivers at most once per affected online user per event.
type Router struct {
	reg    *presence.Registry
	msgs   MessageOps
	groups GroupFinder
	log    *zap.SugaredLogger
}

func NewRouter(reg *presence.Registry, msgs MessageOps, groups GroupFinder, log *zap.SugaredLogger) *Router {
	return &Router{reg: reg, msgs: msgs, groups: groups, log: log}
}

// Push delivers one event to one user if they are online.
func (r *Router) Push(userID, eventType string, payload any) DeliveryResult {
	conn, ok := r.reg.Lookup(userID)
	if !ok {
		metrics.PushesSkipped.Inc()
		return SkippedOffline
	}
	return r.pushConn(conn, eventType, payload)
}

func (r *Router) pushConn(conn presence.Conn, eventType string, payload any) DeliveryResult {
	data, err := Encode(eventType, payload)
	if err != nil {
		r.log.Errorw("event encode failed", "event", eventType, "err", err)
		return DroppedSlow
	}
	if !conn.Push(data) {
		metrics.PushesSkipped.Inc()
		return DroppedSlow
	}
	metrics.PushesDelivered.Inc()
	return Delivered
}

// DeliverDirectMessage pushes a new direct message to its receiver. Used by
// the request path, where the sender already holds the message from the
// response body.
func (r *Router) DeliverDirectMessage(m *domain.Message) DeliveryResult {
	return r.Push(m.Receiver, domain.EvNewMessage, m)
}

// RelayDirectMessage is the realtime relay: the receiver gets the message,
// and the sender's registered connection gets a copy only when it is not the
// connection that sent it (covers a sender reconnected elsewhere without
// echoing to the originating socket). The returned result is the receiver's.
func (r *Router) RelayDirectMessage(origin presence.Conn, m *domain.Message) DeliveryResult {
	res := r.Push(m.Receiver, domain.EvNewMessage, m)
	if conn, ok := r.reg.Lookup(m.Sender); ok && conn != origin {
		r.pushConn(conn, domain.EvNewMessage, m)
	}
	return res
}

// DeliverGroupMessage fans a group message out to every member except the
// originator. Delivery is independent per member; one offline member never
// blocks the rest.
func (r *Router) DeliverGroupMessage(ctx context.Context, origin presence.Conn, m *domain.Message) error {
	g, err := r.groups.Find(ctx, m.GroupID)
	if err != nil {
		return err
	}
	event := domain.GroupMessageEvent(g.ID)
	for _, member := range g.Members {
		conn, ok := r.reg.Lookup(member)
		if !ok {
			metrics.PushesSkipped.Inc()
			continue
		}
		if conn == origin || (origin == nil && member == m.Sender) {
			continue
		}
		r.pushConn(conn, event, m)
	}
	return nil
}

// DeliverReaction notifies both sides of the affected message, whoever
// reacted.
func (r *Router) DeliverReaction(m *domain.Message, userID, emoji string) {
	update := domain.ReactionUpdate{
		MessageID: m.ID,
		UserID:    userID,
		Emoji:     emoji,
		Reactions: m.Reactions,
	}
	for _, target := range dedupe(m.Sender, m.Receiver) {
		r.Push(target, domain.EvReactionAdded, update)
	}
}

// DeliverDeleted notifies the receiver and the deleter (the latter covers a
// deleter's other device). The conversation's last-message pointer has
// already been recomputed by the lifecycle engine.
func (r *Router) DeliverDeleted(m *domain.Message, deleterID string) {
	payload := domain.MessageDeleted{MessageID: m.ID}
	for _, target := range dedupe(m.Receiver, deleterID) {
		r.Push(target, domain.EvMessageDeleted, payload)
	}
}

// DeliverStatusUpdates sends one messageStatusUpdate per marked message to
// that message's original sender.
func (r *Router) DeliverStatusUpdates(updated []*domain.Message) {
	for _, m := range updated {
		r.Push(m.Sender, domain.EvMessageStatus, domain.StatusUpdate{
			MessageID: m.ID,
			Status:    m.Status,
		})
	}
}

// DeliverGroupRead broadcasts the group-read event to every member's online
// connection, the reader included, so all clients refresh unread counts.
func (r *Router) DeliverGroupRead(ctx context.Context, groupID, userID string) error {
	g, err := r.groups.Find(ctx, groupID)
	if err != nil {
		return err
	}
	payload := domain.GroupRead{GroupID: groupID, UserID: userID}
	for _, member := range g.Members {
		r.Push(member, domain.EvGroupMessagesRead, payload)
	}
	return nil
}

func dedupe(ids ...string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if id != "" && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}
