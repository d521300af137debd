package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/events"
)

// MessageService owns the message lifecycle: creation, the forward-only
// sent->delivered->seen state machine, reaction mutation and deletion. It is
// invoked by both the request path and the realtime path.
type MessageService struct {
	store    MessageStore
	convs    ConversationStore
	uploader Uploader
	cache    RecentCache
	pub      Publisher
	log      *zap.SugaredLogger
}

func NewMessageService(store MessageStore, convs ConversationStore, uploader Uploader, cache RecentCache, pub Publisher, log *zap.SugaredLogger) *MessageService {
	return &MessageService{store: store, convs: convs, uploader: uploader, cache: cache, pub: pub, log: log}
}

type SendInput struct {
	Sender  string
	Target  domain.Target
	Body    string
	Caption string

	// ImageURL passes through a client-supplied URL; the Path fields point
	// at local temp files to be uploaded by the media collaborator.
	ImageURL         string
	ImagePath        string
	ImageContentType string
	AudioPath        string
	AudioContentType string
}

// Send validates the target shape, uploads any attached media and persists
// the message with status "sent".
func (s *MessageService) Send(ctx context.Context, in SendInput) (*domain.Message, error) {
	if in.Sender == "" {
		return nil, apperr.Validation("sender required")
	}
	if _, err := domain.ParseTarget(in.Target.Receiver, in.Target.GroupID); err != nil {
		return nil, err
	}

	image := in.ImageURL
	if in.ImagePath != "" {
		url, err := s.uploader.UploadFile(ctx, in.ImagePath, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		image = url
	}
	var audio string
	if in.AudioPath != "" {
		url, err := s.uploader.UploadFile(ctx, in.AudioPath, in.AudioContentType)
		if err != nil {
			return nil, err
		}
		audio = url
	}

	m := &domain.Message{
		ID:        uuid.NewString(),
		Sender:    in.Sender,
		Receiver:  in.Target.Receiver,
		GroupID:   in.Target.GroupID,
		Body:      in.Body,
		Caption:   in.Caption,
		Image:     image,
		Audio:     audio,
		Status:    domain.StatusSent,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return nil, storeErr(err)
	}

	if !m.Target().IsGroup() {
		last := &domain.LastMessage{MessageID: m.ID, SenderID: m.Sender, Preview: m.Preview()}
		if err := s.convs.Upsert(ctx, m.Sender, m.Receiver, last); err != nil {
			s.log.Warnw("conversation upsert failed", "err", err)
		}
		if s.cache != nil {
			_ = s.cache.Push(ctx, domain.ConversationID(m.Sender, m.Receiver), m)
		}
	}
	s.publish(ctx, events.MessageSent, m.ID, m)
	return m, nil
}

// MarkSeen adds userID to the seen-set of each message and advances the
// status to seen. Re-marking is a no-op, and a sender never sees their own
// message; the returned slice holds only the messages that actually changed.
func (s *MessageService) MarkSeen(ctx context.Context, messageIDs []string, userID string) ([]*domain.Message, error) {
	if userID == "" {
		return nil, apperr.Validation("user id required")
	}
	updated := []*domain.Message{}
	for _, id := range messageIDs {
		m, err := s.store.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, storeErr(err)
		}
		if m.Sender == userID || m.SeenByUser(userID) {
			continue
		}
		if err := s.store.AddToSeenSet(ctx, id, userID); err != nil {
			return nil, storeErr(err)
		}
		m.SeenBy = append(m.SeenBy, userID)
		m.Status = domain.StatusSeen
		updated = append(updated, m)
	}
	if len(updated) > 0 {
		ids := make([]string, len(updated))
		for i, m := range updated {
			ids[i] = m.ID
		}
		s.publish(ctx, events.MessageSeen, userID, struct {
			UserID     string   `json:"userId"`
			MessageIDs []string `json:"messageIds"`
		}{UserID: userID, MessageIDs: ids})
	}
	return updated, nil
}

// MarkDelivered advances a message from sent to delivered after a successful
// realtime push. The transition is forward-only: a message already seen is
// left alone.
func (s *MessageService) MarkDelivered(ctx context.Context, messageID string) error {
	m, err := s.store.FindByID(ctx, messageID)
	if err != nil {
		return storeErr(err)
	}
	if !m.Status.Advances(domain.StatusDelivered) {
		return nil
	}
	if err := s.store.UpdateStatus(ctx, messageID, domain.StatusDelivered); err != nil {
		return storeErr(err)
	}
	return nil
}

// React is the request/response reaction path: the user's previous reaction,
// if any, is always replaced by the new emoji.
func (s *MessageService) React(ctx context.Context, messageID, userID, emoji string) (*domain.Message, error) {
	if emoji == "" {
		return nil, apperr.Validation("emoji required")
	}
	m, err := s.store.FindByID(ctx, messageID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := s.store.PullReaction(ctx, messageID, userID); err != nil {
		return nil, storeErr(err)
	}
	reaction := domain.Reaction{UserID: userID, Emoji: emoji}
	if err := s.store.PushReaction(ctx, messageID, reaction); err != nil {
		return nil, storeErr(err)
	}
	m.Reactions = append(withoutReaction(m.Reactions, userID), reaction)
	return m, nil
}

// ToggleReaction is the realtime reaction path: repeating the same emoji
// removes the reaction instead of replacing it. The two paths deliberately
// differ; see React.
func (s *MessageService) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (*domain.Message, bool, error) {
	if emoji == "" {
		return nil, false, apperr.Validation("emoji required")
	}
	m, err := s.store.FindByID(ctx, messageID)
	if err != nil {
		return nil, false, storeErr(err)
	}
	for _, r := range m.Reactions {
		if r.UserID == userID && r.Emoji == emoji {
			if err := s.store.PullReaction(ctx, messageID, userID); err != nil {
				return nil, false, storeErr(err)
			}
			m.Reactions = withoutReaction(m.Reactions, userID)
			return m, true, nil
		}
	}
	if err := s.store.PullReaction(ctx, messageID, userID); err != nil {
		return nil, false, storeErr(err)
	}
	reaction := domain.Reaction{UserID: userID, Emoji: emoji}
	if err := s.store.PushReaction(ctx, messageID, reaction); err != nil {
		return nil, false, storeErr(err)
	}
	m.Reactions = append(withoutReaction(m.Reactions, userID), reaction)
	return m, false, nil
}

// Delete removes a message permanently. Only the sender may delete, and a
// direct delete recomputes the conversation's last-message pointer before
// the caller fans the event out.
func (s *MessageService) Delete(ctx context.Context, messageID, userID string) (*domain.Message, error) {
	m, err := s.store.FindByID(ctx, messageID)
	if err != nil {
		return nil, storeErr(err)
	}
	if m.Sender != userID {
		return nil, apperr.Authorization("only the sender can delete a message")
	}
	if err := s.store.Delete(ctx, messageID); err != nil {
		return nil, storeErr(err)
	}
	if !m.Target().IsGroup() {
		s.recomputeLastMessage(ctx, m)
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, domain.ConversationID(m.Sender, m.Receiver))
		}
	}
	s.publish(ctx, events.MessageDeleted, m.ID, domain.MessageDeleted{MessageID: m.ID})
	return m, nil
}

// recomputeLastMessage refreshes the sidebar pointer when the deleted
// message was the conversation's most recent one. Delete and recompute are
// two separate mutations; a crash in between leaves a stale pointer that the
// next send heals.
func (s *MessageService) recomputeLastMessage(ctx context.Context, deleted *domain.Message) {
	convID := domain.ConversationID(deleted.Sender, deleted.Receiver)
	conv, err := s.convs.FindByID(ctx, convID)
	if err != nil || conv.LastMessage == nil || conv.LastMessage.MessageID != deleted.ID {
		return
	}
	latest, err := s.store.LatestInConversation(ctx, deleted.Sender, deleted.Receiver)
	if err != nil {
		s.log.Warnw("last message recompute failed", "conversation", convID, "err", err)
		return
	}
	var last *domain.LastMessage
	if latest != nil {
		last = &domain.LastMessage{MessageID: latest.ID, SenderID: latest.Sender, Preview: latest.Preview()}
	}
	if err := s.convs.SetLastMessage(ctx, convID, last); err != nil {
		s.log.Warnw("last message update failed", "conversation", convID, "err", err)
	}
}

// MarkGroupSeen marks every group message not authored and not yet seen by
// userID as seen, in one batch store mutation.
func (s *MessageService) MarkGroupSeen(ctx context.Context, groupID, userID string) error {
	if err := s.store.MarkGroupSeen(ctx, groupID, userID); err != nil {
		return storeErr(err)
	}
	s.publish(ctx, events.GroupRead, groupID, domain.GroupRead{GroupID: groupID, UserID: userID})
	return nil
}

// History returns the full conversation between two users, ascending by
// creation time, identical whichever side asks.
func (s *MessageService) History(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	msgs, err := s.store.FindConversation(ctx, userA, userB)
	if err != nil {
		return nil, storeErr(err)
	}
	return msgs, nil
}

func (s *MessageService) GroupHistory(ctx context.Context, groupID string) ([]*domain.Message, error) {
	msgs, err := s.store.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	return msgs, nil
}

// ConversationSummary is one sidebar row: the peer, the cached last-message
// pointer and the pull-computed unread count.
type ConversationSummary struct {
	ConversationID string              `json:"conversationId"`
	OtherUserID    string              `json:"userId"`
	LastMessage    *domain.LastMessage `json:"lastMessage,omitempty"`
	UnreadCount    int64               `json:"unreadCount"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ConversationsWithUnread lists the user's conversations with unread counts.
// Counts are recomputed from the stored message set, so they are correct
// even after missed realtime events.
func (s *MessageService) ConversationsWithUnread(ctx context.Context, userID string) ([]ConversationSummary, error) {
	convs, err := s.convs.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		other := ""
		for _, p := range c.Participants {
			if p != userID {
				other = p
				break
			}
		}
		unread, err := s.store.CountUnreadDirect(ctx, userID, other)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, ConversationSummary{
			ConversationID: c.ID,
			OtherUserID:    other,
			LastMessage:    c.LastMessage,
			UnreadCount:    unread,
			UpdatedAt:      c.UpdatedAt,
		})
	}
	return out, nil
}

func (s *MessageService) publish(ctx context.Context, name, key string, payload any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, name, key, payload); err != nil {
		s.log.Warnw("event publish failed", "event", name, "err", err)
	}
}

func withoutReaction(reactions []domain.Reaction, userID string) []domain.Reaction {
	out := reactions[:0:0]
	for _, r := range reactions {
		if r.UserID != userID {
			out = append(out, r)
		}
	}
	return out
}
