package service

import (
	"context"
	"errors"
	"time"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

// Store contracts consumed by the services. The mongo repositories implement
// them; tests use in-memory fakes.

type MessageStore interface {
	Insert(ctx context.Context, m *domain.Message) error
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	FindConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error)
	FindByGroup(ctx context.Context, groupID string) ([]*domain.Message, error)
	AddToSeenSet(ctx context.Context, messageID, userID string) error
	UpdateStatus(ctx context.Context, messageID string, status domain.Status) error
	PullReaction(ctx context.Context, messageID, userID string) error
	PushReaction(ctx context.Context, messageID string, reaction domain.Reaction) error
	Delete(ctx context.Context, messageID string) error
	LatestInConversation(ctx context.Context, userA, userB string) (*domain.Message, error)
	MarkGroupSeen(ctx context.Context, groupID, userID string) error
	CountUnreadDirect(ctx context.Context, userID, otherID string) (int64, error)
	CountUnreadGroup(ctx context.Context, groupID, userID string) (int64, error)
}

type ConversationStore interface {
	Upsert(ctx context.Context, userA, userB string, last *domain.LastMessage) error
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	SetLastMessage(ctx context.Context, id string, last *domain.LastMessage) error
	ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error)
}

type GroupStore interface {
	Create(ctx context.Context, g *domain.Group) error
	FindByID(ctx context.Context, id string) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	UpdateInfo(ctx context.Context, groupID, name, image string) error
	ListForUser(ctx context.Context, userID string) ([]*domain.Group, error)
}

type StoryStore interface {
	Insert(ctx context.Context, s *domain.Story) error
	FindByID(ctx context.Context, id string) (*domain.Story, error)
	Feed(ctx context.Context, excludeUserID string, now time.Time) ([]*domain.Story, error)
	ActiveForUser(ctx context.Context, userID string, now time.Time) (*domain.Story, error)
	AddSeen(ctx context.Context, storyID, userID string) error
	ReplaceReactions(ctx context.Context, storyID string, reactions []domain.StoryReaction) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindOthers(ctx context.Context, excludeID string) ([]*domain.User, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id, name, about, image string) (*domain.User, error)
}

// Uploader is the media collaborator: temp file in, durable URL out. It owns
// temp-file cleanup on both paths.
type Uploader interface {
	UploadFile(ctx context.Context, path, contentType string) (string, error)
}

// Publisher emits domain events; failures never fail the triggering request.
type Publisher interface {
	Publish(ctx context.Context, name, key string, payload any) error
}

// RecentCache is the best-effort recent-message cache.
type RecentCache interface {
	Push(ctx context.Context, conversationID string, m *domain.Message) error
	Invalidate(ctx context.Context, conversationID string) error
}

// storeErr wraps persistence failures while letting taxonomy sentinels pass
// through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrValidation) ||
		errors.Is(err, apperr.ErrAuthorization) {
		return err
	}
	return apperr.Store(err)
}
