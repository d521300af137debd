package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/events"
)

type StoryService struct {
	store    StoryStore
	uploader Uploader
	pub      Publisher
	log      *zap.SugaredLogger
}

func NewStoryService(store StoryStore, uploader Uploader, pub Publisher, log *zap.SugaredLogger) *StoryService {
	return &StoryService{store: store, uploader: uploader, pub: pub, log: log}
}

// Post uploads the media file and creates a story that expires 24 hours from
// creation. The expiry is fixed at creation and never extended.
func (s *StoryService) Post(ctx context.Context, userID, mediaPath, contentType, caption string) (*domain.Story, error) {
	if mediaPath == "" {
		return nil, apperr.Validation("media file required")
	}
	url, err := s.uploader.UploadFile(ctx, mediaPath, contentType)
	if err != nil {
		return nil, err
	}
	mediaType := domain.MediaVideo
	if strings.HasPrefix(contentType, "image") {
		mediaType = domain.MediaImage
	}
	now := time.Now().UTC()
	story := &domain.Story{
		ID:        uuid.NewString(),
		UserID:    userID,
		MediaURL:  url,
		MediaType: mediaType,
		Caption:   caption,
		ExpiresAt: now.Add(domain.StoryLifetime),
		CreatedAt: now,
	}
	if err := s.store.Insert(ctx, story); err != nil {
		return nil, storeErr(err)
	}
	if s.pub != nil {
		if err := s.pub.Publish(ctx, events.StoryPosted, story.ID, story); err != nil {
			s.log.Warnw("story event publish failed", "err", err)
		}
	}
	return story, nil
}

// Feed returns other users' unexpired stories, newest first.
func (s *StoryService) Feed(ctx context.Context, userID string) ([]*domain.Story, error) {
	stories, err := s.store.Feed(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	return stories, nil
}

// MyStory returns the user's own active story, or nil when none exists.
func (s *StoryService) MyStory(ctx context.Context, userID string) (*domain.Story, error) {
	story, err := s.store.ActiveForUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	return story, nil
}

// View records that userID saw the story; the seen-set stays unique under
// concurrent viewers.
func (s *StoryService) View(ctx context.Context, storyID, userID string) (*domain.Story, error) {
	if err := s.store.AddSeen(ctx, storyID, userID); err != nil {
		return nil, storeErr(err)
	}
	story, err := s.store.FindByID(ctx, storyID)
	if err != nil {
		return nil, storeErr(err)
	}
	return story, nil
}

// React records the user's emoji. A user holds one reaction per story: an
// existing entry is replaced in place with a refreshed timestamp, never
// appended.
func (s *StoryService) React(ctx context.Context, storyID, userID, emoji string) (*domain.Story, error) {
	if emoji == "" {
		return nil, apperr.Validation("emoji required")
	}
	story, err := s.store.FindByID(ctx, storyID)
	if err != nil {
		return nil, storeErr(err)
	}
	now := time.Now().UTC()
	replaced := false
	for i := range story.Reactions {
		if story.Reactions[i].UserID == userID {
			story.Reactions[i].Emoji = emoji
			story.Reactions[i].CreatedAt = now
			replaced = true
			break
		}
	}
	if !replaced {
		story.Reactions = append(story.Reactions, domain.StoryReaction{UserID: userID, Emoji: emoji, CreatedAt: now})
	}
	if err := s.store.ReplaceReactions(ctx, storyID, story.Reactions); err != nil {
		return nil, storeErr(err)
	}
	return story, nil
}

// Viewers returns who saw the story. Only the owner may ask.
func (s *StoryService) Viewers(ctx context.Context, storyID, requesterID string) ([]string, error) {
	story, err := s.store.FindByID(ctx, storyID)
	if err != nil {
		return nil, storeErr(err)
	}
	if story.UserID != requesterID {
		return nil, apperr.Authorization("only the story owner can list viewers")
	}
	return story.SeenBy, nil
}
