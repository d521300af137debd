package domain

import "time"

const StoryLifetime = 24 * time.Hour

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// StoryReaction carries a timestamp, unlike message reactions; the list is
// ordered by first-reaction time and an existing entry is replaced in place.
type StoryReaction struct {
	UserID    string    `bson:"user_id" json:"userId"`
	Emoji     string    `bson:"emoji" json:"emoji"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type Story struct {
	ID        string          `bson:"_id" json:"id"`
	UserID    string          `bson:"user_id" json:"userId"`
	MediaURL  string          `bson:"media_url" json:"mediaUrl"`
	MediaType MediaType       `bson:"media_type" json:"mediaType"`
	Caption   string          `bson:"caption,omitempty" json:"caption,omitempty"`
	SeenBy    []string        `bson:"seen_by,omitempty" json:"seenBy,omitempty"`
	Reactions []StoryReaction `bson:"reactions,omitempty" json:"reactions,omitempty"`
	ExpiresAt time.Time       `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the story is invisible to feed queries. ExpiresAt
// is fixed at creation and never extended.
func (s *Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
