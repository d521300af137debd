package domain

import (
	"sort"
	"strings"
	"time"
)

// LastMessage is the cached sidebar pointer to a conversation's most recent
// message. It is recomputed when that message is deleted.
type LastMessage struct {
	MessageID string `bson:"message_id" json:"messageId"`
	SenderID  string `bson:"sender_id" json:"senderId"`
	Preview   string `bson:"preview" json:"message"`
}

// Conversation is the stored 1:1 pairing of two users. Message history stays
// a derived query over messages; the document only exists to carry the
// last-message pointer and sidebar ordering.
type Conversation struct {
	ID           string       `bson:"_id" json:"id"`
	Participants []string     `bson:"participants" json:"participants"`
	LastMessage  *LastMessage `bson:"last_message,omitempty" json:"lastMessage,omitempty"`
	CreatedAt    time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updatedAt"`
}

// ConversationID derives the stable id for the pair regardless of which side
// sends: the two user ids sorted and joined.
func ConversationID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, ":")
}
