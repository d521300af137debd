package domain

import (
	"time"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
)

// Status is the delivery state of a message. Transitions are forward-only:
// sent -> delivered -> seen. Seen implies delivered; the field is derived
// from seenBy and must never move backward.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusSeen      Status = "seen"
)

// rank orders statuses for the monotonicity check.
func (s Status) rank() int {
	switch s {
	case StatusDelivered:
		return 1
	case StatusSeen:
		return 2
	}
	return 0
}

// Advances reports whether moving from s to next is a forward transition.
func (s Status) Advances(next Status) bool {
	return next.rank() > s.rank()
}

// TargetKind discriminates direct from group messages.
type TargetKind int

const (
	TargetDirect TargetKind = iota
	TargetGroup
)

// Target is the destination of a message: exactly one of a receiver user id
// (direct) or a group id. Use the constructors; the zero value is invalid.
type Target struct {
	Kind     TargetKind
	Receiver string
	GroupID  string
}

func NewDirectTarget(receiver string) (Target, error) {
	if receiver == "" {
		return Target{}, apperr.Validation("receiver required for direct message")
	}
	return Target{Kind: TargetDirect, Receiver: receiver}, nil
}

func NewGroupTarget(groupID string) (Target, error) {
	if groupID == "" {
		return Target{}, apperr.Validation("group id required for group message")
	}
	return Target{Kind: TargetGroup, GroupID: groupID}, nil
}

// ParseTarget builds a Target from the optional receiver/groupId request
// fields, rejecting both-set and neither-set shapes.
func ParseTarget(receiver, groupID string) (Target, error) {
	switch {
	case receiver != "" && groupID != "":
		return Target{}, apperr.Validation("message cannot have both receiver and group")
	case groupID != "":
		return NewGroupTarget(groupID)
	case receiver != "":
		return NewDirectTarget(receiver)
	}
	return Target{}, apperr.Validation("message needs a receiver or a group")
}

func (t Target) IsGroup() bool { return t.Kind == TargetGroup }

// Reaction is a single user's emoji on a message. A user holds at most one
// reaction per message; a later reaction replaces the earlier one.
type Reaction struct {
	UserID string `bson:"user_id" json:"userId"`
	Emoji  string `bson:"emoji" json:"emoji"`
}

type Message struct {
	ID        string     `bson:"_id" json:"id"`
	Sender    string     `bson:"sender" json:"sender"`
	Receiver  string     `bson:"receiver,omitempty" json:"receiver,omitempty"`
	GroupID   string     `bson:"group_id,omitempty" json:"groupId,omitempty"`
	Body      string     `bson:"body,omitempty" json:"message"`
	Caption   string     `bson:"caption,omitempty" json:"caption,omitempty"`
	Image     string     `bson:"image,omitempty" json:"image,omitempty"`
	Audio     string     `bson:"audio,omitempty" json:"audio,omitempty"`
	Status    Status     `bson:"status" json:"status"`
	SeenBy    []string   `bson:"seen_by,omitempty" json:"seenBy,omitempty"`
	Reactions []Reaction `bson:"reactions,omitempty" json:"reactions,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
}

// Target reconstructs the tagged destination from the stored fields.
func (m *Message) Target() Target {
	if m.GroupID != "" {
		return Target{Kind: TargetGroup, GroupID: m.GroupID}
	}
	return Target{Kind: TargetDirect, Receiver: m.Receiver}
}

// SeenByUser reports whether userID is in the seen-set.
func (m *Message) SeenByUser(userID string) bool {
	for _, id := range m.SeenBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Preview is the sidebar label for a message: its body, or a placeholder
// derived from the attached media type when the body is empty.
func (m *Message) Preview() string {
	switch {
	case m.Body != "":
		return m.Body
	case m.Image != "":
		return "Image"
	case m.Audio != "":
		return "Audio"
	}
	return "Media"
}
