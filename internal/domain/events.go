package domain

// Wire event names. These are the external realtime contract and must not be
// renamed.
const (
	EvNewMessage         = "newMessage"
	EvReactionAdded      = "reactionAdded"
	EvMessageDeleted     = "messageDeleted"
	EvMessageStatus      = "messageStatusUpdate"
	EvOnlineUsers        = "getOnlineUsers"
	EvMarkMessagesSeen   = "markMessagesAsSeen"
	EvGroupMessagesRead  = "groupMessagesRead"
	EvAddReaction        = "addReaction"
	EvDeleteMessage      = "deleteMessage"
	EvSendGroupMessage   = "sendGroupMessage"
	EvGroupMessagePrefix = "groupMessage:" // outbound: groupMessage:{groupId}
)

// GroupMessageEvent is the per-group outbound event name.
func GroupMessageEvent(groupID string) string {
	return EvGroupMessagePrefix + groupID
}

// ReactionUpdate is fanned out to the sender and receiver of the affected
// message whenever a reaction is added, replaced or toggled off.
type ReactionUpdate struct {
	MessageID string     `json:"messageId"`
	UserID    string     `json:"userId"`
	Emoji     string     `json:"emoji"`
	Reactions []Reaction `json:"reactions"`
}

type StatusUpdate struct {
	MessageID string `json:"messageId"`
	Status    Status `json:"status"`
}

type MessageDeleted struct {
	MessageID string `json:"messageId"`
}

type GroupRead struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}
