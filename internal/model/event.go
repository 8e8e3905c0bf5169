package model

import "time"

// 存储状态变更事件类型。
const (
	EventSessionLogin       = "session.login"
	EventSessionLogout      = "session.logout"
	EventChatroomCreated    = "chatroom.created"
	EventChatroomRenamed    = "chatroom.renamed"
	EventChatroomDeleted    = "chatroom.deleted"
	EventMessageAdded       = "message.added"
	EventConversationSeeded = "conversation.seeded"
	EventConversationPurged = "conversation.purged"
)

// Event 描述一次已提交的状态变更，发布到 Kafka 等下游。
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	ChatroomID string    `json:"chatroomId,omitempty"`
	MessageID  string    `json:"messageId,omitempty"`
	Sender     Sender    `json:"sender,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
