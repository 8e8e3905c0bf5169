// Package model 包含了应用的数据模型定义。
package model

import "time"

// Sender 标识消息的发送方。
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Valid 报告 sender 是否为已知取值。
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// Chatroom 代表一个命名的对话容器。
type Chatroom struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastMessage     string     `json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `json:"lastMessageTime,omitempty"`
}

// Message 代表聊天室中的单条消息，创建后不可修改。
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	// Image 是可选的 data URI 图片附件。
	Image string `json:"image,omitempty"`
}

// MessageInput 是追加消息时调用方提供的字段，ID 与时间戳由存储生成。
type MessageInput struct {
	Content string
	Sender  Sender
	Image   string
}
