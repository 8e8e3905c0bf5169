package model

import (
	"encoding/json"
	"time"
)

// 两个独立持久化快照的固定名称。
const (
	AuthSnapshotName = "auth-storage"
	ChatSnapshotName = "chat-storage"
)

// SnapshotVersion 是当前快照格式的版本号。
const SnapshotVersion = 0

// SnapshotEnvelope 是写入存储后端的外层结构：{"state": ..., "version": 0}。
type SnapshotEnvelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// AuthSnapshot 是会话存储的持久化部分。
type AuthSnapshot struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

// ChatSnapshot 是对话存储的持久化部分；输入中的 typing 与搜索词不持久化。
type ChatSnapshot struct {
	Chatrooms []Chatroom           `json:"chatrooms"`
	Messages  map[string][]Message `json:"messages"`
}

// SnapshotRecord 是关系型数据库中保存快照的表结构。
type SnapshotRecord struct {
	Name      string    `gorm:"primaryKey;size:191"`
	Payload   []byte    `gorm:"type:longblob;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SnapshotRecord) TableName() string {
	return "snapshots"
}
