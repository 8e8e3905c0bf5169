package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize 是 GetChatMessages 在 limit 非法时使用的页大小。
	DefaultPageSize = 20
	previewLength   = 50
	previewEllipsis = "..."
)

// ConversationStore 管理聊天室列表、每个聊天室的消息、typing 标记和搜索词。
// 只有 chatrooms 和 messages 会被持久化。
type ConversationStore interface {
	Load(ctx context.Context) error
	// Purge 清空全部对话数据并删除持久化快照。
	Purge(ctx context.Context) error

	// CreateChatroom 在列表头部插入新聊天室并返回其 ID。标题校验由调用方负责。
	CreateChatroom(ctx context.Context, title string) (string, error)
	// DeleteChatroom 同时删除聊天室及其全部消息，ID 不存在时不做任何事。
	DeleteChatroom(ctx context.Context, id string) error
	// RenameChatroom 原地替换标题，ID 不存在时不做任何事。
	RenameChatroom(ctx context.Context, id, title string) error
	// AddMessage 追加一条消息并更新聊天室的 lastMessage 与 lastMessageTime。
	// 聊天室不存在时返回 ErrChatroomNotFound。
	AddMessage(ctx context.Context, chatID string, in model.MessageInput) (model.Message, error)
	// InitializeData 仅在没有任何聊天室时写入示例数据。
	InitializeData(ctx context.Context) error

	SetTyping(typing bool)
	// StartTyping 仅在当前未处于 typing 状态时将其置为 true，并报告是否成功。
	StartTyping() bool
	IsTyping() bool
	SetSearchQuery(query string)
	SearchQuery() string

	// GetFilteredChatrooms 返回标题包含搜索词（忽略大小写）的聊天室，保持原有顺序。
	GetFilteredChatrooms() []model.Chatroom
	// GetChatMessages 返回倒序分页的一页消息，页内按时间正序。
	GetChatMessages(chatID string, page, limit int) []model.Message
	GetChatroom(id string) (model.Chatroom, bool)
	MessageCount(chatID string) int
}

type conversationState struct {
	chatrooms []model.Chatroom
	messages  map[string][]model.Message
}

func emptyConversationState() conversationState {
	return conversationState{
		chatrooms: []model.Chatroom{},
		messages:  make(map[string][]model.Message),
	}
}

// clone 复制列表与映射本身，消息切片仍然共享，修改某个聊天室的消息时必须换成新切片。
func (c conversationState) clone() conversationState {
	next := conversationState{
		chatrooms: slices.Clone(c.chatrooms),
		messages:  make(map[string][]model.Message, len(c.messages)),
	}
	for id, msgs := range c.messages {
		next.messages[id] = msgs
	}
	return next
}

func (c conversationState) indexOf(id string) int {
	return slices.IndexFunc(c.chatrooms, func(room model.Chatroom) bool { return room.ID == id })
}

type conversationStore struct {
	mu          sync.RWMutex
	state       conversationState
	isTyping    bool
	searchQuery string
	repo        repository.SnapshotRepository
	opts        options
}

// NewConversationStore 创建对话存储。
func NewConversationStore(repo repository.SnapshotRepository, opts ...Option) ConversationStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &conversationStore{
		state: emptyConversationState(),
		repo:  repo,
		opts:  o,
	}
}

func (s *conversationStore) Load(ctx context.Context) error {
	var snap model.ChatSnapshot
	found, err := loadSnapshot(ctx, s.repo, model.ChatSnapshotName, &snap)
	if err != nil {
		return err
	}

	next := emptyConversationState()
	if found {
		for _, room := range snap.Chatrooms {
			if next.indexOf(room.ID) >= 0 {
				continue
			}
			next.chatrooms = append(next.chatrooms, room)
			msgs := snap.Messages[room.ID]
			if msgs == nil {
				msgs = []model.Message{}
			}
			next.messages[room.ID] = msgs
		}
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}

// commit 先持久化 next，成功后替换内存状态。调用方持有写锁。
func (s *conversationStore) commit(ctx context.Context, next conversationState) error {
	snap := model.ChatSnapshot{Chatrooms: next.chatrooms, Messages: next.messages}
	if err := saveSnapshot(ctx, s.repo, model.ChatSnapshotName, snap); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *conversationStore) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, model.ChatSnapshotName); err != nil {
		return err
	}
	s.state = emptyConversationState()
	s.isTyping = false
	s.searchQuery = ""

	s.opts.publish(ctx, model.Event{Type: model.EventConversationPurged})
	return nil
}

func (s *conversationStore) CreateChatroom(ctx context.Context, title string) (string, error) {
	room := model.Chatroom{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: s.opts.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	next.chatrooms = append([]model.Chatroom{room}, next.chatrooms...)
	next.messages[room.ID] = []model.Message{}
	if err := s.commit(ctx, next); err != nil {
		return "", err
	}

	s.opts.publish(ctx, model.Event{Type: model.EventChatroomCreated, ChatroomID: room.ID})
	return room.ID, nil
}

func (s *conversationStore) DeleteChatroom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.indexOf(id)
	if idx < 0 {
		return nil
	}
	next := s.state.clone()
	next.chatrooms = slices.Delete(next.chatrooms, idx, idx+1)
	delete(next.messages, id)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.opts.publish(ctx, model.Event{Type: model.EventChatroomDeleted, ChatroomID: id})
	return nil
}

func (s *conversationStore) RenameChatroom(ctx context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.indexOf(id)
	if idx < 0 {
		return nil
	}
	next := s.state.clone()
	next.chatrooms[idx].Title = title
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.opts.publish(ctx, model.Event{Type: model.EventChatroomRenamed, ChatroomID: id})
	return nil
}

func (s *conversationStore) AddMessage(ctx context.Context, chatID string, in model.MessageInput) (model.Message, error) {
	if !in.Sender.Valid() {
		return model.Message{}, fmt.Errorf("%w: %q", ErrInvalidSender, in.Sender)
	}
	msg := model.Message{
		ID:        uuid.NewString(),
		Content:   in.Content,
		Sender:    in.Sender,
		Timestamp: s.opts.now(),
		Image:     in.Image,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.indexOf(chatID)
	if idx < 0 {
		return model.Message{}, ErrChatroomNotFound
	}
	next := s.state.clone()
	// 换成新切片，已返回给调用方的旧序列不受影响
	next.messages[chatID] = append(slices.Clip(next.messages[chatID]), msg)
	ts := msg.Timestamp
	next.chatrooms[idx].LastMessage = preview(msg.Content)
	next.chatrooms[idx].LastMessageTime = &ts
	if err := s.commit(ctx, next); err != nil {
		return model.Message{}, err
	}

	s.opts.publish(ctx, model.Event{
		Type:       model.EventMessageAdded,
		ChatroomID: chatID,
		MessageID:  msg.ID,
		Sender:     msg.Sender,
	})
	return msg, nil
}

func (s *conversationStore) SetTyping(typing bool) {
	s.mu.Lock()
	s.isTyping = typing
	s.mu.Unlock()
}

func (s *conversationStore) StartTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isTyping {
		return false
	}
	s.isTyping = true
	return true
}

func (s *conversationStore) IsTyping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isTyping
}

func (s *conversationStore) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
}

func (s *conversationStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

func (s *conversationStore) GetFilteredChatrooms() []model.Chatroom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.searchQuery == "" {
		return slices.Clone(s.state.chatrooms)
	}
	query := strings.ToLower(s.searchQuery)
	filtered := make([]model.Chatroom, 0, len(s.state.chatrooms))
	for _, room := range s.state.chatrooms {
		if strings.Contains(strings.ToLower(room.Title), query) {
			filtered = append(filtered, room)
		}
	}
	return filtered
}

func (s *conversationStore) GetChatMessages(chatID string, page, limit int) []model.Message {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.state.messages[chatID]
	start, end := pageBounds(len(msgs), page, limit)
	if end <= start {
		return []model.Message{}
	}
	return slices.Clone(msgs[start:end])
}

// PageCount 返回 n 条消息按 limit 分页后的页数。
func PageCount(n, limit int) int {
	if n <= 0 || limit <= 0 {
		return 0
	}
	pages := n / limit
	if n%limit != 0 {
		pages++
	}
	return pages
}

// pageBounds 计算倒序分页的半开区间 [max(0, n-p*limit), n-(p-1)*limit)。
// 超出页数的 page 返回空区间，先比较页数再相乘，避免整数溢出。
func pageBounds(n, page, limit int) (int, int) {
	if page < 1 || page > PageCount(n, limit) {
		return 0, 0
	}
	end := n - (page-1)*limit
	return max(0, end-limit), end
}

func (s *conversationStore) GetChatroom(id string) (model.Chatroom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.state.indexOf(id)
	if idx < 0 {
		return model.Chatroom{}, false
	}
	return s.state.chatrooms[idx], true
}

func (s *conversationStore) MessageCount(chatID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.messages[chatID])
}

// preview 截取前 50 个字符，超出时追加省略号。
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + previewEllipsis
}
