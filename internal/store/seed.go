package store

import (
	"context"
	"fmt"
	"time"

	"chatshell-go/internal/model"

	"github.com/google/uuid"
)

// seedMessageSpacing 是示例消息之间的时间间隔，最后一条位于 now 之前一个间隔。
const seedMessageSpacing = 5 * time.Minute

// seedTitles 按插入顺序排列，每个都插到列表头部，所以最终列表是倒序的。
var seedTitles = []string{
	"Understanding Quantum Computing",
	"Japan Travel Planning",
	"Creative Writing: Magic Backpack",
	"Healthy Meal Prep Ideas",
	"Learning Spanish Basics",
}

type seedLine struct {
	content string
	sender  model.Sender
}

// seedMessages 为 chatID 生成一段示例对话，时间戳从 now 往前按固定间隔排列。
func seedMessages(chatID string, lines []seedLine, now time.Time) []model.Message {
	msgs := make([]model.Message, len(lines))
	for i, line := range lines {
		msgs[i] = model.Message{
			ID:        fmt.Sprintf("%s-%d", chatID, i),
			Content:   line.content,
			Sender:    line.sender,
			Timestamp: now.Add(-time.Duration(len(lines)-i) * seedMessageSpacing),
		}
	}
	return msgs
}

func (s *conversationStore) InitializeData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.chatrooms) > 0 {
		return nil
	}

	now := s.opts.now()
	next := emptyConversationState()
	for _, title := range seedTitles {
		room := model.Chatroom{ID: uuid.NewString(), Title: title, CreatedAt: now}
		msgs := seedMessages(room.ID, seedTranscripts[s.opts.pick(len(seedTranscripts))], now)
		if n := len(msgs); n > 0 {
			last := msgs[n-1]
			ts := last.Timestamp
			room.LastMessage = preview(last.Content)
			room.LastMessageTime = &ts
		}
		next.chatrooms = append([]model.Chatroom{room}, next.chatrooms...)
		next.messages[room.ID] = msgs
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.opts.publish(ctx, model.Event{Type: model.EventConversationSeeded})
	return nil
}
