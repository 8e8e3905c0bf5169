// Package store 实现会话存储与对话存储。
// 两个存储都以内存副本为准，每次变更先写快照再提交，写失败时内存状态保持不变。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"
	"chatshell-go/pkg/log"
)

var (
	// ErrChatroomNotFound 表示目标聊天室不存在。
	ErrChatroomNotFound = errors.New("chatroom not found")
	// ErrInvalidSender 表示消息的 sender 不是 user 或 ai。
	ErrInvalidSender = errors.New("invalid message sender")
)

// Publisher 接收已经提交的状态变更事件。
// 存储在持有写锁时调用 Publish，事件顺序与提交顺序一致，实现不应长时间阻塞。
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// Picker 从 n 个候选中返回一个下标，取值范围 [0, n)。
type Picker func(n int) int

// Option 配置存储的可注入依赖。
type Option func(*options)

type options struct {
	now       func() time.Time
	pick      Picker
	publisher Publisher
}

func defaultOptions() options {
	return options{
		now:  time.Now,
		pick: rand.IntN,
	}
}

// WithClock 替换时间来源。
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPicker 替换示例数据的对话选择器。
func WithPicker(pick Picker) Option {
	return func(o *options) { o.pick = pick }
}

// WithPublisher 设置事件发布者。
func WithPublisher(p Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func (o options) publish(ctx context.Context, event model.Event) {
	if o.publisher == nil {
		return
	}
	event.OccurredAt = o.now()
	if err := o.publisher.Publish(ctx, event); err != nil {
		log.Warnw("发布存储事件失败", "type", event.Type, "error", err)
	}
}

// loadSnapshot 读取并解开 {"state":...,"version":0} 信封。快照不存在时返回 false。
func loadSnapshot(ctx context.Context, repo repository.SnapshotRepository, name string, state any) (bool, error) {
	data, err := repo.Load(ctx, name)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var envelope model.SnapshotEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return false, fmt.Errorf("decode %s envelope: %w", name, err)
	}
	if len(envelope.State) == 0 || string(envelope.State) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(envelope.State, state); err != nil {
		return false, fmt.Errorf("decode %s state: %w", name, err)
	}
	return true, nil
}

func saveSnapshot(ctx context.Context, repo repository.SnapshotRepository, name string, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s state: %w", name, err)
	}
	data, err := json.Marshal(model.SnapshotEnvelope{State: raw, Version: model.SnapshotVersion})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", name, err)
	}
	if err := repo.Save(ctx, name, data); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}
