package store

import (
	"context"
	"fmt"
	"sync"

	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"
)

// Purger 清空对话数据，登出时调用。
type Purger interface {
	Purge(ctx context.Context) error
}

// SessionStore 管理认证状态及其生命周期。
type SessionStore interface {
	// Load 从 auth-storage 快照恢复状态，快照不存在时保持初始状态。
	Load(ctx context.Context) error
	Login(ctx context.Context, user model.User) error
	// Logout 清除会话并清空全部聊天数据。
	Logout(ctx context.Context) error
	// InitializeAuth 在存在用户但未标记认证时补上认证标记，否则不做任何事。
	InitializeAuth(ctx context.Context) error
	State() model.SessionState
}

type sessionStore struct {
	mu     sync.RWMutex
	state  model.SessionState
	repo   repository.SnapshotRepository
	purger Purger
	opts   options
}

// NewSessionStore 创建会话存储。purger 可以为 nil，此时登出不清理对话数据。
func NewSessionStore(repo repository.SnapshotRepository, purger Purger, opts ...Option) SessionStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &sessionStore{repo: repo, purger: purger, opts: o}
}

func (s *sessionStore) Load(ctx context.Context) error {
	var snap model.AuthSnapshot
	found, err := loadSnapshot(ctx, s.repo, model.AuthSnapshotName, &snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !found {
		s.state = model.SessionState{}
		return nil
	}
	// 认证标记必须有用户支撑
	s.state = model.SessionState{
		IsAuthenticated: snap.IsAuthenticated && snap.User != nil,
		User:            snap.User,
	}
	return nil
}

// commit 先持久化 next，成功后替换内存状态。调用方持有写锁。
func (s *sessionStore) commit(ctx context.Context, next model.SessionState) error {
	snap := model.AuthSnapshot{User: next.User, IsAuthenticated: next.IsAuthenticated}
	if err := saveSnapshot(ctx, s.repo, model.AuthSnapshotName, snap); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *sessionStore) Login(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(ctx, model.SessionState{IsAuthenticated: true, User: &user}); err != nil {
		return err
	}
	s.opts.publish(ctx, model.Event{Type: model.EventSessionLogin, UserID: user.ID})
	return nil
}

func (s *sessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	var userID string
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	if err := s.commit(ctx, model.SessionState{}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.opts.publish(ctx, model.Event{Type: model.EventSessionLogout, UserID: userID})
	s.mu.Unlock()

	if s.purger != nil {
		if err := s.purger.Purge(ctx); err != nil {
			return fmt.Errorf("purge conversations: %w", err)
		}
	}
	return nil
}

func (s *sessionStore) InitializeAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil || s.state.IsAuthenticated {
		return nil
	}
	return s.commit(ctx, model.SessionState{IsAuthenticated: true, User: s.state.User})
}

func (s *sessionStore) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}
