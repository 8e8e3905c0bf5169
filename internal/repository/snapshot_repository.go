// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrSnapshotNotFound 表示指定名称的快照尚未写入过。
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository 定义了命名快照的持久化操作。
// 快照总是整体读取、整体覆盖，不做增量更新。
type SnapshotRepository interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

type memorySnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemorySnapshotRepository 创建一个进程内的 SnapshotRepository，进程退出后数据丢失。
func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshotRepository{snapshots: make(map[string][]byte)}
}

func (r *memorySnapshotRepository) Load(_ context.Context, name string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.snapshots[name]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *memorySnapshotRepository) Save(_ context.Context, name string, data []byte) error {
	r.mu.Lock()
	r.snapshots[name] = append([]byte(nil), data...)
	r.mu.Unlock()
	return nil
}

func (r *memorySnapshotRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	delete(r.snapshots, name)
	r.mu.Unlock()
	return nil
}
