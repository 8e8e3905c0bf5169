package store

import (
	"context"
	"errors"
	"sync"

	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"
)

var errDiskFull = errors.New("disk full")

// flakyRepository 包装内存仓库，可以让写操作失败。
type flakyRepository struct {
	repository.SnapshotRepository
	mu       sync.Mutex
	failSave bool
	failDel  bool
	saves    int
}

func newFlakyRepository() *flakyRepository {
	return &flakyRepository{SnapshotRepository: repository.NewMemorySnapshotRepository()}
}

func (r *flakyRepository) setFailing(save, del bool) {
	r.mu.Lock()
	r.failSave, r.failDel = save, del
	r.mu.Unlock()
}

func (r *flakyRepository) Save(ctx context.Context, name string, data []byte) error {
	r.mu.Lock()
	fail := r.failSave
	r.saves++
	r.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return r.SnapshotRepository.Save(ctx, name, data)
}

func (r *flakyRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	fail := r.failDel
	r.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return r.SnapshotRepository.Delete(ctx, name)
}

// recordingPublisher 记录收到的事件类型。
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
