package service

import (
	"context"
	"sync"

	"chatshell-go/internal/model"
)

// stubLLM 的回复在 release 关闭前阻塞，用于控制发送流程的时序。
type stubLLM struct {
	reply   string
	err     error
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStubLLM(reply string) *stubLLM {
	return &stubLLM{reply: reply, started: make(chan struct{}), release: make(chan struct{})}
}

func (s *stubLLM) GenerateResponse(ctx context.Context, _ string) (string, error) {
	s.once.Do(func() { close(s.started) })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.release:
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) SimulateTypingDelay(ctx context.Context) error {
	return ctx.Err()
}

// recordingObserver 记录发送过程中的事件顺序。
type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) add(e string) {
	o.mu.Lock()
	o.events = append(o.events, e)
	o.mu.Unlock()
}

func (o *recordingObserver) UserMessage(model.Message) { o.add("user") }
func (o *recordingObserver) AIMessage(model.Message) { o.add("ai") }
func (o *recordingObserver) Typing(typing bool) {
	if typing {
		o.add("typing:on")
	} else {
		o.add("typing:off")
	}
}

func (o *recordingObserver) list() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}
