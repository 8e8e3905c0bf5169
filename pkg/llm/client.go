// Package llm provides a simulated AI responder used by the chat flow.
package llm

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"chatshell-go/internal/config"
)

var baseResponses = []string{
	"That's an interesting question! Let me think about that for a moment.",
	"I understand what you're asking. Here's my perspective on that topic.",
	"Great question! I'd be happy to help you with that.",
	"That's a thoughtful inquiry. Let me provide you with some insights.",
	"I appreciate you asking about this. Here's what I can tell you.",
	"That's something I can definitely help you with. Let me explain.",
	"Interesting point! I have some thoughts on that subject.",
	"I'm glad you brought that up. Here's my take on it.",
	"That's a complex topic, but I'll do my best to explain it clearly.",
	"Good question! I think you'll find this information helpful.",
}

var followUps = []string{
	"Is there anything specific about this topic you'd like me to elaborate on?",
	"Would you like me to provide more details on any particular aspect?",
	"Do you have any follow-up questions about what I've shared?",
	"Is there another angle of this topic you'd like to explore?",
	"Would you like me to explain this differently or provide examples?",
}

type keywordOverride struct {
	keywords []string
	response string
}

// 按顺序匹配，第一个命中的生效。匹配是小写子串匹配，所以 "this" 也会命中 "hi"。
var overrides = []keywordOverride{
	{[]string{"hello", "hi"}, "Hello! It's great to meet you. How can I assist you today?"},
	{[]string{"help"}, "I'm here to help! What specific topic or question can I assist you with?"},
	{[]string{"thank"}, "You're very welcome! I'm glad I could help. Is there anything else you'd like to know?"},
}

// Client defines the interface for the AI responder.
type Client interface {
	// GenerateResponse 在随机的思考时间之后返回一条回复。
	GenerateResponse(ctx context.Context, userText string) (string, error)
	// SimulateTypingDelay 等待一段随机的打字时间。
	SimulateTypingDelay(ctx context.Context) error
}

type simulatedClient struct {
	cfg config.AIConfig
	mu  sync.Mutex
	rng *rand.Rand
}

// NewClient creates a simulated AI client. src may be nil, in which case a time-seeded source is used.
func NewClient(cfg config.AIConfig, src rand.Source) Client {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1)
	}
	return &simulatedClient{cfg: cfg, rng: rand.New(src)}
}

func (c *simulatedClient) GenerateResponse(ctx context.Context, userText string) (string, error) {
	if err := sleep(ctx, c.between(c.cfg.MinThinking, c.cfg.MaxThinking)); err != nil {
		return "", err
	}

	c.mu.Lock()
	response := baseResponses[c.rng.IntN(len(baseResponses))]
	var followUp string
	if c.rng.Float64() < c.cfg.FollowUpProbability {
		followUp = " " + followUps[c.rng.IntN(len(followUps))]
	}
	c.mu.Unlock()

	if override, ok := matchOverride(userText); ok {
		response = override
	}
	return response + followUp, nil
}

func (c *simulatedClient) SimulateTypingDelay(ctx context.Context) error {
	return sleep(ctx, c.between(c.cfg.MinTyping, c.cfg.MaxTyping))
}

// between 返回 [lo, hi) 内的随机时长，hi <= lo 时返回 lo。
func (c *simulatedClient) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo + time.Duration(c.rng.Int64N(int64(hi-lo)))
}

func matchOverride(userText string) (string, bool) {
	lower := strings.ToLower(userText)
	for _, o := range overrides {
		for _, kw := range o.keywords {
			if strings.Contains(lower, kw) {
				return o.response, true
			}
		}
	}
	return "", false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
