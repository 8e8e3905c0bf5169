package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"chatshell-go/pkg/log"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LimiterStore 为每个 key 维护一个令牌桶，并定期清理长时间未使用的 key。
type LimiterStore struct {
	mu              sync.Mutex
	limit           rate.Limit
	burst           int
	clients         map[string]*clientEntry
	cleanupInterval time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore 创建限流器存储。limitPerMinute 为每分钟允许的请求数，burst 为桶容量。
func NewLimiterStore(limitPerMinute, burst int, cleanupInterval time.Duration) *LimiterStore {
	if limitPerMinute <= 0 {
		limitPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	s := &LimiterStore{
		limit:           rate.Every(time.Minute / time.Duration(limitPerMinute)),
		burst:           burst,
		clients:         map[string]*clientEntry{},
		cleanupInterval: cleanupInterval,
		stopCh:          make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *LimiterStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			s.mu.Lock()
			for k, v := range s.clients {
				if v.lastSeen.Before(cutoff) {
					delete(s.clients, k)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// Stop 停止后台清理协程，可重复调用。
func (s *LimiterStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Allow 报告 key 的这次请求是否被允许。
func (s *LimiterStore) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// PhoneOrIPKey 优先使用请求体中的 phone 字段作为限流 key，没有时退回客户端 IP。
func PhoneOrIPKey(c *gin.Context) string {
	if c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		if err == nil {
			var peek struct {
				Phone       string `json:"phone"`
				CountryCode string `json:"countryCode"`
			}
			if json.Unmarshal(body, &peek) == nil && peek.Phone != "" {
				return "phone:" + peek.CountryCode + peek.Phone
			}
		}
	}
	return "ip:" + c.ClientIP()
}

// RateLimit 创建一个按 keyFunc 分组限流的 Gin 中间件，超限返回 429。
func RateLimit(store *LimiterStore, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if !store.Allow(key) {
			log.Warnw("请求被限流", "key", key, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "请求过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
