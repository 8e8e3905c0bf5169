package service

import (
	"context"
	"sync"
	"time"

	"chatshell-go/internal/model"
)

// CountryFetcher 获取国家列表，第二个返回值报告结果是否来自远程目录。
type CountryFetcher interface {
	Fetch(ctx context.Context) ([]model.Country, bool)
}

// CountryService 提供登录页的国家区号列表，从不返回错误。
type CountryService interface {
	List(ctx context.Context) []model.Country
}

type countryService struct {
	fetcher CountryFetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	cached    []model.Country
	expiresAt time.Time
}

// NewCountryService 创建一个带缓存的 CountryService。只有远程目录的结果会被缓存。
func NewCountryService(fetcher CountryFetcher, ttl time.Duration) CountryService {
	return &countryService{fetcher: fetcher, ttl: ttl, now: time.Now}
}

func (s *countryService) List(ctx context.Context) []model.Country {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Before(s.expiresAt) {
		return append([]model.Country(nil), s.cached...)
	}

	list, remote := s.fetcher.Fetch(ctx)
	if remote && s.ttl > 0 {
		s.cached = list
		s.expiresAt = s.now().Add(s.ttl)
	}
	return append([]model.Country(nil), list...)
}
