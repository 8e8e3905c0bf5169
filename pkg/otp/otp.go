// Package otp 模拟短信验证码的下发与校验。
package otp

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"chatshell-go/internal/config"
	"chatshell-go/pkg/log"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Service 下发六位数字验证码并做精确匹配校验，两个操作都带有人为延迟。
type Service struct {
	sendDelay   time.Duration
	verifyDelay time.Duration
	intN        func(n int) int
}

// NewService 创建一个验证码模拟服务。
func NewService(cfg config.OTPConfig) *Service {
	return &Service{
		sendDelay:   cfg.SendDelay,
		verifyDelay: cfg.VerifyDelay,
		intN:        rand.IntN,
	}
}

// WithRand 替换随机数来源，测试中使用。
func (s *Service) WithRand(intN func(n int) int) *Service {
	s.intN = intN
	return s
}

// Generate 返回 [100000, 999999] 范围内的六位验证码。
func (s *Service) Generate() string {
	return strconv.Itoa(codeMin + s.intN(codeMax-codeMin+1))
}

// Send 模拟向手机号下发验证码，延迟结束后返回验证码。
func (s *Service) Send(ctx context.Context, phone, countryCode string) (string, error) {
	code := s.Generate()
	log.Infof("OTP sent to %s%s: %s", countryCode, phone, code)
	if err := sleep(ctx, s.sendDelay); err != nil {
		return "", err
	}
	return code, nil
}

// Verify 在延迟后报告 input 是否与 expected 完全一致。
func (s *Service) Verify(ctx context.Context, input, expected string) (bool, error) {
	if err := sleep(ctx, s.verifyDelay); err != nil {
		return false, err
	}
	return input == expected, nil
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
