// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatshell-go/internal/model"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/log"
	"chatshell-go/pkg/token"

	"github.com/google/uuid"
)

// ErrInvalidOTP 表示用户输入的验证码与下发的不一致。
var ErrInvalidOTP = errors.New("invalid otp")

// OTPProvider 下发并校验验证码。
type OTPProvider interface {
	Send(ctx context.Context, phone, countryCode string) (string, error)
	Verify(ctx context.Context, input, expected string) (bool, error)
}

// OTPChallenge 是一次验证码下发的结果。OTP 字段仅用于开发环境展示。
type OTPChallenge struct {
	Challenge   string    `json:"challenge"`
	OTP         string    `json:"otp"`
	Phone       string    `json:"phone"`
	CountryCode string    `json:"countryCode"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AuthService 接口定义了验证码登录流程。
type AuthService interface {
	RequestOTP(ctx context.Context, phone, countryCode string) (*OTPChallenge, error)
	ResendOTP(ctx context.Context, challenge string) (*OTPChallenge, error)
	// VerifyOTP 校验验证码，成功时创建用户并登录。验证码错误返回 ErrInvalidOTP，会话不变。
	VerifyOTP(ctx context.Context, challenge, input string) (*model.User, error)
	Session() model.SessionState
	Logout(ctx context.Context) error
}

type authService struct {
	otp        OTPProvider
	jwtManager *token.JWTManager
	sessions   store.SessionStore
	now        func() time.Time
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(otp OTPProvider, jwtManager *token.JWTManager, sessions store.SessionStore) AuthService {
	return &authService{
		otp:        otp,
		jwtManager: jwtManager,
		sessions:   sessions,
		now:        time.Now,
	}
}

func (s *authService) RequestOTP(ctx context.Context, phone, countryCode string) (*OTPChallenge, error) {
	code, err := s.otp.Send(ctx, phone, countryCode)
	if err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}
	challenge, expiresAt, err := s.jwtManager.GenerateChallenge(phone, countryCode, code)
	if err != nil {
		return nil, err
	}
	log.Infow("验证码已下发", "phone", maskPhone(phone), "countryCode", countryCode)
	return &OTPChallenge{
		Challenge:   challenge,
		OTP:         code,
		Phone:       phone,
		CountryCode: countryCode,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) ResendOTP(ctx context.Context, challenge string) (*OTPChallenge, error) {
	claims, err := s.jwtManager.VerifyChallenge(challenge)
	if err != nil {
		return nil, err
	}
	return s.RequestOTP(ctx, claims.Phone, claims.CountryCode)
}

func (s *authService) VerifyOTP(ctx context.Context, challenge, input string) (*model.User, error) {
	claims, err := s.jwtManager.VerifyChallenge(challenge)
	if err != nil {
		return nil, err
	}
	ok, err := s.otp.Verify(ctx, input, claims.Code)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !ok {
		log.Warnw("验证码校验失败", "phone", maskPhone(claims.Phone))
		return nil, ErrInvalidOTP
	}

	user := model.User{
		ID:          uuid.NewString(),
		Phone:       claims.Phone,
		CountryCode: claims.CountryCode,
		CreatedAt:   s.now(),
	}
	if err := s.sessions.Login(ctx, user); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	log.Infow("用户登录成功", "userId", user.ID)
	return &user, nil
}

func (s *authService) Session() model.SessionState {
	return s.sessions.State()
}

func (s *authService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// maskPhone 只保留后四位，避免手机号完整写入日志。
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(phone)-4:], phone[len(phone)-4:])
	return string(masked)
}
