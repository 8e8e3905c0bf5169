// Package token 提供了用于生成和验证验证码 challenge token 的功能。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 表示 token 签名错误、格式错误或已过期。
var ErrInvalidToken = errors.New("invalid token")

// JWTManager 负责管理 challenge token 的生成和验证。
type JWTManager struct {
	secretKey    []byte        // secretKey 用于签名和验证 token 的密钥
	challengeDur time.Duration // challengeDur 定义了 challenge token 的有效期
	now          func() time.Time
}

// ChallengeClaims 记录一次验证码下发的上下文。
// 服务端不保存验证码，验证时以签名后的 token 为准。
type ChallengeClaims struct {
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
	Code        string `json:"code"`
	jwt.RegisteredClaims
}

// NewJWTManager 创建一个新的 JWTManager 实例。
func NewJWTManager(secret string, challengeTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:    []byte(secret),
		challengeDur: challengeTTL,
		now:          time.Now,
	}
}

// GenerateChallenge 为一次验证码下发生成 token，同时返回过期时间。
func (m *JWTManager) GenerateChallenge(phone, countryCode, code string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.challengeDur)
	claims := ChallengeClaims{
		Phone:       phone,
		CountryCode: countryCode,
		Code:        code,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   countryCode + phone,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	// 使用 HS256 签名方法创建新的 token 对象
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign challenge: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyChallenge 验证给定的 token 字符串并返回其中的 claims。
// 任何验证失败都包装为 ErrInvalidToken。
func (m *JWTManager) VerifyChallenge(tokenString string) (*ChallengeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChallengeClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 检查签名方法是否为 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*ChallengeClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
