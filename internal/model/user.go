package model

import "time"

// User 是通过验证码登录后创建的本地用户记录，创建后不再修改。
type User struct {
	ID          string    `json:"id"`
	Phone       string    `json:"phone"`
	CountryCode string    `json:"countryCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionState 是会话存储的全部状态。
// IsAuthenticated 为 true 时 User 一定不为 nil。
type SessionState struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// Clone 返回一份不与原状态共享 User 指针的副本。
func (s SessionState) Clone() SessionState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
