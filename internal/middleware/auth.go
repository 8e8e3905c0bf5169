package middleware

import (
	"net/http"

	"chatshell-go/internal/store"

	"github.com/gin-gonic/gin"
)

// ContextUserKey 是已登录用户在 gin.Context 中的键。
const ContextUserKey = "user"

// RequireSession 创建一个 Gin 中间件，只放行已登录的请求，并将当前用户存入上下文。
func RequireSession(sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := sessions.State()
		if !state.IsAuthenticated || state.User == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "请先登录",
			})
			return
		}
		c.Set(ContextUserKey, state.User)
		c.Next()
	}
}
