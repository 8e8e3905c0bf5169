package handler

import (
	"chatshell-go/internal/config"
	"chatshell-go/internal/middleware"
	"chatshell-go/internal/service"
	"chatshell-go/internal/store"

	"github.com/gin-gonic/gin"
)

// RouterDeps 汇总构建路由所需的全部依赖。
type RouterDeps struct {
	AuthService    service.AuthService
	ChatService    service.ChatService
	CountryService service.CountryService
	Sessions       store.SessionStore
	Conversations  store.ConversationStore
	OTPLimiter     *middleware.LimiterStore
	Chat           config.ChatConfig
}

// NewRouter 注册全部 /api/v1 路由。
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	authHandler := NewAuthHandler(d.AuthService)
	chatroomHandler := NewChatroomHandler(d.Conversations)
	messageHandler := NewMessageHandler(d.Conversations, d.ChatService, d.Chat)
	chatHandler := NewChatHandler(d.ChatService, d.Chat)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/countries", NewCountryHandler(d.CountryService).List)

		auth := apiV1.Group("/auth")
		{
			otpLimit := middleware.RateLimit(d.OTPLimiter, middleware.PhoneOrIPKey)
			auth.POST("/otp", otpLimit, authHandler.RequestOTP)
			auth.POST("/otp/resend", otpLimit, authHandler.ResendOTP)
			auth.POST("/verify", authHandler.VerifyOTP)
			auth.GET("/session", authHandler.Session)
			auth.POST("/logout", authHandler.Logout)
		}

		authed := apiV1.Group("/")
		authed.Use(middleware.RequireSession(d.Sessions))
		{
			authed.GET("/typing", chatroomHandler.Typing)

			chatrooms := authed.Group("/chatrooms")
			{
				chatrooms.GET("", chatroomHandler.List)
				chatrooms.POST("", chatroomHandler.Create)
				chatrooms.POST("/seed", chatroomHandler.Seed)
				chatrooms.PATCH("/:id", chatroomHandler.Rename)
				chatrooms.DELETE("/:id", chatroomHandler.Delete)
				chatrooms.GET("/:id/messages", messageHandler.List)
				chatrooms.POST("/:id/messages", messageHandler.Send)
				chatrooms.GET("/:id/ws", chatHandler.Handle)
			}
		}
	}
	return r
}
