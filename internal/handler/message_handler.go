package handler

import (
	"net/http"
	"strconv"

	"chatshell-go/internal/config"
	"chatshell-go/internal/service"
	"chatshell-go/internal/store"

	"github.com/gin-gonic/gin"
)

// MessageHandler 负责聊天室消息的分页读取与同步发送。
type MessageHandler struct {
	conversations store.ConversationStore
	chatService   service.ChatService
	cfg           config.ChatConfig
}

// NewMessageHandler 创建一个新的 MessageHandler 实例。
func NewMessageHandler(conversations store.ConversationStore, chatService service.ChatService, cfg config.ChatConfig) *MessageHandler {
	return &MessageHandler{conversations: conversations, chatService: chatService, cfg: cfg}
}

// List 返回倒序分页的一页消息，hasMore 表示还有更早的消息。
func (h *MessageHandler) List(c *gin.Context) {
	chatID := c.Param("id")
	if _, exists := h.conversations.GetChatroom(chatID); !exists {
		fail(c, http.StatusNotFound, "聊天室不存在")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		fail(c, http.StatusBadRequest, "page 必须是正整数")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.cfg.PageSize)))
	if err != nil || limit < 1 {
		fail(c, http.StatusBadRequest, "limit 必须是正整数")
		return
	}

	total := h.conversations.MessageCount(chatID)
	ok(c, "success", gin.H{
		"messages": h.conversations.GetChatMessages(chatID, page, limit),
		"page":     page,
		"limit":    limit,
		"total":    total,
		"hasMore":  page < store.PageCount(total, limit),
	})
}

// SendMessageRequest 是发送消息的请求体，content 与 image 至少有一个。
type SendMessageRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

// Send 同步发送一条消息，等待 AI 回复后一并返回。
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}
	if err := validateImage(req.Image, h.cfg.MaxImageBytes); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), c.Param("id"), req.Content, req.Image, nil)
	if err != nil {
		failWithError(c, "SendMessage", err)
		return
	}
	ok(c, "success", result)
}
