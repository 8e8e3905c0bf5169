package handler

import (
	"net/http"

	"chatshell-go/internal/store"
	"chatshell-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatroomHandler 负责聊天室列表相关的 API 请求。
type ChatroomHandler struct {
	conversations store.ConversationStore
}

// NewChatroomHandler 创建一个新的 ChatroomHandler 实例。
func NewChatroomHandler(conversations store.ConversationStore) *ChatroomHandler {
	return &ChatroomHandler{conversations: conversations}
}

// List 返回按搜索词过滤后的聊天室列表。请求带 q 参数时先更新搜索词。
func (h *ChatroomHandler) List(c *gin.Context) {
	if q, exists := c.GetQuery("q"); exists {
		h.conversations.SetSearchQuery(q)
	}
	ok(c, "success", gin.H{
		"chatrooms":   h.conversations.GetFilteredChatrooms(),
		"searchQuery": h.conversations.SearchQuery(),
	})
}

// TitleRequest 是创建和重命名聊天室的请求体。
type TitleRequest struct {
	Title string `json:"title"`
}

// Create 创建聊天室并返回其 ID。
func (h *ChatroomHandler) Create(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.conversations.CreateChatroom(c.Request.Context(), title)
	if err != nil {
		failWithError(c, "CreateChatroom", err)
		return
	}
	log.Infow("聊天室已创建", "chatId", id)
	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "聊天室已创建",
		"data":    gin.H{"id": id},
	})
}

// Seed 在没有任何聊天室时写入示例数据。
func (h *ChatroomHandler) Seed(c *gin.Context) {
	if err := h.conversations.InitializeData(c.Request.Context()); err != nil {
		failWithError(c, "InitializeData", err)
		return
	}
	ok(c, "success", gin.H{"chatrooms": h.conversations.GetFilteredChatrooms()})
}

// Rename 修改聊天室标题，聊天室不存在时同样返回成功。
func (h *ChatroomHandler) Rename(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}
	title, err := normalizeTitle(req.Title)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.conversations.RenameChatroom(c.Request.Context(), c.Param("id"), title); err != nil {
		failWithError(c, "RenameChatroom", err)
		return
	}
	ok(c, "聊天室已重命名", nil)
}

// Delete 删除聊天室及其全部消息，聊天室不存在时同样返回成功。
func (h *ChatroomHandler) Delete(c *gin.Context) {
	if err := h.conversations.DeleteChatroom(c.Request.Context(), c.Param("id")); err != nil {
		failWithError(c, "DeleteChatroom", err)
		return
	}
	ok(c, "聊天室已删除", nil)
}

// Typing 返回全局 typing 标记。
func (h *ChatroomHandler) Typing(c *gin.Context) {
	ok(c, "success", gin.H{"isTyping": h.conversations.IsTyping()})
}
