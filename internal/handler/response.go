// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"context"
	"errors"
	"net/http"

	"chatshell-go/internal/service"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/log"
	"chatshell-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": message,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// failWithError 把业务错误映射为 HTTP 状态码。
func failWithError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, "消息内容不能为空")
	case errors.Is(err, service.ErrInvalidOTP):
		fail(c, http.StatusUnauthorized, "验证码错误")
	case errors.Is(err, token.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "验证已失效，请重新获取验证码")
	case errors.Is(err, store.ErrChatroomNotFound):
		fail(c, http.StatusNotFound, "聊天室不存在")
	case errors.Is(err, service.ErrBusy):
		fail(c, http.StatusConflict, "AI 正在回复，请稍后再发送")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusServiceUnavailable, "请求已取消")
	default:
		log.Errorf("%s failed: %v", op, err)
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
