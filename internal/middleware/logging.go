// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"time"

	"chatshell-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// maxLoggedBody 限制写入日志的请求体长度，图片 data URI 可能有数 MB。
const maxLoggedBody = 512

// RequestLogger 是一个 Gin 中间件，用于记录请求日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		startTime := time.Now()

		// 读取并重新缓存请求体
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// 将读取的请求体重新设置回 c.Request.Body，以便后续处理函数可以正常读取
			c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		// 处理请求
		c.Next()

		logged := requestBody
		if len(logged) > maxLoggedBody {
			logged = append(logged[:maxLoggedBody:maxLoggedBody], "...(truncated)"...)
		}
		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestBody", string(logged),
			"errors", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
