package handler

import (
	"net/http"

	"chatshell-go/internal/service"
	"chatshell-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责验证码登录相关的 API 请求。
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestOTPRequest 定义了获取验证码 API 的请求体结构。
type RequestOTPRequest struct {
	Phone       string `json:"phone" binding:"required"`
	CountryCode string `json:"countryCode" binding:"required"`
}

// RequestOTP 下发验证码并返回 challenge。
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RequestOTP: Invalid request payload, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载：手机号和国家区号不能为空")
		return
	}
	if !phonePattern.MatchString(req.Phone) {
		fail(c, http.StatusBadRequest, errInvalidPhone.Error())
		return
	}

	challenge, err := h.authService.RequestOTP(c.Request.Context(), req.Phone, req.CountryCode)
	if err != nil {
		failWithError(c, "RequestOTP", err)
		return
	}
	ok(c, "验证码已发送", challenge)
}

// ResendOTPRequest 定义了重发验证码 API 的请求体结构。
type ResendOTPRequest struct {
	Challenge string `json:"challenge" binding:"required"`
}

// ResendOTP 针对已有 challenge 中的手机号重新下发验证码。
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载：challenge 不能为空")
		return
	}
	challenge, err := h.authService.ResendOTP(c.Request.Context(), req.Challenge)
	if err != nil {
		failWithError(c, "ResendOTP", err)
		return
	}
	ok(c, "验证码已重新发送", challenge)
}

// VerifyOTPRequest 定义了校验验证码 API 的请求体结构。
type VerifyOTPRequest struct {
	Challenge string `json:"challenge" binding:"required"`
	OTP       string `json:"otp" binding:"required"`
}

// VerifyOTP 校验验证码，成功后建立会话。
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载：challenge 和验证码不能为空")
		return
	}
	if !otpPattern.MatchString(req.OTP) {
		fail(c, http.StatusBadRequest, errInvalidOTP.Error())
		return
	}

	user, err := h.authService.VerifyOTP(c.Request.Context(), req.Challenge, req.OTP)
	if err != nil {
		failWithError(c, "VerifyOTP", err)
		return
	}
	ok(c, "登录成功", gin.H{"user": user})
}

// Session 返回当前会话状态。
func (h *AuthHandler) Session(c *gin.Context) {
	ok(c, "success", h.authService.Session())
}

// Logout 退出登录并清空全部聊天数据。
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		failWithError(c, "Logout", err)
		return
	}
	ok(c, "已退出登录", nil)
}
