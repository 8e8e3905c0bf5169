package handler

import (
	"chatshell-go/internal/service"

	"github.com/gin-gonic/gin"
)

// CountryHandler 提供国家区号列表。
type CountryHandler struct {
	countryService service.CountryService
}

// NewCountryHandler 创建一个新的 CountryHandler 实例。
func NewCountryHandler(countryService service.CountryService) *CountryHandler {
	return &CountryHandler{countryService: countryService}
}

// List 返回国家列表，目录不可用时返回内置列表。
func (h *CountryHandler) List(c *gin.Context) {
	ok(c, "success", h.countryService.List(c.Request.Context()))
}
