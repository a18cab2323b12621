// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/application/content"
	"blog-ops-api/internal/interfaces/http/dto"
)

// ActivityHandler 操作日志处理器
type ActivityHandler struct {
	service *content.ActivityService
}

// NewActivityHandler 创建操作日志处理器
func NewActivityHandler(service *content.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List 获取操作日志列表
func (h *ActivityHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.SuccessWithPage(c, result.Items, dto.PageMetaFrom(result))
}
