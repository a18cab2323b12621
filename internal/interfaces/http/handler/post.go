// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/application/content"
	"blog-ops-api/internal/interfaces/http/dto"
)

// PostHandler 已发布文章处理器
type PostHandler struct {
	service *content.PostService
}

// NewPostHandler 创建文章处理器
func NewPostHandler(service *content.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List 获取已发布文章列表
func (h *PostHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.SuccessWithPage(c, result.Items, dto.PageMetaFrom(result))
}

// GetBySlug 按 slug 获取文章
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, post)
}
