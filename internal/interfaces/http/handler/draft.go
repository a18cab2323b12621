// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/application/content"
	"blog-ops-api/internal/application/publish"
	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/internal/interfaces/http/dto"
)

// DraftHandler 草稿处理器
type DraftHandler struct {
	drafts    *content.DraftService
	publisher *publish.Publisher
}

// NewDraftHandler 创建草稿处理器
func NewDraftHandler(drafts *content.DraftService, publisher *publish.Publisher) *DraftHandler {
	return &DraftHandler{
		drafts:    drafts,
		publisher: publisher,
	}
}

// List 获取草稿列表
func (h *DraftHandler) List(c *gin.Context) {
	pagination := paginationFromQuery(c)
	filter := &repository.DraftFilter{
		TopicID: c.Query("topic_id"),
		Status:  entity.DraftStatus(c.Query("status")),
	}

	result, err := h.drafts.List(c.Request.Context(), filter, pagination)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.SuccessWithPage(c, result.Items, dto.PageMetaFrom(result))
}

// Create 手工创建草稿
func (h *DraftHandler) Create(c *gin.Context) {
	var req dto.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	draft, err := h.drafts.Create(c.Request.Context(), req.TopicID, req.Title, req.MarkdownBody, "manual", nil)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Created(c, draft)
}

// Get 获取草稿
func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.drafts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, draft)
}

// Update 更新草稿
func (h *DraftHandler) Update(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	draft, err := h.drafts.Update(c.Request.Context(), c.Param("id"), req.Title, req.MarkdownBody, entity.DraftStatus(req.Status))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, draft)
}

// Delete 删除草稿
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.drafts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.NoContent(c)
}

// Publish 把草稿发布为博客文章
// @Summary 发布草稿
// @Description 渲染 Markdown、写入文章表并触发站点重建
// @Tags Draft
// @Produce json
// @Router /v1/drafts/{id}/publish [post]
func (h *DraftHandler) Publish(c *gin.Context) {
	actor := c.GetString("editor_id")
	if actor == "" {
		actor = "system"
	}

	post, err := h.publisher.Publish(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, post)
}
