// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/application/content"
	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/internal/interfaces/http/dto"
)

// TaxonomyHandler 分类树处理器
type TaxonomyHandler struct {
	service *content.TaxonomyService
}

// NewTaxonomyHandler 创建分类树处理器
func NewTaxonomyHandler(service *content.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// ListPhases 列出所有阶段
func (h *TaxonomyHandler) ListPhases(c *gin.Context) {
	phases, err := h.service.ListPhases(c.Request.Context())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, phases)
}

// CreatePhase 创建阶段
func (h *TaxonomyHandler) CreatePhase(c *gin.Context) {
	var req dto.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	phase, err := h.service.CreatePhase(c.Request.Context(), req.Name, req.SortOrder)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Created(c, phase)
}

// UpdatePhase 更新阶段
func (h *TaxonomyHandler) UpdatePhase(c *gin.Context) {
	var req dto.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdatePhase(c.Request.Context(), c.Param("id"), req.Name, req.SortOrder); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.NoContent(c)
}

// DeletePhase 删除阶段
func (h *TaxonomyHandler) DeletePhase(c *gin.Context) {
	if err := h.service.DeletePhase(c.Request.Context(), c.Param("id")); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.NoContent(c)
}

// ListCategories 列出阶段下的分类
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, categories)
}

// CreateCategory 创建分类
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req.PhaseID, req.Name, req.SortOrder)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Created(c, category)
}

// DeleteCategory 删除分类
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.NoContent(c)
}

// ListSubcategories 列出分类下的子分类
func (h *TaxonomyHandler) ListSubcategories(c *gin.Context) {
	subcategories, err := h.service.ListSubcategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, subcategories)
}

// CreateSubcategory 创建子分类
func (h *TaxonomyHandler) CreateSubcategory(c *gin.Context) {
	var req dto.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	subcategory, err := h.service.CreateSubcategory(c.Request.Context(), req.CategoryID, req.Name, req.SortOrder)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Created(c, subcategory)
}

// DeleteSubcategory 删除子分类
func (h *TaxonomyHandler) DeleteSubcategory(c *gin.Context) {
	if err := h.service.DeleteSubcategory(c.Request.Context(), c.Param("id")); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.NoContent(c)
}

// ListTopics 获取选题列表
func (h *TaxonomyHandler) ListTopics(c *gin.Context) {
	pagination := paginationFromQuery(c)
	filter := &repository.TopicFilter{
		SubcategoryID: c.Query("subcategory_id"),
		Status:        entity.TopicStatus(c.Query("status")),
	}

	result, err := h.service.ListTopics(c.Request.Context(), filter, pagination)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.SuccessWithPage(c, result.Items, dto.PageMetaFrom(result))
}

// CreateTopic 创建选题
func (h *TaxonomyHandler) CreateTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	topic, err := h.service.CreateTopic(c.Request.Context(), req.SubcategoryID, req.Title, req.Notes, req.SortOrder)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Created(c, topic)
}

// GetTopic 获取选题
func (h *TaxonomyHandler) GetTopic(c *gin.Context) {
	topic, err := h.service.GetTopic(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, topic)
}

// UpdateTopic 更新选题
func (h *TaxonomyHandler) UpdateTopic(c *gin.Context) {
	var req dto.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	topic := &entity.Topic{
		ID:        c.Param("id"),
		Title:     req.Title,
		Notes:     req.Notes,
		Status:    entity.TopicStatus(req.Status),
		SortOrder: req.SortOrder,
	}
	if err := h.service.UpdateTopic(c.Request.Context(), topic); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, topic)
}

// DeleteTopic 删除选题
func (h *TaxonomyHandler) DeleteTopic(c *gin.Context) {
	if err := h.service.DeleteTopic(c.Request.Context(), c.Param("id")); err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.NoContent(c)
}

// paginationFromQuery 从查询参数解析分页
func paginationFromQuery(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return repository.NewPagination(page, pageSize)
}
