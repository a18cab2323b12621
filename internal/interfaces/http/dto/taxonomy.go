// Package dto 提供 HTTP 层数据传输对象
package dto

// CreatePhaseRequest 创建阶段请求
type CreatePhaseRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	SortOrder int    `json:"sort_order"`
}

// UpdatePhaseRequest 更新阶段请求
type UpdatePhaseRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	PhaseID   string `json:"phase_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required,max=255"`
	SortOrder int    `json:"sort_order"`
}

// CreateSubcategoryRequest 创建子分类请求
type CreateSubcategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required,max=255"`
	SortOrder  int    `json:"sort_order"`
}

// CreateTopicRequest 创建选题请求
type CreateTopicRequest struct {
	SubcategoryID string `json:"subcategory_id" binding:"required,uuid"`
	Title         string `json:"title" binding:"required,max=512"`
	Notes         string `json:"notes"`
	SortOrder     int    `json:"sort_order"`
}

// UpdateTopicRequest 更新选题请求
type UpdateTopicRequest struct {
	Title     string `json:"title" binding:"required,max=512"`
	Notes     string `json:"notes"`
	Status    string `json:"status" binding:"omitempty,oneof=idea queued drafted published"`
	SortOrder int    `json:"sort_order"`
}
