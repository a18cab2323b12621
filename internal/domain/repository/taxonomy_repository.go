// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"blog-ops-api/internal/domain/entity"
)

// TaxonomyRepository 选题分类树仓储接口
type TaxonomyRepository interface {
	// ListPhases 列出所有阶段（按 sort_order）
	ListPhases(ctx context.Context) ([]*entity.Phase, error)

	// CreatePhase 创建阶段
	CreatePhase(ctx context.Context, phase *entity.Phase) error

	// UpdatePhase 更新阶段
	UpdatePhase(ctx context.Context, phase *entity.Phase) error

	// DeletePhase 删除阶段（级联由数据库约束处理）
	DeletePhase(ctx context.Context, id string) error

	// ListCategories 列出阶段下的分类
	ListCategories(ctx context.Context, phaseID string) ([]*entity.Category, error)

	// CreateCategory 创建分类
	CreateCategory(ctx context.Context, category *entity.Category) error

	// DeleteCategory 删除分类
	DeleteCategory(ctx context.Context, id string) error

	// ListSubcategories 列出分类下的子分类
	ListSubcategories(ctx context.Context, categoryID string) ([]*entity.Subcategory, error)

	// CreateSubcategory 创建子分类
	CreateSubcategory(ctx context.Context, subcategory *entity.Subcategory) error

	// DeleteSubcategory 删除子分类
	DeleteSubcategory(ctx context.Context, id string) error
}

// TopicFilter 选题过滤条件
type TopicFilter struct {
	SubcategoryID string
	Status        entity.TopicStatus
}

// TopicRepository 选题仓储接口
type TopicRepository interface {
	// Create 创建选题
	Create(ctx context.Context, topic *entity.Topic) error

	// GetByID 根据 ID 获取选题
	GetByID(ctx context.Context, id string) (*entity.Topic, error)

	// Update 更新选题
	Update(ctx context.Context, topic *entity.Topic) error

	// Delete 删除选题
	Delete(ctx context.Context, id string) error

	// List 获取选题列表
	List(ctx context.Context, filter *TopicFilter, pagination Pagination) (*PagedResult[*entity.Topic], error)

	// UpdateStatus 更新选题状态
	UpdateStatus(ctx context.Context, id string, status entity.TopicStatus) error
}
