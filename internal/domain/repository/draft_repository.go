// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"blog-ops-api/internal/domain/entity"
)

// DraftFilter 草稿过滤条件
type DraftFilter struct {
	TopicID string
	Status  entity.DraftStatus
}

// DraftRepository 草稿仓储接口
type DraftRepository interface {
	// Create 创建草稿
	Create(ctx context.Context, draft *entity.ArticleDraft) error

	// GetByID 根据 ID 获取草稿
	GetByID(ctx context.Context, id string) (*entity.ArticleDraft, error)

	// Update 更新草稿
	Update(ctx context.Context, draft *entity.ArticleDraft) error

	// Delete 删除草稿
	Delete(ctx context.Context, id string) error

	// List 获取草稿列表
	List(ctx context.Context, filter *DraftFilter, pagination Pagination) (*PagedResult[*entity.ArticleDraft], error)

	// UpdateStatus 更新草稿状态
	UpdateStatus(ctx context.Context, id string, status entity.DraftStatus) error
}
