// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"blog-ops-api/internal/domain/entity"
)

// PostRepository 公开博客文章仓储接口
type PostRepository interface {
	// Create 写入公开博客表
	Create(ctx context.Context, post *entity.BlogPost) error

	// GetBySlug 根据 slug 获取文章
	GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)

	// List 获取文章列表（按发布时间倒序）
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.BlogPost], error)

	// ExistsBySlug 检查 slug 是否占用
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
