// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
)

// PostRepository 公开博客文章仓储实现
type PostRepository struct {
	client *Client
}

// NewPostRepository 创建文章仓储
func NewPostRepository(client *Client) *PostRepository {
	return &PostRepository{client: client}
}

// Create 写入公开博客表
func (r *PostRepository) Create(ctx context.Context, post *entity.BlogPost) error {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(post).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create blog post: %w", err)
	}
	return nil
}

// GetBySlug 根据 slug 获取文章
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.GetBySlug")
	defer span.End()

	var post entity.BlogPost
	err := getDB(ctx, r.client.db).First(&post, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return &post, nil
}

// List 获取文章列表（按发布时间倒序）
func (r *PostRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.BlogPost], error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.List")
	defer span.End()

	q := getDB(ctx, r.client.db).Model(&entity.BlogPost{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count blog posts: %w", err)
	}

	var posts []*entity.BlogPost
	if err := q.Order("published_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&posts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}

	return repository.NewPagedResult(posts, total, pagination), nil
}

// ExistsBySlug 检查 slug 是否占用
func (r *PostRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.ExistsBySlug")
	defer span.End()

	var count int64
	if err := getDB(ctx, r.client.db).Model(&entity.BlogPost{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}
