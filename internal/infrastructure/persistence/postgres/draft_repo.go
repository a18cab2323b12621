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

// DraftRepository 草稿仓储实现
type DraftRepository struct {
	client *Client
}

// NewDraftRepository 创建草稿仓储
func NewDraftRepository(client *Client) *DraftRepository {
	return &DraftRepository{client: client}
}

// Create 创建草稿
func (r *DraftRepository) Create(ctx context.Context, draft *entity.ArticleDraft) error {
	ctx, span := tracer.Start(ctx, "postgres.DraftRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(draft).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取草稿
func (r *DraftRepository) GetByID(ctx context.Context, id string) (*entity.ArticleDraft, error) {
	ctx, span := tracer.Start(ctx, "postgres.DraftRepository.GetByID")
	defer span.End()

	var draft entity.ArticleDraft
	err := getDB(ctx, r.client.db).First(&draft, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &draft, nil
}

// Update 更新草稿
func (r *DraftRepository) Update(ctx context.Context, draft *entity.ArticleDraft) error {
	ctx, span := tracer.Start(ctx, "postgres.DraftRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Model(&entity.ArticleDraft{}).
		Where("id = ?", draft.ID).
		Updates(map[string]any{
			"title":         draft.Title,
			"markdown_body": draft.MarkdownBody,
			"status":        draft.Status,
		}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update draft: %w", err)
	}
	return nil
}

// Delete 删除草稿
func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.DraftRepository.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.ArticleDraft{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// List 获取草稿列表
func (r *DraftRepository) List(ctx context.Context, filter *repository.DraftFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.ArticleDraft], error) {
	ctx, span := tracer.Start(ctx, "postgres.DraftRepository.List")
	defer span.End()

	q := getDB(ctx, r.client.db).Model(&entity.ArticleDraft{})
	if filter != nil {
		if filter.TopicID != "" {
			q = q.Where("topic_id = ?", filter.TopicID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count drafts: %w", err)
	}

	var drafts []*entity.ArticleDraft
	if err := q.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&drafts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	return repository.NewPagedResult(drafts, total, pagination), nil
}

// UpdateStatus 更新草稿状态
func (r *DraftRepository) UpdateStatus(ctx context.Context, id string, status entity.DraftStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.DraftRepository.UpdateStatus")
	defer span.End()

	if err := getDB(ctx, r.client.db).Model(&entity.ArticleDraft{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update draft status: %w", err)
	}
	return nil
}
