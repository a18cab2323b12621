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

// TaxonomyRepository 选题分类树仓储实现
type TaxonomyRepository struct {
	client *Client
}

// NewTaxonomyRepository 创建分类树仓储
func NewTaxonomyRepository(client *Client) *TaxonomyRepository {
	return &TaxonomyRepository{client: client}
}

// ListPhases 列出所有阶段
func (r *TaxonomyRepository) ListPhases(ctx context.Context) ([]*entity.Phase, error) {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.ListPhases")
	defer span.End()

	var phases []*entity.Phase
	if err := getDB(ctx, r.client.db).Order("sort_order, created_at").Find(&phases).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	return phases, nil
}

// CreatePhase 创建阶段
func (r *TaxonomyRepository) CreatePhase(ctx context.Context, phase *entity.Phase) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.CreatePhase")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(phase).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create phase: %w", err)
	}
	return nil
}

// UpdatePhase 更新阶段
func (r *TaxonomyRepository) UpdatePhase(ctx context.Context, phase *entity.Phase) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.UpdatePhase")
	defer span.End()

	if err := getDB(ctx, r.client.db).Model(&entity.Phase{}).
		Where("id = ?", phase.ID).
		Updates(map[string]any{"name": phase.Name, "sort_order": phase.SortOrder}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update phase: %w", err)
	}
	return nil
}

// DeletePhase 删除阶段
func (r *TaxonomyRepository) DeletePhase(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.DeletePhase")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Phase{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete phase: %w", err)
	}
	return nil
}

// ListCategories 列出阶段下的分类
func (r *TaxonomyRepository) ListCategories(ctx context.Context, phaseID string) ([]*entity.Category, error) {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.ListCategories")
	defer span.End()

	var categories []*entity.Category
	if err := getDB(ctx, r.client.db).
		Where("phase_id = ?", phaseID).
		Order("sort_order, created_at").
		Find(&categories).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory 创建分类
func (r *TaxonomyRepository) CreateCategory(ctx context.Context, category *entity.Category) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.CreateCategory")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(category).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteCategory 删除分类
func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.DeleteCategory")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Category{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListSubcategories 列出分类下的子分类
func (r *TaxonomyRepository) ListSubcategories(ctx context.Context, categoryID string) ([]*entity.Subcategory, error) {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.ListSubcategories")
	defer span.End()

	var subcategories []*entity.Subcategory
	if err := getDB(ctx, r.client.db).
		Where("category_id = ?", categoryID).
		Order("sort_order, created_at").
		Find(&subcategories).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	return subcategories, nil
}

// CreateSubcategory 创建子分类
func (r *TaxonomyRepository) CreateSubcategory(ctx context.Context, subcategory *entity.Subcategory) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.CreateSubcategory")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(subcategory).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create subcategory: %w", err)
	}
	return nil
}

// DeleteSubcategory 删除子分类
func (r *TaxonomyRepository) DeleteSubcategory(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.TaxonomyRepository.DeleteSubcategory")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Subcategory{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	return nil
}

// TopicRepository 选题仓储实现
type TopicRepository struct {
	client *Client
}

// NewTopicRepository 创建选题仓储
func NewTopicRepository(client *Client) *TopicRepository {
	return &TopicRepository{client: client}
}

// Create 创建选题
func (r *TopicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(topic).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取选题
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*entity.Topic, error) {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.GetByID")
	defer span.End()

	var topic entity.Topic
	err := getDB(ctx, r.client.db).First(&topic, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &topic, nil
}

// Update 更新选题
func (r *TopicRepository) Update(ctx context.Context, topic *entity.Topic) error {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Model(&entity.Topic{}).
		Where("id = ?", topic.ID).
		Updates(map[string]any{
			"title":      topic.Title,
			"notes":      topic.Notes,
			"status":     topic.Status,
			"sort_order": topic.SortOrder,
		}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return nil
}

// Delete 删除选题
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.Delete")
	defer span.End()

	if err := getDB(ctx, r.client.db).Delete(&entity.Topic{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	return nil
}

// List 获取选题列表
func (r *TopicRepository) List(ctx context.Context, filter *repository.TopicFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Topic], error) {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.List")
	defer span.End()

	q := getDB(ctx, r.client.db).Model(&entity.Topic{})
	if filter != nil {
		if filter.SubcategoryID != "" {
			q = q.Where("subcategory_id = ?", filter.SubcategoryID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}

	var topics []*entity.Topic
	if err := q.Order("sort_order, created_at").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&topics).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	return repository.NewPagedResult(topics, total, pagination), nil
}

// UpdateStatus 更新选题状态
func (r *TopicRepository) UpdateStatus(ctx context.Context, id string, status entity.TopicStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.TopicRepository.UpdateStatus")
	defer span.End()

	if err := getDB(ctx, r.client.db).Model(&entity.Topic{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update topic status: %w", err)
	}
	return nil
}
