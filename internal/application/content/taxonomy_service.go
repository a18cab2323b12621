// Package content 提供选题分类树与草稿的应用服务
package content

import (
	"context"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/internal/infrastructure/persistence/redis"
	"blog-ops-api/pkg/errors"
	"blog-ops-api/pkg/logger"
)

// TaxonomyService 分类树应用服务
type TaxonomyService struct {
	taxonomyRepo repository.TaxonomyRepository
	topicRepo    repository.TopicRepository
	cache        *redis.Cache
}

// NewTaxonomyService 创建分类树服务
func NewTaxonomyService(taxonomyRepo repository.TaxonomyRepository, topicRepo repository.TopicRepository, cache *redis.Cache) *TaxonomyService {
	return &TaxonomyService{
		taxonomyRepo: taxonomyRepo,
		topicRepo:    topicRepo,
		cache:        cache,
	}
}

// ListPhases 列出所有阶段
func (s *TaxonomyService) ListPhases(ctx context.Context) ([]*entity.Phase, error) {
	phases, err := s.taxonomyRepo.ListPhases(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list phases")
	}
	return phases, nil
}

// CreatePhase 创建阶段
func (s *TaxonomyService) CreatePhase(ctx context.Context, name string, sortOrder int) (*entity.Phase, error) {
	phase := entity.NewPhase(name, sortOrder)
	if err := s.taxonomyRepo.CreatePhase(ctx, phase); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create phase")
	}
	s.invalidate(ctx)
	return phase, nil
}

// UpdatePhase 更新阶段
func (s *TaxonomyService) UpdatePhase(ctx context.Context, id, name string, sortOrder int) error {
	if err := s.taxonomyRepo.UpdatePhase(ctx, &entity.Phase{ID: id, Name: name, SortOrder: sortOrder}); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to update phase")
	}
	s.invalidate(ctx)
	return nil
}

// DeletePhase 删除阶段
func (s *TaxonomyService) DeletePhase(ctx context.Context, id string) error {
	if err := s.taxonomyRepo.DeletePhase(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete phase")
	}
	s.invalidate(ctx)
	return nil
}

// ListCategories 列出阶段下的分类
func (s *TaxonomyService) ListCategories(ctx context.Context, phaseID string) ([]*entity.Category, error) {
	categories, err := s.taxonomyRepo.ListCategories(ctx, phaseID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list categories")
	}
	return categories, nil
}

// CreateCategory 创建分类
func (s *TaxonomyService) CreateCategory(ctx context.Context, phaseID, name string, sortOrder int) (*entity.Category, error) {
	category := entity.NewCategory(phaseID, name, sortOrder)
	if err := s.taxonomyRepo.CreateCategory(ctx, category); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create category")
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory 删除分类
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.taxonomyRepo.DeleteCategory(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete category")
	}
	s.invalidate(ctx)
	return nil
}

// ListSubcategories 列出分类下的子分类
func (s *TaxonomyService) ListSubcategories(ctx context.Context, categoryID string) ([]*entity.Subcategory, error) {
	subcategories, err := s.taxonomyRepo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list subcategories")
	}
	return subcategories, nil
}

// CreateSubcategory 创建子分类
func (s *TaxonomyService) CreateSubcategory(ctx context.Context, categoryID, name string, sortOrder int) (*entity.Subcategory, error) {
	subcategory := entity.NewSubcategory(categoryID, name, sortOrder)
	if err := s.taxonomyRepo.CreateSubcategory(ctx, subcategory); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create subcategory")
	}
	s.invalidate(ctx)
	return subcategory, nil
}

// DeleteSubcategory 删除子分类
func (s *TaxonomyService) DeleteSubcategory(ctx context.Context, id string) error {
	if err := s.taxonomyRepo.DeleteSubcategory(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete subcategory")
	}
	s.invalidate(ctx)
	return nil
}

// CreateTopic 在子分类下创建选题
func (s *TaxonomyService) CreateTopic(ctx context.Context, subcategoryID, title, notes string, sortOrder int) (*entity.Topic, error) {
	topic := entity.NewTopic(subcategoryID, title, notes, sortOrder)
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create topic")
	}
	return topic, nil
}

// GetTopic 获取选题
func (s *TaxonomyService) GetTopic(ctx context.Context, id string) (*entity.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get topic")
	}
	if topic == nil {
		return nil, errors.ErrTopicNotFound
	}
	return topic, nil
}

// UpdateTopic 更新选题
func (s *TaxonomyService) UpdateTopic(ctx context.Context, topic *entity.Topic) error {
	existing, err := s.topicRepo.GetByID(ctx, topic.ID)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to get topic")
	}
	if existing == nil {
		return errors.ErrTopicNotFound
	}
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to update topic")
	}
	return nil
}

// DeleteTopic 删除选题
func (s *TaxonomyService) DeleteTopic(ctx context.Context, id string) error {
	if err := s.topicRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete topic")
	}
	return nil
}

// ListTopics 获取选题列表
func (s *TaxonomyService) ListTopics(ctx context.Context, filter *repository.TopicFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Topic], error) {
	result, err := s.topicRepo.List(ctx, filter, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list topics")
	}
	return result, nil
}

// invalidate 分类树变更后清理缓存，失败只记日志
func (s *TaxonomyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTaxonomy(ctx); err != nil {
		logger.Warn(ctx, "failed to invalidate taxonomy cache", "error", err)
	}
}
