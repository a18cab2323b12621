// Package content 提供选题分类树与草稿的应用服务
package content

import (
	"context"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/pkg/errors"
)

// DraftService 草稿应用服务
type DraftService struct {
	draftRepo repository.DraftRepository
	topicRepo repository.TopicRepository
}

// NewDraftService 创建草稿服务
func NewDraftService(draftRepo repository.DraftRepository, topicRepo repository.TopicRepository) *DraftService {
	return &DraftService{
		draftRepo: draftRepo,
		topicRepo: topicRepo,
	}
}

// Create 保存一份草稿，关联选题时同步其状态
func (s *DraftService) Create(ctx context.Context, topicID, title, markdownBody, pipeline string, debug *entity.StageDebug) (*entity.ArticleDraft, error) {
	draft := entity.NewArticleDraft(topicID, title, markdownBody, pipeline)
	draft.StageDebug = debug

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create draft")
	}

	if topicID != "" {
		if err := s.topicRepo.UpdateStatus(ctx, topicID, entity.TopicStatusDrafted); err != nil {
			// 选题状态同步失败不影响草稿本身
			return draft, nil
		}
	}
	return draft, nil
}

// Get 获取草稿
func (s *DraftService) Get(ctx context.Context, id string) (*entity.ArticleDraft, error) {
	draft, err := s.draftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get draft")
	}
	if draft == nil {
		return nil, errors.ErrDraftNotFound
	}
	return draft, nil
}

// Update 更新草稿内容
func (s *DraftService) Update(ctx context.Context, id, title, markdownBody string, status entity.DraftStatus) (*entity.ArticleDraft, error) {
	draft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		draft.Title = title
	}
	if markdownBody != "" {
		draft.MarkdownBody = markdownBody
	}
	if status != "" {
		draft.Status = status
	}

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to update draft")
	}
	return draft, nil
}

// Delete 删除草稿
func (s *DraftService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.draftRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete draft")
	}
	return nil
}

// List 获取草稿列表
func (s *DraftService) List(ctx context.Context, filter *repository.DraftFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.ArticleDraft], error) {
	result, err := s.draftRepo.List(ctx, filter, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list drafts")
	}
	return result, nil
}
