// Package content 提供选题分类树与草稿的应用服务
package content

import (
	"context"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/pkg/errors"
)

// PostService 已发布文章应用服务
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService 创建文章服务
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// GetBySlug 按 slug 获取已发布文章
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get post")
	}
	if post == nil {
		return nil, errors.ErrPostNotFound
	}
	return post, nil
}

// List 获取已发布文章列表（按发布时间倒序）
func (s *PostService) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.BlogPost], error) {
	result, err := s.postRepo.List(ctx, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list posts")
	}
	return result, nil
}
