// Package content 提供选题分类树与草稿的应用服务
package content

import (
	"context"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
	"blog-ops-api/pkg/errors"
)

// ActivityService 操作日志应用服务
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService 创建操作日志服务
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// List 获取操作日志列表
func (s *ActivityService) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.ActivityLog], error) {
	result, err := s.activityRepo.List(ctx, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list activity logs")
	}
	return result, nil
}
