// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/domain/repository"
)

// ActivityRepository 操作日志仓储实现
type ActivityRepository struct {
	client *Client
}

// NewActivityRepository 创建操作日志仓储
func NewActivityRepository(client *Client) *ActivityRepository {
	return &ActivityRepository{client: client}
}

// Create 写入操作日志
func (r *ActivityRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	ctx, span := tracer.Start(ctx, "postgres.ActivityRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(log).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

// List 获取操作日志列表
func (r *ActivityRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.ActivityLog], error) {
	ctx, span := tracer.Start(ctx, "postgres.ActivityRepository.List")
	defer span.End()

	q := getDB(ctx, r.client.db).Model(&entity.ActivityLog{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	var logs []*entity.ActivityLog
	if err := q.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&logs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	return repository.NewPagedResult(logs, total, pagination), nil
}
