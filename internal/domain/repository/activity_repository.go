// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"blog-ops-api/internal/domain/entity"
)

// ActivityRepository 操作日志仓储接口
type ActivityRepository interface {
	// Create 写入操作日志
	Create(ctx context.Context, log *entity.ActivityLog) error

	// List 获取操作日志列表（按时间倒序）
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.ActivityLog], error)
}
