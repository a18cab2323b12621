// Package entity 定义领域实体
package entity

import (
	"time"
)

// 活动类型
const (
	ActivityPublish       = "publish"
	ActivityDeployTrigger = "deploy_trigger"
	ActivityGenerate      = "generate"
)

// ActivityLog 操作日志（发布/部署等运营动作的审计记录）
type ActivityLog struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Actor      string    `json:"actor" gorm:"type:varchar(255)"`
	Action     string    `json:"action" gorm:"type:varchar(100);not null"`
	TargetType string    `json:"target_type,omitempty" gorm:"type:varchar(100)"`
	TargetID   string    `json:"target_id,omitempty" gorm:"type:varchar(100)"`
	Detail     string    `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (ActivityLog) TableName() string {
	return "activity_logs"
}
