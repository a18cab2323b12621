// Package entity 定义领域实体
package entity

import (
	"time"
)

// DraftStatus 草稿状态
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusReviewing DraftStatus = "reviewing"
	DraftStatusPublished DraftStatus = "published"
)

// StageDebug 流水线各阶段的中间输出，便于编辑排查生成质量问题
type StageDebug struct {
	Research          string `json:"research,omitempty"`
	Analysis          string `json:"analysis,omitempty"`
	Outline           string `json:"outline,omitempty"`
	VerificationNotes string `json:"verification_notes,omitempty"`
}

// ArticleDraft 文章草稿
type ArticleDraft struct {
	ID           string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TopicID      string      `json:"topic_id,omitempty" gorm:"type:uuid;index"`
	Title        string      `json:"title" gorm:"type:varchar(512);not null"`
	MarkdownBody string      `json:"markdown_body" gorm:"type:text"`
	Pipeline     string      `json:"pipeline,omitempty" gorm:"type:varchar(50)"`
	StageDebug   *StageDebug `json:"stage_debug,omitempty" gorm:"type:jsonb;serializer:json"`
	Status       DraftStatus `json:"status" gorm:"type:varchar(50);default:'draft'"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ArticleDraft) TableName() string {
	return "article_drafts"
}

// NewArticleDraft 创建新草稿
func NewArticleDraft(topicID, title, markdownBody, pipeline string) *ArticleDraft {
	now := time.Now()
	return &ArticleDraft{
		TopicID:      topicID,
		Title:        title,
		MarkdownBody: markdownBody,
		Pipeline:     pipeline,
		Status:       DraftStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsPublishable 检查草稿是否可发布
func (d *ArticleDraft) IsPublishable() bool {
	return d.Status != DraftStatusPublished && d.MarkdownBody != ""
}
