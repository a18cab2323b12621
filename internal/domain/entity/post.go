// Package entity 定义领域实体
package entity

import (
	"time"
)

// BlogPost 公开博客表中的一篇文章
type BlogPost struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DraftID      string    `json:"draft_id,omitempty" gorm:"type:uuid;index"`
	Slug         string    `json:"slug" gorm:"type:varchar(512);uniqueIndex;not null"`
	Title        string    `json:"title" gorm:"type:varchar(512);not null"`
	MarkdownBody string    `json:"markdown_body" gorm:"type:text"`
	HTMLBody     string    `json:"html_body" gorm:"type:text"`
	PublishedAt  time.Time `json:"published_at"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (BlogPost) TableName() string {
	return "blog_posts"
}
