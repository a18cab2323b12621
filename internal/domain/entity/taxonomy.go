// Package entity 定义领域实体
package entity

import (
	"time"
)

// Phase 顶层阶段（内容规划的第一层）
type Phase struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Phase) TableName() string {
	return "phases"
}

// NewPhase 创建新阶段
func NewPhase(name string, sortOrder int) *Phase {
	return &Phase{Name: name, SortOrder: sortOrder}
}

// Category 阶段下的分类
type Category struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PhaseID   string    `json:"phase_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// NewCategory 创建新分类
func NewCategory(phaseID, name string, sortOrder int) *Category {
	return &Category{PhaseID: phaseID, Name: name, SortOrder: sortOrder}
}

// Subcategory 分类下的子分类
type Subcategory struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID string    `json:"category_id" gorm:"type:uuid;index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	SortOrder  int       `json:"sort_order" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Subcategory) TableName() string {
	return "subcategories"
}

// NewSubcategory 创建新子分类
func NewSubcategory(categoryID, name string, sortOrder int) *Subcategory {
	return &Subcategory{CategoryID: categoryID, Name: name, SortOrder: sortOrder}
}

// TopicStatus 选题状态
type TopicStatus string

const (
	TopicStatusIdea      TopicStatus = "idea"
	TopicStatusQueued    TopicStatus = "queued"
	TopicStatusDrafted   TopicStatus = "drafted"
	TopicStatusPublished TopicStatus = "published"
)

// Topic 具体选题（文章生成的输入单元）
type Topic struct {
	ID            string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubcategoryID string      `json:"subcategory_id" gorm:"type:uuid;index;not null"`
	Title         string      `json:"title" gorm:"type:varchar(512);not null"`
	Notes         string      `json:"notes,omitempty" gorm:"type:text"`
	Status        TopicStatus `json:"status" gorm:"type:varchar(50);default:'idea'"`
	SortOrder     int         `json:"sort_order" gorm:"default:0"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Topic) TableName() string {
	return "topics"
}

// NewTopic 创建新选题
func NewTopic(subcategoryID, title, notes string, sortOrder int) *Topic {
	now := time.Now()
	return &Topic{
		SubcategoryID: subcategoryID,
		Title:         title,
		Notes:         notes,
		SortOrder:     sortOrder,
		Status:        TopicStatusIdea,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsDraftable 检查选题是否可以进入生成流程
func (t *Topic) IsDraftable() bool {
	return t.Status == TopicStatusIdea || t.Status == TopicStatusQueued
}
