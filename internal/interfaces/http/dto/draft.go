// Package dto 提供 HTTP 层数据传输对象
package dto

// CreateDraftRequest 创建草稿请求
type CreateDraftRequest struct {
	TopicID      string `json:"topic_id" binding:"omitempty,uuid"`
	Title        string `json:"title" binding:"required,max=512"`
	MarkdownBody string `json:"markdown_body"`
}

// UpdateDraftRequest 更新草稿请求
type UpdateDraftRequest struct {
	Title        string `json:"title" binding:"omitempty,max=512"`
	MarkdownBody string `json:"markdown_body"`
	Status       string `json:"status" binding:"omitempty,oneof=draft reviewing published"`
}

// SearchRequest 研究搜索请求
type SearchRequest struct {
	Query string `json:"query" binding:"required,max=512"`
	Limit int    `json:"limit" binding:"omitempty,min=1,max=50"`
}
