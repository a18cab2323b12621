// Package dto 提供 HTTP 层数据传输对象
package dto

// ScrapedItem 外部采集的一条研究材料
type ScrapedItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
}

// GeneratePreferences 生成偏好
type GeneratePreferences struct {
	AdditionalNotes string `json:"additionalNotes"`
}

// GenerateArticleRequest 线性流水线生成请求
type GenerateArticleRequest struct {
	Topic       string               `json:"topic"`
	TopicID     string               `json:"topicId"`
	ScrapedData []ScrapedItem        `json:"scrapedData"`
	Preferences *GeneratePreferences `json:"preferences"`
	SaveDraft   bool                 `json:"saveDraft"`
}

// GenerateDebug 线性流水线中间阶段产物
type GenerateDebug struct {
	P1 string `json:"p1"`
	P2 string `json:"p2"`
	P3 string `json:"p3"`
}

// GenerateArticleResponse 线性流水线生成响应
type GenerateArticleResponse struct {
	Success bool          `json:"success"`
	Article string        `json:"article"`
	DraftID string        `json:"draftId,omitempty"`
	Debug   GenerateDebug `json:"debug"`
}

// ConsensusArticleRequest 共识流水线生成请求
type ConsensusArticleRequest struct {
	Topic       string        `json:"topic"`
	TopicID     string        `json:"topicId"`
	Research    string        `json:"research"`
	ScrapedData []ScrapedItem `json:"scrapedData"`
	SaveDraft   bool          `json:"saveDraft"`
}

// ConsensusData 共识流水线阶段产物
type ConsensusData struct {
	SEOOutline        string `json:"seoOutline"`
	VerificationNotes string `json:"verificationNotes"`
	FinalArticle      string `json:"finalArticle"`
	DraftID           string `json:"draftId,omitempty"`
}

// ConsensusArticleResponse 共识流水线生成响应
type ConsensusArticleResponse struct {
	Success bool           `json:"success"`
	Data    *ConsensusData `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// GenerateErrorResponse 生成接口的入参错误响应
type GenerateErrorResponse struct {
	Error string `json:"error"`
}
