// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/application/content"
	"blog-ops-api/internal/application/generation"
	"blog-ops-api/internal/domain/entity"
	"blog-ops-api/internal/interfaces/http/dto"
	"blog-ops-api/pkg/logger"
)

// GenerateHandler 文章生成处理器
type GenerateHandler struct {
	linear    *generation.LinearPipeline
	consensus *generation.ConsensusPipeline
	drafts    *content.DraftService
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(linear *generation.LinearPipeline, consensus *generation.ConsensusPipeline, drafts *content.DraftService) *GenerateHandler {
	return &GenerateHandler{
		linear:    linear,
		consensus: consensus,
		drafts:    drafts,
	}
}

// GenerateArticle 线性四阶段流水线生成文章
// @Summary 生成文章
// @Description 研究 → 分析 → 大纲 → 成文
// @Tags Generation
// @Accept json
// @Produce json
// @Router /v1/articles/generate [post]
func (h *GenerateHandler) GenerateArticle(c *gin.Context) {
	var req dto.GenerateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.GenerateErrorResponse{Error: "invalid request body"})
		return
	}

	// 主题缺失时直接 400，不发起任何后端调用
	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, dto.GenerateErrorResponse{Error: "topic is required"})
		return
	}

	ctx := logger.WithContext(c.Request.Context(), logger.PipelineKey, "linear")

	var notes string
	if req.Preferences != nil {
		notes = req.Preferences.AdditionalNotes
	}

	result := h.linear.Run(ctx, generation.LinearInput{
		Topic:           req.Topic,
		ResearchContext: buildResearchContext(req.ScrapedData),
		AdditionalNotes: notes,
	})

	resp := dto.GenerateArticleResponse{
		Success: true,
		Article: result.Article,
		Debug: dto.GenerateDebug{
			P1: result.Research,
			P2: result.Analysis,
			P3: result.Outline,
		},
	}

	if req.SaveDraft && h.drafts != nil {
		draft, err := h.drafts.Create(ctx, req.TopicID, req.Topic, result.Article, "linear", &entity.StageDebug{
			Research: result.Research,
			Analysis: result.Analysis,
			Outline:  result.Outline,
		})
		if err != nil {
			// 草稿保存失败不影响生成结果的返回
			logger.Warn(ctx, "failed to save generated draft", "topic", req.Topic, "error", err)
		} else {
			resp.DraftID = draft.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateConsensus 架构/校验/成文流水线生成文章
// @Summary 共识生成
// @Description 架构 → 事实校验 → 成文
// @Tags Generation
// @Accept json
// @Produce json
// @Router /v1/articles/consensus [post]
func (h *GenerateHandler) GenerateConsensus(c *gin.Context) {
	var req dto.ConsensusArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ConsensusArticleResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, dto.ConsensusArticleResponse{
			Success: false,
			Error:   "topic is required",
		})
		return
	}

	ctx := logger.WithContext(c.Request.Context(), logger.PipelineKey, "consensus")

	research := req.Research
	if research == "" {
		research = buildResearchContext(req.ScrapedData)
	}

	result, err := h.consensus.Run(ctx, generation.ConsensusInput{
		Topic:        req.Topic,
		ResearchText: research,
	})
	if err != nil {
		// 校验阶段双候选全部失败是唯一的流水线级错误
		c.JSON(http.StatusBadGateway, dto.ConsensusArticleResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	data := &dto.ConsensusData{
		SEOOutline:        result.SEOOutline,
		VerificationNotes: result.VerificationNotes,
		FinalArticle:      result.FinalArticle,
	}

	if req.SaveDraft && h.drafts != nil {
		draft, derr := h.drafts.Create(ctx, req.TopicID, req.Topic, result.FinalArticle, "consensus", &entity.StageDebug{
			Outline:           result.SEOOutline,
			VerificationNotes: result.VerificationNotes,
		})
		if derr != nil {
			logger.Warn(ctx, "failed to save generated draft", "topic", req.Topic, "error", derr)
		} else {
			data.DraftID = draft.ID
		}
	}

	c.JSON(http.StatusOK, dto.ConsensusArticleResponse{
		Success: true,
		Data:    data,
	})
}

// buildResearchContext 把采集材料拼接成研究上下文
func buildResearchContext(items []dto.ScrapedItem) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	for _, item := range items {
		if item.Title != "" {
			b.WriteString(item.Title)
			b.WriteString("\n")
		}
		body := item.Content
		if body == "" {
			body = item.Snippet
		}
		if body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
