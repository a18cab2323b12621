// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"blog-ops-api/internal/infrastructure/persistence/redis"
	"blog-ops-api/internal/infrastructure/search"
	"blog-ops-api/internal/interfaces/http/dto"
	"blog-ops-api/pkg/errors"
	"blog-ops-api/pkg/logger"
)

// searchCacheTTL 搜索结果缓存时间
const searchCacheTTL = 15 * time.Minute

// SearchHandler 研究搜索处理器
type SearchHandler struct {
	aggregator *search.Aggregator
	cache      *redis.Cache
}

// NewSearchHandler 创建研究搜索处理器
func NewSearchHandler(aggregator *search.Aggregator, cache *redis.Cache) *SearchHandler {
	return &SearchHandler{
		aggregator: aggregator,
		cache:      cache,
	}
}

// Search 聚合多个搜索源做选题研究
// @Summary 研究搜索
// @Description 并发查询启用的搜索源并按权重合并去重
// @Tags Research
// @Accept json
// @Produce json
// @Router /v1/research/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	if h.cache != nil {
		key := redis.BuildSearchKey(req.Query)
		raw, err := h.cache.GetOrLoad(ctx, key, searchCacheTTL, func() (interface{}, error) {
			return h.aggregator.Search(ctx, req.Query)
		})
		if err != nil {
			dto.FromAppError(c, errors.Wrap(err, errors.CodeSearchFailed, "search failed"))
			return
		}

		var results []search.Result
		if err := json.Unmarshal(raw, &results); err != nil {
			// 缓存内容损坏时直接回源
			logger.Warn(ctx, "failed to decode cached search results", "query", req.Query, "error", err)
		} else {
			dto.Success(c, limitResults(results, req.Limit))
			return
		}
	}

	results, err := h.aggregator.Search(ctx, req.Query)
	if err != nil {
		dto.FromAppError(c, errors.Wrap(err, errors.CodeSearchFailed, "search failed"))
		return
	}
	dto.Success(c, limitResults(results, req.Limit))
}

func limitResults(results []search.Result, limit int) []search.Result {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
