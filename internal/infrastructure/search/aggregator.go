// Package search 提供多提供商搜索聚合实现
package search

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"blog-ops-api/internal/config"
	"blog-ops-api/pkg/logger"
)

// Aggregator 并发调用多个搜索提供商并合并结果
//
// 单个提供商失败只记日志，不影响其余提供商的结果。
type Aggregator struct {
	providers  []Provider
	weights    map[string]float64
	maxResults int
}

// NewAggregator 根据配置创建聚合器，只纳入启用的提供商
func NewAggregator(cfg *config.SearchConfig) *Aggregator {
	providers := make([]Provider, 0, len(cfg.Providers))
	weights := make(map[string]float64, len(cfg.Providers))

	for name, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		providers = append(providers, NewHTTPProvider(name, pc, cfg.Timeout))
		weight := pc.Weight
		if weight <= 0 {
			weight = 1.0
		}
		weights[name] = weight
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 12
	}

	return &Aggregator{
		providers:  providers,
		weights:    weights,
		maxResults: maxResults,
	}
}

// NewAggregatorWithProviders 用显式提供商列表创建聚合器
func NewAggregatorWithProviders(providers []Provider, weights map[string]float64, maxResults int) *Aggregator {
	if maxResults <= 0 {
		maxResults = 12
	}
	return &Aggregator{
		providers:  providers,
		weights:    weights,
		maxResults: maxResults,
	}
}

// Search 并发查询所有提供商，按 URL 去重后加权排序
func (a *Aggregator) Search(ctx context.Context, query string) ([]Result, error) {
	if len(a.providers) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	var all []Result

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range a.providers {
		p := p
		g.Go(func() error {
			results, err := p.Search(gctx, query, a.maxResults)
			if err != nil {
				// 单提供商失败不终止聚合
				logger.Warn(gctx, "search provider failed",
					"provider", p.Name(), "error", err)
				return nil
			}
			mu.Lock()
			all = append(all, results...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return a.merge(all), nil
}

// merge 按归一化 URL 去重，按提供商权重与排名打分
func (a *Aggregator) merge(results []Result) []Result {
	seen := make(map[string]int)
	merged := make([]Result, 0, len(results))
	rank := make(map[string]int)

	for _, r := range results {
		rank[r.Source]++
		score := a.weights[r.Source] / float64(rank[r.Source])

		key := normalizeURL(r.URL)
		if idx, ok := seen[key]; ok {
			// 多个提供商命中同一 URL，分数叠加
			merged[idx].Score += score
			continue
		}

		r.Score = score
		seen[key] = len(merged)
		merged = append(merged, r)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > a.maxResults {
		merged = merged[:a.maxResults]
	}
	return merged
}

// normalizeURL 归一化 URL 用于去重：小写主机、去掉尾斜杠和查询串
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimSuffix(strings.ToLower(raw), "/")
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(u.Path, "/")
	return host + path
}
