// Package search 提供多提供商搜索聚合实现
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"blog-ops-api/internal/config"
	"blog-ops-api/pkg/metrics"
)

// Result 单条搜索结果
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Provider 单个搜索提供商
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// httpProvider 基于 JSON HTTP 接口的搜索提供商
type httpProvider struct {
	name       string
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewHTTPProvider 创建 HTTP 搜索提供商
func NewHTTPProvider(name string, cfg config.SearchProviderConfig, timeout time.Duration) Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpProvider{
		name:     name,
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

type providerResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search 调用提供商并归一化结果
func (p *httpProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	start := time.Now()
	results, err := p.search(ctx, query, limit)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchProviderTotal.WithLabelValues(p.name, status).Inc()
	metrics.SearchProviderDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())

	return results, err
}

func (p *httpProvider) search(ctx context.Context, query string, limit int) ([]Result, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint for %s: %w", p.name, err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s returned status %d: %s", p.name, resp.StatusCode, string(b))
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("%s returned invalid json: %w", p.name, err)
	}

	results := make([]Result, 0, len(pr.Results))
	for _, r := range pr.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
			Source:  p.name,
		})
	}
	return results, nil
}
