// Package llm 提供各 LLM 供应商的适配器实现
package llm

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"google.golang.org/genai"

	"blog-ops-api/internal/config"
	"blog-ops-api/pkg/logger"
)

// GeminiAdapter 通过官方 genai SDK 调用 Gemini
//
// 第四层兜底后端。客户端惰性初始化，首次调用时创建。
type GeminiAdapter struct {
	apiKey string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiAdapter 创建 Gemini 适配器
func NewGeminiAdapter(cfg *config.GeminiConfig) *GeminiAdapter {
	return &GeminiAdapter{apiKey: cfg.APIKey}
}

// Backend 返回后端标识
func (a *GeminiAdapter) Backend() string {
	return BackendGemini
}

// Generate 执行单次生成调用
func (a *GeminiAdapter) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := a.generate(ctx, req)
	observeCall(BackendGemini, req.Model, start, err)
	return out, err
}

func (a *GeminiAdapter) generate(ctx context.Context, req Request) (string, error) {
	if a.apiKey == "" {
		return "", &ProviderError{
			Backend: BackendGemini,
			Model:   req.Model,
			Kind:    KindMissingCredentials,
			Message: "api key not configured",
		}
	}

	client, err := a.getClient(ctx)
	if err != nil {
		return "", &ProviderError{
			Backend: BackendGemini,
			Model:   req.Model,
			Kind:    KindProviderError,
			Message: "failed to init client",
			Err:     err,
		}
	}

	// Gemini 没有独立的 system 消息位，拼接到正文之前
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}

	var genCfg *genai.GenerateContentConfig
	if req.MaxTokens > 0 {
		genCfg = &genai.GenerateContentConfig{
			MaxOutputTokens: int32(req.MaxTokens),
		}
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", a.classify(req.Model, err)
	}

	text := resp.Text()
	if text == "" {
		logger.Warn(ctx, "gemini returned empty text", "model", req.Model)
	}
	return text, nil
}

// getClient 惰性初始化 genai 客户端
func (a *GeminiAdapter) getClient(ctx context.Context) (*genai.Client, error) {
	a.once.Do(func() {
		a.client, a.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  a.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return a.client, a.initErr
}

// classify 把 SDK 错误归类为 ProviderError
func (a *GeminiAdapter) classify(model string, err error) *ProviderError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return &ProviderError{
				Backend: BackendGemini,
				Model:   model,
				Kind:    KindRateLimited,
				Message: "rate limited",
				Err:     err,
			}
		}
		return &ProviderError{
			Backend: BackendGemini,
			Model:   model,
			Kind:    KindProviderError,
			Err:     err,
		}
	}
	return &ProviderError{
		Backend: BackendGemini,
		Model:   model,
		Kind:    KindNetworkError,
		Err:     err,
	}
}
