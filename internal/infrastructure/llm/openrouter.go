// Package llm 提供各 LLM 供应商的适配器实现
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"blog-ops-api/internal/config"
	"blog-ops-api/pkg/logger"
)

// OpenRouterAdapter 通过 OpenAI 兼容的 Chat-Completions HTTP 接口调用 OpenRouter
//
// 第一层主力后端，同时承担共识流水线校验阶段的双候选调用。
type OpenRouterAdapter struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenRouterAdapter 创建 OpenRouter 适配器
func NewOpenRouterAdapter(cfg *config.OpenRouterConfig) *OpenRouterAdapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenRouterAdapter{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Backend 返回后端标识
func (a *OpenRouterAdapter) Backend() string {
	return BackendOpenRouter
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate 执行单次补全调用
func (a *OpenRouterAdapter) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := a.generate(ctx, req)
	observeCall(BackendOpenRouter, req.Model, start, err)
	return out, err
}

func (a *OpenRouterAdapter) generate(ctx context.Context, req Request) (string, error) {
	// 凭证缺失时直接判定，不发起请求
	if a.apiKey == "" {
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindMissingCredentials,
			Message: "api key not configured",
		}
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   req.MaxTokens,
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindProviderError,
			Message: "failed to encode request",
			Err:     err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", buf)
	if err != nil {
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindProviderError,
			Err:     err,
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindNetworkError,
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindRateLimited,
			Message: "rate limited",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindProviderError,
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, string(b)),
		}
	}

	var cr chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &ProviderError{
			Backend: BackendOpenRouter,
			Model:   req.Model,
			Kind:    KindProviderError,
			Message: "failed to decode response",
			Err:     err,
		}
	}

	// 空 choices 视为空输出，不算失败
	if len(cr.Choices) == 0 {
		logger.Warn(ctx, "openrouter returned empty choices", "model", req.Model)
		return "", nil
	}
	return cr.Choices[0].Message.Content, nil
}
