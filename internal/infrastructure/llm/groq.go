// Package llm 提供各 LLM 供应商的适配器实现
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"blog-ops-api/internal/config"
	"blog-ops-api/pkg/logger"
)

// GroqAdapter 通过官方 openai-go SDK 调用 Groq 的 OpenAI 兼容接口
//
// 第二层固定桥接后端：角色候选全部失败后的第一站。
type GroqAdapter struct {
	apiKey string
	opts   []option.RequestOption
}

// NewGroqAdapter 创建 Groq 适配器
func NewGroqAdapter(cfg *config.GroqConfig) *GroqAdapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &GroqAdapter{
		apiKey: cfg.APIKey,
		opts:   opts,
	}
}

// Backend 返回后端标识
func (a *GroqAdapter) Backend() string {
	return BackendGroq
}

// Generate 执行单次补全调用
func (a *GroqAdapter) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := a.generate(ctx, req)
	observeCall(BackendGroq, req.Model, start, err)
	return out, err
}

func (a *GroqAdapter) generate(ctx context.Context, req Request) (string, error) {
	if a.apiKey == "" {
		return "", &ProviderError{
			Backend: BackendGroq,
			Model:   req.Model,
			Kind:    KindMissingCredentials,
			Message: "api key not configured",
		}
	}

	client := openai.NewClient(a.opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", a.classify(req.Model, err)
	}

	if len(resp.Choices) == 0 {
		logger.Warn(ctx, "groq returned empty choices", "model", req.Model)
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify 把 SDK 错误归类为 ProviderError
func (a *GroqAdapter) classify(model string, err error) *ProviderError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return &ProviderError{
				Backend: BackendGroq,
				Model:   model,
				Kind:    KindRateLimited,
				Message: "rate limited",
				Err:     err,
			}
		}
		return &ProviderError{
			Backend: BackendGroq,
			Model:   model,
			Kind:    KindProviderError,
			Err:     err,
		}
	}
	return &ProviderError{
		Backend: BackendGroq,
		Model:   model,
		Kind:    KindNetworkError,
		Err:     err,
	}
}
