// Package llm 提供各 LLM 供应商的适配器实现
//
// 适配器只负责单次调用：拼装请求、发送、把失败归类为统一的
// ProviderError，不做任何重试或降级，降级策略由上层编排器决定。
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-ops-api/pkg/metrics"
)

// 后端标识
const (
	BackendOpenRouter = "openrouter"
	BackendGroq       = "groq"
	BackendGemini     = "gemini"
)

// ErrorKind 供应商失败类别，编排器据此决定是否退避
type ErrorKind string

const (
	// KindMissingCredentials 凭证缺失，调用前即可判定
	KindMissingCredentials ErrorKind = "missing_credentials"
	// KindRateLimited 命中供应商限流（HTTP 429）
	KindRateLimited ErrorKind = "rate_limited"
	// KindProviderError 供应商返回了非 2xx 或不可解析的响应
	KindProviderError ErrorKind = "provider_error"
	// KindNetworkError 传输层失败（超时、连接拒绝等）
	KindNetworkError ErrorKind = "network_error"
)

// ProviderError 单次 LLM 调用的归类失败
type ProviderError struct {
	Backend string
	Model   string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s/%s %s: %s", e.Backend, e.Model, e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s/%s %s: %v", e.Backend, e.Model, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s/%s %s", e.Backend, e.Model, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError 提取 ProviderError，不是则返回 nil
func AsProviderError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// Request 单次生成请求
type Request struct {
	Model     string
	Prompt    string
	System    string
	MaxTokens int
}

// Adapter LLM 后端适配器
//
// 返回值约定：err == nil 时 string 为模型输出，允许为空串；
// err != nil 时必定是 *ProviderError。
type Adapter interface {
	Backend() string
	Generate(ctx context.Context, req Request) (string, error)
}

// observeCall 统一上报调用指标
func observeCall(backend, model string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		if pe := AsProviderError(err); pe != nil {
			status = string(pe.Kind)
		}
	}
	metrics.LLMCallTotal.WithLabelValues(backend, model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(backend, model).Observe(time.Since(start).Seconds())
}
