// Package deploy 提供静态站点重建触发实现
package deploy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"blog-ops-api/internal/config"
	"blog-ops-api/pkg/errors"
	"blog-ops-api/pkg/metrics"
)

var tracer = otel.Tracer("deploy")

// WebhookTrigger 通过构建钩子触发静态站点重建
type WebhookTrigger struct {
	buildHookURL string
	httpClient   *http.Client
}

// NewWebhookTrigger 创建重建触发器
func NewWebhookTrigger(cfg *config.DeployConfig) *WebhookTrigger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookTrigger{
		buildHookURL: cfg.BuildHookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled 是否配置了构建钩子
func (w *WebhookTrigger) Enabled() bool {
	return w.buildHookURL != ""
}

// Trigger 触发一次重建
//
// 钩子未配置时静默跳过，调用方无需区分。
func (w *WebhookTrigger) Trigger(ctx context.Context) error {
	if !w.Enabled() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "deploy.Trigger")
	defer span.End()

	err := w.trigger(ctx)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
	}
	metrics.DeployTriggerTotal.WithLabelValues(status).Inc()
	return err
}

func (w *WebhookTrigger) trigger(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.buildHookURL, strings.NewReader("{}"))
	if err != nil {
		return errors.Wrap(err, errors.CodeDeployHookError, "failed to build deploy request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeDeployHookError, "deploy hook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.New(errors.CodeDeployHookError,
			fmt.Sprintf("deploy hook returned status %d: %s", resp.StatusCode, string(b)))
	}
	return nil
}
