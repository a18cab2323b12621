// Package generation 实现多层回退编排器与共识生成流水线
package generation

import (
	"context"
	"strings"
	"time"

	"blog-ops-api/internal/infrastructure/llm"
	"blog-ops-api/pkg/logger"
	"blog-ops-api/pkg/metrics"
)

// FailurePrefix 四层全部耗尽后返回文本的前缀
//
// Generate 从不返回 error，调用方在把输出当内容使用前必须先检查
// IsFailure。
const FailurePrefix = "SYSTEM_ERROR: "

// IsFailure 判断编排器输出是否为终态失败文本
func IsFailure(text string) bool {
	return strings.HasPrefix(text, FailurePrefix)
}

// 层级名称，固定顺序
const (
	TierPrimary   = "primary"
	TierBridge    = "bridge"
	TierAlternate = "alternate"
	TierFloor     = "floor"
)

// TierObserver 每次层级尝试回调一次，测试据此断言遍历顺序
type TierObserver interface {
	ObserveTier(ctx context.Context, role AgentRole, tier string, candidate Candidate, err error)
}

// Options 编排器构造参数
type Options struct {
	// Bridge 第二层固定桥接候选
	Bridge Candidate
	// Floor 第四层兜底候选
	Floor Candidate
	// Backoff 命中限流后前进到下一层之前的等待
	Backoff time.Duration
	// MaxTokens 常规角色的 token 上限
	MaxTokens int
	// LightMaxTokens 轻量角色的 token 上限
	LightMaxTokens int
	// Observer 可选的层级尝试回调
	Observer TierObserver
}

// Orchestrator 四层回退编排器
//
// 层级顺序固定：角色主候选 → 桥接 → 角色备选 → 兜底。任一层失败
// 即前进到下一层；限流失败额外触发一次固定退避。四层全部失败时
// 返回带 FailurePrefix 的文本，永不抛错。
type Orchestrator struct {
	registry *Registry
	adapters map[string]llm.Adapter
	opts     Options
}

// NewOrchestrator 创建编排器，adapters 以后端标识为键
func NewOrchestrator(registry *Registry, adapters map[string]llm.Adapter, opts Options) *Orchestrator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4000
	}
	if opts.LightMaxTokens <= 0 {
		opts.LightMaxTokens = 1500
	}
	return &Orchestrator{
		registry: registry,
		adapters: adapters,
		opts:     opts,
	}
}

type tierAttempt struct {
	name      string
	candidate Candidate
}

// Generate 为指定角色生成文本
//
// 返回值要么是模型输出（可能为空串），要么是带 FailurePrefix 的
// 终态失败文本，嵌入最后一层的错误消息。
func (o *Orchestrator) Generate(ctx context.Context, role AgentRole, prompt, system string) string {
	tiers := o.tiersFor(role)
	maxTokens := o.maxTokensFor(role)

	var lastErr error
	for _, tier := range tiers {
		out, err := o.attempt(ctx, role, tier, prompt, system, maxTokens)
		if err == nil {
			return out
		}
		lastErr = err

		// 限流时先退避再前进，其余失败类别直接前进
		if pe := llm.AsProviderError(err); pe != nil && pe.Kind == llm.KindRateLimited && o.opts.Backoff > 0 {
			select {
			case <-time.After(o.opts.Backoff):
			case <-ctx.Done():
			}
		}
	}

	metrics.LLMExhaustedTotal.WithLabelValues(string(role)).Inc()
	logger.Error(ctx, "all fallback tiers exhausted", lastErr, "role", role)

	if lastErr == nil {
		return FailurePrefix + "no tiers available for role " + string(role)
	}
	return FailurePrefix + lastErr.Error()
}

// tiersFor 组装角色的固定层级序列
func (o *Orchestrator) tiersFor(role AgentRole) []tierAttempt {
	tiers := make([]tierAttempt, 0, 4)

	if primary, ok := o.registry.Primary(role); ok {
		tiers = append(tiers, tierAttempt{name: TierPrimary, candidate: primary})
	}
	tiers = append(tiers, tierAttempt{name: TierBridge, candidate: o.opts.Bridge})
	if alternate, ok := o.registry.Alternate(role); ok {
		tiers = append(tiers, tierAttempt{name: TierAlternate, candidate: alternate})
	}
	tiers = append(tiers, tierAttempt{name: TierFloor, candidate: o.opts.Floor})

	return tiers
}

// maxTokensFor 轻量角色使用较小的 token 上限
func (o *Orchestrator) maxTokensFor(role AgentRole) int {
	if role == RoleOutliner || role == RoleArchitect {
		return o.opts.LightMaxTokens
	}
	return o.opts.MaxTokens
}

// attempt 执行单层尝试并上报观测信息
func (o *Orchestrator) attempt(ctx context.Context, role AgentRole, tier tierAttempt, prompt, system string, maxTokens int) (string, error) {
	adapter, ok := o.adapters[tier.candidate.Backend]
	var (
		out string
		err error
	)
	if !ok {
		err = &llm.ProviderError{
			Backend: tier.candidate.Backend,
			Model:   tier.candidate.Model,
			Kind:    llm.KindProviderError,
			Message: "no adapter registered for backend",
		}
	} else {
		out, err = adapter.Generate(ctx, llm.Request{
			Model:     tier.candidate.Model,
			Prompt:    prompt,
			System:    system,
			MaxTokens: maxTokens,
		})
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if pe := llm.AsProviderError(err); pe != nil {
			outcome = string(pe.Kind)
		}
		logger.Warn(ctx, "tier attempt failed",
			"role", role, "tier", tier.name,
			"backend", tier.candidate.Backend, "model", tier.candidate.Model,
			"error", err)
	} else {
		logger.Info(ctx, "tier attempt succeeded",
			"role", role, "tier", tier.name,
			"backend", tier.candidate.Backend, "model", tier.candidate.Model)
	}

	metrics.LLMTierAttempts.WithLabelValues(
		string(role), tier.name, tier.candidate.Backend, outcome).Inc()

	if o.opts.Observer != nil {
		o.opts.Observer.ObserveTier(ctx, role, tier.name, tier.candidate, err)
	}
	return out, err
}
