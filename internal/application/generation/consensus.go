// Package generation 实现多层回退编排器与共识生成流水线
package generation

import (
	"context"
	"fmt"
	"time"

	"blog-ops-api/internal/infrastructure/llm"
	"blog-ops-api/pkg/logger"
	"blog-ops-api/pkg/metrics"
)

// ConsensusInput 架构/校验/成文流水线输入
type ConsensusInput struct {
	Topic        string
	ResearchText string
}

// ConsensusResult 共识流水线产物
type ConsensusResult struct {
	SEOOutline        string
	VerificationNotes string
	FinalArticle      string
}

// ConsensusPipeline 架构 → 校验 → 成文 流水线
//
// 校验阶段不经过角色注册表：直接用 Chat-Completions 后端依次尝试
// 主/备两个指定模型，两个都失败时整条流水线失败。这是唯一能让
// 流水线返回 error 的路径，架构与成文阶段走编排器永不抛错。
type ConsensusPipeline struct {
	orch            *Orchestrator
	verifierAdapter llm.Adapter
	primaryModel    string
	fallbackModel   string
	maxTokens       int
}

// NewConsensusPipeline 创建共识流水线
func NewConsensusPipeline(orch *Orchestrator, verifierAdapter llm.Adapter, primaryModel, fallbackModel string, maxTokens int) *ConsensusPipeline {
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	return &ConsensusPipeline{
		orch:            orch,
		verifierAdapter: verifierAdapter,
		primaryModel:    primaryModel,
		fallbackModel:   fallbackModel,
		maxTokens:       maxTokens,
	}
}

// Run 顺序执行全部阶段
//
// 返回 error 时所有阶段产物均为空串，调用方必须先检查 error。
func (p *ConsensusPipeline) Run(ctx context.Context, in ConsensusInput) (*ConsensusResult, error) {
	outline := p.stage(ctx, "architect", func() string {
		return p.orch.Generate(ctx, RoleArchitect,
			buildArchitectPrompt(in.Topic, in.ResearchText), architectSystem)
	})

	verificationNotes, err := p.verify(ctx, outline, in.ResearchText)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("consensus", "failed").Inc()
		logger.Error(ctx, "consensus pipeline failed at verification", err, "topic", in.Topic)
		return &ConsensusResult{}, err
	}

	article := p.stage(ctx, "write", func() string {
		return p.orch.Generate(ctx, RoleWriter,
			buildConsensusWriterPrompt(in.Topic, outline, verificationNotes, in.ResearchText), writerSystem)
	})

	metrics.PipelineRunsTotal.WithLabelValues("consensus", "ok").Inc()

	return &ConsensusResult{
		SEOOutline:        outline,
		VerificationNotes: verificationNotes,
		FinalArticle:      article,
	}, nil
}

// verify 校验阶段的独立双候选回退
func (p *ConsensusPipeline) verify(ctx context.Context, outline, researchText string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("consensus", "verify").Observe(time.Since(start).Seconds())
	}()

	prompt := buildVerifierPrompt(outline, researchText)

	out, primaryErr := p.verifierAdapter.Generate(ctx, llm.Request{
		Model:     p.primaryModel,
		Prompt:    prompt,
		System:    verifierSystem,
		MaxTokens: p.maxTokens,
	})
	if primaryErr == nil {
		return out, nil
	}
	logger.Warn(ctx, "verifier primary model failed",
		"model", p.primaryModel, "error", primaryErr)

	out, fallbackErr := p.verifierAdapter.Generate(ctx, llm.Request{
		Model:     p.fallbackModel,
		Prompt:    prompt,
		System:    verifierSystem,
		MaxTokens: p.maxTokens,
	})
	if fallbackErr == nil {
		return out, nil
	}

	// 错误消息要同时带上两次失败，便于排查
	return "", fmt.Errorf("verification failed on both models: primary %s: %v; fallback %s: %v",
		p.primaryModel, primaryErr, p.fallbackModel, fallbackErr)
}

func (p *ConsensusPipeline) stage(ctx context.Context, name string, fn func() string) string {
	start := time.Now()
	out := fn()
	metrics.PipelineStageDuration.WithLabelValues("consensus", name).Observe(time.Since(start).Seconds())
	return out
}
