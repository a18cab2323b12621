// Package generation 实现多层回退编排器与共识生成流水线
package generation

import (
	"context"
	"time"

	"blog-ops-api/pkg/logger"
	"blog-ops-api/pkg/metrics"
)

// LinearInput 线性四阶段流水线输入
type LinearInput struct {
	Topic           string
	ResearchContext string
	AdditionalNotes string
}

// LinearResult 线性流水线各阶段产物
//
// 流水线永远跑完全部阶段。单个阶段降级时其产物是带 FailurePrefix
// 的文本，后续阶段照常消费，调用方用 IsFailure 识别。
type LinearResult struct {
	Research string
	Analysis string
	Outline  string
	Article  string
}

// Degraded 是否有阶段降级
func (r *LinearResult) Degraded() bool {
	return IsFailure(r.Research) || IsFailure(r.Analysis) ||
		IsFailure(r.Outline) || IsFailure(r.Article)
}

// LinearPipeline 研究 → 分析 → 大纲 → 成文 的顺序流水线
type LinearPipeline struct {
	orch *Orchestrator
}

// NewLinearPipeline 创建线性流水线
func NewLinearPipeline(orch *Orchestrator) *LinearPipeline {
	return &LinearPipeline{orch: orch}
}

// Run 顺序执行全部阶段，不会返回错误
func (p *LinearPipeline) Run(ctx context.Context, in LinearInput) *LinearResult {
	result := &LinearResult{}

	result.Research = p.stage(ctx, "research", RoleResearcher,
		buildResearcherPrompt(in.Topic, in.ResearchContext), researcherSystem)

	result.Analysis = p.stage(ctx, "analysis", RoleReasoner,
		buildReasonerPrompt(in.Topic, result.Research, in.AdditionalNotes), reasonerSystem)

	result.Outline = p.stage(ctx, "outline", RoleOutliner,
		buildOutlinerPrompt(in.Topic, result.Analysis), outlinerSystem)

	result.Article = p.stage(ctx, "write", RoleWriter,
		buildWriterPrompt(in.Topic, result.Outline, result.Analysis, result.Research, in.AdditionalNotes), writerSystem)

	status := "ok"
	if result.Degraded() {
		status = "degraded"
		logger.Warn(ctx, "linear pipeline completed with degraded stages", "topic", in.Topic)
	}
	metrics.PipelineRunsTotal.WithLabelValues("linear", status).Inc()

	return result
}

func (p *LinearPipeline) stage(ctx context.Context, name string, role AgentRole, prompt, system string) string {
	start := time.Now()
	out := p.orch.Generate(ctx, role, prompt, system)
	metrics.PipelineStageDuration.WithLabelValues("linear", name).Observe(time.Since(start).Seconds())
	return out
}
