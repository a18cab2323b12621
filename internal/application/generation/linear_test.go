package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-ops-api/internal/config"
	"blog-ops-api/internal/infrastructure/llm"
)

// stageRegistry 每个角色一个独立后端，便于按阶段脚本化
func stageRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(map[string][]config.CandidateConfig{
		"researcher": {{Backend: "be-researcher", Model: "m"}},
		"reasoner":   {{Backend: "be-reasoner", Model: "m"}},
		"outliner":   {{Backend: "be-outliner", Model: "m"}},
		"writer":     {{Backend: "be-writer", Model: "m"}},
		"architect":  {{Backend: "be-architect", Model: "m"}},
	})
	require.NoError(t, err)
	return reg
}

func fixedOutput(backend, output string) *stubAdapter {
	return &stubAdapter{backend: backend, fn: func(llm.Request) (string, error) {
		return output, nil
	}}
}

func TestLinearPipeline_StageChaining(t *testing.T) {
	researcher := fixedOutput("be-researcher", "FACTS")
	reasoner := fixedOutput("be-reasoner", "ANALYSIS")
	outliner := fixedOutput("be-outliner", "OUTLINE")
	writer := fixedOutput("be-writer", "ARTICLE")

	adapters := map[string]llm.Adapter{
		"be-researcher": researcher,
		"be-reasoner":   reasoner,
		"be-outliner":   outliner,
		"be-writer":     writer,
	}
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)
	pipeline := NewLinearPipeline(orch)

	result := pipeline.Run(context.Background(), LinearInput{
		Topic:           "S19 Pro hashboard not detected",
		AdditionalNotes: "keep it practical",
	})

	assert.Equal(t, "FACTS", result.Research)
	assert.Equal(t, "ANALYSIS", result.Analysis)
	assert.Equal(t, "OUTLINE", result.Outline)
	assert.Equal(t, "ARTICLE", result.Article)
	assert.False(t, result.Degraded())

	// 阶段产物原样进入下一阶段的提示词
	require.Equal(t, 1, reasoner.callCount())
	assert.Contains(t, reasoner.calls[0].Prompt, "FACTS")
	assert.Contains(t, reasoner.calls[0].Prompt, "keep it practical")

	require.Equal(t, 1, outliner.callCount())
	assert.Contains(t, outliner.calls[0].Prompt, "ANALYSIS")

	require.Equal(t, 1, writer.callCount())
	assert.Contains(t, writer.calls[0].Prompt, "OUTLINE")
	assert.Contains(t, writer.calls[0].Prompt, "ANALYSIS")
	assert.Contains(t, writer.calls[0].Prompt, "FACTS")
}

func TestLinearPipeline_Deterministic(t *testing.T) {
	adapters := map[string]llm.Adapter{
		"be-researcher": fixedOutput("be-researcher", "FACTS"),
		"be-reasoner":   fixedOutput("be-reasoner", "ANALYSIS"),
		"be-outliner":   fixedOutput("be-outliner", "OUTLINE"),
		"be-writer":     fixedOutput("be-writer", "ARTICLE"),
	}
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)
	pipeline := NewLinearPipeline(orch)

	in := LinearInput{Topic: "same topic", ResearchContext: "same context"}
	first := pipeline.Run(context.Background(), in)
	second := pipeline.Run(context.Background(), in)

	assert.Equal(t, first, second)
}

func TestLinearPipeline_DegradedStageDoesNotAbort(t *testing.T) {
	// researcher 主候选、桥接、兜底全部失败，后续阶段照常执行
	failing := &stubAdapter{backend: "be-researcher", fn: func(req llm.Request) (string, error) {
		return "", rateLimited("be-researcher", req.Model)
	}}
	adapters := map[string]llm.Adapter{
		"be-researcher": failing,
		"be-reasoner":   fixedOutput("be-reasoner", "ANALYSIS"),
		"be-outliner":   fixedOutput("be-outliner", "OUTLINE"),
		"be-writer":     fixedOutput("be-writer", "ARTICLE"),
	}
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)
	pipeline := NewLinearPipeline(orch)

	result := pipeline.Run(context.Background(), LinearInput{Topic: "topic"})

	assert.True(t, IsFailure(result.Research))
	assert.True(t, result.Degraded())
	assert.Equal(t, "ANALYSIS", result.Analysis)
	assert.Equal(t, "ARTICLE", result.Article)
}

func TestLinearPipeline_TruncatesExternalResearchContext(t *testing.T) {
	researcher := fixedOutput("be-researcher", "FACTS")
	adapters := map[string]llm.Adapter{
		"be-researcher": researcher,
		"be-reasoner":   fixedOutput("be-reasoner", "ANALYSIS"),
		"be-outliner":   fixedOutput("be-outliner", "OUTLINE"),
		"be-writer":     fixedOutput("be-writer", "ARTICLE"),
	}
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)
	pipeline := NewLinearPipeline(orch)

	huge := strings.Repeat("x", maxResearchContextChars*2)
	pipeline.Run(context.Background(), LinearInput{Topic: "topic", ResearchContext: huge})

	require.Equal(t, 1, researcher.callCount())
	assert.Less(t, len(researcher.calls[0].Prompt), maxResearchContextChars+1024)
}

func TestTruncateResearch(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, truncateResearch(short))

	long := strings.Repeat("a", maxResearchContextChars+100)
	assert.Len(t, truncateResearch(long), maxResearchContextChars)
}
