package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-ops-api/internal/infrastructure/llm"
)

// scriptedVerifier 按模型返回脚本化结果
type scriptedVerifier struct {
	stubAdapter
	byModel map[string]struct {
		out string
		err error
	}
}

func (s *scriptedVerifier) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	r, ok := s.byModel[req.Model]
	if !ok {
		return "", errors.New("unexpected model " + req.Model)
	}
	return r.out, r.err
}

func consensusAdapters(t *testing.T) (map[string]llm.Adapter, *stubAdapter) {
	t.Helper()
	writer := fixedOutput("be-writer", "FINAL ARTICLE")
	return map[string]llm.Adapter{
		"be-architect": fixedOutput("be-architect", "SEO OUTLINE"),
		"be-writer":    writer,
	}, writer
}

func TestConsensusPipeline_VerifierFallbackSucceeds(t *testing.T) {
	adapters, writer := consensusAdapters(t)
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)

	verifier := &scriptedVerifier{byModel: map[string]struct {
		out string
		err error
	}{
		"verifier-primary": {err: &llm.ProviderError{
			Backend: llm.BackendOpenRouter, Model: "verifier-primary",
			Kind: llm.KindProviderError, Message: "down",
		}},
		"verifier-fallback": {out: "VERIFIED NOTES"},
	}}

	pipeline := NewConsensusPipeline(orch, verifier, "verifier-primary", "verifier-fallback", 0)
	result, err := pipeline.Run(context.Background(), ConsensusInput{
		Topic:        "topic",
		ResearchText: "research",
	})

	require.NoError(t, err)
	assert.Equal(t, "SEO OUTLINE", result.SEOOutline)
	assert.Equal(t, "VERIFIED NOTES", result.VerificationNotes)
	assert.Equal(t, "FINAL ARTICLE", result.FinalArticle)

	// 校验产物必须进入成文阶段的提示词
	require.Equal(t, 1, writer.callCount())
	assert.Contains(t, writer.calls[0].Prompt, "VERIFIED NOTES")
	assert.Contains(t, writer.calls[0].Prompt, "SEO OUTLINE")

	// 主备各尝试一次
	assert.Equal(t, 2, verifier.callCount())
}

func TestConsensusPipeline_BothVerifierModelsFail(t *testing.T) {
	adapters, writer := consensusAdapters(t)
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)

	verifier := &scriptedVerifier{byModel: map[string]struct {
		out string
		err error
	}{
		"verifier-primary": {err: &llm.ProviderError{
			Backend: llm.BackendOpenRouter, Model: "verifier-primary",
			Kind: llm.KindRateLimited, Message: "primary rate limited",
		}},
		"verifier-fallback": {err: &llm.ProviderError{
			Backend: llm.BackendOpenRouter, Model: "verifier-fallback",
			Kind: llm.KindProviderError, Message: "fallback down",
		}},
	}}

	pipeline := NewConsensusPipeline(orch, verifier, "verifier-primary", "verifier-fallback", 0)
	result, err := pipeline.Run(context.Background(), ConsensusInput{
		Topic:        "topic",
		ResearchText: "research",
	})

	require.Error(t, err)
	// 错误消息同时包含两次失败
	assert.Contains(t, err.Error(), "primary rate limited")
	assert.Contains(t, err.Error(), "fallback down")

	// 失败时所有阶段产物为空串
	assert.Empty(t, result.SEOOutline)
	assert.Empty(t, result.VerificationNotes)
	assert.Empty(t, result.FinalArticle)

	// 成文阶段不执行
	assert.Zero(t, writer.callCount())
}

func TestConsensusPipeline_VerifierPrimarySucceeds(t *testing.T) {
	adapters, _ := consensusAdapters(t)
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)

	verifier := &scriptedVerifier{byModel: map[string]struct {
		out string
		err error
	}{
		"verifier-primary": {out: "PRIMARY NOTES"},
	}}

	pipeline := NewConsensusPipeline(orch, verifier, "verifier-primary", "verifier-fallback", 0)
	result, err := pipeline.Run(context.Background(), ConsensusInput{
		Topic:        "topic",
		ResearchText: "research",
	})

	require.NoError(t, err)
	assert.Equal(t, "PRIMARY NOTES", result.VerificationNotes)
	// 主模型成功时不再尝试备选
	assert.Equal(t, 1, verifier.callCount())
}

func TestConsensusPipeline_ArchitectOutlineReachesVerifier(t *testing.T) {
	adapters, _ := consensusAdapters(t)
	orch := newTestOrchestrator(t, stageRegistry(t), adapters, nil)

	verifier := &scriptedVerifier{byModel: map[string]struct {
		out string
		err error
	}{
		"verifier-primary": {out: "NOTES"},
	}}

	pipeline := NewConsensusPipeline(orch, verifier, "verifier-primary", "verifier-fallback", 0)
	_, err := pipeline.Run(context.Background(), ConsensusInput{
		Topic:        "topic",
		ResearchText: "the research body",
	})

	require.NoError(t, err)
	require.Equal(t, 1, verifier.callCount())
	assert.Contains(t, verifier.calls[0].Prompt, "SEO OUTLINE")
	assert.Contains(t, verifier.calls[0].Prompt, "the research body")
}
