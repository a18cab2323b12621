package generation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-ops-api/internal/config"
	"blog-ops-api/internal/infrastructure/llm"
)

// stubAdapter 按后端记录调用并返回脚本化结果
type stubAdapter struct {
	backend string
	fn      func(req llm.Request) (string, error)

	mu    sync.Mutex
	calls []llm.Request
}

func (s *stubAdapter) Backend() string { return s.backend }

func (s *stubAdapter) Generate(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.fn == nil {
		return "", nil
	}
	return s.fn(req)
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type attemptRecord struct {
	role      AgentRole
	tier      string
	candidate Candidate
	failed    bool
}

// recordingObserver 记录每次层级尝试
type recordingObserver struct {
	attempts []attemptRecord
}

func (o *recordingObserver) ObserveTier(_ context.Context, role AgentRole, tier string, candidate Candidate, err error) {
	o.attempts = append(o.attempts, attemptRecord{
		role:      role,
		tier:      tier,
		candidate: candidate,
		failed:    err != nil,
	})
}

func rateLimited(backend, model string) error {
	return &llm.ProviderError{
		Backend: backend,
		Model:   model,
		Kind:    llm.KindRateLimited,
		Message: "rate limited",
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(map[string][]config.CandidateConfig{
		"researcher": {
			{Backend: "primary-be", Model: "primary-model"},
			{Backend: "alternate-be", Model: "alternate-model"},
		},
	})
	require.NoError(t, err)
	return reg
}

func newTestOrchestrator(t *testing.T, reg *Registry, adapters map[string]llm.Adapter, obs TierObserver) *Orchestrator {
	t.Helper()
	return NewOrchestrator(reg, adapters, Options{
		Bridge:   Candidate{Backend: "bridge-be", Model: "bridge-model"},
		Floor:    Candidate{Backend: "floor-be", Model: "floor-model"},
		Backoff:  0,
		Observer: obs,
	})
}

func TestGenerate_AllTiersRateLimited(t *testing.T) {
	failing := func(backend string) *stubAdapter {
		return &stubAdapter{backend: backend, fn: func(req llm.Request) (string, error) {
			return "", rateLimited(backend, req.Model)
		}}
	}
	adapters := map[string]llm.Adapter{
		"primary-be":   failing("primary-be"),
		"bridge-be":    failing("bridge-be"),
		"alternate-be": failing("alternate-be"),
		"floor-be":     failing("floor-be"),
	}
	obs := &recordingObserver{}
	orch := newTestOrchestrator(t, testRegistry(t), adapters, obs)

	out := orch.Generate(context.Background(), RoleResearcher, "prompt", "")

	// 恰好四层，顺序固定
	require.Len(t, obs.attempts, 4)
	assert.Equal(t, TierPrimary, obs.attempts[0].tier)
	assert.Equal(t, TierBridge, obs.attempts[1].tier)
	assert.Equal(t, TierAlternate, obs.attempts[2].tier)
	assert.Equal(t, TierFloor, obs.attempts[3].tier)

	assert.True(t, IsFailure(out))
	assert.Contains(t, out, "rate limited")
}

func TestGenerate_PrimaryShortCircuit(t *testing.T) {
	primary := &stubAdapter{backend: "primary-be", fn: func(llm.Request) (string, error) {
		return "primary output", nil
	}}
	bridge := &stubAdapter{backend: "bridge-be"}
	alternate := &stubAdapter{backend: "alternate-be"}
	floor := &stubAdapter{backend: "floor-be"}
	adapters := map[string]llm.Adapter{
		"primary-be": primary, "bridge-be": bridge,
		"alternate-be": alternate, "floor-be": floor,
	}
	orch := newTestOrchestrator(t, testRegistry(t), adapters, nil)

	out := orch.Generate(context.Background(), RoleResearcher, "prompt", "")

	assert.Equal(t, "primary output", out)
	assert.Equal(t, 1, primary.callCount())
	assert.Zero(t, bridge.callCount())
	assert.Zero(t, alternate.callCount())
	assert.Zero(t, floor.callCount())
}

func TestGenerate_BridgeAfterPrimaryFailure(t *testing.T) {
	primary := &stubAdapter{backend: "primary-be", fn: func(req llm.Request) (string, error) {
		return "", &llm.ProviderError{Backend: "primary-be", Model: req.Model, Kind: llm.KindProviderError, Message: "down"}
	}}
	bridge := &stubAdapter{backend: "bridge-be", fn: func(llm.Request) (string, error) {
		return "bridge output", nil
	}}
	alternate := &stubAdapter{backend: "alternate-be"}
	adapters := map[string]llm.Adapter{
		"primary-be": primary, "bridge-be": bridge, "alternate-be": alternate,
	}
	orch := newTestOrchestrator(t, testRegistry(t), adapters, nil)

	out := orch.Generate(context.Background(), RoleResearcher, "prompt", "")

	assert.Equal(t, "bridge output", out)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 1, bridge.callCount())
	assert.Zero(t, alternate.callCount())
}

func TestGenerate_EmptyOutputIsSuccess(t *testing.T) {
	primary := &stubAdapter{backend: "primary-be", fn: func(llm.Request) (string, error) {
		return "", nil
	}}
	bridge := &stubAdapter{backend: "bridge-be"}
	adapters := map[string]llm.Adapter{"primary-be": primary, "bridge-be": bridge}
	orch := newTestOrchestrator(t, testRegistry(t), adapters, nil)

	out := orch.Generate(context.Background(), RoleResearcher, "prompt", "")

	// 空输出是有效结果，不触发层级前进
	assert.Empty(t, out)
	assert.False(t, IsFailure(out))
	assert.Zero(t, bridge.callCount())
}

func TestGenerate_RoleWithoutAlternateSkipsTier(t *testing.T) {
	reg, err := NewRegistry(map[string][]config.CandidateConfig{
		"writer": {{Backend: "solo-be", Model: "solo-model"}},
	})
	require.NoError(t, err)

	failing := func(backend string) *stubAdapter {
		return &stubAdapter{backend: backend, fn: func(req llm.Request) (string, error) {
			return "", rateLimited(backend, req.Model)
		}}
	}
	adapters := map[string]llm.Adapter{
		"solo-be":   failing("solo-be"),
		"bridge-be": failing("bridge-be"),
		"floor-be":  failing("floor-be"),
	}
	obs := &recordingObserver{}
	orch := newTestOrchestrator(t, reg, adapters, obs)

	out := orch.Generate(context.Background(), RoleWriter, "prompt", "")

	require.Len(t, obs.attempts, 3)
	assert.Equal(t, TierPrimary, obs.attempts[0].tier)
	assert.Equal(t, TierBridge, obs.attempts[1].tier)
	assert.Equal(t, TierFloor, obs.attempts[2].tier)
	assert.True(t, IsFailure(out))
}

func TestGenerate_PassesSystemInstruction(t *testing.T) {
	primary := &stubAdapter{backend: "primary-be", fn: func(llm.Request) (string, error) {
		return "ok", nil
	}}
	adapters := map[string]llm.Adapter{"primary-be": primary}
	orch := newTestOrchestrator(t, testRegistry(t), adapters, nil)

	orch.Generate(context.Background(), RoleResearcher, "user prompt", "persona")

	require.Equal(t, 1, primary.callCount())
	assert.Equal(t, "user prompt", primary.calls[0].Prompt)
	assert.Equal(t, "persona", primary.calls[0].System)
	assert.Equal(t, "primary-model", primary.calls[0].Model)
}

func TestNewRegistry_RejectsEmptyCandidate(t *testing.T) {
	_, err := NewRegistry(map[string][]config.CandidateConfig{
		"writer": {{Backend: "", Model: "m"}},
	})
	assert.Error(t, err)
}

func TestNewRegistry_RejectsRoleWithoutCandidates(t *testing.T) {
	_, err := NewRegistry(map[string][]config.CandidateConfig{
		"writer": {},
	})
	assert.Error(t, err)
}

func TestNewRegistry_DefaultsCoverAllPipelineRoles(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)

	for _, role := range pipelineRoles {
		_, ok := reg.Primary(role)
		assert.True(t, ok, "role %s must have a primary candidate", role)
	}
}
