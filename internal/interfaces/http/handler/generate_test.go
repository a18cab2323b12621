package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-ops-api/internal/application/generation"
	"blog-ops-api/internal/config"
	"blog-ops-api/internal/infrastructure/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAdapter 返回固定输出并记录调用次数
type stubAdapter struct {
	mu      sync.Mutex
	backend string
	output  string
	err     error
	calls   int
}

func (s *stubAdapter) Backend() string { return s.backend }

func (s *stubAdapter) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// failingVerifier 按模型返回脚本化结果
type failingVerifier struct {
	stubAdapter
	byModel map[string]error
}

func (f *failingVerifier) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.byModel[req.Model]; ok && err != nil {
		return "", err
	}
	return "VERIFIED NOTES", nil
}

type handlerFixture struct {
	handler  *GenerateHandler
	adapters map[string]*stubAdapter
	verifier *failingVerifier
}

func newFixture(t *testing.T, verifierErrs map[string]error) *handlerFixture {
	t.Helper()

	overrides := map[string][]config.CandidateConfig{}
	adapters := map[string]llm.Adapter{}
	stubs := map[string]*stubAdapter{}

	outputs := map[string]string{
		"researcher": "RESEARCH FINDINGS",
		"reasoner":   "ANALYSIS NOTES",
		"outliner":   "ARTICLE OUTLINE",
		"writer":     "FINAL ARTICLE BODY",
		"architect":  "SEO OUTLINE",
	}
	for role, out := range outputs {
		backend := "be-" + role
		overrides[role] = []config.CandidateConfig{{Backend: backend, Model: "model-" + role}}
		stub := &stubAdapter{backend: backend, output: out}
		stubs[backend] = stub
		adapters[backend] = stub
	}

	registry, err := generation.NewRegistry(overrides)
	require.NoError(t, err)

	orch := generation.NewOrchestrator(registry, adapters, generation.Options{
		Bridge: generation.Candidate{Backend: "bridge-be", Model: "bridge-model"},
		Floor:  generation.Candidate{Backend: "floor-be", Model: "floor-model"},
	})

	verifier := &failingVerifier{
		stubAdapter: stubAdapter{backend: "verifier-be"},
		byModel:     verifierErrs,
	}
	consensus := generation.NewConsensusPipeline(orch, verifier, "verify-primary", "verify-fallback", 4000)

	return &handlerFixture{
		handler:  NewGenerateHandler(generation.NewLinearPipeline(orch), consensus, nil),
		adapters: stubs,
		verifier: verifier,
	}
}

func (f *handlerFixture) totalCalls() int {
	total := f.verifier.callCount()
	for _, stub := range f.adapters {
		total += stub.callCount()
	}
	return total
}

func postJSON(t *testing.T, handlerFn gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	router := gin.New()
	router.POST(path, handlerFn)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateArticleMissingTopic(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f.handler.GenerateArticle, "/v1/articles/generate", map[string]any{
		"topic": "   ",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "topic is required", resp["error"])

	// 入参校验失败时不允许发起任何模型调用
	assert.Equal(t, 0, f.totalCalls())
}

func TestGenerateArticleSuccessShape(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f.handler.GenerateArticle, "/v1/articles/generate", map[string]any{
		"topic": "S19 Pro hashboard not detected",
		"scrapedData": []map[string]string{
			{"title": "Repair guide", "content": "Check PIC firmware and chip voltage rails."},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Article string `json:"article"`
		Debug   struct {
			P1 string `json:"p1"`
			P2 string `json:"p2"`
			P3 string `json:"p3"`
		} `json:"debug"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "FINAL ARTICLE BODY", resp.Article)
	assert.Equal(t, "RESEARCH FINDINGS", resp.Debug.P1)
	assert.Equal(t, "ANALYSIS NOTES", resp.Debug.P2)
	assert.Equal(t, "ARTICLE OUTLINE", resp.Debug.P3)

	// 四个阶段各调用一次各自的主候选
	for _, role := range []string{"researcher", "reasoner", "outliner", "writer"} {
		assert.Equal(t, 1, f.adapters["be-"+role].callCount(), "role %s", role)
	}
}

func TestGenerateConsensusSuccessShape(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f.handler.GenerateConsensus, "/v1/articles/consensus", map[string]any{
		"topic":    "Immersion cooling for S19 farms",
		"research": "Dielectric fluid vendors and thermal data.",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			SEOOutline        string `json:"seoOutline"`
			VerificationNotes string `json:"verificationNotes"`
			FinalArticle      string `json:"finalArticle"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "SEO OUTLINE", resp.Data.SEOOutline)
	assert.Equal(t, "VERIFIED NOTES", resp.Data.VerificationNotes)
	assert.Equal(t, "FINAL ARTICLE BODY", resp.Data.FinalArticle)
}

func TestGenerateConsensusVerifierExhausted(t *testing.T) {
	f := newFixture(t, map[string]error{
		"verify-primary": &llm.ProviderError{
			Backend: "verifier-be", Model: "verify-primary",
			Kind: llm.KindRateLimited, Message: "rate limited",
		},
		"verify-fallback": &llm.ProviderError{
			Backend: "verifier-be", Model: "verify-fallback",
			Kind: llm.KindProviderError, Message: "backend down",
		},
	})

	w := postJSON(t, f.handler.GenerateConsensus, "/v1/articles/consensus", map[string]any{
		"topic":    "Immersion cooling for S19 farms",
		"research": "Dielectric fluid vendors.",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "verification failed on both models")
	assert.Equal(t, 2, f.verifier.callCount())
}

func TestGenerateConsensusMissingTopic(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f.handler.GenerateConsensus, "/v1/articles/consensus", map[string]any{
		"research": "some research",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "topic is required", resp.Error)
	assert.Equal(t, 0, f.totalCalls())
}
