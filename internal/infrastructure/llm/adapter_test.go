package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-ops-api/internal/config"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*OpenRouterAdapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter := NewOpenRouterAdapter(&config.OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	return adapter, srv
}

func TestOpenRouterGenerate_Success(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"generated text"}}]}`))
	})

	out, err := adapter.Generate(context.Background(), Request{
		Model:  "deepseek/deepseek-chat-v3-0324",
		Prompt: "write something",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", out)
}

func TestOpenRouterGenerate_EmptyChoicesIsNotError(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	out, err := adapter.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOpenRouterGenerate_RateLimited(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := adapter.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	require.Error(t, err)

	pe := AsProviderError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindRateLimited, pe.Kind)
	assert.Equal(t, BackendOpenRouter, pe.Backend)
	assert.Equal(t, "m", pe.Model)
}

func TestOpenRouterGenerate_ProviderError(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	})

	_, err := adapter.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	require.Error(t, err)

	pe := AsProviderError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindProviderError, pe.Kind)
	// 失败消息要带上响应体，便于排查
	assert.Contains(t, pe.Message, "upstream exploded")
	assert.Contains(t, pe.Message, "500")
}

func TestOpenRouterGenerate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	adapter := NewOpenRouterAdapter(&config.OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: time.Second,
	})

	_, err := adapter.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	require.Error(t, err)

	pe := AsProviderError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindNetworkError, pe.Kind)
}

func TestOpenRouterGenerate_MissingCredentials(t *testing.T) {
	var hits atomic.Int32
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	adapter.apiKey = ""

	_, err := adapter.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	require.Error(t, err)

	pe := AsProviderError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindMissingCredentials, pe.Kind)
	// 凭证缺失不应发起任何请求
	assert.Zero(t, hits.Load())
}

func TestOpenRouterGenerate_SendsSystemMessage(t *testing.T) {
	var gotBody string
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := adapter.Generate(context.Background(), Request{
		Model:  "m",
		Prompt: "user prompt",
		System: "system persona",
	})
	require.NoError(t, err)
	assert.Contains(t, gotBody, `"role":"system"`)
	assert.Contains(t, gotBody, "system persona")
	assert.Contains(t, gotBody, `"temperature":0.7`)
	assert.Contains(t, gotBody, `"top_p":0.9`)
}

func TestProviderError_Message(t *testing.T) {
	pe := &ProviderError{
		Backend: BackendGroq,
		Model:   "llama-3.3-70b-versatile",
		Kind:    KindRateLimited,
		Message: "rate limited",
	}
	assert.Contains(t, pe.Error(), "groq")
	assert.Contains(t, pe.Error(), "llama-3.3-70b-versatile")
	assert.Contains(t, pe.Error(), "rate_limited")
}
