package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name    string
	results []Result
	err     error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, _ string, _ int) ([]Result, error) {
	return s.results, s.err
}

func TestAggregator_MergesAndDeduplicates(t *testing.T) {
	a := NewAggregatorWithProviders([]Provider{
		&stubProvider{name: "alpha", results: []Result{
			{Title: "Shared", URL: "https://example.com/page/", Source: "alpha"},
			{Title: "Alpha only", URL: "https://alpha.dev/x", Source: "alpha"},
		}},
		&stubProvider{name: "beta", results: []Result{
			{Title: "Shared", URL: "https://www.example.com/page", Source: "beta"},
		}},
	}, map[string]float64{"alpha": 1.0, "beta": 1.0}, 10)

	results, err := a.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 同一 URL 跨提供商命中应去重且分数叠加，排到最前
	assert.Equal(t, "Shared", results[0].Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestAggregator_ProviderFailureDoesNotAbort(t *testing.T) {
	a := NewAggregatorWithProviders([]Provider{
		&stubProvider{name: "broken", err: errors.New("boom")},
		&stubProvider{name: "ok", results: []Result{
			{Title: "Result", URL: "https://ok.dev/1", Source: "ok"},
		}},
	}, map[string]float64{"broken": 1.0, "ok": 1.0}, 10)

	results, err := a.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Result", results[0].Title)
}

func TestAggregator_WeightOrdering(t *testing.T) {
	a := NewAggregatorWithProviders([]Provider{
		&stubProvider{name: "light", results: []Result{
			{Title: "L1", URL: "https://l.dev/1", Source: "light"},
		}},
		&stubProvider{name: "heavy", results: []Result{
			{Title: "H1", URL: "https://h.dev/1", Source: "heavy"},
		}},
	}, map[string]float64{"light": 0.5, "heavy": 2.0}, 10)

	results, err := a.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "H1", results[0].Title)
}

func TestAggregator_CapsResults(t *testing.T) {
	many := make([]Result, 20)
	for i := range many {
		many[i] = Result{
			Title:  "r",
			URL:    "https://site.dev/" + string(rune('a'+i)),
			Source: "solo",
		}
	}
	a := NewAggregatorWithProviders([]Provider{
		&stubProvider{name: "solo", results: many},
	}, map[string]float64{"solo": 1.0}, 5)

	results, err := a.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestAggregator_NoProviders(t *testing.T) {
	a := NewAggregatorWithProviders(nil, nil, 10)

	results, err := a.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, normalizeURL("https://www.Example.com/Page/"), normalizeURL("http://example.com/Page"))
	assert.NotEqual(t, normalizeURL("https://example.com/a"), normalizeURL("https://example.com/b"))
}
