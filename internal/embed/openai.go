package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider calls an OpenAI-compatible embeddings endpoint. The base
// URL is configurable so a local inference server can stand in for the
// hosted API.
type OpenAIProvider struct {
	client *openai.Client
	model  string

	// Stats collects call latencies for the stats endpoint.
	Stats *Stats
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		Stats:  NewStats(time.Hour),
	}
}

// Model returns the configured embedding model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Embed returns one vector per input text, in input order. Rate-limit and
// server errors come back as RetryableError so the caller can back off.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	})
	p.Stats.Record(time.Since(start).Milliseconds())

	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
				return nil, &RetryableError{
					StatusCode: apiErr.HTTPStatusCode,
					Message:    apiErr.Message,
				}
			}
		}
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}
