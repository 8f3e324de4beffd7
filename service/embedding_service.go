package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pustakalab/pustaka-be/types"
)

// Embedder turns text into vectors. Implementations must be deterministic
// per model version: the same text and the same ModelVersion produce the
// same vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelVersion() string
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. Every
// request runs under a per-call timeout; timeouts and transport failures
// surface as ErrEmbeddingUnavailable so callers can distinguish a flaky
// provider from a bad request.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIEmbedder(baseURL, apiKey, model string, timeout time.Duration) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", types.ErrEmbeddingUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", types.ErrEmbeddingUnavailable, item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

// ModelVersion identifies the model that produced the vectors. Documents
// record it at ingestion time so a model upgrade can trigger a rebuild.
func (e *OpenAIEmbedder) ModelVersion() string {
	return e.model
}
