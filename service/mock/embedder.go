package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder produces deterministic vectors from an FNV hash of the input
// text. Identical text always yields an identical vector, which makes
// search results reproducible in tests without a live embedding provider.
type Embedder struct {
	Dimensions int
	Calls      int
	FailUntil  int
	FailErr    error
}

func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = 8
	}
	return &Embedder{Dimensions: dimensions}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.Calls++
	if e.Calls <= e.FailUntil && e.FailErr != nil {
		return nil, e.FailErr
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.vector(text)
	}
	return vectors, nil
}

func (e *Embedder) ModelVersion() string {
	return "mock-fnv-v1"
}

func (e *Embedder) vector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.Dimensions)
	var norm float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := float32(int64(seed>>11))/float32(1<<52) - 1
		vec[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}
