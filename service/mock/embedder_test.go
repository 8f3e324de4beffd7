package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedderIsDeterministic(t *testing.T) {
	e := NewEmbedder(8)
	ctx := context.Background()

	first, err := e.Embed(ctx, []string{"same text"})
	require.NoError(t, err)
	second, err := e.Embed(ctx, []string{"same text"})
	require.NoError(t, err)
	assert.Equal(t, first[0], second[0])

	other, err := e.Embed(ctx, []string{"different text"})
	require.NoError(t, err)
	assert.NotEqual(t, first[0], other[0])
}

func TestEmbedderVectorsAreUnitNorm(t *testing.T) {
	e := NewEmbedder(16)
	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for _, vec := range vecs {
		require.Len(t, vec, 16)
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-4)
	}
}
