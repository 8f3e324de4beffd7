package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pustakalab/pustaka-be/types"
)

func entry(chunkID, docID string, vec []float32, st types.SourceType, al types.AuthorityLevel) ChunkEntry {
	return ChunkEntry{
		ChunkID:        chunkID,
		DocumentID:     docID,
		Vector:         vec,
		SourceType:     st,
		AuthorityLevel: al,
	}
}

func TestMemoryIndexSearchOrdersByScore(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.UpsertChunks(ctx, []ChunkEntry{
		entry("c1", "d1", []float32{1, 0}, types.SourceCommunity, types.AuthoritySituated),
		entry("c2", "d1", []float32{0, 1}, types.SourceCommunity, types.AuthoritySituated),
		entry("c3", "d2", []float32{0.9, 0.1}, types.SourceAcademic, types.AuthorityAcademic),
	}))

	matches, err := idx.Search(ctx, []float32{1, 0}, 2, types.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "c1", matches[0].ChunkID)
	assert.Equal(t, "c3", matches[1].ChunkID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestMemoryIndexFilters(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.UpsertChunks(ctx, []ChunkEntry{
		entry("c1", "d1", []float32{1, 0}, types.SourceCommunity, types.AuthoritySituated),
		entry("c2", "d2", []float32{1, 0}, types.SourceAcademic, types.AuthorityAcademic),
	}))

	matches, err := idx.Search(ctx, []float32{1, 0}, 10, types.SearchFilters{SourceType: types.SourceAcademic})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c2", matches[0].ChunkID)

	matches, err = idx.Search(ctx, []float32{1, 0}, 10, types.SearchFilters{AuthorityLevel: types.AuthoritySituated})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].ChunkID)

	matches, err = idx.Search(ctx, []float32{1, 0}, 10, types.SearchFilters{
		SourceType:     types.SourceAcademic,
		AuthorityLevel: types.AuthoritySituated,
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryIndexUpsertOverwrites(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.UpsertChunks(ctx, []ChunkEntry{
		entry("c1", "d1", []float32{1, 0}, types.SourceCommunity, types.AuthoritySituated),
	}))
	require.NoError(t, idx.UpsertChunks(ctx, []ChunkEntry{
		entry("c1", "d1", []float32{0, 1}, types.SourceCommunity, types.AuthoritySituated),
	}))

	assert.Equal(t, 1, idx.Len())
	matches, err := idx.Search(ctx, []float32{0, 1}, 1, types.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-6)
}

func TestMemoryIndexDeleteDocument(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.UpsertChunks(ctx, []ChunkEntry{
		entry("c1", "d1", []float32{1, 0}, types.SourceCommunity, types.AuthoritySituated),
		entry("c2", "d1", []float32{0, 1}, types.SourceCommunity, types.AuthoritySituated),
		entry("c3", "d2", []float32{1, 1}, types.SourceMedia, types.AuthorityMedia),
	}))

	require.NoError(t, idx.DeleteDocument(ctx, "d1"))
	assert.Equal(t, 1, idx.Len())

	require.NoError(t, idx.Reset(ctx))
	assert.Zero(t, idx.Len())
}
