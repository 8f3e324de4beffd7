package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pustakalab/pustaka-be/types"
)

func TestReconcileWithNothingToDo(t *testing.T) {
	f := newIngestFixture(t)
	reindex := NewReindexService(f.chunker, f.embedder, f.store, f.index, testLogger())

	repaired, err := reindex.Reconcile(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	flaky := &flakyIndex{MemoryIndex: f.index, failUpserts: 1}
	svc := NewIngestService(f.chunker, f.embedder, f.store, flaky, testLogger(), IngestOptions{
		MinLength: 20, MaxAttempts: 1, BaseDelay: 1,
	})

	_, err := svc.Ingest(ctx, &types.IngestRequest{
		Title: "Stuck", Content: testContent, SourceType: types.SourceCommunity,
	})
	require.ErrorIs(t, err, types.ErrStoreWriteFailure)

	reindex := NewReindexService(f.chunker, f.embedder, f.store, flaky, testLogger())

	repaired, err := reindex.Reconcile(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	indexed := f.index.Len()
	assert.Positive(t, indexed)

	// Running the sweep again finds nothing and changes nothing; chunk IDs
	// double as index object IDs so even a re-upsert would not duplicate.
	repaired, err = reindex.Reconcile(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, repaired)
	assert.Equal(t, indexed, f.index.Len())
}

func TestRebuildRepopulatesIndex(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	_, err := f.service.Ingest(ctx, &types.IngestRequest{
		Title: "First", Content: testContent, SourceType: types.SourceCommunity,
	})
	require.NoError(t, err)
	_, err = f.service.Ingest(ctx, &types.IngestRequest{
		Title: "Second", Content: testContent + " Tambahan kalimat penutup untuk dokumen kedua.", SourceType: types.SourceAcademic,
	})
	require.NoError(t, err)

	before := f.index.Len()
	require.Positive(t, before)

	reindex := NewReindexService(f.chunker, f.embedder, f.store, f.index, testLogger())
	rebuilt, err := reindex.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilt)
	assert.Equal(t, before, f.index.Len())

	// Everything stays searchable after the rebuild.
	search := NewSearchService(f.embedder, f.index, f.store, testLogger())
	resp, err := search.Search(ctx, &types.SearchRequest{Query: "arsip komunitas", Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Results)
}

func TestStatsServiceCombinesStores(t *testing.T) {
	f := newCurationFixture(t)
	ctx := context.Background()

	sub := f.submit(t)
	_, err := f.curation.Approve(ctx, sub.ID, "curator-1", nil)
	require.NoError(t, err)
	f.submit(t)

	stats, err := NewStatsService(f.store, f.submissions).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Documents)
	assert.Equal(t, int64(1), stats.PendingSubmissions)
	assert.Positive(t, stats.Chunks)
	assert.Equal(t, int64(1), stats.BySourceType[string(types.SourceCommunity)])
	assert.Equal(t, int64(1), stats.ByAuthority[string(types.AuthoritySituated)])
}
