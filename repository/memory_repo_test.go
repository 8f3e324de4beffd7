package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pustakalab/pustaka-be/types"
)

func pendingSubmission(id string, createdAt int64) *types.Submission {
	return &types.Submission{
		ID:          id,
		Title:       "title",
		Content:     "content long enough to matter",
		SourceType:  types.SourceCommunity,
		Status:      types.StatusPending,
		SubmittedBy: "contributor",
		CreatedAt:   createdAt,
	}
}

func TestMemorySubmissionStoreDecideExactlyOnce(t *testing.T) {
	store := NewMemorySubmissionStore()
	ctx := context.Background()
	require.NoError(t, store.CreateSubmission(ctx, pendingSubmission("s1", 1)))

	err := store.Decide(ctx, "s1", types.StatusApproved, "curator", "ok", "doc-1", 100)
	require.NoError(t, err)

	err = store.Decide(ctx, "s1", types.StatusRejected, "curator-2", "", "", 101)
	assert.ErrorIs(t, err, types.ErrInvalidStateTransition)

	sub, err := store.GetSubmission(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, sub.Status)
	assert.Equal(t, "curator", sub.CuratorID)
	assert.Equal(t, "doc-1", sub.DocumentID)
	assert.Equal(t, int64(100), sub.DecidedAt)
}

func TestMemorySubmissionStoreDecideUnknown(t *testing.T) {
	store := NewMemorySubmissionStore()
	err := store.Decide(context.Background(), "nope", types.StatusApproved, "c", "", "", 1)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMemorySubmissionStoreListAndCount(t *testing.T) {
	store := NewMemorySubmissionStore()
	ctx := context.Background()
	require.NoError(t, store.CreateSubmission(ctx, pendingSubmission("s1", 1)))
	require.NoError(t, store.CreateSubmission(ctx, pendingSubmission("s2", 2)))
	require.NoError(t, store.CreateSubmission(ctx, pendingSubmission("s3", 3)))
	require.NoError(t, store.Decide(ctx, "s2", types.StatusRejected, "c", "", "", 10))

	pending, err := store.ListSubmissions(ctx, types.StatusPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Newest first.
	assert.Equal(t, "s3", pending[0].ID)
	assert.Equal(t, "s1", pending[1].ID)

	limited, err := store.ListSubmissions(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryDocumentStoreReadyLifecycle(t *testing.T) {
	store := NewMemoryDocumentStore()
	ctx := context.Background()

	doc := &types.Document{
		ID:         "d1",
		Title:      "doc",
		SourceType: types.SourceAcademic,
		Epistemic: types.EpistemicMetadata{
			AuthorityLevel:  types.AuthorityAcademic,
			EpistemicOrigin: types.OriginAcademicResearch,
		},
		CreatedAt: 1,
	}
	chunks := []types.Chunk{
		{ID: "c1", DocumentID: "d1", Index: 0, Text: "first"},
		{ID: "c2", DocumentID: "d1", Index: 1, Text: "second"},
	}
	require.NoError(t, store.CreateDocument(ctx, doc, chunks))

	unready, err := store.ListUnready(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unready, 1)

	require.NoError(t, store.MarkReady(ctx, "d1"))
	unready, err = store.ListUnready(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unready)

	got, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)

	assert.ErrorIs(t, store.MarkReady(ctx, "missing"), types.ErrNotFound)
	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMemoryDocumentStoreStats(t *testing.T) {
	store := NewMemoryDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &types.Document{
		ID: "d1", SourceType: types.SourceCommunity,
		Epistemic: types.EpistemicMetadata{AuthorityLevel: types.AuthoritySituated},
	}, []types.Chunk{{ID: "c1", DocumentID: "d1"}}))
	require.NoError(t, store.CreateDocument(ctx, &types.Document{
		ID: "d2", SourceType: types.SourceCommunity,
		Epistemic: types.EpistemicMetadata{AuthorityLevel: types.AuthoritySituated},
	}, []types.Chunk{{ID: "c2", DocumentID: "d2"}, {ID: "c3", DocumentID: "d2"}}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Documents)
	assert.Equal(t, int64(3), stats.Chunks)
	assert.Equal(t, int64(2), stats.BySourceType[string(types.SourceCommunity)])
	assert.Equal(t, int64(2), stats.ByAuthority[string(types.AuthoritySituated)])

	require.NoError(t, store.DeleteDocument(ctx, "d2"))
	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Documents)
	assert.Equal(t, int64(1), stats.Chunks)
}
