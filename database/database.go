package database

import (
	"context"

	"github.com/pustakalab/pustaka-be/types"
)

// ChunkEntry is the projection of a chunk held by the vector index: the
// embedding plus the minimal fields needed for index-level filtering. It is
// fully derivable from the metadata store plus the embedding gateway, so
// the index can always be rebuilt.
type ChunkEntry struct {
	ChunkID        string
	DocumentID     string
	Vector         []float32
	SourceType     types.SourceType
	AuthorityLevel types.AuthorityLevel
}

// ChunkMatch is a nearest-neighbour hit returned by the vector index.
type ChunkMatch struct {
	ChunkID string
	Score   float32
}

// VectorIndex stores chunk embeddings and supports filtered similarity
// search. Upserting an entry whose chunk ID already exists overwrites it,
// which makes reconciliation sweeps idempotent. The index is never the
// source of truth.
type VectorIndex interface {
	UpsertChunks(ctx context.Context, entries []ChunkEntry) error
	Search(ctx context.Context, vector []float32, limit int, filters types.SearchFilters) ([]ChunkMatch, error)
	DeleteDocument(ctx context.Context, documentID string) error
	// Reset drops and recreates the index, for full rebuilds.
	Reset(ctx context.Context) error
}

// DocumentStore owns Document and Chunk records. Documents are written with
// Ready=false and flipped by MarkReady only after the vector index write
// succeeded; unready documents are invisible to retrieval and picked up by
// the reconciliation sweep.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *types.Document, chunks []types.Chunk) error
	MarkReady(ctx context.Context, documentID string) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	GetChunk(ctx context.Context, id string) (*types.Chunk, error)
	GetChunks(ctx context.Context, documentID string) ([]types.Chunk, error)
	// ListUnready returns documents whose vector index entries may be
	// missing, oldest first.
	ListUnready(ctx context.Context, limit int) ([]types.Document, error)
	// ListDocumentIDs returns the IDs of all documents, for full rebuilds.
	ListDocumentIDs(ctx context.Context) ([]string, error)
	DeleteDocument(ctx context.Context, id string) error
	Stats(ctx context.Context) (*types.Stats, error)
}

// SubmissionStore owns Submission records and their one-shot lifecycle.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *types.Submission) error
	GetSubmission(ctx context.Context, id string) (*types.Submission, error)
	ListSubmissions(ctx context.Context, status types.SubmissionStatus, limit int) ([]types.Submission, error)
	// Decide atomically transitions a pending submission to the given
	// terminal status. It fails with types.ErrInvalidStateTransition when
	// the submission is no longer pending and types.ErrNotFound when it
	// does not exist; the conditional write is what serializes concurrent
	// curator decisions on the same submission.
	Decide(ctx context.Context, id string, status types.SubmissionStatus, curatorID, note, documentID string, decidedAt int64) error
	CountPending(ctx context.Context) (int64, error)
}
