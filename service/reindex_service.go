package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/types"
)

// ReindexService repairs and rebuilds the vector index from the metadata
// store. Because chunk IDs double as index object IDs, re-upserting an
// already indexed chunk overwrites it in place, so both operations are
// idempotent and safe to re-run after a partial failure.
type ReindexService struct {
	chunker  *ChunkerService
	embedder Embedder
	store    database.DocumentStore
	index    database.VectorIndex
	logger   *slog.Logger
}

func NewReindexService(chunker *ChunkerService, embedder Embedder, store database.DocumentStore, index database.VectorIndex, logger *slog.Logger) *ReindexService {
	return &ReindexService{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		index:    index,
		logger:   logger,
	}
}

// Reconcile sweeps documents stuck with ready=false, re-embeds their stored
// chunks, upserts the vectors and flips them to ready. It returns the
// number of documents repaired; a failure on one document does not stop the
// sweep.
func (s *ReindexService) Reconcile(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	docs, err := s.store.ListUnready(ctx, limit)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for i := range docs {
		doc := &docs[i]
		if err := s.reindexDocument(ctx, doc); err != nil {
			s.logger.Error("reconciliation failed for document",
				"document_id", doc.ID,
				"error", err,
			)
			continue
		}
		if err := s.store.MarkReady(ctx, doc.ID); err != nil {
			s.logger.Error("marking reconciled document ready failed",
				"document_id", doc.ID,
				"error", err,
			)
			continue
		}
		repaired++
	}

	if len(docs) > 0 {
		s.logger.Info("reconciliation sweep finished",
			"unready", len(docs),
			"repaired", repaired,
		)
	}
	return repaired, nil
}

// Rebuild drops the vector index and re-populates it from every document in
// the metadata store, for example after an embedding model upgrade. The
// metadata store is never touched beyond reads and ready flags.
func (s *ReindexService) Rebuild(ctx context.Context) (int, error) {
	ids, err := s.store.ListDocumentIDs(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.Reset(ctx); err != nil {
		return 0, fmt.Errorf("%w: resetting vector index: %v", types.ErrStoreWriteFailure, err)
	}

	rebuilt := 0
	for _, id := range ids {
		doc, err := s.store.GetDocument(ctx, id)
		if err != nil {
			s.logger.Error("rebuild: loading document failed", "document_id", id, "error", err)
			continue
		}
		if err := s.reindexDocument(ctx, doc); err != nil {
			s.logger.Error("rebuild: reindexing document failed", "document_id", id, "error", err)
			continue
		}
		if !doc.Ready {
			if err := s.store.MarkReady(ctx, doc.ID); err != nil {
				s.logger.Error("rebuild: marking document ready failed", "document_id", id, "error", err)
				continue
			}
		}
		rebuilt++
	}

	s.logger.Info("vector index rebuilt",
		"documents", len(ids),
		"rebuilt", rebuilt,
		"model", s.embedder.ModelVersion(),
	)
	return rebuilt, nil
}

func (s *ReindexService) reindexDocument(ctx context.Context, doc *types.Document) error {
	chunks, err := s.store.GetChunks(ctx, doc.ID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: document %s has no chunks", types.ErrNotFound, doc.ID)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrEmbeddingUnavailable, err)
	}

	entries := make([]database.ChunkEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = database.ChunkEntry{
			ChunkID:        chunk.ID,
			DocumentID:     doc.ID,
			Vector:         vectors[i],
			SourceType:     doc.SourceType,
			AuthorityLevel: doc.Epistemic.AuthorityLevel,
		}
	}
	return s.index.UpsertChunks(ctx, entries)
}
