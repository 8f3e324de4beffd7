package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/types"
)

// IngestService turns approved submissions into retrievable documents. The
// metadata store is the source of truth: the document and its chunks are
// written there first with ready=false, then the chunk vectors go to the
// vector index, and only after the index write succeeds is the document
// flipped to ready. A document that never reaches ready is invisible to
// search and gets picked up by the reconciliation sweep.
type IngestService struct {
	chunker     *ChunkerService
	embedder    Embedder
	store       database.DocumentStore
	index       database.VectorIndex
	logger      *slog.Logger
	minLength   int
	maxAttempts int
	baseDelay   time.Duration
}

type IngestOptions struct {
	MinLength   int
	MaxAttempts int
	BaseDelay   time.Duration
}

func NewIngestService(
	chunker *ChunkerService,
	embedder Embedder,
	store database.DocumentStore,
	index database.VectorIndex,
	logger *slog.Logger,
	opts IngestOptions,
) *IngestService {
	if opts.MinLength <= 0 {
		opts.MinLength = 20
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	return &IngestService{
		chunker:     chunker,
		embedder:    embedder,
		store:       store,
		index:       index,
		logger:      logger,
		minLength:   opts.MinLength,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
	}
}

// Ingest validates, chunks, embeds and stores one document. All validation
// happens before any write; on a vector index failure the document stays in
// the metadata store with ready=false.
func (s *IngestService) Ingest(ctx context.Context, req *types.IngestRequest) (*types.Document, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	epistemic, err := DeriveEpistemic(req.SourceType)
	if err != nil {
		return nil, err
	}

	pieces, err := s.chunker.Chunk(req.Content)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		texts[i] = piece.Text
	}
	vectors, err := s.embedWithRetry(ctx, texts)
	if err != nil {
		return nil, err
	}

	doc := &types.Document{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Content:        req.Content,
		SourceType:     req.SourceType,
		Category:       req.Category,
		Language:       s.chunker.DetectLanguage(req.Content),
		Epistemic:      epistemic,
		EmbeddingModel: s.embedder.ModelVersion(),
		Ready:          false,
		CreatedAt:      time.Now().Unix(),
	}

	chunks := make([]types.Chunk, len(pieces))
	entries := make([]database.ChunkEntry, len(pieces))
	for i, piece := range pieces {
		chunkID := uuid.NewString()
		chunks[i] = types.Chunk{
			ID:          chunkID,
			DocumentID:  doc.ID,
			Index:       i,
			Text:        piece.Text,
			Theme:       piece.Theme,
			Role:        piece.Role,
			HasCitation: piece.HasCitation,
		}
		entries[i] = database.ChunkEntry{
			ChunkID:        chunkID,
			DocumentID:     doc.ID,
			Vector:         vectors[i],
			SourceType:     doc.SourceType,
			AuthorityLevel: doc.Epistemic.AuthorityLevel,
		}
	}

	if err := s.store.CreateDocument(ctx, doc, chunks); err != nil {
		return nil, err
	}

	if err := s.index.UpsertChunks(ctx, entries); err != nil {
		s.logger.Error("vector index write failed, document left unready",
			"document_id", doc.ID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: vector index write: %v", types.ErrStoreWriteFailure, err)
	}

	if err := s.store.MarkReady(ctx, doc.ID); err != nil {
		s.logger.Error("marking document ready failed",
			"document_id", doc.ID,
			"error", err,
		)
		return nil, err
	}
	doc.Ready = true

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"source_type", doc.SourceType,
		"chunks", len(chunks),
		"language", doc.Language,
	)
	return doc, nil
}

func (s *IngestService) validate(req *types.IngestRequest) error {
	if req == nil {
		return fmt.Errorf("%w: missing request body", types.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", types.ErrInvalidInput)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return fmt.Errorf("%w: content is empty", types.ErrInvalidInput)
	}
	if len(content) < s.minLength {
		return fmt.Errorf("%w: content shorter than %d characters", types.ErrInvalidInput, s.minLength)
	}
	if !req.SourceType.Valid() {
		return fmt.Errorf("%w: %q", types.ErrInvalidSourceType, req.SourceType)
	}
	return nil
}

func (s *IngestService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := retryWithBackoff(ctx, s.maxAttempts, s.baseDelay, func() error {
		var embedErr error
		vectors, embedErr = s.embedder.Embed(ctx, texts)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingUnavailable, err)
	}
	return vectors, nil
}
