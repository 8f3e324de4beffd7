package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/types"
)

// SearchService answers filtered top-k similarity queries. Filters are
// pushed down to the vector index so that k results always reflect the
// filtered population; hits whose parent document is not ready are dropped
// before provenance assembly.
type SearchService struct {
	embedder Embedder
	index    database.VectorIndex
	store    database.DocumentStore
	logger   *slog.Logger
}

func NewSearchService(embedder Embedder, index database.VectorIndex, store database.DocumentStore, logger *slog.Logger) *SearchService {
	return &SearchService{
		embedder: embedder,
		index:    index,
		store:    store,
		logger:   logger,
	}
}

// Search embeds the query, runs the filtered nearest-neighbour lookup and
// joins each hit with its chunk and document records. An empty index yields
// an empty result set, not an error.
func (s *SearchService) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is empty", types.ErrInvalidInput)
	}
	if req.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", types.ErrInvalidInput)
	}
	if req.Filters.SourceType != "" && !req.Filters.SourceType.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidSourceType, req.Filters.SourceType)
	}
	if req.Filters.AuthorityLevel != "" && !req.Filters.AuthorityLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown authority level %q", types.ErrInvalidInput, req.Filters.AuthorityLevel)
	}

	vectors, err := s.embedder.Embed(ctx, []string{req.Query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: embedding the query produced %d vectors", types.ErrEmbeddingUnavailable, len(vectors))
	}

	matches, err := s.index.Search(ctx, vectors[0], req.Limit, req.Filters)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(matches))
	docs := make(map[string]*types.Document)
	for _, match := range matches {
		chunk, err := s.store.GetChunk(ctx, match.ChunkID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				// Index entry with no metadata record; skip rather than fail
				// the whole query.
				s.logger.Warn("vector hit without chunk record", "chunk_id", match.ChunkID)
				continue
			}
			return nil, err
		}

		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = s.store.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					s.logger.Warn("vector hit without document record", "document_id", chunk.DocumentID)
					continue
				}
				return nil, err
			}
			docs[chunk.DocumentID] = doc
		}
		if !doc.Ready {
			continue
		}

		results = append(results, types.SearchResult{
			Chunk: *chunk,
			Score: match.Score,
			Provenance: types.Provenance{
				DocumentID:     doc.ID,
				Title:          doc.Title,
				SourceType:     doc.SourceType,
				Category:       doc.Category,
				Epistemic:      doc.Epistemic,
				EmbeddingModel: doc.EmbeddingModel,
			},
		})
	}

	return &types.SearchResponse{Results: results}, nil
}
