package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/pustakalab/pustaka-be/config"
	"github.com/pustakalab/pustaka-be/types"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "Chunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "documentId", DataType: []string{"text"}},
			{Name: "sourceType", DataType: []string{"text"}},
			{Name: "authorityLevel", DataType: []string{"text"}},
		},
		// Vectors come from the embedding gateway, never from a Weaviate
		// vectorizer module.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateIndex implements VectorIndex on a Weaviate instance. Objects are
// keyed by chunk UUID so re-upserting a chunk overwrites its entry.
type WeaviateIndex struct {
	client *weaviate.Client
}

func NewWeaviateIndex(cfg config.WeaviateConfig) (*WeaviateIndex, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	wcfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		wcfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}
	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	idx := &WeaviateIndex{client: client}
	if err := idx.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *WeaviateIndex) ensureSchema(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			return nil
		}
	}
	if err := s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(ctx); err != nil {
		return fmt.Errorf("failed to create Chunk class: %w", err)
	}
	return nil
}

// Reset drops and recreates the Chunk class. Used by full rebuilds only;
// the metadata store can always repopulate the index.
func (s *WeaviateIndex) Reset(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete Chunk class: %w", err)
	}
	if err := s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(ctx); err != nil {
		return fmt.Errorf("failed to create Chunk class: %w", err)
	}
	return nil
}

func (s *WeaviateIndex) UpsertChunks(ctx context.Context, entries []ChunkEntry) error {
	total := len(entries)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			entry := entries[j]
			batcher = batcher.WithObjects(&models.Object{
				ID:    strfmt.UUID(entry.ChunkID),
				Class: CHUNK_CLASS,
				Properties: map[string]interface{}{
					"documentId":     entry.DocumentID,
					"sourceType":     string(entry.SourceType),
					"authorityLevel": string(entry.AuthorityLevel),
				},
				Vector: models.C11yVector(entry.Vector),
			})
		}

		resp, err := batcher.Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
		for _, obj := range resp {
			if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
				return fmt.Errorf("failed to upsert chunk %s: %s", obj.ID, obj.Result.Errors.Error[0].Message)
			}
		}
	}
	return nil
}

func (s *WeaviateIndex) Search(ctx context.Context, vector []float32, limit int, f types.SearchFilters) ([]ChunkMatch, error) {
	fields := []graphql.Field{
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit)
	if where := buildFilter(f); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var matches []ChunkMatch
	if data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			additional, ok := obj["_additional"].(map[string]interface{})
			if !ok {
				continue
			}
			match := ChunkMatch{
				ChunkID: additional["id"].(string),
			}
			if distance, ok := additional["distance"].(float64); ok {
				match.Score = 1 - float32(distance)
			}
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (s *WeaviateIndex) DeleteDocument(ctx context.Context, documentID string) error {
	where := filters.Where().
		WithPath([]string{"documentId"}).
		WithOperator(filters.Equal).
		WithValueString(documentID)
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(CHUNK_CLASS).
		WithWhere(where).
		Do(ctx)
	return err
}

func buildFilter(f types.SearchFilters) *filters.WhereBuilder {
	var whereFilter *filters.WhereBuilder

	if f.SourceType != "" {
		whereFilter = filters.Where().
			WithPath([]string{"sourceType"}).
			WithOperator(filters.Equal).
			WithValueString(string(f.SourceType))
	}

	if f.AuthorityLevel != "" {
		authorityFilter := filters.Where().
			WithPath([]string{"authorityLevel"}).
			WithOperator(filters.Equal).
			WithValueString(string(f.AuthorityLevel))
		if whereFilter == nil {
			whereFilter = authorityFilter
		} else {
			whereFilter = filters.Where().
				WithOperator(filters.And).
				WithOperands([]*filters.WhereBuilder{whereFilter, authorityFilter})
		}
	}

	return whereFilter
}
