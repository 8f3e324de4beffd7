package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/types"
)

type documentRepo struct {
	documents *mongo.Collection
	chunks    *mongo.Collection
}

// NewDocumentRepo creates the Mongo-backed document store and makes sure
// the query indexes exist.
func NewDocumentRepo(db *mongo.Database) database.DocumentStore {
	documents := db.Collection("documents")
	chunks := db.Collection("chunks")

	docIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "source_type", Value: 1}}},
		{Keys: bson.D{{Key: "ready", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	if _, err := documents.Indexes().CreateMany(context.Background(), docIndexes); err != nil {
		slog.Warn("failed to create document indexes", "error", err)
	}
	chunkIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "document_id", Value: 1}, {Key: "index", Value: 1}}},
	}
	if _, err := chunks.Indexes().CreateMany(context.Background(), chunkIndexes); err != nil {
		slog.Warn("failed to create chunk indexes", "error", err)
	}

	return &documentRepo{
		documents: documents,
		chunks:    chunks,
	}
}

func (r *documentRepo) CreateDocument(ctx context.Context, doc *types.Document, chunks []types.Chunk) error {
	if _, err := r.documents.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: inserting document: %v", types.ErrStoreWriteFailure, err)
	}
	if len(chunks) == 0 {
		return nil
	}
	records := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunk
	}
	if _, err := r.chunks.InsertMany(ctx, records); err != nil {
		return fmt.Errorf("%w: inserting chunks: %v", types.ErrStoreWriteFailure, err)
	}
	return nil
}

func (r *documentRepo) MarkReady(ctx context.Context, documentID string) error {
	res, err := r.documents.UpdateOne(ctx,
		bson.M{"_id": documentID},
		bson.M{"$set": bson.M{"ready": true}})
	if err != nil {
		return fmt.Errorf("%w: marking document ready: %v", types.ErrStoreWriteFailure, err)
	}
	if res.MatchedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *documentRepo) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var doc types.Document
	err := r.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) GetChunk(ctx context.Context, id string) (*types.Chunk, error) {
	var chunk types.Chunk
	err := r.chunks.FindOne(ctx, bson.M{"_id": id}).Decode(&chunk)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

func (r *documentRepo) GetChunks(ctx context.Context, documentID string) ([]types.Chunk, error) {
	cursor, err := r.chunks.Find(ctx,
		bson.M{"document_id": documentID},
		options.Find().SetSort(bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chunks []types.Chunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *documentRepo) ListUnready(ctx context.Context, limit int) ([]types.Document, error) {
	cursor, err := r.documents.Find(ctx,
		bson.M{"ready": false},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: 1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []types.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) ListDocumentIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.documents.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cursor.Err()
}

func (r *documentRepo) DeleteDocument(ctx context.Context, id string) error {
	if _, err := r.chunks.DeleteMany(ctx, bson.M{"document_id": id}); err != nil {
		return fmt.Errorf("%w: deleting chunks: %v", types.ErrStoreWriteFailure, err)
	}
	if _, err := r.documents.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("%w: deleting document: %v", types.ErrStoreWriteFailure, err)
	}
	return nil
}

func (r *documentRepo) Stats(ctx context.Context) (*types.Stats, error) {
	stats := &types.Stats{
		BySourceType: make(map[string]int64),
		ByAuthority:  make(map[string]int64),
	}

	var err error
	stats.Documents, err = r.documents.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Chunks, err = r.chunks.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	if err := r.countBy(ctx, "$source_type", stats.BySourceType); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "$epistemic.authority_level", stats.ByAuthority); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *documentRepo) countBy(ctx context.Context, field string, out map[string]int64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.documents.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return err
		}
		out[row.ID] = row.Count
	}
	return cursor.Err()
}
