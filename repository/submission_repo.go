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

type submissionRepo struct {
	collection *mongo.Collection
}

func NewSubmissionRepo(db *mongo.Database) database.SubmissionStore {
	collection := db.Collection("submissions")

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		slog.Warn("failed to create submission indexes", "error", err)
	}

	return &submissionRepo{collection: collection}
}

func (r *submissionRepo) CreateSubmission(ctx context.Context, sub *types.Submission) error {
	if _, err := r.collection.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("%w: inserting submission: %v", types.ErrStoreWriteFailure, err)
	}
	return nil
}

func (r *submissionRepo) GetSubmission(ctx context.Context, id string) (*types.Submission, error) {
	var sub types.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) ListSubmissions(ctx context.Context, status types.SubmissionStatus, limit int) ([]types.Submission, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []types.Submission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Decide performs the conditional pending-to-terminal transition. The
// filter matches only while the submission is still pending, so of any
// number of concurrent decisions exactly one can win.
func (r *submissionRepo) Decide(ctx context.Context, id string, status types.SubmissionStatus, curatorID, note, documentID string, decidedAt int64) error {
	update := bson.M{
		"status":     status,
		"curator_id": curatorID,
		"decided_at": decidedAt,
	}
	if note != "" {
		update["note"] = note
	}
	if documentID != "" {
		update["document_id"] = documentID
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": types.StatusPending},
		bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("%w: deciding submission: %v", types.ErrStoreWriteFailure, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing submission from one already decided.
		if _, getErr := r.GetSubmission(ctx, id); getErr != nil {
			return getErr
		}
		return types.ErrInvalidStateTransition
	}
	return nil
}

func (r *submissionRepo) CountPending(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": types.StatusPending})
}
