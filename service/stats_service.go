package service

import (
	"context"

	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/types"
)

// StatsService summarises the knowledge base for the curator dashboard.
type StatsService struct {
	store       database.DocumentStore
	submissions database.SubmissionStore
}

func NewStatsService(store database.DocumentStore, submissions database.SubmissionStore) *StatsService {
	return &StatsService{store: store, submissions: submissions}
}

func (s *StatsService) Stats(ctx context.Context) (*types.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.submissions.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	stats.PendingSubmissions = pending
	return stats, nil
}
