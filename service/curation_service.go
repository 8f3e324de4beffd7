package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/types"
)

// CurationService runs the submission lifecycle: contributors submit,
// curators approve or reject, and every submission transitions exactly once.
// Approval ingests synchronously, so when the approve call returns success
// the document is already retrievable; when ingestion fails the submission
// stays pending and can be retried.
type CurationService struct {
	submissions database.SubmissionStore
	ingester    *IngestService
	logger      *slog.Logger
	minLength   int

	// Per-submission locks serialize the read-decide-ingest sequence so two
	// curators racing on one submission cannot both run ingestion. The store
	// level conditional write stays as the final arbiter.
	locks sync.Map
}

func NewCurationService(submissions database.SubmissionStore, ingester *IngestService, logger *slog.Logger, minLength int) *CurationService {
	if minLength <= 0 {
		minLength = 20
	}
	return &CurationService{
		submissions: submissions,
		ingester:    ingester,
		logger:      logger,
		minLength:   minLength,
	}
}

// Submit validates a contributor submission and records it as pending.
// Nothing is chunked, embedded or indexed at this stage.
func (s *CurationService) Submit(ctx context.Context, req *types.SubmitRequest, submittedBy string) (*types.Submission, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing request body", types.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", types.ErrInvalidInput)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", types.ErrInvalidInput)
	}
	if len(content) < s.minLength {
		return nil, fmt.Errorf("%w: content shorter than %d characters", types.ErrInvalidInput, s.minLength)
	}
	if !req.SourceType.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidSourceType, req.SourceType)
	}

	sub := &types.Submission{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Content:     req.Content,
		SourceType:  req.SourceType,
		Category:    req.Category,
		Status:      types.StatusPending,
		SubmittedBy: submittedBy,
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.submissions.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("submission received",
		"submission_id", sub.ID,
		"source_type", sub.SourceType,
		"submitted_by", submittedBy,
	)
	return sub, nil
}

// Approve ingests the submission's content and then marks the submission
// approved. Ingestion failures leave the submission pending; a submission
// that is already decided fails with ErrInvalidStateTransition regardless
// of which decision was taken first.
func (s *CurationService) Approve(ctx context.Context, id, curatorID string, action *types.CuratorAction) (*types.Submission, error) {
	unlock := s.lock(id)
	defer unlock()

	sub, err := s.submissions.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != types.StatusPending {
		return nil, fmt.Errorf("%w: submission %s is already %s", types.ErrInvalidStateTransition, id, sub.Status)
	}

	doc, err := s.ingester.Ingest(ctx, &types.IngestRequest{
		Title:      sub.Title,
		Content:    sub.Content,
		SourceType: sub.SourceType,
		Category:   sub.Category,
	})
	if err != nil {
		s.logger.Error("approval ingestion failed, submission stays pending",
			"submission_id", id,
			"error", err,
		)
		return nil, err
	}

	note := ""
	if action != nil {
		note = action.Note
	}
	decidedAt := time.Now().Unix()
	if err := s.submissions.Decide(ctx, id, types.StatusApproved, curatorID, note, doc.ID, decidedAt); err != nil {
		return nil, err
	}

	sub.Status = types.StatusApproved
	sub.CuratorID = curatorID
	sub.Note = note
	sub.DocumentID = doc.ID
	sub.DecidedAt = decidedAt

	s.logger.Info("submission approved",
		"submission_id", id,
		"document_id", doc.ID,
		"curator_id", curatorID,
	)
	return sub, nil
}

// Reject marks a pending submission rejected. No document is created and
// nothing reaches the vector index.
func (s *CurationService) Reject(ctx context.Context, id, curatorID string, action *types.CuratorAction) (*types.Submission, error) {
	unlock := s.lock(id)
	defer unlock()

	note := ""
	if action != nil {
		note = action.Note
	}
	decidedAt := time.Now().Unix()
	if err := s.submissions.Decide(ctx, id, types.StatusRejected, curatorID, note, "", decidedAt); err != nil {
		return nil, err
	}

	sub, err := s.submissions.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission rejected",
		"submission_id", id,
		"curator_id", curatorID,
	)
	return sub, nil
}

// Get returns a submission by ID.
func (s *CurationService) Get(ctx context.Context, id string) (*types.Submission, error) {
	return s.submissions.GetSubmission(ctx, id)
}

// List returns submissions, optionally filtered by status. Status must be
// empty or one of the closed set.
func (s *CurationService) List(ctx context.Context, status types.SubmissionStatus, limit int) ([]types.Submission, error) {
	if status != "" {
		switch status {
		case types.StatusPending, types.StatusApproved, types.StatusRejected:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", types.ErrInvalidInput, status)
		}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.submissions.ListSubmissions(ctx, status, limit)
}

func (s *CurationService) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
