package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/pustakalab/pustaka-be/types"
)

// MemoryDocumentStore is an in-memory DocumentStore for tests and local
// development. Thread-safe; returns copies so callers cannot mutate the
// stored records.
type MemoryDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]types.Document
	chunks    map[string]types.Chunk
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		documents: make(map[string]types.Document),
		chunks:    make(map[string]types.Chunk),
	}
}

func (s *MemoryDocumentStore) CreateDocument(ctx context.Context, doc *types.Document, chunks []types.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

func (s *MemoryDocumentStore) MarkReady(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return types.ErrNotFound
	}
	doc.Ready = true
	s.documents[documentID] = doc
	return nil
}

func (s *MemoryDocumentStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &doc, nil
}

func (s *MemoryDocumentStore) GetChunk(ctx context.Context, id string) (*types.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &chunk, nil
}

func (s *MemoryDocumentStore) GetChunks(ctx context.Context, documentID string) ([]types.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var chunks []types.Chunk
	for _, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			chunks = append(chunks, chunk)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

func (s *MemoryDocumentStore) ListUnready(ctx context.Context, limit int) ([]types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []types.Document
	for _, doc := range s.documents {
		if !doc.Ready {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt < docs[j].CreatedAt })
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *MemoryDocumentStore) ListDocumentIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.documents))
	for id := range s.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	for chunkID, chunk := range s.chunks {
		if chunk.DocumentID == id {
			delete(s.chunks, chunkID)
		}
	}
	return nil
}

func (s *MemoryDocumentStore) Stats(ctx context.Context) (*types.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &types.Stats{
		Documents:    int64(len(s.documents)),
		Chunks:       int64(len(s.chunks)),
		BySourceType: make(map[string]int64),
		ByAuthority:  make(map[string]int64),
	}
	for _, doc := range s.documents {
		stats.BySourceType[string(doc.SourceType)]++
		stats.ByAuthority[string(doc.Epistemic.AuthorityLevel)]++
	}
	return stats, nil
}

// MemorySubmissionStore is an in-memory SubmissionStore for tests.
type MemorySubmissionStore struct {
	mu          sync.Mutex
	submissions map[string]types.Submission
}

func NewMemorySubmissionStore() *MemorySubmissionStore {
	return &MemorySubmissionStore{
		submissions: make(map[string]types.Submission),
	}
}

func (s *MemorySubmissionStore) CreateSubmission(ctx context.Context, sub *types.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *MemorySubmissionStore) GetSubmission(ctx context.Context, id string) (*types.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &sub, nil
}

func (s *MemorySubmissionStore) ListSubmissions(ctx context.Context, status types.SubmissionStatus, limit int) ([]types.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var subs []types.Submission
	for _, sub := range s.submissions {
		if status != "" && sub.Status != status {
			continue
		}
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt > subs[j].CreatedAt })
	if limit > 0 && limit < len(subs) {
		subs = subs[:limit]
	}
	return subs, nil
}

func (s *MemorySubmissionStore) Decide(ctx context.Context, id string, status types.SubmissionStatus, curatorID, note, documentID string, decidedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return types.ErrNotFound
	}
	if sub.Status != types.StatusPending {
		return types.ErrInvalidStateTransition
	}
	sub.Status = status
	sub.CuratorID = curatorID
	sub.Note = note
	sub.DocumentID = documentID
	sub.DecidedAt = decidedAt
	s.submissions[id] = sub
	return nil
}

func (s *MemorySubmissionStore) CountPending(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, sub := range s.submissions {
		if sub.Status == types.StatusPending {
			n++
		}
	}
	return n, nil
}
