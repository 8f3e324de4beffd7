package database

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pustakalab/pustaka-be/types"
)

// MemoryIndex is a brute-force cosine-similarity VectorIndex. It backs
// tests and single-node development setups where running Weaviate is
// overkill.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]ChunkEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string]ChunkEntry),
	}
}

func (m *MemoryIndex) UpsertChunks(ctx context.Context, entries []ChunkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		m.entries[entry.ChunkID] = entry
	}
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, vector []float32, limit int, f types.SearchFilters) ([]ChunkMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []ChunkMatch
	for _, entry := range m.entries {
		if f.SourceType != "" && entry.SourceType != f.SourceType {
			continue
		}
		if f.AuthorityLevel != "" && entry.AuthorityLevel != f.AuthorityLevel {
			continue
		}
		matches = append(matches, ChunkMatch{
			ChunkID: entry.ChunkID,
			Score:   cosineSimilarity(entry.Vector, vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MemoryIndex) DeleteDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.entries {
		if entry.DocumentID == documentID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *MemoryIndex) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]ChunkEntry)
	return nil
}

// Len returns the number of indexed chunks.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
