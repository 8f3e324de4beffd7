package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Provenance carries the document-level epistemic context of a search hit.
type Provenance struct {
	DocumentID     string            `json:"document_id"`
	Title          string            `json:"title"`
	SourceType     SourceType        `json:"source_type"`
	Category       string            `json:"category"`
	Epistemic      EpistemicMetadata `json:"epistemic"`
	EmbeddingModel string            `json:"embedding_model,omitempty"`
}

// SearchResult is one retrieved chunk together with its similarity score
// and document provenance. Results are ordered by descending score.
type SearchResult struct {
	Chunk      Chunk      `json:"chunk"`
	Score      float32    `json:"score"`
	Provenance Provenance `json:"provenance"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// Stats summarises the knowledge base for the dashboard.
type Stats struct {
	Documents          int64            `json:"documents"`
	Chunks             int64            `json:"chunks"`
	PendingSubmissions int64            `json:"pending_submissions"`
	BySourceType       map[string]int64 `json:"by_source_type"`
	ByAuthority        map[string]int64 `json:"by_authority"`
}
