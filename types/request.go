package types

type SubmitRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	SourceType SourceType `json:"source_type"`
	Category   string     `json:"category"`
}

type CuratorAction struct {
	Note string `json:"note,omitempty"`
}

type IngestRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	SourceType SourceType `json:"source_type"`
	Category   string     `json:"category"`
}

// SearchFilters constrain the population the top-k search runs over. Empty
// fields mean no constraint. Filtering happens at the index level so that k
// results reflect the filtered population.
type SearchFilters struct {
	SourceType     SourceType     `json:"source_type,omitempty"`
	AuthorityLevel AuthorityLevel `json:"authority_level,omitempty"`
}

type SearchRequest struct {
	Query   string        `json:"query"`
	Limit   int           `json:"limit,omitempty"`
	Filters SearchFilters `json:"filters,omitempty"`
}
