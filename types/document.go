package types

// SourceType classifies where a document comes from. It is an explicit,
// required field on every submission and ingestion; provenance is never
// inferred from storage location.
type SourceType string

const (
	SourceCommunity SourceType = "community"
	SourceAcademic  SourceType = "academic"
	SourceMedia     SourceType = "media"
	SourceArchival  SourceType = "archival"
	SourceGeneral   SourceType = "general"
)

// Valid reports whether s is one of the closed set of source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceCommunity, SourceAcademic, SourceMedia, SourceArchival, SourceGeneral:
		return true
	}
	return false
}

// AuthorityLevel is the governance tag describing the epistemic weight of a
// source.
type AuthorityLevel string

const (
	AuthoritySituated AuthorityLevel = "situated"
	AuthorityAcademic AuthorityLevel = "academic"
	AuthorityMedia    AuthorityLevel = "media"
	AuthorityArchival AuthorityLevel = "archival"
)

func (a AuthorityLevel) Valid() bool {
	switch a {
	case AuthoritySituated, AuthorityAcademic, AuthorityMedia, AuthorityArchival:
		return true
	}
	return false
}

// EpistemicOrigin classifies where knowledge originates.
type EpistemicOrigin string

const (
	OriginCommunityArchive    EpistemicOrigin = "community_archive"
	OriginAcademicResearch    EpistemicOrigin = "academic_research"
	OriginMediaDiscourse      EpistemicOrigin = "media_discourse"
	OriginInstitutionalRecord EpistemicOrigin = "institutional_record"
)

// EpistemicMetadata is derived from the source type at ingestion time and
// never mutated afterwards.
type EpistemicMetadata struct {
	AuthorityLevel  AuthorityLevel  `bson:"authority_level" json:"authority_level"`
	EpistemicOrigin EpistemicOrigin `bson:"epistemic_origin" json:"epistemic_origin"`
}

// Document is a logical unit of ingested content. Documents are immutable
// once ingested; re-ingestion creates a new document. Ready is flipped only
// after both the metadata store and the vector index writes succeeded, and
// gates retrievability.
type Document struct {
	ID             string            `bson:"_id" json:"id"`
	Title          string            `bson:"title" json:"title"`
	Content        string            `bson:"content" json:"content"`
	SourceType     SourceType        `bson:"source_type" json:"source_type"`
	Category       string            `bson:"category" json:"category"`
	Language       string            `bson:"language" json:"language"`
	Epistemic      EpistemicMetadata `bson:"epistemic" json:"epistemic"`
	EmbeddingModel string            `bson:"embedding_model" json:"embedding_model"`
	Ready          bool              `bson:"ready" json:"ready"`
	CreatedAt      int64             `bson:"created_at" json:"created_at"`
}

// ChunkRole is the argumentative role a chunk plays in its discourse.
type ChunkRole string

const (
	RoleArgument        ChunkRole = "argument"
	RoleCounterArgument ChunkRole = "counter_argument"
	RoleDefinition      ChunkRole = "definition"
	RoleExample         ChunkRole = "example"
	RoleNarrative       ChunkRole = "narrative"
	RoleQuestion        ChunkRole = "question"
	RoleUnknown         ChunkRole = "unknown"
)

// Chunk is a contiguous segment of a document's text. Chunks of one
// document are gapless and ordered by Index; stripping the configured
// overlap and concatenating them in order reproduces the source text.
type Chunk struct {
	ID          string    `bson:"_id" json:"id"`
	DocumentID  string    `bson:"document_id" json:"document_id"`
	Index       int       `bson:"index" json:"index"`
	Text        string    `bson:"text" json:"text"`
	Theme       string    `bson:"theme,omitempty" json:"theme,omitempty"`
	Role        ChunkRole `bson:"role" json:"role"`
	HasCitation bool      `bson:"has_citation" json:"has_citation"`
}

// SubmissionStatus is the curation state of a submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Submission is a contributor-supplied candidate document awaiting review.
// It transitions exactly once from pending to approved or rejected and is
// never re-opened; correcting a rejected submission requires a new one.
type Submission struct {
	ID          string           `bson:"_id" json:"id"`
	Title       string           `bson:"title" json:"title"`
	Content     string           `bson:"content" json:"content"`
	SourceType  SourceType       `bson:"source_type" json:"source_type"`
	Category    string           `bson:"category" json:"category"`
	Status      SubmissionStatus `bson:"status" json:"status"`
	SubmittedBy string           `bson:"submitted_by" json:"submitted_by"`
	CuratorID   string           `bson:"curator_id,omitempty" json:"curator_id,omitempty"`
	Note        string           `bson:"note,omitempty" json:"note,omitempty"`
	DocumentID  string           `bson:"document_id,omitempty" json:"document_id,omitempty"`
	CreatedAt   int64            `bson:"created_at" json:"created_at"`
	DecidedAt   int64            `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}
