package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pustakalab/pustaka-be/config"
	"github.com/pustakalab/pustaka-be/types"
)

// ChunkPiece is one segment produced by the chunker. Text includes the
// leading Overlap bytes duplicated from the end of the previous piece;
// stripping them and concatenating pieces in order reproduces the source
// text exactly.
type ChunkPiece struct {
	Text        string
	Overlap     int
	Theme       string
	Role        types.ChunkRole
	HasCitation bool
}

// ChunkerService splits document text into discourse-coherent pieces and
// tags each with a detected theme and argumentative role. Splitting happens
// only at sentence or paragraph boundaries; a piece exceeds the target size
// only when a single sentence does.
type ChunkerService struct {
	targetSize int
	overlap    int
	themes     []config.ThemeRule

	citationRe   []*regexp.Regexp
	rolePatterns []rolePattern
	indonesianRe []*regexp.Regexp
}

type rolePattern struct {
	role types.ChunkRole
	re   *regexp.Regexp
}

func NewChunkerService(cfg config.ChunkerConfig) (*ChunkerService, error) {
	if cfg.TargetSize <= 0 {
		return nil, fmt.Errorf("%w: chunk target size must be positive", types.ErrInvalidInput)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.TargetSize {
		return nil, fmt.Errorf("%w: chunk overlap must be non-negative and smaller than the target size", types.ErrInvalidInput)
	}

	s := &ChunkerService{
		targetSize: cfg.TargetSize,
		overlap:    cfg.Overlap,
		themes:     cfg.Themes,
	}

	for _, pattern := range []string{`\(\d{4}\)`, `\[\d+\]`, `et al\.`, `\bibid\b`} {
		s.citationRe = append(s.citationRe, regexp.MustCompile(pattern))
	}

	// Role checks run in this order; the first match wins.
	s.rolePatterns = []rolePattern{
		{types.RoleQuestion, regexp.MustCompile(`bagaimana|mengapa|apakah|siapa|kapan|dimana|\bhow\b|\bwhy\b|\bwhat\b|\bwho\b|\bwhen\b|\bwhere\b|\?`)},
		{types.RoleDefinition, regexp.MustCompile(`\badalah\b|\bmerupakan\b|didefinisikan|is defined as|refers to|\bmeans\b`)},
		{types.RoleExample, regexp.MustCompile(`misalnya|contohnya|sebagai contoh|for example|for instance|such as`)},
		{types.RoleCounterArgument, regexp.MustCompile(`\bnamun\b|\btetapi\b|akan tetapi|sebaliknya|\bhowever\b|\bnevertheless\b|on the contrary`)},
		{types.RoleArgument, regexp.MustCompile(`oleh karena itu|\bmaka\b|dengan demikian|\btherefore\b|\bthus\b|\bconsequently\b`)},
		{types.RoleNarrative, regexp.MustCompile(`\btelah\b|\bpernah\b|\bdahulu\b|\bhistory\b`)},
	}

	for _, word := range []string{"yang", "dan", "di", "ke", "dari", "dengan", "untuk", "pada", "adalah"} {
		s.indonesianRe = append(s.indonesianRe, regexp.MustCompile(`\b`+word+`\b`))
	}

	return s, nil
}

// Chunk splits text into ordered, gapless pieces. Empty or whitespace-only
// input is rejected before any side effect.
func (s *ChunkerService) Chunk(text string) ([]ChunkPiece, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: document text is empty", types.ErrInvalidInput)
	}

	sentences := splitSentences(text)

	var cores []string
	var current strings.Builder
	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence) > s.targetSize {
			cores = append(cores, current.String())
			current.Reset()
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		cores = append(cores, current.String())
	}

	pieces := make([]ChunkPiece, 0, len(cores))
	for i, core := range cores {
		piece := ChunkPiece{Text: core}
		if i > 0 && s.overlap > 0 {
			prev := pieces[i-1].Text
			start := len(prev) - s.overlap
			if start < 0 {
				start = 0
			}
			// Never start the overlap mid-rune.
			for start < len(prev) && !utf8.RuneStart(prev[start]) {
				start++
			}
			prefix := prev[start:]
			piece.Text = prefix + core
			piece.Overlap = len(prefix)
		}
		piece.Theme = s.DetectTheme(piece.Text)
		piece.Role = s.ClassifyRole(piece.Text)
		piece.HasCitation = s.DetectCitation(piece.Text)
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// JoinChunks reverses Chunk: it strips each piece's leading overlap and
// concatenates the remainders in order, reproducing the source text.
func JoinChunks(pieces []ChunkPiece) string {
	var out strings.Builder
	for _, piece := range pieces {
		out.WriteString(piece.Text[piece.Overlap:])
	}
	return out.String()
}

// DetectTheme assigns at most one theme by case-insensitive keyword
// presence. When keywords of several themes match, the first theme in
// configured order wins; that order is the deterministic tie-break.
func (s *ChunkerService) DetectTheme(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range s.themes {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.Theme
			}
		}
	}
	return ""
}

// ClassifyRole detects the argumentative role of a chunk from discourse
// marker patterns.
func (s *ChunkerService) ClassifyRole(text string) types.ChunkRole {
	lower := strings.ToLower(text)
	for _, p := range s.rolePatterns {
		if p.re.MatchString(lower) {
			return p.role
		}
	}
	return types.RoleUnknown
}

// DetectCitation reports whether the chunk contains citation markers such
// as year references, bracketed numbers or "et al.".
func (s *ChunkerService) DetectCitation(text string) bool {
	for _, re := range s.citationRe {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectLanguage classifies the document's primary language with a
// function-word heuristic over the first 500 characters: three or more
// common Indonesian words mean "id", anything else "en".
func (s *ChunkerService) DetectLanguage(text string) string {
	sample := strings.ToLower(text)
	if len(sample) > 500 {
		sample = sample[:500]
	}
	matches := 0
	for _, re := range s.indonesianRe {
		if re.MatchString(sample) {
			matches++
		}
	}
	if matches >= 3 {
		return "id"
	}
	return "en"
}

// splitSentences cuts text into sentence-or-paragraph segments that cover
// it exactly: concatenating the segments yields the input byte for byte.
// A sentence ends at '.', '!' or '?' followed by whitespace or end of
// input (trailing whitespace is attached to the sentence); a blank line
// always ends a segment so paragraph boundaries are preferred naturally.
func splitSentences(text string) []string {
	var segments []string
	n := len(text)
	start := 0
	i := 0
	for i < n {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < n && (text[j] == '"' || text[j] == '\'' || text[j] == ')') {
				j++
			}
			k := j
			for k < n && isSpace(text[k]) {
				k++
			}
			if k == j && j < n {
				// Mid-token punctuation, e.g. "3.14" or "U.S". Not a boundary.
				i = j
				continue
			}
			segments = append(segments, text[start:k])
			start = k
			i = k
			continue
		}
		if c == '\n' {
			k := i
			newlines := 0
			for k < n && (text[k] == '\n' || text[k] == '\r') {
				if text[k] == '\n' {
					newlines++
				}
				k++
			}
			if newlines >= 2 {
				segments = append(segments, text[start:k])
				start = k
				i = k
				continue
			}
		}
		i++
	}
	if start < n {
		segments = append(segments, text[start:])
	}
	return segments
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
