package domain

import "time"

type ResultSource string

const (
	SourceVector  ResultSource = "vector"
	SourceLexical ResultSource = "lexical"
)

// RetrievedChunk is a transient per-query search hit. ChunkIndex is -1 when
// the backend could not attribute the hit to a stored chunk.
type RetrievedChunk struct {
	ChunkIndex int          `json:"chunk_index"`
	Page       int          `json:"page"`
	Text       string       `json:"text"`
	Score      float64      `json:"score"`
	Source     ResultSource `json:"source"`
}

type QueryType string

const (
	QueryOverview   QueryType = "overview"
	QueryExtraction QueryType = "extraction"
	QueryAnalytical QueryType = "analytical"
	QuerySpecific   QueryType = "specific"
)

// RankedGroup references a semantic group by its ordinal in the document's
// group list, with the fused relevance score accumulated from its chunks.
type RankedGroup struct {
	GroupIndex int
	Score      float64
}

// GranularityAssignment pairs a group ordinal with the representation chosen
// for it. EstimatedTokens is filled by the budget fitter.
type GranularityAssignment struct {
	GroupIndex      int
	Granularity     Granularity
	EstimatedTokens int
}

type Citation struct {
	Ref       int       `json:"ref"`
	GroupID   string    `json:"group_id"`
	PageRange PageRange `json:"page_range"`
	Highlight string    `json:"highlight"`
}

// Fallback describes a degradation that occurred while building the context.
type Fallback struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

type PhaseTiming struct {
	Phase    string        `json:"phase"`
	Duration time.Duration `json:"duration"`
}

type RetrievalMeta struct {
	QueryType     QueryType     `json:"query_type"`
	Granularities []Granularity `json:"granularities"`
	TokensUsed    int           `json:"tokens_used"`
	Fallback      *Fallback     `json:"fallback,omitempty"`
	Citations     []Citation    `json:"citations"`
	Timings       []PhaseTiming `json:"timings,omitempty"`
}

type RetrievalResult struct {
	Context string        `json:"context"`
	Meta    RetrievalMeta `json:"meta"`
}

type RetrieveRequest struct {
	DocumentID  string
	Query       string
	TokenBudget int // 0 keeps the configured default
}
