package domain

import (
	"fmt"
	"time"
)

// GroupSchemaVersion is bumped whenever the persisted group record layout
// changes. Records with any other version are treated as absent and the
// document must be regenerated.
const GroupSchemaVersion = 2

type Granularity string

const (
	GranularityFull    Granularity = "full"
	GranularityDigest  Granularity = "digest"
	GranularitySummary Granularity = "summary"
)

type GroupStatus string

const (
	GroupStatusOK     GroupStatus = "ok"
	GroupStatusFailed GroupStatus = "failed"
)

// Representation length ceilings, in runes.
const (
	SummaryMaxChars = 80
	DigestMaxChars  = 1000
)

type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (p PageRange) String() string {
	if p.Start == p.End {
		return fmt.Sprintf("%d", p.Start)
	}
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}

// GenerationMeta records how a group's representations were produced.
// Audit data only; nothing computes on it.
type GenerationMeta struct {
	Model         string    `json:"model"`
	Temperature   float64   `json:"temperature"`
	PromptVersion string    `json:"prompt_version"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// GroupDraft is an aggregated run of contiguous chunks before any
// representation has been generated for it.
type GroupDraft struct {
	GroupID      string    `json:"group_id"`
	ChunkIndices []int     `json:"chunk_indices"`
	FullText     string    `json:"full_text"`
	PageRange    PageRange `json:"page_range"`
}

// SemanticGroup is a contiguous run of chunks with three alternative
// representations. Created once at ingest, immutable afterwards; a re-ingest
// replaces the whole group list.
type SemanticGroup struct {
	GroupID      string         `json:"group_id"`
	ChunkIndices []int          `json:"chunk_indices"`
	FullText     string         `json:"full_text"`
	Digest       string         `json:"digest"`
	Summary      string         `json:"summary"`
	Keywords     []string       `json:"keywords"`
	PageRange    PageRange      `json:"page_range"`
	Status       GroupStatus    `json:"status"`
	Meta         GenerationMeta `json:"generation_meta"`
}

// Representation returns the text of the requested granularity.
func (g *SemanticGroup) Representation(gr Granularity) string {
	switch gr {
	case GranularityFull:
		return g.FullText
	case GranularityDigest:
		return g.Digest
	default:
		return g.Summary
	}
}

// AggregationConfig bounds semantic-group aggregation, in characters of
// accumulated chunk text.
type AggregationConfig struct {
	TargetChars int `json:"target_chars" yaml:"target_chars"`
	MinChars    int `json:"min_chars" yaml:"min_chars"`
	MaxChars    int `json:"max_chars" yaml:"max_chars"`
}

func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{
		TargetChars: 5000,
		MinChars:    2500,
		MaxChars:    6000,
	}
}

// GroupRecord is the persisted per-document group list plus everything needed
// to decide whether it is still valid for the stored document.
type GroupRecord struct {
	SchemaVersion int               `json:"schema_version"`
	DocumentID    string            `json:"document_id"`
	ContentHash   string            `json:"content_hash,omitempty"`
	Aggregation   AggregationConfig `json:"aggregation"`
	Groups        []SemanticGroup   `json:"groups"`
	CreatedAt     time.Time         `json:"created_at"`
}
