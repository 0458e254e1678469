package ports

import (
	"context"
	"io"
	"time"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	UpdateCounts(ctx context.Context, id string, contentHash string, pages, chunks, groups int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts page-tagged plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) ([]domain.PageText, error)
}

// Chunker splits extracted pages into indexed chunks.
type Chunker interface {
	Split(pages []domain.PageText) []domain.Chunk
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunks and performs semantic similarity search
// scoped to a single document.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, documentID string, queryVector []float32, limit int) ([]domain.RetrievedChunk, error)
}

// LexicalSearcher ranks chunks against a query by keyword relevance.
// Implementations build their index from the chunks handed to each call;
// no state is held across queries.
type LexicalSearcher interface {
	Search(query string, chunks []domain.Chunk, limit int) []domain.RetrievedChunk
}

// SummaryProvider is the external summarization capability used at ingest
// time. Failure (including an empty completion) must surface as an error so
// the caller can degrade explicitly.
type SummaryProvider interface {
	Summarize(ctx context.Context, text string, maxChars int) (string, error)
	Keywords(ctx context.Context, text string, maxTerms int) ([]string, error)
	ModelName() string
}

// GroupGenerator produces the three-granularity semantic groups for a set of
// aggregated drafts. A failed generation degrades the affected group only;
// the call itself never fails.
type GroupGenerator interface {
	Generate(ctx context.Context, drafts []domain.GroupDraft) []domain.SemanticGroup
}

// ChunkRepository persists the chunk arena for a document.
type ChunkRepository interface {
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error
	LoadChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}

// RetrievalObserver receives instrumentation events from the retrieval
// pipeline. Implementations must be safe for concurrent use.
type RetrievalObserver interface {
	ObservePhase(phase string, d time.Duration)
	ObserveContextTokens(tokens int)
	CountFallback(fallbackType string)
}

// GroupStore persists the versioned semantic-group record for a document.
// LoadRecord returns domain.ErrGroupsNotAvailable for missing, version-
// mismatched or structurally invalid records; it never partially repairs.
type GroupStore interface {
	SaveRecord(ctx context.Context, record *domain.GroupRecord) error
	LoadRecord(ctx context.Context, documentID string) (*domain.GroupRecord, error)
}
