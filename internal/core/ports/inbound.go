package ports

import (
	"context"
	"io"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing: extraction, chunking, indexing and semantic-group generation.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// ContextRetriever is the inbound contract for query-time context assembly.
type ContextRetriever interface {
	Retrieve(ctx context.Context, req domain.RetrieveRequest) (*domain.RetrievalResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
