package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
	"github.com/obrusnev/docqa-assistant/internal/core/ports"
)

// ProcessDocumentUseCase turns an uploaded document into everything the
// retrieval pipeline needs: the chunk arena, the vector index and the
// versioned semantic-group record.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	chunker    ports.Chunker
	embedder   ports.Embedder
	vectorDB   ports.VectorStore
	chunkRepo  ports.ChunkRepository
	groups     ports.GroupGenerator
	groupStore ports.GroupStore
	aggCfg     domain.AggregationConfig
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	chunkRepo ports.ChunkRepository,
	groups ports.GroupGenerator,
	groupStore ports.GroupStore,
	aggCfg domain.AggregationConfig,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:       repo,
		extractor:  extractor,
		chunker:    chunker,
		embedder:   embedder,
		vectorDB:   vectorDB,
		chunkRepo:  chunkRepo,
		groups:     groups,
		groupStore: groupStore,
		aggCfg:     aggCfg,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	pages, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if len(pages) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("no extractable text"))
	}

	chunks := uc.chunker.Split(pages)
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	if err := uc.chunkRepo.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	if err := uc.vectorDB.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks in vector db: %w", err)
	}

	drafts := aggregateChunks(chunks, uc.aggCfg)
	groups := uc.groups.Generate(ctx, drafts)

	record := &domain.GroupRecord{
		SchemaVersion: domain.GroupSchemaVersion,
		DocumentID:    doc.ID,
		ContentHash:   contentHash(pages),
		Aggregation:   uc.aggCfg,
		Groups:        groups,
		CreatedAt:     time.Now().UTC(),
	}
	if err := uc.groupStore.SaveRecord(ctx, record); err != nil {
		return fmt.Errorf("persist group record: %w", err)
	}

	if err := uc.repo.UpdateCounts(ctx, doc.ID, record.ContentHash, len(pages), len(chunks), len(groups)); err != nil {
		return fmt.Errorf("update document counts: %w", err)
	}
	return nil
}

func contentHash(pages []domain.PageText) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Text)
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
