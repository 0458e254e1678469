package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
	"github.com/obrusnev/docqa-assistant/internal/core/ports"
)

const maxQueryRunes = 512

// RetrievalConfig carries the query-time knobs.
type RetrievalConfig struct {
	HybridCandidates int
	FusionRRFK       int
	TokenBudget      int
	AnswerReserve    int
	SearchTimeout    time.Duration
	HighlightChars   int
}

func (c RetrievalConfig) normalize() RetrievalConfig {
	if c.HybridCandidates <= 0 {
		c.HybridCandidates = 30
	}
	if c.FusionRRFK <= 0 {
		c.FusionRRFK = 60
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = 3000
	}
	if c.AnswerReserve < 0 {
		c.AnswerReserve = 0
	}
	if c.AnswerReserve >= c.TokenBudget {
		c.AnswerReserve = c.TokenBudget / 4
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = 20 * time.Second
	}
	if c.HighlightChars <= 0 {
		c.HighlightChars = defaultHighlightChars
	}
	return c
}

// RetrieveContextUseCase runs the per-query pipeline: hybrid search over the
// chunk arena, projection onto semantic groups, granularity selection, token
// budget fitting and context assembly. Everything after the similarity call
// is pure computation over data loaded at the start of the call.
type RetrieveContextUseCase struct {
	embedder   ports.Embedder
	vectorDB   ports.VectorStore
	lexical    ports.LexicalSearcher
	chunkRepo  ports.ChunkRepository
	groupStore ports.GroupStore
	cfg        RetrievalConfig
	logger     *slog.Logger
	observer   ports.RetrievalObserver
}

func NewRetrieveContextUseCase(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	lexical ports.LexicalSearcher,
	chunkRepo ports.ChunkRepository,
	groupStore ports.GroupStore,
	cfg RetrievalConfig,
	logger *slog.Logger,
) *RetrieveContextUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrieveContextUseCase{
		embedder:   embedder,
		vectorDB:   vectorDB,
		lexical:    lexical,
		chunkRepo:  chunkRepo,
		groupStore: groupStore,
		cfg:        cfg.normalize(),
		logger:     logger,
	}
}

// WithObserver attaches retrieval instrumentation. Nil leaves the use case
// unobserved.
func (uc *RetrieveContextUseCase) WithObserver(observer ports.RetrievalObserver) *RetrieveContextUseCase {
	uc.observer = observer
	return uc
}

func (uc *RetrieveContextUseCase) Retrieve(ctx context.Context, req domain.RetrieveRequest) (*domain.RetrievalResult, error) {
	if err := validateQuery(req.Query); err != nil {
		return nil, err
	}
	if req.DocumentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "retrieve context", errors.New("empty document id"))
	}

	timings := make([]domain.PhaseTiming, 0, 4)
	phase := func(name string, started time.Time) {
		elapsed := time.Since(started)
		timings = append(timings, domain.PhaseTiming{Phase: name, Duration: elapsed})
		if uc.observer != nil {
			uc.observer.ObservePhase(name, elapsed)
		}
	}

	started := time.Now()
	record, err := uc.groupStore.LoadRecord(ctx, req.DocumentID)
	if err != nil {
		if domain.IsKind(err, domain.ErrGroupsNotAvailable) {
			return nil, err
		}
		return nil, fmt.Errorf("load group record: %w", err)
	}
	chunks, err := uc.chunkRepo.LoadChunks(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	phase("load", started)

	started = time.Now()
	fused, fallback := uc.hybridSearch(ctx, req.DocumentID, req.Query, chunks)
	phase("hybrid_search", started)

	queryType := classifyQuery(req.Query)

	started = time.Now()
	var assigns []domain.GranularityAssignment
	ranked := rankGroups(record.Groups, fused)
	if len(ranked) == 0 {
		assigns = documentOrderAssignment(record.Groups, queryType)
		if fallback == nil {
			fallback = &domain.Fallback{
				Type:   "unranked",
				Detail: "no ranked results; using document-order groups",
			}
		}
	} else {
		assigns = assignByRank(ranked)
	}

	budget := uc.cfg.TokenBudget
	if req.TokenBudget > 0 {
		budget = req.TokenBudget
	}
	available := budget - uc.cfg.AnswerReserve
	fitted := fitToBudget(record.Groups, assigns, available)
	phase("budget_fit", started)

	started = time.Now()
	contextText, citations := buildContextBlocks(record.Groups, fitted, req.Query, uc.cfg.HighlightChars)
	phase("assemble", started)

	granularities := make([]domain.Granularity, 0, len(fitted))
	tokensUsed := 0
	for _, a := range fitted {
		granularities = append(granularities, a.Granularity)
		tokensUsed += a.EstimatedTokens
	}

	if uc.observer != nil {
		uc.observer.ObserveContextTokens(tokensUsed)
		if fallback != nil {
			uc.observer.CountFallback(fallback.Type)
		}
	}

	uc.logger.Debug("context_assembled",
		"document_id", req.DocumentID,
		"query_type", string(queryType),
		"groups", len(fitted),
		"tokens", tokensUsed,
	)

	return &domain.RetrievalResult{
		Context: contextText,
		Meta: domain.RetrievalMeta{
			QueryType:     queryType,
			Granularities: granularities,
			TokensUsed:    tokensUsed,
			Fallback:      fallback,
			Citations:     citations,
			Timings:       timings,
		},
	}, nil
}

// hybridSearch runs similarity and lexical search under one deadline and
// fuses the ranked lists with RRF. A similarity failure or timeout degrades
// to lexical-only results with a fallback annotation, never an error.
func (uc *RetrieveContextUseCase) hybridSearch(
	ctx context.Context,
	documentID, query string,
	chunks []domain.Chunk,
) ([]domain.RetrievedChunk, *domain.Fallback) {
	searchCtx, cancel := context.WithTimeout(ctx, uc.cfg.SearchTimeout)
	defer cancel()

	var fallback *domain.Fallback
	var vector []domain.RetrievedChunk

	queryVector, err := uc.embedder.EmbedQuery(searchCtx, query)
	if err == nil {
		vector, err = uc.vectorDB.Search(searchCtx, documentID, queryVector, uc.cfg.HybridCandidates)
	}
	if err != nil {
		uc.logger.Warn("vector_search_degraded", "document_id", documentID, "error", err)
		vector = nil
		fallback = &domain.Fallback{Type: "vector_search", Detail: err.Error()}
	}

	lexicalResults := uc.lexical.Search(query, chunks, uc.cfg.HybridCandidates)

	fused := fuseRankedLists(
		[][]domain.RetrievedChunk{vector, lexicalResults},
		uc.cfg.FusionRRFK,
		uc.cfg.HybridCandidates,
	)
	return fused, fallback
}

// documentOrderAssignment applies the base query-type mapping when no ranked
// results exist: one granularity for the first N groups in document order.
func documentOrderAssignment(groups []domain.SemanticGroup, qt domain.QueryType) []domain.GranularityAssignment {
	granularity, maxGroups := baseAssignment(qt)
	if maxGroups > len(groups) {
		maxGroups = len(groups)
	}
	out := make([]domain.GranularityAssignment, 0, maxGroups)
	for i := 0; i < maxGroups; i++ {
		out = append(out, domain.GranularityAssignment{GroupIndex: i, Granularity: granularity})
	}
	return out
}

// validateQuery rejects malformed queries before any index access.
func validateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return domain.WrapError(domain.ErrInvalidQuery, "validate query", errors.New("query is empty"))
	}
	if utf8.RuneCountInString(trimmed) > maxQueryRunes {
		return domain.WrapError(domain.ErrInvalidQuery, "validate query",
			fmt.Errorf("query exceeds %d characters", maxQueryRunes))
	}
	if strings.Count(trimmed, `"`)%2 != 0 {
		return domain.WrapError(domain.ErrInvalidQuery, "validate query", errors.New("unbalanced quotes"))
	}
	return nil
}
