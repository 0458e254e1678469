package usecase

import (
	"math"
	"testing"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

func chunkHit(text string, index int) domain.RetrievedChunk {
	return domain.RetrievedChunk{ChunkIndex: index, Text: text, Score: 1}
}

func TestFuseRankedListsAccumulatesReciprocalRanks(t *testing.T) {
	vector := []domain.RetrievedChunk{
		chunkHit("A", 0), // rank 0: 1/61
		chunkHit("B", 1), // rank 1: 1/62
	}
	lexical := []domain.RetrievedChunk{
		chunkHit("B", 1), // rank 0: 1/61
		chunkHit("C", 2), // rank 1: 1/62
	}

	fused := fuseRankedLists([][]domain.RetrievedChunk{vector, lexical}, 60, 0)
	if len(fused) != 3 {
		t.Fatalf("expected 3 fused items, got %d", len(fused))
	}
	if fused[0].Text != "B" || fused[1].Text != "A" || fused[2].Text != "C" {
		t.Fatalf("unexpected order: %s %s %s", fused[0].Text, fused[1].Text, fused[2].Text)
	}

	wantB := 1.0/62 + 1.0/61
	if math.Abs(fused[0].Score-wantB) > 1e-12 {
		t.Fatalf("expected B score %v, got %v", wantB, fused[0].Score)
	}
	wantA := 1.0 / 61
	if math.Abs(fused[1].Score-wantA) > 1e-12 {
		t.Fatalf("expected A score %v, got %v", wantA, fused[1].Score)
	}
}

func TestFuseRankedListsTieBreaksByFirstSeen(t *testing.T) {
	// A and C appear at the same rank in different lists: equal score,
	// A was seen first.
	listOne := []domain.RetrievedChunk{chunkHit("A", 0)}
	listTwo := []domain.RetrievedChunk{chunkHit("C", 2)}

	fused := fuseRankedLists([][]domain.RetrievedChunk{listOne, listTwo}, 60, 0)
	if len(fused) != 2 {
		t.Fatalf("expected 2 items, got %d", len(fused))
	}
	if fused[0].Text != "A" || fused[1].Text != "C" {
		t.Fatalf("expected first-seen order A,C, got %s,%s", fused[0].Text, fused[1].Text)
	}
}

func TestFuseRankedListsKeepsChunkAttribution(t *testing.T) {
	unattributed := domain.RetrievedChunk{ChunkIndex: -1, Text: "shared", Source: domain.SourceVector}
	attributed := domain.RetrievedChunk{ChunkIndex: 9, Text: "shared", Source: domain.SourceLexical}

	fused := fuseRankedLists([][]domain.RetrievedChunk{
		{unattributed},
		{attributed},
	}, 60, 0)
	if len(fused) != 1 {
		t.Fatalf("expected dedupe to 1 item, got %d", len(fused))
	}
	if fused[0].ChunkIndex != 9 {
		t.Fatalf("expected attribution preserved, got index %d", fused[0].ChunkIndex)
	}
}

func TestFuseRankedListsAppliesTopK(t *testing.T) {
	list := []domain.RetrievedChunk{
		chunkHit("A", 0), chunkHit("B", 1), chunkHit("C", 2), chunkHit("D", 3),
	}
	fused := fuseRankedLists([][]domain.RetrievedChunk{list}, 60, 2)
	if len(fused) != 2 {
		t.Fatalf("expected 2 items after topK, got %d", len(fused))
	}
	if fused[0].Text != "A" || fused[1].Text != "B" {
		t.Fatalf("unexpected topK items: %s,%s", fused[0].Text, fused[1].Text)
	}
}

func TestFuseRankedListsEmptyInput(t *testing.T) {
	if got := fuseRankedLists(nil, 60, 10); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
	if got := fuseRankedLists([][]domain.RetrievedChunk{nil, {}}, 60, 10); len(got) != 0 {
		t.Fatalf("expected empty result for empty lists, got %d", len(got))
	}
}
