// Package lexical implements an in-memory BM25-Okapi index over document
// chunks. The index is rebuilt per query from the chunk arena handed in;
// nothing is shared across queries.
package lexical

import (
	"math"
	"sort"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// Searcher implements ports.LexicalSearcher.
type Searcher struct{}

func NewSearcher() *Searcher {
	return &Searcher{}
}

func (s *Searcher) Search(query string, chunks []domain.Chunk, limit int) []domain.RetrievedChunk {
	return NewIndex(chunks).Search(query, limit)
}

// Index is a BM25 inverted index over a fixed chunk list.
type Index struct {
	chunks    []domain.Chunk
	postings  map[string][]posting
	docLens   []int
	avgDocLen float64
}

// posting records a term's frequency in a single chunk.
type posting struct {
	doc  int
	freq int
}

func NewIndex(chunks []domain.Chunk) *Index {
	idx := &Index{
		chunks:   chunks,
		postings: make(map[string][]posting),
		docLens:  make([]int, len(chunks)),
	}

	totalLen := 0
	for i, c := range chunks {
		tokens := Tokenize(c.Text)
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)

		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for term, freq := range tf {
			idx.postings[term] = append(idx.postings[term], posting{doc: i, freq: freq})
		}
	}

	if len(chunks) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(chunks))
	}
	return idx
}

// Search scores the query against every indexed chunk and returns chunks
// with score > 0, sorted descending; equal scores keep original chunk order.
func (idx *Index) Search(query string, limit int) []domain.RetrievedChunk {
	terms := dedupe(Tokenize(query))
	if len(terms) == 0 || len(idx.chunks) == 0 {
		return nil
	}

	n := float64(len(idx.chunks))
	scores := make(map[int]float64)

	for _, term := range terms {
		posts, ok := idx.postings[term]
		if !ok {
			// Terms absent from the corpus contribute zero.
			continue
		}

		df := float64(len(posts))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1.0)

		for _, p := range posts {
			dl := float64(idx.docLens[p.doc])
			tf := float64(p.freq)
			norm := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(dl/idx.avgDocLen)))
			scores[p.doc] += idf * norm
		}
	}

	order := make([]int, 0, len(scores))
	for doc, score := range scores {
		if score > 0 {
			order = append(order, doc)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		si, sj := scores[order[i]], scores[order[j]]
		if si != sj {
			return si > sj
		}
		return order[i] < order[j]
	})

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]domain.RetrievedChunk, 0, len(order))
	for _, doc := range order {
		c := idx.chunks[doc]
		out = append(out, domain.RetrievedChunk{
			ChunkIndex: c.Index,
			Page:       c.Page,
			Text:       c.Text,
			Score:      scores[doc],
			Source:     domain.SourceLexical,
		})
	}
	return out
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
