package chunking

import (
	"strings"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// Splitter cuts extracted pages into indexed chunks. Paragraphs are kept
// intact where possible; oversized paragraphs fall back to an overlapping
// rune window. Chunks never span pages, so a page change is always a chunk
// boundary.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(pages []domain.PageText) []domain.Chunk {
	var out []domain.Chunk
	index := 0
	for _, page := range pages {
		for _, block := range splitParagraphs(page.Text) {
			for _, piece := range s.window(block) {
				out = append(out, domain.Chunk{
					Index: index,
					Page:  page.Page,
					Text:  piece,
				})
				index++
			}
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(normalized, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Splitter) window(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= s.ChunkSize {
		return []string{text}
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
