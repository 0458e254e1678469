package usecase

import (
	"fmt"
	"strings"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// buildContextBlocks renders one block per fitted assignment and a citation
// record aligned with it: citation i carries ref i+1 and the same group id
// and page range as block i. Highlights are extracted from the group's full
// text, where query terms are most likely to occur.
func buildContextBlocks(
	groups []domain.SemanticGroup,
	fitted []domain.GranularityAssignment,
	query string,
	highlightChars int,
) (string, []domain.Citation) {
	blocks := make([]string, 0, len(fitted))
	citations := make([]domain.Citation, 0, len(fitted))

	for i, a := range fitted {
		g := &groups[a.GroupIndex]
		ref := i + 1

		var b strings.Builder
		fmt.Fprintf(&b, "[%d] %s | %s | pages %s\n", ref, g.GroupID, a.Granularity, g.PageRange)
		if len(g.Keywords) > 0 {
			b.WriteString("keywords: " + strings.Join(g.Keywords, ", ") + "\n")
		}
		b.WriteString(g.Representation(a.Granularity))
		blocks = append(blocks, b.String())

		citations = append(citations, domain.Citation{
			Ref:       ref,
			GroupID:   g.GroupID,
			PageRange: g.PageRange,
			Highlight: buildHighlight(query, g.FullText, highlightChars),
		})
	}

	return strings.Join(blocks, "\n\n"), citations
}

// FormatCitationInstructions renders the citation list as an instruction
// string for the answering model, naming every available reference number
// and what it cites.
func FormatCitationInstructions(citations []domain.Citation) string {
	if len(citations) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cite sources with reference numbers [1]-[%d]. Available references:\n", len(citations))
	for _, c := range citations {
		fmt.Fprintf(&b, "[%d] %s (pages %s): %s\n", c.Ref, c.GroupID, c.PageRange, c.Highlight)
	}
	return strings.TrimRight(b.String(), "\n")
}
