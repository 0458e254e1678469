package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
	"github.com/obrusnev/docqa-assistant/internal/core/ports"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/extractor/pdfdoc"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/extractor/xlsxdoc"
)

// Router dispatches extraction by mime type, falling back to the file
// extension when the mime type is generic. Unknown formats go to the
// plaintext extractor, which rejects binary payloads on its own.
type Router struct {
	plain ports.TextExtractor
	pdf   ports.TextExtractor
	xlsx  ports.TextExtractor
}

func NewRouter(storage ports.ObjectStorage) *Router {
	return &Router{
		plain: plaintext.NewExtractor(storage),
		pdf:   pdfdoc.NewExtractor(storage),
		xlsx:  xlsxdoc.NewExtractor(storage),
	}
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) ([]domain.PageText, error) {
	return r.pick(doc).Extract(ctx, doc)
}

func (r *Router) pick(doc *domain.Document) ports.TextExtractor {
	mime := strings.ToLower(doc.MimeType)
	switch {
	case strings.Contains(mime, "pdf"):
		return r.pdf
	case strings.Contains(mime, "spreadsheet"), strings.Contains(mime, "ms-excel"):
		return r.xlsx
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return r.pdf
	case ".xlsx", ".xlsm":
		return r.xlsx
	default:
		return r.plain
	}
}
