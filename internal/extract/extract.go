// Package extract pulls per-page plain text out of PDF byte streams.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minPageChars is the minimum normalized text length for a page to be
// considered extractable. Shorter pages carry no searchable content and
// are omitted.
const minPageChars = 10

// Page holds the normalized text of a single PDF page.
// Number is 1-based; pages without extractable text are omitted, so the
// sequence need not be contiguous.
type Page struct {
	Number int
	Text   string
}

// Extractor produces per-page text from PDF data.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]Page, int, error)
}

type extractor struct {
	logger *slog.Logger
}

// New creates a PDF text extractor.
func New(logger *slog.Logger) Extractor {
	return &extractor{
		logger: logger.With("system", "extract"),
	}
}

// Extract returns the extractable pages and the total page count.
// A page whose text cannot be read, or whose normalized text is too short,
// is skipped; one bad page never aborts the rest. An unreadable file
// returns ErrExtractionFailed with no pages and count 0.
func (e *extractor) Extract(ctx context.Context, data []byte) ([]Page, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	total, err := pageCount(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if total <= 0 {
		return nil, 0, fmt.Errorf("%w: no pages", ErrExtractionFailed)
	}

	var pages []Page
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		text, err := extractPage(reader, num)
		if err != nil {
			e.logger.Warn("page extraction failed", "page", num, "error", err)
			continue
		}

		text = NormalizeWhitespace(text)
		if len(text) <= minPageChars {
			continue
		}

		pages = append(pages, Page{Number: num, Text: text})
	}

	return pages, total, nil
}

// pageCount reads the page count, guarding against library panics on
// malformed documents.
func pageCount(reader *pdf.Reader) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page count: %v", r)
		}
	}()
	return reader.NumPage(), nil
}

// extractPage reads the text items of a single page. The PDF library can
// panic on malformed content streams, so each page runs behind its own
// recover.
func extractPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: null page", num)
	}

	var b strings.Builder
	content := page.Content()
	for _, item := range content.Text {
		b.WriteString(item.S)
		b.WriteString(" ")
	}

	return b.String(), nil
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and
// trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
