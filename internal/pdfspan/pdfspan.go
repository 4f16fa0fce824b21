// Package pdfspan lifts tagged text spans out of PDF slide exports.
// The extraction walk is deliberately forgiving: pages that fail text
// extraction are skipped, and structure recovery is left entirely to
// the profile parser downstream.
package pdfspan

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mazurko/prospekt/internal/profile"
)

// ErrNoSpans is returned when a document yields no text spans at all,
// which usually means a scanned or image-only export.
var ErrNoSpans = errors.New("no text spans in document")

// Extract walks every page of the PDF at path and returns the tagged
// span stream. Rows are read top to bottom, each row becoming one
// span; heading rows are consumed and turned into the section hint on
// the row that follows.
func Extract(path string) ([]profile.Span, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			slog.Warn("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		for _, row := range rows {
			var b strings.Builder
			for _, text := range row.Content {
				b.WriteString(text.S)
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}

	spans := tagLines(lines)
	if len(spans) == 0 {
		return nil, ErrNoSpans
	}
	return spans, nil
}

// tagLines converts heading-delimited lines into spans. A line whose
// text is exactly a recognized section name produces no span of its
// own: it arms a hint that rides on the next content line. Lines seen
// before the first heading are emitted untagged so the contact
// extractor still gets to probe them.
func tagLines(lines []string) []profile.Span {
	var spans []profile.Span
	var pending profile.SectionName
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name, ok := profile.LookupSection(line); ok {
			pending = name
			continue
		}
		spans = append(spans, profile.Span{Section: pending, Text: line})
		pending = ""
	}
	return spans
}
