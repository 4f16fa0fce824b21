package profile

import "strings"

// aggregate folds the span stream into per-section value lists. The
// section cursor lives here and nowhere else: a span carrying a
// recognized hint moves it, any other span leaves it in place, and
// fragments seen before the first recognized heading are dropped.
// Values keep stream order; whitespace-only fragments are discarded.
func aggregate(spans []Span) map[SectionName][]string {
	sections := make(map[SectionName][]string)
	var current SectionName
	for _, span := range spans {
		if span.Section.Recognized() {
			current = span.Section
		}
		text := strings.TrimSpace(span.Text)
		if text == "" || current == "" {
			continue
		}
		sections[current] = append(sections[current], text)
	}
	return sections
}
