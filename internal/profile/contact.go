package profile

import (
	"regexp"
	"strings"
)

var (
	// headerRe matches contact header lines of the shape
	// `J. Smith - "Senior Consultant"`: one capitalized initial with a
	// period, one or two capitalized words, a dash separator, then a
	// quoted phrase. Straight and curly quote variants all count.
	headerRe = regexp.MustCompile(`^[A-Z]\.\s[A-Za-z]+(?:\s[A-Za-z]+)?\s[-–—]\s["“”].+?["“”]`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// dashSplitRe splits on any dash variant with optional surrounding
	// whitespace. Shared by the contact header and project header
	// parsers.
	dashSplitRe = regexp.MustCompile(`\s*[-–—]\s*`)

	quoteRe = regexp.MustCompile(`["“”]`)
)

// extractContact locates the first header-shaped fragment and the
// first email-bearing fragment in the stream, parses them into a
// ContactInfo, and returns the remaining spans with exactly those
// fragments removed and everything else in its original order.
//
// Location and removal are separate passes so that removing one
// fragment never causes its neighbour to be skipped. A fragment that
// matches the header pattern is consumed as the header even when it
// also contains an email address.
func extractContact(spans []Span) (ContactInfo, []Span) {
	var info ContactInfo
	headerIdx, emailIdx := -1, -1

	for i, span := range spans {
		if headerIdx < 0 && headerRe.MatchString(span.Text) {
			headerIdx = i
			continue
		}
		if emailIdx < 0 {
			if addr := emailRe.FindString(span.Text); addr != "" {
				emailIdx = i
				info.Email = addr
			}
		}
	}

	if headerIdx >= 0 {
		parts := dashSplitRe.Split(spans[headerIdx].Text, 2)
		info.Name = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			info.JobTitle = strings.TrimSpace(quoteRe.ReplaceAllString(parts[1], ""))
		}
	}

	if headerIdx < 0 && emailIdx < 0 {
		return info, spans
	}
	rest := make([]Span, 0, len(spans))
	for i, span := range spans {
		if i == headerIdx || i == emailIdx {
			continue
		}
		rest = append(rest, span)
	}
	return info, rest
}
