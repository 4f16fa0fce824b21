// Package profile converts tagged span streams lifted from profile
// slide exports into normalized documents under a fixed section
// taxonomy.
package profile

import "log/slog"

// Parser turns span streams into normalized profile documents.
type Parser struct {
	// BulletNormalization enables the optional cleanup pass that
	// splits bullet-section values on "•" and strips the markers from
	// longform text. Off by default: exports that use markers as plain
	// punctuation lose content when the pass runs.
	BulletNormalization bool

	logger *slog.Logger
}

// NewParser returns a Parser with bullet normalization disabled.
func NewParser() *Parser {
	return &Parser{logger: slog.Default()}
}

// Parse converts a span stream into a normalized document. ref is the
// caller's reference to the source document and may be empty. Parse
// never fails: malformed input degrades to whatever structure can
// still be recovered, down to a document with no sections at all.
func (p *Parser) Parse(spans []Span, ref string) *Document {
	contact, rest := extractContact(spans)
	sections := aggregate(rest)

	// Contact sections never come from aggregation: whatever fragments
	// landed under these three headings is replaced wholesale.
	setContactValue(sections, SectionNameField, contact.Name)
	setContactValue(sections, SectionEmail, contact.Email)
	setContactValue(sections, SectionJobTitle, contact.JobTitle)

	projects, leading := segmentExperience(sections[SectionExperience])
	if len(leading) > 0 {
		p.log().Warn("dropping experience lines that precede the first project header",
			"count", len(leading))
	}

	if p.BulletNormalization {
		normalizeBullets(sections)
	}

	doc := &Document{Sections: assemble(sections, projects)}
	if ref != "" {
		doc.SourceRef = &ref
	}
	return doc
}

func (p *Parser) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

func setContactValue(sections map[SectionName][]string, name SectionName, value string) {
	delete(sections, name)
	if value != "" {
		sections[name] = []string{value}
	}
}
