package profile

// Span is one contiguous text fragment lifted from a source document.
// Section is the heading hint attached by the span source on the first
// fragment after a recognized heading; the zero value means the
// fragment belongs to whatever section is active when it is reached.
type Span struct {
	Section SectionName `json:"section_hint,omitempty"`
	Text    string      `json:"text"`
}

// ContactInfo is the name, job title and email pulled from a
// document's header line and first email-bearing line. An empty field
// means the corresponding line was not found.
type ContactInfo struct {
	Name     string
	JobTitle string
	Email    string
}

// ProjectRecord is one structured entry of the Experience section,
// parsed from a project header line and the detail lines under it.
// Header fields that were missing from the line stay nil; Details is
// never nil so an empty list serializes as [] rather than null.
type ProjectRecord struct {
	Title    *string  `json:"project_title"`
	Position *string  `json:"project_position"`
	Industry *string  `json:"project_industry"`
	Details  []string `json:"project_details"`
}

// SectionEntry pairs a section name with one rendered piece of its
// content: a string for per-value sections, an ordered []string for
// longform sections, or a ProjectRecord for Experience.
type SectionEntry struct {
	Name    SectionName `json:"section_name"`
	Content any         `json:"section_content"`
}

// Document is the normalized output record for one converted profile.
// SourceRef is the caller-supplied reference to the source document
// and serializes as null when absent.
type Document struct {
	SourceRef *string        `json:"sharePointRef"`
	Sections  []SectionEntry `json:"sections"`
}
