package profile

// SectionName identifies one of the fixed categories a profile
// document is organized into. The set is closed: heading text that
// does not exactly match one of these names never changes what
// section following fragments land in.
type SectionName string

const (
	SectionNameField     SectionName = "Name"
	SectionEmail         SectionName = "Email"
	SectionJobTitle      SectionName = "Job Title"
	SectionExecSummary   SectionName = "Executive Summary"
	SectionTechExpertise SectionName = "Technical Expertise"
	SectionFuncExpertise SectionName = "Functional Expertise"
	SectionExperience    SectionName = "Experience"
	SectionMobility      SectionName = "Mobility"
	SectionIndustries    SectionName = "Industry Sectors"
	SectionLanguages     SectionName = "Languages Spoken"
	SectionCerts         SectionName = "Certifications"
	SectionMethodologies SectionName = "Methodologies"
)

// SectionOrder lists every recognized section in the order entries
// appear in an assembled document.
var SectionOrder = []SectionName{
	SectionNameField,
	SectionEmail,
	SectionJobTitle,
	SectionExecSummary,
	SectionTechExpertise,
	SectionFuncExpertise,
	SectionExperience,
	SectionMobility,
	SectionIndustries,
	SectionLanguages,
	SectionCerts,
	SectionMethodologies,
}

// longformSections render as a single entry holding the section's full
// ordered value list. Everything else emits one entry per value.
var longformSections = map[SectionName]bool{
	SectionNameField:   true,
	SectionEmail:       true,
	SectionJobTitle:    true,
	SectionExecSummary: true,
	SectionMobility:    true,
}

// bulletSections hold one item per value and are the targets of the
// optional bullet normalization pass.
var bulletSections = map[SectionName]bool{
	SectionTechExpertise: true,
	SectionFuncExpertise: true,
	SectionIndustries:    true,
	SectionLanguages:     true,
	SectionCerts:         true,
	SectionMethodologies: true,
}

var recognizedSections = func() map[SectionName]bool {
	m := make(map[SectionName]bool, len(SectionOrder))
	for _, name := range SectionOrder {
		m[name] = true
	}
	return m
}()

// Recognized reports whether n is one of the fixed section names.
func (n SectionName) Recognized() bool { return recognizedSections[n] }

// Longform reports whether the section renders as one combined entry
// instead of one entry per value.
func (n SectionName) Longform() bool { return longformSections[n] }

// LookupSection maps exact heading text to its section name. Only
// verbatim matches count; prefixes, suffixes and case variants are
// ordinary content.
func LookupSection(text string) (SectionName, bool) {
	name := SectionName(text)
	return name, recognizedSections[name]
}
