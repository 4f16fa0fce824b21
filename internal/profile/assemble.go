package profile

import (
	"regexp"
	"strings"
)

var bulletMarkRe = regexp.MustCompile(`•\s*`)

// assemble renders sections into the output entry list in declaration
// order: longform sections emit a single entry carrying their whole
// value list, Experience emits one entry per project record, and every
// other section emits one entry per value. Sections with nothing left
// are omitted entirely.
func assemble(sections map[SectionName][]string, projects []ProjectRecord) []SectionEntry {
	var entries []SectionEntry
	for _, name := range SectionOrder {
		if name == SectionExperience {
			for _, rec := range projects {
				entries = append(entries, SectionEntry{Name: name, Content: rec})
			}
			continue
		}
		values := sections[name]
		if len(values) == 0 {
			continue
		}
		if name.Longform() {
			entries = append(entries, SectionEntry{Name: name, Content: values})
			continue
		}
		for _, v := range values {
			entries = append(entries, SectionEntry{Name: name, Content: v})
		}
	}
	return entries
}

// normalizeBullets is the optional cleanup pass: values in bullet
// sections are split on "•" into separate values, longform text has
// the markers stripped in place. Values emptied by either rewrite are
// discarded.
func normalizeBullets(sections map[SectionName][]string) {
	for name, values := range sections {
		var rewritten []string
		switch {
		case bulletSections[name]:
			for _, v := range values {
				for _, part := range strings.Split(v, "•") {
					if part = strings.TrimSpace(part); part != "" {
						rewritten = append(rewritten, part)
					}
				}
			}
		case longformSections[name]:
			for _, v := range values {
				if v = strings.TrimSpace(bulletMarkRe.ReplaceAllString(v, "")); v != "" {
					rewritten = append(rewritten, v)
				}
			}
		default:
			continue
		}
		sections[name] = rewritten
	}
}
