package profile

import (
	"regexp"
	"strings"
)

var (
	// projectHeaderRe matches project header lines of the shape
	// `Title - Position - Industry`: three dash-separated fields of
	// whitespace-separated words, first word capitalized.
	projectHeaderRe = regexp.MustCompile(`^[A-Z][a-z]*(?:\s+\w+)*\s*[-–—]\s*\w+(?:\s\w+)*\s*[-–—]\s*\w+(?:\s\w+)*`)

	leadingBulletRe = regexp.MustCompile(`^•\s*`)
)

// segmentExperience re-parses aggregated Experience lines into ordered
// project records. Every header line opens a fresh record, so detail
// lines attach to exactly the header they follow. Lines arriving
// before any header cannot be attributed to a project and are returned
// separately for the caller to flag.
func segmentExperience(lines []string) (projects []ProjectRecord, leading []string) {
	openIdx := -1
	for _, line := range lines {
		// Bullet markers are presentation, not structure: a header
		// rendered as a bullet point is still a header.
		line = strings.TrimSpace(leadingBulletRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		if projectHeaderRe.MatchString(line) {
			projects = append(projects, parseProjectHeader(line))
			openIdx = len(projects) - 1
			continue
		}
		if openIdx < 0 {
			leading = append(leading, line)
			continue
		}
		projects[openIdx].Details = append(projects[openIdx].Details, line)
	}
	return projects, leading
}

// parseProjectHeader splits a header line into its three fields. A
// third dash keeps trailing dashes inside the industry field, and a
// short line leaves the missing fields nil instead of failing the
// segmentation.
func parseProjectHeader(line string) ProjectRecord {
	parts := dashSplitRe.Split(line, 3)
	field := func(i int) *string {
		if i >= len(parts) {
			return nil
		}
		s := strings.TrimSpace(parts[i])
		if s == "" {
			return nil
		}
		return &s
	}
	return ProjectRecord{
		Title:    field(0),
		Position: field(1),
		Industry: field(2),
		Details:  []string{},
	}
}
