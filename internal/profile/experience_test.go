package profile

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSegmentExperience(t *testing.T) {
	lines := []string{
		"Alpha - Lead - Finance",
		"• Built the data platform",
		"Migrated reporting to the new stack",
		"• Beta Project – Consultant — Retail",
		"Rolled out point of sale integrations",
	}

	projects, leading := segmentExperience(lines)
	if len(leading) != 0 {
		t.Fatalf("leading lines = %q, want none", leading)
	}
	want := []ProjectRecord{
		{
			Title:    strPtr("Alpha"),
			Position: strPtr("Lead"),
			Industry: strPtr("Finance"),
			Details:  []string{"Built the data platform", "Migrated reporting to the new stack"},
		},
		{
			Title:    strPtr("Beta Project"),
			Position: strPtr("Consultant"),
			Industry: strPtr("Retail"),
			Details:  []string{"Rolled out point of sale integrations"},
		},
	}
	if !reflect.DeepEqual(projects, want) {
		t.Errorf("projects = %+v, want %+v", projects, want)
	}
}

func TestSegmentExperienceLeadingLines(t *testing.T) {
	lines := []string{
		"assorted engagements before 2015",
		"• more unattributed work",
		"Gamma - Analyst - Energy",
		"Modeled grid load scenarios",
	}

	projects, leading := segmentExperience(lines)
	wantLeading := []string{"assorted engagements before 2015", "more unattributed work"}
	if !reflect.DeepEqual(leading, wantLeading) {
		t.Errorf("leading = %q, want %q", leading, wantLeading)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if got, want := projects[0].Details, []string{"Modeled grid load scenarios"}; !reflect.DeepEqual(got, want) {
		t.Errorf("details = %q, want %q", got, want)
	}
}

func TestSegmentExperienceEmptyDetails(t *testing.T) {
	projects, _ := segmentExperience([]string{"Delta - Engineer - Telecom"})
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0].Details == nil {
		t.Error("Details is nil, want empty slice")
	}
	if len(projects[0].Details) != 0 {
		t.Errorf("Details = %q, want empty", projects[0].Details)
	}
}

func TestSegmentExperienceNoHeaders(t *testing.T) {
	lines := []string{"only narrative text", "nothing header shaped"}
	projects, leading := segmentExperience(lines)
	if len(projects) != 0 {
		t.Errorf("projects = %+v, want none", projects)
	}
	if !reflect.DeepEqual(leading, lines) {
		t.Errorf("leading = %q, want %q", leading, lines)
	}
}

func TestParseProjectHeader(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ProjectRecord
	}{
		{
			name: "three fields",
			line: "Alpha - Lead - Finance",
			want: ProjectRecord{
				Title:    strPtr("Alpha"),
				Position: strPtr("Lead"),
				Industry: strPtr("Finance"),
				Details:  []string{},
			},
		},
		{
			name: "missing industry stays nil",
			line: "Alpha - Lead",
			want: ProjectRecord{
				Title:    strPtr("Alpha"),
				Position: strPtr("Lead"),
				Details:  []string{},
			},
		},
		{
			name: "extra dashes stay inside the industry field",
			line: "Alpha - Lead - Finance - Risk",
			want: ProjectRecord{
				Title:    strPtr("Alpha"),
				Position: strPtr("Lead"),
				Industry: strPtr("Finance - Risk"),
				Details:  []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseProjectHeader(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseProjectHeader(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
