package pdfspan

import (
	"reflect"
	"testing"

	"github.com/mazurko/prospekt/internal/profile"
)

func TestTagLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []profile.Span
	}{
		{
			name: "heading arms a one-shot hint",
			lines: []string{
				"Technical Expertise",
				"Go",
				"PostgreSQL",
			},
			want: []profile.Span{
				{Section: profile.SectionTechExpertise, Text: "Go"},
				{Text: "PostgreSQL"},
			},
		},
		{
			name: "lines before the first heading stay untagged",
			lines: []string{
				`A. Smith - "Senior Consultant"`,
				"a.smith@example.com",
				"Executive Summary",
				"Delivery lead.",
			},
			want: []profile.Span{
				{Text: `A. Smith - "Senior Consultant"`},
				{Text: "a.smith@example.com"},
				{Section: profile.SectionExecSummary, Text: "Delivery lead."},
			},
		},
		{
			name: "consecutive headings keep only the last",
			lines: []string{
				"Experience",
				"Languages Spoken",
				"English",
			},
			want: []profile.Span{
				{Section: profile.SectionLanguages, Text: "English"},
			},
		},
		{
			name: "heading match is exact",
			lines: []string{
				"EXPERIENCE",
				"Technical Expertise and more",
			},
			want: []profile.Span{
				{Text: "EXPERIENCE"},
				{Text: "Technical Expertise and more"},
			},
		},
		{
			name:  "blank lines are skipped",
			lines: []string{"", "Mobility", "   ", "Open to travel"},
			want: []profile.Span{
				{Section: profile.SectionMobility, Text: "Open to travel"},
			},
		},
		{
			name:  "no content",
			lines: []string{"Experience"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tagLines(tt.lines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tagLines() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract("testdata/does-not-exist.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
