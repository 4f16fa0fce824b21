package profile

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func TestParserParse(t *testing.T) {
	spans := []Span{
		{Text: `A. Smith - "Senior Consultant"`},
		{Text: "a.smith@example.com"},
		{Section: SectionExecSummary, Text: "Seasoned delivery lead."},
		{Text: "Fifteen years across finance and retail."},
		{Section: SectionTechExpertise, Text: "Go"},
		{Text: "PostgreSQL"},
		{Text: "Kubernetes"},
		{Section: SectionExperience, Text: "Alpha - Lead - Finance"},
		{Text: "• Built the data platform"},
		{Section: SectionLanguages, Text: "English"},
		{Text: "Dutch"},
	}

	doc := NewParser().Parse(spans, "sites/ops/profiles/a-smith.pdf")

	if doc.SourceRef == nil || *doc.SourceRef != "sites/ops/profiles/a-smith.pdf" {
		t.Errorf("SourceRef = %v, want sites/ops/profiles/a-smith.pdf", doc.SourceRef)
	}
	want := []SectionEntry{
		{Name: SectionNameField, Content: []string{"A. Smith"}},
		{Name: SectionEmail, Content: []string{"a.smith@example.com"}},
		{Name: SectionJobTitle, Content: []string{"Senior Consultant"}},
		{Name: SectionExecSummary, Content: []string{
			"Seasoned delivery lead.",
			"Fifteen years across finance and retail.",
		}},
		{Name: SectionTechExpertise, Content: "Go"},
		{Name: SectionTechExpertise, Content: "PostgreSQL"},
		{Name: SectionTechExpertise, Content: "Kubernetes"},
		{Name: SectionExperience, Content: ProjectRecord{
			Title:    strPtr("Alpha"),
			Position: strPtr("Lead"),
			Industry: strPtr("Finance"),
			Details:  []string{"Built the data platform"},
		}},
		{Name: SectionLanguages, Content: "English"},
		{Name: SectionLanguages, Content: "Dutch"},
	}
	if !reflect.DeepEqual(doc.Sections, want) {
		t.Errorf("sections = %+v, want %+v", doc.Sections, want)
	}
}

func TestParserParseDeterministic(t *testing.T) {
	spans := []Span{
		{Section: SectionCerts, Text: "CISSP"},
		{Section: SectionMethodologies, Text: "Scrum"},
		{Section: SectionIndustries, Text: "Banking"},
		{Section: SectionCerts, Text: "PMP"},
	}
	p := NewParser()
	first := p.Parse(spans, "ref")
	for i := 0; i < 20; i++ {
		if next := p.Parse(spans, "ref"); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, next)
		}
	}
}

func TestParserParseEmptyStream(t *testing.T) {
	doc := NewParser().Parse(nil, "")
	if doc.SourceRef != nil {
		t.Errorf("SourceRef = %q, want nil", *doc.SourceRef)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("sections = %+v, want none", doc.Sections)
	}
}

func TestParserContactOverwrite(t *testing.T) {
	spans := []Span{
		{Section: SectionNameField, Text: "Placeholder Johnson"},
		{Text: `R. Keller - "Program Director"`},
	}
	doc := NewParser().Parse(spans, "")
	want := []SectionEntry{
		{Name: SectionNameField, Content: []string{"R. Keller"}},
		{Name: SectionJobTitle, Content: []string{"Program Director"}},
	}
	if !reflect.DeepEqual(doc.Sections, want) {
		t.Errorf("sections = %+v, want %+v", doc.Sections, want)
	}
}

func TestParserContactAbsentWithoutHeader(t *testing.T) {
	spans := []Span{
		{Section: SectionNameField, Text: "Placeholder Johnson"},
		{Section: SectionJobTitle, Text: "Placeholder Title"},
	}
	doc := NewParser().Parse(spans, "")
	if len(doc.Sections) != 0 {
		t.Errorf("sections = %+v, want none", doc.Sections)
	}
}

func TestParserDropsLeadingExperienceLines(t *testing.T) {
	p := NewParser()
	p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	spans := []Span{
		{Section: SectionExperience, Text: "unattributed narrative"},
		{Text: "Alpha - Lead - Finance"},
		{Text: "Shipped the first release"},
	}
	doc := p.Parse(spans, "")
	want := []SectionEntry{
		{Name: SectionExperience, Content: ProjectRecord{
			Title:    strPtr("Alpha"),
			Position: strPtr("Lead"),
			Industry: strPtr("Finance"),
			Details:  []string{"Shipped the first release"},
		}},
	}
	if !reflect.DeepEqual(doc.Sections, want) {
		t.Errorf("sections = %+v, want %+v", doc.Sections, want)
	}
}

func TestParserBulletNormalization(t *testing.T) {
	spans := []Span{
		{Section: SectionTechExpertise, Text: "Go • Docker • Terraform"},
		{Section: SectionMobility, Text: "• Willing to relocate"},
	}

	t.Run("off by default", func(t *testing.T) {
		doc := NewParser().Parse(spans, "")
		want := []SectionEntry{
			{Name: SectionTechExpertise, Content: "Go • Docker • Terraform"},
			{Name: SectionMobility, Content: []string{"• Willing to relocate"}},
		}
		if !reflect.DeepEqual(doc.Sections, want) {
			t.Errorf("sections = %+v, want %+v", doc.Sections, want)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		p := NewParser()
		p.BulletNormalization = true
		doc := p.Parse(spans, "")
		want := []SectionEntry{
			{Name: SectionTechExpertise, Content: "Go"},
			{Name: SectionTechExpertise, Content: "Docker"},
			{Name: SectionTechExpertise, Content: "Terraform"},
			{Name: SectionMobility, Content: []string{"Willing to relocate"}},
		}
		if !reflect.DeepEqual(doc.Sections, want) {
			t.Errorf("sections = %+v, want %+v", doc.Sections, want)
		}
	})
}

func TestDocumentJSON(t *testing.T) {
	t.Run("absent ref serializes as null", func(t *testing.T) {
		doc := &Document{Sections: []SectionEntry{
			{Name: SectionCerts, Content: "AWS Solutions Architect"},
		}}
		got, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"sharePointRef":null,"sections":[{"section_name":"Certifications","section_content":"AWS Solutions Architect"}]}`
		if string(got) != want {
			t.Errorf("json = %s, want %s", got, want)
		}
	})

	t.Run("project record shape", func(t *testing.T) {
		ref := "sites/ops/profile.pdf"
		doc := &Document{
			SourceRef: &ref,
			Sections: []SectionEntry{
				{Name: SectionExperience, Content: ProjectRecord{
					Title:   strPtr("Alpha"),
					Details: []string{},
				}},
			},
		}
		got, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"sharePointRef":"sites/ops/profile.pdf","sections":[{"section_name":"Experience","section_content":{"project_title":"Alpha","project_position":null,"project_industry":null,"project_details":[]}}]}`
		if string(got) != want {
			t.Errorf("json = %s, want %s", got, want)
		}
	})
}
