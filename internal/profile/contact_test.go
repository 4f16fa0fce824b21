package profile

import (
	"reflect"
	"testing"
)

func spanTexts(spans []Span) []string {
	texts := make([]string, 0, len(spans))
	for _, s := range spans {
		texts = append(texts, s.Text)
	}
	return texts
}

func TestExtractContact(t *testing.T) {
	tests := []struct {
		name     string
		spans    []Span
		want     ContactInfo
		wantRest []string
	}{
		{
			name: "header and email in separate fragments",
			spans: []Span{
				{Text: `A. Smith - "Senior Consultant"`},
				{Text: "reach me at a.smith@example.com"},
				{Section: SectionExecSummary, Text: "Seasoned delivery lead."},
			},
			want: ContactInfo{
				Name:     "A. Smith",
				JobTitle: "Senior Consultant",
				Email:    "a.smith@example.com",
			},
			wantRest: []string{"Seasoned delivery lead."},
		},
		{
			name: "adjacent header and email both removed",
			spans: []Span{
				{Text: `A. Smith - "Senior Consultant"`},
				{Text: "a.smith@example.com"},
			},
			want: ContactInfo{
				Name:     "A. Smith",
				JobTitle: "Senior Consultant",
				Email:    "a.smith@example.com",
			},
			wantRest: []string{},
		},
		{
			name: "first email wins",
			spans: []Span{
				{Text: "primary: first@example.com"},
				{Text: "second@example.org"},
			},
			want:     ContactInfo{Email: "first@example.com"},
			wantRest: []string{"second@example.org"},
		},
		{
			name: "header takes precedence over email in same fragment",
			spans: []Span{
				{Text: `C. Vega - "Architect" c.vega@example.com`},
			},
			want: ContactInfo{
				Name:     "C. Vega",
				JobTitle: "Architect c.vega@example.com",
			},
			wantRest: []string{},
		},
		{
			name: "only first header consumed",
			spans: []Span{
				{Text: `A. One - "Alpha"`},
				{Text: `B. Two - "Beta"`},
			},
			want:     ContactInfo{Name: "A. One", JobTitle: "Alpha"},
			wantRest: []string{`B. Two - "Beta"`},
		},
		{
			name: "two word surname and curly quotes",
			spans: []Span{
				{Text: "M. van Dyke – “Independent Advisor”"},
			},
			want:     ContactInfo{Name: "M. van Dyke", JobTitle: "Independent Advisor"},
			wantRest: []string{},
		},
		{
			name: "near misses stay in the stream",
			spans: []Span{
				{Text: `a. smith - "lowercase initial"`},
				{Text: "not-an-email@nodot"},
			},
			want:     ContactInfo{},
			wantRest: []string{`a. smith - "lowercase initial"`, "not-an-email@nodot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := extractContact(tt.spans)
			if got != tt.want {
				t.Errorf("contact = %+v, want %+v", got, tt.want)
			}
			if gotRest := spanTexts(rest); !reflect.DeepEqual(gotRest, tt.wantRest) {
				t.Errorf("remaining spans = %q, want %q", gotRest, tt.wantRest)
			}
		})
	}
}
