package textproc

import (
	"strings"
	"testing"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

func TestSegmentBasic(t *testing.T) {
	text := "CONTACT\njane@x.com\nSUMMARY\nExperienced dev\nSKILLS\nGo, Python"
	sections := Segment(text)

	want := []models.Section{
		{Kind: models.SectionContact, Text: "jane@x.com"},
		{Kind: models.SectionSummary, Text: "Experienced dev"},
		{Kind: models.SectionSkills, Text: "Go, Python"},
	}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections (%v), want %d", len(sections), sections, len(want))
	}
	for i, w := range want {
		if sections[i] != w {
			t.Errorf("section %d = %+v, want %+v", i, sections[i], w)
		}
	}
}

func TestSegmentHeaderVariants(t *testing.T) {
	cases := []struct {
		header string
		want   models.SectionKind
	}{
		{"Contact Information", models.SectionContact},
		{"PROFESSIONAL SUMMARY", models.SectionSummary},
		{"Career Summary", models.SectionSummary},
		{"Objective", models.SectionSummary},
		{"Profile", models.SectionSummary},
		{"Professional Experience", models.SectionExperience},
		{"WORK EXPERIENCE", models.SectionExperience},
		{"Employment History", models.SectionExperience},
		{"employment", models.SectionExperience},
		{"Education", models.SectionEducation},
		{"Academic Background", models.SectionEducation},
		{"Qualifications", models.SectionEducation},
		{"Technical Skills", models.SectionSkills},
		{"Core Competencies", models.SectionSkills},
		{"skills", models.SectionSkills},
	}
	for _, tc := range cases {
		sections := Segment(tc.header + "\nsome body text")
		if len(sections) != 1 || sections[0].Kind != tc.want {
			t.Errorf("header %q -> %v, want single %v section", tc.header, sections, tc.want)
		}
	}
}

func TestSegmentPriorityOrder(t *testing.T) {
	// "Professional Experience" must open experience even though "summary"
	// and "experience" patterns share words with other headers.
	sections := Segment("PROFESSIONAL EXPERIENCE\nShipped things")
	if len(sections) != 1 || sections[0].Kind != models.SectionExperience {
		t.Fatalf("got %v", sections)
	}
}

func TestSegmentDiscardsPreamble(t *testing.T) {
	text := "Jane Doe\njane@x.com\nEXPERIENCE\nBuilt systems"
	sections := Segment(text)
	if len(sections) != 1 {
		t.Fatalf("got %v", sections)
	}
	if sections[0].Kind != models.SectionExperience || sections[0].Text != "Built systems" {
		t.Errorf("got %+v", sections[0])
	}
	for _, s := range sections {
		if strings.Contains(s.Text, "Jane Doe") {
			t.Error("preamble leaked into a section")
		}
	}
}

func TestSegmentHeaderLineNotInBody(t *testing.T) {
	sections := Segment("SKILLS\nGo\nSQL")
	if len(sections) != 1 {
		t.Fatalf("got %v", sections)
	}
	if strings.Contains(sections[0].Text, "SKILLS") {
		t.Errorf("header line leaked into body: %q", sections[0].Text)
	}
	if sections[0].Text != "Go\nSQL" {
		t.Errorf("got %q", sections[0].Text)
	}
}

func TestSegmentDropsBlankLinesInsideBody(t *testing.T) {
	// Normalization collapses runs of blank lines to one, so a single blank
	// can sit between body lines; it must not survive into the section text.
	sections := Segment("EDUCATION\nBA Math\n\nMS Physics\nSKILLS\nGo")
	if len(sections) != 2 {
		t.Fatalf("got %v", sections)
	}
	if sections[0].Kind != models.SectionEducation || sections[0].Text != "BA Math\nMS Physics" {
		t.Errorf("education = %+v, want body without the blank line", sections[0])
	}
	if sections[1].Kind != models.SectionSkills || sections[1].Text != "Go" {
		t.Errorf("skills = %+v", sections[1])
	}
}

func TestSegmentBlankOnlyBodyIsOmitted(t *testing.T) {
	sections := Segment("SKILLS\n\nEDUCATION\nBS in CS")
	if len(sections) != 1 {
		t.Fatalf("got %v", sections)
	}
	if sections[0].Kind != models.SectionEducation {
		t.Errorf("got %+v", sections[0])
	}
}

func TestSegmentOmitsEmptySections(t *testing.T) {
	// SKILLS opens and immediately transitions: nothing accumulated.
	sections := Segment("SKILLS\nEDUCATION\nBS in CS")
	if len(sections) != 1 {
		t.Fatalf("got %v", sections)
	}
	if sections[0].Kind != models.SectionEducation || sections[0].Text != "BS in CS" {
		t.Errorf("got %+v", sections[0])
	}
}

func TestSegmentRepeatedKindAccumulates(t *testing.T) {
	sections := Segment("SKILLS\nGo\nEDUCATION\nBS\nSKILLS\nPython")
	if len(sections) != 2 {
		t.Fatalf("got %v", sections)
	}
	if sections[0].Kind != models.SectionSkills || sections[0].Text != "Go\nPython" {
		t.Errorf("skills = %+v", sections[0])
	}
	if sections[1].Kind != models.SectionEducation || sections[1].Text != "BS" {
		t.Errorf("education = %+v", sections[1])
	}
}

func TestSegmentMidLineWordIsNotHeader(t *testing.T) {
	text := "EXPERIENCE\nUsed many skills on the job\nImproved education programs"
	sections := Segment(text)
	if len(sections) != 1 || sections[0].Kind != models.SectionExperience {
		t.Fatalf("got %v", sections)
	}
	if sections[0].Text != "Used many skills on the job\nImproved education programs" {
		t.Errorf("got %q", sections[0].Text)
	}
}

func TestSegmentNoHeaders(t *testing.T) {
	if sections := Segment("Just one paragraph of prose with no recognizable headers"); len(sections) != 0 {
		t.Errorf("got %v, want none", sections)
	}
}

func TestSegmentFlushesAtEOF(t *testing.T) {
	sections := Segment("EDUCATION\nBS in CS\nMS in CS")
	if len(sections) != 1 || sections[0].Text != "BS in CS\nMS in CS" {
		t.Errorf("got %v", sections)
	}
}
