package models

import "testing"

func TestResumeDocumentSection(t *testing.T) {
	doc := &ResumeDocument{
		Sections: []Section{
			{Kind: SectionContact, Text: "jane@example.com"},
			{Kind: SectionSkills, Text: "Go, SQL"},
		},
	}

	text, ok := doc.Section(SectionSkills)
	if !ok || text != "Go, SQL" {
		t.Errorf("Section(skills) = %q, %v", text, ok)
	}
	if _, ok := doc.Section(SectionEducation); ok {
		t.Error("Section(education) should be absent")
	}
}

func TestResumeDocumentSectionKinds(t *testing.T) {
	doc := &ResumeDocument{
		Sections: []Section{
			{Kind: SectionSummary, Text: "a"},
			{Kind: SectionExperience, Text: "b"},
		},
	}
	kinds := doc.SectionKinds()
	if len(kinds) != 2 || kinds[0] != SectionSummary || kinds[1] != SectionExperience {
		t.Errorf("SectionKinds() = %v", kinds)
	}
}

func TestFormatString(t *testing.T) {
	if FormatPDF.String() != "pdf" || FormatDOCX.String() != "docx" {
		t.Error("unexpected format names")
	}
}
