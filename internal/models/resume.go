// Package models defines core data structures for resumes, analyses, and reports.
package models

// Format identifies the source format of an uploaded resume.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// String returns the lowercase format name.
func (f Format) String() string { return string(f) }

// SectionKind names a recognized resume section.
type SectionKind string

const (
	SectionContact    SectionKind = "contact"
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
)

// RawDocument is an uploaded resume as received: a filename plus raw bytes.
// The filename is only used for format detection and display; content is
// never written to disk by the pipeline.
type RawDocument struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Content  []byte `json:"-"`
}

// ExtractionMetadata records structural traits observed in the source file.
// Only DOCX extraction populates it; the PDF path reports the zero value.
type ExtractionMetadata struct {
	HasTables      bool `json:"has_tables"`
	HasImages      bool `json:"has_images"`
	HasMultiColumn bool `json:"has_multi_column"`
	ColumnCount    int  `json:"column_count"`
}

// Section is one recognized resume section. Order in ResumeDocument.Sections
// is first-detection order.
type Section struct {
	Kind SectionKind `json:"kind"`
	Text string      `json:"text"`
}

// ResumeDocument is the pipeline output: normalized full text plus the
// recognized sections and extraction metadata. FileSize is the declared size
// of the uploaded file, carried through from the raw document.
type ResumeDocument struct {
	Filename  string             `json:"filename"`
	FileSize  int64              `json:"file_size"`
	Format    Format             `json:"format"`
	Text      string             `json:"text"`
	Sections  []Section          `json:"sections"`
	Metadata  ExtractionMetadata `json:"metadata"`
	CharCount int                `json:"char_count"`
}

// Section returns the text of the section of the given kind, if present.
func (d *ResumeDocument) Section(kind SectionKind) (string, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s.Text, true
		}
	}
	return "", false
}

// SectionKinds returns the detected section kinds in order.
func (d *ResumeDocument) SectionKinds() []SectionKind {
	kinds := make([]SectionKind, len(d.Sections))
	for i, s := range d.Sections {
		kinds[i] = s.Kind
	}
	return kinds
}
