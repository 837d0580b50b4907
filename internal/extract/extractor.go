// Package extract provides text and structure extraction from resume files.
package extract

import (
	"strings"
	"sync"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// Detect classifies a filename by extension. Only PDF is positively
// identified (case-insensitive ".pdf" suffix); everything else is treated as
// DOCX. The decision is binary and never fails: bytes that are not actually
// OOXML surface as an ExtractionError when the zip is opened.
func Detect(filename string) models.Format {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return models.FormatPDF
	}
	return models.FormatDOCX
}

// Extractor extracts plain text and structural metadata from resume bytes.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

var defaultExtractor = sync.OnceValue(NewExtractor)

// Default returns the shared process-wide Extractor, created on first use.
func Default() *Extractor {
	return defaultExtractor()
}

// ExtractText extracts plain text from content for the given format.
// Failures are wrapped in an ExtractionError; no partial text is returned.
func (e *Extractor) ExtractText(content []byte, format models.Format) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case models.FormatPDF:
		text, err = extractPDF(content)
	default:
		text, err = extractDOCXText(content)
	}
	if err != nil {
		return "", &ExtractionError{Format: format, Err: err}
	}
	return text, nil
}

// ScanStructure probes content for layout traits that degrade automated
// resume parsing (tables, images, multi-column sections). Only the DOCX
// format carries recoverable structure; for PDF the zero value is returned.
// Callers treat a scan error as non-fatal: text extraction stands on its own.
func (e *Extractor) ScanStructure(content []byte, format models.Format) (models.ExtractionMetadata, error) {
	if format != models.FormatDOCX {
		return models.ExtractionMetadata{}, nil
	}
	return scanDOCXStructure(content)
}
