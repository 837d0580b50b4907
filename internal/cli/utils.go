// Package cli provides output formatting for the GetLanded CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnalysis writes one analysis to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnalysis(w io.Writer, analysis *models.Analysis, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	default:
		writeAnalysisText(w, analysis)
		return nil
	}
}

func writeAnalysisText(w io.Writer, analysis *models.Analysis) {
	fmt.Fprintf(w, "id:          %s\n", analysis.ID)
	fmt.Fprintf(w, "filename:    %s\n", analysis.Filename)
	if analysis.Resume != nil {
		fmt.Fprintf(w, "format:      %s\n", analysis.Resume.Format)
		fmt.Fprintf(w, "characters:  %d\n", analysis.Resume.CharCount)
		fmt.Fprintf(w, "sections:    %s\n", sectionKindList(analysis.Resume))
	}
	if analysis.Anchors.Email != "" {
		fmt.Fprintf(w, "email:       %s\n", analysis.Anchors.Email)
	}
	if analysis.Anchors.Phone != "" {
		fmt.Fprintf(w, "phone:       %s\n", analysis.Anchors.Phone)
	}
	if analysis.Anchors.LinkedIn != "" {
		fmt.Fprintf(w, "linkedin:    %s\n", analysis.Anchors.LinkedIn)
	}
	if analysis.Keywords != nil {
		total := len(analysis.Keywords.Matched) + len(analysis.Keywords.Missing)
		fmt.Fprintf(w, "keywords:    %d/%d matched (%.0f%%)\n",
			len(analysis.Keywords.Matched), total, analysis.Keywords.Ratio*100)
		if len(analysis.Keywords.Missing) > 0 {
			fmt.Fprintf(w, "missing:     %s\n", strings.Join(analysis.Keywords.Missing, ", "))
		}
	}
	if analysis.Score != nil {
		cached := ""
		if analysis.Cached {
			cached = "   # served from cache"
		}
		fmt.Fprintf(w, "overall:     %.0f%s\n", analysis.Score.Overall, cached)
		fmt.Fprintf(w, "skills:      %.0f\n", analysis.Score.Skills)
		fmt.Fprintf(w, "experience:  %.0f\n", analysis.Score.Experience)
		fmt.Fprintf(w, "education:   %.0f\n", analysis.Score.Education)
		fmt.Fprintf(w, "formatting:  %.0f\n", analysis.Score.Formatting)
		if analysis.Score.Summary != "" {
			fmt.Fprintf(w, "summary:     %s\n", analysis.Score.Summary)
		}
	}
	for _, warning := range analysis.Warnings {
		fmt.Fprintf(w, "warning:     %s\n", warning)
	}
}

// WriteResume writes a parsed resume to w in the given format.
func WriteResume(w io.Writer, resume *models.ResumeDocument, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resume)
	default:
		writeResumeText(w, resume)
		return nil
	}
}

func writeResumeText(w io.Writer, resume *models.ResumeDocument) {
	fmt.Fprintf(w, "filename:    %s\n", resume.Filename)
	fmt.Fprintf(w, "format:      %s\n", resume.Format)
	fmt.Fprintf(w, "characters:  %d\n", resume.CharCount)
	fmt.Fprintf(w, "sections:    %s\n", sectionKindList(resume))
	meta := resume.Metadata
	if meta.HasTables || meta.HasImages || meta.HasMultiColumn {
		fmt.Fprintf(w, "layout:      tables=%t images=%t multi_column=%t\n",
			meta.HasTables, meta.HasImages, meta.HasMultiColumn)
	}
	for _, section := range resume.Sections {
		fmt.Fprintf(w, "\n[%s]\n%s\n", section.Kind, section.Text)
	}
}

func sectionKindList(resume *models.ResumeDocument) string {
	kinds := resume.SectionKinds()
	if len(kinds) == 0 {
		return "none detected"
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
