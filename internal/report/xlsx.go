// Package report builds XLSX exports of stored analyses.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

const sheetName = "Analyses"

var headers = []interface{}{
	"ID", "Filename", "Format", "Overall Score", "Keyword Ratio",
	"Email", "Phone", "LinkedIn", "Warnings", "Created At",
}

// Write streams an XLSX workbook with one row per analysis to w.
func Write(w io.Writer, analyses []*models.Analysis) error {
	f, err := buildWorkbook(analyses)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes an XLSX workbook with one row per analysis to path.
func Save(path string, analyses []*models.Analysis) error {
	f, err := buildWorkbook(analyses)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(analyses []*models.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, analysis := range analyses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		row := analysisRow(analysis)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func analysisRow(analysis *models.Analysis) []interface{} {
	var format string
	if analysis.Resume != nil {
		format = string(analysis.Resume.Format)
	}
	var score interface{}
	if analysis.Score != nil {
		score = analysis.Score.Overall
	}
	var ratio interface{}
	if analysis.Keywords != nil {
		ratio = analysis.Keywords.Ratio
	}
	return []interface{}{
		analysis.ID,
		analysis.Filename,
		format,
		score,
		ratio,
		analysis.Anchors.Email,
		analysis.Anchors.Phone,
		analysis.Anchors.LinkedIn,
		strings.Join(analysis.Warnings, "; "),
		analysis.CreatedAt.Format(time.RFC3339),
	}
}
