package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the plain text of every page of an uploaded resume PDF.
// The reader recovers text runs only, not layout: multi-column resumes can
// come back with body text ahead of the contact block, which the header
// reorder step downstream repairs. A reader or page failure fails the whole
// document; there is no partial extraction.
func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("resume is not a readable PDF: %w", err)
	}
	pages := make([]string, 0, r.NumPage())
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("resume page %d unreadable: %w", n, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
