// Package search provides full-text search over analyzed resumes.
package search

import "context"

// Document is the indexed view of one analyzed resume. Skills holds the
// text of the skills section when segmentation found one, giving skill
// queries a dedicated field to match.
type Document struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Skills   string `json:"skills,omitempty"`
}

// Hit is a single candidate search result. Callers join IDs against
// storage for the full analysis.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// CandidateIndex defines candidate search operations.
type CandidateIndex interface {
	Index(ctx context.Context, id string, doc *Document) error
	Search(ctx context.Context, query string, limit int) ([]*Hit, error)
	Delete(ctx context.Context, id string) error
	// DocCount returns the total number of indexed resumes.
	DocCount() (uint64, error)
	Close() error
}
