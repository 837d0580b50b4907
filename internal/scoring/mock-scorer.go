package scoring

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// MockScorer is a deterministic scorer for tests. It derives scores from a
// hash of the resume text and job description so that the same pair always
// gets the same report.
type MockScorer struct {
	// Err, when set, is returned from every Score call.
	Err error
}

// NewMockScorer returns a scorer that produces deterministic reports.
func NewMockScorer() *MockScorer {
	return &MockScorer{}
}

// Score returns a deterministic report based on the input hash.
func (s *MockScorer) Score(ctx context.Context, resume *models.ResumeDocument, jobDescription string) (*models.ScoreReport, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	h := fnv.New32a()
	h.Write([]byte(resume.Text))
	h.Write([]byte{0})
	h.Write([]byte(jobDescription))
	sum := h.Sum32()

	score := func(offset uint32) float64 {
		return float64((sum>>offset)%51) + 50
	}
	report := &models.ScoreReport{
		Overall:      score(0),
		Skills:       score(4),
		Experience:   score(8),
		Education:    score(12),
		Formatting:   score(16),
		Strengths:    []string{"clear section structure"},
		Improvements: []string{"add measurable outcomes"},
		Summary:      fmt.Sprintf("Deterministic mock evaluation of %q.", resume.Filename),
	}
	return report, nil
}

// Model identifies the mock scorer.
func (s *MockScorer) Model() string { return "mock" }

// Close is a no-op for MockScorer.
func (s *MockScorer) Close() error { return nil }
