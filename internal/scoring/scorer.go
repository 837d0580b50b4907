// Package scoring evaluates parsed resumes against job descriptions with a
// remote LLM. The deterministic pipeline never depends on it: a nil Scorer
// simply leaves analyses unscored.
package scoring

import (
	"context"
	"fmt"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// Scorer produces a ScoreReport for a parsed resume against a job description.
type Scorer interface {
	Score(ctx context.Context, resume *models.ResumeDocument, jobDescription string) (*models.ScoreReport, error)
	// Model returns the underlying model name, for status reporting.
	Model() string
	// Close releases any resources held by the scorer.
	Close() error
}

// ScoreError reports a scoring failure and the stage it happened in.
type ScoreError struct {
	Stage string // "generate", "response" or "parse"
	Err   error
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("score resume (%s): %v", e.Stage, e.Err)
}

func (e *ScoreError) Unwrap() error { return e.Err }
