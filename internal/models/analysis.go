package models

import "time"

// ScoreReport is the LLM evaluation of a resume against a job description.
// All scores are on a 0-100 scale.
type ScoreReport struct {
	Overall      float64  `json:"overall"`
	Skills       float64  `json:"skills"`
	Experience   float64  `json:"experience"`
	Education    float64  `json:"education"`
	Formatting   float64  `json:"formatting"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// KeywordReport is the deterministic keyword overlap between a job
// description and resume text.
type KeywordReport struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Ratio   float64  `json:"ratio"`
}

// AnchorFields are contact anchors located in the resume text. Empty values
// mean the anchor was not found.
type AnchorFields struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Analysis is one stored resume-versus-job evaluation.
type Analysis struct {
	ID             string          `json:"id" db:"id"`
	Filename       string          `json:"filename" db:"filename"`
	FileSize       int64           `json:"file_size" db:"file_size"`
	JobDescription string          `json:"job_description" db:"job_description"`
	Resume         *ResumeDocument `json:"resume"`
	Keywords       *KeywordReport  `json:"keywords,omitempty"`
	Anchors        AnchorFields    `json:"anchors"`
	Warnings       []string        `json:"warnings,omitempty"`
	Score          *ScoreReport    `json:"score,omitempty"`
	Cached         bool            `json:"cached"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
