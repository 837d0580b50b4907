// Package match computes deterministic keyword and contact-anchor signals
// for a resume against a job description. Everything here runs offline; the
// LLM scorer never sees or influences these results.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
	"github.com/Shameer29/GetLandedATS--sub001/internal/textproc"
)

// minKeywordLength drops single-character tokens after cleanup.
const minKeywordLength = 2

// stopwords are job-posting boilerplate that carries no matching signal.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"of": true, "on": true, "or": true, "our": true, "per": true,
	"plus": true, "the": true, "this": true, "that": true, "to": true,
	"we": true, "will": true, "with": true, "you": true, "your": true,
	"ability": true, "able": true, "etc": true, "experience": true,
	"knowledge": true, "preferred": true, "required": true, "role": true,
	"skills": true, "strong": true, "team": true, "work": true,
	"working": true, "years": true,
}

// skillAliases folds common variant spellings onto one canonical keyword.
// Matching accepts either direction: a resume saying "Golang" still matches
// the canonical "go".
var skillAliases = map[string]string{
	"golang":    "go",
	"js":        "javascript",
	"ts":        "typescript",
	"reactjs":   "react",
	"react.js":  "react",
	"node":      "node.js",
	"nodejs":    "node.js",
	"k8s":       "kubernetes",
	"postgres":  "postgresql",
	"py":        "python",
	"cicd":      "ci/cd",
	"restful":   "rest",
	"mongo":     "mongodb",
	"tf":        "terraform",
	"apis":      "api",
	"databases": "database",
}

// tokenPattern splits job text into candidate tokens. Letters, digits and
// the characters +, #, ., / survive so "c++", "c#", "node.js" and "ci/cd"
// stay whole.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9+#]+(?:[./][A-Za-z0-9+#]+)*`)

// linkedInURL locates a LinkedIn profile reference in resume text.
var linkedInURL = regexp.MustCompile(`(?i)\blinkedin\.com/\S+`)

// Keywords extracts the matchable keywords from a job description:
// lowercased tokens minus stopwords, short tokens and bare numbers, with
// known aliases folded to canonical names, deduplicated in first-seen order.
func Keywords(jobDescription string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(jobDescription), -1)

	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".")
		if len(tok) < minKeywordLength || stopwords[tok] || startsWithDigit(tok) {
			continue
		}
		if canonical, ok := skillAliases[tok]; ok {
			tok = canonical
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// startsWithDigit drops year counts and "5+" style requirements; real skill
// tokens ("c++", "node.js") never lead with a digit.
func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// Match reports which keywords appear in the resume text, using
// word-boundary containment over the lowercased text. A keyword counts as
// matched when the canonical form or any of its variant spellings occurs.
func Match(resumeText string, keywords []string) *models.KeywordReport {
	lower := strings.ToLower(resumeText)
	report := &models.KeywordReport{
		Matched: []string{},
		Missing: []string{},
	}
	for _, kw := range keywords {
		if matchVariant(lower, kw) {
			report.Matched = append(report.Matched, kw)
		} else {
			report.Missing = append(report.Missing, kw)
		}
	}
	if len(keywords) > 0 {
		report.Ratio = float64(len(report.Matched)) / float64(len(keywords))
	}
	return report
}

func matchVariant(lower, kw string) bool {
	if containsWord(lower, kw) {
		return true
	}
	for alias, canonical := range skillAliases {
		if canonical == kw && containsWord(lower, alias) {
			return true
		}
	}
	return false
}

// containsWord reports whether kw occurs in the lowercased text without
// letter or digit neighbors. Plain strings.Contains would match "java"
// inside "javascript".
func containsWord(lower, kw string) bool {
	for start := 0; ; {
		i := strings.Index(lower[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)
		if !isWordChar(lower, i-1) && !isWordChar(lower, end) {
			return true
		}
		start = i + 1
	}
}

func isWordChar(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// Anchors locates contact anchors in resume text. The email and phone
// patterns are the same ones the reorder heuristic uses to spot contact
// lines.
func Anchors(resumeText string) models.AnchorFields {
	return models.AnchorFields{
		Email:    textproc.EmailPattern.FindString(resumeText),
		Phone:    strings.TrimSpace(textproc.PhonePattern.FindString(resumeText)),
		LinkedIn: linkedInURL.FindString(resumeText),
	}
}

// Warnings derives ATS-compatibility warnings from extraction metadata and
// anchors. Tables, images and column layouts routinely scramble or drop
// text in automated parsers.
func Warnings(meta models.ExtractionMetadata, anchors models.AnchorFields) []string {
	var warnings []string
	if meta.HasTables {
		warnings = append(warnings, "resume uses tables; table cells are often reordered or dropped by automated parsers")
	}
	if meta.HasImages {
		warnings = append(warnings, "resume embeds images; image content is invisible to text extraction")
	}
	if meta.HasMultiColumn {
		warnings = append(warnings, fmt.Sprintf("resume uses a %d-column layout; columns can interleave extracted text", meta.ColumnCount))
	}
	if anchors.Email == "" {
		warnings = append(warnings, "no email address found in resume text")
	}
	if anchors.Phone == "" {
		warnings = append(warnings, "no phone number found in resume text")
	}
	return warnings
}
