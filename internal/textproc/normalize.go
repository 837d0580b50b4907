// Package textproc cleans and structures extracted resume text.
package textproc

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the minimum rune count for usable text after
// normalization. Shorter output is indistinguishable from a failed or
// image-only extraction.
const MinContentLength = 50

// ErrEmptyDocument reports text too short to be a real resume after cleanup.
var ErrEmptyDocument = errors.New("document is empty or corrupt")

// excessBlankLines matches two or more consecutive blank lines.
var excessBlankLines = regexp.MustCompile(`\n\n\n+`)

// Normalize canonicalizes line endings to \n, collapses blank-line runs to a
// single blank line, and trims surrounding whitespace. Returns
// ErrEmptyDocument when the cleaned text falls under MinContentLength runes.
// Normalize is idempotent on accepted input.
func Normalize(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < MinContentLength {
		return "", ErrEmptyDocument
	}
	return s, nil
}
