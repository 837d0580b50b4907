package textproc

import (
	"regexp"
	"strings"
)

// reorderScanWindow bounds the header/contact index scan.
const reorderScanWindow = 30

// sectionKeywords mark the start of resume body content. Matched by
// containment against the upper-cased line.
var sectionKeywords = []string{
	"PROFESSIONAL EXPERIENCE",
	"WORK EXPERIENCE",
	"EXPERIENCE",
	"EDUCATION",
	"SKILLS",
	"PROFESSIONAL SUMMARY",
}

// Contact patterns. EmailPattern and PhonePattern are shared with anchor
// extraction in the match package.
var (
	// EmailPattern matches a plausible email address.
	EmailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// PhonePattern matches common phone number shapes, with optional
	// country code and (555) style area codes.
	PhonePattern = regexp.MustCompile(`(\+?\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	// labeledContact matches explicit "Phone:", "Email:" style labels.
	labeledContact = regexp.MustCompile(`(?i)\b(mobile|phone|email|linkedin)\s*:`)
)

// isContactLine reports whether a line carries contact information.
func isContactLine(line string) bool {
	if labeledContact.MatchString(line) {
		return true
	}
	if EmailPattern.MatchString(line) {
		return true
	}
	if PhonePattern.MatchString(line) {
		return true
	}
	return strings.Contains(strings.ToLower(line), "linkedin.com")
}

// isSectionKeywordLine reports whether a line names a resume section.
func isSectionKeywordLine(line string) bool {
	up := strings.ToUpper(line)
	for _, kw := range sectionKeywords {
		if strings.Contains(up, kw) {
			return true
		}
	}
	return false
}

// ReorderHeader repairs PDF extractions that emit section content ahead of
// the name/contact header. The first 30 lines are scanned for the first
// section-keyword line and the first contact line; when the keyword comes
// strictly first, the full line list is split at the first keyword line:
// everything ahead of it is the header, the rest is the body, and the two
// are rejoined with a single blank line between them. Blank lines are not
// carried into either bucket (the rejoin reintroduces exactly one), which
// makes the split reproduce itself: ReorderHeader of its own output returns
// it unchanged. In every other case the text passes through untouched.
func ReorderHeader(text string) string {
	lines := strings.Split(text, "\n")

	window := lines
	if len(window) > reorderScanWindow {
		window = window[:reorderScanWindow]
	}
	sectionIdx, contactIdx := -1, -1
	for i, line := range window {
		if sectionIdx == -1 && isSectionKeywordLine(line) {
			sectionIdx = i
		}
		if contactIdx == -1 && isContactLine(line) {
			contactIdx = i
		}
		if sectionIdx != -1 && contactIdx != -1 {
			break
		}
	}
	if sectionIdx == -1 || contactIdx == -1 || sectionIdx >= contactIdx {
		return text
	}

	var header, body []string
	inBody := false
	for _, line := range lines {
		if !inBody && isSectionKeywordLine(line) {
			inBody = true
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if inBody {
			body = append(body, line)
		} else {
			header = append(header, line)
		}
	}
	// With the keyword on the first line there is no header to float; a
	// rejoin would only prepend a blank line.
	if len(header) == 0 {
		return text
	}

	joined := make([]string, 0, len(header)+1+len(body))
	joined = append(joined, header...)
	joined = append(joined, "")
	joined = append(joined, body...)
	return strings.Join(joined, "\n")
}
