package textproc

import (
	"regexp"
	"strings"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// sectionPattern pairs a section kind with its header pattern.
type sectionPattern struct {
	kind models.SectionKind
	re   *regexp.Regexp
}

// sectionPatterns are tried in priority order against each trimmed line;
// the first match wins. All patterns are case-insensitive and anchored to
// the start of the line, so section names buried mid-sentence do not open
// sections.
var sectionPatterns = []sectionPattern{
	{models.SectionContact, regexp.MustCompile(`(?i)^contact\b`)},
	{models.SectionSummary, regexp.MustCompile(`(?i)^(professional\s+summary|career\s+summary|summary|objective|profile)\b`)},
	{models.SectionExperience, regexp.MustCompile(`(?i)^(professional\s+experience|work\s+experience|employment\s+history|experience|employment)\b`)},
	{models.SectionEducation, regexp.MustCompile(`(?i)^(education|academic\s+background|qualifications)\b`)},
	{models.SectionSkills, regexp.MustCompile(`(?i)^(technical\s+skills|core\s+competencies|skills)\b`)},
}

// matchSectionHeader returns the section kind the trimmed line opens, if any.
func matchSectionHeader(line string) (models.SectionKind, bool) {
	for _, p := range sectionPatterns {
		if p.re.MatchString(line) {
			return p.kind, true
		}
	}
	return "", false
}

// Segment splits normalized resume text into recognized sections in a single
// pass. A line matching a header pattern opens that section; subsequent
// non-blank lines accumulate until the next header or end of input. Header
// lines are not part of section bodies, blank lines and lines ahead of the
// first header belong to no section, empty sections are dropped, and a kind
// seen again accumulates onto its first occurrence. Sections come back in
// first-detection order.
func Segment(text string) []models.Section {
	var (
		sections []models.Section
		seen     = make(map[models.SectionKind]int)
		current  models.SectionKind
		active   bool
		buf      []string
	)

	flush := func() {
		if !active {
			buf = buf[:0]
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if body == "" {
			return
		}
		if i, ok := seen[current]; ok {
			sections[i].Text += "\n" + body
			return
		}
		seen[current] = len(sections)
		sections = append(sections, models.Section{Kind: current, Text: body})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if kind, ok := matchSectionHeader(trimmed); ok {
			flush()
			current, active = kind, true
			continue
		}
		if active && trimmed != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}
