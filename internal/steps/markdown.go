package steps

import (
	"fmt"
	"regexp"
	"strings"
)

// completionHeading is the fixed second-level heading text that marks the
// completion criteria section in markdown step documents.
const completionHeading = "completion criteria"

var (
	// stepIDPattern matches the step-<N> filename convention.
	stepIDPattern = regexp.MustCompile(`step-(\d+)`)

	// inlineLink matches markdown inline links: [label](url).
	inlineLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	// stepLabelLine matches the bolded progress line:
	// **Step 2 of 5 | Required** or **Step 3 of 5 | Optional**.
	stepLabelLine = regexp.MustCompile(`(?i)^\*\*step\s+\d+\s+of\s+\d+\s*\|\s*(.+?)\*\*`)
)

// extractStepID recovers the integer step id from a filename via the
// step-<N> convention. Returns 0 when the filename carries no id.
func extractStepID(filename string) int {
	m := stepIDPattern.FindStringSubmatch(strings.ToLower(filename))
	if m == nil {
		return 0
	}
	var id int
	if _, err := fmt.Sscanf(m[1], "%d", &id); err != nil {
		return 0
	}
	return id
}

// parseMarkdown extracts a Step from markdown content. The id comes from
// the filename; every other field is best-effort with a documented default.
func parseMarkdown(id int, content string) Step {
	lines := strings.Split(content, "\n")

	s := Step{
		ID:                 id,
		Title:              markdownTitle(lines),
		Description:        markdownDescription(lines),
		Type:               "general",
		Required:           markdownRequired(lines),
		Content:            content,
		SourceFormat:       FormatMarkdown,
		Resources:          extractLinks(content),
		CompletionCriteria: markdownCriteria(lines),
	}
	if s.Title == "" {
		s.Title = fmt.Sprintf("Step %d", id)
	}
	return s
}

// markdownTitle returns the text of the first top-level heading.
func markdownTitle(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return ""
}

// markdownDescription returns the first body-text line after the title,
// stopping at the first second-level heading. Blank lines and the bolded
// step-label line are not body text.
func markdownDescription(lines []string) string {
	start := 0
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "# ") {
			start = i + 1
			break
		}
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "##"):
			return ""
		case stepLabelLine.MatchString(trimmed):
			continue
		default:
			return trimmed
		}
	}
	return ""
}

// markdownRequired reads the required flag from the bolded step-label line.
// A label containing "optional" (case-insensitive) marks the step optional;
// a missing label line defaults to required.
func markdownRequired(lines []string) bool {
	for _, line := range lines {
		m := stepLabelLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		return !strings.Contains(strings.ToLower(m[1]), "optional")
	}
	return true
}

// markdownCriteria returns the text block under the completion criteria
// heading, up to the next second-level heading or end of document.
func markdownCriteria(lines []string) string {
	var block []string
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			heading := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")))
			if inSection {
				break
			}
			inSection = heading == completionHeading
			continue
		}
		if inSection {
			block = append(block, trimmed)
		}
	}
	return strings.TrimSpace(strings.Join(block, "\n"))
}

// extractLinks returns every inline link in document order, or nil when
// the document has none.
func extractLinks(content string) []Resource {
	matches := inlineLink.FindAllStringSubmatch(content, -1)
	if matches == nil {
		return nil
	}
	resources := make([]Resource, 0, len(matches))
	for _, m := range matches {
		resources = append(resources, Resource{Label: m[1], URL: m[2]})
	}
	return resources
}
