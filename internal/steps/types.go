// Package steps discovers and parses onboarding step documents.
//
// Step documents are human-authored files living in a configured directory,
// named so the step id is recoverable from a step-<N> substring
// (step-1-welcome.md, step-4-equipment.html). Two encodings are accepted:
// markdown and an HTML-like markup. When both exist for the same id, the
// markdown document wins and the markup one is discarded.
//
// Parsing is best-effort by design: each field is extracted by an
// independent rule with a documented default, and a document that yields no
// usable id is skipped with a warning rather than failing the whole load.
package steps

// Format identifies which document encoding produced a Step.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatMarkup   Format = "markup"
)

// Resource is one extracted (label, url) link pair, in document order.
type Resource struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Step is one unit of onboarding work parsed from a step document.
type Step struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Required     bool   `json:"required"`
	Content      string `json:"content"`
	SourceFormat Format `json:"source_format"`

	// Resources is nil (not empty) when the document has no links.
	Resources []Resource `json:"resources,omitempty"`

	// CompletionCriteria is empty when the document has no criteria section.
	CompletionCriteria string `json:"completion_criteria,omitempty"`
}
