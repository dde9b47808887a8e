package steps

import (
	"fmt"
	"strings"
)

// Render returns the display text for a step. This is the single place
// where SourceFormat matters outside parsing.
//
// Markdown documents are already human-readable and are returned verbatim.
// Markup documents are reduced to plain text — scripts, styles and tags
// stripped, whitespace collapsed — prefixed by a synthesized heading and
// the description paragraph.
func Render(s Step) string {
	if s.SourceFormat != FormatMarkup {
		return s.Content
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	if s.Description != "" {
		b.WriteString(s.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(stripMarkup(s.Content))
	return strings.TrimSpace(b.String())
}
