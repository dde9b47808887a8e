package steps

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// criteriaClass is the class marker for the completion criteria element in
// markup step documents.
const criteriaClass = "completion-criteria"

// voidTags are elements that never have a closing tag; they must not
// affect depth tracking when collecting element text.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// parseMarkup extracts a Step from HTML-like markup content. The id comes
// from the filename; fields are read off a token stream rather than a
// full document tree.
func parseMarkup(id int, content string) Step {
	s := Step{
		ID:                 id,
		Title:              firstElementText(content, "h1", "h2"),
		Description:        firstElementText(content, "p"),
		Type:               "general",
		Required:           true,
		Content:            content,
		SourceFormat:       FormatMarkup,
		Resources:          extractAnchors(content),
		CompletionCriteria: classElementText(content, criteriaClass),
	}
	if t := dataAttr(content, "step-type"); t != "" {
		s.Type = t
	}
	if r := dataAttr(content, "required"); r != "" {
		if parsed, err := strconv.ParseBool(r); err == nil {
			s.Required = parsed
		}
	}
	if s.Title == "" {
		s.Title = fmt.Sprintf("Step %d", id)
	}
	return s
}

// firstElementText returns the collapsed text content of the first element
// matching any of the given tag names.
func firstElementText(content string, tags ...string) string {
	want := map[string]bool{}
	for _, t := range tags {
		want[t] = true
	}

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tok := z.Token()
			if want[tok.Data] {
				return collectElementText(z, tok.Data)
			}
		}
	}
}

// classElementText returns the collapsed text content of the first element
// whose class attribute contains the given class token.
func classElementText(content, class string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tok := z.Token()
			if hasClass(tok, class) {
				return collectElementText(z, tok.Data)
			}
		}
	}
}

// collectElementText reads tokens until the element opened by tag closes,
// returning the whitespace-collapsed text found inside it.
func collectElementText(z *html.Tokenizer, tag string) string {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		switch z.Next() {
		case html.ErrorToken:
			depth = 0
		case html.TextToken:
			b.WriteString(string(z.Text()))
			b.WriteByte(' ')
		case html.StartTagToken:
			if tok := z.Token(); !voidTags[tok.Data] {
				depth++
			}
		case html.EndTagToken:
			depth--
		}
	}
	return collapseWhitespace(b.String())
}

// dataAttr returns the value of the first data-<name> attribute found on
// any element in the document.
func dataAttr(content, name string) string {
	attrName := "data-" + name
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			for _, a := range z.Token().Attr {
				if a.Key == attrName {
					return strings.TrimSpace(a.Val)
				}
			}
		}
	}
}

// extractAnchors returns every anchor's (text, href) pair in document
// order, or nil when the document has none.
func extractAnchors(content string) []Resource {
	var resources []Resource
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return resources
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			href := ""
			for _, a := range tok.Attr {
				if a.Key == "href" {
					href = a.Val
				}
			}
			text := collectElementText(z, "a")
			resources = append(resources, Resource{Label: text, URL: href})
		}
	}
}

// stripMarkup reduces markup content to plain text: script and style
// bodies are dropped, all tags are removed, and whitespace is collapsed.
func stripMarkup(content string) string {
	var b strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseWhitespace(b.String())
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data == "script" || tok.Data == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			tok := z.Token()
			if (tok.Data == "script" || tok.Data == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(string(z.Text()))
				b.WriteByte(' ')
			}
		}
	}
}

// hasClass reports whether a token's class attribute contains the given
// class token.
func hasClass(tok html.Token, class string) bool {
	for _, a := range tok.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// collapseWhitespace squeezes runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
