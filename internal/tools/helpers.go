// Package tools implements the MCP tool handlers for rampup.
//
// Each tool is a struct created with its dependencies (one file per tool)
// exposing a Definition for registration and a Handle compatible with
// mcp-go's CallToolRequest signature. Tools translate engine and loader
// results into user-facing text; validation outcomes are informational
// responses, never tool errors.
package tools

import (
	"fmt"
	"strings"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
)

// progressChecklist renders the step list with completion markers for a
// profile. Completed, current, and pending steps each get their own
// marker; optional steps are labeled.
func progressChecklist(p *profile.Profile, all []steps.Step) string {
	var b strings.Builder
	for _, s := range all {
		marker := "⬜"
		suffix := ""
		switch {
		case p.HasCompleted(s.ID):
			marker = "✅"
		case s.ID == p.CurrentStep:
			marker = "🔄"
			suffix = " ← current"
		}
		if !s.Required {
			suffix += " (optional)"
		}
		fmt.Fprintf(&b, "%s Step %d: %s%s\n", marker, s.ID, s.Title, suffix)
	}
	return b.String()
}

// profileSummary renders the header block shared by progress and report
// responses.
func profileSummary(p *profile.Profile, totalSteps int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Employee:** %s <%s>\n", p.Name, p.Email)
	if p.Department != "" {
		fmt.Fprintf(&b, "**Department:** %s\n", p.Department)
	}
	if p.BuddyEmail != "" {
		fmt.Fprintf(&b, "**Buddy:** %s\n", p.BuddyEmail)
	}
	fmt.Fprintf(&b, "**Started:** %s\n", p.StartDate)
	fmt.Fprintf(&b, "**Progress:** %d of %d steps completed\n", len(p.CompletedSteps), totalSteps)
	return b.String()
}
