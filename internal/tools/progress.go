package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// ProgressTool handles the onboarding_progress MCP tool.
// It reports where an employee is in their onboarding and shows the
// content of the step they should work on next.
type ProgressTool struct {
	engine *profile.Engine
	loader *steps.Loader
	store  profile.Store
}

// NewProgressTool creates a ProgressTool with its dependencies.
func NewProgressTool(engine *profile.Engine, loader *steps.Loader, store profile.Store) *ProgressTool {
	return &ProgressTool{engine: engine, loader: loader, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_progress",
		mcp.WithDescription(
			"Show an employee's onboarding progress: completed steps, the "+
				"current step with its full content, and what remains. "+
				"The email argument is optional when RAMPUP_EMAIL is set or "+
				"only one profile exists.",
		),
		mcp.WithString("email",
			mcp.Description("The employee's email. Optional — see identity resolution above."),
		),
	)
}

// Handle processes the onboarding_progress tool call.
func (t *ProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := resolveEmail(req.GetString("email", ""), t.store)
	if err != nil {
		if errors.Is(err, ErrIdentityUnresolved) {
			return identityResult(), nil
		}
		return nil, fmt.Errorf("resolving identity: %w", err)
	}

	p, err := t.engine.GetOrCreateProfile(email, profile.Overrides{})
	if err != nil {
		return nil, fmt.Errorf("loading profile for %s: %w", email, err)
	}

	all, err := t.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading steps: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Onboarding Progress\n\n")
	b.WriteString(profileSummary(p, len(all)))
	b.WriteString("\n")

	// "No steps configured" and "all steps complete" are distinct states
	// and must never read the same.
	if len(all) == 0 {
		b.WriteString("No onboarding steps are configured. There is nothing to " +
			"complete yet — this is not the same as being done.")
		return mcp.NewToolResultText(b.String()), nil
	}

	b.WriteString(progressChecklist(p, all))

	current, err := t.loader.Get(p.CurrentStep)
	if err != nil {
		return nil, fmt.Errorf("loading step %d: %w", p.CurrentStep, err)
	}
	if current == nil {
		// The current step having no document does not mean onboarding is
		// done — only every configured step being completed means that.
		if len(p.CompletedSteps) >= len(all) {
			fmt.Fprintf(&b, "\n🏁 All %d onboarding steps are complete. Congratulations!", len(all))
		} else {
			fmt.Fprintf(&b, "\n⚠️ Your current step (%d) has no document configured. "+
				"Ask your onboarding team to publish it — progress is paused until then.",
				p.CurrentStep)
		}
		return mcp.NewToolResultText(b.String()), nil
	}

	b.WriteString("\n---\n\n")
	b.WriteString(steps.Render(*current))
	fmt.Fprintf(&b, "\n\nWhen you're done, call `onboarding_complete_step` to move on.")

	return mcp.NewToolResultText(b.String()), nil
}
