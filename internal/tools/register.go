package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterTool handles the onboarding_register MCP tool.
// It creates (or returns) the profile for an employee, applying the
// optional overrides only on the creation path.
type RegisterTool struct {
	engine *profile.Engine
	loader *steps.Loader
}

// NewRegisterTool creates a RegisterTool with its dependencies.
func NewRegisterTool(engine *profile.Engine, loader *steps.Loader) *RegisterTool {
	return &RegisterTool{engine: engine, loader: loader}
}

// Definition returns the MCP tool definition for registration.
func (t *RegisterTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_register",
		mcp.WithDescription(
			"Register a new employee for onboarding. Creates their profile "+
				"starting at step 1. If a profile already exists for the email, "+
				"it is returned unchanged — registration never resets progress.",
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("The employee's work email. Used as the profile key (lower-cased)."),
		),
		mcp.WithString("name",
			mcp.Description("Display name. Derived from the email local part when omitted "+
				"(jane.doe@co.com → 'Jane Doe')."),
		),
		mcp.WithString("buddy_email",
			mcp.Description("Email of the assigned onboarding buddy."),
		),
		mcp.WithString("department",
			mcp.Description("The employee's department."),
		),
	)
}

// Handle processes the onboarding_register tool call.
func (t *RegisterTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email := req.GetString("email", "")
	if strings.TrimSpace(email) == "" {
		return mcp.NewToolResultError("'email' is required — the employee's work email address"), nil
	}

	p, err := t.engine.GetOrCreateProfile(email, profile.Overrides{
		Name:       req.GetString("name", ""),
		BuddyEmail: req.GetString("buddy_email", ""),
		Department: req.GetString("department", ""),
	})
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", email, err)
	}

	all, err := t.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading steps: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Welcome aboard, %s! 🎉\n\n", p.Name)
	b.WriteString(profileSummary(p, len(all)))
	b.WriteString("\n")

	if len(all) == 0 {
		b.WriteString("No onboarding steps are configured yet. Check back once your " +
			"onboarding team has published the step documents.")
		return mcp.NewToolResultText(b.String()), nil
	}

	b.WriteString("## Your onboarding plan\n\n")
	b.WriteString(progressChecklist(p, all))
	fmt.Fprintf(&b, "\nCall `onboarding_progress` to see your current step, and "+
		"`onboarding_complete_step` when you finish step %d.", p.CurrentStep)

	return mcp.NewToolResultText(b.String()), nil
}
