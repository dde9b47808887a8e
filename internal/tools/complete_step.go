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

// CompleteStepTool handles the onboarding_complete_step MCP tool.
// It runs the step progression state machine: validate, record, advance.
type CompleteStepTool struct {
	engine *profile.Engine
	loader *steps.Loader
	store  profile.Store
}

// NewCompleteStepTool creates a CompleteStepTool with its dependencies.
func NewCompleteStepTool(engine *profile.Engine, loader *steps.Loader, store profile.Store) *CompleteStepTool {
	return &CompleteStepTool{engine: engine, loader: loader, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *CompleteStepTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_complete_step",
		mcp.WithDescription(
			"Mark an onboarding step as completed. Steps must be completed in "+
				"order — completing a later step before the current one is rejected "+
				"with an explanation, not an error. Omit step_number to complete "+
				"the current step.",
		),
		mcp.WithString("email",
			mcp.Description("The employee's email. Optional when RAMPUP_EMAIL is set or only one profile exists."),
		),
		mcp.WithNumber("step_number",
			mcp.Description("The step to complete. Defaults to the employee's current step."),
		),
		mcp.WithString("notes",
			mcp.Description("Optional notes recorded with the completion."),
		),
		mcp.WithString("data",
			mcp.Description("Optional free-form data recorded with the completion."),
		),
	)
}

// Handle processes the onboarding_complete_step tool call.
func (t *CompleteStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	stepID := req.GetInt("step_number", 0)
	res, err := t.engine.CompleteStep(p, stepID,
		req.GetString("notes", ""), req.GetString("data", ""))
	if err != nil {
		return nil, fmt.Errorf("completing step: %w", err)
	}

	switch res.Status {
	case profile.StatusAlreadyCompleted:
		return mcp.NewToolResultText(fmt.Sprintf(
			"Step %d is already completed — nothing to do. Your current step is %d.",
			res.CompletedStep, p.CurrentStep,
		)), nil

	case profile.StatusOutOfOrder:
		return mcp.NewToolResultText(fmt.Sprintf(
			"Steps must be completed in order: step %d comes later. "+
				"Complete step %d first (call `onboarding_progress` to see it).",
			res.CompletedStep, p.CurrentStep,
		)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Step %d completed! (%d of %d done)\n\n",
		res.CompletedStep, len(p.CompletedSteps), res.TotalSteps)

	if res.NextStep == 0 {
		if res.TotalSteps == 0 {
			b.WriteString("No onboarding steps are configured, so there is nothing further to do.")
		} else {
			fmt.Fprintf(&b, "🏁 That was the last one — all %d onboarding steps are complete. "+
				"Welcome to the team, %s!", res.TotalSteps, p.Name)
		}
		return mcp.NewToolResultText(b.String()), nil
	}

	next, err := t.loader.Get(res.NextStep)
	if err != nil {
		return nil, fmt.Errorf("loading step %d: %w", res.NextStep, err)
	}
	if next != nil {
		fmt.Fprintf(&b, "## Up next — Step %d: %s\n\n", next.ID, next.Title)
		if next.Description != "" {
			b.WriteString(next.Description)
			b.WriteString("\n\n")
		}
	}
	fmt.Fprintf(&b, "Call `onboarding_progress` to see the full step content.")

	return mcp.NewToolResultText(b.String()), nil
}
