package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListStepsTool handles the onboarding_list_steps MCP tool.
type ListStepsTool struct {
	loader *steps.Loader
}

// NewListStepsTool creates a ListStepsTool with the given loader.
func NewListStepsTool(loader *steps.Loader) *ListStepsTool {
	return &ListStepsTool{loader: loader}
}

// Definition returns the MCP tool definition for registration.
func (t *ListStepsTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_list_steps",
		mcp.WithDescription(
			"List all configured onboarding steps in order, with their type, "+
				"required flag, and a short description.",
		),
	)
}

// Handle processes the onboarding_list_steps tool call.
func (t *ListStepsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := t.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading steps: %w", err)
	}

	if len(all) == 0 {
		return mcp.NewToolResultText(
			"No onboarding steps are configured. Add step documents " +
				"(step-<N>-<slug>.md or .html) to the steps directory.",
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Onboarding Steps (%d)\n\n", len(all))
	for _, s := range all {
		required := "required"
		if !s.Required {
			required = "optional"
		}
		fmt.Fprintf(&b, "**Step %d: %s** — %s, %s\n", s.ID, s.Title, s.Type, required)
		if s.Description != "" {
			fmt.Fprintf(&b, "  %s\n", s.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("Call `onboarding_show_step` with a step_number for the full content.")

	return mcp.NewToolResultText(b.String()), nil
}
