package tools

import (
	"context"
	"fmt"

	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// ShowStepTool handles the onboarding_show_step MCP tool.
// It renders a single step document regardless of anyone's progress.
type ShowStepTool struct {
	loader *steps.Loader
}

// NewShowStepTool creates a ShowStepTool with the given loader.
func NewShowStepTool(loader *steps.Loader) *ShowStepTool {
	return &ShowStepTool{loader: loader}
}

// Definition returns the MCP tool definition for registration.
func (t *ShowStepTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_show_step",
		mcp.WithDescription(
			"Show the full content of one onboarding step by number, "+
				"independent of any employee's progress.",
		),
		mcp.WithNumber("step_number",
			mcp.Required(),
			mcp.Description("The step to show."),
		),
	)
}

// Handle processes the onboarding_show_step tool call.
func (t *ShowStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetInt("step_number", 0)
	if id <= 0 {
		return mcp.NewToolResultError("'step_number' is required and must be a positive integer"), nil
	}

	step, err := t.loader.Get(id)
	if err != nil {
		return nil, fmt.Errorf("loading step %d: %w", id, err)
	}
	if step == nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No step %d is configured. Call onboarding_list_steps to see what exists.", id,
		)), nil
	}

	return mcp.NewToolResultText(steps.Render(*step)), nil
}
