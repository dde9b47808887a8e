package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// BuddyReportTool handles the onboarding_buddy_report MCP tool.
// It gives an onboarding buddy a progress overview of their buddies,
// most recently active first.
type BuddyReportTool struct {
	engine *profile.Engine
	loader *steps.Loader
}

// NewBuddyReportTool creates a BuddyReportTool with its dependencies.
func NewBuddyReportTool(engine *profile.Engine, loader *steps.Loader) *BuddyReportTool {
	return &BuddyReportTool{engine: engine, loader: loader}
}

// Definition returns the MCP tool definition for registration.
func (t *BuddyReportTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_buddy_report",
		mcp.WithDescription(
			"Report onboarding progress for every employee assigned to a "+
				"buddy. Omit buddy_email to list all employees.",
		),
		mcp.WithString("buddy_email",
			mcp.Description("Filter to employees whose assigned buddy has this email."),
		),
	)
}

// Handle processes the onboarding_buddy_report tool call.
func (t *BuddyReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buddy := req.GetString("buddy_email", "")

	profiles, err := t.engine.ListProfiles(buddy)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	all, err := t.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading steps: %w", err)
	}
	total := len(all)

	if len(profiles) == 0 {
		if buddy != "" {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No employees are assigned to buddy %s.", profile.NormalizeEmail(buddy),
			)), nil
		}
		return mcp.NewToolResultText("No employees are onboarding yet."), nil
	}

	var b strings.Builder
	if buddy != "" {
		fmt.Fprintf(&b, "# Buddy Report for %s\n\n", profile.NormalizeEmail(buddy))
	} else {
		b.WriteString("# Onboarding Report\n\n")
	}

	for _, p := range profiles {
		fmt.Fprintf(&b, "## %s <%s>\n", p.Name, p.Email)
		if p.Department != "" {
			fmt.Fprintf(&b, "Department: %s\n", p.Department)
		}
		fmt.Fprintf(&b, "Started: %s · Last activity: %s\n", p.StartDate, p.LastUpdated)
		if total == 0 {
			b.WriteString("Progress: no steps configured\n\n")
			continue
		}
		fmt.Fprintf(&b, "Progress: %d of %d steps · currently on step %d\n\n",
			len(p.CompletedSteps), total, p.CurrentStep)
	}

	return mcp.NewToolResultText(strings.TrimSpace(b.String())), nil
}
