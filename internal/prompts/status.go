package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the onboarding-status MCP prompt.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("onboarding-status",
		mcp.WithPromptDescription(
			"Summarize onboarding progress: what's done, what's current, "+
				"and what's left.",
		),
		mcp.WithArgument("email",
			mcp.ArgumentDescription("The employee's email (optional if it can be auto-detected)"),
		),
	)
}

// Handle processes the onboarding-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	email := ""
	if args := req.Params.Arguments; args != nil {
		email = args["email"]
	}

	emailArg := ""
	if email != "" {
		emailArg = fmt.Sprintf(" with email='%s'", email)
	}

	return &mcp.GetPromptResult{
		Description: "Onboarding status check",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"How is my onboarding going?\n\n"+
						"Please run `onboarding_progress`%s and give me a short summary: "+
						"what I've completed, what step I'm on now, and roughly what's left. "+
						"If everything is done, say so clearly.",
					emailArg,
				)),
			},
		},
	}, nil
}
