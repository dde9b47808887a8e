// Package prompts implements MCP prompt handlers for rampup.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the onboarding-start MCP prompt.
// It guides the AI to register an employee and begin walking them
// through the onboarding steps.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("onboarding-start",
		mcp.WithPromptDescription(
			"Start onboarding for a new employee: register their profile and "+
				"walk them through the first step.",
		),
		mcp.WithArgument("email",
			mcp.ArgumentDescription("The new employee's work email"),
		),
		mcp.WithArgument("buddy_email",
			mcp.ArgumentDescription("Email of the assigned onboarding buddy (optional)"),
		),
	)
}

// Handle processes the onboarding-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	email := ""
	buddy := ""
	if args := req.Params.Arguments; args != nil {
		email = args["email"]
		buddy = args["buddy_email"]
	}

	instruction := "I'm starting onboarding"
	if email != "" {
		instruction = fmt.Sprintf("I'm starting onboarding for %s", email)
	}
	buddyNote := ""
	if buddy != "" {
		buddyNote = fmt.Sprintf(" with buddy_email='%s'", buddy)
	}

	return &mcp.GetPromptResult{
		Description: "Start employee onboarding",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"%s.\n\n"+
						"Please:\n"+
						"1. Run `onboarding_register` with my email%s (ask me for it if I haven't given one)\n"+
						"2. Show me the full onboarding plan from the registration response\n"+
						"3. Run `onboarding_progress` so I can read my first step\n"+
						"4. Help me work through it, then mark it done with `onboarding_complete_step`\n",
					instruction, buddyNote,
				)),
			},
		},
	}, nil
}
