// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/acortes/rampup/internal/config"
	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/prompts"
	"github.com/acortes/rampup/internal/resources"
	"github.com/acortes/rampup/internal/steps"
	"github.com/acortes/rampup/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts, and
// resources registered.
//
// The returned cleanup function closes the profile store's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	store, err := profile.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		return nil, noop, fmt.Errorf("opening profile store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("WARNING: profile store close: %v", err)
		}
	}

	loader := steps.NewLoader(cfg.StepsDir)
	engine := profile.NewEngine(store, loader)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"rampup",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	registerTool := tools.NewRegisterTool(engine, loader)
	s.AddTool(registerTool.Definition(), registerTool.Handle)

	progressTool := tools.NewProgressTool(engine, loader, store)
	s.AddTool(progressTool.Definition(), progressTool.Handle)

	completeTool := tools.NewCompleteStepTool(engine, loader, store)
	s.AddTool(completeTool.Definition(), completeTool.Handle)

	showStepTool := tools.NewShowStepTool(loader)
	s.AddTool(showStepTool.Definition(), showStepTool.Handle)

	listStepsTool := tools.NewListStepsTool(loader)
	s.AddTool(listStepsTool.Definition(), listStepsTool.Handle)

	buddyReportTool := tools.NewBuddyReportTool(engine, loader)
	s.AddTool(buddyReportTool.Definition(), buddyReportTool.Handle)

	equipmentTool := tools.NewRequestEquipmentTool(engine, loader, store)
	s.AddTool(equipmentTool.Definition(), equipmentTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(loader, store)
	s.AddResource(resourceHandler.StepsResource(), resourceHandler.HandleSteps)
	s.AddResource(resourceHandler.ProfilesResource(), resourceHandler.HandleProfiles)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use rampup effectively.
func serverInstructions() string {
	return `You have access to rampup, an employee onboarding MCP server.

## WHAT RAMPUP DOES

rampup walks a new employee through a sequence of onboarding steps authored
by their company. It tracks per-employee progress durably — progress
survives between conversations — and serves each step's content.

## WHEN TO ACTIVATE rampup

Use the onboarding tools when the user:
- Says they are new, just joined, or is starting a new job
- Asks "what should I do next?" about onboarding
- Wants to check or report onboarding progress (their own or a buddy's)
- Needs to order equipment as part of setup

## IDENTITY

Most tools need to know which employee they are about. Resolution order:
1. An explicit email argument
2. The RAMPUP_EMAIL environment variable
3. If exactly one profile exists, that one

If none applies, the tool will ask you to run onboarding_register — do
that with the user's email rather than guessing one.

## TYPICAL FLOW

1. onboarding_register — once, with email (name/buddy_email/department
   optional). Never resets existing progress.
2. onboarding_progress — shows the checklist and the current step's full
   content. Start here in every new session.
3. The user works through the step with your help.
4. onboarding_complete_step — marks it done and shows what's next. Steps
   must be completed IN ORDER; the tool explains if one is attempted early
   or repeated. Treat those responses as information, not failures.
5. Repeat from 2 until every step is complete.

## OTHER TOOLS

- onboarding_list_steps / onboarding_show_step: browse steps without
  touching anyone's progress.
- onboarding_request_equipment: files an equipment request and records the
  request id against the equipment step WITHOUT completing it. Complete
  the step separately once the equipment arrives.
- onboarding_buddy_report: progress overview for a buddy's assignees —
  useful when a mentor asks how their new hires are doing.

## IMPORTANT RULES

- Never call onboarding_complete_step for a step the user hasn't actually
  finished — confirm with them first.
- "No onboarding steps are configured" and "all steps complete" are
  different situations. Relay whichever the tool reports; don't congratulate
  a user whose company simply hasn't published steps yet.
- Optional steps may be skipped only by completing them in order like any
  other step — tell the user a step is optional when the listing says so.`
}
