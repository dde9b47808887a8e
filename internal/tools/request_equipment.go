package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// equipmentStepType is the step type a request attaches to when no step
// number is given.
const equipmentStepType = "equipment"

// RequestEquipmentTool handles the onboarding_request_equipment MCP tool.
// It is a side-channel operation: it records an equipment request id
// against a step's data record without completing the step or touching
// progression. Completing the step later merges around these fields —
// nothing previously written is lost.
type RequestEquipmentTool struct {
	engine *profile.Engine
	loader *steps.Loader
	store  profile.Store
}

// NewRequestEquipmentTool creates a RequestEquipmentTool with its dependencies.
func NewRequestEquipmentTool(engine *profile.Engine, loader *steps.Loader, store profile.Store) *RequestEquipmentTool {
	return &RequestEquipmentTool{engine: engine, loader: loader, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *RequestEquipmentTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_request_equipment",
		mcp.WithDescription(
			"File an equipment request (laptop, monitor, peripherals) for an "+
				"employee. The request id is recorded against the equipment step "+
				"without completing it — complete the step separately once the "+
				"equipment arrives.",
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description("Comma-separated list of requested items."),
		),
		mcp.WithString("email",
			mcp.Description("The employee's email. Optional when RAMPUP_EMAIL is set or only one profile exists."),
		),
		mcp.WithNumber("step_number",
			mcp.Description("Step to attach the request to. Defaults to the first "+
				"step of type 'equipment', then to the employee's current step."),
		),
	)
}

// Handle processes the onboarding_request_equipment tool call.
func (t *RequestEquipmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := strings.TrimSpace(req.GetString("items", ""))
	if items == "" {
		return mcp.NewToolResultError("'items' is required — list what to order, comma-separated"), nil
	}

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
	if stepID <= 0 {
		stepID, err = t.equipmentStepID(p)
		if err != nil {
			return nil, err
		}
	}

	requestID := newRequestID(p.Email)
	err = t.engine.MergeStepData(p, stepID, profile.StepData{
		"equipment_request_id":   requestID,
		"equipment_items":        items,
		"equipment_requested_at": timeNow().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("recording equipment request: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📦 Equipment request **%s** filed for %s.\n\n"+
			"**Items:** %s\n"+
			"**Attached to:** step %d\n\n"+
			"The step itself is not completed — call `onboarding_complete_step` "+
			"once everything has arrived.",
		requestID, p.Name, items, stepID,
	)), nil
}

// equipmentStepID picks the step a request attaches to: the first
// configured step of type "equipment", falling back to the current step.
func (t *RequestEquipmentTool) equipmentStepID(p *profile.Profile) (int, error) {
	all, err := t.loader.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("loading steps: %w", err)
	}
	for _, s := range all {
		if s.Type == equipmentStepType {
			return s.ID, nil
		}
	}
	return p.CurrentStep, nil
}

// newRequestID derives a short stable-format id like EQ-3F2A9C01.
func newRequestID(email string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", email, timeNow().UnixNano())))
	return "EQ-" + strings.ToUpper(hex.EncodeToString(sum[:4]))
}
