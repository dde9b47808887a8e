package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// testEnv wires a real SQLite store and step loader in temp dirs, the
// same way the server composition root does.
type testEnv struct {
	store    *profile.SQLiteStore
	loader   *steps.Loader
	engine   *profile.Engine
	stepsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := profile.NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("setup: open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	stepsDir := t.TempDir()
	loader := steps.NewLoader(stepsDir)

	return &testEnv{
		store:    store,
		loader:   loader,
		engine:   profile.NewEngine(store, loader),
		stepsDir: stepsDir,
	}
}

// writeStep drops a step document into the env's steps directory.
func (e *testEnv) writeStep(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.stepsDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: write %s: %v", name, err)
	}
}

// writeDefaultSteps configures the standard three-step fixture: two
// markdown steps around a markup equipment step.
func (e *testEnv) writeDefaultSteps(t *testing.T) {
	t.Helper()
	e.writeStep(t, "step-1-welcome.md", "# Welcome\n\nRead the handbook.\n")
	e.writeStep(t, "step-2-equipment.html",
		`<html><body data-step-type="equipment"><h1>Order Equipment</h1><p>Pick your gear.</p></body></html>`)
	e.writeStep(t, "step-3-wrap-up.md", "# Wrap Up\n\nMeet your manager.\n")
}

// register creates a profile through the register tool.
func (e *testEnv) register(t *testing.T, email string) {
	t.Helper()
	result := callTool(t, NewRegisterTool(e.engine, e.loader), map[string]interface{}{
		"email": email,
	})
	if isErrorResult(result) {
		t.Fatalf("setup: register %s: %s", email, getResultText(result))
	}
}

// mustLoad reads a profile straight from the store.
func (e *testEnv) mustLoad(t *testing.T, email string) *profile.Profile {
	t.Helper()
	p, err := e.store.Load(email)
	if err != nil {
		t.Fatalf("load %s: %v", email, err)
	}
	if p == nil {
		t.Fatalf("no profile stored for %s", email)
	}
	return p
}

type toolHandler interface {
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func callTool(t *testing.T, h toolHandler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	return result
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- RegisterTool ---

func TestRegisterTool_CreatesProfileWithChecklist(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)

	tool := NewRegisterTool(env.engine, env.loader)
	result := callTool(t, tool, map[string]interface{}{
		"email":       "Jane.Doe@Co.com",
		"buddy_email": "buddy@co.com",
		"department":  "Platform",
	})

	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "Welcome aboard, Jane Doe") {
		t.Errorf("missing welcome with derived name: %s", text)
	}
	if !strings.Contains(text, "Step 1: Welcome") || !strings.Contains(text, "Step 2: Order Equipment") {
		t.Errorf("missing checklist entries: %s", text)
	}

	p := env.mustLoad(t, "jane.doe@co.com")
	if p.CurrentStep != 1 || p.Department != "Platform" || p.BuddyEmail != "buddy@co.com" {
		t.Errorf("stored profile = %+v", p)
	}
}

func TestRegisterTool_MissingEmailIsError(t *testing.T) {
	env := newTestEnv(t)

	result := callTool(t, NewRegisterTool(env.engine, env.loader), map[string]interface{}{})
	if !isErrorResult(result) {
		t.Error("expected an error result without an email argument")
	}
}

func TestRegisterTool_NoStepsConfigured(t *testing.T) {
	env := newTestEnv(t)

	result := callTool(t, NewRegisterTool(env.engine, env.loader), map[string]interface{}{
		"email": "jdoe@co.com",
	})
	text := getResultText(result)
	if !strings.Contains(text, "No onboarding steps are configured") {
		t.Errorf("missing no-steps message: %s", text)
	}
}

// --- Identity resolution ---

func TestProgressTool_IdentityUnresolved(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(EmailEnvVar, "")

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{})
	if !isErrorResult(result) {
		t.Fatal("expected an error result with no email, no env var, and an empty store")
	}
	if !strings.Contains(getResultText(result), "onboarding_register") {
		t.Errorf("error should point at registration: %s", getResultText(result))
	}
}

func TestProgressTool_SingleProfileHeuristic(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "only@co.com")
	t.Setenv(EmailEnvVar, "")

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{})
	if isErrorResult(result) {
		t.Fatalf("single stored profile should resolve: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "only@co.com") {
		t.Errorf("report is not about the single profile: %s", getResultText(result))
	}
}

func TestProgressTool_EnvVarIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "a@co.com")
	env.register(t, "b@co.com")
	t.Setenv(EmailEnvVar, "b@co.com")

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{})
	if isErrorResult(result) {
		t.Fatalf("env var should resolve identity: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "b@co.com") {
		t.Errorf("report is not about the env var profile: %s", getResultText(result))
	}
}

// --- ProgressTool ---

func TestProgressTool_ShowsCurrentStepContent(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "jdoe@co.com")

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{
		"email": "jdoe@co.com",
	})
	text := getResultText(result)
	if !strings.Contains(text, "Read the handbook.") {
		t.Errorf("current step content not rendered: %s", text)
	}
	if !strings.Contains(text, "🔄 Step 1: Welcome ← current") {
		t.Errorf("missing current marker: %s", text)
	}
}

func TestProgressTool_NoStepsIsNotDone(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "jdoe@co.com")

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{
		"email": "jdoe@co.com",
	})
	text := getResultText(result)
	if !strings.Contains(text, "No onboarding steps are configured") {
		t.Errorf("missing no-steps message: %s", text)
	}
	if strings.Contains(text, "complete. Congratulations") {
		t.Errorf("no-steps must not read as completion: %s", text)
	}
}

func TestProgressTool_MissingCurrentStepIsNotCompletion(t *testing.T) {
	env := newTestEnv(t)
	// No step-1 document: a fresh profile's current step is unconfigured.
	env.writeStep(t, "step-2-equipment.html",
		`<html><body data-step-type="equipment"><h1>Order Equipment</h1></body></html>`)
	env.writeStep(t, "step-3-wrap-up.md", "# Wrap Up\n")
	env.register(t, "jdoe@co.com")

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{
		"email": "jdoe@co.com",
	})
	text := getResultText(result)
	if strings.Contains(text, "🏁") || strings.Contains(text, "complete. Congratulations") {
		t.Errorf("an unconfigured current step must not read as completion: %s", text)
	}
	if !strings.Contains(text, "has no document configured") {
		t.Errorf("missing gap explanation: %s", text)
	}
}

func TestProgressTool_AllStepsComplete(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "jdoe@co.com")

	complete := NewCompleteStepTool(env.engine, env.loader, env.store)
	for i := 0; i < 3; i++ {
		callTool(t, complete, map[string]interface{}{"email": "jdoe@co.com"})
	}

	result := callTool(t, NewProgressTool(env.engine, env.loader, env.store), map[string]interface{}{
		"email": "jdoe@co.com",
	})
	text := getResultText(result)
	if !strings.Contains(text, "🏁 All 3 onboarding steps are complete") {
		t.Errorf("missing completion message: %s", text)
	}
}

// --- CompleteStepTool ---

func TestCompleteStepTool_FullFlow(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "jdoe@co.com")
	tool := NewCompleteStepTool(env.engine, env.loader, env.store)

	// Out of order: informational, never a tool error, no progress change.
	result := callTool(t, tool, map[string]interface{}{
		"email": "jdoe@co.com", "step_number": 3,
	})
	if isErrorResult(result) {
		t.Fatalf("out-of-order must be informational, got error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "in order") {
		t.Errorf("missing ordering explanation: %s", getResultText(result))
	}
	if p := env.mustLoad(t, "jdoe@co.com"); p.CurrentStep != 1 || len(p.CompletedSteps) != 0 {
		t.Errorf("out-of-order mutated the profile: %+v", p)
	}

	// Complete step 1 explicitly.
	result = callTool(t, tool, map[string]interface{}{
		"email": "jdoe@co.com", "step_number": 1, "notes": "handbook read",
	})
	text := getResultText(result)
	if !strings.Contains(text, "✅ Step 1 completed! (1 of 3 done)") {
		t.Errorf("unexpected completion text: %s", text)
	}
	if !strings.Contains(text, "Step 2: Order Equipment") {
		t.Errorf("missing next step preview: %s", text)
	}

	// Repeat: idempotent and informational.
	result = callTool(t, tool, map[string]interface{}{
		"email": "jdoe@co.com", "step_number": 1,
	})
	if isErrorResult(result) {
		t.Fatalf("already-completed must be informational, got error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "already completed") {
		t.Errorf("missing already-completed text: %s", getResultText(result))
	}

	// Omitted step_number completes the current step.
	result = callTool(t, tool, map[string]interface{}{"email": "jdoe@co.com"})
	if !strings.Contains(getResultText(result), "✅ Step 2 completed!") {
		t.Errorf("default step_number should complete the current step: %s", getResultText(result))
	}

	// Last step closes out onboarding.
	result = callTool(t, tool, map[string]interface{}{"email": "jdoe@co.com"})
	if !strings.Contains(getResultText(result), "🏁") {
		t.Errorf("missing finish message: %s", getResultText(result))
	}

	p := env.mustLoad(t, "jdoe@co.com")
	if len(p.CompletedSteps) != 3 || p.CurrentStep != 4 {
		t.Errorf("final profile = %+v, want all steps done past the end", p)
	}
	if p.StepData[1][profile.KeyNotes] != "handbook read" {
		t.Errorf("notes not recorded: %v", p.StepData[1])
	}
}

// --- ShowStepTool ---

func TestShowStepTool(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	tool := NewShowStepTool(env.loader)

	result := callTool(t, tool, map[string]interface{}{"step_number": 2})
	if isErrorResult(result) {
		t.Fatalf("expected success: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "# Order Equipment") || !strings.Contains(text, "Pick your gear.") {
		t.Errorf("markup step not rendered: %s", text)
	}

	result = callTool(t, tool, map[string]interface{}{"step_number": 42})
	if !isErrorResult(result) {
		t.Error("expected an error result for an unknown step")
	}

	result = callTool(t, tool, map[string]interface{}{})
	if !isErrorResult(result) {
		t.Error("expected an error result without step_number")
	}
}

// --- ListStepsTool ---

func TestListStepsTool(t *testing.T) {
	env := newTestEnv(t)
	tool := NewListStepsTool(env.loader)

	result := callTool(t, tool, map[string]interface{}{})
	if !strings.Contains(getResultText(result), "No onboarding steps are configured") {
		t.Errorf("missing empty message: %s", getResultText(result))
	}

	env.writeDefaultSteps(t)
	result = callTool(t, tool, map[string]interface{}{})
	text := getResultText(result)
	if !strings.Contains(text, "Onboarding Steps (3)") {
		t.Errorf("missing count: %s", text)
	}
	if !strings.Contains(text, "**Step 2: Order Equipment** — equipment, required") {
		t.Errorf("missing typed entry: %s", text)
	}
}

// --- BuddyReportTool ---

func TestBuddyReportTool_FiltersByBuddy(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	tool := NewBuddyReportTool(env.engine, env.loader)

	register := NewRegisterTool(env.engine, env.loader)
	callTool(t, register, map[string]interface{}{"email": "a@co.com", "buddy_email": "Buddy@Co.com"})
	callTool(t, register, map[string]interface{}{"email": "b@co.com", "buddy_email": "other@co.com"})

	result := callTool(t, tool, map[string]interface{}{"buddy_email": "buddy@co.com"})
	text := getResultText(result)
	if !strings.Contains(text, "a@co.com") {
		t.Errorf("assigned employee missing: %s", text)
	}
	if strings.Contains(text, "b@co.com") {
		t.Errorf("other buddy's employee leaked into the report: %s", text)
	}

	result = callTool(t, tool, map[string]interface{}{"buddy_email": "nobody@co.com"})
	if !strings.Contains(getResultText(result), "No employees are assigned") {
		t.Errorf("missing empty-filter message: %s", getResultText(result))
	}

	result = callTool(t, tool, map[string]interface{}{})
	text = getResultText(result)
	if !strings.Contains(text, "a@co.com") || !strings.Contains(text, "b@co.com") {
		t.Errorf("unfiltered report must list everyone: %s", text)
	}
}

// --- RequestEquipmentTool ---

func TestRequestEquipmentTool_RecordsWithoutAdvancing(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "jdoe@co.com")
	tool := NewRequestEquipmentTool(env.engine, env.loader, env.store)

	fixed := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	restore := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = restore }()

	result := callTool(t, tool, map[string]interface{}{
		"email": "jdoe@co.com",
		"items": "laptop, monitor",
	})
	if isErrorResult(result) {
		t.Fatalf("expected success: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "EQ-") {
		t.Errorf("missing request id: %s", text)
	}
	if !strings.Contains(text, "step 2") {
		t.Errorf("request should attach to the equipment-typed step: %s", text)
	}

	p := env.mustLoad(t, "jdoe@co.com")
	if p.CurrentStep != 1 || len(p.CompletedSteps) != 0 {
		t.Errorf("equipment request advanced progress: %+v", p)
	}
	id, ok := p.StepData[2]["equipment_request_id"].(string)
	if !ok || !strings.HasPrefix(id, "EQ-") {
		t.Errorf("StepData[2] = %v, want an EQ- request id", p.StepData[2])
	}
	if p.StepData[2]["equipment_items"] != "laptop, monitor" {
		t.Errorf("items not recorded: %v", p.StepData[2])
	}
	if p.StepData[2]["equipment_requested_at"] != "2026-03-02T12:00:00Z" {
		t.Errorf("equipment_requested_at = %v, want the pinned clock", p.StepData[2]["equipment_requested_at"])
	}

	result = callTool(t, tool, map[string]interface{}{"email": "jdoe@co.com"})
	if !isErrorResult(result) {
		t.Error("expected an error result without items")
	}
}

func TestRequestEquipmentTool_SurvivesCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefaultSteps(t)
	env.register(t, "jdoe@co.com")

	callTool(t, NewRequestEquipmentTool(env.engine, env.loader, env.store), map[string]interface{}{
		"email": "jdoe@co.com", "items": "laptop",
	})
	complete := NewCompleteStepTool(env.engine, env.loader, env.store)
	callTool(t, complete, map[string]interface{}{"email": "jdoe@co.com", "step_number": 1})
	callTool(t, complete, map[string]interface{}{"email": "jdoe@co.com", "step_number": 2, "notes": "arrived"})

	p := env.mustLoad(t, "jdoe@co.com")
	if _, ok := p.StepData[2]["equipment_request_id"]; !ok {
		t.Errorf("completion dropped the request id: %v", p.StepData[2])
	}
	if p.StepData[2][profile.KeyNotes] != "arrived" {
		t.Errorf("completion notes missing: %v", p.StepData[2])
	}
}
