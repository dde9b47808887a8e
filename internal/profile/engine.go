package profile

import (
	"fmt"
	"time"
)

// StepSource supplies the ascending ids of the configured onboarding
// steps. The engine needs only the ids — total count and the next id
// after a completion — never step content.
type StepSource interface {
	StepIDs() ([]int, error)
}

// Engine applies the step progression rules on top of a Store.
type Engine struct {
	store Store
	steps StepSource
}

// NewEngine creates an Engine with its dependencies.
func NewEngine(store Store, steps StepSource) *Engine {
	return &Engine{store: store, steps: steps}
}

// GetOrCreateProfile loads the profile for email, lazily creating and
// persisting a fresh one when none exists. Overrides apply only on the
// creation path — an existing profile is returned untouched.
func (e *Engine) GetOrCreateProfile(email string, o Overrides) (*Profile, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("profile: empty email")
	}

	p, err := e.store.Load(email)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	now := timeNow().UTC().Format(time.RFC3339)
	name := o.Name
	if name == "" {
		name = DeriveName(email)
	}
	p = &Profile{
		Email:          email,
		Name:           name,
		StartDate:      now,
		BuddyEmail:     NormalizeEmail(o.BuddyEmail),
		Department:     o.Department,
		CurrentStep:    1,
		CompletedSteps: []int{},
		StepData:       map[int]StepData{},
		CreatedAt:      now,
	}
	if err := e.store.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Result is the outcome of a CompleteStep call.
type Result struct {
	Status        Status
	Profile       *Profile
	CompletedStep int

	// NextStep is the id of the step now current, or 0 when the employee
	// has completed the final configured step.
	NextStep int

	// TotalSteps lets callers distinguish "all steps complete" from
	// "no steps configured" — the two must never read the same.
	TotalSteps int
}

// CompleteStep validates and records completion of a step. A stepID of 0
// means "the current step". Validation order: already completed, then out
// of order; both return without mutating or persisting anything. On
// success the step joins CompletedSteps, its data record gains the
// completion fields (preserving anything a side-channel wrote earlier),
// CurrentStep moves to the smallest configured id greater than the
// completed one — or to completed+1 as a past-the-end sentinel — and the
// profile is persisted. The new state is applied to p only after the
// save succeeds; a failed save leaves p exactly as it was.
func (e *Engine) CompleteStep(p *Profile, stepID int, notes, data string) (*Result, error) {
	if stepID == 0 {
		stepID = p.CurrentStep
	}

	ids, err := e.steps.StepIDs()
	if err != nil {
		return nil, err
	}

	res := &Result{Profile: p, CompletedStep: stepID, TotalSteps: len(ids)}

	if p.HasCompleted(stepID) {
		res.Status = StatusAlreadyCompleted
		return res, nil
	}
	if stepID != p.CurrentStep {
		res.Status = StatusOutOfOrder
		return res, nil
	}

	record := StepData{KeyCompletedAt: timeNow().UTC().Format(time.RFC3339)}
	if notes != "" {
		record[KeyNotes] = notes
	}
	if data != "" {
		record[KeyData] = data
	}

	next := 0
	for _, id := range ids {
		if id > stepID {
			next = id
			break
		}
	}

	candidate := *p
	candidate.CompletedSteps = append(append([]int(nil), p.CompletedSteps...), stepID)
	candidate.StepData = mergedStepData(p, stepID, record)
	if next == 0 {
		candidate.CurrentStep = stepID + 1
	} else {
		candidate.CurrentStep = next
	}

	if err := e.store.Save(&candidate); err != nil {
		return nil, err
	}
	*p = candidate

	res.NextStep = next
	res.Status = StatusCompleted
	return res, nil
}

// MergeStepData shallow-merges fields into the step's data record without
// touching CompletedSteps or CurrentStep, and persists immediately. Used
// by side-channel operations such as recording an equipment request id
// before the step itself is completed. Like CompleteStep, p is updated
// only after the save succeeds.
func (e *Engine) MergeStepData(p *Profile, stepID int, fields StepData) error {
	candidate := *p
	candidate.StepData = mergedStepData(p, stepID, fields)
	if err := e.store.Save(&candidate); err != nil {
		return err
	}
	*p = candidate
	return nil
}

// ListProfiles returns all known profiles, most recently updated first,
// optionally filtered to those whose buddy email matches. An empty result
// is a normal outcome, never an error.
func (e *Engine) ListProfiles(buddyEmail string) ([]*Profile, error) {
	all, err := e.store.List()
	if err != nil {
		return nil, err
	}
	if buddyEmail == "" {
		return all, nil
	}

	buddy := NormalizeEmail(buddyEmail)
	var filtered []*Profile
	for _, p := range all {
		if p.BuddyEmail == buddy {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// mergedStepData returns a copy of p's step data with fields merged into
// the given step's record. Existing keys win — nothing previously written
// is overwritten — and p itself is left untouched.
func mergedStepData(p *Profile, stepID int, fields StepData) map[int]StepData {
	out := make(map[int]StepData, len(p.StepData)+1)
	for id, record := range p.StepData {
		out[id] = record
	}

	record := StepData{}
	for k, v := range out[stepID] {
		record[k] = v
	}
	for k, v := range fields {
		if _, exists := record[k]; !exists {
			record[k] = v
		}
	}
	out[stepID] = record
	return out
}
