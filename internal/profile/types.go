// Package profile owns the employee onboarding profile and the step
// progression state machine: it validates a requested step completion,
// records it, computes the next current step, and persists the result.
//
// Validation outcomes (already completed, out of order) are returned as
// status values, not errors — callers branch on Result.Status. Only
// identity and storage failures surface as errors.
package profile

import (
	"strings"
	"unicode"
)

// Well-known keys of the per-step data record. Side-channel operations may
// add arbitrary further keys (an equipment request id, for example); the
// record is an open field set with this documented minimum shape.
const (
	KeyCompletedAt = "completed_at"
	KeyNotes       = "notes"
	KeyData        = "data"
)

// StepData is the free-form record accumulated per step. Merges are
// shallow and first-write-wins: a previously written key is never
// overwritten or removed.
type StepData map[string]any

// Profile is the persisted per-employee onboarding state, keyed by
// normalized email.
type Profile struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	BuddyEmail string `json:"buddy_email,omitempty"`
	Department string `json:"department,omitempty"`

	// CurrentStep is the step the employee must complete next. Always a
	// positive integer, starting at 1. Never a member of CompletedSteps.
	CurrentStep    int              `json:"current_step"`
	CompletedSteps []int            `json:"completed_steps"`
	StepData       map[int]StepData `json:"step_data"`

	CreatedAt   string `json:"created_at"`
	LastUpdated string `json:"last_updated"`
}

// HasCompleted reports whether the step is already recorded as completed.
// CompletedSteps is stored as an ordered sequence but treated as a set.
func (p *Profile) HasCompleted(stepID int) bool {
	for _, id := range p.CompletedSteps {
		if id == stepID {
			return true
		}
	}
	return false
}

// Overrides carries optional fields applied only when a profile is
// created; an existing profile is never modified by them.
type Overrides struct {
	Name       string
	BuddyEmail string
	Department string
}

// Status is the outcome of a completion attempt.
type Status string

const (
	StatusCompleted        Status = "completed"
	StatusAlreadyCompleted Status = "already_completed"
	StatusOutOfOrder       Status = "out_of_order"
)

// IndexEntry is one row of the derived listing index. It is rebuilt from
// the profile rows on every write and is never the source of truth.
type IndexEntry struct {
	Email       string `json:"email"`
	CurrentStep int    `json:"current_step"`
	LastUpdated string `json:"last_updated"`
}

// NormalizeEmail lower-cases and trims an email address. All profile keys
// go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveName builds a display name from the email local part: segments
// split on '.' or '_' are capitalized and joined with a space.
// "jane.doe@co.com" → "Jane Doe"; "jdoe@co.com" → "Jdoe".
func DeriveName(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	segments := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_'
	})
	if len(segments) == 0 {
		return capitalize(local)
	}

	for i, seg := range segments {
		segments[i] = capitalize(seg)
	}
	return strings.Join(segments, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
