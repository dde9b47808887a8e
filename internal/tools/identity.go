package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/acortes/rampup/internal/profile"
	"github.com/mark3labs/mcp-go/mcp"
)

// EmailEnvVar names the environment variable that identifies the
// employee when a tool call omits the email argument.
const EmailEnvVar = "RAMPUP_EMAIL"

// ErrIdentityUnresolved is returned when no email argument was given,
// the environment variable is unset, and the store holds zero or more
// than one profile.
var ErrIdentityUnresolved = errors.New("could not determine which employee this request is for")

// resolveEmail determines whose profile a tool call refers to. The
// explicit argument wins, then RAMPUP_EMAIL, then the single profile in
// the store if exactly one exists.
func resolveEmail(explicit string, store profile.Store) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	if env := strings.TrimSpace(os.Getenv(EmailEnvVar)); env != "" {
		return env, nil
	}

	index, err := store.Index()
	if err != nil {
		return "", fmt.Errorf("listing profiles: %w", err)
	}
	if len(index) == 1 {
		return index[0].Email, nil
	}
	return "", ErrIdentityUnresolved
}

// identityResult is the tool error returned when resolveEmail gives up.
func identityResult() *mcp.CallToolResult {
	return mcp.NewToolResultError(
		"I couldn't determine which employee this request is for. Pass the " +
			"'email' argument, set " + EmailEnvVar + " in the environment, or " +
			"register first with `onboarding_register`.",
	)
}
