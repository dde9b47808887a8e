// Package resources implements MCP resource handlers for rampup.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (onboarding://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/acortes/rampup/internal/profile"
	"github.com/acortes/rampup/internal/steps"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages onboarding resource endpoints.
type Handler struct {
	loader *steps.Loader
	store  profile.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(loader *steps.Loader, store profile.Store) *Handler {
	return &Handler{loader: loader, store: store}
}

// StepsResource returns the MCP resource definition for the step catalog.
func (h *Handler) StepsResource() mcp.Resource {
	return mcp.NewResource(
		"onboarding://steps",
		"Onboarding Steps",
		mcp.WithResourceDescription("All configured onboarding steps, sorted by id"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSteps returns the parsed step list as JSON.
func (h *Handler) HandleSteps(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	all, err := h.loader.LoadAll()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, all)
}

// ProfilesResource returns the MCP resource definition for the profile index.
func (h *Handler) ProfilesResource() mcp.Resource {
	return mcp.NewResource(
		"onboarding://profiles",
		"Onboarding Profiles",
		mcp.WithResourceDescription("Summary of every employee's onboarding state, most recent first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProfiles returns the derived profile index as JSON.
func (h *Handler) HandleProfiles(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	index, err := h.store.Index()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, index)
}

// jsonResource marshals v as an indented JSON resource.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
