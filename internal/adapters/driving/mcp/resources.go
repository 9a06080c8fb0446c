package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Bestiary resources.
	uriScheme = "bestiary://"
)

// categoryInfo describes one category label.
type categoryInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the fixed category labels.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "The creature types a record may carry, with badge colours",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	// Template for a single creature.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "creatures/{id}",
		Name:        "creature",
		Description: "A single creature from the collection",
		MIMEType:    "application/json",
	}, s.handleCreatureResource)
}

// handleCategoriesResource returns the category labels.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	labels := domain.Categories()
	infos := make([]categoryInfo, len(labels))
	for i, l := range labels {
		infos[i] = categoryInfo{Name: l, Color: domain.CategoryColor(l)}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleCreatureResource returns one creature.
func (s *Server) handleCreatureResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractCreatureID(req.Params.URI)
	if id <= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec := s.ports.Records.GetByID(ctx, id)
	if rec.IsZero() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, toOutput(rec))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCreatureID extracts the id from a URI like bestiary://creatures/{id}.
// It returns 0 when the URI does not name a creature.
func extractCreatureID(uri string) int {
	const prefix = uriScheme + "creatures/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}

	id, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return 0
	}
	return id
}
