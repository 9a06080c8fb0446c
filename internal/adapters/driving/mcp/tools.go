package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// defaultSearchLimit caps search_creatures results when no limit is given.
const defaultSearchLimit = 20

// emptyNote explains an empty result, since the gateway reports an
// unreachable collection as an empty one.
const emptyNote = "no creatures returned; the collection may be empty or unreachable"

// ListCreaturesInput is the input schema for the list_creatures tool.
type ListCreaturesInput struct {
	Type string `json:"type,omitempty" jsonschema:"only return creatures with this type, e.g. Fire"`
}

// GetCreatureInput is the input schema for the get_creature tool.
type GetCreatureInput struct {
	ID int `json:"id" jsonschema:"the creature id"`
}

// SearchCreaturesInput is the input schema for the search_creatures tool.
type SearchCreaturesInput struct {
	Term  string `json:"term" jsonschema:"case-insensitive name fragment to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// CreaturesOutput is the output schema for the list and search tools.
type CreaturesOutput struct {
	Creatures []CreatureOutput `json:"creatures"`
	Count     int              `json:"count"`
	Note      string           `json:"note,omitempty"`
}

// CreatureOutput represents a single creature.
type CreatureOutput struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	HP      int      `json:"hp"`
	CP      int      `json:"cp"`
	Picture string   `json:"picture,omitempty"`
	Types   []string `json:"types"`
	Created string   `json:"created,omitempty"`
}

func toOutput(rec domain.Record) CreatureOutput {
	if rec.Categories == nil {
		rec.Categories = []string{}
	}
	return CreatureOutput{
		ID:      rec.ID,
		Name:    rec.Name,
		HP:      rec.HP,
		CP:      rec.CP,
		Picture: rec.Picture,
		Types:   rec.Categories,
		Created: created(rec.Created),
	}
}

// created formats a creation time as RFC 3339, or empty when unset.
func created(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toCreaturesOutput(records []domain.Record) CreaturesOutput {
	out := CreaturesOutput{
		Creatures: make([]CreatureOutput, len(records)),
		Count:     len(records),
	}
	for i := range records {
		out.Creatures[i] = toOutput(records[i])
	}
	if len(records) == 0 {
		out.Note = emptyNote
	}
	return out
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_creatures",
		Description: "List every creature in the collection, optionally filtered by type",
	}, s.handleListCreatures)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_creature",
		Description: "Get a single creature by id",
	}, s.handleGetCreature)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_creatures",
		Description: "Search creatures whose name contains a term",
	}, s.handleSearchCreatures)
}

// handleListCreatures handles the list_creatures tool invocation.
func (s *Server) handleListCreatures(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListCreaturesInput,
) (*mcp.CallToolResult, CreaturesOutput, error) {
	if input.Type != "" && !domain.IsCategory(input.Type) {
		return nil, CreaturesOutput{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, input.Type)
	}

	records := s.ports.Records.ListAll(ctx)
	if input.Type != "" {
		filtered := records[:0:0]
		for _, r := range records {
			if r.HasCategory(input.Type) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	return nil, toCreaturesOutput(records), nil
}

// handleGetCreature handles the get_creature tool invocation.
func (s *Server) handleGetCreature(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetCreatureInput,
) (*mcp.CallToolResult, CreatureOutput, error) {
	if input.ID <= 0 {
		return nil, CreatureOutput{}, fmt.Errorf("%w: id must be positive", domain.ErrInvalidInput)
	}

	rec := s.ports.Records.GetByID(ctx, input.ID)
	if rec.IsZero() {
		return nil, CreatureOutput{}, fmt.Errorf("creature %d not found or unavailable", input.ID)
	}

	return nil, toOutput(rec), nil
}

// handleSearchCreatures handles the search_creatures tool invocation.
func (s *Server) handleSearchCreatures(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchCreaturesInput,
) (*mcp.CallToolResult, CreaturesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records := s.ports.Records.Search(ctx, input.Term)
	if len(records) > limit {
		records = records[:limit]
	}

	return nil, toCreaturesOutput(records), nil
}
