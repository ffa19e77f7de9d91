package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// SearchInput is the input schema for the search_policies tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or keywords to look up in company policy"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of excerpts to return (default: configured top_k)"`
}

// SearchOutput is the output schema for the search_policies tool.
type SearchOutput struct {
	Hits  []HitOutput `json:"hits"`
	Count int         `json:"count"`
}

// HitOutput is one ranked policy excerpt.
type HitOutput struct {
	Source      string  `json:"source"`
	SourceTitle string  `json:"source_title"`
	Section     string  `json:"section"`
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
	IsCatalog   bool    `json:"is_catalog"`
}

// GroundInput is the input schema for the ground_question and
// brief_question tools.
type GroundInput struct {
	Query  string `json:"query" jsonschema:"the user's question"`
	Strict *bool  `json:"strict,omitempty" jsonschema:"require a stronger match and refuse when none is found (default: server setting)"`
}

// GroundOutput is the output schema for the ground_question tool.
type GroundOutput struct {
	PolicyFound  bool              `json:"policy_found"`
	Strict       bool              `json:"strict"`
	Disposition  string            `json:"disposition"`
	Citations    []domain.Citation `json:"citations"`
	Threshold    float64           `json:"threshold"`
	TopScore     float64           `json:"top_score"`
	TopSource    string            `json:"top_source,omitempty"`
	TopSection   string            `json:"top_section,omitempty"`
	TopIsCatalog bool              `json:"top_is_catalog"`
}

// BriefOutput is the output schema for the brief_question tool.
type BriefOutput struct {
	Disposition string            `json:"disposition"`
	PolicyFound bool              `json:"policy_found"`
	Citations   []domain.Citation `json:"citations"`
	System      string            `json:"system,omitempty"`
	Context     string            `json:"context,omitempty"`
	Refusal     string            `json:"refusal,omitempty"`
}

// ReloadInput is the (empty) input schema for the reload_policies tool.
type ReloadInput struct{}

// ReloadOutput is the output schema for the reload_policies tool.
type ReloadOutput struct {
	Generation int64 `json:"generation"`
	Documents  int   `json:"documents"`
	Catalogs   int   `json:"catalogs"`
	Chunks     int   `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_policies",
		Description: "Return the company policy excerpts most similar to a query, best first",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ground_question",
		Description: "Decide whether a question is covered by company policy. " +
			"disposition is 'policy' (cite the citations), 'general' (answer with a disclaimer) " +
			"or 'refused' (strict mode: do not answer)",
	}, s.handleGround)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "brief_question",
		Description: "Ground a question and return the instructions and policy context to answer it with",
	}, s.handleBrief)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reload_policies",
		Description: "Re-read the policy directory and rebuild the index",
	}, s.handleReload)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	hits, err := s.ports.Policy.Search(ctx, input.Query, domain.SearchOptions{Limit: input.Limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Hits:  make([]HitOutput, len(hits)),
		Count: len(hits),
	}
	for i := range hits {
		output.Hits[i] = HitOutput{
			Source:      hits[i].Source,
			SourceTitle: hits[i].SourceTitle,
			Section:     hits[i].Section,
			Text:        hits[i].Text,
			Score:       hits[i].Score,
			IsCatalog:   hits[i].IsCatalog,
		}
	}

	return nil, output, nil
}

func (s *Server) handleGround(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GroundInput,
) (*mcp.CallToolResult, GroundOutput, error) {
	d, err := s.ports.Policy.Ground(ctx, input.Query, s.strict(input.Strict))
	if err != nil {
		return nil, GroundOutput{}, err
	}

	return nil, GroundOutput{
		PolicyFound:  d.PolicyFound,
		Strict:       d.Strict,
		Disposition:  string(d.Disposition),
		Citations:    nonNil(d.Citations),
		Threshold:    d.Threshold,
		TopScore:     d.TopScore,
		TopSource:    d.TopSource,
		TopSection:   d.TopSection,
		TopIsCatalog: d.TopIsCatalog,
	}, nil
}

func (s *Server) handleBrief(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GroundInput,
) (*mcp.CallToolResult, BriefOutput, error) {
	b, err := s.ports.Policy.Brief(ctx, input.Query, s.strict(input.Strict))
	if err != nil {
		return nil, BriefOutput{}, err
	}

	output := BriefOutput{
		Disposition: string(b.Decision.Disposition),
		PolicyFound: b.Decision.PolicyFound,
		Citations:   nonNil(b.Decision.Citations),
		System:      b.System,
		Context:     b.Context,
		Refusal:     b.Refusal,
	}

	// A refusal is the whole answer; hand it back as plain text too.
	if b.Refusal != "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: strings.TrimSpace(b.Refusal)}},
		}, output, nil
	}
	return nil, output, nil
}

func (s *Server) handleReload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ReloadInput,
) (*mcp.CallToolResult, ReloadOutput, error) {
	stats, err := s.ports.Policy.Reload(ctx)
	if err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{
		Generation: stats.Generation,
		Documents:  stats.Documents,
		Catalogs:   stats.Catalogs,
		Chunks:     stats.Chunks,
	}, nil
}

func (s *Server) strict(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.ports.Strict
}

func nonNil(c []domain.Citation) []domain.Citation {
	if c == nil {
		return []domain.Citation{}
	}
	return c
}
