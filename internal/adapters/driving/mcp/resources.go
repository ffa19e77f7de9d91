package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vista/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for vista resources.
	uriScheme = "vista://"

	sourcesURI  = uriScheme + "sources"
	settingsURI = uriScheme + "settings"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sourcesURI,
		Name:        "sources",
		Description: "Policy documents in the current index generation",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         settingsURI,
			Name:        "settings",
			Description: "Effective retrieval and grounding configuration",
			MIMEType:    "application/json",
		}, s.handleSettingsResource)
	}
}

// sourcesDocument is the JSON body of the sources resource.
type sourcesDocument struct {
	Ready   bool                 `json:"ready"`
	Sources []driving.SourceInfo `json:"sources"`
}

func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources, err := s.ports.Policy.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	if sources == nil {
		sources = []driving.SourceInfo{}
	}

	return jsonResource(req.Params.URI, sourcesDocument{
		Ready:   s.ports.Policy.Ready(),
		Sources: sources,
	})
}

func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return jsonResource(req.Params.URI, settings)
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
