package mcp

import (
	"github.com/custodia-labs/vista/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Policy provides search, grounding and reload.
	Policy driving.PolicyService

	// Settings exposes the effective configuration. Optional.
	Settings driving.SettingsService

	// Strict is the grounding mode used when a tool call does not say.
	Strict bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Policy == nil {
		return ErrMissingPolicyService
	}
	return nil
}
