// Package mcp provides an MCP (Model Context Protocol) server adapter for vista.
// It lets AI assistants search company policy and check whether an answer
// can be grounded in it before they respond.
package mcp

import "errors"

// ErrMissingPolicyService is returned when the policy service is not provided.
var ErrMissingPolicyService = errors.New("mcp: policy service is required")
