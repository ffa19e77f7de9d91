// Package domain defines the core business entities for Vista.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A policy document with its front-matter metadata
//   - Chunk: The atomic retrievable unit of policy text
//   - Hit: A chunk paired with its weighted similarity score
//   - GroundingPolicy: The thresholds deciding whether hits ground an answer
//   - GroundingDecision: The outcome of applying a GroundingPolicy
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
