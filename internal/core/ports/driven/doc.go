// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: Reads policy files from a directory
//   - Normaliser: Parses front matter and produces a Document
//   - Chunker: Splits a Document into Chunks
//   - PolicyIndex: Builds the vector space and answers similarity queries
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ConfigStore: Without it, built-in defaults are used.
//   - PromptStore: Without it, briefings carry no instruction text.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
