// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// PolicyService runs the load, chunk and index pipeline and applies the
// grounding policy to searches. SettingsService resolves configuration.
package services
