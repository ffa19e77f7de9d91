package driving

import "github.com/custodia-labs/vista/internal/core/domain"

// SettingsService reads and updates persisted configuration.
type SettingsService interface {
	// Get returns the effective settings: stored values over defaults.
	Get() (domain.Settings, error)

	// Set parses value for key, validates the result and persists it.
	Set(key, value string) error

	// Keys returns every configurable key.
	Keys() []string

	// Path returns the location of the configuration file.
	Path() string
}
