package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/core/ports/driving"
	"github.com/custodia-labs/vista/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

type valueKind int

const (
	kindString valueKind = iota
	kindStrings
	kindInt
	kindFloat
	kindBool
)

// setting binds a config key to the Settings field it controls.
type setting struct {
	key   string
	kind  valueKind
	apply func(s *domain.Settings, v any)
}

var settingsTable = []setting{
	{domain.KeyPolicyDir, kindString, func(s *domain.Settings, v any) { s.PolicyDir = v.(string) }},
	{domain.KeyPolicyExtensions, kindStrings, func(s *domain.Settings, v any) { s.Extensions = v.([]string) }},
	{domain.KeyChunkMaxLen, kindInt, func(s *domain.Settings, v any) { s.ChunkMaxLen = v.(int) }},
	{domain.KeyChunkOverlap, kindInt, func(s *domain.Settings, v any) { s.ChunkOverlap = v.(int) }},
	{domain.KeySearchTopK, kindInt, func(s *domain.Settings, v any) { s.TopK = v.(int) }},
	{domain.KeyBaseThreshold, kindFloat, func(s *domain.Settings, v any) { s.Grounding.BaseThreshold = v.(float64) }},
	{domain.KeyStrictThreshold, kindFloat, func(s *domain.Settings, v any) { s.Grounding.StrictThreshold = v.(float64) }},
	{domain.KeyCatalogExtraMargin, kindFloat, func(s *domain.Settings, v any) {
		s.Grounding.CatalogExtraMargin = v.(float64)
	}},
	{domain.KeyMaxCitations, kindInt, func(s *domain.Settings, v any) { s.Grounding.MaxCitations = v.(int) }},
	{domain.KeyStrict, kindBool, func(s *domain.Settings, v any) { s.Strict = v.(bool) }},
	{domain.KeyWatchMinInterval, kindInt, func(s *domain.Settings, v any) {
		s.WatchMinInterval = time.Duration(v.(int)) * time.Millisecond
	}},
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// SettingsService resolves settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the stored settings over the defaults. Invalid combinations
// are reported with ErrInvalidInput.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()
	for _, st := range settingsTable {
		if v, ok := s.stored(st); ok {
			st.apply(&settings, v)
		}
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set parses value according to the type of key, checks the resulting
// settings are valid and persists the value.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	parsed, err := parseValue(st.kind, value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	candidate, err := s.Get()
	if err != nil {
		// Still apply, so a broken file can be repaired key by key.
		logger.Debug("Current settings invalid, validating %s against them anyway: %v", key, err)
	}
	st.apply(&candidate, parsed)
	if err := candidate.Validate(); err != nil {
		return err
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns every configurable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// stored reads a key with the store's typed getters. Values of the wrong
// type are ignored with a warning.
func (s *SettingsService) stored(st setting) (any, bool) {
	raw, ok := s.configStore.Get(st.key)
	if !ok {
		return nil, false
	}

	switch st.kind {
	case kindString:
		if v, ok := raw.(string); ok {
			return v, true
		}
	case kindStrings:
		if v := s.configStore.GetStringSlice(st.key); v != nil {
			return v, true
		}
	case kindInt:
		switch raw.(type) {
		case int, int64, float64:
			return s.configStore.GetInt(st.key), true
		}
	case kindFloat:
		if v, ok := s.configStore.GetFloat(st.key); ok {
			return v, true
		}
	case kindBool:
		if _, ok := raw.(bool); ok {
			return s.configStore.GetBool(st.key), true
		}
	}

	logger.Warn("Ignoring %s = %v: wrong type", st.key, raw)
	return nil, false
}

// parseValue converts command-line text to the Go type for kind.
func parseValue(kind valueKind, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case kindStrings:
		var out []string
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("empty list: %w", domain.ErrInvalidInput)
		}
		return out, nil
	case kindInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", text, domain.ErrInvalidInput)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", text, domain.ErrInvalidInput)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean: %w", text, domain.ErrInvalidInput)
		}
		return b, nil
	default:
		if text == "" {
			return nil, fmt.Errorf("empty value: %w", domain.ErrInvalidInput)
		}
		return text, nil
	}
}
