package domain

import (
	"fmt"
	"time"
)

// Configuration keys read from the config store.
const (
	KeyPolicyDir          = "policies.dir"
	KeyPolicyExtensions   = "policies.extensions"
	KeyChunkMaxLen        = "chunking.max_len"
	KeyChunkOverlap       = "chunking.overlap"
	KeySearchTopK         = "search.top_k"
	KeyBaseThreshold      = "grounding.base_threshold"
	KeyStrictThreshold    = "grounding.strict_threshold"
	KeyCatalogExtraMargin = "grounding.catalog_extra_margin"
	KeyMaxCitations       = "grounding.max_citations"
	KeyStrict             = "grounding.strict"
	KeyWatchMinInterval   = "watch.min_interval_ms"
)

// Setting defaults.
const (
	DefaultPolicyDir     = "./data/policies"
	DefaultChunkMaxLen   = 800
	DefaultChunkOverlap  = 300
	DefaultWatchInterval = 500 * time.Millisecond
)

// DefaultPolicyExtensions returns the file extensions scanned by default.
func DefaultPolicyExtensions() []string {
	return []string{".md"}
}

// Settings is the effective configuration of the policy engine.
type Settings struct {
	PolicyDir        string          `json:"policy_dir"`
	Extensions       []string        `json:"extensions"`
	ChunkMaxLen      int             `json:"chunk_max_len"`
	ChunkOverlap     int             `json:"chunk_overlap"`
	TopK             int             `json:"top_k"`
	Grounding        GroundingPolicy `json:"grounding"`
	Strict           bool            `json:"strict"`
	WatchMinInterval time.Duration   `json:"watch_min_interval"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		PolicyDir:        DefaultPolicyDir,
		Extensions:       DefaultPolicyExtensions(),
		ChunkMaxLen:      DefaultChunkMaxLen,
		ChunkOverlap:     DefaultChunkOverlap,
		TopK:             DefaultSearchLimit,
		Grounding:        DefaultGroundingPolicy(),
		WatchMinInterval: DefaultWatchInterval,
	}
}

// Validate reports settings that would break chunking or ranking.
func (s Settings) Validate() error {
	switch {
	case s.ChunkMaxLen <= 0:
		return fmt.Errorf("%s must be positive: %w", KeyChunkMaxLen, ErrInvalidInput)
	case s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkMaxLen:
		return fmt.Errorf("%s must be in [0, %s): %w", KeyChunkOverlap, KeyChunkMaxLen, ErrInvalidInput)
	case s.TopK < 1:
		return fmt.Errorf("%s must be at least 1: %w", KeySearchTopK, ErrInvalidInput)
	case s.Grounding.StrictThreshold < s.Grounding.BaseThreshold:
		return fmt.Errorf("%s must not be below %s: %w", KeyStrictThreshold, KeyBaseThreshold, ErrInvalidInput)
	}
	return nil
}
