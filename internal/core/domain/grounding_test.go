package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitWith(score float64, catalog bool) Hit {
	return Hit{
		Chunk: Chunk{
			Source:      "doc",
			SourceTitle: "Doc",
			Section:     "Intro",
			IsCatalog:   catalog,
		},
		Score: score,
	}
}

func TestGroundingPolicy_PolicyFound(t *testing.T) {
	p := DefaultGroundingPolicy()

	tests := []struct {
		name     string
		hits     []Hit
		strict   bool
		expected bool
	}{
		{"no hits", nil, false, false},
		{"no hits strict", nil, true, false},
		{"policy above base", []Hit{hitWith(0.15, false)}, false, true},
		{"policy below strict", []Hit{hitWith(0.15, false)}, true, false},
		{"policy at base threshold", []Hit{hitWith(0.12, false)}, false, true},
		{"policy just below base", []Hit{hitWith(0.119, false)}, false, false},
		{"catalog above base plus margin", []Hit{hitWith(0.25, true)}, false, true},
		{"catalog below strict plus margin", []Hit{hitWith(0.25, true)}, true, false},
		{"catalog at base plus margin", []Hit{hitWith(0.22, true)}, false, true},
		{"catalog between base and margin", []Hit{hitWith(0.15, true)}, false, false},
		{"catalog above strict plus margin", []Hit{hitWith(0.33, true)}, true, true},
		{
			"only the top hit counts",
			[]Hit{hitWith(0.05, false), hitWith(0.9, false)},
			false,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.PolicyFound(tt.hits, tt.strict))
		})
	}
}

func TestGroundingPolicy_Threshold(t *testing.T) {
	p := DefaultGroundingPolicy()

	assert.Equal(t, 0.12, p.Threshold(false))
	assert.Equal(t, 0.22, p.Threshold(true))
	assert.InDelta(t, 0.22, p.ThresholdFor(false, true), 1e-12)
	assert.InDelta(t, 0.32, p.ThresholdFor(true, true), 1e-12)
	assert.Greater(t, p.Threshold(true), p.Threshold(false))
}

func TestGroundingPolicy_Decide(t *testing.T) {
	p := DefaultGroundingPolicy()

	t.Run("grounded decision cites top hits", func(t *testing.T) {
		hits := []Hit{
			hitWith(0.41234, false),
			hitWith(0.3, false),
			hitWith(0.2, true),
			hitWith(0.1, false),
		}

		d := p.Decide(hits, false)

		assert.True(t, d.PolicyFound)
		assert.Equal(t, DispositionGrounded, d.Disposition)
		require.Len(t, d.Citations, DefaultMaxCitations)
		assert.Equal(t, 0.412, d.Citations[0].Score)
		assert.Equal(t, "Doc", d.Citations[0].SourceTitle)
		assert.Equal(t, 0.412, d.TopScore)
		assert.False(t, d.TopIsCatalog)
		assert.Len(t, d.Hits, 4)
	})

	t.Run("strict miss is refused", func(t *testing.T) {
		d := p.Decide([]Hit{hitWith(0.15, false)}, true)

		assert.False(t, d.PolicyFound)
		assert.Equal(t, DispositionRefused, d.Disposition)
		assert.NotNil(t, d.Citations)
		assert.Empty(t, d.Citations)
		assert.Equal(t, 0.22, d.Threshold)
	})

	t.Run("non-strict miss falls back to general", func(t *testing.T) {
		d := p.Decide(nil, false)

		assert.False(t, d.PolicyFound)
		assert.Equal(t, DispositionGeneral, d.Disposition)
		assert.Equal(t, 0.0, d.TopScore)
		assert.Equal(t, 0.12, d.Threshold)
	})

	t.Run("catalog top hit reports raised threshold", func(t *testing.T) {
		d := p.Decide([]Hit{hitWith(0.25, true)}, true)

		assert.False(t, d.PolicyFound)
		assert.True(t, d.TopIsCatalog)
		assert.InDelta(t, 0.32, d.Threshold, 1e-12)
	})

	t.Run("citations capped by hit count", func(t *testing.T) {
		d := p.Decide([]Hit{hitWith(0.5, false)}, false)
		assert.Len(t, d.Citations, 1)
	})

	t.Run("non-positive max citations uses default", func(t *testing.T) {
		custom := p
		custom.MaxCitations = 0
		hits := []Hit{hitWith(0.5, false), hitWith(0.4, false), hitWith(0.3, false), hitWith(0.2, false)}

		d := custom.Decide(hits, false)
		assert.Len(t, d.Citations, DefaultMaxCitations)
	})
}
