package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vista/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newMemoryConfig())

	got, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := newMemoryConfig()
	store.data[domain.KeyPolicyDir] = "/srv/handbook"
	store.data[domain.KeyPolicyExtensions] = []any{".md", ".txt"}
	store.data[domain.KeyChunkMaxLen] = int64(400)
	store.data[domain.KeyChunkOverlap] = int64(100)
	store.data[domain.KeySearchTopK] = int64(8)
	store.data[domain.KeyBaseThreshold] = 0.1
	store.data[domain.KeyStrictThreshold] = int64(1)
	store.data[domain.KeyCatalogExtraMargin] = 0.05
	store.data[domain.KeyMaxCitations] = int64(2)
	store.data[domain.KeyStrict] = true
	store.data[domain.KeyWatchMinInterval] = int64(250)

	got, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, "/srv/handbook", got.PolicyDir)
	assert.Equal(t, []string{".md", ".txt"}, got.Extensions)
	assert.Equal(t, 400, got.ChunkMaxLen)
	assert.Equal(t, 100, got.ChunkOverlap)
	assert.Equal(t, 8, got.TopK)
	assert.Equal(t, 0.1, got.Grounding.BaseThreshold)
	assert.Equal(t, 1.0, got.Grounding.StrictThreshold)
	assert.Equal(t, 0.05, got.Grounding.CatalogExtraMargin)
	assert.Equal(t, 2, got.Grounding.MaxCitations)
	assert.True(t, got.Strict)
	assert.Equal(t, 250*time.Millisecond, got.WatchMinInterval)
}

func TestSettingsService_Get_IgnoresWrongTypes(t *testing.T) {
	store := newMemoryConfig()
	store.data[domain.KeySearchTopK] = "ten"
	store.data[domain.KeyStrict] = "yes"
	store.data[domain.KeyPolicyDir] = 42

	got, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSearchLimit, got.TopK)
	assert.False(t, got.Strict)
	assert.Equal(t, domain.DefaultPolicyDir, got.PolicyDir)
}

func TestSettingsService_Get_Invalid(t *testing.T) {
	store := newMemoryConfig()
	store.data[domain.KeyChunkOverlap] = int64(900)

	_, err := NewSettingsService(store).Get()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  any
	}{
		{domain.KeyPolicyDir, " /data/policies ", "/data/policies"},
		{domain.KeyPolicyExtensions, ".md, .txt,", []string{".md", ".txt"}},
		{domain.KeySearchTopK, "3", 3},
		{domain.KeyStrictThreshold, "0.3", 0.3},
		{domain.KeyStrict, "true", true},
		{domain.KeyWatchMinInterval, "1000", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := newMemoryConfig()
			svc := NewSettingsService(store)

			require.NoError(t, svc.Set(tt.key, tt.value))

			stored, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "llm.model", "x"},
		{"not an integer", domain.KeySearchTopK, "many"},
		{"not a number", domain.KeyBaseThreshold, "low"},
		{"not a boolean", domain.KeyStrict, "maybe"},
		{"empty list", domain.KeyPolicyExtensions, " , "},
		{"empty string", domain.KeyPolicyDir, "  "},
		{"zero top k", domain.KeySearchTopK, "0"},
		{"overlap not below max", domain.KeyChunkOverlap, "800"},
		{"strict below base", domain.KeyStrictThreshold, "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryConfig()
			svc := NewSettingsService(store)

			err := svc.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, stored := store.Get(tt.key)
			assert.False(t, stored, "rejected value must not be persisted")
		})
	}
}

func TestSettingsService_Set_RepairsInvalidStore(t *testing.T) {
	store := newMemoryConfig()
	store.data[domain.KeyChunkOverlap] = int64(900)
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set(domain.KeyChunkOverlap, "200"))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 200, got.ChunkOverlap)
}

func TestSettingsService_KeysAndPath(t *testing.T) {
	svc := NewSettingsService(newMemoryConfig())

	keys := svc.Keys()
	assert.Len(t, keys, 11)
	assert.Equal(t, domain.KeyPolicyDir, keys[0])
	assert.Contains(t, keys, domain.KeyStrict)
	assert.Equal(t, "memory", svc.Path())
}
