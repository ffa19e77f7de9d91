package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vista/internal/core/domain"
)

func TestGroundCmd_PolicyFound(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("ground", "feedback timing")

	require.NoError(t, err)
	assert.Contains(t, out, "Disposition: POLICY")
	assert.Contains(t, out, "standard (threshold 0.12)")
	assert.Contains(t, out, "Top match:   Feedback Policy > Timing")
	assert.Contains(t, out, "Citations:")
	assert.Contains(t, out, "1. Feedback Policy > Timing")
}

func TestGroundCmd_GeneralFallback(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("ground", "parking garage access")

	require.NoError(t, err)
	assert.Contains(t, out, "Disposition: GENERAL")
	assert.NotContains(t, out, "Citations:")
}

func TestGroundCmd_StrictFlag(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("ground", "--strict", "parking garage access")

	require.NoError(t, err)
	assert.Contains(t, out, "Disposition: REFUSED")
	assert.Contains(t, out, "strict (threshold 0.22)")
}

func TestGroundCmd_StrictFromSettings(t *testing.T) {
	setupTestServices(t, func(s *domain.Settings) { s.Strict = true })

	out, err := executeCommand("ground", "parking garage access")
	require.NoError(t, err)
	assert.Contains(t, out, "Disposition: REFUSED")

	// An explicit flag wins over the configured mode.
	out, err = executeCommand("ground", "--strict=false", "parking garage access")
	require.NoError(t, err)
	assert.Contains(t, out, "Disposition: GENERAL")
}

func TestGroundCmd_CatalogMargin(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("ground", "--json", "globex office chairs")
	require.NoError(t, err)

	var d domain.GroundingDecision
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.True(t, d.TopIsCatalog)
	assert.InDelta(t, domain.BaseThreshold+domain.CatalogExtraMargin, d.Threshold, 1e-9)
	assert.Equal(t, domain.DispositionGrounded, d.Disposition)
}

func TestGroundCmd_JSONGeneralHasEmptyCitations(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("ground", "--json", "parking garage access")
	require.NoError(t, err)

	assert.Contains(t, out, `"citations": []`)
	assert.NotContains(t, out, `"citations": null`)
}

func TestGroundCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("ground")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
