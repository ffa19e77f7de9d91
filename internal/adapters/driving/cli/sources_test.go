package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesCmd_Table(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("sources")

	require.NoError(t, err)
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "feedback_policy")
	assert.Contains(t, out, "Feedback Policy")
	assert.Contains(t, out, "vendor_catalog")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "2 documents (1 catalogs), 2 chunks, generation 1")
}

func TestSourcesCmd_JSON(t *testing.T) {
	dir := setupTestServices(t)

	out, err := executeCommand("sources", "--json")
	require.NoError(t, err)

	var report sourcesReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, dir, report.PolicyDir)
	assert.Equal(t, 2, report.Stats.Documents)
	require.Len(t, report.Sources, 2)
	assert.Equal(t, "Vendor Catalog", report.Sources[1].Title)
	assert.True(t, report.Sources[1].IsCatalog)
}

func TestSourcesCmd_Empty(t *testing.T) {
	dir := t.TempDir()
	setupServicesFor(t, dir)

	out, err := executeCommand("sources")

	require.NoError(t, err)
	assert.Contains(t, out, "No policy documents found in "+dir)
}

func TestSourcesCmd_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("sources", "extra")

	assert.Error(t, err)
}
