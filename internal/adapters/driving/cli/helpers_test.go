package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vista/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vista/internal/adapters/driven/index/tfidf"
	"github.com/custodia-labs/vista/internal/connectors/filesystem"
	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driving"
	"github.com/custodia-labs/vista/internal/core/services"
	"github.com/custodia-labs/vista/internal/normalisers"
	"github.com/custodia-labs/vista/internal/postprocessors/chunker"
)

const (
	feedbackPolicy = "---\ntitle: Feedback Policy\n---\n# Feedback Policy\n\n" +
		"## Timing\nProvide feedback within 48 hours.\n"
	vendorCatalog = "---\ntitle: Vendor Catalog\n---\n" +
		"## Approved Vendors\nAcme Corp supplies laptops. Globex supplies office chairs.\n"
)

// setupTestServices wires the real services over a temporary policy
// directory holding a policy and a catalog. It returns the directory.
func setupTestServices(t *testing.T, opts ...func(*domain.Settings)) string {
	t.Helper()

	policyDir := t.TempDir()
	writePolicy(t, policyDir, "feedback_policy.md", feedbackPolicy)
	writePolicy(t, policyDir, "vendor_catalog.md", vendorCatalog)

	setupServicesFor(t, policyDir, opts...)
	return policyDir
}

func setupServicesFor(t *testing.T, policyDir string, opts ...func(*domain.Settings)) {
	t.Helper()

	configDir := t.TempDir()
	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	settingsSvc := services.NewSettingsService(store)

	settings, err := settingsSvc.Get()
	require.NoError(t, err)
	settings.PolicyDir = policyDir
	for _, opt := range opts {
		opt(&settings)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	require.NoError(t, err)

	conn := filesystem.New(policyDir, filesystem.WithExtensions(settings.Extensions...))
	policy := services.NewPolicyService(
		conn,
		normalisers.NewDefaultRegistry(),
		chunker.New(chunker.WithChunkSize(settings.ChunkMaxLen), chunker.WithOverlap(settings.ChunkOverlap)),
		tfidf.New(),
		prompts,
		settings,
	)

	installServices(t, policy, settingsSvc, settings)
}

// installServices swaps the package-level services for the test's duration.
func installServices(t *testing.T, policy driving.PolicyService, settings driving.SettingsService, eff domain.Settings) {
	t.Helper()

	oldPolicy, oldSettings, oldEffective, oldInjected := policyService, settingsService, effective, injected
	policyService = policy
	settingsService = settings
	effective = eff
	injected = true
	resetFlags()

	t.Cleanup(func() {
		policyService, settingsService, effective, injected = oldPolicy, oldSettings, oldEffective, oldInjected
		resetFlags()
	})
}

func writePolicy(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between tests.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// failingPolicyService fails every call with err.
type failingPolicyService struct {
	err error
}

func (f *failingPolicyService) Reload(context.Context) (driving.ReloadStats, error) {
	return driving.ReloadStats{}, f.err
}

func (f *failingPolicyService) Search(context.Context, string, domain.SearchOptions) ([]domain.Hit, error) {
	return nil, f.err
}

func (f *failingPolicyService) Ground(context.Context, string, bool) (*domain.GroundingDecision, error) {
	return nil, f.err
}

func (f *failingPolicyService) Brief(context.Context, string, bool) (*domain.Briefing, error) {
	return nil, f.err
}

func (f *failingPolicyService) Sources(context.Context) ([]driving.SourceInfo, error) {
	return nil, f.err
}

func (f *failingPolicyService) Ready() bool { return false }

func (f *failingPolicyService) Watch(context.Context) error { return f.err }
