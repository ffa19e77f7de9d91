package mcp

import (
	"context"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driving"
)

// mockPolicyService is a mock implementation of driving.PolicyService.
type mockPolicyService struct {
	hits     []domain.Hit
	decision *domain.GroundingDecision
	briefing *domain.Briefing
	stats    driving.ReloadStats
	sources  []driving.SourceInfo
	ready    bool
	err      error

	lastQuery  string
	lastLimit  int
	lastStrict bool
}

func (m *mockPolicyService) Reload(_ context.Context) (driving.ReloadStats, error) {
	return m.stats, m.err
}

func (m *mockPolicyService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.Hit, error) {
	m.lastQuery = query
	m.lastLimit = opts.Limit
	return m.hits, m.err
}

func (m *mockPolicyService) Ground(
	_ context.Context,
	query string,
	strict bool,
) (*domain.GroundingDecision, error) {
	m.lastQuery = query
	m.lastStrict = strict
	if m.err != nil {
		return nil, m.err
	}
	return m.decision, nil
}

func (m *mockPolicyService) Brief(_ context.Context, query string, strict bool) (*domain.Briefing, error) {
	m.lastQuery = query
	m.lastStrict = strict
	if m.err != nil {
		return nil, m.err
	}
	return m.briefing, nil
}

func (m *mockPolicyService) Sources(_ context.Context) ([]driving.SourceInfo, error) {
	return m.sources, m.err
}

func (m *mockPolicyService) Ready() bool { return m.ready }

func (m *mockPolicyService) Watch(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error) { return m.settings, m.err }

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) Path() string { return "" }

func boolPtr(b bool) *bool { return &b }
