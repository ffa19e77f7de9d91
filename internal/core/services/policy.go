package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/core/ports/driving"
	"github.com/custodia-labs/vista/internal/logger"
)

// Ensure PolicyService implements the interface.
var _ driving.PolicyService = (*PolicyService)(nil)

// PolicyService loads policy documents into an index and answers grounded
// searches against it.
type PolicyService struct {
	connector driven.Connector
	registry  driven.NormaliserRegistry
	chunker   driven.Chunker
	index     driven.PolicyIndex
	prompts   driven.PromptStore
	settings  domain.Settings

	// quiet is how long Watch waits without a change before reloading.
	quiet time.Duration

	// reloadMu serialises reloads; mu guards the published metadata and
	// is held while the index swaps generations.
	reloadMu sync.Mutex
	mu       sync.RWMutex
	stats    driving.ReloadStats
	sources  []driving.SourceInfo
}

// watchQuietPeriod is the pause that ends a burst of file changes.
const watchQuietPeriod = 150 * time.Millisecond

// NewPolicyService creates a policy service. The prompt store is optional;
// without one Brief falls back to empty templates.
func NewPolicyService(
	connector driven.Connector,
	registry driven.NormaliserRegistry,
	chunker driven.Chunker,
	index driven.PolicyIndex,
	prompts driven.PromptStore,
	settings domain.Settings,
) *PolicyService {
	return &PolicyService{
		connector: connector,
		registry:  registry,
		chunker:   chunker,
		index:     index,
		prompts:   prompts,
		settings:  settings,
		quiet:     watchQuietPeriod,
	}
}

// Settings returns the settings the service was built with.
func (s *PolicyService) Settings() domain.Settings {
	return s.settings
}

// Reload reads every policy document, chunks it and publishes a new index
// generation. Documents that fail to normalise or chunk are skipped with a
// warning. On error the previous generation stays in place.
func (s *PolicyService) Reload(ctx context.Context) (driving.ReloadStats, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	logger.Section("Reload")

	raws, err := s.connector.Load(ctx)
	if err != nil {
		return driving.ReloadStats{}, fmt.Errorf("load policies: %w", err)
	}

	var (
		chunks  []domain.Chunk
		sources = make([]driving.SourceInfo, 0, len(raws))
		stats   driving.ReloadStats
	)
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return driving.ReloadStats{}, err
		}

		doc, err := s.registry.Normalise(ctx, &raws[i])
		if err != nil {
			logger.Warn("Skipping %s: %v", raws[i].URI, err)
			continue
		}

		docChunks, err := s.chunker.Process(ctx, doc)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return driving.ReloadStats{}, err
			}
			logger.Warn("Skipping %s: %v", doc.Source, err)
			continue
		}
		logger.Debug("%s: %d chunks", doc.Source, len(docChunks))

		chunks = append(chunks, docChunks...)
		sources = append(sources, driving.SourceInfo{
			Source:    doc.Source,
			Title:     doc.DisplayTitle(),
			URI:       doc.URI,
			IsCatalog: doc.IsCatalog,
			Weight:    doc.Weight,
			Chunks:    len(docChunks),
		})
		stats.Documents++
		if doc.IsCatalog {
			stats.Catalogs++
		}
	}

	s.mu.Lock()
	if err := s.index.Build(ctx, chunks); err != nil {
		s.mu.Unlock()
		return driving.ReloadStats{}, fmt.Errorf("build index: %w", err)
	}
	stats.Generation = s.index.Generation()
	stats.Chunks = len(chunks)
	s.stats = stats
	s.sources = sources
	s.mu.Unlock()

	logger.Info("Loaded %d policies (%d catalogs) into %d chunks, generation %d",
		stats.Documents, stats.Catalogs, stats.Chunks, stats.Generation)
	return stats, nil
}

// Stats returns the statistics of the current generation.
func (s *PolicyService) Stats() driving.ReloadStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Search returns the top hits for query. A zero limit uses the configured
// top_k. An empty query or an empty index gives no hits.
func (s *PolicyService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Hit, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = s.settings.TopK
	}
	if limit < 1 {
		limit = opts.EffectiveLimit()
	}

	logger.Debug("Search %q (k=%d)", query, limit)
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}

// Ground searches with the configured top_k and applies the grounding
// policy to the ranked hits.
func (s *PolicyService) Ground(ctx context.Context, query string, strict bool) (*domain.GroundingDecision, error) {
	hits, err := s.Search(ctx, query, domain.SearchOptions{})
	if err != nil {
		return nil, err
	}

	decision := s.settings.Grounding.Decide(hits, strict)

	logger.Section("Grounding")
	logger.Debug("top=%.3f threshold=%.3f catalog=%t strict=%t -> %s",
		decision.TopScore, decision.Threshold, decision.TopIsCatalog, strict, decision.Disposition)

	return &decision, nil
}

// Brief grounds query and renders what a text generator should receive.
// A refused decision carries the refusal message instead of context.
func (s *PolicyService) Brief(ctx context.Context, query string, strict bool) (*domain.Briefing, error) {
	decision, err := s.Ground(ctx, query, strict)
	if err != nil {
		return nil, err
	}

	b := &domain.Briefing{
		Query:    query,
		Decision: *decision,
		System:   s.prompt(driven.PromptCoachSystem),
	}

	if decision.Disposition == domain.DispositionRefused {
		b.Refusal = s.prompt(driven.PromptStrictRefusal)
		return b, nil
	}

	note := s.prompt(driven.PromptGeneralNote)
	if decision.PolicyFound {
		note = s.prompt(driven.PromptGroundedNote)
	}
	b.Context = RenderContext(decision, note, s.settings.TopK)
	return b, nil
}

func (s *PolicyService) prompt(name string) string {
	if s.prompts == nil {
		return ""
	}
	p, err := s.prompts.Load(name)
	if err != nil {
		logger.Warn("Prompt %s unavailable: %v", name, err)
		return ""
	}
	return p
}

// Sources lists the documents of the current generation in load order.
func (s *PolicyService) Sources(ctx context.Context) ([]driving.SourceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]driving.SourceInfo, len(s.sources))
	copy(out, s.sources)
	return out, nil
}

// Ready reports whether the index holds a non-empty corpus.
func (s *PolicyService) Ready() bool {
	return s.index.Ready()
}

// Watch reloads on every change to the policy directory, at most once per
// the configured interval. A burst of changes is folded into one reload once
// the directory has been quiet for a short while.
func (s *PolicyService) Watch(ctx context.Context) error {
	changes, err := s.connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch policies: %w", err)
	}

	limit := rate.Inf
	if s.settings.WatchMinInterval > 0 {
		limit = rate.Every(s.settings.WatchMinInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("Policy file %s: %s", change.Type, change.URI)

			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			n, open := settle(ctx, changes, s.quiet)
			if n > 0 {
				logger.Debug("Coalesced %d further changes", n)
			}
			if ctx.Err() != nil {
				return nil
			}

			if _, err := s.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("Reload after change failed: %v", err)
			}
			if !open {
				return nil
			}
		}
	}
}

// settle consumes changes until none arrives for quiet. It returns how many
// it consumed and whether the channel is still open.
func settle(ctx context.Context, changes <-chan domain.RawDocumentChange, quiet time.Duration) (int, bool) {
	timer := time.NewTimer(quiet)
	defer timer.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, true
		case <-timer.C:
			return n, true
		case _, ok := <-changes:
			if !ok {
				return n, false
			}
			n++
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(quiet)
		}
	}
}

// Grounding status labels used in rendered context.
const (
	StatusPolicy          = "POLICY"
	StatusGeneralFallback = "GENERAL_FALLBACK"
	noMatches             = "(no matches)"
)

// RenderContext formats a decision's hits for a text generator: the
// grounding status, the note, then one line per hit.
func RenderContext(d *domain.GroundingDecision, note string, topK int) string {
	status := StatusGeneralFallback
	if d.PolicyFound {
		status = StatusPolicy
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Grounding status: %s\n", status)
	if note != "" {
		b.WriteString(note)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nPolicy excerpts (top %d):\n", topK)
	b.WriteString(FormatHits(d.Hits))
	return b.String()
}

// FormatHits renders one "- [tag] (score=0.00) text" line per hit, or
// "(no matches)" when there are none.
func FormatHits(hits []domain.Hit) string {
	if len(hits) == 0 {
		return noMatches
	}
	lines := make([]string, len(hits))
	for i, h := range hits {
		lines[i] = fmt.Sprintf("- [%s] (score=%.2f) %s", hitTag(h), h.Score, h.Text)
	}
	return strings.Join(lines, "\n")
}

func hitTag(h domain.Hit) string {
	switch {
	case h.Section != "":
		return h.Section
	case h.SourceTitle != "":
		return h.SourceTitle
	case h.Source != "":
		return h.Source
	default:
		return fmt.Sprintf("chunk-%d", h.Position)
	}
}
