package domain

import "math"

// Canonical grounding thresholds.
const (
	// BaseThreshold is the minimum top-hit score in non-strict mode.
	BaseThreshold = 0.12

	// StrictThreshold is the minimum top-hit score in strict mode.
	StrictThreshold = 0.22

	// CatalogExtraMargin is added to the threshold when the top hit is a catalog chunk.
	CatalogExtraMargin = 0.10

	// DefaultMaxCitations is the number of hits cited when a policy is found.
	DefaultMaxCitations = 3
)

// scoreEpsilon absorbs float error in threshold sums such as 0.12+0.10.
const scoreEpsilon = 1e-9

// GroundingPolicy decides whether search hits ground an answer in policy.
type GroundingPolicy struct {
	BaseThreshold      float64
	StrictThreshold    float64
	CatalogExtraMargin float64
	MaxCitations       int
}

// DefaultGroundingPolicy returns the canonical policy configuration.
func DefaultGroundingPolicy() GroundingPolicy {
	return GroundingPolicy{
		BaseThreshold:      BaseThreshold,
		StrictThreshold:    StrictThreshold,
		CatalogExtraMargin: CatalogExtraMargin,
		MaxCitations:       DefaultMaxCitations,
	}
}

// Threshold returns the bar a non-catalog top hit must reach.
func (p GroundingPolicy) Threshold(strict bool) float64 {
	if strict {
		return p.StrictThreshold
	}
	return p.BaseThreshold
}

// ThresholdFor returns the bar for a top hit with the given catalog flag.
func (p GroundingPolicy) ThresholdFor(strict, isCatalog bool) float64 {
	t := p.Threshold(strict)
	if isCatalog {
		t += p.CatalogExtraMargin
	}
	return t
}

// PolicyFound applies the policy to a ranked hit list.
// Only the top hit matters; an empty list is never grounded.
func (p GroundingPolicy) PolicyFound(hits []Hit, strict bool) bool {
	if len(hits) == 0 {
		return false
	}
	top := hits[0]
	return top.Score+scoreEpsilon >= p.ThresholdFor(strict, top.IsCatalog)
}

// Decide applies the policy and assembles the full decision, including
// citations and the presentation disposition.
func (p GroundingPolicy) Decide(hits []Hit, strict bool) GroundingDecision {
	d := GroundingDecision{
		PolicyFound: p.PolicyFound(hits, strict),
		Strict:      strict,
		Threshold:   p.Threshold(strict),
		Hits:        hits,
		Citations:   []Citation{},
	}

	if len(hits) > 0 {
		top := hits[0]
		d.Threshold = p.ThresholdFor(strict, top.IsCatalog)
		d.TopScore = roundScore(top.Score)
		d.TopSource = top.SourceTitle
		d.TopSection = top.Section
		d.TopIsCatalog = top.IsCatalog
	}

	switch {
	case d.PolicyFound:
		d.Disposition = DispositionGrounded
		d.Citations = p.citations(hits)
	case strict:
		d.Disposition = DispositionRefused
	default:
		d.Disposition = DispositionGeneral
	}

	return d
}

func (p GroundingPolicy) citations(hits []Hit) []Citation {
	n := p.MaxCitations
	if n <= 0 {
		n = DefaultMaxCitations
	}
	if n > len(hits) {
		n = len(hits)
	}
	out := make([]Citation, n)
	for i := 0; i < n; i++ {
		out[i] = Citation{
			Source:      hits[i].Source,
			SourceTitle: hits[i].SourceTitle,
			Section:     hits[i].Section,
			Score:       roundScore(hits[i].Score),
		}
	}
	return out
}

func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

// Disposition tells a caller how to present an answer.
type Disposition string

// Available dispositions.
const (
	// DispositionGrounded means qualifying hits exist and should be cited.
	DispositionGrounded Disposition = "policy"

	// DispositionGeneral means no policy matched; answer with an explicit disclaimer.
	DispositionGeneral Disposition = "general"

	// DispositionRefused means no policy matched in strict mode; do not answer.
	DispositionRefused Disposition = "refused"
)

// Citation references a hit that justified a grounded decision.
type Citation struct {
	Source      string  `json:"source"`
	SourceTitle string  `json:"source_title"`
	Section     string  `json:"section"`
	Score       float64 `json:"score"`
}

// GroundingDecision is the derived outcome of a grounding check.
// It is recomputed per query and never stored.
type GroundingDecision struct {
	PolicyFound bool        `json:"policy_found"`
	Strict      bool        `json:"strict"`
	Disposition Disposition `json:"disposition"`
	Citations   []Citation  `json:"citations"`

	// Threshold is the bar the top hit was measured against.
	Threshold    float64 `json:"threshold"`
	TopScore     float64 `json:"top_score"`
	TopSource    string  `json:"top_source,omitempty"`
	TopSection   string  `json:"top_section,omitempty"`
	TopIsCatalog bool    `json:"top_is_catalog"`

	Hits []Hit `json:"-"`
}

// Briefing bundles a grounding decision with the rendered context an
// external text generator should receive.
type Briefing struct {
	Query    string            `json:"query"`
	Decision GroundingDecision `json:"decision"`

	// System is the static instruction template.
	System string `json:"system,omitempty"`

	// Context is the rendered policy context, empty when refused.
	Context string `json:"context,omitempty"`

	// Refusal is set instead of Context when the disposition is refused.
	Refusal string `json:"refusal,omitempty"`
}
