package harmonize

import (
	"sort"
	"strings"
	"time"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// DefaultConfidence is assumed for tags that carry no explicit confidence.
const DefaultConfidence = 1.0

// DefaultTrust is the weight of a provenance source with no configured trust.
const DefaultTrust = 1.0

// TrustMap assigns a trust weight per provenance source.
type TrustMap map[string]float64

func (m TrustMap) trust(source string) float64 {
	if m == nil {
		return DefaultTrust
	}
	if t, ok := m[source]; ok {
		return t
	}
	return DefaultTrust
}

// Harmonizer resolves the tags contributed by all sources for one
// identifier into a ranked, deduplicated view. It is a pure computation:
// identical inputs always produce an identical ranking, also when invoked
// concurrently for different identifiers.
type Harmonizer struct {
	trust    TrustMap
	snapshot *domain.TaxonomySnapshot
}

func New(trust TrustMap, snapshot *domain.TaxonomySnapshot) *Harmonizer {
	return &Harmonizer{trust: trust, snapshot: snapshot}
}

// Harmonize clusters tags by normalized concept, weighs each cluster by
// trust-adjusted confidence and ranks clusters deterministically: weight
// descending, most recent contribution first on ties, concept name as the
// final tie-break.
func (h *Harmonizer) Harmonize(identifier string, tags []domain.SourcedTag) domain.HarmonizedTag {
	view := domain.HarmonizedTag{Identifier: identifier}
	if len(tags) == 0 {
		return view
	}

	clusters := make(map[string][]domain.Contribution)
	for _, tag := range tags {
		concept := h.normalizeConcept(tag.Concept)
		confidence := DefaultConfidence
		if tag.Confidence != nil {
			confidence = *tag.Confidence
		}
		clusters[concept] = append(clusters[concept], domain.Contribution{
			Source:     tag.Source,
			PackTitle:  tag.PackTitle,
			Creator:    tag.Creator,
			Confidence: confidence,
			Trust:      h.trust.trust(tag.Source),
			Lastmod:    tag.Lastmod,
		})
	}

	ranked := make([]domain.RankedConcept, 0, len(clusters))
	for concept, contributors := range clusters {
		sort.Slice(contributors, func(i, j int) bool {
			a, b := contributors[i], contributors[j]
			if a.Source != b.Source {
				return a.Source < b.Source
			}
			if a.PackTitle != b.PackTitle {
				return a.PackTitle < b.PackTitle
			}
			return a.Lastmod.Before(b.Lastmod)
		})
		ranked = append(ranked, domain.RankedConcept{
			Concept:      concept,
			Weight:       aggregateWeight(contributors),
			Contributors: contributors,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		at, bt := latest(a.Contributors), latest(b.Contributors)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.Concept < b.Concept
	})

	view.Concepts = ranked
	return view
}

// aggregateWeight is the mean of trust-weighted confidences within a
// cluster. A single tag of confidence c from a source of trust t therefore
// weighs c*t.
func aggregateWeight(contributors []domain.Contribution) float64 {
	var sum float64
	for _, c := range contributors {
		sum += c.Confidence * c.Trust
	}
	return sum / float64(len(contributors))
}

func latest(contributors []domain.Contribution) time.Time {
	var max time.Time
	for _, c := range contributors {
		if c.Lastmod.After(max) {
			max = c.Lastmod
		}
	}
	return max
}

// normalizeConcept maps synonyms and labels onto the canonical concept id,
// so "cex" and "Exchange" land in the same cluster.
func (h *Harmonizer) normalizeConcept(name string) string {
	name = strings.TrimSpace(name)
	if h.snapshot != nil {
		if c, ok := h.snapshot.Resolve(name); ok {
			return c.ID
		}
	}
	return strings.ToLower(name)
}
