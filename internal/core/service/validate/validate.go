package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// namespaceRules validates identifier well-formedness per namespace. A
// namespace without a rule falls back to defaultRule.
var namespaceRules = map[string]*regexp.Regexp{
	"BTC": regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{11,87}|[13][a-km-zA-HJ-NP-Z1-9]{25,34})$`),
	"BCH": regexp.MustCompile(`^(bitcoincash:)?[a-zA-Z0-9]{25,54}$`),
	"ETH": regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"LTC": regexp.MustCompile(`^[LM3][a-km-zA-HJ-NP-Z1-9]{26,33}$|^ltc1[02-9ac-hj-np-z]{11,87}$`),
	"ZEC": regexp.MustCompile(`^[tz][a-zA-Z0-9]{34,94}$`),
}

var defaultRule = regexp.MustCompile(`^\S+$`)

// Validator checks parsed tagpacks against a taxonomy snapshot and the
// structural invariants every tag must satisfy.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate produces the per-tag report for a pack. It never mutates the pack
// and it resolves concepts only against the given snapshot, so a concurrent
// taxonomy reload cannot tear a run.
func (v *Validator) Validate(p *domain.TagPack, snapshot *domain.TaxonomySnapshot) *domain.ValidationReport {
	report := &domain.ValidationReport{Results: make([]domain.TagResult, 0, len(p.Tags))}

	for i, tag := range p.Tags {
		report.Results = append(report.Results, v.validateTag(i, tag, snapshot))
	}

	return report
}

func (v *Validator) validateTag(index int, tag domain.Tag, snapshot *domain.TaxonomySnapshot) domain.TagResult {
	if reason, ok := checkIdentifier(tag); !ok {
		return domain.TagResult{Index: index, Outcome: domain.TagMalformedIdentifier, Detail: reason}
	}

	concept := strings.TrimSpace(tag.Concept)
	if _, ok := snapshot.Resolve(concept); !ok {
		return domain.TagResult{Index: index, Outcome: domain.TagUnknownConcept, Detail: concept}
	}

	if tag.Confidence != nil {
		c := *tag.Confidence
		if c < 0 || c > 1 {
			return domain.TagResult{
				Index:   index,
				Outcome: domain.TagOutOfRangeConfidence,
				Detail:  fmt.Sprintf("%g", c),
			}
		}
	}

	return domain.TagResult{Index: index, Outcome: domain.TagValid}
}

func checkIdentifier(tag domain.Tag) (string, bool) {
	id := tag.Identifier
	if id == "" {
		return "empty identifier", false
	}

	rule, ok := namespaceRules[strings.ToUpper(tag.Namespace)]
	if !ok {
		rule = defaultRule
	}
	if !rule.MatchString(id) {
		return fmt.Sprintf("%q does not match the %s format", id, namespaceName(tag.Namespace)), false
	}
	return "", true
}

func namespaceName(ns string) string {
	if ns == "" {
		return "default"
	}
	return strings.ToUpper(ns)
}

// NormalizeIdentifier canonicalizes an identifier for its namespace before
// storage: ETH addresses compare case-insensitively, so they are stored
// lowercased.
func NormalizeIdentifier(namespace, identifier string) string {
	if strings.EqualFold(namespace, "ETH") {
		return strings.ToLower(identifier)
	}
	return identifier
}
