package domain

import "fmt"

// TagOutcome is the validation result for a single tag.
type TagOutcome int

const (
	TagValid TagOutcome = iota
	TagUnknownConcept
	TagMalformedIdentifier
	TagOutOfRangeConfidence
)

func (o TagOutcome) String() string {
	switch o {
	case TagValid:
		return "valid"
	case TagUnknownConcept:
		return "unknown concept"
	case TagMalformedIdentifier:
		return "malformed identifier"
	case TagOutOfRangeConfidence:
		return "out of range confidence"
	default:
		return "unknown outcome"
	}
}

// TagResult pairs a tag index with its validation outcome and detail
// (the unknown concept name, the malformation reason or the offending
// confidence value).
type TagResult struct {
	Index   int
	Outcome TagOutcome
	Detail  string
}

func (r TagResult) String() string {
	if r.Outcome == TagValid {
		return fmt.Sprintf("tag %d: valid", r.Index)
	}
	return fmt.Sprintf("tag %d: %s (%s)", r.Index, r.Outcome, r.Detail)
}

// ValidationReport is the per-tag outcome list for one tagpack.
type ValidationReport struct {
	Results []TagResult
}

// OK reports whether every tag in the pack is valid.
func (v *ValidationReport) OK() bool {
	for _, r := range v.Results {
		if r.Outcome != TagValid {
			return false
		}
	}
	return true
}

// ValidIndexes returns the indexes of tags that passed validation, in order.
func (v *ValidationReport) ValidIndexes() []int {
	var idx []int
	for _, r := range v.Results {
		if r.Outcome == TagValid {
			idx = append(idx, r.Index)
		}
	}
	return idx
}

// Failures returns the results for tags that did not pass validation.
func (v *ValidationReport) Failures() []TagResult {
	var out []TagResult
	for _, r := range v.Results {
		if r.Outcome != TagValid {
			out = append(out, r)
		}
	}
	return out
}
