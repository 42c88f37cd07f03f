package domain

import "time"

// Contribution is the provenance of one tag feeding a ranked concept.
// Provenance is never collapsed away: each ranked concept keeps the list of
// (pack, tag) pairs it was derived from.
type Contribution struct {
	Source     string    `json:"source"`
	PackTitle  string    `json:"packTitle"`
	Creator    string    `json:"creator,omitempty"`
	Confidence float64   `json:"confidence"`
	Trust      float64   `json:"trust"`
	Lastmod    time.Time `json:"lastmod"`
}

// RankedConcept is one concept cluster of a harmonized view, with its
// aggregate trust-weighted confidence.
type RankedConcept struct {
	Concept      string         `json:"concept"`
	Weight       float64        `json:"weight"`
	Contributors []Contribution `json:"contributors"`
}

// HarmonizedTag is the deduplicated, ranked aggregate view across all
// sources for one identifier. It is derived data, cached by the ingestion
// engine and served read-only by the query facade.
type HarmonizedTag struct {
	Identifier string          `json:"identifier"`
	Concepts   []RankedConcept `json:"concepts"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CompositionRow is one aggregate line of the tagstore composition
// statistics: how many tags and distinct identifiers each (creator, concept)
// pair contributed.
type CompositionRow struct {
	Creator     string `json:"creator"`
	Concept     string `json:"concept"`
	Identifiers int    `json:"identifiers"`
	Tags        int    `json:"tags"`
}
