package domain

import (
	"time"

	"github.com/google/uuid"
)

// TagPack represents a versioned, provenance-tagged bundle of attribution
// records coming from one source. A pack is immutable once ingested;
// re-ingesting a newer version supersedes the prior one.
type TagPack struct {
	Source          string
	Title           string
	Creator         string
	URI             string
	Description     string
	Version         int
	SchemaVersion   int
	TaxonomyVersion string
	Lastmod         time.Time
	Tags            []Tag

	// Extra holds header fields the engine does not interpret, preserved
	// so that round-tripping a document is lossless.
	Extra map[string]any
}

// Key identifies the pack for supersession purposes.
func (p *TagPack) Key() PackKey {
	return PackKey{Source: p.Source, Title: p.Title}
}

// PackKey is the (source, title) pair under which pack versions supersede
// each other.
type PackKey struct {
	Source string
	Title  string
}

// Tag binds one identifier to one taxonomy concept, with an optional
// confidence in [0,1] and free-text context.
type Tag struct {
	Identifier string
	Namespace  string
	Concept    string
	Confidence *float64
	Context    string
	Lastmod    time.Time

	// Extra holds tag fields the engine does not interpret.
	Extra map[string]any
}

// PackRecord is the stored form of a tagpack header, tracking which version
// is currently active for a (source, title) key.
type PackRecord struct {
	ID              uuid.UUID
	Source          string
	Title           string
	Creator         string
	URI             string
	Description     string
	Version         int
	TaxonomyVersion string
	IsPublic        bool
	CreatedAt       time.Time
}

// SourcedTag is a stored tag together with the provenance of the pack that
// contributed it. This is the harmonizer's input unit.
type SourcedTag struct {
	Tag
	PackID    uuid.UUID
	Source    string
	PackTitle string
	Creator   string
}
