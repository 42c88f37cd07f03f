package taxonomy

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/goccy/go-yaml"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// Registry holds the taxonomy the validator and harmonizer resolve concepts
// against. The active snapshot is swapped atomically on reload; callers that
// grabbed a snapshot keep working against it, so a reload is never observed
// mid-validation.
type Registry struct {
	path   string
	logger *slog.Logger
	snap   atomic.Pointer[domain.TaxonomySnapshot]
}

// NewRegistry creates a registry bound to a taxonomy definition file and
// performs the initial load.
func NewRegistry(path string, logger *slog.Logger) (*Registry, error) {
	r := &Registry{path: path, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRegistryFromSnapshot wraps an already-built snapshot; used by tests and
// by callers that load the definition themselves.
func NewRegistryFromSnapshot(snap *domain.TaxonomySnapshot, logger *slog.Logger) *Registry {
	r := &Registry{logger: logger}
	r.snap.Store(snap)
	return r
}

// Snapshot returns the current immutable taxonomy view.
func (r *Registry) Snapshot() *domain.TaxonomySnapshot {
	return r.snap.Load()
}

// Reload re-reads the definition file and swaps the active snapshot.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read taxonomy definition: %w", err)
	}
	snap, err := ParseDefinition(data)
	if err != nil {
		return err
	}
	r.snap.Store(snap)
	if r.logger != nil {
		r.logger.Info("taxonomy loaded",
			"version", snap.Version,
			"concepts", snap.Len(),
		)
	}
	return nil
}

type definitionDoc struct {
	Version  string       `yaml:"version"`
	URI      string       `yaml:"uri"`
	Concepts []conceptDoc `yaml:"concepts"`
}

type conceptDoc struct {
	ID          string   `yaml:"id"`
	Label       string   `yaml:"label"`
	Parent      string   `yaml:"parent"`
	Description string   `yaml:"description"`
	Synonyms    []string `yaml:"synonyms"`
}

// ParseDefinition reads a yaml vocabulary definition into an immutable
// snapshot. The concept graph must be acyclic and parents must resolve.
func ParseDefinition(data []byte) (*domain.TaxonomySnapshot, error) {
	var doc definitionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedTaxonomy, err)
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("%w: missing version", domain.ErrMalformedTaxonomy)
	}
	if len(doc.Concepts) == 0 {
		return nil, fmt.Errorf("%w: no concepts defined", domain.ErrMalformedTaxonomy)
	}

	concepts := make([]*domain.Concept, 0, len(doc.Concepts))
	byID := make(map[string]*domain.Concept, len(doc.Concepts))
	for _, c := range doc.Concepts {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: concept with empty id", domain.ErrMalformedTaxonomy)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate concept %q", domain.ErrMalformedTaxonomy, c.ID)
		}
		concept := &domain.Concept{
			ID:          c.ID,
			Label:       c.Label,
			Parent:      c.Parent,
			Description: c.Description,
			Synonyms:    c.Synonyms,
		}
		byID[c.ID] = concept
		concepts = append(concepts, concept)
	}

	for _, c := range concepts {
		if c.Parent == "" {
			continue
		}
		if _, ok := byID[c.Parent]; !ok {
			return nil, fmt.Errorf("%w: concept %q references unknown parent %q",
				domain.ErrMalformedTaxonomy, c.ID, c.Parent)
		}
	}

	// cycle check: walk each parent chain, it must terminate within the
	// concept count
	for _, c := range concepts {
		cur := c
		for steps := 0; cur.Parent != ""; steps++ {
			if steps > len(concepts) {
				return nil, fmt.Errorf("%w: cycle through concept %q",
					domain.ErrMalformedTaxonomy, c.ID)
			}
			cur = byID[cur.Parent]
		}
	}

	return domain.NewTaxonomySnapshot(doc.Version, doc.URI, concepts), nil
}
