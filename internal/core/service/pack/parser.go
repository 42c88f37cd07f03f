package pack

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// Supported tagpack document schema versions.
const (
	MinSchemaVersion = 1
	MaxSchemaVersion = 2
)

// headerFields are the header keys the engine interprets. Anything else is
// preserved verbatim in TagPack.Extra.
var headerFields = map[string]bool{
	"source":           true,
	"title":            true,
	"creator":          true,
	"uri":              true,
	"description":      true,
	"version":          true,
	"schema_version":   true,
	"taxonomy_version": true,
	"lastmod":          true,
	"tags":             true,
}

// tagFields are the per-tag keys the engine interprets. A tag field declared
// in the header acts as a default for every tag that does not set it itself,
// so bulk packs can declare currency or lastmod once.
var tagFields = map[string]bool{
	"address":    true,
	"currency":   true,
	"label":      true,
	"confidence": true,
	"context":    true,
	"lastmod":    true,
}

// Parse reads a yaml tagpack document into its in-memory representation.
// Unknown fields are kept as opaque metadata, never dropped.
func Parse(data []byte) (*domain.TagPack, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedDocument)
	}

	schemaVersion, err := intField(raw, "schema_version", 1)
	if err != nil {
		return nil, err
	}
	if schemaVersion < MinSchemaVersion || schemaVersion > MaxSchemaVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d..%d)",
			domain.ErrUnsupportedSchemaVersion, schemaVersion, MinSchemaVersion, MaxSchemaVersion)
	}

	p := &domain.TagPack{SchemaVersion: schemaVersion}

	p.Source = stringField(raw, "source")
	p.Title = stringField(raw, "title")
	p.Creator = stringField(raw, "creator")
	p.URI = stringField(raw, "uri")
	p.Description = stringField(raw, "description")
	p.TaxonomyVersion = stringField(raw, "taxonomy_version")

	if p.Source == "" {
		return nil, fmt.Errorf("%w: missing header field %q", domain.ErrMalformedDocument, "source")
	}
	if p.Title == "" {
		return nil, fmt.Errorf("%w: missing header field %q", domain.ErrMalformedDocument, "title")
	}
	if p.Creator == "" {
		return nil, fmt.Errorf("%w: missing header field %q", domain.ErrMalformedDocument, "creator")
	}

	p.Version, err = intField(raw, "version", 1)
	if err != nil {
		return nil, err
	}

	p.Lastmod, err = timeField(raw, "lastmod")
	if err != nil {
		return nil, err
	}

	// Header-level defaults for tag fields.
	defaults := make(map[string]any)
	for key, val := range raw {
		if tagFields[key] {
			defaults[key] = val
			continue
		}
		if !headerFields[key] {
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[key] = val
		}
	}

	rawTags, ok := raw["tags"]
	if !ok {
		return nil, fmt.Errorf("%w: missing header field %q", domain.ErrMalformedDocument, "tags")
	}
	list, ok := rawTags.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q must be a list", domain.ErrMalformedDocument, "tags")
	}

	p.Tags = make([]domain.Tag, 0, len(list))
	for i, entry := range list {
		fields, ok := toStringMap(entry)
		if !ok {
			return nil, fmt.Errorf("%w: tag %d is not a mapping", domain.ErrMalformedDocument, i)
		}
		for key, val := range defaults {
			if _, set := fields[key]; !set {
				fields[key] = val
			}
		}
		tag, err := parseTag(i, fields)
		if err != nil {
			return nil, err
		}
		p.Tags = append(p.Tags, tag)
	}

	return p, nil
}

func parseTag(index int, fields map[string]any) (domain.Tag, error) {
	t := domain.Tag{
		Identifier: stringField(fields, "address"),
		Namespace:  stringField(fields, "currency"),
		Concept:    stringField(fields, "label"),
		Context:    stringField(fields, "context"),
	}

	if conf, ok := fields["confidence"]; ok && conf != nil {
		v, ok := toFloat(conf)
		if !ok {
			return t, fmt.Errorf("%w: tag %d: confidence %v is not a number",
				domain.ErrMalformedDocument, index, conf)
		}
		t.Confidence = &v
	}

	lastmod, err := timeField(fields, "lastmod")
	if err != nil {
		return t, fmt.Errorf("tag %d: %w", index, err)
	}
	t.Lastmod = lastmod

	for key, val := range fields {
		if !tagFields[key] {
			if t.Extra == nil {
				t.Extra = make(map[string]any)
			}
			t.Extra[key] = val
		}
	}

	return t, nil
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for key, val := range m {
			s, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func intField(fields map[string]any, key string, def int) (int, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: field %q must be an integer", domain.ErrMalformedDocument, key)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: field %q must be an integer", domain.ErrMalformedDocument, key)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func timeField(fields map[string]any, key string) (time.Time, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return time.Time{}, nil
	}
	switch ts := v.(type) {
	case time.Time:
		return ts, nil
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, ts); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: field %q: cannot parse time %q",
			domain.ErrMalformedDocument, key, ts)
	default:
		return time.Time{}, fmt.Errorf("%w: field %q: cannot parse time %v",
			domain.ErrMalformedDocument, key, v)
	}
}
