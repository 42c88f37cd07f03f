package pack_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/pack"
)

const validDoc = `
source: https://example.com/walletexplorer
title: demo_pack
creator: analyst@example.com
version: 2
schema_version: 1
taxonomy_version: "1.0"
currency: BTC
lastmod: 2023-05-01
tags:
  - address: 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa
    label: exchange
    confidence: 0.9
    context: observed deposit flow
  - address: 3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy
    label: mixer
    lastmod: 2023-06-15
`

func TestParse_nominal(t *testing.T) {

	//Act
	p, err := pack.Parse([]byte(validDoc))

	//Assert
	require.NoError(t, err)
	require.Equal(t, "https://example.com/walletexplorer", p.Source)
	require.Equal(t, "demo_pack", p.Title)
	require.Equal(t, "analyst@example.com", p.Creator)
	require.Equal(t, 2, p.Version)
	require.Equal(t, 1, p.SchemaVersion)
	require.Equal(t, "1.0", p.TaxonomyVersion)
	require.Len(t, p.Tags, 2)

	first := p.Tags[0]
	require.Equal(t, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", first.Identifier)
	require.Equal(t, "exchange", first.Concept)
	require.NotNil(t, first.Confidence)
	require.Equal(t, 0.9, *first.Confidence)
	require.Equal(t, "observed deposit flow", first.Context)
}

func TestParse_headerDefaultsInherited(t *testing.T) {

	p, err := pack.Parse([]byte(validDoc))
	require.NoError(t, err)

	// currency and lastmod are declared once in the header
	require.Equal(t, "BTC", p.Tags[0].Namespace)
	require.Equal(t, "BTC", p.Tags[1].Namespace)
	require.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), p.Tags[0].Lastmod)

	// a tag-level value wins over the header default
	require.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), p.Tags[1].Lastmod)
}

func TestParse_unknownFieldsPreserved(t *testing.T) {

	doc := `
source: src
title: t
creator: c
internal_ticket: ABC-123
tags:
  - address: addr1
    label: exchange
    reviewer: alice
`

	p, err := pack.Parse([]byte(doc))

	require.NoError(t, err)
	require.Equal(t, "ABC-123", p.Extra["internal_ticket"])
	require.Equal(t, "alice", p.Tags[0].Extra["reviewer"])
}

func TestParse_malformedDocument(t *testing.T) {

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := pack.Parse([]byte("title: [unclosed"))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := pack.Parse([]byte(""))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := pack.Parse([]byte("title: t\ncreator: c\ntags: []"))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})

	t.Run("missing tags", func(t *testing.T) {
		_, err := pack.Parse([]byte("source: s\ntitle: t\ncreator: c"))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})

	t.Run("tags not a list", func(t *testing.T) {
		_, err := pack.Parse([]byte("source: s\ntitle: t\ncreator: c\ntags: nope"))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})

	t.Run("tag entry not a mapping", func(t *testing.T) {
		_, err := pack.Parse([]byte("source: s\ntitle: t\ncreator: c\ntags:\n  - just-a-string"))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})

	t.Run("non numeric confidence", func(t *testing.T) {
		doc := "source: s\ntitle: t\ncreator: c\ntags:\n  - address: a\n    label: l\n    confidence: high"
		_, err := pack.Parse([]byte(doc))
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
	})
}

func TestParse_schemaVersion(t *testing.T) {

	t.Run("defaults to 1 when absent", func(t *testing.T) {
		p, err := pack.Parse([]byte("source: s\ntitle: t\ncreator: c\ntags: []"))
		require.NoError(t, err)
		require.Equal(t, 1, p.SchemaVersion)
	})

	t.Run("unsupported version rejected", func(t *testing.T) {
		_, err := pack.Parse([]byte("source: s\ntitle: t\ncreator: c\nschema_version: 9\ntags: []"))
		require.ErrorIs(t, err, domain.ErrUnsupportedSchemaVersion)
	})

	t.Run("version zero rejected", func(t *testing.T) {
		_, err := pack.Parse([]byte("source: s\ntitle: t\ncreator: c\nschema_version: 0\ntags: []"))
		require.ErrorIs(t, err, domain.ErrUnsupportedSchemaVersion)
	})
}
