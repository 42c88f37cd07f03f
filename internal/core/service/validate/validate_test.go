package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/validate"
)

func snapshot() *domain.TaxonomySnapshot {
	return domain.NewTaxonomySnapshot("1.0", "", []*domain.Concept{
		{ID: "organization", Label: "Organization"},
		{ID: "exchange", Label: "Exchange", Parent: "organization", Synonyms: []string{"cex"}},
		{ID: "mixer", Label: "Mixer", Parent: "organization"},
	})
}

func confidence(v float64) *float64 {
	return &v
}

func testPack(tags ...domain.Tag) *domain.TagPack {
	return &domain.TagPack{
		Source:  "src",
		Title:   "pack",
		Creator: "tester",
		Version: 1,
		Tags:    tags,
	}
}

func TestValidate_allValid(t *testing.T) {

	p := testPack(
		domain.Tag{Identifier: "addr1", Concept: "exchange", Confidence: confidence(0.8)},
		domain.Tag{Identifier: "addr2", Concept: "Mixer"},
		domain.Tag{Identifier: "addr3", Concept: "cex"},
	)

	report := validate.New().Validate(p, snapshot())

	require.True(t, report.OK())
	require.Len(t, report.Results, 3)
	require.Equal(t, []int{0, 1, 2}, report.ValidIndexes())
}

func TestValidate_unknownConcept(t *testing.T) {

	// misspelled concept with no registered synonym
	p := testPack(
		domain.Tag{Identifier: "addr1", Concept: "exchnage"},
		domain.Tag{Identifier: "addr2", Concept: "mixer"},
	)

	report := validate.New().Validate(p, snapshot())

	require.False(t, report.OK())
	require.Equal(t, domain.TagUnknownConcept, report.Results[0].Outcome)
	require.Equal(t, "exchnage", report.Results[0].Detail)

	// other tags in the pack stay valid
	require.Equal(t, domain.TagValid, report.Results[1].Outcome)
	require.Equal(t, []int{1}, report.ValidIndexes())
}

func TestValidate_malformedIdentifier(t *testing.T) {

	t.Run("empty identifier", func(t *testing.T) {
		p := testPack(domain.Tag{Identifier: "", Concept: "exchange"})
		report := validate.New().Validate(p, snapshot())
		require.Equal(t, domain.TagMalformedIdentifier, report.Results[0].Outcome)
	})

	t.Run("whitespace in default namespace", func(t *testing.T) {
		p := testPack(domain.Tag{Identifier: "has space", Concept: "exchange"})
		report := validate.New().Validate(p, snapshot())
		require.Equal(t, domain.TagMalformedIdentifier, report.Results[0].Outcome)
	})

	t.Run("bad eth address", func(t *testing.T) {
		p := testPack(domain.Tag{Identifier: "0x123", Namespace: "ETH", Concept: "exchange"})
		report := validate.New().Validate(p, snapshot())
		require.Equal(t, domain.TagMalformedIdentifier, report.Results[0].Outcome)
	})

	t.Run("good eth address", func(t *testing.T) {
		p := testPack(domain.Tag{
			Identifier: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
			Namespace:  "ETH",
			Concept:    "exchange",
		})
		report := validate.New().Validate(p, snapshot())
		require.True(t, report.OK())
	})

	t.Run("good btc address", func(t *testing.T) {
		p := testPack(domain.Tag{
			Identifier: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
			Namespace:  "BTC",
			Concept:    "exchange",
		})
		report := validate.New().Validate(p, snapshot())
		require.True(t, report.OK())
	})
}

func TestValidate_confidenceBounds(t *testing.T) {

	t.Run("exactly 0 and 1 are valid", func(t *testing.T) {
		p := testPack(
			domain.Tag{Identifier: "a", Concept: "exchange", Confidence: confidence(0)},
			domain.Tag{Identifier: "b", Concept: "exchange", Confidence: confidence(1)},
		)
		report := validate.New().Validate(p, snapshot())
		require.True(t, report.OK())
	})

	t.Run("1.01 and -0.01 are out of range", func(t *testing.T) {
		p := testPack(
			domain.Tag{Identifier: "a", Concept: "exchange", Confidence: confidence(1.01)},
			domain.Tag{Identifier: "b", Concept: "exchange", Confidence: confidence(-0.01)},
		)
		report := validate.New().Validate(p, snapshot())
		require.Equal(t, domain.TagOutOfRangeConfidence, report.Results[0].Outcome)
		require.Equal(t, "1.01", report.Results[0].Detail)
		require.Equal(t, domain.TagOutOfRangeConfidence, report.Results[1].Outcome)
	})

	t.Run("absent confidence is valid", func(t *testing.T) {
		p := testPack(domain.Tag{Identifier: "a", Concept: "exchange"})
		report := validate.New().Validate(p, snapshot())
		require.True(t, report.OK())
	})
}

func TestNormalizeIdentifier(t *testing.T) {

	require.Equal(t,
		"0x742d35cc6634c0532925a3b844bc454e4438f44e",
		validate.NormalizeIdentifier("ETH", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"),
	)
	require.Equal(t,
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		validate.NormalizeIdentifier("BTC", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"),
	)
}
