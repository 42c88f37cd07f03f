package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/repository/postgres"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

func createPack(t *testing.T, ctx context.Context, repo port.PackRepository, source, title string, version int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := repo.Create(ctx, domain.PackRecord{
		ID:       id,
		Source:   source,
		Title:    title,
		Creator:  "tester@example.com",
		Version:  version,
		IsPublic: true,
	})
	require.NoError(t, err)
	return id
}

func confidence(v float64) *float64 {
	return &v
}

func TestSqlTagRepository_CreateMany(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	tagRepo := postgres.NewSqlTagRepository(dbConnection)
	packRepo := postgres.NewSqlPackRepository(dbConnection)

	t.Run("nominal", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)

		tags := []domain.Tag{
			{Identifier: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", Namespace: "BTC", Concept: "exchange", Confidence: confidence(0.8)},
			{Identifier: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", Namespace: "BTC", Concept: "organization"},
			{Identifier: "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", Namespace: "BTC", Concept: "mixer", Confidence: confidence(0.5)},
		}
		nb, err := tagRepo.CreateMany(ctx, packID, tags)
		require.NoError(t, err)
		require.Equal(t, 3, nb)
	})

	t.Run("empty input", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)

		nb, err := tagRepo.CreateMany(ctx, packID, nil)
		require.NoError(t, err)
		require.Equal(t, 0, nb)
	})

	t.Run("unknown pack violates foreign key", func(t *testing.T) {
		truncate()

		tags := []domain.Tag{{Identifier: "addr", Concept: "exchange"}}
		_, err := tagRepo.CreateMany(ctx, uuid.New(), tags)
		require.Error(t, err)
	})
}

func TestSqlTagRepository_FindByIdentifier(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	tagRepo := postgres.NewSqlTagRepository(dbConnection)
	packRepo := postgres.NewSqlPackRepository(dbConnection)

	t.Run("nominal with provenance", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)

		lastmod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		_, err := tagRepo.CreateMany(ctx, packID, []domain.Tag{
			{Identifier: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", Namespace: "BTC", Concept: "exchange", Confidence: confidence(0.9), Context: "scraped", Lastmod: lastmod},
		})
		require.NoError(t, err)

		found, err := tagRepo.FindByIdentifier(ctx, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, "walletexplorer", found[0].Source)
		require.Equal(t, "WE packs", found[0].PackTitle)
		require.Equal(t, "tester@example.com", found[0].Creator)
		require.Equal(t, packID, found[0].PackID)
		require.Equal(t, "exchange", found[0].Concept)
		require.NotNil(t, found[0].Confidence)
		require.InDelta(t, 0.9, *found[0].Confidence, 1e-9)
		require.Equal(t, "scraped", found[0].Context)
		require.True(t, lastmod.Equal(found[0].Lastmod))
	})

	t.Run("aggregates across packs", func(t *testing.T) {
		truncate()
		firstPack := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)
		secondPack := createPack(t, ctx, packRepo, "ransomwhere", "RW packs", 1)

		_, err := tagRepo.CreateMany(ctx, firstPack, []domain.Tag{
			{Identifier: "shared-addr", Concept: "exchange"},
		})
		require.NoError(t, err)
		_, err = tagRepo.CreateMany(ctx, secondPack, []domain.Tag{
			{Identifier: "shared-addr", Concept: "mixer"},
		})
		require.NoError(t, err)

		found, err := tagRepo.FindByIdentifier(ctx, "shared-addr")
		require.NoError(t, err)
		require.Len(t, found, 2)
		// Ordered by source
		require.Equal(t, "ransomwhere", found[0].Source)
		require.Equal(t, "walletexplorer", found[1].Source)
	})

	t.Run("missing confidence and lastmod come back as zero values", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)

		_, err := tagRepo.CreateMany(ctx, packID, []domain.Tag{
			{Identifier: "bare-addr", Concept: "exchange"},
		})
		require.NoError(t, err)

		found, err := tagRepo.FindByIdentifier(ctx, "bare-addr")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Nil(t, found[0].Confidence)
		require.True(t, found[0].Lastmod.IsZero())
	})

	t.Run("not found", func(t *testing.T) {
		truncate()

		found, err := tagRepo.FindByIdentifier(ctx, "no-such-addr")
		require.NoError(t, err)
		require.Empty(t, found)
	})
}

func TestSqlTagRepository_IdentifiersByPack(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	tagRepo := postgres.NewSqlTagRepository(dbConnection)
	packRepo := postgres.NewSqlPackRepository(dbConnection)

	t.Run("distinct and sorted", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)
		otherPack := createPack(t, ctx, packRepo, "ransomwhere", "RW packs", 1)

		_, err := tagRepo.CreateMany(ctx, packID, []domain.Tag{
			{Identifier: "b-addr", Concept: "exchange"},
			{Identifier: "a-addr", Concept: "exchange"},
			{Identifier: "a-addr", Concept: "organization"},
		})
		require.NoError(t, err)
		_, err = tagRepo.CreateMany(ctx, otherPack, []domain.Tag{
			{Identifier: "c-addr", Concept: "mixer"},
		})
		require.NoError(t, err)

		identifiers, err := tagRepo.IdentifiersByPack(ctx, packID)
		require.NoError(t, err)
		require.Equal(t, []string{"a-addr", "b-addr"}, identifiers)
	})

	t.Run("empty for unknown pack", func(t *testing.T) {
		truncate()

		identifiers, err := tagRepo.IdentifiersByPack(ctx, uuid.New())
		require.NoError(t, err)
		require.Empty(t, identifiers)
	})
}

func TestSqlTagRepository_DeleteByPack(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	tagRepo := postgres.NewSqlTagRepository(dbConnection)
	packRepo := postgres.NewSqlPackRepository(dbConnection)

	t.Run("only the pack's tags go", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)
		otherPack := createPack(t, ctx, packRepo, "ransomwhere", "RW packs", 1)

		_, err := tagRepo.CreateMany(ctx, packID, []domain.Tag{
			{Identifier: "a-addr", Concept: "exchange"},
			{Identifier: "b-addr", Concept: "exchange"},
		})
		require.NoError(t, err)
		_, err = tagRepo.CreateMany(ctx, otherPack, []domain.Tag{
			{Identifier: "a-addr", Concept: "mixer"},
		})
		require.NoError(t, err)

		nb, err := tagRepo.DeleteByPack(ctx, packID)
		require.NoError(t, err)
		require.Equal(t, 2, nb)

		remaining, err := tagRepo.FindByIdentifier(ctx, "a-addr")
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		require.Equal(t, "ransomwhere", remaining[0].Source)
	})

	t.Run("zero rows for unknown pack", func(t *testing.T) {
		truncate()

		nb, err := tagRepo.DeleteByPack(ctx, uuid.New())
		require.NoError(t, err)
		require.Equal(t, 0, nb)
	})
}

func TestSqlTagRepository_DeleteDuplicates(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	tagRepo := postgres.NewSqlTagRepository(dbConnection)
	packRepo := postgres.NewSqlPackRepository(dbConnection)

	t.Run("same claim from same source and creator collapses", func(t *testing.T) {
		truncate()
		firstPack := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)
		secondPack := createPack(t, ctx, packRepo, "walletexplorer", "WE packs bis", 1)

		older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		_, err := tagRepo.CreateMany(ctx, firstPack, []domain.Tag{
			{Identifier: "dup-addr", Concept: "exchange", Lastmod: older},
		})
		require.NoError(t, err)
		_, err = tagRepo.CreateMany(ctx, secondPack, []domain.Tag{
			{Identifier: "dup-addr", Concept: "exchange", Lastmod: newer},
		})
		require.NoError(t, err)

		nb, err := tagRepo.DeleteDuplicates(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, nb)

		remaining, err := tagRepo.FindByIdentifier(ctx, "dup-addr")
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		require.True(t, newer.Equal(remaining[0].Lastmod))
	})

	t.Run("different sources are not duplicates", func(t *testing.T) {
		truncate()
		firstPack := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)
		secondPack := createPack(t, ctx, packRepo, "ransomwhere", "RW packs", 1)

		_, err := tagRepo.CreateMany(ctx, firstPack, []domain.Tag{
			{Identifier: "addr", Concept: "exchange"},
		})
		require.NoError(t, err)
		_, err = tagRepo.CreateMany(ctx, secondPack, []domain.Tag{
			{Identifier: "addr", Concept: "exchange"},
		})
		require.NoError(t, err)

		nb, err := tagRepo.DeleteDuplicates(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, nb)
	})

	t.Run("different concepts are not duplicates", func(t *testing.T) {
		truncate()
		packID := createPack(t, ctx, packRepo, "walletexplorer", "WE packs", 1)

		_, err := tagRepo.CreateMany(ctx, packID, []domain.Tag{
			{Identifier: "addr", Concept: "exchange"},
			{Identifier: "addr", Concept: "organization"},
		})
		require.NoError(t, err)

		nb, err := tagRepo.DeleteDuplicates(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, nb)
	})

	t.Run("empty database", func(t *testing.T) {
		truncate()

		nb, err := tagRepo.DeleteDuplicates(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, nb)
	})
}
