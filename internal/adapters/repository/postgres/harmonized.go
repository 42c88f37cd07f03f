package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

type sqlHarmonizedRepository struct {
	db SQLQuerier
}

// NewSqlHarmonizedRepository creates sqlHarmonizedRepository that implements port.HarmonizedRepository
func NewSqlHarmonizedRepository(db SQLQuerier) port.HarmonizedRepository {
	return &sqlHarmonizedRepository{
		db: db,
	}
}

// Upsert replaces the cached harmonized view for an identifier
func (s *sqlHarmonizedRepository) Upsert(ctx context.Context, view domain.HarmonizedTag) error {
	ranking, err := json.Marshal(view.Concepts)
	if err != nil {
		return fmt.Errorf("error marshalling ranking: %w", err)
	}

	query := `INSERT INTO harmonized_tag (identifier, ranking, updated_at)
              VALUES ($1, $2, $3)
              ON CONFLICT (identifier) DO UPDATE
              SET ranking = EXCLUDED.ranking, updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query, view.Identifier, ranking, view.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting harmonized view: %w", err)
	}
	return nil
}

// FindByIdentifier retrieves the cached harmonized view for an identifier
func (s *sqlHarmonizedRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.HarmonizedTag, error) {
	query := `SELECT identifier, ranking, updated_at FROM harmonized_tag WHERE identifier = $1`

	var viewDB dbHarmonized
	err := s.db.QueryRowContext(ctx, query, identifier).Scan(
		&viewDB.Identifier,
		&viewDB.Ranking,
		&viewDB.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdentifierNotFound
		}
		return nil, err
	}

	return viewDB.ToDomain()
}

// Delete drops the cached view of an identifier that lost its last tag
func (s *sqlHarmonizedRepository) Delete(ctx context.Context, identifier string) error {
	query := `DELETE FROM harmonized_tag WHERE identifier = $1`

	_, err := s.db.ExecContext(ctx, query, identifier)
	if err != nil {
		return fmt.Errorf("error deleting harmonized view: %w", err)
	}
	return nil
}

// dbHarmonized represents a harmonized view in DB
type dbHarmonized struct {
	Identifier string    `db:"identifier"`
	Ranking    []byte    `db:"ranking"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToDomain converts to domain.HarmonizedTag
func (h *dbHarmonized) ToDomain() (*domain.HarmonizedTag, error) {
	var concepts []domain.RankedConcept
	if err := json.Unmarshal(h.Ranking, &concepts); err != nil {
		return nil, fmt.Errorf("error unmarshalling ranking: %w", err)
	}
	return &domain.HarmonizedTag{
		Identifier: h.Identifier,
		Concepts:   concepts,
		UpdatedAt:  h.UpdatedAt,
	}, nil
}
