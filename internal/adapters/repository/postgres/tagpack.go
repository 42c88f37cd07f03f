package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

type sqlPackRepository struct {
	db SQLQuerier
}

// NewSqlPackRepository creates sqlPackRepository that implements port.PackRepository
func NewSqlPackRepository(db SQLQuerier) port.PackRepository {
	return &sqlPackRepository{
		db: db,
	}
}

// Create stores a new pack header
func (s *sqlPackRepository) Create(ctx context.Context, record domain.PackRecord) error {
	query := `INSERT INTO tagpack (id, source, title, creator, uri, description, version, taxonomy_version, is_public)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Source,
		record.Title,
		record.Creator,
		record.URI,
		record.Description,
		record.Version,
		record.TaxonomyVersion,
		record.IsPublic,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("pack %s/%s: %w", record.Source, record.Title, domain.ErrAlreadyExists)
			}
		}
		return fmt.Errorf("error inserting pack: %w", err)
	}
	return nil
}

// FindByKey finds the active pack version for a (source, title) key
func (s *sqlPackRepository) FindByKey(ctx context.Context, key domain.PackKey) (*domain.PackRecord, error) {
	query := `SELECT id, source, title, creator, uri, description, version, taxonomy_version, is_public, created_at
              FROM tagpack
              WHERE source = $1 AND title = $2`

	var packDB dbPack
	err := s.db.QueryRowContext(ctx, query, key.Source, key.Title).Scan(
		&packDB.ID,
		&packDB.Source,
		&packDB.Title,
		&packDB.Creator,
		&packDB.URI,
		&packDB.Description,
		&packDB.Version,
		&packDB.TaxonomyVersion,
		&packDB.IsPublic,
		&packDB.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPackNotFound
		}
		return nil, err
	}

	return packDB.ToDomain(), nil
}

// Delete removes a pack header. Stored tags go with it via the cascade.
func (s *sqlPackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tagpack WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting pack: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrPackNotFound
	}

	return nil
}

// List retrieves packs with cursor-based pagination sorted by source and title
func (s *sqlPackRepository) List(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error) {
	if limit <= 0 {
		limit = 20 // default limit
	}
	if limit > 100 {
		limit = 100 // max limit
	}

	var query string
	var args []interface{}

	if marker != nil && *marker != "" {
		// The marker is "source/title" of the last pack of the previous page
		markerSource, markerTitle := splitMarker(*marker)
		query = `
			SELECT id, source, title, creator, uri, description, version, taxonomy_version, is_public, created_at
			FROM tagpack
			WHERE (source, title) > ($1, $2)
			ORDER BY source ASC, title ASC
			LIMIT $3`
		args = []interface{}{markerSource, markerTitle, limit + 1}
	} else {
		query = `
			SELECT id, source, title, creator, uri, description, version, taxonomy_version, is_public, created_at
			FROM tagpack
			ORDER BY source ASC, title ASC
			LIMIT $1`
		args = []interface{}{limit + 1}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying packs: %w", err)
	}
	defer rows.Close()

	packs := make([]domain.PackRecord, 0, limit)
	for rows.Next() {
		var packDB dbPack
		err := rows.Scan(
			&packDB.ID,
			&packDB.Source,
			&packDB.Title,
			&packDB.Creator,
			&packDB.URI,
			&packDB.Description,
			&packDB.Version,
			&packDB.TaxonomyVersion,
			&packDB.IsPublic,
			&packDB.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning pack: %w", err)
		}
		packs = append(packs, *packDB.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating packs: %w", err)
	}

	// Check if there are more results
	var nextMarker *string
	if len(packs) > limit {
		packs = packs[:limit]
		last := packs[len(packs)-1]
		m := joinMarker(last.Source, last.Title)
		nextMarker = &m
	}

	return packs, nextMarker, nil
}

// Composition aggregates tag and identifier counts per (creator, concept)
func (s *sqlPackRepository) Composition(ctx context.Context) ([]domain.CompositionRow, error) {
	query := `
		SELECT tp.creator, t.concept, COUNT(DISTINCT t.identifier), COUNT(*)
		FROM tag t
		JOIN tagpack tp ON tp.id = t.tagpack_id
		GROUP BY tp.creator, t.concept
		ORDER BY tp.creator ASC, t.concept ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying composition: %w", err)
	}
	defer rows.Close()

	var result []domain.CompositionRow
	for rows.Next() {
		var row domain.CompositionRow
		if err := rows.Scan(&row.Creator, &row.Concept, &row.Identifiers, &row.Tags); err != nil {
			return nil, fmt.Errorf("error scanning composition row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating composition rows: %w", err)
	}

	return result, nil
}

// markerSep keeps source and title apart in page markers.
const markerSep = "\n"

func joinMarker(source, title string) string {
	return source + markerSep + title
}

func splitMarker(marker string) (string, string) {
	source, title, found := strings.Cut(marker, markerSep)
	if !found {
		return marker, ""
	}
	return source, title
}

// dbPack represents a tagpack header in DB
type dbPack struct {
	ID              uuid.UUID      `db:"id"`
	Source          string         `db:"source"`
	Title           string         `db:"title"`
	Creator         string         `db:"creator"`
	URI             sql.NullString `db:"uri"`
	Description     sql.NullString `db:"description"`
	Version         int            `db:"version"`
	TaxonomyVersion sql.NullString `db:"taxonomy_version"`
	IsPublic        bool           `db:"is_public"`
	CreatedAt       time.Time      `db:"created_at"`
}

// ToDomain converts to domain.PackRecord
func (p *dbPack) ToDomain() *domain.PackRecord {
	return &domain.PackRecord{
		ID:              p.ID,
		Source:          p.Source,
		Title:           p.Title,
		Creator:         p.Creator,
		URI:             p.URI.String,
		Description:     p.Description.String,
		Version:         p.Version,
		TaxonomyVersion: p.TaxonomyVersion.String,
		IsPublic:        p.IsPublic,
		CreatedAt:       p.CreatedAt,
	}
}
