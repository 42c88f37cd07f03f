package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

type sqlTagRepository struct {
	db SQLQuerier
}

// NewSqlTagRepository creates sqlTagRepository that implements port.TagRepository
func NewSqlTagRepository(db SQLQuerier) port.TagRepository {
	return &sqlTagRepository{
		db: db,
	}
}

// CreateMany inserts all tags of a pack in a single statement
func (s *sqlTagRepository) CreateMany(ctx context.Context, packID uuid.UUID, tags []domain.Tag) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(tags))
	args := make([]interface{}, 0, len(tags)*7)
	for i, tag := range tags {
		base := i * 7
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args,
			packID,
			tag.Identifier,
			tag.Namespace,
			tag.Concept,
			nullFloat(tag.Confidence),
			tag.Context,
			nullTime(tag.Lastmod),
		)
	}

	query := fmt.Sprintf(
		`INSERT INTO tag (tagpack_id, identifier, namespace, concept, confidence, context, lastmod) VALUES %s`,
		strings.Join(placeholders, ", "),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting tags: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// FindByIdentifier retrieves all stored tags for an identifier together
// with the provenance of their packs
func (s *sqlTagRepository) FindByIdentifier(ctx context.Context, identifier string) ([]domain.SourcedTag, error) {
	query := `
		SELECT t.tagpack_id, t.identifier, t.namespace, t.concept, t.confidence, t.context, t.lastmod,
		       tp.source, tp.title, tp.creator
		FROM tag t
		JOIN tagpack tp ON tp.id = t.tagpack_id
		WHERE t.identifier = $1
		ORDER BY tp.source ASC, tp.title ASC, t.concept ASC, t.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("error querying tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.SourcedTag
	for rows.Next() {
		var tagDB dbTag
		err := rows.Scan(
			&tagDB.PackID,
			&tagDB.Identifier,
			&tagDB.Namespace,
			&tagDB.Concept,
			&tagDB.Confidence,
			&tagDB.Context,
			&tagDB.Lastmod,
			&tagDB.Source,
			&tagDB.PackTitle,
			&tagDB.Creator,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning tag: %w", err)
		}
		tags = append(tags, *tagDB.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// IdentifiersByPack lists the distinct identifiers a pack contributed to
func (s *sqlTagRepository) IdentifiersByPack(ctx context.Context, packID uuid.UUID) ([]string, error) {
	query := `SELECT DISTINCT identifier FROM tag WHERE tagpack_id = $1 ORDER BY identifier ASC`

	rows, err := s.db.QueryContext(ctx, query, packID)
	if err != nil {
		return nil, fmt.Errorf("error querying identifiers: %w", err)
	}
	defer rows.Close()

	var identifiers []string
	for rows.Next() {
		var identifier string
		if err := rows.Scan(&identifier); err != nil {
			return nil, fmt.Errorf("error scanning identifier: %w", err)
		}
		identifiers = append(identifiers, identifier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identifiers: %w", err)
	}

	return identifiers, nil
}

// DeleteByPack retracts all tags a pack version contributed
func (s *sqlTagRepository) DeleteByPack(ctx context.Context, packID uuid.UUID) (int, error) {
	query := `DELETE FROM tag WHERE tagpack_id = $1`

	result, err := s.db.ExecContext(ctx, query, packID)
	if err != nil {
		return 0, fmt.Errorf("error deleting tags: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// DeleteDuplicates removes tags repeating the same (identifier, concept)
// claim from the same source and creator, keeping the most recent row
func (s *sqlTagRepository) DeleteDuplicates(ctx context.Context) (int, error) {
	query := `
		DELETE FROM tag WHERE id IN (
			SELECT id FROM (
				SELECT t.id,
				       ROW_NUMBER() OVER (
				           PARTITION BY t.identifier, t.concept, tp.source, tp.creator
				           ORDER BY t.lastmod DESC NULLS LAST, t.created_at DESC, t.id DESC
				       ) AS duplicate_count
				FROM tag t
				JOIN tagpack tp ON tp.id = t.tagpack_id
			) numbered
			WHERE numbered.duplicate_count > 1
		)`

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error deleting duplicate tags: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// dbTag represents a stored tag joined with its pack's provenance
type dbTag struct {
	PackID     uuid.UUID       `db:"tagpack_id"`
	Identifier string          `db:"identifier"`
	Namespace  string          `db:"namespace"`
	Concept    string          `db:"concept"`
	Confidence sql.NullFloat64 `db:"confidence"`
	Context    sql.NullString  `db:"context"`
	Lastmod    sql.NullTime    `db:"lastmod"`
	Source     string          `db:"source"`
	PackTitle  string          `db:"title"`
	Creator    string          `db:"creator"`
}

// ToDomain converts to domain.SourcedTag
func (t *dbTag) ToDomain() *domain.SourcedTag {
	tag := domain.Tag{
		Identifier: t.Identifier,
		Namespace:  t.Namespace,
		Concept:    t.Concept,
		Context:    t.Context.String,
	}
	if t.Confidence.Valid {
		confidence := t.Confidence.Float64
		tag.Confidence = &confidence
	}
	if t.Lastmod.Valid {
		tag.Lastmod = t.Lastmod.Time
	}
	return &domain.SourcedTag{
		Tag:       tag,
		PackID:    t.PackID,
		Source:    t.Source,
		PackTitle: t.PackTitle,
		Creator:   t.Creator,
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
