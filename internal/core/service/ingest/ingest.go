package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/harmonize"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/pack"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/taxonomy"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/validate"
)

// Config tunes the ingestion engine.
type Config struct {
	// AllowPartial ingests the valid subset of a pack instead of rejecting
	// the whole pack when any tag is invalid. Default is strict: one bad
	// tag rejects the pack.
	AllowPartial bool
	// Workers bounds batch ingestion concurrency.
	Workers int
	// Trust assigns per-source trust weights for harmonization.
	Trust harmonize.TrustMap
}

type engine struct {
	uow       port.UnitOfWork
	registry  *taxonomy.Registry
	validator *validate.Validator
	archive   port.PackArchive
	events    port.EventPublisher
	logger    *slog.Logger
	cfg       Config

	packKeys    *packKeyMutex
	identifiers *shardedLocks
}

// NewEngine creates the ingestion engine. archive and events are optional;
// pass nil to disable raw-document archiving or event publishing.
func NewEngine(
	uow port.UnitOfWork,
	registry *taxonomy.Registry,
	archive port.PackArchive,
	events port.EventPublisher,
	cfg Config,
	logger *slog.Logger,
) port.IngestService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &engine{
		uow:         uow,
		registry:    registry,
		validator:   validate.New(),
		archive:     archive,
		events:      events,
		logger:      logger,
		cfg:         cfg,
		packKeys:    newPackKeyMutex(),
		identifiers: &shardedLocks{},
	}
}

// IngestDocument parses, validates and persists one tagpack document as a
// single atomic unit of work, and refreshes the harmonized view of every
// identifier the pack touches.
func (e *engine) IngestDocument(ctx context.Context, location string, raw []byte) domain.PackReport {
	report := domain.PackReport{Location: location}

	p, err := pack.Parse(raw)
	if err != nil {
		report.Status = domain.PackRejected
		report.Err = err
		return report
	}
	report.Source = p.Source
	report.Title = p.Title
	report.Version = p.Version

	snapshot := e.registry.Snapshot()
	if p.TaxonomyVersion != "" && p.TaxonomyVersion != snapshot.Version {
		report.Status = domain.PackRejected
		report.Err = fmt.Errorf("%w: pack declares taxonomy %q, registry holds %q",
			domain.ErrConflictingSchema, p.TaxonomyVersion, snapshot.Version)
		return report
	}

	validation := e.validator.Validate(p, snapshot)
	report.Validation = validation
	if !validation.OK() && !e.cfg.AllowPartial {
		report.Status = domain.PackRejected
		return report
	}

	tags := e.normalizedValidTags(p, validation, snapshot)
	report.TagsSkipped = len(p.Tags) - len(tags)

	packID, identifiers, err := e.persist(ctx, p, tags, snapshot)
	if err != nil {
		if errors.Is(err, domain.ErrStaleVersion) {
			report.Status = domain.PackRejected
		} else {
			report.Status = domain.PackFailed
		}
		report.Err = err
		return report
	}

	report.Status = domain.PackAccepted
	report.TagsIngested = len(tags)

	// post-commit side effects are best effort: a broken archive or broker
	// must not fail an already committed pack
	if e.archive != nil {
		if err := e.archive.ArchivePack(ctx, packID.String(), raw); err != nil {
			e.logger.Error("failed to archive tagpack document", "pack", packID, "error", err)
		}
	}
	if e.events != nil {
		event := domain.IngestedEvent{
			PackID:      packID,
			Source:      p.Source,
			Title:       p.Title,
			Version:     p.Version,
			TagCount:    len(tags),
			Identifiers: identifiers,
			IngestedAt:  time.Now().UTC(),
		}
		if err := e.events.Publish(ctx, event); err != nil {
			e.logger.Error("failed to publish ingestion event", "pack", packID, "error", err)
		}
	}

	return report
}

// normalizedValidTags selects the tags to persist and canonicalizes them:
// identifiers per namespace rule, concepts onto their taxonomy id.
func (e *engine) normalizedValidTags(
	p *domain.TagPack,
	validation *domain.ValidationReport,
	snapshot *domain.TaxonomySnapshot,
) []domain.Tag {
	indexes := validation.ValidIndexes()
	tags := make([]domain.Tag, 0, len(indexes))
	for _, i := range indexes {
		tag := p.Tags[i]
		tag.Identifier = validate.NormalizeIdentifier(tag.Namespace, tag.Identifier)
		if c, ok := snapshot.Resolve(tag.Concept); ok {
			tag.Concept = c.ID
		}
		tags = append(tags, tag)
	}
	return tags
}

func (e *engine) persist(
	ctx context.Context,
	p *domain.TagPack,
	tags []domain.Tag,
	snapshot *domain.TaxonomySnapshot,
) (uuid.UUID, []string, error) {
	key := p.Key()
	lock := e.packKeys.get(key)
	lock.Lock()
	defer lock.Unlock()

	// The pack key mutex serializes same-key ingestions, so the active
	// version read here cannot change before the transaction below runs.
	existing, err := e.uow.PackRepo().FindByKey(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrPackNotFound) {
		return uuid.Nil, nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	touched := make(map[string]bool, len(tags))
	for _, tag := range tags {
		touched[tag.Identifier] = true
	}
	if existing != nil {
		if existing.Version > p.Version {
			return uuid.Nil, nil, fmt.Errorf("%w: version %d already ingested for %s/%s",
				domain.ErrStaleVersion, existing.Version, key.Source, key.Title)
		}
		// supersession retracts everything the prior version contributed
		retracted, err := e.uow.TagRepo().IdentifiersByPack(ctx, existing.ID)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		for _, id := range retracted {
			touched[id] = true
		}
	}
	affected := make([]string, 0, len(touched))
	for id := range touched {
		affected = append(affected, id)
	}
	sort.Strings(affected)

	// The shard locks must span the whole transaction, commit included.
	// A concurrent ingestion touching the same identifier must not read
	// the tag table before this transaction commits, or the later commit
	// overwrites the harmonized view with a ranking missing these tags.
	unlock := e.identifiers.lockAll(affected)
	defer unlock()

	packID := uuid.New()

	txErr := e.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if existing != nil {
			if _, err := uow.TagRepo().DeleteByPack(ctx, existing.ID); err != nil {
				return err
			}
			if err := uow.PackRepo().Delete(ctx, existing.ID); err != nil {
				return err
			}
		}

		record := domain.PackRecord{
			ID:              packID,
			Source:          p.Source,
			Title:           p.Title,
			Creator:         p.Creator,
			URI:             p.URI,
			Description:     p.Description,
			Version:         p.Version,
			TaxonomyVersion: p.TaxonomyVersion,
			IsPublic:        true,
			CreatedAt:       time.Now().UTC(),
		}
		if err := uow.PackRepo().Create(ctx, record); err != nil {
			return err
		}
		if _, err := uow.TagRepo().CreateMany(ctx, packID, tags); err != nil {
			return err
		}

		harmonizer := harmonize.New(e.cfg.Trust, snapshot)
		for _, identifier := range affected {
			if err := e.refreshView(ctx, uow, harmonizer, identifier); err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		if isDomainErr(txErr) {
			return uuid.Nil, nil, txErr
		}
		return uuid.Nil, nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, txErr)
	}
	return packID, affected, nil
}

// refreshView recomputes the cached harmonized view for one identifier
// from all tags currently stored for it. persist holds the identifier's
// shard lock for the duration of the surrounding transaction.
func (e *engine) refreshView(
	ctx context.Context,
	uow port.UnitOfWork,
	harmonizer *harmonize.Harmonizer,
	identifier string,
) error {
	current, err := uow.TagRepo().FindByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		return uow.HarmonizedRepo().Delete(ctx, identifier)
	}

	view := harmonizer.Harmonize(identifier, current)
	view.UpdatedAt = time.Now().UTC()
	return uow.HarmonizedRepo().Upsert(ctx, view)
}

func isDomainErr(err error) bool {
	return errors.Is(err, domain.ErrStaleVersion) ||
		errors.Is(err, domain.ErrConflictingSchema) ||
		errors.Is(err, domain.ErrAlreadyExists)
}
