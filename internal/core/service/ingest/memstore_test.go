package ingest_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

// memStore is an in-memory stand-in for the relational store. A transaction
// stages its writes on a copy of the committed state and swaps the copy in
// on commit, so readers outside the transaction only ever see committed
// rows, like they would under the real store's isolation.
type memStore struct {
	mu        sync.Mutex
	committed *memState

	// beforeCommit, when set, runs after the transaction body has returned
	// and before its writes become visible.
	beforeCommit func()
}

type memState struct {
	packs map[domain.PackKey]domain.PackRecord
	tags  map[uuid.UUID][]domain.SourcedTag
	views map[string]domain.HarmonizedTag
}

func newMemStore() *memStore {
	return &memStore{committed: &memState{
		packs: map[domain.PackKey]domain.PackRecord{},
		tags:  map[uuid.UUID][]domain.SourcedTag{},
		views: map[string]domain.HarmonizedTag{},
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		packs: make(map[domain.PackKey]domain.PackRecord, len(s.packs)),
		tags:  make(map[uuid.UUID][]domain.SourcedTag, len(s.tags)),
		views: make(map[string]domain.HarmonizedTag, len(s.views)),
	}
	for k, v := range s.packs {
		c.packs[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = append([]domain.SourcedTag(nil), v...)
	}
	for k, v := range s.views {
		c.views[k] = v
	}
	return c
}

// memUnitOfWork reads the committed state directly; inside Execute it
// operates on the transaction's staged copy instead.
type memUnitOfWork struct {
	store *memStore
	state *memState
}

func newMemUoW(store *memStore) port.UnitOfWork {
	return &memUnitOfWork{store: store}
}

func (u *memUnitOfWork) current() *memState {
	if u.state != nil {
		return u.state
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.store.committed.clone()
}

func (u *memUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	u.store.mu.Lock()
	staged := u.store.committed.clone()
	u.store.mu.Unlock()

	if err := fn(&memUnitOfWork{store: u.store, state: staged}); err != nil {
		return err
	}
	if u.store.beforeCommit != nil {
		u.store.beforeCommit()
	}
	u.store.mu.Lock()
	u.store.committed = staged
	u.store.mu.Unlock()
	return nil
}

func (u *memUnitOfWork) PackRepo() port.PackRepository { return memPackRepo{u} }

func (u *memUnitOfWork) TagRepo() port.TagRepository { return memTagRepo{u} }

func (u *memUnitOfWork) HarmonizedRepo() port.HarmonizedRepository { return memHarmonizedRepo{u} }

type memPackRepo struct{ uow *memUnitOfWork }

func (r memPackRepo) Create(ctx context.Context, record domain.PackRecord) error {
	state := r.uow.current()
	key := domain.PackKey{Source: record.Source, Title: record.Title}
	if _, ok := state.packs[key]; ok {
		return domain.ErrAlreadyExists
	}
	state.packs[key] = record
	return nil
}

func (r memPackRepo) FindByKey(ctx context.Context, key domain.PackKey) (*domain.PackRecord, error) {
	state := r.uow.current()
	record, ok := state.packs[key]
	if !ok {
		return nil, domain.ErrPackNotFound
	}
	return &record, nil
}

func (r memPackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	state := r.uow.current()
	for key, record := range state.packs {
		if record.ID == id {
			delete(state.packs, key)
			delete(state.tags, id)
			return nil
		}
	}
	return domain.ErrPackNotFound
}

func (r memPackRepo) List(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error) {
	return nil, nil, nil
}

func (r memPackRepo) Composition(ctx context.Context) ([]domain.CompositionRow, error) {
	return nil, nil
}

type memTagRepo struct{ uow *memUnitOfWork }

func (r memTagRepo) CreateMany(ctx context.Context, packID uuid.UUID, tags []domain.Tag) (int, error) {
	state := r.uow.current()
	var record domain.PackRecord
	for _, p := range state.packs {
		if p.ID == packID {
			record = p
		}
	}
	for _, tag := range tags {
		state.tags[packID] = append(state.tags[packID], domain.SourcedTag{
			Tag:       tag,
			PackID:    packID,
			Source:    record.Source,
			PackTitle: record.Title,
			Creator:   record.Creator,
		})
	}
	return len(tags), nil
}

func (r memTagRepo) FindByIdentifier(ctx context.Context, identifier string) ([]domain.SourcedTag, error) {
	state := r.uow.current()
	var found []domain.SourcedTag
	for _, tags := range state.tags {
		for _, tag := range tags {
			if tag.Identifier == identifier {
				found = append(found, tag)
			}
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Source != found[j].Source {
			return found[i].Source < found[j].Source
		}
		return found[i].Concept < found[j].Concept
	})
	return found, nil
}

func (r memTagRepo) IdentifiersByPack(ctx context.Context, packID uuid.UUID) ([]string, error) {
	state := r.uow.current()
	seen := map[string]bool{}
	var ids []string
	for _, tag := range state.tags[packID] {
		if !seen[tag.Identifier] {
			seen[tag.Identifier] = true
			ids = append(ids, tag.Identifier)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r memTagRepo) DeleteByPack(ctx context.Context, packID uuid.UUID) (int, error) {
	state := r.uow.current()
	n := len(state.tags[packID])
	delete(state.tags, packID)
	return n, nil
}

func (r memTagRepo) DeleteDuplicates(ctx context.Context) (int, error) {
	return 0, nil
}

type memHarmonizedRepo struct{ uow *memUnitOfWork }

func (r memHarmonizedRepo) Upsert(ctx context.Context, view domain.HarmonizedTag) error {
	r.uow.current().views[view.Identifier] = view
	return nil
}

func (r memHarmonizedRepo) FindByIdentifier(ctx context.Context, identifier string) (*domain.HarmonizedTag, error) {
	view, ok := r.uow.current().views[identifier]
	if !ok {
		return nil, domain.ErrIdentifierNotFound
	}
	return &view, nil
}

func (r memHarmonizedRepo) Delete(ctx context.Context, identifier string) error {
	delete(r.uow.current().views, identifier)
	return nil
}
