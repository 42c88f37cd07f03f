package ingest

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// packKeyMutex serializes ingestion per (source, title) key: two versions of
// the same pack never run concurrently, packs under different keys do.
type packKeyMutex struct {
	mu    sync.Mutex
	locks map[domain.PackKey]*sync.Mutex
}

func newPackKeyMutex() *packKeyMutex {
	return &packKeyMutex{locks: make(map[domain.PackKey]*sync.Mutex)}
}

func (p *packKeyMutex) get(key domain.PackKey) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	return lock
}

// identifierShards bounds the lock memory for per-identifier mutual
// exclusion: identifiers hash onto a fixed number of shards instead of one
// mutex per identifier.
const identifierShards = 64

type shardedLocks struct {
	shards [identifierShards]sync.Mutex
}

// lockAll acquires the shard locks covering identifiers, deduplicated and
// in ascending shard order so that two ingestions with overlapping shard
// sets cannot deadlock. The returned function releases them.
func (s *shardedLocks) lockAll(identifiers []string) func() {
	seen := make(map[int]bool, len(identifiers))
	held := make([]int, 0, len(identifiers))
	for _, id := range identifiers {
		n := shardIndex(id)
		if !seen[n] {
			seen[n] = true
			held = append(held, n)
		}
	}
	sort.Ints(held)
	for _, n := range held {
		s.shards[n].Lock()
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			s.shards[held[i]].Unlock()
		}
	}
}

func shardIndex(identifier string) int {
	h := fnv.New32a()
	h.Write([]byte(identifier))
	return int(h.Sum32() % identifierShards)
}
