package repository

import (
	"fmt"
	"sync"
	"time"

	"repomanage/internal/codec"
	"repomanage/internal/domain"
	"repomanage/internal/memory"
)

// Options tunes a Store
type Options struct {
	// CacheTTL keeps encoded entity frames cached for this long; 0 disables
	CacheTTL time.Duration
}

// Store owns all durable state: the id counter and both collections
type Store struct {
	mu     sync.Mutex
	memory *memory.Manager

	Counter   *Counter
	Repos     *RepoCollection
	Languages *LanguageCollection
}

// Stats summarizes the durable state
type Stats struct {
	Backend string                        `json:"backend" yaml:"backend"`
	NextID  uint64                        `json:"next_id" yaml:"next_id"`
	Regions map[string]memory.RegionStats `json:"regions" yaml:"regions"`
}

// New lays the counter and collections out on their regions
func New(mgr *memory.Manager, opts Options) *Store {
	return &Store{
		memory:    mgr,
		Counter:   NewCounter(mgr.Get(memory.CounterRegion)),
		Repos:     NewCollection[domain.Repo](mgr.Get(memory.RepoRegion), codec.Repos(), opts.CacheTTL),
		Languages: NewCollection[domain.ProgrammingLanguage](mgr.Get(memory.LanguageRegion), codec.Languages(), opts.CacheTTL),
	}
}

// Open opens a backend of the given kind at path and builds a Store on it
func Open(kind, path string, opts Options) (*Store, error) {
	backend, err := OpenBackend(kind, path)
	if err != nil {
		return nil, err
	}
	return New(memory.NewManager(backend), opts), nil
}

// Atomic runs fn with exclusive access to the store. Calls never overlap,
// and a panic inside fn releases the store before propagating.
func (s *Store) Atomic(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Stats reports the counter position and the footprint of every region
func (s *Store) Stats() (*Stats, error) {
	next, err := s.Counter.Peek()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Backend: s.memory.Backend().Name(),
		NextID:  next,
		Regions: make(map[string]memory.RegionStats),
	}
	for _, id := range []memory.MemoryID{memory.CounterRegion, memory.RepoRegion, memory.LanguageRegion} {
		rs, err := s.memory.Get(id).Stats()
		if err != nil {
			return nil, fmt.Errorf("failed to stat region %s: %w", id, err)
		}
		stats.Regions[id.String()] = rs
	}
	return stats, nil
}

// Close releases the durable substrate
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.Close()
}
