package memory

import (
	"fmt"
	"sync"
)

// MemoryID tags one region of the durable memory space
type MemoryID uint8

const (
	// CounterRegion holds the identifier counter
	CounterRegion MemoryID = 0
	// RepoRegion holds the repository collection
	RepoRegion MemoryID = 1
	// LanguageRegion holds the programming language collection
	LanguageRegion MemoryID = 2
)

// String returns the region name used in logs and metrics
func (id MemoryID) String() string {
	switch id {
	case CounterRegion:
		return "counter"
	case RepoRegion:
		return "repos"
	case LanguageRegion:
		return "languages"
	default:
		return fmt.Sprintf("region-%d", uint8(id))
	}
}

// RegionStats describes the current footprint of a region
type RegionStats struct {
	Entries uint64 `json:"entries" yaml:"entries"`
	Bytes   uint64 `json:"bytes" yaml:"bytes"`
}

// Region is an isolated, ordered key/value cell space inside the durable
// memory. Keys are compared bytewise. Returned slices are owned by the caller.
type Region interface {
	// ID returns the tag this region was opened with
	ID() MemoryID

	// Get returns the value stored under key
	Get(key []byte) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value
	Put(key, value []byte) error

	// Delete removes key and returns the value it held
	Delete(key []byte) ([]byte, bool, error)

	// Ascend calls fn for every cell in ascending key order until fn
	// returns false. fn must not write to the region.
	Ascend(fn func(key, value []byte) bool) error

	// Stats reports the number of cells and value bytes in the region
	Stats() (RegionStats, error)
}

// Backend is a durable substrate able to open regions by tag
type Backend interface {
	// Region returns the region for id. Opening never writes; storage for
	// a region is created on its first Put.
	Region(id MemoryID) Region

	// Name identifies the backend in logs
	Name() string

	// Close flushes and releases the substrate
	Close() error
}

// Manager hands out one region handle per tag for the lifetime of the process
type Manager struct {
	mu      sync.Mutex
	backend Backend
	regions map[MemoryID]Region
}

// NewManager wraps backend. It is meant to be called exactly once at startup.
func NewManager(backend Backend) *Manager {
	return &Manager{
		backend: backend,
		regions: make(map[MemoryID]Region),
	}
}

// Get returns the region for id, opening it on first use
func (m *Manager) Get(id MemoryID) Region {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.regions[id]; ok {
		return r
	}
	r := m.backend.Region(id)
	m.regions[id] = r
	return r
}

// Backend returns the underlying backend
func (m *Manager) Backend() Backend {
	return m.backend
}

// Close closes the underlying backend. Region handles are unusable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regions = make(map[MemoryID]Region)
	return m.backend.Close()
}
