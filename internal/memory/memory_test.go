package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	opened map[MemoryID]int
	closed bool
}

func (s *stubBackend) Region(id MemoryID) Region {
	s.opened[id]++
	return stubRegion(id)
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Close() error {
	s.closed = true
	return nil
}

type stubRegion MemoryID

func (r stubRegion) ID() MemoryID { return MemoryID(r) }
func (stubRegion) Get([]byte) ([]byte, bool, error) { return nil, false, nil }
func (stubRegion) Put([]byte, []byte) error { return nil }
func (stubRegion) Delete([]byte) ([]byte, bool, error) { return nil, false, nil }
func (stubRegion) Ascend(func([]byte, []byte) bool) error { return nil }
func (stubRegion) Stats() (RegionStats, error) { return RegionStats{}, nil }

func TestManagerCachesRegions(t *testing.T) {
	backend := &stubBackend{opened: make(map[MemoryID]int)}
	m := NewManager(backend)

	first := m.Get(RepoRegion)
	second := m.Get(RepoRegion)
	other := m.Get(LanguageRegion)

	assert.Equal(t, first, second)
	assert.Equal(t, RepoRegion, first.ID())
	assert.Equal(t, LanguageRegion, other.ID())
	assert.Equal(t, 1, backend.opened[RepoRegion])
	assert.Equal(t, 1, backend.opened[LanguageRegion])
	assert.Same(t, backend, m.Backend())

	require.NoError(t, m.Close())
	assert.True(t, backend.closed)
}

func TestMemoryIDString(t *testing.T) {
	tests := []struct {
		id   MemoryID
		want string
	}{
		{CounterRegion, "counter"},
		{RepoRegion, "repos"},
		{LanguageRegion, "languages"},
		{MemoryID(9), "region-9"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.String())
		})
	}
}
