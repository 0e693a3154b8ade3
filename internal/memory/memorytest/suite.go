// Package memorytest holds the behaviour every memory.Backend must satisfy.
package memorytest

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repomanage/internal/memory"
)

// Opener opens a backend at path. The same path must reopen the same data.
type Opener func(t *testing.T, path string) memory.Backend

// Run exercises backend semantics against a fresh store at path
func Run(t *testing.T, path string, open Opener) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		b := open(t, path+".missing")
		defer b.Close()

		v, ok, err := b.Region(memory.RepoRegion).Get(key(1))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("put overwrites", func(t *testing.T) {
		b := open(t, path+".overwrite")
		defer b.Close()
		r := b.Region(memory.RepoRegion)

		require.NoError(t, r.Put(key(7), []byte("first")))
		require.NoError(t, r.Put(key(7), []byte("second")))

		v, ok, err := r.Get(key(7))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("second"), v)

		stats, err := r.Stats()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stats.Entries)
		assert.Equal(t, uint64(len("second")), stats.Bytes)
	})

	t.Run("regions are isolated", func(t *testing.T) {
		b := open(t, path+".isolated")
		defer b.Close()
		repos := b.Region(memory.RepoRegion)
		langs := b.Region(memory.LanguageRegion)

		require.NoError(t, repos.Put(key(0), []byte("repo")))
		require.NoError(t, langs.Put(key(0), []byte("lang")))

		v, _, err := repos.Get(key(0))
		require.NoError(t, err)
		assert.Equal(t, []byte("repo"), v)

		prior, ok, err := langs.Delete(key(0))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("lang"), prior)

		_, ok, err = repos.Get(key(0))
		require.NoError(t, err)
		assert.True(t, ok, "delete in one region must not touch another")

		counter := b.Region(memory.CounterRegion)
		stats, err := counter.Stats()
		require.NoError(t, err)
		assert.Zero(t, stats.Entries)
	})

	t.Run("ascend is ordered by key", func(t *testing.T) {
		b := open(t, path+".ascend")
		defer b.Close()
		r := b.Region(memory.LanguageRegion)

		for _, id := range []uint64{300, 2, 256, 1, 70000} {
			require.NoError(t, r.Put(key(id), []byte{byte(id)}))
		}

		var got []uint64
		require.NoError(t, r.Ascend(func(k, _ []byte) bool {
			got = append(got, binary.BigEndian.Uint64(k))
			return true
		}))
		assert.Equal(t, []uint64{1, 2, 256, 300, 70000}, got)

		var first []uint64
		require.NoError(t, r.Ascend(func(k, _ []byte) bool {
			first = append(first, binary.BigEndian.Uint64(k))
			return len(first) < 2
		}))
		assert.Equal(t, []uint64{1, 2}, first)
	})

	t.Run("delete missing key", func(t *testing.T) {
		b := open(t, path+".delete")
		defer b.Close()

		prior, ok, err := b.Region(memory.RepoRegion).Delete(key(42))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, prior)
	})

	t.Run("survives reopen", func(t *testing.T) {
		p := path + ".reopen"
		b := open(t, p)
		require.NoError(t, b.Region(memory.CounterRegion).Put([]byte{0}, key(9)))
		require.NoError(t, b.Region(memory.RepoRegion).Put(key(3), []byte("kept")))
		require.NoError(t, b.Close())

		b = open(t, p)
		defer b.Close()

		v, ok, err := b.Region(memory.CounterRegion).Get([]byte{0})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, uint64(9), binary.BigEndian.Uint64(v))

		v, ok, err = b.Region(memory.RepoRegion).Get(key(3))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("kept"), v)
	})
}

func key(id uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], id)
	return k[:]
}
