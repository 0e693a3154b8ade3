// Package bolt implements memory.Backend on a bolt file, one bucket per region.
package bolt

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"repomanage/internal/memory"
)

// Backend implements memory.Backend on a bolt database file
type Backend struct {
	db *bolt.DB
}

// New opens (or creates) the bolt file at path
func New(path string) (*Backend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file: %w", err)
	}
	return &Backend{db: db}, nil
}

// Region returns the region handle for id
func (b *Backend) Region(id memory.MemoryID) memory.Region {
	return &region{db: b.db, id: id, bucket: bucketName(id)}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "bolt"
}

// Close closes the bolt file
func (b *Backend) Close() error {
	return b.db.Close()
}

func bucketName(id memory.MemoryID) []byte {
	return []byte(fmt.Sprintf("region/%03d", uint8(id)))
}

// region maps one tag onto one bucket. The bucket is created on first Put,
// so reads against a fresh region see it as empty.
type region struct {
	db     *bolt.DB
	id     memory.MemoryID
	bucket []byte
}

func (r *region) ID() memory.MemoryID {
	return r.id
}

func (r *region) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			value = clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s cell: %w", r.id, err)
	}
	return value, value != nil, nil
}

func (r *region) Put(key, value []byte) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(r.bucket)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s cell: %w", r.id, err)
	}
	return nil
}

func (r *region) Delete(key []byte) ([]byte, bool, error) {
	var prior []byte
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v == nil {
			return nil
		}
		prior = clone(v)
		return b.Delete(key)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to delete %s cell: %w", r.id, err)
	}
	return prior, prior != nil, nil
}

func (r *region) Ascend(fn func(key, value []byte) bool) error {
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if !fn(clone(k), clone(v)) {
				break
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s cells: %w", r.id, err)
	}
	return nil
}

func (r *region) Stats() (memory.RegionStats, error) {
	var stats memory.RegionStats
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			stats.Entries++
			stats.Bytes += uint64(len(v))
			return nil
		})
	})
	if err != nil {
		return memory.RegionStats{}, fmt.Errorf("failed to stat %s: %w", r.id, err)
	}
	return stats, nil
}

// clone copies a slice out of bolt's mmap, which is only valid inside the
// transaction that produced it
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
