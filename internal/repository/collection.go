package repository

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"repomanage/internal/codec"
	"repomanage/internal/memory"
)

// Entry pairs an identifier with its entity
type Entry[T any] struct {
	ID     uint64
	Entity T
}

// Collection is an ordered id to entity map stored in one region
type Collection[T any] struct {
	region memory.Region
	codec  codec.Codec[T]
	cache  *gocache.Cache
}

// NewCollection binds a collection to its region and codec. A zero cacheTTL
// disables the frame cache.
func NewCollection[T any](region memory.Region, c codec.Codec[T], cacheTTL time.Duration) *Collection[T] {
	col := &Collection[T]{region: region, codec: c}
	if cacheTTL > 0 {
		col.cache = gocache.New(cacheTTL, time.Minute)
	}
	return col
}

// Name returns the entity name of the collection
func (c *Collection[T]) Name() string {
	return c.codec.Name()
}

// Region returns the region backing the collection
func (c *Collection[T]) Region() memory.Region {
	return c.region
}

// Get returns the entity stored under id
func (c *Collection[T]) Get(id uint64) (T, bool, error) {
	var zero T

	if frame, ok := c.cached(id); ok {
		return c.codec.Decode(frame), true, nil
	}

	frame, ok, err := c.region.Get(encodeKey(id))
	if err != nil {
		return zero, false, fmt.Errorf("failed to get %s %d: %w", c.Name(), id, err)
	}
	if !ok {
		return zero, false, nil
	}

	v := c.codec.Decode(frame)
	c.remember(id, frame)
	return v, true, nil
}

// All returns every entity in ascending id order
func (c *Collection[T]) All() ([]Entry[T], error) {
	var entries []Entry[T]
	err := c.region.Ascend(func(key, frame []byte) bool {
		entries = append(entries, Entry[T]{
			ID:     decodeKey(key),
			Entity: c.codec.Decode(frame),
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.Name(), err)
	}
	return entries, nil
}

// Insert stores v under id, replacing any previous entity.
// The entity is encoded before the region is touched.
func (c *Collection[T]) Insert(id uint64, v T) error {
	frame := c.codec.Encode(v)
	if err := c.region.Put(encodeKey(id), frame); err != nil {
		return fmt.Errorf("failed to insert %s %d: %w", c.Name(), id, err)
	}
	c.remember(id, frame)
	return nil
}

// Check encodes v without storing it. It panics exactly when Insert would,
// so callers can stage several writes and fail before the first one.
func (c *Collection[T]) Check(v T) {
	_ = c.codec.Encode(v)
}

// Remove deletes id and returns the entity it held
func (c *Collection[T]) Remove(id uint64) (T, bool, error) {
	var zero T

	frame, ok, err := c.region.Delete(encodeKey(id))
	if err != nil {
		return zero, false, fmt.Errorf("failed to remove %s %d: %w", c.Name(), id, err)
	}
	c.forget(id)
	if !ok {
		return zero, false, nil
	}
	return c.codec.Decode(frame), true, nil
}

// Stats reports the size of the backing region
func (c *Collection[T]) Stats() (memory.RegionStats, error) {
	return c.region.Stats()
}

// ============================================================================
// Frame Cache
// ============================================================================

func (c *Collection[T]) cached(id uint64) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(cacheKey(id))
	if !ok {
		return nil, false
	}
	frame, ok := v.([]byte)
	return frame, ok
}

func (c *Collection[T]) remember(id uint64, frame []byte) {
	if c.cache != nil {
		c.cache.SetDefault(cacheKey(id), frame)
	}
}

func (c *Collection[T]) forget(id uint64) {
	if c.cache != nil {
		c.cache.Delete(cacheKey(id))
	}
}

func cacheKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ============================================================================
// Key Encoding
// ============================================================================

func encodeKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

func decodeKey(key []byte) uint64 {
	if len(key) != 8 {
		panic(fmt.Errorf("corrupt collection key of %d bytes", len(key)))
	}
	return binary.BigEndian.Uint64(key)
}
