package repository

import (
	"encoding/binary"
	"fmt"

	"repomanage/internal/memory"
)

// counterKey addresses the single cell of the counter region
var counterKey = []byte{0}

// Counter is the durable identifier allocator
type Counter struct {
	region memory.Region
}

// NewCounter binds a counter to its region
func NewCounter(region memory.Region) *Counter {
	return &Counter{region: region}
}

// Peek returns the identifier the next NextID call would hand out
func (c *Counter) Peek() (uint64, error) {
	raw, ok, err := c.region.Get(counterKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}
	if !ok {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("corrupt id counter: %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// NextID durably advances the counter and returns its previous value
func (c *Counter) NextID() (uint64, error) {
	current, err := c.Peek()
	if err != nil {
		return 0, err
	}
	if current == ^uint64(0) {
		return 0, fmt.Errorf("id counter exhausted")
	}
	if err := c.store(current + 1); err != nil {
		return 0, err
	}
	return current, nil
}

// AdvanceTo raises the counter to at least min and returns the resulting
// value. The counter is never lowered.
func (c *Counter) AdvanceTo(min uint64) (uint64, error) {
	current, err := c.Peek()
	if err != nil {
		return 0, err
	}
	if min <= current {
		return current, nil
	}
	if err := c.store(min); err != nil {
		return 0, err
	}
	return min, nil
}

func (c *Counter) store(v uint64) error {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], v)
	if err := c.region.Put(counterKey, raw[:]); err != nil {
		return fmt.Errorf("failed to advance id counter: %w", err)
	}
	return nil
}
