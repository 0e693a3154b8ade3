// Package repository persists entities in durable memory regions.
//
// This package sits between the entity services and the memory partitioner.
// It owns the three pieces of durable state the system has:
//
//   - Counter: the identifier allocator in the counter region
//   - Collection: an ordered id to entity map in one region
//   - Store: the single context object holding the counter and both
//     collections, built once at startup and injected into services
//
// # Identifiers
//
// Identifiers are allocated read-then-advance: the first call returns 0 and
// every call durably writes the next value before returning. The counter is
// shared by every collection, so identifiers are unique across entity types
// and are never reused after a delete.
//
// # Keys and Ordering
//
// Collections key cells by the 8-byte big-endian identifier, so the
// backend's bytewise key order is ascending numeric order.
//
// # Caching
//
// Collections can keep recently used encoded frames in a go-cache instance.
// Writes go to the region first and then refresh the cache, so the cache
// never holds a frame the region does not.
//
// # Concurrency
//
// Store.Atomic runs one operation at a time. Services wrap every call in it
// so a counter read and its advance can never interleave with another call.
package repository
