// Package memory partitions one durable memory space into regions.
//
// A region is an isolated, independently growable cell space identified by a
// small integer tag (MemoryID). Several logical collections and counters share
// one backing store without overlapping: a write through one region handle can
// never be observed through another.
//
// # Regions
//
// The well-known tags are:
//
//   - CounterRegion (0): the identifier counter
//   - RepoRegion (1): the repository collection
//   - LanguageRegion (2): the programming language collection
//
// New collections get new tags; existing tags must never be renumbered since
// the tag is part of the persisted layout.
//
// # Backends
//
// A Backend owns the durable substrate. Two implementations exist:
//
//   - sqlite: every region lives in one region_cells table keyed by
//     (region, key)
//   - bolt: every region is its own bucket in a bolt file
//
// The Manager is created once at process start and hands out one cached
// Region per tag for the lifetime of the process.
package memory
