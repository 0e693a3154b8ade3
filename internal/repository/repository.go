package repository

import (
	"fmt"

	"repomanage/internal/domain"
	"repomanage/internal/memory"
	"repomanage/internal/memory/bolt"
	"repomanage/internal/memory/sqlite"
)

// Backend kinds accepted by OpenBackend
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Allocator hands out unique identifiers
type Allocator interface {
	NextID() (uint64, error)
}

// RepoCollection is the repository collection type
type RepoCollection = Collection[domain.Repo]

// LanguageCollection is the programming language collection type
type LanguageCollection = Collection[domain.ProgrammingLanguage]

// OpenBackend opens the durable substrate of the given kind at path
func OpenBackend(kind, path string) (memory.Backend, error) {
	switch kind {
	case BackendSQLite, "":
		return sqlite.New(path)
	case BackendBolt:
		return bolt.New(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
