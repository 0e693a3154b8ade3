// Package service implements the record operations of the repository
// manager.
//
// This package sits between the HTTP handlers and the repository store. It
// validates payloads, allocates identifiers, stamps update times and turns
// lookup misses into typed errors.
//
// # Services
//
// RepoService manages repositories: get, list, create, full update, the two
// single-field updates and delete.
//
// LanguageService manages programming languages: get, list, add and update.
// Languages cannot be deleted.
//
// StoreService exports and imports snapshots of the whole store and reports
// its statistics.
//
// # Atomicity
//
// Every call runs inside repository.Store.Atomic, so calls never interleave
// and each one observes the effects of every call that returned before it.
// Validation happens before any write, and an entity that cannot be encoded
// panics before the store is touched.
//
// # Errors
//
// Callers receive *domain.NotFoundError, *domain.CreateFailError or
// *domain.UpdateFailError for rejected calls. Any other error is a failure
// of the durable store.
//
// # Event System
//
// Successful mutations publish an Event on the EventBus. The SSE hub
// forwards them to connected clients.
package service
