// Package domain defines the records kept by the repository manager and the
// errors its services report.
//
// # Core Types
//
// Repo is a software repository tagged with the identifier of a
// ProgrammingLanguage. Both records carry an identifier drawn from one shared
// counter, so no repository ever has the same id as a language.
//
// RepoPayload and LanguagePayload carry the client-supplied fields of a
// create or update. Apply copies them onto a record; Validate reports the
// first field a service must reject.
//
// # Timestamps
//
// UpdatedAt is an optional count of nanoseconds since the Unix epoch. Touch
// stamps a record with NextStamp, which never returns a value at or below
// the previous stamp even when the wall clock stalls or steps back.
//
// # Errors
//
// NotFoundError, CreateFailError and UpdateFailError are the three failures
// a service reports to its caller. Each matches its sentinel through
// errors.Is:
//
//	if errors.Is(err, domain.ErrNotFound) { ... }
//
// # Snapshots
//
// Snapshot is the full content of a store, used by export and import.
package domain
