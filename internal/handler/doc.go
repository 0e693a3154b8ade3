// Package handler implements HTTP request handlers for the repository
// manager API.
//
// # Handlers
//
// RepoHandler serves repositories, LanguageHandler serves programming
// languages and StoreHandler serves snapshots, statistics and health.
// NewRouter mounts all of them on a chi router together with the SSE hub
// and the prometheus endpoint.
//
// # API Design
//
//	GET    /api/repos                    list repositories
//	POST   /api/repos                    create a repository
//	GET    /api/repos/{id}               get a repository
//	PUT    /api/repos/{id}               replace a repository's fields
//	PUT    /api/repos/{id}/name          rename a repository
//	PUT    /api/repos/{id}/description   change a repository's description
//	DELETE /api/repos/{id}               delete a repository
//	GET    /api/languages                list languages
//	POST   /api/languages                add a language
//	GET    /api/languages/{id}           get a language
//	PUT    /api/languages/{id}           rename a language
//	GET    /api/export/{format}          download a json or yaml snapshot
//	POST   /api/import/{format}          restore a json or yaml snapshot
//	GET    /api/stats                    counter and region sizes
//
// # Response Format
//
// Success responses return the entity or list as JSON. Rejected calls map
// to status codes by error type:
//
//	NotFound   -> 404 {"error":"NotFound","entity":"Repo","id":999}
//	CreateFail -> 400 {"error":"CreateFail","details":"Invalid repo name"}
//	UpdateFail -> 400 {"error":"UpdateFail","details":"Invalid description"}
//
// Store failures, and panics raised by a corrupt or oversized entity, are
// logged and answered with 500.
//
// # Middleware
//
// RequestID tags each request and its logger with an identifier, Logger
// records the outcome, Recover turns panics into 500 responses, and CORS
// opens the API to browser clients.
package handler
