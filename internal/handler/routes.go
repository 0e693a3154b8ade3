package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"repomanage/internal/metrics"
)

// Routes collects what the router serves. Events, Metrics and
// MetricsHandler are optional.
type Routes struct {
	Repos     *RepoHandler
	Languages *LanguageHandler
	Store     *StoreHandler

	// Events streams service events, normally the SSE hub
	Events http.Handler

	// Metrics counts requests; MetricsHandler serves /metrics
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// NewRouter builds the HTTP API
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(
		RequestID,
		Logger,
		Recover,
		CORS,
		middleware.RealIP,
		Instrument(rt.Metrics),
	)

	r.Route("/api", func(r chi.Router) {
		r.Route("/repos", func(r chi.Router) {
			r.Get("/", rt.Repos.ListRepos)
			r.Post("/", rt.Repos.CreateRepo)
			r.Get("/{id}", rt.Repos.GetRepo)
			r.Put("/{id}", rt.Repos.UpdateRepo)
			r.Put("/{id}/name", rt.Repos.UpdateRepoName)
			r.Put("/{id}/description", rt.Repos.UpdateRepoDescription)
			r.Delete("/{id}", rt.Repos.DeleteRepo)
		})

		r.Route("/languages", func(r chi.Router) {
			r.Get("/", rt.Languages.ListLanguages)
			r.Post("/", rt.Languages.AddLanguage)
			r.Get("/{id}", rt.Languages.GetLanguage)
			r.Put("/{id}", rt.Languages.UpdateLanguage)
		})

		r.With(middleware.Compress(5)).Get("/export/{format}", rt.Store.Export)
		r.Post("/import/{format}", rt.Store.Import)
		r.Get("/stats", rt.Store.Stats)
	})

	r.Get("/healthz", rt.Store.Health)
	if rt.Events != nil {
		r.Method(http.MethodGet, "/events", rt.Events)
	}
	if rt.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", rt.MetricsHandler)
	}

	return r
}
