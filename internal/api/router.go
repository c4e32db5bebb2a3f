package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth
// group. Bulk routes exist only when the service carries a bulk
// coordinator; with the feature off the endpoints do not resolve at all.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Article view.
	r.Get("/articles", h.ListArticles)
	r.Get("/articles/{id}", h.GetArticle)
	r.Post("/reload", h.Reload)

	// Filters.
	r.Get("/filters", h.GetFilters)
	r.Put("/filters", h.UpdateFilters)
	r.Delete("/filters", h.ResetFilters)
	r.Patch("/filters/q", h.PatchQuery)
	r.Get("/sources", h.ListSources)

	// Selection.
	r.Get("/selection", h.GetSelection)
	r.Post("/selection/{id}", h.Select)
	r.Delete("/selection", h.ClearSelection)

	// Entity annotation.
	r.Post("/articles/{id}/entities/{eid}/blocked", h.SetBlocked)
	r.Post("/articles/{id}/entities/{eid}/aliases", h.AddAlias)
	r.Delete("/articles/{id}/entities/{eid}/aliases/{alias}", h.RemoveAlias)

	// Bulk operations, mounted only when the coordinator exists.
	if svc.Bulk() != nil {
		r.Post("/bulk/blocked", h.BulkBlocked)
		r.Post("/bulk/aliases", h.BulkAliases)
	}

	// Export and preferences.
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/prefs", h.GetPrefs)
	r.Put("/prefs", h.PutPrefs)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
