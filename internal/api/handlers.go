package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sietev/posverdad/internal/apperr"
	"github.com/sietev/posverdad/internal/state"
	"github.com/sietev/posverdad/internal/view"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// viewParams reads sort and page parameters from the request query.
// Filter keys on the same query string are consumed separately by the
// codec; unknown values here fall back to defaults.
func viewParams(q url.Values) (view.Sort, view.Page) {
	srt := view.Sort{
		Column: view.Column(q.Get("sort")),
		Desc:   q.Get("order") == "desc",
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	return srt, view.Page{Index: page, Size: size}
}

// ListArticles handles GET /api/articles.
//
//	@Summary		List the filtered, sorted, paginated article view
//	@Tags			articles
//	@Produce		json
//	@Param			q			query		string	false	"Substring match on title and url"
//	@Param			source		query		string	false	"Source name (repeatable)"
//	@Param			sort		query		string	false	"Sort column"	Enums(title, source, published_at, len_chars, polarity, subjectivity)
//	@Param			order		query		string	false	"Sort order"	Enums(asc, desc)
//	@Param			page		query		int		false	"Zero-based page index"
//	@Param			pageSize	query		int		false	"Page size"
//	@Success		200			{object}	ArticlesPage
//	@Security		BearerAuth
//	@Router			/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	srt, page := viewParams(r.URL.Query())
	writeJSON(w, http.StatusOK, h.svc.Articles(r.URL.RawQuery, srt, page))
}

// GetArticle handles GET /api/articles/{id}.
//
//	@Summary		Get a single article by id
//	@Tags			articles
//	@Produce		json
//	@Param			id	path		string	true	"Article id"
//	@Success		200	{object}	models.Article
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{id} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.svc.Article(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("get article failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GetFilters handles GET /api/filters.
//
//	@Summary		Get the active filters and their query-string encoding
//	@Tags			filters
//	@Produce		json
//	@Success		200	{object}	FiltersState
//	@Security		BearerAuth
//	@Router			/filters [get]
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Filters())
}

// UpdateFilters handles PUT /api/filters.
//
//	@Summary		Merge a partial filter update into the active filters
//	@Tags			filters
//	@Accept			json
//	@Produce		json
//	@Param			body	body		map[string]any	true	"Partial filter object; malformed fields degrade to their defaults"
//	@Success		200		{object}	FiltersState
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/filters [put]
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := readJSON(w, r, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if raw == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("body must be a JSON object"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.UpdateFilters(raw))
}

// ResetFilters handles DELETE /api/filters.
//
//	@Summary		Reset all filters to defaults
//	@Tags			filters
//	@Produce		json
//	@Success		200	{object}	FiltersState
//	@Security		BearerAuth
//	@Router			/filters [delete]
func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ResetFilters())
}

// PatchQuery handles PATCH /api/filters/q. This is the raw keystroke
// boundary: the value lands in the debouncer, not in the filters, so the
// response reports acceptance rather than the committed state.
//
//	@Summary		Set the search query (debounced)
//	@Tags			filters
//	@Accept			json
//	@Param			body	body	SetQueryRequest	true	"Query value"
//	@Success		202		"Accepted for the next quiet-window commit"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/filters/q [patch]
func (h *Handler) PatchQuery(w http.ResponseWriter, r *http.Request) {
	var req SetQueryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.svc.SetQuery(req.Q)
	w.WriteHeader(http.StatusAccepted)
}

// ListSources handles GET /api/sources.
//
//	@Summary		List distinct source names in the collection
//	@Tags			filters
//	@Produce		json
//	@Success		200	{object}	SourcesResponse
//	@Security		BearerAuth
//	@Router			/sources [get]
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SourcesResponse{Sources: h.svc.Sources()})
}

// Select handles POST /api/selection/{id}.
//
//	@Summary		Select an article for detail inspection
//	@Tags			selection
//	@Produce		json
//	@Param			id	path		string	true	"Article id"
//	@Success		200	{object}	models.Article
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/selection/{id} [post]
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.svc.Select(id) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Selection())
}

// ClearSelection handles DELETE /api/selection.
//
//	@Summary		Clear the selection
//	@Tags			selection
//	@Success		204	"Selection cleared"
//	@Security		BearerAuth
//	@Router			/selection [delete]
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// GetSelection handles GET /api/selection.
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel := h.svc.Selection()
	if sel == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no selection"))
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SetBlocked handles POST /api/articles/{id}/entities/{eid}/blocked.
// Unresolved ids are a silent no-op on the collection; the handler still
// answers 204 because annotation is idempotent review bookkeeping.
//
//	@Summary		Set an entity's blocked flag
//	@Tags			entities
//	@Accept			json
//	@Param			id		path	string				true	"Article id"
//	@Param			eid		path	string				true	"Entity id"
//	@Param			body	body	SetBlockedRequest	true	"Blocked flag"
//	@Success		204		"Applied"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{id}/entities/{eid}/blocked [post]
func (h *Handler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	var req SetBlockedRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.svc.SetEntityBlocked(chi.URLParam(r, "id"), chi.URLParam(r, "eid"), req.Blocked)
	w.WriteHeader(http.StatusNoContent)
}

// AddAlias handles POST /api/articles/{id}/entities/{eid}/aliases.
//
//	@Summary		Add an alias to an entity
//	@Tags			entities
//	@Accept			json
//	@Param			id		path	string			true	"Article id"
//	@Param			eid		path	string			true	"Entity id"
//	@Param			body	body	AddAliasRequest	true	"Alias to add"
//	@Success		204		"Applied"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{id}/entities/{eid}/aliases [post]
func (h *Handler) AddAlias(w http.ResponseWriter, r *http.Request) {
	var req AddAliasRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Alias) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("alias is required"))
		return
	}
	h.svc.AddAlias(chi.URLParam(r, "id"), chi.URLParam(r, "eid"), req.Alias)
	w.WriteHeader(http.StatusNoContent)
}

// RemoveAlias handles DELETE /api/articles/{id}/entities/{eid}/aliases/{alias}.
//
//	@Summary		Remove an alias from an entity
//	@Tags			entities
//	@Param			id		path	string	true	"Article id"
//	@Param			eid		path	string	true	"Entity id"
//	@Param			alias	path	string	true	"Alias (URL-encoded)"
//	@Success		204		"Applied"
//	@Security		BearerAuth
//	@Router			/articles/{id}/entities/{eid}/aliases/{alias} [delete]
func (h *Handler) RemoveAlias(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")
	if decoded, err := url.PathUnescape(alias); err == nil {
		alias = decoded
	}
	h.svc.RemoveAlias(chi.URLParam(r, "id"), chi.URLParam(r, "eid"), alias)
	w.WriteHeader(http.StatusNoContent)
}

// BulkBlocked handles POST /api/bulk/blocked. Only mounted when the bulk
// feature is enabled.
//
//	@Summary		Set the blocked flag on every entity of the given articles
//	@Tags			bulk
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkBlockedRequest	true	"Article ids and flag"
//	@Success		200		{object}	BulkResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bulk/blocked [post]
func (h *Handler) BulkBlocked(w http.ResponseWriter, r *http.Request) {
	var req BulkBlockedRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	n := h.svc.Bulk().BlockAll(req.ArticleIDs, req.Blocked)
	writeJSON(w, http.StatusOK, BulkResponse{Updated: n})
}

// BulkAliases handles POST /api/bulk/aliases. Only mounted when the bulk
// feature is enabled.
//
//	@Summary		Add an alias to every entity of the given articles
//	@Tags			bulk
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkAliasRequest	true	"Article ids and alias"
//	@Success		200		{object}	BulkResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bulk/aliases [post]
func (h *Handler) BulkAliases(w http.ResponseWriter, r *http.Request) {
	var req BulkAliasRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Alias) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("alias is required"))
		return
	}
	n := h.svc.Bulk().AddAliasAll(req.ArticleIDs, req.Alias)
	writeJSON(w, http.StatusOK, BulkResponse{Updated: n})
}

// Reload handles POST /api/reload.
//
//	@Summary		Re-fetch the collection from the data source
//	@Tags			articles
//	@Produce		json
//	@Success		204	"Reloaded"
//	@Failure		409	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		if errors.Is(err, apperr.ErrLoadInFlight) {
			writeJSON(w, http.StatusConflict, errorBody("load already in flight"))
			return
		}
		slog.Error("reload failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("source fetch failed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPrefs handles GET /api/prefs.
//
//	@Summary		Get persisted table preferences
//	@Tags			prefs
//	@Produce		json
//	@Success		200	{object}	state.Prefs
//	@Security		BearerAuth
//	@Router			/prefs [get]
func (h *Handler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Prefs())
}

// PutPrefs handles PUT /api/prefs.
//
//	@Summary		Persist table preferences
//	@Tags			prefs
//	@Accept			json
//	@Produce		json
//	@Param			body	body		state.Prefs	true	"Preferences"
//	@Success		200		{object}	state.Prefs
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/prefs [put]
func (h *Handler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var p state.Prefs
	if err := readJSON(w, r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if p.PageSize <= 0 {
		p.PageSize = state.DefaultPrefs().PageSize
	}
	if p.Columns == nil {
		p.Columns = map[string]bool{}
	}
	if err := h.svc.SavePrefs(p); err != nil {
		slog.Error("save prefs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
