package api

import (
	"github.com/sietev/posverdad/internal/filters"
	"github.com/sietev/posverdad/internal/models"
)

// ArticlesPage is the response for a derived page of articles.
type ArticlesPage struct {
	Articles      []models.Article `json:"articles" validate:"required"`
	TotalFiltered int              `json:"totalFiltered" example:"12" validate:"required"`
	Total         int              `json:"total" example:"42" validate:"required"`
	Query         string           `json:"query" example:"?q=chile&lenMin=100"`
}

// FiltersState is the active filter set plus its canonical query-string
// encoding (the URL mirror clients write into the address bar).
type FiltersState struct {
	Filters filters.Filters `json:"filters" validate:"required"`
	Query   string          `json:"query" example:"?q=chile&source=Fuente+X"`
}

// SetQueryRequest is the request body for the debounced query field.
type SetQueryRequest struct {
	Q string `json:"q" example:"chile"`
}

// SetBlockedRequest is the request body for flipping an entity's blocked flag.
type SetBlockedRequest struct {
	Blocked bool `json:"blocked" example:"true" validate:"required"`
}

// AddAliasRequest is the request body for adding an entity alias.
type AddAliasRequest struct {
	Alias string `json:"alias" example:"G. Boric" validate:"required"`
}

// BulkBlockedRequest is the request body for a bulk blocked update.
type BulkBlockedRequest struct {
	ArticleIDs []string `json:"articleIds" validate:"required"`
	Blocked    bool     `json:"blocked" example:"true" validate:"required"`
}

// BulkAliasRequest is the request body for a bulk alias append.
type BulkAliasRequest struct {
	ArticleIDs []string `json:"articleIds" validate:"required"`
	Alias      string   `json:"alias" example:"G. Boric" validate:"required"`
}

// BulkResponse reports how many entities a bulk operation touched.
type BulkResponse struct {
	Updated int `json:"updated" example:"7" validate:"required"`
}

// SourcesResponse wraps the distinct source names.
type SourcesResponse struct {
	Sources []string `json:"sources" validate:"required"`
}
