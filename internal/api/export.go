package api

import (
	"net/http"

	"github.com/sietev/posverdad/internal/checksum"
)

// ExportCSV handles GET /api/export.csv. The body is the filtered and
// sorted collection without pagination; the ETag lets clients skip
// re-downloading an unchanged export.
//
//	@Summary		Export the filtered view as CSV
//	@Tags			articles
//	@Produce		text/csv
//	@Param			sort	query	string	false	"Sort column"
//	@Param			order	query	string	false	"Sort order"	Enums(asc, desc)
//	@Success		200		"CSV attachment"
//	@Success		304		"Not modified"
//	@Security		BearerAuth
//	@Router			/export.csv [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	srt, _ := viewParams(r.URL.Query())
	body := []byte(h.svc.ExportCSV(srt))

	etag := checksum.ETag(body)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="articles.csv"`)
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
