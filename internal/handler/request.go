package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialfeed/internal/pagination"
)

// parseIDParam reads an integer URL parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

// parsePageParams reads the limit and cursor query parameters. The cursor is
// opaque here; services decode it against the collection's ordering key.
func parsePageParams(r *http.Request) (limit int, cursor *string, err error) {
	limit, err = pagination.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		return 0, nil, err
	}
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	return limit, cursor, nil
}
