package http

import (
	"net/http"
	"strconv"

	syncx "github.com/studynote/studynote/internal/sync"
)

// ListEventsHandler exposes the append-only event log for pull-based sync:
// clients poll with the last offset they have seen.
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		out, err := events.ListSince(r.Context(), offset, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
