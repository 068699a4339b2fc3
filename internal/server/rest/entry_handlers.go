package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	items, err := h.entries.List(r.Context(), accountFromContext(r.Context()).ID)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, toEntries(items))
}

// guestEntries is the unauthenticated list; guests keep entries client-side.
func (h *Handler) guestEntries(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, []entryDTO{})
}

// saveEntries accepts either {"content": "..."} or {"items": [...]}.
func (h *Handler) saveEntries(w http.ResponseWriter, r *http.Request) {
	var req saveEntriesRequest
	if err := parseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := req.Items
	if strings.TrimSpace(req.Content) != "" {
		items = append([]string{req.Content}, items...)
	}
	blank := true
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			blank = false
			break
		}
	}
	if blank {
		ErrorResponse(w, http.StatusBadRequest, "content or items required")
		return
	}

	res, err := h.entries.Save(r.Context(), accountFromContext(r.Context()).ID, items)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	status := http.StatusOK
	if len(res.Added) > 0 {
		status = http.StatusCreated
	}
	JSONResponse(w, status, saveEntriesResponse{Added: toEntries(res.Added), Notice: res.Notice})
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.entries.Delete(r.Context(), accountFromContext(r.Context()).ID, id); err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
