package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listCommunity(w http.ResponseWriter, r *http.Request) {
	items, err := h.community.List(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	out := make([]communityDTO, 0, len(items))
	for _, e := range items {
		out = append(out, toCommunity(e))
	}
	JSONResponse(w, http.StatusOK, out)
}

// submitCommunity answers 201 for a new pair and 200 when it already existed.
func (h *Handler) submitCommunity(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := parseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.community.Submit(r.Context(), req.Category, req.Capability)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	JSONResponse(w, status, toCommunity(res.Entry))
}

func (h *Handler) renameCapability(w http.ResponseWriter, r *http.Request) {
	var req renameCapabilityRequest
	if err := parseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.community.RenameCapability(r.Context(), chi.URLParam(r, "id"), req.Capability)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, toCommunity(e))
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if err := parseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.community.RenameCategory(r.Context(), req.OldCategory, req.NewCategory)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, renameCategoryResponse{
		Category: res.Category,
		Moved:    res.Moved,
		Removed:  res.Removed,
		Merged:   res.Merged,
	})
}

func (h *Handler) deleteCommunity(w http.ResponseWriter, r *http.Request) {
	if err := h.community.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	n, err := h.community.DeleteCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, map[string]int64{"deleted": n})
}
