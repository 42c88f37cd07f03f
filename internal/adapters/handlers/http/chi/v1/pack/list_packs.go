package pack

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

type V1ListPacksResponse struct {
	Packs      []domain.PackRecord `json:"packs"`
	NextMarker *string             `json:"nextMarker,omitempty"`
}

func (h *HandlerV1) ListPacksV1(w http.ResponseWriter, r *http.Request) {

	limit := r.URL.Query().Get("limit")

	limitInt, err := strconv.Atoi(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if limitInt <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}

	var markerPtr *string
	if marker := r.URL.Query().Get("marker"); marker != "" {
		markerPtr = &marker
	}
	packs, nextMarker, err := h.queryService.ListPacks(r.Context(), limitInt, markerPtr)
	switch {
	case err != nil:
		h.logger.Error("error listing packs", "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	default:
		resp := V1ListPacksResponse{
			Packs:      packs,
			NextMarker: nextMarker,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}

}
