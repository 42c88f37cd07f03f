package pack

import (
	"encoding/json"
	"net/http"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

type V1CompositionResponse struct {
	Composition []domain.CompositionRow `json:"composition"`
}

// CompositionV1 reports how many tags and identifiers each creator and
// concept contributed to the store
func (h *HandlerV1) CompositionV1(w http.ResponseWriter, r *http.Request) {

	rows, err := h.queryService.Composition(r.Context())
	switch {
	case err != nil:
		h.logger.Error("error computing composition", "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	default:
		if rows == nil {
			rows = []domain.CompositionRow{}
		}
		resp := V1CompositionResponse{
			Composition: rows,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
