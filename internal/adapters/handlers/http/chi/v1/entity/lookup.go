package entity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// V1LookupResponse is the harmonized view of one identifier
type V1LookupResponse struct {
	Identifier string                 `json:"identifier"`
	Concepts   []domain.RankedConcept `json:"concepts"`
	UpdatedAt  string                 `json:"updatedAt"`
}

// LookupV1 serves the harmonized view of one identifier
func (h *HandlerV1) LookupV1(w http.ResponseWriter, r *http.Request) {

	identifier := chi.URLParam(r, "identifier")
	if identifier == "" {
		http.Error(w, "identifier required", http.StatusBadRequest)
		return
	}

	view, err := h.queryService.Lookup(r.Context(), identifier)
	switch {
	case errors.Is(err, domain.ErrIdentifierNotFound):
		http.Error(w, "identifier not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error looking up identifier", "identifier", identifier, "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	default:
		resp := V1LookupResponse{
			Identifier: view.Identifier,
			Concepts:   view.Concepts,
			UpdatedAt:  view.UpdatedAt.UTC().Format(time.RFC3339),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
