package entity

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

// HandlerV1 is the handler for v1 entity routes
type HandlerV1 struct {
	queryService port.QueryService
	logger       *slog.Logger
}

// NewEntityHandlerV1 creates HandlerV1
func NewEntityHandlerV1(service port.QueryService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		queryService: service,
		logger:       logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{identifier}/tags", h.LookupV1)

	return router
}
