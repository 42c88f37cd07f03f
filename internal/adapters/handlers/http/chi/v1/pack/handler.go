package pack

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

// HandlerV1 is the handler for v1 tagpack routes
type HandlerV1 struct {
	queryService port.QueryService
	logger       *slog.Logger
}

// NewPackHandlerV1 creates HandlerV1
func NewPackHandlerV1(service port.QueryService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		queryService: service,
		logger:       logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", h.ListPacksV1)
	router.Get("/composition", h.CompositionV1)

	return router
}
