package handlers

import (
	"net/http"

	"github.com/eshaffer321/splitwise-sync/internal/api/dto"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

// HealthHandler reports liveness and whether run history is available.
type HealthHandler struct {
	*Base
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo storage.Repository) *HealthHandler {
	return &HealthHandler{Base: NewBase(repo)}
}

// ServeHTTP handles the health check request. It never fails on missing storage.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, dto.NewHealthResponse(h.repo != nil))
}
