package api

import (
	"context"
	"net/http"

	"github.com/signalcraft/signalcraft/internal/domain/model"
)

// StatusDependencies supplies the root status message.
type StatusDependencies interface {
	Status(ctx context.Context) model.StatusMessage
}

// StatusHandler serves the JSON status message.
type StatusHandler struct {
	deps StatusDependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps StatusDependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// HandleStatus writes {"message": ...}.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Status(r.Context()))
}
