package handlers

import (
	"net/http"

	"github.com/notedeck/notedeck-be/internal/monitoring"
)

// SystemHandler exposes host resource usage for the document store.
type SystemHandler struct {
	updater *monitoring.UsageUpdater
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(updater *monitoring.UsageUpdater) *SystemHandler {
	return &SystemHandler{updater: updater}
}

// Stats handles GET /system/stats.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.updater.Latest())
}
