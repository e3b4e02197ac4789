package handlers

import (
	"net/http"
	"strconv"

	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/models"
	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler handles HTTP requests for the activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent activity/events. Callers see
// the public tree's activity and their own, never other users'.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid auth token")
		return
	}

	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50 // Default limit
	}

	events, err := h.service.GetRecentEvents(limit, models.PublicID, claims.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		writeError(w, http.StatusInternalServerError, "failed to retrieve events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}
