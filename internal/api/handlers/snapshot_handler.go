package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/models"
	"github.com/notedeck/notedeck-be/internal/services"
	ws "github.com/notedeck/notedeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SnapshotHandler handles HTTP requests for namespace snapshots. Snapshot
// routes sit under the docs tree and share its access rule.
type SnapshotHandler struct {
	service services.SnapshotServiceProvider
	tokens  *auth.Service
	hub     *ws.Hub
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(service services.SnapshotServiceProvider, tokens *auth.Service, hub *ws.Hub) *SnapshotHandler {
	return &SnapshotHandler{service: service, tokens: tokens, hub: hub}
}

func (h *SnapshotHandler) namespace(w http.ResponseWriter, r *http.Request) (models.Namespace, bool) {
	ns, err := h.tokens.ResolveNamespace(r, chi.URLParam(r, "userId"))
	if err != nil {
		writeAuthError(w, err)
		return models.Namespace{}, false
	}
	return ns, true
}

// CreateSnapshotPayload is the expected JSON body for creating a snapshot.
type CreateSnapshotPayload struct {
	Name string `json:"name"`
}

// Create handles POST /docs/{userId}/snapshots.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	ns, ok := h.namespace(w, r)
	if !ok {
		return
	}

	var payload CreateSnapshotPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		payload.Name = "Manual snapshot"
	}

	snapshot, err := h.service.CreateSnapshot(ns, payload.Name)
	if err != nil {
		log.Error().Err(err).Str("namespace", ns.Dir()).Msg("Failed to create snapshot")
		writeOpError(w, err)
		return
	}

	h.hub.Notify(ns.Dir(), "snapshot.created", snapshot)

	writeJSON(w, http.StatusCreated, snapshot)
}

// GetAll handles GET /docs/{userId}/snapshots.
func (h *SnapshotHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ns, ok := h.namespace(w, r)
	if !ok {
		return
	}

	snapshots, err := h.service.GetSnapshots(ns)
	if err != nil {
		log.Error().Err(err).Str("namespace", ns.Dir()).Msg("Failed to retrieve snapshots")
		writeError(w, http.StatusInternalServerError, "failed to retrieve snapshots")
		return
	}

	writeJSON(w, http.StatusOK, snapshots)
}

// Delete handles DELETE /docs/{userId}/snapshots/{snapshotId}.
func (h *SnapshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ns, ok := h.namespace(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSnapshot(ns, chi.URLParam(r, "snapshotId")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /docs/{userId}/snapshots/{snapshotId}/restore. The
// namespace's current documents are replaced by the archive's contents.
func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ns, ok := h.namespace(w, r)
	if !ok {
		return
	}

	if err := h.service.RestoreSnapshot(ns, chi.URLParam(r, "snapshotId")); err != nil {
		log.Error().Err(err).Str("namespace", ns.Dir()).Msg("Failed to restore snapshot")
		writeOpError(w, err)
		return
	}

	h.hub.Notify(ns.Dir(), "snapshot.restored", map[string]string{"namespace": ns.Dir()})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
