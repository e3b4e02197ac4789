package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/docs"
	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/notedeck/notedeck-be/internal/storage"
	ws "github.com/notedeck/notedeck-be/internal/websocket"
)

// DocsHandler handles HTTP requests for document operations. Each request
// resolves its namespace through the auth service first; the document manager
// only ever sees an already-authorized identity.
type DocsHandler struct {
	store  *storage.UserFileStore
	tokens *auth.Service
	events services.EventServiceProvider
	hub    *ws.Hub
}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler(store *storage.UserFileStore, tokens *auth.Service, events services.EventServiceProvider, hub *ws.Hub) *DocsHandler {
	return &DocsHandler{store: store, tokens: tokens, events: events, hub: hub}
}

// manager resolves the request's namespace and builds a manager for it. A nil
// manager means the response has already been written.
func (h *DocsHandler) manager(w http.ResponseWriter, r *http.Request) *docs.Manager {
	ns, err := h.tokens.ResolveNamespace(r, chi.URLParam(r, "userId"))
	if err != nil {
		writeAuthError(w, err)
		return nil
	}
	return docs.NewManager(ns, h.store)
}

// docPath extracts the document path matched by the route's wildcard.
func docPath(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// List handles GET /docs/{userId}/list?path=&mode=.
func (h *DocsHandler) List(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	files, err := m.ListDocuments(r.URL.Query().Get("path"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

// Info handles GET /docs/{userId}/info?path=&mode=.
func (h *DocsHandler) Info(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	info, err := m.GetDocumentInfo(r.URL.Query().Get("path"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"info": info})
}

// Read handles GET /docs/{userId}/{path...}?mode=.
func (h *DocsHandler) Read(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	content, err := m.ReadDocument(docPath(r))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"data": content})
}

// SavePayload is the body for document writes.
type SavePayload struct {
	Content string `json:"content"`
}

// Save handles POST /docs/{userId}/{path...}?mode=. Empty content is rejected
// before the manager is consulted.
func (h *DocsHandler) Save(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	var payload SavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		writeError(w, http.StatusBadRequest, "content cannot be empty")
		return
	}

	path := docPath(r)
	if err := m.SaveDocument(path, payload.Content); err != nil {
		writeOpError(w, err)
		return
	}

	ns := m.Namespace().Dir()
	h.events.CreateEvent("document.save", "info", "Document '"+path+"' saved in namespace '"+ns+"'.", &ns)
	h.hub.Notify(ns, "document.saved", map[string]string{"path": path})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /docs/{userId}/{path...}?mode=. Directories are
// removed recursively.
func (h *DocsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	path := docPath(r)
	if err := m.DeleteDocument(path); err != nil {
		writeOpError(w, err)
		return
	}

	ns := m.Namespace().Dir()
	h.events.CreateEvent("document.delete", "warn", "Document '"+path+"' deleted from namespace '"+ns+"'.", &ns)
	h.hub.Notify(ns, "document.deleted", map[string]string{"path": path})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RenamePayload is the body for rename requests.
type RenamePayload struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// Rename handles POST /docs/{userId}/rename?mode=.
func (h *DocsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	var payload RenamePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.OldPath == "" || payload.NewPath == "" {
		writeError(w, http.StatusBadRequest, "oldPath and newPath are required")
		return
	}

	if err := m.RenameDocument(payload.OldPath, payload.NewPath); err != nil {
		writeOpError(w, err)
		return
	}

	ns := m.Namespace().Dir()
	h.events.CreateEvent("document.rename", "info", "Document '"+payload.OldPath+"' renamed to '"+payload.NewPath+"' in namespace '"+ns+"'.", &ns)
	h.hub.Notify(ns, "document.renamed", map[string]string{"oldPath": payload.OldPath, "newPath": payload.NewPath})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MkDirPayload is the body for directory-creation requests.
type MkDirPayload struct {
	Path string `json:"path"`
}

// MkDir handles POST /docs/{userId}/mkdir?mode=.
func (h *DocsHandler) MkDir(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	var payload MkDirPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := m.CreateDirectory(payload.Path); err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}
