package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/models"
	ws "github.com/notedeck/notedeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections for live document events.
type WebSocketHandler struct {
	hub    *ws.Hub
	tokens *auth.Service
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, tokens *auth.Service) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles GET /ws?namespace=&mode=. The same access rule as the
// document routes applies before the connection is upgraded.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	nsParam := r.URL.Query().Get("namespace")
	if nsParam == "" {
		nsParam = models.PublicID
	}

	ns, err := h.tokens.ResolveNamespace(r, nsParam)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := &ws.Client{
		Hub:       h.hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Namespace: ns.Dir(),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
