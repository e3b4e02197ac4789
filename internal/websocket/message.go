package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Notify marshals a message and sends it to every client watching the
// namespace. Marshal failures are logged and dropped; live notifications are
// best effort and never fail the originating request.
func (h *Hub) Notify(namespace, action string, payload interface{}) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to marshal websocket message")
		return
	}
	h.BroadcastTo(namespace, data)
}
