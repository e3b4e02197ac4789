package websocket

import "github.com/rs/zerolog/log"

// targeted is a message bound for the clients of a single namespace.
type targeted struct {
	namespace string
	data      []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients for global broadcast.
	Broadcast chan []byte

	// Namespace-scoped messages, consumed by Run.
	targeted chan targeted

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of namespace directories to the set of clients watching them.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		targeted:      make(chan targeted),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop. All access to the client and
// subscription maps happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			// A client always watches exactly one namespace.
			if client.Namespace != "" {
				h.addSubscription(client, client.Namespace)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				// Remove from global clients and any subscriptions
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case msg := <-h.targeted:
			h.sendToNamespace(msg.namespace, msg.data)
		}
	}
}

// BroadcastTo sends a message to all clients watching a specific namespace.
// Safe to call from any goroutine; delivery happens on the Run loop.
func (h *Hub) BroadcastTo(namespace string, message []byte) {
	h.targeted <- targeted{namespace: namespace, data: message}
}

func (h *Hub) sendToNamespace(namespace string, message []byte) {
	if subs, ok := h.subscriptions[namespace]; ok {
		for client := range subs {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(h.subscriptions[namespace], client)
			}
		}
	}
}

func (h *Hub) addSubscription(client *Client, namespace string) {
	if h.subscriptions[namespace] == nil {
		h.subscriptions[namespace] = make(map[*Client]bool)
	}
	h.subscriptions[namespace][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for namespace, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, namespace)
			}
		}
	}
}
