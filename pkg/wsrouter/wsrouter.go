package wsrouter

import (
	"context"
	"encoding/json"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *Conn, payload json.RawMessage) error

// WSRouter dispatches inbound JSON messages to handlers keyed by the
// message type field.
type WSRouter struct {
	routes map[string]HandlerFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// ServeConn reads messages from the connection until the read fails and
// routes each one to its handler. A handler error terminates the connection.
func (r *WSRouter) ServeConn(ctx context.Context, conn *Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ws.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			conn.WriteJSON(map[string]string{"error": "unknown message type"})
			continue
		}

		if err := handler(ctx, conn, msg.Payload); err != nil {
			return err
		}
	}
}
