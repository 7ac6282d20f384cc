package wsrouter

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn wraps a websocket connection with a write lock, so acknowledgments
// and broadcasts issued from different goroutines do not interleave, and a
// session slot for connection-scoped state.
type Conn struct {
	ws      *websocket.Conn
	mu      sync.Mutex
	session any
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteJSON(v)
}

func (c *Conn) SetSession(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = v
}

func (c *Conn) Session() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

func (c *Conn) Close() error {
	if c.ws == nil {
		return nil
	}

	return c.ws.Close()
}
