package wsrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytparty/server/pkg/wsrouter"
)

func TestServeConn(t *testing.T) {
	router := wsrouter.New()
	router.Handle("ECHO", func(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
		return conn.WriteJSON(map[string]any{"type": "ECHO_RESULT", "payload": payload})
	})

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		conn := wsrouter.NewConn(ws)
		defer conn.Close()

		router.ServeConn(r.Context(), conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.WriteJSON(map[string]any{
		"type":    "ECHO",
		"payload": map[string]string{"hello": "world"},
	}))

	var reply struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, client.ReadJSON(&reply))
	assert.Equal(t, "ECHO_RESULT", reply.Type)
	assert.JSONEq(t, `{"hello":"world"}`, string(reply.Payload))

	// an unknown type is reported but does not terminate the connection
	require.NoError(t, client.WriteJSON(map[string]any{"type": "NOPE"}))

	var errReply map[string]string
	require.NoError(t, client.ReadJSON(&errReply))
	assert.Equal(t, "unknown message type", errReply["error"])

	require.NoError(t, client.WriteJSON(map[string]any{
		"type":    "ECHO",
		"payload": map[string]string{"still": "alive"},
	}))
	require.NoError(t, client.ReadJSON(&reply))
	assert.Equal(t, "ECHO_RESULT", reply.Type)
}

func TestSession(t *testing.T) {
	conn := wsrouter.NewConn(&websocket.Conn{})

	assert.Nil(t, conn.Session())

	conn.SetSession("state")
	assert.Equal(t, "state", conn.Session())
}
