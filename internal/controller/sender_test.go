package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytparty/server/pkg/wsrouter"
)

// newConnPair upgrades a real websocket and returns the server-side conn
// together with the client end that observes the deliveries.
func newConnPair(t *testing.T) (*wsrouter.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *wsrouter.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		connCh <- wsrouter.NewConn(ws)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return <-connCh, client
}

func readEvent(t *testing.T, client *websocket.Conn) PlaylistUpdatedEvent {
	t.Helper()

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, client.ReadJSON(&msg))
	require.Equal(t, "PLAYLIST_UPDATED", msg.Type)

	var event PlaylistUpdatedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))

	return event
}

// A mutation that completed earlier in the engine but reached fan-out after
// a later one carries a lower version; its stale snapshot must be dropped,
// never delivered on top of newer state.
func TestBroadcastVersionedDropsStale(t *testing.T) {
	c := &controller{logger: slog.Default(), lastVersion: make(map[string]uint64)}
	serverConn, client := newConnPair(t)
	ctx := context.Background()
	conns := []*wsrouter.Conn{serverConn}

	c.broadcastVersioned(ctx, "r1", 2, conns, nil, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 2},
	})
	// the older mutation arrives late
	c.broadcastVersioned(ctx, "r1", 1, conns, nil, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 1},
	})
	c.broadcastVersioned(ctx, "r1", 3, conns, nil, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 3},
	})

	assert.EqualValues(t, 2, readEvent(t, client).Version)
	assert.EqualValues(t, 3, readEvent(t, client).Version, "stale version 1 must be dropped")
}

func TestBroadcastVersionedPerRoom(t *testing.T) {
	c := &controller{logger: slog.Default(), lastVersion: make(map[string]uint64)}
	serverConn, client := newConnPair(t)
	ctx := context.Background()
	conns := []*wsrouter.Conn{serverConn}

	c.broadcastVersioned(ctx, "r1", 5, conns, nil, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 5},
	})
	// versions are tracked per room: a lower version in another room passes
	c.broadcastVersioned(ctx, "r2", 4, conns, nil, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 4},
	})

	assert.EqualValues(t, 5, readEvent(t, client).Version)
	assert.EqualValues(t, 4, readEvent(t, client).Version)
}

func TestBroadcastVersionedExcludesSender(t *testing.T) {
	c := &controller{logger: slog.Default(), lastVersion: make(map[string]uint64)}
	senderConn, senderClient := newConnPair(t)
	otherConn, otherClient := newConnPair(t)
	ctx := context.Background()

	c.broadcastVersioned(ctx, "r1", 1, []*wsrouter.Conn{senderConn, otherConn}, senderConn, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 1},
	})
	c.broadcastVersioned(ctx, "r1", 2, []*wsrouter.Conn{senderConn, otherConn}, otherConn, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Version: 2},
	})

	// each client sees only the mutation it did not send
	assert.EqualValues(t, 2, readEvent(t, senderClient).Version)
	assert.EqualValues(t, 1, readEvent(t, otherClient).Version)
}
