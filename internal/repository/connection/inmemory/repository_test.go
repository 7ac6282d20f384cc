package inmemory_test

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytparty/server/internal/repository/connection"
	"github.com/ytparty/server/internal/repository/connection/inmemory"
	"github.com/ytparty/server/pkg/wsrouter"
)

func TestAddAndGet(t *testing.T) {
	r := inmemory.NewRepo()
	conn := wsrouter.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "m1", "r1"))

	got, err := r.GetConn("m1")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	session, err := r.GetSession(conn)
	require.NoError(t, err)
	assert.Equal(t, connection.Session{MemberId: "m1", RoomId: "r1"}, session)

	_, err = r.GetConn("m2")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	// a member maps to exactly one connection
	err = r.Add(wsrouter.NewConn(&websocket.Conn{}), "m1", "r1")
	assert.ErrorIs(t, err, connection.ErrAlreadyExists)
	err = r.Add(conn, "m2", "r1")
	assert.ErrorIs(t, err, connection.ErrAlreadyExists)
}

func TestRemoveByMemberId(t *testing.T) {
	r := inmemory.NewRepo()
	conn := wsrouter.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "m1", "r1"))

	removed, err := r.RemoveByMemberId("m1")
	require.NoError(t, err)
	assert.Same(t, conn, removed)

	_, err = r.RemoveByMemberId("m1")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	_, err = r.GetSession(conn)
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestRemoveByConn(t *testing.T) {
	r := inmemory.NewRepo()
	conn := wsrouter.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "m1", "r1"))

	session, err := r.RemoveByConn(conn)
	require.NoError(t, err)
	assert.Equal(t, "m1", session.MemberId)

	_, err = r.RemoveByConn(conn)
	assert.ErrorIs(t, err, connection.ErrNotFound)

	_, err = r.GetConn("m1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
