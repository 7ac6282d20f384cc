package controller

import (
	"github.com/ytparty/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle("ALIVE", c.handleAlive)

	// room
	mux.Handle("CREATE_ROOM", c.handleCreateRoom)
	mux.Handle("JOIN_ROOM", c.handleJoinRoom)

	// playlist
	mux.Handle("ADD_VIDEO", c.handleAddVideo)
	mux.Handle("SELECT_VIDEO", c.handleSelectVideo)
	mux.Handle("REMOVE_VIDEO", c.handleRemoveVideo)
	mux.Handle("MOVE_VIDEO", c.handleMoveVideo)

	return mux
}
