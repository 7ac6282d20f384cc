package controller

import (
	"context"

	"github.com/ytparty/server/internal/service/room"
	"github.com/ytparty/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type ErrorResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PlaylistUpdatedEvent struct {
	Playlist []room.Video `json:"playlist"`
	Version  uint64       `json:"version"`
}

type VideoSelectedEvent struct {
	Video   room.Video `json:"video"`
	Version uint64     `json:"version"`
}

type MemberJoinedEvent struct {
	ConnectionId string `json:"connection_id"`
}

type MemberLeftEvent struct {
	ConnectionId string `json:"connection_id"`
	NewHostId    string `json:"new_host_id,omitempty"`
}

func (c *controller) writeToConn(ctx context.Context, conn *wsrouter.Conn, out *Output) error {
	if err := conn.WriteJSON(out); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "type", out.Type, "error", err)
		return err
	}

	return nil
}

// writeErrorResult resolves a failed command's acknowledgment with a
// client-facing message.
func (c *controller) writeErrorResult(ctx context.Context, conn *wsrouter.Conn, msgType string, err error) error {
	c.writeToConn(ctx, conn, &Output{
		Type:    msgType,
		Payload: ErrorResult{Success: false, Message: c.errorMessage(ctx, err)},
	})

	return nil
}

// broadcast delivers an event to every conn. Write failures are logged and
// skipped; the failing connection cleans itself up through its own read loop.
func (c *controller) broadcast(ctx context.Context, conns []*wsrouter.Conn, out *Output) {
	for _, conn := range conns {
		c.writeToConn(ctx, conn, out)
	}
}

// broadcastVersioned delivers playlist events to every conn but the sender,
// which already got the command's acknowledgment, in the order the engine
// completed the mutations. Fan-out runs outside the engine lock, so an
// earlier mutation can reach this point after a later one; its snapshot is
// stale, and delivering it would overwrite newer state on every client.
// The version gate drops it instead.
func (c *controller) broadcastVersioned(ctx context.Context, roomId string, version uint64, conns []*wsrouter.Conn, sender *wsrouter.Conn, outs ...*Output) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()

	if version <= c.lastVersion[roomId] {
		c.logger.DebugContext(ctx, "dropped stale broadcast", "room_id", roomId, "version", version)
		return
	}
	c.lastVersion[roomId] = version

	for _, out := range outs {
		for _, conn := range conns {
			if conn == sender {
				continue
			}

			c.writeToConn(ctx, conn, out)
		}
	}
}

func (c *controller) forgetRoomVersion(roomId string) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()

	delete(c.lastVersion, roomId)
}
