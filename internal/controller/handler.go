package controller

import (
	"context"
	"net/http"

	"github.com/ytparty/server/internal/service/room"
	"github.com/ytparty/server/pkg/wsrouter"
)

func (c *controller) websocket(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	conn := wsrouter.NewConn(ws)
	defer conn.Close()

	// detached from the request context: the disconnect path must run even
	// when the client is already gone
	ctx := context.WithoutCancel(r.Context())
	defer c.disconnect(ctx, conn)

	c.wsmux.ServeConn(ctx, conn)
}

// disconnect tears down the connection's room membership and notifies the
// survivors. A connection that never joined a room has nothing to clean up.
func (c *controller) disconnect(ctx context.Context, conn *wsrouter.Conn) {
	sess, ok := conn.Session().(session)
	if !ok {
		return
	}

	resp, err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
		RoomId:   sess.roomId,
		MemberId: sess.memberId,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to disconnect member", "member_id", sess.memberId, "error", err)
		return
	}

	if resp.IsRoomDeleted {
		c.forgetRoomVersion(sess.roomId)
		return
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type: "MEMBER_LEFT",
		Payload: MemberLeftEvent{
			ConnectionId: sess.memberId,
			NewHostId:    resp.NewHostId,
		},
	})
}
