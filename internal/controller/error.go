package controller

import (
	"context"
	"errors"

	"github.com/ytparty/server/internal/service/room"
	"github.com/ytparty/server/pkg/videometa"
)

var (
	errAlreadyInRoom  = errors.New("connection already joined a room")
	errNotInRoom      = errors.New("connection has not joined a room")
	errInvalidPayload = errors.New("invalid payload")
)

// errorMessage maps an engine or fetch error to a client-facing message.
// Unknown errors are logged and reported generically.
func (c *controller) errorMessage(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, room.ErrRoomAlreadyExists):
		return "room already exists"
	case errors.Is(err, room.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, room.ErrNameTaken):
		return "display name already exists in the room, pick another one"
	case errors.Is(err, room.ErrVideoNotFound):
		return "no such video"
	case errors.Is(err, room.ErrMemberNotFound):
		return "member not found"
	case errors.Is(err, room.ErrMembersLimitReached):
		return "members limit reached"
	case errors.Is(err, room.ErrPlaylistLimitReached):
		return "playlist limit reached"
	case errors.Is(err, videometa.ErrUnsupportedURL):
		return "invalid video url"
	case errors.Is(err, videometa.ErrVideoNotFound),
		errors.Is(err, videometa.ErrRequestFailed),
		errors.Is(err, videometa.ErrBadStatus),
		errors.Is(err, videometa.ErrDecodeFailed):
		return "couldn't fetch video data"
	case errors.Is(err, errAlreadyInRoom):
		return "already joined a room"
	case errors.Is(err, errNotInRoom):
		return "join a room first"
	case errors.Is(err, errInvalidPayload):
		return "invalid payload"
	default:
		c.logger.ErrorContext(ctx, "internal error", "error", err)
		return "internal server error"
	}
}
