package controller

import (
	"context"
	"encoding/json"

	"github.com/ytparty/server/internal/service/room"
	"github.com/ytparty/server/pkg/wsrouter"
)

func (c *controller) handleAlive(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	return nil
}

type CreateRoomInput struct {
	RoomId      string `json:"room_id" validate:"required,min=1,max=64"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=32"`
}

type CreateRoomResult struct {
	Success bool   `json:"success"`
	RoomId  string `json:"room_id"`
	IsHost  bool   `json:"is_host"`
	Server  string `json:"server"`
	Message string `json:"message"`
}

func (c *controller) handleCreateRoom(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	var input CreateRoomInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return c.writeErrorResult(ctx, conn, "CREATE_ROOM_RESULT", errInvalidPayload)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Type:    "CREATE_ROOM_RESULT",
			Payload: ErrorResult{Success: false, Message: validationErrors[0].Message},
		})
	}

	if _, ok := conn.Session().(session); ok {
		return c.writeErrorResult(ctx, conn, "CREATE_ROOM_RESULT", errAlreadyInRoom)
	}

	createRoomResp, err := c.roomService.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId:      input.RoomId,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		return c.writeErrorResult(ctx, conn, "CREATE_ROOM_RESULT", err)
	}

	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		Conn:     conn,
		MemberId: createRoomResp.MemberId,
		RoomId:   input.RoomId,
	}); err != nil {
		c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
			RoomId:   input.RoomId,
			MemberId: createRoomResp.MemberId,
		})
		return c.writeErrorResult(ctx, conn, "CREATE_ROOM_RESULT", err)
	}

	conn.SetSession(session{memberId: createRoomResp.MemberId, roomId: input.RoomId})

	return c.writeToConn(ctx, conn, &Output{
		Type: "CREATE_ROOM_RESULT",
		Payload: CreateRoomResult{
			Success: true,
			RoomId:  input.RoomId,
			IsHost:  true,
			Server:  c.serverAddr,
			Message: "room created successfully",
		},
	})
}

type JoinRoomInput struct {
	RoomId      string `json:"room_id" validate:"required,min=1,max=64"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=32"`
}

type JoinRoomResult struct {
	Success               bool         `json:"success"`
	Server                string       `json:"server"`
	Playlist              []room.Video `json:"playlist"`
	IsHost                bool         `json:"is_host"`
	ConnectedDisplayNames []string     `json:"connected_display_names"`
}

func (c *controller) handleJoinRoom(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	var input JoinRoomInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return c.writeErrorResult(ctx, conn, "JOIN_ROOM_RESULT", errInvalidPayload)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Type:    "JOIN_ROOM_RESULT",
			Payload: ErrorResult{Success: false, Message: validationErrors[0].Message},
		})
	}

	if _, ok := conn.Session().(session); ok {
		return c.writeErrorResult(ctx, conn, "JOIN_ROOM_RESULT", errAlreadyInRoom)
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:      input.RoomId,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		return c.writeErrorResult(ctx, conn, "JOIN_ROOM_RESULT", err)
	}

	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		Conn:     conn,
		MemberId: joinRoomResp.JoinedMember.Id,
		RoomId:   input.RoomId,
	}); err != nil {
		c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
			RoomId:   input.RoomId,
			MemberId: joinRoomResp.JoinedMember.Id,
		})
		return c.writeErrorResult(ctx, conn, "JOIN_ROOM_RESULT", err)
	}

	conn.SetSession(session{memberId: joinRoomResp.JoinedMember.Id, roomId: input.RoomId})

	connectedDisplayNames := make([]string, 0, len(joinRoomResp.Members))
	for _, member := range joinRoomResp.Members {
		connectedDisplayNames = append(connectedDisplayNames, member.DisplayName)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "JOIN_ROOM_RESULT",
		Payload: JoinRoomResult{
			Success:               true,
			Server:                c.serverAddr,
			Playlist:              joinRoomResp.Playlist,
			IsHost:                joinRoomResp.IsHost,
			ConnectedDisplayNames: connectedDisplayNames,
		},
	}); err != nil {
		return err
	}

	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type:    "MEMBER_JOINED",
		Payload: MemberJoinedEvent{ConnectionId: joinRoomResp.JoinedMember.Id},
	})

	return nil
}

type AddVideoInput struct {
	VideoURL string `json:"video_url" validate:"required"`
}

type AddVideoResult struct {
	Success  bool         `json:"success"`
	Playlist []room.Video `json:"playlist"`
}

func (c *controller) handleAddVideo(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	var input AddVideoInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return c.writeErrorResult(ctx, conn, "ADD_VIDEO_RESULT", errInvalidPayload)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Type:    "ADD_VIDEO_RESULT",
			Payload: ErrorResult{Success: false, Message: validationErrors[0].Message},
		})
	}

	sess, ok := conn.Session().(session)
	if !ok {
		return c.writeErrorResult(ctx, conn, "ADD_VIDEO_RESULT", errNotInRoom)
	}

	addVideoResp, err := c.roomService.AddVideo(ctx, &room.AddVideoParams{
		RoomId:   sess.roomId,
		SenderId: sess.memberId,
		VideoURL: input.VideoURL,
	})
	if err != nil {
		return c.writeErrorResult(ctx, conn, "ADD_VIDEO_RESULT", err)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "ADD_VIDEO_RESULT",
		Payload: AddVideoResult{Success: true, Playlist: addVideoResp.Playlist},
	}); err != nil {
		return err
	}

	c.broadcastVersioned(ctx, sess.roomId, addVideoResp.Version, addVideoResp.Conns, conn, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Playlist: addVideoResp.Playlist, Version: addVideoResp.Version},
	})

	return nil
}

type SelectVideoInput struct {
	VideoId string `json:"video_id" validate:"required"`
}

type SelectVideoResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *controller) handleSelectVideo(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	var input SelectVideoInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return c.writeErrorResult(ctx, conn, "SELECT_VIDEO_RESULT", errInvalidPayload)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Type:    "SELECT_VIDEO_RESULT",
			Payload: ErrorResult{Success: false, Message: validationErrors[0].Message},
		})
	}

	sess, ok := conn.Session().(session)
	if !ok {
		return c.writeErrorResult(ctx, conn, "SELECT_VIDEO_RESULT", errNotInRoom)
	}

	selectVideoResp, err := c.roomService.SelectVideo(ctx, &room.SelectVideoParams{
		RoomId:   sess.roomId,
		SenderId: sess.memberId,
		VideoId:  input.VideoId,
	})
	if err != nil {
		return c.writeErrorResult(ctx, conn, "SELECT_VIDEO_RESULT", err)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "SELECT_VIDEO_RESULT",
		Payload: SelectVideoResult{Success: true, Message: "video has been selected"},
	}); err != nil {
		return err
	}

	// two separate events: clients react differently to a list change and
	// a now-playing change
	c.broadcastVersioned(ctx, sess.roomId, selectVideoResp.Version, selectVideoResp.Conns, conn,
		&Output{
			Type:    "PLAYLIST_UPDATED",
			Payload: PlaylistUpdatedEvent{Playlist: selectVideoResp.Playlist, Version: selectVideoResp.Version},
		},
		&Output{
			Type:    "VIDEO_SELECTED",
			Payload: VideoSelectedEvent{Video: selectVideoResp.SelectedVideo, Version: selectVideoResp.Version},
		},
	)

	return nil
}

type RemoveVideoInput struct {
	VideoId string `json:"video_id" validate:"required"`
}

type RemoveVideoResult struct {
	Success  bool         `json:"success"`
	Playlist []room.Video `json:"playlist"`
}

func (c *controller) handleRemoveVideo(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	var input RemoveVideoInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return c.writeErrorResult(ctx, conn, "REMOVE_VIDEO_RESULT", errInvalidPayload)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Type:    "REMOVE_VIDEO_RESULT",
			Payload: ErrorResult{Success: false, Message: validationErrors[0].Message},
		})
	}

	sess, ok := conn.Session().(session)
	if !ok {
		return c.writeErrorResult(ctx, conn, "REMOVE_VIDEO_RESULT", errNotInRoom)
	}

	removeVideoResp, err := c.roomService.RemoveVideo(ctx, &room.RemoveVideoParams{
		RoomId:   sess.roomId,
		SenderId: sess.memberId,
		VideoId:  input.VideoId,
	})
	if err != nil {
		return c.writeErrorResult(ctx, conn, "REMOVE_VIDEO_RESULT", err)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "REMOVE_VIDEO_RESULT",
		Payload: RemoveVideoResult{Success: true, Playlist: removeVideoResp.Playlist},
	}); err != nil {
		return err
	}

	c.broadcastVersioned(ctx, sess.roomId, removeVideoResp.Version, removeVideoResp.Conns, conn, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Playlist: removeVideoResp.Playlist, Version: removeVideoResp.Version},
	})

	return nil
}

type MoveVideoInput struct {
	VideoId  string `json:"video_id" validate:"required"`
	Position int    `json:"position" validate:"min=0"`
}

type MoveVideoResult struct {
	Success  bool         `json:"success"`
	Playlist []room.Video `json:"playlist"`
}

func (c *controller) handleMoveVideo(ctx context.Context, conn *wsrouter.Conn, payload json.RawMessage) error {
	var input MoveVideoInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return c.writeErrorResult(ctx, conn, "MOVE_VIDEO_RESULT", errInvalidPayload)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Type:    "MOVE_VIDEO_RESULT",
			Payload: ErrorResult{Success: false, Message: validationErrors[0].Message},
		})
	}

	sess, ok := conn.Session().(session)
	if !ok {
		return c.writeErrorResult(ctx, conn, "MOVE_VIDEO_RESULT", errNotInRoom)
	}

	moveVideoResp, err := c.roomService.MoveVideo(ctx, &room.MoveVideoParams{
		RoomId:   sess.roomId,
		SenderId: sess.memberId,
		VideoId:  input.VideoId,
		Position: input.Position,
	})
	if err != nil {
		return c.writeErrorResult(ctx, conn, "MOVE_VIDEO_RESULT", err)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "MOVE_VIDEO_RESULT",
		Payload: MoveVideoResult{Success: true, Playlist: moveVideoResp.Playlist},
	}); err != nil {
		return err
	}

	c.broadcastVersioned(ctx, sess.roomId, moveVideoResp.Version, moveVideoResp.Conns, conn, &Output{
		Type:    "PLAYLIST_UPDATED",
		Payload: PlaylistUpdatedEvent{Playlist: moveVideoResp.Playlist, Version: moveVideoResp.Version},
	})

	return nil
}
