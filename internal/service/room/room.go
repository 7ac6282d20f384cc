package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ytparty/server/internal/repository/room"
	"github.com/ytparty/server/pkg/wsrouter"
)

type CreateRoomParams struct {
	RoomId      string
	DisplayName string
}

type CreateRoomResponse struct {
	MemberId string
}

// CreateRoom registers a new room under the client-chosen id and adds the
// caller as its sole member and host.
func (s *service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId:    params.RoomId,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	memberId := uuid.NewString()
	if err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		RoomId:      params.RoomId,
		MemberId:    memberId,
		DisplayName: params.DisplayName,
		JoinedAt:    time.Now().Unix(),
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	if err := s.roomRepo.SetHost(ctx, params.RoomId, memberId); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to set host: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_id", params.RoomId, "member_id", memberId)

	return CreateRoomResponse{MemberId: memberId}, nil
}

type JoinRoomParams struct {
	RoomId      string
	DisplayName string
}

type JoinRoomResponse struct {
	JoinedMember Member
	IsHost       bool
	Playlist     []Video
	Members      []Member
	Conns        []*wsrouter.Conn
}

// JoinRoom adds a new member to an existing room. The display name must not
// be held by another connection in the room at the moment of joining.
// Conns holds the connections of the members present before the join, for
// the member-joined notification.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.roomRepo.GetMembers(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get members: %w", err)
	}

	if len(members) >= s.membersLimit {
		return JoinRoomResponse{}, ErrMembersLimitReached
	}

	for _, member := range members {
		if member.DisplayName == params.DisplayName {
			return JoinRoomResponse{}, ErrNameTaken
		}
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	memberId := uuid.NewString()
	if err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		RoomId:      params.RoomId,
		MemberId:    memberId,
		DisplayName: params.DisplayName,
		JoinedAt:    time.Now().Unix(),
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	memberList, err := s.getMemberList(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get member list: %w", err)
	}

	hostId, err := s.roomRepo.GetHost(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get host: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined", "room_id", params.RoomId, "member_id", memberId)

	return JoinRoomResponse{
		JoinedMember: Member{
			Id:          memberId,
			DisplayName: params.DisplayName,
			IsHost:      memberId == hostId,
		},
		IsHost:   memberId == hostId,
		Playlist: playlist,
		Members:  memberList,
		Conns:    conns,
	}, nil
}

type ConnectMemberParams struct {
	Conn     *wsrouter.Conn
	MemberId string
	RoomId   string
}

func (s *service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	if err := s.connRepo.Add(params.Conn, params.MemberId, params.RoomId); err != nil {
		return fmt.Errorf("failed to connect member: %w", err)
	}

	return nil
}

type DisconnectMemberParams struct {
	RoomId   string
	MemberId string
}

type DisconnectMemberResponse struct {
	IsRoomDeleted bool
	NewHostId     string
	Members       []Member
	Conns         []*wsrouter.Conn
}

// DisconnectMember removes a member from its room. Idempotent: an already
// removed member is a no-op. When the host leaves, the earliest-joined
// surviving member is promoted; when the last member leaves, the room is
// deleted.
func (s *service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) (DisconnectMemberResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.connRepo.RemoveByMemberId(params.MemberId); err != nil {
		s.logger.DebugContext(ctx, "no conn to remove", "member_id", params.MemberId)
	}

	if err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		RoomId:   params.RoomId,
		MemberId: params.MemberId,
	}); err != nil {
		if errors.Is(err, room.ErrMemberNotFound) || errors.Is(err, room.ErrRoomNotFound) {
			return DisconnectMemberResponse{}, nil
		}

		return DisconnectMemberResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	members, err := s.roomRepo.GetMembers(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get members: %w", err)
	}

	if len(members) == 0 {
		if err := s.roomRepo.RemoveRoom(ctx, params.RoomId); err != nil {
			return DisconnectMemberResponse{}, fmt.Errorf("failed to remove room: %w", err)
		}

		s.logger.InfoContext(ctx, "room deleted", "room_id", params.RoomId)

		return DisconnectMemberResponse{IsRoomDeleted: true}, nil
	}

	hostId, err := s.roomRepo.GetHost(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get host: %w", err)
	}

	var newHostId string
	if hostId == params.MemberId {
		// members are in join order, so the earliest-joined survivor
		// inherits the room
		newHostId = members[0].Id
		if err := s.roomRepo.SetHost(ctx, params.RoomId, newHostId); err != nil {
			return DisconnectMemberResponse{}, fmt.Errorf("failed to set host: %w", err)
		}

		s.logger.InfoContext(ctx, "host reassigned", "room_id", params.RoomId, "host_id", newHostId)
	}

	memberList, err := s.getMemberList(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get member list: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	return DisconnectMemberResponse{
		NewHostId: newHostId,
		Members:   memberList,
		Conns:     conns,
	}, nil
}

type RoomState struct {
	Playlist []Video
	Members  []Member
	HostId   string
}

func (s *service) GetRoomState(ctx context.Context, roomId string) (RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, err := s.getPlaylist(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	memberList, err := s.getMemberList(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get member list: %w", err)
	}

	hostId, err := s.roomRepo.GetHost(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get host: %w", err)
	}

	return RoomState{
		Playlist: playlist,
		Members:  memberList,
		HostId:   hostId,
	}, nil
}
