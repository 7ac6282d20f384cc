package redis

import (
	"context"

	"github.com/ytparty/server/internal/repository/room"
)

func (r repo) getMemberKey(roomId, memberId string) string {
	return "room:" + roomId + ":member:" + memberId
}

func (r repo) getMembersKey(roomId string) string {
	return "room:" + roomId + ":members"
}

func (r repo) AddMember(ctx context.Context, params *room.AddMemberParams) error {
	if err := r.checkRoomExists(ctx, params.RoomId); err != nil {
		return err
	}

	member := room.Member{
		DisplayName: params.DisplayName,
		JoinedAt:    params.JoinedAt,
	}

	pipe := r.rc.TxPipeline()
	if err := r.hSetStruct(ctx, pipe, r.getMemberKey(params.RoomId, params.MemberId), member); err != nil {
		return err
	}
	r.addWithIncrement(ctx, pipe, r.getMembersKey(params.RoomId), params.MemberId)

	return r.executePipe(ctx, pipe)
}

func (r repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	if err := r.checkRoomExists(ctx, params.RoomId); err != nil {
		return err
	}

	removed, err := r.rc.ZRem(ctx, r.getMembersKey(params.RoomId), params.MemberId).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return room.ErrMemberNotFound
	}

	return r.rc.Del(ctx, r.getMemberKey(params.RoomId, params.MemberId)).Err()
}

// GetMembers returns members in join order.
func (r repo) GetMembers(ctx context.Context, roomId string) ([]room.Member, error) {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return nil, err
	}

	memberIds, err := r.rc.ZRange(ctx, r.getMembersKey(roomId), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	members := make([]room.Member, 0, len(memberIds))
	for _, memberId := range memberIds {
		var member room.Member
		if err := r.rc.HGetAll(ctx, r.getMemberKey(roomId, memberId)).Scan(&member); err != nil {
			return nil, err
		}

		member.Id = memberId
		members = append(members, member)
	}

	return members, nil
}
