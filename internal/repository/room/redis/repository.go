// Package redis is the alternate room store backend, for deployments that
// want room state to survive a server restart. The key layout keeps one hash
// per room, member and video, with zsets holding join and append order.
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/ytparty/server/internal/repository/room"
)

type repo struct {
	rc             *redis.Client
	maxScoreScript string
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{
		rc: rc,
		maxScoreScript: rc.ScriptLoad(context.Background(), `
			local maxScore = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
			local nextScore = 1
			if #maxScore > 0 then
				nextScore = tonumber(maxScore[2]) + 1
			end
			redis.call('ZADD', KEYS[1], nextScore, ARGV[1])
			return nextScore
		`).Val(),
	}
}

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	ok, err := r.rc.HSetNX(ctx, r.getRoomKey(params.RoomId), "created_at", params.CreatedAt).Result()
	if err != nil {
		return err
	}

	if !ok {
		return room.ErrRoomAlreadyExists
	}

	return nil
}

func (r repo) RemoveRoom(ctx context.Context, roomId string) error {
	exists, err := r.RoomExists(ctx, roomId)
	if err != nil {
		return err
	}
	if !exists {
		return room.ErrRoomNotFound
	}

	memberIds, err := r.rc.ZRange(ctx, r.getMembersKey(roomId), 0, -1).Result()
	if err != nil {
		return err
	}

	videoIds, err := r.rc.ZRange(ctx, r.getPlaylistKey(roomId), 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := r.rc.TxPipeline()
	for _, memberId := range memberIds {
		pipe.Del(ctx, r.getMemberKey(roomId, memberId))
	}
	for _, videoId := range videoIds {
		pipe.Del(ctx, r.getVideoKey(roomId, videoId))
	}
	pipe.Del(ctx, r.getMembersKey(roomId))
	pipe.Del(ctx, r.getPlaylistKey(roomId))
	pipe.Del(ctx, r.getRoomKey(roomId))

	return r.executePipe(ctx, pipe)
}

func (r repo) RoomExists(ctx context.Context, roomId string) (bool, error) {
	exists, err := r.rc.Exists(ctx, r.getRoomKey(roomId)).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}

func (r repo) SetHost(ctx context.Context, roomId, memberId string) error {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return err
	}

	return r.rc.HSet(ctx, r.getRoomKey(roomId), "host_id", memberId).Err()
}

func (r repo) GetHost(ctx context.Context, roomId string) (string, error) {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return "", err
	}

	hostId, err := r.rc.HGet(ctx, r.getRoomKey(roomId), "host_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}

		return "", err
	}

	return hostId, nil
}

func (r repo) GetSelectedVideoId(ctx context.Context, roomId string) (string, error) {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return "", err
	}

	videoId, err := r.rc.HGet(ctx, r.getRoomKey(roomId), "selected_video_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}

		return "", err
	}

	return videoId, nil
}

func (r repo) SetSelectedVideoId(ctx context.Context, roomId, videoId string) error {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return err
	}

	if videoId != "" {
		exists, err := r.rc.Exists(ctx, r.getVideoKey(roomId, videoId)).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return room.ErrVideoNotFound
		}
	}

	return r.rc.HSet(ctx, r.getRoomKey(roomId), "selected_video_id", videoId).Err()
}
