package redis

import (
	"context"

	"github.com/ytparty/server/internal/repository/room"
)

func (r repo) getVideoKey(roomId, videoId string) string {
	return "room:" + roomId + ":video:" + videoId
}

func (r repo) getPlaylistKey(roomId string) string {
	return "room:" + roomId + ":playlist"
}

func (r repo) SetVideo(ctx context.Context, params *room.SetVideoParams) error {
	if err := r.checkRoomExists(ctx, params.RoomId); err != nil {
		return err
	}

	video := room.Video{
		URL:             params.URL,
		Title:           params.Title,
		Thumbnail:       params.Thumbnail,
		Uploader:        params.Uploader,
		DurationSeconds: params.DurationSeconds,
		UploadDate:      params.UploadDate,
		ViewCount:       params.ViewCount,
		AddedBy:         params.AddedBy,
		AddedAt:         params.AddedAt,
	}

	pipe := r.rc.TxPipeline()
	if err := r.hSetStruct(ctx, pipe, r.getVideoKey(params.RoomId, params.VideoId), video); err != nil {
		return err
	}
	r.addWithIncrement(ctx, pipe, r.getPlaylistKey(params.RoomId), params.VideoId)

	return r.executePipe(ctx, pipe)
}

func (r repo) RemoveVideo(ctx context.Context, params *room.RemoveVideoParams) error {
	if err := r.checkRoomExists(ctx, params.RoomId); err != nil {
		return err
	}

	removed, err := r.rc.ZRem(ctx, r.getPlaylistKey(params.RoomId), params.VideoId).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return room.ErrVideoNotFound
	}

	return r.rc.Del(ctx, r.getVideoKey(params.RoomId, params.VideoId)).Err()
}

func (r repo) MoveVideo(ctx context.Context, params *room.MoveVideoParams) error {
	if err := r.checkRoomExists(ctx, params.RoomId); err != nil {
		return err
	}

	videoIds, err := r.rc.ZRange(ctx, r.getPlaylistKey(params.RoomId), 0, -1).Result()
	if err != nil {
		return err
	}

	from := -1
	for i, videoId := range videoIds {
		if videoId == params.VideoId {
			from = i
			break
		}
	}
	if from == -1 {
		return room.ErrVideoNotFound
	}

	to := params.Position
	if to < 0 {
		to = 0
	}
	if to > len(videoIds)-1 {
		to = len(videoIds) - 1
	}

	videoIds = append(videoIds[:from], videoIds[from+1:]...)
	videoIds = append(videoIds[:to], append([]string{params.VideoId}, videoIds[to:]...)...)

	pipe := r.rc.TxPipeline()
	for i, videoId := range videoIds {
		pipe.ZAdd(ctx, r.getPlaylistKey(params.RoomId), makeZ(float64(i+1), videoId))
	}

	return r.executePipe(ctx, pipe)
}

// GetVideos returns videos in append order.
func (r repo) GetVideos(ctx context.Context, roomId string) ([]room.Video, error) {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return nil, err
	}

	videoIds, err := r.rc.ZRange(ctx, r.getPlaylistKey(roomId), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	videos := make([]room.Video, 0, len(videoIds))
	for _, videoId := range videoIds {
		var video room.Video
		if err := r.rc.HGetAll(ctx, r.getVideoKey(roomId, videoId)).Scan(&video); err != nil {
			return nil, err
		}

		video.Id = videoId
		videos = append(videos, video)
	}

	return videos, nil
}

func (r repo) GetVideosLength(ctx context.Context, roomId string) (int, error) {
	if err := r.checkRoomExists(ctx, roomId); err != nil {
		return 0, err
	}

	length, err := r.rc.ZCard(ctx, r.getPlaylistKey(roomId)).Result()
	if err != nil {
		return 0, err
	}

	return int(length), nil
}
