package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ytparty/server/internal/repository/room"
	"github.com/ytparty/server/pkg/videometa"
	"github.com/ytparty/server/pkg/wsrouter"
)

type AddVideoParams struct {
	RoomId   string
	SenderId string
	VideoURL string
}

type AddVideoResponse struct {
	AddedVideo Video
	Playlist   []Video
	Version    uint64
	Conns      []*wsrouter.Conn
}

// AddVideo resolves metadata for the URL and appends the result to the
// playlist. The resolve call is the only suspension point in the engine:
// the room lock is released around it, and the append re-checks room
// existence, so a room deleted mid-fetch discards the result instead of
// being recreated.
func (s *service) AddVideo(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	addedBy, err := s.prepareAddVideo(ctx, params)
	if err != nil {
		return AddVideoResponse{}, err
	}

	if !videometa.SupportedURL(params.VideoURL) {
		return AddVideoResponse{}, videometa.ErrUnsupportedURL
	}

	data, err := s.resolver.Resolve(ctx, params.VideoURL)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to resolve video data: %w", err)
	}

	return s.appendVideo(ctx, params, addedBy, &data)
}

func (s *service) prepareAddVideo(ctx context.Context, params *AddVideoParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.roomRepo.GetMembers(ctx, params.RoomId)
	if err != nil {
		return "", fmt.Errorf("failed to get members: %w", err)
	}

	addedBy := ""
	for _, member := range members {
		if member.Id == params.SenderId {
			addedBy = member.DisplayName
			break
		}
	}
	if addedBy == "" {
		return "", ErrMemberNotFound
	}

	length, err := s.roomRepo.GetVideosLength(ctx, params.RoomId)
	if err != nil {
		return "", fmt.Errorf("failed to get playlist length: %w", err)
	}

	if length >= s.playlistLimit {
		return "", ErrPlaylistLimitReached
	}

	return addedBy, nil
}

func (s *service) appendVideo(ctx context.Context, params *AddVideoParams, addedBy string, data *videometa.VideoData) (AddVideoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// re-checked: another add may have filled the playlist during the fetch
	length, err := s.roomRepo.GetVideosLength(ctx, params.RoomId)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to get playlist length: %w", err)
	}
	if length >= s.playlistLimit {
		return AddVideoResponse{}, ErrPlaylistLimitReached
	}

	videoId := uuid.NewString()
	addedAt := time.Now().Unix()
	if err := s.roomRepo.SetVideo(ctx, &room.SetVideoParams{
		RoomId:          params.RoomId,
		VideoId:         videoId,
		URL:             params.VideoURL,
		Title:           data.Title,
		Thumbnail:       data.Thumbnail,
		Uploader:        data.Uploader,
		DurationSeconds: data.DurationSeconds,
		UploadDate:      data.UploadDate,
		ViewCount:       data.ViewCount,
		AddedBy:         addedBy,
		AddedAt:         addedAt,
	}); err != nil {
		// the room may have been deleted while the fetch was in flight
		return AddVideoResponse{}, fmt.Errorf("failed to set video: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	s.logger.InfoContext(ctx, "video added", "room_id", params.RoomId, "video_id", videoId)

	return AddVideoResponse{
		AddedVideo: Video{
			Id:              videoId,
			URL:             params.VideoURL,
			Title:           data.Title,
			Thumbnail:       data.Thumbnail,
			Uploader:        data.Uploader,
			DurationSeconds: data.DurationSeconds,
			UploadDate:      data.UploadDate,
			ViewCount:       data.ViewCount,
			AddedBy:         addedBy,
			AddedAt:         addedAt,
		},
		Playlist: playlist,
		Version:  s.nextVersion(),
		Conns:    conns,
	}, nil
}

type SelectVideoParams struct {
	RoomId   string
	SenderId string
	VideoId  string
}

type SelectVideoResponse struct {
	SelectedVideo Video
	Playlist      []Video
	Version       uint64
	Conns         []*wsrouter.Conn
}

// SelectVideo marks the target entry as the active one. Any member may
// select; host-only control is a client-side convention.
func (s *service) SelectVideo(ctx context.Context, params *SelectVideoParams) (SelectVideoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roomRepo.SetSelectedVideoId(ctx, params.RoomId, params.VideoId); err != nil {
		return SelectVideoResponse{}, fmt.Errorf("failed to set selected video: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return SelectVideoResponse{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	var selectedVideo Video
	for _, video := range playlist {
		if video.Id == params.VideoId {
			selectedVideo = video
			break
		}
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return SelectVideoResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	s.logger.InfoContext(ctx, "video selected", "room_id", params.RoomId, "video_id", params.VideoId)

	return SelectVideoResponse{
		SelectedVideo: selectedVideo,
		Playlist:      playlist,
		Version:       s.nextVersion(),
		Conns:         conns,
	}, nil
}

type RemoveVideoParams struct {
	RoomId   string
	SenderId string
	VideoId  string
}

type RemoveVideoResponse struct {
	Playlist []Video
	Version  uint64
	Conns    []*wsrouter.Conn
}

// RemoveVideo deletes an entry from the playlist. Removing the active entry
// clears the selection.
func (s *service) RemoveVideo(ctx context.Context, params *RemoveVideoParams) (RemoveVideoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selectedVideoId, err := s.roomRepo.GetSelectedVideoId(ctx, params.RoomId)
	if err != nil {
		return RemoveVideoResponse{}, fmt.Errorf("failed to get selected video: %w", err)
	}

	if err := s.roomRepo.RemoveVideo(ctx, &room.RemoveVideoParams{
		RoomId:  params.RoomId,
		VideoId: params.VideoId,
	}); err != nil {
		return RemoveVideoResponse{}, fmt.Errorf("failed to remove video: %w", err)
	}

	if selectedVideoId == params.VideoId {
		if err := s.roomRepo.SetSelectedVideoId(ctx, params.RoomId, ""); err != nil {
			return RemoveVideoResponse{}, fmt.Errorf("failed to clear selected video: %w", err)
		}
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return RemoveVideoResponse{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return RemoveVideoResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	return RemoveVideoResponse{
		Playlist: playlist,
		Version:  s.nextVersion(),
		Conns:    conns,
	}, nil
}

type MoveVideoParams struct {
	RoomId   string
	SenderId string
	VideoId  string
	Position int
}

type MoveVideoResponse struct {
	Playlist []Video
	Version  uint64
	Conns    []*wsrouter.Conn
}

// MoveVideo changes an entry's position in playback order. The position is
// clamped to the playlist bounds.
func (s *service) MoveVideo(ctx context.Context, params *MoveVideoParams) (MoveVideoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roomRepo.MoveVideo(ctx, &room.MoveVideoParams{
		RoomId:   params.RoomId,
		VideoId:  params.VideoId,
		Position: params.Position,
	}); err != nil {
		return MoveVideoResponse{}, fmt.Errorf("failed to move video: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomId)
	if err != nil {
		return MoveVideoResponse{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return MoveVideoResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	return MoveVideoResponse{
		Playlist: playlist,
		Version:  s.nextVersion(),
		Conns:    conns,
	}, nil
}
