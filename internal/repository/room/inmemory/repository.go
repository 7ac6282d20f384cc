// Package inmemory is the default room store: a process-wide map guarded by
// a single RWMutex. State lives only for the process lifetime.
package inmemory

import (
	"context"
	"sync"

	"github.com/ytparty/server/internal/repository/room"
)

type roomState struct {
	createdAt       int64
	hostId          string
	selectedVideoId string
	members         []room.Member
	videos          []room.Video
}

type repo struct {
	rooms map[string]*roomState
	mu    sync.RWMutex
}

func NewRepo() *repo {
	return &repo{rooms: make(map[string]*roomState)}
}

func (r *repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[params.RoomId]; ok {
		return room.ErrRoomAlreadyExists
	}

	r.rooms[params.RoomId] = &roomState{createdAt: params.CreatedAt}

	return nil
}

func (r *repo) RemoveRoom(ctx context.Context, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomId]; !ok {
		return room.ErrRoomNotFound
	}

	delete(r.rooms, roomId)

	return nil
}

func (r *repo) RoomExists(ctx context.Context, roomId string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomId]

	return ok, nil
}

func (r *repo) SetHost(ctx context.Context, roomId, memberId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.hostId = memberId

	return nil
}

func (r *repo) GetHost(ctx context.Context, roomId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return "", room.ErrRoomNotFound
	}

	return state.hostId, nil
}

func (r *repo) AddMember(ctx context.Context, params *room.AddMemberParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.members = append(state.members, room.Member{
		Id:          params.MemberId,
		DisplayName: params.DisplayName,
		JoinedAt:    params.JoinedAt,
	})

	return nil
}

func (r *repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	for i, member := range state.members {
		if member.Id == params.MemberId {
			state.members = append(state.members[:i], state.members[i+1:]...)
			return nil
		}
	}

	return room.ErrMemberNotFound
}

// GetMembers returns members in join order.
func (r *repo) GetMembers(ctx context.Context, roomId string) ([]room.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	members := make([]room.Member, len(state.members))
	copy(members, state.members)

	return members, nil
}

func (r *repo) SetVideo(ctx context.Context, params *room.SetVideoParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.videos = append(state.videos, room.Video{
		Id:              params.VideoId,
		URL:             params.URL,
		Title:           params.Title,
		Thumbnail:       params.Thumbnail,
		Uploader:        params.Uploader,
		DurationSeconds: params.DurationSeconds,
		UploadDate:      params.UploadDate,
		ViewCount:       params.ViewCount,
		AddedBy:         params.AddedBy,
		AddedAt:         params.AddedAt,
	})

	return nil
}

func (r *repo) RemoveVideo(ctx context.Context, params *room.RemoveVideoParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	for i, video := range state.videos {
		if video.Id == params.VideoId {
			state.videos = append(state.videos[:i], state.videos[i+1:]...)
			return nil
		}
	}

	return room.ErrVideoNotFound
}

func (r *repo) MoveVideo(ctx context.Context, params *room.MoveVideoParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	from := -1
	for i, video := range state.videos {
		if video.Id == params.VideoId {
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
	if to > len(state.videos)-1 {
		to = len(state.videos) - 1
	}

	video := state.videos[from]
	state.videos = append(state.videos[:from], state.videos[from+1:]...)
	state.videos = append(state.videos[:to], append([]room.Video{video}, state.videos[to:]...)...)

	return nil
}

// GetVideos returns videos in append order.
func (r *repo) GetVideos(ctx context.Context, roomId string) ([]room.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	videos := make([]room.Video, len(state.videos))
	copy(videos, state.videos)

	return videos, nil
}

func (r *repo) GetVideosLength(ctx context.Context, roomId string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return 0, room.ErrRoomNotFound
	}

	return len(state.videos), nil
}

func (r *repo) GetSelectedVideoId(ctx context.Context, roomId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return "", room.ErrRoomNotFound
	}

	return state.selectedVideoId, nil
}

// SetSelectedVideoId marks videoId as the active entry. An empty videoId
// clears the selection.
func (r *repo) SetSelectedVideoId(ctx context.Context, roomId, videoId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	if videoId == "" {
		state.selectedVideoId = ""
		return nil
	}

	for _, video := range state.videos {
		if video.Id == videoId {
			state.selectedVideoId = videoId
			return nil
		}
	}

	return room.ErrVideoNotFound
}
