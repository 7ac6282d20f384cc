// Package room implements the room engine: creation and join rules, host
// election and failover, and playlist mutation semantics. Commands are
// serialized on a single mutex, so every operation observes and produces a
// consistent room state; the metadata fetch inside AddVideo is the only
// point where the engine suspends and other commands may interleave.
package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ytparty/server/internal/repository/room"
	"github.com/ytparty/server/pkg/videometa"
	"github.com/ytparty/server/pkg/wsrouter"
)

var (
	ErrRoomNotFound      = room.ErrRoomNotFound
	ErrRoomAlreadyExists = room.ErrRoomAlreadyExists
	ErrMemberNotFound    = room.ErrMemberNotFound
	ErrVideoNotFound     = room.ErrVideoNotFound

	ErrNameTaken            = errors.New("display name already taken")
	ErrMembersLimitReached  = errors.New("members limit reached")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")
)

type RoomRepo interface {
	CreateRoom(context.Context, *room.CreateRoomParams) error
	RemoveRoom(ctx context.Context, roomId string) error
	RoomExists(ctx context.Context, roomId string) (bool, error)
	SetHost(ctx context.Context, roomId, memberId string) error
	GetHost(ctx context.Context, roomId string) (string, error)
	AddMember(context.Context, *room.AddMemberParams) error
	RemoveMember(context.Context, *room.RemoveMemberParams) error
	GetMembers(ctx context.Context, roomId string) ([]room.Member, error)
	SetVideo(context.Context, *room.SetVideoParams) error
	RemoveVideo(context.Context, *room.RemoveVideoParams) error
	MoveVideo(context.Context, *room.MoveVideoParams) error
	GetVideos(ctx context.Context, roomId string) ([]room.Video, error)
	GetVideosLength(ctx context.Context, roomId string) (int, error)
	GetSelectedVideoId(ctx context.Context, roomId string) (string, error)
	SetSelectedVideoId(ctx context.Context, roomId, videoId string) error
}

type ConnRepo interface {
	Add(conn *wsrouter.Conn, memberId, roomId string) error
	RemoveByMemberId(memberId string) (*wsrouter.Conn, error)
	GetConn(memberId string) (*wsrouter.Conn, error)
}

type VideoResolver interface {
	Resolve(ctx context.Context, videoURL string) (videometa.VideoData, error)
}

type Config struct {
	MembersLimit  int
	PlaylistLimit int
}

type service struct {
	roomRepo      RoomRepo
	connRepo      ConnRepo
	resolver      VideoResolver
	logger        *slog.Logger
	membersLimit  int
	playlistLimit int
	version       uint64
	mu            sync.Mutex
}

func NewService(roomRepo RoomRepo, connRepo ConnRepo, resolver VideoResolver, logger *slog.Logger, cfg *Config) *service {
	return &service{
		roomRepo:      roomRepo,
		connRepo:      connRepo,
		resolver:      resolver,
		logger:        logger,
		membersLimit:  cfg.MembersLimit,
		playlistLimit: cfg.PlaylistLimit,
	}
}

// nextVersion returns the version stamp for a completed room mutation.
// Callers must hold s.mu, so version order is the order mutations completed.
// The counter is shared across rooms: a recreated room id can never reuse a
// version an earlier incarnation already handed out.
func (s *service) nextVersion() uint64 {
	s.version++
	return s.version
}

type Member struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

type Video struct {
	Id              string `json:"id"`
	URL             string `json:"url"`
	Title           string `json:"title,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	Uploader        string `json:"uploader,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	UploadDate      string `json:"upload_date,omitempty"`
	ViewCount       int64  `json:"view_count,omitempty"`
	AddedBy         string `json:"added_by"`
	AddedAt         int64  `json:"added_at"`
	IsSelected      bool   `json:"is_selected"`
}

// getPlaylist builds the playlist snapshot in playback order, deriving
// is_selected from the room's active video id.
func (s *service) getPlaylist(ctx context.Context, roomId string) ([]Video, error) {
	videos, err := s.roomRepo.GetVideos(ctx, roomId)
	if err != nil {
		return nil, err
	}

	selectedVideoId, err := s.roomRepo.GetSelectedVideoId(ctx, roomId)
	if err != nil {
		return nil, err
	}

	playlist := make([]Video, 0, len(videos))
	for _, video := range videos {
		playlist = append(playlist, Video{
			Id:              video.Id,
			URL:             video.URL,
			Title:           video.Title,
			Thumbnail:       video.Thumbnail,
			Uploader:        video.Uploader,
			DurationSeconds: video.DurationSeconds,
			UploadDate:      video.UploadDate,
			ViewCount:       video.ViewCount,
			AddedBy:         video.AddedBy,
			AddedAt:         video.AddedAt,
			IsSelected:      video.Id == selectedVideoId,
		})
	}

	return playlist, nil
}

// getMemberList returns members in join order with the host flag set.
func (s *service) getMemberList(ctx context.Context, roomId string) ([]Member, error) {
	members, err := s.roomRepo.GetMembers(ctx, roomId)
	if err != nil {
		return nil, err
	}

	hostId, err := s.roomRepo.GetHost(ctx, roomId)
	if err != nil {
		return nil, err
	}

	memberList := make([]Member, 0, len(members))
	for _, member := range members {
		memberList = append(memberList, Member{
			Id:          member.Id,
			DisplayName: member.DisplayName,
			IsHost:      member.Id == hostId,
		})
	}

	return memberList, nil
}

func (s *service) getConnsByRoomId(ctx context.Context, roomId string) ([]*wsrouter.Conn, error) {
	members, err := s.roomRepo.GetMembers(ctx, roomId)
	if err != nil {
		return nil, err
	}

	conns := make([]*wsrouter.Conn, 0, len(members))
	for _, member := range members {
		conn, err := s.connRepo.GetConn(member.Id)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}
