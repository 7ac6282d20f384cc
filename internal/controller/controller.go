package controller

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ytparty/server/internal/service/room"
	"github.com/ytparty/server/pkg/validator"
	"github.com/ytparty/server/pkg/videometa"
	"github.com/ytparty/server/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	DisconnectMember(context.Context, *room.DisconnectMemberParams) (room.DisconnectMemberResponse, error)
	AddVideo(context.Context, *room.AddVideoParams) (room.AddVideoResponse, error)
	SelectVideo(context.Context, *room.SelectVideoParams) (room.SelectVideoResponse, error)
	RemoveVideo(context.Context, *room.RemoveVideoParams) (room.RemoveVideoResponse, error)
	MoveVideo(context.Context, *room.MoveVideoParams) (room.MoveVideoResponse, error)
}

type iVideoResolver interface {
	Resolve(ctx context.Context, videoURL string) (videometa.VideoData, error)
}

type Config struct {
	// ServerAddr is the address advertised to clients in create/join acks.
	ServerAddr string
}

// session is the room binding of a connection, stored on the conn after a
// successful create or join. A connection joins at most one room.
type session struct {
	memberId string
	roomId   string
}

type controller struct {
	roomService iRoomService
	resolver    iVideoResolver
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	logger      *slog.Logger
	serverAddr  string

	// last delivered playlist version per room, guarding fan-out order
	versionMu   sync.Mutex
	lastVersion map[string]uint64
}

func NewController(roomService iRoomService, resolver iVideoResolver, logger *slog.Logger, cfg *Config) *controller {
	c := &controller{
		roomService: roomService,
		resolver:    resolver,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:    validator.NewValidator(),
		logger:      logger,
		serverAddr:  cfg.ServerAddr,
		lastVersion: make(map[string]uint64),
	}
	c.wsmux = c.getWSRouter()

	return c
}
