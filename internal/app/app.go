package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ytparty/server/internal/controller"
	connmemory "github.com/ytparty/server/internal/repository/connection/inmemory"
	roommemory "github.com/ytparty/server/internal/repository/room/inmemory"
	roomredis "github.com/ytparty/server/internal/repository/room/redis"
	"github.com/ytparty/server/internal/service/room"
	"github.com/ytparty/server/pkg/ctxlogger"
	"github.com/ytparty/server/pkg/internalip"
	"github.com/ytparty/server/pkg/redisclient"
	"github.com/ytparty/server/pkg/videometa"
)

type AppConfig struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	LogLevel      string `json:"log_level"`
	MembersLimit  int    `json:"members_limit"`
	PlaylistLimit int    `json:"playlist_limit"`
	// RoomStore selects the room state backend: "memory" or "redis".
	RoomStore string `json:"room_store"`
	// ServerAddr is advertised to clients in create/join acks. Defaults to
	// the first internal IPv4 with the listen port.
	ServerAddr string `json:"server_addr"`
	// VideoAPIURL is the base url of the metadata service. When empty the
	// oembed resolver is used instead.
	VideoAPIURL     string `json:"video_api_url"`
	VideoAPITimeout int    `json:"video_api_timeout"`
	RedisHost       string `json:"redis_host"`
	RedisPort       int    `json:"redis_port"`
	RedisPassword   string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.PlaylistLimit < 1 {
		return fmt.Errorf("playlist limit must be greater than 0")
	}
	if cfg.RoomStore != "memory" && cfg.RoomStore != "redis" {
		return fmt.Errorf("unknown room store %q", cfg.RoomStore)
	}
	if cfg.VideoAPITimeout < 1 {
		return fmt.Errorf("video api timeout must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	var roomRepo room.RoomRepo
	switch cfg.RoomStore {
	case "redis":
		rc, err := redisclient.NewRedisClient(&redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		roomRepo = roomredis.NewRepo(rc)
	default:
		roomRepo = roommemory.NewRepo()
	}

	var resolver room.VideoResolver
	if cfg.VideoAPIURL != "" {
		resolver = videometa.NewClient(cfg.VideoAPIURL, time.Duration(cfg.VideoAPITimeout)*time.Second)
	} else {
		resolver = videometa.NewOembedResolver(time.Duration(cfg.VideoAPITimeout) * time.Second)
	}

	serverAddr := cfg.ServerAddr
	if serverAddr == "" {
		ip, err := internalip.IPv4()
		if err != nil {
			return fmt.Errorf("failed to detect internal ip: %w", err)
		}
		serverAddr = fmt.Sprintf("%s:%d", ip, cfg.Port)
	}

	connRepo := connmemory.NewRepo()
	roomService := room.NewService(roomRepo, connRepo, resolver, logger, &room.Config{
		MembersLimit:  cfg.MembersLimit,
		PlaylistLimit: cfg.PlaylistLimit,
	})
	ctrl := controller.NewController(roomService, resolver, logger, &controller.Config{
		ServerAddr: serverAddr,
	})
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: ctrl.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "room_store", cfg.RoomStore)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
