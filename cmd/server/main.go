package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ytparty/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3000,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 9,
	}
	playlistLimit = configVar[int]{
		envKey:       "SERVER_PLAYLIST_LIMIT",
		flagKey:      "playlist-limit",
		defaultValue: 25,
	}
	roomStore = configVar[string]{
		envKey:       "SERVER_ROOM_STORE",
		flagKey:      "room-store",
		defaultValue: "memory",
	}
	serverAddr = configVar[string]{
		envKey:       "SERVER_ADDR",
		flagKey:      "server-addr",
		defaultValue: "",
	}
	videoAPIURL = configVar[string]{
		envKey:       "SERVER_VIDEO_API_URL",
		flagKey:      "video-api-url",
		defaultValue: "",
	}
	videoAPITimeout = configVar[int]{
		envKey:       "SERVER_VIDEO_API_TIMEOUT",
		flagKey:      "video-api-timeout",
		defaultValue: 15,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, "Maximum number of members in the room")
	pflag.Int(playlistLimit.flagKey, playlistLimit.defaultValue, "Maximum number of videos in the playlist")
	pflag.String(roomStore.flagKey, roomStore.defaultValue, "Room state backend (memory or redis)")
	pflag.String(serverAddr.flagKey, serverAddr.defaultValue, "Address advertised to clients")
	pflag.String(videoAPIURL.flagKey, videoAPIURL.defaultValue, "Video metadata service base url")
	pflag.Int(videoAPITimeout.flagKey, videoAPITimeout.defaultValue, "Video metadata fetch timeout in seconds")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(membersLimit.flagKey, membersLimit.envKey)
	viper.BindEnv(playlistLimit.flagKey, playlistLimit.envKey)
	viper.BindEnv(roomStore.flagKey, roomStore.envKey)
	viper.BindEnv(serverAddr.flagKey, serverAddr.envKey)
	viper.BindEnv(videoAPIURL.flagKey, videoAPIURL.envKey)
	viper.BindEnv(videoAPITimeout.flagKey, videoAPITimeout.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(membersLimit.flagKey, membersLimit.defaultValue)
	viper.SetDefault(playlistLimit.flagKey, playlistLimit.defaultValue)
	viper.SetDefault(roomStore.flagKey, roomStore.defaultValue)
	viper.SetDefault(serverAddr.flagKey, serverAddr.defaultValue)
	viper.SetDefault(videoAPIURL.flagKey, videoAPIURL.defaultValue)
	viper.SetDefault(videoAPITimeout.flagKey, videoAPITimeout.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:            viper.GetString(host.flagKey),
		Port:            viper.GetInt(port.flagKey),
		LogLevel:        viper.GetString(logLevel.flagKey),
		MembersLimit:    viper.GetInt(membersLimit.flagKey),
		PlaylistLimit:   viper.GetInt(playlistLimit.flagKey),
		RoomStore:       viper.GetString(roomStore.flagKey),
		ServerAddr:      viper.GetString(serverAddr.flagKey),
		VideoAPIURL:     viper.GetString(videoAPIURL.flagKey),
		VideoAPITimeout: viper.GetInt(videoAPITimeout.flagKey),
		RedisHost:       viper.GetString(redisHost.flagKey),
		RedisPort:       viper.GetInt(redisPort.flagKey),
		RedisPassword:   viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
