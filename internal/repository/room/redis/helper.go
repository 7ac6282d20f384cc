package redis

import (
	"context"
	"reflect"

	"github.com/redis/go-redis/v9"

	"github.com/ytparty/server/internal/repository/room"
)

func (r repo) checkRoomExists(ctx context.Context, roomId string) error {
	exists, err := r.RoomExists(ctx, roomId)
	if err != nil {
		return err
	}
	if !exists {
		return room.ErrRoomNotFound
	}

	return nil
}

func makeZ(score float64, member string) redis.Z {
	return redis.Z{Score: score, Member: member}
}

func (r repo) addWithIncrement(ctx context.Context, c redis.Scripter, key string, value any) {
	c.EvalSha(ctx, r.maxScoreScript, []string{key}, value)
}

func (r repo) hSetStruct(ctx context.Context, c redis.Pipeliner, key string, value any) error {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	fields := make(map[string]any)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		tag := t.Field(i).Tag.Get("redis")
		if tag == "" || tag == "-" {
			continue
		}

		fields[tag] = v.Field(i).Interface()
	}

	return c.HSet(ctx, key, fields).Err()
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
