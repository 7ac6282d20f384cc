package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytparty/server/internal/repository/room"
	roomredis "github.com/ytparty/server/internal/repository/room/redis"
)

func newTestRepo(t *testing.T) *goredis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	return goredis.NewClient(&goredis.Options{Addr: s.Addr()})
}

func TestRoomLifecycle(t *testing.T) {
	rc := newTestRepo(t)
	r := roomredis.NewRepo(rc)
	ctx := context.Background()

	err := r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r1", CreatedAt: 100})
	require.NoError(t, err)

	err = r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r1", CreatedAt: 200})
	assert.ErrorIs(t, err, room.ErrRoomAlreadyExists)

	exists, err := r.RoomExists(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, r.SetHost(ctx, "r1", "m1"))
	hostId, err := r.GetHost(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "m1", hostId)

	err = r.RemoveRoom(ctx, "r1")
	require.NoError(t, err)

	err = r.RemoveRoom(ctx, "r1")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	keys, err := rc.Keys(ctx, "*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys, "all room keys must be cleaned up")
}

func TestMembers(t *testing.T) {
	rc := newTestRepo(t)
	r := roomredis.NewRepo(rc)
	ctx := context.Background()

	err := r.AddMember(ctx, &room.AddMemberParams{RoomId: "nope", MemberId: "m1"})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	require.NoError(t, r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r1", CreatedAt: 100}))

	require.NoError(t, r.AddMember(ctx, &room.AddMemberParams{
		RoomId: "r1", MemberId: "m1", DisplayName: "Alice", JoinedAt: 1,
	}))
	require.NoError(t, r.AddMember(ctx, &room.AddMemberParams{
		RoomId: "r1", MemberId: "m2", DisplayName: "Bob", JoinedAt: 2,
	}))

	members, err := r.GetMembers(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "m1", members[0].Id, "members must be in join order")
	assert.Equal(t, "Alice", members[0].DisplayName)
	assert.EqualValues(t, 1, members[0].JoinedAt)

	err = r.RemoveMember(ctx, &room.RemoveMemberParams{RoomId: "nope", MemberId: "m1"})
	assert.ErrorIs(t, err, room.ErrRoomNotFound, "absent room must not report a missing member")

	require.NoError(t, r.RemoveMember(ctx, &room.RemoveMemberParams{RoomId: "r1", MemberId: "m1"}))
	err = r.RemoveMember(ctx, &room.RemoveMemberParams{RoomId: "r1", MemberId: "m1"})
	assert.ErrorIs(t, err, room.ErrMemberNotFound)

	members, err = r.GetMembers(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "m2", members[0].Id)
}

func TestVideos(t *testing.T) {
	rc := newTestRepo(t)
	r := roomredis.NewRepo(rc)
	ctx := context.Background()

	err := r.RemoveVideo(ctx, &room.RemoveVideoParams{RoomId: "nope", VideoId: "v1"})
	assert.ErrorIs(t, err, room.ErrRoomNotFound, "absent room must not report a missing video")
	err = r.MoveVideo(ctx, &room.MoveVideoParams{RoomId: "nope", VideoId: "v1", Position: 0})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	require.NoError(t, r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r1", CreatedAt: 100}))

	for i, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, r.SetVideo(ctx, &room.SetVideoParams{
			RoomId:          "r1",
			VideoId:         id,
			URL:             "https://youtu.be/" + id,
			Title:           "video " + id,
			DurationSeconds: 60 * (i + 1),
			AddedBy:         "Alice",
			AddedAt:         int64(i + 1),
		}))
	}

	length, err := r.GetVideosLength(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, length)

	videos, err := r.GetVideos(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "v1", videos[0].Id, "videos must be in append order")
	assert.Equal(t, "video v1", videos[0].Title)
	assert.Equal(t, 60, videos[0].DurationSeconds)

	require.NoError(t, r.MoveVideo(ctx, &room.MoveVideoParams{RoomId: "r1", VideoId: "v3", Position: 0}))
	videos, err = r.GetVideos(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "v3", videos[0].Id)
	assert.Equal(t, "v1", videos[1].Id)
	assert.Equal(t, "v2", videos[2].Id)

	err = r.MoveVideo(ctx, &room.MoveVideoParams{RoomId: "r1", VideoId: "nope", Position: 0})
	assert.ErrorIs(t, err, room.ErrVideoNotFound)

	require.NoError(t, r.RemoveVideo(ctx, &room.RemoveVideoParams{RoomId: "r1", VideoId: "v2"}))
	err = r.RemoveVideo(ctx, &room.RemoveVideoParams{RoomId: "r1", VideoId: "v2"})
	assert.ErrorIs(t, err, room.ErrVideoNotFound)
}

func TestSelectedVideoId(t *testing.T) {
	rc := newTestRepo(t)
	r := roomredis.NewRepo(rc)
	ctx := context.Background()

	require.NoError(t, r.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r1", CreatedAt: 100}))
	require.NoError(t, r.SetVideo(ctx, &room.SetVideoParams{RoomId: "r1", VideoId: "v1"}))

	selected, err := r.GetSelectedVideoId(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, selected)

	err = r.SetSelectedVideoId(ctx, "r1", "nope")
	assert.ErrorIs(t, err, room.ErrVideoNotFound)

	require.NoError(t, r.SetSelectedVideoId(ctx, "r1", "v1"))
	selected, err = r.GetSelectedVideoId(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "v1", selected)

	require.NoError(t, r.SetSelectedVideoId(ctx, "r1", ""))
	selected, err = r.GetSelectedVideoId(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, selected)
}
