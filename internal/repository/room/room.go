// Package room defines the room store contract shared by its backends:
// models, params and sentinel errors. The store holds every live room;
// rooms exist only between creation and the departure of their last member.
package room

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrMemberNotFound    = errors.New("member not found")
	ErrVideoNotFound     = errors.New("video not found")
)

type Member struct {
	Id          string `redis:"-"`
	DisplayName string `redis:"display_name"`
	JoinedAt    int64  `redis:"joined_at"`
}

type Video struct {
	Id              string `redis:"-"`
	URL             string `redis:"url"`
	Title           string `redis:"title"`
	Thumbnail       string `redis:"thumbnail"`
	Uploader        string `redis:"uploader"`
	DurationSeconds int    `redis:"duration_seconds"`
	UploadDate      string `redis:"upload_date"`
	ViewCount       int64  `redis:"view_count"`
	AddedBy         string `redis:"added_by"`
	AddedAt         int64  `redis:"added_at"`
}

type CreateRoomParams struct {
	RoomId    string
	CreatedAt int64
}

type AddMemberParams struct {
	RoomId      string
	MemberId    string
	DisplayName string
	JoinedAt    int64
}

type RemoveMemberParams struct {
	RoomId   string
	MemberId string
}

type SetVideoParams struct {
	RoomId          string
	VideoId         string
	URL             string
	Title           string
	Thumbnail       string
	Uploader        string
	DurationSeconds int
	UploadDate      string
	ViewCount       int64
	AddedBy         string
	AddedAt         int64
}

type RemoveVideoParams struct {
	RoomId  string
	VideoId string
}

type MoveVideoParams struct {
	RoomId   string
	VideoId  string
	Position int
}
