// Package connection defines the registry of live websocket connections.
// A connection belongs to at most one room member at a time.
package connection

import "errors"

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

type Session struct {
	MemberId string
	RoomId   string
}
