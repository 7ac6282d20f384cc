package inmemory

import (
	"sync"

	"github.com/ytparty/server/internal/repository/connection"
	"github.com/ytparty/server/pkg/wsrouter"
)

type repo struct {
	byConn     map[*wsrouter.Conn]connection.Session
	byMemberId map[string]*wsrouter.Conn
	mu         sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		byConn:     make(map[*wsrouter.Conn]connection.Session),
		byMemberId: make(map[string]*wsrouter.Conn),
	}
}

func (r *repo) Add(conn *wsrouter.Conn, memberId, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byConn[conn]; ok {
		return connection.ErrAlreadyExists
	}
	if _, ok := r.byMemberId[memberId]; ok {
		return connection.ErrAlreadyExists
	}

	r.byConn[conn] = connection.Session{MemberId: memberId, RoomId: roomId}
	r.byMemberId[memberId] = conn

	return nil
}

func (r *repo) RemoveByMemberId(memberId string) (*wsrouter.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.byMemberId[memberId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	delete(r.byConn, conn)
	delete(r.byMemberId, memberId)

	return conn, nil
}

func (r *repo) RemoveByConn(conn *wsrouter.Conn) (connection.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byConn[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	delete(r.byConn, conn)
	delete(r.byMemberId, session.MemberId)

	return session, nil
}

func (r *repo) GetConn(memberId string) (*wsrouter.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.byMemberId[memberId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetSession(conn *wsrouter.Conn) (connection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byConn[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	return session, nil
}
