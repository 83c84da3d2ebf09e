package core

import (
	"time"

	"github.com/google/uuid"
)

// conn is the part of a necs client the relay needs.
type conn interface {
	Id() string
	SendMessage(msg any) error
}

type member struct {
	conn   conn
	id     uuid.UUID
	room   *Room
	joined time.Time
}

// Room seats up to capacity peers and relays datagrams between them. Once
// full it stops accepting joins; later joiners with the same name get a
// fresh room.
type Room struct {
	name     string
	capacity int
	members  []*member
	created  time.Time
	relayed  int
}

func newRoom(name string, capacity int, now time.Time) *Room {
	return &Room{name: name, capacity: capacity, created: now}
}

func (r *Room) full() bool {
	return len(r.members) >= r.capacity
}

func (r *Room) find(id string) *member {
	for _, m := range r.members {
		if m.id.String() == id {
			return m
		}
	}
	return nil
}

func (r *Room) remove(m *member) {
	for i, other := range r.members {
		if other == m {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// RoomInfo is a snapshot of a room for logging and tests.
type RoomInfo struct {
	Name    string
	Peers   int
	Relayed int
	Age     time.Duration
}
