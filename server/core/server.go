package core

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/gridduel/shared/messages"
	"github.com/automoto/gridduel/shared/netconfig"
	"github.com/automoto/gridduel/shared/protocol"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

// Server seats clients in rooms and relays session datagrams between room
// members. It never inspects the payloads.
type Server struct {
	name     string
	version  string
	capacity int
	maxPeers int
	now      func() time.Time

	loop      *Housekeeper
	transport *transports.WsServerTransport

	mu      sync.RWMutex
	open    map[string]*Room
	rooms   map[*Room]struct{}
	members map[conn]*member
	dropped int
}

type outgoing struct {
	to  conn
	msg any
}

// NewServer creates a relay. An empty version accepts any client.
func NewServer(name, version string, maxPeers int) *Server {
	s := &Server{
		name:     name,
		version:  version,
		capacity: netconfig.RoomCapacity,
		maxPeers: maxPeers,
		now:      time.Now,
		open:     make(map[string]*Room),
		rooms:    make(map[*Room]struct{}),
		members:  make(map[conn]*member),
	}
	s.loop = NewHousekeeper(s, time.Minute)
	return s
}

// Start begins serving on the given port. It blocks until the transport
// stops.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop halts housekeeping.
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[relay] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[relay] client %s disconnected with error: %v", client.Id(), err)
		}
		s.leave(client)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRoom) {
		s.join(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.Relay) {
		s.relay(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[relay] client error: %v", err)
	})
}

func (s *Server) join(c conn, msg messages.JoinRoom) {
	out, err := s.seat(c, msg)
	if err != nil {
		log.Printf("[relay] rejected %s: %v", c.Id(), err)
		out = []outgoing{{to: c, msg: messages.JoinRejected{Reason: err.Error()}}}
	}
	s.flush(out)
}

func (s *Server) seat(c conn, msg messages.JoinRoom) ([]outgoing, error) {
	if err := protocol.CheckVersion(s.version, msg.Version); err != nil {
		return nil, err
	}
	name, err := protocol.NormalizeRoom(msg.Room)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[c]; ok {
		return nil, fmt.Errorf("already in a room")
	}
	if s.maxPeers > 0 && len(s.members) >= s.maxPeers {
		return nil, fmt.Errorf("server full")
	}

	room := s.open[name]
	if room == nil {
		room = newRoom(name, s.capacity, s.now())
		s.open[name] = room
		s.rooms[room] = struct{}{}
	}
	m := &member{conn: c, id: uuid.New(), room: room, joined: s.now()}

	out := []outgoing{{to: c, msg: messages.RoomJoined{PeerID: m.id.String(), Room: name, Capacity: room.capacity}}}
	for _, other := range room.members {
		out = append(out,
			outgoing{to: other.conn, msg: messages.PeerJoined{PeerID: m.id.String()}},
			outgoing{to: c, msg: messages.PeerJoined{PeerID: other.id.String()}},
		)
	}
	room.members = append(room.members, m)
	s.members[c] = m
	if room.full() {
		delete(s.open, name)
	}

	log.Printf("[relay] %s joined room %q as %s (%d/%d)", c.Id(), name, m.id, len(room.members), room.capacity)
	return out, nil
}

func (s *Server) leave(c conn) {
	s.mu.Lock()
	m, ok := s.members[c]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.members, c)
	room := m.room
	room.remove(m)

	var out []outgoing
	for _, other := range room.members {
		out = append(out, outgoing{to: other.conn, msg: messages.PeerLeft{PeerID: m.id.String()}})
	}
	if len(room.members) == 0 {
		delete(s.rooms, room)
		if s.open[room.name] == room {
			delete(s.open, room.name)
		}
	}
	s.mu.Unlock()

	log.Printf("[relay] %s left room %q", m.id, room.name)
	s.flush(out)
}

func (s *Server) relay(c conn, msg messages.Relay) {
	s.mu.Lock()
	from, ok := s.members[c]
	var to *member
	if ok {
		to = from.room.find(msg.To)
	}
	if to == nil || len(msg.Payload) > netconfig.MaxRelayPayload {
		s.dropped++
		s.mu.Unlock()
		return
	}
	from.room.relayed++
	s.mu.Unlock()

	s.flush([]outgoing{{to: to.conn, msg: messages.Relay{
		From:    from.id.String(),
		To:      msg.To,
		Payload: msg.Payload,
	}}})
}

func (s *Server) flush(out []outgoing) {
	for _, o := range out {
		if err := o.to.SendMessage(o.msg); err != nil {
			log.Printf("[relay] send %T to %s: %v", o.msg, o.to.Id(), err)
		}
	}
}

// PlayerCount returns the number of seated peers.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Rooms returns a snapshot of every active room.
func (s *Server) Rooms() []RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	infos := make([]RoomInfo, 0, len(s.rooms))
	for room := range s.rooms {
		infos = append(infos, RoomInfo{
			Name:    room.name,
			Peers:   len(room.members),
			Relayed: room.relayed,
			Age:     now.Sub(room.created),
		})
	}
	return infos
}

// Dropped returns how many datagrams could not be routed.
func (s *Server) Dropped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}
