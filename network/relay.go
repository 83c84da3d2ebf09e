package network

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/messages"
	"github.com/automoto/gridduel/shared/protocol"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateInRoom
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateInRoom:
		return "in room"
	default:
		return "error"
	}
}

const (
	peerEventBuffer = 16
	datagramBuffer  = 256
	writeTimeout    = 250 * time.Millisecond
)

// RelayClient connects to a relay server and exposes the room as a
// rollback.PeerSession. All shared fields are protected by mu (router
// callbacks run on necs goroutines).
type RelayClient struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	localID   uuid.UUID
	hasID     bool
	room      string
	capacity  int
	conn      *websocket.Conn

	peerCh chan rollback.PeerEvent
	dataCh chan rollback.Datagram

	dropped int
}

func NewRelayClient() *RelayClient {
	return &RelayClient{
		state:  StateDisconnected,
		peerCh: make(chan rollback.PeerEvent, peerEventBuffer),
		dataCh: make(chan rollback.Datagram, datagramBuffer),
	}
}

// Connect dials the relay in a background goroutine and asks for a seat in
// room once connected.
func (c *RelayClient) Connect(address, room string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.hasID = false
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Printf("[relay] connected to %s", address)
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRoom{Version: protocol.Version, Room: room}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.RoomJoined) {
		id, err := uuid.Parse(msg.PeerID)
		if err != nil {
			c.setError(fmt.Errorf("relay assigned invalid id %q: %w", msg.PeerID, err))
			return
		}
		log.Printf("[relay] joined room %q as %s (capacity %d)", msg.Room, id, msg.Capacity)
		c.mu.Lock()
		c.localID = id
		c.hasID = true
		c.room = msg.Room
		c.capacity = msg.Capacity
		c.state = StateInRoom
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[relay] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, msg messages.PeerJoined) {
		c.pushPeer(msg.PeerID, rollback.PeerConnected)
	})

	router.On(func(_ *router.NetworkClient, msg messages.PeerLeft) {
		c.pushPeer(msg.PeerID, rollback.PeerDisconnected)
	})

	router.On(func(_ *router.NetworkClient, msg messages.Relay) {
		from, err := uuid.Parse(msg.From)
		if err != nil {
			return
		}
		select {
		case c.dataCh <- rollback.Datagram{From: from, Payload: msg.Payload}:
		default:
			c.mu.Lock()
			c.dropped++
			c.mu.Unlock()
		}
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[relay] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[relay] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *RelayClient) pushPeer(rawID string, state rollback.PeerState) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		log.Printf("[relay] ignoring peer with invalid id %q", rawID)
		return
	}
	log.Printf("[relay] peer %s %v", id, state)
	// peer events must not be lost; block briefly rather than drop
	select {
	case c.peerCh <- rollback.PeerEvent{ID: id, State: state}:
	case <-time.After(time.Second):
		log.Printf("[relay] peer event queue full, dropped %s %v", id, state)
	}
}

func (c *RelayClient) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.hasID = false
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
	drainChan(c.peerCh)
	drainChan(c.dataCh)
}

func (c *RelayClient) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *RelayClient) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *RelayClient) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

// Dropped returns how many datagrams were discarded because the receive
// buffer was full.
func (c *RelayClient) Dropped() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dropped
}

func (c *RelayClient) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageBinary, payload)
}

func (c *RelayClient) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// LocalID implements rollback.PeerSession.
func (c *RelayClient) LocalID() (uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.localID, c.hasID
}

// PollPeers implements rollback.PeerSession.
func (c *RelayClient) PollPeers() []rollback.PeerEvent {
	return drainChan(c.peerCh)
}

// Send implements rollback.PeerSession. Datagrams are best effort, so
// failures are logged and dropped.
func (c *RelayClient) Send(to uuid.UUID, payload []byte) {
	err := c.SendMessage(messages.Relay{To: to.String(), Payload: payload})
	if err != nil {
		log.Printf("[relay] send to %s: %v", to, err)
	}
}

// Receive implements rollback.PeerSession.
func (c *RelayClient) Receive() []rollback.Datagram {
	return drainChan(c.dataCh)
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
