package rollback

import "github.com/google/uuid"

// PeerState is the connection state reported by a PeerSession.
type PeerState int

const (
	PeerConnected PeerState = iota
	PeerDisconnected
)

func (s PeerState) String() string {
	if s == PeerConnected {
		return "connected"
	}
	return "disconnected"
}

// PeerEvent reports a peer joining or leaving the channel.
type PeerEvent struct {
	ID    uuid.UUID
	State PeerState
}

// Datagram is an unreliable, unordered message from a peer.
type Datagram struct {
	From    uuid.UUID
	Payload []byte
}

// PeerSession is the messaging channel the sessions run over. Delivery is
// best effort: datagrams may be lost, duplicated or reordered.
type PeerSession interface {
	// LocalID returns the id assigned to this peer. ok is false until the
	// signalling side has assigned one.
	LocalID() (id uuid.UUID, ok bool)
	// PollPeers returns peer changes since the last call.
	PollPeers() []PeerEvent
	Send(to uuid.UUID, payload []byte)
	// Receive returns the datagrams that arrived since the last call.
	Receive() []Datagram
}
