package rollback

import (
	"fmt"

	"github.com/google/uuid"
)

type EventKind int

const (
	EventSynchronized EventKind = iota
	// EventInterrupted is raised when a peer has been silent for
	// DisconnectNotifyStart.
	EventInterrupted
	EventResumed
	EventDisconnected
	// EventStalled is raised once when the session starts waiting for
	// remote input.
	EventStalled
	// EventTimeSync recommends skipping frames to let the remote catch up.
	EventTimeSync
	EventDesync
)

var eventNames = map[EventKind]string{
	EventSynchronized: "synchronized",
	EventInterrupted:  "interrupted",
	EventResumed:      "resumed",
	EventDisconnected: "disconnected",
	EventStalled:      "stalled",
	EventTimeSync:     "time sync",
	EventDesync:       "desync",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a session occurrence surfaced to the caller for display.
type Event struct {
	Kind   EventKind
	Handle int
	Peer   uuid.UUID
	Frame  Frame

	// EventInterrupted: ticks left before the peer is dropped.
	TicksUntilDisconnect int
	// EventTimeSync: recommended frames to skip.
	FramesAhead int
	// EventDesync
	LocalChecksum  uint64
	RemoteChecksum uint64
}

func (e Event) String() string {
	switch e.Kind {
	case EventInterrupted:
		return fmt.Sprintf("player %d interrupted, dropping in %d ticks", e.Handle, e.TicksUntilDisconnect)
	case EventTimeSync:
		return fmt.Sprintf("%d frames ahead of player %d", e.FramesAhead, e.Handle)
	case EventDesync:
		return fmt.Sprintf("desync with player %d at frame %d: %#x != %#x",
			e.Handle, e.Frame, e.LocalChecksum, e.RemoteChecksum)
	case EventSynchronized, EventStalled:
		return fmt.Sprintf("%v at frame %d", e.Kind, e.Frame)
	default:
		return fmt.Sprintf("player %d %v", e.Handle, e.Kind)
	}
}
