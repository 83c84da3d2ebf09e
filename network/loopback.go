package network

import (
	"sync"

	"github.com/automoto/gridduel/rollback"
	"github.com/google/uuid"
)

// LoopbackHub connects in-process peers. Each datagram is delivered after
// a fixed number of Receive calls on the recipient, and every DropEvery-th
// datagram is lost, so runs are reproducible.
type LoopbackHub struct {
	mu        sync.Mutex
	peers     map[uuid.UUID]*LoopbackPeer
	order     []uuid.UUID
	delay     int
	dropEvery int
	sent      int
	dropped   int
}

type pendingDatagram struct {
	readyAt int
	dg      rollback.Datagram
}

// LoopbackPeer is one hub member. It implements rollback.PeerSession.
type LoopbackPeer struct {
	hub    *LoopbackHub
	id     uuid.UUID
	events []rollback.PeerEvent
	inbox  []pendingDatagram
	polls  int
	left   bool
}

// NewLoopbackHub creates a hub delaying datagrams by delay polls and
// dropping every dropEvery-th one (0 disables loss).
func NewLoopbackHub(delay, dropEvery int) *LoopbackHub {
	return &LoopbackHub{
		peers:     make(map[uuid.UUID]*LoopbackPeer),
		delay:     delay,
		dropEvery: dropEvery,
	}
}

// Join adds a peer and announces it to everyone already present.
func (h *LoopbackHub) Join(id uuid.UUID) *LoopbackPeer {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := &LoopbackPeer{hub: h, id: id}
	for _, other := range h.order {
		o := h.peers[other]
		o.events = append(o.events, rollback.PeerEvent{ID: id, State: rollback.PeerConnected})
		p.events = append(p.events, rollback.PeerEvent{ID: other, State: rollback.PeerConnected})
	}
	h.peers[id] = p
	h.order = append(h.order, id)
	return p
}

// Leave removes a peer and tells the others.
func (h *LoopbackHub) Leave(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.peers[id]
	if !ok {
		return
	}
	p.left = true
	delete(h.peers, id)
	for i, other := range h.order {
		if other == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	for _, other := range h.order {
		o := h.peers[other]
		o.events = append(o.events, rollback.PeerEvent{ID: id, State: rollback.PeerDisconnected})
	}
}

// Stats returns how many datagrams were sent and how many of those were
// dropped.
func (h *LoopbackHub) Stats() (sent, dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent, h.dropped
}

func (p *LoopbackPeer) LocalID() (uuid.UUID, bool) {
	return p.id, true
}

func (p *LoopbackPeer) PollPeers() []rollback.PeerEvent {
	p.hub.mu.Lock()
	defer p.hub.mu.Unlock()
	evs := p.events
	p.events = nil
	return evs
}

func (p *LoopbackPeer) Send(to uuid.UUID, payload []byte) {
	h := p.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	if p.left {
		return
	}
	dst, ok := h.peers[to]
	if !ok {
		return
	}
	h.sent++
	if h.dropEvery > 0 && h.sent%h.dropEvery == 0 {
		h.dropped++
		return
	}
	buf := append([]byte(nil), payload...)
	dst.inbox = append(dst.inbox, pendingDatagram{
		readyAt: dst.polls + h.delay,
		dg:      rollback.Datagram{From: p.id, Payload: buf},
	})
}

func (p *LoopbackPeer) Receive() []rollback.Datagram {
	p.hub.mu.Lock()
	defer p.hub.mu.Unlock()

	p.polls++
	var out []rollback.Datagram
	kept := p.inbox[:0]
	for _, pd := range p.inbox {
		if pd.readyAt <= p.polls {
			out = append(out, pd.dg)
		} else {
			kept = append(kept, pd)
		}
	}
	p.inbox = kept
	return out
}
