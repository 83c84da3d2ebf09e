package rollback

import (
	"bytes"
	"log"
	"slices"

	"github.com/automoto/gridduel/shared/rng"
	"github.com/google/uuid"
)

// Match is an agreed set of players. Every peer derives the same handles
// and seed from the ids alone.
type Match struct {
	// Players is sorted by id; a player's handle is its index.
	Players     []uuid.UUID
	LocalHandle int
	Seed        uint64
}

// Matchmaker waits on a PeerSession until enough peers are present.
// It only consumes peer events, so datagrams sent by peers that start
// their session first stay queued for the session.
type Matchmaker struct {
	peers   PeerSession
	players int
	present map[uuid.UUID]struct{}
}

func NewMatchmaker(peers PeerSession, players int) *Matchmaker {
	return &Matchmaker{
		peers:   peers,
		players: players,
		present: make(map[uuid.UUID]struct{}),
	}
}

// Waiting returns the number of remote peers currently present.
func (m *Matchmaker) Waiting() int {
	return len(m.present)
}

// Poll processes peer events and returns the match once the local id is
// known and enough peers have joined.
func (m *Matchmaker) Poll() (Match, bool) {
	for _, ev := range m.peers.PollPeers() {
		switch ev.State {
		case PeerConnected:
			m.present[ev.ID] = struct{}{}
		case PeerDisconnected:
			delete(m.present, ev.ID)
		}
	}

	local, ok := m.peers.LocalID()
	if !ok || len(m.present)+1 < m.players {
		return Match{}, false
	}

	ids := []uuid.UUID{local}
	for id := range m.present {
		if id != local {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	if len(ids) > m.players {
		log.Printf("[matchmaker] %d peers present, using the lowest %d ids", len(ids), m.players)
		ids = ids[:m.players]
	}

	handle := slices.Index(ids, local)
	if handle < 0 {
		return Match{}, false
	}
	return Match{
		Players:     ids,
		LocalHandle: handle,
		Seed:        matchSeed(ids),
	}, true
}

func matchSeed(ids []uuid.UUID) uint64 {
	raw := make([][16]byte, len(ids))
	for i, id := range ids {
		raw[i] = id
	}
	return rng.MatchSeed(raw...)
}
