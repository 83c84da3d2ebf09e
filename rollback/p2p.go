package rollback

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/google/uuid"
)

const (
	syncRoundtrips = 3
	syncRetryTicks = 10

	timeSyncWindow     = 40
	timeSyncInterval   = 60
	minTimeSyncFrames  = 2
	checksumRetainSpan = 16
)

type sessionState int

const (
	stateSynchronizing sessionState = iota
	stateRunning
)

// remotePeer is the session's view of one remote player.
type remotePeer struct {
	id     uuid.UUID
	handle int
	queue  *inputQueue

	synced     bool
	syncNonce  uint32
	syncCount  int
	lastSyncAt uint32

	// ack is the newest of our inputs the peer has confirmed.
	ack          Frame
	remoteFrame  Frame
	lastRecvTick uint32
	interrupted  bool

	lastPing uint32
	rtt      uint32

	localAdvantage  int32
	remoteAdvantage int32
	advLocal        [timeSyncWindow]int32
	advRemote       [timeSyncWindow]int32
	advSamples      int

	remoteSums   map[Frame]uint64
	lastSumFrame Frame

	bytesSent   int
	packetsSent int
}

// P2PSession runs the simulation over a PeerSession with input delay,
// prediction and rollback.
type P2PSession struct {
	cfg   Config
	peers PeerSession
	game  *sim.Sim
	obs   sim.Observer

	localHandle int
	players     []uuid.UUID

	state     sessionState
	world     sim.State
	snapshots *snapshotRing
	local     *inputQueue
	remotes   []*remotePeer
	byID      map[uuid.UUID]*remotePeer

	currentFrame   Frame
	firstIncorrect Frame
	stalled        bool
	tick           uint32
	events         []Event

	localSums    map[Frame]uint64
	nextSumFrame Frame
	lastSumFrame Frame
	lastSum      uint64

	framesAhead  int
	lastTimeSync uint32

	rollbacks        int
	rolledBackFrames int
}

// NewP2PSession creates a session for a match found by the Matchmaker.
// obs receives the simulation's events, including those of replayed frames.
func NewP2PSession(cfg Config, peers PeerSession, match Match, game *sim.Sim, obs sim.Observer) (*P2PSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rollback config: %w", err)
	}
	if len(match.Players) != cfg.Players {
		return nil, fmt.Errorf("match has %d players, want %d", len(match.Players), cfg.Players)
	}
	if match.LocalHandle < 0 || match.LocalHandle >= cfg.Players {
		return nil, fmt.Errorf("%w: local handle %d", ErrInvalidHandle, match.LocalHandle)
	}
	if obs == nil {
		obs = sim.NopObserver{}
	}

	s := &P2PSession{
		cfg:            cfg,
		peers:          peers,
		game:           game,
		obs:            obs,
		localHandle:    match.LocalHandle,
		players:        append([]uuid.UUID(nil), match.Players...),
		world:          sim.NewState(match.Seed),
		snapshots:      newSnapshotRing(cfg.MaxPrediction + 2),
		local:          newInputQueue(),
		byID:           make(map[uuid.UUID]*remotePeer),
		firstIncorrect: NullFrame,
		localSums:      make(map[Frame]uint64),
		nextSumFrame:   Frame(cfg.CheckDistance),
		lastSumFrame:   NullFrame,
	}
	for f := 0; f < cfg.InputDelay; f++ {
		s.local.add(Frame(f), input.Blank)
	}
	for handle, id := range s.players {
		if handle == s.localHandle {
			continue
		}
		p := &remotePeer{
			id:           id,
			handle:       handle,
			queue:        newInputQueue(),
			ack:          NullFrame,
			remoteFrame:  NullFrame,
			remoteSums:   make(map[Frame]uint64),
			lastSumFrame: NullFrame,
		}
		s.remotes = append(s.remotes, p)
		s.byID[id] = p
	}
	return s, nil
}

// AdvanceFrame polls the network, applies any pending rollback and
// simulates one frame with the local input. It returns ErrNotSynchronized
// during the handshake and ErrPredictionThreshold when the remote is too far
// behind; both mean no frame was simulated. Errors for which IsFatal is
// true end the session.
func (s *P2PSession) AdvanceFrame(local input.Bits) error {
	s.poll()
	if s.state != stateRunning {
		return ErrNotSynchronized
	}
	if err := s.rollbackIfNeeded(); err != nil {
		return err
	}
	s.updateChecksums()

	if s.currentFrame-s.confirmedFrame() > Frame(s.cfg.MaxPrediction) {
		s.sendInputs()
		if !s.stalled {
			s.stalled = true
			s.push(Event{Kind: EventStalled, Handle: s.localHandle, Frame: s.currentFrame})
		}
		return ErrPredictionThreshold
	}
	s.stalled = false

	s.local.add(s.currentFrame+Frame(s.cfg.InputDelay), local)
	s.snapshots.save(s.currentFrame, &s.world)
	s.step(s.currentFrame)
	s.currentFrame++
	s.sendInputs()
	return nil
}

// Poll services the network and applies pending corrections without
// simulating a new frame. Use it on ticks skipped for time sync.
func (s *P2PSession) Poll() error {
	s.poll()
	if s.state != stateRunning {
		return nil
	}
	if err := s.rollbackIfNeeded(); err != nil {
		return err
	}
	s.updateChecksums()
	s.sendInputs()
	return nil
}

func (s *P2PSession) step(f Frame) {
	var inputs [sim.NumPlayers]input.Bits
	inputs[s.localHandle], _ = s.local.get(f)
	for _, p := range s.remotes {
		in, ok := p.queue.get(f)
		if !ok {
			p.queue.recordPrediction(f, in)
		}
		inputs[p.handle] = in
	}
	s.game.Step(&s.world, inputs, s.obs)
}

func (s *P2PSession) rollbackIfNeeded() error {
	target := s.firstIncorrect
	if target == NullFrame {
		return nil
	}
	s.firstIncorrect = NullFrame
	if target >= s.currentFrame {
		return nil
	}
	st, err := s.snapshots.load(target)
	if err != nil {
		return err
	}
	s.world = *st
	end := s.currentFrame
	for f := target; f < end; f++ {
		s.snapshots.save(f, &s.world)
		s.step(f)
	}
	s.rollbacks++
	s.rolledBackFrames += int(end - target)
	return nil
}

func (s *P2PSession) markIncorrect(f Frame) {
	if f >= s.currentFrame {
		return
	}
	if s.firstIncorrect == NullFrame || f < s.firstIncorrect {
		s.firstIncorrect = f
	}
}

// confirmedFrame returns the newest frame for which every player's input is
// known.
func (s *P2PSession) confirmedFrame() Frame {
	confirmed := s.local.last
	for _, p := range s.remotes {
		if p.queue.disconnected() {
			continue
		}
		if p.queue.last < confirmed {
			confirmed = p.queue.last
		}
	}
	return confirmed
}

func (s *P2PSession) poll() {
	s.tick++
	for _, ev := range s.peers.PollPeers() {
		if ev.State != PeerDisconnected {
			continue
		}
		if p := s.byID[ev.ID]; p != nil {
			s.disconnect(p, "left")
		}
	}
	for _, dg := range s.peers.Receive() {
		p := s.byID[dg.From]
		if p == nil || p.queue.disconnected() {
			continue
		}
		pkt, err := decodePacket(dg.Payload)
		if err != nil {
			log.Printf("[rollback] dropping datagram from player %d: %v", p.handle, err)
			continue
		}
		s.handlePacket(p, pkt)
	}

	if s.state == stateSynchronizing {
		s.synchronize()
		return
	}
	s.checkTimeouts()
	s.updateTimeSync()
}

func (s *P2PSession) handlePacket(p *remotePeer, pkt *packet) {
	p.lastRecvTick = s.tick
	if p.interrupted {
		p.interrupted = false
		s.push(Event{Kind: EventResumed, Handle: p.handle, Peer: p.id, Frame: s.currentFrame})
	}

	switch pkt.Kind {
	case kindSyncRequest:
		s.send(p, &packet{Kind: kindSyncReply, Nonce: pkt.Nonce})
	case kindSyncReply:
		if p.synced || pkt.Nonce != p.syncNonce {
			return
		}
		p.syncCount++
		if p.syncCount >= syncRoundtrips {
			p.synced = true
			return
		}
		p.syncNonce = newSyncNonce()
		s.sendSyncRequest(p)
	case kindInput:
		// inputs only flow once the peer has finished its handshake
		p.synced = true
		s.handleInput(p, pkt)
	}
}

func (s *P2PSession) handleInput(p *remotePeer, pkt *packet) {
	if pkt.Ack > p.ack {
		p.ack = pkt.Ack
	}
	if pkt.Frame > p.remoteFrame {
		p.remoteFrame = pkt.Frame
		p.remoteAdvantage = pkt.Advantage
	}
	if pkt.Ping > p.lastPing {
		p.lastPing = pkt.Ping
	}
	if pkt.Pong != 0 && pkt.Pong <= s.tick {
		p.rtt = s.tick - pkt.Pong
	}

	for i, b := range pkt.Inputs {
		f := pkt.Start + Frame(i)
		if f <= p.queue.last {
			continue
		}
		in := input.Bits(b)
		if !p.queue.add(f, in) {
			break
		}
		if p.queue.mispredicted(f, in) {
			s.markIncorrect(f)
		}
	}

	if pkt.SumFrame > p.lastSumFrame {
		p.lastSumFrame = pkt.SumFrame
		p.remoteSums[pkt.SumFrame] = pkt.Sum
		s.compareChecksum(p, pkt.SumFrame)
	}
}

func (s *P2PSession) synchronize() {
	done := true
	for _, p := range s.remotes {
		if p.synced || p.queue.disconnected() {
			continue
		}
		done = false
		if p.syncNonce == 0 {
			p.syncNonce = newSyncNonce()
		}
		if p.lastSyncAt == 0 || s.tick-p.lastSyncAt >= syncRetryTicks {
			s.sendSyncRequest(p)
		}
	}
	if !done {
		return
	}
	s.state = stateRunning
	for _, p := range s.remotes {
		p.lastRecvTick = s.tick
	}
	log.Printf("[rollback] synchronized as player %d of %d", s.localHandle, len(s.players))
	s.push(Event{Kind: EventSynchronized, Handle: s.localHandle, Frame: s.currentFrame})
}

// sendSyncRequest sends the outstanding nonce. Retries repeat it, so a
// reply slower than the retry interval still counts.
func (s *P2PSession) sendSyncRequest(p *remotePeer) {
	p.lastSyncAt = s.tick
	s.send(p, &packet{Kind: kindSyncRequest, Nonce: p.syncNonce})
}

// newSyncNonce never returns zero, which marks a peer with no request out.
func newSyncNonce() uint32 {
	for {
		if n := rand.Uint32(); n != 0 {
			return n
		}
	}
}

func (s *P2PSession) sendInputs() {
	for _, p := range s.remotes {
		if p.queue.disconnected() {
			continue
		}
		start, inputs := s.local.since(p.ack + 1)
		s.send(p, &packet{
			Kind:      kindInput,
			Start:     start,
			Inputs:    inputs,
			Ack:       p.queue.last,
			Frame:     s.currentFrame,
			Advantage: p.localAdvantage,
			Ping:      s.tick,
			Pong:      p.lastPing,
			SumFrame:  s.lastSumFrame,
			Sum:       s.lastSum,
		})
	}
}

func (s *P2PSession) send(p *remotePeer, pkt *packet) {
	b, err := encodePacket(pkt)
	if err != nil {
		log.Printf("[rollback] %v", err)
		return
	}
	s.peers.Send(p.id, b)
	p.bytesSent += len(b)
	p.packetsSent++
}

func (s *P2PSession) checkTimeouts() {
	notify := s.cfg.ticks(s.cfg.DisconnectNotifyStart)
	timeout := s.cfg.ticks(s.cfg.DisconnectTimeout)
	for _, p := range s.remotes {
		if p.queue.disconnected() {
			continue
		}
		silence := int(s.tick - p.lastRecvTick)
		if timeout > 0 && silence >= timeout {
			s.disconnect(p, "timed out")
			continue
		}
		if notify > 0 && !p.interrupted && silence >= notify {
			p.interrupted = true
			s.push(Event{
				Kind:                 EventInterrupted,
				Handle:               p.handle,
				Peer:                 p.id,
				Frame:                s.currentFrame,
				TicksUntilDisconnect: timeout - silence,
			})
		}
	}
}

// disconnect stops waiting for p. Its inputs from the first unconfirmed
// frame on become blank, which may require a rollback.
func (s *P2PSession) disconnect(p *remotePeer, reason string) {
	if p.queue.disconnected() {
		return
	}
	f := p.queue.disconnect()
	log.Printf("[rollback] player %d %s, blank input from frame %d", p.handle, reason, f)
	s.markIncorrect(f)
	s.push(Event{Kind: EventDisconnected, Handle: p.handle, Peer: p.id, Frame: f})
}

// updateTimeSync averages how far each side believes it runs ahead and
// recommends skipping half the difference.
func (s *P2PSession) updateTimeSync() {
	ahead := 0
	for _, p := range s.remotes {
		if p.queue.disconnected() || p.remoteFrame == NullFrame {
			continue
		}
		estimate := p.remoteFrame + Frame(p.rtt/2)
		p.localAdvantage = int32(s.currentFrame - estimate)
		i := p.advSamples % timeSyncWindow
		p.advLocal[i] = p.localAdvantage
		p.advRemote[i] = p.remoteAdvantage
		p.advSamples++

		n := min(p.advSamples, timeSyncWindow)
		var sumLocal, sumRemote int32
		for j := 0; j < n; j++ {
			sumLocal += p.advLocal[j]
			sumRemote += p.advRemote[j]
		}
		diff := float32(sumLocal-sumRemote) / float32(n)
		if wait := int(diff/2 + 0.5); wait > ahead {
			ahead = wait
		}
	}
	s.framesAhead = ahead
	if ahead >= minTimeSyncFrames && s.tick-s.lastTimeSync >= timeSyncInterval {
		s.lastTimeSync = s.tick
		s.push(Event{Kind: EventTimeSync, Handle: s.localHandle, Frame: s.currentFrame, FramesAhead: ahead})
	}
}

// updateChecksums hashes every checkpoint frame whose inputs are now all
// confirmed and compares it with what the peers reported.
func (s *P2PSession) updateChecksums() {
	if s.cfg.CheckDistance == 0 {
		return
	}
	limit := min(s.confirmedFrame()+1, s.currentFrame)
	for s.nextSumFrame <= limit {
		f := s.nextSumFrame
		s.nextSumFrame += Frame(s.cfg.CheckDistance)

		st := &s.world
		if f != s.currentFrame {
			var err error
			if st, err = s.snapshots.load(f); err != nil {
				log.Printf("[rollback] skipping checksum: %v", err)
				continue
			}
		}
		sum := st.Checksum()
		s.localSums[f] = sum
		s.lastSumFrame = f
		s.lastSum = sum
		for _, p := range s.remotes {
			s.compareChecksum(p, f)
		}
	}

	horizon := s.lastSumFrame - Frame(checksumRetainSpan*s.cfg.CheckDistance)
	for f := range s.localSums {
		if f < horizon {
			delete(s.localSums, f)
		}
	}
	for _, p := range s.remotes {
		for f := range p.remoteSums {
			if f < horizon {
				delete(p.remoteSums, f)
			}
		}
	}
}

func (s *P2PSession) compareChecksum(p *remotePeer, f Frame) {
	local, ok := s.localSums[f]
	if !ok {
		return
	}
	remote, ok := p.remoteSums[f]
	if !ok {
		return
	}
	delete(p.remoteSums, f)
	if local == remote {
		return
	}
	log.Printf("[rollback] desync with player %d at frame %d: %#x != %#x", p.handle, f, local, remote)
	s.push(Event{
		Kind:           EventDesync,
		Handle:         p.handle,
		Peer:           p.id,
		Frame:          f,
		LocalChecksum:  local,
		RemoteChecksum: remote,
	})
}

func (s *P2PSession) push(ev Event) {
	s.events = append(s.events, ev)
}

// Events returns and clears the events raised since the last call.
func (s *P2PSession) Events() []Event {
	evs := s.events
	s.events = nil
	return evs
}

// State is the current simulation state. Callers must not modify it.
func (s *P2PSession) State() *sim.State {
	return &s.world
}

func (s *P2PSession) CurrentFrame() Frame {
	return s.currentFrame
}

func (s *P2PSession) ConfirmedFrame() Frame {
	return min(s.confirmedFrame(), s.currentFrame-1)
}

func (s *P2PSession) LocalHandle() int {
	return s.localHandle
}

func (s *P2PSession) Players() []uuid.UUID {
	return s.players
}

func (s *P2PSession) Running() bool {
	return s.state == stateRunning
}

// FramesAhead is the number of frames the caller should skip, via Poll, to
// let slower peers catch up.
func (s *P2PSession) FramesAhead() int {
	return s.framesAhead
}

// Rollbacks returns how many rollbacks ran and how many frames they replayed.
func (s *P2PSession) Rollbacks() (count, frames int) {
	return s.rollbacks, s.rolledBackFrames
}

// NetworkStats describes the link to one remote player.
type NetworkStats struct {
	Ping time.Duration
	// SendQueueLen is the number of local inputs the peer has not acked.
	SendQueueLen       int
	LocalFramesBehind  int
	RemoteFramesBehind int
	BytesSent          int
	PacketsSent        int
	Disconnected       bool
}

func (s *P2PSession) NetworkStats(handle int) (NetworkStats, error) {
	for _, p := range s.remotes {
		if p.handle != handle {
			continue
		}
		tick := time.Second / time.Duration(s.cfg.FPS)
		return NetworkStats{
			Ping:               time.Duration(p.rtt) * tick,
			SendQueueLen:       int(s.local.last - p.ack),
			LocalFramesBehind:  -int(p.localAdvantage),
			RemoteFramesBehind: -int(p.remoteAdvantage),
			BytesSent:          p.bytesSent,
			PacketsSent:        p.packetsSent,
			Disconnected:       p.queue.disconnected(),
		}, nil
	}
	return NetworkStats{}, fmt.Errorf("%w: %d", ErrInvalidHandle, handle)
}
