package rollback_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/automoto/gridduel/network"
	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/google/uuid"
)

var (
	idA = uuid.MustParse("10000000-0000-0000-0000-000000000000")
	idB = uuid.MustParse("20000000-0000-0000-0000-000000000000")
)

// scripted changes each player's input every seven frames so that
// predictions regularly miss.
func scripted(handle int, f rollback.Frame) input.Bits {
	pattern := [...]input.Bits{
		input.Blank,
		input.Up | input.Fire,
		input.Left,
		input.Right | input.Down,
		input.Fire,
		input.Down | input.Left | input.Fire,
	}
	return pattern[(int(f)/7+handle*3)%len(pattern)]
}

type harness struct {
	t        *testing.T
	hub      *network.LoopbackHub
	sessions []*rollback.P2PSession
	events   [][]rollback.Event
}

func newHarness(t *testing.T, hub *network.LoopbackHub, cfg rollback.Config, games ...*sim.Sim) *harness {
	t.Helper()
	ids := []uuid.UUID{idA, idB}
	peers := make([]*network.LoopbackPeer, len(ids))
	for i, id := range ids {
		peers[i] = hub.Join(id)
	}

	h := &harness{t: t, hub: hub, events: make([][]rollback.Event, len(ids))}
	for i, p := range peers {
		match, ok := rollback.NewMatchmaker(p, cfg.Players).Poll()
		if !ok {
			t.Fatalf("peer %d found no match", i)
		}
		game := sim.NewDefault()
		if i < len(games) {
			game = games[i]
		}
		s, err := rollback.NewP2PSession(cfg, p, match, game, nil)
		if err != nil {
			t.Fatalf("NewP2PSession: %v", err)
		}
		h.sessions = append(h.sessions, s)
	}
	return h
}

func (h *harness) collect() {
	for i, s := range h.sessions {
		h.events[i] = append(h.events[i], s.Events()...)
	}
}

func (h *harness) count(i int, kind rollback.EventKind) int {
	n := 0
	for _, ev := range h.events[i] {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (h *harness) advanceFrame(i int) error {
	s := h.sessions[i]
	err := s.AdvanceFrame(scripted(s.LocalHandle(), s.CurrentFrame()))
	if err != nil && !errors.Is(err, rollback.ErrNotSynchronized) && !errors.Is(err, rollback.ErrPredictionThreshold) {
		h.t.Fatalf("player %d at frame %d: %v", s.LocalHandle(), s.CurrentFrame(), err)
	}
	return err
}

// advance steps the given sessions until each reaches frame n. Sessions
// already at n only poll.
func (h *harness) advance(n rollback.Frame, which ...int) {
	h.t.Helper()
	for tick := 0; tick < int(n)*4+600; tick++ {
		done := true
		for _, i := range which {
			s := h.sessions[i]
			if s.CurrentFrame() >= n {
				if err := s.Poll(); err != nil {
					h.t.Fatalf("poll: %v", err)
				}
				continue
			}
			done = false
			h.advanceFrame(i)
		}
		h.collect()
		if done {
			return
		}
	}
	h.t.Fatalf("sessions did not reach frame %d", n)
}

// settle polls every session until all inputs before frame n are confirmed.
func (h *harness) settle(n rollback.Frame) {
	h.t.Helper()
	for tick := 0; tick < 600; tick++ {
		done := true
		for _, s := range h.sessions {
			if err := s.Poll(); err != nil {
				h.t.Fatalf("poll: %v", err)
			}
			if s.ConfirmedFrame() < n-1 {
				done = false
			}
		}
		h.collect()
		if done {
			return
		}
	}
	h.t.Fatalf("inputs before frame %d never confirmed", n)
}

func (h *harness) synchronize() {
	h.t.Helper()
	for tick := 0; tick < 600; tick++ {
		if h.sessions[0].Running() && h.sessions[1].Running() {
			return
		}
		h.advanceFrame(0)
		h.advanceFrame(1)
		h.collect()
	}
	h.t.Fatal("sessions never synchronized")
}

func TestSessionsAgreeOverLossyLink(t *testing.T) {
	hub := network.NewLoopbackHub(3, 5)
	h := newHarness(t, hub, rollback.DefaultConfig())

	const frames = 600
	h.advance(frames, 0, 1)
	h.settle(frames)

	a, b := h.sessions[0].State(), h.sessions[1].State()
	if a.Checksum() != b.Checksum() {
		t.Fatalf("states differ at frame %d: %#x != %#x", frames, a.Checksum(), b.Checksum())
	}
	if a.Frame == 0 {
		t.Error("no round was played")
	}

	rollbacks := 0
	for i, s := range h.sessions {
		if h.count(i, rollback.EventSynchronized) != 1 {
			t.Errorf("player %d: %d synchronized events, want 1", i, h.count(i, rollback.EventSynchronized))
		}
		if n := h.count(i, rollback.EventDesync); n != 0 {
			t.Errorf("player %d reported %d desyncs", i, n)
		}
		n, _ := s.Rollbacks()
		rollbacks += n
	}
	if rollbacks == 0 {
		t.Error("no rollbacks ran despite latency and changing inputs")
	}
	if _, dropped := hub.Stats(); dropped == 0 {
		t.Error("loopback dropped nothing")
	}
}

func TestHandshakeOverSlowLinks(t *testing.T) {
	// delays are in polls each way; from 6 on the round trip exceeds the
	// sync retry interval
	for _, delay := range []int{1, 6, 12, 20} {
		t.Run(fmt.Sprintf("delay %d", delay), func(t *testing.T) {
			h := newHarness(t, network.NewLoopbackHub(delay, 0), rollback.DefaultConfig())
			h.synchronize()
			for i := range h.sessions {
				if n := h.count(i, rollback.EventSynchronized); n != 1 {
					t.Errorf("player %d: %d synchronized events, want 1", i, n)
				}
			}
		})
	}
}

func TestSessionsAgreeOverSlowLink(t *testing.T) {
	h := newHarness(t, network.NewLoopbackHub(12, 0), rollback.DefaultConfig())

	const frames = 300
	h.advance(frames, 0, 1)
	h.settle(frames)

	a, b := h.sessions[0].State(), h.sessions[1].State()
	if a.Checksum() != b.Checksum() {
		t.Fatalf("states differ at frame %d: %#x != %#x", frames, a.Checksum(), b.Checksum())
	}
	for i := range h.sessions {
		if n := h.count(i, rollback.EventDisconnected); n != 0 {
			t.Errorf("player %d reported %d disconnects on a slow but live link", i, n)
		}
	}
}

func TestHandlesFollowPeerIDs(t *testing.T) {
	h := newHarness(t, network.NewLoopbackHub(1, 0), rollback.DefaultConfig())
	if h.sessions[0].LocalHandle() != 0 || h.sessions[1].LocalHandle() != 1 {
		t.Errorf("handles = %d, %d", h.sessions[0].LocalHandle(), h.sessions[1].LocalHandle())
	}
	if h.sessions[0].State().MatchSeed != h.sessions[1].State().MatchSeed {
		t.Error("sessions started from different seeds")
	}
}

func TestPredictionThreshold(t *testing.T) {
	cfg := rollback.DefaultConfig()
	h := newHarness(t, network.NewLoopbackHub(1, 0), cfg)
	h.synchronize()

	// only player 0 keeps running
	stalls := 0
	for tick := 0; tick < 40; tick++ {
		if errors.Is(h.advanceFrame(0), rollback.ErrPredictionThreshold) {
			stalls++
		}
		h.collect()
	}
	if stalls == 0 {
		t.Fatal("player 0 never hit the prediction threshold")
	}
	if n := h.count(0, rollback.EventStalled); n != 1 {
		t.Errorf("stalled events = %d, want 1 for one continuous stall", n)
	}
	s := h.sessions[0]
	if ahead := s.CurrentFrame() - s.ConfirmedFrame(); ahead > rollback.Frame(cfg.MaxPrediction)+1 {
		t.Errorf("simulated %d frames past the confirmed frame", ahead)
	}

	// the stall clears once player 1 catches up
	target := s.CurrentFrame() + 30
	h.advance(target, 0, 1)
	if s.CurrentFrame() < target {
		t.Errorf("player 0 stuck at frame %d", s.CurrentFrame())
	}
}

func TestPeerLeavingConfirmsBlankInput(t *testing.T) {
	h := newHarness(t, network.NewLoopbackHub(2, 0), rollback.DefaultConfig())
	h.advance(60, 0, 1)

	h.hub.Leave(idB)
	h.advance(200, 0)

	if n := h.count(0, rollback.EventDisconnected); n != 1 {
		t.Fatalf("disconnected events = %d, want 1", n)
	}
	for _, ev := range h.events[0] {
		if ev.Kind == rollback.EventDisconnected && ev.Handle != 1 {
			t.Errorf("disconnected handle = %d, want 1", ev.Handle)
		}
	}
	stats, err := h.sessions[0].NetworkStats(1)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Disconnected {
		t.Error("stats do not report the disconnect")
	}
}

func TestSilentPeerTimesOut(t *testing.T) {
	cfg := rollback.DefaultConfig()
	cfg.DisconnectNotifyStart = 100 * time.Millisecond
	cfg.DisconnectTimeout = 500 * time.Millisecond
	h := newHarness(t, network.NewLoopbackHub(1, 0), cfg)
	h.synchronize()

	// player 1 stops polling but never leaves the hub
	h.advance(h.sessions[0].CurrentFrame()+100, 0)

	interrupted, disconnected := -1, -1
	for i, ev := range h.events[0] {
		switch ev.Kind {
		case rollback.EventInterrupted:
			if interrupted < 0 {
				interrupted = i
			}
		case rollback.EventDisconnected:
			disconnected = i
		}
	}
	if interrupted < 0 || disconnected < 0 {
		t.Fatalf("events = %v; want interrupted then disconnected", h.events[0])
	}
	if interrupted > disconnected {
		t.Error("disconnect reported before the interruption")
	}
	if h.count(0, rollback.EventResumed) != 0 {
		t.Error("silent peer reported as resumed")
	}
}

func TestDivergentArenasRaiseDesync(t *testing.T) {
	other := gridmap.Generate()
	other.SetCell(20, 21, gridmap.Empty)

	h := newHarness(t, network.NewLoopbackHub(1, 0), rollback.DefaultConfig(), sim.NewDefault(), sim.New(other))
	h.advance(120, 0, 1)
	h.settle(120)

	if h.count(0, rollback.EventDesync)+h.count(1, rollback.EventDesync) == 0 {
		t.Error("different arenas produced no desync event")
	}
}

func TestNetworkStatsRejectsLocalHandle(t *testing.T) {
	h := newHarness(t, network.NewLoopbackHub(1, 0), rollback.DefaultConfig())
	if _, err := h.sessions[0].NetworkStats(0); !errors.Is(err, rollback.ErrInvalidHandle) {
		t.Errorf("stats for local handle: %v, want ErrInvalidHandle", err)
	}
	if _, err := h.sessions[0].NetworkStats(5); !errors.Is(err, rollback.ErrInvalidHandle) {
		t.Errorf("stats for handle 5: %v, want ErrInvalidHandle", err)
	}
}

func TestSyncTestSession(t *testing.T) {
	for _, distance := range []int{0, 1, 7} {
		cfg := rollback.DefaultConfig()
		cfg.CheckDistance = distance
		s, err := rollback.NewSyncTestSession(cfg, sim.NewDefault(), 42, nil)
		if err != nil {
			t.Fatal(err)
		}
		for f := rollback.Frame(0); f < 500; f++ {
			inputs := [sim.NumPlayers]input.Bits{scripted(0, f), scripted(1, f)}
			if err := s.AdvanceFrame(inputs); err != nil {
				t.Fatalf("check distance %d, frame %d: %v", distance, f, err)
			}
		}
		if s.CurrentFrame() != 500 {
			t.Errorf("current frame = %d, want 500", s.CurrentFrame())
		}
	}
}

func TestSyncTestMatchesPlainRun(t *testing.T) {
	s, err := rollback.NewSyncTestSession(rollback.DefaultConfig(), sim.NewDefault(), 42, nil)
	if err != nil {
		t.Fatal(err)
	}
	game := sim.NewDefault()
	plain := sim.NewState(42)
	for f := rollback.Frame(0); f < 300; f++ {
		inputs := [sim.NumPlayers]input.Bits{scripted(0, f), scripted(1, f)}
		if err := s.AdvanceFrame(inputs); err != nil {
			t.Fatal(err)
		}
		game.Step(&plain, inputs, nil)
	}
	if s.State().Checksum() != plain.Checksum() {
		t.Error("sync test session diverged from a plain run")
	}
}
