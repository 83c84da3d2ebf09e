package rollback

import (
	"fmt"

	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
)

// SyncTestSession runs locally and, every frame, rolls back CheckDistance
// frames and replays them, failing when the replay does not reproduce the
// checksums recorded the first time through.
type SyncTestSession struct {
	checkDistance int
	game          *sim.Sim
	obs           sim.Observer

	world     sim.State
	frame     Frame
	inputs    [][sim.NumPlayers]input.Bits
	sums      []uint64
	snapshots *snapshotRing
}

func NewSyncTestSession(cfg Config, game *sim.Sim, seed uint64, obs sim.Observer) (*SyncTestSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rollback config: %w", err)
	}
	if obs == nil {
		obs = sim.NopObserver{}
	}
	size := cfg.CheckDistance + 2
	return &SyncTestSession{
		checkDistance: cfg.CheckDistance,
		game:          game,
		obs:           obs,
		world:         sim.NewState(seed),
		inputs:        make([][sim.NumPlayers]input.Bits, size),
		sums:          make([]uint64, size),
		snapshots:     newSnapshotRing(size),
	}, nil
}

// AdvanceFrame simulates one frame with every player's input, then verifies
// the last CheckDistance frames by replaying them.
func (s *SyncTestSession) AdvanceFrame(inputs [sim.NumPlayers]input.Bits) error {
	i := int(s.frame) % len(s.inputs)
	s.inputs[i] = inputs
	s.sums[i] = s.world.Checksum()
	s.snapshots.save(s.frame, &s.world)
	s.game.Step(&s.world, inputs, s.obs)
	s.frame++

	if s.checkDistance == 0 || int(s.frame) < s.checkDistance {
		return nil
	}
	want := s.world.Checksum()
	target := s.frame - Frame(s.checkDistance)
	st, err := s.snapshots.load(target)
	if err != nil {
		return err
	}
	s.world = *st
	for f := target; f < s.frame; f++ {
		j := int(f) % len(s.inputs)
		if got := s.world.Checksum(); got != s.sums[j] {
			return fmt.Errorf("%w: frame %d replayed as %#x, first run %#x", ErrMismatchedChecksum, f, got, s.sums[j])
		}
		s.snapshots.save(f, &s.world)
		s.game.Step(&s.world, s.inputs[j], s.obs)
	}
	if got := s.world.Checksum(); got != want {
		return fmt.Errorf("%w: frame %d replayed as %#x, first run %#x", ErrMismatchedChecksum, s.frame, got, want)
	}
	return nil
}

// State is the current simulation state. Callers must not modify it.
func (s *SyncTestSession) State() *sim.State {
	return &s.world
}

func (s *SyncTestSession) CurrentFrame() Frame {
	return s.frame
}
