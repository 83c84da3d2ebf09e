package sim

import (
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/input"
)

// Explosion is emitted when a bullet marks a player. It is not replicated;
// replays emit it again with the same Frame and Handle.
type Explosion struct {
	Frame  uint32
	Handle int
	Pos    gamemath.Vec2
}

// Observer receives the non-replicated side effects of a step. Step calls it
// on every execution of a frame, including rollback replays.
type Observer interface {
	Explosion(ev Explosion)
	SyncSounds(frame uint32, triggers []SoundTrigger)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Explosion(Explosion) {}

func (NopObserver) SyncSounds(uint32, []SoundTrigger) {}

// Sim holds the immutable rules of a match. The arena is copied into State
// at the start of every round.
type Sim struct {
	arena   gridmap.Map
	scratch []SoundTrigger
}

// New returns a simulation that plays on arena.
func New(arena gridmap.Map) *Sim {
	return &Sim{
		arena:   arena,
		scratch: make([]SoundTrigger, 0, MaxSounds),
	}
}

// NewDefault plays on the generated lattice arena.
func NewDefault() *Sim {
	return New(gridmap.Generate())
}

// Arena returns the layout each round starts from.
func (s *Sim) Arena() gridmap.Map {
	return s.arena
}

// Step advances st by one frame using one input per player handle.
// The order of the in-round systems is fixed and must not change: the sound
// seeds advance in call order.
func (s *Sim) Step(st *State, inputs [NumPlayers]input.Bits, obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}

	switch st.Round {
	case PreRound:
		s.startRound(st)
	case InRound:
		movePlayers(st, inputs)
		reloadBullets(st, inputs)
		fireBullets(st, inputs)
		moveBullets(st)
		killPlayers(st, obs)
		roundOver := processDeaths(st)

		st.removeFinishedSounds()
		s.scratch = st.ActiveSounds(s.scratch[:0])
		obs.SyncSounds(st.Frame, s.scratch)
		st.Frame++

		if roundOver {
			endRound(st)
		}
	case RoundEnd:
		if st.RoundEndTimer > 0 {
			st.RoundEndTimer--
		}
		if st.RoundEndTimer == 0 {
			st.Round = PreRound
		}
	}
}
