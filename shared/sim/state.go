// Package sim is the deterministic game simulation. Everything that must be
// identical on every peer lives in State, a plain value with no pointers,
// slices or maps: a snapshot is a copy and a checksum is a hash of its bytes.
package sim

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/rng"
)

// NumPlayers is the fixed match size.
const NumPlayers = 2

// FPS is the fixed simulation rate. Every timer counts frames at this rate.
const FPS = 60

const (
	MoveSpeed     = float32(0.13)
	BulletSpeed   = float32(0.35)
	PlayerRadius  = float32(0.5)
	BulletRadius  = float32(0.025)
	BodyHalfWidth = float32(0.45)

	// PositionLimit keeps player centres on the outermost cell centres.
	PositionLimit = gridmap.HalfExtent - 0.5

	DeathMarkFrames = FPS / 2
	RoundEndFrames  = FPS

	MaxBullets = 128
	MaxSounds  = 32
)

// hitDistanceSquared is (PlayerRadius + BulletRadius)^2.
var hitDistanceSquared = float32((PlayerRadius + BulletRadius) * (PlayerRadius + BulletRadius))

// Round is the replicated round lifecycle state.
type Round uint8

const (
	PreRound Round = iota
	InRound
	RoundEnd
)

func (r Round) String() string {
	switch r {
	case PreRound:
		return "pre-round"
	case InRound:
		return "in-round"
	case RoundEnd:
		return "round-end"
	default:
		return fmt.Sprintf("round(%d)", uint8(r))
	}
}

type Player struct {
	Alive bool
	Pos   gamemath.Vec2
	// Dir is the last nonzero movement direction. Bullets fly along it and
	// the renderer uses it for facing.
	Dir         gamemath.Vec2
	BulletReady bool
	Marked      bool
	DeathTimer  uint16
}

type Bullet struct {
	Alive bool
	Owner uint8
	Pos   gamemath.Vec2
	Dir   gamemath.Vec2
}

// SoundTrigger records that a clip should have started on frame Start.
// SubKey separates overlapping instances of the same clip.
type SoundTrigger struct {
	Active bool
	Clip   Clip
	Owner  uint8
	Start  uint32
	SubKey uint64
	Pos    gamemath.Vec2
}

// Key identifies a trigger across rollbacks.
func (t SoundTrigger) Key() SoundKey {
	return SoundKey{Clip: t.Clip, SubKey: t.SubKey}
}

type SoundKey struct {
	Clip   Clip
	SubKey uint64
}

// State is the complete replicated simulation state.
type State struct {
	Round         Round
	RoundEndTimer uint16
	// Frame counts in-round steps and wraps. Sound triggers are stamped with it.
	Frame uint32

	MatchSeed  uint64
	SpawnSeed  rng.Seed
	SoundSeeds [NumPlayers]rng.Seed

	Scores [NumPlayers]uint32
	Map    gridmap.Map

	Players [NumPlayers]Player
	Bullets [MaxBullets]Bullet
	Sounds  [MaxSounds]SoundTrigger
}

// NewState returns the state a match starts from. Every peer derives the
// same state from the same match seed.
func NewState(matchSeed uint64) State {
	st := State{
		Round:     PreRound,
		MatchSeed: matchSeed,
		SpawnSeed: rng.SpawnSeed(matchSeed),
	}
	for h := range st.SoundSeeds {
		st.SoundSeeds[h] = rng.SoundSeed(matchSeed, h)
	}
	return st
}

// Checksum hashes the full state. Peers compare it to detect desyncs.
func (st *State) Checksum() uint64 {
	h := fnv.New64a()
	if err := binary.Write(h, binary.LittleEndian, st); err != nil {
		// State only holds fixed-size fields; this is a programming error.
		panic(fmt.Sprintf("sim: checksum state: %v", err))
	}
	return h.Sum64()
}

// AlivePlayers returns the number of players currently spawned.
func (st *State) AlivePlayers() int {
	n := 0
	for _, p := range st.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// LiveBullets returns the number of bullets in flight.
func (st *State) LiveBullets() int {
	n := 0
	for _, b := range st.Bullets {
		if b.Alive {
			n++
		}
	}
	return n
}

// ActiveSounds appends the active triggers to buf.
func (st *State) ActiveSounds(buf []SoundTrigger) []SoundTrigger {
	for _, t := range st.Sounds {
		if t.Active {
			buf = append(buf, t)
		}
	}
	return buf
}
