// Package rng is the deterministic random chain used by the simulation.
//
// The generator is rebuilt from a single uint64 on every call and its first
// output becomes the next seed. Rolling back therefore only has to restore
// the integer; there is no hidden generator state.
package rng

import (
	"encoding/binary"
	"math/rand/v2"
)

// Next returns the value derived from seed and the seed to use next time.
// The two are equal: the chain re-seeds from its own output.
func Next(seed uint64) (value, next uint64) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	value = rand.NewChaCha8(key).Uint64()
	return value, value
}

// Seed is a chain position stored inside replicated state.
type Seed uint64

// Advance moves the chain one step and returns the produced value.
func (s *Seed) Advance() uint64 {
	v, next := Next(uint64(*s))
	*s = Seed(next)
	return v
}

// MatchSeed combines every peer's 128-bit id into the 64-bit match seed.
// XOR is commutative, so every peer arrives at the same value regardless of
// the order peers were discovered in.
func MatchSeed(ids ...[16]byte) uint64 {
	hi, lo := ^uint64(0), ^uint64(0)
	for _, id := range ids {
		hi ^= binary.BigEndian.Uint64(id[:8])
		lo ^= binary.BigEndian.Uint64(id[8:])
	}
	// low 64 bits of out xored with low 64 bits of out>>8
	return lo ^ (lo>>8 | hi<<56)
}

// Offsets from the match seed for the derived chains.
const (
	SpawnOffset = 0
	SoundOffset = 1
)

// SpawnSeed is the spawn chain's starting seed.
func SpawnSeed(match uint64) Seed {
	return Seed(match + SpawnOffset)
}

// SoundSeed is the starting seed of the sound sub-key chain for a player handle.
func SoundSeed(match uint64, handle int) Seed {
	return Seed(match + SoundOffset + uint64(handle))
}
