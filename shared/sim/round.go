package sim

import (
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
)

const (
	spawnAttempts = 64
	// spawnSpacing is the minimum Manhattan distance in cells between
	// random spawn cells.
	spawnSpacing = 8
)

// Players start facing away from each other.
var spawnFacing = [NumPlayers]gamemath.Vec2{
	gamemath.UnitX.Neg(),
	gamemath.UnitX,
}

// startRound regenerates the arena, respawns both players and enters InRound.
func (s *Sim) startRound(st *State) {
	st.Map = s.arena
	st.Bullets = [MaxBullets]Bullet{}

	var taken [NumPlayers][2]int
	for h := range st.Players {
		x, y := spawnCell(st, taken[:h])
		taken[h] = [2]int{x, y}
		st.Players[h] = Player{
			Alive:       true,
			Pos:         gridmap.GridToWorld(x, y),
			Dir:         spawnFacing[h],
			BulletReady: true,
		}
	}
	st.Round = InRound
}

// spawnCell draws cells from the spawn chain until one is free and far
// enough from the cells already taken. If the draws run out it falls back to
// the first free cell in scan order.
func spawnCell(st *State, taken [][2]int) (int, int) {
	for i := 0; i < spawnAttempts; i++ {
		v := st.SpawnSeed.Advance()
		x := int(v % gridmap.Size)
		y := int((v >> 32) % gridmap.Size)
		if spawnable(&st.Map, x, y, taken, spawnSpacing) {
			return x, y
		}
	}
	for x := 0; x < gridmap.Size; x++ {
		for y := 0; y < gridmap.Size; y++ {
			if spawnable(&st.Map, x, y, taken, 1) {
				return x, y
			}
		}
	}
	return gridmap.Size / 2, gridmap.Size / 2
}

func spawnable(m *gridmap.Map, x, y int, taken [][2]int, spacing int) bool {
	if m.IsWall(x, y) {
		return false
	}
	for _, t := range taken {
		if abs(x-t[0])+abs(y-t[1]) < spacing {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// endRound scores every marked player to their opponent, despawns them and
// cancels outstanding sound triggers. Both players can score on the same
// frame when they trade hits.
func endRound(st *State) {
	for h := range st.Players {
		p := &st.Players[h]
		if !p.Alive || !p.Marked {
			continue
		}
		st.Scores[opponent(h)]++
		*p = Player{}
	}
	st.clearSounds()
	st.Round = RoundEnd
	st.RoundEndTimer = RoundEndFrames
}

func opponent(h int) int {
	return (h + 1) % NumPlayers
}
