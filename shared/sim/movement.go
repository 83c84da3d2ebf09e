package sim

import (
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/input"
)

func movePlayers(st *State, inputs [NumPlayers]input.Bits) {
	for h := range st.Players {
		p := &st.Players[h]
		if !p.Alive || p.Marked {
			continue
		}
		dir := inputs[h].Direction()
		if dir.IsZero() {
			continue
		}
		p.Dir = dir
		p.Pos = MoveBody(&st.Map, p.Pos, dir.Scale(MoveSpeed))
	}
}

// MoveBody moves a player body by delta against the walls of m.
//
// Each axis is tried on its own and a blocked axis is zeroed. When both
// single-axis moves are free but the diagonal is not, the body is clipping a
// wall corner: the axis with the smaller offset from the current cell centre
// is cancelled so the body slides along the other one.
func MoveBody(m *gridmap.Map, pos, delta gamemath.Vec2) gamemath.Vec2 {
	if Blocked(m, gamemath.Vec2{X: pos.X + delta.X, Y: pos.Y}) {
		delta.X = 0
	}
	if Blocked(m, gamemath.Vec2{X: pos.X, Y: pos.Y + delta.Y}) {
		delta.Y = 0
	}
	if delta.X != 0 && delta.Y != 0 && Blocked(m, pos.Add(delta)) {
		centre := cellCentre(pos)
		if gamemath.Abs(pos.X-centre.X) > gamemath.Abs(pos.Y-centre.Y) {
			delta.Y = 0
		} else {
			delta.X = 0
		}
	}
	return pos.Add(delta).ClampAbs(PositionLimit)
}

// Blocked reports whether a player body centred at pos overlaps a wall cell.
func Blocked(m *gridmap.Map, pos gamemath.Vec2) bool {
	const reach = 0.5 + BodyHalfWidth
	x0, x1 := gridmap.AxisRange(pos.X-BodyHalfWidth, pos.X+BodyHalfWidth)
	y0, y1 := gridmap.AxisRange(pos.Y-BodyHalfWidth, pos.Y+BodyHalfWidth)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			if !m.IsWall(x, y) {
				continue
			}
			c := gridmap.GridToWorld(x, y)
			if gamemath.Abs(pos.X-c.X) < reach && gamemath.Abs(pos.Y-c.Y) < reach {
				return true
			}
		}
	}
	return false
}

func cellCentre(pos gamemath.Vec2) gamemath.Vec2 {
	x, y, ok := gridmap.WorldToGrid(pos)
	if !ok {
		return pos
	}
	return gridmap.GridToWorld(x, y)
}
