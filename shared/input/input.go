// Package input defines the one-byte per-frame player input exchanged
// between peers and fed to the simulation.
package input

import "github.com/automoto/gridduel/shared/gamemath"

// Bits is a player's input for one frame.
type Bits uint8

const (
	Up Bits = 1 << iota
	Down
	Left
	Right
	Fire
)

// Blank is the input of a player that pressed nothing. It is also what a
// disconnected player contributes.
const Blank Bits = 0

// Direction decodes the movement flags into a unit vector. Opposing flags
// cancel and no flags give the zero vector.
func (b Bits) Direction() gamemath.Vec2 {
	var d gamemath.Vec2
	if b&Up != 0 {
		d.Y++
	}
	if b&Down != 0 {
		d.Y--
	}
	if b&Right != 0 {
		d.X++
	}
	if b&Left != 0 {
		d.X--
	}
	return d.Normalize()
}

func (b Bits) Fire() bool {
	return b&Fire != 0
}

func (b Bits) String() string {
	var buf [5]byte
	for i, c := range "UDLRF" {
		if b&(1<<i) != 0 {
			buf[i] = byte(c)
		} else {
			buf[i] = '-'
		}
	}
	return string(buf[:])
}

// Quantisation of analog and touch vectors.
const (
	// Deadzone is the minimum drag length in pixels before any direction registers.
	Deadzone = 15.0
	// AxisDeadzone is the squared distance to an axis under which the
	// input snaps to that axis alone.
	AxisDeadzone = 0.2

	diagonal = 0.707107
)

var (
	towardLeft      = gamemath.Vec2{X: 1}
	towardRight     = gamemath.Vec2{X: -1}
	towardUp        = gamemath.Vec2{Y: 1}
	towardDown      = gamemath.Vec2{Y: -1}
	towardUpLeft    = gamemath.Vec2{X: diagonal, Y: diagonal}
	towardUpRight   = gamemath.Vec2{X: -diagonal, Y: diagonal}
	towardDownLeft  = gamemath.Vec2{X: diagonal, Y: -diagonal}
	towardDownRight = gamemath.Vec2{X: -diagonal, Y: -diagonal}
)

// FromVector quantises a drag vector into movement flags. v points from the
// current touch position back to where the touch started, in screen pixels,
// so dragging up the screen gives +Y and dragging left gives +X.
//
// Vertical snapping is checked first; otherwise the nearer horizontal side
// decides between the straight and the two diagonal directions.
func FromVector(v gamemath.Vec2) Bits {
	if v.Length() <= Deadzone {
		return Blank
	}
	dir := v.Normalize()

	if dir.DistanceSquared(towardUp) < AxisDeadzone {
		return Up
	}
	if dir.DistanceSquared(towardDown) < AxisDeadzone {
		return Down
	}

	left := dir.DistanceSquared(towardLeft)
	right := dir.DistanceSquared(towardRight)
	if left < right {
		switch {
		case left < AxisDeadzone:
			return Left
		case dir.DistanceSquared(towardUpLeft) < left:
			return Left | Up
		case dir.DistanceSquared(towardDownLeft) < left:
			return Left | Down
		}
		return Blank
	}

	switch {
	case right < AxisDeadzone:
		return Right
	case dir.DistanceSquared(towardUpRight) < right:
		return Right | Up
	case dir.DistanceSquared(towardDownRight) < right:
		return Right | Down
	}
	return Blank
}
