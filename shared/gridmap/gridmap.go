// Package gridmap is the arena grid: a fixed square of wall and empty cells
// with the transforms between grid indices and world positions.
package gridmap

import (
	"math"

	"github.com/automoto/gridduel/shared/gamemath"
)

// Size is the number of cells along each side of the arena.
const Size = 41

// HalfExtent is half the arena width in world units. Cell centres sit on
// integer world coordinates from -20 to 20.
const HalfExtent = float32(Size) / 2

type CellType uint8

const (
	Empty CellType = iota
	Wall
)

func (c CellType) String() string {
	switch c {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// Map is indexed [x][y]. It is a plain value so copying it copies the grid.
type Map struct {
	Cells [Size][Size]CellType
}

// Generate builds the fixed lattice layout: wall columns every sixth and
// ninth column (offset by four), broken by two-cell corridors every fourth row.
func Generate() Map {
	var m Map
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			column := (x+4)%6 == 0 || (x+4)%9 == 0
			corridor := y%4 == 0 || (y+1)%4 == 0
			if column && !corridor {
				m.Cells[x][y] = Wall
			}
		}
	}
	return m
}

// InBounds reports whether (x, y) is a valid cell index.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// CellAt returns the cell type at (x, y). Cells outside the grid read as Empty.
func (m *Map) CellAt(x, y int) CellType {
	if !InBounds(x, y) {
		return Empty
	}
	return m.Cells[x][y]
}

// SetCell sets a cell; out of range indices are ignored.
func (m *Map) SetCell(x, y int, c CellType) {
	if InBounds(x, y) {
		m.Cells[x][y] = c
	}
}

// IsWall reports whether (x, y) holds a wall.
func (m *Map) IsWall(x, y int) bool {
	return m.CellAt(x, y) == Wall
}

// WallCount returns the number of wall cells.
func (m *Map) WallCount() int {
	n := 0
	for x := range m.Cells {
		for y := range m.Cells[x] {
			if m.Cells[x][y] == Wall {
				n++
			}
		}
	}
	return n
}

// EachWall calls fn for every wall cell in x-major order.
func (m *Map) EachWall(fn func(x, y int)) {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if m.Cells[x][y] == Wall {
				fn(x, y)
			}
		}
	}
}

// WorldToGrid returns the cell containing pos. ok is false when pos lies
// outside the arena; callers treat that as "nothing to collide with".
func WorldToGrid(pos gamemath.Vec2) (x, y int, ok bool) {
	x = axisToGrid(pos.X)
	y = axisToGrid(pos.Y)
	return x, y, InBounds(x, y)
}

func axisToGrid(v float32) int {
	return int(math.Floor(float64(v) + float64(HalfExtent)))
}

// GridToWorld returns the world position of the centre of cell (x, y).
func GridToWorld(x, y int) gamemath.Vec2 {
	return gamemath.Vec2{
		X: float32(x) - HalfExtent + 0.5,
		Y: float32(y) - HalfExtent + 0.5,
	}
}

// AxisRange returns the inclusive range of cell indices overlapped by the
// world interval [lo, hi], clamped to the grid.
func AxisRange(lo, hi float32) (from, to int) {
	from = axisToGrid(lo)
	to = axisToGrid(hi)
	if from < 0 {
		from = 0
	}
	if to > Size-1 {
		to = Size - 1
	}
	return from, to
}
