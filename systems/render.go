package systems

import (
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// arenaPixels is the side of the arena image.
var arenaPixels = float64(gridmap.Size) * cfg.Arena.CellSize

// Arena image, redrawn when the level changes.
var arenaImage *ebiten.Image

// worldToArena maps a world position to pixels of the arena image.
// World Y points up, image Y points down.
func worldToArena(v gamemath.Vec2) (float64, float64) {
	x := float64(v.X+gridmap.HalfExtent) * cfg.Arena.CellSize
	y := float64(gridmap.HalfExtent-v.Y) * cfg.Arena.CellSize
	return x, y
}

// screenOffset is added to arena pixels to get screen pixels.
func screenOffset(e *ecs.ECS) (float64, float64) {
	cx, cy := arenaPixels/2, arenaPixels/2
	if entry, ok := components.Camera.First(e.World); ok {
		cam := components.Camera.Get(entry)
		cx, cy = cam.Position.X, cam.Position.Y
	}
	return float64(cfg.C.Width)/2 - cx, float64(cfg.C.Height)/2 - cy
}

func worldToScreen(e *ecs.ECS, v gamemath.Vec2) (float32, float32) {
	x, y := worldToArena(v)
	ox, oy := screenOffset(e)
	return float32(x + ox), float32(y + oy)
}

func renderArenaImage(m *gridmap.Map) *ebiten.Image {
	size := int(arenaPixels)
	img := ebiten.NewImage(size, size)
	img.Fill(cfg.Arena.FloorColor)

	cell := float32(cfg.Arena.CellSize)
	for i := 1; i < gridmap.Size; i++ {
		p := float32(i) * cell
		vector.StrokeLine(img, p, 0, p, float32(size), 1, cfg.Arena.GridColor, false)
		vector.StrokeLine(img, 0, p, float32(size), p, 1, cfg.Arena.GridColor, false)
	}

	m.EachWall(func(x, y int) {
		// cell (x, y) has its top-left image corner at row Size-1-y
		px := float32(x) * cell
		py := float32(gridmap.Size-1-y) * cell
		vector.FillRect(img, px, py, cell, cell, cfg.Arena.WallColor, false)
	})
	vector.StrokeRect(img, 0, 0, float32(size), float32(size), 2, cfg.Arena.BorderColor, false)
	return img
}

// DrawArena draws the floor, grid lines and walls.
func DrawArena(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.Level.First(e.World)
	if !ok {
		return
	}
	level := components.Level.Get(entry)
	if arenaImage == nil || level.Dirty {
		if arenaImage != nil {
			arenaImage.Deallocate()
		}
		arenaImage = renderArenaImage(&level.Map)
		level.Dirty = false
	}

	ox, oy := screenOffset(e)
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(ox, oy)
	screen.DrawImage(arenaImage, opts)
}

// DrawEntities draws bullets then players from the match state.
func DrawEntities(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.Match.First(e.World)
	if !ok {
		return
	}
	st := components.Match.Get(entry).State
	if st == nil {
		return
	}

	for i := range st.Bullets {
		b := &st.Bullets[i]
		if !b.Alive {
			continue
		}
		x, y := worldToScreen(e, b.Pos)
		vector.FillCircle(screen, x, y, float32(cfg.Arena.BulletRadius), cfg.Arena.BulletColor, true)
	}

	radius := sim.PlayerRadius * float32(cfg.Arena.CellSize)
	for h := range st.Players {
		p := &st.Players[h]
		if !p.Alive {
			continue
		}
		x, y := worldToScreen(e, p.Pos)
		clr := cfg.Arena.PlayerColors[h]
		if p.Marked {
			clr = cfg.Arena.MarkedColor
		}
		vector.FillCircle(screen, x, y, radius, clr, true)

		facing := float32(cfg.Arena.FacingLength)
		fx := x + p.Dir.X*facing
		fy := y - p.Dir.Y*facing
		vector.StrokeLine(screen, x, y, fx, fy, 2, cfg.Arena.FacingColor, true)
	}
}
