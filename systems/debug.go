package systems

import (
	"image/color"

	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// DrawDebug outlines the bot's wall boxes and its line of sight while the
// stats overlay is open.
func DrawDebug(e *ecs.ECS, screen *ebiten.Image) {
	if !getOrCreateNetStats(e).Visible {
		return
	}
	spaceEntry, ok := components.Space.First(e.World)
	if !ok {
		return
	}
	space := components.Space.Get(spaceEntry)

	ox, oy := screenOffset(e)
	cell := cfg.Arena.CellSize
	for _, obj := range space.Objects() {
		if !obj.HasTags(tags.ResolvSolid) {
			continue
		}
		// the space's Y grows upwards like the world
		x := float32(obj.X*cell + ox)
		y := float32((float64(gridmap.Size)-obj.Y-obj.H)*cell + oy)
		vector.StrokeRect(screen, x, y, float32(obj.W*cell), float32(obj.H*cell), 1, color.RGBA{0, 255, 255, 255}, false)
	}

	botEntry, ok := components.Bot.First(e.World)
	if !ok {
		return
	}
	matchEntry, ok := components.Match.First(e.World)
	if !ok {
		return
	}
	st := components.Match.Get(matchEntry).State
	if st == nil {
		return
	}
	handle := components.Bot.Get(botEntry).Handle
	me, opp := st.Players[handle], st.Players[(handle+1)%len(st.Players)]
	if !me.Alive || !opp.Alive {
		return
	}

	c := color.RGBA{255, 0, 0, 255}
	if hasLineOfSight(space, me.Pos, opp.Pos) {
		c = color.RGBA{0, 255, 0, 255}
	}
	x1, y1 := worldToScreen(e, me.Pos)
	x2, y2 := worldToScreen(e, opp.Pos)
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, c, false)
}
