package factory

import (
	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateSpace spawns the wall space. It is laid out in shifted world units:
// cell (x, y) covers [x, x+1] x [y, y+1].
func CreateSpace(ecs *ecs.ECS) *donburi.Entry {
	space := archetypes.Space.Spawn(ecs)
	spaceData := resolv.NewSpace(gridmap.Size, gridmap.Size, 1, 1)
	components.Space.Set(space, spaceData)
	return space
}
