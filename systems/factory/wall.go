package factory

import (
	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	"github.com/automoto/gridduel/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateWall adds the collision box of wall cell (x, y) to the space.
func CreateWall(ecs *ecs.ECS, x, y int) *donburi.Entry {
	wall := archetypes.Wall.Spawn(ecs)

	obj := resolv.NewObject(float64(x), float64(y), 1, 1, tags.ResolvSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, 1, 1))
	obj.Data = wall

	components.Object.SetValue(wall, components.ObjectData{Object: obj})

	if spaceEntry, ok := components.Space.First(ecs.World); ok {
		components.Space.Get(spaceEntry).Add(obj)
	}
	return wall
}
