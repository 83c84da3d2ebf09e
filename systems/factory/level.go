package factory

import (
	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateLevel spawns the arena a scene renders, plus the wall space the
// practice bot looks through.
func CreateLevel(ecs *ecs.ECS, name string, m gridmap.Map) *donburi.Entry {
	level := archetypes.Level.Spawn(ecs)
	components.Level.Set(level, &components.LevelData{
		Name:  name,
		Map:   m,
		Dirty: true,
	})

	CreateSpace(ecs)
	m.EachWall(func(x, y int) {
		CreateWall(ecs, x, y)
	})
	return level
}
