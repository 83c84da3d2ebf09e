package archetypes

import (
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Wall = newArchetype(
		tags.Wall,
		components.Object,
	)
	Space = newArchetype(
		components.Space,
	)
	Level = newArchetype(
		components.Level,
	)
	Camera = newArchetype(
		components.Camera,
	)
	Match = newArchetype(
		components.Match,
	)
	Bot = newArchetype(
		tags.Bot,
		components.Bot,
	)
	Explosion = newArchetype(
		tags.Explosion,
		components.Explosion,
	)
	Toast = newArchetype(
		tags.Toast,
		components.Toast,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.LayerWorld,
		append(a.components, cs...)...,
	))
	return e
}
