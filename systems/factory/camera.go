package factory

import (
	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	"github.com/yohamta/donburi/ecs"
)

func CreateCamera(ecs *ecs.ECS) {
	camera := archetypes.Camera.Spawn(ecs)
	components.Camera.Set(camera, &components.CameraData{})
}
