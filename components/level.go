package components

import (
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/yohamta/donburi"
)

// LevelData holds the arena a scene renders (singleton component).
type LevelData struct {
	Name string
	Map  gridmap.Map
	// Dirty is set when Map changed and cached drawings must be rebuilt.
	Dirty bool
}

var Level = donburi.NewComponentType[LevelData]()
