package components

import (
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/rollaudio"
	"github.com/yohamta/donburi"
)

// AudioData is the per-scene sound state (singleton component). Music and
// volumes are global; effects started by the simulation go through Syncer
// so rollbacks never play a trigger twice.
type AudioData struct {
	Syncer *rollaudio.Syncer
	// Listener is where effects are heard from, normally the local player.
	Listener    gamemath.Vec2
	HasListener bool
}

var Audio = donburi.NewComponentType[AudioData]()
