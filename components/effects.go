package components

import (
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// ScreenShakeData tracks active screen shake effect on the camera
type ScreenShakeData struct {
	Intensity float64 // max offset in pixels
	Duration  int     // frames remaining
	Elapsed   int     // frames elapsed (for oscillation)
}

var ScreenShake = donburi.NewComponentType[ScreenShakeData]()

// ExplosionKey identifies an explosion across rollback replays, which
// report the same frame and handle again.
type ExplosionKey struct {
	Frame  uint32
	Handle int
}

// ExplosionData is an expanding ring drawn where a player was marked.
type ExplosionData struct {
	Key    ExplosionKey
	Pos    gamemath.Vec2
	Tween  *gween.Tween
	Radius float32
	Done   bool
}

var Explosion = donburi.NewComponentType[ExplosionData]()

// ExplosionLogData remembers which explosions were already shown
// (singleton component).
type ExplosionLogData struct {
	Seen map[ExplosionKey]struct{}
}

var ExplosionLog = donburi.NewComponentType[ExplosionLogData]()
