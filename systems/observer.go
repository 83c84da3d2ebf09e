package systems

import (
	"github.com/automoto/gridduel/shared/sim"
	"github.com/yohamta/donburi/ecs"
)

// MatchObserver routes the side effects of simulation steps into the scene:
// explosions become rings and sound triggers go to the audio syncer.
type MatchObserver struct {
	ecs *ecs.ECS
}

func NewMatchObserver(e *ecs.ECS) *MatchObserver {
	return &MatchObserver{ecs: e}
}

func (o *MatchObserver) Explosion(ev sim.Explosion) {
	SpawnExplosion(o.ecs, ev)
}

func (o *MatchObserver) SyncSounds(frame uint32, triggers []sim.SoundTrigger) {
	GetOrCreateAudio(o.ecs).Syncer.Sync(frame, triggers)
}
