package systems

import (
	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// explosionMemory is how many frames an explosion key is remembered after
// it fired. It must outlast the deepest rollback.
const explosionMemory = 4 * sim.FPS

// SpawnExplosion starts the ring for ev unless a replay already showed it.
func SpawnExplosion(e *ecs.ECS, ev sim.Explosion) {
	log := getOrCreateExplosionLog(e)
	key := components.ExplosionKey{Frame: ev.Frame, Handle: ev.Handle}
	if _, seen := log.Seen[key]; seen {
		return
	}
	log.Seen[key] = struct{}{}

	entry := archetypes.Explosion.Spawn(e)
	components.Explosion.SetValue(entry, components.ExplosionData{
		Key:    key,
		Pos:    ev.Pos,
		Tween:  gween.New(cfg.Explosion.StartRadius, cfg.Explosion.EndRadius, cfg.Explosion.Seconds, ease.OutQuad),
		Radius: cfg.Explosion.StartRadius,
	})
	TriggerScreenShake(e, cfg.ScreenShake.ExplosionIntensity, cfg.ScreenShake.ExplosionDuration)
}

// UpdateEffects advances explosion rings and forgets old explosion keys.
func UpdateEffects(e *ecs.ECS) {
	var finished []*donburi.Entry
	components.Explosion.Each(e.World, func(entry *donburi.Entry) {
		ex := components.Explosion.Get(entry)
		ex.Radius, ex.Done = ex.Tween.Update(1.0 / float32(ebiten.TPS()))
		if ex.Done {
			finished = append(finished, entry)
		}
	})
	for _, entry := range finished {
		e.World.Remove(entry.Entity())
	}

	matchEntry, ok := components.Match.First(e.World)
	if !ok {
		return
	}
	st := components.Match.Get(matchEntry).State
	if st == nil {
		return
	}
	log := getOrCreateExplosionLog(e)
	for key := range log.Seen {
		if st.Frame-key.Frame > explosionMemory {
			delete(log.Seen, key)
		}
	}
}

// DrawEffects draws the explosion rings over the arena.
func DrawEffects(e *ecs.ECS, screen *ebiten.Image) {
	components.Explosion.Each(e.World, func(entry *donburi.Entry) {
		ex := components.Explosion.Get(entry)
		x, y := worldToScreen(e, ex.Pos)

		fade := 1 - (ex.Radius-cfg.Explosion.StartRadius)/(cfg.Explosion.EndRadius-cfg.Explosion.StartRadius)
		clr := cfg.Explosion.Color
		clr.A = uint8(float32(clr.A) * max(0, min(1, fade)))
		vector.StrokeCircle(screen, x, y, ex.Radius, 3, clr, true)
	})
}

func getOrCreateExplosionLog(e *ecs.ECS) *components.ExplosionLogData {
	entry, ok := components.ExplosionLog.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.ExplosionLog))
		components.ExplosionLog.SetValue(entry, components.ExplosionLogData{
			Seen: make(map[components.ExplosionKey]struct{}),
		})
	}
	return components.ExplosionLog.Get(entry)
}
