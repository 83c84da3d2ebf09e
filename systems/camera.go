package systems

import (
	"math"

	"github.com/automoto/gridduel/components"
	"github.com/automoto/gridduel/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateCamera follows the local player, keeping the arena on screen where
// the arena is larger than the view.
func UpdateCamera(e *ecs.ECS) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)

	targetX, targetY := arenaPixels/2, arenaPixels/2
	if matchEntry, ok := components.Match.First(e.World); ok {
		match := components.Match.Get(matchEntry)
		if match.State != nil {
			if p := match.State.Players[match.LocalHandle]; p.Alive {
				targetX, targetY = worldToArena(p.Pos)
			}
		}
	}

	targetX = clampAxis(targetX, float64(config.C.Width))
	targetY = clampAxis(targetY, float64(config.C.Height))

	if !camera.Snapped {
		camera.Position.X, camera.Position.Y = targetX, targetY
		camera.Snapped = true
	} else {
		camera.Position.X += (targetX - camera.Position.X) * config.Camera.FollowSmoothing
		camera.Position.Y += (targetY - camera.Position.Y) * config.Camera.FollowSmoothing
	}

	updateScreenShake(cameraEntry, camera)
}

// clampAxis keeps the view inside the arena, or centres the arena when the
// view is wider than it.
func clampAxis(target, view float64) float64 {
	if view >= arenaPixels {
		return arenaPixels / 2
	}
	return math.Max(view/2, math.Min(arenaPixels-view/2, target))
}

// updateScreenShake applies screen shake offset to camera and decrements duration
func updateScreenShake(cameraEntry *donburi.Entry, camera *components.CameraData) {
	if !cameraEntry.HasComponent(components.ScreenShake) {
		return
	}

	shake := components.ScreenShake.Get(cameraEntry)
	shake.Elapsed++

	progress := float64(shake.Duration-shake.Elapsed) / float64(shake.Duration)
	if progress < 0 {
		progress = 0
	}
	intensity := shake.Intensity * progress

	camera.Position.X += math.Sin(float64(shake.Elapsed)*1.1) * intensity
	camera.Position.Y += math.Cos(float64(shake.Elapsed)*1.3) * intensity

	if shake.Elapsed >= shake.Duration {
		cameraEntry.RemoveComponent(components.ScreenShake)
	}
}

// TriggerScreenShake starts a screen shake effect
func TriggerScreenShake(ecs *ecs.ECS, intensity float64, duration int) {
	cameraEntry, ok := components.Camera.First(ecs.World)
	if !ok {
		return
	}

	if cameraEntry.HasComponent(components.ScreenShake) {
		shake := components.ScreenShake.Get(cameraEntry)
		// Only override if new shake is stronger
		if intensity > shake.Intensity {
			shake.Intensity = intensity
			shake.Duration = duration
			shake.Elapsed = 0
		}
		return
	}
	cameraEntry.AddComponent(components.ScreenShake)
	components.ScreenShake.Set(cameraEntry, &components.ScreenShakeData{
		Intensity: intensity,
		Duration:  duration,
	})
}
