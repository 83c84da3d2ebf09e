package rollaudio

import "github.com/automoto/gridduel/shared/gamemath"

// Attenuation returns the gain, in [0, 1], of a sound at source heard from
// listener. Gain falls off linearly and reaches zero at maxDistance.
func Attenuation(listener, source gamemath.Vec2, maxDistance float32) float64 {
	if maxDistance <= 0 {
		return 1
	}
	d := source.Sub(listener).Length()
	if d >= maxDistance {
		return 0
	}
	return float64(1 - d/maxDistance)
}
