package rollaudio

import (
	"testing"

	"github.com/automoto/gridduel/shared/gamemath"
)

func TestAttenuation(t *testing.T) {
	origin := gamemath.Vec2{}
	tests := []struct {
		name   string
		source gamemath.Vec2
		max    float32
		want   float64
	}{
		{"at listener", origin, 20, 1},
		{"half way", gamemath.Vec2{X: 10}, 20, 0.5},
		{"at the edge", gamemath.Vec2{Y: -20}, 20, 0},
		{"beyond", gamemath.Vec2{X: 15, Y: 15}, 20, 0},
		{"no falloff", gamemath.Vec2{X: 100}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Attenuation(origin, tt.source, tt.max); got != tt.want {
				t.Errorf("Attenuation = %v, want %v", got, tt.want)
			}
		})
	}
}
