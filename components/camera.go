package components

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// CameraData is the screen-space centre of the view, in pixels of the
// arena image.
type CameraData struct {
	Position math.Vec2
	Snapped  bool // false until the first target has been seen
}

var Camera = donburi.NewComponentType[CameraData]()
