package components

import (
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
)

// InputMethod represents the type of input device being used
type InputMethod int

const (
	InputKeyboard InputMethod = iota
	InputGamepad
	InputTouch
)

// ActionState represents the temporal state of an action
type ActionState struct {
	Pressed      bool // Currently held down
	JustPressed  bool // Pressed this frame
	JustReleased bool // Released this frame
}

// InputData stores the current and previous frame's pressed state for all actions.
// JustPressed/JustReleased are computed on-demand by comparing frames.
type InputData struct {
	Current         [cfg.ActionCount]bool
	Previous        [cfg.ActionCount]bool
	LastInputMethod InputMethod
	Touch           TouchData
}

// TouchData tracks the steering finger. The first finger down steers by
// dragging; any other finger fires.
type TouchData struct {
	Steering bool
	ID       ebiten.TouchID
	Start    gamemath.Vec2
	Drag     gamemath.Vec2 // from the current position back to Start
	Fire     bool
}

var Input = donburi.NewComponentType[InputData]()
