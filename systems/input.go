package systems

import (
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slices to avoid allocations
var (
	gamepadIDs []ebiten.GamepadID
	touchIDs   []ebiten.TouchID
)

// UpdateInput polls raw input and updates the Input component.
// Must run before anything that reads actions this frame.
func UpdateInput(ecs *ecs.ECS) {
	in := getOrCreateInput(ecs)

	in.Previous = in.Current
	in.Current = [cfg.ActionCount]bool{}

	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])
	analogLeft, analogRight, analogUp, analogDown := getAnalogStickState(gamepadIDs)

	var keyboardUsed, gamepadUsed bool
	for actionID, binding := range cfg.Input.Bindings {
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				in.Current[actionID] = true
				keyboardUsed = true
			}
		}
		for _, gpID := range gamepadIDs {
			if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
				continue
			}
			for _, btn := range binding.StandardGamepadButtons {
				if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
					in.Current[actionID] = true
					gamepadUsed = true
				}
			}
		}
	}

	// Merge analog stick into directional actions
	if analogLeft {
		in.Current[cfg.ActionMoveLeft] = true
		gamepadUsed = true
	}
	if analogRight {
		in.Current[cfg.ActionMoveRight] = true
		gamepadUsed = true
	}
	if analogUp {
		in.Current[cfg.ActionMoveUp] = true
		in.Current[cfg.ActionMenuUp] = true
		gamepadUsed = true
	}
	if analogDown {
		in.Current[cfg.ActionMoveDown] = true
		in.Current[cfg.ActionMenuDown] = true
		gamepadUsed = true
	}

	touchUsed := updateTouch(&in.Touch)

	switch {
	case gamepadUsed:
		in.LastInputMethod = components.InputGamepad
	case keyboardUsed:
		in.LastInputMethod = components.InputKeyboard
	case touchUsed:
		in.LastInputMethod = components.InputTouch
	}
}

// updateTouch tracks the steering finger and reports whether any finger is
// down. Drag is measured from the current position back to the start.
func updateTouch(t *components.TouchData) bool {
	touchIDs = ebiten.AppendTouchIDs(touchIDs[:0])
	t.Fire = false

	if t.Steering && inpututil.IsTouchJustReleased(t.ID) {
		t.Steering = false
		t.Drag = gamemath.Vec2{}
	}

	for _, id := range touchIDs {
		x, y := ebiten.TouchPosition(id)
		pos := gamemath.Vec2{X: float32(x), Y: float32(y)}
		switch {
		case t.Steering && id == t.ID:
			t.Drag = t.Start.Sub(pos)
		case !t.Steering && inpututil.IsTouchJustPressed(id):
			t.Steering = true
			t.ID = id
			t.Start = pos
			t.Drag = gamemath.Vec2{}
		default:
			t.Fire = true
		}
	}
	return len(touchIDs) > 0
}

// getAnalogStickState reads the left analog stick from all gamepads
func getAnalogStickState(gamepads []ebiten.GamepadID) (left, right, up, down bool) {
	deadzone := cfg.Input.AnalogDeadzone

	for _, gpID := range gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		horizontal := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickHorizontal)
		vertical := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickVertical)

		left = left || horizontal < -deadzone
		right = right || horizontal > deadzone
		up = up || vertical < -deadzone
		down = down || vertical > deadzone
	}
	return
}

// getOrCreateInput returns the singleton Input component, creating if needed
func getOrCreateInput(ecs *ecs.ECS) *components.InputData {
	entry, ok := components.Input.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.Input))
	}
	return components.Input.Get(entry)
}

// GetAction returns the full ActionState for an action ID.
// JustPressed/JustReleased are derived from current vs previous frame.
func GetAction(in *components.InputData, id cfg.ActionID) components.ActionState {
	curr := in.Current[id]
	prev := in.Previous[id]
	return components.ActionState{
		Pressed:      curr,
		JustPressed:  curr && !prev,
		JustReleased: !curr && prev,
	}
}

// LocalInput samples this frame's input for the local player.
func LocalInput(ecs *ecs.ECS) input.Bits {
	in := getOrCreateInput(ecs)

	var b input.Bits
	if in.Current[cfg.ActionMoveUp] {
		b |= input.Up
	}
	if in.Current[cfg.ActionMoveDown] {
		b |= input.Down
	}
	if in.Current[cfg.ActionMoveLeft] {
		b |= input.Left
	}
	if in.Current[cfg.ActionMoveRight] {
		b |= input.Right
	}
	if in.Current[cfg.ActionFire] {
		b |= input.Fire
	}

	if in.Touch.Steering {
		b |= input.FromVector(in.Touch.Drag)
	}
	if in.Touch.Fire {
		b |= input.Fire
	}
	return b
}
