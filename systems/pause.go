package systems

import (
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// NewUpdatePause returns the in-match menu system. Back opens and closes
// it; choosing Leave Match calls leave.
// This system should run AFTER UpdateInput but BEFORE the session ticks.
func NewUpdatePause(leave func()) ecs.System {
	return func(e *ecs.ECS) {
		pause := GetOrCreatePause(e)
		in := getOrCreateInput(e)

		if GetAction(in, cfg.ActionMenuBack).JustPressed {
			pause.IsPaused = !pause.IsPaused
			pause.SelectedOption = components.MenuResume
			return
		}
		if !pause.IsPaused {
			return
		}

		numOptions := int(components.MenuLeave) + 1
		if GetAction(in, cfg.ActionMenuUp).JustPressed {
			pause.SelectedOption = components.PauseMenuOption((int(pause.SelectedOption) - 1 + numOptions) % numOptions)
		}
		if GetAction(in, cfg.ActionMenuDown).JustPressed {
			pause.SelectedOption = components.PauseMenuOption((int(pause.SelectedOption) + 1) % numOptions)
		}

		if GetAction(in, cfg.ActionMenuSelect).JustPressed {
			switch pause.SelectedOption {
			case components.MenuResume:
				pause.IsPaused = false
			case components.MenuLeave:
				leave()
			}
		}
	}
}

// IsPaused reports whether the in-match menu is open.
func IsPaused(e *ecs.ECS) bool {
	return GetOrCreatePause(e).IsPaused
}

// DrawPause renders the overlay and menu.
func DrawPause(e *ecs.ECS, screen *ebiten.Image) {
	pause := GetOrCreatePause(e)
	if !pause.IsPaused {
		return
	}

	width := float64(screen.Bounds().Dx())
	height := float64(screen.Bounds().Dy())
	vector.FillRect(screen, 0, 0, float32(width), float32(height), cfg.Pause.OverlayColor, false)

	options := cfg.Pause.MenuOptions
	totalHeight := float64(len(options)) * (cfg.Pause.MenuItemHeight + cfg.Pause.MenuItemGap)
	startY := (height - totalHeight) / 2

	face := fonts.Bold.Get()
	for i, option := range options {
		y := startY + float64(i)*(cfg.Pause.MenuItemHeight+cfg.Pause.MenuItemGap)

		textColor := cfg.Pause.TextColorNormal
		if components.PauseMenuOption(i) == pause.SelectedOption {
			textColor = cfg.Pause.TextColorSelected
		}
		bounds := text.BoundString(face, option)
		x := int((width - float64(bounds.Dx())) / 2)
		text.Draw(screen, option, face, x, int(y)+int(cfg.Pause.MenuItemHeight), textColor)
	}
}

// GetOrCreatePause returns the singleton Pause component, creating if needed.
func GetOrCreatePause(e *ecs.ECS) *components.PauseData {
	if _, ok := components.Pause.First(e.World); !ok {
		e.World.Entry(e.World.Create(components.Pause))
	}
	ent, _ := components.Pause.First(e.World)
	return components.Pause.Get(ent)
}
