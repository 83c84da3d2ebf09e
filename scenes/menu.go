package scenes

import (
	"image/color"
	"sync"

	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

// MenuScene displays the main menu
type MenuScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	once         sync.Once
}

// NewMenuScene creates a new menu scene
func NewMenuScene(sc SceneChanger) *MenuScene {
	return &MenuScene{sceneChanger: sc}
}

func (ms *MenuScene) Update() {
	ms.once.Do(ms.configure)
	ms.ecs.Update()
}

func (ms *MenuScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if ms.ecs == nil {
		return
	}
	ms.ecs.Draw(screen)
}

func (ms *MenuScene) configure() {
	ms.ecs = ecs.NewECS(donburi.NewWorld())

	createBrowserScene := func() interface{} {
		return NewBrowserScene(ms.sceneChanger)
	}
	createPracticeScene := func() interface{} {
		return NewPracticeScene(ms.sceneChanger, cfg.Debug.Arena)
	}

	ms.ecs.AddSystem(systems.UpdateAudio)
	ms.ecs.AddSystem(systems.UpdateInput)
	ms.ecs.AddSystem(systems.NewUpdateMenu(ms.sceneChanger, createBrowserScene, createPracticeScene))

	ms.ecs.AddRenderer(cfg.LayerHUD, systems.DrawMenu)

	systems.PlayMusic(ms.ecs, systems.MusicMenu)
}
