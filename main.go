package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/fonts"
	"github.com/automoto/gridduel/scenes"
	"github.com/automoto/gridduel/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame() *Game {
	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	g := &Game{
		bounds: image.Rectangle{},
	}

	if config.Debug.Practice {
		g.scene = scenes.NewPracticeScene(g, config.Debug.Arena)
	} else {
		g.scene = scenes.NewMenuScene(g)
	}

	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	practice := flag.Bool("practice", false, "Skip the menu and play the bot")
	arena := flag.String("arena", "", "Arena for practice (default: generated lattice)")
	netStats := flag.Bool("netstats", false, "Show the network overlay from the start")
	iniPath := flag.String("ini", "", "Settings file whose [Rollback] section tunes the session")
	relay := flag.String("relay", "", "Relay address, host:port")
	room := flag.String("room", "", "Relay room to join")
	master := flag.String("master", "", "Master server URL")
	flag.Parse()

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)
	ebiten.SetWindowTitle(config.Menu.Title)

	// Initialize persistence and load saved settings
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	if saved, err := systems.LoadSettings(); err == nil && saved != nil {
		systems.ApplySavedSettingsGlobal(saved)
	}

	// Command-line flags win over saved settings
	config.Debug.Practice = *practice
	config.Debug.Arena = *arena
	config.Debug.ShowNetStats = *netStats
	config.Debug.RollbackINI = *iniPath
	if *relay != "" {
		config.Network.RelayAddress = *relay
	}
	if *room != "" {
		config.Network.Room = *room
	}
	if *master != "" {
		config.Network.MasterServerURL = *master
	}

	if config.Debug.RollbackINI != "" {
		if err := config.LoadRollbackINI(config.Debug.RollbackINI); err != nil {
			log.Fatalf("Failed to load %s: %v", config.Debug.RollbackINI, err)
		}
	}

	systems.PreloadAllSFX()

	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
