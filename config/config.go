package config

import (
	"image/color"

	"github.com/yohamta/donburi/ecs"
)

// Render layers, drawn in order.
const (
	LayerWorld ecs.LayerID = iota
	LayerEffects
	LayerHUD
)

// ArenaConfig controls how the grid and its entities are drawn.
type ArenaConfig struct {
	CellSize float64 // pixels per world unit

	FloorColor   color.RGBA
	GridColor    color.RGBA
	WallColor    color.RGBA
	BorderColor  color.RGBA
	PlayerColors [2]color.RGBA
	MarkedColor  color.RGBA
	BulletColor  color.RGBA
	FacingColor  color.RGBA

	BulletRadius float64 // pixels
	FacingLength float64 // pixels
}

// MenuConfig contains main menu configuration values
type MenuConfig struct {
	BackgroundColor   color.RGBA
	TitleColor        color.RGBA
	TextColorNormal   color.RGBA
	TextColorSelected color.RGBA
	Title             string
	TitleY            float64
	MenuStartY        float64
	MenuItemHeight    float64
	MenuItemGap       float64
}

// HUDConfig contains score, banner and network overlay settings
type HUDConfig struct {
	Margin       float64
	BannerColor  color.RGBA
	BannerText   string
	WaitingText  string
	StatsColor   color.RGBA
	StatsBgColor color.RGBA
	// StatsRefresh is how often, in frames, the network overlay re-queries the session.
	StatsRefresh int
}

// MessageConfig contains toast popup configuration
type MessageConfig struct {
	DisplayDuration int // frames
	MaxVisible      int
	BoxPadding      float64
	LineGap         float64
	BoxColor        color.RGBA
	TextColor       color.RGBA
	WarnColor       color.RGBA
	TopMargin       float64
}

// PauseConfig contains the in-match menu configuration
type PauseConfig struct {
	OverlayColor      color.RGBA
	TextColorNormal   color.RGBA
	TextColorSelected color.RGBA
	MenuOptions       []string
	MenuItemHeight    float64
	MenuItemGap       float64
}

// CameraConfig contains camera behavior configuration
type CameraConfig struct {
	FollowSmoothing float64 // How fast camera follows player (0.0-1.0)
}

// ScreenShakeConfig contains screen shake effect configuration
type ScreenShakeConfig struct {
	ExplosionIntensity float64 // pixels
	ExplosionDuration  int     // frames
}

// ExplosionConfig controls the ring drawn where a player was marked.
type ExplosionConfig struct {
	Seconds     float32
	StartRadius float32 // pixels
	EndRadius   float32 // pixels
	Color       color.RGBA
}

// Config holds general game configuration
type Config struct {
	Width  int
	Height int
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	Practice     bool   // Skip menu and go directly to practice
	Arena        string // Arena name for practice; empty uses the generated lattice
	ShowNetStats bool
	RollbackINI  string // Optional ini file overriding the [Rollback] section
}

// Global configuration instances
var C *Config
var Arena ArenaConfig
var Menu MenuConfig
var HUD HUDConfig
var Message MessageConfig
var Pause PauseConfig
var Camera CameraConfig
var ScreenShake ScreenShakeConfig
var Explosion ExplosionConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange       = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	BrightOrange = color.RGBA{R: 255, G: 180, B: 50, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

func init() {
	C = &Config{
		Width:  640,
		Height: 360,
	}

	Arena = ArenaConfig{
		CellSize:     16,
		FloorColor:   color.RGBA{R: 18, G: 20, B: 28, A: 255},
		GridColor:    color.RGBA{R: 28, G: 32, B: 44, A: 255},
		WallColor:    color.RGBA{R: 90, G: 96, B: 120, A: 255},
		BorderColor:  color.RGBA{R: 60, G: 64, B: 84, A: 255},
		PlayerColors: [2]color.RGBA{LightBlue, BrightOrange},
		MarkedColor:  LightRed,
		BulletColor:  Yellow,
		FacingColor:  White,
		BulletRadius: 2,
		FacingLength: 10,
	}

	Menu = MenuConfig{
		BackgroundColor:   color.RGBA{R: 15, G: 25, B: 50, A: 255},
		TitleColor:        Orange,
		TextColorNormal:   White,
		TextColorSelected: BrightOrange,
		Title:             "GRIDDUEL",
		TitleY:            60,
		MenuStartY:        100,
		MenuItemHeight:    30,
		MenuItemGap:       12,
	}

	HUD = HUDConfig{
		Margin:       10,
		BannerColor:  LightRed,
		BannerText:   "respawning",
		WaitingText:  "waiting for opponent",
		StatsColor:   LightGreen,
		StatsBgColor: BlackOverlay,
		StatsRefresh: 30,
	}

	Message = MessageConfig{
		DisplayDuration: 180, // 3 seconds at 60fps
		MaxVisible:      3,
		BoxPadding:      6.0,
		LineGap:         4.0,
		BoxColor:        color.RGBA{R: 0, G: 0, B: 0, A: 200},
		TextColor:       White,
		WarnColor:       LightRed,
		TopMargin:       30.0,
	}

	Pause = PauseConfig{
		OverlayColor:      BlackOverlay,
		TextColorNormal:   White,
		TextColorSelected: BrightOrange,
		MenuOptions:       []string{"Resume", "Leave Match"},
		MenuItemHeight:    20,
		MenuItemGap:       10,
	}

	Camera = CameraConfig{
		FollowSmoothing: 0.15,
	}

	ScreenShake = ScreenShakeConfig{
		ExplosionIntensity: 6.0,
		ExplosionDuration:  12,
	}

	Explosion = ExplosionConfig{
		Seconds:     0.5,
		StartRadius: 4,
		EndRadius:   28,
		Color:       Orange,
	}

	// defaults, can be overridden by CLI flags
	Debug = DebugConfig{}
}
