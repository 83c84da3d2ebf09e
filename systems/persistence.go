package systems

import (
	"encoding/json"
	"log"

	cfg "github.com/automoto/gridduel/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata"
)

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	MusicVolume     float64 `json:"musicVolume"`
	SFXVolume       float64 `json:"sfxVolume"`
	Muted           bool    `json:"muted"`
	Fullscreen      bool    `json:"fullscreen"`
	ResolutionIndex int     `json:"resolutionIndex"`
	RelayAddress    string  `json:"relayAddress,omitempty"`
	Room            string  `json:"room,omitempty"`
	MasterURL       string  `json:"masterUrl,omitempty"`
}

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "gridduel",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	return nil
}

// LoadSettings loads settings from disk. It returns nil when nothing was
// saved yet or persistence is unavailable.
func LoadSettings() (*SavedSettings, error) {
	if gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("settings")
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}
	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}
	if err := gdataManager.SaveItem("settings", data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// SaveCurrentSettings snapshots the live audio, window and network
// settings.
func SaveCurrentSettings() {
	_ = SaveSettings(&SavedSettings{
		MusicVolume:     GetMusicVolume(),
		SFXVolume:       GetSFXVolume(),
		Muted:           IsMuted(),
		Fullscreen:      ebiten.IsFullscreen(),
		ResolutionIndex: currentResolutionIndex,
		RelayAddress:    cfg.Network.RelayAddress,
		Room:            cfg.Network.Room,
		MasterURL:       cfg.Network.MasterServerURL,
	})
}

var currentResolutionIndex = cfg.Settings.DefaultResolutionIndex

// ApplySavedSettingsGlobal applies settings during startup, before any
// scene exists. Command line flags are applied afterwards and win.
func ApplySavedSettingsGlobal(saved *SavedSettings) {
	if saved == nil {
		return
	}

	globalMusicVolume = saved.MusicVolume
	globalSFXVolume = saved.SFXVolume
	globalMuted = saved.Muted

	ebiten.SetFullscreen(saved.Fullscreen)

	if saved.ResolutionIndex >= 0 && saved.ResolutionIndex < len(cfg.Settings.Resolutions) {
		currentResolutionIndex = saved.ResolutionIndex
		if !saved.Fullscreen {
			res := cfg.Settings.Resolutions[saved.ResolutionIndex]
			ebiten.SetWindowSize(res.Width, res.Height)
		}
	}

	if saved.RelayAddress != "" {
		cfg.Network.RelayAddress = saved.RelayAddress
	}
	if saved.Room != "" {
		cfg.Network.Room = saved.Room
	}
	if saved.MasterURL != "" {
		cfg.Network.MasterServerURL = saved.MasterURL
	}
}
