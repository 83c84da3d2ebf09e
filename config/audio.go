package config

import (
	"github.com/automoto/gridduel/assets"
	"github.com/automoto/gridduel/shared/sim"
)

// AudioConfig contains audio-related configuration values
type AudioConfig struct {
	SampleRate        int
	DefaultMusicVol   float64
	DefaultSFXVol     float64
	MusicFadeDuration int // frames for music fade out (60 = 1 second at 60fps)
	// MaxDistance is the world distance from the listener at which an
	// effect becomes inaudible.
	MaxDistance float64
}

// SoundConfig maps clips to their synthesis parameters
type SoundConfig struct {
	Clips             map[sim.Clip]assets.Tone
	VolumeMultipliers map[sim.Clip]float64
	MenuMusic         []assets.Note
	MatchMusic        []assets.Note
}

var Audio AudioConfig
var Sound SoundConfig

func init() {
	Audio = AudioConfig{
		SampleRate:        44100,
		DefaultMusicVol:   0.4,
		DefaultSFXVol:     1.0,
		MusicFadeDuration: 60,
		MaxDistance:       20,
	}

	Sound = SoundConfig{
		Clips: map[sim.Clip]assets.Tone{
			sim.ClipLaser: {StartHz: 1400, EndHz: 300, Frames: sim.ClipFrames(sim.ClipLaser), Gain: 0.35},
			sim.ClipDeath: {StartHz: 220, EndHz: 40, Frames: sim.ClipFrames(sim.ClipDeath), Noise: 0.6, Gain: 0.5},
		},
		VolumeMultipliers: map[sim.Clip]float64{
			sim.ClipDeath: 1.2,
		},
		MenuMusic: []assets.Note{
			{Hz: 220, Frames: 15}, {Hz: 277, Frames: 15}, {Hz: 330, Frames: 15}, {Hz: 277, Frames: 15},
			{Hz: 196, Frames: 15}, {Hz: 247, Frames: 15}, {Hz: 294, Frames: 15}, {Hz: 0, Frames: 15},
		},
		MatchMusic: []assets.Note{
			{Hz: 110, Frames: 10}, {Hz: 0, Frames: 5}, {Hz: 110, Frames: 10}, {Hz: 131, Frames: 15},
			{Hz: 98, Frames: 10}, {Hz: 0, Frames: 5}, {Hz: 98, Frames: 10}, {Hz: 147, Frames: 15},
		},
	}
}
