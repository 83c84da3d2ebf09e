package systems

import (
	"bytes"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/gridduel/assets"
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/rollaudio"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// MusicTrack names a synthesized loop.
type MusicTrack string

const (
	MusicNone  MusicTrack = ""
	MusicMenu  MusicTrack = "menu"
	MusicMatch MusicTrack = "match"
)

// Global audio state - created once and shared across all scenes
var (
	globalAudioContext *audio.Context
	globalAudioLoader  *audioLoader
	globalMusicPlayer  *audio.Player
	globalMusicKey     MusicTrack
	globalMusicVolume  float64 = cfg.Audio.DefaultMusicVol
	globalSFXVolume    float64 = cfg.Audio.DefaultSFXVol
	globalMuted        bool
	globalFadeTimer    int
	globalFadeDuration int
	globalFadeStart    float64
	audioInitOnce      sync.Once
)

func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = audio.NewContext(cfg.Audio.SampleRate)
		globalAudioLoader = newAudioLoader(globalAudioContext)
	})
}

// audioLoader renders clips once and hands out a fresh player per start.
type audioLoader struct {
	context  *audio.Context
	sfxCache map[sim.Clip][]byte
}

func newAudioLoader(ctx *audio.Context) *audioLoader {
	return &audioLoader{context: ctx, sfxCache: make(map[sim.Clip][]byte)}
}

func (l *audioLoader) preload(clip sim.Clip) error {
	if _, ok := l.sfxCache[clip]; ok {
		return nil
	}
	tone, ok := cfg.Sound.Clips[clip]
	if !ok {
		return fmt.Errorf("no tone for clip %d", clip)
	}
	l.sfxCache[clip] = assets.SynthesizeTone(tone, l.context.SampleRate())
	return nil
}

func (l *audioLoader) loadSFX(clip sim.Clip) (*audio.Player, error) {
	if err := l.preload(clip); err != nil {
		return nil, err
	}
	return l.context.NewPlayer(bytes.NewReader(l.sfxCache[clip]))
}

func (l *audioLoader) loadMusic(track MusicTrack) (*audio.Player, error) {
	var notes []assets.Note
	switch track {
	case MusicMenu:
		notes = cfg.Sound.MenuMusic
	case MusicMatch:
		notes = cfg.Sound.MatchMusic
	}
	pcm := assets.SynthesizeMusic(notes, l.context.SampleRate())
	if len(pcm) == 0 {
		return nil, fmt.Errorf("music %q is empty", track)
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	return l.context.NewPlayer(loop)
}

// PreloadAllSFX renders every clip at startup so the first shot has no lag.
func PreloadAllSFX() {
	initGlobalAudio()
	for clip := range cfg.Sound.Clips {
		if err := globalAudioLoader.preload(clip); err != nil {
			log.Printf("[audio] %v", err)
		}
	}
}

// sfxPlayback wraps an ebiten player as a rollaudio.Playback.
type sfxPlayback struct {
	player *audio.Player
	closed bool
}

func (p *sfxPlayback) Stop() {
	if p.closed {
		return
	}
	p.player.Pause()
	_ = p.player.Close()
	p.closed = true
}

func (p *sfxPlayback) IsPlaying() bool {
	return !p.closed && p.player.IsPlaying()
}

// silentPlayback stands in for a trigger too quiet to be worth a player.
// The syncer still records it so the trigger is not retried.
type silentPlayback struct{}

func (silentPlayback) Stop()           {}
func (silentPlayback) IsPlaying() bool { return false }

// sfxPlayer starts clips at the global SFX volume, attenuated by the
// distance from the world's listener.
type sfxPlayer struct {
	world donburi.World
}

func (s *sfxPlayer) Play(clip sim.Clip, pos gamemath.Vec2) (rollaudio.Playback, error) {
	volume := effectiveSFXVolume()
	if mult, ok := cfg.Sound.VolumeMultipliers[clip]; ok {
		volume *= mult
	}
	if entry, ok := components.Audio.First(s.world); ok {
		data := components.Audio.Get(entry)
		if data.HasListener {
			volume *= rollaudio.Attenuation(data.Listener, pos, float32(cfg.Audio.MaxDistance))
		}
	}
	if volume <= 0 {
		return silentPlayback{}, nil
	}

	player, err := globalAudioLoader.loadSFX(clip)
	if err != nil {
		return nil, err
	}
	player.SetVolume(min(volume, 1))
	player.Play()
	return &sfxPlayback{player: player}, nil
}

// UpdateAudio runs the music fade and settles effect playbacks against the
// triggers in the current match state.
func UpdateAudio(e *ecs.ECS) {
	initGlobalAudio()

	if globalFadeTimer > 0 {
		globalFadeTimer--
		if globalFadeDuration > 0 && globalMusicPlayer != nil {
			progress := float64(globalFadeTimer) / float64(globalFadeDuration)
			globalMusicPlayer.SetVolume(globalFadeStart * progress)
		}
		if globalFadeTimer == 0 {
			StopMusic(e)
		}
	}

	entry, ok := components.Audio.First(e.World)
	if !ok {
		return
	}
	data := components.Audio.Get(entry)
	match, ok := components.Match.First(e.World)
	if !ok {
		return
	}
	st := components.Match.Get(match).State
	if st == nil {
		return
	}

	local := components.Match.Get(match).LocalHandle
	if p := st.Players[local]; p.Alive || p.Marked {
		data.Listener = p.Pos
		data.HasListener = true
	}

	var buf [sim.MaxSounds]sim.SoundTrigger
	data.Syncer.Reconcile(st.ActiveSounds(buf[:0]))
	data.Syncer.Prune(st.Frame)
}

// StopSoundEffects ends the session's effects: every playback the syncer
// started is stopped and its keys are forgotten.
func StopSoundEffects(e *ecs.ECS) {
	if entry, ok := components.Audio.First(e.World); ok {
		components.Audio.Get(entry).Syncer.Reset()
	}
}

// PlayMusic starts the given loop unless it is already playing.
func PlayMusic(e *ecs.ECS, track MusicTrack) {
	initGlobalAudio()
	if globalMusicKey == track && globalFadeTimer == 0 {
		return
	}
	if globalMusicPlayer != nil {
		_ = globalMusicPlayer.Close()
	}

	player, err := globalAudioLoader.loadMusic(track)
	if err != nil {
		log.Printf("[audio] %v", err)
		globalMusicPlayer = nil
		globalMusicKey = MusicNone
		return
	}
	player.SetVolume(effectiveMusicVolume())
	player.Play()

	globalMusicPlayer = player
	globalMusicKey = track
	globalFadeTimer = 0
}

// FadeOutMusic starts a music fade out transition
func FadeOutMusic(e *ecs.ECS) {
	if globalMusicPlayer == nil {
		return
	}
	globalFadeTimer = cfg.Audio.MusicFadeDuration
	globalFadeDuration = cfg.Audio.MusicFadeDuration
	globalFadeStart = effectiveMusicVolume()
}

// StopMusic immediately stops the current music
func StopMusic(e *ecs.ECS) {
	if globalMusicPlayer != nil {
		_ = globalMusicPlayer.Close()
		globalMusicPlayer = nil
	}
	globalMusicKey = MusicNone
	globalFadeTimer = 0
}

func effectiveMusicVolume() float64 {
	if globalMuted {
		return 0
	}
	return globalMusicVolume
}

func effectiveSFXVolume() float64 {
	if globalMuted {
		return 0
	}
	return globalSFXVolume
}

// SetMusicVolume changes the music volume (0.0 - 1.0)
func SetMusicVolume(volume float64) {
	globalMusicVolume = volume
	if globalMusicPlayer != nil && globalFadeTimer == 0 {
		globalMusicPlayer.SetVolume(effectiveMusicVolume())
	}
}

// SetSFXVolume changes the SFX volume (0.0 - 1.0)
func SetSFXVolume(volume float64) {
	globalSFXVolume = volume
}

// SetMuted silences all audio without losing the volume levels.
func SetMuted(muted bool) {
	globalMuted = muted
	if globalMusicPlayer != nil && globalFadeTimer == 0 {
		globalMusicPlayer.SetVolume(effectiveMusicVolume())
	}
}

func GetMusicVolume() float64 { return globalMusicVolume }
func GetSFXVolume() float64   { return globalSFXVolume }
func IsMuted() bool           { return globalMuted }

// GetOrCreateAudio returns the singleton Audio component for this ECS, creating it if needed
func GetOrCreateAudio(e *ecs.ECS) *components.AudioData {
	initGlobalAudio()

	entry, ok := components.Audio.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Audio))
		components.Audio.SetValue(entry, components.AudioData{
			Syncer: rollaudio.NewSyncer(&sfxPlayer{world: e.World}),
		})
	}
	return components.Audio.Get(entry)
}
