// Package rollaudio starts sound effects from replicated sound triggers
// without playing them twice when the simulation rolls back and replays.
//
// The simulation stamps each trigger with the frame it should have started
// on and a sub-key drawn from the owner's seed chain. A replay recreates the
// same (clip, sub-key) pair, so remembering which keys already have a
// playback is enough to make starting idempotent.
package rollaudio

import (
	"log"

	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/sim"
)

// MaxSoundDelay is the latest, in frames, a trigger may still be started.
const MaxSoundDelay = 10

// Playback is a started sound.
type Playback interface {
	Stop()
	IsPlaying() bool
}

// Player starts clips. pos is the world position of the sound source.
type Player interface {
	Play(clip sim.Clip, pos gamemath.Vec2) (Playback, error)
}

type entry struct {
	start    uint32
	playback Playback
	// stopped is set when a rollback removed the trigger. The key is kept
	// so a later replay of the same trigger does not restart it.
	stopped bool
}

// Syncer is the non-replicated playback registry. It is not safe for
// concurrent use; call it from the game loop.
type Syncer struct {
	player  Player
	playing map[sim.SoundKey]*entry
	live    map[sim.SoundKey]struct{}

	started int
	late    int
	dropped int
}

func NewSyncer(player Player) *Syncer {
	return &Syncer{
		player:  player,
		playing: make(map[sim.SoundKey]*entry),
		live:    make(map[sim.SoundKey]struct{}),
	}
}

// Sync starts every trigger that has no playback yet and is at most
// MaxSoundDelay frames late. It satisfies the sync half of sim.Observer.
func (s *Syncer) Sync(frame uint32, triggers []sim.SoundTrigger) {
	for _, t := range triggers {
		if !t.Active {
			continue
		}
		key := t.Key()
		if _, ok := s.playing[key]; ok {
			continue
		}

		late := frame - t.Start
		if late > MaxSoundDelay {
			// too stale to matter; remember the decision so it is final
			s.dropped++
			s.playing[key] = &entry{start: t.Start, stopped: true}
			continue
		}
		if late > 0 {
			s.late++
			log.Printf("[audio] playing %v %d frames late", t.Clip, late)
		}

		pb, err := s.player.Play(t.Clip, t.Pos)
		if err != nil {
			log.Printf("[audio] play %v: %v", t.Clip, err)
			continue
		}
		s.started++
		s.playing[key] = &entry{start: t.Start, playback: pb}
	}
}

// Reconcile stops sounds whose trigger no longer exists in the settled state,
// which happens when a rollback shows the triggering event never occurred.
// Call it once per rendered frame with the triggers of the current state.
func (s *Syncer) Reconcile(triggers []sim.SoundTrigger) {
	clear(s.live)
	for _, t := range triggers {
		if t.Active {
			s.live[t.Key()] = struct{}{}
		}
	}
	for key, e := range s.playing {
		if e.stopped {
			continue
		}
		if _, ok := s.live[key]; ok {
			continue
		}
		if e.playback.IsPlaying() {
			e.playback.Stop()
		}
		e.stopped = true
	}
}

// Prune forgets keys that can no longer be started again: older than their
// clip plus the delay tolerance.
func (s *Syncer) Prune(frame uint32) {
	for key, e := range s.playing {
		age := frame - e.start
		if age > sim.ClipFrames(key.Clip)+MaxSoundDelay {
			delete(s.playing, key)
		}
	}
}

// Reset stops every playback and forgets all keys.
func (s *Syncer) Reset() {
	for key, e := range s.playing {
		if !e.stopped && e.playback != nil && e.playback.IsPlaying() {
			e.playback.Stop()
		}
		delete(s.playing, key)
	}
}

// Tracked returns the number of keys in the registry.
func (s *Syncer) Tracked() int {
	return len(s.playing)
}

// Stats reports how many triggers were started, started late and dropped.
func (s *Syncer) Stats() (started, late, dropped int) {
	return s.started, s.late, s.dropped
}
