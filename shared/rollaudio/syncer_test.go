package rollaudio

import (
	"errors"
	"testing"

	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
)

type fakePlayback struct {
	playing bool
}

func (p *fakePlayback) Stop()           { p.playing = false }
func (p *fakePlayback) IsPlaying() bool { return p.playing }

type fakePlayer struct {
	plays []sim.Clip
	made  []*fakePlayback
	fail  bool
}

func (f *fakePlayer) Play(clip sim.Clip, _ gamemath.Vec2) (Playback, error) {
	if f.fail {
		return nil, errors.New("no device")
	}
	pb := &fakePlayback{playing: true}
	f.plays = append(f.plays, clip)
	f.made = append(f.made, pb)
	return pb, nil
}

func trigger(clip sim.Clip, start uint32, subKey uint64) sim.SoundTrigger {
	return sim.SoundTrigger{Active: true, Clip: clip, Start: start, SubKey: subKey}
}

func TestLateToleranceBoundary(t *testing.T) {
	tests := []struct {
		name     string
		late     uint32
		wantPlay bool
	}{
		{"on time", 0, true},
		{"one frame late", 1, true},
		{"at threshold", MaxSoundDelay, true},
		{"one past threshold", MaxSoundDelay + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePlayer{}
			s := NewSyncer(p)
			tr := trigger(sim.ClipLaser, 100, 1)
			s.Sync(100+tt.late, []sim.SoundTrigger{tr})
			if got := len(p.plays) == 1; got != tt.wantPlay {
				t.Fatalf("played = %v, want %v", got, tt.wantPlay)
			}
		})
	}
}

func TestStaleTriggerNeverStarts(t *testing.T) {
	p := &fakePlayer{}
	s := NewSyncer(p)
	tr := trigger(sim.ClipDeath, 0, 9)

	s.Sync(MaxSoundDelay+1, []sim.SoundTrigger{tr})
	// a rollback replaying the trigger's own frame must not resurrect it
	s.Sync(0, []sim.SoundTrigger{tr})
	if len(p.plays) != 0 {
		t.Fatalf("stale trigger played %d times", len(p.plays))
	}
	if _, _, dropped := s.Stats(); dropped != 1 {
		t.Fatalf("dropped = %d", dropped)
	}
}

func TestReplayDoesNotRestart(t *testing.T) {
	p := &fakePlayer{}
	s := NewSyncer(p)
	a := trigger(sim.ClipLaser, 5, 1)
	b := trigger(sim.ClipLaser, 6, 2) // same clip, overlapping instance

	for pass := 0; pass < 3; pass++ {
		s.Sync(5, []sim.SoundTrigger{a})
		s.Sync(6, []sim.SoundTrigger{a, b})
		s.Sync(7, []sim.SoundTrigger{a, b})
	}
	if len(p.plays) != 2 {
		t.Fatalf("plays = %d, want 2", len(p.plays))
	}
	if s.Tracked() != 2 {
		t.Fatalf("tracked = %d", s.Tracked())
	}
}

func TestInactiveTriggersIgnored(t *testing.T) {
	p := &fakePlayer{}
	s := NewSyncer(p)
	s.Sync(0, []sim.SoundTrigger{{Clip: sim.ClipLaser, SubKey: 3}})
	if len(p.plays) != 0 {
		t.Fatal("inactive trigger played")
	}
}

func TestPlayErrorRetriesNextFrame(t *testing.T) {
	p := &fakePlayer{fail: true}
	s := NewSyncer(p)
	tr := trigger(sim.ClipLaser, 0, 4)

	s.Sync(0, []sim.SoundTrigger{tr})
	p.fail = false
	s.Sync(1, []sim.SoundTrigger{tr})
	if len(p.plays) != 1 {
		t.Fatalf("plays = %d", len(p.plays))
	}
	if _, late, _ := s.Stats(); late != 1 {
		t.Fatalf("late = %d", late)
	}
}

func TestReconcileStopsCancelledSounds(t *testing.T) {
	p := &fakePlayer{}
	s := NewSyncer(p)
	kept := trigger(sim.ClipLaser, 3, 1)
	cancelled := trigger(sim.ClipDeath, 3, 2)

	s.Sync(3, []sim.SoundTrigger{kept, cancelled})
	s.Reconcile([]sim.SoundTrigger{kept})

	if !p.made[0].IsPlaying() {
		t.Fatal("live sound stopped")
	}
	if p.made[1].IsPlaying() {
		t.Fatal("cancelled sound still playing")
	}

	// the trigger reappearing does not restart it
	s.Sync(4, []sim.SoundTrigger{kept, cancelled})
	if len(p.plays) != 2 {
		t.Fatalf("plays = %d", len(p.plays))
	}
}

func TestPruneAndReset(t *testing.T) {
	p := &fakePlayer{}
	s := NewSyncer(p)
	old := trigger(sim.ClipLaser, 0, 1)
	fresh := trigger(sim.ClipLaser, 40, 2)
	s.Sync(0, []sim.SoundTrigger{old})
	s.Sync(40, []sim.SoundTrigger{fresh})

	s.Prune(40)
	if s.Tracked() != 1 {
		t.Fatalf("tracked after prune = %d", s.Tracked())
	}

	s.Reset()
	if s.Tracked() != 0 {
		t.Fatal("reset kept keys")
	}
	if p.made[1].IsPlaying() {
		t.Fatal("reset did not stop playback")
	}
}

func TestResetEndsSession(t *testing.T) {
	p := &fakePlayer{}
	s := NewSyncer(p)
	a := trigger(sim.ClipLaser, 5, 1)
	b := trigger(sim.ClipDeath, 6, 2)
	s.Sync(6, []sim.SoundTrigger{a, b})

	// a cancelled trigger keeps its key until the session ends
	s.Reconcile([]sim.SoundTrigger{b})
	s.Reset()
	for i, pb := range p.made {
		if pb.IsPlaying() {
			t.Errorf("playback %d still playing after reset", i)
		}
	}

	// a rematch from the same seed reproduces the same keys, which must
	// play again
	s.Sync(5, []sim.SoundTrigger{a})
	if len(p.plays) != 3 {
		t.Fatalf("plays = %d, want 3", len(p.plays))
	}
}

// syncObserver feeds simulation steps into a syncer.
type syncObserver struct {
	sim.NopObserver
	s *Syncer
}

func (o syncObserver) SyncSounds(frame uint32, triggers []sim.SoundTrigger) {
	o.s.Sync(frame, triggers)
}

func TestSimulationRollbackPlaysOnce(t *testing.T) {
	p := &fakePlayer{}
	obs := syncObserver{s: NewSyncer(p)}
	game := sim.NewDefault()
	st := sim.NewState(11)

	inputs := []input.Bits{input.Blank, input.Fire, input.Fire, input.Blank, input.Fire, input.Blank}
	step := func(st *sim.State, in input.Bits) {
		game.Step(st, [sim.NumPlayers]input.Bits{in, in}, obs)
	}

	step(&st, input.Blank) // pre-round
	saved := st
	for _, in := range inputs {
		step(&st, in)
	}
	first := len(p.plays)
	if first != 4 {
		t.Fatalf("first pass plays = %d, want 4", first)
	}

	// roll back and replay the same frames twice
	for i := 0; i < 2; i++ {
		replay := saved
		for _, in := range inputs {
			step(&replay, in)
		}
	}
	if len(p.plays) != first {
		t.Fatalf("replays started %d extra sounds", len(p.plays)-first)
	}
}
