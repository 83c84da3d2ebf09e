package sim

import (
	"testing"

	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/rng"
)

const testSeed = 0x5eed

// recorder collects observer calls.
type recorder struct {
	explosions []Explosion
	synced     []uint32
	triggers   [][]SoundTrigger
}

func (r *recorder) Explosion(ev Explosion) { r.explosions = append(r.explosions, ev) }

func (r *recorder) SyncSounds(frame uint32, triggers []SoundTrigger) {
	r.synced = append(r.synced, frame)
	r.triggers = append(r.triggers, append([]SoundTrigger(nil), triggers...))
}

// scriptedInputs returns a reproducible pseudo-random input sequence.
func scriptedInputs(seed uint64, frames int) [][NumPlayers]input.Bits {
	s := rng.Seed(seed)
	out := make([][NumPlayers]input.Bits, frames)
	for f := range out {
		v := s.Advance()
		// hold inputs for a few frames at a time like a human would
		if f > 0 && v%4 != 0 {
			out[f] = out[f-1]
			continue
		}
		out[f] = [NumPlayers]input.Bits{input.Bits(v & 0x1f), input.Bits((v >> 8) & 0x1f)}
	}
	return out
}

// inRoundState returns a state just after the first round started, on an
// empty arena with the players at the given positions.
func inRoundState(t *testing.T, p0, p1 gamemath.Vec2) (*Sim, *State) {
	t.Helper()
	s := New(gridmap.Map{})
	st := NewState(testSeed)
	s.Step(&st, [NumPlayers]input.Bits{}, nil)
	if st.Round != InRound {
		t.Fatalf("round = %v after first step", st.Round)
	}
	st.Players[0].Pos = p0
	st.Players[1].Pos = p1
	return s, &st
}

func TestStepDeterministic(t *testing.T) {
	inputs := scriptedInputs(99, 3000)
	run := func() State {
		s := NewDefault()
		st := NewState(testSeed)
		for _, in := range inputs {
			s.Step(&st, in, nil)
		}
		return st
	}

	a, b := run(), run()
	if a != b {
		t.Fatal("two runs with identical inputs diverged")
	}
	if a.Checksum() != b.Checksum() {
		t.Fatal("checksums differ for identical states")
	}
	if a.Frame == 0 {
		t.Fatal("frame counter never advanced")
	}
}

func TestRollbackReplayIdempotent(t *testing.T) {
	inputs := scriptedInputs(7, 900)
	s := NewDefault()

	st := NewState(testSeed)
	var saved State
	const rollbackTo = 500
	for f, in := range inputs {
		if f == rollbackTo {
			saved = st
		}
		s.Step(&st, in, nil)
	}
	original := st

	restored := saved
	for _, in := range inputs[rollbackTo:] {
		s.Step(&restored, in, nil)
	}
	if restored != original {
		t.Fatalf("replay from frame %d diverged: checksum %x vs %x",
			rollbackTo, restored.Checksum(), original.Checksum())
	}
}

func TestChecksumSensitive(t *testing.T) {
	st := NewState(testSeed)
	base := st.Checksum()
	st.Players[1].Pos.X += 0.001
	if st.Checksum() == base {
		t.Fatal("checksum ignored a position change")
	}
}

func TestFirstStepStartsRound(t *testing.T) {
	s := NewDefault()
	st := NewState(testSeed)
	s.Step(&st, [NumPlayers]input.Bits{}, nil)

	if st.Round != InRound {
		t.Fatalf("round = %v", st.Round)
	}
	if st.Map != gridmap.Generate() {
		t.Fatal("arena not generated")
	}
	if st.Frame != 0 {
		t.Fatalf("frame = %d, want 0 until the first in-round step", st.Frame)
	}
	var cells [NumPlayers][2]int
	for h, p := range st.Players {
		if !p.Alive || !p.BulletReady {
			t.Fatalf("player %d spawned as %+v", h, p)
		}
		x, y, ok := gridmap.WorldToGrid(p.Pos)
		if !ok || st.Map.IsWall(x, y) {
			t.Fatalf("player %d spawned in wall or outside at %v", h, p.Pos)
		}
		if Blocked(&st.Map, p.Pos) {
			t.Fatalf("player %d spawned overlapping a wall", h)
		}
		cells[h] = [2]int{x, y}
	}
	if cells[0] == cells[1] {
		t.Fatal("players share a spawn cell")
	}
	if st.Players[0].Dir != (gamemath.Vec2{X: -1}) || st.Players[1].Dir != (gamemath.Vec2{X: 1}) {
		t.Fatal("spawn facing wrong")
	}
}

func TestSpawnFallsBackWhenArenaNearlyFull(t *testing.T) {
	var full gridmap.Map
	for x := 0; x < gridmap.Size; x++ {
		for y := 0; y < gridmap.Size; y++ {
			full.SetCell(x, y, gridmap.Wall)
		}
	}
	full.SetCell(3, 7, gridmap.Empty)
	full.SetCell(30, 2, gridmap.Empty)

	s := New(full)
	st := NewState(testSeed)
	s.Step(&st, [NumPlayers]input.Bits{}, nil)

	a, b := gridmap.GridToWorld(3, 7), gridmap.GridToWorld(30, 2)
	got0, got1 := st.Players[0].Pos, st.Players[1].Pos
	if !(got0 == a && got1 == b) && !(got0 == b && got1 == a) {
		t.Fatalf("spawned at %v and %v, want the two free cells", got0, got1)
	}
}

func TestMovementAndClamp(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: 19.95, Y: 0}, gamemath.Vec2{X: -5, Y: -5})

	s.Step(st, [NumPlayers]input.Bits{input.Right, input.Blank}, nil)
	if st.Players[0].Pos.X != PositionLimit {
		t.Fatalf("x = %v, want clamp at %v", st.Players[0].Pos.X, PositionLimit)
	}
	if st.Players[1].Pos != (gamemath.Vec2{X: -5, Y: -5}) {
		t.Fatal("idle player moved")
	}
	if st.Players[1].Dir != (gamemath.Vec2{X: 1}) {
		t.Fatal("idle input changed facing")
	}

	s.Step(st, [NumPlayers]input.Bits{input.Up, input.Down | input.Left}, nil)
	if st.Players[0].Dir != (gamemath.Vec2{Y: 1}) {
		t.Fatalf("facing = %v", st.Players[0].Dir)
	}
	want := gamemath.Vec2{X: -5, Y: -5}.Add((input.Down | input.Left).Direction().Scale(MoveSpeed))
	if st.Players[1].Pos != want {
		t.Fatalf("diagonal move = %v, want %v", st.Players[1].Pos, want)
	}
}

func TestCornerSlide(t *testing.T) {
	// wall at (11,11) touches cell (10,10) only at its top right corner
	var m gridmap.Map
	m.SetCell(11, 11, gridmap.Wall)
	centre := gridmap.GridToWorld(10, 10)
	delta := (input.Up | input.Right).Direction().Scale(MoveSpeed)

	tests := []struct {
		name   string
		offset gamemath.Vec2
		want   func(start gamemath.Vec2) gamemath.Vec2
	}{
		{
			name:   "larger vertical offset slides vertically",
			offset: gamemath.Vec2{X: 0.01, Y: 0.03},
			want: func(start gamemath.Vec2) gamemath.Vec2 {
				return gamemath.Vec2{X: start.X, Y: start.Y + delta.Y}
			},
		},
		{
			name:   "larger horizontal offset slides horizontally",
			offset: gamemath.Vec2{X: 0.03, Y: 0.01},
			want: func(start gamemath.Vec2) gamemath.Vec2 {
				return gamemath.Vec2{X: start.X + delta.X, Y: start.Y}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := centre.Add(tt.offset)
			if Blocked(&m, start) {
				t.Fatal("start position already overlaps the wall")
			}
			got := MoveBody(&m, start, delta)
			if got != tt.want(start) {
				t.Fatalf("MoveBody = %v, want %v", got, tt.want(start))
			}
		})
	}
}

func TestWallBlocksAxis(t *testing.T) {
	var m gridmap.Map
	m.SetCell(11, 10, gridmap.Wall)
	start := gridmap.GridToWorld(10, 10).Add(gamemath.Vec2{X: 0.04})
	delta := (input.Up | input.Right).Direction().Scale(MoveSpeed)

	got := MoveBody(&m, start, delta)
	if got.X != start.X {
		t.Fatalf("moved into the wall: x %v -> %v", start.X, got.X)
	}
	if got.Y != start.Y+delta.Y {
		t.Fatalf("did not slide along the wall: y %v -> %v", start.Y, got.Y)
	}
}

func TestFireAndReload(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -10, Y: 0}, gamemath.Vec2{X: 10, Y: 10})
	fire := [NumPlayers]input.Bits{input.Fire, input.Blank}
	idle := [NumPlayers]input.Bits{}

	s.Step(st, fire, nil)
	if st.LiveBullets() != 1 || st.Players[0].BulletReady {
		t.Fatalf("bullets = %d ready = %v after first press", st.LiveBullets(), st.Players[0].BulletReady)
	}

	// holding fire does not fire again
	for i := 0; i < 5; i++ {
		s.Step(st, fire, nil)
	}
	if st.LiveBullets() != 1 {
		t.Fatalf("held fire produced %d bullets", st.LiveBullets())
	}

	s.Step(st, idle, nil)
	if !st.Players[0].BulletReady {
		t.Fatal("release did not reload")
	}
	s.Step(st, fire, nil)
	if st.LiveBullets() != 2 {
		t.Fatalf("second press produced %d bullets", st.LiveBullets())
	}

	var lasers []SoundTrigger
	for _, tr := range st.ActiveSounds(nil) {
		if tr.Clip == ClipLaser {
			lasers = append(lasers, tr)
		}
	}
	if len(lasers) != 2 {
		t.Fatalf("laser triggers = %d", len(lasers))
	}
	if lasers[0].SubKey == lasers[1].SubKey {
		t.Fatal("overlapping lasers share a sub-key")
	}
	if lasers[0].Start != 0 || lasers[1].Start != 7 {
		t.Fatalf("trigger frames = %d, %d", lasers[0].Start, lasers[1].Start)
	}

	// the bullet leaves along the facing direction
	for _, b := range st.Bullets {
		if b.Alive && b.Dir != (gamemath.Vec2{X: -1}) {
			t.Fatalf("bullet dir = %v", b.Dir)
		}
	}
}

func TestSoundSubKeysFollowSeedChain(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -10}, gamemath.Vec2{X: 10})
	want := rng.SoundSeed(testSeed, 1)
	s.Step(st, [NumPlayers]input.Bits{input.Blank, input.Fire}, nil)

	expected := want.Advance()
	triggers := st.ActiveSounds(nil)
	if len(triggers) != 1 || triggers[0].SubKey != expected || triggers[0].Owner != 1 {
		t.Fatalf("triggers = %+v, want sub-key %d", triggers, expected)
	}
	if st.SoundSeeds[1] != want || st.SoundSeeds[0] != rng.SoundSeed(testSeed, 0) {
		t.Fatal("sound seeds advanced for the wrong player")
	}
}

func TestSoundTriggersExpire(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -10}, gamemath.Vec2{X: 10})
	rec := &recorder{}
	s.Step(st, [NumPlayers]input.Bits{input.Fire, input.Blank}, rec)

	frames := int(ClipFrames(ClipLaser))
	for i := 1; i < frames; i++ {
		s.Step(st, [NumPlayers]input.Bits{}, rec)
	}
	if len(st.ActiveSounds(nil)) != 1 {
		t.Fatal("trigger expired early")
	}
	s.Step(st, [NumPlayers]input.Bits{}, rec)
	if len(st.ActiveSounds(nil)) != 0 {
		t.Fatal("trigger outlived its clip")
	}

	// sync sees the trigger on the frame it was stamped
	if rec.synced[0] != 0 || len(rec.triggers[0]) != 1 {
		t.Fatalf("first sync = frame %d with %d triggers", rec.synced[0], len(rec.triggers[0]))
	}
	last := len(rec.triggers) - 1
	if len(rec.triggers[last]) != 0 {
		t.Fatal("expired trigger still synced")
	}
}

func TestBulletBoundsCleanup(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -10}, gamemath.Vec2{X: 10})
	st.Bullets[0] = Bullet{Alive: true, Pos: gamemath.Vec2{X: 20.3, Y: 5}, Dir: gamemath.Vec2{X: 1}}
	st.Bullets[1] = Bullet{Alive: true, Pos: gamemath.Vec2{X: 19.9, Y: 5}, Dir: gamemath.Vec2{X: 1}}
	st.Bullets[2] = Bullet{Alive: true, Pos: gamemath.Vec2{X: 0, Y: -20.2}, Dir: gamemath.Vec2{Y: -1}}

	s.Step(st, [NumPlayers]input.Bits{}, nil)

	if st.Bullets[0].Alive {
		t.Error("bullet past +x edge survived")
	}
	if !st.Bullets[1].Alive {
		t.Error("bullet still inside the arena was removed")
	}
	if st.Bullets[2].Alive {
		t.Error("bullet past -y edge survived")
	}
}

func TestBulletStopsAtWall(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -10}, gamemath.Vec2{X: 10})
	st.Map.SetCell(25, 20, gridmap.Wall) // world x 5, y 0
	st.Bullets[0] = Bullet{Alive: true, Pos: gamemath.Vec2{X: 4.3}, Dir: gamemath.Vec2{X: 1}}

	s.Step(st, [NumPlayers]input.Bits{}, nil)
	if st.Bullets[0].Alive {
		t.Fatalf("bullet at %v inside a wall survived", st.Bullets[0].Pos)
	}
}

func TestScoring(t *testing.T) {
	tests := []struct {
		name       string
		hit        [NumPlayers]bool
		wantScores [NumPlayers]uint32
	}{
		{"player 0 dies", [NumPlayers]bool{true, false}, [NumPlayers]uint32{0, 1}},
		{"player 1 dies", [NumPlayers]bool{false, true}, [NumPlayers]uint32{1, 0}},
		{"trade", [NumPlayers]bool{true, true}, [NumPlayers]uint32{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st := inRoundState(t, gamemath.Vec2{X: -5}, gamemath.Vec2{X: 5})
			// bullets one step short of each player, moving into them
			for h, hit := range tt.hit {
				if !hit {
					continue
				}
				p := st.Players[h].Pos
				st.Bullets[h] = Bullet{Alive: true, Pos: gamemath.Vec2{X: p.X - 0.3, Y: p.Y}, Dir: gamemath.Vec2{X: 1}}
			}

			rec := &recorder{}
			idle := [NumPlayers]input.Bits{}
			s.Step(st, idle, rec)

			for h, hit := range tt.hit {
				if st.Players[h].Marked != hit {
					t.Fatalf("player %d marked = %v", h, st.Players[h].Marked)
				}
				if !st.Players[h].Alive {
					t.Fatalf("player %d despawned before the mark elapsed", h)
				}
			}
			if len(rec.explosions) != countTrue(tt.hit) {
				t.Fatalf("explosions = %d", len(rec.explosions))
			}
			if st.LiveBullets() != 0 {
				t.Fatal("hitting bullet not removed")
			}

			// the mark frame counts as the first of DeathMarkFrames
			for step := 2; step < DeathMarkFrames; step++ {
				s.Step(st, idle, rec)
				if st.Round != InRound {
					t.Fatalf("round ended after %d frames", step)
				}
			}
			s.Step(st, idle, rec)
			if st.Round != RoundEnd {
				t.Fatalf("round = %v after the death mark", st.Round)
			}
			if st.Scores != tt.wantScores {
				t.Fatalf("scores = %v, want %v", st.Scores, tt.wantScores)
			}
			for h, hit := range tt.hit {
				if st.Players[h].Alive == hit {
					t.Fatalf("player %d alive = %v after round end", h, st.Players[h].Alive)
				}
			}
			if len(st.ActiveSounds(nil)) != 0 {
				t.Fatal("sound triggers survived the round end")
			}
		})
	}
}

func TestMarkedPlayerIsFrozen(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -5}, gamemath.Vec2{X: 5})
	st.Players[0].Marked = true
	st.Players[0].DeathTimer = DeathMarkFrames
	start := st.Players[0].Pos

	s.Step(st, [NumPlayers]input.Bits{input.Up | input.Fire, input.Blank}, nil)
	if st.Players[0].Pos != start || st.LiveBullets() != 0 {
		t.Fatal("marked player moved or fired")
	}
}

func TestRoundCycle(t *testing.T) {
	s, st := inRoundState(t, gamemath.Vec2{X: -5}, gamemath.Vec2{X: 5})
	st.Players[1].Marked = true
	st.Players[1].DeathTimer = 1
	idle := [NumPlayers]input.Bits{}

	s.Step(st, idle, nil)
	if st.Round != RoundEnd {
		t.Fatalf("round = %v", st.Round)
	}
	frameAtEnd := st.Frame
	spawnSeed := st.SpawnSeed

	for i := 1; i < RoundEndFrames; i++ {
		s.Step(st, idle, nil)
		if st.Round != RoundEnd {
			t.Fatalf("round end lasted %d frames", i)
		}
	}
	s.Step(st, idle, nil)
	if st.Round != PreRound {
		t.Fatalf("round = %v after the round end timer", st.Round)
	}
	if st.Frame != frameAtEnd {
		t.Fatal("frame counter advanced outside InRound")
	}

	s.Step(st, idle, nil)
	if st.Round != InRound || st.AlivePlayers() != NumPlayers {
		t.Fatalf("new round not started: %v with %d players", st.Round, st.AlivePlayers())
	}
	if st.SpawnSeed == spawnSeed {
		t.Fatal("spawn seed did not advance for the new round")
	}
	if st.Scores != [NumPlayers]uint32{1, 0} {
		t.Fatalf("scores = %v", st.Scores)
	}
}

func countTrue(bs [NumPlayers]bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
