package sim

import "github.com/automoto/gridduel/shared/gamemath"

// Clip identifies a sound effect. Clip lengths are part of the rules because
// trigger expiry is replicated.
type Clip uint8

const (
	ClipNone Clip = iota
	ClipLaser
	ClipDeath
	ClipCount
)

var clipNames = [ClipCount]string{"none", "laser", "death"}

func (c Clip) String() string {
	if c < ClipCount {
		return clipNames[c]
	}
	return "unknown"
}

var clipFrames = [ClipCount]uint32{
	ClipLaser: 18,
	ClipDeath: 36,
}

// ClipFrames is the clip's duration in simulation frames.
func ClipFrames(c Clip) uint32 {
	if c < ClipCount {
		return clipFrames[c]
	}
	return 0
}

// addSound stamps a trigger for clip on the current frame. The owner's sound
// seed advances even when every slot is taken so the chain stays in step.
func (st *State) addSound(clip Clip, owner int, pos gamemath.Vec2) {
	subKey := st.SoundSeeds[owner].Advance()
	for i := range st.Sounds {
		if st.Sounds[i].Active {
			continue
		}
		st.Sounds[i] = SoundTrigger{
			Active: true,
			Clip:   clip,
			Owner:  uint8(owner),
			Start:  st.Frame,
			SubKey: subKey,
			Pos:    pos,
		}
		return
	}
}

// removeFinishedSounds drops triggers whose clip has played out.
func (st *State) removeFinishedSounds() {
	for i := range st.Sounds {
		t := &st.Sounds[i]
		if !t.Active {
			continue
		}
		if st.Frame-t.Start >= ClipFrames(t.Clip) {
			*t = SoundTrigger{}
		}
	}
}

func (st *State) clearSounds() {
	st.Sounds = [MaxSounds]SoundTrigger{}
}
