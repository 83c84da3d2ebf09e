package assets

import (
	"encoding/binary"
	"slices"
	"testing"

	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/sim"
)

func TestArenaNames(t *testing.T) {
	names := ArenaNames()
	if len(names) == 0 || names[0] != GeneratedArena {
		t.Fatalf("names = %v, want the lattice first", names)
	}
	for _, want := range []string{"pillars", "cross"} {
		if !slices.Contains(names, want) {
			t.Errorf("embedded arena %q missing from %v", want, names)
		}
	}
}

func TestArenaLookup(t *testing.T) {
	lattice := gridmap.Generate()
	for _, name := range []string{"", GeneratedArena} {
		m, err := Arena(name)
		if err != nil || m != lattice {
			t.Errorf("Arena(%q) did not return the lattice: %v", name, err)
		}
	}

	pillars, err := Arena("pillars")
	if err != nil {
		t.Fatal(err)
	}
	if pillars == lattice || pillars.WallCount() == 0 {
		t.Error("pillars arena is empty or identical to the lattice")
	}

	if _, err := Arena("nowhere"); err == nil {
		t.Error("unknown arena accepted")
	}
}

func TestSimForRoom(t *testing.T) {
	if SimForRoom("lobby").Arena() != gridmap.Generate() {
		t.Error("ordinary room does not play on the lattice")
	}
	pillars, _ := Arena("pillars")
	if SimForRoom("pillars").Arena() != pillars {
		t.Error("room named after an arena does not play on it")
	}
}

func TestSynthesizeToneLength(t *testing.T) {
	const rate = 44100
	tone := Tone{StartHz: 800, EndHz: 200, Frames: sim.ClipFrames(sim.ClipLaser), Gain: 0.5}
	pcm := SynthesizeTone(tone, rate)

	want := int(tone.Frames) * rate / sim.FPS * BytesPerSample
	if len(pcm) != want {
		t.Fatalf("len = %d, want %d", len(pcm), want)
	}

	// both channels carry the same sample and the decay ends near silence
	last := len(pcm) - BytesPerSample
	l := int16(binary.LittleEndian.Uint16(pcm[last:]))
	r := int16(binary.LittleEndian.Uint16(pcm[last+2:]))
	if l != r {
		t.Errorf("channels differ: %d / %d", l, r)
	}
	if l > 100 || l < -100 {
		t.Errorf("tail sample %d is not near silence", l)
	}
}

func TestSynthesizeToneIsRepeatable(t *testing.T) {
	tone := Tone{StartHz: 220, EndHz: 40, Frames: 36, Noise: 0.6, Gain: 0.5}
	if !slices.Equal(SynthesizeTone(tone, 22050), SynthesizeTone(tone, 22050)) {
		t.Error("noise differs between renders")
	}
}

func TestSynthesizeMusic(t *testing.T) {
	const rate = 48000
	notes := []Note{{Hz: 220, Frames: 15}, {Hz: 0, Frames: 30}}
	pcm := SynthesizeMusic(notes, rate)
	if want := 45 * rate / sim.FPS * BytesPerSample; len(pcm) != want {
		t.Fatalf("len = %d, want %d", len(pcm), want)
	}
	// the rest is silent
	rest := pcm[15*rate/sim.FPS*BytesPerSample:]
	for i, b := range rest {
		if b != 0 {
			t.Fatalf("rest has sound at byte %d", i)
		}
	}
	if len(SynthesizeMusic(nil, rate)) != 0 {
		t.Error("empty loop should render no samples")
	}
}
