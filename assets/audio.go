package assets

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/automoto/gridduel/shared/sim"
)

// BytesPerSample is one 16-bit little-endian stereo frame.
const BytesPerSample = 4

// Tone describes a synthesized clip: a sweep from StartHz to EndHz with a
// linear decay, optionally mixed with noise.
type Tone struct {
	StartHz float64
	EndHz   float64
	Frames  uint32 // length in simulation frames
	Noise   float64
	Gain    float64
}

// Note is one step of a music loop. Zero Hz is a rest.
type Note struct {
	Hz     float64
	Frames int
}

// samplesFor converts simulation frames to output samples.
func samplesFor(frames int, sampleRate int) int {
	return frames * sampleRate / sim.FPS
}

// SynthesizeTone renders a decaying frequency sweep. The clip lasts exactly
// tone.Frames simulation frames so the audible sound ends when its trigger
// expires.
func SynthesizeTone(tone Tone, sampleRate int) []byte {
	n := samplesFor(int(tone.Frames), sampleRate)
	out := make([]byte, n*BytesPerSample)
	noise := rand.New(rand.NewPCG(uint64(tone.StartHz), uint64(tone.EndHz)))

	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		hz := tone.StartHz + (tone.EndHz-tone.StartHz)*p
		phase += 2 * math.Pi * hz / float64(sampleRate)

		v := math.Sin(phase)*(1-tone.Noise) + (noise.Float64()*2-1)*tone.Noise
		v *= tone.Gain * (1 - p)
		putSample(out[i*BytesPerSample:], v)
	}
	return out
}

// SynthesizeMusic renders one pass of a square-wave note loop.
func SynthesizeMusic(notes []Note, sampleRate int) []byte {
	total := 0
	for _, note := range notes {
		total += samplesFor(note.Frames, sampleRate)
	}
	out := make([]byte, total*BytesPerSample)

	offset := 0
	for _, note := range notes {
		n := samplesFor(note.Frames, sampleRate)
		// short ramps keep note boundaries from clicking
		ramp := min(n/8, sampleRate/200)
		for i := 0; i < n; i++ {
			v := 0.0
			if note.Hz > 0 {
				if math.Sin(2*math.Pi*note.Hz*float64(i)/float64(sampleRate)) >= 0 {
					v = 0.2
				} else {
					v = -0.2
				}
				switch {
				case i < ramp:
					v *= float64(i) / float64(ramp)
				case i >= n-ramp:
					v *= float64(n-i) / float64(ramp)
				}
			}
			putSample(out[(offset+i)*BytesPerSample:], v)
		}
		offset += n
	}
	return out
}

// putSample writes v in [-1, 1] to both channels.
func putSample(b []byte, v float64) {
	v = max(-1, min(1, v))
	s := uint16(int16(v * math.MaxInt16))
	binary.LittleEndian.PutUint16(b[0:], s)
	binary.LittleEndian.PutUint16(b[2:], s)
}
