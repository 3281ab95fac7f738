package audio

import (
	"math"
	"sync/atomic"
)

const twoPi = 2 * math.Pi

const propFrequency = "freq"

// Tone describes a sine tone. Frequency is in Hz and Phase in radians.
type Tone struct {
	Frequency float64
	Phase     float64
}

// Stream implements Streamable.
func (t Tone) Stream() (Generator, ToneControl) {
	ctl := newToneControl(t.Frequency)
	gen := &toneGenerator{
		freq:  ctl.freq,
		phase: wrapPhase(t.Phase),
	}
	return gen, ctl
}

// wrapPhase maps p into [0, 2π).
func wrapPhase(p float64) float64 {
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}

type toneGenerator struct {
	freq  *atomic.Uint64 // angular frequency in radians per second, as float64 bits
	phase float64
}

func (g *toneGenerator) Channels() int { return 1 }
func (g *toneGenerator) Inputs() int   { return 0 }

// Process renders one block. The frequency is read once so that updates land on
// block boundaries, and the phase carries over so consecutive blocks join up.
func (g *toneGenerator) Process(sampleRate float64, out [][]float32) State {
	omega := math.Float64frombits(g.freq.Load())
	n := len(out[0])
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		v := float32(math.Sin(t*omega + g.phase))
		for _, ch := range out {
			ch[i] = v
		}
	}
	g.phase = math.Mod(g.phase+float64(n)/sampleRate*omega, twoPi)
	return Continue
}

// ToneControl changes the frequency of a running tone. Copies share the same
// frequency, and the zero value is inert.
type ToneControl struct {
	freq  *atomic.Uint64
	props *Props
}

func newToneControl(hz float64) ToneControl {
	ctl := ToneControl{freq: new(atomic.Uint64), props: NewProps()}
	ctl.SetFrequency(hz)
	ctl.props.Register(propFrequency,
		func() interface{} { return ctl.Frequency() },
		setFloat64(0, 20_000, ctl.SetFrequency),
	)
	return ctl
}

// Frequency returns the last frequency written, in Hz.
func (c ToneControl) Frequency() float64 {
	if c.freq == nil {
		return 0
	}
	return math.Float64frombits(c.freq.Load()) / twoPi
}

// SetFrequency stores a new frequency in Hz. The generator picks it up at the start
// of its next block. The value is not validated.
func (c ToneControl) SetFrequency(hz float64) {
	if c.freq == nil {
		return
	}
	c.freq.Store(math.Float64bits(hz * twoPi))
}

func (c ToneControl) Set(key string, val interface{}) error { return c.props.Set(key, val) }
func (c ToneControl) Get(key string) (interface{}, error)   { return c.props.Get(key) }
func (c ToneControl) Props() []string                       { return c.props.Props() }

// midiToFreq converts a midi note number to a frequency in Hz.
func midiToFreq(note int) float64 {
	return math.Pow(2, float64(note-69)/12.0) * 440
}

// Note returns a Tone playing the given midi note.
func Note(note int) Tone {
	return Tone{Frequency: midiToFreq(note)}
}
