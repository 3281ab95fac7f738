package audio

// Playback describes playing a decoded buffer from start to end.
type Playback struct {
	Frames *Frames
}

// Stream implements Streamable.
func (p Playback) Stream() (Generator, PlaybackControl) {
	return &playbackGenerator{frames: p.Frames}, PlaybackControl{}
}

type playbackGenerator struct {
	frames *Frames
	cursor int
}

func (g *playbackGenerator) Channels() int { return 2 }
func (g *playbackGenerator) Inputs() int   { return 0 }

// Process copies the next block of frames. Past the end of the buffer it writes
// silence, and it reports Finished once the cursor has reached the end.
func (g *playbackGenerator) Process(_ float64, out [][]float32) State {
	left, right := out[0], out[1]
	n := g.frames.Len()
	for i := range left {
		var frame [2]float32
		if g.cursor < n {
			frame = g.frames.frames[g.cursor]
		}
		left[i] = frame[0]
		right[i] = frame[1]
		g.cursor++
	}
	if g.cursor < n {
		return Continue
	}
	return Finished
}

// PlaybackControl is the control handle of a playback. It has no properties.
type PlaybackControl struct{}

func (PlaybackControl) Set(key string, _ interface{}) error {
	return (*Props)(nil).Set(key, nil)
}

func (PlaybackControl) Get(key string) (interface{}, error) {
	return (*Props)(nil).Get(key)
}

func (PlaybackControl) Props() []string { return nil }
