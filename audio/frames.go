package audio

import (
	"errors"
	"fmt"
)

// ErrUnsupportedChannels is returned when building frames from anything other than
// one or two channels.
var ErrUnsupportedChannels = errors.New("only mono and stereo input is supported")

// Frames is an immutable sequence of stereo frames. A single Frames value can be
// shared by any number of playback generators.
type Frames struct {
	frames [][2]float32
}

// NewFrames builds frames from per-channel sample slices. Mono input is copied to
// both channels, stereo input is zipped frame by frame.
func NewFrames(channels [][]float32) (*Frames, error) {
	switch len(channels) {
	case 1:
		return MonoFrames(channels[0]), nil
	case 2:
		return StereoFrames(channels[0], channels[1])
	default:
		return nil, fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, len(channels))
	}
}

// MonoFrames duplicates every sample into the left and right channel.
func MonoFrames(samples []float32) *Frames {
	f := &Frames{frames: make([][2]float32, len(samples))}
	for i, s := range samples {
		f.frames[i] = [2]float32{s, s}
	}
	return f
}

// StereoFrames zips left and right into frames. Both channels must have the same length.
func StereoFrames(left, right []float32) (*Frames, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("channel length mismatch: left %d, right %d", len(left), len(right))
	}
	f := &Frames{frames: make([][2]float32, len(left))}
	for i := range left {
		f.frames[i] = [2]float32{left[i], right[i]}
	}
	return f, nil
}

// Len returns the number of frames.
func (f *Frames) Len() int {
	if f == nil {
		return 0
	}
	return len(f.frames)
}

// At returns frame i.
func (f *Frames) At(i int) [2]float32 {
	return f.frames[i]
}
