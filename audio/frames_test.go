package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func framesOf(f *Frames) [][2]float32 {
	out := make([][2]float32, f.Len())
	for i := range out {
		out[i] = f.At(i)
	}
	return out
}

func TestMonoIsDuplicated(t *testing.T) {
	f, err := NewFrames([][]float32{{0.1, -0.2, 0.3}})
	require.NoError(t, err)
	assert.Equal(t, [][2]float32{{0.1, 0.1}, {-0.2, -0.2}, {0.3, 0.3}}, framesOf(f))
}

func TestStereoIsZipped(t *testing.T) {
	f, err := NewFrames([][]float32{{0.1, 0.2, 0.3}, {-0.4, -0.5, -0.6}})
	require.NoError(t, err)
	assert.Equal(t, [][2]float32{{0.1, -0.4}, {0.2, -0.5}, {0.3, -0.6}}, framesOf(f))
}

func TestUnsupportedChannelCounts(t *testing.T) {
	_, err := NewFrames(nil)
	assert.ErrorIs(t, err, ErrUnsupportedChannels)
	_, err = NewFrames([][]float32{{1}, {2}, {3}})
	assert.ErrorIs(t, err, ErrUnsupportedChannels)
}

func TestStereoLengthMismatch(t *testing.T) {
	_, err := StereoFrames([]float32{1, 2}, []float32{1})
	assert.Error(t, err)
}

func TestNilFramesAreEmpty(t *testing.T) {
	var f *Frames
	assert.Equal(t, 0, f.Len())
}
