package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampFrames(n int) *Frames {
	left := make([]float32, n)
	right := make([]float32, n)
	for i := range left {
		left[i] = float32(i + 1)
		right[i] = -float32(i + 1)
	}
	f, err := StereoFrames(left, right)
	if err != nil {
		panic(err)
	}
	return f
}

func TestPlaybackExhaustion(t *testing.T) {
	for _, length := range []int{1, 2, 5, 16, 17, 100} {
		for _, blockSize := range []int{1, 4, 16, 64} {
			gen, _ := Playback{Frames: rampFrames(length)}.Stream()
			block := [][]float32{make([]float32, blockSize), make([]float32, blockSize)}

			continues := (length - 1) / blockSize
			for n := 0; n < continues; n++ {
				require.Equal(t, Continue, gen.Process(testSampleRate, block),
					"length %d, block size %d, block %d", length, blockSize, n)
			}
			require.Equal(t, Finished, gen.Process(testSampleRate, block),
				"length %d, block size %d", length, blockSize)

			start := continues * blockSize
			for i := 0; i < blockSize; i++ {
				pos := start + i
				if pos < length {
					assert.Equal(t, float32(pos+1), block[0][i])
					assert.Equal(t, -float32(pos+1), block[1][i])
				} else {
					assert.Zero(t, block[0][i], "left at %d", pos)
					assert.Zero(t, block[1][i], "right at %d", pos)
				}
			}
		}
	}
}

func TestPlaybackEmptyBuffer(t *testing.T) {
	gen, _ := Playback{Frames: MonoFrames(nil)}.Stream()
	block := [][]float32{{1, 1}, {1, 1}}
	assert.Equal(t, Finished, gen.Process(testSampleRate, block))
	assert.Equal(t, [][]float32{{0, 0}, {0, 0}}, block)
}

func TestPlaybackKeepsSilentPastEnd(t *testing.T) {
	gen, _ := Playback{Frames: rampFrames(3)}.Stream()
	block := [][]float32{make([]float32, 4), make([]float32, 4)}
	assert.Equal(t, Finished, gen.Process(testSampleRate, block))
	assert.Equal(t, Finished, gen.Process(testSampleRate, block))
	assert.Equal(t, []float32{0, 0, 0, 0}, block[0])
}

func TestPlaybackSharesFrames(t *testing.T) {
	frames := rampFrames(8)
	snd := &Sound{Frames: frames}
	a, _ := snd.Playback().Stream()
	b, _ := snd.Playback().Stream()

	blockA := [][]float32{make([]float32, 4), make([]float32, 4)}
	blockB := [][]float32{make([]float32, 2), make([]float32, 2)}
	a.Process(testSampleRate, blockA)
	b.Process(testSampleRate, blockB)

	assert.Equal(t, []float32{1, 2, 3, 4}, blockA[0])
	assert.Equal(t, []float32{1, 2}, blockB[0], "each playback has its own cursor")
	assert.Equal(t, [2]float32{1, -1}, frames.At(0), "playback never writes to the frames")
}

func TestPlaybackShape(t *testing.T) {
	gen, ctl := Playback{Frames: rampFrames(1)}.Stream()
	assert.Equal(t, 2, gen.Channels())
	assert.Equal(t, 0, gen.Inputs())
	assert.Empty(t, ctl.Props())
	assert.Error(t, ctl.Set("freq", 1.0))
	_, err := ctl.Get("freq")
	assert.Error(t, err)
}
