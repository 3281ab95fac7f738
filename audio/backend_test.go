package audio

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend(t *testing.T) {
	_, err := OpenBackend("jack", testConfig)
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = OpenBackend(BackendOffline, BackendConfig{SampleRate: 44100, Channels: 2})
	assert.Error(t, err)

	b, err := OpenBackend(BackendOffline, testConfig)
	require.NoError(t, err)
	assert.Equal(t, testSampleRate, b.SampleRate())
	assert.Equal(t, 16, b.BlockSize())
	assert.Equal(t, 2, b.Channels())
}

func TestOfflineBackendWithoutRenderer(t *testing.T) {
	b := NewOfflineBackend(testConfig)
	out := b.Render(2)
	require.Len(t, out, 2)
	assert.Len(t, out[0], 32)
}

type countingRenderer struct{ calls atomic.Int64 }

func (r *countingRenderer) Process(out [][]float32) { r.calls.Add(1) }

func TestNullBackend(t *testing.T) {
	b, err := OpenBackend(BackendNull, BackendConfig{SampleRate: 48000, BlockSize: 48, Channels: 2})
	require.NoError(t, err)
	r := &countingRenderer{}
	require.NoError(t, b.Start(r))
	assert.Error(t, b.Start(r))

	assert.Eventually(t, func() bool { return r.calls.Load() > 2 }, time.Second, time.Millisecond)
	require.NoError(t, b.Close())
	calls := r.calls.Load()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, calls, r.calls.Load(), "no rendering after close")
	assert.NoError(t, b.Close())
}

func TestCloseAll(t *testing.T) {
	errStream := errors.New("stream")
	errTerminate := errors.New("terminate")
	var calls []string
	step := func(name string, err error) func() error {
		return func() error {
			calls = append(calls, name)
			return err
		}
	}

	assert.NoError(t, closeAll(step("stream", nil), step("terminate", nil)))
	assert.ErrorIs(t, closeAll(step("stream", nil), step("terminate", errTerminate)), errTerminate)

	calls = nil
	err := closeAll(step("stream", errStream), step("terminate", errTerminate))
	assert.ErrorIs(t, err, errStream)
	assert.Equal(t, []string{"stream", "terminate"}, calls, "later steps run after a failure")
}
