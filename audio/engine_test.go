package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = BackendConfig{SampleRate: testSampleRate, BlockSize: 16, Channels: 2}

func newTestEngine(t *testing.T) (*Engine, *OfflineBackend) {
	t.Helper()
	backend := NewOfflineBackend(testConfig)
	e, err := NewEngine(backend)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, backend
}

type failingBackend struct{ format }

func (failingBackend) Start(Renderer) error { return errors.New("no device") }
func (failingBackend) Close() error         { return nil }

func TestEngineStartFailure(t *testing.T) {
	_, err := NewEngine(failingBackend{format{testConfig}})
	assert.ErrorContains(t, err, "no device")
}

func TestEngineInvalidBlockSize(t *testing.T) {
	_, err := NewEngine(NewOfflineBackend(BackendConfig{SampleRate: 1, BlockSize: 0, Channels: 1}))
	assert.Error(t, err)
}

func TestEngineAttach(t *testing.T) {
	e, backend := newTestEngine(t)

	a := e.Attach(&constGen{channels: 1, value: 0.5, blocks: -1})
	b := e.Attach(&constGen{channels: 1, value: 0.25, blocks: -1})
	assert.NotEqual(t, a, b)
	assert.True(t, e.Playing(a))
	assert.Equal(t, []NodeID{a, b}, e.Nodes())

	out := backend.Render(1)
	assert.Equal(t, float32(0.75), out[0][0])
	assert.Equal(t, float32(0.75), out[1][15])
}

func TestEngineNoticesFinishedNodes(t *testing.T) {
	e, backend := newTestEngine(t)
	snd := &Sound{Frames: rampFrames(20)}
	gen, _ := snd.Playback().Stream()
	id := e.Attach(gen)

	backend.Render(1)
	assert.True(t, e.Playing(id))
	backend.Render(1)
	assert.False(t, e.Playing(id))
	assert.Empty(t, e.Nodes())
}

func TestEngineRemove(t *testing.T) {
	e, backend := newTestEngine(t)
	gen, ctl := Tone{Frequency: 440}.Stream()
	id := e.Attach(gen)
	backend.Render(1)

	e.Remove(id)
	assert.False(t, e.Playing(id))
	out := backend.Render(1)
	assert.Equal(t, make([]float32, 16), out[0])

	// the control outlives its generator
	ctl.SetFrequency(880)
	assert.InDelta(t, 880, ctl.Frequency(), 1e-9)
	require.NoError(t, ctl.Set("freq", 220.0))

	e.Remove(id)
	e.Remove(NodeID(12345))
}

func TestEngineManyNodes(t *testing.T) {
	backend := NewOfflineBackend(testConfig)
	e, err := NewEngineSize(backend, 4)
	require.NoError(t, err)

	var ids []NodeID
	for i := 0; i < 6; i++ {
		ids = append(ids, e.Attach(&constGen{channels: 1, value: 1, blocks: 1}))
	}
	backend.Render(1)
	backend.Render(1)
	for _, id := range ids {
		assert.False(t, e.Playing(id))
	}
}

func TestEngineRemoveWhileInsertWaits(t *testing.T) {
	backend := NewOfflineBackend(testConfig)
	e, err := NewEngineSize(backend, 1)
	require.NoError(t, err)

	a := e.Attach(&constGen{channels: 1, value: 1, blocks: -1})
	backend.Render(1)
	b := e.Attach(&constGen{channels: 1, value: 2, blocks: -1})
	out := backend.Render(1)
	assert.Equal(t, float32(1), out[0][0], "b waits while a holds the only slot")

	e.Remove(a)
	for i := 0; i < 3; i++ {
		out = backend.Render(1)
		assert.Equal(t, float32(2), out[0][0])
	}
	assert.False(t, e.Playing(a))
	assert.True(t, e.Playing(b))
	assert.Equal(t, []NodeID{b}, e.Nodes())
	assert.Zero(t, e.graph.commands.len())
}

func TestEngineDropsPastNodeLimit(t *testing.T) {
	backend := NewOfflineBackend(testConfig)
	e, err := NewEngineSize(backend, 1)
	require.NoError(t, err)

	a := e.Attach(&constGen{channels: 1, value: 1, blocks: -1})
	b := e.Attach(&constGen{channels: 1, value: 2, blocks: -1})
	c := e.Attach(&constGen{channels: 1, value: 4, blocks: -1})
	assert.False(t, e.Playing(c))
	assert.Equal(t, []NodeID{a, b}, e.Nodes())

	out := backend.Render(1)
	assert.Equal(t, float32(1), out[0][0])
	e.Remove(b)
	out = backend.Render(1)
	assert.Equal(t, float32(1), out[0][0])
	assert.Empty(t, e.graph.waiting)
}

func TestEngineInvalidNodeLimit(t *testing.T) {
	_, err := NewEngineSize(NewOfflineBackend(testConfig), 0)
	assert.Error(t, err)
}
