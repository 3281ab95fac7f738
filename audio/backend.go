package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrUnknownBackend is returned by OpenBackend for names it does not know.
	ErrUnknownBackend = errors.New("unknown audio backend")
	// ErrBackendUnavailable is returned for backends not compiled into this binary.
	ErrBackendUnavailable = errors.New("audio backend not available in this build")
)

// Renderer fills an output buffer, one slice per channel. It is called from the
// backend's audio thread.
type Renderer interface {
	Process(out [][]float32)
}

// Backend drives a Renderer at a fixed sample rate and block size.
type Backend interface {
	SampleRate() float64
	BlockSize() int
	Channels() int
	Start(r Renderer) error
	Close() error
}

type BackendConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// Names of the available backends.
const (
	BackendPortAudio = "portaudio"
	BackendOto       = "oto"
	BackendNull      = "null"
	BackendOffline   = "offline"
)

// OpenBackend opens the backend with the given name.
func OpenBackend(name string, cfg BackendConfig) (Backend, error) {
	if cfg.SampleRate <= 0 || cfg.BlockSize <= 0 || cfg.Channels <= 0 {
		return nil, fmt.Errorf("invalid backend config: %+v", cfg)
	}
	switch name {
	case BackendPortAudio:
		return newPortAudioBackend(cfg)
	case BackendOto:
		return newOtoBackend(cfg)
	case BackendNull:
		return NewNullBackend(cfg), nil
	case BackendOffline:
		return NewOfflineBackend(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

type format struct{ cfg BackendConfig }

func (f format) SampleRate() float64 { return f.cfg.SampleRate }
func (f format) BlockSize() int      { return f.cfg.BlockSize }
func (f format) Channels() int       { return f.cfg.Channels }

// closeAll calls every fn in order and returns the first error.
func closeAll(fns ...func() error) error {
	var first error
	for _, fn := range fns {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newBlock(cfg BackendConfig) [][]float32 {
	block := make([][]float32, cfg.Channels)
	for ch := range block {
		block[ch] = make([]float32, cfg.BlockSize)
	}
	return block
}

// OfflineBackend renders only when asked to. It is meant for tests and for
// rendering to memory.
type OfflineBackend struct {
	format
	mu       sync.Mutex
	renderer Renderer
	block    [][]float32
}

func NewOfflineBackend(cfg BackendConfig) *OfflineBackend {
	return &OfflineBackend{format: format{cfg}, block: newBlock(cfg)}
}

func (b *OfflineBackend) Start(r Renderer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = r
	return nil
}

// Render runs the renderer for the given number of blocks and returns the
// concatenated output per channel.
func (b *OfflineBackend) Render(blocks int) [][]float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]float32, b.cfg.Channels)
	for n := 0; n < blocks; n++ {
		if b.renderer != nil {
			b.renderer.Process(b.block)
		}
		for ch := range out {
			out[ch] = append(out[ch], b.block[ch]...)
		}
	}
	return out
}

func (b *OfflineBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = nil
	return nil
}

// NullBackend renders blocks at the pace of the wall clock and discards them.
type NullBackend struct {
	format
	cancel context.CancelFunc
	done   chan struct{}
}

func NewNullBackend(cfg BackendConfig) *NullBackend {
	return &NullBackend{format: format{cfg}}
}

func (b *NullBackend) Start(r Renderer) error {
	if b.cancel != nil {
		return errors.New("null backend already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	period := time.Duration(float64(time.Second) * float64(b.cfg.BlockSize) / b.cfg.SampleRate)
	block := newBlock(b.cfg)
	go func() {
		defer close(b.done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Process(block)
			}
		}
	}()
	return nil
}

func (b *NullBackend) Close() error {
	if b.cancel == nil {
		return nil
	}
	b.cancel()
	<-b.done
	b.cancel = nil
	return nil
}
