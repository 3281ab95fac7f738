//go:build !headless

package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend plays through oto. Oto pulls bytes, so the backend renders whole
// blocks and hands them out as interleaved little-endian float32 samples.
type OtoBackend struct {
	format
	ctx      *oto.Context
	player   *oto.Player
	renderer atomic.Pointer[Renderer]

	// owned by oto's audio goroutine
	block   [][]float32
	pending []byte
	pos     int
}

func newOtoBackend(cfg BackendConfig) (Backend, error) {
	blockDuration := time.Duration(float64(time.Second) * float64(cfg.BlockSize) / cfg.SampleRate)
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   2 * blockDuration,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	b := &OtoBackend{
		format:  format{cfg},
		ctx:     ctx,
		block:   newBlock(cfg),
		pending: make([]byte, 4*cfg.Channels*cfg.BlockSize),
	}
	b.pos = len(b.pending)
	return b, nil
}

func (b *OtoBackend) Start(r Renderer) error {
	b.renderer.Store(&r)
	b.player = b.ctx.NewPlayer(b)
	b.player.Play()
	return b.player.Err()
}

func (b *OtoBackend) Close() error {
	if b.player == nil {
		return nil
	}
	return b.player.Close()
}

// Read implements io.Reader for the oto player.
func (b *OtoBackend) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if b.pos == len(b.pending) {
			b.renderBlock()
		}
		c := copy(p[n:], b.pending[b.pos:])
		n += c
		b.pos += c
	}
	return n, nil
}

func (b *OtoBackend) renderBlock() {
	if r := b.renderer.Load(); r != nil {
		(*r).Process(b.block)
	}
	channels := len(b.block)
	for ch, samples := range b.block {
		for i, s := range samples {
			off := 4 * (i*channels + ch)
			binary.LittleEndian.PutUint32(b.pending[off:], math.Float32bits(s))
		}
	}
	b.pos = 0
}
