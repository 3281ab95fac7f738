//go:build !headless

package audio

import (
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudioBackend plays through the default output device.
type PortAudioBackend struct {
	format
	stream   *portaudio.Stream
	renderer atomic.Pointer[Renderer]
}

func newPortAudioBackend(cfg BackendConfig) (Backend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	b := &PortAudioBackend{format: format{cfg}}
	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, cfg.SampleRate, cfg.BlockSize, b.process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	b.stream = stream
	return b, nil
}

func (b *PortAudioBackend) Start(r Renderer) error {
	b.renderer.Store(&r)
	return b.stream.Start()
}

func (b *PortAudioBackend) Close() error {
	return closeAll(b.stream.Close, portaudio.Terminate)
}

func (b *PortAudioBackend) process(out [][]float32) {
	r := b.renderer.Load()
	if r == nil {
		for _, ch := range out {
			for i := range ch {
				ch[i] = 0
			}
		}
		return
	}
	(*r).Process(out)
}
