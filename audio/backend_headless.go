//go:build headless

package audio

import "fmt"

func newPortAudioBackend(BackendConfig) (Backend, error) {
	return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, BackendPortAudio)
}

func newOtoBackend(BackendConfig) (Backend, error) {
	return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, BackendOto)
}
