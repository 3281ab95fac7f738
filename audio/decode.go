package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/youpy/go-wav"
)

// ErrUnknownFormat is returned for files whose extension has no decoder.
var ErrUnknownFormat = errors.New("unknown audio format")

// Sound is a decoded file. Its frames can be played any number of times.
type Sound struct {
	File       string
	SampleRate int
	Frames     *Frames
}

// Playback returns a description that plays the sound once.
func (s *Sound) Playback() Playback {
	return Playback{Frames: s.Frames}
}

// LoadSound decodes a wav, ogg, mp3 or flac file.
func LoadSound(file string) (*Sound, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	snd, err := DecodeSound(bytes.NewReader(data), filepath.Ext(file))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	snd.File = file
	return snd, nil
}

// DecodeSound decodes an encoded stream. ext selects the decoder and includes the
// leading dot, e.g. ".wav".
func DecodeSound(r *bytes.Reader, ext string) (*Sound, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		return decodeWav(r)
	case ".ogg":
		s, format, err := vorbis.Decode(io.NopCloser(r))
		if err != nil {
			return nil, err
		}
		return decodeStreamer(s, format)
	case ".mp3":
		s, format, err := mp3.Decode(io.NopCloser(r))
		if err != nil {
			return nil, err
		}
		return decodeStreamer(s, format)
	case ".flac":
		s, format, err := flac.Decode(r)
		if err != nil {
			return nil, err
		}
		return decodeStreamer(s, format)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

func decodeWav(r *bytes.Reader) (*Sound, error) {
	wr := wav.NewReader(r)
	format, err := wr.Format()
	if err != nil {
		return nil, err
	}
	numChannels := int(format.NumChannels)
	if numChannels < 1 || numChannels > 2 {
		return nil, fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, numChannels)
	}
	channels := make([][]float32, numChannels)
	for {
		samples, err := wr.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			for ch := range channels {
				channels[ch] = append(channels[ch], float32(wr.FloatValue(sample, uint(ch))))
			}
		}
	}
	frames, err := NewFrames(channels)
	if err != nil {
		return nil, err
	}
	return &Sound{SampleRate: int(format.SampleRate), Frames: frames}, nil
}

// decodeStreamer drains a beep streamer. Beep already delivers mono sources on both
// channels, so the frames are taken as they come.
func decodeStreamer(s beep.StreamSeekCloser, format beep.Format) (*Sound, error) {
	defer s.Close()
	if format.NumChannels < 1 || format.NumChannels > 2 {
		return nil, fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, format.NumChannels)
	}
	var (
		buf    [512][2]float64
		frames [][2]float32
	)
	for {
		n, ok := s.Stream(buf[:])
		for _, f := range buf[:n] {
			frames = append(frames, [2]float32{float32(f[0]), float32(f[1])})
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return &Sound{SampleRate: int(format.SampleRate), Frames: &Frames{frames: frames}}, nil
}
